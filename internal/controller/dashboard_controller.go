package controller

import (
	"net/http"

	"EUrbana.dashboard/internal/analytics"
	"EUrbana.dashboard/internal/service"
	"EUrbana.dashboard/internal/utils"
	"github.com/gorilla/mux"
)

// DashboardController serves the chart series.
type DashboardController struct {
	service *service.DashboardService
}

func NewDashboardController(service *service.DashboardService) *DashboardController {
	return &DashboardController{service: service}
}

// HandleDashboard returns every series of the main view.
func (c *DashboardController) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := c.service.Dashboard(r.Context(), sessionToken(r))
	if err != nil {
		respondWithServiceError(w, err, "building the dashboard")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, d)
}

func (c *DashboardController) HandleSeriesNames(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string][]string{"series": analytics.SeriesNames()})
}

func (c *DashboardController) HandleSeries(w http.ResponseWriter, r *http.Request) {
	series, err := c.service.Series(r.Context(), sessionToken(r), mux.Vars(r)["name"])
	if err != nil {
		respondWithServiceError(w, err, "building the series")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, series)
}
