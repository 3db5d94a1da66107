package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"EUrbana.dashboard/internal/analytics"
	"EUrbana.dashboard/internal/models"
	"EUrbana.dashboard/internal/service"
	"EUrbana.dashboard/internal/utils"
)

// LampController handles the /api/luminarias routes.
type LampController struct {
	service *service.DashboardService
}

func NewLampController(service *service.DashboardService) *LampController {
	return &LampController{service: service}
}

func (c *LampController) HandleList(w http.ResponseWriter, r *http.Request) {
	lamps, err := c.service.Lamps(r.Context(), sessionToken(r))
	if err != nil {
		respondWithServiceError(w, err, "fetching lamps")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lamps)
}

func (c *LampController) HandleActive(w http.ResponseWriter, r *http.Request) {
	lamps, err := c.service.ActiveLamps(r.Context(), sessionToken(r))
	if err != nil {
		respondWithServiceError(w, err, "fetching active lamps")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lamps)
}

// HandleTable serves one page of the filtered lamp table.
func (c *LampController) HandleTable(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := analytics.LampQuery{
		Search: query.Get("search"),
		City:   query.Get("ciudad"),
		State:  query.Get("estado"),
	}
	if p := query.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			apiErr := models.NewAPIError(models.ErrorCodeInvalidFormat, fmt.Sprintf("page must be an integer, got %q", p), nil, http.StatusBadRequest)
			utils.RespondWithError(w, apiErr)
			return
		}
		q.Page = page
	}

	page, err := c.service.LampTable(r.Context(), sessionToken(r), q)
	if err != nil {
		respondWithServiceError(w, err, "building the lamp table")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, page)
}

func (c *LampController) HandleGet(w http.ResponseWriter, r *http.Request) {
	lamp, err := c.service.Lamp(r.Context(), sessionToken(r), pathID(r))
	if err != nil {
		respondWithServiceError(w, err, "fetching the lamp")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lamp)
}

func (c *LampController) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	lamp, err := c.service.UpdateLamp(r.Context(), sessionToken(r), pathID(r), body)
	if err != nil {
		respondWithServiceError(w, err, "updating the lamp")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lamp)
}

func (c *LampController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteLamp(r.Context(), sessionToken(r), pathID(r)); err != nil {
		respondWithServiceError(w, err, "deleting the lamp")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *LampController) HandleMaintenance(w http.ResponseWriter, r *http.Request) {
	records, err := c.service.LampMaintenance(r.Context(), sessionToken(r), pathID(r))
	if err != nil {
		respondWithServiceError(w, err, "fetching the maintenance history")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, records)
}

func (c *LampController) HandleRecentReadings(w http.ResponseWriter, r *http.Request) {
	readings, err := c.service.RecentReadings(r.Context(), sessionToken(r), pathID(r))
	if err != nil {
		respondWithServiceError(w, err, "fetching recent readings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, readings)
}
