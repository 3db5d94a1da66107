package controller

import (
	"net/http"

	"EUrbana.dashboard/internal/models"
	"EUrbana.dashboard/internal/service"
	"EUrbana.dashboard/internal/utils"
)

// ConsumptionController handles the /api/consumo routes.
type ConsumptionController struct {
	service *service.DashboardService
}

func NewConsumptionController(service *service.DashboardService) *ConsumptionController {
	return &ConsumptionController{service: service}
}

func (c *ConsumptionController) HandleList(w http.ResponseWriter, r *http.Request) {
	readings, err := c.service.Readings(r.Context(), sessionToken(r))
	if err != nil {
		respondWithServiceError(w, err, "fetching consumption")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, readings)
}

func (c *ConsumptionController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	reading, err := c.service.CreateReading(r.Context(), sessionToken(r), body)
	if err != nil {
		respondWithServiceError(w, err, "creating the reading")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, reading)
}

// HandleHistory queries the archived consumption of one lamp.
func (c *ConsumptionController) HandleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := models.HistoryRequest{
		LampID:         query.Get("luminaria_id"),
		TimeRangeStart: query.Get("time_range_start"),
		TimeRangeStop:  query.Get("time_range_stop"),
		WindowPeriod:   query.Get("window_period"),
	}
	if req.LampID == "" {
		apiErr := models.NewAPIError(models.ErrorCodeMissingParameter, "luminaria_id is required", nil, http.StatusBadRequest)
		utils.RespondWithError(w, apiErr)
		return
	}

	resp, err := c.service.History(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err, "querying consumption history")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (c *ConsumptionController) HandleGet(w http.ResponseWriter, r *http.Request) {
	reading, err := c.service.Reading(r.Context(), sessionToken(r), pathID(r))
	if err != nil {
		respondWithServiceError(w, err, "fetching the reading")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, reading)
}

func (c *ConsumptionController) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	reading, err := c.service.UpdateReading(r.Context(), sessionToken(r), pathID(r), body)
	if err != nil {
		respondWithServiceError(w, err, "updating the reading")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, reading)
}

func (c *ConsumptionController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteReading(r.Context(), sessionToken(r), pathID(r)); err != nil {
		respondWithServiceError(w, err, "deleting the reading")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
