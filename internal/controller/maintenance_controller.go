package controller

import (
	"net/http"

	"EUrbana.dashboard/internal/service"
	"EUrbana.dashboard/internal/utils"
)

type MaintenanceController struct {
	service *service.DashboardService
}

func NewMaintenanceController(service *service.DashboardService) *MaintenanceController {
	return &MaintenanceController{service: service}
}

func (c *MaintenanceController) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := c.service.Maintenance(r.Context(), sessionToken(r))
	if err != nil {
		respondWithServiceError(w, err, "fetching maintenance")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, records)
}

// HandleCreate schedules a maintenance. Records without estado start pending.
func (c *MaintenanceController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	record, err := c.service.CreateMaintenance(r.Context(), sessionToken(r), body)
	if err != nil {
		respondWithServiceError(w, err, "creating the maintenance")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, record)
}
