// Package controller holds the HTTP handlers of the dashboard API.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"EUrbana.dashboard/internal/analytics"
	"EUrbana.dashboard/internal/models"
	"EUrbana.dashboard/internal/repository"
	"EUrbana.dashboard/internal/service"
	"EUrbana.dashboard/internal/session"
	"EUrbana.dashboard/internal/utils"
	"github.com/gorilla/mux"
)

// respondWithServiceError maps a service or backend error to an APIError.
// action names what was attempted, e.g. "fetching lamps".
func respondWithServiceError(w http.ResponseWriter, err error, action string) {
	var verr *service.ValidationError
	var berr *repository.BackendError
	switch {
	case errors.As(err, &verr):
		code := models.ErrorCodeValidationFailed
		if verr.Missing {
			code = models.ErrorCodeMissingParameter
		}
		utils.RespondWithError(w, models.NewAPIError(code, verr.Error(), map[string]string{"field": verr.Field}, http.StatusBadRequest))
	case errors.As(err, &berr):
		log.Printf("Backend error while %s: %v", action, err)
		utils.RespondWithError(w, models.UpstreamAPIError(berr.Status, upstreamMessage(berr, action), nil))
	case errors.Is(err, repository.ErrInvalidQuery):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest))
	case errors.Is(err, service.ErrUnknownSeries):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeResourceNotFound, err.Error(), map[string]any{"available": analytics.SeriesNames()}, http.StatusNotFound))
	case errors.Is(err, service.ErrArchiveDisabled):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstream, err.Error(), nil, http.StatusServiceUnavailable))
	case errors.Is(err, context.Canceled):
		log.Printf("Request cancelled while %s", action)
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstream, "request cancelled", nil, http.StatusServiceUnavailable))
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("Timeout while %s: %v", action, err)
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstream, fmt.Sprintf("timeout while %s", action), nil, http.StatusGatewayTimeout))
	default:
		log.Printf("Error while %s: %v", action, err)
		utils.RespondWithError(w, models.UpstreamAPIError(0, fmt.Sprintf("error while %s", action), nil))
	}
}

// upstreamMessage prefers the message the backend put in its error body.
func upstreamMessage(berr *repository.BackendError, action string) string {
	if rec, ok := models.DecodeObject([]byte(berr.Body)); ok {
		if msg := rec.String("message", "mensaje", "error"); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("backend returned %d while %s", berr.Status, action)
}

// sessionToken is the backend token of the request's session.
func sessionToken(r *http.Request) string {
	s, _ := session.FromContext(r.Context())
	return s.Token
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (models.Record, bool) {
	var body models.Record
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest))
		return nil, false
	}
	if body == nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, "request body must be a JSON object", nil, http.StatusBadRequest))
		return nil, false
	}
	return body, true
}
