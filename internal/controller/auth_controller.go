package controller

import (
	"errors"
	"log"
	"net/http"

	"EUrbana.dashboard/internal/models"
	"EUrbana.dashboard/internal/repository"
	"EUrbana.dashboard/internal/session"
	"EUrbana.dashboard/internal/utils"
)

// AuthController opens and closes dashboard sessions.
type AuthController struct {
	sessions *session.Manager
}

func NewAuthController(sessions *session.Manager) *AuthController {
	return &AuthController{sessions: sessions}
}

// HandleLogin exchanges {correo, password} for a session.
func (c *AuthController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeBadRequest, "Invalid request payload", nil, http.StatusBadRequest))
		return
	}

	s, err := c.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var berr *repository.BackendError
		switch {
		case errors.Is(err, session.ErrMissingCredentials):
			utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMissingParameter, err.Error(), nil, http.StatusBadRequest))
		case errors.As(err, &berr) && (berr.Status == http.StatusUnauthorized || berr.Status == http.StatusBadRequest || berr.Status == http.StatusNotFound):
			log.Printf("Login rejected for %s: %d", req.Email, berr.Status)
			utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidCredentials, "Invalid email or password", nil, http.StatusUnauthorized))
		default:
			respondWithServiceError(w, err, "logging in")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, s)
}

func (c *AuthController) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := c.sessions.Logout(r.Context(), sessionToken(r)); err != nil {
		log.Printf("Error during logout: %v", err)
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, "Error closing session", nil, http.StatusInternalServerError))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Session closed"})
}

// HandleSession returns the caller's session.
func (c *AuthController) HandleSession(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUnauthorized, "No active session", nil, http.StatusUnauthorized))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, s)
}
