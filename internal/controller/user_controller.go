package controller

import (
	"log"
	"net/http"

	"EUrbana.dashboard/internal/service"
	"EUrbana.dashboard/internal/session"
	"EUrbana.dashboard/internal/utils"
)

type UserController struct {
	service *service.DashboardService
}

func NewUserController(service *service.DashboardService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := c.service.Users(r.Context(), sessionToken(r))
	if err != nil {
		respondWithServiceError(w, err, "fetching users")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func (c *UserController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	user, err := c.service.CreateUser(r.Context(), sessionToken(r), body)
	if err != nil {
		respondWithServiceError(w, err, "creating the user")
		return
	}
	if s, ok := session.FromContext(r.Context()); ok {
		log.Printf("User %s created by %s", user.Email, s.Email)
	}
	utils.RespondWithJSON(w, http.StatusCreated, user)
}
