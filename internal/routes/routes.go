package routes

import (
	"fmt"
	"net/http"

	"EUrbana.dashboard/internal/controller"
	"EUrbana.dashboard/internal/models"
	"EUrbana.dashboard/internal/utils"
	"github.com/gorilla/mux"
)

// Controllers groups the handlers mounted by RegisterRoutes.
type Controllers struct {
	Auth        *controller.AuthController
	Dashboard   *controller.DashboardController
	Lamps       *controller.LampController
	Consumption *controller.ConsumptionController
	Maintenance *controller.MaintenanceController
	Users       *controller.UserController
}

// Middlewares are applied to the session-protected /api routes in order.
type Middlewares struct {
	// optional, nil when no JWT secret is configured
	ValidToken  func(http.Handler) http.Handler
	Session     func(http.Handler) http.Handler
	RequireRole func(roles ...models.Role) func(http.Handler) http.Handler
}

// RegisterRoutes registers all application routes.
func RegisterRoutes(router *mux.Router, c Controllers, mw Middlewares, metrics http.Handler) {
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotFound, fmt.Sprintf("no route for %s", r.URL.Path), nil, http.StatusNotFound))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMethodNotAllowed, "Method not allowed", nil, http.StatusMethodNotAllowed))
	})

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}).Methods(http.MethodGet)
	if metrics != nil {
		router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	router.HandleFunc("/api/auth/login", c.Auth.HandleLogin).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	if mw.ValidToken != nil {
		api.Use(mw.ValidToken)
	}
	api.Use(mw.Session)

	api.HandleFunc("/auth/logout", c.Auth.HandleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/session", c.Auth.HandleSession).Methods(http.MethodGet)

	api.HandleFunc("/dashboard", c.Dashboard.HandleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/series", c.Dashboard.HandleSeriesNames).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/series/{name}", c.Dashboard.HandleSeries).Methods(http.MethodGet)

	// Lamps. Fixed paths go before /{id}.
	api.HandleFunc("/luminarias", c.Lamps.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/luminarias/activas", c.Lamps.HandleActive).Methods(http.MethodGet)
	api.HandleFunc("/luminarias/tabla", c.Lamps.HandleTable).Methods(http.MethodGet)
	api.HandleFunc("/luminarias/{id}", c.Lamps.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/luminarias/{id}", c.Lamps.HandleUpdate).Methods(http.MethodPut)
	api.HandleFunc("/luminarias/{id}", c.Lamps.HandleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/luminarias/{id}/mantenimiento", c.Lamps.HandleMaintenance).Methods(http.MethodGet)
	api.HandleFunc("/luminarias/{id}/consumo/recientes", c.Lamps.HandleRecentReadings).Methods(http.MethodGet)

	// Consumption
	api.HandleFunc("/consumo", c.Consumption.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/consumo", c.Consumption.HandleCreate).Methods(http.MethodPost)
	api.HandleFunc("/consumo/historial", c.Consumption.HandleHistory).Methods(http.MethodGet)
	api.HandleFunc("/consumo/{id}", c.Consumption.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/consumo/{id}", c.Consumption.HandleUpdate).Methods(http.MethodPut)
	api.HandleFunc("/consumo/{id}", c.Consumption.HandleDelete).Methods(http.MethodDelete)

	api.HandleFunc("/mantenimiento", c.Maintenance.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/mantenimiento", c.Maintenance.HandleCreate).Methods(http.MethodPost)

	api.HandleFunc("/usuarios", c.Users.HandleList).Methods(http.MethodGet)
	api.Handle("/usuarios", mw.RequireRole(models.RoleAdmin)(http.HandlerFunc(c.Users.HandleCreate))).Methods(http.MethodPost)
}
