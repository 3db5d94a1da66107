package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EUrbana.dashboard/internal/analytics"
	"EUrbana.dashboard/internal/cache"
	"EUrbana.dashboard/internal/controller"
	"EUrbana.dashboard/internal/metrics"
	"EUrbana.dashboard/internal/middleware"
	"EUrbana.dashboard/internal/models"
	"EUrbana.dashboard/internal/repository"
	"EUrbana.dashboard/internal/service"
	"EUrbana.dashboard/internal/session"
)

// fakeBackend emulates the backend REST API.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	write := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}

	r.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch {
		case req.Email == "ana@eurbana.mx" && req.Password == "secreto":
			write(w, http.StatusOK, `{"token":"tok-admin","rol":"admin"}`)
		case req.Email == "luis@eurbana.mx" && req.Password == "secreto":
			write(w, http.StatusOK, `{"token":"tok-user","rol":"usuario"}`)
		default:
			write(w, http.StatusUnauthorized, `{"message":"Credenciales inválidas"}`)
		}
	}).Methods(http.MethodPost)

	r.HandleFunc("/luminarias", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `[
			{"_id":"L1","identificador":"TUL-001","estado":"funcionando","ciudad":"Tulancingo","coordenadas":{"lat":20.08,"lng":-98.36}},
			{"_id":"L2","identificador":"PAC-001","estado":"apagada","ciudad":"Pachuca"}
		]`)
	}).Methods(http.MethodGet)
	r.HandleFunc("/luminarias/activas", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `{"data":[{"_id":"L1","estado":"funcionando"}]}`)
	}).Methods(http.MethodGet)
	r.HandleFunc("/luminarias/{id}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] != "L1" {
			write(w, http.StatusNotFound, `{"message":"Luminaria no encontrada"}`)
			return
		}
		write(w, http.StatusOK, `{"data":{"_id":"L1","estado":"funcionando"}}`)
	}).Methods(http.MethodGet)

	r.HandleFunc("/consumo", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `{"data":[{"_id":"C1","luminaria_id":"L1","fecha":"2024-05-01T10:00:00","valor":"12.5"}]}`)
	}).Methods(http.MethodGet)
	r.HandleFunc("/consumo", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusCreated, `{"_id":"C9","luminaria_id":"L1","valor":3}`)
	}).Methods(http.MethodPost)

	r.HandleFunc("/mantenimiento", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusInternalServerError, `{"message":"db down"}`)
	}).Methods(http.MethodGet)

	r.HandleFunc("/usuarios", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `{"usuarios":[{"_id":"U1","nombre":"Ana","rol":"admin"}]}`)
	}).Methods(http.MethodGet)
	r.HandleFunc("/usuarios/completo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		write(w, http.StatusCreated, string(body))
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	srv := fakeBackend(t)
	m := metrics.NewMetrics()

	backend := repository.NewBackendRepository(srv.URL, 2*time.Second, 0, m)
	pipeline := analytics.New(analytics.Config{Location: time.UTC})
	svc := service.NewDashboardService(backend, nil, pipeline, cache.New[analytics.Snapshot](time.Minute, m), nil, m)
	sessions := session.NewManager(session.NewMemoryStore(), backend, time.Hour, m)

	router := mux.NewRouter()
	router.Use(m.Middleware)
	RegisterRoutes(router, Controllers{
		Auth:        controller.NewAuthController(sessions),
		Dashboard:   controller.NewDashboardController(svc),
		Lamps:       controller.NewLampController(svc),
		Consumption: controller.NewConsumptionController(svc),
		Maintenance: controller.NewMaintenanceController(svc),
		Users:       controller.NewUserController(svc),
	}, Middlewares{
		Session:     middleware.RequireSession(sessions),
		RequireRole: middleware.RequireRole,
	}, m.Handler())
	return router
}

func call(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/api/auth/login", "", `{"correo":"`+email+`","password":"secreto"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var s session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s.Token
}

func apiError(t *testing.T, rec *httptest.ResponseRecorder) models.APIError {
	t.Helper()
	var e models.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t)
	rec := call(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = call(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dashboard_http_requests_total")
}

func TestLogin(t *testing.T) {
	h := newTestRouter(t)

	rec := call(t, h, http.MethodPost, "/api/auth/login", "", `{"correo":"ana@eurbana.mx","password":"mal"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, models.ErrorCodeInvalidCredentials, apiError(t, rec).Code)

	rec = call(t, h, http.MethodPost, "/api/auth/login", "", `{"correo":"ana@eurbana.mx"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.ErrorCodeMissingParameter, apiError(t, rec).Code)

	rec = call(t, h, http.MethodPost, "/api/auth/login", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	token := login(t, h, "ana@eurbana.mx")
	rec = call(t, h, http.MethodGet, "/api/auth/session", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var s session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, models.RoleAdmin, s.Role)
	assert.Equal(t, "ana@eurbana.mx", s.Email)

	rec = call(t, h, http.MethodPost, "/api/auth/logout", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = call(t, h, http.MethodGet, "/api/auth/session", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	h := newTestRouter(t)
	for _, path := range []string{"/api/dashboard", "/api/luminarias", "/api/consumo", "/api/usuarios"} {
		rec := call(t, h, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		rec = call(t, h, http.MethodGet, path, "forged", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestDashboard(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h, "ana@eurbana.mx")

	rec := call(t, h, http.MethodGet, "/api/dashboard", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var d analytics.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, 2, d.Summary.TotalLamps)
	assert.Equal(t, 1, d.Summary.ActiveLamps)
	assert.Equal(t, 1, d.Summary.TotalUsers)
	assert.Equal(t, 12.5, d.Summary.AverageConsumption)
	// the maintenance endpoint fails, so its chart shows the placeholder months
	assert.Len(t, d.MonthlyMaintenance, 6)
	assert.Equal(t, 1, d.Map.LampCount)

	rec = call(t, h, http.MethodGet, "/api/dashboard/series/ciudad", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cities []analytics.Slice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cities))
	assert.Len(t, cities, 2)

	rec = call(t, h, http.MethodGet, "/api/dashboard/series/nope", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/dashboard/series", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), analytics.SeriesHourlyConsumption)
}

func TestLampRoutes(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h, "luis@eurbana.mx")

	rec := call(t, h, http.MethodGet, "/api/luminarias/activas", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var lamps []models.Lamp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lamps))
	require.Len(t, lamps, 1)
	assert.Equal(t, "L1", lamps[0].ID)

	rec = call(t, h, http.MethodGet, "/api/luminarias/L1", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/luminarias/L404", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	e := apiError(t, rec)
	assert.Equal(t, models.ErrorCodeResourceNotFound, e.Code)
	assert.Equal(t, "Luminaria no encontrada", e.Message)

	rec = call(t, h, http.MethodGet, "/api/luminarias/tabla?ciudad=Pachuca", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page analytics.LampPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, []string{"Pachuca", "Tulancingo"}, page.Cities)

	rec = call(t, h, http.MethodGet, "/api/luminarias/tabla?page=dos", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/luminarias/L1/consumo/recientes", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var readings []models.Reading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &readings))
	assert.Len(t, readings, 1)
}

func TestConsumptionRoutes(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h, "luis@eurbana.mx")

	rec := call(t, h, http.MethodPost, "/api/consumo", token, `{"luminaria_id":"L1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.ErrorCodeMissingParameter, apiError(t, rec).Code)

	rec = call(t, h, http.MethodPost, "/api/consumo", token, `{"luminaria_id":"L1","valor":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reading models.Reading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reading))
	assert.Equal(t, "C9", reading.ID)

	rec = call(t, h, http.MethodGet, "/api/consumo/historial", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/consumo/historial?luminaria_id=L1", token, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/mantenimiento", token, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, models.ErrorCodeUpstream, apiError(t, rec).Code)
}

func TestCreateUserNeedsAdmin(t *testing.T) {
	h := newTestRouter(t)
	body := `{"nombre":"Eva","correo":"eva@eurbana.mx","password":"x","rol":"supervisor"}`

	rec := call(t, h, http.MethodPost, "/api/usuarios", login(t, h, "luis@eurbana.mx"), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, h, http.MethodPost, "/api/usuarios", login(t, h, "ana@eurbana.mx"), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var u models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, models.RoleSupervisor, u.Role)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(t)
	rec := call(t, h, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, models.ErrorCodeNotFound, apiError(t, rec).Code)
}
