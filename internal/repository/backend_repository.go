package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"EUrbana.dashboard/internal/models"
	"github.com/go-resty/resty/v2"
)

const (
	lampRoute    = "/luminarias/:id"
	readingRoute = "/consumo/:id"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// BackendError is a non-2xx answer of the backend API.
type BackendError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *BackendError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}
	return nil
}

// Backend is the REST API holding lamps, readings, maintenance and users.
// Collection fetches return records normalised from either a bare array or
// a {data: [...]} envelope; unexpected shapes yield an empty collection.
type Backend interface {
	FetchLamps(ctx context.Context, token string) ([]models.Record, error)
	FetchActiveLamps(ctx context.Context, token string) ([]models.Record, error)
	FetchReadings(ctx context.Context, token string) ([]models.Record, error)
	FetchMaintenance(ctx context.Context, token string) ([]models.Record, error)
	FetchUsers(ctx context.Context, token string) ([]models.Record, error)

	GetLamp(ctx context.Context, token, id string) (models.Record, error)
	UpdateLamp(ctx context.Context, token, id string, body models.Record) (models.Record, error)
	DeleteLamp(ctx context.Context, token, id string) error

	GetReading(ctx context.Context, token, id string) (models.Record, error)
	CreateReading(ctx context.Context, token string, body models.Record) (models.Record, error)
	UpdateReading(ctx context.Context, token, id string, body models.Record) (models.Record, error)
	DeleteReading(ctx context.Context, token, id string) error

	CreateMaintenance(ctx context.Context, token string, body models.Record) (models.Record, error)
	CreateUser(ctx context.Context, token string, body models.Record) (models.Record, error)

	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
}

// RequestObserver is notified of every backend call.
type RequestObserver interface {
	BackendRequest(endpoint string, duration time.Duration, success bool)
}

// BackendRepository talks to the backend API over resty.
type BackendRepository struct {
	client *resty.Client
	obs    RequestObserver
}

// NewBackendRepository creates a BackendRepository. GET requests are retried
// up to retries times on transport errors and 5xx answers.
func NewBackendRepository(baseURL string, timeout time.Duration, retries int, obs RequestObserver) *BackendRepository {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
				return false
			}
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})
	return &BackendRepository{client: client, obs: obs}
}

// do executes method on path. route is the path template used as the
// observer label, so ids never reach it.
func (r *BackendRepository) do(ctx context.Context, token, method, route, path string, body any) ([]byte, error) {
	req := r.client.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	endpoint := method + " " + route
	if err != nil {
		r.observe(endpoint, start, false)
		log.Printf("Backend request %s %s failed: %v", method, path, err)
		return nil, fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		r.observe(endpoint, start, false)
		log.Printf("Backend request %s %s returned status %d", method, path, resp.StatusCode())
		return nil, &BackendError{Method: method, Path: path, Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	r.observe(endpoint, start, true)
	return resp.Body(), nil
}

func (r *BackendRepository) observe(endpoint string, start time.Time, ok bool) {
	if r.obs != nil {
		r.obs.BackendRequest(endpoint, time.Since(start), ok)
	}
}

func (r *BackendRepository) fetchCollection(ctx context.Context, token, path string, envelope ...string) ([]models.Record, error) {
	body, err := r.do(ctx, token, http.MethodGet, path, path, nil)
	if err != nil {
		return nil, err
	}
	return models.DecodeCollection(body, envelope...), nil
}

func (r *BackendRepository) object(ctx context.Context, token, method, route, path string, payload any) (models.Record, error) {
	body, err := r.do(ctx, token, method, route, path, payload)
	if err != nil {
		return nil, err
	}
	rec, ok := models.DecodeObject(body)
	if !ok {
		// some endpoints answer 204 or a bare message
		return models.Record{}, nil
	}
	return rec, nil
}

func (r *BackendRepository) FetchLamps(ctx context.Context, token string) ([]models.Record, error) {
	return r.fetchCollection(ctx, token, "/luminarias")
}

func (r *BackendRepository) FetchActiveLamps(ctx context.Context, token string) ([]models.Record, error) {
	return r.fetchCollection(ctx, token, "/luminarias/activas")
}

func (r *BackendRepository) FetchReadings(ctx context.Context, token string) ([]models.Record, error) {
	return r.fetchCollection(ctx, token, "/consumo")
}

func (r *BackendRepository) FetchMaintenance(ctx context.Context, token string) ([]models.Record, error) {
	return r.fetchCollection(ctx, token, "/mantenimiento")
}

func (r *BackendRepository) FetchUsers(ctx context.Context, token string) ([]models.Record, error) {
	return r.fetchCollection(ctx, token, "/usuarios", "data", "usuarios")
}

func (r *BackendRepository) GetLamp(ctx context.Context, token, id string) (models.Record, error) {
	return r.object(ctx, token, http.MethodGet, lampRoute, "/luminarias/"+pathEscape(id), nil)
}

func (r *BackendRepository) UpdateLamp(ctx context.Context, token, id string, body models.Record) (models.Record, error) {
	return r.object(ctx, token, http.MethodPut, lampRoute, "/luminarias/"+pathEscape(id), body)
}

func (r *BackendRepository) DeleteLamp(ctx context.Context, token, id string) error {
	_, err := r.do(ctx, token, http.MethodDelete, lampRoute, "/luminarias/"+pathEscape(id), nil)
	return err
}

func (r *BackendRepository) GetReading(ctx context.Context, token, id string) (models.Record, error) {
	return r.object(ctx, token, http.MethodGet, readingRoute, "/consumo/"+pathEscape(id), nil)
}

func (r *BackendRepository) CreateReading(ctx context.Context, token string, body models.Record) (models.Record, error) {
	return r.object(ctx, token, http.MethodPost, "/consumo", "/consumo", body)
}

func (r *BackendRepository) UpdateReading(ctx context.Context, token, id string, body models.Record) (models.Record, error) {
	return r.object(ctx, token, http.MethodPut, readingRoute, "/consumo/"+pathEscape(id), body)
}

func (r *BackendRepository) DeleteReading(ctx context.Context, token, id string) error {
	_, err := r.do(ctx, token, http.MethodDelete, readingRoute, "/consumo/"+pathEscape(id), nil)
	return err
}

func (r *BackendRepository) CreateMaintenance(ctx context.Context, token string, body models.Record) (models.Record, error) {
	return r.object(ctx, token, http.MethodPost, "/mantenimiento", "/mantenimiento", body)
}

func (r *BackendRepository) CreateUser(ctx context.Context, token string, body models.Record) (models.Record, error) {
	return r.object(ctx, token, http.MethodPost, "/usuarios/completo", "/usuarios/completo", body)
}

// Login exchanges credentials for a backend token.
func (r *BackendRepository) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	body, err := r.do(ctx, "", http.MethodPost, "/auth/login", "/auth/login", req)
	if err != nil {
		return models.LoginResponse{}, err
	}
	var out models.LoginResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return models.LoginResponse{}, fmt.Errorf("error parsing login response: %w", err)
	}
	if out.Token == "" {
		return models.LoginResponse{}, errors.New("login response carried no token")
	}
	return out, nil
}

func pathEscape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
