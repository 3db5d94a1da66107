package service

import (
	"context"
	"log"
	"strings"

	"EUrbana.dashboard/internal/analytics"
	"EUrbana.dashboard/internal/cache"
	"EUrbana.dashboard/internal/models"
)

// Lamps lists every lamp. Unlike Snapshot, backend errors are returned.
func (s *DashboardService) Lamps(ctx context.Context, token string) ([]models.Lamp, error) {
	recs, err := s.backend.FetchLamps(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.norm.Lamps(recs), nil
}

func (s *DashboardService) ActiveLamps(ctx context.Context, token string) ([]models.Lamp, error) {
	recs, err := s.backend.FetchActiveLamps(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.norm.Lamps(recs), nil
}

// LampTable filters and pages the lamps of the current snapshot.
func (s *DashboardService) LampTable(ctx context.Context, token string, q analytics.LampQuery) (analytics.LampPage, error) {
	snap, err := s.Snapshot(ctx, token)
	if err != nil {
		return analytics.LampPage{}, err
	}
	return s.pipeline.FilterLamps(snap.Lamps, q), nil
}

func (s *DashboardService) Lamp(ctx context.Context, token, id string) (models.Lamp, error) {
	if err := requireID(id); err != nil {
		return models.Lamp{}, err
	}
	rec, err := s.backend.GetLamp(ctx, token, id)
	if err != nil {
		return models.Lamp{}, err
	}
	return s.norm.Lamp(rec), nil
}

func (s *DashboardService) UpdateLamp(ctx context.Context, token, id string, body models.Record) (models.Lamp, error) {
	if err := requireID(id); err != nil {
		return models.Lamp{}, err
	}
	if len(body) == 0 {
		return models.Lamp{}, invalid("body", "no fields to update")
	}
	rec, err := s.backend.UpdateLamp(ctx, token, id, body)
	if err != nil {
		return models.Lamp{}, err
	}
	s.invalidate()
	return s.norm.Lamp(rec), nil
}

func (s *DashboardService) DeleteLamp(ctx context.Context, token, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := s.backend.DeleteLamp(ctx, token, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// LampMaintenance lists the maintenance history of one lamp.
func (s *DashboardService) LampMaintenance(ctx context.Context, token, id string) ([]models.Maintenance, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, token)
	if err != nil {
		return nil, err
	}
	return analytics.MaintenanceForLamp(snap.Maintenance, id), nil
}

// RecentReadings returns the latest readings of one lamp, oldest first.
func (s *DashboardService) RecentReadings(ctx context.Context, token, id string) ([]models.Reading, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.pipeline.RecentReadings(snap.Readings, id), nil
}

func (s *DashboardService) Readings(ctx context.Context, token string) ([]models.Reading, error) {
	recs, err := s.backend.FetchReadings(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.norm.Readings(recs), nil
}

func (s *DashboardService) Reading(ctx context.Context, token, id string) (models.Reading, error) {
	if err := requireID(id); err != nil {
		return models.Reading{}, err
	}
	rec, err := s.backend.GetReading(ctx, token, id)
	if err != nil {
		return models.Reading{}, err
	}
	return s.norm.Reading(rec), nil
}

// CreateReading stores a reading in the backend and, when configured, copies
// it to the archive. Archive failures are logged and do not fail the call.
func (s *DashboardService) CreateReading(ctx context.Context, token string, body models.Record) (models.Reading, error) {
	if err := requireField(body, "luminaria_id", "luminaria"); err != nil {
		return models.Reading{}, err
	}
	if err := requireNumber(body, "valor"); err != nil {
		return models.Reading{}, err
	}
	rec, err := s.backend.CreateReading(ctx, token, body)
	if err != nil {
		return models.Reading{}, err
	}

	reading := s.norm.Reading(rec)
	if reading.LampID == "" {
		// some backends answer with only the id
		submitted := s.norm.Reading(body)
		submitted.ID = reading.ID
		reading = submitted
	}
	if s.archive != nil {
		if err := s.archive.WriteReading(ctx, reading); err != nil {
			log.Printf("Error archiving reading of %s: %v", reading.LampID, err)
		}
	}
	s.invalidate()
	return reading, nil
}

func (s *DashboardService) UpdateReading(ctx context.Context, token, id string, body models.Record) (models.Reading, error) {
	if err := requireID(id); err != nil {
		return models.Reading{}, err
	}
	if _, ok := body["valor"]; ok {
		if err := requireNumber(body, "valor"); err != nil {
			return models.Reading{}, err
		}
	}
	rec, err := s.backend.UpdateReading(ctx, token, id, body)
	if err != nil {
		return models.Reading{}, err
	}
	s.invalidate()
	return s.norm.Reading(rec), nil
}

func (s *DashboardService) DeleteReading(ctx context.Context, token, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := s.backend.DeleteReading(ctx, token, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// History returns archived consumption of one lamp in fixed windows.
func (s *DashboardService) History(ctx context.Context, req models.HistoryRequest) (models.HistoryResponse, error) {
	if s.archive == nil {
		return models.HistoryResponse{}, ErrArchiveDisabled
	}
	req.LampID = strings.TrimSpace(req.LampID)
	if req.LampID == "" {
		return models.HistoryResponse{}, missing("luminaria_id")
	}
	if req.TimeRangeStart == "" {
		req.TimeRangeStart = "-24h"
	}
	if req.WindowPeriod == "" {
		req.WindowPeriod = "1h"
	}
	if s.history == nil {
		return s.archive.QueryHistory(ctx, req)
	}

	key := cache.HistoryKey(req.LampID, req.TimeRangeStart, req.TimeRangeStop, req.WindowPeriod)
	if resp, ok := s.history.Get(key); ok {
		return resp, nil
	}
	gen := s.history.Generation()
	resp, err := s.archive.QueryHistory(ctx, req)
	if err != nil {
		return models.HistoryResponse{}, err
	}
	s.history.SetIfGeneration(key, resp, gen)
	return resp, nil
}

func (s *DashboardService) Maintenance(ctx context.Context, token string) ([]models.Maintenance, error) {
	recs, err := s.backend.FetchMaintenance(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.norm.Maintenances(recs), nil
}

func (s *DashboardService) CreateMaintenance(ctx context.Context, token string, body models.Record) (models.Maintenance, error) {
	if err := requireField(body, "luminaria_id", "luminaria"); err != nil {
		return models.Maintenance{}, err
	}
	if body.String("estado") == "" {
		body["estado"] = "pendiente"
	}
	rec, err := s.backend.CreateMaintenance(ctx, token, body)
	if err != nil {
		return models.Maintenance{}, err
	}
	s.invalidate()
	return s.norm.Maintenance(rec), nil
}

func (s *DashboardService) Users(ctx context.Context, token string) ([]models.User, error) {
	recs, err := s.backend.FetchUsers(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.norm.Users(recs), nil
}

// CreateUser registers a user with its profile in one backend call.
func (s *DashboardService) CreateUser(ctx context.Context, token string, body models.Record) (models.User, error) {
	for _, field := range []string{"nombre", "correo", "password"} {
		if err := requireField(body, field); err != nil {
			return models.User{}, err
		}
	}
	if !strings.Contains(body.String("correo"), "@") {
		return models.User{}, invalid("correo", "not an email address")
	}
	if rol := body.String("rol"); rol != "" {
		body["rol"] = string(models.ParseRole(rol))
	}
	rec, err := s.backend.CreateUser(ctx, token, body)
	if err != nil {
		return models.User{}, err
	}
	s.invalidate()
	return s.norm.User(rec), nil
}
