package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"EUrbana.dashboard/internal/analytics"
	"EUrbana.dashboard/internal/cache"
	"EUrbana.dashboard/internal/models"
	"EUrbana.dashboard/internal/repository"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownSeries   = errors.New("unknown series")
	ErrArchiveDisabled = errors.New("consumption archive is not configured")
)

// Collections fetched for one dashboard snapshot.
const (
	CollectionLamps       = "luminarias"
	CollectionReadings    = "consumo"
	CollectionMaintenance = "mantenimiento"
	CollectionUsers       = "usuarios"
)

// FetchObserver is told when a collection fetch failed and was defaulted.
type FetchObserver interface {
	FetchFailed(collection string)
}

// DashboardService fetches the backend collections and turns them into
// dashboard series.
type DashboardService struct {
	backend   repository.Backend
	archive   repository.ReadingArchive
	pipeline  *analytics.Pipeline
	norm      models.Normalizer
	snapshots *cache.Cache[analytics.Snapshot]
	history   *cache.Cache[models.HistoryResponse]
	obs       FetchObserver
}

// NewDashboardService creates a DashboardService. archive may be nil, in which
// case readings are not archived and history queries fail with
// ErrArchiveDisabled. Either cache may be nil.
func NewDashboardService(
	backend repository.Backend,
	archive repository.ReadingArchive,
	pipeline *analytics.Pipeline,
	snapshots *cache.Cache[analytics.Snapshot],
	history *cache.Cache[models.HistoryResponse],
	obs FetchObserver,
) *DashboardService {
	return &DashboardService{
		backend:   backend,
		archive:   archive,
		pipeline:  pipeline,
		norm:      models.Normalizer{Location: pipeline.Config().Location},
		snapshots: snapshots,
		history:   history,
		obs:       obs,
	}
}

func (s *DashboardService) Pipeline() *analytics.Pipeline {
	return s.pipeline
}

// Snapshot returns the four collections visible with token. Each failed
// fetch degrades to an empty collection. A cancelled ctx discards the result.
func (s *DashboardService) Snapshot(ctx context.Context, token string) (analytics.Snapshot, error) {
	key := cache.SnapshotKey(token)
	var gen uint64
	if s.snapshots != nil {
		if snap, ok := s.snapshots.Get(key); ok {
			return snap, nil
		}
		gen = s.snapshots.Generation()
	}

	var lamps, readings, maintenance, users []models.Record
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(collection string, dst *[]models.Record, fn func(context.Context, string) ([]models.Record, error)) {
		g.Go(func() error {
			recs, err := fn(gctx, token)
			if err != nil {
				log.Printf("Error fetching %s, using an empty collection: %v", collection, err)
				if s.obs != nil {
					s.obs.FetchFailed(collection)
				}
				recs = []models.Record{}
			}
			*dst = recs
			return nil
		})
	}
	fetch(CollectionLamps, &lamps, s.backend.FetchLamps)
	fetch(CollectionReadings, &readings, s.backend.FetchReadings)
	fetch(CollectionMaintenance, &maintenance, s.backend.FetchMaintenance)
	fetch(CollectionUsers, &users, s.backend.FetchUsers)
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return analytics.Snapshot{}, err
	}

	snap := analytics.Snapshot{
		Lamps:       s.norm.Lamps(lamps),
		Readings:    s.norm.Readings(readings),
		Maintenance: s.norm.Maintenances(maintenance),
		Users:       s.norm.Users(users),
	}
	// a write that finished during the fetch has purged the cache; the
	// result may predate it, so it is served but not stored
	if s.snapshots != nil {
		s.snapshots.SetIfGeneration(key, snap, gen)
	}
	return snap, nil
}

func (s *DashboardService) Dashboard(ctx context.Context, token string) (analytics.Dashboard, error) {
	snap, err := s.Snapshot(ctx, token)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	return s.pipeline.Dashboard(snap), nil
}

// Series builds one named series, see analytics.SeriesNames.
func (s *DashboardService) Series(ctx context.Context, token, name string) (any, error) {
	if _, ok := s.pipeline.Series(name, analytics.Snapshot{}); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSeries, name)
	}
	snap, err := s.Snapshot(ctx, token)
	if err != nil {
		return nil, err
	}
	series, _ := s.pipeline.Series(name, snap)
	return series, nil
}

// invalidate drops cached snapshots and history after a write went through.
func (s *DashboardService) invalidate() {
	if s.snapshots != nil {
		s.snapshots.Purge()
	}
	if s.history != nil {
		s.history.Purge()
	}
}
