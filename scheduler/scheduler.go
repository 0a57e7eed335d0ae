// Package scheduler runs the background maintenance jobs: the periodic
// store liveness probe and the daily suggestion cache flush.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/genericbro/genericbro-api/interfaces"
	"github.com/genericbro/genericbro-api/logging"
	"github.com/genericbro/genericbro-api/metrics"
	"github.com/genericbro/genericbro-api/suggestcache"
)

// Probe cadence. Frequent enough that a recovered database is noticed
// quickly; cheap enough (ping + one-row select) to not matter.
const probeInterval = 30 * time.Second

// Scheduler implements interfaces.Scheduler with gocron jobs.
type Scheduler struct {
	jobs  *gocron.Scheduler
	store interfaces.MedicineStore
	cache *suggestcache.Cache
}

// New creates a scheduler for the given store and cache.
func New(store interfaces.MedicineStore, cache *suggestcache.Cache) *Scheduler {
	return &Scheduler{
		jobs:  gocron.NewScheduler(time.Local),
		store: store,
		cache: cache,
	}
}

// Start registers the jobs and runs them asynchronously.
func (s *Scheduler) Start() error {
	if _, err := s.jobs.Every(probeInterval).Do(s.probe); err != nil {
		return err
	}

	// Flush once a day so rows added to the hosted table eventually show
	// up in memoized suggestion lists.
	if _, err := s.jobs.Every(1).Day().At("06:00").Do(s.flushCache); err != nil {
		return err
	}

	s.jobs.StartAsync()
	return nil
}

// Stop halts all jobs.
func (s *Scheduler) Stop() {
	s.jobs.Stop()
}

func (s *Scheduler) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wasAvailable := s.store.Available()
	if err := s.store.Probe(ctx); err != nil {
		metrics.StoreUp.Set(0)
		if wasAvailable {
			logging.Warn("Store became unavailable", "error", err)
		}
		return
	}

	metrics.StoreUp.Set(1)
	if !wasAvailable {
		logging.Info("Store became available")
	}
}

func (s *Scheduler) flushCache() {
	entries := s.cache.Len()
	s.cache.Purge()
	logging.Info("Flushed suggestion cache", "entries", entries)
}
