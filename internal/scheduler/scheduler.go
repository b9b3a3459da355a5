package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/mrnez/weewx-ecowitt-API/internal/ecowitt"
	"github.com/mrnez/weewx-ecowitt-API/internal/record"
	"github.com/mrnez/weewx-ecowitt-API/internal/store"
)

// Scheduler drives one augmentation pass per archive interval. Each pass
// builds a fresh record, lets the core enrich it, and archives the result
// whether or not enrichment succeeded: a skipped interval still produces
// an (empty) record, never a half-written one.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *ecowitt.Service
	store     *store.MemoryStore
	units     record.UnitSystem
	interval  time.Duration
	timeout   time.Duration
	logger    *logrus.Logger
}

// New creates a new Scheduler.
func New(service *ecowitt.Service, st *store.MemoryStore, units record.UnitSystem,
	interval, timeout time.Duration, logger *logrus.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		store:     st,
		units:     units,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 60
	}

	_, err := s.scheduler.Every(seconds).Seconds().Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	rec := record.NewArchiveRecord(s.units, time.Now())
	if err := s.service.Augment(ctx, rec); err != nil {
		// Partial writes from this interval stand; the record is archived
		// as-is and the failure is surfaced here, once.
		s.logger.Errorf("scheduler: augmentation failed: %v", err)
	}
	s.store.Save(rec.Snapshot())
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
