// Package scheduler runs the periodic cache-warming job: every interval it
// re-resolves the cities on the recent-searches list so their cached
// forecasts stay fresh and their histories keep growing.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/atmoslens/weather-dashboard/internal/logger"
	"github.com/atmoslens/weather-dashboard/internal/weather"
)

type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	interval  time.Duration
}

// New creates a Scheduler. A zero or negative interval disables it.
func New(interval time.Duration, service *weather.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		logger.Get().Info("refresh scheduler disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		log := logger.Get()
		log.Debug("running forecast refresh job")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s.service.Refresh(ctx)
		log.Debug("completed forecast refresh job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
