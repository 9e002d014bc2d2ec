// Package weather orchestrates city lookups: cache consultation, upstream
// resolution, normalization, and the side effects on the recent-searches and
// history stores.
package weather

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/atmoslens/weather-dashboard/internal/apperrors"
	"github.com/atmoslens/weather-dashboard/internal/cache"
	"github.com/atmoslens/weather-dashboard/internal/forecast"
	"github.com/atmoslens/weather-dashboard/internal/history"
	"github.com/atmoslens/weather-dashboard/internal/logger"
	"github.com/atmoslens/weather-dashboard/internal/metrics"
	"github.com/atmoslens/weather-dashboard/internal/search"
	"github.com/atmoslens/weather-dashboard/internal/upstream"
)

// Fetcher is the upstream collaborator. Retry policy lives behind this
// interface; the service itself never retries.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, city string) (upstream.Response, error)
}

// FallbackMode selects what happens when the upstream is unreachable.
type FallbackMode string

const (
	// FallbackStrict surfaces the typed error to the caller.
	FallbackStrict FallbackMode = "strict"
	// FallbackSample substitutes a deterministic placeholder forecast,
	// caches it under the same TTL, and still records the search.
	FallbackSample FallbackMode = "sample"
)

type searchJob struct {
	city    string
	country string
}

// Service resolves city lookups. One instance is shared by all request
// handlers; the stores it uses are constructed and injected, never ambient.
type Service struct {
	fetcher  Fetcher
	cache    *cache.Cache
	searches *search.Store
	history  *history.Store
	fallback FallbackMode
	now      func() time.Time

	jobs      chan searchJob
	done      chan struct{}
	closeOnce sync.Once
}

// NewService creates a Service and starts its search-recording worker. Call
// Close to drain the worker before shutdown.
func NewService(fetcher Fetcher, c *cache.Cache, searches *search.Store, h *history.Store, fallback FallbackMode) *Service {
	s := &Service{
		fetcher:  fetcher,
		cache:    c,
		searches: searches,
		history:  h,
		fallback: fallback,
		now:      time.Now,
		jobs:     make(chan searchJob, 64),
		done:     make(chan struct{}),
	}
	go s.recordWorker()
	return s
}

// recordWorker applies recent-search recording off the lookup hot path.
// Recording is best-effort: failures are logged, never surfaced.
func (s *Service) recordWorker() {
	defer close(s.done)
	for job := range s.jobs {
		if _, err := s.searches.Record(job.city, job.country); err != nil {
			logger.Get().Warnw("failed to record recent search",
				"city", job.city,
				"error", err,
			)
		}
	}
}

// Close drains pending search recordings and stops the worker.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.jobs)
		<-s.done
	})
}

func (s *Service) enqueueRecord(city, country string) {
	select {
	case s.jobs <- searchJob{city: city, country: country}:
	default:
		logger.Get().Warnw("search record queue full, dropping", "city", city)
	}
}

// Lookup resolves a forecast for the given free-text city. Cache hits return
// immediately and do not touch the recent-searches list; the list reflects
// lookups that triggered real resolution.
func (s *Service) Lookup(ctx context.Context, city string) (forecast.Forecast, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveLookup(time.Since(start))
	}()

	trimmed := strings.TrimSpace(city)
	if trimmed == "" {
		return forecast.Forecast{}, apperrors.New(apperrors.InvalidArgument, "city is required")
	}

	key := cache.NormalizeKey(trimmed)
	if cached, ok := s.cache.Get(key); ok {
		metrics.CacheHitsTotal.Inc()
		return cached, nil
	}
	metrics.CacheMissesTotal.Inc()

	return s.resolve(ctx, key, trimmed, true)
}

// Refresh re-resolves every city currently on the recent-searches list,
// warming the cache and extending history. It never mutates the list itself.
func (s *Service) Refresh(ctx context.Context) {
	log := logger.Get()
	for _, e := range s.searches.List(search.DefaultMaxRecent) {
		key := cache.NormalizeKey(e.City)
		if _, err := s.resolve(ctx, key, e.City, false); err != nil {
			log.Warnw("refresh failed", "city", e.City, "error", err)
		}
	}
}

// History returns observed-conditions samples for city between from and to.
func (s *Service) History(city string, from, to time.Time) ([]history.Point, error) {
	trimmed := strings.TrimSpace(city)
	if trimmed == "" {
		return nil, apperrors.New(apperrors.InvalidArgument, "city is required")
	}
	return s.history.Range(cache.NormalizeKey(trimmed), from, to)
}

// resolve performs the miss path: upstream fetch, normalization, cache and
// history writes, and (for user-initiated lookups) the async search record.
// Once the fetch has succeeded the writes run to completion, favoring cache
// warmth over strict cancellation.
func (s *Service) resolve(ctx context.Context, key, display string, recordSearch bool) (forecast.Forecast, error) {
	resp, err := s.fetcher.Fetch(ctx, display)
	if err != nil {
		return s.handleFetchError(err, key, display, recordSearch)
	}

	built, err := forecast.Build(resp, s.now())
	if err != nil {
		metrics.RecordUpstream(metrics.OutcomeMalformed)
		return forecast.Forecast{}, apperrors.Wrap(err, apperrors.MalformedUpstream, "upstream payload malformed")
	}
	metrics.RecordUpstream(metrics.OutcomeOK)

	s.cache.Put(key, built)
	s.history.Append(key, history.Point{
		Dt:        built.Current.Dt,
		Temp:      built.Current.Temp,
		FeelsLike: built.Current.FeelsLike,
		Humidity:  built.Current.Humidity,
		WindSpeed: built.Current.WindSpeed,
		Pressure:  built.Current.Pressure,
		Weather:   built.Current.Weather,
	})
	if recordSearch {
		s.enqueueRecord(built.Current.City, built.Current.Country)
	}

	return built, nil
}

func (s *Service) handleFetchError(err error, key, display string, recordSearch bool) (forecast.Forecast, error) {
	switch {
	case errors.Is(err, upstream.ErrCityNotFound):
		metrics.RecordUpstream(metrics.OutcomeNotFound)
		return forecast.Forecast{}, apperrors.Wrap(err, apperrors.CityNotFound, "no matching city")

	case errors.Is(err, upstream.ErrAuth):
		metrics.RecordUpstream(metrics.OutcomeAuth)
		return forecast.Forecast{}, apperrors.Wrap(err, apperrors.UpstreamAuth, "upstream rejected credentials")

	default:
		metrics.RecordUpstream(metrics.OutcomeTransport)
		if s.fallback == FallbackSample {
			logger.Get().Warnw("upstream unavailable, serving sample data",
				"city", display,
				"error", err,
			)
			placeholder := forecast.Sample(display, s.now())
			s.cache.Put(key, placeholder)
			if recordSearch {
				s.enqueueRecord(display, placeholder.Current.Country)
			}
			return placeholder, nil
		}
		return forecast.Forecast{}, apperrors.Wrap(err, apperrors.UpstreamUnavailable, "upstream fetch failed")
	}
}
