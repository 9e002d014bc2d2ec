// Package history keeps a retention-bounded time series of observed
// conditions per city, feeding the dashboard's historical trends view.
package history

import (
	"errors"
	"sync"
	"time"

	"github.com/atmoslens/weather-dashboard/internal/forecast"
)

// ErrNotFound is returned when no history exists for a city or range.
var ErrNotFound = errors.New("no weather history for city")

// Point is one observed-conditions sample.
type Point struct {
	Dt        int64                `json:"dt"`
	Temp      float64              `json:"temp"`
	FeelsLike float64              `json:"feels_like"`
	Humidity  float64              `json:"humidity"`
	WindSpeed float64              `json:"wind_speed"`
	Pressure  *float64             `json:"pressure,omitempty"`
	Weather   []forecast.Condition `json:"weather"`
}

// Store is a concurrency-safe in-memory history keyed by normalized city.
type Store struct {
	mu   sync.RWMutex
	data map[string][]Point

	maxPoints int           // max samples per city (0 = unlimited)
	maxAge    time.Duration // max sample age (0 = unlimited)
}

// NewStore creates a Store with the given retention limits.
func NewStore(maxPoints int, maxAge time.Duration) *Store {
	return &Store{
		data:      make(map[string][]Point),
		maxPoints: maxPoints,
		maxAge:    maxAge,
	}
}

// Append records a sample for key and enforces retention.
func (s *Store) Append(key string, p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := append(s.data[key], p)

	if s.maxPoints > 0 && len(points) > s.maxPoints {
		points = points[len(points)-s.maxPoints:]
	}

	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge).Unix()
		i := 0
		for ; i < len(points); i++ {
			if points[i].Dt >= cutoff {
				break
			}
		}
		if i > 0 {
			points = points[i:]
		}
	}

	s.data[key] = points
}

// Range returns the samples for key with from <= timestamp <= to.
func (s *Store) Range(key string, from, to time.Time) ([]Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points, ok := s.data[key]
	if !ok || len(points) == 0 {
		return nil, ErrNotFound
	}

	var result []Point
	for _, p := range points {
		if p.Dt >= from.Unix() && p.Dt <= to.Unix() {
			result = append(result, p)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
