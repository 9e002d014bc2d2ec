// Package search maintains the bounded, de-duplicated, recency-ordered list
// of cities the user has looked up.
package search

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/atmoslens/weather-dashboard/internal/metrics"
)

// ErrEmptyCity is returned when Record is called with an empty or
// whitespace-only city. This is a caller-contract violation.
var ErrEmptyCity = errors.New("city must not be empty")

// DefaultMaxRecent is the bound applied when no limit is configured, and the
// default page size for List.
const DefaultMaxRecent = 5

// Entry is one remembered city lookup, returned to callers as a copy.
type Entry struct {
	ID        int64     `json:"id"`
	City      string    `json:"city"`
	Country   string    `json:"country,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Store holds at most max entries, at most one per case-insensitive city.
// All operations are safe for concurrent use; Record applies its
// de-dup/insert/evict sequence atomically.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int64
	max     int
	now     func() time.Time
}

// NewStore creates a Store bounded to max entries. A non-positive max falls
// back to DefaultMaxRecent.
func NewStore(max int) *Store {
	if max <= 0 {
		max = DefaultMaxRecent
	}
	return &Store{
		nextID: 1,
		max:    max,
		now:    time.Now,
	}
}

// Record remembers a lookup for city. Any existing entry for the same
// case-insensitive city is replaced by a fresh entry with a new id and
// timestamp. When the bound is exceeded the oldest entry by timestamp is
// evicted, lowest id winning ties.
func (s *Store) Record(city, country string) (Entry, error) {
	trimmed := strings.TrimSpace(city)
	if trimmed == "" {
		return Entry{}, ErrEmptyCity
	}
	folded := strings.ToLower(trimmed)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if strings.ToLower(e.City) == folded {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}

	entry := Entry{
		ID:        s.nextID,
		City:      trimmed,
		Country:   country,
		Timestamp: s.now(),
	}
	s.nextID++
	s.entries = append(s.entries, entry)

	if len(s.entries) > s.max {
		oldest := 0
		for i := 1; i < len(s.entries); i++ {
			if s.entries[i].Timestamp.Before(s.entries[oldest].Timestamp) ||
				(s.entries[i].Timestamp.Equal(s.entries[oldest].Timestamp) && s.entries[i].ID < s.entries[oldest].ID) {
				oldest = i
			}
		}
		s.entries = append(s.entries[:oldest], s.entries[oldest+1:]...)
	}

	metrics.RecentSearches.Set(float64(len(s.entries)))
	return entry, nil
}

// List returns up to limit entries ordered newest-first. A non-positive limit
// falls back to DefaultMaxRecent.
func (s *Store) List(limit int) []Entry {
	if limit <= 0 {
		limit = DefaultMaxRecent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Clear removes all entries. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	metrics.RecentSearches.Set(0)
}
