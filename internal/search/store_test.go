package search

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRejectsEmptyCity(t *testing.T) {
	s := NewStore(5)

	_, err := s.Record("", "")
	assert.ErrorIs(t, err, ErrEmptyCity)

	_, err = s.Record("   ", "GB")
	assert.ErrorIs(t, err, ErrEmptyCity)

	assert.Empty(t, s.List(10))
}

func TestRecordTrimsAndPreservesCase(t *testing.T) {
	s := NewStore(5)

	entry, err := s.Record("  London ", "GB")
	require.NoError(t, err)

	assert.Equal(t, "London", entry.City)
	assert.Equal(t, "GB", entry.Country)
	assert.Equal(t, int64(1), entry.ID)
}

func TestRecordDeduplicatesCaseInsensitive(t *testing.T) {
	s := NewStore(5)

	_, err := s.Record("Paris", "FR")
	require.NoError(t, err)
	_, err = s.Record("Tokyo", "JP")
	require.NoError(t, err)
	_, err = s.Record("paris", "FR")
	require.NoError(t, err)

	entries := s.List(10)
	require.Len(t, entries, 2)
	assert.Equal(t, "paris", entries[0].City)
	assert.Equal(t, "Tokyo", entries[1].City)
}

func TestRecordEvictsOldest(t *testing.T) {
	s := NewStore(5)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, city := range []string{"A", "B", "C", "D", "E", "F"} {
		_, err := s.Record(city, "")
		require.NoError(t, err)
	}

	entries := s.List(10)
	require.Len(t, entries, 5)

	var cities []string
	for _, e := range entries {
		cities = append(cities, e.City)
	}
	assert.Equal(t, []string{"F", "E", "D", "C", "B"}, cities)
}

func TestEvictionTieBreakLowestID(t *testing.T) {
	s := NewStore(2)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	_, err := s.Record("One", "")
	require.NoError(t, err)
	_, err = s.Record("Two", "")
	require.NoError(t, err)
	_, err = s.Record("Three", "")
	require.NoError(t, err)

	// All timestamps collide, so the entry with the lowest id goes.
	entries := s.List(10)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEqual(t, "One", e.City)
	}
}

func TestBoundInvariantUnderManyRecords(t *testing.T) {
	s := NewStore(5)

	for i := 0; i < 100; i++ {
		_, err := s.Record(fmt.Sprintf("City-%d", i), "")
		require.NoError(t, err)
	}

	entries := s.List(1000)
	assert.Len(t, entries, 5)

	seen := make(map[string]bool)
	for _, e := range entries {
		require.False(t, seen[e.City], "duplicate city %s", e.City)
		seen[e.City] = true
	}
}

func TestListDefaultLimit(t *testing.T) {
	s := NewStore(10)
	for i := 0; i < 8; i++ {
		_, err := s.Record(fmt.Sprintf("City-%d", i), "")
		require.NoError(t, err)
	}

	assert.Len(t, s.List(0), DefaultMaxRecent)
	assert.Len(t, s.List(3), 3)
}

func TestClearIsIdempotent(t *testing.T) {
	s := NewStore(5)
	_, err := s.Record("Oslo", "NO")
	require.NoError(t, err)

	s.Clear()
	assert.Empty(t, s.List(10))

	s.Clear()
	assert.Empty(t, s.List(10))
}

func TestConcurrentRecordKeepsInvariants(t *testing.T) {
	s := NewStore(5)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				city := fmt.Sprintf("City-%d", (i+j)%8)
				if _, err := s.Record(city, ""); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()

	entries := s.List(1000)
	assert.LessOrEqual(t, len(entries), 5)

	seen := make(map[string]bool)
	for _, e := range entries {
		require.False(t, seen[e.City], "duplicate city %s", e.City)
		seen[e.City] = true
	}
}
