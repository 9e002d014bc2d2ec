package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atmoslens/weather-dashboard/internal/forecast"
)

func payloadFor(city string, temp float64) forecast.Forecast {
	return forecast.Forecast{
		Current: forecast.Current{
			City: city,
			Temp: temp,
			Weather: []forecast.Condition{
				{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"},
			},
		},
	}
}

func TestGetIsKeyNormalized(t *testing.T) {
	c := New(30 * time.Minute)
	c.Put("paris", payloadFor("Paris", 21))

	got, ok := c.Get("  Paris ")
	require.True(t, ok)
	assert.Equal(t, "Paris", got.Current.City)

	got, ok = c.Get("PARIS")
	require.True(t, ok)
	assert.Equal(t, float64(21), got.Current.Temp)
}

func TestGetMissesUnknownKey(t *testing.T) {
	c := New(30 * time.Minute)

	_, ok := c.Get("nowhere")
	assert.False(t, ok)
}

func TestExpiredEntryTreatedAsAbsent(t *testing.T) {
	c := New(30 * time.Minute)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put("paris", payloadFor("Paris", 21))

	_, ok := c.Get("paris")
	require.True(t, ok)

	// Just before the TTL boundary the entry is still fresh.
	now = now.Add(30*time.Minute - time.Second)
	_, ok = c.Get("paris")
	assert.True(t, ok)

	// At the boundary and beyond it is absent.
	now = now.Add(time.Second)
	_, ok = c.Get("paris")
	assert.False(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	c := New(30 * time.Minute)

	c.Put("paris", payloadFor("Paris", 10))
	c.Put("paris", payloadFor("Paris", 25))

	got, ok := c.Get("paris")
	require.True(t, ok)
	assert.Equal(t, float64(25), got.Current.Temp)
}

func TestReinsertionRestartsTTL(t *testing.T) {
	c := New(30 * time.Minute)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put("oslo", payloadFor("Oslo", 3))
	now = now.Add(29 * time.Minute)
	c.Put("oslo", payloadFor("Oslo", 4))
	now = now.Add(29 * time.Minute)

	got, ok := c.Get("oslo")
	require.True(t, ok)
	assert.Equal(t, float64(4), got.Current.Temp)
}
