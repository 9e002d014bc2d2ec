package weather

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atmoslens/weather-dashboard/internal/apperrors"
	"github.com/atmoslens/weather-dashboard/internal/cache"
	"github.com/atmoslens/weather-dashboard/internal/history"
	"github.com/atmoslens/weather-dashboard/internal/search"
	"github.com/atmoslens/weather-dashboard/internal/upstream"
)

type stubFetcher struct {
	calls int64
	resp  upstream.Response
	err   error
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Fetch(ctx context.Context, city string) (upstream.Response, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.err != nil {
		return upstream.Response{}, f.err
	}
	return f.resp, nil
}

func combinedResponse(city, country string) upstream.Response {
	now := time.Now()
	conds := []upstream.Condition{{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"}}
	return upstream.Response{
		City:    city,
		Country: country,
		Combined: &upstream.OneCallData{
			Current: upstream.OneCallNow{
				Dt: now.Unix(), Temp: 12.5, FeelsLike: 11.8, Humidity: 70,
				WindSpeed: 5.1, Weather: conds,
			},
			Hourly: []upstream.OneCallHour{
				{Dt: now.Unix(), Temp: 12.5, Weather: conds},
			},
			Daily: []upstream.OneCallDay{
				{Dt: now.Unix(), Temp: upstream.DayTemps{Day: 14, Min: 8, Max: 18}, Weather: conds},
			},
		},
	}
}

func newTestService(fetcher Fetcher, fallback FallbackMode) (*Service, *search.Store, *cache.Cache, *history.Store) {
	c := cache.New(30 * time.Minute)
	searches := search.NewStore(5)
	hist := history.NewStore(100, 0)
	svc := NewService(fetcher, c, searches, hist, fallback)
	return svc, searches, c, hist
}

func TestLookupRejectsEmptyCity(t *testing.T) {
	fetcher := &stubFetcher{resp: combinedResponse("London", "GB")}
	svc, _, _, _ := newTestService(fetcher, FallbackStrict)
	defer svc.Close()

	_, err := svc.Lookup(context.Background(), "   ")
	assert.True(t, apperrors.IsType(err, apperrors.InvalidArgument))
	assert.Zero(t, atomic.LoadInt64(&fetcher.calls))
}

func TestLookupMissThenCacheHit(t *testing.T) {
	fetcher := &stubFetcher{resp: combinedResponse("London", "GB")}
	svc, searches, c, hist := newTestService(fetcher, FallbackStrict)

	first, err := svc.Lookup(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, "London", first.Current.City)

	// Cache is populated under the normalized key.
	_, ok := c.Get("london")
	assert.True(t, ok)

	// Second lookup with different casing is a cache hit: no upstream call.
	second, err := svc.Lookup(context.Background(), "LONDON")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fetcher.calls))

	// Drain the async recorder, then check the list: one entry, no duplicate
	// from the cache hit.
	svc.Close()
	entries := searches.List(10)
	require.Len(t, entries, 1)
	assert.Equal(t, "London", entries[0].City)
	assert.Equal(t, "GB", entries[0].Country)

	// A real resolution also extends history.
	points, err := hist.Range("london", time.Unix(0, 0), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestLookupCityNotFound(t *testing.T) {
	fetcher := &stubFetcher{err: upstream.ErrCityNotFound}
	svc, searches, _, _ := newTestService(fetcher, FallbackStrict)

	_, err := svc.Lookup(context.Background(), "Nowhere")
	assert.True(t, apperrors.IsType(err, apperrors.CityNotFound))

	svc.Close()
	assert.Empty(t, searches.List(10))
}

func TestLookupAuthErrorIsDistinct(t *testing.T) {
	fetcher := &stubFetcher{err: upstream.ErrAuth}
	svc, _, _, _ := newTestService(fetcher, FallbackSample)
	defer svc.Close()

	// Auth failures are never papered over with sample data.
	_, err := svc.Lookup(context.Background(), "London")
	assert.True(t, apperrors.IsType(err, apperrors.UpstreamAuth))
	assert.False(t, apperrors.IsType(err, apperrors.CityNotFound))
}

func TestLookupTransportErrorStrict(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	svc, _, c, _ := newTestService(fetcher, FallbackStrict)
	defer svc.Close()

	_, err := svc.Lookup(context.Background(), "London")
	assert.True(t, apperrors.IsType(err, apperrors.UpstreamUnavailable))

	// Nothing is cached on failure.
	_, ok := c.Get("london")
	assert.False(t, ok)
}

func TestLookupTransportErrorSampleFallback(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	svc, searches, c, hist := newTestService(fetcher, FallbackSample)

	fc, err := svc.Lookup(context.Background(), "London")
	require.NoError(t, err)
	assert.True(t, fc.Sample)
	assert.Equal(t, "London", fc.Current.City)

	// Placeholder is cached under the same key and the search recorded.
	cached, ok := c.Get("london")
	require.True(t, ok)
	assert.True(t, cached.Sample)

	svc.Close()
	entries := searches.List(10)
	require.Len(t, entries, 1)

	// Sample data never pollutes history.
	_, err = hist.Range("london", time.Unix(0, 0), time.Now().Add(time.Minute))
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestLookupMalformedNotCached(t *testing.T) {
	resp := combinedResponse("London", "GB")
	resp.Combined.Current.Weather = nil
	fetcher := &stubFetcher{resp: resp}
	svc, searches, c, _ := newTestService(fetcher, FallbackStrict)

	_, err := svc.Lookup(context.Background(), "London")
	assert.True(t, apperrors.IsType(err, apperrors.MalformedUpstream))

	_, ok := c.Get("london")
	assert.False(t, ok)

	svc.Close()
	assert.Empty(t, searches.List(10))
}

func TestRefreshWarmsCacheWithoutRecording(t *testing.T) {
	fetcher := &stubFetcher{resp: combinedResponse("Paris", "FR")}
	svc, searches, c, _ := newTestService(fetcher, FallbackStrict)

	_, err := searches.Record("Paris", "FR")
	require.NoError(t, err)

	svc.Refresh(context.Background())

	_, ok := c.Get("paris")
	assert.True(t, ok)

	svc.Close()
	entries := searches.List(10)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ID)
}

func TestHistoryEmptyCity(t *testing.T) {
	fetcher := &stubFetcher{resp: combinedResponse("London", "GB")}
	svc, _, _, _ := newTestService(fetcher, FallbackStrict)
	defer svc.Close()

	_, err := svc.History("  ", time.Unix(0, 0), time.Now())
	assert.True(t, apperrors.IsType(err, apperrors.InvalidArgument))
}
