package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
)

// Mode selects which OpenWeatherMap call path the client uses. The mode is
// fixed at construction so the shape of the returned payload is always known
// to the caller.
type Mode string

const (
	// ModeOneCall uses data/3.0/onecall (combined current/hourly/daily).
	ModeOneCall Mode = "onecall"
	// ModeSplit uses data/2.5/weather plus data/2.5/forecast.
	ModeSplit Mode = "split"
)

// Client fetches weather data from OpenWeatherMap with retries, backoff and a
// circuit breaker around every outbound call.
type Client struct {
	name      string
	apiKey    string
	googleKey string
	mode      Mode
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker

	geoURL      string
	oneCallURL  string
	currentURL  string
	forecastURL string
}

// NewClient creates a Client. googleKey is optional; when set it enables the
// Google geocoder fallback for cities OpenWeatherMap's geocoding cannot find.
func NewClient(client *http.Client, apiKey, googleKey string, mode Mode) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		name:      "openweathermap",
		apiKey:    apiKey,
		googleKey: googleKey,
		mode:      mode,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit:     cb,
		geoURL:      "https://api.openweathermap.org/geo/1.0/direct",
		oneCallURL:  "https://api.openweathermap.org/data/3.0/onecall",
		currentURL:  "https://api.openweathermap.org/data/2.5/weather",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
	}
}

func (c *Client) Name() string {
	return c.name
}

// Fetch resolves the city and retrieves weather data along the configured
// call path. Errors are ErrCityNotFound, ErrAuth, or transport failures.
func (c *Client) Fetch(ctx context.Context, city string) (Response, error) {
	if c.apiKey == "" {
		return Response{}, fmt.Errorf("%w: api key is not configured", ErrAuth)
	}

	place, err := c.geocode(ctx, city)
	if err != nil {
		return Response{}, err
	}

	resp := Response{City: place.Name, Country: place.Country}

	switch c.mode {
	case ModeSplit:
		current, err := c.fetchCurrent(ctx, place)
		if err != nil {
			return Response{}, err
		}
		forecast, err := c.fetchForecastList(ctx, place)
		if err != nil {
			return Response{}, err
		}
		resp.Split = &SplitData{Current: current, Forecast: forecast}
	default:
		combined, err := c.fetchOneCall(ctx, place)
		if err != nil {
			return Response{}, err
		}
		resp.Combined = &combined
	}

	return resp, nil
}

type place struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (c *Client) geocode(ctx context.Context, city string) (place, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("limit", "1")
		values.Set("appid", c.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.geoURL, values.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return place{}, err
	}
	defer resp.Body.Close()

	var results []place
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return place{}, fmt.Errorf("decode geocoding response: %w", err)
	}

	if len(results) > 0 {
		return results[0], nil
	}

	// OpenWeatherMap found nothing; try the Google geocoder when configured.
	if c.googleKey != "" {
		if p, err := c.geocodeGoogle(city); err == nil {
			return p, nil
		}
	}

	return place{}, ErrCityNotFound
}

func (c *Client) geocodeGoogle(city string) (place, error) {
	geocoder.ApiKey = c.googleKey

	loc, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return place{}, err
	}

	return place{
		Name: strings.TrimSpace(city),
		Lat:  loc.Latitude,
		Lon:  loc.Longitude,
	}, nil
}

func (c *Client) fetchOneCall(ctx context.Context, p place) (OneCallData, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", p.Lat))
		values.Set("lon", fmt.Sprintf("%f", p.Lon))
		values.Set("exclude", "minutely")
		values.Set("units", "metric")
		values.Set("appid", c.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.oneCallURL, values.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return OneCallData{}, err
	}
	defer resp.Body.Close()

	var payload OneCallData
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return OneCallData{}, fmt.Errorf("decode onecall response: %w", err)
	}
	return payload, nil
}

func (c *Client) fetchCurrent(ctx context.Context, p place) (CurrentData, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", p.Lat))
		values.Set("lon", fmt.Sprintf("%f", p.Lon))
		values.Set("units", "metric")
		values.Set("appid", c.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.currentURL, values.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return CurrentData{}, err
	}
	defer resp.Body.Close()

	var payload CurrentData
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return CurrentData{}, fmt.Errorf("decode current weather response: %w", err)
	}
	return payload, nil
}

func (c *Client) fetchForecastList(ctx context.Context, p place) (ForecastList, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", p.Lat))
		values.Set("lon", fmt.Sprintf("%f", p.Lon))
		values.Set("units", "metric")
		values.Set("appid", c.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.forecastURL, values.Encode()), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return ForecastList{}, err
	}
	defer resp.Body.Close()

	var payload ForecastList
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ForecastList{}, fmt.Errorf("decode forecast response: %w", err)
	}
	return payload, nil
}
