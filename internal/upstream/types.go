// Package upstream talks to OpenWeatherMap: geocoding plus either the
// One Call endpoint (combined current/hourly/daily) or the free-tier pair of
// current conditions and the 5-day/3-hour forecast list.
package upstream

import "errors"

var (
	// ErrCityNotFound means geocoding (or a weather endpoint) found no match.
	ErrCityNotFound = errors.New("city not found")
	// ErrAuth means the API key was missing or rejected.
	ErrAuth = errors.New("upstream rejected credentials")
)

// Condition is one weather descriptor exactly as OpenWeatherMap delivers it.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Response is the tagged result of one fetch. Exactly one of Combined or
// Split is set, decided by which call path the client was configured for —
// consumers must switch on the tag, never sniff fields.
type Response struct {
	City    string
	Country string

	Combined *OneCallData
	Split    *SplitData
}

// OneCallData is the relevant subset of the data/3.0/onecall payload.
type OneCallData struct {
	TimezoneOffset int           `json:"timezone_offset"`
	Current        OneCallNow    `json:"current"`
	Hourly         []OneCallHour `json:"hourly"`
	Daily          []OneCallDay  `json:"daily"`
}

type OneCallNow struct {
	Dt         int64       `json:"dt"`
	Temp       float64     `json:"temp"`
	FeelsLike  float64     `json:"feels_like"`
	Humidity   float64     `json:"humidity"`
	WindSpeed  float64     `json:"wind_speed"`
	Weather    []Condition `json:"weather"`
	Visibility *float64    `json:"visibility,omitempty"`
	Pressure   *float64    `json:"pressure,omitempty"`
	UVI        *float64    `json:"uvi,omitempty"`
	Clouds     *float64    `json:"clouds,omitempty"`
}

type OneCallHour struct {
	Dt      int64       `json:"dt"`
	Temp    float64     `json:"temp"`
	Weather []Condition `json:"weather"`
	Pop     *float64    `json:"pop,omitempty"`
}

type OneCallDay struct {
	Dt      int64       `json:"dt"`
	Temp    DayTemps    `json:"temp"`
	Weather []Condition `json:"weather"`
	Pop     *float64    `json:"pop,omitempty"`
}

// DayTemps is the per-day temperature set used by both upstream shapes.
type DayTemps struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

// SplitData pairs the two free-tier responses that together cover what One
// Call returns in one.
type SplitData struct {
	Current  CurrentData
	Forecast ForecastList
}

// CurrentData is the relevant subset of the data/2.5/weather payload.
type CurrentData struct {
	Dt         int64       `json:"dt"`
	Main       CurrentMain `json:"main"`
	Wind       Wind        `json:"wind"`
	Weather    []Condition `json:"weather"`
	Visibility *float64    `json:"visibility,omitempty"`
	Timezone   int         `json:"timezone"`
	Name       string      `json:"name"`
	Sys        CurrentSys  `json:"sys"`
}

type CurrentMain struct {
	Temp      float64  `json:"temp"`
	FeelsLike float64  `json:"feels_like"`
	TempMin   float64  `json:"temp_min"`
	TempMax   float64  `json:"temp_max"`
	Humidity  float64  `json:"humidity"`
	Pressure  *float64 `json:"pressure,omitempty"`
}

type Wind struct {
	Speed float64 `json:"speed"`
}

type CurrentSys struct {
	Country string `json:"country"`
}

// ForecastList is the relevant subset of the data/2.5/forecast payload:
// 3-hour-step samples plus the city's timezone offset in seconds.
type ForecastList struct {
	City ForecastCity     `json:"city"`
	List []ForecastSample `json:"list"`
}

type ForecastCity struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Timezone int    `json:"timezone"`
}

type ForecastSample struct {
	Dt      int64       `json:"dt"`
	Main    SampleMain  `json:"main"`
	Weather []Condition `json:"weather"`
	Pop     float64     `json:"pop"`
}

type SampleMain struct {
	Temp    float64 `json:"temp"`
	TempMin float64 `json:"temp_min"`
	TempMax float64 `json:"temp_max"`
}
