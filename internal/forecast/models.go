// Package forecast defines the normalized forecast record served to the
// dashboard and the builder that produces it from either upstream shape.
package forecast

import "errors"

// ErrMalformed is returned when the upstream payload is missing fields the
// normalized record requires. A partial record is never produced.
var ErrMalformed = errors.New("upstream payload missing required fields")

// Output caps. Extra upstream samples beyond these are dropped, not averaged.
const (
	MaxDaily       = 5
	MaxHourly      = 24
	MaxThreeHourly = 8
)

// Condition is one weather descriptor. The first element of any Weather slice
// is the authoritative condition for display.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Current is the snapshot of present conditions for a city.
type Current struct {
	City       string      `json:"city"`
	Country    string      `json:"country,omitempty"`
	Dt         int64       `json:"dt"`
	Temp       float64     `json:"temp"`
	FeelsLike  float64     `json:"feels_like"`
	TempMin    float64     `json:"temp_min"`
	TempMax    float64     `json:"temp_max"`
	Humidity   float64     `json:"humidity"`
	WindSpeed  float64     `json:"wind_speed"`
	Weather    []Condition `json:"weather"`
	Visibility *float64    `json:"visibility,omitempty"`
	Pressure   *float64    `json:"pressure,omitempty"`
	UVI        *float64    `json:"uvi,omitempty"`
	Clouds     *float64    `json:"clouds,omitempty"`
	Timezone   *int        `json:"timezone,omitempty"`
}

// Hour is one hourly (or 3-hourly) forecast entry.
type Hour struct {
	Dt      int64       `json:"dt"`
	Temp    float64     `json:"temp"`
	Weather []Condition `json:"weather"`
	Pop     *float64    `json:"pop,omitempty"`
}

// Temps is the per-day temperature set.
type Temps struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

// Day is one daily forecast entry.
type Day struct {
	Dt      int64       `json:"dt"`
	Temp    Temps       `json:"temp"`
	Weather []Condition `json:"weather"`
	Pop     *float64    `json:"pop,omitempty"`
}

// Forecast is the canonical record produced from any upstream response.
// Hourly and Daily are chronological ascending. Sample marks placeholder data
// substituted when the upstream was unreachable; it is never mixed with real
// data under the same cache key without this marker.
type Forecast struct {
	Current     Current `json:"current"`
	Hourly      []Hour  `json:"hourly"`
	Daily       []Day   `json:"daily"`
	LastUpdated int64   `json:"lastUpdated"`
	Sample      bool    `json:"sample,omitempty"`
}
