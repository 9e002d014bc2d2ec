package forecast

import (
	"math"
	"time"
)

// sampleCountry marks placeholder records so the UI can tell them apart from
// real upstream data.
const sampleCountry = "Sample"

var sampleConditions = []Condition{
	{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"},
	{ID: 801, Main: "Clouds", Description: "few clouds", Icon: "02d"},
	{ID: 500, Main: "Rain", Description: "light rain", Icon: "10d"},
	{ID: 803, Main: "Clouds", Description: "broken clouds", Icon: "04d"},
	{ID: 804, Main: "Clouds", Description: "overcast clouds", Icon: "04d"},
}

var samplePops = []float64{0, 0.1, 0.4, 0.2, 0.1}

// Sample returns a deterministic placeholder forecast for city, used when the
// upstream is unreachable and degraded mode is enabled. The record is flagged
// Sample so it is never mistaken for real data.
func Sample(city string, now time.Time) Forecast {
	base := now.Unix()

	hourly := make([]Hour, 0, MaxHourly)
	for i := 0; i < MaxHourly; i++ {
		cond := sampleConditions[i%len(sampleConditions)]
		pop := samplePops[i%len(samplePops)]
		hourly = append(hourly, Hour{
			Dt:      base + int64(i)*3600,
			Temp:    18.5 + math.Sin(float64(i)*0.5)*3,
			Weather: []Condition{cond},
			Pop:     &pop,
		})
	}

	daily := make([]Day, 0, MaxDaily)
	for i := 0; i < MaxDaily; i++ {
		cond := sampleConditions[i%len(sampleConditions)]
		pop := samplePops[i%len(samplePops)]
		drift := math.Sin(float64(i) * 0.8)
		daily = append(daily, Day{
			Dt: base + int64(i)*86400,
			Temp: Temps{
				Day:   18.5 + drift*4,
				Min:   15.2 + drift*3,
				Max:   22.3 + drift*3,
				Night: 14.1 + drift*2,
				Eve:   20.5 + drift*2,
				Morn:  16.8 + drift*2,
			},
			Weather: []Condition{cond},
			Pop:     &pop,
		})
	}

	visibility := float64(10000)
	pressure := float64(1015)
	uvi := 5.2
	clouds := float64(10)
	tz := 0

	return Forecast{
		Current: Current{
			City:       city,
			Country:    sampleCountry,
			Dt:         base,
			Temp:       18.5,
			FeelsLike:  17.9,
			TempMin:    16.2,
			TempMax:    21.3,
			Humidity:   65,
			WindSpeed:  4.2,
			Weather:    []Condition{sampleConditions[0]},
			Visibility: &visibility,
			Pressure:   &pressure,
			UVI:        &uvi,
			Clouds:     &clouds,
			Timezone:   &tz,
		},
		Hourly:      hourly,
		Daily:       daily,
		LastUpdated: now.UnixMilli(),
		Sample:      true,
	}
}
