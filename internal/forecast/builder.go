package forecast

import (
	"time"

	"github.com/atmoslens/weather-dashboard/internal/upstream"
)

// Build normalizes one upstream response into a Forecast. The response is a
// tagged variant; Build dispatches on the tag set by the client's call path.
func Build(resp upstream.Response, now time.Time) (Forecast, error) {
	switch {
	case resp.Combined != nil:
		return buildCombined(resp.City, resp.Country, *resp.Combined, now)
	case resp.Split != nil:
		return buildSplit(resp.City, resp.Country, *resp.Split, now)
	default:
		return Forecast{}, ErrMalformed
	}
}

func buildCombined(city, country string, data upstream.OneCallData, now time.Time) (Forecast, error) {
	if len(data.Current.Weather) == 0 || len(data.Daily) == 0 {
		return Forecast{}, ErrMalformed
	}

	tz := data.TimezoneOffset
	current := Current{
		City:      city,
		Country:   country,
		Dt:        data.Current.Dt,
		Temp:      data.Current.Temp,
		FeelsLike: data.Current.FeelsLike,
		// Today's min/max come from the first daily entry, as the current
		// block itself carries none.
		TempMin:    data.Daily[0].Temp.Min,
		TempMax:    data.Daily[0].Temp.Max,
		Humidity:   data.Current.Humidity,
		WindSpeed:  data.Current.WindSpeed,
		Weather:    conditions(data.Current.Weather),
		Visibility: data.Current.Visibility,
		Pressure:   data.Current.Pressure,
		UVI:        data.Current.UVI,
		Clouds:     data.Current.Clouds,
		Timezone:   &tz,
	}

	hourly := make([]Hour, 0, MaxHourly)
	for _, h := range data.Hourly {
		if len(hourly) >= MaxHourly {
			break
		}
		if len(h.Weather) == 0 {
			return Forecast{}, ErrMalformed
		}
		hourly = append(hourly, Hour{
			Dt:      h.Dt,
			Temp:    h.Temp,
			Weather: conditions(h.Weather),
			Pop:     h.Pop,
		})
	}

	daily := make([]Day, 0, MaxDaily)
	for _, d := range data.Daily {
		if len(daily) >= MaxDaily {
			break
		}
		if len(d.Weather) == 0 {
			return Forecast{}, ErrMalformed
		}
		daily = append(daily, Day{
			Dt: d.Dt,
			Temp: Temps{
				Day:   d.Temp.Day,
				Min:   d.Temp.Min,
				Max:   d.Temp.Max,
				Night: d.Temp.Night,
				Eve:   d.Temp.Eve,
				Morn:  d.Temp.Morn,
			},
			Weather: conditions(d.Weather),
			Pop:     d.Pop,
		})
	}

	return Forecast{
		Current:     current,
		Hourly:      hourly,
		Daily:       daily,
		LastUpdated: now.UnixMilli(),
	}, nil
}

// dayBucket accumulates 3-hour samples belonging to one calendar day in the
// city's local timezone.
type dayBucket struct {
	dt      int64
	temps   Temps
	weather []Condition
	bestPop float64
}

func buildSplit(city, country string, data upstream.SplitData, now time.Time) (Forecast, error) {
	cur := data.Current
	if len(cur.Weather) == 0 || len(data.Forecast.List) == 0 {
		return Forecast{}, ErrMalformed
	}

	tz := cur.Timezone
	current := Current{
		City:       city,
		Country:    country,
		Dt:         cur.Dt,
		Temp:       cur.Main.Temp,
		FeelsLike:  cur.Main.FeelsLike,
		TempMin:    cur.Main.TempMin,
		TempMax:    cur.Main.TempMax,
		Humidity:   cur.Main.Humidity,
		WindSpeed:  cur.Wind.Speed,
		Weather:    conditions(cur.Weather),
		Visibility: cur.Visibility,
		Pressure:   cur.Main.Pressure,
		Timezone:   &tz,
	}

	loc := time.FixedZone("upstream", data.Forecast.City.Timezone)

	hourly := make([]Hour, 0, MaxThreeHourly)
	var (
		order   []string
		buckets = make(map[string]*dayBucket)
	)

	for _, s := range data.Forecast.List {
		if len(s.Weather) == 0 {
			return Forecast{}, ErrMalformed
		}

		if len(hourly) < MaxThreeHourly {
			pop := s.Pop
			hourly = append(hourly, Hour{
				Dt:      s.Dt,
				Temp:    s.Main.Temp,
				Weather: conditions(s.Weather),
				Pop:     &pop,
			})
		}

		local := time.Unix(s.Dt, 0).In(loc)
		key := local.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			if len(order) >= MaxDaily {
				// Day cap reached; samples from further days are dropped.
				continue
			}
			midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
			b = &dayBucket{
				dt: midnight.Unix(),
				temps: Temps{
					Day:   s.Main.Temp,
					Min:   s.Main.TempMin,
					Max:   s.Main.TempMax,
					Night: s.Main.Temp,
					Eve:   s.Main.Temp,
					Morn:  s.Main.Temp,
				},
				weather: conditions(s.Weather),
				bestPop: s.Pop,
			}
			buckets[key] = b
			order = append(order, key)
		} else {
			if s.Main.TempMin < b.temps.Min {
				b.temps.Min = s.Main.TempMin
			}
			if s.Main.TempMax > b.temps.Max {
				b.temps.Max = s.Main.TempMax
			}
			if s.Pop > b.bestPop {
				b.bestPop = s.Pop
				b.weather = conditions(s.Weather)
			}
		}

		// Last sample seen in each day-part band wins its slot.
		switch h := local.Hour(); {
		case h >= 6 && h < 12:
			b.temps.Morn = s.Main.Temp
		case h >= 12 && h < 18:
			b.temps.Day = s.Main.Temp
		case h >= 18 && h < 22:
			b.temps.Eve = s.Main.Temp
		default:
			b.temps.Night = s.Main.Temp
		}
	}

	daily := make([]Day, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		pop := b.bestPop
		daily = append(daily, Day{
			Dt:      b.dt,
			Temp:    b.temps,
			Weather: b.weather,
			Pop:     &pop,
		})
	}

	return Forecast{
		Current:     current,
		Hourly:      hourly,
		Daily:       daily,
		LastUpdated: now.UnixMilli(),
	}, nil
}

func conditions(in []upstream.Condition) []Condition {
	out := make([]Condition, len(in))
	for i, c := range in {
		out[i] = Condition{
			ID:          c.ID,
			Main:        c.Main,
			Description: c.Description,
			Icon:        c.Icon,
		}
	}
	return out
}
