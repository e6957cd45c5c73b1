package weather

import "time"

// Deterministic fallback readings used when OpenWeatherMap is unreachable or
// the breaker is open. Values are plausible Gujarat conditions.

func MockCurrent(location string) Current {
	return Current{
		Location:    location,
		Temperature: 28,
		FeelsLike:   30,
		Humidity:    65,
		WindSpeed:   3.5,
		Description: "partly cloudy",
		Icon:        "02d",
	}
}

func MockForecast(location string, days int) []Forecast {
	if days < 1 || days > 5 {
		days = 3
	}
	base := time.Now().UTC().Truncate(3 * time.Hour)
	out := make([]Forecast, 0, days*8)
	for i := 0; i < days*8; i++ {
		out = append(out, Forecast{
			Time:        base.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: 26 + float64(i%8),
			Humidity:    60 + i%8*2,
			WindSpeed:   3,
			Description: "partly cloudy",
			Rain:        0,
		})
	}
	return out
}
