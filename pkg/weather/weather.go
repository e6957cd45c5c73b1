// Package weather talks to OpenWeatherMap behind a circuit breaker and
// derives farming alerts from the raw readings. When the upstream is down or
// the breaker is open, callers fall back to the deterministic mock data in
// mock.go so the endpoints stay usable offline.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"farmconnect/pkg/circuitbreaker"
)

type Current struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Forecast is one 3-hour slot of the forecast feed. Rain is millimetres of
// rain expected in that slot.
type Forecast struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Description string    `json:"description"`
	Rain        float64   `json:"rain"`
}

type Alert struct {
	Location  string  `json:"location"`
	Severity  string  `json:"severity"`
	Type      string  `json:"type"`
	Icon      string  `json:"icon"`
	MessageEn string  `json:"message_en"`
	MessageHi string  `json:"message_hi"`
	MessageGu string  `json:"message_gu"`
	WindSpeed float64 `json:"wind_speed"`
	Rainfall  float64 `json:"rainfall"`
}

// Client fetches weather readings for a location.
type Client interface {
	Current(ctx context.Context, location string) (Current, error)
	Forecast(ctx context.Context, location string, days int) ([]Forecast, error)
}

type OpenWeather struct {
	apiKey  string
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

func NewOpenWeather(apiKey, baseURL string) *OpenWeather {
	return &OpenWeather{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: circuitbreaker.New(3, 30*time.Second),
	}
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Rain struct {
			ThreeHours float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

func (w *OpenWeather) Current(ctx context.Context, location string) (Current, error) {
	var out Current
	err := w.breaker.Execute(func() error {
		var raw currentResponse
		if err := w.get(ctx, "/weather", url.Values{"q": {location}}, &raw); err != nil {
			return err
		}
		out = Current{
			Location:    location,
			Temperature: raw.Main.Temp,
			FeelsLike:   raw.Main.FeelsLike,
			Humidity:    raw.Main.Humidity,
			WindSpeed:   raw.Wind.Speed,
		}
		if len(raw.Weather) > 0 {
			out.Description = raw.Weather[0].Description
			out.Icon = raw.Weather[0].Icon
		}
		return nil
	}, nil)
	return out, err
}

func (w *OpenWeather) Forecast(ctx context.Context, location string, days int) ([]Forecast, error) {
	if days < 1 || days > 5 {
		days = 3
	}
	var out []Forecast
	err := w.breaker.Execute(func() error {
		var raw forecastResponse
		params := url.Values{"q": {location}, "cnt": {fmt.Sprintf("%d", days*8)}}
		if err := w.get(ctx, "/forecast", params, &raw); err != nil {
			return err
		}
		out = make([]Forecast, 0, len(raw.List))
		for _, slot := range raw.List {
			f := Forecast{
				Time:        time.Unix(slot.Dt, 0).UTC(),
				Temperature: slot.Main.Temp,
				Humidity:    slot.Main.Humidity,
				WindSpeed:   slot.Wind.Speed,
				Rain:        slot.Rain.ThreeHours,
			}
			if len(slot.Weather) > 0 {
				f.Description = slot.Weather[0].Description
			}
			out = append(out, f)
		}
		return nil
	}, nil)
	return out, err
}

func (w *OpenWeather) get(ctx context.Context, path string, params url.Values, v interface{}) error {
	params.Set("appid", w.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := w.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openweathermap returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// Alert thresholds.
const (
	heavyRainMM   = 2.0
	strongWindMPS = 15.0
)

// BuildAlerts derives at most one alert from the readings: heavy rain in any
// forecast slot wins over strong current wind; calm conditions produce a
// low-severity all-clear.
func BuildAlerts(location string, cur Current, forecast []Forecast) []Alert {
	for _, slot := range forecast {
		if slot.Rain > heavyRainMM {
			return []Alert{{
				Location:  location,
				Severity:  "high",
				Type:      "rain",
				Icon:      "🌧️",
				MessageEn: "Heavy rain expected. Protect your crops and postpone spraying.",
				MessageHi: "भारी बारिश की संभावना है। अपनी फसलों की रक्षा करें और छिड़काव स्थगित करें।",
				MessageGu: "ભારે વરસાદની શક્યતા છે. તમારા પાકનું રક્ષણ કરો અને છંટકાવ મુલતવી રાખો.",
				Rainfall:  slot.Rain,
			}}
		}
	}

	if cur.WindSpeed > strongWindMPS {
		return []Alert{{
			Location:  location,
			Severity:  "medium",
			Type:      "wind",
			Icon:      "💨",
			MessageEn: "Strong winds expected. Secure equipment and avoid spraying pesticides.",
			MessageHi: "तेज हवाओं की संभावना है। उपकरण सुरक्षित करें और कीटनाशक छिड़काव से बचें।",
			MessageGu: "ભારે પવનની શક્યતા છે. સાધનો સુરક્ષિત કરો અને જંતુનાશક છંટકાવ ટાળો.",
			WindSpeed: cur.WindSpeed,
		}}
	}

	return []Alert{{
		Location:  location,
		Severity:  "low",
		Type:      "sunny",
		Icon:      "☀️",
		MessageEn: "Weather looks favourable for field work.",
		MessageHi: "मौसम खेत के काम के लिए अनुकूल दिख रहा है।",
		MessageGu: "હવામાન ખેતરના કામ માટે અનુકૂળ જણાય છે.",
	}}
}
