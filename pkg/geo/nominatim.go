// Package geo resolves listing addresses to coordinates via the free
// Nominatim API. Geocoding is strictly best-effort: any failure reports
// ok=false and the caller stores the listing without coordinates.
package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Geocoder interface {
	Geocode(ctx context.Context, address, city, state, pincode string) (lat, lon float64, ok bool)
}

type Nominatim struct {
	baseURL string
	http    *http.Client
}

func NewNominatim() *Nominatim {
	return &Nominatim{
		baseURL: "https://nominatim.openstreetmap.org/search",
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *Nominatim) Geocode(ctx context.Context, address, city, state, pincode string) (float64, float64, bool) {
	parts := make([]string, 0, 4)
	for _, p := range []string{address, city, strings.TrimSpace(state + " " + pincode)} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	if len(parts) == 0 {
		return 0, 0, false
	}

	params := url.Values{
		"q":      {strings.Join(parts, ", ")},
		"format": {"json"},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, false
	}
	// Nominatim rejects requests without a User-Agent.
	req.Header.Set("User-Agent", "FarmConnect/1.0")

	resp, err := n.http.Do(req)
	if err != nil {
		return 0, 0, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0, false
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil || len(results) == 0 {
		return 0, 0, false
	}

	lat, err1 := strconv.ParseFloat(results[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(results[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
