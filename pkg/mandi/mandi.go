// Package mandi fetches commodity prices from the data.gov.in AGMARKNET
// feed. The upstream data is messy (comma-grouped numbers, zero or absurd
// prices, duplicate market rows), so Clean normalizes the records before
// they reach clients.
package mandi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"farmconnect/pkg/circuitbreaker"
)

// Record is one raw row of the AGMARKNET feed.
type Record struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
	ArrivalDate string `json:"arrival_date"`
}

// Price is a cleaned row ready for clients. Prices are rupees per quintal.
type Price struct {
	ID         string `json:"id"`
	Market     string `json:"market"`
	Commodity  string `json:"commodity"`
	MinPrice   int    `json:"min_price"`
	MaxPrice   int    `json:"max_price"`
	ModalPrice int    `json:"modal_price"`
	Date       string `json:"date"`
}

// Client fetches cleaned prices for one commodity.
type Client interface {
	Prices(ctx context.Context, commodity string) ([]Price, error)
}

type Agmarknet struct {
	apiKey  string
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

func NewAgmarknet(apiKey, baseURL string) *Agmarknet {
	return &Agmarknet{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		breaker: circuitbreaker.New(3, 30*time.Second),
	}
}

// Prices tries Gujarat first; when Gujarat has no rows for the commodity it
// widens to all of India.
func (a *Agmarknet) Prices(ctx context.Context, commodity string) ([]Price, error) {
	var out []Price
	err := a.breaker.Execute(func() error {
		records, err := a.fetch(ctx, commodity, "Gujarat", 50)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			records, err = a.fetch(ctx, commodity, "", 30)
			if err != nil {
				return err
			}
		}
		out = Clean(records, commodity)
		return nil
	}, nil)
	return out, err
}

func (a *Agmarknet) fetch(ctx context.Context, commodity, state string, limit int) ([]Record, error) {
	params := url.Values{
		"api-key":            {a.apiKey},
		"format":             {"json"},
		"limit":              {strconv.Itoa(limit)},
		"offset":             {"0"},
		"filters[commodity]": {commodity},
	}
	if state != "" {
		params.Set("filters[state]", state)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("data.gov.in returned %d", resp.StatusCode)
	}

	var body struct {
		Records []Record `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Records, nil
}

// Clean normalizes raw records: prices are parsed with comma grouping
// stripped, min/max default to the modal price when absent, rows with a
// zero or implausible (>100000) modal price are dropped, and duplicate
// state-market-commodity rows keep only the first occurrence. The result is
// sorted by modal price descending and capped at 20 rows.
func Clean(records []Record, commodity string) []Price {
	seen := make(map[string]bool)
	out := make([]Price, 0, len(records))

	for i, r := range records {
		modal := parsePrice(r.ModalPrice, 0)
		if modal == 0 || modal > 100000 {
			continue
		}
		minPrice := parsePrice(r.MinPrice, modal)
		maxPrice := parsePrice(r.MaxPrice, modal)

		market := strings.TrimSpace(r.Market)
		if market == "" {
			market = "Unknown"
		}
		name := strings.TrimSpace(r.Commodity)
		if name == "" {
			name = commodity
		}
		state := strings.TrimSpace(r.State)
		district := strings.TrimSpace(r.District)

		key := state + "-" + market + "-" + name
		if seen[key] {
			continue
		}
		seen[key] = true

		display := market
		if district != "" && !strings.Contains(strings.ToLower(market), strings.ToLower(district)) {
			display = market + ", " + district
		}

		date := strings.TrimSpace(r.ArrivalDate)
		if date == "" {
			date = "N/A"
		}

		out = append(out, Price{
			ID:         fmt.Sprintf("%s-%s-%d", market, name, i),
			Market:     display,
			Commodity:  name,
			MinPrice:   minPrice,
			MaxPrice:   maxPrice,
			ModalPrice: modal,
			Date:       date,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModalPrice > out[j].ModalPrice
	})
	if len(out) > 20 {
		out = out[:20]
	}
	return out
}

// parsePrice reads an upstream price string ("1,250", "1250.0") as an
// integer, returning fallback for empty or zero values.
func parsePrice(s string, fallback int) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "0" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f == 0 {
		return fallback
	}
	return int(f)
}
