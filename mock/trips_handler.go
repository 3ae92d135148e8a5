package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
)

type Cabin struct {
	Amount string `json:"amount"`
}

type CabinTwo struct {
	Price string `json:"price"`
}

type Destination struct {
	Name string `json:"name"`
}

type Ship struct {
	Name string `json:"name"`
}

type Trip struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	DepartureDate string        `json:"departure_date"`
	Duration      int           `json:"duration"`
	Cabins        []Cabin       `json:"cabins,omitempty"`
	CabinsTwos    []CabinTwo    `json:"cabins_twos,omitempty"`
	Destinations  []Destination `json:"destinations,omitempty"`
	Ship          *Ship         `json:"ship,omitempty"`
}

type tripsPage struct {
	Data        []Trip `json:"data"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	Total       int    `json:"total"`
}

// ExpeditionSearchHandler serves the triple-nested envelope shape with full
// filter support, the way the production expedition endpoint behaves.
func ExpeditionSearchHandler(w http.ResponseWriter, r *http.Request) {
	serveSearch(w, r, "destinations", "ship", true)
}

// CruiseSearchHandler uses the cruise endpoint's parameter spellings and
// ignores date/price filters, mirroring its narrower filter surface.
func CruiseSearchHandler(w http.ResponseWriter, r *http.Request) {
	serveSearch(w, r, "destination", "ship_name", false)
}

func serveSearch(w http.ResponseWriter, r *http.Request, destParam, shipParam string, fullFilters bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := os.ReadFile("mock/files/trips_response.json")
	if err != nil {
		http.Error(w, "Failed to read trip data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var all []Trip
	if err := json.Unmarshal(data, &all); err != nil {
		http.Error(w, "Failed to parse trip data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()

	filtered := make([]Trip, 0, len(all))
	for _, t := range all {
		if dest := q.Get(destParam); dest != "" && !hasDestination(t, dest) {
			continue
		}
		if ship := q.Get(shipParam); ship != "" && (t.Ship == nil || !strings.EqualFold(t.Ship.Name, ship)) {
			continue
		}
		if min := intQuery(q.Get("min_duration"), 0); min > 0 && t.Duration < min {
			continue
		}
		if max := intQuery(q.Get("max_duration"), 0); max > 0 && t.Duration > max {
			continue
		}
		if fullFilters {
			if date := q.Get("departure_date"); date != "" && t.DepartureDate < date {
				continue
			}
			if min := intQuery(q.Get("min_price"), 0); min > 0 && !priceAtLeast(t, min) {
				continue
			}
			if max := intQuery(q.Get("max_price"), 0); max > 0 && !priceAtMost(t, max) {
				continue
			}
		}
		filtered = append(filtered, t)
	}

	page := intQuery(q.Get("page"), 1)
	limit := intQuery(q.Get("limit"), 9)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 9
	}

	total := len(filtered)
	lastPage := (total + limit - 1) / limit
	if lastPage < 1 {
		lastPage = 1
	}
	if page > lastPage {
		page = lastPage
	}
	start := (page - 1) * limit
	end := start + limit
	if end > total {
		end = total
	}

	envelope := map[string]any{
		"success": true,
		"data": map[string]any{
			"data": map[string]any{
				"trips": tripsPage{
					Data:        filtered[start:end],
					CurrentPage: page,
					LastPage:    lastPage,
					Total:       total,
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}

func hasDestination(t Trip, name string) bool {
	for _, d := range t.Destinations {
		if strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}

func lowestPrice(t Trip) (float64, bool) {
	lowest := 0.0
	found := false
	consider := func(raw string) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return
		}
		if !found || v < lowest {
			lowest = v
			found = true
		}
	}
	for _, c := range t.Cabins {
		consider(c.Amount)
	}
	for _, c := range t.CabinsTwos {
		consider(c.Price)
	}
	return lowest, found
}

func priceAtLeast(t Trip, min int) bool {
	p, ok := lowestPrice(t)
	return ok && p >= float64(min)
}

func priceAtMost(t Trip, max int) bool {
	p, ok := lowestPrice(t)
	return ok && p <= float64(max)
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
