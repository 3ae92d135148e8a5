package tripapi

import (
	"bytes"
	"encoding/json"
	"errors"

	"expedition/internal/trip"
)

// The booking API wraps trip pages in a success envelope whose nesting depth
// has drifted across versions. Three shapes are in the wild:
//
//	{"success":true,"data":{"data":{"trips":{"data":[...],"current_page":n,...}}}}
//	{"success":true,"data":{"data":[...]}}
//	{"success":true,"data":{"trips":{"data":[...],"current_page":n,...}}}
//
// parseSearchEnvelope enumerates exactly these and fails closed on anything
// else instead of falling through silently.

type tripsPage struct {
	Data        []trip.Trip `json:"data"`
	CurrentPage int         `json:"current_page"`
	LastPage    int         `json:"last_page"`
	Total       int         `json:"total"`
}

type successEnvelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type dataLevel struct {
	Data  json.RawMessage `json:"data"`
	Trips json.RawMessage `json:"trips"`
}

func parseSearchEnvelope(endpoint string, body []byte) (*trip.PaginatedResult, error) {
	var env successEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &trip.MalformedResponseError{Endpoint: endpoint, Reason: "body is not a JSON object"}
	}
	if env.Success != nil && !*env.Success {
		return nil, &trip.FetchError{Endpoint: endpoint, Err: errUpstreamFailure(env.Message)}
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, &trip.MalformedResponseError{Endpoint: endpoint, Reason: "missing data field"}
	}

	var level dataLevel
	if err := json.Unmarshal(env.Data, &level); err != nil {
		return nil, &trip.MalformedResponseError{Endpoint: endpoint, Reason: "data is not an object"}
	}

	// Shape 3: trips page directly under data.
	if len(level.Trips) > 0 {
		return parseTripsPage(endpoint, level.Trips)
	}

	if len(level.Data) == 0 {
		return nil, &trip.MalformedResponseError{Endpoint: endpoint, Reason: "data holds neither trips nor a nested data field"}
	}

	// Shape 2: data.data is the trip array itself, pagination unknown.
	if isJSONArray(level.Data) {
		var items []trip.Trip
		if err := json.Unmarshal(level.Data, &items); err != nil {
			return nil, &trip.MalformedResponseError{Endpoint: endpoint, Reason: "data.data array holds no trips"}
		}
		result := &trip.PaginatedResult{
			Items:       items,
			CurrentPage: 1,
			TotalPages:  1,
			TotalItems:  len(items),
		}
		result.Normalize()
		return result, nil
	}

	// Shape 1: trips page under data.data.
	var inner dataLevel
	if err := json.Unmarshal(level.Data, &inner); err != nil || len(inner.Trips) == 0 {
		return nil, &trip.MalformedResponseError{Endpoint: endpoint, Reason: "data.data holds no trips"}
	}
	return parseTripsPage(endpoint, inner.Trips)
}

func parseTripsPage(endpoint string, raw json.RawMessage) (*trip.PaginatedResult, error) {
	var page tripsPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, &trip.MalformedResponseError{Endpoint: endpoint, Reason: "trips is not a paginated object"}
	}
	if page.Data == nil {
		return nil, &trip.MalformedResponseError{Endpoint: endpoint, Reason: "trips object has no data array"}
	}

	result := &trip.PaginatedResult{
		Items:       page.Data,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.LastPage,
		TotalItems:  page.Total,
	}
	if result.TotalItems == 0 {
		result.TotalItems = len(page.Data)
	}
	result.Normalize()
	return result, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func errUpstreamFailure(message string) error {
	if message == "" {
		message = "upstream reported failure"
	}
	return errors.New(message)
}
