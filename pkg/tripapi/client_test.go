package tripapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"expedition/internal/trip"
	"expedition/pkg/logger"
	"expedition/pkg/ratelimit"
)

var testBounds = trip.PriceBounds{Min: 3500, Max: 40000}

func testLogger() logger.Client {
	return logger.NewWithWriter("test", testWriter{})
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestClient(t *testing.T, handler http.HandlerFunc, profile trip.EndpointProfile) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient := &http.Client{Timeout: 5 * time.Second}
	limiter := ratelimit.NewEndpointLimiter(ratelimit.DefaultConfig())
	return NewClient(httpClient, server.URL, profile, testBounds, limiter, testLogger())
}

func okEnvelope() string {
	return `{
		"success": true,
		"data": {"data": {"trips": {"data": [{"id": 1}], "current_page": 1, "last_page": 1, "total": 1}}}
	}`
}

func searchRequest(f trip.FilterState, page int) trip.PageRequest {
	return trip.PageRequest{TripType: "expedition", Page: page, Limit: 9, Filters: f}
}

func TestClient_ExpeditionParameterMapping(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(okEnvelope()))
	}, trip.ExpeditionProfile())

	f := trip.DefaultFilterState(testBounds)
	f.Destination = "Svalbard"
	f.StartDate = "2026-06-01"
	f.Duration = trip.Duration4To7
	f.Ship = "MV Aurora"
	f.MinPrice = 5000
	f.MaxPrice = 20000

	_, err := client.Search(context.Background(), searchRequest(f, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"page":           "2",
		"limit":          "9",
		"destinations":   "Svalbard",
		"departure_date": "2026-06-01",
		"min_duration":   "4",
		"max_duration":   "7",
		"ship":           "MV Aurora",
		"min_price":      "5000",
		"max_price":      "20000",
	}
	for key, value := range want {
		if got := gotQuery.Get(key); got != value {
			t.Errorf("param %s: got %q, want %q", key, got, value)
		}
	}
}

func TestClient_CruiseParameterMapping(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(okEnvelope()))
	}, trip.CruiseProfile())

	f := trip.DefaultFilterState(testBounds)
	f.Destination = "Greenland"
	f.StartDate = "2026-06-01"
	f.Ship = "MV Borealis"
	f.MinPrice = 5000

	_, err := client.Search(context.Background(), searchRequest(f, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gotQuery.Get("destination"); got != "Greenland" {
		t.Errorf("cruise endpoint uses destination, got %q", got)
	}
	if gotQuery.Has("destinations") {
		t.Error("cruise endpoint must not receive the expedition spelling")
	}
	if got := gotQuery.Get("ship_name"); got != "MV Borealis" {
		t.Errorf("cruise endpoint uses ship_name, got %q", got)
	}
	// unsupported filters stay client-side
	if gotQuery.Has("departure_date") || gotQuery.Has("min_price") || gotQuery.Has("max_price") {
		t.Errorf("cruise endpoint must not receive date/price filters, got %v", gotQuery)
	}
}

func TestClient_FullPriceRangeNotSent(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(okEnvelope()))
	}, trip.ExpeditionProfile())

	f := trip.DefaultFilterState(testBounds)
	if _, err := client.Search(context.Background(), searchRequest(f, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.Has("min_price") || gotQuery.Has("max_price") {
		t.Errorf("default price range must not be sent upstream, got %v", gotQuery)
	}
}

func TestClient_NonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, trip.ExpeditionProfile())

	_, err := client.Search(context.Background(), searchRequest(trip.DefaultFilterState(testBounds), 1))

	var fetchErr *trip.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503 recorded, got %d", fetchErr.StatusCode)
	}
	if fetchErr.UserMessage() == "" {
		t.Error("fetch errors must carry a user-facing message")
	}
}

func TestClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"unexpected": true}}`))
	}, trip.ExpeditionProfile())

	_, err := client.Search(context.Background(), searchRequest(trip.DefaultFilterState(testBounds), 1))

	var malformed *trip.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(okEnvelope()))
	}, trip.ExpeditionProfile())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, searchRequest(trip.DefaultFilterState(testBounds), 1))

	if !trip.IsCancelled(err) {
		t.Fatalf("expected a cancellation error, got %v", err)
	}
	var fetchErr *trip.FetchError
	if errors.As(err, &fetchErr) {
		t.Error("cancellation must not be reported as a fetch failure")
	}
}
