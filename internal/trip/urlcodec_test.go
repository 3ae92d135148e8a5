package trip

import (
	"net/url"
	"testing"
)

var testBounds = PriceBounds{Min: 3500, Max: 40000}

func testCodec() Codec {
	return Codec{Bounds: testBounds}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := testCodec()

	states := []struct {
		name    string
		filters FilterState
		page    int
	}{
		{"default state", DefaultFilterState(testBounds), 1},
		{
			"all fields set",
			FilterState{
				Destination: "Svalbard",
				StartDate:   "2026-06-01",
				Duration:    Duration4To7,
				Ship:        "MV Aurora",
				ShipSize:    "small",
				MinPrice:    5000,
				MaxPrice:    20000,
			},
			3,
		},
		{
			"open-ended duration",
			FilterState{
				Duration: Duration15Plus,
				MinPrice: testBounds.Min,
				MaxPrice: testBounds.Max,
			},
			2,
		},
		{
			"price floor only",
			FilterState{
				Destination: "Antarctica",
				MinPrice:    8000,
				MaxPrice:    testBounds.Max,
			},
			1,
		},
	}

	for _, tc := range states {
		t.Run(tc.name, func(t *testing.T) {
			query := codec.EncodeQuery(tc.filters, tc.page)
			gotFilters, gotPage := codec.DecodeQuery(query)

			if gotFilters != tc.filters {
				t.Errorf("filters did not round-trip: got %+v, want %+v", gotFilters, tc.filters)
			}
			if gotPage != tc.page {
				t.Errorf("page did not round-trip: got %d, want %d", gotPage, tc.page)
			}
		})
	}
}

func TestCodec_FullPriceRangeOmitted(t *testing.T) {
	codec := testCodec()

	f := DefaultFilterState(testBounds)
	f.Destination = "Svalbard"

	values := codec.Encode(f, 1)

	if got := values.Get("destinations"); got != "Svalbard" {
		t.Errorf("expected destinations=Svalbard, got %q", got)
	}
	if values.Has("min_price") || values.Has("max_price") {
		t.Errorf("full price range must not be encoded, got %v", values)
	}
}

func TestCodec_DurationBucketExpansion(t *testing.T) {
	codec := testCodec()

	f := DefaultFilterState(testBounds)
	f.Duration = Duration4To7

	values := codec.Encode(f, 1)
	if values.Get("min_duration") != "4" || values.Get("max_duration") != "7" {
		t.Errorf("expected min_duration=4 max_duration=7, got %v", values)
	}

	f.Duration = DurationAny
	values = codec.Encode(f, 1)
	if values.Has("min_duration") || values.Has("max_duration") {
		t.Errorf("cleared duration must remove both keys, got %v", values)
	}
}

func TestCodec_OpenEndedBucketOmitsMax(t *testing.T) {
	codec := testCodec()

	f := DefaultFilterState(testBounds)
	f.Duration = Duration15Plus

	values := codec.Encode(f, 1)
	if values.Get("min_duration") != "15" {
		t.Errorf("expected min_duration=15, got %v", values)
	}
	if values.Has("max_duration") {
		t.Errorf("open-ended bucket must omit max_duration, got %v", values)
	}
}

func TestCodec_FirstPagePolicy(t *testing.T) {
	f := DefaultFilterState(testBounds)

	omitting := Codec{Bounds: testBounds}
	if omitting.Encode(f, 1).Has("page") {
		t.Error("default policy must omit page=1")
	}
	if got := omitting.Encode(f, 2).Get("page"); got != "2" {
		t.Errorf("expected page=2, got %q", got)
	}

	explicit := Codec{Bounds: testBounds, IncludeFirstPage: true}
	if got := explicit.Encode(f, 1).Get("page"); got != "1" {
		t.Errorf("explicit policy must encode page=1, got %q", got)
	}
}

func TestCodec_MalformedNumericsFallBack(t *testing.T) {
	codec := testCodec()

	values := url.Values{}
	values.Set("min_price", "abc")
	values.Set("max_price", "99999999")
	values.Set("page", "zero")

	f, page := codec.Decode(values)

	if f.MinPrice != testBounds.Min {
		t.Errorf("malformed min_price must fall back to bound, got %d", f.MinPrice)
	}
	if f.MaxPrice != testBounds.Max {
		t.Errorf("out-of-bounds max_price must clamp, got %d", f.MaxPrice)
	}
	if page != 1 {
		t.Errorf("malformed page must fall back to 1, got %d", page)
	}
}

func TestCodec_InvertedPriceRangeResets(t *testing.T) {
	codec := testCodec()

	values := url.Values{}
	values.Set("min_price", "20000")
	values.Set("max_price", "5000")

	f, _ := codec.Decode(values)

	if f.MinPrice != testBounds.Min || f.MaxPrice != testBounds.Max {
		t.Errorf("inverted range must reset to bounds, got [%d,%d]", f.MinPrice, f.MaxPrice)
	}
}

func TestCodec_UnknownDurationRangeMapsToAny(t *testing.T) {
	codec := testCodec()

	values := url.Values{}
	values.Set("min_duration", "2")
	values.Set("max_duration", "9")

	f, _ := codec.Decode(values)
	if f.Duration != DurationAny {
		t.Errorf("unknown duration range must map to empty bucket, got %q", f.Duration)
	}
}

func TestCodec_NegativePageClampsToOne(t *testing.T) {
	codec := testCodec()

	values := url.Values{}
	values.Set("page", "-3")

	_, page := codec.Decode(values)
	if page != 1 {
		t.Errorf("negative page must clamp to 1, got %d", page)
	}
}
