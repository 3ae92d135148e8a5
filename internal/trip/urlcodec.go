package trip

import (
	"net/url"
	"strconv"
)

// Query parameter names shared by the listing URL and the booking API.
const (
	paramDestinations = "destinations"
	paramDeparture    = "departure_date"
	paramMinDuration  = "min_duration"
	paramMaxDuration  = "max_duration"
	paramShip         = "ship"
	paramShipSize     = "shipSize"
	paramMinPrice     = "min_price"
	paramMaxPrice     = "max_price"
	paramPage         = "page"
)

// Codec maps FilterState to and from listing URL query parameters.
//
// Only non-empty and non-default fields are emitted, so a pristine listing has
// a clean address bar. The duration bucket expands to its min/max day pair.
// IncludeFirstPage controls whether page=1 is written explicitly; the default
// is to omit it.
type Codec struct {
	Bounds           PriceBounds
	IncludeFirstPage bool
}

// Encode renders the state as query parameters. The sort option is ephemeral
// and never encoded.
func (c Codec) Encode(f FilterState, page int) url.Values {
	values := url.Values{}

	if f.Destination != "" {
		values.Set(paramDestinations, f.Destination)
	}
	if f.StartDate != "" {
		values.Set(paramDeparture, f.StartDate)
	}
	if min, max, ok := f.Duration.Range(); ok {
		values.Set(paramMinDuration, strconv.Itoa(min))
		if max != openEndedMaxDay {
			values.Set(paramMaxDuration, strconv.Itoa(max))
		}
	}
	if f.Ship != "" {
		values.Set(paramShip, f.Ship)
	}
	if f.ShipSize != "" {
		values.Set(paramShipSize, f.ShipSize)
	}
	if f.MinPrice != c.Bounds.Min {
		values.Set(paramMinPrice, strconv.Itoa(f.MinPrice))
	}
	if f.MaxPrice != c.Bounds.Max {
		values.Set(paramMaxPrice, strconv.Itoa(f.MaxPrice))
	}
	if page > 1 || c.IncludeFirstPage {
		values.Set(paramPage, strconv.Itoa(page))
	}

	return values
}

// EncodeQuery is Encode rendered as a canonical query string.
func (c Codec) EncodeQuery(f FilterState, page int) string {
	return c.Encode(f, page).Encode()
}

// Decode is the inverse of Encode. Malformed numeric parameters fall back to
// their defaults instead of failing, the price range is clamped into the
// bounds, and the page is clamped to >= 1. Unknown duration ranges map to the
// empty bucket.
func (c Codec) Decode(values url.Values) (FilterState, int) {
	f := DefaultFilterState(c.Bounds)

	f.Destination = values.Get(paramDestinations)
	f.StartDate = values.Get(paramDeparture)
	f.Ship = values.Get(paramShip)
	f.ShipSize = values.Get(paramShipSize)

	minDur := intParam(values, paramMinDuration, 0)
	maxDur := intParam(values, paramMaxDuration, openEndedMaxDay)
	f.Duration = BucketForRange(minDur, maxDur)

	f.MinPrice = intParam(values, paramMinPrice, c.Bounds.Min)
	f.MaxPrice = intParam(values, paramMaxPrice, c.Bounds.Max)
	f = f.ClampPrices(c.Bounds)

	page := intParam(values, paramPage, 1)
	if page < 1 {
		page = 1
	}

	return f, page
}

// DecodeQuery parses a raw query string. An unparseable string decodes as an
// empty query and therefore yields the default state.
func (c Codec) DecodeQuery(raw string) (FilterState, int) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		values = url.Values{}
	}
	return c.Decode(values)
}

func intParam(values url.Values, key string, fallback int) int {
	raw := values.Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
