package trip

// PriceBounds is the global price slider range for a listing. A filter whose
// price range equals the bounds is considered unfiltered.
type PriceBounds struct {
	Min int
	Max int
}

// DurationBucket is the closed set of duration choices shown to the user.
// Each bucket maps to a (min,max) day range; the open-ended bucket has no max.
type DurationBucket string

const (
	DurationAny     DurationBucket = ""
	Duration1To3    DurationBucket = "1-3 days"
	Duration4To7    DurationBucket = "4-7 days"
	Duration8To14   DurationBucket = "8-14 days"
	Duration15Plus  DurationBucket = "15+ days"
	openEndedMaxDay                = 0 // sentinel for "no upper bound"
)

// Range returns the day range for the bucket. max is 0 for the open-ended
// bucket. ok is false for DurationAny and unknown values.
func (b DurationBucket) Range() (min, max int, ok bool) {
	switch b {
	case Duration1To3:
		return 1, 3, true
	case Duration4To7:
		return 4, 7, true
	case Duration8To14:
		return 8, 14, true
	case Duration15Plus:
		return 15, openEndedMaxDay, true
	default:
		return 0, 0, false
	}
}

// BucketForRange is the inverse of Range. Ranges that match no bucket map to
// DurationAny.
func BucketForRange(min, max int) DurationBucket {
	switch {
	case min == 1 && max == 3:
		return Duration1To3
	case min == 4 && max == 7:
		return Duration4To7
	case min == 8 && max == 14:
		return Duration8To14
	case min == 15 && max == openEndedMaxDay:
		return Duration15Plus
	default:
		return DurationAny
	}
}

// SortOption is the in-page sort. It is ephemeral UI state and is never
// encoded into the URL.
type SortOption string

const (
	SortDefault      SortOption = ""
	SortPriceLowHigh SortOption = "price_low_high"
	SortPriceHighLow SortOption = "price_high_low"
	SortDate         SortOption = "date"
)

// ParseSortOption maps a raw query value onto the enum, falling back to the
// default order for anything unrecognized.
func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortPriceLowHigh, SortPriceHighLow, SortDate:
		return SortOption(s)
	default:
		return SortDefault
	}
}

// FilterState is the full set of user-chosen search constraints for one trip
// listing. It is an immutable value: every edit replaces it wholesale, and
// structural equality (==) decides whether a URL push or re-fetch is needed.
type FilterState struct {
	Destination string
	StartDate   string // ISO date, empty = unfiltered
	Duration    DurationBucket
	Ship        string
	ShipSize    string
	MinPrice    int
	MaxPrice    int
}

// DefaultFilterState returns the unfiltered state: full price range,
// everything else empty.
func DefaultFilterState(bounds PriceBounds) FilterState {
	return FilterState{
		MinPrice: bounds.Min,
		MaxPrice: bounds.Max,
	}
}

// ClampPrices enforces Min <= MinPrice <= MaxPrice <= Max, resetting an
// inverted range to the full bounds.
func (f FilterState) ClampPrices(bounds PriceBounds) FilterState {
	if f.MinPrice < bounds.Min {
		f.MinPrice = bounds.Min
	}
	if f.MaxPrice > bounds.Max || f.MaxPrice < bounds.Min {
		f.MaxPrice = bounds.Max
	}
	if f.MinPrice > f.MaxPrice {
		f.MinPrice = bounds.Min
		f.MaxPrice = bounds.Max
	}
	return f
}

// FullPriceRange reports whether the price filter is a no-op.
func (f FilterState) FullPriceRange(bounds PriceBounds) bool {
	return f.MinPrice == bounds.Min && f.MaxPrice == bounds.Max
}

// PageRequest is one paginated search against the remote booking API.
type PageRequest struct {
	TripType string
	Page     int
	Limit    int
	Filters  FilterState
}

// Cabin is the price-bearing unit of an expedition trip. Amount arrives as a
// numeric string from the booking API; non-numeric values are skipped when
// computing the lowest bookable price.
type Cabin struct {
	Amount string `json:"amount"`
}

// CabinTwo is the price-bearing unit of a cruise trip. The two shapes are
// mutually exclusive per trip type.
type CabinTwo struct {
	Price string `json:"price"`
}

type Destination struct {
	Name string `json:"name"`
}

type Ship struct {
	Name string `json:"name"`
}

// Trip is the listing entity. Fields beyond the ones the query logic touches
// are passed through untouched.
type Trip struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	DepartureDate string        `json:"departure_date"`
	DurationDays  int           `json:"duration"`
	Cabins        []Cabin       `json:"cabins,omitempty"`
	CabinsTwos    []CabinTwo    `json:"cabins_twos,omitempty"`
	Destinations  []Destination `json:"destinations,omitempty"`
	Ship          *Ship         `json:"ship,omitempty"`
}

// Metadata describes how a result was produced, for logs and debugging.
type Metadata struct {
	CacheHit     bool   `json:"cache_hit"`
	CacheKey     string `json:"cache_key,omitempty"`
	SearchID     string `json:"search_id,omitempty"`
	SearchTimeMs uint32 `json:"search_time_ms,omitempty"`
}

// PaginatedResult is one fetched page plus pagination metadata. It is
// replaced atomically on each successful fetch and never merged.
type PaginatedResult struct {
	Items       []Trip   `json:"trips"`
	CurrentPage int      `json:"current_page"`
	TotalPages  int      `json:"last_page"`
	TotalItems  int      `json:"total"`
	Metadata    Metadata `json:"metadata"`
}

// Normalize enforces the pagination invariants: TotalPages >= 1 and
// CurrentPage within [1, TotalPages].
func (r *PaginatedResult) Normalize() {
	if r.TotalPages < 1 {
		r.TotalPages = 1
	}
	if r.CurrentPage < 1 {
		r.CurrentPage = 1
	}
	if r.CurrentPage > r.TotalPages {
		r.CurrentPage = r.TotalPages
	}
	if r.TotalItems < 0 {
		r.TotalItems = 0
	}
}
