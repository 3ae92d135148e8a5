package trip

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// The refiner re-filters and re-sorts a fetched page on our side. The booking
// API's filter surface is inconsistent across trip types: cruise endpoints
// accept no departure-date lower bound and carry their prices in a different
// cabin shape, and in-page sort is never sent upstream. All functions here are
// pure and total; invalid or missing numeric fields become sentinel extremes
// rather than errors.

// LowestPrice scans the trip's price-bearing cabins and returns the lowest
// bookable price. Non-numeric amounts are skipped; ok is false when no cabin
// has a valid price.
func LowestPrice(t Trip) (float64, bool) {
	lowest := math.Inf(1)
	found := false

	for _, c := range t.Cabins {
		if v, err := strconv.ParseFloat(c.Amount, 64); err == nil && v < lowest {
			lowest = v
			found = true
		}
	}
	for _, c := range t.CabinsTwos {
		if v, err := strconv.ParseFloat(c.Price, 64); err == nil && v < lowest {
			lowest = v
			found = true
		}
	}

	if !found {
		return 0, false
	}
	return lowest, true
}

var departureLayouts = []string{"2006-01-02", time.RFC3339}

func parseDeparture(s string) (time.Time, bool) {
	for _, layout := range departureLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FilterByStartDate keeps trips departing on or after the given ISO date.
// Trips without a parseable departure date are excluded while the filter is
// active. An empty date is a no-op.
func FilterByStartDate(items []Trip, isoDate string) []Trip {
	if isoDate == "" {
		return items
	}
	floor, ok := parseDeparture(isoDate)
	if !ok {
		return items
	}

	kept := make([]Trip, 0, len(items))
	for _, t := range items {
		dep, ok := parseDeparture(t.DepartureDate)
		if !ok {
			continue
		}
		if !dep.Before(floor) {
			kept = append(kept, t)
		}
	}
	return kept
}

// FilterByPriceRange keeps trips whose lowest bookable price falls inside
// [min, max]. At the full default bounds the filter is a no-op and the input
// is returned unchanged; otherwise trips with no valid price are excluded.
func FilterByPriceRange(items []Trip, min, max int, bounds PriceBounds) []Trip {
	if min == bounds.Min && max == bounds.Max {
		return items
	}

	kept := make([]Trip, 0, len(items))
	for _, t := range items {
		price, ok := LowestPrice(t)
		if !ok {
			continue
		}
		if price >= float64(min) && price <= float64(max) {
			kept = append(kept, t)
		}
	}
	return kept
}

// SortTrips returns a sorted copy of the page. The default option preserves
// server order. Price sorts rank trips with no valid price as +Inf ascending
// and -Inf descending so they land last and first respectively; the date sort
// puts undated trips last.
func SortTrips(items []Trip, opt SortOption) []Trip {
	if opt == SortDefault || len(items) <= 1 {
		return items
	}

	sorted := make([]Trip, len(items))
	copy(sorted, items)

	switch opt {
	case SortPriceLowHigh:
		sort.SliceStable(sorted, func(i, j int) bool {
			return priceOrInf(sorted[i], math.Inf(1)) < priceOrInf(sorted[j], math.Inf(1))
		})
	case SortPriceHighLow:
		sort.SliceStable(sorted, func(i, j int) bool {
			return priceOrInf(sorted[i], math.Inf(-1)) > priceOrInf(sorted[j], math.Inf(-1))
		})
	case SortDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			return departureUnix(sorted[i]) < departureUnix(sorted[j])
		})
	}

	return sorted
}

func priceOrInf(t Trip, missing float64) float64 {
	if price, ok := LowestPrice(t); ok {
		return price
	}
	return missing
}

func departureUnix(t Trip) int64 {
	dep, ok := parseDeparture(t.DepartureDate)
	if !ok {
		return math.MaxInt64
	}
	return dep.Unix()
}

// Repaginate slices a locally filtered set into one page and recomputes the
// pagination metadata from the set's length. The requested page is clamped
// into range. Used by listings whose endpoint cannot paginate the filtered
// set server-side.
func Repaginate(items []Trip, page, size int) PaginatedResult {
	if size < 1 {
		size = 1
	}

	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return PaginatedResult{
		Items:       items[start:end],
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
	}
}
