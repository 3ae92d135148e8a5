package trip

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Listing bundles the service and endpoint behavior for one trip type.
type Listing struct {
	Service *Service
	Profile EndpointProfile
}

// TripHandler serves the listing search API consumed by the website's trip
// pages.
type TripHandler struct {
	listings map[string]Listing
	codec    Codec
	pageSize int
}

func NewTripHandler(listings map[string]Listing, codec Codec, pageSize int) *TripHandler {
	return &TripHandler{
		listings: listings,
		codec:    codec,
		pageSize: pageSize,
	}
}

func (h *TripHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/v1/trips/search", h.SearchTripsHandler)
}

// SearchTripsHandler godoc
// @Summary      Search trips
// @Description  Paginated trip search with destination, date, duration, ship and price filters.
// @Param        type      query  string  false  "Trip type (expedition or cruise)"
// @Param        page      query  int     false  "Page number, 1-based"
// @Param        sort      query  string  false  "In-page sort (price_low_high, price_high_low, date)"
// @Produce      json
// @Success      200  {object}  trip.PaginatedResult
// @Router       /v1/trips/search [get]
func (h *TripHandler) SearchTripsHandler(c *gin.Context) {
	tripType := c.DefaultQuery("type", "expedition")
	listing, ok := h.listings[tripType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown trip type: " + tripType,
		})
		return
	}

	filters, page := h.codec.Decode(c.Request.URL.Query())
	sortOpt := ParseSortOption(c.Query("sort"))

	req := PageRequest{
		TripType: tripType,
		Page:     page,
		Limit:    h.pageSize,
		Filters:  filters,
	}

	result, err := listing.Service.SearchTrips(c.Request.Context(), req)
	if err != nil {
		if IsCancelled(err) {
			// client went away, nothing useful to write
			c.AbortWithStatus(499)
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": UserMessage(err),
		})
		return
	}

	items := result.Items
	if !listing.Profile.SupportsDateFilter {
		items = FilterByStartDate(items, filters.StartDate)
	}
	if !listing.Profile.SupportsPriceFilter {
		items = FilterByPriceRange(items, filters.MinPrice, filters.MaxPrice, h.codec.Bounds)
	}
	items = SortTrips(items, sortOpt)

	if !listing.Profile.ServerPaginates {
		repaged := Repaginate(items, page, h.pageSize)
		repaged.Metadata = result.Metadata
		c.JSON(http.StatusOK, repaged)
		return
	}

	refined := *result
	refined.Items = items
	c.JSON(http.StatusOK, refined)
}
