package trip

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, expeditionSource, cruiseSource TripSource) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	listings := map[string]Listing{
		"expedition": {
			Service: newTestService(t, expeditionSource, newMemoryCache()),
			Profile: ExpeditionProfile(),
		},
		"cruise": {
			Service: newTestService(t, cruiseSource, newMemoryCache()),
			Profile: CruiseProfile(),
		},
	}

	router := gin.New()
	NewTripHandler(listings, testCodec(), 2).RegisterRoutes(router)
	return router
}

func doSearch(router *gin.Engine, query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/trips/search?"+query, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSearchTripsHandler_ServerPaginatedListing(t *testing.T) {
	source := &countingSource{result: resultPage(2, 5, 45, Trip{ID: 1}, Trip{ID: 2})}
	router := newTestRouter(t, source, source)

	w := doSearch(router, "type=expedition&destinations=Svalbard&page=2")

	require.Equal(t, http.StatusOK, w.Code)

	var result PaginatedResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.CurrentPage)
	assert.Equal(t, 5, result.TotalPages)
	assert.Equal(t, 45, result.TotalItems)
	assert.Len(t, result.Items, 2)
}

func TestSearchTripsHandler_CruiseRefinesLocally(t *testing.T) {
	// The cruise endpoint ignores price filters and cannot paginate the
	// filtered set, so the handler must refine and repaginate itself.
	cruiseSource := &countingSource{result: resultPage(1, 1, 4,
		cabinTwoTrip(1, "3000"),
		cabinTwoTrip(2, "5000"),
		cabinTwoTrip(3, "6000"),
		cabinTwoTrip(4, "25000"),
	)}
	router := newTestRouter(t, cruiseSource, cruiseSource)

	w := doSearch(router, "type=cruise&min_price=4000&max_price=10000")

	require.Equal(t, http.StatusOK, w.Code)

	var result PaginatedResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.TotalItems)
	assert.Equal(t, 1, result.TotalPages)
	require.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Items[0].ID)
	assert.Equal(t, int64(3), result.Items[1].ID)
}

func TestSearchTripsHandler_SortApplied(t *testing.T) {
	source := &countingSource{result: resultPage(1, 1, 3,
		cabinTrip(1, "300"), cabinTrip(2, "bad"), cabinTrip(3, "100"))}
	router := newTestRouter(t, source, source)

	w := doSearch(router, "type=expedition&sort=price_low_high")

	require.Equal(t, http.StatusOK, w.Code)

	var result PaginatedResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Items, 3)
	assert.Equal(t, int64(3), result.Items[0].ID)
	assert.Equal(t, int64(1), result.Items[1].ID)
	assert.Equal(t, int64(2), result.Items[2].ID, "trip without a valid price sorts last")
}

func TestSearchTripsHandler_UnknownTripType(t *testing.T) {
	source := &countingSource{result: resultPage(1, 1, 0)}
	router := newTestRouter(t, source, source)

	w := doSearch(router, "type=submarine")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchTripsHandler_UpstreamFailure(t *testing.T) {
	source := &countingSource{err: &FetchError{Endpoint: "expedition", StatusCode: 500}}
	router := newTestRouter(t, source, source)

	w := doSearch(router, "type=expedition")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func cabinTwoTrip(id int64, prices ...string) Trip {
	cabins := make([]CabinTwo, 0, len(prices))
	for _, p := range prices {
		cabins = append(cabins, CabinTwo{Price: p})
	}
	return Trip{ID: id, CabinsTwos: cabins}
}
