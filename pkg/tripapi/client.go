package tripapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"expedition/internal/trip"
	"expedition/pkg/logger"
	"expedition/pkg/ratelimit"
)

// Client fetches trip pages from the booking API for one endpoint profile.
type Client struct {
	httpClient *http.Client
	baseURL    string
	profile    trip.EndpointProfile
	bounds     trip.PriceBounds
	limiter    *ratelimit.EndpointLimiter
	logger     logger.Client
}

func NewClient(httpClient *http.Client, baseURL string, profile trip.EndpointProfile,
	bounds trip.PriceBounds, limiter *ratelimit.EndpointLimiter, logger logger.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		profile:    profile,
		bounds:     bounds,
		limiter:    limiter,
		logger:     logger,
	}
}

func (c *Client) Profile() trip.EndpointProfile {
	return c.profile
}

// Search runs one paginated trip search. Cancellation of ctx yields
// trip.ErrCancelled; network errors, timeouts, and non-2xx responses yield a
// *trip.FetchError; unrecognized bodies yield a *trip.MalformedResponseError.
func (c *Client) Search(ctx context.Context, req trip.PageRequest) (*trip.PaginatedResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.profile.Name); err != nil {
			if trip.IsCancelled(err) {
				return nil, fmt.Errorf("%w: %s", trip.ErrCancelled, c.profile.Name)
			}
			return nil, &trip.FetchError{Endpoint: c.profile.Name, Err: err}
		}
	}

	searchURL := fmt.Sprintf("%s%s?%s", c.baseURL, c.profile.Path, c.buildQuery(req).Encode())

	r, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &trip.FetchError{Endpoint: c.profile.Name, Err: err}
	}
	r.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(r)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("%w: %s", trip.ErrCancelled, c.profile.Name)
		}
		return nil, &trip.FetchError{Endpoint: c.profile.Name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &trip.FetchError{Endpoint: c.profile.Name, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &trip.FetchError{Endpoint: c.profile.Name, Err: err}
	}

	result, err := parseSearchEnvelope(c.profile.Name, body)
	if err != nil {
		c.logger.Error("trip search response rejected",
			logger.Field{Key: "endpoint", Value: c.profile.Name},
			logger.Err(err),
		)
		return nil, err
	}

	return result, nil
}

// buildQuery maps the request onto the endpoint's parameter names, sending
// only the fields the endpoint honors and only when they carry a value.
func (c *Client) buildQuery(req trip.PageRequest) url.Values {
	values := url.Values{}
	f := req.Filters

	values.Set("page", strconv.Itoa(req.Page))
	values.Set("limit", strconv.Itoa(req.Limit))

	if f.Destination != "" {
		values.Set(c.profile.DestinationParam, f.Destination)
	}
	if c.profile.SupportsDateFilter && f.StartDate != "" {
		values.Set("departure_date", f.StartDate)
	}
	if min, max, ok := f.Duration.Range(); ok {
		values.Set("min_duration", strconv.Itoa(min))
		if max != 0 {
			values.Set("max_duration", strconv.Itoa(max))
		}
	}
	if f.Ship != "" {
		values.Set(c.profile.ShipParam, f.Ship)
	}
	if c.profile.SendShipSize && f.ShipSize != "" {
		values.Set("ship_size", f.ShipSize)
	}
	if c.profile.SupportsPriceFilter && !f.FullPriceRange(c.bounds) {
		values.Set("min_price", strconv.Itoa(f.MinPrice))
		values.Set("max_price", strconv.Itoa(f.MaxPrice))
	}

	return values
}
