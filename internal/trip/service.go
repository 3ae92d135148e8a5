package trip

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"expedition/pkg/cache"
	"expedition/pkg/idgen"
	"expedition/pkg/logger"
)

// TripSource is the remote booking API abstraction the service fetches from.
type TripSource interface {
	Search(ctx context.Context, req PageRequest) (*PaginatedResult, error)
}

// Service wraps a TripSource with a cache-aside layer so repeated listing
// views of the same filter combination skip the booking API.
type Service struct {
	source TripSource
	cache  cache.Cache
	ttl    time.Duration
	ids    idgen.Generator
	logger logger.Client
	tracer trace.Tracer
}

func NewService(source TripSource, cache cache.Cache, ttlMinutes int,
	ids idgen.Generator, logger logger.Client) *Service {
	return &Service{
		source: source,
		cache:  cache,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		ids:    ids,
		logger: logger,
		tracer: otel.Tracer("expedition/trip"),
	}
}

// generateCacheKey creates a deterministic key from the search parameters.
func (s *Service) generateCacheKey(req PageRequest) string {
	f := req.Filters
	key := fmt.Sprintf("trips:%s:%s:%s:%s:%s:%s:%d:%d:%d:%d",
		req.TripType,
		f.Destination,
		f.StartDate,
		f.Duration,
		f.Ship,
		f.ShipSize,
		f.MinPrice,
		f.MaxPrice,
		req.Page,
		req.Limit,
	)

	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("trips:search:%x", hash[:16])
}

// SearchTrips returns one page of trips for the request, from cache when
// possible. Cancellation errors propagate untouched so callers can drop them;
// cache write failures are logged and never fail the search.
func (s *Service) SearchTrips(ctx context.Context, req PageRequest) (*PaginatedResult, error) {
	ctx, span := s.tracer.Start(ctx, "trip.SearchTrips",
		trace.WithAttributes(
			attribute.String("trip.type", req.TripType),
			attribute.Int("trip.page", req.Page),
		))
	defer span.End()

	searchID := strconv.FormatInt(s.ids.GenerateID(), 10)
	cacheKey := s.generateCacheKey(req)

	cached, err := s.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var result PaginatedResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			result.Metadata.CacheHit = true
			result.Metadata.CacheKey = cacheKey
			result.Metadata.SearchID = searchID
			span.SetAttributes(attribute.Bool("trip.cache_hit", true))
			return &result, nil
		}
		s.logger.Error("failed to unmarshal cached trips",
			logger.Field{Key: "cache_key", Value: cacheKey}, logger.Err(err))
	}

	startTime := time.Now()
	result, err := s.source.Search(ctx, req)
	if err != nil {
		if !IsCancelled(err) {
			s.logger.Error("trip search failed",
				logger.Field{Key: "trip_type", Value: req.TripType},
				logger.Field{Key: "search_id", Value: searchID},
				logger.Err(err),
			)
		}
		return nil, err
	}

	result.Metadata.CacheHit = false
	result.Metadata.CacheKey = cacheKey
	result.Metadata.SearchID = searchID
	result.Metadata.SearchTimeMs = uint32(time.Since(startTime).Milliseconds())

	resultBytes, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("failed to marshal trips for cache", logger.Err(err))
		return result, nil // return the page even if caching fails
	}

	if err := s.cache.Set(ctx, cacheKey, string(resultBytes), s.ttl); err != nil {
		s.logger.Error("failed to cache trips",
			logger.Field{Key: "cache_key", Value: cacheKey}, logger.Err(err))
	}

	return result, nil
}

// InvalidateSearch drops the cached page for one filter combination.
func (s *Service) InvalidateSearch(ctx context.Context, req PageRequest) error {
	cacheKey := s.generateCacheKey(req)
	s.logger.Info("invalidating trip search cache",
		logger.Field{Key: "cache_key", Value: cacheKey})
	return s.cache.Del(ctx, cacheKey)
}
