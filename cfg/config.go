package cfg

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type BookingAPIConfig struct {
	BaseURL           string
	TimeoutSeconds    int
	RequestsPerSecond float64
	Burst             int
}

type ObservabilityConfig struct {
	ServiceName  string
	Environment  string
	OTLPEndpoint string
}

type Config struct {
	AppEnv           string
	AppPort          string
	RedisConfig      RedisConfig
	BookingAPIConfig BookingAPIConfig
	Observability    ObservabilityConfig
	CacheTTLMinutes  int
	PageSize         int
	MinPrice         int
	MaxPrice         int
	NodeID           int64
}

func Load() (*Config, error) {
	var errs []error

	if err := godotenv.Load(); err != nil {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := mustEnv("APP_PORT", &errs)

	redisHost := mustEnv("REDIS_HOST", &errs)
	redisPort := mustEnv("REDIS_PORT", &errs)
	redisPassword := mustEnv("REDIS_PASSWORD", &errs)

	bookingBaseURL := mustEnv("BOOKING_API_BASE_URL", &errs)
	bookingTimeout := mustEnvInt("BOOKING_API_TIMEOUT_SECONDS", &errs)
	bookingRPS := mustEnvFloat("BOOKING_API_RPS", &errs)
	bookingBurst := mustEnvInt("BOOKING_API_BURST", &errs)

	cacheTTLMinutes := mustEnvInt("CACHE_TTL_MINUTES", &errs)
	pageSize := mustEnvInt("TRIP_PAGE_SIZE", &errs)
	minPrice := mustEnvInt("TRIP_MIN_PRICE", &errs)
	maxPrice := mustEnvInt("TRIP_MAX_PRICE", &errs)
	nodeID := mustEnvInt("NODE_ID", &errs)

	serviceName := mustEnv("OTEL_SERVICE_NAME", &errs)
	otlpEndpoint := mustEnv("OTLP_ENDPOINT", &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		RedisConfig: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		BookingAPIConfig: BookingAPIConfig{
			BaseURL:           bookingBaseURL,
			TimeoutSeconds:    bookingTimeout,
			RequestsPerSecond: bookingRPS,
			Burst:             bookingBurst,
		},
		Observability: ObservabilityConfig{
			ServiceName:  serviceName,
			Environment:  appEnv,
			OTLPEndpoint: otlpEndpoint,
		},
		CacheTTLMinutes: cacheTTLMinutes,
		PageSize:        pageSize,
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
		NodeID:          int64(nodeID),
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func mustEnvInt(key string, errs *[]error) int {
	value := mustEnv(key, errs)
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
	}
	return n
}

func mustEnvFloat(key string, errs *[]error) float64 {
	value := mustEnv(key, errs)
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
	}
	return f
}
