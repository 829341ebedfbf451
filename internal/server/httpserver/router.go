package httpserver

import (
	"net/http"

	"github.com/rambotech/dropzone-go/internal/core/service"
	"github.com/rambotech/dropzone-go/internal/server/httpserver/handler"
	"github.com/rambotech/dropzone-go/internal/telemetry/logger"
	"github.com/rambotech/dropzone-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Service is the zone service behind every route.
	Service *service.ZoneService

	// Logger for request logging.
	Logger logger.Logger

	// Metrics backs the /metrics endpoint and request counters. May
	// be nil in tests.
	Metrics *metric.Registry

	// AccessToken gates client operations; empty disables the check.
	AccessToken string

	// AdminToken gates admin operations; empty disables those routes.
	AdminToken string

	// RateLimitPerSecond and RateLimitBurst configure per-address
	// rate limiting; zero disables it.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.Service, cfg.Logger)

	authCfg := &AuthConfig{
		AccessToken: cfg.AccessToken,
		AdminToken:  cfg.AdminToken,
		Watch:       cfg.Service.Watch(),
		Metrics:     cfg.Metrics,
	}

	base := []Middleware{
		Recover(),
		RequestID(),
		Logging(cfg.Metrics),
	}

	client := append([]Middleware{}, base...)
	if cfg.RateLimitPerSecond > 0 {
		client = append(client, RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}
	client = append(client, ShutdownGuard(cfg.Service), Auth(authCfg))
	clientHandler := Chain(h, client...)

	admin := append([]Middleware{}, base...)
	admin = append(admin, AdminAuth(authCfg))
	adminHandler := Chain(h, admin...)

	plainHandler := Chain(h, Recover(), RequestID())

	mux := http.NewServeMux()

	// Health endpoints bypass authentication and rate limits.
	mux.Handle("GET /health", plainHandler)
	mux.Handle("GET /ready", plainHandler)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Client operations.
	mux.Handle("POST /api/payload/dropoff/{zone}", clientHandler)
	mux.Handle("GET /api/payload/pickup/{zone}", clientHandler)
	mux.Handle("GET /api/payload/inquiry/{zone}", clientHandler)
	mux.Handle("POST /api/reference/set/{zone}/{key}", clientHandler)
	mux.Handle("GET /api/reference/get/{zone}/{key}", clientHandler)
	mux.Handle("DELETE /api/reference/drop/{zone}/{key}", clientHandler)
	mux.Handle("GET /api/reference/list/{zone}", clientHandler)
	mux.Handle("GET /api/statistics/{zone}", clientHandler)
	mux.Handle("GET /api/statistics", clientHandler)
	mux.Handle("POST /api/metrics/{zone}", clientHandler)

	// Admin operations.
	mux.Handle("GET /api/securityinfo", adminHandler)
	mux.Handle("DELETE /api/clear/{zone}", adminHandler)
	mux.Handle("POST /api/reset", adminHandler)
	mux.Handle("POST /api/shutdown", adminHandler)

	return mux
}
