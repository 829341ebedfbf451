package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/rambotech/dropzone-go/internal/core/service"
	"github.com/rambotech/dropzone-go/internal/telemetry/logger"
	"github.com/rambotech/dropzone-go/internal/telemetry/metric"
	"github.com/rambotech/dropzone-go/pkg/digest"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first middleware
// listed is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID stamps each request with a ULID, propagated through the
// context for log correlation and echoed in the response header.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = "req-" + ulid.Make().String()
			}
			w.Header().Set("X-Request-ID", requestID)

			ctx := logger.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging logs each completed request and feeds the request metrics.
// metrics may be nil.
func Logging(metrics *metric.Registry) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			route := routeOp(r)
			if metrics != nil {
				metrics.RequestsTotal.WithLabelValues(route, http.StatusText(wrapped.statusCode)).Inc()
				metrics.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
			}

			log := logger.L(r.Context())
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", duration.Milliseconds(),
				"client_ip", clientIP(r),
			}
			switch {
			case wrapped.statusCode >= 500:
				log.Error("request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				log.Warn("request completed with client error", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
		})
	}
}

// maxRateLimiters caps the per-address limiter table. When a new
// address arrives at the cap, the address idle the longest loses its
// bucket.
const maxRateLimiters = 4096

// RateLimit applies per-address rate limiting with a token bucket.
// The limiter table is bounded so a churn of one-shot addresses
// cannot grow it without limit.
func RateLimit(perSecond float64, burst int) Middleware {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var mu sync.Mutex
	clients := make(map[string]*client)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		c, ok := clients[ip]
		if !ok {
			if len(clients) >= maxRateLimiters {
				oldest, oldestSeen := "", now.Add(time.Minute)
				for addr, cand := range clients {
					if cand.lastSeen.Before(oldestSeen) {
						oldest, oldestSeen = addr, cand.lastSeen
					}
				}
				delete(clients, oldest)
			}
			c = &client{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
			clients[ip] = c
		}
		c.lastSeen = now
		return c.limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiterFor(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				writeAuthError(w, "DZ-REQ-4290", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthConfig configures the token authentication middlewares.
type AuthConfig struct {
	// AccessToken gates client operations; empty disables the check.
	AccessToken string

	// AdminToken gates admin operations; empty disables those routes.
	AdminToken string

	// Watch records authentication attempts and answers lockout
	// queries.
	Watch *service.WatchService

	// Metrics may be nil.
	Metrics *metric.Registry
}

// Auth authenticates client operations with the X-Access-Token
// header. A locked-out address is refused before any token
// comparison, so probing the token does not reveal whether it changed
// during the lockout.
func Auth(cfg *AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authenticate(cfg, cfg.AccessToken, "X-Access-Token", w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminAuth authenticates admin operations with the X-Admin-Token
// header. With no admin token configured the routes are disabled
// outright.
func AdminAuth(cfg *AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.AdminToken == "" {
				writeAuthError(w, "DZ-AUTH-4010", "admin operations are disabled")
				return
			}
			if !authenticate(cfg, cfg.AdminToken, "X-Admin-Token", w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authenticate runs the shared lockout-then-token check. It writes
// the refusal response itself and reports whether the request may
// proceed.
func authenticate(cfg *AuthConfig, want, header string, w http.ResponseWriter, r *http.Request) bool {
	ip := clientIP(r)
	zone := r.PathValue("zone")
	op := routeOp(r)

	if cfg.Watch.IsLockedOut(ip) {
		if cfg.Metrics != nil {
			cfg.Metrics.LockoutsTotal.Inc()
		}
		logger.L(r.Context()).Warn("locked-out address refused",
			"client_ip", ip, "op", op)
		writeAuthError(w, "DZ-AUTH-4011", "address temporarily locked out")
		return false
	}

	if want == "" {
		return true
	}

	got := r.Header.Get(header)
	if !digest.Equal(got, want) {
		cfg.Watch.RecordAttempt(ip, zone, op, false)
		if cfg.Metrics != nil {
			cfg.Metrics.AuthFailsTotal.Inc()
		}
		writeAuthError(w, "DZ-AUTH-4010", "invalid or missing access token")
		return false
	}

	cfg.Watch.RecordAttempt(ip, zone, op, true)
	return true
}

// ShutdownGuard refuses requests once a shutdown has been requested,
// letting the drain finish without accepting new work.
func ShutdownGuard(svc *service.ZoneService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if svc.ShutdownRequested() {
				writeAuthError(w, "DZ-SYS-5030", "service shutting down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Recover turns handler panics into a 500 response.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.L(r.Context()).Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
					)
					writeAuthError(w, "DZ-SYS-5000", "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// routeOp names the API operation for metrics labels and the access
// watch: /api/payload/dropoff/orders becomes payload/dropoff.
func routeOp(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, "/api/")
	parts := strings.SplitN(path, "/", 3)
	switch len(parts) {
	case 0:
		return r.URL.Path
	case 1:
		return parts[0]
	default:
		if parts[0] == "statistics" || parts[0] == "metrics" || parts[0] == "clear" {
			return parts[0]
		}
		return parts[0] + "/" + parts[1]
	}
}

// writeAuthError writes a middleware-level error response using the
// same code conventions as the handlers.
func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)

	status := http.StatusUnauthorized
	switch {
	case strings.HasSuffix(code, "-4290"):
		status = http.StatusTooManyRequests
	case strings.HasSuffix(code, "-5030"):
		status = http.StatusServiceUnavailable
	case strings.HasSuffix(code, "-5000"):
		status = http.StatusInternalServerError
	}

	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

// clientIP extracts the caller address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
