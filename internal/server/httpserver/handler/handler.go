// Package handler provides the HTTP request handlers for the drop
// zone API: payload drop-off and pickup, references, statistics, and
// the administrative operations.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rambotech/dropzone-go/internal/core/domain"
	"github.com/rambotech/dropzone-go/internal/core/service"
	"github.com/rambotech/dropzone-go/internal/telemetry/logger"
)

// maxBodyBytes caps request bodies before they reach quota
// evaluation.
const maxBodyBytes = 64 << 20

// Handler routes API requests to the zone service.
type Handler struct {
	svc *service.ZoneService
	log logger.Logger
	mux *http.ServeMux
}

// New creates a Handler for the given zone service.
func New(svc *service.ZoneService, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	h := &Handler{
		svc: svc,
		log: log,
		mux: http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("POST /api/payload/dropoff/{zone}", h.handleDropoff)
	h.mux.HandleFunc("GET /api/payload/pickup/{zone}", h.handlePickup)
	h.mux.HandleFunc("GET /api/payload/inquiry/{zone}", h.handleInquiry)

	h.mux.HandleFunc("POST /api/reference/set/{zone}/{key}", h.handleSetReference)
	h.mux.HandleFunc("GET /api/reference/get/{zone}/{key}", h.handleGetReference)
	h.mux.HandleFunc("DELETE /api/reference/drop/{zone}/{key}", h.handleDropReference)
	h.mux.HandleFunc("GET /api/reference/list/{zone}", h.handleListReferences)

	h.mux.HandleFunc("GET /api/statistics", h.handleAllStatistics)
	h.mux.HandleFunc("GET /api/statistics/{zone}", h.handleStatistics)
	h.mux.HandleFunc("POST /api/metrics/{zone}", h.handleSetLimits)

	h.mux.HandleFunc("GET /api/securityinfo", h.handleSecurityInfo)
	h.mux.HandleFunc("DELETE /api/clear/{zone}", h.handleClear)
	h.mux.HandleFunc("POST /api/reset", h.handleReset)
	h.mux.HandleFunc("POST /api/shutdown", h.handleShutdown)
}

// writeJSON writes a success response with the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := logger.RequestIDFromContext(r.Context())
	w.Header().Set("X-Error-Code", code)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message, details))
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.DomainError
	if errors.As(err, &derr) {
		status := errorCodeToHTTPStatus(derr.Code)
		h.writeError(w, r, status, derr.Code, derr.Error(), derr.Details)
		return
	}

	logger.L(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, "DZ-SYS-5000", "internal server error", nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes. The
// middle digits of the code mirror the intended status.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-2040"):
		return http.StatusNoContent
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"), strings.HasSuffix(code, "-4002"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4220"):
		return http.StatusUnprocessableEntity
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-5030"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
