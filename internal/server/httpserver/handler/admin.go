package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rambotech/dropzone-go/internal/core/domain"
)

// handleStatistics handles GET /api/statistics/{zone}.
func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")

	stats, err := h.svc.Statistics(r.Context(), zone)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, stats)
}

// handleAllStatistics handles GET /api/statistics.
func (h *Handler) handleAllStatistics(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.svc.AllStatistics(r.Context()))
}

// handleSetLimits handles POST /api/metrics/{zone}, replacing the
// zone's quota limits.
func (h *Handler) handleSetLimits(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")

	var req LimitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"invalid request body", nil)
		return
	}

	limits := domain.Limits{
		MaxPayloadCount:   req.MaxPayloadCount,
		MaxPayloadSize:    req.MaxPayloadSize,
		MaxReferenceCount: req.MaxReferenceCount,
		MaxReferenceSize:  req.MaxReferenceSize,
	}
	if err := h.svc.SetLimits(r.Context(), zone, limits); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, limits)
}

// handleSecurityInfo handles GET /api/securityinfo, returning the
// access watch snapshot.
func (h *Handler) handleSecurityInfo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.svc.SecurityInfo())
}

// handleClear handles DELETE /api/clear/{zone}.
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")

	if err := h.svc.Clear(r.Context(), zone); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"zone": zone, "status": "cleared"})
}

// handleReset handles POST /api/reset.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "reset"})
}

// handleShutdown handles POST /api/shutdown. The response is written
// before the process lifecycle reacts to the request.
func (h *Handler) handleShutdown(w http.ResponseWriter, r *http.Request) {
	h.svc.RequestShutdown()
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "shutting down"})
}
