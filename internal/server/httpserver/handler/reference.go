package handler

import (
	"io"
	"net/http"

	"github.com/rambotech/dropzone-go/internal/core/domain"
)

// handleSetReference handles POST /api/reference/set/{zone}/{key}.
// The request body is the reference value.
func (h *Handler) handleSetReference(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")
	key := r.PathValue("key")

	expiresOn, err := parseExpiry(r.URL.Query().Get("expires_on"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"expires_on must be RFC 3339", nil)
		return
	}

	value, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"unreadable request body", nil)
		return
	}

	if err := h.svc.SetReference(r.Context(), zone, key, string(value), expiresOn); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ReferenceResponse{Key: key, Value: string(value)})
}

// handleGetReference handles GET /api/reference/get/{zone}/{key}. A
// missing or expired key answers 204.
func (h *Handler) handleGetReference(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")
	key := r.PathValue("key")

	value, err := h.svc.GetReference(r.Context(), zone, key)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ReferenceResponse{Key: key, Value: value})
}

// handleDropReference handles DELETE /api/reference/drop/{zone}/{key}.
func (h *Handler) handleDropReference(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")
	key := r.PathValue("key")

	if err := h.svc.DropReference(r.Context(), zone, key); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"key": key, "status": "dropped"})
}

// handleListReferences handles GET /api/reference/list/{zone}.
func (h *Handler) handleListReferences(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")

	keys, err := h.svc.ListReferences(r.Context(), zone)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ListReferencesResponse{Keys: keys})
}
