package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rambotech/dropzone-go/internal/core/domain"
	"github.com/rambotech/dropzone-go/internal/core/service"
)

// handleDropoff handles POST /api/payload/dropoff/{zone}.
//
// The request body is the opaque payload. Recipient, tracking
// identifier, and expiry ride in query parameters so the body needs
// no framing of its own.
func (h *Handler) handleDropoff(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")

	expiresOn, err := parseExpiry(r.URL.Query().Get("expires_on"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"expires_on must be RFC 3339", nil)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"unreadable request body", nil)
		return
	}

	req := service.DropoffRequest{
		Zone:      zone,
		Recipient: r.URL.Query().Get("recipient"),
		Tracking:  r.URL.Query().Get("tracking"),
		ExpiresOn: expiresOn,
		Payload:   string(payload),
	}
	if err := h.svc.Dropoff(r.Context(), req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	recipient := req.Recipient
	if recipient == "" {
		recipient = domain.GlobalRecipient
	}
	h.writeJSON(w, r, http.StatusCreated, DropoffResponse{
		Zone:      zone,
		Recipient: recipient,
		Tracking:  req.Tracking,
		ExpiresOn: expiresOn,
		Size:      len(payload),
	})
}

// handlePickup handles GET /api/payload/pickup/{zone}.
//
// An empty queue answers 204 rather than an error body; polling
// consumers treat it as "come back later".
func (h *Handler) handlePickup(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")
	recipient := r.URL.Query().Get("recipient")

	entry, err := h.svc.Pickup(r.Context(), zone, recipient)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, PayloadResponse{
		Payload:   entry.Payload,
		Recipient: entry.Recipient,
		Tracking:  entry.Tracking,
		ExpiresOn: entry.ExpiresOn,
	})
}

// handleInquiry handles GET /api/payload/inquiry/{zone}.
func (h *Handler) handleInquiry(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")
	q := r.URL.Query()

	tracking := q.Get("tracking")
	if tracking == "" {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"tracking is required", nil)
		return
	}

	newExpiry, err := parseExpiry(q.Get("new_expiry"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"new_expiry must be RFC 3339", nil)
		return
	}

	result, err := h.svc.Inquiry(r.Context(), service.InquiryRequest{
		Zone:      zone,
		Tracking:  tracking,
		Recipient: q.Get("recipient"),
		NewExpiry: newExpiry,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}

// parseExpiry parses an optional RFC 3339 expiry parameter; empty
// means no expiry.
func parseExpiry(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New("bad expiry")
	}
	return t, nil
}
