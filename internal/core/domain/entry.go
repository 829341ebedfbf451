package domain

import "time"

// Entry is a stored item: a queued payload or a reference value. The
// payload content is opaque to the store; callers that use envelope
// framing store the envelope string here. Entries are never mutated
// in place except for expiry updates through an inquiry.
type Entry struct {
	// Payload is the opaque content.
	Payload string `json:"payload"`

	// Recipient is the target key for queue entries; empty for references.
	Recipient string `json:"recipient,omitempty"`

	// Tracking is an optional caller-supplied identifier for later inquiry.
	Tracking string `json:"tracking,omitempty"`

	// ExpiresOn is the absolute expiry instant; the zero value means never.
	ExpiresOn time.Time `json:"expires_on,omitzero"`

	// SpillKey names the blob holding the payload when it has been
	// spilled to disk; Payload is then empty until pickup rehydrates
	// it. SpillSize preserves the payload's true size for quota
	// accounting.
	SpillKey  string `json:"-"`
	SpillSize int64  `json:"-"`
}

// Size returns the entry's contribution to aggregate size accounting.
func (e *Entry) Size() int64 {
	if e.SpillKey != "" {
		return e.SpillSize
	}
	return int64(len(e.Payload))
}

// Expired reports whether the entry's expiry has passed at now.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresOn.IsZero() && e.ExpiresOn.Before(now)
}
