package storage

import (
	"context"
	"time"

	"github.com/rambotech/dropzone-go/internal/core/domain"
)

// Backend is the zone storage capability consumed by the service
// layer. Zones are created lazily on first reference by any operation,
// subject to the registry's zone cap. Implementations must be safe for
// concurrent use; operations on different zones must not block one
// another.
type Backend interface {
	// Dropoff appends a payload to the zone's queue for recipient
	// (domain.GlobalRecipient when blank). Denied admissions return
	// ErrPayloadOverLimit and increment the zone's denial counter.
	Dropoff(ctx context.Context, zone, recipient, tracking string, expiresOn time.Time, payload string) error

	// Pickup pops the oldest non-expired entry for recipient, discarding
	// expired entries encountered on the way. Returns ErrNoDataAvailable
	// when no live entry exists.
	Pickup(ctx context.Context, zone, recipient string) (domain.Entry, error)

	// Inquiry scans for a queued entry by tracking identifier, optionally
	// narrowed to one recipient, optionally rewriting its expiry. Returns
	// the entry's current expiry when found. The entry is not removed.
	Inquiry(ctx context.Context, zone, tracking, recipient string, newExpiry time.Time) (found bool, expiresOn time.Time, err error)

	// SetReference writes a single-valued key, last-write-wins. A
	// replaced value's size is released before quota evaluation. Denied
	// admissions return ErrReferenceOverLimit.
	SetReference(ctx context.Context, zone, key, value string, expiresOn time.Time) error

	// GetReference returns a reference value, or ErrNoDataAvailable if
	// the key is absent or expired. Expired entries are evicted lazily.
	GetReference(ctx context.Context, zone, key string) (string, error)

	// DropReference removes a key, or returns ErrNoDataAvailable if absent.
	DropReference(ctx context.Context, zone, key string) error

	// ListReferences returns the zone's live reference keys, unordered.
	ListReferences(ctx context.Context, zone string) ([]string, error)

	// SetLimits updates a zone's quota limits. Negative values are
	// rejected with ErrInvalidLimits.
	SetLimits(ctx context.Context, zone string, limits domain.Limits) error

	// Statistics returns a snapshot of the zone's counters and limits.
	Statistics(ctx context.Context, zone string) (domain.ZoneStats, error)

	// ZoneNames returns the names of all existing zones, sorted.
	ZoneNames(ctx context.Context) []string

	// Clear removes the zone entirely. A missing zone is not an error.
	Clear(ctx context.Context, zone string) error

	// Reset removes every zone.
	Reset(ctx context.Context) error
}

// BlobStore offloads large payload bytes to secondary storage. The
// backend keeps queue order and quota accounting; the blob store only
// holds content. Deleting a missing key must be a no-op.
type BlobStore interface {
	Put(key string, data []byte) error
	Get(key string) (data []byte, found bool, err error)
	Delete(key string) error
	Clear() error
}
