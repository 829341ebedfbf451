package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rambotech/dropzone-go/internal/core/domain"
	"github.com/rambotech/dropzone-go/internal/storage"
)

// Registry owns the bounded collection of zones and implements
// storage.Backend. Zone creation is the only registry-wide critical
// section; steady-state operations take a read lock to resolve the
// zone and then contend only on that zone's mutex.
type Registry struct {
	mu       sync.RWMutex
	zones    map[string]*zoneStore
	maxZones int
	defaults domain.Limits
	now      func() time.Time

	blobs   storage.BlobStore
	spillAt int64
}

var _ storage.Backend = (*Registry)(nil)

// Option configures the Registry.
type Option func(*Registry)

// WithMaxZones sets the registry-wide zone cap.
func WithMaxZones(n int) Option {
	return func(r *Registry) {
		r.maxZones = n
	}
}

// WithDefaultLimits sets the quota limits applied to lazily created zones.
func WithDefaultLimits(limits domain.Limits) Option {
	return func(r *Registry) {
		r.defaults = limits
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithBlobStore spills payloads of at least threshold bytes to bs
// instead of holding them in memory. Quotas still account the true
// payload size.
func WithBlobStore(bs storage.BlobStore, threshold int64) Option {
	return func(r *Registry) {
		r.blobs = bs
		r.spillAt = threshold
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		zones:    make(map[string]*zoneStore),
		maxZones: domain.DefaultMaxZones,
		defaults: domain.DefaultLimits(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// getOrCreate resolves a zone, lazily creating it under the zone cap.
// The check-then-insert runs under the registry write lock so two
// concurrent creations of the same name yield one instance.
func (r *Registry) getOrCreate(name string) (*zoneStore, error) {
	if err := domain.ValidateZoneName(name); err != nil {
		return nil, err
	}

	r.mu.RLock()
	zone, ok := r.zones[name]
	r.mu.RUnlock()
	if ok {
		return zone, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if zone, ok := r.zones[name]; ok {
		return zone, nil
	}
	if len(r.zones) >= r.maxZones {
		return nil, domain.ErrZoneLimitReached.WithDetails(fmt.Sprintf("at maximum of %d zone definitions", r.maxZones))
	}

	zone = newZoneStore(name, r.defaults, r.now, r.blobs, r.spillAt)
	r.zones[name] = zone
	return zone, nil
}

// Dropoff implements storage.Backend.
func (r *Registry) Dropoff(_ context.Context, zone, recipient, tracking string, expiresOn time.Time, payload string) error {
	z, err := r.getOrCreate(zone)
	if err != nil {
		return err
	}
	return z.dropoff(recipient, tracking, expiresOn, payload)
}

// Pickup implements storage.Backend.
func (r *Registry) Pickup(_ context.Context, zone, recipient string) (domain.Entry, error) {
	z, err := r.getOrCreate(zone)
	if err != nil {
		return domain.Entry{}, err
	}
	return z.pickup(recipient)
}

// Inquiry implements storage.Backend.
func (r *Registry) Inquiry(_ context.Context, zone, tracking, recipient string, newExpiry time.Time) (bool, time.Time, error) {
	z, err := r.getOrCreate(zone)
	if err != nil {
		return false, time.Time{}, err
	}
	found, expiresOn := z.inquiry(tracking, recipient, newExpiry)
	return found, expiresOn, nil
}

// SetReference implements storage.Backend.
func (r *Registry) SetReference(_ context.Context, zone, key, value string, expiresOn time.Time) error {
	if err := domain.ValidateReferenceKey(key); err != nil {
		return err
	}
	z, err := r.getOrCreate(zone)
	if err != nil {
		return err
	}
	return z.setReference(key, value, expiresOn)
}

// GetReference implements storage.Backend.
func (r *Registry) GetReference(_ context.Context, zone, key string) (string, error) {
	if err := domain.ValidateReferenceKey(key); err != nil {
		return "", err
	}
	z, err := r.getOrCreate(zone)
	if err != nil {
		return "", err
	}
	return z.getReference(key)
}

// DropReference implements storage.Backend.
func (r *Registry) DropReference(_ context.Context, zone, key string) error {
	if err := domain.ValidateReferenceKey(key); err != nil {
		return err
	}
	z, err := r.getOrCreate(zone)
	if err != nil {
		return err
	}
	return z.dropReference(key)
}

// ListReferences implements storage.Backend.
func (r *Registry) ListReferences(_ context.Context, zone string) ([]string, error) {
	z, err := r.getOrCreate(zone)
	if err != nil {
		return nil, err
	}
	return z.listReferences(), nil
}

// SetLimits implements storage.Backend.
func (r *Registry) SetLimits(_ context.Context, zone string, limits domain.Limits) error {
	if err := limits.Validate(); err != nil {
		return err
	}
	z, err := r.getOrCreate(zone)
	if err != nil {
		return err
	}
	return z.setLimits(limits)
}

// Statistics implements storage.Backend.
func (r *Registry) Statistics(_ context.Context, zone string) (domain.ZoneStats, error) {
	z, err := r.getOrCreate(zone)
	if err != nil {
		return domain.ZoneStats{}, err
	}
	return z.stats(), nil
}

// ZoneNames implements storage.Backend.
func (r *Registry) ZoneNames(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.zones))
	for name := range r.zones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear implements storage.Backend.
func (r *Registry) Clear(_ context.Context, zone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if z, ok := r.zones[zone]; ok {
		z.purgeBlobs()
		delete(r.zones, zone)
	}
	return nil
}

// Reset implements storage.Backend.
func (r *Registry) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, z := range r.zones {
		z.purgeBlobs()
	}
	r.zones = make(map[string]*zoneStore)
	return nil
}
