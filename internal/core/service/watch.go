package service

import (
	"sort"
	"sync"
	"time"

	"github.com/rambotech/dropzone-go/internal/core/domain"
	"github.com/rambotech/dropzone-go/pkg/cmap"
)

// WatchService tracks authentication activity per caller address and
// enforces a sliding-window lockout. It is advisory: the middleware
// consults IsLockedOut before comparing tokens and never touches the
// zone registry for locked-out callers.
//
// Entries are created on the first failed attempt from an address;
// successes from unseen addresses are not itemized. All entry
// mutation happens inside the map's shard locks via Compute.
type WatchService struct {
	entries *cmap.Map[string, *domain.WatchEntry]

	mu          sync.RWMutex
	maxFailures int
	window      time.Duration

	now func() time.Time
}

// WatchOption configures the WatchService.
type WatchOption func(*WatchService)

// WithLockoutPolicy sets the failure threshold and sliding window.
func WithLockoutPolicy(maxFailures int, window time.Duration) WatchOption {
	return func(s *WatchService) {
		s.maxFailures = maxFailures
		s.window = window
	}
}

// WithWatchClock overrides the time source, for tests.
func WithWatchClock(now func() time.Time) WatchOption {
	return func(s *WatchService) {
		s.now = now
	}
}

// NewWatchService creates a watch service with the default lockout
// policy.
func NewWatchService(opts ...WatchOption) *WatchService {
	s := &WatchService{
		entries:     cmap.New[string, *domain.WatchEntry](),
		maxFailures: domain.DefaultMaxFailures,
		window:      domain.DefaultLockoutSeconds * time.Second,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPolicy adjusts the lockout tuning at runtime (config hot reload).
func (s *WatchService) SetPolicy(maxFailures int, window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxFailures = maxFailures
	s.window = window
}

func (s *WatchService) policy() (int, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxFailures, s.window
}

// RecordAttempt notes one authenticated or failed request from an
// address against a zone/method pair.
func (s *WatchService) RecordAttempt(address, zone, method string, success bool) {
	now := s.now()
	s.entries.Compute(address, func(e *domain.WatchEntry, exists bool) (*domain.WatchEntry, bool) {
		if !exists {
			if success {
				// Watch entries exist to track failures; do not
				// allocate for well-behaved addresses.
				return nil, false
			}
			e = domain.NewWatchEntry(address)
		}
		e.Record(zone, method, success, now)
		return e, true
	})
}

// IsLockedOut reports whether the address has reached the failure
// threshold within the trailing window. Timestamps outside the window
// are pruned on each check.
func (s *WatchService) IsLockedOut(address string) bool {
	maxFailures, window := s.policy()
	if maxFailures <= 0 {
		return false
	}

	now := s.now()
	locked := false
	s.entries.Compute(address, func(e *domain.WatchEntry, exists bool) (*domain.WatchEntry, bool) {
		if !exists {
			return nil, false
		}
		locked = e.PruneFailures(now, window) >= maxFailures
		return e, true
	})
	return locked
}

// DropZone prunes a cleared zone from every entry's itemization.
func (s *WatchService) DropZone(zone string) {
	for _, address := range s.entries.Keys() {
		s.entries.Compute(address, func(e *domain.WatchEntry, exists bool) (*domain.WatchEntry, bool) {
			if !exists {
				return nil, false
			}
			e.DropZone(zone)
			return e, true
		})
	}
}

// Reset clears all watch entries.
func (s *WatchService) Reset() {
	s.entries.Clear()
}

// Snapshot returns deep copies of all entries, sorted by address, for
// the security-info endpoint.
func (s *WatchService) Snapshot() []*domain.WatchEntry {
	out := make([]*domain.WatchEntry, 0, s.entries.Count())
	s.entries.Range(func(_ string, e *domain.WatchEntry) bool {
		out = append(out, e.Clone())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}
