package service

import (
	"context"
	"sync"
	"time"

	"github.com/rambotech/dropzone-go/internal/core/domain"
	"github.com/rambotech/dropzone-go/internal/storage"
	"github.com/rambotech/dropzone-go/internal/telemetry/logger"
	"github.com/rambotech/dropzone-go/internal/telemetry/metric"
)

// ZoneService is the operation surface consumed by the HTTP layer. It
// delegates storage to the backend, keeps the access watch in step
// with zone lifecycle, and carries telemetry.
type ZoneService struct {
	store   storage.Backend
	watch   *WatchService
	log     logger.Logger
	metrics *metric.Registry

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewZoneService creates the zone service. metrics may be nil in
// tests.
func NewZoneService(store storage.Backend, watch *WatchService, log logger.Logger, metrics *metric.Registry) *ZoneService {
	if log == nil {
		log = logger.Default()
	}
	return &ZoneService{
		store:      store,
		watch:      watch,
		log:        log,
		metrics:    metrics,
		shutdownCh: make(chan struct{}),
	}
}

// Watch exposes the access watch for the authentication middleware.
func (s *ZoneService) Watch() *WatchService {
	return s.watch
}

// DropoffRequest contains parameters for a payload drop-off.
type DropoffRequest struct {
	Zone      string
	Recipient string
	Tracking  string
	ExpiresOn time.Time
	Payload   string
}

// Dropoff appends a payload to a zone queue.
func (s *ZoneService) Dropoff(ctx context.Context, req DropoffRequest) error {
	err := s.store.Dropoff(ctx, req.Zone, req.Recipient, req.Tracking, req.ExpiresOn, req.Payload)
	switch {
	case err == nil:
		if s.metrics != nil {
			s.metrics.DropoffsTotal.WithLabelValues(req.Zone).Inc()
		}
		logger.L(ctx).Debug("payload dropped off",
			"zone", req.Zone,
			"recipient", req.Recipient,
			"size", len(req.Payload))
	case domain.GetErrorCode(err) == domain.ErrPayloadOverLimit.Code:
		if s.metrics != nil {
			s.metrics.DenialsTotal.WithLabelValues(req.Zone, "dropoff").Inc()
		}
		logger.L(ctx).Info("dropoff denied by quota", "zone", req.Zone, "error", err)
	}
	return err
}

// Pickup pops the oldest live payload for a recipient.
func (s *ZoneService) Pickup(ctx context.Context, zone, recipient string) (domain.Entry, error) {
	entry, err := s.store.Pickup(ctx, zone, recipient)
	if err == nil && s.metrics != nil {
		s.metrics.PickupsTotal.WithLabelValues(zone).Inc()
	}
	return entry, err
}

// InquiryRequest contains parameters for a tracking inquiry.
type InquiryRequest struct {
	Zone      string
	Tracking  string
	Recipient string
	NewExpiry time.Time
}

// InquiryResult reports whether a tracked entry is still queued.
type InquiryResult struct {
	Found     bool      `json:"found"`
	ExpiresOn time.Time `json:"expires_on,omitzero"`
}

// Inquiry looks up a queued entry by tracking identifier.
func (s *ZoneService) Inquiry(ctx context.Context, req InquiryRequest) (InquiryResult, error) {
	found, expiresOn, err := s.store.Inquiry(ctx, req.Zone, req.Tracking, req.Recipient, req.NewExpiry)
	if err != nil {
		return InquiryResult{}, err
	}
	return InquiryResult{Found: found, ExpiresOn: expiresOn}, nil
}

// SetReference writes a zone-scoped key/value reference.
func (s *ZoneService) SetReference(ctx context.Context, zone, key, value string, expiresOn time.Time) error {
	err := s.store.SetReference(ctx, zone, key, value, expiresOn)
	if s.metrics != nil {
		if err == nil {
			s.metrics.ReferenceOps.WithLabelValues(zone, "set").Inc()
		} else if domain.GetErrorCode(err) == domain.ErrReferenceOverLimit.Code {
			s.metrics.DenialsTotal.WithLabelValues(zone, "reference").Inc()
		}
	}
	return err
}

// GetReference reads a zone-scoped reference value.
func (s *ZoneService) GetReference(ctx context.Context, zone, key string) (string, error) {
	value, err := s.store.GetReference(ctx, zone, key)
	if err == nil && s.metrics != nil {
		s.metrics.ReferenceOps.WithLabelValues(zone, "get").Inc()
	}
	return value, err
}

// DropReference removes a zone-scoped reference key.
func (s *ZoneService) DropReference(ctx context.Context, zone, key string) error {
	return s.store.DropReference(ctx, zone, key)
}

// ListReferences returns the zone's live reference keys.
func (s *ZoneService) ListReferences(ctx context.Context, zone string) ([]string, error) {
	return s.store.ListReferences(ctx, zone)
}

// SetLimits updates a zone's quota limits.
func (s *ZoneService) SetLimits(ctx context.Context, zone string, limits domain.Limits) error {
	if err := s.store.SetLimits(ctx, zone, limits); err != nil {
		return err
	}
	logger.L(ctx).Info("zone limits updated", "zone", zone,
		"max_payload_count", limits.MaxPayloadCount,
		"max_payload_size", limits.MaxPayloadSize)
	return nil
}

// Statistics returns one zone's statistics snapshot.
func (s *ZoneService) Statistics(ctx context.Context, zone string) (domain.ZoneStats, error) {
	return s.store.Statistics(ctx, zone)
}

// AllStatistics returns snapshots for every defined zone.
func (s *ZoneService) AllStatistics(ctx context.Context) []domain.ZoneStats {
	names := s.store.ZoneNames(ctx)
	out := make([]domain.ZoneStats, 0, len(names))
	for _, name := range names {
		stats, err := s.store.Statistics(ctx, name)
		if err != nil {
			continue
		}
		out = append(out, stats)
	}
	return out
}

// SecurityInfo returns the access watch snapshot.
func (s *ZoneService) SecurityInfo() []*domain.WatchEntry {
	return s.watch.Snapshot()
}

// Clear removes a zone and prunes it from the access watch.
func (s *ZoneService) Clear(ctx context.Context, zone string) error {
	if err := s.store.Clear(ctx, zone); err != nil {
		return err
	}
	s.watch.DropZone(zone)
	logger.L(ctx).Info("zone cleared", "zone", zone)
	return nil
}

// Reset clears every zone and all access watch entries: a full soft
// reboot of in-memory state.
func (s *ZoneService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.watch.Reset()
	logger.L(ctx).Info("registry reset")
	return nil
}

// RequestShutdown flips the shutdown-requested state. The process
// lifecycle layer observes ShutdownChan and turns it into an exit
// after draining in-flight requests; the core only records the
// request.
func (s *ZoneService) RequestShutdown() {
	s.shutdownOnce.Do(func() {
		s.log.Info("shutdown requested")
		close(s.shutdownCh)
	})
}

// ShutdownRequested reports whether a shutdown has been requested.
func (s *ZoneService) ShutdownRequested() bool {
	select {
	case <-s.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChan closes when a shutdown has been requested.
func (s *ZoneService) ShutdownChan() <-chan struct{} {
	return s.shutdownCh
}
