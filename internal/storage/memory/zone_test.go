package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rambotech/dropzone-go/internal/core/domain"
)

func testRegistry(opts ...Option) *Registry {
	return NewRegistry(opts...)
}

func TestPickup_FIFOWithinRecipient(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	if err := r.Dropoff(ctx, "orders", "", "", time.Time{}, "first"); err != nil {
		t.Fatalf("Dropoff first: %v", err)
	}
	if err := r.Dropoff(ctx, "orders", "", "", time.Time{}, "second"); err != nil {
		t.Fatalf("Dropoff second: %v", err)
	}

	a, err := r.Pickup(ctx, "orders", "")
	if err != nil {
		t.Fatalf("Pickup 1: %v", err)
	}
	b, err := r.Pickup(ctx, "orders", "")
	if err != nil {
		t.Fatalf("Pickup 2: %v", err)
	}
	if a.Payload != "first" || b.Payload != "second" {
		t.Fatalf("pickup order = %q, %q; want first, second", a.Payload, b.Payload)
	}

	if _, err := r.Pickup(ctx, "orders", ""); !errors.Is(err, domain.ErrNoDataAvailable) {
		t.Fatalf("Pickup empty err = %v, want %v", err, domain.ErrNoDataAvailable)
	}
}

func TestPickup_RecipientIsolation(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	if err := r.Dropoff(ctx, "orders", "Tim", "", time.Time{}, "for tim"); err != nil {
		t.Fatalf("Dropoff: %v", err)
	}

	if _, err := r.Pickup(ctx, "orders", ""); !errors.Is(err, domain.ErrNoDataAvailable) {
		t.Fatalf("global pickup err = %v, want %v", err, domain.ErrNoDataAvailable)
	}
	if _, err := r.Pickup(ctx, "orders", "Alice"); !errors.Is(err, domain.ErrNoDataAvailable) {
		t.Fatalf("Alice pickup err = %v, want %v", err, domain.ErrNoDataAvailable)
	}

	got, err := r.Pickup(ctx, "orders", "Tim")
	if err != nil {
		t.Fatalf("Tim pickup: %v", err)
	}
	if got.Payload != "for tim" || got.Recipient != "Tim" {
		t.Fatalf("Tim pickup = %+v", got)
	}
}

func TestPickup_DrainedRecipientReleasesQueue(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	if err := r.Dropoff(ctx, "orders", "Tim", "", time.Time{}, "for tim"); err != nil {
		t.Fatalf("Dropoff: %v", err)
	}
	if _, err := r.Pickup(ctx, "orders", "Tim"); err != nil {
		t.Fatalf("Pickup: %v", err)
	}
	// An exhausted pickup on a never-used recipient must not pin a
	// queue either.
	if _, err := r.Pickup(ctx, "orders", "Alice"); !errors.Is(err, domain.ErrNoDataAvailable) {
		t.Fatalf("Alice pickup err = %v, want %v", err, domain.ErrNoDataAvailable)
	}

	z := r.zones["orders"]
	z.mu.Lock()
	queues := len(z.queues)
	z.mu.Unlock()
	if queues != 0 {
		t.Fatalf("retained queues = %d, want 0 after drain", queues)
	}
}

func TestDropoff_CountQuota(t *testing.T) {
	limits := domain.DefaultLimits()
	limits.MaxPayloadCount = 2
	r := testRegistry(WithDefaultLimits(limits))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := r.Dropoff(ctx, "zone1", "", "", time.Time{}, "x"); err != nil {
			t.Fatalf("Dropoff %d: %v", i, err)
		}
	}
	if err := r.Dropoff(ctx, "zone1", "", "", time.Time{}, "x"); !errors.Is(err, domain.ErrPayloadOverLimit) {
		t.Fatalf("third Dropoff err = %v, want %v", err, domain.ErrPayloadOverLimit)
	}

	stats, err := r.Statistics(ctx, "zone1")
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.PayloadCount != 2 {
		t.Fatalf("PayloadCount = %d, want 2", stats.PayloadCount)
	}
	if stats.DeniedDropoffs != 1 {
		t.Fatalf("DeniedDropoffs = %d, want 1", stats.DeniedDropoffs)
	}
}

func TestDropoff_SizeQuota(t *testing.T) {
	limits := domain.DefaultLimits()
	limits.MaxPayloadSize = 10
	r := testRegistry(WithDefaultLimits(limits))
	ctx := context.Background()

	if err := r.Dropoff(ctx, "zone1", "", "", time.Time{}, "sixbyt"); err != nil { // 6 bytes
		t.Fatalf("Dropoff: %v", err)
	}
	// 6 + 5 = 11 > 10: denied.
	err := r.Dropoff(ctx, "zone1", "", "", time.Time{}, "5byte")
	if !errors.Is(err, domain.ErrPayloadOverLimit) {
		t.Fatalf("Dropoff err = %v, want %v", err, domain.ErrPayloadOverLimit)
	}
	if !strings.Contains(err.Error(), "size limit") {
		t.Fatalf("error %q does not report the size limit", err.Error())
	}

	stats, _ := r.Statistics(ctx, "zone1")
	if stats.PayloadSize != 6 {
		t.Fatalf("PayloadSize = %d, want 6", stats.PayloadSize)
	}
}

func TestPickup_LazyExpiry(t *testing.T) {
	now := time.Now()
	r := testRegistry(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if err := r.Dropoff(ctx, "zone1", "", "", now.Add(-time.Second), "stale"); err != nil {
		t.Fatalf("Dropoff: %v", err)
	}

	if _, err := r.Pickup(ctx, "zone1", ""); !errors.Is(err, domain.ErrNoDataAvailable) {
		t.Fatalf("Pickup err = %v, want %v", err, domain.ErrNoDataAvailable)
	}

	stats, _ := r.Statistics(ctx, "zone1")
	if stats.PayloadCount != 0 || stats.PayloadSize != 0 {
		t.Fatalf("aggregates = %d/%d after expiry discard, want 0/0", stats.PayloadCount, stats.PayloadSize)
	}
}

func TestPickup_SkipsExpiredToLiveEntry(t *testing.T) {
	now := time.Now()
	r := testRegistry(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if err := r.Dropoff(ctx, "zone1", "", "", now.Add(-time.Minute), "expired"); err != nil {
		t.Fatalf("Dropoff: %v", err)
	}
	if err := r.Dropoff(ctx, "zone1", "", "", now.Add(time.Minute), "live"); err != nil {
		t.Fatalf("Dropoff: %v", err)
	}

	got, err := r.Pickup(ctx, "zone1", "")
	if err != nil {
		t.Fatalf("Pickup: %v", err)
	}
	if got.Payload != "live" {
		t.Fatalf("Pickup = %q, want live", got.Payload)
	}

	stats, _ := r.Statistics(ctx, "zone1")
	if stats.PayloadCount != 0 {
		t.Fatalf("PayloadCount = %d, want 0", stats.PayloadCount)
	}
}

func TestInquiry_FindsAndUpdatesExpiry(t *testing.T) {
	now := time.Now()
	r := testRegistry(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if err := r.Dropoff(ctx, "zone1", "Tim", "job-42", time.Time{}, "payload"); err != nil {
		t.Fatalf("Dropoff: %v", err)
	}

	found, expiresOn, err := r.Inquiry(ctx, "zone1", "job-42", "", time.Time{})
	if err != nil {
		t.Fatalf("Inquiry: %v", err)
	}
	if !found || !expiresOn.IsZero() {
		t.Fatalf("Inquiry = %v, %v; want found with zero expiry", found, expiresOn)
	}

	// Narrowed to the wrong recipient: not found.
	found, _, err = r.Inquiry(ctx, "zone1", "job-42", "Alice", time.Time{})
	if err != nil {
		t.Fatalf("Inquiry: %v", err)
	}
	if found {
		t.Fatal("Inquiry found entry under wrong recipient")
	}

	// Rewrite the expiry in place.
	newExpiry := now.Add(time.Hour)
	found, expiresOn, err = r.Inquiry(ctx, "zone1", "job-42", "Tim", newExpiry)
	if err != nil {
		t.Fatalf("Inquiry: %v", err)
	}
	if !found || !expiresOn.Equal(newExpiry) {
		t.Fatalf("Inquiry = %v, %v; want found with %v", found, expiresOn, newExpiry)
	}

	// The entry stays queued.
	got, err := r.Pickup(ctx, "zone1", "Tim")
	if err != nil {
		t.Fatalf("Pickup: %v", err)
	}
	if !got.ExpiresOn.Equal(newExpiry) {
		t.Fatalf("ExpiresOn = %v, want %v", got.ExpiresOn, newExpiry)
	}
}

func TestSetReference_ReplaceThenAdmit(t *testing.T) {
	limits := domain.DefaultLimits()
	limits.MaxReferenceSize = 100
	r := testRegistry(WithDefaultLimits(limits))
	ctx := context.Background()

	hundred := make([]byte, 100)
	for i := range hundred {
		hundred[i] = 'a'
	}

	if err := r.SetReference(ctx, "zone1", "key1", string(hundred), time.Time{}); err != nil {
		t.Fatalf("SetReference: %v", err)
	}
	// Re-setting the same key at the same size succeeds: replacement
	// frees the old footprint before the check.
	if err := r.SetReference(ctx, "zone1", "key1", string(hundred), time.Time{}); err != nil {
		t.Fatalf("SetReference replace: %v", err)
	}

	// A different key cannot fit.
	if err := r.SetReference(ctx, "zone1", "key2", "x", time.Time{}); !errors.Is(err, domain.ErrReferenceOverLimit) {
		t.Fatalf("SetReference key2 err = %v, want %v", err, domain.ErrReferenceOverLimit)
	}

	// Denied replacement leaves the old value intact.
	big := string(hundred) + "overflow"
	if err := r.SetReference(ctx, "zone1", "key1", big, time.Time{}); !errors.Is(err, domain.ErrReferenceOverLimit) {
		t.Fatalf("oversized replace err = %v, want %v", err, domain.ErrReferenceOverLimit)
	}
	got, err := r.GetReference(ctx, "zone1", "key1")
	if err != nil {
		t.Fatalf("GetReference: %v", err)
	}
	if got != string(hundred) {
		t.Fatal("old value lost after denied replacement")
	}

	stats, _ := r.Statistics(ctx, "zone1")
	if stats.ReferenceCount != 1 || stats.ReferenceSize != 100 {
		t.Fatalf("reference aggregates = %d/%d, want 1/100", stats.ReferenceCount, stats.ReferenceSize)
	}
	if stats.DeniedReferences != 2 {
		t.Fatalf("DeniedReferences = %d, want 2", stats.DeniedReferences)
	}
}

func TestGetReference_LazyExpiry(t *testing.T) {
	current := time.Now()
	r := testRegistry(WithClock(func() time.Time { return current }))
	ctx := context.Background()

	if err := r.SetReference(ctx, "zone1", "key1", "value", current.Add(time.Minute)); err != nil {
		t.Fatalf("SetReference: %v", err)
	}
	if _, err := r.GetReference(ctx, "zone1", "key1"); err != nil {
		t.Fatalf("GetReference live: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := r.GetReference(ctx, "zone1", "key1"); !errors.Is(err, domain.ErrNoDataAvailable) {
		t.Fatalf("GetReference expired err = %v, want %v", err, domain.ErrNoDataAvailable)
	}

	stats, _ := r.Statistics(ctx, "zone1")
	if stats.ReferenceCount != 0 || stats.ReferenceSize != 0 {
		t.Fatalf("reference aggregates = %d/%d after eviction, want 0/0", stats.ReferenceCount, stats.ReferenceSize)
	}
}

func TestDropAndListReferences(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	if err := r.SetReference(ctx, "zone1", "one", "1", time.Time{}); err != nil {
		t.Fatalf("SetReference: %v", err)
	}
	if err := r.SetReference(ctx, "zone1", "two", "2", time.Time{}); err != nil {
		t.Fatalf("SetReference: %v", err)
	}

	keys, err := r.ListReferences(ctx, "zone1")
	if err != nil {
		t.Fatalf("ListReferences: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "one" || keys[1] != "two" {
		t.Fatalf("ListReferences = %v, want [one two]", keys)
	}

	if err := r.DropReference(ctx, "zone1", "one"); err != nil {
		t.Fatalf("DropReference: %v", err)
	}
	if err := r.DropReference(ctx, "zone1", "one"); !errors.Is(err, domain.ErrNoDataAvailable) {
		t.Fatalf("second DropReference err = %v, want %v", err, domain.ErrNoDataAvailable)
	}
}

func TestReferenceOps_RejectInvalidKey(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	// All three paths report the naming violation, not a miss.
	if err := r.SetReference(ctx, "zone1", "K", "value", time.Time{}); domain.GetErrorCode(err) != domain.ErrInvalidReferenceKey.Code {
		t.Fatalf("SetReference err = %v, want %v", err, domain.ErrInvalidReferenceKey)
	}
	if _, err := r.GetReference(ctx, "zone1", "K"); domain.GetErrorCode(err) != domain.ErrInvalidReferenceKey.Code {
		t.Fatalf("GetReference err = %v, want %v", err, domain.ErrInvalidReferenceKey)
	}
	if err := r.DropReference(ctx, "zone1", "K"); domain.GetErrorCode(err) != domain.ErrInvalidReferenceKey.Code {
		t.Fatalf("DropReference err = %v, want %v", err, domain.ErrInvalidReferenceKey)
	}
}

func TestStatistics_Timestamps(t *testing.T) {
	now := time.Now()
	r := testRegistry(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	// Miss still stamps the read.
	if _, err := r.GetReference(ctx, "zone1", "missing"); !errors.Is(err, domain.ErrNoDataAvailable) {
		t.Fatalf("GetReference err = %v", err)
	}

	stats, _ := r.Statistics(ctx, "zone1")
	if !stats.LastGetReference.Equal(now) {
		t.Fatalf("LastGetReference = %v, want %v", stats.LastGetReference, now)
	}
	if !stats.LastDropoff.IsZero() || !stats.LastPickup.IsZero() {
		t.Fatal("untouched timestamps are non-zero")
	}
}

func TestDropoff_ConcurrentQuotaNotOversubscribed(t *testing.T) {
	limits := domain.DefaultLimits()
	limits.MaxPayloadCount = 50
	r := testRegistry(WithDefaultLimits(limits))
	ctx := context.Background()

	const attempts = 200
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Dropoff(ctx, "zone1", "", "", time.Time{}, "p")
		}()
	}
	wg.Wait()

	stats, _ := r.Statistics(ctx, "zone1")
	if stats.PayloadCount != 50 {
		t.Fatalf("PayloadCount = %d, want 50", stats.PayloadCount)
	}
	if stats.DeniedDropoffs != attempts-50 {
		t.Fatalf("DeniedDropoffs = %d, want %d", stats.DeniedDropoffs, attempts-50)
	}
}
