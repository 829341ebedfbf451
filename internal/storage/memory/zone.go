package memory

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rambotech/dropzone-go/internal/core/domain"
	"github.com/rambotech/dropzone-go/internal/storage"
)

// zoneStore holds one zone's mutable state. All fields are guarded by
// mu; the aggregate counters are always consistent with the live
// entries whenever mu is released.
type zoneStore struct {
	mu sync.Mutex

	name   string
	limits domain.Limits

	// queues maps recipient key to a FIFO sequence of entries.
	queues     map[string][]*domain.Entry
	references map[string]*domain.Entry

	payloadCount   int64
	payloadSize    int64
	referenceCount int64
	referenceSize  int64

	deniedDropoffs   int64
	deniedReferences int64

	lastDropoff      time.Time
	lastPickup       time.Time
	lastGetReference time.Time
	lastSetReference time.Time

	now func() time.Time

	// blobs, when non-nil, receives payloads of at least spillAt
	// bytes. Quota accounting still uses the true payload size.
	blobs   storage.BlobStore
	spillAt int64
}

func newZoneStore(name string, limits domain.Limits, now func() time.Time, blobs storage.BlobStore, spillAt int64) *zoneStore {
	return &zoneStore{
		name:       name,
		limits:     limits,
		queues:     make(map[string][]*domain.Entry),
		references: make(map[string]*domain.Entry),
		now:        now,
		blobs:      blobs,
		spillAt:    spillAt,
	}
}

func (z *zoneStore) dropoff(recipient, tracking string, expiresOn time.Time, payload string) error {
	if recipient == "" {
		recipient = domain.GlobalRecipient
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	res := domain.Admit(z.payloadCount, z.payloadSize, z.limits.MaxPayloadCount, z.limits.MaxPayloadSize, int64(len(payload)))
	if !res.Allowed() {
		z.deniedDropoffs++
		return domain.ErrPayloadOverLimit.WithDetails(res.Reason())
	}

	entry := &domain.Entry{
		Payload:   payload,
		Recipient: recipient,
		Tracking:  tracking,
		ExpiresOn: expiresOn,
	}
	if z.blobs != nil && int64(len(payload)) >= z.spillAt {
		key := z.name + "-" + ulid.Make().String()
		if err := z.blobs.Put(key, []byte(payload)); err != nil {
			return domain.ErrInternalServer.WithCause(err)
		}
		entry.Payload = ""
		entry.SpillKey = key
		entry.SpillSize = int64(len(payload))
	}
	z.queues[recipient] = append(z.queues[recipient], entry)
	z.payloadCount++
	z.payloadSize += entry.Size()
	z.lastDropoff = z.now()
	return nil
}

func (z *zoneStore) pickup(recipient string) (domain.Entry, error) {
	if recipient == "" {
		recipient = domain.GlobalRecipient
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	now := z.now()
	queue := z.queues[recipient]
	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]
		z.payloadCount--
		z.payloadSize -= entry.Size()

		if entry.Expired(now) {
			// Expiry discard: not a successful pickup, keep scanning.
			z.discardBlob(entry)
			continue
		}

		z.storeQueue(recipient, queue)
		z.lastPickup = now

		out := *entry
		if entry.SpillKey != "" {
			data, found, err := z.blobs.Get(entry.SpillKey)
			if err != nil {
				return domain.Entry{}, domain.ErrInternalServer.WithCause(err)
			}
			if !found {
				return domain.Entry{}, domain.ErrInternalServer.WithDetails("spilled payload missing")
			}
			z.blobs.Delete(entry.SpillKey)
			out.Payload = string(data)
			out.SpillKey = ""
			out.SpillSize = 0
		}
		return out, nil
	}

	z.storeQueue(recipient, queue)
	return domain.Entry{}, domain.ErrNoDataAvailable
}

// inquiry scans for a queued entry by tracking identifier. Expired
// entries encountered during the scan are discarded, mirroring pickup.
func (z *zoneStore) inquiry(tracking, recipient string, newExpiry time.Time) (bool, time.Time) {
	z.mu.Lock()
	defer z.mu.Unlock()

	now := z.now()
	for rcpt, queue := range z.queues {
		if recipient != "" && rcpt != recipient {
			continue
		}

		live := queue[:0]
		var match *domain.Entry
		for _, entry := range queue {
			if entry.Expired(now) {
				z.payloadCount--
				z.payloadSize -= entry.Size()
				z.discardBlob(entry)
				continue
			}
			live = append(live, entry)
			if match == nil && entry.Tracking == tracking {
				match = entry
			}
		}
		z.storeQueue(rcpt, live)

		if match != nil {
			if !newExpiry.IsZero() {
				match.ExpiresOn = newExpiry
			}
			return true, match.ExpiresOn
		}
	}
	return false, time.Time{}
}

func (z *zoneStore) setReference(key, value string, expiresOn time.Time) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	// Replacement releases the prior value's footprint before the
	// quota check; the old value stays in place if admission fails.
	count, size := z.referenceCount, z.referenceSize
	if prior, ok := z.references[key]; ok {
		count--
		size -= prior.Size()
	}

	res := domain.Admit(count, size, z.limits.MaxReferenceCount, z.limits.MaxReferenceSize, int64(len(value)))
	if !res.Allowed() {
		z.deniedReferences++
		return domain.ErrReferenceOverLimit.WithDetails(res.Reason())
	}

	entry := &domain.Entry{Payload: value, ExpiresOn: expiresOn}
	z.references[key] = entry
	z.referenceCount = count + 1
	z.referenceSize = size + entry.Size()
	z.lastSetReference = z.now()
	return nil
}

func (z *zoneStore) getReference(key string) (string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	now := z.now()
	z.lastGetReference = now

	entry, ok := z.references[key]
	if !ok {
		return "", domain.ErrNoDataAvailable
	}
	if entry.Expired(now) {
		z.evictReference(key, entry)
		return "", domain.ErrNoDataAvailable
	}
	return entry.Payload, nil
}

func (z *zoneStore) dropReference(key string) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	entry, ok := z.references[key]
	if !ok {
		return domain.ErrNoDataAvailable
	}
	z.evictReference(key, entry)
	return nil
}

func (z *zoneStore) listReferences() []string {
	z.mu.Lock()
	defer z.mu.Unlock()

	now := z.now()
	keys := make([]string, 0, len(z.references))
	for key, entry := range z.references {
		if entry.Expired(now) {
			z.evictReference(key, entry)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// discardBlob drops a spilled entry's blob, best effort. Caller holds mu.
func (z *zoneStore) discardBlob(entry *domain.Entry) {
	if entry.SpillKey != "" {
		z.blobs.Delete(entry.SpillKey)
	}
}

// purgeBlobs drops all spilled blobs, used when the zone is cleared.
func (z *zoneStore) purgeBlobs() {
	if z.blobs == nil {
		return
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	for _, queue := range z.queues {
		for _, entry := range queue {
			z.discardBlob(entry)
		}
	}
}

// storeQueue writes a recipient's queue back, dropping the map entry
// once the queue drains so exhausted recipients carry no footprint.
// Caller holds mu.
func (z *zoneStore) storeQueue(recipient string, queue []*domain.Entry) {
	if len(queue) == 0 {
		delete(z.queues, recipient)
		return
	}
	z.queues[recipient] = queue
}

// evictReference removes a reference and releases its footprint.
// Caller holds mu.
func (z *zoneStore) evictReference(key string, entry *domain.Entry) {
	delete(z.references, key)
	z.referenceCount--
	z.referenceSize -= entry.Size()
}

func (z *zoneStore) setLimits(limits domain.Limits) error {
	if err := limits.Validate(); err != nil {
		return err
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	z.limits = limits
	return nil
}

func (z *zoneStore) stats() domain.ZoneStats {
	z.mu.Lock()
	defer z.mu.Unlock()

	return domain.ZoneStats{
		Name:             z.name,
		Limits:           z.limits,
		PayloadCount:     z.payloadCount,
		PayloadSize:      z.payloadSize,
		ReferenceCount:   z.referenceCount,
		ReferenceSize:    z.referenceSize,
		DeniedDropoffs:   z.deniedDropoffs,
		DeniedReferences: z.deniedReferences,
		LastDropoff:      z.lastDropoff,
		LastPickup:       z.lastPickup,
		LastGetReference: z.lastGetReference,
		LastSetReference: z.lastSetReference,
	}
}
