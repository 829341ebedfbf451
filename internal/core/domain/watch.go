package domain

import "time"

// MaxWatchedZones caps the number of distinct zone names itemized per
// watch entry, bounding memory under a zone-name flood. Attempts
// beyond the cap still count in the totals.
const MaxWatchedZones = 20

// Default lockout tuning.
const (
	DefaultMaxFailures    = 6
	DefaultLockoutSeconds = 600
)

// WatchEntry records authentication activity for one caller address.
// It is not self-synchronizing; the access watch service mutates
// entries only under its map's shard lock.
type WatchEntry struct {
	// Address is the caller network address.
	Address string `json:"address"`

	// AccessPoints itemizes attempts per zone and method, for the
	// first MaxWatchedZones distinct zones observed.
	AccessPoints map[string]map[string]int64 `json:"access_points"`

	// TotalSuccess and TotalFailed count all attempts from this address.
	TotalSuccess int64 `json:"total_success"`
	TotalFailed  int64 `json:"total_failed"`

	// FailedRecent holds timestamps of recent failures, time-ordered,
	// pruned against the lockout window on every check.
	FailedRecent []time.Time `json:"failed_recent"`

	// FirstAttempt and LatestAttempt bound the observed activity.
	FirstAttempt  time.Time `json:"first_attempt,omitzero"`
	LatestAttempt time.Time `json:"latest_attempt,omitzero"`
}

// NewWatchEntry creates an empty watch entry for an address.
func NewWatchEntry(address string) *WatchEntry {
	return &WatchEntry{
		Address:      address,
		AccessPoints: make(map[string]map[string]int64),
	}
}

// Record notes one attempt against a zone/method pair.
func (w *WatchEntry) Record(zone, method string, success bool, now time.Time) {
	methods, ok := w.AccessPoints[zone]
	if !ok && len(w.AccessPoints) < MaxWatchedZones {
		methods = make(map[string]int64)
		w.AccessPoints[zone] = methods
	}
	if methods != nil {
		methods[method]++
	}

	if w.FirstAttempt.IsZero() {
		w.FirstAttempt = now
	}
	w.LatestAttempt = now

	if success {
		w.TotalSuccess++
		return
	}
	w.TotalFailed++
	w.FailedRecent = append(w.FailedRecent, now)
}

// PruneFailures drops failure timestamps older than the window ending
// at now and returns the count remaining inside it.
func (w *WatchEntry) PruneFailures(now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	keep := w.FailedRecent[:0]
	for _, ts := range w.FailedRecent {
		if ts.After(cutoff) {
			keep = append(keep, ts)
		}
	}
	w.FailedRecent = keep
	return len(keep)
}

// DropZone removes a zone's itemization, used when the zone is cleared.
func (w *WatchEntry) DropZone(zone string) {
	delete(w.AccessPoints, zone)
}

// Clone returns a deep copy safe to hand to snapshot readers.
func (w *WatchEntry) Clone() *WatchEntry {
	c := &WatchEntry{
		Address:       w.Address,
		AccessPoints:  make(map[string]map[string]int64, len(w.AccessPoints)),
		TotalSuccess:  w.TotalSuccess,
		TotalFailed:   w.TotalFailed,
		FailedRecent:  append([]time.Time(nil), w.FailedRecent...),
		FirstAttempt:  w.FirstAttempt,
		LatestAttempt: w.LatestAttempt,
	}
	for zone, methods := range w.AccessPoints {
		m := make(map[string]int64, len(methods))
		for method, n := range methods {
			m[method] = n
		}
		c.AccessPoints[zone] = m
	}
	return c
}
