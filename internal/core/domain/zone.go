package domain

import (
	"fmt"
	"regexp"
	"time"
)

// GlobalRecipient is the recipient key for unaddressed payloads.
const GlobalRecipient = "*"

// Zone name constraints.
const (
	// DefaultMaxZones is the default registry-wide zone cap.
	DefaultMaxZones = 10

	// Default per-zone quota limits.
	DefaultMaxPayloadCount   = 500
	DefaultMaxPayloadSize    = 5 * 1024 * 1024
	DefaultMaxReferenceCount = 100
	DefaultMaxReferenceSize  = 1024 * 1024
)

// zoneNamePattern constrains zone names and reference keys: a leading
// letter, then letters, digits, underscore, dot, or dash, 2 to 60
// characters, not ending in underscore or dash.
var zoneNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]{0,58}[A-Za-z0-9.]$`)

// ValidateZoneName checks a zone name against the naming pattern.
func ValidateZoneName(name string) error {
	if !zoneNamePattern.MatchString(name) {
		return ErrInvalidZoneName.WithDetails(fmt.Sprintf("name %q does not match %s", name, zoneNamePattern.String()))
	}
	return nil
}

// ValidateReferenceKey checks a reference key against the naming pattern.
func ValidateReferenceKey(key string) error {
	if !zoneNamePattern.MatchString(key) {
		return ErrInvalidReferenceKey.WithDetails(fmt.Sprintf("key %q does not match %s", key, zoneNamePattern.String()))
	}
	return nil
}

// Limits holds a zone's quota configuration.
type Limits struct {
	// MaxPayloadCount is the maximum number of queued payloads.
	MaxPayloadCount int64 `json:"max_payload_count"`

	// MaxPayloadSize is the maximum aggregate queued payload bytes.
	MaxPayloadSize int64 `json:"max_payload_size"`

	// MaxReferenceCount is the maximum number of reference keys.
	MaxReferenceCount int64 `json:"max_reference_count"`

	// MaxReferenceSize is the maximum aggregate reference value bytes.
	MaxReferenceSize int64 `json:"max_reference_size"`
}

// DefaultLimits returns the quota limits applied to lazily created zones.
func DefaultLimits() Limits {
	return Limits{
		MaxPayloadCount:   DefaultMaxPayloadCount,
		MaxPayloadSize:    DefaultMaxPayloadSize,
		MaxReferenceCount: DefaultMaxReferenceCount,
		MaxReferenceSize:  DefaultMaxReferenceSize,
	}
}

// Validate rejects negative limit values.
func (l Limits) Validate() error {
	if l.MaxPayloadCount < 0 || l.MaxPayloadSize < 0 || l.MaxReferenceCount < 0 || l.MaxReferenceSize < 0 {
		return ErrInvalidLimits.WithDetails("limit values must not be negative")
	}
	return nil
}

// ZoneStats is a read-only snapshot of one zone's state, exposed to
// the statistics endpoint.
type ZoneStats struct {
	Name   string `json:"name"`
	Limits Limits `json:"limits"`

	PayloadCount   int64 `json:"payload_count"`
	PayloadSize    int64 `json:"payload_size"`
	ReferenceCount int64 `json:"reference_count"`
	ReferenceSize  int64 `json:"reference_size"`

	DeniedDropoffs   int64 `json:"denied_dropoffs"`
	DeniedReferences int64 `json:"denied_references"`

	LastDropoff      time.Time `json:"last_dropoff,omitzero"`
	LastPickup       time.Time `json:"last_pickup,omitzero"`
	LastGetReference time.Time `json:"last_get_reference,omitzero"`
	LastSetReference time.Time `json:"last_set_reference,omitzero"`
}
