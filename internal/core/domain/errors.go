package domain

import (
	"errors"
	"fmt"
)

// DomainError is a business error with a structured code. The middle
// digits of a code mirror the HTTP status the API layer maps it to.
type DomainError struct {
	Code    string // Error code (e.g., "DZ-ZONE-4290")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support; two DomainErrors match when their
// codes match, regardless of details.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: details, Cause: e.Cause}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: e.Details, Cause: cause}
}

// GetErrorCode extracts the code from an error if it is a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Request validation errors (4000)
// ============================================================================

var (
	// ErrInvalidZoneName indicates the zone name fails the naming pattern.
	ErrInvalidZoneName = NewDomainError("DZ-ZONE-4000", "invalid zone name")

	// ErrInvalidReferenceKey indicates the reference key fails the naming pattern.
	ErrInvalidReferenceKey = NewDomainError("DZ-REF-4000", "invalid reference key")

	// ErrInvalidLimits indicates a zone limit value is negative.
	ErrInvalidLimits = NewDomainError("DZ-ZONE-4001", "invalid zone limits")

	// ErrInvalidArgument indicates a malformed request parameter.
	ErrInvalidArgument = NewDomainError("DZ-REQ-4002", "invalid argument")
)

// ============================================================================
// Authentication errors (4010)
// ============================================================================

var (
	// ErrInvalidAuthentication indicates a missing or mismatched access token.
	ErrInvalidAuthentication = NewDomainError("DZ-AUTH-4010", "invalid or missing access token")

	// ErrLockedOut indicates the caller address is temporarily locked out
	// after repeated authentication failures.
	ErrLockedOut = NewDomainError("DZ-AUTH-4011", "caller address temporarily locked out")
)

// ============================================================================
// Data availability (2040)
// ============================================================================

// ErrNoDataAvailable indicates a pickup or reference read found no
// live entry.
var ErrNoDataAvailable = NewDomainError("DZ-DATA-2040", "no data available")

// ============================================================================
// Quota errors (4290)
// ============================================================================

var (
	// ErrZoneLimitReached indicates the registry is at its zone cap.
	ErrZoneLimitReached = NewDomainError("DZ-ZONE-4290", "cannot create new zone")

	// ErrPayloadOverLimit indicates a dropoff was denied by zone quota.
	ErrPayloadOverLimit = NewDomainError("DZ-DROP-4290", "payload dropoff denied by zone quota")

	// ErrReferenceOverLimit indicates a reference write was denied by zone quota.
	ErrReferenceOverLimit = NewDomainError("DZ-REF-4290", "reference update denied by zone quota")
)

// ============================================================================
// Envelope errors (4220)
// ============================================================================

// ErrDataCompromised indicates envelope integrity validation failed.
var ErrDataCompromised = NewDomainError("DZ-ENV-4220", "payload integrity validation failed")

// ============================================================================
// System errors (5000)
// ============================================================================

var (
	// ErrInternalServer indicates an unexpected internal fault.
	ErrInternalServer = NewDomainError("DZ-SYS-5000", "internal server error")

	// ErrShuttingDown indicates shutdown has been requested and the
	// operation was refused.
	ErrShuttingDown = NewDomainError("DZ-SYS-5030", "service shutting down")
)
