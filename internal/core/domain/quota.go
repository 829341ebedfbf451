package domain

// AdmitResult is the outcome of a quota admission check. When both
// limits would deny, the size limit is the reported reason.
type AdmitResult int

const (
	// AdmitAllow means the item fits within both limits.
	AdmitAllow AdmitResult = iota

	// AdmitDenySize means the aggregate size limit would be exceeded.
	AdmitDenySize

	// AdmitDenyCount means the item count limit would be exceeded.
	AdmitDenyCount
)

// Allowed reports whether the admission passed.
func (r AdmitResult) Allowed() bool {
	return r == AdmitAllow
}

// Reason returns a diagnostic label for denial reporting.
func (r AdmitResult) Reason() string {
	switch r {
	case AdmitDenySize:
		return "size limit"
	case AdmitDenyCount:
		return "count limit"
	default:
		return "allowed"
	}
}

// Admit evaluates whether one new item of incomingSize bytes fits
// under the given limits, given the current aggregate count and size.
// Pure function; callers are responsible for holding whatever lock
// makes the check-then-act atomic.
func Admit(currentCount, currentSize, limitCount, limitSize, incomingSize int64) AdmitResult {
	if currentSize+incomingSize > limitSize {
		return AdmitDenySize
	}
	if currentCount+1 > limitCount {
		return AdmitDenyCount
	}
	return AdmitAllow
}
