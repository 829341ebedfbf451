package handler

import "time"

// Response is the standard API response envelope. All JSON responses
// use this format; /metrics uses the Prometheus exposition format.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// DropoffResponse is the response body for payload drop-off.
type DropoffResponse struct {
	Zone      string    `json:"zone"`
	Recipient string    `json:"recipient"`
	Tracking  string    `json:"tracking,omitempty"`
	ExpiresOn time.Time `json:"expires_on,omitzero"`
	Size      int       `json:"size"`
}

// PayloadResponse is the response body for payload pickup.
type PayloadResponse struct {
	Payload   string    `json:"payload"`
	Recipient string    `json:"recipient,omitempty"`
	Tracking  string    `json:"tracking,omitempty"`
	ExpiresOn time.Time `json:"expires_on,omitzero"`
}

// ReferenceResponse is the response body for reference reads.
type ReferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ListReferencesResponse is the response body for reference listing.
type ListReferencesResponse struct {
	Keys []string `json:"keys"`
}

// LimitsRequest is the request body for updating zone limits.
type LimitsRequest struct {
	MaxPayloadCount   int64 `json:"max_payload_count"`
	MaxPayloadSize    int64 `json:"max_payload_size"`
	MaxReferenceCount int64 `json:"max_reference_count"`
	MaxReferenceSize  int64 `json:"max_reference_size"`
}
