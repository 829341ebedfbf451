// Package service provides the domain services for the relay.
//
// ZoneService orchestrates the storage backend, the access watch, and
// telemetry; the HTTP layer talks only to this package. WatchService
// tracks failed authentication attempts per caller address and drives
// the advisory lockout consulted by the authentication middleware.
package service
