// Package main provides the entry point for dropzone-server.
//
// The server is a volatile multi-tenant message relay:
//
//   - HTTP/HTTPS API for payload drop-off, pickup, and inquiry
//   - Per-zone key/value references with quotas and lazy expiry
//   - Access-watch lockout for repeated authentication failures
//   - Prometheus metrics and structured JSON logging
//
// Usage:
//
//	dropzone-server [flags]
//	dropzone-server --config /path/to/config.yaml
//
// The server loads configuration from file and DROPZONE_* environment
// variables, wires storage and telemetry, and serves until a signal or
// an admin shutdown request drains it.
package main
