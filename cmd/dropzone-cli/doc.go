// Package main provides the entry point for dropzone-cli.
//
// The CLI gives command-line access to a dropzone-server for:
//
//   - Payload drop-off, pickup, and tracking inquiry
//   - Zone reference management (set, get, drop, list)
//   - Zone statistics and quota limits
//   - Server administration (security info, clear, reset, shutdown)
//
// Usage:
//
//	dropzone-cli [command] [flags] [args]
//	dropzone-cli dropoff --recipient ops alerts "disk failing"
//	dropzone-cli pickup --recipient ops alerts
//	dropzone-cli --output json stats
//
// Server address and tokens come from flags or the DROPZONE_SERVER,
// DROPZONE_ACCESS_TOKEN, and DROPZONE_ADMIN_TOKEN environment
// variables. Payloads can be sealed end to end with --password and
// --salt; the server never sees the plaintext.
package main
