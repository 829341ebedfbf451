// Package command defines the dropzone-cli commands.
//
// Layout:
//
//   - root.go: application setup, global flags, client construction
//   - payload.go: dropoff, pickup, inquiry
//   - reference.go: reference set/get/drop/list
//   - zone.go: stats, limits
//   - admin.go: securityinfo, clear, reset, shutdown
//
// Commands talk to the server through internal/cli/connection and
// render results through internal/cli/output. Payload commands frame
// content with pkg/envelope before drop-off and unwrap it after
// pickup, sealing the fields when a password is supplied.
package command
