// Package connection provides the HTTP client dropzone-cli uses to
// talk to a dropzone-server.
//
// The client carries the access and admin tokens and attaches them as
// X-Access-Token / X-Admin-Token headers per request. Payload and
// reference values travel as raw request bodies; everything else is
// JSON. ParseResponse unwraps the server's response envelope and turns
// error responses into "[CODE] message" errors.
package connection
