// Package config defines the dropzone-server configuration: the
// typed structure, defaults, validation, and secret masking for safe
// logging. Loading from file and environment lives in the confloader
// package.
package config
