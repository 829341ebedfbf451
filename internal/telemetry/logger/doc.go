// Package logger provides structured logging for the relay.
//
// It wraps log/slog to provide JSON logging with automatic redaction
// of access and admin token values, context-aware request ID
// propagation, and dynamic level adjustment.
package logger
