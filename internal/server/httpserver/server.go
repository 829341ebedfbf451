// Package httpserver provides the HTTP/HTTPS server for the drop
// zone API.
package httpserver

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"
)

// Server wraps the standard library HTTP server with the timeouts the
// API needs.
type Server struct {
	httpServer *http.Server
}

// New creates an HTTP server for the given handler.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// ListenAndServeTLS starts the HTTPS server.
func (s *Server) ListenAndServeTLS(certFile, keyFile string) error {
	return s.httpServer.ListenAndServeTLS(certFile, keyFile)
}

// SetTLSConfig installs a TLS configuration, typically one whose
// GetCertificate callback reloads the certificate on change. Call
// before ListenAndServeTLS; cert and key file arguments may then be
// empty.
func (s *Server) SetTLSConfig(cfg *tls.Config) {
	s.httpServer.TLSConfig = cfg
}

// Shutdown gracefully shuts down the server, draining in-flight
// requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
