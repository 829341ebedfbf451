package command

import (
	"net/http"
	"testing"
)

func TestAdmin_SecurityInfo(t *testing.T) {
	var gotAdmin string
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/securityinfo", func(w http.ResponseWriter, r *http.Request) {
		gotAdmin = r.Header.Get("X-Admin-Token")
		envelopeResponse(w, http.StatusOK, []map[string]any{
			{"address": "192.0.2.7", "total_success": 12, "total_failed": 2},
		})
	})

	err := runApp(srv, "--admin-token", "root-secret", "admin", "securityinfo")
	if err != nil {
		t.Fatalf("securityinfo failed: %v", err)
	}
	if gotAdmin != "root-secret" {
		t.Errorf("admin token header = %q, want root-secret", gotAdmin)
	}
}

func TestAdmin_Clear(t *testing.T) {
	var method string
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/clear/alerts", func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		envelopeResponse(w, http.StatusOK, map[string]string{"zone": "alerts", "status": "cleared"})
	})

	if err := runApp(srv, "admin", "clear", "--force", "alerts"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if method != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", method)
	}
}

func TestAdmin_Reset(t *testing.T) {
	called := false
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/reset", func(w http.ResponseWriter, r *http.Request) {
		called = true
		envelopeResponse(w, http.StatusOK, map[string]string{"status": "reset"})
	})

	if err := runApp(srv, "admin", "reset", "--force"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if !called {
		t.Error("reset endpoint not called")
	}
}

func TestAdmin_Shutdown(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		envelopeResponse(w, http.StatusOK, map[string]string{"status": "shutting down"})
	})

	if err := runApp(srv, "admin", "shutdown"); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestAdmin_RejectedWithoutToken(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Admin-Token") == "" {
			errorResponse(w, http.StatusUnauthorized, "DZ-AUTH-4010", "admin operations are disabled")
			return
		}
		envelopeResponse(w, http.StatusOK, map[string]string{"status": "reset"})
	})

	if err := runApp(srv, "admin", "reset", "--force"); err == nil {
		t.Error("expected error when admin token missing")
	}
}
