package command

import (
	"io"
	"net/http"
	"testing"
)

func TestReferenceSet(t *testing.T) {
	var gotValue string
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/reference/set/alerts/routing", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotValue = string(data)
		envelopeResponse(w, http.StatusOK, map[string]string{"key": "routing", "value": gotValue})
	})

	if err := runApp(srv, "reference", "set", "alerts", "routing", "tier-2"); err != nil {
		t.Fatalf("reference set failed: %v", err)
	}
	if gotValue != "tier-2" {
		t.Errorf("value = %q, want tier-2 as raw body", gotValue)
	}
}

func TestReferenceGet(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/reference/get/alerts/routing", func(w http.ResponseWriter, r *http.Request) {
		envelopeResponse(w, http.StatusOK, map[string]string{"key": "routing", "value": "tier-2"})
	})

	if err := runApp(srv, "reference", "get", "alerts", "routing"); err != nil {
		t.Fatalf("reference get failed: %v", err)
	}
}

func TestReferenceDrop(t *testing.T) {
	var method string
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/reference/drop/alerts/routing", func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		envelopeResponse(w, http.StatusOK, map[string]string{"key": "routing", "status": "dropped"})
	})

	if err := runApp(srv, "reference", "drop", "alerts", "routing"); err != nil {
		t.Fatalf("reference drop failed: %v", err)
	}
	if method != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", method)
	}
}

func TestReferenceList(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/reference/list/alerts", func(w http.ResponseWriter, r *http.Request) {
		envelopeResponse(w, http.StatusOK, map[string]any{"keys": []string{"routing", "owner"}})
	})

	if err := runApp(srv, "reference", "list", "alerts"); err != nil {
		t.Fatalf("reference list failed: %v", err)
	}
}

func TestReference_MissingArgs(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	if err := runApp(srv, "reference", "set", "alerts"); err == nil {
		t.Error("expected error for missing key")
	}
	if err := runApp(srv, "reference", "get", "alerts"); err == nil {
		t.Error("expected error for missing key")
	}
}
