package command

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestStats_SingleZone(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/statistics/alerts", func(w http.ResponseWriter, r *http.Request) {
		envelopeResponse(w, http.StatusOK, map[string]any{
			"name":          "alerts",
			"payload_count": 3,
			"payload_size":  120,
		})
	})

	if err := runApp(srv, "stats", "alerts"); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
}

func TestStats_AllZones(t *testing.T) {
	var path string
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/statistics", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		envelopeResponse(w, http.StatusOK, []map[string]any{
			{"name": "alerts", "payload_count": 3},
			{"name": "billing", "payload_count": 0},
		})
	})

	if err := runApp(srv, "stats"); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if path != "/api/statistics" {
		t.Errorf("path = %q, want /api/statistics", path)
	}
}

func TestLimits(t *testing.T) {
	var got map[string]int64
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/metrics/alerts", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		envelopeResponse(w, http.StatusOK, got)
	})

	err := runApp(srv, "limits",
		"--max-payload-count", "500",
		"--max-payload-size", "1048576",
		"alerts")
	if err != nil {
		t.Fatalf("limits failed: %v", err)
	}

	if got["max_payload_count"] != 500 {
		t.Errorf("max_payload_count = %d, want 500", got["max_payload_count"])
	}
	if got["max_payload_size"] != 1048576 {
		t.Errorf("max_payload_size = %d, want 1048576", got["max_payload_size"])
	}
}

func TestStats_ServerError(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/statistics/9bad", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusBadRequest, "DZ-ZONE-4001", "invalid zone name")
	})

	err := runApp(srv, "stats", "9bad")
	if err == nil {
		t.Fatal("expected error for invalid zone")
	}
	if err.Error() != "[DZ-ZONE-4001] invalid zone name" {
		t.Errorf("error = %q", err.Error())
	}
}
