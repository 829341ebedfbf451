package command

import (
	"io"
	"net/http"
	"testing"

	"github.com/rambotech/dropzone-go/pkg/envelope"
)

func TestDropoff_FramesPayload(t *testing.T) {
	var gotBody string
	var gotQuery map[string]string

	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/payload/dropoff/alerts", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		gotQuery = map[string]string{
			"recipient": r.URL.Query().Get("recipient"),
			"tracking":  r.URL.Query().Get("tracking"),
		}
		envelopeResponse(w, http.StatusCreated, map[string]any{
			"zone": "alerts", "recipient": "ops", "tracking": "t-100", "size": len(data),
		})
	})

	err := runApp(srv, "dropoff", "--recipient", "ops", "--tracking", "t-100",
		"alerts", "disk failing on node 4")
	if err != nil {
		t.Fatalf("dropoff failed: %v", err)
	}

	if gotQuery["recipient"] != "ops" || gotQuery["tracking"] != "t-100" {
		t.Errorf("query = %v, want recipient=ops tracking=t-100", gotQuery)
	}

	env, err := envelope.Parse(gotBody)
	if err != nil {
		t.Fatalf("body is not an envelope: %v", err)
	}
	content, err := envelope.New().Decode(env)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if content != "disk failing on node 4" {
		t.Errorf("decoded payload = %q", content)
	}
}

func TestDropoff_RequiresZone(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	if err := runApp(srv, "dropoff"); err == nil {
		t.Error("expected error for missing zone argument")
	}
}

func TestPickup_UnwrapsEnvelope(t *testing.T) {
	env, err := envelope.New().Encode("order 9917 shipped")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	stored, _ := env.Marshal()

	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/payload/pickup/orders", func(w http.ResponseWriter, r *http.Request) {
		envelopeResponse(w, http.StatusOK, map[string]any{
			"payload": stored, "recipient": "warehouse",
		})
	})

	if err := runApp(srv, "pickup", "--recipient", "warehouse", "orders"); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
}

func TestPickup_SealedRoundTrip(t *testing.T) {
	codec, err := envelope.NewEncrypted("hunter2", "relay-salt")
	if err != nil {
		t.Fatalf("NewEncrypted() error = %v", err)
	}
	env, err := codec.Encode("confidential routing update")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	stored, _ := env.Marshal()

	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/payload/pickup/secure", func(w http.ResponseWriter, r *http.Request) {
		envelopeResponse(w, http.StatusOK, map[string]any{"payload": stored})
	})

	err = runApp(srv, "pickup", "--password", "hunter2", "--salt", "relay-salt", "secure")
	if err != nil {
		t.Fatalf("sealed pickup failed: %v", err)
	}

	// Wrong password must fail validation, not return garbage.
	err = runApp(srv, "pickup", "--password", "wrong", "--salt", "relay-salt", "secure")
	if err == nil {
		t.Error("expected error for wrong password")
	}
}

func TestPickup_EmptyZone(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/payload/pickup/idle", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := runApp(srv, "pickup", "idle"); err == nil {
		t.Error("expected non-zero exit for empty zone")
	}
}

func TestInquiry(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/payload/inquiry/alerts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tracking") != "t-100" {
			errorResponse(w, http.StatusBadRequest, "DZ-REQ-4000", "tracking required")
			return
		}
		envelopeResponse(w, http.StatusOK, map[string]any{"found": true})
	})

	if err := runApp(srv, "inquiry", "--tracking", "t-100", "alerts"); err != nil {
		t.Fatalf("inquiry failed: %v", err)
	}
}

func TestInquiry_NotFound(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()
	srv.handle("/api/payload/inquiry/alerts", func(w http.ResponseWriter, r *http.Request) {
		envelopeResponse(w, http.StatusOK, map[string]any{"found": false})
	})

	if err := runApp(srv, "inquiry", "--tracking", "t-404", "alerts"); err == nil {
		t.Error("expected non-zero exit when tracking not found")
	}
}
