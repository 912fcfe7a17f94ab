package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProcessRejectsMissingParams(t *testing.T) {
	h := NewTurnHandler(nil) // validation happens before the service is touched

	tests := []string{
		"/process_audio",
		"/process_audio?url=http://x/a.mp3",
		"/process_audio?url=http://x/a.mp3&user_id=u1",
		"/process_audio?user_id=u1&conversation_id=c1",
	}
	for _, target := range tests {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.Process(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Errorf("%s: invalid error body: %v", target, err)
		} else if body["error"] == "" {
			t.Errorf("%s: error message missing", target)
		}
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q", body["status"])
	}
}
