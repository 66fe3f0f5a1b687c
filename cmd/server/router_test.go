package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type readyFlag bool

func (r readyFlag) Ready() bool { return bool(r) }

func TestHealthEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		path       string
		wantStatus int
		wantBody   string
	}{
		{"healthz", false, "/healthz", http.StatusOK, "ok"},
		{"readyz before startup", false, "/readyz", http.StatusServiceUnavailable, "not ready"},
		{"readyz after startup", true, "/readyz", http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := buildRouter(readyFlag(tt.ready))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["status"] != tt.wantBody {
				t.Errorf("status field = %q, want %q", body["status"], tt.wantBody)
			}
		})
	}
}
