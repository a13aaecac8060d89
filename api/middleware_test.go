package api_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/garnizeh/devconnect/api"
	"github.com/garnizeh/devconnect/internal/token"
)

func newGuardedRouter() *mux.Router {
	tm := token.NewManager(testSecret, time.Hour)

	r := mux.NewRouter()
	r.Use(api.CORSMiddleware)
	r.Use(api.RecoveryMiddleware)

	priv := r.PathPrefix("/api").Subrouter()
	priv.Use(api.AuthMiddleware(tm))
	priv.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET", "OPTIONS")
	priv.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}).Methods("GET")

	return r
}

func TestAuthMiddleware(t *testing.T) {
	tm := token.NewManager(testSecret, time.Hour)
	other := token.NewManager("othersecret", time.Hour)

	valid, err := tm.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	forged, err := other.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantInBody string
	}{
		{
			name:       "MissingHeader",
			wantStatus: http.StatusUnauthorized,
			wantInBody: "No token, authorization denied",
		},
		{
			name:       "NotBearer",
			header:     valid,
			wantStatus: http.StatusUnauthorized,
			wantInBody: "Token is not valid",
		},
		{
			name:       "Garbage",
			header:     "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
			wantInBody: "Token is not valid",
		},
		{
			name:       "WrongSecret",
			header:     "Bearer " + forged,
			wantStatus: http.StatusUnauthorized,
			wantInBody: "Token is not valid",
		},
		{
			name:       "Valid",
			header:     "Bearer " + valid,
			wantStatus: http.StatusOK,
		},
	}

	r := newGuardedRouter()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var hdr map[string]string
			if tc.header != "" {
				hdr = map[string]string{"Authorization": tc.header}
			}
			rec := doRequest(t, r, http.MethodGet, "/api/ping", nil, hdr)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tc.wantStatus, rec.Body.Bytes())
			}
			if tc.wantInBody != "" && !strings.Contains(rec.Body.String(), tc.wantInBody) {
				t.Fatalf("body %s does not contain %q", rec.Body.Bytes(), tc.wantInBody)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newGuardedRouter()

	rec := doRequest(t, r, http.MethodOptions, "/api/ping", nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS headers: %v", rec.Header())
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	r := newGuardedRouter()
	tm := token.NewManager(testSecret, time.Hour)
	signed, err := tm.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := doRequest(t, r, http.MethodGet, "/api/boom", nil, map[string]string{"Authorization": "Bearer " + signed})
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "Server Error") {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
}
