package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrSnakeDoc/startpage/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host    string
		pattern string
		want    bool
	}{
		{host: "start.example.com", pattern: "start.example.com", want: true},
		{host: "start.example.com", pattern: "*.example.com", want: true},
		{host: "example.com", pattern: "*.example.com", want: false},
		{host: "start.example.org", pattern: "*.example.com", want: false},
		{host: "evilexample.com", pattern: "*.example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.host+" "+tt.pattern, func(t *testing.T) {
			if got := matchHost(tt.host, tt.pattern); got != tt.want {
				t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"start.lan"}, logger.Nop())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "http://start.lan/api/data", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("allowed host got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "http://START.lan:3000/api/data", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("host with port got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "http://evil.lan/api/data", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign host got %d, want 403", rec.Code)
	}
	if got := rec.Body.String(); got != `{"error":"Forbidden"}`+"\n" {
		t.Errorf("forbidden body = %q", got)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		trustProxy bool
		remoteAddr string
		xff        string
		want       int
	}{
		{name: "empty list passes", remoteAddr: "203.0.113.9:5000", want: http.StatusOK},
		{name: "inside cidr", allowed: []string{"10.0.0.0/8"}, remoteAddr: "10.1.2.3:5000", want: http.StatusOK},
		{name: "outside cidr", allowed: []string{"10.0.0.0/8"}, remoteAddr: "203.0.113.9:5000", want: http.StatusForbidden},
		{name: "proxy header ignored when untrusted", allowed: []string{"10.0.0.0/8"}, remoteAddr: "203.0.113.9:5000", xff: "10.0.0.1", want: http.StatusForbidden},
		{name: "proxy header used when trusted", allowed: []string{"10.0.0.0/8"}, trustProxy: true, remoteAddr: "127.0.0.1:5000", xff: "10.0.0.1, 127.0.0.1", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AllowOnlyCIDRS(tt.allowed, tt.trustProxy, logger.Nop())(okHandler)
			req := httptest.NewRequest(http.MethodGet, "/infra", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCORSPassesSimpleRequests(t *testing.T) {
	h := CORS()(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
