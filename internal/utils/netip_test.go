package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		headers    map[string]string
		want       string
	}{
		{name: "remote addr", want: "192.0.2.1"},
		{name: "headers ignored without trust", headers: map[string]string{"X-Forwarded-For": "8.8.8.8"}, want: "192.0.2.1"},
		{name: "cloudflare header first", trustProxy: true, headers: map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "8.8.8.8"}, want: "1.1.1.1"},
		{name: "left-most forwarded", trustProxy: true, headers: map[string]string{"X-Forwarded-For": " 8.8.8.8 , 10.0.0.1"}, want: "8.8.8.8"},
		{name: "real ip last", trustProxy: true, headers: map[string]string{"X-Real-IP": "9.9.9.9"}, want: "9.9.9.9"},
		{name: "forged garbage skipped", trustProxy: true, headers: map[string]string{"CF-Connecting-IP": "<script>", "X-Forwarded-For": "unknown, 8.8.8.8", "X-Real-IP": "9.9.9.9:443"}, want: "9.9.9.9"},
		{name: "no usable header", trustProxy: true, headers: map[string]string{"X-Forwarded-For": "unknown"}, want: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil) // RemoteAddr 192.0.2.1:1234
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.5 ", "garbage", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	for ip, want := range map[string]bool{
		"10.20.30.40":     true,
		"192.168.1.5":     true,
		"192.168.1.6":     false,
		"not-an-ip":       false,
		"::ffff:10.1.2.3": true,
		"2001:db8::1":     false,
	} {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}
}
