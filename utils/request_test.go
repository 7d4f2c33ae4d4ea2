package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tasknest/utils"
)

func TestGetUserAgent(t *testing.T) {
	for _, ua := range []string{"Mozilla/5.0 (X11; Linux x86_64)", "curl/8.5.0", ""} {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("User-Agent", ua)
		if got := utils.GetUserAgent(req); got != ua {
			t.Errorf("GetUserAgent() = %q, want %q", got, ua)
		}
	}
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		remote    string
		want      string
	}{
		{
			name:      "Forwarded header wins over remote address",
			forwarded: "203.0.113.195",
			remote:    "10.0.0.1:5000",
			want:      "203.0.113.195",
		},
		{
			name:      "Proxy chain is returned as is",
			forwarded: "203.0.113.195, 70.41.3.18",
			remote:    "10.0.0.1:5000",
			want:      "203.0.113.195, 70.41.3.18",
		},
		{
			name:   "Remote address without proxy",
			remote: "192.168.1.1:12345",
			want:   "192.168.1.1:12345",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := utils.GetIP(req); got != tt.want {
				t.Errorf("GetIP() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsJSON(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{name: "Plain JSON", contentType: "application/json", want: true},
		{name: "JSON with charset", contentType: "application/json; charset=utf-8", want: true},
		{name: "Upper case", contentType: "Application/JSON", want: true},
		{name: "Form encoded", contentType: "application/x-www-form-urlencoded", want: false},
		{name: "Text", contentType: "text/plain", want: false},
		{name: "Missing", contentType: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			if got := utils.IsJSON(req); got != tt.want {
				t.Errorf("IsJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}
