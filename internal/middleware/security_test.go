package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "SAMEORIGIN"},
		{"X-XSS-Protection", "0"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Permissions-Policy", "interest-cohort=()"},
		{"Content-Security-Policy", contentSecurityPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got := rr.Header().Get(tt.header)
			if got != tt.want {
				t.Errorf("%s: got %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

// cspDirectives splits a Content-Security-Policy header into directive
// name and source list.
func cspDirectives(policy string) map[string][]string {
	out := make(map[string][]string)
	for _, d := range strings.Split(policy, ";") {
		fields := strings.Fields(d)
		if len(fields) == 0 {
			continue
		}
		out[fields[0]] = fields[1:]
	}
	return out
}

func TestContentSecurityPolicyBlocksScripts(t *testing.T) {
	handler := SecureHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/posts/x", nil))

	directives := cspDirectives(rr.Header().Get("Content-Security-Policy"))

	tests := []struct {
		directive string
		want      string
	}{
		{"script-src", "'none'"},
		{"object-src", "'none'"},
		{"base-uri", "'none'"},
		{"default-src", "'self'"},
		{"form-action", "'self'"},
	}
	for _, tt := range tests {
		t.Run(tt.directive, func(t *testing.T) {
			got := strings.Join(directives[tt.directive], " ")
			if got != tt.want {
				t.Errorf("%s: got %q, want %q", tt.directive, got, tt.want)
			}
		})
	}

	// Only styles may run inline; nothing may evaluate strings as code.
	for name, sources := range directives {
		for _, src := range sources {
			if src == "'unsafe-eval'" {
				t.Errorf("%s allows 'unsafe-eval'", name)
			}
			if src == "'unsafe-inline'" && name != "style-src" {
				t.Errorf("%s allows 'unsafe-inline'", name)
			}
		}
	}
}
