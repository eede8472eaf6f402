package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecureHeaders(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	for _, hsts := range []bool{false, true} {
		rr := httptest.NewRecorder()
		SecureHeaders(hsts)(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		expected := map[string]string{
			"X-Content-Type-Options": "nosniff",
			"X-Frame-Options":        "SAMEORIGIN",
			"X-XSS-Protection":       "0",
			"Referrer-Policy":        "strict-origin-when-cross-origin",
		}
		for header, want := range expected {
			if got := rr.Header().Get(header); got != want {
				t.Errorf("hsts=%v: %s = %q, want %q", hsts, header, got, want)
			}
		}

		if got := rr.Header().Get("Strict-Transport-Security") != ""; got != hsts {
			t.Errorf("hsts=%v: Strict-Transport-Security present = %v", hsts, got)
		}
	}
}
