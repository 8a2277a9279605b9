package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"
)

// CSRFCookie carries the double-submit token read by site.js.
const CSRFCookie = "csrf_token"

// CSRF issues a token cookie and requires unsafe requests to echo it in the
// X-CSRF-Token header.
func CSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(CSRFCookie); err == nil && len(c.Value) == 32 {
				token = c.Value
			}
			if token == "" {
				token = newCSRFToken()
				// readable by the page script, so not HttpOnly
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookie,
					Value:    token,
					Path:     "/",
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(24 * time.Hour),
				})
			}

			if !isSafeMethod(r.Method) {
				hdr := r.Header.Get("X-CSRF-Token")
				c, err := r.Cookie(CSRFCookie)
				if hdr == "" || err != nil || c.Value != hdr {
					WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxKeyCSRF, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newCSRFToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
