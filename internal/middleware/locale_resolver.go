package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sinbibook/yeoyoochae/internal/i18n"
)

// LangCookie remembers an explicit language choice.
const LangCookie = "hl"

// Locale resolves the preferred language from ?hl=, the hl cookie or
// Accept-Language, in that order, and stores it in the request context.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// make fallback available to request context for helpers
			ctx := context.WithValue(r.Context(), ctxKeyLocaleFB, bundle.Fallback())
			var lang string
			if q := strings.ToLower(r.URL.Query().Get("hl")); q != "" && supported(bundle, q) {
				lang = q
				http.SetCookie(w, &http.Cookie{
					Name:     LangCookie,
					Value:    q,
					Path:     "/",
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(365 * 24 * time.Hour),
				})
			} else if c, err := r.Cookie(LangCookie); err == nil && supported(bundle, strings.ToLower(c.Value)) {
				lang = strings.ToLower(c.Value)
			} else {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			// surface Content-Language
			if lang != "" {
				w.Header().Set("Content-Language", lang)
			}
			next.ServeHTTP(w, r.WithContext(WithLang(ctx, lang)))
		})
	}
}

// Lang returns the negotiated language, the bundle fallback or "ko".
func Lang(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKeyLang).(string); ok && v != "" {
		return v
	}
	if v := r.Context().Value(ctxKeyLocaleFB); v != nil {
		if fb, ok := v.(string); ok && fb != "" {
			return fb
		}
	}
	return "ko"
}

func supported(bundle *i18n.Bundle, lang string) bool {
	for _, s := range bundle.Supported() {
		if s == lang {
			return true
		}
	}
	return false
}
