package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sinbibook/yeoyoochae/internal/i18n"
	"github.com/sinbibook/yeoyoochae/internal/testutil"
)

func loadBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.Load(testutil.RepoPath("locales"), "ko", []string{"ko", "en"})
	require.NoError(t, err)
	return b
}

func TestLocaleResolution(t *testing.T) {
	t.Parallel()

	bundle := loadBundle(t)
	var got string
	h := Locale(bundle)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Lang(r)
	}))

	cases := []struct {
		name   string
		url    string
		cookie string
		accept string
		want   string
	}{
		{name: "default", url: "/", want: "ko"},
		{name: "accept language", url: "/", accept: "en-US,en;q=0.9", want: "en"},
		{name: "cookie wins over header", url: "/", cookie: "ko", accept: "en", want: "ko"},
		{name: "query wins", url: "/?hl=EN", cookie: "ko", want: "en"},
		{name: "unsupported query ignored", url: "/?hl=fr", accept: "en", want: "en"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookie, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.want, rec.Header().Get("Content-Language"))
		})
	}
}

func TestLangWithoutMiddleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "ko", Lang(req))
}

func TestCSRF(t *testing.T) {
	t.Parallel()

	var token string
	h := CSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = CSRFToken(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CSRFCookie, cookies[0].Name)
	require.Equal(t, cookies[0].Value, token)

	post := httptest.NewRequest(http.MethodPost, "/popups/p1/hide-today", nil)
	post.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, post)
	require.Equal(t, http.StatusForbidden, rec.Code)

	post = httptest.NewRequest(http.MethodPost, "/popups/p1/hide-today", nil)
	post.AddCookie(cookies[0])
	post.Header.Set("X-CSRF-Token", token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, post)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Result().Cookies())
}

func TestWriteErrorHTMX(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithHTMX(req.Context(), true))
	rec := httptest.NewRecorder()
	WriteError(rec, req, http.StatusBadRequest, "bad")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":"bad"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "missing")
	require.Equal(t, "missing\n", rec.Body.String())
}

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	status := http.StatusOK
	h := InjectLogger(zap.New(core))(HTMX(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("ok"))
	}))))

	for _, s := range []int{http.StatusOK, http.StatusNotFound, http.StatusBadGateway} {
		status = s
		req := httptest.NewRequest(http.MethodGet, "/room.html?id=r1", nil)
		req.Header.Set("HX-Request", "true")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	fields := entries[0].ContextMap()
	require.Equal(t, "/room.html", fields["path"])
	require.Equal(t, int64(200), fields["status"])
	require.Equal(t, int64(2), fields["bytes"])
	require.Equal(t, true, fields["htmx"])
}

func TestAssetsWithCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "styles"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "styles", "common.css"), []byte("body{}"), 0o644))

	h := AssetsWithCache("/static", dir, false)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/styles/common.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body{}", rec.Body.String())
	etag := rec.Header().Get("ETag")
	require.True(t, strings.HasPrefix(etag, `W/"`))

	req := httptest.NewRequest(http.MethodGet, "/static/styles/common.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	AssetsWithCache("/static", dir, true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/styles/common.css", nil))
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	require.Empty(t, rec.Header().Get("ETag"))
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "abc")
	id, ok := RequestID(ctx)
	require.True(t, ok)
	require.Equal(t, "abc", id)
}
