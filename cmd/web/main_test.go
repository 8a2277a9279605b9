package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sinbibook/yeoyoochae/internal/config"
	"github.com/sinbibook/yeoyoochae/internal/preview"
	"github.com/sinbibook/yeoyoochae/internal/testutil"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.Load(config.WithoutSystemEnv(), config.WithEnvFile(""), config.WithEnvMap(map[string]string{
		"YEOYOOCHAE_TEMPLATES":     testutil.RepoPath("templates"),
		"YEOYOOCHAE_PUBLIC":        testutil.RepoPath("public"),
		"YEOYOOCHAE_LOCALES":       testutil.RepoPath("locales"),
		"YEOYOOCHAE_CONTENT":       testutil.RepoPath("content"),
		"YEOYOOCHAE_DATA":          testutil.RepoPath("testdata", "standard-template-data.json"),
		"YEOYOOCHAE_DATA_FALLBACK": testutil.RepoPath("testdata", "standard-template-data.json"),
		"YEOYOOCHAE_COOKIE_SECRET": "test-secret",
	}))
	require.NoError(t, err)

	a, err := newApp(cfg, zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(a.router())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestPagesServed(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	for _, path := range []string{"/", "/main.html", "/room.html?id=room-001", "/facility.html?id=fac-001", "/reservation.html", "/directions.html", "/pages/terms"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		doc := testutil.ParseHTML(t, body)
		require.Equal(t, 1, doc.Find("#lodging-jsonld").Length(), path)
		require.Equal(t, "여유채", doc.Find(".logo-text").First().Text(), path)
	}
}

func TestStaticAssets(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/static/js/site.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("ETag"))
}

func TestPopupHideRequiresCSRF(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/popups/cG9wdXAtMDAx/hide-today", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/popups/cG9wdXAtMDAx/hide-today", nil)
	require.NoError(t, err)
	token := strings.Repeat("a", 32)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})
	req.Header.Set("X-CSRF-Token", token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	var hidden bool
	for _, c := range resp.Cookies() {
		if c.Name == "popup_hidden_cG9wdXAtMDAx" {
			hidden = true
		}
	}
	require.True(t, hidden)
}

func TestPreviewSocket(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/preview/ws?page=main"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var ready preview.Outbound
	require.NoError(t, conn.ReadJSON(&ready))
	require.Equal(t, preview.TemplateReady, ready.Type)
}
