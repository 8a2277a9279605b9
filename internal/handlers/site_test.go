package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sinbibook/yeoyoochae/internal/cms"
	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/i18n"
	"github.com/sinbibook/yeoyoochae/internal/middleware"
	"github.com/sinbibook/yeoyoochae/internal/pages"
	"github.com/sinbibook/yeoyoochae/internal/popup"
	"github.com/sinbibook/yeoyoochae/internal/testutil"
)

func newTestSite(t *testing.T, source func(context.Context) (data.Document, error)) http.Handler {
	t.Helper()

	bundle, err := i18n.Load(testutil.RepoPath("locales"), "ko", []string{"ko", "en"})
	require.NoError(t, err)
	renderer, err := pages.NewRenderer(testutil.RepoPath("templates"), bundle, nil)
	require.NoError(t, err)
	renderer.Now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local) }

	if source == nil {
		loader := data.NewLoader()
		source = func(ctx context.Context) (data.Document, error) {
			return loader.Load(ctx, testutil.RepoPath("testdata", "standard-template-data.json"))
		}
	}
	site := &Site{
		Renderer: renderer,
		Source:   source,
		Content:  cms.NewStore(testutil.RepoPath("content")),
		Jar:      popup.CookieJar{Key: []byte("test-key")},
	}
	r := chi.NewRouter()
	r.Use(middleware.HTMX, middleware.Locale(bundle))
	site.Routes(r)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSitePages(t *testing.T) {
	t.Parallel()
	h := newTestSite(t, nil)

	cases := []struct {
		target string
		title  string
	}{
		{target: "/", title: "여유채"},
		{target: "/index.html", title: "여유채"},
		{target: "/room.html?id=room-001", title: "별채 - 여유채"},
		{target: "/reservation.html", title: "예약안내 - 여유채"},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			rec := get(t, h, tc.target)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			doc := testutil.ParseHTML(t, rec.Body.Bytes())
			require.Equal(t, tc.title, doc.Find("title").Text())
		})
	}

	require.Equal(t, http.StatusNotFound, get(t, h, "/unknown.html").Code)
}

func TestSitePageRespectsPopupDismissal(t *testing.T) {
	t.Parallel()
	h := newTestSite(t, nil)

	rec := get(t, h, "/")
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, 1, doc.Find("#"+popup.ContainerID+" .popup-overlay").Length())

	jar := popup.CookieJar{Key: []byte("test-key")}
	hide := httptest.NewRecorder()
	jar.Store(hide, nil).Hide("popup-001", time.Now())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range hide.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	doc = testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, 0, doc.Find("#"+popup.ContainerID+" .popup-overlay").Length())
}

func TestSitePageWithoutDocument(t *testing.T) {
	t.Parallel()
	h := newTestSite(t, func(context.Context) (data.Document, error) {
		return nil, errors.New("upstream down")
	})

	rec := get(t, h, "/main.html")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "숙소명", doc.Find(".logo-text").First().Text())

	rec = get(t, h, "/data.json")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSiteData(t *testing.T) {
	t.Parallel()
	h := newTestSite(t, nil)

	rec := get(t, h, "/data.json")
	require.Equal(t, http.StatusOK, rec.Code)
	var d map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	require.Equal(t, "여유채", data.Document(d).String("property.name"))
}

func TestSiteContentPage(t *testing.T) {
	t.Parallel()
	h := newTestSite(t, nil)

	rec := get(t, h, "/pages/terms")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "이용약관 - 여유채", doc.Find("title").Text())
	require.Equal(t, "이용약관", doc.Find("[data-content-title]").Text())
	require.Equal(t, "시행일 2026.01.01", doc.Find("[data-content-effective-date]").Text())
	require.Equal(t, 3, doc.Find("[data-content-body] h2").Length())
	require.Equal(t, "여유채", doc.Find(".logo-text").First().Text())

	rec = get(t, h, "/pages/terms?hl=en")
	doc = testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Terms of Use", doc.Find("[data-content-title]").Text())

	require.Equal(t, http.StatusNotFound, get(t, h, "/pages/missing").Code)
}
