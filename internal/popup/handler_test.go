package popup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/testutil"
)

func popupDocument() data.Document {
	entry := func(id string, order int) map[string]any {
		return map[string]any{
			"id":        id,
			"enabled":   true,
			"sortOrder": order,
			"title":     "title " + id,
			"images":    []any{map[string]any{"url": "https://cdn.example/" + id + ".jpg", "isSelected": true}},
		}
	}
	return data.Document{"homepage": map[string]any{"customFields": map[string]any{"popup": map[string]any{
		"popups": []any{entry("a", 1), entry("b", 2), entry("c", 3)},
	}}}}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h := &Handler{
		Source: func(context.Context) (data.Document, error) { return popupDocument(), nil },
		Jar:    CookieJar{Key: []byte("k")},
		Now:    func() time.Time { return today() },
	}
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func overlayID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	return testutil.ParseHTML(t, rec.Body.Bytes()).Find(".popup-overlay").AttrOr("data-popup-id", "")
}

func TestHandlerWalksQueue(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/popups", nil))
	require.Equal(t, "a", overlayID(t, rec))
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "/popups/YQ/next", doc.Find(".popup-close-text").AttrOr("hx-get", ""))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/popups/YQ/next", nil))
	require.Equal(t, "b", overlayID(t, rec))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/popups/Yw/next", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/popups/eno/next", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestHandlerHideTodaySetsCookieAndAdvances(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/popups/YQ/hide-today", nil))
	require.Equal(t, "b", overlayID(t, rec))
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	next := doc.Find(".popup-close-text").AttrOr("hx-get", "")
	require.Equal(t, "/popups/Yg/next", next)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CookiePrefix+"YQ", cookies[0].Name)

	// closing b after a was dismissed still reaches c
	req := httptest.NewRequest(http.MethodGet, next, nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "c", overlayID(t, rec))

	// the dismissed popup drops out of the queue for the rest of the day
	req = httptest.NewRequest(http.MethodGet, "/popups", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "b", overlayID(t, rec))
}

func TestHandlerHideTodayOfAlreadyHiddenPopup(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/popups/Yg/hide-today", nil))
	require.Equal(t, "c", overlayID(t, rec))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/popups/Yg/hide-today", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "c", overlayID(t, rec))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/popups/eno/hide-today", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCookieNamesKeepDistinctIDsApart(t *testing.T) {
	t.Parallel()

	jar := CookieJar{Key: []byte("k")}
	rec := httptest.NewRecorder()
	jar.Store(rec, nil).Hide("p.1", today())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CookiePrefix+"cC4x", cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	store := jar.Store(nil, req)
	require.True(t, store.HiddenOn("p.1", today()))
	require.False(t, store.HiddenOn("p_1", today()))
	require.NotEqual(t, Token("p.1"), Token("p_1"))
}
