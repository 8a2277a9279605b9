package seo

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/i18n"
	"github.com/sinbibook/yeoyoochae/internal/pages"
	"github.com/sinbibook/yeoyoochae/internal/testutil"
)

func render(t *testing.T, kind string, q url.Values) map[string]map[string]any {
	t.Helper()

	bundle, err := i18n.Load(testutil.RepoPath("locales"), "ko", []string{"ko", "en"})
	require.NoError(t, err)
	r, err := pages.NewRenderer(testutil.RepoPath("templates"), bundle, nil)
	require.NoError(t, err)
	r.Now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local) }
	r.Decorators = append(r.Decorators, Decorator("https://stay.example.com/"))

	d, err := data.NewLoader().Load(context.Background(), testutil.RepoPath("testdata", "standard-template-data.json"))
	require.NoError(t, err)

	p, err := r.Build(context.Background(), kind, q, d, pages.Options{Lang: "ko"})
	require.NoError(t, err)
	// decorating twice must not duplicate scripts
	Decorator("https://stay.example.com")(p)
	html, err := pages.HTML(p)
	require.NoError(t, err)

	doc := testutil.ParseHTML(t, html)
	out := map[string]map[string]any{}
	for _, id := range []string{LodgingScriptID, BreadcrumbScriptID} {
		s := doc.Find("#" + id)
		require.LessOrEqual(t, s.Length(), 1)
		if s.Length() == 0 {
			continue
		}
		require.Equal(t, "application/ld+json", s.AttrOr("type", ""))
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(s.Text()), &m))
		out[id] = m
	}
	return out
}

func TestLodgingBusinessOnIndex(t *testing.T) {
	t.Parallel()

	scripts := render(t, pages.KindIndex, nil)
	require.NotContains(t, scripts, BreadcrumbScriptID)

	l := scripts[LodgingScriptID]
	require.Equal(t, "LodgingBusiness", l["@type"])
	require.Equal(t, "여유채", l["name"])
	require.Equal(t, "https://stay.example.com/", l["url"])
	require.Equal(t, "031-123-4567", l["telephone"])
	require.Equal(t, "15:00", l["checkinTime"])
	require.Equal(t, "11:00", l["checkoutTime"])
	geo := l["geo"].(map[string]any)
	require.InDelta(t, 37.7891, geo["latitude"], 1e-9)
	require.NotEmpty(t, l["image"])
}

func TestBreadcrumbOnRoom(t *testing.T) {
	t.Parallel()

	scripts := render(t, pages.KindRoom, url.Values{"id": {"room-001"}})
	crumbs := scripts[BreadcrumbScriptID]["itemListElement"].([]any)
	require.Len(t, crumbs, 2)
	last := crumbs[1].(map[string]any)
	require.Equal(t, "별채", last["name"])
	require.Equal(t, "https://stay.example.com/room.html?id=room-001", last["item"])
	require.Equal(t, float64(2), last["position"])
}

func TestBreadcrumbOnFacilityDefaultsToFirst(t *testing.T) {
	t.Parallel()

	scripts := render(t, pages.KindFacility, nil)
	crumbs := scripts[BreadcrumbScriptID]["itemListElement"].([]any)
	require.Equal(t, "개별 바베큐장", crumbs[1].(map[string]any)["name"])
}

func TestLodgingBusinessOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	m := LodgingBusiness(Lodging{Name: "여유채"})
	require.Equal(t, map[string]any{
		"@context": "https://schema.org",
		"@type":    "LodgingBusiness",
		"name":     "여유채",
	}, m)
}
