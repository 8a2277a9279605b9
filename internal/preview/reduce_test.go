package preview

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/theme"
)

func initialised(t *testing.T, d map[string]any) State {
	t.Helper()
	s, eff := Reduce(State{Page: "index"}, Message{Type: InitialData, Data: d})
	require.Equal(t, RenderFull, eff.Render)
	require.Equal(t, AckInitialRender, eff.Ack)
	require.True(t, s.Initialized)
	return s
}

func TestReduceTemplateUpdateBeforeInitialActsAsInitial(t *testing.T) {
	t.Parallel()

	s, eff := Reduce(State{}, Message{Type: TemplateUpdate, Data: map[string]any{"property": map[string]any{"name": "A"}}})
	require.True(t, s.Initialized)
	require.True(t, s.AdminDataReceived)
	require.Equal(t, RenderFull, eff.Render)
	require.Equal(t, AckInitialRender, eff.Ack)
	require.Equal(t, "A", s.Data.String("property.name"))
}

func TestReduceTemplateUpdateMergesAndReplacesArrays(t *testing.T) {
	t.Parallel()
	s := initialised(t, map[string]any{
		"property": map[string]any{"name": "A", "phone": "010"},
		"rooms":    []any{map[string]any{"id": "r1"}, map[string]any{"id": "r2"}},
	})
	before := s.Data

	s, eff := Reduce(s, Message{Type: TemplateUpdate, Data: map[string]any{
		"property": map[string]any{"name": "B"},
		"rooms":    []any{map[string]any{"id": "r3"}},
	}})
	require.Equal(t, AckUpdate, eff.Ack)
	require.Equal(t, "B", s.Data.String("property.name"))
	require.Equal(t, "010", s.Data.String("property.phone"))
	require.Len(t, s.Data.Slice("rooms"), 1)

	// the previous state is untouched
	require.Equal(t, "A", before.String("property.name"))
	require.Len(t, before.Slice("rooms"), 2)
}

func TestReduceTemplateUpdateCarriesTheme(t *testing.T) {
	t.Parallel()
	s := initialised(t, map[string]any{})

	s, _ = Reduce(s, Message{Type: TemplateUpdate, Data: map[string]any{
		"homepage": map[string]any{"customFields": map[string]any{"theme": map[string]any{
			"color": map[string]any{"primary": "#111111"},
		}}},
	}})
	require.Equal(t, "#111111", s.Theme.Vars[theme.VarPrimary])
}

func TestReducePropertyChangeReplaces(t *testing.T) {
	t.Parallel()
	s := initialised(t, map[string]any{"property": map[string]any{"name": "A", "phone": "010"}})

	s, eff := Reduce(s, Message{Type: PropertyChange, Data: map[string]any{"property": map[string]any{"name": "C"}}})
	require.Equal(t, RenderFull, eff.Render)
	require.Equal(t, AckPropertyChange, eff.Ack)
	require.Equal(t, "C", s.Data.String("property.name"))
	require.Empty(t, s.Data.String("property.phone"))
}

func TestReduceNavigation(t *testing.T) {
	t.Parallel()
	s := State{Page: "room", Query: url.Values{"id": {"r1"}}}

	_, eff := Reduce(s, Message{Type: PageNavigation, Page: "room", RoomID: "r1"})
	require.Empty(t, eff.Navigate)

	_, eff = Reduce(s, Message{Type: PageNavigation, Page: "room", RoomID: "r 2"})
	require.Equal(t, "room.html?id=r+2", eff.Navigate)

	_, eff = Reduce(s, Message{Type: PageNavigation, Page: "facility", FacilityID: "f1"})
	require.Equal(t, "facility.html?id=f1", eff.Navigate)

	_, eff = Reduce(s, Message{Type: PageNavigation, Page: "directions"})
	require.Equal(t, "directions.html", eff.Navigate)

	_, eff = Reduce(s, Message{Type: PageNavigation, Page: "admin"})
	require.Equal(t, Effect{}, eff)
}

func TestReduceSectionRegularPage(t *testing.T) {
	t.Parallel()
	s := initialised(t, map[string]any{})

	s, eff := Reduce(s, Message{Type: SectionUpdate, Page: "main", Section: "hero", Data: map[string]any{"title": "T"}})
	require.Equal(t, RenderSection, eff.Render)
	require.Equal(t, "main", eff.Page)
	require.Equal(t, AckSectionUpdate, eff.Ack)
	require.Equal(t, "T", s.Data.String("homepage.customFields.pages.main.sections.0.hero.title"))
}

func TestReduceSectionEntityPage(t *testing.T) {
	t.Parallel()
	s := initialised(t, map[string]any{})
	s.Query = url.Values{"id": {"r9"}}

	s, eff := Reduce(s, Message{Type: SectionUpdate, Page: "room", Section: "hero", Data: map[string]any{"title": "R"}})
	require.Equal(t, RenderSection, eff.Render)
	rooms := data.Maps(s.Data.Get("homepage.customFields.pages.room"))
	require.Len(t, rooms, 1)
	require.Equal(t, "r9", rooms[0]["id"])
	require.Equal(t, "R", data.String(data.Get(rooms[0], "sections.0.hero.title", nil)))

	// updating the same record does not append another one
	s, _ = Reduce(s, Message{Type: SectionUpdate, Page: "room", Section: "hero", Data: map[string]any{"title": "R2"}})
	rooms = data.Maps(s.Data.Get("homepage.customFields.pages.room"))
	require.Len(t, rooms, 1)
	require.Equal(t, "R2", data.String(data.Get(rooms[0], "sections.0.hero.title", nil)))

	// without an id there is nothing to address
	s.Query = url.Values{}
	_, eff = Reduce(s, Message{Type: SectionUpdate, Page: "room", Section: "hero", Data: map[string]any{}})
	require.Equal(t, Effect{}, eff)
}

func TestReduceSectionLogo(t *testing.T) {
	t.Parallel()
	s := initialised(t, map[string]any{"homepage": map[string]any{"images": []any{map[string]any{"logo": []any{"old"}}}}})

	logo := []any{map[string]any{"url": "https://cdn.example/logo.png"}}
	s, eff := Reduce(s, Message{Type: SectionUpdate, Page: "room", Section: "logo", Data: map[string]any{"images": logo}})
	require.Equal(t, RenderSection, eff.Render)
	require.Equal(t, "logo", eff.Section)
	require.Equal(t, "https://cdn.example/logo.png", s.Data.String("homepage.images.0.logo.0.url"))

	s, _ = Reduce(s, Message{Type: SectionUpdate, Page: "index", Section: "logo", Data: map[string]any{}})
	require.Empty(t, s.Data.Slice("homepage.images.0.logo"))
}

func TestReduceTheme(t *testing.T) {
	t.Parallel()
	s := initialised(t, map[string]any{})

	_, eff := Reduce(s, Message{Type: ThemeUpdate})
	require.Equal(t, Effect{}, eff)

	s, eff = Reduce(s, Message{Type: ThemeUpdate, Data: map[string]any{"color": map[string]any{"secondary": "#222222"}}})
	require.Equal(t, RenderTheme, eff.Render)
	require.Equal(t, AckThemeUpdate, eff.Ack)
	require.Equal(t, "#222222", s.Theme.Vars[theme.VarSecondary])
}
