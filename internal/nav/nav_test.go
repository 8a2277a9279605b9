package nav

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoomMenuLinksByID(t *testing.T) {
	t.Parallel()

	rooms := []map[string]any{{"id": "r1", "name": "A"}, {"id": "r 2", "name": "B"}}
	cur := CurrentFrom("room", url.Values{"id": {"r 2"}})
	items := RoomMenu(rooms, func(r map[string]any) string { return r["name"].(string) }, cur)

	require.Len(t, items, 2)
	require.Equal(t, "room.html?id=r1", items[0].Href)
	require.Equal(t, "room.html?id=r+2", items[1].Href)
	require.False(t, items[0].Active)
	require.True(t, items[1].Active)
}

func TestFacilityMenuFallbackNamesAndActiveState(t *testing.T) {
	t.Parallel()

	facilities := []map[string]any{{"id": "f1", "name": "수영장"}, {"id": "f2"}}
	fallback := func(i int) string { return fmt.Sprintf("시설%d", i+1) }

	items := FacilityMenu(facilities, fallback, CurrentFrom("facility", url.Values{}))
	require.Equal(t, "facility.html?index=0", items[0].Href)
	require.Equal(t, "시설2", items[1].Label)
	require.True(t, items[0].Active, "first facility is shown without a selector")

	items = FacilityMenu(facilities, fallback, CurrentFrom("facility", url.Values{"index": {"1"}}))
	require.False(t, items[0].Active)
	require.True(t, items[1].Active)

	items = FacilityMenu(facilities, fallback, CurrentFrom("index", url.Values{}))
	require.False(t, items[0].Active)
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	crumbs := Breadcrumbs("홈", Crumb{Href: RoomHref("r1"), Label: "별채"}, Crumb{Label: " "})
	require.Len(t, crumbs, 2)
	require.Equal(t, IndexPage, crumbs[0].Href)
	require.False(t, crumbs[0].Active)
	require.True(t, crumbs[1].Active)

	only := Breadcrumbs("홈")
	require.True(t, only[0].Active)
}
