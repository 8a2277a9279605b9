package nav

import (
	"net/url"
	"strconv"
	"strings"
)

// Page file names of the fixed site.
const (
	IndexPage       = "index.html"
	MainPage        = "main.html"
	RoomPage        = "room.html"
	FacilityPage    = "facility.html"
	ReservationPage = "reservation.html"
	DirectionsPage  = "directions.html"
)

// Item is a rendered menu entry.
type Item struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Current identifies the page being rendered.
type Current struct {
	Page  string // page kind, e.g. "room"
	ID    string
	Index int // -1 when the query has no usable index
}

// CurrentFrom reads the entity selectors from a page query.
func CurrentFrom(page string, q url.Values) Current {
	c := Current{Page: page, ID: strings.TrimSpace(q.Get("id")), Index: -1}
	if raw := strings.TrimSpace(q.Get("index")); raw != "" {
		if i, err := strconv.Atoi(raw); err == nil && i >= 0 {
			c.Index = i
		}
	}
	return c
}

// RoomHref links a room detail page by id.
func RoomHref(id string) string {
	return RoomPage + "?id=" + url.QueryEscape(id)
}

// FacilityHref links a facility detail page by index.
func FacilityHref(index int) string {
	return FacilityPage + "?index=" + strconv.Itoa(index)
}

// RoomMenu builds one entry per room. label resolves the display name.
func RoomMenu(rooms []map[string]any, label func(room map[string]any) string, cur Current) []Item {
	items := make([]Item, 0, len(rooms))
	for _, room := range rooms {
		id, _ := room["id"].(string)
		items = append(items, Item{
			Href:   RoomHref(id),
			Label:  label(room),
			Active: cur.Page == "room" && id != "" && cur.ID == id,
		})
	}
	return items
}

// FacilityMenu builds one entry per facility, linked by position. fallback
// names facilities without a name.
func FacilityMenu(facilities []map[string]any, fallback func(i int) string, cur Current) []Item {
	items := make([]Item, 0, len(facilities))
	for i, f := range facilities {
		name, _ := f["name"].(string)
		if name == "" {
			name = fallback(i)
		}
		id, _ := f["id"].(string)
		items = append(items, Item{
			Href:   FacilityHref(i),
			Label:  name,
			Active: cur.Page == "facility" && isActiveFacility(cur, i, id),
		})
	}
	return items
}

func isActiveFacility(cur Current, i int, id string) bool {
	if cur.ID != "" {
		return cur.ID == id
	}
	if cur.Index >= 0 {
		return cur.Index == i
	}
	// without a selector the facility page shows the first facility
	return i == 0
}

// Breadcrumbs starts with home and marks the last entry active.
func Breadcrumbs(homeLabel string, trail ...Crumb) []Crumb {
	crumbs := make([]Crumb, 0, len(trail)+1)
	crumbs = append(crumbs, Crumb{Href: IndexPage, Label: homeLabel})
	for _, c := range trail {
		if strings.TrimSpace(c.Label) == "" {
			continue
		}
		c.Active = false
		crumbs = append(crumbs, c)
	}
	crumbs[len(crumbs)-1].Active = true
	return crumbs
}
