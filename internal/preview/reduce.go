package preview

import (
	"net/url"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/nav"
	"github.com/sinbibook/yeoyoochae/internal/pages"
	"github.com/sinbibook/yeoyoochae/internal/theme"
)

// State is what the bridge knows about the previewed page.
type State struct {
	Data              data.Document
	Theme             theme.Resolved
	Initialized       bool
	AdminDataReceived bool
	Page              string // page kind
	Query             url.Values
}

// RenderMode says how much of the page an effect re-renders.
type RenderMode int

const (
	RenderNone RenderMode = iota
	RenderFull
	RenderSection
	RenderTheme
)

// Effect is the work a reduction asks the session to perform.
type Effect struct {
	Render   RenderMode
	Page     string // page a section update targets
	Section  string
	Navigate string // target path for a page change
	Ack      Type   // sent once the render finishes; "" for none
}

// pageFiles maps navigable page names to their files.
var pageFiles = map[string]string{
	pages.KindIndex:       nav.IndexPage,
	pages.KindMain:        nav.MainPage,
	pages.KindRoom:        nav.RoomPage,
	pages.KindFacility:    nav.FacilityPage,
	pages.KindReservation: nav.ReservationPage,
	pages.KindDirections:  nav.DirectionsPage,
}

// Reduce applies one message to s. It never mutates s.Data.
func Reduce(s State, m Message) (State, Effect) {
	switch m.Type {
	case InitialData:
		return reduceInitial(s, m)
	case TemplateUpdate:
		return reduceTemplateUpdate(s, m)
	case PropertyChange:
		return reducePropertyChange(s, m)
	case PageNavigation:
		return reduceNavigation(s, m)
	case SectionUpdate:
		return reduceSection(s, m)
	case ThemeUpdate:
		return reduceTheme(s, m)
	}
	return s, Effect{}
}

func reduceInitial(s State, m Message) (State, Effect) {
	s.Data = data.Document(data.Merge(nil, m.Data))
	s.Initialized = true
	s.AdminDataReceived = true
	return s, Effect{Render: RenderFull, Ack: AckInitialRender}
}

// reduceTemplateUpdate merges a partial document. Before the first full push
// it acts as the initial data. Arrays, rooms included, replace wholesale.
func reduceTemplateUpdate(s State, m Message) (State, Effect) {
	s.AdminDataReceived = true
	if t := themeOf(m.Data); t != nil {
		s.Theme = s.Theme.Merge(theme.Resolve(t))
	}
	if !s.Initialized {
		return reduceInitial(s, m)
	}
	s.Data = data.Document(data.Merge(s.Data, m.Data))
	return s, Effect{Render: RenderFull, Ack: AckUpdate}
}

func themeOf(d map[string]any) map[string]any {
	if t := data.Map(data.Get(d, "homepage.customFields.theme", nil)); t != nil {
		return t
	}
	return data.Map(d["theme"])
}

func reducePropertyChange(s State, m Message) (State, Effect) {
	s.Data = data.Document(data.Merge(nil, m.Data))
	s.Initialized = true
	s.AdminDataReceived = true
	return s, Effect{Render: RenderFull, Ack: AckPropertyChange}
}

// reduceNavigation targets another page unless the message names the page
// and entity already shown.
func reduceNavigation(s State, m Message) (State, Effect) {
	file, ok := pageFiles[m.Page]
	if !ok {
		return s, Effect{}
	}
	newID := m.RoomID
	if newID == "" {
		newID = m.FacilityID
	}
	if m.Page == s.Page && newID == s.Query.Get("id") {
		return s, Effect{}
	}

	target := file
	switch {
	case m.Page == pages.KindRoom && m.RoomID != "":
		target += "?id=" + url.QueryEscape(m.RoomID)
	case m.Page == pages.KindFacility && m.FacilityID != "":
		target += "?id=" + url.QueryEscape(m.FacilityID)
	}
	return s, Effect{Navigate: target}
}

// reduceSection writes one builder section into the document. The logo
// section is shared by every page; entity pages address their record by the
// current id and create it on demand.
func reduceSection(s State, m Message) (State, Effect) {
	if m.Section == "logo" {
		logo := data.Slice(m.Data["images"])
		if logo == nil {
			logo = []any{}
		}
		s.Data = setLogo(s.Data, logo)
		return s, Effect{Render: RenderSection, Page: m.Page, Section: m.Section, Ack: AckSectionUpdate}
	}
	if _, ok := pageFiles[m.Page]; !ok || m.Section == "" {
		return s, Effect{}
	}

	doc := s.Data.Clone()
	if doc == nil {
		doc = data.Document{}
	}
	pagesNode := ensureMap(ensureMap(ensureMap(doc, "homepage"), "customFields"), "pages")

	var payload any
	if m.Data != nil {
		payload = m.Data
	}
	if m.Page == pages.KindRoom || m.Page == pages.KindFacility {
		id := s.Query.Get("id")
		if id == "" {
			return s, Effect{}
		}
		entityPage(pagesNode, m.Page, id)[m.Section] = payload
	} else {
		regularPage(pagesNode, m.Page)[m.Section] = payload
	}
	s.Data = doc
	return s, Effect{Render: RenderSection, Page: m.Page, Section: m.Section, Ack: AckSectionUpdate}
}

func reduceTheme(s State, m Message) (State, Effect) {
	if m.Data == nil {
		return s, Effect{}
	}
	s.Theme = s.Theme.Merge(theme.Resolve(m.Data))
	return s, Effect{Render: RenderTheme, Ack: AckThemeUpdate}
}

func setLogo(d data.Document, logo []any) data.Document {
	doc := d.Clone()
	if doc == nil {
		doc = data.Document{}
	}
	hp := ensureMap(doc, "homepage")
	imgs := data.Slice(hp["images"])
	if len(imgs) == 0 {
		imgs = []any{map[string]any{}}
	}
	first := data.Map(imgs[0])
	if first == nil {
		first = map[string]any{}
		imgs[0] = first
	}
	first["logo"] = logo
	hp["images"] = imgs
	return doc
}

// ensureMap returns m[key] as an object, creating it when missing.
func ensureMap(m map[string]any, key string) map[string]any {
	if v := data.Map(m[key]); v != nil {
		return v
	}
	v := map[string]any{}
	m[key] = v
	return v
}

// regularPage returns pages.<page>.sections[0], creating the path.
func regularPage(pagesNode map[string]any, page string) map[string]any {
	pg := ensureMap(pagesNode, page)
	return firstSection(pg)
}

// entityPage returns pages.<page>[id].sections[0], appending the record when
// the id is new.
func entityPage(pagesNode map[string]any, page, id string) map[string]any {
	list := data.Slice(pagesNode[page])
	for _, item := range list {
		if rec := data.Map(item); rec != nil && data.String(rec["id"]) == id {
			return firstSection(rec)
		}
	}
	rec := map[string]any{"id": id, "sections": []any{map[string]any{}}}
	pagesNode[page] = append(list, rec)
	return firstSection(rec)
}

func firstSection(rec map[string]any) map[string]any {
	sections := data.Slice(rec["sections"])
	if len(sections) == 0 || data.Map(sections[0]) == nil {
		sections = []any{map[string]any{}}
		rec["sections"] = sections
	}
	return data.Map(sections[0])
}
