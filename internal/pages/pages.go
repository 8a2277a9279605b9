// Package pages holds one mapper per site page plus the shared header and
// footer mapper, and the pipeline that renders a page template with them.
package pages

import (
	"path"
	"strings"

	"github.com/sinbibook/yeoyoochae/internal/mapper"
)

// Page kinds. Each kind is served from templates/<kind>.html.
const (
	KindIndex       = "index"
	KindMain        = "main"
	KindRoom        = "room"
	KindFacility    = "facility"
	KindReservation = "reservation"
	KindDirections  = "directions"
)

// SectionMapper maps a whole page and can re-run a single builder section
// against an already mapped document.
type SectionMapper interface {
	mapper.Mapper
	// MapSection reports whether section is known to the page.
	MapSection(p *mapper.Page, section string) bool
}

var registry = map[string]SectionMapper{
	KindIndex:       Index{},
	KindMain:        Main{},
	KindRoom:        Room{},
	KindFacility:    Facility{},
	KindReservation: Reservation{},
	KindDirections:  Directions{},
}

// Kinds lists the page kinds in navigation order.
func Kinds() []string {
	return []string{KindIndex, KindMain, KindRoom, KindFacility, KindReservation, KindDirections}
}

// ForKind returns the mapper for a page kind.
func ForKind(kind string) (SectionMapper, bool) {
	m, ok := registry[kind]
	return m, ok
}

// KindFromPath maps a request path such as "/room.html" or "/" to a page
// kind. Unknown names fall back to the index page the same way the site
// root does.
func KindFromPath(p string) string {
	base := strings.TrimSuffix(path.Base("/"+strings.TrimPrefix(p, "/")), ".html")
	if _, ok := registry[base]; ok {
		return base
	}
	return KindIndex
}

// File is the template file name of a kind.
func File(kind string) string { return kind + ".html" }
