package mapper

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/sinbibook/yeoyoochae/internal/data"
)

// Entity is a room or facility selected by the page query.
type Entity struct {
	Index  int
	Record map[string]any
}

// ID returns the record id.
func (e Entity) ID() string { return data.String(e.Record["id"]) }

// ResolveEntity selects a record by the id query parameter, then by the legacy
// index parameter. An id without a match, or an index that is present but
// unparseable or out of range, selects nothing. With neither parameter the first record is used only when
// defaultFirst is set.
func ResolveEntity(q url.Values, list []map[string]any, defaultFirst bool) (Entity, bool) {
	if id := strings.TrimSpace(q.Get("id")); id != "" {
		for i, rec := range list {
			if data.String(rec["id"]) == id {
				return Entity{Index: i, Record: rec}, true
			}
		}
		return Entity{}, false
	}
	if q.Has("index") {
		i, err := strconv.Atoi(strings.TrimSpace(q.Get("index")))
		if err != nil || i < 0 || i >= len(list) {
			return Entity{}, false
		}
		return Entity{Index: i, Record: list[i]}, true
	}
	if defaultFirst && len(list) > 0 {
		return Entity{Index: 0, Record: list[0]}, true
	}
	return Entity{}, false
}

// Room resolves the current room. Without id or index there is no room.
func (p *Page) Room() (Entity, bool) {
	return p.entity("room", "rooms", false)
}

// Facility resolves the current facility, defaulting to the first one.
func (p *Page) Facility() (Entity, bool) {
	return p.entity("facility", "property.facilities", true)
}

func (p *Page) entity(kind, path string, defaultFirst bool) (Entity, bool) {
	if r, ok := p.entities[kind]; ok {
		return r.entity, r.ok
	}
	e, ok := ResolveEntity(p.Query, data.Maps(p.Data.Get(path)), defaultFirst)
	if p.entities == nil {
		p.entities = map[string]entityResult{}
	}
	p.entities[kind] = entityResult{entity: e, ok: ok}
	return e, ok
}
