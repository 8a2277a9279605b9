package mapper

import (
	"strings"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/textutil"
)

// Image categories used by the builder override layer.
const (
	PropertyExterior = "property_exterior"
	PropertyInterior = "property_interior"
	RoomThumbnail    = "roomtype_thumbnail"
	RoomInterior     = "roomtype_interior"
	RoomExterior     = "roomtype_exterior"
)

const (
	customPropertyPath = "homepage.customFields.property"
	customRoomsPath    = "homepage.customFields.roomtypes"
)

// PropertyName resolves the display name of the property.
func (p *Page) PropertyName() string {
	return textutil.ResolveText(
		p.Data.Get(customPropertyPath+".name"),
		p.Data.Get("property.name"),
		p.T(KeyPropertyName),
	)
}

// PropertyNameEn resolves the English display name of the property.
func (p *Page) PropertyNameEn() string {
	return textutil.ResolveText(
		p.Data.Get(customPropertyPath+".nameEn"),
		p.Data.Get("property.nameEn"),
		"",
	)
}

// PropertyImages returns eligible property images of category. The builder
// list wins when it has any; otherwise the canonical group is used.
func (p *Page) PropertyImages(category string) []images.Image {
	custom := images.Selected(images.FromRecords(p.Data.Get(customPropertyPath+".images")), category)
	if len(custom) > 0 {
		return custom
	}
	return images.Selected(images.FromRecords(p.Data.Get("property.images.0."+group(category))), "")
}

// CustomRoom returns the builder override record for room, if any.
func (p *Page) CustomRoom(room map[string]any) map[string]any {
	id := strings.TrimSpace(data.String(room["id"]))
	if id == "" {
		return nil
	}
	for _, rt := range data.Maps(p.Data.Get(customRoomsPath)) {
		if data.String(rt["id"]) == id {
			return rt
		}
	}
	return nil
}

// RoomName resolves the display name of a room.
func (p *Page) RoomName(room map[string]any) string {
	return textutil.ResolveText(
		data.Get(p.CustomRoom(room), "name", nil),
		room["name"],
		p.T(KeyRoomName),
	)
}

// RoomNameEn resolves the English display name of a room.
func (p *Page) RoomNameEn(room map[string]any) string {
	return textutil.ResolveText(
		data.Get(p.CustomRoom(room), "nameEn", nil),
		room["nameEn"],
		"",
	)
}

// RoomImages returns eligible room images of category with the same
// builder-then-canonical precedence as PropertyImages.
func (p *Page) RoomImages(room map[string]any, category string) []images.Image {
	if rt := p.CustomRoom(room); rt != nil {
		custom := images.Selected(images.FromRecords(rt["images"]), category)
		if len(custom) > 0 {
			return custom
		}
	}
	return images.Selected(images.FromRecords(data.Get(room, "images.0."+group(category), nil)), "")
}

// group maps a builder category to its canonical image group name.
func group(category string) string {
	if i := strings.IndexByte(category, '_'); i >= 0 {
		category = category[i+1:]
	}
	return category
}
