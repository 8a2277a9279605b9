package pages

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/format"
	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/textutil"
)

const (
	selRoomName          = "[data-room-name]"
	selRoomDescription   = "[data-room-description]"
	selRoomBaseOccupancy = "[data-room-base-occupancy]"
	selRoomMaxOccupancy  = "[data-room-max-occupancy]"
	selRoomSize          = "[data-room-size]"
	selRoomBedType       = "[data-room-bed-type]"
	selRoomType          = "[data-room-type]"
	selRoomInfo          = "[data-room-info]"
	selRoomHeroImage     = "[data-room-hero-image]"
	selRoomWave          = "[data-room-wave-background]"
	selRoomSlider        = "[data-room-slider]"
	selRoomSliderMain    = "[data-room-slider-main]"
	selRoomGallery       = "#room-gallery-container"
	selRoomAmenities     = "[data-room-amenities]"
	selRoomStructure     = "[data-room-structure]"
	selCheckin           = "[data-property-checkin]"
	selCheckout          = "[data-property-checkout]"
	selCheckinInfo       = "[data-property-checkin-checkout-info]"

	// SliderStateAttr is "ready" or "placeholder" on the slider root.
	SliderStateAttr = "data-slider-state"
	// SliderImagesAttr lists the slider images as JSON.
	SliderImagesAttr = "data-slider-images"
)

// Room layout limits.
const (
	MaxGalleryItems = 4
	sliderThumbs    = 3
	amenitiesPerRow = 3
)

// Room maps a room detail page. Nothing is mapped when no room is selected.
type Room struct{}

// MapPage runs the room operations in order.
func (Room) MapPage(p *mapper.Page) {
	e, ok := p.Room()
	if !ok {
		return
	}
	r := Room{}
	room := e.Record
	p.Run("basic", func() { r.mapBasicInfo(p, room) })
	p.Run("hero image", func() { r.mapHeroImage(p, room) })
	p.Run("wave", func() { r.mapWave(p, room) })
	p.Run("slider", func() { r.mapSlider(p, room) })
	p.Run("gallery", func() { r.mapGallery(p, room) })
	p.Run("amenities", func() { r.mapAmenities(p, room) })
	p.Run("structure", func() { r.mapStructure(p, room) })
	p.Run("property info", func() { mapCheckInOut(p) })
	p.Run("seo", func() { r.mapSEO(p, room) })
}

// MapSection re-runs the hero section.
func (r Room) MapSection(p *mapper.Page, section string) bool {
	if section != "hero" {
		return false
	}
	e, ok := p.Room()
	if !ok {
		return true
	}
	p.Run("basic", func() { r.mapBasicInfo(p, e.Record) })
	p.Run("slider", func() { r.mapSlider(p, e.Record) })
	return true
}

// roomPage returns the builder page record for a room id.
func roomPage(p *mapper.Page, id string) map[string]any {
	for _, rp := range data.Maps(p.Data.Get("homepage.customFields.pages.room")) {
		if data.String(rp["id"]) == id {
			return rp
		}
	}
	return nil
}

func (Room) mapBasicInfo(p *mapper.Page, room map[string]any) {
	if name := p.RoomName(room); name != "" {
		p.SetText(selRoomName, name)
	}

	heroTitle := data.String(data.Get(roomPage(p, data.String(room["id"])), "sections.0.hero.title", nil))
	if heroTitle == "" {
		heroTitle = p.T(keyRoomHeroTitle)
	}
	p.Find(selRoomDescription).First().SetHtml(textutil.RenderMixedScript(heroTitle))

	unit := p.T(keyPersonUnit)
	if n, ok := data.Int(room["baseOccupancy"]); ok && n > 0 {
		p.Find(selRoomBaseOccupancy).First().SetText(format.Count(n, unit))
	}
	if n, ok := data.Int(room["maxOccupancy"]); ok && n > 0 {
		p.Find(selRoomMaxOccupancy).First().SetText(format.Count(n, unit))
	}
	if size := data.String(room["size"]); size != "" {
		p.Find(selRoomSize).First().SetText(size)
	}
	if beds := data.Slice(room["bedTypes"]); len(beds) > 0 {
		p.Find(selRoomBedType).First().SetText(data.String(beds[0]))
	}
	p.Find(selRoomType).First().SetText(textutil.FirstNonEmpty(data.String(room["roomType"]), p.T(keyRoomTypeDefault)))
	if info := data.String(room["roomInfo"]); strings.TrimSpace(info) != "" {
		p.Find(selRoomInfo).First().SetHtml(textutil.Paragraphs(info, "ko-body"))
	}
}

func (Room) mapHeroImage(p *mapper.Page, room map[string]any) {
	img, ok := images.First(p.RoomImages(room, mapper.RoomThumbnail), "")
	p.SetImage(p.Find(selRoomHeroImage).First(), img, ok, p.RoomName(room))
}

// WaveImage picks the wave background: the first room exterior image, else
// the last room interior image, else the first property exterior image.
func WaveImage(p *mapper.Page, room map[string]any) (images.Image, bool) {
	if img, ok := images.First(p.RoomImages(room, mapper.RoomExterior), ""); ok {
		return img, true
	}
	if img, ok := images.Last(p.RoomImages(room, mapper.RoomInterior), ""); ok {
		return img, true
	}
	return images.First(p.PropertyImages(mapper.PropertyExterior), "")
}

func (Room) mapWave(p *mapper.Page, room map[string]any) {
	bg := p.Find(selRoomWave).First()
	if bg.Length() == 0 {
		return
	}
	img, _ := WaveImage(p, room)
	mapper.SetBackground(bg, img.URL)
}

type sliderImage struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

func (Room) mapSlider(p *mapper.Page, room map[string]any) {
	interior := p.RoomImages(room, mapper.RoomInterior)
	name := p.RoomName(room)

	if root := p.Find(selRoomSlider).First(); root.Length() > 0 {
		list := make([]sliderImage, 0, len(interior))
		for _, img := range interior {
			list = append(list, sliderImage{URL: img.URL, Description: img.Description})
		}
		state := "ready"
		if len(list) == 0 {
			state = "placeholder"
		}
		raw, _ := json.Marshal(list)
		root.SetAttr(SliderStateAttr, state)
		root.SetAttr(SliderImagesAttr, string(raw))
	}

	img, ok := images.Nth(interior, 0, 0)
	p.SetImage(p.Find(selRoomSliderMain).First(), img, ok, name)

	for i := 0; i < sliderThumbs; i++ {
		thumb := p.Find(fmt.Sprintf("[data-room-slider-thumb-%d]", i)).First()
		img, ok := images.Nth(interior, i, 0)
		p.SetImage(thumb, img, ok, p.Tf(keyRoomThumbAlt, name, i+1))
	}
}

type galleryItem struct {
	First       bool
	ImageLeft   bool
	Delay       string
	URL         string
	Alt         string
	Description template.HTML
}

// GalleryImages returns at most MaxGalleryItems eligible exterior images.
func GalleryImages(p *mapper.Page, room map[string]any) []images.Image {
	ext := p.RoomImages(room, mapper.RoomExterior)
	if len(ext) > MaxGalleryItems {
		ext = ext[:MaxGalleryItems]
	}
	return ext
}

func (Room) mapGallery(p *mapper.Page, room map[string]any) {
	container := p.Find(selRoomGallery).First()
	if container.Length() == 0 {
		return
	}
	container.Empty()

	name := p.RoomName(room)
	gallery := GalleryImages(p, room)
	if len(gallery) == 0 {
		container.AppendHtml(render(p, "gallery-placeholders", map[string]string{
			"TextKo": p.T(keyGalleryTextKo),
			"TextEn": p.T(keyGalleryTextEn),
			"Alt1":   p.Tf(keyRoomViewAlt, name, 1),
			"Alt2":   p.Tf(keyRoomViewAlt, name, 2),
		}))
		return
	}

	for i, img := range gallery {
		container.AppendHtml(render(p, "gallery-item", galleryItem{
			First:       i == 0,
			ImageLeft:   i%2 == 1,
			Delay:       format.Seconds(float64(i) / 10),
			URL:         img.URL,
			Alt:         textutil.FirstNonEmpty(img.Description, p.Tf(keyRoomViewAlt, name, i+1)),
			Description: template.HTML(textutil.RenderMixedScript(textutil.FirstNonEmpty(img.Description, p.T(keyGalleryTextEn)))),
		}))
		item := container.Children().Last()
		item.Find("img").SetAttr(fmt.Sprintf("data-room-exterior-image-%d", i), "")
		item.Find("h4").SetAttr(fmt.Sprintf("data-room-exterior-description-%d", i), "")
	}
}

type amenityRow struct {
	Names []string
	Last  bool
}

// AmenityRows groups amenity names three to a row.
func AmenityRows(amenities []any) []amenityRow {
	var names []string
	for _, a := range amenities {
		name := data.String(a)
		if m := data.Map(a); m != nil {
			name = data.String(m["name"])
		}
		names = append(names, name)
	}
	var rows []amenityRow
	for i := 0; i < len(names); i += amenitiesPerRow {
		end := min(i+amenitiesPerRow, len(names))
		rows = append(rows, amenityRow{Names: names[i:end], Last: end == len(names)})
	}
	return rows
}

func (Room) mapAmenities(p *mapper.Page, room map[string]any) {
	amenities := data.Slice(room["amenities"])
	if len(amenities) == 0 {
		return
	}
	p.Find(selRoomAmenities).First().SetHtml(render(p, "amenities", AmenityRows(amenities)))
}

// RoomStructure summarizes bedroom, bathroom and living room counts. Zero or
// missing counts are omitted; an empty summary returns "".
func RoomStructure(p *mapper.Page, counts map[string]any) string {
	var parts []string
	for _, c := range []struct{ field, key string }{
		{"bedroom", keyBedroomCount},
		{"bathroom", keyBathroomCount},
		{"livingRoom", keyLivingRoomCount},
	} {
		if n, ok := data.Int(counts[c.field]); ok && n > 0 {
			parts = append(parts, p.Tf(c.key, n))
		}
	}
	return strings.Join(parts, ", ")
}

func (Room) mapStructure(p *mapper.Page, room map[string]any) {
	counts := data.Map(room["totalRoomCount"])
	if counts == nil {
		return
	}
	p.Find(selRoomStructure).First().SetText(textutil.FirstNonEmpty(RoomStructure(p, counts), p.T(keyNoInfo)))
}

func mapCheckInOut(p *mapper.Page) {
	prop := p.Data.Map("property")
	if prop == nil {
		return
	}
	if v := data.String(prop["checkin"]); v != "" {
		p.Find(selCheckin).First().SetText(format.ClockTime(v))
	}
	if v := data.String(prop["checkout"]); v != "" {
		p.Find(selCheckout).First().SetText(format.ClockTime(v))
	}
	if v := data.String(prop["checkInOutInfo"]); v != "" {
		p.Find(selCheckinInfo).First().SetHtml(textutil.WithLineBreaks(v))
	}
}

func (Room) mapSEO(p *mapper.Page, room map[string]any) {
	name := p.RoomName(room)
	p.SetTitle(name + " - " + p.PropertyName())
	if desc := data.String(room["description"]); desc != "" {
		p.SetMeta("description", name+" - "+desc)
	}
	p.UpdateFavicon()
}
