package pages

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/testutil"
)

func newTestPage(t *testing.T, kind, markup string, d data.Document, q url.Values) *mapper.Page {
	t.Helper()
	p := mapper.NewPage(kind, testutil.ParseString(t, markup), d)
	p.Msg = testutil.Messages(t, "ko")
	p.Now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.Local) }
	if q != nil {
		p.Query = q
	}
	return p
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		m, ok := ForKind(kind)
		require.True(t, ok, kind)
		require.NotNil(t, m)
	}
	_, ok := ForKind("admin")
	require.False(t, ok)
	require.Equal(t, "room.html", File(KindRoom))
}

func TestKindFromPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/":                  KindIndex,
		"":                   KindIndex,
		"/room.html":         KindRoom,
		"facility.html":      KindFacility,
		"/nested/directions": KindDirections,
		"/unknown.html":      KindIndex,
		"/../main.html":      KindMain,
	}
	for in, want := range cases {
		require.Equal(t, want, KindFromPath(in), in)
	}
}

func TestHeroSwiperConfig(t *testing.T) {
	t.Parallel()

	require.Equal(t, SwiperConfig{Effect: "fade", Speed: 800, Slides: 1}, HeroSwiperConfig(0))
	require.Equal(t, SwiperConfig{Effect: "fade", Speed: 800, Slides: 1}, HeroSwiperConfig(1))
	require.Equal(t, SwiperConfig{Effect: "fade", Speed: 800, Autoplay: 4000, Loop: true, Slides: 3}, HeroSwiperConfig(3))
}

func TestGridClasses(t *testing.T) {
	t.Parallel()

	require.Nil(t, GridClasses(0))
	require.Equal(t, []string{"grid-cols-1"}, GridClasses(1))
	require.Equal(t, []string{"grid-cols-1", "md:grid-cols-2"}, GridClasses(2))
	require.Equal(t, []string{"grid-cols-1", "md:grid-cols-2", "lg:grid-cols-3"}, GridClasses(3))
}

func TestRefundRows(t *testing.T) {
	t.Parallel()
	p := newTestPage(t, KindReservation, `<html><body></body></html>`, nil, nil)

	rows := RefundRows(p, []map[string]any{
		{"refundProcessingDays": 7, "refundRate": 100},
		{"refundProcessingDays": 0, "refundRate": 50.5},
	})
	require.Len(t, rows, 2)
	require.Equal(t, refundRow{Cutoff: "7일 전", Rate: "100%", Border: true}, rows[0])
	require.Equal(t, refundRow{Cutoff: "당일", Rate: "50.5%", Border: false}, rows[1])
}

func TestRoomStructure(t *testing.T) {
	t.Parallel()
	p := newTestPage(t, KindRoom, `<html><body></body></html>`, nil, nil)

	require.Equal(t, "침실 2개, 거실 1개", RoomStructure(p, map[string]any{"bedroom": 2, "bathroom": 0, "livingRoom": 1}))
	require.Empty(t, RoomStructure(p, map[string]any{}))
}

func TestAmenityRows(t *testing.T) {
	t.Parallel()

	rows := AmenityRows([]any{map[string]any{"name": "a"}, "b", "c", "d"})
	require.Len(t, rows, 2)
	require.Equal(t, []string{"a", "b", "c"}, rows[0].Names)
	require.False(t, rows[0].Last)
	require.Equal(t, []string{"d"}, rows[1].Names)
	require.True(t, rows[1].Last)
}

func roomDoc(exterior int) data.Document {
	imgs := make([]any, 0, exterior)
	for i := 0; i < exterior; i++ {
		imgs = append(imgs, map[string]any{"url": "ex.jpg", "isSelected": true, "sortOrder": i})
	}
	return data.Document{"rooms": []any{map[string]any{
		"id":     "r1",
		"name":   "별채",
		"images": []any{map[string]any{"exterior": imgs}},
	}}}
}

func TestRoomGallery(t *testing.T) {
	t.Parallel()
	const markup = `<html><body><div id="room-gallery-container"><p>stale</p></div></body></html>`
	q := url.Values{"id": {"r1"}}

	empty := newTestPage(t, KindRoom, markup, roomDoc(0), q)
	Room{}.MapPage(empty)
	container := empty.Find(selRoomGallery)
	require.Equal(t, 2, container.Children().Length())
	require.Equal(t, 1, container.Find("[data-room-exterior-image-1]").Length())
	require.Equal(t, 0, container.Find("p").Length())

	full := newTestPage(t, KindRoom, markup, roomDoc(5), q)
	Room{}.MapPage(full)
	items := full.Find(selRoomGallery + " .gallery-item")
	require.Equal(t, MaxGalleryItems, items.Length())
	require.True(t, items.First().HasClass("gallery-item-first"))
	require.Equal(t, 1, items.Eq(3).Find("img[data-room-exterior-image-3]").Length())
}

func TestRoomWithoutSelectionMapsNothing(t *testing.T) {
	t.Parallel()
	p := newTestPage(t, KindRoom, `<html><body><h1 data-room-name>x</h1></body></html>`, roomDoc(1), nil)
	Room{}.MapPage(p)
	require.Equal(t, "x", p.Find(selRoomName).Text())
}

func TestSignatureSectionReusesBlocks(t *testing.T) {
	t.Parallel()
	item := `<div class="about-content"><div class="about-image"><img src="old.jpg" alt=""></div><p class="about-description">old</p></div>`
	markup := `<html><body><div data-homepage-customfields-pages-index-sections-signature-items>` +
		item + item + item + `</div></body></html>`
	d := data.Document{"homepage": map[string]any{"customFields": map[string]any{"pages": map[string]any{"index": map[string]any{
		"sections": []any{map[string]any{"signature": map[string]any{"images": []any{
			map[string]any{"url": "new.jpg", "isSelected": true, "description": "거실"},
		}}}},
	}}}}}
	p := newTestPage(t, KindIndex, markup, d, nil)

	require.True(t, Index{}.MapSection(p, "signature"))
	blocks := p.Find(".about-content")
	require.Equal(t, 1, blocks.Length())
	require.Equal(t, "new.jpg", blocks.Find("img").AttrOr("src", ""))
	require.Equal(t, "거실", blocks.Find("img").AttrOr("alt", ""))
	require.Equal(t, "거실", blocks.Find(".about-description").Text())

	require.False(t, Index{}.MapSection(p, "unknown"))
}

func TestFacilityExperienceGrid(t *testing.T) {
	t.Parallel()
	markup := `<html><body><section class="experience-section"><div class="grid gap-8 md:grid-cols-2 lg:grid-cols-3">
<div data-features-section><div data-facility-experience-features></div></div>
<div data-additional-info-section><div data-facility-experience-additional-info></div></div>
<div data-benefits-section><div data-facility-experience-benefits></div></div>
</div></section></body></html>`
	d := data.Document{
		"property": map[string]any{"facilities": []any{map[string]any{"id": "f1", "name": "수영장"}}},
		"homepage": map[string]any{"customFields": map[string]any{"pages": map[string]any{"facility": []any{
			map[string]any{"id": "f1", "sections": []any{map[string]any{"experience": map[string]any{
				"features": []any{map[string]any{"title": "온수", "description": "사계절"}},
				"benefits": []any{map[string]any{"title": " ", "description": ""}},
			}}}},
		}}}},
	}
	p := newTestPage(t, KindFacility, markup, d, nil)
	Facility{}.MapPage(p)

	require.False(t, p.Find("[data-features-section]").HasClass(mapper.HiddenClass))
	require.True(t, p.Find("[data-additional-info-section]").HasClass(mapper.HiddenClass))
	require.True(t, p.Find("[data-benefits-section]").HasClass(mapper.HiddenClass))
	require.Equal(t, "grid gap-8 grid-cols-1", p.Find(".experience-section .grid").AttrOr("class", ""))
	require.Contains(t, p.Find("[data-facility-experience-features]").Text(), "온수")
}

func TestHeaderFooterMapping(t *testing.T) {
	t.Parallel()
	markup := `<html><head><title></title></head><body>
<header><span class="logo-text"></span><img data-logo>
<ul><li data-gnb="2"><ul class="subMenu"></ul></li><li data-gnb="3"><ul class="subMenu"></ul></li></ul>
<div id="mobile-spaces-items"></div><div id="mobile-specials-items"></div>
<button data-fullscreen-menu></button></header>
<footer><p data-footer-representative-name></p><p data-footer-contact-phone></p><p data-footer-copyright></p>
<a data-homepage-sociallinks-facebook></a><a data-homepage-sociallinks-instagram></a>
<a data-property-gpension-id href="#">book</a></footer></body></html>`
	d := data.Document{
		"property": map[string]any{
			"name":              "여유채",
			"contactPhone":      "031-123-4567",
			"realtimeBookingId": "https://booking.example/1",
			"businessInfo":      map[string]any{"representativeName": "홍길동"},
			"facilities":        []any{map[string]any{"name": ""}},
		},
		"rooms": []any{map[string]any{"id": "r1", "name": "별채"}, map[string]any{"id": "r2", "name": "안채"}},
		"homepage": map[string]any{
			"images":      []any{map[string]any{"logo": []any{map[string]any{"url": "logo.png", "isSelected": true}}}},
			"socialLinks": map[string]any{"instagram": "https://instagram.example/y"},
		},
	}
	p := newTestPage(t, KindRoom, markup, d, url.Values{"id": {"r2"}})
	HeaderFooter{}.MapPage(p)

	require.Equal(t, "여유채", p.Find(".logo-text").Text())
	require.Equal(t, "logo.png", p.Find("[data-logo]").AttrOr("src", ""))

	links := p.Find(`[data-gnb="2"] .subMenu a`)
	require.Equal(t, 2, links.Length())
	require.Equal(t, "room.html?id=r1", links.Eq(0).AttrOr("href", ""))
	require.True(t, links.Eq(1).HasClass("active"))
	require.Equal(t, "시설1", p.Find(`[data-gnb="3"] .subMenu a`).Text())
	require.Equal(t, 2, p.Find("#mobile-spaces-items button").Length())
	require.Contains(t, p.Find("[data-fullscreen-menu]").AttrOr(MenuDataAttr, ""), `"readyAttempts":10`)

	require.Equal(t, "대표 : 홍길동", p.Find("[data-footer-representative-name]").Text())
	require.Equal(t, "전화번호 : 031-123-4567", p.Find("[data-footer-contact-phone]").Text())
	require.Equal(t, "© 2026 신비서. All rights reserved.", p.Find("[data-footer-copyright] a").Text())

	fb := p.Find("[data-homepage-sociallinks-facebook]")
	require.True(t, fb.HasClass(hiddenSocialLink))
	require.Equal(t, "none", mapper.StyleValue(fb, "display"))
	ig := p.Find("[data-homepage-sociallinks-instagram]")
	require.Equal(t, "https://instagram.example/y", ig.AttrOr("href", ""))
	require.Equal(t, "flex", mapper.StyleValue(ig, "display"))

	book := p.Find("[data-property-gpension-id]")
	require.Equal(t, "https://booking.example/1", book.AttrOr(BookingURLAttr, ""))
	require.Equal(t, "https://booking.example/1", book.AttrOr("href", ""))
	require.Equal(t, "_blank", book.AttrOr("target", ""))

	require.True(t, HeaderFooter{}.MapSection(p, "logo"))
	require.False(t, HeaderFooter{}.MapSection(p, "hero"))
}

func TestDirectionsMapConfig(t *testing.T) {
	t.Parallel()
	p := newTestPage(t, KindDirections, `<html><body></body></html>`, data.Document{"property": map[string]any{
		"name": "여유채", "address": "가평군 1", "latitude": 37.5, "longitude": 127.1,
	}}, nil)

	cfg, ok := BuildMapConfig(p)
	require.True(t, ok)
	require.Equal(t, 5, cfg.Level)
	require.Equal(t, "https://map.kakao.com/?q="+url.QueryEscape("가평군 1"), cfg.LinkURL)
	require.Equal(t, "클릭하면 카카오맵으로 이동", cfg.InfoHint)

	noCoords := newTestPage(t, KindDirections, `<html><body></body></html>`, data.Document{"property": map[string]any{}}, nil)
	_, ok = BuildMapConfig(noCoords)
	require.False(t, ok)
	require.Equal(t, "https://map.kakao.com/?q="+url.QueryEscape("선택한 위치"), KakaoMapURL(noCoords))
}
