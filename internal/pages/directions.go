package pages

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/retry"
	"github.com/sinbibook/yeoyoochae/internal/textutil"
)

const (
	directionsSections = "homepage.customFields.pages.directions.sections.0"

	selDirectionsHero   = "[data-homepage-customfields-pages-directions-sections-0-hero-images-0-url]"
	selDirectionsCircle = "[data-homepage-customfields-pages-directions-sections-0-hero-images-1-url]"
	selNoticeSection    = "[data-directions-notice-section]"
	selNoticeTitle      = "[data-directions-notice-title]"
	selNoticeDesc       = "[data-directions-notice-description]"
	selKakaoMap         = "#kakao-map"

	// MapConfigAttr carries the map settings for the client map script.
	MapConfigAttr = "data-map-config"

	kakaoMapZoomLevel = 5
	kakaoMapSearchURL = "https://map.kakao.com/?q="
)

// MapConfig is everything the client needs to draw the static property map.
type MapConfig struct {
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	Level         int     `json:"level"`
	Draggable     bool    `json:"draggable"`
	Scrollwheel   bool    `json:"scrollwheel"`
	Zoomable      bool    `json:"zoomable"`
	NoDoubleClick bool    `json:"disableDoubleClick"`
	LinkURL       string  `json:"linkUrl"`
	InfoTitle     string  `json:"infoTitle"`
	InfoHint      string  `json:"infoHint"`
	SDKAttempts   int     `json:"sdkAttempts"`
	SDKIntervalMS int64   `json:"sdkIntervalMs"`
}

// Directions maps the location page.
type Directions struct{}

// MapPage runs the directions operations in order.
func (Directions) MapPage(p *mapper.Page) {
	d := Directions{}
	p.Run("seo", func() { p.MapSEOTags() })
	p.Run("address", p.MapAddress)
	p.Run("phone", p.MapPhone)
	p.Run("hero", func() { d.mapHero(p) })
	p.Run("notice", func() { d.mapNotice(p) })
	p.Run("map", func() { d.mapMap(p) })
	p.Run("meta", p.UpdateMetaTags)
	p.Run("title", func() {
		if name := p.Data.String("property.name"); name != "" {
			p.SetTitle(p.T(keyDirectionsTitle) + " - " + name)
		}
	})
	p.Run("favicon", p.UpdateFavicon)
}

// MapSection re-runs the whole page.
func (d Directions) MapSection(p *mapper.Page, _ string) bool {
	d.MapPage(p)
	return true
}

func (Directions) mapHero(p *mapper.Page) {
	recs := images.FromRecords(p.Data.Get(directionsSections + ".hero.images"))

	img, ok := images.Nth(recs, 0, -1)
	p.SetImage(p.Find(selDirectionsHero).First(), img, ok, p.T(keyDirectionsHeroAlt))

	img, ok = images.Nth(recs, 1, -1)
	p.SetImage(p.Find(selDirectionsCircle).First(), img, ok, p.T(keyDirectionsCircleAlt))
}

func (Directions) mapNotice(p *mapper.Page) {
	section := p.Find(selNoticeSection).First()
	title := p.Find(selNoticeTitle).First()
	desc := p.Find(selNoticeDesc).First()
	if section.Length() == 0 || title.Length() == 0 || desc.Length() == 0 {
		return
	}

	notice := p.Data.Map(directionsSections + ".notice")
	t := strings.TrimSpace(data.String(notice["title"]))
	d := strings.TrimSpace(data.String(notice["description"]))
	has := t != "" || d != ""
	mapper.Toggle(section, has)
	if !has {
		return
	}
	title.SetText(t)
	mapper.Toggle(title, t != "")
	desc.SetHtml(textutil.WithLineBreaks(d))
	mapper.Toggle(desc, d != "")
}

// KakaoMapURL links the external map search for the property.
func KakaoMapURL(p *mapper.Page) string {
	q := textutil.FirstNonEmpty(
		p.Data.String("property.address"),
		p.Data.String("property.name"),
		p.T(keyMapFallbackQuery),
	)
	return kakaoMapSearchURL + url.QueryEscape(q)
}

// BuildMapConfig returns the map settings, or false when the property has no
// coordinates.
func BuildMapConfig(p *mapper.Page) (MapConfig, bool) {
	lat, okLat := data.Float(p.Data.Get("property.latitude"))
	lng, okLng := data.Float(p.Data.Get("property.longitude"))
	if !okLat || !okLng || lat == 0 || lng == 0 {
		return MapConfig{}, false
	}
	return MapConfig{
		Lat:           lat,
		Lng:           lng,
		Level:         kakaoMapZoomLevel,
		NoDoubleClick: true,
		LinkURL:       KakaoMapURL(p),
		InfoTitle:     p.Data.String("property.name"),
		InfoHint:      p.T(keyMapHint),
		SDKAttempts:   retry.MapSDK.Attempts,
		SDKIntervalMS: retry.MapSDK.Interval.Milliseconds(),
	}, true
}

func (Directions) mapMap(p *mapper.Page) {
	el := p.Find(selKakaoMap).First()
	if el.Length() == 0 {
		return
	}
	cfg, ok := BuildMapConfig(p)
	if !ok {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	el.SetAttr(MapConfigAttr, string(raw))
}
