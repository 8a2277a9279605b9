package pages

import (
	"encoding/json"
	"html/template"

	"github.com/PuerkitoBio/goquery"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/textutil"
)

const (
	indexSections = "homepage.customFields.pages.index.sections.0"

	selIndexHeroName        = "#section1 [data-property-name]"
	selIndexHeroDescription = "[data-homepage-customfields-pages-index-sections-0-hero-description]"
	selIndexHeroImages      = "[data-homepage-customfields-pages-index-sections-0-hero-images]"
	selSwiperWrapper        = ".swiper-wrapper"
	selEssenceTitle         = "[data-homepage-customfields-pages-index-sections-0-essence-title]"
	selEssenceDescription   = "[data-homepage-customfields-pages-index-sections-0-essence-description]"
	selAboutPropertyName    = ".about-section [data-property-name]"
	selSignatureItems       = "[data-homepage-customfields-pages-index-sections-signature-items]"
	selClosingTitle         = "[data-homepage-customfields-pages-index-sections-0-closing-title]"
	selClosingDescription   = "[data-homepage-customfields-pages-index-sections-0-closing-description]"
	selClosingBackground    = ".wave-bg-section .bg-cover.bg-center"

	// SwiperConfigAttr carries the hero carousel settings for the client script.
	SwiperConfigAttr = "data-swiper-config"
)

// Hero carousel timing.
const (
	heroSpeed    = 800
	heroAutoplay = 4000
)

// SwiperConfig is serialized onto the hero wrapper.
type SwiperConfig struct {
	Effect   string `json:"effect"`
	Speed    int    `json:"speed"`
	Autoplay int    `json:"autoplay,omitempty"` // delay in ms; 0 disables
	Loop     bool   `json:"loop"`
	Slides   int    `json:"slides"`
}

// HeroSwiperConfig returns the carousel settings for a count of real slides.
// A lone slide or the placeholder neither autoplays nor loops.
func HeroSwiperConfig(realSlides int) SwiperConfig {
	cfg := SwiperConfig{Effect: "fade", Speed: heroSpeed, Slides: realSlides}
	if realSlides == 0 {
		cfg.Slides = 1
	}
	if realSlides >= 2 {
		cfg.Autoplay = heroAutoplay
		cfg.Loop = true
	}
	return cfg
}

// Index maps the landing page.
type Index struct{}

// MapPage runs hero, essence, about, closing and SEO in that order.
func (Index) MapPage(p *mapper.Page) {
	ix := Index{}
	p.Run("hero", func() { ix.mapHero(p) })
	p.Run("essence", func() { ix.mapEssence(p) })
	p.Run("about", func() { ix.mapAbout(p, false) })
	p.Run("closing", func() { ix.mapClosing(p) })
	p.Run("seo", func() { ix.mapSEO(p) })
}

// MapSection re-runs one builder section against the current DOM.
func (ix Index) MapSection(p *mapper.Page, section string) bool {
	switch section {
	case "hero":
		p.Run("hero", func() { ix.mapHero(p) })
	case "essence":
		p.Run("essence", func() { ix.mapEssence(p) })
	case "signature":
		p.Run("signature", func() { ix.mapSignature(p, true) })
	case "closing":
		p.Run("closing", func() { ix.mapClosing(p) })
	default:
		return false
	}
	return true
}

func (Index) mapHero(p *mapper.Page) {
	if name := p.PropertyName(); name != "" {
		p.Find(selIndexHeroName).First().SetText(name)
	}

	hero := p.Data.Map(indexSections + ".hero")
	if hero != nil {
		desc := data.String(hero["description"])
		if desc == "" {
			desc = p.T(keyHeroDescription)
		}
		p.Find(selIndexHeroDescription).First().SetHtml(textutil.WithLineBreaks(desc))
	}

	wrapper := p.Find(selIndexHeroImages).First()
	if wrapper.Length() == 0 {
		wrapper = p.Find(selSwiperWrapper).First()
	}
	if wrapper.Length() == 0 {
		return
	}
	wrapper.Empty()

	slides := images.Selected(images.FromRecords(data.Get(hero, "images", nil)), "")
	for i, img := range slides {
		alt := img.Description
		if alt == "" {
			alt = p.Tf(keyHeroImageN, i+1)
		}
		wrapper.AppendHtml(render(p, "hero-slide", imageView{URL: img.URL, Alt: alt}))
	}
	if len(slides) == 0 {
		wrapper.AppendHtml(render(p, "hero-placeholder", imageView{
			Src: template.URL(images.EmptyImageSVG),
			Alt: p.T(keyHeroAlt),
		}))
	}

	cfg, _ := json.Marshal(HeroSwiperConfig(len(slides)))
	wrapper.SetAttr(SwiperConfigAttr, string(cfg))
}

func (Index) mapEssence(p *mapper.Page) {
	essence := p.Data.Map(indexSections + ".essence")
	if essence == nil {
		return
	}
	p.Find(selEssenceTitle).First().SetText(textutil.FirstNonEmpty(data.String(essence["title"]), p.T(keyEssenceTitle)))
	p.Find(selEssenceDescription).First().SetHtml(textutil.WithLineBreaks(
		textutil.FirstNonEmpty(data.String(essence["description"]), p.T(keyEssenceDescription)),
	))
}

func (ix Index) mapAbout(p *mapper.Page, reuse bool) {
	if name := p.PropertyName(); name != "" {
		p.Find(selAboutPropertyName).SetText(name)
	}
	ix.mapSignature(p, reuse)
}

// signatureItem is one caption block under the about section.
type signatureItem struct {
	Image       imageView
	Description template.HTML
}

func (Index) signatureItems(p *mapper.Page) []signatureItem {
	caption := func(img images.Image) string {
		if img.DescriptionSet {
			return img.Description
		}
		return p.T(keySignatureCaption)
	}

	var items []signatureItem
	for _, img := range images.Selected(images.FromRecords(p.Data.Get(indexSections+".signature.images")), "") {
		alt := p.T(keySignatureAlt)
		if img.DescriptionSet {
			alt = img.Description
		}
		items = append(items, signatureItem{
			Image:       imageView{URL: img.URL, Alt: alt},
			Description: template.HTML(textutil.WithLineBreaks(caption(img))),
		})
	}
	if len(items) == 0 {
		items = append(items, signatureItem{
			Image:       placeholderImage(p.T(keySignatureAlt), ""),
			Description: template.HTML(textutil.WithLineBreaks(p.T(keySignatureCaption))),
		})
	}
	return items
}

// mapSignature rebuilds the signature blocks. With reuse set, existing blocks
// are updated in place by index, trailing blocks are removed and missing ones
// appended.
func (ix Index) mapSignature(p *mapper.Page, reuse bool) {
	container := p.Find(selSignatureItems).First()
	if container.Length() == 0 {
		return
	}
	items := ix.signatureItems(p)
	if !reuse {
		container.Empty()
	}

	existing := container.Find(".about-content")
	for i, it := range items {
		if i < existing.Length() {
			updateSignatureItem(existing.Eq(i), it)
			continue
		}
		container.AppendHtml(render(p, "signature-item", it))
	}
	if existing.Length() > len(items) {
		existing.Slice(len(items), existing.Length()).Remove()
	}
}

func updateSignatureItem(item *goquery.Selection, it signatureItem) {
	img := item.Find(".about-image img").First()
	if it.Image.Placeholder {
		img.SetAttr("src", string(it.Image.Src))
		img.AddClass(images.PlaceholderClass)
	} else {
		img.SetAttr("src", it.Image.URL)
		img.RemoveClass(images.PlaceholderClass)
	}
	img.SetAttr("alt", it.Image.Alt)
	item.Find(".about-description").First().SetHtml(string(it.Description))
}

func (Index) mapClosing(p *mapper.Page) {
	closing := p.Data.Map(indexSections + ".closing")
	if closing != nil {
		p.Find(selClosingTitle).First().SetText(textutil.FirstNonEmpty(data.String(closing["title"]), p.T(keyClosingTitle)))
		p.Find(selClosingDescription).First().SetHtml(textutil.WithLineBreaks(
			textutil.FirstNonEmpty(data.String(closing["description"]), p.T(keyClosingDescription)),
		))
	}

	bg := p.Find(selClosingBackground).First()
	if bg.Length() == 0 {
		return
	}
	img, _ := images.First(images.FromRecords(data.Get(closing, "images", nil)), "")
	mapper.SetBackground(bg, img.URL)
}

// mapSEO layers the property title under homepage.seo, which sits under the
// index page's own seo block.
func (Index) mapSEO(p *mapper.Page) {
	if name := p.PropertyName(); name != "" {
		if sub := p.Data.String("property.subtitle"); sub != "" {
			p.SetTitle(name + " - " + sub)
		} else {
			p.SetTitle(name)
		}
	}
	p.MapSEOTags()
	p.ApplySEO(p.Data.Map("homepage.customFields.pages.index.seo"))
	p.UpdateFavicon()
}
