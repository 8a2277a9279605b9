package pages

import (
	"html/template"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/textutil"
)

const (
	mainSections = "homepage.customFields.pages.main.sections.0"

	selMainAboutItems = "[data-homepage-customfields-pages-main-sections-about-items]"
	selMainHeroImage  = "[data-homepage-customfields-pages-main-sections-0-hero-images-0-url]"
	selMainWave       = "[data-property-exterior-images-0-url]"

	aboutImageClass = "w-[500px] md:w-[700px] lg:w-[900px] h-80 md:h-96 lg:h-[400px] object-cover"
)

// Main maps the property introduction page.
type Main struct{}

// MapPage runs about, hero, wave background and meta updates.
func (Main) MapPage(p *mapper.Page) {
	m := Main{}
	p.Run("about", func() { m.mapAbout(p) })
	p.Run("hero", func() { m.mapHero(p) })
	p.Run("wave", func() { m.mapWave(p) })
	p.Run("meta", p.UpdateMetaTags)
	p.Run("favicon", p.UpdateFavicon)
}

// MapSection re-runs one builder section.
func (m Main) MapSection(p *mapper.Page, section string) bool {
	switch section {
	case "hero":
		p.Run("hero", func() { m.mapHero(p) })
	case "about":
		p.Run("about", func() { m.mapAbout(p) })
	default:
		return false
	}
	return true
}

type aboutBlock struct {
	First       bool
	Image       imageView
	Description template.HTML
}

func (Main) mapAbout(p *mapper.Page) {
	container := p.Find(selMainAboutItems).First()
	if container.Length() == 0 {
		return
	}
	container.Empty()

	items := data.Maps(p.Data.Get(mainSections + ".about"))
	if len(items) == 0 {
		items = []map[string]any{{"description": p.T(keyAboutDescription)}}
	}

	for i, item := range items {
		title := data.String(item["title"])
		alt := textutil.FirstNonEmpty(title, p.T(keyAboutAlt))
		block := aboutBlock{
			First:       i == 0,
			Image:       placeholderImage(alt, aboutImageClass),
			Description: template.HTML(textutil.WithLineBreaks(data.String(item["description"]))),
		}
		if img, ok := images.First(images.FromRecords(item["images"]), ""); ok {
			block.Image = imageView{
				URL:   img.URL,
				Alt:   textutil.FirstNonEmpty(img.Description, title, p.T(keyAboutAlt)),
				Class: aboutImageClass,
			}
		}
		container.AppendHtml(render(p, "about-block", block))
	}
}

func (Main) mapHero(p *mapper.Page) {
	recs := images.FromRecords(p.Data.Get(mainSections + ".hero.images"))
	p.SetImageOrPlaceholder(selMainHeroImage, recs, p.T(keyHeroAlt))
}

func (Main) mapWave(p *mapper.Page) {
	if p.Data.Map("property") == nil {
		return
	}
	bg := p.Find(selMainWave).First()
	if bg.Length() == 0 {
		return
	}
	img, _ := images.First(images.FromRecords(p.Data.Get("property.images.0.exterior")), "")
	mapper.SetBackground(bg, img.URL)
}
