package pages

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/textutil"
)

const (
	selFacilityName        = "[data-facility-name]"
	selFacilityDescription = "[data-facility-description]"
	selFacilityUsageGuide  = "[data-facility-usage-guide]"
	selFacilityMainImage   = "[data-facility-main-image]"
	selFacilityHeroImage   = "[data-facility-hero-image]"
	selFacilityWave        = "[data-facility-wave-background]"
	selFacilityGallery     = "#facility-gallery-container"
	selExperienceSection   = ".experience-section"
	selExperienceGrid      = ".experience-section .grid"
	selPageTitle           = "#page-title"
)

// ExperienceBlock is one of the three facility experience lists.
type ExperienceBlock struct {
	Field     string // key under sections[0].experience
	Container string
	Section   string
}

// ExperienceBlocks in grid order.
var ExperienceBlocks = []ExperienceBlock{
	{Field: "features", Container: "[data-facility-experience-features]", Section: "[data-features-section]"},
	{Field: "additionalInfos", Container: "[data-facility-experience-additional-info]", Section: "[data-additional-info-section]"},
	{Field: "benefits", Container: "[data-facility-experience-benefits]", Section: "[data-benefits-section]"},
}

var gridColsPattern = regexp.MustCompile(`^(?:md:|lg:)?grid-cols-\d+$`)

// Facility maps a facility detail page. The first facility is used when the
// query selects none.
type Facility struct{}

// MapPage runs the facility operations in order.
func (Facility) MapPage(p *mapper.Page) {
	e, ok := p.Facility()
	if !ok {
		return
	}
	f := Facility{}
	fac := e.Record
	p.Run("title", func() { f.mapTitle(p, fac) })
	p.Run("hero image", func() { f.mapHeroImage(p, fac) })
	p.Run("wave", func() { f.mapWave(p, fac) })
	p.Run("basic", func() { f.mapBasicInfo(p, fac) })
	p.Run("experience", func() { f.mapExperience(p, fac) })
	p.Run("meta", p.UpdateMetaTags)
	p.Run("ecommerce", p.MapEcommerceRegistration)
	p.Run("favicon", p.UpdateFavicon)
}

// MapSection re-runs the builder-driven parts of the page for any section.
func (f Facility) MapSection(p *mapper.Page, _ string) bool {
	e, ok := p.Facility()
	if !ok {
		return true
	}
	p.Run("basic", func() { f.mapBasicInfo(p, e.Record) })
	p.Run("experience", func() { f.mapExperience(p, e.Record) })
	return true
}

// facilityPage returns sections[0] of the builder record for a facility id.
func facilityPage(p *mapper.Page, id string) map[string]any {
	for _, fp := range data.Maps(p.Data.Get("homepage.customFields.pages.facility")) {
		if data.String(fp["id"]) == id {
			return data.Map(data.Get(fp, "sections.0", nil))
		}
	}
	return nil
}

func facilityImages(fac map[string]any) []images.Image {
	return images.Selected(images.FromRecords(fac["images"]), "")
}

func (Facility) mapTitle(p *mapper.Page, fac map[string]any) {
	title := data.String(fac["name"]) + " - " + p.PropertyName()
	p.SetTitle(title)
	p.Find(selPageTitle).SetText(title)
}

func (Facility) mapHeroImage(p *mapper.Page, fac map[string]any) {
	img, ok := images.First(facilityImages(fac), "")
	alt := textutil.FirstNonEmpty(data.String(fac["name"]), p.T(keyFacilityAlt))
	p.SetImage(p.Find(selFacilityHeroImage).First(), img, ok, alt)
}

// FacilityWaveURL is the last eligible facility image, else the first
// property exterior image, else "".
func FacilityWaveURL(p *mapper.Page, fac map[string]any) string {
	if img, ok := images.Last(facilityImages(fac), ""); ok {
		return img.URL
	}
	if img, ok := images.First(p.PropertyImages(mapper.PropertyExterior), ""); ok {
		return img.URL
	}
	return ""
}

func (Facility) mapWave(p *mapper.Page, fac map[string]any) {
	bg := p.Find(selFacilityWave).First()
	if bg.Length() == 0 {
		return
	}
	mapper.SetBackgroundOrIcon(bg, FacilityWaveURL(p, fac))
}

func (f Facility) mapBasicInfo(p *mapper.Page, fac map[string]any) {
	if name := data.String(fac["name"]); name != "" {
		p.Find(selFacilityName).First().SetText(name)
	}

	about := data.String(data.Get(facilityPage(p, data.String(fac["id"])), "about.title", nil))
	p.Find(selFacilityDescription).First().SetHtml(textutil.WithLineBreaks(about))

	guide := data.String(fac["usageGuide"])
	p.Find(selFacilityUsageGuide).First().SetHtml(textutil.Paragraphs(guide, "ko-body"))

	f.mapMainImage(p, fac)
	f.mapGallery(p, fac)
}

// mapMainImage uses the second eligible image, else the first.
func (Facility) mapMainImage(p *mapper.Page, fac map[string]any) {
	el := p.Find(selFacilityMainImage).First()
	if el.Length() == 0 {
		return
	}
	img, ok := images.Nth(facilityImages(fac), 1, 0)
	p.SetImage(el, img, ok, data.String(fac["name"]))
}

type facilityGalleryImage struct {
	URL         string
	Title       string
	Description string
}

func (Facility) mapGallery(p *mapper.Page, fac map[string]any) {
	container := p.Find(selFacilityGallery).First()
	if container.Length() == 0 {
		return
	}
	imgs := facilityImages(fac)
	if len(imgs) == 0 {
		container.SetHtml(render(p, "gallery-fallback", p.T(keyGalleryUnavailable)))
		return
	}
	name := data.String(fac["name"])
	list := make([]facilityGalleryImage, 0, len(imgs))
	for _, img := range imgs {
		list = append(list, facilityGalleryImage{
			URL:         img.URL,
			Title:       textutil.FirstNonEmpty(img.Description, name),
			Description: img.Description,
		})
	}
	container.SetHtml(render(p, "facility-gallery", list))
}

type experienceItem struct {
	Title       string
	Description template.HTML
}

// ExperienceItems keeps entries with a non-blank title or description.
func ExperienceItems(v any) []experienceItem {
	var out []experienceItem
	for _, m := range data.Maps(v) {
		title := data.String(m["title"])
		desc := data.String(m["description"])
		if strings.TrimSpace(title) == "" && strings.TrimSpace(desc) == "" {
			continue
		}
		out = append(out, experienceItem{Title: title, Description: template.HTML(textutil.WithLineBreaks(desc))})
	}
	return out
}

func (f Facility) mapExperience(p *mapper.Page, fac map[string]any) {
	exp := data.Map(data.Get(facilityPage(p, data.String(fac["id"])), "experience", nil))
	for _, b := range ExperienceBlocks {
		container := p.Find(b.Container).First()
		if container.Length() == 0 {
			continue
		}
		section := p.Find(b.Section).First()
		items := ExperienceItems(exp[b.Field])
		if len(items) > 0 {
			container.SetHtml(render(p, "experience-items", items))
		}
		mapper.Toggle(section, len(items) > 0)
	}
	f.adjustGrid(p)
}

// GridClasses returns the column classes for a count of visible blocks.
func GridClasses(visible int) []string {
	switch {
	case visible <= 0:
		return nil
	case visible == 1:
		return []string{"grid-cols-1"}
	case visible == 2:
		return []string{"grid-cols-1", "md:grid-cols-2"}
	default:
		return []string{"grid-cols-1", "md:grid-cols-2", "lg:grid-cols-3"}
	}
}

// adjustGrid sizes the experience grid to the visible blocks and hides the
// whole region when none are visible.
func (Facility) adjustGrid(p *mapper.Page) {
	grid := p.Find(selExperienceGrid).First()
	if grid.Length() == 0 {
		return
	}
	visible := 0
	for _, b := range ExperienceBlocks {
		s := p.Find(b.Section).First()
		if s.Length() > 0 && !s.HasClass(mapper.HiddenClass) {
			visible++
		}
	}

	stripGridCols(grid)
	region := p.Find(selExperienceSection).First()
	if visible == 0 {
		mapper.SetStyle(region, "display", "none")
		return
	}
	mapper.RemoveStyle(region, "display")
	grid.AddClass(GridClasses(visible)...)
}

func stripGridCols(s *goquery.Selection) {
	var kept []string
	for _, c := range strings.Fields(s.AttrOr("class", "")) {
		if !gridColsPattern.MatchString(c) {
			kept = append(kept, c)
		}
	}
	s.SetAttr("class", strings.Join(kept, " "))
}
