package mapper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sinbibook/yeoyoochae/internal/images"
)

// Message keys shared by every page.
const (
	KeyImageMissingAlt = "placeholder.image_alt"
	KeyPropertyName    = "placeholder.property_name"
	KeyRoomName        = "placeholder.room_name"
)

// HiddenClass toggles visibility of whole sections.
const HiddenClass = "hidden"

// SetText writes text into every match. Returns the number of matches.
func (p *Page) SetText(selector, text string) int {
	s := p.Find(selector)
	s.SetText(text)
	return s.Length()
}

// SetHTML writes already-escaped markup into every match.
func (p *Page) SetHTML(selector, markup string) int {
	s := p.Find(selector)
	s.SetHtml(markup)
	return s.Length()
}

// SetImage points an <img> at img, or at the placeholder when ok is false.
// alt is used when the image has no description.
func (p *Page) SetImage(s *goquery.Selection, img images.Image, ok bool, alt string) {
	if s.Length() == 0 {
		return
	}
	if !ok {
		p.ApplyPlaceholder(s)
		return
	}
	s.SetAttr("src", img.URL)
	s.SetAttr("alt", firstNonBlank(img.Description, alt))
	s.RemoveClass(images.PlaceholderClass)
	SetStyle(s, "opacity", "1")
}

// SetImageOrPlaceholder applies the first eligible record of recs.
func (p *Page) SetImageOrPlaceholder(selector string, recs []images.Image, alt string) {
	img, ok := images.First(recs, "")
	p.SetImage(p.Find(selector), img, ok, alt)
}

// ApplyPlaceholder marks an <img> as an empty placeholder.
func (p *Page) ApplyPlaceholder(s *goquery.Selection) {
	s.SetAttr("src", images.EmptyImageWithIcon)
	s.SetAttr("alt", p.T(KeyImageMissingAlt))
	s.AddClass(images.PlaceholderClass)
	SetStyle(s, "opacity", "1")
}

// SetBackground replaces the background-image of every match. An empty url
// clears the image and applies the placeholder class.
func SetBackground(s *goquery.Selection, url string) {
	if strings.TrimSpace(url) == "" {
		SetStyle(s, "background-image", "none")
		s.AddClass(images.PlaceholderClass)
		return
	}
	SetStyle(s, "background-image", "url('"+cssURL(url)+"')")
	s.RemoveClass(images.PlaceholderClass)
}

// SetBackgroundOrIcon is SetBackground but falls back to the icon placeholder
// image instead of none.
func SetBackgroundOrIcon(s *goquery.Selection, url string) {
	if strings.TrimSpace(url) == "" {
		SetStyle(s, "background-image", "url('"+cssURL(images.EmptyImageWithIcon)+"')")
		s.AddClass(images.PlaceholderClass)
		return
	}
	SetBackground(s, url)
}

// Show removes the hidden class.
func Show(s *goquery.Selection) { s.RemoveClass(HiddenClass) }

// Hide adds the hidden class.
func Hide(s *goquery.Selection) { s.AddClass(HiddenClass) }

// Toggle shows s when visible is true and hides it otherwise.
func Toggle(s *goquery.Selection, visible bool) {
	if visible {
		Show(s)
		return
	}
	Hide(s)
}

func cssURL(u string) string {
	r := strings.NewReplacer(`'`, `%27`, `\`, `%5C`, "\n", "", "\r", "")
	return r.Replace(u)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
