package mapper

import (
	"strings"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/format"
	"github.com/sinbibook/yeoyoochae/internal/images"
)

// Message keys for meta and business information.
const (
	KeyEcommerceLabel = "label.ecommerce_registration"
	KeyKeywordPension = "keyword.pension_suffix"
	KeyKeywordLodging = "keyword.lodging_suffix"
	KeyKeywordMood    = "keyword.mood"
	KeyKeywordNature  = "keyword.nature"
)

// SEO selectors used by every page template.
const (
	SelSEOTitle       = "[data-homepage-seo-title]"
	SelSEODescription = "[data-homepage-seo-description]"
	SelSEOKeywords    = "[data-homepage-seo-keywords]"
	SelFavicon        = "[data-homepage-favicon]"
)

// UpdateFavicon points the favicon link at the first selected logo.
func (p *Page) UpdateFavicon() {
	if u := images.LogoURL(p.Data); u != "" {
		p.Find(SelFavicon).SetAttr("href", u)
	}
}

// MapEcommerceRegistration writes the mail-order business registration line.
func (p *Page) MapEcommerceRegistration() {
	n := strings.TrimSpace(p.Data.String("property.businessInfo.eCommerceRegistrationNumber"))
	if n == "" {
		return
	}
	p.SetText(".ecommerce-registration", format.Labelled(p.T(KeyEcommerceLabel), n))
}

// SetTitle writes the document title.
func (p *Page) SetTitle(title string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	p.Find("title").First().SetText(title)
}

// SetMeta writes the content of meta[name=<name>].
func (p *Page) SetMeta(name, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	p.Find(`meta[name="` + name + `"]`).SetAttr("content", content)
}

// UpdateMetaTags derives title, description and keywords from the property.
func (p *Page) UpdateMetaTags() {
	prop := p.Data.Map("property")
	if prop == nil {
		return
	}
	name := data.String(prop["name"])
	if sub := data.String(prop["subtitle"]); sub != "" {
		p.SetTitle(name + " - " + sub)
	}
	p.SetMeta("description", data.String(prop["description"]))

	city := data.String(data.Get(prop, "city.name", nil))
	province := data.String(data.Get(prop, "province.name", nil))
	if data.Map(prop["city"]) != nil && data.Map(prop["province"]) != nil {
		p.SetMeta("keywords", strings.Join([]string{
			city + p.T(KeyKeywordPension),
			province + p.T(KeyKeywordLodging),
			name,
			p.T(KeyKeywordMood),
			p.T(KeyKeywordNature),
		}, ", "))
	}
}

// MapSEOTags applies homepage.seo to the [data-homepage-seo-*] hooks.
// Reports whether homepage.seo exists.
func (p *Page) MapSEOTags() bool {
	return p.ApplySEO(p.Data.Map("homepage.seo"))
}

// ApplySEO writes an seo object's title, description and keywords.
func (p *Page) ApplySEO(seo map[string]any) bool {
	if seo == nil {
		return false
	}
	if t := data.String(seo["title"]); t != "" {
		p.Find(SelSEOTitle).SetText(t)
	}
	if d := data.String(seo["description"]); d != "" {
		p.Find(SelSEODescription).SetAttr("content", d)
	}
	if k := data.String(seo["keywords"]); k != "" {
		p.Find(SelSEOKeywords).SetAttr("content", k)
	}
	return true
}

// MapAddress writes the property address into every address hook.
func (p *Page) MapAddress() {
	if a := p.Data.String("property.address"); a != "" {
		p.SetText("[data-property-address]", a)
	}
}

// MapPhone writes the business phone, or the contact phone when the business
// phone is blank.
func (p *Page) MapPhone() {
	phone := p.Data.String("property.businessInfo.businessPhone")
	if strings.TrimSpace(phone) == "" {
		phone = p.Data.String("property.contactPhone")
	}
	if strings.TrimSpace(phone) != "" {
		p.SetText("[data-property-phone]", phone)
	}
}
