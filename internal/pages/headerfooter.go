package pages

import (
	"encoding/json"
	"strings"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/format"
	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/nav"
	"github.com/sinbibook/yeoyoochae/internal/retry"
)

const (
	selLogoText         = ".logo-text"
	selPropertyName     = "[data-property-name]"
	selLogoImage        = "[data-logo]"
	selRoomSubMenu      = `[data-gnb="2"] .subMenu`
	selFacilitySubMenu  = `[data-gnb="3"] .subMenu`
	selMobileRooms      = "#mobile-spaces-items"
	selMobileFacilities = "#mobile-specials-items"
	selFullscreenMenu   = "[data-fullscreen-menu]"
	selFooterRep        = "[data-footer-representative-name]"
	selFooterPhone      = "[data-footer-contact-phone]"
	selFooterAddress    = "[data-footer-contact-address]"
	selFooterBusiness   = "[data-footer-business-number]"
	selFooterEcommerce  = "[data-footer-ecommerce-registration]"
	selFooterCopyright  = "[data-footer-copyright]"
	selBookingButton    = "[data-property-gpension-id]"
	hiddenSocialLink    = "hidden-social-link"

	// MenuDataAttr carries the fullscreen menu entries for the client script.
	MenuDataAttr = "data-menu"
	// BookingURLAttr holds the realtime booking target on the booking button.
	BookingURLAttr = "data-booking-url"
)

// SocialPlatforms are the footer links, in display order.
var SocialPlatforms = []string{"facebook", "instagram", "blog"}

// HeaderFooter maps the shared chrome every page carries.
type HeaderFooter struct{}

// MapPage maps the header first, then the footer.
func (h HeaderFooter) MapPage(p *mapper.Page) {
	h.mapHeader(p)
	h.mapFooter(p)
}

// MapSection handles the logo section; other sections leave the chrome alone.
func (h HeaderFooter) MapSection(p *mapper.Page, section string) bool {
	if section != "logo" {
		return false
	}
	p.Run("logo", func() { h.mapLogo(p) })
	p.Run("favicon", p.UpdateFavicon)
	return true
}

func (h HeaderFooter) mapHeader(p *mapper.Page) {
	p.Run("logo", func() { h.mapLogo(p) })
	p.Run("room menu", func() { h.mapRoomMenu(p) })
	p.Run("facility menu", func() { h.mapFacilityMenu(p) })
	p.Run("seo", func() {
		if !p.MapSEOTags() {
			p.UpdateMetaTags()
		}
	})
	p.Run("fullscreen menu", func() { h.mapFullscreenMenu(p) })
}

func (h HeaderFooter) mapFooter(p *mapper.Page) {
	p.Run("business info", func() { h.mapBusinessInfo(p) })
	p.Run("copyright", func() { h.mapCopyright(p) })
	p.Run("social links", func() { h.mapSocialLinks(p) })
	p.Run("booking", func() { h.mapBookingButton(p) })
}

func (HeaderFooter) mapLogo(p *mapper.Page) {
	if p.Data.Map("property") == nil {
		return
	}
	name := p.PropertyName()
	p.Find(selLogoText).First().SetText(name)
	p.SetText(selPropertyName, name)

	if u := images.LogoURL(p.Data); u != "" {
		logo := p.Find(selLogoImage)
		logo.SetAttr("src", u)
		logo.SetAttr("alt", name)
	}
}

// menuItems returns the room and facility menus for the current page.
func menuItems(p *mapper.Page) (rooms, facilities []nav.Item) {
	cur := nav.CurrentFrom(p.Kind, p.Query)
	rooms = nav.RoomMenu(data.Maps(p.Data.Get("rooms")), p.RoomName, cur)
	facilities = nav.FacilityMenu(data.Maps(p.Data.Get("property.facilities")), func(i int) string {
		return p.Tf(keyFacilityN, i+1)
	}, cur)
	return rooms, facilities
}

func (HeaderFooter) mapRoomMenu(p *mapper.Page) {
	rooms, _ := menuItems(p)
	p.SetHTML(selRoomSubMenu, render(p, "menu-links", rooms))
	p.Find(selMobileRooms).First().SetHtml(render(p, "menu-buttons", rooms))
}

func (HeaderFooter) mapFacilityMenu(p *mapper.Page) {
	_, facilities := menuItems(p)
	p.SetHTML(selFacilitySubMenu, render(p, "menu-links", facilities))
	p.Find(selMobileFacilities).First().SetHtml(render(p, "menu-buttons", facilities))
}

type fullscreenMenu struct {
	Rooms         []nav.Item `json:"rooms"`
	Facilities    []nav.Item `json:"facilities"`
	ReadyAttempts int        `json:"readyAttempts"`
	ReadyDelayMS  int64      `json:"readyDelayMs"`
}

func (HeaderFooter) mapFullscreenMenu(p *mapper.Page) {
	el := p.Find(selFullscreenMenu).First()
	if el.Length() == 0 {
		return
	}
	rooms, facilities := menuItems(p)
	raw, err := json.Marshal(fullscreenMenu{
		Rooms:         rooms,
		Facilities:    facilities,
		ReadyAttempts: retry.FullscreenMenu.Attempts,
		ReadyDelayMS:  retry.FullscreenMenu.Interval.Milliseconds(),
	})
	if err != nil {
		return
	}
	el.SetAttr(MenuDataAttr, string(raw))
}

// labelled writes "label : value" into every match when value is non-blank.
func labelled(p *mapper.Page, selector, labelKey, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	p.SetText(selector, format.Labelled(p.T(labelKey), value))
}

func (HeaderFooter) mapBusinessInfo(p *mapper.Page) {
	prop := p.Data.Map("property")
	if prop == nil {
		return
	}
	biz := data.Map(prop["businessInfo"])
	labelled(p, selFooterRep, keyRepresentative, data.String(biz["representativeName"]))
	labelled(p, selFooterPhone, keyPhone, data.String(prop["contactPhone"]))
	labelled(p, selFooterAddress, keyAddress, data.String(prop["address"]))
	labelled(p, selFooterBusiness, keyBusinessNumber, data.String(biz["businessNumber"]))
	labelled(p, selFooterEcommerce, mapper.KeyEcommerceLabel, data.String(biz["eCommerceRegistrationNumber"]))
}

func (HeaderFooter) mapCopyright(p *mapper.Page) {
	p.SetHTML(selFooterCopyright, render(p, "copyright", p.Tf(keyCopyright, p.Year())))
}

// mapSocialLinks shows each platform link that has a URL and force-hides
// the rest.
func (HeaderFooter) mapSocialLinks(p *mapper.Page) {
	if p.Data.Map("homepage") == nil {
		return
	}
	links := p.Data.Map("homepage.socialLinks")
	for _, platform := range SocialPlatforms {
		el := p.Find("[data-homepage-sociallinks-" + platform + "]")
		if el.Length() == 0 {
			continue
		}
		if u := strings.TrimSpace(data.String(links[platform])); u != "" {
			el.SetAttr("href", u)
			mapper.SetStyle(el, "display", "flex")
			el.RemoveClass(hiddenSocialLink)
			continue
		}
		mapper.SetStyle(el, "display", "none")
		el.AddClass(hiddenSocialLink)
	}
}

func (HeaderFooter) mapBookingButton(p *mapper.Page) {
	u := strings.TrimSpace(p.Data.String("property.realtimeBookingId"))
	if u == "" {
		return
	}
	btn := p.Find(selBookingButton).First()
	btn.SetAttr(BookingURLAttr, u)
	if btn.Is("a") {
		btn.SetAttr("href", u)
		btn.SetAttr("target", "_blank")
		btn.SetAttr("rel", "noopener")
	}
}
