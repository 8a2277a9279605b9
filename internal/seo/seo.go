// Package seo injects structured data into rendered pages.
package seo

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/format"
	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/pages"
)

// Script ids. Re-running the decorator replaces the existing scripts.
const (
	LodgingScriptID    = "lodging-jsonld"
	BreadcrumbScriptID = "breadcrumb-jsonld"
)

// Decorator returns a page decorator that writes the LodgingBusiness script on
// every page and a BreadcrumbList on room and facility pages. baseURL makes
// item URLs absolute; it may be empty.
func Decorator(baseURL string) func(p *mapper.Page) {
	baseURL = strings.TrimRight(baseURL, "/")
	return func(p *mapper.Page) {
		head := p.Doc.Find("head").First()
		if head.Length() == 0 {
			return
		}
		setScript(head, LodgingScriptID, JSON(LodgingBusiness(lodging(p, baseURL))))

		crumbs := breadcrumbs(p, baseURL)
		if len(crumbs) == 0 {
			head.Find("#" + BreadcrumbScriptID).Remove()
			return
		}
		setScript(head, BreadcrumbScriptID, JSON(BreadcrumbList(crumbs)))
	}
}

func lodging(p *mapper.Page, baseURL string) Lodging {
	l := Lodging{
		Name:        p.PropertyName(),
		Description: p.Data.String("property.description"),
		Address:     p.Data.String("property.address"),
		Telephone:   p.Data.String("property.businessInfo.businessPhone"),
		CheckIn:     format.ClockTime(p.Data.String("property.checkin")),
		CheckOut:    format.ClockTime(p.Data.String("property.checkout")),
	}
	if strings.TrimSpace(l.Telephone) == "" {
		l.Telephone = p.Data.String("property.contactPhone")
	}
	if baseURL != "" {
		l.URL = baseURL + "/"
	}
	l.Lat, _ = data.Float(p.Data.Get("property.latitude"))
	l.Lng, _ = data.Float(p.Data.Get("property.longitude"))
	for i, img := range p.PropertyImages(mapper.PropertyExterior) {
		if i == 3 {
			break
		}
		l.Images = append(l.Images, img.URL)
	}
	if len(l.Images) == 0 {
		if logo := images.LogoURL(p.Data); logo != "" {
			l.Images = []string{logo}
		}
	}
	return l
}

func breadcrumbs(p *mapper.Page, baseURL string) []BreadcrumbItem {
	home := BreadcrumbItem{Name: p.PropertyName(), Item: baseURL + "/"}
	switch p.Kind {
	case pages.KindRoom:
		room, ok := p.Room()
		if !ok {
			return nil
		}
		return []BreadcrumbItem{home, {
			Name: p.RoomName(room.Record),
			Item: baseURL + "/" + pages.File(pages.KindRoom) + "?id=" + url.QueryEscape(room.ID()),
		}}
	case pages.KindFacility:
		fac, ok := p.Facility()
		if !ok {
			return nil
		}
		name := data.String(fac.Record["name"])
		if name == "" {
			return nil
		}
		return []BreadcrumbItem{home, {
			Name: name,
			Item: baseURL + "/" + pages.File(pages.KindFacility) + "?id=" + url.QueryEscape(fac.ID()),
		}}
	}
	return nil
}

func setScript(head *goquery.Selection, id, payload string) {
	if payload == "" {
		return
	}
	existing := head.Find("#" + id)
	if existing.Length() > 0 {
		existing.SetText(payload)
		return
	}
	head.AppendHtml(`<script type="application/ld+json" id="` + id + `"></script>`)
	head.Find("#" + id).SetText(payload)
}
