package pages

import (
	"strings"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/format"
	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/textutil"
)

const (
	reservationSections = "homepage.customFields.pages.reservation.sections.0"

	selReservationHero  = "[data-homepage-customfields-pages-reservation-sections-0-hero-images-0-url]"
	selReservationAbout = "[data-homepage-customfields-pages-reservation-sections-0-about-images-0-url]"
	selUsageGuide       = "[data-property-usageguide]"
	selReservationGuide = "[data-property-reservationguide]"
	selCheckInOutInfo   = "[data-property-checkinoutinfo]"
	selRefundRules      = ".refundRules"
	selRefundNotice     = "[data-property-refundsettings-customerrefundnotice]"
	selReservationWave  = "[data-reservation-wave-background]"
)

// Reservation maps the booking information page.
type Reservation struct{}

// MapPage runs the reservation operations in order.
func (Reservation) MapPage(p *mapper.Page) {
	r := Reservation{}
	p.Run("seo", func() { p.MapSEOTags() })
	p.Run("address", p.MapAddress)
	p.Run("phone", p.MapPhone)
	p.Run("hero", func() { r.mapHero(p) })
	p.Run("about", func() { r.mapAbout(p) })
	p.Run("usage guide", func() { guideParagraphs(p, selUsageGuide, "property.usageGuide", keyUsageGuideEmpty) })
	p.Run("reservation guide", func() {
		guideParagraphs(p, selReservationGuide, "property.reservationGuide", keyReservationGuideEmpty)
	})
	p.Run("check-in info", func() { guideParagraphs(p, selCheckInOutInfo, "property.checkInOutInfo", keyCheckInOutEmpty) })
	p.Run("refund policy", func() { r.mapRefundPolicy(p) })
	p.Run("refund notice", func() {
		guideParagraphs(p, selRefundNotice, "property.refundSettings.customerRefundNotice", keyRefundNoticeEmpty)
	})
	p.Run("ecommerce", p.MapEcommerceRegistration)
	p.Run("meta", p.UpdateMetaTags)
	p.Run("title", func() { p.SetTitle(p.T(keyReservationTitle) + " - " + p.PropertyName()) })
	p.Run("favicon", p.UpdateFavicon)
}

// MapSection re-runs the whole page; every section feeds several targets.
func (r Reservation) MapSection(p *mapper.Page, _ string) bool {
	r.MapPage(p)
	return true
}

// guideParagraphs renders one paragraph per non-blank line of the text at
// path, or the placeholder sentence when the text is blank.
func guideParagraphs(p *mapper.Page, selector, path, placeholderKey string) {
	text := p.Data.String(path)
	if strings.TrimSpace(text) == "" {
		text = p.T(placeholderKey)
	}
	p.SetHTML(selector, textutil.Paragraphs(text, "ko-body"))
}

func (Reservation) mapHero(p *mapper.Page) {
	recs := images.FromRecords(p.Data.Get(reservationSections + ".hero.images"))
	p.SetImageOrPlaceholder(selReservationHero, recs, p.T(keyReservationHeroAlt))

	bg := p.Find(selReservationWave).First()
	if bg.Length() == 0 {
		return
	}
	img, _ := images.First(p.PropertyImages(mapper.PropertyExterior), "")
	mapper.SetBackgroundOrIcon(bg, img.URL)
}

func (Reservation) mapAbout(p *mapper.Page) {
	recs := images.FromRecords(p.Data.Get(reservationSections + ".about.images"))
	p.SetImageOrPlaceholder(selReservationAbout, recs, p.T(keyReservationAboutAlt))
}

type refundRow struct {
	Cutoff string
	Rate   string
	Border bool
}

// RefundCutoff labels a refund window: same day for 0, else n days before.
func RefundCutoff(p *mapper.Page, days int) string {
	if days == 0 {
		return p.T(keyRefundSameDay)
	}
	return p.Tf(keyRefundDaysBefore, days)
}

// RefundRows renders the ordered refund policy list.
func RefundRows(p *mapper.Page, policies []map[string]any) []refundRow {
	rows := make([]refundRow, 0, len(policies))
	for i, pol := range policies {
		days := data.IntOr(pol["refundProcessingDays"], 0)
		rate, _ := data.Float(pol["refundRate"])
		rows = append(rows, refundRow{
			Cutoff: RefundCutoff(p, days),
			Rate:   format.Percent(rate),
			Border: i < len(policies)-1,
		})
	}
	return rows
}

func (Reservation) mapRefundPolicy(p *mapper.Page) {
	if p.Data.Map("property") == nil {
		return
	}
	el := p.Find(selRefundRules).First()
	if el.Length() == 0 {
		return
	}
	policies := data.Maps(p.Data.Get("property.refundPolicies"))
	if len(policies) == 0 {
		el.SetHtml(textutil.Paragraphs(p.T(keyRefundPolicyEmpty), "ko-body"))
		return
	}
	el.SetHtml(render(p, "refund-table", map[string]any{
		"CutoffLabel": p.T(keyRefundHeaderCutoff),
		"RateLabel":   p.T(keyRefundHeaderRate),
		"Rows":        RefundRows(p, policies),
	}))
}
