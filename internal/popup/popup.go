// Package popup selects, sequences and renders the landing page popups.
//
// A popup is shown when it is enabled, today falls inside its inclusive
// [startDate, endDate] day range, it has at least one eligible image and,
// outside preview, the visitor has not hidden it for today.
package popup

import (
	"sort"
	"strings"
	"time"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/images"
)

// DocumentPath locates the popup list in the data document.
const DocumentPath = "homepage.customFields.popup.popups"

// Popup is one builder popup definition.
type Popup struct {
	ID          string
	Enabled     bool
	StartDate   string
	EndDate     string
	Title       string
	Description string
	Link        string
	Slider      bool
	SortOrder   int
	Images      []images.Image // eligible images in display order
}

// IsSlider reports whether the popup renders as a carousel.
func (p Popup) IsSlider() bool { return p.Slider && len(p.Images) >= 2 }

// FromDocument decodes every popup definition in the document.
func FromDocument(d data.Document) []Popup {
	records := data.Maps(d.Get(DocumentPath))
	out := make([]Popup, 0, len(records))
	for _, r := range records {
		out = append(out, Popup{
			ID:          data.String(r["id"]),
			Enabled:     data.Bool(r["enabled"]),
			StartDate:   data.String(r["startDate"]),
			EndDate:     data.String(r["endDate"]),
			Title:       data.String(r["title"]),
			Description: data.String(r["description"]),
			Link:        strings.TrimSpace(data.String(r["link"])),
			Slider:      data.Bool(r["slider"]),
			SortOrder:   data.IntOr(r["sortOrder"], 0),
			Images:      images.Selected(images.FromRecords(r["images"]), ""),
		})
	}
	return out
}

// Eligible filters popups for display at now and orders them by SortOrder.
// dismissals is consulted only outside preview and may be nil.
func Eligible(popups []Popup, now time.Time, dismissals DismissalStore, preview bool) []Popup {
	today := Day(now)
	out := make([]Popup, 0, len(popups))
	for _, p := range popups {
		if !p.Enabled || len(p.Images) == 0 {
			continue
		}
		if !InWindow(p, today) {
			continue
		}
		if !preview && dismissals != nil && dismissals.HiddenOn(p.ID, today) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// InWindow reports whether day falls inside the popup's display range.
// A missing or unparseable bound leaves that side open.
func InWindow(p Popup, day time.Time) bool {
	if start, ok := parseDay(p.StartDate, day.Location()); ok && day.Before(start) {
		return false
	}
	if end, ok := parseDay(p.EndDate, day.Location()); ok && day.After(end) {
		return false
	}
	return true
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b share a calendar day in b's location.
func SameDay(a, b time.Time) bool {
	return Day(a.In(b.Location())).Equal(Day(b))
}

var dayLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDay(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
			t = t.In(loc)
		} else {
			t, err = time.ParseInLocation(layout, s, loc)
		}
		if err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}
