// Package images selects displayable image records.
//
// A record is eligible when isSelected is exactly true and url is not blank.
// Eligible records are ordered by sortOrder ascending (missing counts as 0),
// keeping input order for ties.
package images

import (
	"sort"
	"strings"

	"github.com/sinbibook/yeoyoochae/internal/data"
)

// Placeholder assets used when no eligible image exists.
const (
	EmptyImageSVG      = `data:image/svg+xml,%3Csvg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 600"%3E%3Crect fill="%23d1d5db" width="800" height="600"/%3E%3C/svg%3E`
	EmptyImageWithIcon = `data:image/svg+xml,%3Csvg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 600"%3E%3Crect fill="%23d1d5db" width="800" height="600"/%3E%3Cg transform="translate(400, 300)"%3E%3Crect x="-48" y="-48" width="96" height="96" rx="8" ry="8" fill="none" stroke="%23374151" stroke-width="3"/%3E%3Ccircle cx="-20" cy="-20" r="6" fill="%23374151"/%3E%3Cpolyline points="48,-12 20,-40 -48,28" fill="none" stroke="%23374151" stroke-width="3" stroke-linecap="round" stroke-linejoin="round"/%3E%3C/g%3E%3C/svg%3E`
	PlaceholderClass   = "empty-image-placeholder"
)

// Image is one image record.
type Image struct {
	URL         string
	Description string
	Category    string
	IsSelected  bool
	SortOrder   int

	// DescriptionSet is false when the record has no description or a null one.
	DescriptionSet bool
}

// Eligible reports whether the image may be displayed.
func (img Image) Eligible() bool {
	return img.IsSelected && strings.TrimSpace(img.URL) != ""
}

// FromRecords decodes an array of image objects. Non-object entries are skipped.
func FromRecords(v any) []Image {
	records := data.Maps(v)
	out := make([]Image, 0, len(records))
	for _, r := range records {
		out = append(out, Image{
			URL:         data.String(r["url"]),
			Description: data.String(r["description"]),
			Category:    data.String(r["category"]),
			IsSelected:  data.Bool(r["isSelected"]),
			SortOrder:   data.IntOr(r["sortOrder"], 0),

			DescriptionSet: r["description"] != nil,
		})
	}
	return out
}

// Selected returns the eligible images, optionally restricted to category,
// ordered by SortOrder. The input slice is not modified.
func Selected(records []Image, category string) []Image {
	out := make([]Image, 0, len(records))
	for _, img := range records {
		if !img.Eligible() {
			continue
		}
		if category != "" && img.Category != category {
			continue
		}
		out = append(out, img)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// First returns the head of Selected.
func First(records []Image, category string) (Image, bool) {
	sel := Selected(records, category)
	if len(sel) == 0 {
		return Image{}, false
	}
	return sel[0], true
}

// Last returns the tail of Selected.
func Last(records []Image, category string) (Image, bool) {
	sel := Selected(records, category)
	if len(sel) == 0 {
		return Image{}, false
	}
	return sel[len(sel)-1], true
}

// Nth returns Selected[index], else Selected[fallbackIndex].
func Nth(records []Image, index, fallbackIndex int) (Image, bool) {
	sel := Selected(records, "")
	if index >= 0 && index < len(sel) {
		return sel[index], true
	}
	if fallbackIndex >= 0 && fallbackIndex < len(sel) {
		return sel[fallbackIndex], true
	}
	return Image{}, false
}

// LogoURL returns the first eligible logo of homepage.images[0].logo.
func LogoURL(doc data.Document) string {
	if img, ok := First(FromRecords(doc.Get("homepage.images.0.logo")), ""); ok {
		return img.URL
	}
	return ""
}
