package seo

import (
	"encoding/json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Lodging describes the property for the LodgingBusiness schema.
type Lodging struct {
	Name        string
	Description string
	URL         string
	Telephone   string
	Address     string
	Images      []string
	Lat, Lng    float64
	CheckIn     string
	CheckOut    string
}

// LodgingBusiness builds a schema.org LodgingBusiness payload. Empty fields are omitted.
func LodgingBusiness(l Lodging) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "LodgingBusiness",
		"name":     l.Name,
	}
	if l.Description != "" {
		m["description"] = l.Description
	}
	if l.URL != "" {
		m["url"] = l.URL
	}
	if l.Telephone != "" {
		m["telephone"] = l.Telephone
	}
	if l.Address != "" {
		m["address"] = map[string]any{
			"@type":          "PostalAddress",
			"streetAddress":  l.Address,
			"addressCountry": "KR",
		}
	}
	if len(l.Images) > 0 {
		m["image"] = l.Images
	}
	if l.Lat != 0 && l.Lng != 0 {
		m["geo"] = map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  l.Lat,
			"longitude": l.Lng,
		}
	}
	if l.CheckIn != "" {
		m["checkinTime"] = l.CheckIn
	}
	if l.CheckOut != "" {
		m["checkoutTime"] = l.CheckOut
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}
