package mapper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type declaration struct {
	prop  string
	value string
}

// SetStyle sets one inline style property on every match, keeping the other
// declarations in order.
func SetStyle(s *goquery.Selection, prop, value string) {
	prop = strings.ToLower(strings.TrimSpace(prop))
	s.Each(func(_ int, el *goquery.Selection) {
		decls := parseStyle(el.AttrOr("style", ""))
		replaced := false
		for i := range decls {
			if decls[i].prop == prop {
				decls[i].value = value
				replaced = true
			}
		}
		if !replaced {
			decls = append(decls, declaration{prop: prop, value: value})
		}
		el.SetAttr("style", formatStyle(decls))
	})
}

// RemoveStyle drops one inline style property from every match.
func RemoveStyle(s *goquery.Selection, prop string) {
	prop = strings.ToLower(strings.TrimSpace(prop))
	s.Each(func(_ int, el *goquery.Selection) {
		style, ok := el.Attr("style")
		if !ok {
			return
		}
		decls := parseStyle(style)
		kept := decls[:0]
		for _, d := range decls {
			if d.prop != prop {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			el.RemoveAttr("style")
			return
		}
		el.SetAttr("style", formatStyle(kept))
	})
}

// StyleValue returns the value of prop in the first match's inline style.
func StyleValue(s *goquery.Selection, prop string) string {
	prop = strings.ToLower(strings.TrimSpace(prop))
	for _, d := range parseStyle(s.First().AttrOr("style", "")) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// parseStyle splits on ';' outside parentheses and quotes so data URIs survive.
func parseStyle(style string) []declaration {
	var (
		out   []declaration
		depth int
		quote rune
		start int
	)
	flush := func(end int) {
		part := strings.TrimSpace(style[start:end])
		if part == "" {
			return
		}
		i := strings.IndexByte(part, ':')
		if i <= 0 {
			return
		}
		out = append(out, declaration{
			prop:  strings.ToLower(strings.TrimSpace(part[:i])),
			value: strings.TrimSpace(part[i+1:]),
		})
	}
	for i, r := range style {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(style))
	return out
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.value)
	}
	return strings.Join(parts, "; ") + ";"
}
