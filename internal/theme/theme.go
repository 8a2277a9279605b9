// Package theme turns builder theme settings into CSS custom properties.
package theme

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sinbibook/yeoyoochae/internal/data"
)

// CSS variables the templates read.
const (
	VarFontKoMain = "--font-ko-main"
	VarFontKoSub  = "--font-ko-sub"
	VarFontEnMain = "--font-en-main"
	VarPrimary    = "--color-primary"
	VarSecondary  = "--color-secondary"

	StyleID = "theme-variables"
)

// Defaults apply to any variable the theme names without a usable value.
var Defaults = map[string]string{
	VarFontKoMain: "'Cafe24SsurroundAir', sans-serif",
	VarFontKoSub:  "'Cafe24SsurroundAir', sans-serif",
	VarFontEnMain: "'Miamo', sans-serif",
	VarPrimary:    "#f7f0e5",
	VarSecondary:  "#605347",
}

var fontKeys = []struct{ field, cssVar string }{
	{"koMain", VarFontKoMain},
	{"koSub", VarFontKoSub},
	{"enMain", VarFontEnMain},
}

// Font is a downloadable font referenced by the theme.
type Font struct {
	Key    string
	Family string
	CDN    string // stylesheet URL
	WOFF2  string // font file URL, used when CDN is empty
}

// Resolved is the outcome of reading a theme object.
type Resolved struct {
	Vars  map[string]string
	Fonts []Font
}

// Empty reports whether there is nothing to apply.
func (r Resolved) Empty() bool { return len(r.Vars) == 0 && len(r.Fonts) == 0 }

// Merge overlays later settings onto r.
func (r Resolved) Merge(o Resolved) Resolved {
	out := Resolved{Vars: make(map[string]string, len(r.Vars)+len(o.Vars))}
	for k, v := range r.Vars {
		out.Vars[k] = v
	}
	for k, v := range o.Vars {
		out.Vars[k] = v
	}
	seen := map[string]bool{}
	for _, f := range append(append([]Font{}, o.Fonts...), r.Fonts...) {
		if seen[f.Key] {
			continue
		}
		seen[f.Key] = true
		out.Fonts = append(out.Fonts, f)
	}
	return out
}

// FromDocument reads homepage.customFields.theme, falling back to a top-level
// theme object.
func FromDocument(d data.Document) Resolved {
	if t := d.Map("homepage.customFields.theme"); t != nil {
		return Resolve(t)
	}
	return Resolve(d.Map("theme"))
}

// Resolve reads a theme object. Fonts may sit under "font" or at the top
// level. Only keys present in the object produce variables; a present but
// unusable value yields the default. A null color resets both colors.
func Resolve(t map[string]any) Resolved {
	r := Resolved{Vars: map[string]string{}}
	if t == nil {
		return r
	}
	fonts := data.Map(t["font"])
	if fonts == nil {
		fonts = t
	}
	for _, fk := range fontKeys {
		v, ok := fonts[fk.field]
		if !ok {
			continue
		}
		f, ok := fontFrom(v)
		if !ok {
			r.Vars[fk.cssVar] = Defaults[fk.cssVar]
			continue
		}
		r.Vars[fk.cssVar] = "'" + f.Family + "', sans-serif"
		if f.Key != "" && (f.CDN != "" || f.WOFF2 != "") {
			r.Fonts = append(r.Fonts, f)
		}
	}

	if c, ok := t["color"]; ok {
		colors := data.Map(c)
		if colors == nil {
			r.Vars[VarPrimary] = Defaults[VarPrimary]
			r.Vars[VarSecondary] = Defaults[VarSecondary]
		} else {
			color(r.Vars, colors, "primary", VarPrimary)
			color(r.Vars, colors, "secondary", VarSecondary)
		}
	}
	return r
}

func fontFrom(v any) (Font, bool) {
	m := data.Map(v)
	family := cleanFamily(data.String(m["family"]))
	if family == "" {
		return Font{}, false
	}
	return Font{
		Key:    cleanKey(data.String(m["key"])),
		Family: family,
		CDN:    strings.TrimSpace(data.String(m["cdn"])),
		WOFF2:  strings.TrimSpace(data.String(m["woff2"])),
	}, true
}

func color(vars map[string]string, colors map[string]any, field, cssVar string) {
	v, ok := colors[field]
	if !ok {
		return
	}
	if c := cleanValue(data.String(v)); c != "" {
		vars[cssVar] = c
		return
	}
	vars[cssVar] = Defaults[cssVar]
}

var (
	unsafeValue = regexp.MustCompile(`[<>{};"'\\\n\r]`)
	unsafeKey   = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

func cleanValue(s string) string  { return strings.TrimSpace(unsafeValue.ReplaceAllString(s, "")) }
func cleanFamily(s string) string { return cleanValue(s) }
func cleanKey(s string) string    { return unsafeKey.ReplaceAllString(strings.TrimSpace(s), "") }

// CSS renders the :root rule for the variables, sorted by name.
func (r Resolved) CSS() string {
	names := make([]string, 0, len(r.Vars))
	for k := range r.Vars {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(":root{")
	for _, k := range names {
		fmt.Fprintf(&b, "%s:%s;", k, r.Vars[k])
	}
	b.WriteString("}")
	return b.String()
}

// Apply writes the variables and font loaders into the document head. The
// variable rule replaces any earlier one; font nodes are added once per key.
func Apply(doc *goquery.Document, r Resolved) {
	head := doc.Find("head").First()
	if head.Length() == 0 || r.Empty() {
		return
	}
	for _, f := range r.Fonts {
		switch {
		case f.CDN != "":
			id := "font-cdn-" + f.Key
			if doc.Find("#"+id).Length() > 0 {
				continue
			}
			head.AppendHtml(fmt.Sprintf(`<link id="%s" rel="stylesheet" href="%s">`, id, attrEscape(f.CDN)))
		case f.WOFF2 != "":
			id := "font-woff2-" + f.Key
			if doc.Find("#"+id).Length() > 0 {
				continue
			}
			head.AppendHtml(fmt.Sprintf(`<style id="%s">@font-face{font-family:'%s';src:url('%s') format('woff2');font-weight:400;font-display:swap;}</style>`,
				id, f.Family, cleanURL(f.WOFF2)))
		}
	}
	if len(r.Vars) == 0 {
		return
	}
	doc.Find("#" + StyleID).Remove()
	head.AppendHtml(fmt.Sprintf(`<style id="%s">%s</style>`, StyleID, r.CSS()))
}

func attrEscape(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;").Replace(s)
}

func cleanURL(s string) string {
	return strings.NewReplacer(`'`, "%27", `<`, "%3C", `>`, "%3E", `\`, "%5C", "\n", "", "\r", "").Replace(s)
}
