// Package chrome injects the shared header and footer fragments into page
// documents.
package chrome

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	HeaderContainerID = "header-container"
	FooterContainerID = "footer-container"

	// markerAttr tags head nodes copied from a fragment so re-injection is a no-op.
	markerAttr = "data-chrome"

	headerContainerStyle = "position: fixed; top: 0; left: 0; right: 0; z-index: 1000;"
	footerContainerStyle = "display: block; width: 100%; position: relative; z-index: 100; clear: both;"
)

// fragment is the markup extracted from one chrome file.
type fragment struct {
	name   string
	body   []string // outer HTML of the body nodes, in order
	styles []string // text of <head><style> elements
	links  []string // href of <head><link rel=stylesheet>
}

// Chrome holds the parsed header and footer.
type Chrome struct {
	header fragment
	footer fragment
	extra  string // appended after the footer container
}

// Load reads common/header.html and common/footer.html under templatesDir.
func Load(templatesDir string) (*Chrome, error) {
	header, err := os.ReadFile(filepath.Join(templatesDir, "common", "header.html"))
	if err != nil {
		return nil, fmt.Errorf("chrome: read header: %w", err)
	}
	footer, err := os.ReadFile(filepath.Join(templatesDir, "common", "footer.html"))
	if err != nil {
		return nil, fmt.Errorf("chrome: read footer: %w", err)
	}
	return New(header, footer)
}

// New parses header and footer markup.
func New(header, footer []byte) (*Chrome, error) {
	hd, err := goquery.NewDocumentFromReader(bytes.NewReader(header))
	if err != nil {
		return nil, fmt.Errorf("chrome: parse header: %w", err)
	}
	fd, err := goquery.NewDocumentFromReader(bytes.NewReader(footer))
	if err != nil {
		return nil, fmt.Errorf("chrome: parse footer: %w", err)
	}

	c := &Chrome{}
	c.header = extract("header", hd, "header", ".mobile-menu")
	if len(c.header.body) == 0 {
		return nil, fmt.Errorf("chrome: header fragment has no <header>")
	}
	c.footer = extract("footer", fd, "footer")
	if len(c.footer.body) == 0 {
		return nil, fmt.Errorf("chrome: footer fragment has no <footer>")
	}
	// the footer file carries the scroll-to-top button next to the footer
	if s := fd.Find(".scroll-to-top").First(); s.Length() > 0 {
		c.extra, _ = goquery.OuterHtml(s)
	}
	return c, nil
}

func extract(name string, doc *goquery.Document, all string, firstOf ...string) fragment {
	f := fragment{name: name}
	doc.Find(all).Each(func(_ int, s *goquery.Selection) {
		if html, err := goquery.OuterHtml(s); err == nil {
			f.body = append(f.body, html)
		}
	})
	for _, sel := range firstOf {
		s := doc.Find(sel).First()
		if s.Length() == 0 || s.Closest(all).Length() > 0 {
			continue
		}
		if html, err := goquery.OuterHtml(s); err == nil {
			f.body = append(f.body, html)
		}
	}
	doc.Find("head style").Each(func(_ int, s *goquery.Selection) {
		if css := strings.TrimSpace(s.Text()); css != "" {
			f.styles = append(f.styles, css)
		}
	})
	doc.Find(`head link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			f.links = append(f.links, href)
		}
	})
	return f
}

// Inject places the header at the top of <body> and the footer at its end.
// Injecting into a document that already carries the chrome changes nothing.
func (c *Chrome) Inject(doc *goquery.Document) {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return
	}
	if doc.Find("#"+HeaderContainerID).Length() == 0 {
		body.PrependHtml(container(HeaderContainerID, headerContainerStyle, c.header.body))
		c.copyHead(doc, c.header)
	}
	if doc.Find("#"+FooterContainerID).Length() == 0 {
		if c.extra != "" && doc.Find(".scroll-to-top").Length() == 0 {
			body.AppendHtml(c.extra)
		}
		body.AppendHtml(container(FooterContainerID, footerContainerStyle, c.footer.body))
		c.copyHead(doc, c.footer)
	}
}

func container(id, style string, nodes []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div id="%s" style="%s">`, id, style)
	for _, n := range nodes {
		b.WriteString(n)
	}
	b.WriteString("</div>")
	return b.String()
}

// copyHead adds the fragment's styles and stylesheet links to the page head,
// skipping links the page already has.
func (c *Chrome) copyHead(doc *goquery.Document, f fragment) {
	head := doc.Find("head").First()
	if head.Length() == 0 {
		return
	}
	if doc.Find(fmt.Sprintf(`style[%s=%q]`, markerAttr, f.name)).Length() == 0 {
		for _, css := range f.styles {
			head.AppendHtml(fmt.Sprintf(`<style %s="%s">%s</style>`, markerAttr, f.name, css))
		}
	}
	for _, href := range f.links {
		exists := false
		doc.Find(`link[rel="stylesheet"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if s.AttrOr("href", "") == href {
				exists = true
			}
			return !exists
		})
		if exists {
			continue
		}
		link := fmt.Sprintf(`<link rel="stylesheet" href="%s" %s="%s">`, attrEscape(href), markerAttr, f.name)
		head.AppendHtml(link)
	}
}

func attrEscape(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;").Replace(s)
}
