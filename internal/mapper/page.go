// Package mapper holds the shared toolkit page mappers compose: DOM writes with
// placeholder policy, builder-override accessors, entity resolution and the
// meta/SEO operations every page runs.
package mapper

import (
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/i18n"
)

// Mapper writes one page's data into its DOM.
type Mapper interface {
	MapPage(p *Page)
}

// Func adapts a function to Mapper.
type Func func(p *Page)

// MapPage calls f(p).
func (f Func) MapPage(p *Page) { f(p) }

// Page is one mapping pass: a parsed template, the data document and the
// request context the mappers need.
type Page struct {
	Kind    string
	Doc     *goquery.Document
	Data    data.Document
	Query   url.Values
	Msg     i18n.Localizer
	Now     func() time.Time
	Logger  *zap.Logger
	Preview bool

	entities map[string]entityResult
}

type entityResult struct {
	entity Entity
	ok     bool
}

// NewPage returns a Page with defaults for the optional fields.
func NewPage(kind string, doc *goquery.Document, d data.Document) *Page {
	if d == nil {
		d = data.Document{}
	}
	return &Page{
		Kind:   kind,
		Doc:    doc,
		Data:   d,
		Query:  url.Values{},
		Now:    time.Now,
		Logger: zap.NewNop(),
	}
}

// SetData swaps the data document of an already mapped page and drops the
// resolved room and facility so the next lookup sees the new records.
func (p *Page) SetData(d data.Document) {
	if d == nil {
		d = data.Document{}
	}
	p.Data = d
	p.entities = nil
}

// Run executes one mapping operation. A panic inside fn is logged and
// swallowed so the remaining operations still run.
func (p *Page) Run(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log().Warn("mapping operation failed",
				zap.String("page", p.Kind),
				zap.String("operation", name),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	fn()
}

// Find selects within the document. A nil document yields an empty selection.
func (p *Page) Find(selector string) *goquery.Selection {
	if p == nil || p.Doc == nil {
		return &goquery.Selection{}
	}
	return p.Doc.Find(selector)
}

// T translates a message key.
func (p *Page) T(key string) string { return p.Msg.T(key) }

// Tf translates and formats a message key.
func (p *Page) Tf(key string, args ...any) string { return p.Msg.Tf(key, args...) }

func (p *Page) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Year returns the current year from the page clock.
func (p *Page) Year() int { return p.now().Year() }

func (p *Page) log() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
