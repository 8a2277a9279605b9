package pages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sinbibook/yeoyoochae/internal/chrome"
	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/i18n"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/popup"
	"github.com/sinbibook/yeoyoochae/internal/theme"
)

// ErrUnknownTemplate is returned for a kind without a template file.
var ErrUnknownTemplate = errors.New("pages: unknown template")

// Options tune one render.
type Options struct {
	Lang    string
	Preview bool
	// Dismissals filters popups the visitor hid today. Ignored in preview.
	Dismissals popup.DismissalStore
	// Theme is layered over the document theme.
	Theme theme.Resolved
}

// Renderer parses page templates and runs the mapping pipeline over them.
type Renderer struct {
	Dir    string // templates directory
	Chrome *chrome.Chrome
	Bundle *i18n.Bundle
	Logger *zap.Logger
	Now    func() time.Time
	// Reload re-reads templates on every render.
	Reload bool
	// Decorators run after the mappers, e.g. structured data injection.
	Decorators []func(p *mapper.Page)

	mu    sync.RWMutex
	cache map[string][]byte
}

// NewRenderer loads the chrome fragments from dir.
func NewRenderer(dir string, bundle *i18n.Bundle, logger *zap.Logger) (*Renderer, error) {
	c, err := chrome.Load(dir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{Dir: dir, Chrome: c, Bundle: bundle, Logger: logger, Now: time.Now}, nil
}

// Render builds the page and returns its HTML.
func (r *Renderer) Render(ctx context.Context, kind string, q url.Values, d data.Document, o Options) ([]byte, error) {
	p, err := r.Build(ctx, kind, q, d, o)
	if err != nil {
		return nil, err
	}
	return HTML(p)
}

// Build parses the template of kind, injects the chrome, runs the
// header/footer mapper then the page mapper, applies the theme and places the
// first popup. Page operations run last so page titles and page SEO win over
// the site-wide values. The returned page can be updated in place with UpdateSection.
func (r *Renderer) Build(ctx context.Context, kind string, q url.Values, d data.Document, o Options) (*mapper.Page, error) {
	raw, err := r.template(kind)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("pages: parse %s: %w", kind, err)
	}
	if r.Chrome != nil {
		r.Chrome.Inject(doc)
	}

	p := mapper.NewPage(kind, doc, d)
	if q != nil {
		p.Query = q
	}
	p.Preview = o.Preview
	p.Logger = r.logger().With(zap.String("page", kind))
	if r.Now != nil {
		p.Now = r.Now
	}
	if r.Bundle != nil {
		p.Msg = r.Bundle.For(o.Lang)
	}

	HeaderFooter{}.MapPage(p)
	if m, ok := ForKind(kind); ok {
		m.MapPage(p)
	}
	p.Run("theme", func() { theme.Apply(doc, theme.FromDocument(d).Merge(o.Theme)) })
	if kind == KindIndex || o.Preview {
		p.Run("popups", func() { r.placePopup(p, o) })
	}
	for _, dec := range r.Decorators {
		dec := dec
		p.Run("decorate", func() { dec(p) })
	}
	return p, nil
}

// UpdateSection re-runs one builder section on an already built page. The
// logo section belongs to the chrome and is valid on every page.
func (r *Renderer) UpdateSection(p *mapper.Page, section string) bool {
	if section == "logo" {
		return HeaderFooter{}.MapSection(p, section)
	}
	m, ok := ForKind(p.Kind)
	if !ok {
		return false
	}
	return m.MapSection(p, section)
}

// ApplyTheme rewrites the theme variables of a built page.
func ApplyTheme(p *mapper.Page, t theme.Resolved) {
	p.Run("theme", func() { theme.Apply(p.Doc, theme.FromDocument(p.Data).Merge(t)) })
}

// HTML renders the page document.
func HTML(p *mapper.Page) ([]byte, error) {
	html, err := p.Doc.Html()
	if err != nil {
		return nil, fmt.Errorf("pages: render %s: %w", p.Kind, err)
	}
	return []byte(html), nil
}

func (r *Renderer) placePopup(p *mapper.Page, o Options) {
	container := popup.Container(p.Doc)
	if container.Length() == 0 {
		return
	}
	var q popup.Queue
	q.Load(popup.Eligible(popup.FromDocument(p.Data), p.Now(), o.Dismissals, o.Preview))
	cur, ok := q.Current()
	if !ok {
		container.Empty()
		return
	}
	if err := popup.Render(container, cur, q.Index(), q.Len(), popup.LabelsFor(p.Msg)); err != nil {
		p.Logger.Warn("render popup", zap.Error(err))
	}
}

func (r *Renderer) template(kind string) ([]byte, error) {
	if !r.Reload {
		r.mu.RLock()
		raw, ok := r.cache[kind]
		r.mu.RUnlock()
		if ok {
			return raw, nil
		}
	}
	raw, err := os.ReadFile(filepath.Join(r.Dir, File(filepath.Base(kind))))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, kind)
		}
		return nil, fmt.Errorf("pages: read template %s: %w", kind, err)
	}
	r.mu.Lock()
	if r.cache == nil {
		r.cache = map[string][]byte{}
	}
	r.cache[kind] = raw
	r.mu.Unlock()
	return raw, nil
}

func (r *Renderer) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
