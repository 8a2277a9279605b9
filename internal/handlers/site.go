// Package handlers serves the mapped property pages, the raw data document
// and the markdown content pages.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sinbibook/yeoyoochae/internal/cms"
	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/middleware"
	"github.com/sinbibook/yeoyoochae/internal/observability"
	"github.com/sinbibook/yeoyoochae/internal/pages"
	"github.com/sinbibook/yeoyoochae/internal/popup"
)

// KindContent is the template content pages render into.
const KindContent = "content"

// Site wires the renderer to HTTP.
type Site struct {
	Renderer *pages.Renderer
	// Source loads the current data document.
	Source  func(ctx context.Context) (data.Document, error)
	Content *cms.Store
	Jar     popup.CookieJar
}

// Routes mounts the page, data and content endpoints.
func (s *Site) Routes(r chi.Router) {
	r.Get("/", s.Page)
	for _, kind := range pages.Kinds() {
		r.Get("/"+pages.File(kind), s.Page)
	}
	r.Get("/data.json", s.Data)
	if s.Content != nil {
		r.Get("/pages/{slug}", s.ContentPage)
	}
}

// Page renders the page named by the request path. A document that fails to
// load renders the page with placeholders.
func (s *Site) Page(w http.ResponseWriter, r *http.Request) {
	kind := pages.KindFromPath(r.URL.Path)
	d := s.document(r.Context())

	html, err := s.Renderer.Render(r.Context(), kind, r.URL.Query(), d, pages.Options{
		Lang:       middleware.Lang(r),
		Dismissals: s.Jar.Store(nil, r),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeHTML(w, html)
}

// Data serves the current document for client scripts.
func (s *Site) Data(w http.ResponseWriter, r *http.Request) {
	d, err := s.Source(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Warn("data document unavailable", zap.Error(err))
		middleware.WriteError(w, r, http.StatusServiceUnavailable, "data unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_ = json.NewEncoder(w).Encode(d)
}

// ContentPage renders a markdown page inside the shared header and footer.
func (s *Site) ContentPage(w http.ResponseWriter, r *http.Request) {
	lang := middleware.Lang(r)
	page, err := s.Content.Page(r.Context(), chi.URLParam(r, "slug"), lang)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			middleware.WriteError(w, r, http.StatusNotFound, "page not found")
			return
		}
		s.fail(w, r, err)
		return
	}

	html, err := RenderContent(r.Context(), s.Renderer, page, s.document(r.Context()), lang)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeHTML(w, html)
}

// RenderContent renders a content page into the content template with the
// shared chrome mapped from d.
func RenderContent(ctx context.Context, renderer *pages.Renderer, page cms.ContentPage, d data.Document, lang string) ([]byte, error) {
	p, err := renderer.Build(ctx, KindContent, nil, d, pages.Options{Lang: lang})
	if err != nil {
		return nil, err
	}
	title := page.Title
	if strings.TrimSpace(page.SEO.Title) != "" {
		title = page.SEO.Title
	}
	p.SetTitle(title + " - " + p.PropertyName())
	p.SetMeta("description", firstNonEmpty(page.SEO.Description, page.Summary))
	p.SetText("[data-content-title]", page.Title)
	if !page.EffectiveDate.IsZero() {
		p.SetText("[data-content-effective-date]", p.Tf("content.effective_date", page.EffectiveDate.Format("2006.01.02")))
	} else {
		p.Find("[data-content-effective-date]").Remove()
	}
	p.Find("[data-content-body]").SetHtml(page.Body)
	return pages.HTML(p)
}

func (s *Site) document(ctx context.Context) data.Document {
	d, err := s.Source(ctx)
	if err != nil {
		observability.FromContext(ctx).Warn("data document unavailable, rendering placeholders", zap.Error(err))
		return data.Document{}
	}
	return d
}

func (s *Site) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, pages.ErrUnknownTemplate) {
		middleware.WriteError(w, r, http.StatusNotFound, "page not found")
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	observability.FromContext(r.Context()).Error("render page", zap.Error(err))
	middleware.WriteError(w, r, http.StatusInternalServerError, "internal server error")
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// popups depend on visitor cookies
	w.Header().Set("Cache-Control", "private, no-cache")
	_, _ = w.Write(html)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
