// Package cms serves the markdown content pages (terms, privacy, refund
// policy) that sit next to the mapped property pages.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a content page cannot be located.
var ErrNotFound = errors.New("cms: not found")

const (
	defaultContentDir = "content"
	defaultCacheTTL   = 5 * time.Minute
)

// ContentPage is a localized static page sourced from local markdown or a remote CMS.
type ContentPage struct {
	Slug          string
	Lang          string
	Title         string
	Summary       string
	Body          string // sanitized HTML
	EffectiveDate time.Time
	UpdatedAt     time.Time
	SEO           ContentSEO
}

// ContentSEO holds optional metadata overrides for content pages.
type ContentSEO struct {
	Title       string
	Description string
}

type contentFrontMatter struct {
	Title         string `yaml:"title"`
	Summary       string `yaml:"summary"`
	Lang          string `yaml:"lang"`
	Format        string `yaml:"format"`
	EffectiveDate string `yaml:"effective_date"`
	UpdatedAt     string `yaml:"updated_at"`
	SEO           struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"seo"`
}

type cacheEntry struct {
	page    ContentPage
	expires time.Time
}

// Store reads content pages from Dir, optionally consulting a remote CMS
// first, and caches them for TTL.
type Store struct {
	Dir      string
	BaseURL  string // remote CMS; empty disables
	Fallback string // language tried after the requested one
	TTL      time.Duration
	HTTP     *http.Client
	Now      func() time.Time

	markdown goldmark.Markdown
	policy   *bluemonday.Policy

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewStore returns a Store over dir with Korean fallback.
func NewStore(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = defaultContentDir
	}
	return &Store{
		Dir:      dir,
		Fallback: "ko",
		TTL:      defaultCacheTTL,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM, extension.DefinitionList)),
		policy:   newContentPolicy(),
		cache:    map[string]cacheEntry{},
	}
}

func newContentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span", "table")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// Page returns the page for slug in lang, falling back to the store's
// fallback language.
func (s *Store) Page(ctx context.Context, slug, lang string) (ContentPage, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return ContentPage{}, ErrNotFound
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = s.Fallback
	}

	key := lang + "|" + slug
	if page, ok := s.cached(key); ok {
		return page, nil
	}
	page, err := s.fetch(ctx, slug, lang)
	if err != nil {
		return ContentPage{}, err
	}
	s.store(key, page)
	return page, nil
}

// Invalidate drops every cached page.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cache = map[string]cacheEntry{}
	s.mu.Unlock()
}

// Slugs lists the markdown pages available for lang.
func (s *Store) Slugs(lang string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.Dir, lang))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cms: list %s: %w", lang, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".md"))
	}
	return out, nil
}

func (s *Store) fetch(ctx context.Context, slug, lang string) (ContentPage, error) {
	if s.BaseURL != "" {
		page, err := s.fetchRemote(ctx, slug, lang)
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, ErrNotFound) && ctx.Err() != nil {
			return ContentPage{}, ctx.Err()
		}
		// remote failures fall through to local markdown
	}
	priority := []string{lang}
	if s.Fallback != "" && s.Fallback != lang {
		priority = append(priority, s.Fallback)
	}
	for _, candidate := range priority {
		page, err := s.readMarkdown(slug, candidate)
		if err == nil {
			return page, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		// For other errors (parse issues), stop early.
		return ContentPage{}, err
	}
	return ContentPage{}, ErrNotFound
}

func (s *Store) fetchRemote(ctx context.Context, slug, lang string) (ContentPage, error) {
	endpoint, err := url.JoinPath(strings.TrimRight(s.BaseURL, "/"), "content", slug)
	if err != nil {
		return ContentPage{}, err
	}
	client := s.HTTP
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?lang="+url.QueryEscape(lang), nil)
	if err != nil {
		return ContentPage{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return ContentPage{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ContentPage{}, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return ContentPage{}, fmt.Errorf("cms: content remote status %d", resp.StatusCode)
	}

	var payload struct {
		Slug          string    `json:"slug"`
		Lang          string    `json:"lang"`
		Title         string    `json:"title"`
		Summary       string    `json:"summary"`
		Body          string    `json:"body"`
		Format        string    `json:"format"`
		EffectiveDate time.Time `json:"effective_date"`
		UpdatedAt     time.Time `json:"updated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ContentPage{}, fmt.Errorf("cms: decode %s: %w", slug, err)
	}
	if strings.TrimSpace(payload.Body) == "" {
		return ContentPage{}, fmt.Errorf("cms: empty body for %s", slug)
	}
	body, err := s.renderBody(payload.Body, payload.Format)
	if err != nil {
		return ContentPage{}, err
	}
	return ContentPage{
		Slug:          firstNonEmpty(payload.Slug, slug),
		Lang:          firstNonEmpty(payload.Lang, lang),
		Title:         firstNonEmpty(payload.Title, prettifySlug(slug)),
		Summary:       payload.Summary,
		Body:          body,
		EffectiveDate: payload.EffectiveDate,
		UpdatedAt:     payload.UpdatedAt,
	}, nil
}

func (s *Store) readMarkdown(slug, lang string) (ContentPage, error) {
	file := filepath.Join(s.Dir, lang, slug+".md")
	raw, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ContentPage{}, ErrNotFound
		}
		return ContentPage{}, err
	}
	fm, body := splitFrontMatter(string(raw))
	front := contentFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return ContentPage{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}
	html, err := s.renderBody(body, front.Format)
	if err != nil {
		return ContentPage{}, fmt.Errorf("cms: render %s: %w", file, err)
	}
	page := ContentPage{
		Slug:          slug,
		Lang:          firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:         strings.TrimSpace(front.Title),
		Summary:       strings.TrimSpace(front.Summary),
		Body:          html,
		EffectiveDate: parseContentDate(front.EffectiveDate),
		UpdatedAt:     parseContentDate(front.UpdatedAt),
		SEO: ContentSEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
		},
	}
	if page.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

// renderBody converts markdown (the default format) to HTML and sanitizes
// the result. HTML bodies are only sanitized.
func (s *Store) renderBody(body, format string) (string, error) {
	html := body
	if !strings.EqualFold(strings.TrimSpace(format), "html") {
		var buf bytes.Buffer
		if err := s.markdown.Convert([]byte(body), &buf); err != nil {
			return "", err
		}
		html = buf.String()
	}
	return strings.TrimSpace(s.policy.Sanitize(html)), nil
}

func (s *Store) cached(key string) (ContentPage, bool) {
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expires) {
		return ContentPage{}, false
	}
	return entry.page, true
}

func (s *Store) store(key string, page ContentPage) {
	ttl := s.TTL
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		s.cache = map[string]cacheEntry{}
	}
	s.cache[key] = cacheEntry{page: page, expires: s.now().Add(ttl)}
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02", "2006.01.02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(strings.TrimSpace(slug), "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
