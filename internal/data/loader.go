package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sinbibook/yeoyoochae/internal/retry"
)

// ErrNotFound is returned when the data document cannot be located.
var ErrNotFound = errors.New("data: not found")

const (
	defaultCacheTTL = 5 * time.Minute
	maxDocumentSize = 16 << 20
)

// Loader fetches data documents from local paths or http(s) URLs and keeps a
// short-lived in-memory copy.
type Loader struct {
	http     *http.Client
	fallback string
	ttl      time.Duration
	policy   retry.Policy
	now      func() time.Time

	mu    sync.RWMutex
	items map[string]cacheEntry
}

type cacheEntry struct {
	doc     Document
	expires time.Time
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient overrides the client used for remote documents.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.http = c
		}
	}
}

// WithFallback sets a local document used when a remote fetch fails.
func WithFallback(path string) Option {
	return func(l *Loader) { l.fallback = strings.TrimSpace(path) }
}

// WithCacheTTL sets the cache duration. Zero or negative disables caching.
func WithCacheTTL(d time.Duration) Option {
	return func(l *Loader) { l.ttl = d }
}

// WithRetry sets the retry policy for remote fetches.
func WithRetry(p retry.Policy) Option {
	return func(l *Loader) { l.policy = p }
}

// WithClock overrides time.Now for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader constructs a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		http:   &http.Client{Timeout: 5 * time.Second},
		ttl:    defaultCacheTTL,
		policy: retry.Remote,
		now:    time.Now,
		items:  map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns a private copy of the document at source. A failed fetch or
// parse leaves any cached copy untouched.
func (l *Loader) Load(ctx context.Context, source string) (Document, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrNotFound
	}
	if doc, ok := l.cached(source); ok {
		return doc, nil
	}

	doc, err := l.fetch(ctx, source)
	if err != nil && l.fallback != "" && l.fallback != source {
		fb, fbErr := readFile(l.fallback)
		if fbErr != nil {
			return nil, fmt.Errorf("data: load %s: %w (fallback: %v)", source, err, fbErr)
		}
		return fb, nil
	}
	if err != nil {
		return nil, err
	}
	l.store(source, doc)
	return doc.Clone(), nil
}

// Invalidate drops the cached copy of source.
func (l *Loader) Invalidate(source string) {
	l.mu.Lock()
	delete(l.items, strings.TrimSpace(source))
	l.mu.Unlock()
}

func (l *Loader) fetch(ctx context.Context, source string) (Document, error) {
	if isRemote(source) {
		var doc Document
		err := retry.Do(ctx, l.policy, func(int) (bool, error) {
			d, err := l.fetchRemote(ctx, source)
			if err != nil {
				return false, err
			}
			doc = d
			return true, nil
		})
		return doc, err
	}
	return readFile(source)
}

func (l *Loader) fetchRemote(ctx context.Context, source string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, retry.Permanent(ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("data: remote status %d", resp.StatusCode)
	}
	doc, err := Decode(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, retry.Permanent(err)
	}
	return doc, nil
}

func readFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("data: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(io.LimitReader(f, maxDocumentSize))
}

// Decode parses a JSON document. The top level must be an object.
func Decode(r io.Reader) (Document, error) {
	var raw any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("data: decode: %w", err)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("data: document is not an object")
	}
	return Document(m), nil
}

func (l *Loader) cached(key string) (Document, bool) {
	if l.ttl <= 0 {
		return nil, false
	}
	l.mu.RLock()
	entry, ok := l.items[key]
	l.mu.RUnlock()
	if !ok || l.now().After(entry.expires) {
		return nil, false
	}
	return entry.doc.Clone(), true
}

func (l *Loader) store(key string, doc Document) {
	if l.ttl <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[key] = cacheEntry{doc: doc.Clone(), expires: l.now().Add(l.ttl)}
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
