package popup

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/i18n"
)

// Handler serves popup fragments for htmx swaps into the popup container.
type Handler struct {
	Source   func(ctx context.Context) (data.Document, error)
	Jar      CookieJar
	Messages func(r *http.Request) i18n.Localizer
	Now      func() time.Time
	Logger   *zap.Logger
}

// Routes mounts the popup endpoints. Popups are addressed by Token so a
// dismissal never shifts which popup a link points at.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/popups", h.First)
	r.Get("/popups/{id}/next", h.Next)
	r.Post("/popups/{id}/hide-today", h.HideToday)
}

// First renders the head of the queue, or an empty body when nothing is
// eligible.
func (h *Handler) First(w http.ResponseWriter, r *http.Request) {
	q, ok := h.queue(w, r)
	if !ok {
		return
	}
	h.write(w, r, q)
}

// Next renders the eligible popup ordered after {id}, or an empty body once
// the queue is exhausted.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	q, ok := h.queue(w, r)
	if !ok {
		return
	}
	q.Seek(q.after(chi.URLParam(r, "id")))
	h.write(w, r, q)
}

// HideToday stores a dismissal for {id} and renders the popup that follows it.
func (h *Handler) HideToday(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "id")
	q, ok := h.queue(w, r)
	if !ok {
		return
	}
	if i := q.find(token); i >= 0 {
		q.Seek(i)
		q.HideToday(h.Jar.Store(w, r), h.now())
		h.write(w, r, q)
		return
	}
	// already dismissed, or outside its window
	p, found := q.scheduled(token)
	if !found {
		http.Error(w, "unknown popup", http.StatusNotFound)
		return
	}
	h.Jar.Store(w, r).Hide(p.ID, h.now())
	q.Seek(q.after(token))
	h.write(w, r, q)
}

func (h *Handler) queue(w http.ResponseWriter, r *http.Request) (*Queue, bool) {
	doc, err := h.Source(r.Context())
	if err != nil {
		h.log().Warn("popup source unavailable", zap.Error(err))
		http.Error(w, "popups unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	all := FromDocument(doc)
	q := &Queue{order: Eligible(all, h.now(), nil, true)}
	q.Load(Eligible(all, h.now(), h.Jar.Store(nil, r), false))
	return q, true
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, q *Queue) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	p, ok := q.Current()
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	var labels Labels
	if h.Messages != nil {
		labels = LabelsFor(h.Messages(r))
	}
	markup, err := Markup(p, q.Index(), q.Len(), labels)
	if err != nil {
		h.log().Warn("render popup", zap.String("popup", p.ID), zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}
	_, _ = w.Write([]byte(markup))
}

// find returns the queue position of the popup whose token is token.
func (q *Queue) find(token string) int {
	for i, p := range q.popups {
		if Token(p.ID) == token {
			return i
		}
	}
	return -1
}

// scheduled looks token up among the popups live today, dismissed or not.
func (q *Queue) scheduled(token string) (Popup, bool) {
	for _, p := range q.order {
		if Token(p.ID) == token {
			return p, true
		}
	}
	return Popup{}, false
}

// after returns the queue position of the first popup ordered after token,
// or -1 when none follows or token is unknown.
func (q *Queue) after(token string) int {
	rank := make(map[string]int, len(q.order))
	pos := -1
	for i, p := range q.order {
		rank[p.ID] = i
		if pos < 0 && Token(p.ID) == token {
			pos = i
		}
	}
	if pos < 0 {
		return -1
	}
	for i, p := range q.popups {
		if r, ok := rank[p.ID]; ok && r > pos {
			return i
		}
	}
	return -1
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handler) log() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
