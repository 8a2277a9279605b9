package preview

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
	"github.com/sinbibook/yeoyoochae/internal/pages"
)

const (
	// DefaultFallbackDelay is how long a session waits for admin data before
	// rendering the bundled sample document.
	DefaultFallbackDelay = 2 * time.Second

	writeWait      = 10 * time.Second
	maxMessageSize = 8 << 20
)

// Handler upgrades preview frames to a websocket session. The frame relays
// every postMessage it receives from the builder, tagged with the sender's
// origin, and swaps in the markup the session sends back.
type Handler struct {
	Renderer *pages.Renderer
	// Fallback supplies the sample document rendered when no admin data
	// arrives in time. Nil disables the fallback.
	Fallback      func(ctx context.Context) (data.Document, error)
	Allowlist     []string
	FallbackDelay time.Duration
	// Limit and Burst bound inbound messages per connection.
	Limit  rate.Limit
	Burst  int
	Lang   string
	Logger *zap.Logger

	upgrader websocket.Upgrader
}

// NewHandler returns a Handler with the default allowlist and limits.
func NewHandler(r *pages.Renderer, fallback func(ctx context.Context) (data.Document, error), logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Renderer:      r,
		Fallback:      fallback,
		Allowlist:     DefaultAllowlist,
		FallbackDelay: DefaultFallbackDelay,
		Limit:         rate.Limit(20),
		Burst:         40,
		Logger:        logger,
	}
}

// ServeHTTP accepts frames served from this host or an allowlisted origin.
// The page and id query parameters name the page the frame shows.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	self := selfOrigin(r)
	gate := NewOriginGate(self, h.Allowlist)

	up := h.upgrader
	up.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || gate.Allowed(origin)
	}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		h.logger().Warn("preview upgrade failed", zap.Error(err))
		return
	}

	q := r.URL.Query()
	page := q.Get("page")
	if _, ok := pages.ForKind(page); !ok {
		page = pages.KindIndex
	}
	query := url.Values{}
	if id := q.Get("id"); id != "" {
		query.Set("id", id)
	}
	lang := q.Get("lang")
	if lang == "" {
		lang = h.Lang
	}

	s := &Session{
		ID:      ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		h:       h,
		conn:    conn,
		gate:    gate,
		lang:    lang,
		limiter: rate.NewLimiter(h.limit(), h.burst()),
		state:   State{Page: page, Query: query},
	}
	s.log = h.logger().With(zap.String("session", s.ID), zap.String("page", page))
	s.Run(r.Context())
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *Handler) limit() rate.Limit {
	if h.Limit <= 0 {
		return rate.Inf
	}
	return h.Limit
}

func (h *Handler) burst() int {
	if h.Burst <= 0 {
		return 1
	}
	return h.Burst
}

func selfOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}

// Session is one connected preview frame. Only Run writes to the socket.
type Session struct {
	ID string

	h       *Handler
	conn    *websocket.Conn
	gate    *OriginGate
	lang    string
	limiter *rate.Limiter
	log     *zap.Logger

	state State
	page  *mapper.Page
}

type inboundFrame struct {
	raw []byte
	err error
}

// Run announces readiness and then serves messages until the frame goes
// away or ctx ends.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close()

	frames := make(chan inboundFrame)
	go s.read(ctx, frames)

	if err := s.send(Outbound{Type: TemplateReady, Data: map[string]any{"page": s.state.Page}}); err != nil {
		s.log.Debug("preview send ready", zap.Error(err))
		return
	}
	s.log.Info("preview session started")

	var fallback <-chan time.Time
	if s.h.Fallback != nil {
		delay := s.h.FallbackDelay
		if delay <= 0 {
			delay = DefaultFallbackDelay
		}
		t := time.NewTimer(delay)
		defer t.Stop()
		fallback = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-fallback:
			fallback = nil
			if !s.state.AdminDataReceived {
				if err := s.renderFallback(ctx); err != nil {
					s.log.Warn("preview fallback render", zap.Error(err))
				}
			}
		case f, ok := <-frames:
			if !ok {
				return
			}
			if f.err != nil {
				if !websocket.IsCloseError(f.err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.log.Debug("preview read", zap.Error(f.err))
				}
				s.log.Info("preview session ended")
				return
			}
			if err := s.limiter.Wait(ctx); err != nil {
				return
			}
			if err := s.handle(ctx, f.raw); err != nil {
				if isSendError(err) {
					return
				}
				s.log.Warn("preview message dropped", zap.Error(err))
			}
		}
	}
}

func (s *Session) read(ctx context.Context, out chan<- inboundFrame) {
	defer close(out)
	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, raw, err := s.conn.ReadMessage()
		select {
		case out <- inboundFrame{raw: raw, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

type sendError struct{ err error }

func (e sendError) Error() string { return "preview: send: " + e.err.Error() }
func (e sendError) Unwrap() error { return e.err }

func isSendError(err error) bool {
	var se sendError
	return errors.As(err, &se)
}

// handle runs one inbound message through the reducer and performs the
// effect. An accepted push is answered with the rendered markup and then
// exactly one acknowledgement.
func (s *Session) handle(ctx context.Context, raw []byte) error {
	m, err := Decode(raw)
	if err != nil {
		return err
	}
	if err := s.gate.Admit(m.Origin); err != nil {
		s.log.Warn("preview origin rejected", zap.String("origin", m.Origin))
		return err
	}

	next, eff := Reduce(s.state, m)
	s.state = next

	if eff.Navigate != "" {
		if err := s.send(Outbound{Type: NavigationStart, Data: map[string]any{"page": m.Page, "target": eff.Navigate}}); err != nil {
			return err
		}
		return s.send(Outbound{Type: Navigate, Data: map[string]any{"url": eff.Navigate}})
	}

	switch eff.Render {
	case RenderFull:
		if err := s.renderFull(ctx); err != nil {
			return err
		}
	case RenderSection:
		if err := s.renderSection(ctx, eff); err != nil {
			return err
		}
	case RenderTheme:
		if err := s.renderTheme(ctx); err != nil {
			return err
		}
	}

	if eff.Ack == "" {
		return nil
	}
	return s.send(Outbound{Type: eff.Ack, Data: map[string]any{
		"timestamp": time.Now().UnixMilli(),
		"page":      s.state.Page,
	}})
}

func (s *Session) options() pages.Options {
	return pages.Options{Lang: s.lang, Preview: true, Theme: s.state.Theme}
}

func (s *Session) renderFull(ctx context.Context) error {
	p, err := s.h.Renderer.Build(ctx, s.state.Page, s.state.Query, s.state.Data, s.options())
	if err != nil {
		return err
	}
	s.page = p
	return s.sendPage("full")
}

// renderSection updates the retained page in place. A section aimed at a
// page other than the one shown only changes the state.
func (s *Session) renderSection(ctx context.Context, eff Effect) error {
	if s.page == nil {
		return s.renderFull(ctx)
	}
	if eff.Section != "logo" && eff.Page != s.state.Page {
		return nil
	}
	s.page.SetData(s.state.Data)
	if !s.h.Renderer.UpdateSection(s.page, eff.Section) {
		s.log.Debug("preview section unknown", zap.String("section", eff.Section))
	}
	return s.sendPage("section")
}

func (s *Session) renderTheme(ctx context.Context) error {
	if s.page == nil {
		return s.renderFull(ctx)
	}
	pages.ApplyTheme(s.page, s.state.Theme)
	return s.sendPage("theme")
}

func (s *Session) renderFallback(ctx context.Context) error {
	d, err := s.h.Fallback(ctx)
	if err != nil {
		return err
	}
	s.state.Data = d
	s.log.Info("preview rendering sample data")
	return s.renderFull(ctx)
}

func (s *Session) sendPage(mode string) error {
	html, err := pages.HTML(s.page)
	if err != nil {
		return err
	}
	return s.send(Outbound{Type: Rendered, Data: map[string]any{"html": string(html), "mode": mode}})
}

func (s *Session) send(m Outbound) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		return sendError{err: err}
	}
	return nil
}
