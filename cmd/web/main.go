package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sinbibook/yeoyoochae/internal/cms"
	"github.com/sinbibook/yeoyoochae/internal/config"
	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/handlers"
	"github.com/sinbibook/yeoyoochae/internal/i18n"
	mw "github.com/sinbibook/yeoyoochae/internal/middleware"
	"github.com/sinbibook/yeoyoochae/internal/observability"
	"github.com/sinbibook/yeoyoochae/internal/pages"
	"github.com/sinbibook/yeoyoochae/internal/popup"
	"github.com/sinbibook/yeoyoochae/internal/preview"
	"github.com/sinbibook/yeoyoochae/internal/seo"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var addr string
	flag.StringVar(&addr, "addr", cfg.Server.Addr(), "HTTP listen address")
	flag.StringVar(&cfg.Site.TemplatesDir, "templates", cfg.Site.TemplatesDir, "templates directory")
	flag.StringVar(&cfg.Site.PublicDir, "public", cfg.Site.PublicDir, "public assets directory")
	flag.StringVar(&cfg.Data.Source, "data", cfg.Data.Source, "data document path or URL")
	flag.Parse()

	logger, err := observability.NewLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("init", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           app.router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ErrorLog:          log.New(observability.NewPrintfAdapter(logger), "", 0),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening", zap.String("addr", addr), zap.Bool("dev", cfg.Dev), zap.String("data", cfg.Data.Source))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("listen", zap.Error(err))
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// app holds the wired dependencies behind the router.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	bundle   *i18n.Bundle
	loader   *data.Loader
	renderer *pages.Renderer
	content  *cms.Store
	jar      popup.CookieJar
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	bundle, err := i18n.Load(cfg.Site.LocalesDir, cfg.Site.Lang, cfg.Site.Languages)
	if err != nil {
		return nil, err
	}
	renderer, err := pages.NewRenderer(cfg.Site.TemplatesDir, bundle, logger)
	if err != nil {
		return nil, err
	}
	renderer.Reload = cfg.Dev
	renderer.Decorators = append(renderer.Decorators, seo.Decorator(cfg.Site.BaseURL))

	content := cms.NewStore(cfg.Site.ContentDir)
	content.Fallback = cfg.Site.Lang
	if cfg.Dev {
		content.TTL = 0
	}

	key := []byte(cfg.Cookie.Secret)
	if len(key) == 0 {
		logger.Warn("YEOYOOCHAE_COOKIE_SECRET unset, popup dismissals use an ephemeral key")
		key = []byte(ephemeralKey())
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		bundle: bundle,
		loader: data.NewLoader(
			data.WithFallback(cfg.Data.Fallback),
			data.WithCacheTTL(cfg.Data.CacheTTL),
		),
		renderer: renderer,
		content:  content,
		jar:      popup.CookieJar{Key: key, Secure: cfg.Cookie.Secure},
	}, nil
}

func (a *app) document(ctx context.Context) (data.Document, error) {
	return a.loader.Load(ctx, a.cfg.Data.Source)
}

func (a *app) sample(ctx context.Context) (data.Document, error) {
	return a.loader.Load(ctx, a.cfg.Data.Fallback)
}

func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(mw.InjectLogger(a.logger))
	r.Use(mw.HTMX)
	r.Use(mw.Logger)
	r.Use(chimw.Recoverer)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/static/*", mw.AssetsWithCache("/static", a.cfg.Site.PublicDir, a.cfg.Dev))

	// The preview socket is long lived and skips compression and timeouts.
	ph := preview.NewHandler(a.renderer, a.sample, a.logger.Named("preview"))
	ph.Allowlist = append(append([]string{}, preview.DefaultAllowlist...), a.cfg.Preview.Origins...)
	ph.FallbackDelay = a.cfg.Preview.FallbackDelay
	ph.Limit = rate.Limit(a.cfg.Preview.RatePerSecond)
	ph.Burst = a.cfg.Preview.Burst
	ph.Lang = a.cfg.Site.Lang
	r.Handle("/preview/ws", ph)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.Timeout(30 * time.Second))
		r.Use(mw.Locale(a.bundle))
		r.Use(mw.VaryLocale)
		r.Use(mw.CSRF(a.cfg.Cookie.Secure))

		site := &handlers.Site{
			Renderer: a.renderer,
			Source:   a.document,
			Content:  a.content,
			Jar:      a.jar,
		}
		site.Routes(r)

		popups := &popup.Handler{
			Source: a.document,
			Jar:    a.jar,
			Messages: func(r *http.Request) i18n.Localizer {
				return a.bundle.For(mw.Lang(r))
			},
			Logger: a.logger.Named("popup"),
		}
		r.With(mw.NoStore).Group(popups.Routes)
	})
	return r
}
