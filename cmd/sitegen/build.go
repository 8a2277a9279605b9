package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sinbibook/yeoyoochae/internal/cms"
	"github.com/sinbibook/yeoyoochae/internal/data"
	"github.com/sinbibook/yeoyoochae/internal/handlers"
	"github.com/sinbibook/yeoyoochae/internal/i18n"
	"github.com/sinbibook/yeoyoochae/internal/pages"
	"github.com/sinbibook/yeoyoochae/internal/seo"
)

type buildOptions struct {
	out     string
	public  string
	content string
	baseURL string
	clean   bool
}

func newBuildCmd(g *globalFlags) *cobra.Command {
	o := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page to static HTML",
		Long: `Render every page of the site into the output directory.

Single pages are written as <page>.html. Rooms and facilities are written
per record as rooms/<id>.html and facilities/<id>.html, content pages as
pages/<slug>.html. Public assets and the data document are copied alongside.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), g, o, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&o.out, "out", "o", "dist", "output directory")
	cmd.Flags().StringVar(&o.public, "public", "", "public assets directory (default from config)")
	cmd.Flags().StringVar(&o.content, "content", "", "markdown content directory (default from config)")
	cmd.Flags().StringVar(&o.baseURL, "base-url", "", "absolute site URL used in structured data")
	cmd.Flags().BoolVar(&o.clean, "clean", false, "remove the output directory first")
	return cmd
}

func runBuild(ctx context.Context, g *globalFlags, o *buildOptions, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if o.public == "" {
		o.public = cfg.Site.PublicDir
	}
	if o.content == "" {
		o.content = cfg.Site.ContentDir
	}
	if o.baseURL == "" {
		o.baseURL = cfg.Site.BaseURL
	}
	logger := g.logger()
	defer func() { _ = logger.Sync() }()

	bundle, err := i18n.Load(cfg.Site.LocalesDir, cfg.Site.Lang, cfg.Site.Languages)
	if err != nil {
		return err
	}
	renderer, err := pages.NewRenderer(cfg.Site.TemplatesDir, bundle, logger)
	if err != nil {
		return err
	}
	renderer.Decorators = append(renderer.Decorators, seo.Decorator(o.baseURL))

	d, err := data.NewLoader(data.WithCacheTTL(0)).Load(ctx, cfg.Data.Source)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Data.Source, err)
	}

	if o.clean {
		if err := os.RemoveAll(o.out); err != nil {
			return fmt.Errorf("clean %s: %w", o.out, err)
		}
	}

	b := &builder{ctx: ctx, out: o.out, renderer: renderer, doc: d, lang: cfg.Site.Lang, logger: logger}
	for _, kind := range pages.Kinds() {
		switch kind {
		case pages.KindRoom:
			for _, room := range data.Maps(d.Get("rooms")) {
				id := data.String(room["id"])
				if id == "" {
					continue
				}
				b.page(kind, url.Values{"id": {id}}, filepath.Join("rooms", fileSafe(id)+".html"))
			}
		case pages.KindFacility:
			for _, fac := range data.Maps(d.Get("property.facilities")) {
				id := data.String(fac["id"])
				if id == "" {
					continue
				}
				b.page(kind, url.Values{"id": {id}}, filepath.Join("facilities", fileSafe(id)+".html"))
			}
		default:
			b.page(kind, nil, pages.File(kind))
		}
	}

	store := cms.NewStore(o.content)
	store.Fallback = cfg.Site.Lang
	slugs, err := store.Slugs(cfg.Site.Lang)
	if err != nil {
		return err
	}
	for _, slug := range slugs {
		page, err := store.Page(ctx, slug, cfg.Site.Lang)
		if err != nil {
			b.fail(err)
			continue
		}
		html, err := handlers.RenderContent(ctx, renderer, page, d, cfg.Site.Lang)
		if err != nil {
			b.fail(err)
			continue
		}
		b.write(filepath.Join("pages", fileSafe(slug)+".html"), html)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	b.write("data.json", raw)

	if err := copyDir(o.public, o.out); err != nil {
		b.fail(err)
	}

	if len(b.errs) > 0 {
		return fmt.Errorf("build finished with %d error(s): %w", len(b.errs), errors.Join(b.errs...))
	}
	fmt.Fprintf(w, "built %d file(s) into %s\n", b.files, o.out)
	return nil
}

// builder collects per-file failures so one bad page does not stop the build.
type builder struct {
	ctx      context.Context
	out      string
	renderer *pages.Renderer
	doc      data.Document
	lang     string
	logger   *zap.Logger

	files int
	errs  []error
}

func (b *builder) page(kind string, q url.Values, name string) {
	html, err := b.renderer.Render(b.ctx, kind, q, b.doc, pages.Options{Lang: b.lang})
	if err != nil {
		b.fail(fmt.Errorf("%s: %w", name, err))
		return
	}
	b.write(name, html)
}

func (b *builder) write(name string, body []byte) {
	path := filepath.Join(b.out, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		b.fail(err)
		return
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		b.fail(err)
		return
	}
	b.files++
	b.logger.Info("wrote", zap.String("file", path), zap.Int("bytes", len(body)))
}

func (b *builder) fail(err error) {
	b.logger.Error("build", zap.Error(err))
	b.errs = append(b.errs, err)
}

// copyDir mirrors src into dst. A missing src is not an error.
func copyDir(src, dst string) error {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// fileSafe keeps record ids usable as file names.
func fileSafe(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}
