package handler

import (
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	httputils "github.com/foomo/keel/utils/net/http"
	"github.com/netonframework/docsite/pkg/build"
	"github.com/netonframework/docsite/pkg/metrics"
	"github.com/netonframework/docsite/pkg/repo"
	"github.com/netonframework/docsite/pkg/theme"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type (
	// Pages renders markdown pages of a content tree on request with the currently loaded config
	Pages struct {
		l       *zap.Logger
		repo    *repo.Repo
		source  afero.Fs
		theme   *theme.Theme
		public  http.Handler
		options []build.Option
		builder *build.Builder
		// revision the builder was created for
		revision string
		mu       sync.Mutex
	}
	PagesOption func(*Pages)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewPages(l *zap.Logger, repo *repo.Repo, source afero.Fs, t *theme.Theme, opts ...PagesOption) *Pages {
	inst := &Pages{
		l:      l.Named("pages"),
		repo:   repo,
		source: source,
		theme:  t,
		public: http.FileServer(afero.NewHttpFs(source).Dir("/" + build.PublicDir)),
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// PagesWithBuildOptions options for the builders created per config revision
func PagesWithBuildOptions(v ...build.Option) PagesOption {
	return func(o *Pages) {
		o.options = append(o.options, v...)
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httputils.ServerError(p.l, w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	builder, err := p.getBuilder()
	if err != nil {
		httputils.ServerError(p.l, w, r, http.StatusServiceUnavailable, err)
		return
	}

	urlPath := path.Clean("/" + r.URL.Path)
	if base := p.repo.Config().Base; base != "" && base != "/" {
		prefix := "/" + strings.Trim(base, "/")
		if urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/") {
			urlPath = path.Clean("/" + strings.TrimPrefix(urlPath, prefix))
		}
	}
	if strings.HasSuffix(r.URL.Path, "/") && urlPath != "/" {
		urlPath += "/"
	}

	if urlPath == "/"+build.StylesheetFile {
		p.serveStylesheet(w, r)
		return
	}

	file, ok := p.resolve(urlPath)
	if !ok {
		if ext := path.Ext(urlPath); ext != "" && ext != ".html" {
			p.servePublic(w, r, urlPath)
			return
		}
		p.serveNotFound(w, r, builder)
		return
	}

	p.render(w, r, builder, build.Route(file), http.StatusOK)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

// getBuilder returns a builder for the current config, recreated when the revision changes
func (p *Pages) getBuilder() (*build.Builder, error) {
	snapshot := p.repo.Snapshot()
	if snapshot == nil {
		return nil, errors.New("site config not loaded yet")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.builder != nil && p.revision == snapshot.Revision {
		return p.builder, nil
	}
	opts := append([]build.Option{build.WithTheme(p.theme)}, p.options...)
	builder, err := build.New(p.l, snapshot.Config, p.source, afero.NewMemMapFs(), opts...)
	if err != nil {
		return nil, err
	}
	p.l.Info("created page builder", zap.String("revision", snapshot.Revision))
	p.builder, p.revision = builder, snapshot.Revision
	return builder, nil
}

// resolve finds the markdown file of a route, "/guide/" is guide/index.md and "/guide/routing" is guide/routing.md
func (p *Pages) resolve(urlPath string) (string, bool) {
	name := strings.TrimPrefix(strings.TrimSuffix(urlPath, ".html"), "/")
	var candidates []string
	switch {
	case name == "" || strings.HasSuffix(name, "/"):
		candidates = []string{name + "index.md"}
	default:
		candidates = []string{name + ".md", name + "/index.md"}
	}
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, build.PublicDir+"/") {
			continue
		}
		if ok, err := afero.Exists(p.source, "/"+candidate); err == nil && ok {
			return candidate, true
		}
	}
	return "", false
}

// servePublic serves a file of the public dir, urlPath is relative to the site base
func (p *Pages) servePublic(w http.ResponseWriter, r *http.Request, urlPath string) {
	pr := r.Clone(r.Context())
	pr.URL.Path = urlPath
	pr.URL.RawPath = ""
	p.public.ServeHTTP(w, pr)
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, builder *build.Builder, src build.Source, status int) {
	start := time.Now()
	kind := string(theme.KindDoc)
	result := "success"
	defer func() {
		metrics.PageRenderDuration.WithLabelValues(kind, result).Observe(time.Since(start).Seconds())
	}()

	data, err := afero.ReadFile(p.source, "/"+src.File)
	if err != nil {
		result = "error"
		httputils.ServerError(p.l, w, r, http.StatusInternalServerError, errors.Wrapf(err, "failed to read %q", src.File))
		return
	}
	page, _, err := builder.Page(src, data)
	if err != nil {
		result = "error"
		httputils.ServerError(p.l, w, r, http.StatusInternalServerError, errors.Wrapf(err, "failed to render %q", src.File))
		return
	}
	if src.File == build.NotFoundSource {
		page.Kind = theme.KindNotFound
	}
	kind = string(page.Kind)

	out, err := builder.RenderPage(r.Context(), page)
	if err != nil {
		result = "error"
		httputils.ServerError(p.l, w, r, http.StatusInternalServerError, errors.Wrapf(err, "failed to render %q", src.File))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (p *Pages) serveNotFound(w http.ResponseWriter, r *http.Request, builder *build.Builder) {
	if ok, err := afero.Exists(p.source, "/"+build.NotFoundSource); err == nil && ok {
		p.render(w, r, builder, build.Route(build.NotFoundSource), http.StatusNotFound)
		return
	}
	out, err := builder.RenderPage(r.Context(), &theme.Page{
		Site:        p.repo.Config(),
		Route:       r.URL.Path,
		Kind:        theme.KindNotFound,
		Title:       "404",
		Stylesheets: []string{"/" + build.StylesheetFile},
	})
	if err != nil {
		httputils.ServerError(p.l, w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(out)
}

func (p *Pages) serveStylesheet(w http.ResponseWriter, r *http.Request) {
	css, err := p.theme.Stylesheet()
	if err != nil {
		httputils.ServerError(p.l, w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(css))
}
