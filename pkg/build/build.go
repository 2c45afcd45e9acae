// Package build renders a markdown content tree into a static site.
package build

import (
	"bytes"
	"context"
	"path"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/netonframework/docsite/pkg/markdown"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/netonframework/docsite/pkg/theme"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StylesheetFile theme stylesheet in the output root
const StylesheetFile = "assets/style.css"

type (
	Builder struct {
		l           *zap.Logger
		cfg         *site.SiteConfig
		source      afero.Fs
		target      afero.Fs
		theme       *theme.Theme
		layout      theme.Layout
		renderer    *markdown.Renderer
		minifier    *minifier
		excludes    excludes
		index       *site.Index
		lastUpdated LastUpdatedFunc
		concurrency int
		strict      bool
	}
	Option func(*Builder)

	// Report summary of a build
	Report struct {
		Pages       int            `json:"pages"`
		Assets      int            `json:"assets"`
		Routes      []string       `json:"routes"`
		BrokenLinks []site.LinkRef `json:"brokenLinks,omitempty"`
		Duration    time.Duration  `json:"duration"`
		Search      *SearchIndex   `json:"-"`
	}

	result struct {
		source Source
		docs   []SearchDocument
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New validates the config and returns a builder reading source and writing target
func New(l *zap.Logger, cfg *site.SiteConfig, source, target afero.Fs, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid site config")
	}
	inst := &Builder{
		l:           l.Named("build"),
		cfg:         cfg,
		source:      source,
		target:      target,
		theme:       theme.Neton(),
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(inst)
	}

	excludes, err := compileExcludes(cfg.SrcExclude)
	if err != nil {
		return nil, err
	}
	inst.excludes = excludes
	inst.layout = inst.theme.Layout()
	inst.renderer = markdown.New(markdown.WithLineNumbers(cfg.Markdown.LineNumbers))
	inst.index = site.NewIndex(cfg.ThemeConfig.Sidebar)
	if inst.lastUpdated == nil {
		inst.lastUpdated = ModTime(source)
	}
	if inst.concurrency < 1 {
		inst.concurrency = 1
	}
	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithTheme(v *theme.Theme) Option {
	return func(o *Builder) {
		o.theme = v
	}
}

func WithMinify(v bool) Option {
	return func(o *Builder) {
		if v {
			o.minifier = newMinifier()
		} else {
			o.minifier = nil
		}
	}
}

func WithConcurrency(v int) Option {
	return func(o *Builder) {
		o.concurrency = v
	}
}

// WithStrict fails the build on broken links
func WithStrict(v bool) Option {
	return func(o *Builder) {
		o.strict = v
	}
}

func WithLastUpdated(v LastUpdatedFunc) Option {
	return func(o *Builder) {
		o.lastUpdated = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Build renders every page, copies the assets and writes the search index
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	sources, err := collect(b.source, b.excludes)
	if err != nil {
		return nil, err
	}
	b.l.Info("building site", zap.Int("pages", len(sources)), zap.Strings("theme", b.theme.Chain()))

	assets, err := copyPublic(b.source, b.target)
	if err != nil {
		return nil, err
	}
	report.Assets = assets

	if err := b.writeStylesheet(); err != nil {
		return nil, err
	}
	report.Assets++

	results := make([]result, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs, err := b.renderSource(gctx, src)
			if err != nil {
				return errors.Wrapf(err, "failed to build %q", src.File)
			}
			results[i] = result{source: src, docs: docs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	routes := map[string]bool{}
	search := &SearchIndex{}
	hasNotFound := false
	for _, r := range results {
		if r.source.File == NotFoundSource {
			hasNotFound = true
			continue
		}
		routes[r.source.Route] = true
		report.Routes = append(report.Routes, r.source.Route)
		search.Documents = append(search.Documents, r.docs...)
	}
	report.Pages = len(results)

	if !hasNotFound {
		if err := b.renderNotFound(ctx); err != nil {
			return nil, err
		}
		report.Pages++
	}

	if b.cfg.SearchEnabled() {
		search.Sort()
		if err := b.writeJSON(SearchIndexFile, search); err != nil {
			return nil, err
		}
		report.Search = search
	}

	report.BrokenLinks = CheckLinks(b.cfg, routes)
	for _, ref := range report.BrokenLinks {
		b.l.Warn("broken link", zap.String("path", ref.Path), zap.String("link", ref.Link))
	}
	report.Duration = time.Since(start)
	b.l.Info("site built",
		zap.Int("pages", report.Pages),
		zap.Int("assets", report.Assets),
		zap.Int("broken_links", len(report.BrokenLinks)),
		zap.Duration("duration", report.Duration),
	)
	if b.strict && len(report.BrokenLinks) > 0 {
		return report, errors.Wrapf(ErrBrokenLinks, "%d nav or sidebar links do not resolve", len(report.BrokenLinks))
	}
	return report, nil
}

// Page renders a single markdown source into a theme page
func (b *Builder) Page(src Source, data []byte) (*theme.Page, *markdown.Document, error) {
	doc, err := b.renderer.Render(data)
	if err != nil {
		return nil, nil, err
	}
	return b.page(src, doc), doc, nil
}

// RenderPage renders a theme page with the builders layout
func (b *Builder) RenderPage(ctx context.Context, page *theme.Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.layout.Render(ctx, &buf, page); err != nil {
		return nil, err
	}
	return b.minifier.Bytes(mimeHTML, buf.Bytes())
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (b *Builder) renderSource(ctx context.Context, src Source) ([]SearchDocument, error) {
	data, err := afero.ReadFile(b.source, path.Join("/", src.File))
	if err != nil {
		return nil, err
	}
	page, doc, err := b.Page(src, data)
	if err != nil {
		return nil, err
	}
	if src.File == NotFoundSource {
		page.Kind = theme.KindNotFound
	}
	out, err := b.RenderPage(ctx, page)
	if err != nil {
		return nil, err
	}
	if err := writeFile(b.target, src.Output, out); err != nil {
		return nil, err
	}
	if page.Kind == theme.KindNotFound || !b.cfg.SearchEnabled() {
		return nil, nil
	}
	return sections(src.Route, page.Title, doc.HTML)
}

func (b *Builder) page(src Source, doc *markdown.Document) *theme.Page {
	fm := doc.Frontmatter
	loc := b.cfg.LocateIndexed(b.index, src.Route)
	page := &theme.Page{
		Site:        b.cfg,
		Route:       src.Route,
		Kind:        theme.KindFromLayout(fm.LayoutOrDefault()),
		Title:       doc.Title,
		Description: fm.Description,
		Content:     doc.HTML,
		Location:    loc,
		Hero:        fm.Hero,
		Features:    fm.Features,
		Prev:        neighbour(loc.Prev, fm.Prev),
		Next:        neighbour(loc.Next, fm.Next),
		Stylesheets: []string{"/" + StylesheetFile},
	}
	if page.Title == "" && loc.Entry != nil {
		page.Title = loc.Entry.Text
	}
	if page.Title == "" {
		page.Title = markdown.TitleFromName(src.File)
	}
	if page.Description == "" {
		page.Description = b.cfg.Description
	}
	if page.Kind == theme.KindDoc {
		page.ShowSidebar = markdown.Enabled(fm.Sidebar, true) && len(loc.Sections) > 0
		page.ShowAside = markdown.Enabled(fm.Aside, true)
		if !fm.OutlineDisabled {
			level := b.cfg.ThemeConfig.Outline.Level
			if len(fm.Outline) > 0 {
				level = fm.Outline
			}
			lo, hi := level.Range()
			page.Outline = markdown.Outline(doc.Headings, lo, hi)
		}
		if b.cfg.LastUpdated && markdown.Enabled(fm.LastUpdated, true) {
			if t, err := b.lastUpdated(src.File); err == nil {
				page.LastUpdated = t
			} else {
				b.l.Debug("no last updated time", zap.String("file", src.File), zap.Error(err))
			}
		}
	} else {
		page.Prev, page.Next = nil, nil
	}
	return page
}

// neighbour applies the frontmatter prev/next override to the sidebar neighbour
func neighbour(entry *site.NavEntry, override *markdown.Neighbour) *site.NavEntry {
	if override == nil {
		return entry
	}
	if override.Disabled {
		return nil
	}
	ret := site.NavEntry{}
	if entry != nil {
		ret = *entry
	}
	if override.Text != "" {
		ret.Text = override.Text
	}
	if override.Link != "" {
		ret.Link = override.Link
	}
	if ret.Link == "" {
		return nil
	}
	return &ret
}

func (b *Builder) renderNotFound(ctx context.Context) error {
	out, err := b.RenderPage(ctx, &theme.Page{
		Site:        b.cfg,
		Route:       "/404",
		Kind:        theme.KindNotFound,
		Title:       "404",
		Stylesheets: []string{"/" + StylesheetFile},
	})
	if err != nil {
		return err
	}
	return writeFile(b.target, "404.html", out)
}

func (b *Builder) writeStylesheet() error {
	css, err := b.theme.Stylesheet()
	if err != nil {
		return err
	}
	data, err := b.minifier.Bytes(mimeCSS, []byte(css))
	if err != nil {
		return err
	}
	return writeFile(b.target, StylesheetFile, data)
}

func (b *Builder) writeJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %q", name)
	}
	if data, err = b.minifier.Bytes(mimeJSON, data); err != nil {
		return err
	}
	return writeFile(b.target, name, data)
}
