package theme

import (
	"context"
	"html/template"
	"strings"
	"time"

	"github.com/netonframework/docsite/pkg/markdown"
	"github.com/netonframework/docsite/pkg/site"
)

// Kind selects the page layout
type Kind string

const (
	KindHome     Kind = "home"
	KindDoc      Kind = "doc"
	KindPage     Kind = "page"
	KindNotFound Kind = "404"
)

type (
	// Page everything a layout renders
	Page struct {
		Site        *site.SiteConfig
		Route       string
		Kind        Kind
		Title       string
		Description string
		Content     string
		Location    *site.Location
		Outline     []markdown.Heading
		Hero        *markdown.Hero
		Features    []markdown.Feature
		Prev        *site.NavEntry
		Next        *site.NavEntry
		LastUpdated time.Time
		ShowSidebar bool
		ShowAside   bool
		Stylesheets []string
	}

	pageContextKey struct{}
)

// KindFromLayout maps the frontmatter layout to a page kind
func KindFromLayout(layout string) Kind {
	switch layout {
	case markdown.LayoutHome:
		return KindHome
	case markdown.LayoutPage:
		return KindPage
	default:
		return KindDoc
	}
}

// WithPage stores the page being rendered on the context
func WithPage(ctx context.Context, page *Page) context.Context {
	return context.WithValue(ctx, pageContextKey{}, page)
}

// PageFromContext returns the page being rendered, nil outside of a render
func PageFromContext(ctx context.Context) *Page {
	if page, ok := ctx.Value(pageContextKey{}).(*Page); ok {
		return page
	}
	return nil
}

// FullTitle page title followed by the site title
func (p *Page) FullTitle() string {
	switch {
	case p.Site == nil:
		return p.Title
	case p.Title == "" || p.Title == p.Site.Title:
		return p.Site.Title
	default:
		return p.Title + " | " + p.Site.Title
	}
}

// Href prefixes site relative links with the configured base
func (p *Page) Href(link string) string {
	if p.Site == nil || site.IsExternalLink(link) {
		return link
	}
	return site.WithBase(p.Site.Base, link)
}

// IsActive reports whether the entry links to the current page
func (p *Page) IsActive(entry site.NavEntry) bool {
	if entry.IsExternal() || !entry.IsLeaf() || p.Site == nil {
		return false
	}
	return site.SamePage(site.NormalizePath(p.Site.Base, entry.Link), p.Route)
}

// IsActiveNav reports whether the top level nav entry is highlighted for this page
func (p *Page) IsActiveNav(entry site.NavEntry) bool {
	if p.Location == nil || p.Location.Nav == nil {
		return false
	}
	return p.Location.Nav.Text == entry.Text && p.Location.Nav.Link == entry.Link
}

// HTML rendered markdown content
func (p *Page) HTML() template.HTML {
	return template.HTML(p.Content) //nolint:gosec
}

// Lang document language, defaults to en-US
func (p *Page) Lang() string {
	if p.Site == nil || p.Site.Lang == "" {
		return "en-US"
	}
	return p.Site.Lang
}

// HeadingIndent css class for an outline entry
func (p *Page) HeadingIndent(h markdown.Heading) string {
	lo := 2
	if len(p.Outline) > 0 {
		lo = p.Outline[0].Level
		for _, o := range p.Outline {
			if o.Level < lo {
				lo = o.Level
			}
		}
	}
	return "outline-level-" + strings.Repeat("i", h.Level-lo+1)
}
