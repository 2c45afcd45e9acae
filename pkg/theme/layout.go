package theme

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	layoutTemplate     = "layout"
	slotTemplatePrefix = "slot/"
)

type (
	// Layout renders a page, every named slot is resolved through Slot
	Layout interface {
		Render(ctx context.Context, w io.Writer, page *Page) error
		// RenderWith renders the page resolving slots with the given func
		RenderWith(ctx context.Context, w io.Writer, page *Page, slots SlotFunc) error
		Slot(name string) Component
	}

	defaultLayout struct {
		tpl *template.Template
	}

	extendedLayout struct {
		base  Layout
		slots map[string]Component
	}

	// view is the data the layout templates execute on
	view struct {
		*Page
		ctx   context.Context
		slots SlotFunc
	}

	navLink struct {
		View  *view
		Entry site.NavEntry
	}

	templateSlot struct {
		layout *defaultLayout
		name   string
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// Default returns the default layout
func Default() Layout {
	return &defaultLayout{
		tpl: template.Must(template.New("theme").ParseFS(templatesFS, "templates/*.html")),
	}
}

// NewLayout parses a layout from the given templates, it must define "layout"
func NewLayout(tpl *template.Template) (Layout, error) {
	if tpl.Lookup(layoutTemplate) == nil {
		return nil, errors.Errorf("template %q is not defined", layoutTemplate)
	}
	return &defaultLayout{tpl: tpl}, nil
}

// Extend returns a layout identical to base except for the named slot
func Extend(base Layout, name string, c Component) Layout {
	return ExtendAll(base, map[string]Component{name: c})
}

// ExtendAll returns a layout identical to base except for the given slots
func ExtendAll(base Layout, slots map[string]Component) Layout {
	if len(slots) == 0 {
		return base
	}
	copied := make(map[string]Component, len(slots))
	for name, c := range slots {
		if c == nil {
			c = templ.NopComponent
		}
		copied[name] = c
	}
	return &extendedLayout{base: base, slots: copied}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (l *defaultLayout) Render(ctx context.Context, w io.Writer, page *Page) error {
	return l.RenderWith(ctx, w, page, l.Slot)
}

func (l *defaultLayout) RenderWith(ctx context.Context, w io.Writer, page *Page, slots SlotFunc) error {
	if page == nil {
		return errors.New("page must not be nil")
	}
	ctx = WithPage(ctx, page)
	if err := l.tpl.ExecuteTemplate(w, layoutTemplate, &view{Page: page, ctx: ctx, slots: slots}); err != nil {
		return errors.Wrapf(err, "failed to render %s page %q", page.Kind, page.Route)
	}
	return nil
}

// Slot returns the template "slot/<name>" as component, nothing when it is not defined
func (l *defaultLayout) Slot(name string) Component {
	if l.tpl.Lookup(slotTemplatePrefix+name) == nil {
		return templ.NopComponent
	}
	return &templateSlot{layout: l, name: name}
}

func (l *extendedLayout) Render(ctx context.Context, w io.Writer, page *Page) error {
	return l.base.RenderWith(ctx, w, page, l.Slot)
}

func (l *extendedLayout) RenderWith(ctx context.Context, w io.Writer, page *Page, slots SlotFunc) error {
	return l.base.RenderWith(ctx, w, page, slots)
}

func (l *extendedLayout) Slot(name string) Component {
	if c, ok := l.slots[name]; ok {
		return c
	}
	return l.base.Slot(name)
}

// Slot is called by the templates, {{.Slot "home-hero-image"}}
func (v *view) Slot(name string) (template.HTML, error) {
	c := v.slots(name)
	if c == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := c.Render(v.ctx, &buf); err != nil {
		return "", errors.Wrapf(err, "failed to render slot %q", name)
	}
	return template.HTML(buf.String()), nil //nolint:gosec
}

// NavLink pairs an entry with the view for the link templates
func (v *view) NavLink(entry site.NavEntry) *navLink {
	return &navLink{View: v, Entry: entry}
}

func (s *templateSlot) Render(ctx context.Context, w io.Writer) error {
	page := PageFromContext(ctx)
	if page == nil {
		return nil
	}
	return s.layout.tpl.ExecuteTemplate(w, slotTemplatePrefix+s.name, &view{Page: page, ctx: ctx, slots: s.layout.Slot})
}
