// Package markdown renders documentation pages: frontmatter, html and the
// heading outline of a markdown source.
package markdown

import (
	"bytes"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	// Renderer converts markdown sources, safe for concurrent use
	Renderer struct {
		md          goldmark.Markdown
		lineNumbers bool
		unsafe      bool
	}
	Option func(*Renderer)

	// Document a rendered page
	Document struct {
		Frontmatter *Frontmatter
		Title       string
		HTML        string
		Headings    []Heading
	}

	// Heading of a document, used to build the outline
	Heading struct {
		Level int    `json:"level"`
		ID    string `json:"id"`
		Text  string `json:"text"`
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(opts ...Option) *Renderer {
	inst := &Renderer{
		unsafe: true,
	}

	for _, opt := range opts {
		opt(inst)
	}

	rendererOptions := []renderer.Option{
		renderer.WithNodeRenderers(util.Prioritized(&codeBlockRenderer{lineNumbers: inst.lineNumbers}, 200)),
	}
	if inst.unsafe {
		rendererOptions = append(rendererOptions, gmhtml.WithUnsafe())
	}

	inst.md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			meta.Meta,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithLineNumbers prefixes fenced code blocks with line numbers
func WithLineNumbers(v bool) Option {
	return func(o *Renderer) {
		o.lineNumbers = v
	}
}

// WithUnsafe passes raw html in the source through, enabled by default
func WithUnsafe(v bool) Option {
	return func(o *Renderer) {
		o.unsafe = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Render parses and renders a markdown source
func (r *Renderer) Render(source []byte) (*Document, error) {
	ctx := parser.NewContext()
	doc := r.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	raw, err := meta.TryGet(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "invalid frontmatter")
	}
	fm, err := DecodeFrontmatter(raw)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, errors.Wrap(err, "failed to render markdown")
	}

	headings := collectHeadings(doc, source)
	ret := &Document{
		Frontmatter: fm,
		Title:       fm.Title,
		HTML:        buf.String(),
		Headings:    headings,
	}
	if ret.Title == "" {
		for _, h := range headings {
			if h.Level == 1 {
				ret.Title = h.Text
				break
			}
		}
	}
	return ret, nil
}

// Outline headings within the given inclusive level range
func Outline(headings []Heading, lo, hi int) []Heading {
	var ret []Heading
	for _, h := range headings {
		if h.Level >= lo && h.Level <= hi && h.ID != "" {
			ret = append(ret, h)
		}
	}
	return ret
}

// TitleFromName derives a title from a file name, "quick-start.md" -> "Quick Start"
func TitleFromName(name string) string {
	name = strings.TrimSuffix(path.Base(name), path.Ext(name))
	if name == "index" || name == "." || name == "/" {
		return ""
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.Und).String(name)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func collectHeadings(doc ast.Node, source []byte) []Heading {
	var ret []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		h := Heading{Level: heading.Level, Text: nodeText(heading, source)}
		if id, ok := heading.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				h.ID = string(b)
			}
		}
		ret = append(ret, h)
		return ast.WalkSkipChildren, nil
	})
	return ret
}

func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
