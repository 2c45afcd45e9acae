package theme_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/netonframework/docsite/pkg/markdown"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/netonframework/docsite/pkg/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = "@@SLOT@@"

func homePage() *theme.Page {
	return &theme.Page{
		Site:  site.Default(),
		Route: "/",
		Kind:  theme.KindHome,
		Title: "Neton Framework",
		Hero: &markdown.Hero{
			Name:    "Neton",
			Text:    "Kotlin web framework",
			Tagline: "small and fast",
			Image:   &markdown.Image{Src: "/logo.svg", Alt: "logo"},
			Actions: []markdown.HeroAction{{Theme: "brand", Text: "Get started", Link: "/guide/"}},
		},
		Features: []markdown.Feature{{Title: "Native", Details: "no jvm"}},
	}
}

func docPage() *theme.Page {
	cfg := site.Default()
	loc := cfg.Locate("/guide/routing")
	return &theme.Page{
		Site:        cfg,
		Route:       loc.Path,
		Kind:        theme.KindDoc,
		Title:       "路由与控制器",
		Content:     `<h1 id="routing">Routing</h1><h2 id="controllers">Controllers</h2>`,
		Location:    loc,
		Outline:     []markdown.Heading{{Level: 2, ID: "controllers", Text: "Controllers"}},
		Prev:        loc.Prev,
		Next:        loc.Next,
		LastUpdated: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		ShowSidebar: true,
		ShowAside:   true,
	}
}

func render(t *testing.T, l theme.Layout, page *theme.Page) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, l.Render(context.Background(), &b, page))
	return b.String()
}

func renderComponent(t *testing.T, c theme.Component, page *theme.Page) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, c.Render(theme.WithPage(context.Background(), page), &b))
	return b.String()
}

func stub(s string) theme.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestExtendSubstitutesOnlyTheNamedSlot(t *testing.T) {
	base := theme.Default()
	hero := theme.HeroCode(theme.NetonHeroSample, theme.NetonHeroLanguage)

	for _, page := range []*theme.Page{homePage(), docPage()} {
		for _, name := range theme.Slots() {
			t.Run(string(page.Kind)+"/"+name, func(t *testing.T) {
				var want bytes.Buffer
				require.NoError(t, base.RenderWith(context.Background(), &want, page, func(n string) theme.Component {
					if n == name {
						return stub(marker)
					}
					return base.Slot(n)
				}))
				got := render(t, theme.Extend(base, name, hero), page)
				assert.Equal(t, strings.Replace(want.String(), marker, renderComponent(t, hero, page), 1), got)
			})
		}
	}
}

func TestDefaultHeroImage(t *testing.T) {
	out := render(t, theme.Default(), homePage())
	assert.Contains(t, out, `<img class="hero-image-src" src="/logo.svg" alt="logo">`)
	assert.Contains(t, out, `<h1 class="hero-name">Neton</h1>`)
	assert.Contains(t, out, `<h2 class="feature-title">Native</h2>`)
	assert.NotContains(t, out, "hero-code")
}

func TestNetonTheme(t *testing.T) {
	neton := theme.Neton()
	assert.Equal(t, []string{"default", "neton"}, neton.Chain())

	out := render(t, neton.Layout(), homePage())
	assert.Contains(t, out, `<div class="hero-code">`)
	assert.Contains(t, out, `class="language-kotlin"`)
	assert.NotContains(t, out, "hero-image-src")

	// every other region is untouched
	assert.Equal(t, render(t, theme.Default(), docPage()), render(t, neton.Layout(), docPage()))

	css, err := neton.Stylesheet()
	require.NoError(t, err)
	assert.Less(t, strings.Index(css, "--sidebar-width"), strings.Index(css, "--hero-gradient"))
	assert.Contains(t, css, ".chroma")
}

func TestExtendOutermostWins(t *testing.T) {
	inner := theme.Extend(theme.Default(), theme.SlotDocBefore, stub("inner"))
	outer := theme.Extend(inner, theme.SlotDocBefore, stub("outer"))
	out := render(t, outer, docPage())
	assert.Contains(t, out, "outer")
	assert.NotContains(t, out, "inner")

	both := theme.Extend(inner, theme.SlotDocAfter, stub("after"))
	out = render(t, both, docPage())
	assert.Contains(t, out, "inner")
	assert.Contains(t, out, "after")
}

func TestExtendUnknownSlot(t *testing.T) {
	ext := theme.Extend(theme.Default(), "does-not-exist", stub(marker))
	out := render(t, ext, docPage())
	assert.NotContains(t, out, marker)
	assert.Equal(t, render(t, theme.Default(), docPage()), out)
}

func TestExtendedSlotOfOtherKind(t *testing.T) {
	// home slots are not rendered on doc pages
	ext := theme.Extend(theme.Default(), theme.SlotHomeHeroImage, stub(marker))
	assert.NotContains(t, render(t, ext, docPage()), marker)
	assert.Contains(t, render(t, ext, homePage()), marker)
}

func TestComponentReadsPage(t *testing.T) {
	c := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "route="+theme.PageFromContext(ctx).Route)
		return err
	})
	out := render(t, theme.Extend(theme.Default(), theme.SlotDocAfter, c), docPage())
	assert.Contains(t, out, "route=/guide/routing")
	assert.Nil(t, theme.PageFromContext(context.Background()))
}

func TestDocPage(t *testing.T) {
	out := render(t, theme.Default(), docPage())
	assert.Contains(t, out, `<html lang="zh-CN">`)
	assert.Contains(t, out, "<title>路由与控制器 | Neton Framework</title>")
	assert.Contains(t, out, `class="sidebar-link active" href="/guide/routing"`)
	assert.Contains(t, out, `class="nav-link active" href="/guide/"`)
	assert.Contains(t, out, `<a href="#controllers">Controllers</a>`)
	assert.Contains(t, out, `<time datetime="2025-03-01T12:00:00Z">`)
	assert.Contains(t, out, `class="pager-link prev" href="/guide/project-structure"`)
	assert.Contains(t, out, `class="pager-link next" href="/guide/parameter-binding"`)
	assert.Contains(t, out, "Copyright 2025-present")
}

func TestNotFoundPage(t *testing.T) {
	out := render(t, theme.Default(), &theme.Page{Site: site.Default(), Kind: theme.KindNotFound, Route: "/404"})
	assert.Contains(t, out, "PAGE NOT FOUND")
}

func TestRenderNilPage(t *testing.T) {
	assert.Error(t, theme.Default().Render(context.Background(), io.Discard, nil))
}

func TestKindFromLayout(t *testing.T) {
	assert.Equal(t, theme.KindHome, theme.KindFromLayout(markdown.LayoutHome))
	assert.Equal(t, theme.KindPage, theme.KindFromLayout(markdown.LayoutPage))
	assert.Equal(t, theme.KindDoc, theme.KindFromLayout(""))
}

func TestLookup(t *testing.T) {
	for name, want := range map[string]string{"": "neton", "neton": "neton", "default": "default"} {
		th, err := theme.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, want, th.Name)
	}
	_, err := theme.Lookup("vitepress")
	assert.Error(t, err)
}
