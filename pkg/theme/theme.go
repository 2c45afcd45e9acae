package theme

import (
	_ "embed"
	"strings"

	"github.com/netonframework/docsite/pkg/markdown"
	"github.com/pkg/errors"
)

var (
	//go:embed assets/default.css
	defaultCSS string
	//go:embed assets/neton.css
	netonCSS string
)

// Theme a layout with slot overrides, optionally extending another theme
type Theme struct {
	Name    string
	Extends *Theme
	// Base layout of a root theme, the default layout when nil
	Base   Layout
	Slots  map[string]Component
	Styles []string
}

// DefaultTheme the default layout with its stylesheet
func DefaultTheme() *Theme {
	return &Theme{
		Name:   "default",
		Base:   Default(),
		Styles: []string{defaultCSS},
	}
}

// Neton extends the default theme and shows a code sample as hero image
func Neton() *Theme {
	return &Theme{
		Name:    "neton",
		Extends: DefaultTheme(),
		Slots: map[string]Component{
			SlotHomeHeroImage: HeroCode(NetonHeroSample, NetonHeroLanguage),
		},
		Styles: []string{netonCSS},
	}
}

// Lookup a built-in theme by name
func Lookup(name string) (*Theme, error) {
	switch name {
	case "default":
		return DefaultTheme(), nil
	case "neton", "":
		return Neton(), nil
	default:
		return nil, errors.Errorf("unknown theme %q", name)
	}
}

// Layout resolves the layout of the theme along its chain, the closest override of a slot wins
func (t *Theme) Layout() Layout {
	var base Layout
	switch {
	case t.Base != nil:
		base = t.Base
	case t.Extends != nil:
		base = t.Extends.Layout()
	default:
		base = Default()
	}
	return ExtendAll(base, t.Slots)
}

// Chain the theme names from the root theme to this one
func (t *Theme) Chain() []string {
	var ret []string
	if t.Extends != nil {
		ret = t.Extends.Chain()
	}
	return append(ret, t.Name)
}

// Stylesheet css of the whole chain, parents first, followed by the code highlight css
func (t *Theme) Stylesheet() (string, error) {
	var b strings.Builder
	t.writeStyles(&b)
	css, err := markdown.HighlightCSS()
	if err != nil {
		return "", err
	}
	b.WriteString(css)
	return b.String(), nil
}

func (t *Theme) writeStyles(b *strings.Builder) {
	if t.Extends != nil {
		t.Extends.writeStyles(b)
	}
	for _, style := range t.Styles {
		b.WriteString(style)
		if !strings.HasSuffix(style, "\n") {
			b.WriteString("\n")
		}
	}
}
