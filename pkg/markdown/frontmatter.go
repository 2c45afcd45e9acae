package markdown

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Page layouts selectable with the "layout" frontmatter key
const (
	LayoutDoc  = "doc"
	LayoutHome = "home"
	LayoutPage = "page"
)

type (
	// Frontmatter the yaml header of a page
	Frontmatter struct {
		Title           string                 `mapstructure:"title"`
		TitleTemplate   string                 `mapstructure:"titleTemplate"`
		Description     string                 `mapstructure:"description"`
		Layout          string                 `mapstructure:"layout"`
		Hero            *Hero                  `mapstructure:"hero"`
		Features        []Feature              `mapstructure:"features"`
		Outline         site.OutlineLevel      `mapstructure:"-"`
		OutlineDisabled bool                   `mapstructure:"-"`
		Prev            *Neighbour             `mapstructure:"-"`
		Next            *Neighbour             `mapstructure:"-"`
		LastUpdated     *bool                  `mapstructure:"lastUpdated"`
		EditLink        *bool                  `mapstructure:"editLink"`
		Sidebar         *bool                  `mapstructure:"sidebar"`
		Aside           *bool                  `mapstructure:"aside"`
		Raw             map[string]interface{} `mapstructure:"-"`
	}

	Hero struct {
		Name    string       `mapstructure:"name"`
		Text    string       `mapstructure:"text"`
		Tagline string       `mapstructure:"tagline"`
		Image   *Image       `mapstructure:"image"`
		Actions []HeroAction `mapstructure:"actions"`
	}

	Image struct {
		Src string `mapstructure:"src"`
		Alt string `mapstructure:"alt"`
	}

	HeroAction struct {
		Theme string `mapstructure:"theme"`
		Text  string `mapstructure:"text"`
		Link  string `mapstructure:"link"`
	}

	Feature struct {
		Icon     string `mapstructure:"icon"`
		Title    string `mapstructure:"title"`
		Details  string `mapstructure:"details"`
		Link     string `mapstructure:"link"`
		LinkText string `mapstructure:"linkText"`
	}

	// Neighbour overrides the prev/next link of the doc footer.
	// "prev: false" disables it, a string only replaces the text.
	Neighbour struct {
		Disabled bool
		Text     string
		Link     string
	}
)

// LayoutOrDefault layout of the page, doc unless set
func (f *Frontmatter) LayoutOrDefault() string {
	if f.Layout == "" {
		return LayoutDoc
	}
	return f.Layout
}

// Enabled reads an optional switch, def when it is not set
func Enabled(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// DecodeFrontmatter turns the raw yaml header into a Frontmatter
func DecodeFrontmatter(raw map[string]interface{}) (*Frontmatter, error) {
	raw = normalize(raw)
	fm := &Frontmatter{Raw: raw}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           fm,
		DecodeHook:       imageHook,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create frontmatter decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter")
	}
	if v, ok := raw["outline"]; ok {
		fm.Outline, fm.OutlineDisabled = outlineLevel(v)
	}
	if v, ok := raw["prev"]; ok {
		fm.Prev = neighbour(v)
	}
	if v, ok := raw["next"]; ok {
		fm.Next = neighbour(v)
	}
	return fm, nil
}

// imageHook lets "image: /logo.svg" stand for {src: /logo.svg}
func imageHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(Image{}) || from.Kind() != reflect.String {
		return data, nil
	}
	return map[string]interface{}{"src": data}, nil
}

func outlineLevel(v interface{}) (site.OutlineLevel, bool) {
	switch value := v.(type) {
	case bool:
		return nil, !value
	case string:
		if value == site.OutlineDeep {
			return site.OutlineLevel{2, 6}, false
		}
		if n, err := cast.ToIntE(value); err == nil {
			return site.OutlineLevel{n}, false
		}
		return nil, false
	case []interface{}:
		return site.OutlineLevel(cast.ToIntSlice(value)), false
	default:
		if n, err := cast.ToIntE(value); err == nil {
			return site.OutlineLevel{n}, false
		}
		return nil, false
	}
}

func neighbour(v interface{}) *Neighbour {
	switch value := v.(type) {
	case bool:
		return &Neighbour{Disabled: !value}
	case string:
		return &Neighbour{Text: value}
	case map[string]interface{}:
		return &Neighbour{
			Text: cast.ToString(value["text"]),
			Link: cast.ToString(value["link"]),
		}
	default:
		return nil
	}
}

// normalize converts the map[interface{}]interface{} values yaml produces for nested maps
func normalize(raw map[string]interface{}) map[string]interface{} {
	ret := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		ret[k] = normalizeValue(v)
	}
	return ret
}

func normalizeValue(v interface{}) interface{} {
	switch value := v.(type) {
	case map[interface{}]interface{}:
		return normalize(cast.ToStringMap(value))
	case map[string]interface{}:
		return normalize(value)
	case []interface{}:
		ret := make([]interface{}, len(value))
		for i, item := range value {
			ret[i] = normalizeValue(item)
		}
		return ret
	default:
		return v
	}
}
