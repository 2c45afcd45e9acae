package site

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/text/language"
)

// ValidationError a single structural problem of a config
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Path + ": " + e.Message
}

// ValidationErrors unpacks the individual problems of an error returned by Validate
func ValidationErrors(err error) []*ValidationError {
	var ret []*ValidationError
	for _, e := range multierr.Errors(err) {
		var ve *ValidationError
		if errors.As(e, &ve) {
			ret = append(ret, ve)
		}
	}
	return ret
}

type validator struct {
	err error
}

func (v *validator) add(path, format string, args ...interface{}) {
	v.err = multierr.Append(v.err, &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the structure of the config and reports every problem it finds
func (c *SiteConfig) Validate() error {
	v := &validator{}

	if c.Lang != "" {
		if _, err := language.Parse(c.Lang); err != nil {
			v.add("lang", "invalid language tag %q", c.Lang)
		}
	}
	if c.Base != "" && (!strings.HasPrefix(c.Base, PathSeparator) || !strings.HasSuffix(c.Base, PathSeparator)) {
		v.add("base", "base %q must start and end with %q", c.Base, PathSeparator)
	}
	for i, pattern := range c.SrcExclude {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			v.add(fmt.Sprintf("srcExclude[%d]", i), "invalid pattern %q: %s", pattern, err)
		}
	}

	tc := c.ThemeConfig
	v.entries("nav", tc.Nav)
	v.sidebar(tc.Sidebar)
	for i, social := range tc.SocialLinks {
		path := fmt.Sprintf("socialLinks[%d]", i)
		if social.Icon == "" {
			v.add(path, "missing icon")
		}
		if !IsValidURL(social.Link) {
			v.add(path, "social link %q must be an absolute url", social.Link)
		}
	}
	if p := tc.Search.Provider; p != "" && p != SearchProviderLocal {
		v.add("search.provider", "unsupported search provider %q", p)
	}
	if len(tc.Outline.Level) > 2 {
		v.add("outline.level", "expected a level or a [min, max] range, got %d values", len(tc.Outline.Level))
	}
	if lo, hi := tc.Outline.Level.Range(); lo < minHeadingLevel || hi > maxHeadingLevel || lo > hi {
		v.add("outline.level", "invalid heading range [%d, %d]", lo, hi)
	}
	return v.err
}

func (v *validator) sidebar(s Sidebar) {
	seen := map[string]string{}
	for _, prefix := range s.Prefixes() {
		path := fmt.Sprintf("sidebar[%q]", prefix)
		if !IsSiteRelative(prefix) || !strings.HasSuffix(prefix, PathSeparator) {
			v.add(path, "prefix must be a site relative directory like %q", "/guide/")
		}
		normalized := normalizePrefix(prefix)
		if other, ok := seen[normalized]; ok {
			v.add(path, "duplicate prefix, already declared as %q", other)
		}
		seen[normalized] = prefix
		sections := s[prefix]
		if len(sections) == 0 {
			v.add(path, "no sections")
		}
		for i, section := range sections {
			sectionPath := fmt.Sprintf("%s[%d]", path, i)
			if len(section.Items) == 0 {
				v.add(sectionPath, "section %q has no items", section.Text)
			}
			v.entries(sectionPath+".items", section.Items)
		}
	}
}

func (v *validator) entries(path string, entries []NavEntry) {
	for i, entry := range entries {
		entryPath := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case entry.IsLeaf() && entry.Items != nil:
			v.add(entryPath, "entry %q has both a link and items", entry.Text)
		case !entry.IsLeaf() && !entry.IsGroup():
			if entry.Items != nil {
				v.add(entryPath, "group %q has no items", entry.Text)
			} else {
				v.add(entryPath, "entry %q has neither a link nor items", entry.Text)
			}
		case entry.IsLeaf() && !IsValidLink(entry.Link):
			v.add(entryPath, "invalid link %q", entry.Link)
		}
		if entry.Text == "" {
			v.add(entryPath, "missing text")
		}
		if entry.ActiveMatch != "" {
			if _, err := regexp.Compile(entry.ActiveMatch); err != nil {
				v.add(entryPath, "invalid activeMatch %q: %s", entry.ActiveMatch, err)
			}
		}
		v.entries(entryPath+".items", entry.Items)
	}
}
