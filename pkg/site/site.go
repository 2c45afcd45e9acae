// Package site describes a documentation site: its metadata, the top navigation
// and the sidebar tree keyed by URL path prefix.
//
// A SiteConfig is built once and never mutated afterwards. Everything in this
// package reads it, nothing writes to it.
package site

const (
	// PathSeparator separator for site relative paths
	PathSeparator = "/"
	// SearchProviderLocal builds a local search index next to the site
	SearchProviderLocal = "local"
)

type (
	// SiteConfig aggregates everything a build or a server needs to know about a site
	SiteConfig struct {
		Title       string         `json:"title" yaml:"title" toml:"title"`
		Description string         `json:"description" yaml:"description" toml:"description"`
		Lang        string         `json:"lang" yaml:"lang" toml:"lang"`
		Base        string         `json:"base" yaml:"base" toml:"base"`
		CleanURLs   bool           `json:"cleanUrls,omitempty" yaml:"cleanUrls,omitempty" toml:"cleanUrls,omitempty"`
		LastUpdated bool           `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty" toml:"lastUpdated,omitempty"`
		SrcExclude  []string       `json:"srcExclude,omitempty" yaml:"srcExclude,omitempty" toml:"srcExclude,omitempty"`
		ThemeConfig ThemeConfig    `json:"themeConfig" yaml:"themeConfig" toml:"themeConfig"`
		Markdown    MarkdownConfig `json:"markdown" yaml:"markdown" toml:"markdown"`
	}

	// ThemeConfig navigation and ui copy consumed by the theme
	ThemeConfig struct {
		Nav                 []NavEntry        `json:"nav" yaml:"nav" toml:"nav"`
		Sidebar             Sidebar           `json:"sidebar" yaml:"sidebar" toml:"sidebar"`
		SocialLinks         []SocialLink      `json:"socialLinks,omitempty" yaml:"socialLinks,omitempty" toml:"socialLinks,omitempty"`
		Search              SearchConfig      `json:"search" yaml:"search" toml:"search"`
		Footer              FooterConfig      `json:"footer" yaml:"footer" toml:"footer"`
		Outline             OutlineConfig     `json:"outline" yaml:"outline" toml:"outline"`
		DocFooter           DocFooterConfig   `json:"docFooter" yaml:"docFooter" toml:"docFooter"`
		LastUpdated         LastUpdatedConfig `json:"lastUpdated" yaml:"lastUpdated" toml:"lastUpdated"`
		ReturnToTopLabel    string            `json:"returnToTopLabel,omitempty" yaml:"returnToTopLabel,omitempty" toml:"returnToTopLabel,omitempty"`
		SidebarMenuLabel    string            `json:"sidebarMenuLabel,omitempty" yaml:"sidebarMenuLabel,omitempty" toml:"sidebarMenuLabel,omitempty"`
		DarkModeSwitchLabel string            `json:"darkModeSwitchLabel,omitempty" yaml:"darkModeSwitchLabel,omitempty" toml:"darkModeSwitchLabel,omitempty"`
	}

	// NavEntry is either a leaf with a link or a group with items, never both
	NavEntry struct {
		Text        string     `json:"text" yaml:"text" toml:"text"`
		Link        string     `json:"link,omitempty" yaml:"link,omitempty" toml:"link,omitempty"`
		Items       []NavEntry `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`
		ActiveMatch string     `json:"activeMatch,omitempty" yaml:"activeMatch,omitempty" toml:"activeMatch,omitempty"`
		Rel         string     `json:"rel,omitempty" yaml:"rel,omitempty" toml:"rel,omitempty"`
		Target      string     `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
	}

	// SidebarSection a titled, ordered group of entries
	SidebarSection struct {
		Text      string     `json:"text" yaml:"text" toml:"text"`
		Items     []NavEntry `json:"items" yaml:"items" toml:"items"`
		Collapsed bool       `json:"collapsed,omitempty" yaml:"collapsed,omitempty" toml:"collapsed,omitempty"`
	}

	// Sidebar sections by path prefix, e.g. "/guide/"
	Sidebar map[string][]SidebarSection

	SocialLink struct {
		Icon string `json:"icon" yaml:"icon" toml:"icon"`
		Link string `json:"link" yaml:"link" toml:"link"`
	}

	SearchConfig struct {
		Provider string `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider,omitempty"`
	}

	FooterConfig struct {
		Message   string `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
		Copyright string `json:"copyright,omitempty" yaml:"copyright,omitempty" toml:"copyright,omitempty"`
	}

	OutlineConfig struct {
		Level OutlineLevel `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
		Label string       `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	}

	DocFooterConfig struct {
		Prev string `json:"prev,omitempty" yaml:"prev,omitempty" toml:"prev,omitempty"`
		Next string `json:"next,omitempty" yaml:"next,omitempty" toml:"next,omitempty"`
	}

	LastUpdatedConfig struct {
		Text string `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	}

	MarkdownConfig struct {
		LineNumbers bool `json:"lineNumbers,omitempty" yaml:"lineNumbers,omitempty" toml:"lineNumbers,omitempty"`
	}
)

// IsLeaf entry points to a page
func (e NavEntry) IsLeaf() bool {
	return e.Link != ""
}

// IsGroup entry holds a dropdown of child entries
func (e NavEntry) IsGroup() bool {
	return len(e.Items) > 0
}

// IsExternal link leaves the site
func (e NavEntry) IsExternal() bool {
	return IsExternalLink(e.Link)
}

// Leaves returns the leaf entries of e in display order, e included if it is one
func (e NavEntry) Leaves() []NavEntry {
	if !e.IsGroup() {
		if e.IsLeaf() {
			return []NavEntry{e}
		}
		return nil
	}
	var ret []NavEntry
	for _, item := range e.Items {
		ret = append(ret, item.Leaves()...)
	}
	return ret
}

// SearchEnabled a local search index is wanted
func (c *SiteConfig) SearchEnabled() bool {
	return c.ThemeConfig.Search.Provider == SearchProviderLocal
}
