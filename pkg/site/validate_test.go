package site_test

import (
	"testing"

	"github.com/netonframework/docsite/pkg/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *site.SiteConfig {
	return &site.SiteConfig{
		Title: "test",
		Lang:  "en-US",
		Base:  "/",
		ThemeConfig: site.ThemeConfig{
			Nav: []site.NavEntry{{Text: "Guide", Link: "/guide/"}},
			Sidebar: site.Sidebar{
				"/guide/": {{Text: "Intro", Items: []site.NavEntry{{Text: "Start", Link: "/guide/"}}}},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate func(c *site.SiteConfig)
		path   string
	}{
		"leaf and group": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Nav[0].Items = []site.NavEntry{{Text: "x", Link: "/x"}}
			},
			path: "nav[0]",
		},
		"leaf with empty items": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Nav[0].Items = []site.NavEntry{}
			},
			path: "nav[0]",
		},
		"neither leaf nor group": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Nav = append(c.ThemeConfig.Nav, site.NavEntry{Text: "empty"})
			},
			path: "nav[1]",
		},
		"empty group": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Nav = append(c.ThemeConfig.Nav, site.NavEntry{Text: "more", Items: []site.NavEntry{}})
			},
			path: "nav[1]",
		},
		"relative link": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Nav[0].Link = "guide/"
			},
			path: "nav[0]",
		},
		"ftp link": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Nav[0].Link = "ftp://example.com/guide"
			},
			path: "nav[0]",
		},
		"missing text": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Nav[0].Text = ""
			},
			path: "nav[0]",
		},
		"nested group item": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Nav = append(c.ThemeConfig.Nav, site.NavEntry{Text: "more", Items: []site.NavEntry{{Text: "bad"}}})
			},
			path: "nav[1].items[0]",
		},
		"prefix without trailing slash": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Sidebar["/spec"] = c.ThemeConfig.Sidebar["/guide/"]
			},
			path: `sidebar["/spec"]`,
		},
		"duplicate prefix": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Sidebar["/guide"] = c.ThemeConfig.Sidebar["/guide/"]
			},
			path: `sidebar["/guide/"]`,
		},
		"empty section": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Sidebar["/guide/"] = []site.SidebarSection{{Text: "Intro"}}
			},
			path: `sidebar["/guide/"][0]`,
		},
		"invalid lang": {
			mutate: func(c *site.SiteConfig) {
				c.Lang = "not a language"
			},
			path: "lang",
		},
		"invalid base": {
			mutate: func(c *site.SiteConfig) {
				c.Base = "docs"
			},
			path: "base",
		},
		"invalid outline": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Outline.Level = site.OutlineLevel{4, 2}
			},
			path: "outline.level",
		},
		"invalid active match": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Nav[0].ActiveMatch = "(["
			},
			path: "nav[0]",
		},
		"invalid social link": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.SocialLinks = []site.SocialLink{{Icon: "github", Link: "/github"}}
			},
			path: "socialLinks[0]",
		},
		"invalid exclude pattern": {
			mutate: func(c *site.SiteConfig) {
				c.SrcExclude = []string{"[a-"}
			},
			path: "srcExclude[0]",
		},
		"unknown search provider": {
			mutate: func(c *site.SiteConfig) {
				c.ThemeConfig.Search.Provider = "algolia"
			},
			path: "search.provider",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			require.NoError(t, cfg.Validate())
			test.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			paths := []string{}
			for _, ve := range site.ValidationErrors(err) {
				paths = append(paths, ve.Path)
			}
			assert.Contains(t, paths, test.path)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Lang = "??"
	cfg.ThemeConfig.Nav = append(cfg.ThemeConfig.Nav, site.NavEntry{Text: "a"}, site.NavEntry{Text: "b", Link: "b"})
	assert.Len(t, site.ValidationErrors(cfg.Validate()), 3)
}
