package site

import (
	"fmt"
	"regexp"
	"strings"
)

type (
	// Location everything the theme needs to place a page within the site navigation
	Location struct {
		Path     string           `json:"path"`
		Prefix   string           `json:"prefix,omitempty"`
		Sections []SidebarSection `json:"sections,omitempty"`
		Section  *SidebarSection  `json:"section,omitempty"`
		Entry    *NavEntry        `json:"entry,omitempty"`
		Prev     *NavEntry        `json:"prev,omitempty"`
		Next     *NavEntry        `json:"next,omitempty"`
		Nav      *NavEntry        `json:"nav,omitempty"`
	}

	// LinkRef a link value and where it was declared
	LinkRef struct {
		Path string `json:"path"`
		Text string `json:"text"`
		Link string `json:"link"`
	}
)

// Breadcrumb section and entry titles leading to the page
func (l *Location) Breadcrumb() []string {
	var ret []string
	if l.Section != nil && l.Section.Text != "" {
		ret = append(ret, l.Section.Text)
	}
	if l.Entry != nil {
		ret = append(ret, l.Entry.Text)
	}
	return ret
}

// Locate resolves the navigation context of a page path
func (c *SiteConfig) Locate(p string) *Location {
	return c.locate(NewIndex(c.ThemeConfig.Sidebar), p)
}

// LocateIndexed same as Locate with a prebuilt sidebar index
func (c *SiteConfig) LocateIndexed(idx *Index, p string) *Location {
	return c.locate(idx, p)
}

func (c *SiteConfig) locate(idx *Index, p string) *Location {
	p = NormalizePath(c.Base, p)
	loc := &Location{Path: p}
	if nav, ok := c.ActiveNav(p); ok {
		loc.Nav = nav
	}
	prefix, sections, ok := idx.Lookup(p)
	if !ok {
		return loc
	}
	loc.Prefix = prefix
	loc.Sections = sections

	var leaves []NavEntry
	for i := range sections {
		for _, leaf := range flatten(sections[i : i+1]) {
			if loc.Entry == nil && !leaf.IsExternal() && SamePage(NormalizePath(c.Base, leaf.Link), p) {
				section := sections[i]
				entry := leaf
				loc.Section = &section
				loc.Entry = &entry
				if len(leaves) > 0 {
					prev := leaves[len(leaves)-1]
					loc.Prev = &prev
				}
			} else if loc.Entry != nil && loc.Next == nil && !leaf.IsExternal() {
				next := leaf
				loc.Next = &next
			}
			if !leaf.IsExternal() {
				leaves = append(leaves, leaf)
			}
		}
	}
	return loc
}

// PrevNext neighbours of a page in its sidebar, nil when there is none
func (c *SiteConfig) PrevNext(p string) (*NavEntry, *NavEntry) {
	loc := c.Locate(p)
	return loc.Prev, loc.Next
}

// ActiveNav returns the top level nav entry highlighted for the given page path
func (c *SiteConfig) ActiveNav(p string) (*NavEntry, bool) {
	p = NormalizePath(c.Base, p)
	for i := range c.ThemeConfig.Nav {
		entry := &c.ThemeConfig.Nav[i]
		if entry.matches(c.Base, p) {
			return entry, true
		}
	}
	return nil, false
}

func (e *NavEntry) matches(base, p string) bool {
	if e.ActiveMatch != "" {
		re, err := regexp.Compile(e.ActiveMatch)
		return err == nil && re.MatchString(p)
	}
	if e.IsGroup() {
		for i := range e.Items {
			if e.Items[i].matches(base, p) {
				return true
			}
		}
		return false
	}
	if !e.IsLeaf() || e.IsExternal() {
		return false
	}
	link := NormalizePath(base, e.Link)
	if link == PathSeparator {
		return p == PathSeparator
	}
	if strings.HasSuffix(link, PathSeparator) {
		return strings.HasPrefix(p, link)
	}
	return SamePage(p, link)
}

// Links every link of the site in declaration order, sidebar prefixes sorted
func (c *SiteConfig) Links() []LinkRef {
	var ret []LinkRef
	var walk func(path string, entries []NavEntry)
	walk = func(path string, entries []NavEntry) {
		for i, entry := range entries {
			p := fmt.Sprintf("%s[%d]", path, i)
			if entry.Link != "" {
				ret = append(ret, LinkRef{Path: p, Text: entry.Text, Link: entry.Link})
			}
			walk(p+".items", entry.Items)
		}
	}
	walk("nav", c.ThemeConfig.Nav)
	for _, prefix := range c.ThemeConfig.Sidebar.Prefixes() {
		for i, section := range c.ThemeConfig.Sidebar[prefix] {
			walk(fmt.Sprintf("sidebar[%q][%d].items", prefix, i), section.Items)
		}
	}
	for i, social := range c.ThemeConfig.SocialLinks {
		ret = append(ret, LinkRef{Path: fmt.Sprintf("socialLinks[%d]", i), Text: social.Icon, Link: social.Link})
	}
	return ret
}
