package site

import (
	"sort"
	"strings"

	"github.com/armon/go-radix"
)

// Index answers sidebar lookups for a fixed sidebar.
// Build it once per config, it is safe for concurrent reads.
type Index struct {
	tree *radix.Tree
}

// NewIndex indexes the sidebar by normalized prefix
func NewIndex(s Sidebar) *Index {
	tree := radix.New()
	for prefix, sections := range s {
		tree.Insert(normalizePrefix(prefix), sections)
	}
	return &Index{tree: tree}
}

// Lookup finds the sections of the longest prefix matching the given page path
func (i *Index) Lookup(p string) (string, []SidebarSection, bool) {
	if !strings.HasPrefix(p, PathSeparator) {
		p = PathSeparator + p
	}
	if !strings.HasSuffix(p, PathSeparator) {
		// "/guide" resolves "/guide/"
		if v, ok := i.tree.Get(p + PathSeparator); ok {
			sections, _ := v.([]SidebarSection)
			return p + PathSeparator, sections, true
		}
	}
	prefix, v, ok := i.tree.LongestPrefix(p)
	if !ok {
		return "", nil, false
	}
	sections, _ := v.([]SidebarSection)
	return prefix, sections, true
}

// Len number of prefixes
func (i *Index) Len() int {
	return i.tree.Len()
}

// Lookup resolves the sidebar for a page path, the longest matching prefix wins
func (s Sidebar) Lookup(p string) (string, []SidebarSection, bool) {
	return NewIndex(s).Lookup(p)
}

// Prefixes sorted sidebar keys
func (s Sidebar) Prefixes() []string {
	ret := make([]string, 0, len(s))
	for prefix := range s {
		ret = append(ret, prefix)
	}
	sort.Strings(ret)
	return ret
}

// Flatten returns the leaves of all sections below prefix in display order
func (s Sidebar) Flatten(prefix string) []NavEntry {
	return flatten(s[prefix])
}

func flatten(sections []SidebarSection) []NavEntry {
	var ret []NavEntry
	for _, section := range sections {
		for _, item := range section.Items {
			ret = append(ret, item.Leaves()...)
		}
	}
	return ret
}
