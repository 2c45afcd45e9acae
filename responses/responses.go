package responses

import (
	"github.com/netonframework/docsite/pkg/site"
)

// Config - the current site config
type Config struct {
	Revision string           `json:"revision"`
	Config   *site.SiteConfig `json:"config"`
}

// Nav - the top level navigation
type Nav struct {
	Revision string          `json:"revision"`
	Nav      []site.NavEntry `json:"nav"`
	// entry highlighted for the requested path
	Active *site.NavEntry `json:"active,omitempty"`
}

// Sidebar - the sidebar resolved for a path
type Sidebar struct {
	Revision string                `json:"revision"`
	Found    bool                  `json:"found"`
	Prefix   string                `json:"prefix,omitempty"`
	Sections []site.SidebarSection `json:"sections,omitempty"`
}

// Page - the navigation context of a page
type Page struct {
	Revision   string         `json:"revision"`
	Location   *site.Location `json:"location"`
	Breadcrumb []string       `json:"breadcrumb,omitempty"`
}

// Validate - the result of a config validation
type Validate struct {
	Valid    bool                    `json:"valid"`
	Revision string                  `json:"revision,omitempty"`
	Errors   []*site.ValidationError `json:"errors,omitempty"`
}
