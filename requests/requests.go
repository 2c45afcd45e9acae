package requests

// Sidebar - resolve the sidebar of a page path
type Sidebar struct {
	Path string `json:"path"`
}

// Page - navigation context of a page
type Page struct {
	Path string `json:"path"`
}

// Nav - the top level navigation, optionally with the entry active for a path
type Nav struct {
	Path string `json:"path,omitempty"`
}

// Config - the current site config
type Config struct{}

// Update - request an update of the site config
type Update struct{}

// Validate - validate a site config without loading it
type Validate struct {
	// json, yaml or toml
	Format string `json:"format"`
	// the raw config document
	Config string `json:"config"`
}
