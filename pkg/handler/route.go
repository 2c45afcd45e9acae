package handler

// Route type
type Route string

const (
	// RouteGetConfig get the current site config
	RouteGetConfig Route = "getConfig"
	// RouteGetNav get the top level navigation
	RouteGetNav Route = "getNav"
	// RouteGetSidebar resolve the sidebar of a page path
	RouteGetSidebar Route = "getSidebar"
	// RouteGetPage get the navigation context of a page
	RouteGetPage Route = "getPage"
	// RouteValidate validate a config without loading it
	RouteValidate Route = "validate"
	// RouteUpdate update repo
	RouteUpdate Route = "update"
	// RouteGetRepo get the whole config, served from the repo buffer
	RouteGetRepo Route = "getRepo"
)
