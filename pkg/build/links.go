package build

import (
	"strings"

	"github.com/netonframework/docsite/pkg/site"
	"github.com/pkg/errors"
)

// ErrBrokenLinks returned by strict builds when a nav or sidebar link has no page
var ErrBrokenLinks = errors.New("broken links")

// CheckLinks returns the site relative links of the config that resolve to none of the routes
func CheckLinks(cfg *site.SiteConfig, routes map[string]bool) []site.LinkRef {
	var ret []site.LinkRef
	for _, ref := range cfg.Links() {
		if !site.IsSiteRelative(ref.Link) {
			continue
		}
		route := site.NormalizePath(cfg.Base, ref.Link)
		if routes[route] {
			continue
		}
		// "/guide" resolves to the index page of guide/
		if !strings.HasSuffix(route, site.PathSeparator) && routes[route+site.PathSeparator] {
			continue
		}
		ret = append(ret, ref)
	}
	return ret
}
