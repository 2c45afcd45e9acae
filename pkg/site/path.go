package site

import (
	"net/url"
	"path"
	"strings"
)

// IsExternalLink link has a scheme and therefore leaves the site
func IsExternalLink(link string) bool {
	u, err := url.Parse(link)
	return err == nil && u.Scheme != ""
}

// IsValidURL absolute http(s) url with a host
func IsValidURL(str string) bool {
	u, err := url.Parse(str)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// IsSiteRelative path rooted at the site, e.g. "/guide/routing"
func IsSiteRelative(str string) bool {
	if !strings.HasPrefix(str, PathSeparator) || strings.HasPrefix(str, "//") {
		return false
	}
	if strings.ContainsAny(str, " \t\r\n\\") {
		return false
	}
	u, err := url.Parse(str)
	return err == nil && u.Scheme == "" && u.Host == ""
}

// IsValidLink link is either site relative or an absolute http(s) url
func IsValidLink(link string) bool {
	return IsSiteRelative(link) || IsValidURL(link)
}

// NormalizePath maps a request path or link onto the canonical page path of the site.
//
//	/docs/guide/index.html -> /guide/   (base /docs/)
//	/guide/routing.md      -> /guide/routing
//	/guide/routing#params  -> /guide/routing
func NormalizePath(base, p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if base != "" && base != PathSeparator {
		b := "/" + strings.Trim(base, "/")
		if p == b {
			p = PathSeparator
		} else if strings.HasPrefix(p, b+PathSeparator) {
			p = strings.TrimPrefix(p, b)
		}
	}
	if p == "" {
		return PathSeparator
	}
	dir := strings.HasSuffix(p, PathSeparator)
	p = path.Clean("/" + p)
	for _, ext := range []string{".md", ".html"} {
		p = strings.TrimSuffix(p, ext)
	}
	if path.Base(p) == "index" {
		p = path.Dir(p)
		dir = true
	}
	if p == PathSeparator {
		return p
	}
	if dir {
		return p + PathSeparator
	}
	return p
}

// SamePage reports whether two normalized paths address the same page,
// "/guide" and "/guide/" both name the page of guide/index.md
func SamePage(a, b string) bool {
	return a == b || strings.TrimSuffix(a, PathSeparator) == strings.TrimSuffix(b, PathSeparator)
}

// WithBase prefixes a site relative path with the configured base
func WithBase(base, p string) string {
	if base == "" || base == PathSeparator || !IsSiteRelative(p) {
		return p
	}
	return strings.TrimSuffix(base, PathSeparator) + p
}

// normalizePrefix makes sure a sidebar key has the shape "/x/"
func normalizePrefix(prefix string) string {
	if !strings.HasPrefix(prefix, PathSeparator) {
		prefix = PathSeparator + prefix
	}
	if !strings.HasSuffix(prefix, PathSeparator) {
		prefix += PathSeparator
	}
	return prefix
}
