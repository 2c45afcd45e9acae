package utils

import (
	"net/url"
)

// IsHTTPURL reports whether str is an absolute http(s) url with a host
func IsHTTPURL(str string) bool {
	u, err := url.Parse(str)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}
