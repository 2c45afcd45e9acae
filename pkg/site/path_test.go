package site_test

import (
	"testing"

	"github.com/netonframework/docsite/pkg/site"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		base string
		in   string
		want string
	}{
		{"/", "", "/"},
		{"/", "/", "/"},
		{"/", "/index.html", "/"},
		{"/", "/guide/", "/guide/"},
		{"/", "/guide/index.md", "/guide/"},
		{"/", "/guide/routing.md", "/guide/routing"},
		{"/", "/guide/routing.html?x=1", "/guide/routing"},
		{"/", "/guide/../spec/core", "/spec/core"},
		{"/docs/", "/docs/guide/", "/guide/"},
		{"/docs/", "/docs", "/"},
		{"/docs/", "/guide/", "/guide/"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, site.NormalizePath(test.base, test.in), "%s %s", test.base, test.in)
	}
}

func TestWithBase(t *testing.T) {
	assert.Equal(t, "/guide/", site.WithBase("/", "/guide/"))
	assert.Equal(t, "/docs/guide/", site.WithBase("/docs/", "/guide/"))
	assert.Equal(t, "https://example.com", site.WithBase("/docs/", "https://example.com"))
}

func TestIsValidLink(t *testing.T) {
	valid := []string{"/", "/guide/", "/spec/security-v1.1-freeze", "/guide/routing#params", "https://github.com/netonframework/neton", "http://example.com"}
	invalid := []string{"", "guide/", "./guide", "//cdn.example.com/x", "/with space", "mailto:x@example.com", "https://", "ftp://example.com"}
	for _, link := range valid {
		assert.True(t, site.IsValidLink(link), link)
	}
	for _, link := range invalid {
		assert.False(t, site.IsValidLink(link), link)
	}
}

func TestIsExternalLink(t *testing.T) {
	assert.True(t, site.IsExternalLink("https://github.com"))
	assert.False(t, site.IsExternalLink("/guide/"))
}

func TestSamePage(t *testing.T) {
	assert.True(t, site.SamePage("/guide", "/guide/"))
	assert.True(t, site.SamePage("/guide/routing", "/guide/routing"))
	assert.True(t, site.SamePage("/", "/"))
	assert.False(t, site.SamePage("/guide", "/guide/routing"))
	assert.False(t, site.SamePage("/", "/guide/"))
}
