package build

import (
	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	minifycss "github.com/tdewolff/minify/v2/css"
	minifyhtml "github.com/tdewolff/minify/v2/html"
	minifyjson "github.com/tdewolff/minify/v2/json"
)

const (
	mimeHTML = "text/html"
	mimeCSS  = "text/css"
	mimeJSON = "application/json"
)

type minifier struct {
	m *minify.M
}

func newMinifier() *minifier {
	m := minify.New()
	m.Add(mimeHTML, &minifyhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc(mimeCSS, minifycss.Minify)
	m.AddFunc(mimeJSON, minifyjson.Minify)
	return &minifier{m: m}
}

// Bytes minifies data of the given mime type, a nil minifier returns data unchanged
func (m *minifier) Bytes(mime string, data []byte) ([]byte, error) {
	if m == nil {
		return data, nil
	}
	ret, err := m.m.Bytes(mime, data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to minify %s", mime)
	}
	return ret, nil
}
