package markdown

import (
	"bytes"
	"html"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// HighlightStyle chroma style used for code blocks
const HighlightStyle = "github"

// Highlight writes code as highlighted html, classes instead of inline styles
func Highlight(w io.Writer, code, lang string, lineNumbers bool) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return errors.Wrapf(err, "failed to tokenise %q code", lang)
	}
	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.WithLineNumbers(lineNumbers),
	)
	if lang == "" {
		lang = "text"
	}
	if _, err := io.WriteString(w, `<div class="language-`+html.EscapeString(lang)+`">`); err != nil {
		return err
	}
	if err := formatter.Format(w, styles.Get(HighlightStyle), iterator); err != nil {
		return errors.Wrap(err, "failed to format code")
	}
	_, err = io.WriteString(w, "</div>")
	return err
}

// HighlightCSS stylesheet for the classes Highlight emits
func HighlightCSS() (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(HighlightStyle)); err != nil {
		return "", errors.Wrap(err, "failed to write highlight css")
	}
	return buf.String(), nil
}

type codeBlockRenderer struct {
	lineNumbers bool
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n, ok := node.(*ast.FencedCodeBlock)
	if !ok {
		return ast.WalkContinue, nil
	}
	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(source))
	}
	if err := Highlight(w, code.String(), string(n.Language(source)), r.lineNumbers); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}
