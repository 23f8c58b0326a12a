// Package markdown converts the scanner's plain-content stream into HTML.
//
// Raw HTML is passed through unchanged so the placeholder elements inserted by
// the scanner survive rendering verbatim.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Renderer wraps a configured goldmark instance. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer with the standard extension set: GFM (tables,
// strikethrough, autolinks, task lists), footnotes, definition lists and
// typographic quotes.
func New() *Renderer {
	return &Renderer{md: newGoldmark()}
}

func newGoldmark() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// Render converts lines (joined with \n) to HTML.
func (r *Renderer) Render(lines []string) (string, error) {
	return r.RenderString(strings.Join(lines, "\n"))
}

// RenderString converts a markdown source string to HTML.
func (r *Renderer) RenderString(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseBody parses a markdown body into a goldmark AST without rendering it.
func (r *Renderer) ParseBody(body []byte) gmast.Node {
	return r.md.Parser().Parse(text.NewReader(body))
}
