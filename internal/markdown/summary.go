package markdown

import (
	stdhtml "html"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

// Summary returns the plain text of the first paragraph in body, cut at a
// word boundary once it exceeds limit runes. An empty string means the body
// has no paragraph.
func (r *Renderer) Summary(body []byte, limit int) string {
	root := r.ParseBody(body)

	var para gmast.Node
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if entering && n.Kind() == gmast.KindParagraph {
			para = n
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	if para == nil {
		return ""
	}

	var b strings.Builder
	_ = gmast.Walk(para, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(body))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.WriteString(stdhtml.UnescapeString(string(node.Value)))
		}
		return gmast.WalkContinue, nil
	})

	return truncateWords(strings.TrimSpace(b.String()), limit)
}

func truncateWords(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
