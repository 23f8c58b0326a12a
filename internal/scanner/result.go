package scanner

import (
	"fmt"
	"regexp"
	"strings"
)

// Sample is a registered code sample.
type Sample struct {
	Key      string
	Language string
	Content  string
}

// Result is the normalized output of one scan.
type Result struct {
	// Lines is the plain-content stream with placeholder elements inserted.
	Lines []string
	// Components maps component keys to their raw markup.
	Components map[string]string
	// ComponentKeys lists component keys in source order.
	ComponentKeys []string
	Samples       []Sample
	// Scripts holds script elements in source order, including the generated
	// highlighter scripts for code samples.
	Scripts []string
	// Dropped is true when the input ended inside an unclosed block.
	Dropped bool
}

// Text joins the plain-content stream with newlines.
func (r *Result) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Scan folds lines and collects the emitted blocks.
func Scan(lines []string) *Result {
	blocks, final := Fold(lines)
	res := Collect(blocks)
	res.Dropped = final.Open()
	return res
}

// Collect converts emitted blocks into a Result. Every placeholder it inserts
// is backed by a Components entry or a Samples entry with the same key.
func Collect(blocks []Block) *Result {
	res := &Result{Components: make(map[string]string)}
	for _, b := range blocks {
		switch blk := b.(type) {
		case PlainLine:
			res.Lines = append(res.Lines, blk.Text)
		case ComponentInvocation:
			res.Components[blk.Key] = blk.Markup
			res.ComponentKeys = append(res.ComponentKeys, blk.Key)
			res.Lines = append(res.Lines, ComponentPlaceholder(blk.Key)...)
		case SampleCode:
			res.Samples = append(res.Samples, Sample(blk))
			res.Lines = append(res.Lines, SamplePlaceholder(blk.Key)...)
			res.Scripts = append(res.Scripts, HighlighterScript(blk.Key, blk.Content, blk.Language))
		case ScriptBlock:
			res.Scripts = append(res.Scripts, blk.Content)
		}
	}
	return res
}

// ComponentPlaceholder returns the mount element for a component, framed by
// blank lines so markdown treats it as a standalone HTML block.
func ComponentPlaceholder(key string) []string {
	return []string{
		"",
		fmt.Sprintf(`<div id="%s" class="component-block">`, key),
		`    <svg class="loading-progress">`,
		`        <circle r="40%" cx="50%" cy="50%" />`,
		`        <circle r="40%" cx="50%" cy="50%" />`,
		`    </svg>`,
		`    <div class="loading-progress-text"></div>`,
		`</div>`,
		"",
	}
}

// SamplePlaceholder returns the editor mount element for a code sample.
func SamplePlaceholder(key string) []string {
	return []string{
		"",
		fmt.Sprintf(`<div id="%s" class="monaco-editor-block"></div>`, key),
		"",
	}
}

var unsafeLanguage = regexp.MustCompile(`[^A-Za-z0-9+#._-]`)

var templateLiteralEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"${", "\\${",
	"</script", `<\/script`,
)

// HighlighterScript builds the client-side editor script for a code sample.
func HighlighterScript(key, content, language string) string {
	return fmt.Sprintf(`
<script>
    require(['vs/editor/editor.main'], function () {
        var editor = monaco.editor.create(document.getElementById('%s'), {
            value: `+"`%s`"+`,
            automaticLayout: true,
            readOnly: true,
            language: '%s'
        });
    });
</script>
`, key, templateLiteralEscaper.Replace(content), unsafeLanguage.ReplaceAllString(language, ""))
}
