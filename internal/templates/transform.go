package templates

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// EntryPoint is the name of the template every compiled unit must define:
// the execution contract the render executor invokes.
const EntryPoint = "component"

// libraryComponents are the components provided by the shared default
// library; any other capitalized tag left in template text is unknown.
var libraryComponents = map[string]bool{
	"PageTitle": true,
	"NavMenu":   true,
}

var (
	directiveLineRe = regexp.MustCompile(`^@(page|layout|using|namespace|inherits|inject|attribute)\b`)
	pageTitleElemRe = regexp.MustCompile(`(?s)<PageTitle>.*?</PageTitle>`)
	navMenuElemRe   = regexp.MustCompile(`<NavMenu\s*/>|<NavMenu>\s*</NavMenu>`)
	rawTagNameRe    = regexp.MustCompile(`^</?([A-Za-z][A-Za-z0-9]*)`)
)

var controlKeywords = map[string]bool{
	"if": true, "else": true, "foreach": true, "for": true, "while": true,
	"switch": true, "do": true, "try": true, "lock": true, "using": true,
}

// Generated is the output of the template-syntax transform: html/template
// source implementing the render contract.
type Generated struct {
	Name   string
	Source string
}

// Transform converts component-template text into html/template source
// wrapped in the EntryPoint contract. It never fails outright; problems are
// reported as diagnostics and the caller decides whether they are fatal.
func Transform(name, text string) (Generated, []Diagnostic) {
	diags := scanMarkup(text)

	var body strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if m := directiveLineRe.FindStringSubmatch(line); m != nil {
			if m[1] != "page" && m[1] != "layout" {
				diags = append(diags, Diagnostic{
					Code:     CodeIgnoredDirective,
					Severity: SeverityWarning,
					Line:     i + 1,
					Message:  fmt.Sprintf("@%s has no effect in static templates", m[1]),
				})
			}
			continue
		}
		converted, lineDiags := convertLine(line, i+1)
		diags = append(diags, lineDiags...)
		body.WriteString(converted)
		body.WriteByte('\n')
	}

	src := body.String()
	src = pageTitleElemRe.ReplaceAllString(src, `{{template "PageTitle" .}}`)
	src = navMenuElemRe.ReplaceAllString(src, `{{template "NavMenu" .}}`)

	return Generated{
		Name:   name,
		Source: fmt.Sprintf("{{define %q}}%s{{end}}", EntryPoint, strings.TrimRight(src, "\n")),
	}, diags
}

// convertLine rewrites @-expressions and escapes literal action delimiters.
func convertLine(line string, lineNo int) (string, []Diagnostic) {
	var out strings.Builder
	var diags []Diagnostic
	fail := func(code, format string, args ...any) {
		diags = append(diags, Diagnostic{Code: code, Severity: SeverityError, Line: lineNo, Message: fmt.Sprintf(format, args...)})
	}

	for i := 0; i < len(line); {
		switch {
		case strings.HasPrefix(line[i:], "{{"):
			out.WriteString(`{{"{{"}}`)
			i += 2
		case line[i] != '@':
			out.WriteByte(line[i])
			i++
		case strings.HasPrefix(line[i:], "@@"):
			out.WriteByte('@')
			i += 2
		case i > 0 && isIdentRune(rune(line[i-1])):
			// e-mail addresses and similar: the @ is literal.
			out.WriteByte('@')
			i++
		default:
			ident := readIdent(line[i+1:])
			rest := line[i+1+len(ident):]
			switch {
			case ident == "" && strings.HasPrefix(rest, "{"):
				fail(CodeCodeBlock, "code blocks (@{ ... }) are not supported")
			case ident == "" && strings.HasPrefix(rest, "("):
				fail(CodeCodeBlock, "explicit expressions (@( ... )) are not supported")
			case ident == "code" || ident == "functions":
				fail(CodeCodeBlock, "@%s blocks are not supported", ident)
			case controlKeywords[ident]:
				fail(CodeControlFlow, "@%s control flow is not supported", ident)
			case ident == "":
				out.WriteByte('@')
			default:
				field, ok := parameterFields[ident]
				if !ok {
					fail(CodeUnknownParameter, "unknown parameter @%s", ident)
				} else {
					out.WriteString("{{." + field + "}}")
				}
			}
			if ident == "" {
				i++
			} else {
				i += 1 + len(ident)
			}
		}
	}
	return out.String(), diags
}

func readIdent(s string) string {
	end := 0
	for end < len(s) && isIdentRune(rune(s[end])) {
		end++
	}
	return s[:end]
}

func isIdentRune(r rune) bool {
	return r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// scanMarkup tokenizes the template as HTML to report script elements and
// component tags the static library cannot satisfy.
func scanMarkup(text string) []Diagnostic {
	var diags []Diagnostic
	var open []string
	openLines := map[int]int{}

	z := html.NewTokenizer(strings.NewReader(text))
	line := 1
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := z.Raw()
		tokLine := line
		line += bytes.Count(raw, []byte("\n"))

		if tt != html.StartTagToken && tt != html.EndTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		m := rawTagNameRe.FindSubmatch(raw)
		if m == nil {
			continue
		}
		tag := string(m[1])

		if strings.EqualFold(tag, "script") && tt != html.EndTagToken {
			diags = append(diags, Diagnostic{
				Code:     CodeScriptTag,
				Severity: SeverityError,
				Line:     tokLine,
				Message:  "script tags are lifted out of static templates",
			})
			continue
		}
		if !unicode.IsUpper(rune(tag[0])) {
			continue
		}
		if !libraryComponents[tag] && tt != html.EndTagToken {
			diags = append(diags, Diagnostic{
				Code:     CodeUnknownComponent,
				Severity: SeverityError,
				Line:     tokLine,
				Message:  fmt.Sprintf("component <%s> is not part of the static library", tag),
			})
		}

		switch tt {
		case html.StartTagToken:
			open = append(open, tag)
			openLines[len(open)-1] = tokLine
		case html.EndTagToken:
			for j := len(open) - 1; j >= 0; j-- {
				if open[j] == tag {
					open = open[:j]
					break
				}
			}
		}
	}

	for j, tag := range open {
		diags = append(diags, Diagnostic{
			Code:     CodeUnclosedComponent,
			Severity: SeverityError,
			Line:     openLines[j],
			Message:  fmt.Sprintf("component <%s> is never closed", tag),
		})
	}
	return diags
}
