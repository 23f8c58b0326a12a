package frontmatter

import (
	"bytes"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

const delimiter = "---"

// Style captures formatting details needed for stable rewriting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// ErrMissingOpeningDelimiter indicates the document does not start with `---`.
var ErrMissingOpeningDelimiter = errors.ContentFormatError("front matter start delimiter is missing").Build()

// ErrMissingClosingDelimiter indicates the document started with a front
// matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.ContentFormatError("front matter start delimiter found but closing delimiter is missing").Build()

// Split separates the `---` delimited front matter from the body.
//
// Unlike tooling that treats front matter as optional, every pagesmith source
// must carry a header: a missing opening or closing delimiter is a content
// format error.
func Split(content []byte) (frontmatter []byte, body []byte, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, nil, style, ErrMissingOpeningDelimiter
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], style, nil
	}
	if string(rest) == delimiter {
		return []byte{}, []byte{}, style, nil
	}

	closeSeq := []byte(nl + delimiter + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter on the final line without a trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+delimiter)) {
			end := len(rest) - len(nl+delimiter)
			return rest[:end+len(nl)], []byte{}, style, nil
		}
		return nil, nil, style, ErrMissingClosingDelimiter
	}

	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], style, nil
}

// Extract splits raw into its flat front matter fields and body lines.
func Extract(raw []byte) (*Fields, []string, error) {
	fm, body, style, err := Split(raw)
	if err != nil {
		return nil, nil, err
	}
	return Parse(fm), SplitLines(body, style), nil
}

// SplitLines splits body into lines using the detected newline style.
func SplitLines(body []byte, style Style) []string {
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	return strings.Split(string(body), nl)
}

// Render reassembles a document from fields and body lines.
func Render(fields *Fields, body []string, style Style) []byte {
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + nl)
	for _, key := range fields.Keys() {
		value, _ := fields.Lookup(key)
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString(nl)
	}
	buf.WriteString(delimiter + nl)
	buf.WriteString(strings.Join(body, nl))
	return buf.Bytes()
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
