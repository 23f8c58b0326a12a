package incremental

import (
	"fmt"
	"os"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatterops"
	"git.home.luguber.info/inful/pagesmith/internal/fsutil"
)

// LastModifiedKey is the front matter field the stamp step maintains.
const LastModifiedKey = frontmatterops.LastModifiedKey

// StampLayout is the format written by Stamp, always in UTC.
const StampLayout = "2006-01-02 15:04:05"

var lastModifiedLayouts = []string{
	StampLayout,
	time.RFC3339,
	"2006-01-02",
}

// ParseLastModified parses a front matter lastmodified value. Surrounding
// quotes are ignored. Values without a zone are read as UTC.
func ParseLastModified(value string) (time.Time, error) {
	v := strings.TrimSpace(frontmatter.Unquote(strings.TrimSpace(value)))
	for _, layout := range lastModifiedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ferrors.ContentFormatError(fmt.Sprintf("invalid lastmodified value %q", value)).
		WithContext("value", value).
		Build()
}

// FormatStamp renders t the way Stamp writes it, quotes included.
func FormatStamp(t time.Time) string {
	return `"` + t.UTC().Format(StampLayout) + `"`
}

// Stamp rewrites the front matter of the source at path so lastmodified
// holds now. Other keys keep their order, and the body and newline style
// are preserved. The file is replaced atomically.
func Stamp(path string, now time.Time) error {
	info, err := os.Stat(path)
	if err != nil {
		return ferrors.FileSystemError("failed to stat source").WithCause(err).WithContext("path", path).Build()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ferrors.FileSystemError("failed to read source").WithCause(err).WithContext("path", path).Build()
	}

	fm, body, style, err := frontmatter.Split(raw)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryContentFormat, "cannot stamp source without front matter").
			WithContext("path", path).
			Build()
	}

	fields := frontmatter.Parse(fm)
	fields.Set(LastModifiedKey, FormatStamp(now))

	out := frontmatter.Render(fields, frontmatter.SplitLines(body, style), style)
	if err := fsutil.WriteFileAtomic(path, out, info.Mode().Perm()); err != nil {
		return ferrors.FileSystemError("failed to write stamped source").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
