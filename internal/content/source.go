// Package content turns source files from the posts and pages trees into
// document records ready for layout.
package content

import (
	"os"
	"time"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatterops"
)

// Source is a loaded markdown document. It is read-only after Load.
type Source struct {
	Path      string
	Raw       []byte
	Fields    *frontmatter.Fields
	Body      []string
	LastWrite time.Time
	// Fingerprint identifies the content independent of the lastmodified stamp.
	Fingerprint string
}

// Load reads a markdown source and splits its front matter from the body.
func Load(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to stat source").WithCause(err).WithContext("path", path).Build()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to read source").WithCause(err).WithContext("path", path).Build()
	}

	fm, body, style, err := frontmatter.Split(raw)
	if err != nil {
		return nil, withPath(err, path)
	}
	fields := frontmatter.Parse(fm)

	return &Source{
		Path:        path,
		Raw:         raw,
		Fields:      fields,
		Body:        frontmatter.SplitLines(body, style),
		LastWrite:   info.ModTime(),
		Fingerprint: frontmatterops.ComputeFingerprint(fields, string(body)),
	}, nil
}

// withPath attaches the source path to a classified error, classifying
// unknown errors as internal.
func withPath(err error, path string) error {
	if ce, ok := ferrors.AsClassified(err); ok {
		return ce.WithContext("path", path)
	}
	return ferrors.WrapError(err, ferrors.CategoryInternal, "unexpected failure").WithContext("path", path).Build()
}
