package templates

import (
	"embed"
	"html/template"
	"io/fs"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

//go:embed library/*.tmpl
var defaultLibrary embed.FS

// parseLibrary builds the shared template set every unit is cloned from.
// Site sources are parsed after the defaults, so a site definition of
// NavMenu or PageTitle replaces the built-in one.
func parseLibrary(extra []librarySource) (*template.Template, error) {
	base := template.New("library").Option("missingkey=error")
	if _, err := base.ParseFS(defaultLibrary, "library/*.tmpl"); err != nil {
		return nil, ferrors.InternalError("failed to parse template library").WithCause(err).Build()
	}
	for _, src := range extra {
		if _, err := base.ParseFS(src.fsys, src.patterns...); err != nil {
			return nil, ferrors.CompilationError("failed to parse site components").
				WithCause(err).
				WithContext("patterns", src.patterns).
				Build()
		}
	}
	return base, nil
}

type librarySource struct {
	fsys     fs.FS
	patterns []string
}
