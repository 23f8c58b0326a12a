// Package layout wraps rendered documents in site chrome.
//
// The built-in PostLayout and PageLayout live in layouts/. A site may add
// layouts or replace the built-in ones with html/template files of its own;
// each file defines one or more named templates, and a document selects one
// through its layout front matter field.
package layout

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/model"
)

//go:embed layouts/*.html
var builtin embed.FS

// Site is the site-wide chrome data.
type Site struct {
	Name        string
	Title       string
	Description string
	HeaderLinks []template.HTML
}

// Component is a component mount handed to the client.
type Component struct {
	Key    string
	Markup template.HTML
}

// Data is the value a layout executes against.
type Data struct {
	Site        Site
	NavLinks    []model.Link
	RecentPosts []model.Link
	Doc         model.Document
	// Post is nil for pages.
	Post        *model.Post
	Components  []Component
	Scripts     []template.HTML
}

// NewData assembles layout data for a document. Components are ordered by
// key so output is stable.
func NewData(site Site, doc model.Document, post *model.Post, nav, recent []model.Link) Data {
	keys := make([]string, 0, len(doc.Components))
	for k := range doc.Components {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	components := make([]Component, 0, len(keys))
	for _, k := range keys {
		components = append(components, Component{Key: k, Markup: template.HTML(doc.Components[k])}) //nolint:gosec // site-authored markup
	}
	scripts := make([]template.HTML, 0, len(doc.Scripts))
	for _, s := range doc.Scripts {
		scripts = append(scripts, template.HTML(s)) //nolint:gosec // site-authored scripts
	}

	return Data{
		Site:        site,
		NavLinks:    nav,
		RecentPosts: recent,
		Doc:         doc,
		Post:        post,
		Components:  components,
		Scripts:     scripts,
	}
}

// Library is a parsed layout set. It is read-only after New and safe for
// concurrent use.
type Library struct {
	tmpl *template.Template
}

// New parses the built-in layouts and, when overridesDir is non-empty and
// exists, every *.html file in it. Later definitions replace earlier ones.
func New(overridesDir string) (*Library, error) {
	tmpl := template.New("layouts").Option("missingkey=error")
	if _, err := tmpl.ParseFS(builtin, "layouts/*.html"); err != nil {
		return nil, ferrors.InternalError("failed to parse built-in layouts").WithCause(err).Build()
	}

	if overridesDir != "" {
		if _, err := os.Stat(overridesDir); err == nil {
			matches, globErr := fs.Glob(os.DirFS(overridesDir), "*.html")
			if globErr != nil {
				return nil, ferrors.ConfigError("invalid layouts directory").WithCause(globErr).WithContext("path", overridesDir).Build()
			}
			if len(matches) > 0 {
				if _, err := tmpl.ParseGlob(filepath.Join(overridesDir, "*.html")); err != nil {
					return nil, ferrors.ConfigError("failed to parse site layouts").WithCause(err).WithContext("path", overridesDir).Build()
				}
			}
		}
	}
	return &Library{tmpl: tmpl}, nil
}

// Has reports whether a layout with the given name is defined.
func (l *Library) Has(name string) bool {
	return l.tmpl.Lookup(name) != nil
}

// Render executes the named layout and returns the complete page.
func (l *Library) Render(name string, data Data) ([]byte, error) {
	if !l.Has(name) {
		return nil, ferrors.LookupError(fmt.Sprintf("layout %q is not defined", name)).
			WithContext("layout", name).
			WithContext("path", data.Doc.SourcePath).
			Build()
	}

	var buf bytes.Buffer
	if err := l.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, ferrors.RenderError(fmt.Sprintf("failed to render layout %s", name)).
			WithCause(err).
			WithContext("path", data.Doc.SourcePath).
			Build()
	}
	return buf.Bytes(), nil
}
