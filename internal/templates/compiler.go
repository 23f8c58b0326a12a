package templates

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithLibrary adds site-provided shared templates to the default library.
func WithLibrary(fsys fs.FS, patterns ...string) Option {
	return func(c *Compiler) {
		c.extra = append(c.extra, librarySource{fsys: fsys, patterns: patterns})
	}
}

// WithLogger sets the logger used for non-fatal diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// Compiler turns component-template text into executable units. The shared
// library is parsed once; every unit is built from a clone of it so units
// never observe each other's definitions.
type Compiler struct {
	base   *template.Template
	extra  []librarySource
	logger *slog.Logger
}

// NewCompiler parses the shared library and returns a ready compiler.
func NewCompiler(opts ...Option) (*Compiler, error) {
	c := &Compiler{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	base, err := parseLibrary(c.extra)
	if err != nil {
		return nil, err
	}
	c.base = base
	return c, nil
}

// Unit is a compiled template that can be executed against Params.
type Unit struct {
	name string
	tmpl *template.Template
}

// Name returns the unit's display name.
func (u *Unit) Name() string { return u.name }

// Execute renders the unit's entry point.
func (u *Unit) Execute(w io.Writer, p Params) error {
	return u.tmpl.ExecuteTemplate(w, EntryPoint, p)
}

// Compile runs the transform and build stages. On failure it returns a
// classified compilation error wrapping *CompilationError and no unit.
func (c *Compiler) Compile(name, text string) (*Unit, error) {
	gen, diags := Transform(name, text)
	diags = FilterBenign(diags)

	for _, d := range diags {
		if d.Severity == SeverityWarning {
			c.logger.Debug("Template diagnostic",
				slog.String("template", name),
				slog.String("code", d.Code),
				slog.String("message", d.Message))
		}
	}
	if HasErrors(diags) {
		return nil, compilationFailure(&CompilationError{Name: name, Diagnostics: diags})
	}
	return c.Build(gen)
}

// Build parses generated source into a unit. The source must define the
// EntryPoint template.
func (c *Compiler) Build(gen Generated) (*Unit, error) {
	tmpl, err := c.base.Clone()
	if err != nil {
		return nil, ferrors.InternalError("failed to clone template library").WithCause(err).Build()
	}
	if _, err := tmpl.New(gen.Name).Parse(gen.Source); err != nil {
		return nil, compilationFailure(&CompilationError{
			Name:        gen.Name,
			Diagnostics: []Diagnostic{{Code: CodeParse, Severity: SeverityError, Message: err.Error()}},
		})
	}

	entry := tmpl.Lookup(EntryPoint)
	if entry == nil || entry.Tree == nil {
		return nil, ferrors.LookupError(fmt.Sprintf("compiled unit does not define %q", EntryPoint)).
			WithContext("template", gen.Name).
			Build()
	}
	return &Unit{name: gen.Name, tmpl: tmpl}, nil
}

// Diagnostics returns the diagnostics carried by a compilation error, if any.
func Diagnostics(err error) []Diagnostic {
	var ce *CompilationError
	if errors.As(err, &ce) {
		return ce.Diagnostics
	}
	return nil
}

func compilationFailure(ce *CompilationError) error {
	return ferrors.CompilationError(fmt.Sprintf("template %s failed to compile", ce.Name)).
		WithCause(ce).
		WithContext("template", ce.Name).
		WithContext(logfields.KeyCount, len(ce.Diagnostics)).
		Build()
}

