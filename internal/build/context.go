package build

import (
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/content"
	"git.home.luguber.info/inful/pagesmith/internal/history"
	"git.home.luguber.info/inful/pagesmith/internal/layout"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/markdown"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/render"
	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/templates"
)

const componentPattern = "*.tmpl"

// Context holds the collaborators shared by every document of a build. It is
// read-only after NewContext and safe to share across goroutines.
type Context struct {
	Config    *config.Config
	Compiler  *templates.Compiler
	Executor  *render.Executor
	Markdown  *markdown.Renderer
	Layouts   *layout.Library
	Writer    *site.Writer
	Processor *content.Processor
	Recorder  metrics.Recorder
	// History is nil when build history is disabled.
	History history.Store
	Logger  *slog.Logger

	site layout.Site
}

// ContextOption customizes NewContext.
type ContextOption func(*Context)

// WithRecorder sets the metrics recorder. The default records nothing.
func WithRecorder(r metrics.Recorder) ContextOption {
	return func(c *Context) {
		if r != nil {
			c.Recorder = r
		}
	}
}

// WithHistory enables build history.
func WithHistory(s history.Store) ContextOption {
	return func(c *Context) { c.History = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *Context) {
		if l != nil {
			c.Logger = l
		}
	}
}

// NewContext constructs the compiler, executor, renderer, layouts and
// processor for cfg.
func NewContext(cfg *config.Config, opts ...ContextOption) (*Context, error) {
	c := &Context{
		Config:   cfg,
		Recorder: metrics.NoopRecorder{},
		Logger:   slog.Default(),
		Writer:   site.NewWriter(),
		Markdown: markdown.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	compilerOpts := []templates.Option{templates.WithLogger(c.Logger)}
	if dir := cfg.Paths.Components; dir != "" {
		// ParseFS rejects patterns without matches, so an empty or missing
		// directory adds nothing.
		if matches, _ := filepath.Glob(filepath.Join(dir, componentPattern)); len(matches) > 0 {
			compilerOpts = append(compilerOpts, templates.WithLibrary(os.DirFS(dir), componentPattern))
			c.Logger.Debug("Using site components", logfields.Path(dir), logfields.Count(len(matches)))
		}
	}

	var err error
	if c.Compiler, err = templates.NewCompiler(compilerOpts...); err != nil {
		return nil, err
	}
	if c.Layouts, err = layout.New(cfg.Paths.Layouts); err != nil {
		return nil, err
	}
	c.Executor = render.NewExecutor(cfg.Build.RenderTimeoutDuration())

	headerLinks := make([]template.HTML, 0, len(cfg.Site.HeaderLinks))
	for _, l := range cfg.Site.HeaderLinks {
		headerLinks = append(headerLinks, template.HTML(l)) //nolint:gosec // configured by the site owner
	}
	c.site = layout.Site{
		Name:        cfg.Site.Name,
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		HeaderLinks: headerLinks,
	}

	c.Processor = content.NewProcessor(content.Options{
		PagesDir:  cfg.Paths.Pages,
		OutputDir: cfg.Paths.Output,
		Site: content.SiteInfo{
			Name:        cfg.Site.Name,
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			HeaderLinks: cfg.Site.HeaderLinks,
		},
		SummaryLength: cfg.Build.SummaryLength,
	}, c.Markdown, c.Compiler, c.Executor, c.Logger)

	return c, nil
}
