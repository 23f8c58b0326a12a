package content

import (
	"context"
	"html/template"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/markdown"
	"git.home.luguber.info/inful/pagesmith/internal/model"
	"git.home.luguber.info/inful/pagesmith/internal/render"
	"git.home.luguber.info/inful/pagesmith/internal/scanner"
	"git.home.luguber.info/inful/pagesmith/internal/templates"
)

const (
	DefaultTitle       = "Untitled"
	DefaultPostLayout  = "post"
	DefaultPageLayout  = "page"
	siteTitleReference = "@SiteTitle"
)

// SiteInfo is the site-wide metadata passed to component templates.
type SiteInfo struct {
	Name        string
	Title       string
	Description string
	HeaderLinks []string
}

// Options locate the content trees and configure derived fields.
type Options struct {
	PagesDir  string
	OutputDir string
	Site      SiteInfo
	// SummaryLength bounds descriptions derived from the first paragraph.
	// Zero disables derivation.
	SummaryLength int
}

// Processor builds document records. It holds no per-document state and is
// safe for concurrent use.
type Processor struct {
	opts     Options
	md       *markdown.Renderer
	compiler *templates.Compiler
	exec     *render.Executor
	logger   *slog.Logger
}

// NewProcessor wires a processor from its collaborators.
func NewProcessor(opts Options, md *markdown.Renderer, compiler *templates.Compiler, exec *render.Executor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{opts: opts, md: md, compiler: compiler, exec: exec, logger: logger}
}

// Post processes one file from the posts tree.
func (p *Processor) Post(ctx context.Context, path string) (*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	date, slug, err := ParsePostName(path)
	if err != nil {
		return nil, err
	}
	src, err := Load(path)
	if err != nil {
		return nil, err
	}

	doc, err := p.markdownDocument(src, DefaultPostLayout)
	if err != nil {
		return nil, err
	}
	doc.URLPath = PostURL(date, slug)
	doc.OutputPath = OutputPath(p.opts.OutputDir, doc.URLPath)

	if err := p.gate(&doc, src.Fields, src.LastWrite, date); err != nil {
		return nil, err
	}

	return &model.Post{
		Document:      doc,
		PublishedDate: date,
		Author:        src.Fields.Get("author", ""),
	}, nil
}

// Page processes one file from the pages tree. Markdown pages ignore
// navLinks; component templates receive them as the NavLinks parameter.
func (p *Processor) Page(ctx context.Context, path string, navLinks []model.Link) (*model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if IsTemplate(path) {
		return p.templatePage(ctx, path, navLinks)
	}

	src, err := Load(path)
	if err != nil {
		return nil, err
	}
	doc, err := p.markdownDocument(src, DefaultPageLayout)
	if err != nil {
		return nil, err
	}
	doc.URLPath = PageURL(p.relName(path))
	doc.OutputPath = OutputPath(p.opts.OutputDir, doc.URLPath)

	if err := p.gate(&doc, src.Fields, src.LastWrite, time.Time{}); err != nil {
		return nil, err
	}

	navOrder, convErr := strconv.Atoi(strings.TrimSpace(src.Fields.Get("navorder", "0")))
	if convErr != nil {
		navOrder = 0
	}
	return &model.Page{Document: doc, NavOrder: navOrder}, nil
}

// IsTemplate reports whether path is a component template page.
func IsTemplate(path string) bool {
	return strings.EqualFold(filepath.Ext(path), TemplateExt)
}

// TemplateExt is the extension of component template pages.
const TemplateExt = ".tmpl"

func (p *Processor) markdownDocument(src *Source, defaultLayout string) (model.Document, error) {
	res := scanner.Scan(src.Body)
	if res.Dropped {
		p.logger.Warn("Unclosed block at end of document dropped", logfields.Path(src.Path))
	}

	html, err := p.md.Render(res.Lines)
	if err != nil {
		return model.Document{}, ferrors.RenderError("failed to render markdown").
			WithCause(err).
			WithContext("path", src.Path).
			Build()
	}

	description := src.Fields.Get("description", "")
	if description == "" && p.opts.SummaryLength > 0 {
		description = p.md.Summary([]byte(res.Text()), p.opts.SummaryLength)
	}

	return model.Document{
		Title:       src.Fields.Get("title", DefaultTitle),
		Subtitle:    src.Fields.Get("subtitle", ""),
		Body:        template.HTML(html), //nolint:gosec // markdown output with raw HTML is trusted site content
		Components:  res.Components,
		Scripts:     res.Scripts,
		Layout:      LayoutName(src.Fields.Get("layout", defaultLayout)),
		Description: description,
		SourcePath:  src.Path,
		Fingerprint: src.Fingerprint,
	}, nil
}

func (p *Processor) relName(path string) string {
	rel, err := filepath.Rel(p.opts.PagesDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
