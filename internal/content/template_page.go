package content

import (
	"context"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatterops"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/model"
	"git.home.luguber.info/inful/pagesmith/internal/scanner"
	"git.home.luguber.info/inful/pagesmith/internal/templates"
)

// templatePage compiles and renders a component template. Embedded
// components and scripts are lifted out by the scanner first, so the
// compiler only sees page markup.
func (p *Processor) templatePage(ctx context.Context, path string, navLinks []model.Link) (*model.Page, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to stat template").WithCause(err).WithContext("path", path).Build()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to read template").WithCause(err).WithContext("path", path).Build()
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	directives, err := templates.ParseDirectives(name, text)
	if err != nil {
		return nil, withPath(err, path)
	}
	title := directives.Title
	if title == siteTitleReference {
		title = p.opts.Site.Title
	}

	res := scanner.Scan(strings.Split(text, "\n"))
	if res.Dropped {
		p.logger.Warn("Unclosed block at end of template dropped", logfields.Path(path))
	}

	unit, err := p.compiler.Compile(name, res.Text())
	if err != nil {
		for _, d := range templates.Diagnostics(err) {
			p.logger.Debug("Template diagnostic", logfields.Path(path), logfields.Stage("compile"), "diagnostic", d.String())
		}
		return nil, withPath(err, path)
	}

	html, err := p.exec.Render(ctx, unit, templates.Params{
		Title:           template.HTML(title), //nolint:gosec // titles are site-authored
		URL:             directives.Route,
		NavLinks:        navLinks,
		SiteName:        p.opts.Site.Name,
		SiteTitle:       p.opts.Site.Title,
		SiteDescription: template.HTML(p.opts.Site.Description),                  //nolint:gosec // site-authored
		HeaderLinks:     template.HTML(strings.Join(p.opts.Site.HeaderLinks, "\n")), //nolint:gosec // site-authored
	})
	if err != nil {
		return nil, withPath(err, path)
	}

	doc := model.Document{
		Title:       title,
		URLPath:     directives.Route,
		Body:        template.HTML(html), //nolint:gosec // produced by html/template
		Components:  res.Components,
		Scripts:     res.Scripts,
		Layout:      LayoutName(DefaultPageLayout),
		OutputPath:  OutputPath(p.opts.OutputDir, directives.Route),
		SourcePath:  path,
		Fingerprint: frontmatterops.ComputeFingerprint(frontmatter.NewFields(), text),
	}
	if err := p.gate(&doc, nil, info.ModTime(), time.Time{}); err != nil {
		return nil, err
	}
	return &model.Page{Document: doc, Template: true}, nil
}
