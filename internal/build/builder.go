package build

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/pagesmith/internal/content"
	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/history"
	"git.home.luguber.info/inful/pagesmith/internal/incremental"
	"git.home.luguber.info/inful/pagesmith/internal/layout"
	"git.home.luguber.info/inful/pagesmith/internal/linkverify"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/model"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

const (
	markdownExt = ".md"
	assetKind   = "asset"

	historyTimeout = 5 * time.Second
)

// Options modify a single run.
type Options struct {
	// DryRun processes every document but neither stamps sources nor
	// writes output.
	DryRun bool
	// Now supplies the stamp time; defaults to time.Now.
	Now func() time.Time
}

// Builder executes builds against a Context.
type Builder struct {
	bc   *Context
	opts Options
}

// NewBuilder creates a builder.
func NewBuilder(bc *Context, opts Options) *Builder {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{bc: bc, opts: opts}
}

// run is the mutable state of one Run.
type run struct {
	*Builder
	result *Result
	logger *slog.Logger

	mu   sync.Mutex
	docs []history.Document
}

// Run builds the site once. Per-document errors are collected in
// Result.Failures; the returned error is reserved for problems that stop
// the whole run (unreadable source trees, cancellation).
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	r := &run{
		Builder: b,
		result:  &Result{BuildID: uuid.NewString(), Started: time.Now()},
	}
	r.logger = b.bc.Logger.With(logfields.BuildID(r.result.BuildID))
	r.logger.Info("Build started",
		slog.Bool("dry_run", b.opts.DryRun),
		slog.Duration("render_timeout", b.bc.Executor.Timeout()))

	err := r.execute(ctx)
	r.finish(ctx, err)
	return r.result, err
}

func (r *run) execute(ctx context.Context) error {
	cfg := r.bc.Config

	postPaths, err := site.Discover(cfg.Paths.Posts, markdownExt)
	if err != nil {
		return err
	}
	pagePaths, err := site.Discover(cfg.Paths.Pages, markdownExt, content.TemplateExt)
	if err != nil {
		return err
	}
	var markdownPages, templatePages []string
	for _, p := range pagePaths {
		if content.IsTemplate(p) {
			templatePages = append(templatePages, p)
		} else {
			markdownPages = append(markdownPages, p)
		}
	}

	stageStart := time.Now()
	posts := process(ctx, r, string(model.KindPost), postPaths, r.bc.Processor.Post)
	r.bc.Recorder.ObserveStageDuration("posts", time.Since(stageStart))

	// Template pages receive the navigation, which is derived from the
	// markdown pages, so pages are processed in two passes.
	stageStart = time.Now()
	pages := process(ctx, r, string(model.KindPage), markdownPages, func(ctx context.Context, path string) (*model.Page, error) {
		return r.bc.Processor.Page(ctx, path, nil)
	})
	nav := site.NavLinks(pages)
	pages = append(pages, process(ctx, r, string(model.KindPage), templatePages, func(ctx context.Context, path string) (*model.Page, error) {
		return r.bc.Processor.Page(ctx, path, nav)
	})...)
	r.bc.Recorder.ObserveStageDuration("pages", time.Since(stageStart))

	r.result.Posts = len(posts)
	r.result.Pages = len(pages)
	if err := ctx.Err(); err != nil {
		return err
	}

	recent := site.PostLinks(posts)
	statePath := filepath.Join(cfg.Paths.Output, incremental.StateFilename)
	prev := r.loadState(statePath)
	next := &incremental.State{
		NavDigest:    incremental.LinksDigest(nav),
		RecentDigest: incremental.LinksDigest(recent),
	}
	r.refresh(prev, next, posts, pages)

	stageStart = time.Now()
	r.emitAll(ctx, posts, pages, nav, recent)
	r.bc.Recorder.ObserveStageDuration("emit", time.Since(stageStart))
	if err := ctx.Err(); err != nil {
		return err
	}

	discovered := make(map[string]bool, len(postPaths)+len(pagePaths))
	for _, p := range slices.Concat(postPaths, pagePaths) {
		discovered[p] = true
	}
	outputs := make(map[string]incremental.Output, len(posts)+len(pages))
	for _, p := range posts {
		outputs[p.SourcePath] = incremental.Output{Path: p.OutputPath, Kind: string(model.KindPost)}
	}
	for _, p := range pages {
		outputs[p.SourcePath] = incremental.Output{Path: p.OutputPath, Kind: string(model.KindPage)}
	}
	r.prune(prev, discovered, outputs)

	if !r.opts.DryRun {
		r.copyAssets()
		if cfg.Build.VerifyLinks {
			stageStart = time.Now()
			r.verifyLinks(posts, pages)
			r.bc.Recorder.ObserveStageDuration("verify", time.Since(stageStart))
		}
		r.saveState(statePath, prev, next, discovered, outputs)
	}
	return nil
}

func (r *run) loadState(path string) *incremental.State {
	st, err := incremental.LoadState(path)
	if err != nil {
		r.logger.Warn("Ignoring unreadable build state", logfields.Path(path), logfields.Error(err))
		return nil
	}
	return st
}

// refresh marks up-to-date documents for rewriting when a site-wide list
// they render changed since the previous build. Every layout renders the
// navigation; only the index renders the recent posts. Without a previous
// state every document is refreshed.
func (r *run) refresh(prev, next *incremental.State, posts []*model.Post, pages []*model.Page) {
	navChanged := prev == nil || prev.NavDigest != next.NavDigest
	recentChanged := prev == nil || prev.RecentDigest != next.RecentDigest
	if !navChanged && !recentChanged {
		return
	}

	mark := func(doc *model.Document) {
		if doc.Update {
			return
		}
		if navChanged || (recentChanged && doc.URLPath == "/") {
			doc.Update = true
			r.result.Refreshed++
		}
	}
	for _, p := range posts {
		mark(&p.Document)
	}
	for _, p := range pages {
		mark(&p.Document)
	}
	if r.result.Refreshed > 0 {
		r.logger.Info("Site links changed, refreshing documents",
			logfields.Count(r.result.Refreshed),
			slog.Bool("nav_changed", navChanged),
			slog.Bool("recent_changed", recentChanged))
	}
}

// prune deletes outputs recorded by the previous build whose source was
// deleted or now writes to a different path. Sources that still exist but
// failed this run keep their last good output.
func (r *run) prune(prev *incremental.State, discovered map[string]bool, outputs map[string]incremental.Output) {
	if prev == nil {
		return
	}
	produced := make(map[string]bool, len(outputs))
	for _, out := range outputs {
		produced[out.Path] = true
	}

	for _, src := range slices.Sorted(maps.Keys(prev.Outputs)) {
		out := prev.Outputs[src]
		if produced[out.Path] {
			continue
		}
		if _, ok := outputs[src]; discovered[src] && !ok {
			continue
		}
		if !r.insideOutput(out.Path) {
			r.logger.Warn("Ignoring recorded output outside the output directory", logfields.Output(out.Path))
			continue
		}

		logger := r.logger.With(logfields.Path(src), logfields.Kind(out.Kind), logfields.Output(out.Path))
		if r.opts.DryRun {
			logger.Info("Would remove stale output")
			r.removed(src, out.Kind)
			continue
		}
		if err := r.bc.Writer.Remove(out.Path); err != nil {
			r.fail(src, out.Kind, err)
			continue
		}
		logger.Info("Removed stale output")
		r.removed(src, out.Kind)
	}
}

func (r *run) insideOutput(path string) bool {
	rel, err := filepath.Rel(r.bc.Config.Paths.Output, path)
	return err == nil && rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// saveState persists the lists and outputs of this run. After failures the
// previous digests are kept so that documents which could not be rewritten
// are refreshed again by the next build.
func (r *run) saveState(path string, prev, next *incremental.State, discovered map[string]bool, outputs map[string]incremental.Output) {
	next.Outputs = maps.Clone(outputs)
	if prev != nil {
		for src, out := range prev.Outputs {
			if _, ok := next.Outputs[src]; !ok && discovered[src] {
				next.Outputs[src] = out
			}
		}
	}
	if len(r.result.Failures) > 0 {
		next.NavDigest, next.RecentDigest = "", ""
		if prev != nil {
			next.NavDigest, next.RecentDigest = prev.NavDigest, prev.RecentDigest
		}
	}
	if err := incremental.SaveState(path, next); err != nil {
		r.logger.Warn("Failed to save build state", logfields.Path(path), logfields.Error(err))
	}
}

// process runs fn over paths with bounded concurrency and returns the
// successful records in path order. Failures are recorded on the run. No
// new document starts once ctx is done.
func process[T any](ctx context.Context, r *run, kind string, paths []string, fn func(context.Context, string) (T, error)) []T {
	records := make([]T, len(paths))
	ok := make([]bool, len(paths))

	var g errgroup.Group
	g.SetLimit(max(r.bc.Config.Build.Concurrency, 1))
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			start := time.Now()
			rec, err := fn(ctx, path)
			r.bc.Recorder.ObserveRenderDuration(kind, time.Since(start))
			if err != nil {
				r.fail(path, kind, err)
				return nil
			}
			records[i], ok[i] = rec, true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]T, 0, len(paths))
	for i, rec := range records {
		if ok[i] {
			out = append(out, rec)
		}
	}
	return out
}

// emitAll stamps, renders and writes every record that needs an update.
func (r *run) emitAll(ctx context.Context, posts []*model.Post, pages []*model.Page, nav, recent []model.Link) {
	var g errgroup.Group
	g.SetLimit(max(r.bc.Config.Build.Concurrency, 1))

	for _, post := range posts {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r.emit(&post.Document, string(model.KindPost), layout.NewData(r.bc.site, post.Document, post, nav, nil))
			return nil
		})
	}
	for _, page := range pages {
		if ctx.Err() != nil {
			break
		}
		var pageRecent []model.Link
		if page.URLPath == "/" {
			pageRecent = recent
		}
		g.Go(func() error {
			r.emit(&page.Document, string(model.KindPage), layout.NewData(r.bc.site, page.Document, nil, nav, pageRecent))
			return nil
		})
	}
	_ = g.Wait()
}

func (r *run) emit(doc *model.Document, kind string, data layout.Data) {
	logger := r.logger.With(logfields.Path(doc.SourcePath), logfields.Kind(kind))

	if !doc.Update {
		logger.Debug("Output up to date", logfields.Output(doc.OutputPath))
		r.done(doc, kind, metrics.DocumentSkipped)
		return
	}

	// The source is stamped before the output is written so the output
	// ends up newer than the rewritten source.
	if doc.Stamp && !r.opts.DryRun {
		unlock := r.bc.Writer.Lock(doc.SourcePath)
		err := incremental.Stamp(doc.SourcePath, r.opts.Now())
		unlock()
		if err != nil {
			r.fail(doc.SourcePath, kind, err)
			return
		}
		r.bc.Recorder.IncStamp()
		r.mu.Lock()
		r.result.Stamped++
		r.mu.Unlock()
		logger.Debug("Stamped lastmodified")
	}

	out, err := r.bc.Layouts.Render(doc.Layout, data)
	if err != nil {
		r.fail(doc.SourcePath, kind, err)
		return
	}
	if r.opts.DryRun {
		logger.Info("Would write document", logfields.URL(doc.URLPath), logfields.Output(doc.OutputPath))
		r.done(doc, kind, metrics.DocumentWritten)
		return
	}
	if err := r.bc.Writer.Write(doc.OutputPath, out); err != nil {
		r.fail(doc.SourcePath, kind, err)
		return
	}
	logger.Info("Wrote document", logfields.URL(doc.URLPath), logfields.Output(doc.OutputPath))
	r.done(doc, kind, metrics.DocumentWritten)
}

func (r *run) copyAssets() {
	static := r.bc.Config.Paths.Static
	if static == "" {
		return
	}
	start := time.Now()
	n, err := site.CopyAssets(static, r.bc.Config.Paths.Output)
	r.bc.Recorder.ObserveStageDuration("assets", time.Since(start))
	if err != nil {
		r.fail(static, assetKind, err)
		return
	}
	r.result.Assets = n
	if n > 0 {
		r.logger.Info("Copied static assets", logfields.Count(n))
	}
}

// verifyLinks checks internal links in every generated page. Broken links
// are reported, not failed.
func (r *run) verifyLinks(posts []*model.Post, pages []*model.Page) {
	docs := make([]*model.Document, 0, len(posts)+len(pages))
	for _, p := range posts {
		docs = append(docs, &p.Document)
	}
	for _, p := range pages {
		docs = append(docs, &p.Document)
	}

	urls := make([]string, 0, len(docs))
	for _, d := range docs {
		urls = append(urls, d.URLPath)
	}
	verifier := linkverify.NewVerifier(r.bc.Config.Paths.Output, urls)

	for _, d := range docs {
		data, err := os.ReadFile(d.OutputPath)
		if err != nil {
			// Documents that failed to emit have no output.
			continue
		}
		broken, err := verifier.VerifyPage(d.URLPath, data)
		if err != nil {
			r.logger.Warn("Link verification failed", logfields.Output(d.OutputPath), logfields.Error(err))
			continue
		}
		for _, bl := range broken {
			r.logger.Warn("Broken link", logfields.URL(bl.URL), logfields.Path(d.SourcePath), slog.String("tag", bl.Tag))
		}
		r.result.BrokenLinks = append(r.result.BrokenLinks, broken...)
	}
	r.bc.Recorder.AddBrokenLinks(len(r.result.BrokenLinks))
}

func (r *run) done(doc *model.Document, kind string, outcome metrics.DocumentOutcome) {
	r.bc.Recorder.IncDocument(kind, outcome)
	r.mu.Lock()
	defer r.mu.Unlock()
	if outcome == metrics.DocumentWritten {
		r.result.Written++
	} else {
		r.result.Skipped++
	}
	r.docs = append(r.docs, history.Document{
		Path:        doc.SourcePath,
		Kind:        kind,
		Outcome:     string(outcome),
		Fingerprint: doc.Fingerprint,
	})
}

func (r *run) removed(src, kind string) {
	r.bc.Recorder.IncDocument(kind, metrics.DocumentRemoved)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Removed++
	r.docs = append(r.docs, history.Document{
		Path:    src,
		Kind:    kind,
		Outcome: string(metrics.DocumentRemoved),
	})
}

func (r *run) fail(path, kind string, err error) {
	category := ferrors.GetCategory(err)
	r.logger.Error("Document failed",
		logfields.Path(path),
		logfields.Kind(kind),
		logfields.Category(string(category)),
		logfields.Error(err))
	r.bc.Recorder.IncDocument(kind, metrics.DocumentFailed)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Failures = append(r.result.Failures, Failure{
		Path:     path,
		Kind:     kind,
		Category: string(category),
		Message:  err.Error(),
	})
	r.docs = append(r.docs, history.Document{
		Path:    path,
		Kind:    kind,
		Outcome: string(metrics.DocumentFailed),
		Error:   err.Error(),
	})
}

func (r *run) finish(ctx context.Context, err error) {
	res := r.result
	res.Finished = time.Now()
	slices.SortFunc(res.Failures, func(a, b Failure) int { return cmp.Compare(a.Path, b.Path) })

	switch {
	case ctx.Err() != nil:
		res.Outcome = metrics.BuildCanceled
	case err != nil:
		res.Outcome = metrics.BuildFailed
	case len(res.Failures) > 0 && res.Written+res.Skipped == 0:
		res.Outcome = metrics.BuildFailed
	case len(res.Failures) > 0:
		res.Outcome = metrics.BuildPartial
	default:
		res.Outcome = metrics.BuildSuccess
	}

	r.bc.Recorder.IncBuildOutcome(res.Outcome)
	r.bc.Recorder.ObserveBuildDuration(res.Duration())

	attrs := []any{
		slog.String("outcome", string(res.Outcome)),
		slog.Int("written", res.Written),
		slog.Int("skipped", res.Skipped),
		slog.Int("stamped", res.Stamped),
		slog.Int("refreshed", res.Refreshed),
		slog.Int("removed", res.Removed),
		slog.Int("failed", len(res.Failures)),
		logfields.Duration(res.Duration()),
	}
	if err != nil {
		r.logger.Error("Build stopped", append(attrs, logfields.Error(err))...)
	} else {
		r.logger.Info("Build finished", attrs...)
	}

	r.recordHistory(ctx)
}

func (r *run) recordHistory(ctx context.Context) {
	if r.bc.History == nil || r.opts.DryRun {
		return
	}
	res := r.result
	build := history.Build{
		ID:        res.BuildID,
		Started:   res.Started,
		Finished:  res.Finished,
		Outcome:   string(res.Outcome),
		Documents: len(r.docs),
		Failures:  len(res.Failures),
	}
	slices.SortFunc(r.docs, func(a, b history.Document) int { return cmp.Compare(a.Path, b.Path) })
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyTimeout)
	defer cancel()
	if err := r.bc.History.RecordBuild(ctx, build, r.docs); err != nil {
		r.logger.Warn("Failed to record build history", logfields.Error(err))
	}
}

