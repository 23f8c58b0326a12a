package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/build"
	"git.home.luguber.info/inful/pagesmith/internal/config"
	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	DryRun      bool   `name:"dry-run" help:"Process every document without stamping sources or writing output"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile (overrides metrics.textfile)" type:"path"`
	History     string `name:"history" help:"SQLite build history database (overrides history.path)" type:"path"`
	Strict      bool   `help:"Exit non-zero when any document fails"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if b.MetricsFile != "" {
		cfg.Metrics.Textfile = b.MetricsFile
	}
	if b.History != "" {
		cfg.History.Path = b.History
	}

	env, err := newEnvironment(cfg, g.Logger)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signalContext()
	defer stop()

	res, runErr := build.NewBuilder(env.bc, build.Options{DryRun: b.DryRun}).Run(ctx)
	env.flushMetrics()
	printSummary(g.Out, res)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return ferrors.WrapError(runErr, ferrors.CategoryRuntime, "build interrupted").Build()
		}
		return runErr
	}
	if b.Strict && !res.OK() {
		return ferrors.NewError(ferrors.CategoryRuntime, "build completed with failures").
			WithContext("failures", len(res.Failures)).
			Build()
	}
	return nil
}

func printSummary(w io.Writer, res *build.Result) {
	if res == nil {
		return
	}
	fmt.Fprintf(w, "Build %s: %s in %s\n", res.BuildID, res.Outcome, res.Duration().Round(time.Millisecond))
	fmt.Fprintf(w, "  posts %d, pages %d, written %d (refreshed %d), up to date %d, stamped %d, removed %d, assets %d\n",
		res.Posts, res.Pages, res.Written, res.Refreshed, res.Skipped, res.Stamped, res.Removed, res.Assets)
	for _, f := range res.Failures {
		fmt.Fprintf(w, "  FAILED %s [%s] %s\n", f.Path, f.Category, f.Message)
	}
	for _, bl := range res.BrokenLinks {
		fmt.Fprintf(w, "  BROKEN %s -> %s\n", bl.Page, bl.URL)
	}
}
