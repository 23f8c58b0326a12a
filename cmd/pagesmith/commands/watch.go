package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/build"
	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Interval time.Duration `help:"Periodic rebuild interval (overrides watch.interval)"`
	Debounce time.Duration `help:"Quiet period before a change triggers a rebuild (overrides watch.debounce)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	interval := cfg.Watch.IntervalDuration()
	if w.Interval > 0 {
		interval = w.Interval
	}
	debounce := cfg.Watch.DebounceDuration()
	if w.Debounce > 0 {
		debounce = w.Debounce
	}

	env, err := newEnvironment(cfg, g.Logger)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signalContext()
	defer stop()

	builder := build.NewBuilder(env.bc, build.Options{})
	rebuild := func(ctx context.Context, _ string) error {
		res, err := builder.Run(ctx)
		env.flushMetrics()
		printSummary(g.Out, res)
		return err
	}

	if err := rebuild(ctx, "startup"); err != nil && ctx.Err() == nil {
		g.Logger.Warn("Initial build failed; watching anyway")
	}

	watcher := watch.New(watch.Options{
		Dirs:     []string{cfg.Paths.Posts, cfg.Paths.Pages, cfg.Paths.Static},
		Debounce: debounce,
		Interval: interval,
		Logger:   g.Logger,
	}, rebuild)
	return watcher.Run(ctx)
}
