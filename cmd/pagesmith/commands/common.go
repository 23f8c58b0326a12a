package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagesmith/internal/build"
	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/history"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
)

// LogLevelEnv overrides the log level chosen by --verbose.
const LogLevelEnv = "PAGESMITH_LOG_LEVEL"

// Global is shared state handed to every subcommand.
type Global struct {
	Out    io.Writer
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./pagesmith.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site once"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild on source changes and periodically"`
	History HistoryCmd `cmd:"" help:"List recent builds"`
}

// AfterApply runs after flag parsing; it sets up logging once.
func (c *CLI) AfterApply(g *Global) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// parseLogLevel honors PAGESMITH_LOG_LEVEL first, then --verbose.
func parseLogLevel(verbose bool) slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// environment is the wiring shared by build and watch.
type environment struct {
	cfg      *config.Config
	bc       *build.Context
	recorder *metrics.PrometheusRecorder
	store    *history.SQLiteStore
	logger   *slog.Logger
}

// newEnvironment opens the optional history store and metrics recorder
// and constructs the build context.
func newEnvironment(cfg *config.Config, logger *slog.Logger) (*environment, error) {
	env := &environment{cfg: cfg, logger: logger}
	opts := []build.ContextOption{build.WithLogger(logger)}

	if cfg.Metrics.Textfile != "" {
		env.recorder = metrics.NewPrometheusRecorder(nil)
		opts = append(opts, build.WithRecorder(env.recorder))
	}
	if cfg.History.Path != "" {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		env.store = store
		opts = append(opts, build.WithHistory(store))
	}

	bc, err := build.NewContext(cfg, opts...)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.bc = bc
	return env, nil
}

// flushMetrics writes the metrics textfile when one is configured.
func (e *environment) flushMetrics() {
	if e.recorder == nil {
		return
	}
	if err := metrics.WriteTextfile(e.cfg.Metrics.Textfile, e.recorder.Registry()); err != nil {
		e.logger.Warn("Failed to write metrics textfile", logfields.Path(e.cfg.Metrics.Textfile), logfields.Error(err))
	}
}

func (e *environment) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("Failed to close history store", logfields.Error(err))
		}
	}
}
