package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit   int    `help:"Number of builds to list" default:"10"`
	History string `name:"history" help:"SQLite build history database (overrides history.path)" type:"path"`
	BuildID string `arg:"" optional:"" name:"build-id" help:"Show the documents of one build"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	path := cfg.History.Path
	if h.History != "" {
		path = h.History
	}
	if path == "" {
		return ferrors.ConfigError("build history is not configured (set history.path or --history)").Build()
	}

	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if h.BuildID != "" {
		docs, err := store.Documents(ctx, h.BuildID)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "PATH\tKIND\tOUTCOME\tERROR")
		for _, d := range docs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Path, d.Kind, d.Outcome, d.Error)
		}
		return nil
	}

	builds, err := store.Recent(ctx, h.Limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "BUILD\tSTARTED\tDURATION\tOUTCOME\tDOCUMENTS\tFAILURES")
	for _, b := range builds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			b.ID, b.Started.Local().Format(time.DateTime), b.Duration().Round(time.Millisecond), b.Outcome, b.Documents, b.Failures)
	}
	return nil
}
