package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	wiki "github.com/verdd/verdd-backend/internal/adapter/termwiki"
	"github.com/verdd/verdd-backend/internal/app"
	"github.com/verdd/verdd-backend/internal/app/termwiki"
)

var termwikiFlags struct {
	category string
	dryRun   bool
}

var termwikiCmd = &cobra.Command{
	Use:   "termwiki",
	Short: "TermWiki integration",
}

var termwikiSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror TermWiki concepts into the dictionary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		twCfg := cfg.TermWiki
		if termwikiFlags.category != "" {
			twCfg.Category = termwikiFlags.category
		}
		return withDeps(cmd, func(ctx context.Context, d *app.Deps) error {
			syncer := termwiki.NewSyncer(logger, wiki.NewClient(twCfg, logger), d.ImportRepos(), d.Satellites,
				twCfg, cfg.Import.BatchSize, termwikiFlags.dryRun)
			report, err := syncer.Sync(ctx)
			if err != nil {
				return err
			}
			for _, le := range report.LineErrors {
				logger.Warn("skipped concept", slog.Int("concept", le.Line), slog.String("reason", le.Reason))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pages=%d concepts=%d expressions=%d lexemes=%d relations=%d affiliations=%d\n",
				report.Pages, report.Concepts, report.Expressions, report.Lexemes, report.Relations, report.Affiliations)
			return nil
		})
	},
}

func init() {
	f := termwikiSyncCmd.Flags()
	f.StringVar(&termwikiFlags.category, "category", "", "category to mirror (default from config)")
	f.BoolVar(&termwikiFlags.dryRun, "dry-run", false, "fetch and resolve without writing")
	termwikiCmd.AddCommand(termwikiSyncCmd)
}
