package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verdd/verdd-backend/internal/app"
	"github.com/verdd/verdd-backend/internal/app/importer"
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
)

var importFlags struct {
	format       string
	source       string
	target       string
	relationType string
	importedFrom string
	batchSize    int
	dryRun       bool
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a dictionary file",
	Long: `Imports lexemes, translations, stems and examples from a TSV, CSV,
LEXC, GiellaXML or DIX file. The format defaults to the file extension.
Lines that cannot be parsed are reported and skipped; any storage error
rolls the whole import back.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importFlags.format, "format", "", "file format (tsv, csv, lexc, xml, dix)")
	f.StringVar(&importFlags.source, "source", "", "source language (default from config)")
	f.StringVar(&importFlags.target, "target", "", "target language (default from config)")
	f.StringVar(&importFlags.relationType, "relation-type", string(domain.RelationTranslation), "type of imported relations")
	f.StringVar(&importFlags.importedFrom, "imported-from", "", "label stored on created lexemes (default: file name)")
	f.IntVar(&importFlags.batchSize, "batch-size", 0, "rows per insert (default from config)")
	f.BoolVar(&importFlags.dryRun, "dry-run", false, "parse and resolve without writing")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	name := importFlags.format
	if name == "" {
		name = filepath.Ext(path)
	}
	format, err := lexformat.ParseFormat(name)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	icfg := importer.Config{
		Format:         format,
		SourceLanguage: or(importFlags.source, cfg.Lexicon.SourceLanguage),
		TargetLanguage: or(importFlags.target, cfg.Lexicon.TargetLanguage),
		RelationType:   domain.RelationType(importFlags.relationType),
		ImportedFrom:   or(importFlags.importedFrom, filepath.Base(path)),
		BatchSize:      importFlags.batchSize,
		DryRun:         importFlags.dryRun,
	}
	if icfg.BatchSize == 0 {
		icfg.BatchSize = cfg.Import.BatchSize
	}

	return withDeps(cmd, func(ctx context.Context, d *app.Deps) error {
		p := importer.NewPipeline(logger, d.ImportRepos(), icfg)
		runErr := p.Run(ctx, file)
		printImportReport(cmd.OutOrStdout(), p)
		if runErr != nil {
			return runErr
		}
		if p.HasErrors() {
			return fmt.Errorf("import finished with %d skipped lines", len(p.LineErrors()))
		}
		return nil
	})
}

func printImportReport(w io.Writer, p *importer.Pipeline) {
	results := p.Results()
	for _, stage := range []string{
		importer.StageParse, importer.StageLexemes, importer.StageRelations,
		importer.StageStems, importer.StageExamples, importer.StageRelationExamples,
		importer.StageHistory,
	} {
		r, ok := results[stage]
		if !ok {
			continue
		}
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(w, "%-18s inserted=%d skipped=%d %s\n", stage, r.Inserted, r.Skipped, status)
	}
	for _, le := range p.LineErrors() {
		logger.Warn("skipped line", slog.Int("line", le.Line), slog.String("reason", le.Reason))
	}
}

func or(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
