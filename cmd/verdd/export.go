package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdd/verdd-backend/internal/adapter/storage"
	"github.com/verdd/verdd-backend/internal/app"
	"github.com/verdd/verdd-backend/internal/app/exporter"
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
)

var exportFlags struct {
	format         string
	language       string
	target         string
	types          []string
	translatedOnly bool
	output         string
	upload         bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dictionary to a file or object storage",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.format, "format", string(lexformat.FormatTSV), "output format (tsv, csv, lexc, xml, dix)")
	f.StringVar(&exportFlags.language, "language", "", "language of the exported lexemes (default from config)")
	f.StringVar(&exportFlags.target, "target", "", "translation language (default from config)")
	f.StringSliceVar(&exportFlags.types, "type", nil, "relation types to include (repeatable)")
	f.BoolVar(&exportFlags.translatedOnly, "translated-only", false, "skip lexemes without a translation")
	f.StringVarP(&exportFlags.output, "output", "o", "-", "output file, - for stdout")
	f.BoolVar(&exportFlags.upload, "upload", false, "store the export in the configured storage instead")
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := lexformat.ParseFormat(exportFlags.format)
	if err != nil {
		return err
	}
	req := exporter.Request{
		Language:       or(exportFlags.language, cfg.Lexicon.SourceLanguage),
		Target:         or(exportFlags.target, cfg.Lexicon.TargetLanguage),
		Format:         format,
		TranslatedOnly: exportFlags.translatedOnly,
	}
	for _, t := range exportFlags.types {
		req.Types = append(req.Types, domain.RelationType(t))
	}

	return withDeps(cmd, func(ctx context.Context, d *app.Deps) error {
		if exportFlags.upload {
			store, err := storage.New(cfg.Storage)
			if err != nil {
				return err
			}
			loc, err := d.Exporter.Upload(ctx, store, req, time.Now())
			if err != nil {
				return err
			}
			logger.Info("export uploaded", slog.String("location", loc))
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportFlags.output != "-" {
			f, err := os.Create(exportFlags.output)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		bw := bufio.NewWriter(w)
		if _, err := d.Exporter.Export(ctx, bw, req); err != nil {
			return err
		}
		return bw.Flush()
	})
}
