package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/verdd/verdd-backend/internal/app"
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/linkpred"
	"github.com/verdd/verdd-backend/internal/service/prediction"
)

var predictFlags struct {
	source    string
	target    string
	pivots    []string
	topK      int
	minScore  float64
	samePOS   bool
	relations []string
	save      bool
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict translations through pivot languages",
	Long: `Builds the translation graph and prints candidate translations from
source to target as TSV with the parts of speech, score and pivots. With --save
the candidates are stored as unchecked predicted relations.`,
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.StringVar(&predictFlags.source, "source", "", "source language (default from config)")
	f.StringVar(&predictFlags.target, "target", "", "target language (default from config)")
	f.StringSliceVar(&predictFlags.pivots, "pivot", nil, "pivot languages (repeatable, default: all others)")
	f.IntVar(&predictFlags.topK, "top-k", 0, "candidates per source lexeme (default from config)")
	f.Float64Var(&predictFlags.minScore, "min-score", 0, "drop candidates scoring at or below this")
	f.BoolVar(&predictFlags.samePOS, "same-pos", false, "require matching parts of speech")
	f.StringSliceVar(&predictFlags.relations, "relation-type", nil, "relation types forming the graph")
	f.BoolVar(&predictFlags.save, "save", false, "store the predictions")
}

func runPredict(cmd *cobra.Command, _ []string) error {
	input := prediction.PredictInput{
		Source: or(predictFlags.source, cfg.Lexicon.SourceLanguage),
		Target: or(predictFlags.target, cfg.Lexicon.TargetLanguage),
		Pivots: predictFlags.pivots,
		Save:   predictFlags.save,
	}
	flags := cmd.Flags()
	if flags.Changed("top-k") {
		input.TopK = &predictFlags.topK
	}
	if flags.Changed("min-score") {
		input.MinScore = &predictFlags.minScore
	}
	if flags.Changed("same-pos") {
		input.SamePOS = &predictFlags.samePOS
	}
	for _, t := range predictFlags.relations {
		input.RelationTypes = append(input.RelationTypes, domain.RelationType(t))
	}

	return withDeps(cmd, func(ctx context.Context, d *app.Deps) error {
		res, err := d.Prediction.Predict(ctx, input)
		if err != nil {
			return err
		}
		if err := linkpred.WriteTSV(cmd.OutOrStdout(), res.Predictions); err != nil {
			return err
		}
		logger.Info("prediction finished",
			slog.Int("predictions", len(res.Predictions)),
			slog.Int("nodes", res.Nodes),
			slog.Int("edges", res.Edges),
			slog.Int("saved", res.Saved),
			slog.Int("skipped", res.Skipped),
			slog.Duration("duration", res.Duration),
		)
		return nil
	})
}
