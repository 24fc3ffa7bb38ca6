package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/config"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/quality"
	"github.com/sells-group/contact-cli/internal/tabular"
)

type qualityOptions struct {
	Input       string
	Report      string
	FixedOutput string
}

var qualityOpts qualityOptions

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Score the data quality of a contact table",
	Long:  "Counts invalid emails, missing fields, casing and character issues, duplicates and company spelling variants, then grades the table.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := runQuality(cmd.Context(), cmd.OutOrStdout(), qualityOpts)
		return err
	},
}

func init() {
	qualityCmd.Flags().StringVar(&qualityOpts.Input, "input", "", "contact table (.csv or .xlsx, required)")
	qualityCmd.Flags().StringVar(&qualityOpts.Report, "report", "", "write the report to this file instead of stdout")
	qualityCmd.Flags().StringVar(&qualityOpts.FixedOutput, "fixed-output", "", "also write a copy with names proper-cased and whitespace trimmed")
	_ = qualityCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(qualityCmd)
}

func qualityWeights(c config.QualityConfig) quality.Weights {
	return quality.Weights{
		FieldsPerRecord: c.FieldsPerRecord,
		InvalidEmail:    c.InvalidEmailWeight,
		MissingField:    c.MissingFieldWeight,
		Casing:          c.CasingWeight,
		SpecialChar:     c.SpecialCharWeight,
		DuplicateGroup:  c.DuplicateGroupWeight,
	}
}

func qualityThresholds(c config.QualityConfig) quality.Thresholds {
	return quality.Thresholds{A: c.GradeA, B: c.GradeB, C: c.GradeC, D: c.GradeD}
}

type qualityOutcome struct {
	Report *quality.Report
	Score  float64
	Grade  quality.Grade
}

func runQuality(ctx context.Context, out io.Writer, opts qualityOptions) (*qualityOutcome, error) {
	rec := beginRun(ctx, model.RunKindQuality, opts.Input)

	tbl, err := tabular.Read(opts.Input)
	if err != nil {
		return nil, rec.fail(ctx, eris.Wrap(err, "quality"))
	}
	schema, err := tabular.ResolveSchema(tbl.Header)
	if err != nil {
		return nil, rec.fail(ctx, eris.Wrap(err, "quality"))
	}

	rep := quality.Analyze(tbl, schema)
	score := quality.Score(rep.Stats, qualityWeights(cfg.Quality))
	grade := quality.GradeFor(score, qualityThresholds(cfg.Quality))

	if opts.FixedOutput != "" {
		if err := tabular.WriteFile(opts.FixedOutput, quality.Clean(tbl, schema)); err != nil {
			return nil, rec.fail(ctx, eris.Wrap(err, "quality"))
		}
	}

	if err := writeReport(out, opts.Report, quality.FormatReport(opts.Input, rep, score, grade)); err != nil {
		return nil, rec.fail(ctx, eris.Wrap(err, "quality"))
	}

	zap.L().Info("quality complete",
		zap.String("input", opts.Input),
		zap.Int("records", rep.Stats.Total),
		zap.Float64("score", score),
		zap.String("grade", string(grade)),
	)

	rec.complete(ctx, map[string]any{
		"stats": rep.Stats,
		"score": score,
		"grade": string(grade),
	})
	return &qualityOutcome{Report: rep, Score: score, Grade: grade}, nil
}
