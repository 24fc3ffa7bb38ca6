package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/names"
	"github.com/sells-group/contact-cli/internal/remediate"
	"github.com/sells-group/contact-cli/internal/tabular"
)

type remediateOptions struct {
	Input  string
	Output string // defaults to Input
	Report string // empty prints to stdout
	DryRun bool
}

var remediateOpts remediateOptions

var remediateCmd = &cobra.Command{
	Use:   "remediate",
	Short: "Fill incomplete contact names from email addresses",
	Long:  "Classifies each first/last name, infers replacements for incomplete ones from the email local part, and rewrites the table in one atomic write.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := runRemediate(cmd.Context(), cmd.OutOrStdout(), remediateOpts)
		return err
	},
}

func init() {
	remediateCmd.Flags().StringVar(&remediateOpts.Input, "input", "", "contact table (.csv or .xlsx, required)")
	remediateCmd.Flags().StringVar(&remediateOpts.Output, "output", "", "where to write the remediated table (default: overwrite --input)")
	remediateCmd.Flags().StringVar(&remediateOpts.Report, "report", "", "write the summary to this file instead of stdout")
	remediateCmd.Flags().BoolVar(&remediateOpts.DryRun, "dry-run", false, "report what would change without writing the table")
	_ = remediateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(remediateCmd)
}

func loadNames() (names.Vocabulary, *names.Overrides, error) {
	vocab := names.DefaultVocabulary()
	if p := cfg.Names.VocabularyPath; p != "" {
		v, err := names.LoadVocabulary(p)
		if err != nil {
			return names.Vocabulary{}, nil, err
		}
		vocab = v
	}

	var overrides *names.Overrides
	if p := cfg.Names.OverridesPath; p != "" {
		o, err := names.LoadOverrides(p)
		if err != nil {
			return names.Vocabulary{}, nil, err
		}
		overrides = o
	}
	return vocab, overrides, nil
}

func runRemediate(ctx context.Context, out io.Writer, opts remediateOptions) (*remediate.Result, error) {
	if opts.Output == "" {
		opts.Output = opts.Input
	}

	vocab, overrides, err := loadNames()
	if err != nil {
		return nil, eris.Wrap(err, "remediate")
	}

	rec := beginRun(ctx, model.RunKindRemediate, opts.Input)

	tbl, err := tabular.Read(opts.Input)
	if err != nil {
		return nil, rec.fail(ctx, eris.Wrap(err, "remediate"))
	}

	res, err := remediate.New(vocab, overrides).Remediate(tbl)
	if err != nil {
		return nil, rec.fail(ctx, eris.Wrap(err, "remediate"))
	}

	written := false
	if !opts.DryRun && (res.Changed() || opts.Output != opts.Input) {
		if err := tabular.WriteFile(opts.Output, res.Table); err != nil {
			return nil, rec.fail(ctx, eris.Wrap(err, "remediate"))
		}
		written = true
	}

	if err := writeReport(out, opts.Report, remediate.FormatSummary(res)); err != nil {
		return nil, rec.fail(ctx, eris.Wrap(err, "remediate"))
	}

	zap.L().Info("remediate complete",
		zap.String("input", opts.Input),
		zap.Int("fixed", len(res.Fixes)),
		zap.Int("unresolved", len(res.Unresolved)),
		zap.Int("unchanged", res.Unchanged),
		zap.Bool("written", written),
		zap.Bool("dry_run", opts.DryRun),
	)

	rec.audit(ctx, res.Fixes, res.Unresolved)
	rec.complete(ctx, map[string]any{
		"output":     opts.Output,
		"fixed":      len(res.Fixes),
		"unresolved": len(res.Unresolved),
		"unchanged":  res.Unchanged,
		"malformed":  len(res.Malformed),
		"written":    written,
		"dry_run":    opts.DryRun,
	})
	return res, nil
}
