package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/contact-cli/internal/config"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/verify"
)

type verifyOptions struct {
	Master   string
	Profiles string
	Expected int // 0 uses verify.expected_ranks
	Report   string
}

var verifyOpts verifyOptions

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Reconcile the master table with its profile documents",
	Long:  "Checks rank coverage, field agreement, completeness, email and LinkedIn syntax, and filename consistency between the ranked master table and the per-contact profile files.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := runVerify(cmd.Context(), cmd.OutOrStdout(), verifyOpts)
		return err
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyOpts.Master, "master", "", "ranked master table (.csv or .xlsx, required)")
	verifyCmd.Flags().StringVar(&verifyOpts.Profiles, "profiles", "", "directory of <rank>_<company>.txt profile files (required)")
	verifyCmd.Flags().IntVar(&verifyOpts.Expected, "expected", 0, "expected rank count N for ranks 1..N (default: config, then master size)")
	verifyCmd.Flags().StringVar(&verifyOpts.Report, "report", "", "write the report to this file instead of stdout")
	_ = verifyCmd.MarkFlagRequired("master")
	_ = verifyCmd.MarkFlagRequired("profiles")
	rootCmd.AddCommand(verifyCmd)
}

func verifyOptionsFrom(c config.VerifyConfig, expected int) verify.Options {
	if expected <= 0 {
		expected = c.ExpectedRanks
	}
	return verify.Options{
		Expected:              expected,
		CompletenessThreshold: c.CompletenessThreshold,
		LinkedInPrefix:        c.LinkedInPrefix,
		Weights: verify.ScoreWeights{
			MasterCoverage:  c.MasterCoverageWeight,
			ProfileCoverage: c.ProfileCoverageWeight,
			Consistency:     c.ConsistencyWeight,
			Completeness:    c.CompletenessWeight,
		},
	}
}

func runVerify(ctx context.Context, out io.Writer, opts verifyOptions) (*verify.Result, error) {
	rec := beginRun(ctx, model.RunKindVerify, opts.Master)

	master, err := verify.LoadMaster(opts.Master)
	if err != nil {
		return nil, rec.fail(ctx, eris.Wrap(err, "verify"))
	}
	profiles, err := verify.LoadProfiles(opts.Profiles)
	if err != nil {
		return nil, rec.fail(ctx, eris.Wrap(err, "verify"))
	}

	res := verify.New(verifyOptionsFrom(cfg.Verify, opts.Expected)).Verify(master, profiles)

	if err := writeReport(out, opts.Report, verify.FormatReport(res)); err != nil {
		return nil, rec.fail(ctx, eris.Wrap(err, "verify"))
	}

	rec.complete(ctx, map[string]any{
		"profiles":            opts.Profiles,
		"expected":            res.Expected,
		"missing_in_master":   len(res.MissingInMaster),
		"missing_in_profiles": len(res.MissingInProfiles),
		"mismatches":          len(res.Mismatches),
		"score":               res.Score,
		"rating":              res.Rating,
	})
	return res, nil
}
