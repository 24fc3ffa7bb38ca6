// Package remediate applies the name classifier, email extractor and
// resolution policy across a contact table.
package remediate

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/names"
	"github.com/sells-group/contact-cli/internal/tabular"
)

// Outcome label used for corrections taken from the override table.
const (
	OutcomeOverride = "override"
	ReasonOverride  = "manual override"
)

// Result is the outcome of one remediation pass. Table is a new snapshot;
// the input table is never modified.
type Result struct {
	Table      *tabular.Table
	Schema     tabular.Schema
	Fixes      []model.FixEntry
	Unresolved []model.UnresolvedEntry
	Unchanged  int
	Malformed  []int // source lines with too few columns, passed through as-is
}

// Incomplete is the number of records that needed attention.
func (r *Result) Incomplete() int {
	return len(r.Fixes) + len(r.Unresolved)
}

// Changed reports whether the output table differs from the input.
func (r *Result) Changed() bool {
	return len(r.Fixes) > 0
}

// Remediator rewrites incomplete name fields. It holds no per-run state and
// may be reused across tables.
type Remediator struct {
	classifier *names.Classifier
	extractor  *names.Extractor
	policy     *names.Policy
	overrides  *names.Overrides
}

// New creates a Remediator. overrides may be nil.
func New(v names.Vocabulary, overrides *names.Overrides) *Remediator {
	policy := names.NewPolicy(v)
	return &Remediator{
		classifier: policy.Classifier(),
		extractor:  names.NewExtractor(v),
		policy:     policy,
		overrides:  overrides,
	}
}

// Remediate processes every row of t once, in order. Only the first and last
// name fields of a row are ever rewritten. The only error is an unusable
// header; per-row problems are recorded in the result.
func (r *Remediator) Remediate(t *tabular.Table) (*Result, error) {
	schema, err := tabular.ResolveSchema(t.Header)
	if err != nil {
		return nil, eris.Wrap(err, "remediate: resolve columns")
	}

	res := &Result{Table: t.Clone(), Schema: schema}

	for i, row := range res.Table.Rows {
		if !schema.Fits(row) {
			res.Malformed = append(res.Malformed, tabular.LineOf(i))
			continue
		}

		rec := schema.Record(i, row)

		if ov, ok := r.overrides.Lookup(rec); ok {
			schema.SetNames(row, ov.NewFirst, ov.NewLast)
			res.Fixes = append(res.Fixes, fixEntry(rec, ov.NewFirst, ov.NewLast, OutcomeOverride, ReasonOverride))
			continue
		}
		if r.overrides.Pinned(rec) {
			res.Unchanged++
			continue
		}

		if r.classifier.Classify(rec.FirstName) == names.Complete &&
			r.classifier.Classify(rec.LastName) == names.Complete {
			res.Unchanged++
			continue
		}

		cand := r.extractor.Extract(rec.Email)
		out := r.policy.Resolve(rec.FirstName, rec.LastName, cand)

		if !out.Changed() {
			res.Unresolved = append(res.Unresolved, model.UnresolvedEntry{
				Line:          rec.Line,
				Company:       rec.Company,
				Email:         rec.Email,
				FirstName:     rec.FirstName,
				LastName:      rec.LastName,
				Reason:        out.Reason,
				ProposedFirst: out.ProposedFirst,
				ProposedLast:  out.ProposedLast,
			})
			zap.L().Debug("remediate: unresolved",
				zap.Int("line", rec.Line),
				zap.String("email", rec.Email),
				zap.String("reason", out.Reason),
			)
			continue
		}

		reason := out.Reason
		if cand.Pattern != names.PatternNone {
			reason += " (" + cand.Pattern + ")"
		}
		schema.SetNames(row, out.First, out.Last)
		res.Fixes = append(res.Fixes, fixEntry(rec, out.First, out.Last, out.Kind.String(), reason))
	}

	zap.L().Info("remediate: batch complete",
		zap.Int("rows", res.Table.Len()),
		zap.Int("fixed", len(res.Fixes)),
		zap.Int("unresolved", len(res.Unresolved)),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("malformed", len(res.Malformed)),
	)

	return res, nil
}

func fixEntry(rec model.ContactRecord, first, last, outcome, reason string) model.FixEntry {
	return model.FixEntry{
		Line:     rec.Line,
		Company:  rec.Company,
		Email:    rec.Email,
		OldFirst: rec.FirstName,
		OldLast:  rec.LastName,
		NewFirst: first,
		NewLast:  last,
		Outcome:  outcome,
		Reason:   reason,
	}
}
