package quality

// Weights are the per-defect deductions of the quality score.
type Weights struct {
	FieldsPerRecord int
	InvalidEmail    float64
	MissingField    float64
	Casing          float64
	SpecialChar     float64
	DuplicateGroup  float64
}

// DefaultWeights weight unreachable and missing data highest and cosmetic
// casing lowest.
func DefaultWeights() Weights {
	return Weights{
		FieldsPerRecord: 4,
		InvalidEmail:    3,
		MissingField:    2,
		Casing:          0.5,
		SpecialChar:     1,
		DuplicateGroup:  2,
	}
}

// Deductions is the weighted defect total for stats.
func (w Weights) Deductions(s Stats) float64 {
	return w.InvalidEmail*float64(s.InvalidEmails) +
		w.MissingField*float64(s.MissingFields) +
		w.Casing*float64(s.CasingIssues) +
		w.SpecialChar*float64(s.SpecialCharIssues) +
		w.DuplicateGroup*float64(s.DuplicateGroups)
}

// Score maps stats to [0, 100]. A batch with no defects scores 100, even an
// empty one.
func Score(s Stats, w Weights) float64 {
	deductions := w.Deductions(s)
	if deductions <= 0 {
		return 100
	}

	totalFields := float64(s.Total * w.FieldsPerRecord)
	if totalFields <= 0 {
		return 0
	}

	return clamp(100-deductions/totalFields*100, 0, 100)
}

// Grade is a letter grade.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

var gradeLabels = map[Grade]string{
	GradeA: "A (Excellent)",
	GradeB: "B (Good)",
	GradeC: "C (Fair)",
	GradeD: "D (Poor)",
	GradeF: "F (Critical Issues)",
}

// Label returns the grade with its description.
func (g Grade) Label() string {
	if l, ok := gradeLabels[g]; ok {
		return l
	}
	return string(g)
}

// Thresholds are the minimum scores for grades A through D.
type Thresholds struct {
	A, B, C, D float64
}

// DefaultThresholds returns 90/80/70/60.
func DefaultThresholds() Thresholds {
	return Thresholds{A: 90, B: 80, C: 70, D: 60}
}

// GradeFor returns the letter grade of score.
func GradeFor(score float64, t Thresholds) Grade {
	switch {
	case score >= t.A:
		return GradeA
	case score >= t.B:
		return GradeB
	case score >= t.C:
		return GradeC
	case score >= t.D:
		return GradeD
	default:
		return GradeF
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
