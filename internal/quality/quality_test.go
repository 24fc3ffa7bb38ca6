package quality

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/tabular"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@acme.com", true},
		{"jane.o+tag@mail.acme.co.uk", true},
		{" jane@acme.com ", true},
		{"jane@acme", false},
		{"jane@acme.c", false},
		{"jane.acme.com", false},
		{"jane doe@acme.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestFindDuplicates_SharedEmail(t *testing.T) {
	const n = 5
	records := make([]model.ContactRecord, n)
	for i := range records {
		records[i] = model.ContactRecord{
			Line:      i + 2,
			FirstName: fmt.Sprintf("Name%d", i),
			LastName:  "Person",
			Email:     "Shared@Acme.com ",
		}
	}

	groups := FindDuplicates(records)
	require.Len(t, groups, 1)
	assert.Equal(t, DuplicateByEmail, groups[0].Kind)
	assert.Equal(t, "shared@acme.com", groups[0].Key)
	assert.Len(t, groups[0].Members, n)
}

func TestFindDuplicates_ByName(t *testing.T) {
	records := []model.ContactRecord{
		{Line: 2, FirstName: "Jane", LastName: "Doe", Email: "jane@a.com"},
		{Line: 3, FirstName: "jane ", LastName: "DOE", Email: "jdoe@b.com"},
		{Line: 4, FirstName: "John", LastName: "Roe", Email: "john@a.com"},
		{Line: 5, FirstName: "John", LastName: "Roe", Email: "JOHN@a.com"},
		{Line: 6, FirstName: "", LastName: "", Email: "x@a.com"},
		{Line: 7, FirstName: "", LastName: "", Email: "y@a.com"},
	}

	groups := FindDuplicates(records)
	require.Len(t, groups, 2)

	// Same email re-entered: an email group, not a name group.
	assert.Equal(t, DuplicateByEmail, groups[0].Kind)
	assert.Equal(t, "john@a.com", groups[0].Key)

	assert.Equal(t, DuplicateByName, groups[1].Kind)
	assert.Equal(t, "jane_doe", groups[1].Key)
	assert.Len(t, groups[1].Members, 2)
}

func TestFindCompanyVariations(t *testing.T) {
	records := []model.ContactRecord{
		{Line: 2, Company: "Statement Limousine, LLC"},
		{Line: 3, Company: "Statement Limousine LLC"},
		{Line: 4, Company: "statement limousine llc"},
		{Line: 5, Company: "Statement Limousine LLC"},
		{Line: 6, Company: "Acme"},
		{Line: 7, Company: "Acme"},
		{Line: 8, Company: ""},
	}

	vars := FindCompanyVariations(records)
	require.Len(t, vars, 1)
	assert.Equal(t, "statementlimousinellc", vars[0].Key)
	assert.Equal(t, []string{"Statement Limousine LLC", "Statement Limousine, LLC", "statement limousine llc"}, vars[0].Spellings)
	assert.Equal(t, 4, vars[0].Count)
	assert.Equal(t, []int{2, 3, 4, 5}, vars[0].Lines)
}

func TestScore_ZeroDefects(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 100.0, Score(Stats{Total: 50}, w))
	assert.Equal(t, 100.0, Score(Stats{}, w))
}

func TestScore_Formula(t *testing.T) {
	w := Weights{FieldsPerRecord: 4, InvalidEmail: 3, MissingField: 2, Casing: 0.5, SpecialChar: 1, DuplicateGroup: 2}
	s := Stats{Total: 10, InvalidEmails: 1, MissingFields: 2, CasingIssues: 2, SpecialCharIssues: 1, DuplicateGroups: 1}

	// deductions = 3 + 4 + 1 + 1 + 2 = 11 over 40 fields.
	assert.InDelta(t, 100-11.0/40*100, Score(s, w), 1e-9)

	// Weights are parameters, not constants.
	w.InvalidEmail = 0
	assert.InDelta(t, 100-8.0/40*100, Score(s, w), 1e-9)

	assert.Equal(t, 0.0, Score(Stats{Total: 1, InvalidEmails: 100}, DefaultWeights()))
	assert.Equal(t, 0.0, Score(Stats{InvalidEmails: 1}, DefaultWeights()))
}

func TestScore_Monotonic(t *testing.T) {
	w := DefaultWeights()
	base := Stats{Total: 20, InvalidEmails: 1, MissingFields: 1, CasingIssues: 1, SpecialCharIssues: 1, DuplicateGroups: 1}

	bumps := map[string]func(*Stats){
		"invalid":    func(s *Stats) { s.InvalidEmails++ },
		"missing":    func(s *Stats) { s.MissingFields++ },
		"casing":     func(s *Stats) { s.CasingIssues++ },
		"special":    func(s *Stats) { s.SpecialCharIssues++ },
		"duplicates": func(s *Stats) { s.DuplicateGroups++ },
	}

	for name, bump := range bumps {
		t.Run(name, func(t *testing.T) {
			s := base
			prev := Score(s, w)
			for n := 0; n < 200; n++ {
				bump(&s)
				cur := Score(s, w)
				assert.LessOrEqual(t, cur, prev)
				assert.GreaterOrEqual(t, cur, 0.0)
				prev = cur
			}
		})
	}
}

func TestGradeFor(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, GradeA, GradeFor(100, th))
	assert.Equal(t, GradeA, GradeFor(90, th))
	assert.Equal(t, GradeB, GradeFor(89.99, th))
	assert.Equal(t, GradeC, GradeFor(70, th))
	assert.Equal(t, GradeD, GradeFor(60, th))
	assert.Equal(t, GradeF, GradeFor(59.9, th))
	assert.Equal(t, "F (Critical Issues)", GradeF.Label())
	assert.Equal(t, "A (Excellent)", GradeA.Label())
}

func TestProperName(t *testing.T) {
	tests := map[string]string{
		"jane":          "Jane",
		"JANE":          "Jane",
		" Jane ":        "Jane",
		"o'brien":       "O'Brien",
		"smith-jones":   "Smith-Jones",
		"McDonald":      "McDonald",
		"mary ann":      "Mary Ann",
		"DR.":           "Dr.",
		"K.":            "K.",
		"":              "",
		"josé":          "José",
		"o'brien-SMITH": "O'Brien-Smith",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ProperName(in))
		})
	}
}

func sampleTable() *tabular.Table {
	return &tabular.Table{
		Header: []string{"Company", "First Name", "Last Name", "Email"},
		Rows: [][]string{
			{"Acme  Corp", "jane", "Doe", "Jane@Acme.com"},
			{"Acme Corp", "John", "", "john@acme"},
			{"Beta*", "Ann", "O'Neil", "ann@beta.org"},
			{"Gamma", "Ann", "O'Neil", "ann2@gamma.org"},
			{"Short"},
		},
	}
}

func TestAnalyze(t *testing.T) {
	rep := Analyze(sampleTable(), tabular.DefaultSchema)

	assert.Equal(t, Stats{
		Total:             4,
		ValidEmails:       3,
		InvalidEmails:     1,
		MissingFields:     1,
		CasingIssues:      1,
		SpecialCharIssues: 1,
		DuplicateGroups:   1,
	}, rep.Stats)

	assert.Equal(t, []int{6}, rep.Malformed)
	assert.Equal(t, 3, rep.InvalidEmails[0].Line)
	assert.Equal(t, []FieldCount{{Field: "Last Name", Count: 1}}, rep.MissingByField())
	assert.Equal(t, FieldIssue{Line: 2, Field: "First Name", Value: "jane", Suggested: "Jane"}, rep.Casing[0])
	assert.Equal(t, "Beta*", rep.SpecialChars[0].Value)
	require.Len(t, rep.Variations, 1)
	assert.Equal(t, []string{"Acme  Corp", "Acme Corp"}, rep.Variations[0].Spellings)
	assert.Equal(t, DuplicateByName, rep.Duplicates[0].Kind)
}

func TestClean(t *testing.T) {
	in := sampleTable()
	out := Clean(in, tabular.DefaultSchema)

	assert.Equal(t, []string{"Acme Corp", "Jane", "Doe", "jane@acme.com"}, out.Rows[0])
	assert.Equal(t, []string{"Short"}, out.Rows[4])
	// Input is not modified.
	assert.Equal(t, "jane", in.Rows[0][1])

	rep := Analyze(out, tabular.DefaultSchema)
	assert.Equal(t, 0, rep.Stats.CasingIssues)
	assert.Empty(t, rep.Variations)
}

func TestFormatReport(t *testing.T) {
	rep := Analyze(sampleTable(), tabular.DefaultSchema)
	score := Score(rep.Stats, DefaultWeights())
	out := FormatReport("contacts.csv", rep, score, GradeFor(score, DefaultThresholds()))

	assert.Contains(t, out, "DATA QUALITY VALIDATION REPORT")
	assert.Contains(t, out, "File: contacts.csv")
	assert.Contains(t, out, "Total Contacts Analyzed: 4")
	assert.Contains(t, out, fmt.Sprintf("OVERALL DATA QUALITY SCORE: %.2f/100", score))
	assert.Contains(t, out, "Row 3: John  - 'john@acme'")
	assert.Contains(t, out, "Last Name: 1 missing values")
	assert.Contains(t, out, "Row 2 - First Name: 'jane' -> 'Jane'")
	assert.Contains(t, out, "* CRITICAL: Manually review")
	assert.Contains(t, out, "* LOW: Fix capitalization")
	assert.Contains(t, out, "END OF REPORT")
}

func TestFormatReport_Clean(t *testing.T) {
	out := FormatReport("empty.csv", &Report{}, 100, GradeA)
	assert.Contains(t, out, "No issues found.")
	assert.NotContains(t, out, "INVALID EMAILS")
}
