// Package quality measures the defects of a contact table and grades it.
package quality

import (
	"regexp"
	"strings"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/tabular"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// Anything other than letters, digits, whitespace and - . , & ' ( ).
	specialCharPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,&'()]`)
)

// ValidEmail reports whether s has the shape local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Stats are the defect counters of one batch.
type Stats struct {
	Total             int `json:"total"`
	ValidEmails       int `json:"valid_emails"`
	InvalidEmails     int `json:"invalid_emails"`
	MissingFields     int `json:"missing_fields"`
	CasingIssues      int `json:"casing_issues"`
	SpecialCharIssues int `json:"special_char_issues"`
	DuplicateGroups   int `json:"duplicate_groups"`
}

// EmailIssue is a record whose email failed syntax validation.
type EmailIssue struct {
	Line  int
	Email string
	Name  string
}

// FieldIssue is a problem with one field of one record.
type FieldIssue struct {
	Line      int
	Field     string
	Value     string
	Suggested string // casing issues only
}

// Report is the full analysis of a batch.
type Report struct {
	Stats         Stats
	InvalidEmails []EmailIssue
	Missing       []FieldIssue
	Casing        []FieldIssue
	SpecialChars  []FieldIssue
	Variations    []CompanyVariation
	Duplicates    []DuplicateGroup
	Malformed     []int
}

// MissingByField counts missing values per column, in column order.
func (r *Report) MissingByField() []FieldCount {
	counts := make(map[string]int)
	for _, m := range r.Missing {
		counts[m.Field]++
	}
	var out []FieldCount
	for _, f := range contactFields {
		if n := counts[f]; n > 0 {
			out = append(out, FieldCount{Field: f, Count: n})
		}
	}
	return out
}

// FieldCount pairs a column name with a count.
type FieldCount struct {
	Field string
	Count int
}

var contactFields = []string{tabular.ColCompany, tabular.ColFirstName, tabular.ColLastName, tabular.ColEmail}

// Analyze computes the defect counters and issue lists of t. Rows with too
// few columns are listed as malformed and excluded from every counter.
func Analyze(t *tabular.Table, schema tabular.Schema) *Report {
	rep := &Report{}
	records := make([]model.ContactRecord, 0, t.Len())

	for i, row := range t.Rows {
		if !schema.Fits(row) {
			rep.Malformed = append(rep.Malformed, tabular.LineOf(i))
			continue
		}
		rec := schema.Record(i, row)
		records = append(records, rec)
		rep.Stats.Total++

		if ValidEmail(rec.Email) {
			rep.Stats.ValidEmails++
		} else {
			rep.InvalidEmails = append(rep.InvalidEmails, EmailIssue{
				Line: rec.Line, Email: rec.Email, Name: rec.FirstName + " " + rec.LastName,
			})
		}

		values := []string{rec.Company, rec.FirstName, rec.LastName, rec.Email}
		for j, field := range contactFields {
			if strings.TrimSpace(values[j]) == "" {
				rep.Missing = append(rep.Missing, FieldIssue{Line: rec.Line, Field: field})
			}
		}

		for _, f := range []struct{ field, value string }{
			{tabular.ColFirstName, rec.FirstName},
			{tabular.ColLastName, rec.LastName},
		} {
			if f.value == "" {
				continue
			}
			if suggested := ProperName(f.value); suggested != f.value {
				rep.Casing = append(rep.Casing, FieldIssue{
					Line: rec.Line, Field: f.field, Value: f.value, Suggested: suggested,
				})
			}
		}

		for _, f := range []struct{ field, value string }{
			{tabular.ColFirstName, rec.FirstName},
			{tabular.ColLastName, rec.LastName},
			{tabular.ColCompany, rec.Company},
		} {
			if f.value != "" && specialCharPattern.MatchString(f.value) {
				rep.SpecialChars = append(rep.SpecialChars, FieldIssue{Line: rec.Line, Field: f.field, Value: f.value})
			}
		}
	}

	rep.Variations = FindCompanyVariations(records)
	rep.Duplicates = FindDuplicates(records)

	rep.Stats.InvalidEmails = len(rep.InvalidEmails)
	rep.Stats.MissingFields = len(rep.Missing)
	rep.Stats.CasingIssues = len(rep.Casing)
	rep.Stats.SpecialCharIssues = len(rep.SpecialChars)
	rep.Stats.DuplicateGroups = len(rep.Duplicates)

	return rep
}
