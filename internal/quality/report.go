package quality

import (
	"fmt"
	"strings"
)

var (
	banner  = strings.Repeat("=", 80)
	divider = strings.Repeat("-", 80)
	indent  = "   " + strings.Repeat("-", 76)
)

// Display limits per section.
const (
	maxInvalidEmails = 20
	maxCasing        = 15
	maxVariations    = 10
	maxDuplicates    = 5
	maxSpecialChars  = 10
)

// Recommendation is one prioritized follow-up.
type Recommendation struct {
	Priority string
	Action   string
	Detail   string
}

// Recommendations derives follow-ups from a report, most urgent first.
func Recommendations(rep *Report) []Recommendation {
	var out []Recommendation
	s := rep.Stats
	if s.InvalidEmails > 0 {
		out = append(out, Recommendation{"CRITICAL", "Manually review and correct all invalid email addresses",
			"These contacts cannot be reached via email campaigns"})
	}
	if s.MissingFields > 0 {
		out = append(out, Recommendation{"HIGH", "Fill in missing data fields where possible",
			"Complete records improve CRM functionality and targeting"})
	}
	if s.DuplicateGroups > 0 {
		out = append(out, Recommendation{"HIGH", "Review and merge duplicate contacts",
			"Duplicates can cause confusion and inflate contact counts"})
	}
	if len(rep.Variations) > 0 {
		out = append(out, Recommendation{"MEDIUM", "Standardize company name variations",
			"Consistent naming improves reporting and segmentation"})
	}
	if s.SpecialCharIssues > 0 {
		out = append(out, Recommendation{"MEDIUM", "Review special characters for data integrity",
			"Some characters may cause issues in imports/exports"})
	}
	if s.CasingIssues > 0 {
		out = append(out, Recommendation{"LOW", "Fix capitalization for professional appearance",
			"The --fixed-output file carries the corrected casing"})
	}
	return out
}

// FormatReport renders the data quality report of source.
func FormatReport(source string, rep *Report, score float64, grade Grade) string {
	var b strings.Builder
	s := rep.Stats

	b.WriteString(banner + "\n")
	b.WriteString("DATA QUALITY VALIDATION REPORT\n")
	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "\nFile: %s\n\n", source)

	b.WriteString(divider + "\n")
	b.WriteString("SUMMARY STATISTICS\n")
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "Total Contacts Analyzed: %d\n", s.Total)
	fmt.Fprintf(&b, "Valid Emails: %d\n", s.ValidEmails)
	fmt.Fprintf(&b, "Invalid Emails: %d\n", s.InvalidEmails)
	fmt.Fprintf(&b, "Missing Data Fields: %d\n", s.MissingFields)
	fmt.Fprintf(&b, "Capitalization Issues: %d\n", s.CasingIssues)
	fmt.Fprintf(&b, "Special Character Issues: %d\n", s.SpecialCharIssues)
	fmt.Fprintf(&b, "Potential Duplicates: %d\n", s.DuplicateGroups)
	if len(rep.Malformed) > 0 {
		fmt.Fprintf(&b, "Malformed Rows Skipped: %d\n", len(rep.Malformed))
	}

	fmt.Fprintf(&b, "\nOVERALL DATA QUALITY SCORE: %.2f/100\n", score)
	fmt.Fprintf(&b, "Quality Grade: %s\n\n", grade.Label())

	b.WriteString(divider + "\n")
	b.WriteString("DETAILED ISSUES BY CATEGORY\n")
	b.WriteString(divider + "\n")

	if len(rep.InvalidEmails) > 0 {
		fmt.Fprintf(&b, "\n1. INVALID EMAILS (%d found)\n%s\n", len(rep.InvalidEmails), indent)
		for _, e := range head(rep.InvalidEmails, maxInvalidEmails) {
			fmt.Fprintf(&b, "   Row %d: %s - '%s'\n", e.Line, e.Name, e.Email)
		}
		more(&b, len(rep.InvalidEmails), maxInvalidEmails)
	}

	if len(rep.Missing) > 0 {
		fmt.Fprintf(&b, "\n2. MISSING DATA (%d fields)\n%s\n", len(rep.Missing), indent)
		for _, fc := range rep.MissingByField() {
			fmt.Fprintf(&b, "   %s: %d missing values\n", fc.Field, fc.Count)
		}
	}

	if len(rep.Casing) > 0 {
		fmt.Fprintf(&b, "\n3. CAPITALIZATION ISSUES (%d found)\n%s\n", len(rep.Casing), indent)
		for _, c := range head(rep.Casing, maxCasing) {
			fmt.Fprintf(&b, "   Row %d - %s: '%s' -> '%s'\n", c.Line, c.Field, c.Value, c.Suggested)
		}
		more(&b, len(rep.Casing), maxCasing)
	}

	if len(rep.Variations) > 0 {
		fmt.Fprintf(&b, "\n4. COMPANY NAME VARIATIONS (%d groups)\n%s\n", len(rep.Variations), indent)
		for _, v := range head(rep.Variations, maxVariations) {
			fmt.Fprintf(&b, "   Found %d variations:\n", len(v.Spellings))
			for _, sp := range v.Spellings {
				fmt.Fprintf(&b, "      - '%s'\n", sp)
			}
			fmt.Fprintf(&b, "   Appears in %d records\n\n", v.Count)
		}
	}

	if len(rep.Duplicates) > 0 {
		fmt.Fprintf(&b, "\n5. POTENTIAL DUPLICATES (%d groups found)\n%s\n", len(rep.Duplicates), indent)
		for _, g := range head(rep.Duplicates, maxDuplicates) {
			fmt.Fprintf(&b, "   Duplicate group (by %s):\n", g.Kind)
			for _, m := range g.Members {
				fmt.Fprintf(&b, "      - %s %s | %s | %s\n", m.FirstName, m.LastName, m.Email, m.Company)
			}
			b.WriteString("\n")
		}
	}

	if len(rep.SpecialChars) > 0 {
		fmt.Fprintf(&b, "\n6. SPECIAL CHARACTER ISSUES (%d found)\n%s\n", len(rep.SpecialChars), indent)
		for _, sc := range head(rep.SpecialChars, maxSpecialChars) {
			fmt.Fprintf(&b, "   Row %d - %s: '%s'\n", sc.Line, sc.Field, sc.Value)
		}
		more(&b, len(rep.SpecialChars), maxSpecialChars)
	}

	b.WriteString("\n" + banner + "\n")
	b.WriteString("RECOMMENDATIONS\n")
	b.WriteString(banner + "\n")
	recs := Recommendations(rep)
	if len(recs) == 0 {
		b.WriteString("No issues found.\n")
	}
	for _, r := range recs {
		fmt.Fprintf(&b, "* %s: %s\n  %s\n", r.Priority, r.Action, r.Detail)
	}

	b.WriteString("\n" + banner + "\n")
	b.WriteString("END OF REPORT\n")
	b.WriteString(banner + "\n")

	return b.String()
}

func head[T any](xs []T, n int) []T {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func more(b *strings.Builder, total, shown int) {
	if total > shown {
		fmt.Fprintf(b, "   ... and %d more\n", total-shown)
	}
}
