package remediate

import (
	"fmt"
	"strings"
)

var banner = strings.Repeat("=", 80)

// FormatSummary renders the fixed and could-not-fix lists of a run.
func FormatSummary(res *Result) string {
	var b strings.Builder

	b.WriteString(banner + "\n")
	b.WriteString("NAME REMEDIATION SUMMARY\n")
	b.WriteString(banner + "\n\n")

	fmt.Fprintf(&b, "Successfully fixed: %d entries\n", len(res.Fixes))
	fmt.Fprintf(&b, "Could not fix: %d entries\n", len(res.Unresolved))
	fmt.Fprintf(&b, "Total incomplete entries found: %d\n", res.Incomplete())
	fmt.Fprintf(&b, "Unchanged entries: %d\n", res.Unchanged)
	if len(res.Malformed) > 0 {
		fmt.Fprintf(&b, "Malformed rows passed through: %d (lines %s)\n", len(res.Malformed), joinInts(res.Malformed))
	}
	b.WriteString("\n")

	if len(res.Fixes) > 0 {
		b.WriteString(banner + "\n")
		fmt.Fprintf(&b, "FIXED (%d entries):\n", len(res.Fixes))
		b.WriteString(banner + "\n")
		for _, f := range res.Fixes {
			fmt.Fprintf(&b, "\nLine %d: %s\n", f.Line, f.Company)
			fmt.Fprintf(&b, "  BEFORE: %s %s\n", quoteName(f.OldFirst), quoteName(f.OldLast))
			fmt.Fprintf(&b, "  AFTER:  %s %s\n", quoteName(f.NewFirst), quoteName(f.NewLast))
			fmt.Fprintf(&b, "  EMAIL:  %s\n", f.Email)
			fmt.Fprintf(&b, "  STATUS: %s, %s\n", f.Outcome, f.Reason)
		}
		b.WriteString("\n")
	}

	if len(res.Unresolved) > 0 {
		b.WriteString(banner + "\n")
		fmt.Fprintf(&b, "COULD NOT FIX (%d entries - Manual Review Needed):\n", len(res.Unresolved))
		b.WriteString(banner + "\n")
		for _, u := range res.Unresolved {
			fmt.Fprintf(&b, "Line %d: %s - %s %s (%s) - %s",
				u.Line, u.Company, quoteName(u.FirstName), quoteName(u.LastName), u.Email, u.Reason)
			if u.ProposedFirst != "" || u.ProposedLast != "" {
				fmt.Fprintf(&b, " [proposed %s %s]", quoteName(u.ProposedFirst), quoteName(u.ProposedLast))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "SUMMARY: Fixed %d/%d incomplete entries\n", len(res.Fixes), res.Incomplete())
	b.WriteString(banner + "\n")

	return b.String()
}

func quoteName(s string) string {
	return "'" + s + "'"
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
