package verify

import (
	"fmt"
	"strings"
)

var banner = strings.Repeat("=", 80)

const (
	maxMismatches     = 20
	maxSyntaxIssues   = 10
	maxFilenameIssues = 30
	maxErrors         = 5
	maxDuplicates     = 10
	maxCompanies      = 20
)

func section(b *strings.Builder, title string) {
	b.WriteString(banner + "\n")
	b.WriteString(title + "\n")
	b.WriteString(banner + "\n\n")
}

// FormatReport renders a verification result as the sectioned consistency
// report. Every number printed is taken from res.
func FormatReport(res *Result) string {
	var b strings.Builder

	section(&b, "DATA CONSISTENCY VERIFICATION REPORT")
	fmt.Fprintf(&b, "Master records parsed: %d\n", res.MasterRanks)
	if len(res.MasterErrors) > 0 {
		fmt.Fprintf(&b, "Master parsing errors: %d\n", len(res.MasterErrors))
		for _, e := range head(res.MasterErrors, maxErrors) {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	fmt.Fprintf(&b, "Profile records parsed: %d\n", res.ProfileRanks)
	if len(res.ProfileErrors) > 0 {
		fmt.Fprintf(&b, "Profile parsing errors: %d\n", len(res.ProfileErrors))
		for _, e := range head(res.ProfileErrors, maxErrors) {
			fmt.Fprintf(&b, "  - %s\n", e.Error())
		}
	}
	if len(res.DuplicateMasterRanks) > 0 {
		fmt.Fprintf(&b, "Duplicate ranks in master: %v\n", res.DuplicateMasterRanks)
	}
	if len(res.DuplicateProfileRanks) > 0 {
		fmt.Fprintf(&b, "Duplicate ranks in profiles: %v\n", res.DuplicateProfileRanks)
	}
	b.WriteString("\n")

	section(&b, "RANK COVERAGE ANALYSIS")
	fmt.Fprintf(&b, "Expected ranks: 1-%d (%d total)\n", res.Expected, res.Expected)
	fmt.Fprintf(&b, "Master ranks present: %d\n", res.MasterRanks)
	fmt.Fprintf(&b, "Profile ranks present: %d\n\n", res.ProfileRanks)
	if len(res.MissingInMaster) > 0 {
		fmt.Fprintf(&b, "! Ranks missing in master (%d):\n   %v\n\n", len(res.MissingInMaster), res.MissingInMaster)
	} else {
		fmt.Fprintf(&b, "OK All ranks 1-%d present in master\n\n", res.Expected)
	}
	if len(res.MissingInProfiles) > 0 {
		fmt.Fprintf(&b, "! Ranks missing in profile files (%d):\n   %v\n\n", len(res.MissingInProfiles), res.MissingInProfiles)
	} else {
		fmt.Fprintf(&b, "OK All ranks 1-%d present in profile files\n\n", res.Expected)
	}
	if len(res.ExtraInMaster) > 0 {
		fmt.Fprintf(&b, "! Extra ranks in master: %v\n\n", res.ExtraInMaster)
	}
	if len(res.ExtraInProfiles) > 0 {
		fmt.Fprintf(&b, "! Extra ranks in profiles: %v\n\n", res.ExtraInProfiles)
	}

	section(&b, "DATA CONSISTENCY ANALYSIS")
	if len(res.Mismatches) == 0 {
		b.WriteString("OK No data mismatches found in common records\n\n")
	} else {
		fmt.Fprintf(&b, "! Data mismatches found: %d of %d common records\n\n", len(res.Mismatches), res.Common)
		for _, m := range head(res.Mismatches, maxMismatches) {
			fmt.Fprintf(&b, "Rank %d:\n", m.Rank)
			for _, f := range m.Fields {
				fmt.Fprintf(&b, "  - %s: master='%s' vs file='%s'\n", f.Field, f.Master, f.Profile)
			}
			b.WriteString("\n")
		}
		more(&b, len(res.Mismatches), maxMismatches)
	}

	section(&b, "MASTER DATA COMPLETENESS ANALYSIS")
	b.WriteString("Field completeness:\n")
	for _, fc := range res.Completeness {
		mark := "OK"
		if fc.BelowThreshold {
			mark = "! "
		}
		fmt.Fprintf(&b, "  %s %-20s: %3d/%d (%.1f%% complete)\n", mark, fc.Field, fc.Filled, fc.Filled+fc.Empty, fc.Percent)
	}
	b.WriteString("\n")
	writeRankValues(&b, "Invalid email formats found", "All email addresses have valid format", res.InvalidEmails)
	writeRankValues(&b, "Invalid LinkedIn URLs found", "All LinkedIn URLs have valid format", res.InvalidLinkedIn)

	section(&b, "FILENAME CONSISTENCY")
	if len(res.FilenameIssues) == 0 {
		b.WriteString("OK All filenames match master company names\n\n")
	} else {
		fmt.Fprintf(&b, "! Filename inconsistencies found: %d\n\n", len(res.FilenameIssues))
		for _, fi := range head(res.FilenameIssues, maxFilenameIssues) {
			fmt.Fprintf(&b, "Rank %3d: %s\n", fi.Rank, fi.Issue)
			if fi.Company != "" {
				fmt.Fprintf(&b, "  Master Company: %s\n", fi.Company)
			}
			if fi.Filename != "" {
				fmt.Fprintf(&b, "  Filename:       %s\n", fi.Filename)
			}
			if fi.Issue == IssueCompanyMismatch {
				fmt.Fprintf(&b, "  File Company:   %s (similarity %.2f)\n", fi.FileCompany, fi.Similarity)
			}
			b.WriteString("\n")
		}
		more(&b, len(res.FilenameIssues), maxFilenameIssues)
	}

	section(&b, "TIER DISTRIBUTION ANALYSIS")
	b.WriteString("Tier assignments:\n")
	for _, t := range res.Tiers {
		fmt.Fprintf(&b, "  %-30s: %3d (%.1f%%)\n", t.Tier, t.Count, t.Percent)
	}
	b.WriteString("\n")

	writeDuplicates(&b, res.Duplicates, res.MasterRanks)

	section(&b, "OVERALL DATA QUALITY SCORE")
	for _, c := range res.Components {
		fmt.Fprintf(&b, "  %-30s: %.1f points\n", c.Name, c.Points)
	}
	fmt.Fprintf(&b, "\n  %-30s: %.1f/100\n\n", "TOTAL SCORE", res.Score)
	fmt.Fprintf(&b, "  Rating: %s\n\n", res.Rating)

	section(&b, "CORRECTIONS NEEDED")
	if len(res.Corrections) == 0 {
		b.WriteString("OK No corrections needed - data is consistent and complete!\n")
	}
	for _, c := range res.Corrections {
		fmt.Fprintf(&b, "* %s\n", c)
	}

	b.WriteString("\n" + banner + "\n")
	b.WriteString("END OF REPORT\n")
	b.WriteString(banner + "\n")

	return b.String()
}

func writeDuplicates(b *strings.Builder, d DuplicateSummary, records int) {
	section(b, "DUPLICATE CONTACT ANALYSIS")

	if len(d.Emails) == 0 {
		b.WriteString("OK No duplicate email addresses found\n\n")
	} else {
		fmt.Fprintf(b, "! Duplicate emails found: %d\n\n", len(d.Emails))
		for _, g := range head(d.Emails, maxDuplicates) {
			messaging := "identical messaging"
			if g.SubjectsDiffer {
				messaging = "different messaging"
			}
			fmt.Fprintf(b, "  %s: ranks %v (%s)\n", g.Key, g.Ranks, messaging)
		}
		b.WriteString("\n")
		more(b, len(d.Emails), maxDuplicates)
	}

	if len(d.Names) == 0 {
		b.WriteString("OK No duplicate contact names found\n\n")
	} else {
		fmt.Fprintf(b, "! Duplicate contact names found: %d\n\n", len(d.Names))
		for _, g := range head(d.Names, maxDuplicates) {
			fmt.Fprintf(b, "  %s: ranks %v\n", g.Key, g.Ranks)
		}
		b.WriteString("\n")
		more(b, len(d.Names), maxDuplicates)
	}

	if len(d.Companies) == 0 {
		b.WriteString("OK All contacts are from different companies\n")
	} else {
		fmt.Fprintf(b, "Companies with multiple contacts: %d\n", len(d.Companies))
		for _, c := range head(d.Companies, maxCompanies) {
			fmt.Fprintf(b, "  %-40s [%s]: %2d contacts (ranks %v)\n", c.Company, c.Tier, len(c.Ranks), c.Ranks)
		}
		more(b, len(d.Companies), maxCompanies)
	}
	fmt.Fprintf(b, "Unique companies: %d\n", d.UniqueCompanies)
	if d.UniqueCompanies > 0 {
		fmt.Fprintf(b, "Average contacts per company: %.2f\n", float64(records)/float64(d.UniqueCompanies))
	}
	b.WriteString("\n")
}

func writeRankValues(b *strings.Builder, found, clean string, vals []RankValue) {
	if len(vals) == 0 {
		fmt.Fprintf(b, "OK %s\n\n", clean)
		return
	}
	fmt.Fprintf(b, "! %s: %d\n", found, len(vals))
	for _, v := range head(vals, maxSyntaxIssues) {
		fmt.Fprintf(b, "   Rank %d: %s\n", v.Rank, v.Value)
	}
	more(b, len(vals), maxSyntaxIssues)
	b.WriteString("\n")
}

func head[T any](xs []T, n int) []T {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func more(b *strings.Builder, total, shown int) {
	if total > shown {
		fmt.Fprintf(b, "... and %d more\n\n", total-shown)
	}
}
