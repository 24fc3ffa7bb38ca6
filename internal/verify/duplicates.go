package verify

import (
	"sort"
	"strings"
)

// DuplicateGroup is an email or contact name shared by more than one master
// record. Ranks are ascending.
type DuplicateGroup struct {
	Key   string
	Ranks []int

	// SubjectsDiffer is set on email groups whose records carry more than
	// one distinct email subject.
	SubjectsDiffer bool
}

// CompanyContacts is a company that appears on more than one master record.
// Tier is taken from its lowest-ranked record.
type CompanyContacts struct {
	Company string
	Tier    string
	Ranks   []int
}

// DuplicateSummary groups master records that share a contact or company.
// Repeats are often deliberate (one contact pitched twice with different
// subjects), so they are reported but neither scored nor listed as
// corrections.
type DuplicateSummary struct {
	Emails          []DuplicateGroup
	Names           []DuplicateGroup
	Companies       []CompanyContacts
	UniqueCompanies int
}

// FindDuplicates groups the master records by lowercased email, lowercased
// contact name, and company.
func FindDuplicates(master *Master) DuplicateSummary {
	emails := make(map[string][]int)
	names := make(map[string][]int)
	companies := make(map[string][]int)
	subjects := make(map[string]map[string]struct{})

	for _, rank := range master.Ranks() {
		rec := master.Records[rank]

		if email := strings.ToLower(strings.TrimSpace(rec.Email)); !Absent(email) {
			emails[email] = append(emails[email], rank)
			if s := strings.TrimSpace(rec.EmailSubject); !Absent(s) {
				if subjects[email] == nil {
					subjects[email] = make(map[string]struct{})
				}
				subjects[email][s] = struct{}{}
			}
		}
		if name := strings.ToLower(strings.TrimSpace(rec.ContactName)); !Absent(name) {
			names[name] = append(names[name], rank)
		}
		if company := strings.TrimSpace(rec.Company); !Absent(company) {
			companies[company] = append(companies[company], rank)
		}
	}

	var sum DuplicateSummary
	for _, g := range groupsOf(emails) {
		g.SubjectsDiffer = len(subjects[g.Key]) > 1
		sum.Emails = append(sum.Emails, g)
	}
	sum.Names = groupsOf(names)

	sum.UniqueCompanies = len(companies)
	for company, ranks := range companies {
		if len(ranks) < 2 {
			continue
		}
		sum.Companies = append(sum.Companies, CompanyContacts{
			Company: company,
			Tier:    strings.TrimSpace(master.Records[ranks[0]].Tier),
			Ranks:   ranks,
		})
	}
	sort.Slice(sum.Companies, func(i, j int) bool {
		a, b := sum.Companies[i], sum.Companies[j]
		if len(a.Ranks) != len(b.Ranks) {
			return len(a.Ranks) > len(b.Ranks)
		}
		return a.Company < b.Company
	})
	return sum
}

func groupsOf(byKey map[string][]int) []DuplicateGroup {
	var out []DuplicateGroup
	for key, ranks := range byKey {
		if len(ranks) > 1 {
			out = append(out, DuplicateGroup{Key: key, Ranks: ranks})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
