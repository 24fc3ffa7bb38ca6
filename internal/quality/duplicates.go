package quality

import (
	"sort"
	"strings"

	"github.com/sells-group/contact-cli/internal/model"
)

// DuplicateKind says which key a duplicate group shares.
type DuplicateKind string

const (
	DuplicateByEmail DuplicateKind = "email"
	DuplicateByName  DuplicateKind = "name"
)

// DuplicateGroup is two or more records sharing a normalized key.
type DuplicateGroup struct {
	Kind    DuplicateKind
	Key     string
	Members []model.ContactRecord
}

// CompanyVariation is a normalized company key spelled more than one way.
type CompanyVariation struct {
	Key       string
	Spellings []string // distinct original spellings, sorted
	Count     int      // records carrying any of the spellings
	Lines     []int
}

// FindDuplicates groups records by lowercased email and by lowercased
// "first_last" name. A name group only counts when its members do not all
// share one email. Groups are returned email groups first, each in order of
// first appearance.
func FindDuplicates(records []model.ContactRecord) []DuplicateGroup {
	var emailKeys, nameKeys []string
	byEmail := make(map[string][]model.ContactRecord)
	byName := make(map[string][]model.ContactRecord)

	for _, rec := range records {
		if email := normalizeEmail(rec.Email); email != "" {
			if _, ok := byEmail[email]; !ok {
				emailKeys = append(emailKeys, email)
			}
			byEmail[email] = append(byEmail[email], rec)
		}

		nameKey := strings.ToLower(strings.TrimSpace(rec.FirstName)) + "_" +
			strings.ToLower(strings.TrimSpace(rec.LastName))
		if nameKey != "_" {
			if _, ok := byName[nameKey]; !ok {
				nameKeys = append(nameKeys, nameKey)
			}
			byName[nameKey] = append(byName[nameKey], rec)
		}
	}

	var groups []DuplicateGroup
	for _, key := range emailKeys {
		if members := byEmail[key]; len(members) > 1 {
			groups = append(groups, DuplicateGroup{Kind: DuplicateByEmail, Key: key, Members: members})
		}
	}
	for _, key := range nameKeys {
		members := byName[key]
		if len(members) < 2 {
			continue
		}
		emails := make(map[string]struct{}, len(members))
		for _, m := range members {
			emails[normalizeEmail(m.Email)] = struct{}{}
		}
		if len(emails) > 1 {
			groups = append(groups, DuplicateGroup{Kind: DuplicateByName, Key: key, Members: members})
		}
	}
	return groups
}

// FindCompanyVariations groups companies whose names differ only by
// whitespace, commas or case.
func FindCompanyVariations(records []model.ContactRecord) []CompanyVariation {
	var keys []string
	byKey := make(map[string]*CompanyVariation)
	spellings := make(map[string]map[string]struct{})

	for _, rec := range records {
		company := strings.TrimSpace(rec.Company)
		if company == "" {
			continue
		}
		key := NormalizeCompany(company)

		v, ok := byKey[key]
		if !ok {
			v = &CompanyVariation{Key: key}
			byKey[key] = v
			spellings[key] = make(map[string]struct{})
			keys = append(keys, key)
		}
		v.Count++
		v.Lines = append(v.Lines, rec.Line)
		spellings[key][company] = struct{}{}
	}

	var out []CompanyVariation
	for _, key := range keys {
		if len(spellings[key]) < 2 {
			continue
		}
		v := byKey[key]
		for s := range spellings[key] {
			v.Spellings = append(v.Spellings, s)
		}
		sort.Strings(v.Spellings)
		out = append(out, *v)
	}
	return out
}

// NormalizeCompany lowercases a company name and removes whitespace and
// commas.
func NormalizeCompany(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, strings.ToLower(s))
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
