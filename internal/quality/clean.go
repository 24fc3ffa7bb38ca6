package quality

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/contact-cli/internal/tabular"
)

// ProperName title-cases a person name. Hyphenated and apostrophe-joined
// parts are cased separately ("o'brien-smith" -> "O'Brien-Smith"). A part
// that already starts upper-case and contains lower-case letters is kept
// as written so "McDonald" is not flattened.
func ProperName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	caser := cases.Title(language.Und)

	words := strings.Fields(s)
	for i, w := range words {
		hyphenated := strings.Split(w, "-")
		for j, h := range hyphenated {
			parts := strings.Split(h, "'")
			for k, p := range parts {
				parts[k] = properPart(caser, p)
			}
			hyphenated[j] = strings.Join(parts, "'")
		}
		words[i] = strings.Join(hyphenated, "-")
	}
	return strings.Join(words, " ")
}

func properPart(caser cases.Caser, p string) string {
	if p == "" {
		return p
	}
	first, _ := utf8.DecodeRuneInString(p)
	if unicode.IsUpper(first) && strings.ContainsFunc(p, unicode.IsLower) {
		return p
	}
	return caser.String(p)
}

// Clean returns a copy of t with person names proper-cased, company
// whitespace collapsed and emails lowercased. Malformed rows are copied
// unchanged.
func Clean(t *tabular.Table, schema tabular.Schema) *tabular.Table {
	out := t.Clone()
	for _, row := range out.Rows {
		if !schema.Fits(row) {
			continue
		}
		row[schema.Company] = strings.Join(strings.Fields(row[schema.Company]), " ")
		row[schema.FirstName] = ProperName(row[schema.FirstName])
		row[schema.LastName] = ProperName(row[schema.LastName])
		row[schema.Email] = strings.ToLower(strings.TrimSpace(row[schema.Email]))
	}
	return out
}
