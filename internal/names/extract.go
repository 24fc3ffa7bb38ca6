package names

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cascade step names recorded on a Candidate.
const (
	PatternNone               = ""
	PatternGeneric            = "generic-address"
	PatternCamelCase          = "camel-case"
	PatternTitlePrefix        = "title-prefix"
	PatternInitialCapitalized = "initial+Surname"
	PatternInitialLowercase   = "initial+surname"
	PatternDelimited          = "delimited"
	PatternSingleToken        = "single-token"
)

// Candidate is a tentative name pair inferred from an email address. An empty
// component is absent.
type Candidate struct {
	First   string
	Last    string
	Pattern string // cascade step that produced the candidate
}

// HasFirst reports whether a first name was inferred.
func (c Candidate) HasFirst() bool { return c.First != "" }

// HasLast reports whether a last name was inferred.
func (c Candidate) HasLast() bool { return c.Last != "" }

// Empty reports whether the address carried no usable signal.
func (c Candidate) Empty() bool { return c.First == "" && c.Last == "" }

var (
	camelCasePattern          = regexp.MustCompile(`^([A-Z][a-z]+)([A-Z][a-z]+)$`)
	initialCapitalizedPattern = regexp.MustCompile(`^([a-z])([A-Z][a-z]+)$`)
	initialLowercasePattern   = regexp.MustCompile(`^([a-z])([a-z]{4,})$`)
	delimiterPattern          = regexp.MustCompile(`[._\-]`)
)

// Extractor proposes a (first, last) pair from the local part of an email
// address using an ordered cascade of structural patterns; the first pattern
// that matches wins.
type Extractor struct {
	generic      []string
	genericWords []string
	titles       map[string]bool
	titlePattern *regexp.Regexp
}

// NewExtractor builds an Extractor over the given vocabulary.
func NewExtractor(v Vocabulary) *Extractor {
	e := &Extractor{titles: foldSet(v.TitlePrefixes)}

	e.generic = lowerList(v.GenericLocalParts)
	e.genericWords = lowerList(v.GenericWords)

	quoted := make([]string, 0, len(v.TitlePrefixes))
	for _, t := range v.TitlePrefixes {
		if t = strings.TrimSpace(t); t != "" {
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
	}
	if len(quoted) > 0 {
		// Title matched in any case; the name after it must start upper-case.
		e.titlePattern = regexp.MustCompile(`^(?i:` + strings.Join(quoted, "|") + `)([A-Z][a-z]+)$`)
	}
	return e
}

// Extract runs the cascade against email.
func (e *Extractor) Extract(email string) Candidate {
	local, _, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" {
		return Candidate{}
	}

	if e.isGeneric(local) {
		return Candidate{Pattern: PatternGeneric}
	}

	if m := camelCasePattern.FindStringSubmatch(local); m != nil && !e.titles[strings.ToLower(m[1])] {
		return Candidate{First: m[1], Last: m[2], Pattern: PatternCamelCase}
	}

	if e.titlePattern != nil {
		if m := e.titlePattern.FindStringSubmatch(local); m != nil {
			return Candidate{First: capitalize(m[1]), Pattern: PatternTitlePrefix}
		}
	}

	if m := initialCapitalizedPattern.FindStringSubmatch(local); m != nil {
		return Candidate{First: strings.ToUpper(m[1]), Last: m[2], Pattern: PatternInitialCapitalized}
	}

	if m := initialLowercasePattern.FindStringSubmatch(local); m != nil {
		return Candidate{First: strings.ToUpper(m[1]), Last: capitalize(m[2]), Pattern: PatternInitialLowercase}
	}

	parts := fragments(local)
	switch {
	case len(parts) >= 2:
		return Candidate{First: capitalize(parts[0]), Last: capitalize(parts[1]), Pattern: PatternDelimited}
	case len(parts) == 1 && isSingleName(parts[0]):
		return Candidate{First: capitalize(parts[0]), Pattern: PatternSingleToken}
	}

	return Candidate{}
}

func (e *Extractor) isGeneric(local string) bool {
	lower := strings.ToLower(local)
	for _, w := range e.generic {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	for _, w := range e.genericWords {
		rest, ok := strings.CutPrefix(lower, w)
		if !ok {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); rest == "" || !unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func lowerList(words []string) []string {
	var out []string
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// fragments splits a local part on '.', '_' and '-', strips digits, and
// drops fragments of one character or less.
func fragments(local string) []string {
	var out []string
	for _, p := range delimiterPattern.Split(local, -1) {
		p = strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return -1
			}
			return r
		}, p)
		if utf8.RuneCountInString(p) > 1 {
			out = append(out, p)
		}
	}
	return out
}

func isSingleName(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 3 || n > 10 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
