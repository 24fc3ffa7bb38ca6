package names

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Completeness is the classification of a single name field.
type Completeness int

const (
	Incomplete Completeness = iota
	Complete
)

func (c Completeness) String() string {
	if c == Complete {
		return "complete"
	}
	return "incomplete"
}

// initialsPattern matches one or two capital letters, each optionally
// followed by a period: "J", "J.", "MJ", "L.S.".
var initialsPattern = regexp.MustCompile(`^(?:[A-Z]\.?){1,2}$`)

// Classifier decides whether a name field holds a usable person name. It
// looks only at the string itself, never at the other name field.
type Classifier struct {
	placeholders map[string]bool
	titles       map[string]bool
	nonPerson    map[string]bool
	shortNames   map[string]bool
}

// NewClassifier builds a Classifier over the given vocabulary.
func NewClassifier(v Vocabulary) *Classifier {
	return &Classifier{
		placeholders: foldSet(v.Placeholders),
		titles:       foldSet(v.Titles),
		nonPerson:    foldSet(v.NonPersonWords),
		shortNames:   exactSet(v.ShortNames),
	}
}

// Classify reports whether name is Complete or Incomplete.
func (c *Classifier) Classify(name string) Completeness {
	if c.IsIncomplete(name) {
		return Incomplete
	}
	return Complete
}

// IsIncomplete reports whether name is empty, a placeholder, a bare title,
// initials, a non-person word, or too short to be a real name.
func (c *Classifier) IsIncomplete(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return true
	}

	// Digits or punctuation only.
	if !strings.ContainsFunc(name, unicode.IsLetter) {
		return true
	}

	lower := strings.ToLower(name)
	if c.placeholders[lower] {
		return true
	}
	if c.IsTitle(name) {
		return true
	}
	if initialsPattern.MatchString(name) {
		return true
	}
	if c.nonPerson[lower] {
		return true
	}

	allowed := c.shortNames[name]
	n := utf8.RuneCountInString(name)

	first, _ := utf8.DecodeRuneInString(name)
	if unicode.IsLower(first) && n <= 3 && !allowed {
		return true
	}
	if n <= 2 && !allowed {
		return true
	}

	return false
}

// IsTitle reports whether name is a bare honorific, with or without a
// trailing period.
func (c *Classifier) IsTitle(name string) bool {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	return c.titles[strings.ToLower(name)]
}
