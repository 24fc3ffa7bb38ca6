// Package names decides whether contact name fields are usable, infers
// replacement names from email addresses, and resolves the two into a final
// first/last pair.
package names

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Vocabulary is the word lists the classifier and extractor consult. Every
// list is data so the cascade can be tuned without code changes.
type Vocabulary struct {
	// Placeholders are filler values typed into name fields ("tbd", "n/a").
	Placeholders []string `yaml:"placeholders"`
	// Titles are bare honorifics that are not names ("Dr", "Mrs").
	Titles []string `yaml:"titles"`
	// NonPersonWords are places and labels that leaked into name fields.
	NonPersonWords []string `yaml:"non_person_words"`
	// ShortNames are genuine given names of two or three letters.
	ShortNames []string `yaml:"short_names"`
	// GenericLocalParts are role mailbox words; a local part equal to or
	// starting with one carries no personal name.
	GenericLocalParts []string `yaml:"generic_local_parts"`
	// GenericWords are role words that also begin real surnames ("chair",
	// "Chairez"). They only match as a whole word: the full local part, or
	// followed by a digit or separator ("sales2", "office.akron").
	GenericWords []string `yaml:"generic_words"`
	// TitlePrefixes are clergy/professional titles glued to a name in an
	// email local part ("PastorGeorge").
	TitlePrefixes []string `yaml:"title_prefixes"`
}

// DefaultVocabulary returns the built-in word lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Placeholders: []string{"test", "temp", "placeholder", "unknown", "tbd", "n/a", "na"},
		Titles:       []string{"Dr", "Mr", "Ms", "Mrs", "Prof", "Mx"},
		NonPersonWords: []string{
			"Akron", "Cleveland", "Columbus", "Ohio", "Public", "Private",
		},
		ShortNames: []string{"Ed", "Ty", "Jo", "Al", "Bo", "Ky"},
		GenericLocalParts: []string{
			"info", "contact", "admin", "support", "accounting",
			"programs", "personnel", "comms", "admissions", "diversity",
			"noreply", "no-reply", "webmaster", "marketing", "billing",
		},
		GenericWords: []string{
			"hello", "mail", "orep", "chair", "editor", "president",
			"pride", "college", "ceo", "wedding", "western", "twistscc",
			"office", "sales", "events",
		},
		TitlePrefixes: []string{"Pastor", "Rev", "Dr", "Father", "Fr", "Rabbi"},
	}
}

// LoadVocabulary reads a YAML vocabulary file. Lists the file leaves empty
// keep their built-in defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, eris.Wrapf(err, "names: read vocabulary %s", path)
	}

	var file Vocabulary
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Vocabulary{}, eris.Wrap(err, "names: parse vocabulary")
	}

	return DefaultVocabulary().merge(file), nil
}

func (v Vocabulary) merge(o Vocabulary) Vocabulary {
	pick := func(base, over []string) []string {
		if len(over) > 0 {
			return over
		}
		return base
	}
	return Vocabulary{
		Placeholders:      pick(v.Placeholders, o.Placeholders),
		Titles:            pick(v.Titles, o.Titles),
		NonPersonWords:    pick(v.NonPersonWords, o.NonPersonWords),
		ShortNames:        pick(v.ShortNames, o.ShortNames),
		GenericLocalParts: pick(v.GenericLocalParts, o.GenericLocalParts),
		GenericWords:      pick(v.GenericWords, o.GenericWords),
		TitlePrefixes:     pick(v.TitlePrefixes, o.TitlePrefixes),
	}
}

// foldSet builds a case-insensitive lookup set.
func foldSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = true
		}
	}
	return set
}

// exactSet builds a case-sensitive lookup set.
func exactSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			set[w] = true
		}
	}
	return set
}
