package verify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Normalize prepares a company name or email for comparison: lowercase,
// '&' spelled "and", internal whitespace collapsed.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")
	return strings.Join(strings.Fields(s), " ")
}

// linkedInPattern builds the profile URL check for a domain prefix such as
// "linkedin.com/".
func linkedInPattern(prefix string) *regexp.Regexp {
	prefix = strings.TrimPrefix(strings.ToLower(prefix), "www.")
	return regexp.MustCompile(`^https?://(www\.)?` + regexp.QuoteMeta(prefix))
}

var (
	filenamePattern = regexp.MustCompile(`^(\d+)_(.+)\.txt$`)

	slashPattern     = regexp.MustCompile(`[/\\]`)
	ampersandPattern = regexp.MustCompile(`\s*&\s*`)
	spacePattern     = regexp.MustCompile(`\s+`)
	unsafePattern    = regexp.MustCompile(`[^\p{L}\p{N}_\-]`)
	underscoreRun    = regexp.MustCompile(`_+`)
)

// FilenameStem renders a company name the way profile filenames encode it:
// separators, '&' and whitespace become '_', everything else non-word is
// removed.
func FilenameStem(company string) string {
	s := slashPattern.ReplaceAllString(company, "_")
	s = ampersandPattern.ReplaceAllString(s, "_")
	s = spacePattern.ReplaceAllString(s, "_")
	s = unsafePattern.ReplaceAllString(s, "")
	return underscoreRun.ReplaceAllString(s, "_")
}

// ParseFilename splits "<rank>_<company>.txt".
func ParseFilename(name string) (rank int, company string, ok bool) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return n, m[2], true
}

func squash(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("_", "", "-", "").Replace(s)
}

// FilenameMatches reports whether the company part of a profile filename
// corresponds to a master company name. Either may contain the other, or
// both (when longer than five characters) may share a prefix of half the
// shorter one's length. An empty side never matches.
func FilenameMatches(company, fileCompany string) bool {
	a := squash(FilenameStem(company))
	b := squash(fileCompany)
	if a == "" || b == "" {
		return false
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	ar, br := []rune(a), []rune(b)
	if len(ar) > 5 && len(br) > 5 {
		half := min(len(ar), len(br)) / 2
		return string(ar[:half]) == string(br[:half])
	}
	return false
}

// Similarity is 1 minus the normalized edit distance between the squashed
// forms of a and b.
func Similarity(a, b string) float64 {
	a, b = squash(FilenameStem(a)), squash(b)
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
