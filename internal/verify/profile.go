package verify

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/model"
)

// ErrMissingRank is returned for a profile document with no rank marker.
var ErrMissingRank = eris.New("verify: could not extract rank")

// ParseError records a profile document that was excluded from the rank map.
type ParseError struct {
	Filename string
	Err      error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

var (
	rankPattern  = regexp.MustCompile(`#\s*(\d+)`)
	fieldPattern = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z ]*?)\s*:\s*(.*?)\s*$`)
)

// Absent reports whether a labeled value means "no value".
func Absent(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "not specified":
		return true
	}
	return false
}

// ParseProfile reads a labeled-field profile document. The rank comes from
// the first "#<N>" marker on a line that is not a known labeled field. For
// each label the first occurrence wins; absent values are stored empty.
func ParseProfile(filename string, r io.Reader) (model.ProfileDocument, error) {
	doc := model.ProfileDocument{Filename: filename}
	seen := make(map[string]bool)
	rankFound := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		if m := fieldPattern.FindStringSubmatch(line); m != nil {
			label := strings.ToLower(m[1])
			if dst := profileField(&doc, label); dst != nil {
				if !seen[label] {
					seen[label] = true
					if !Absent(m[2]) {
						*dst = m[2]
					}
				}
				continue
			}
		}

		if !rankFound {
			if m := rankPattern.FindStringSubmatch(line); m != nil {
				n, err := strconv.Atoi(m[1])
				if err == nil {
					doc.Rank = n
					rankFound = true
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return doc, eris.Wrapf(err, "verify: read profile %s", filename)
	}
	if !rankFound {
		return doc, ErrMissingRank
	}
	return doc, nil
}

func profileField(doc *model.ProfileDocument, label string) *string {
	switch label {
	case "company":
		return &doc.Company
	case "contact", "contact name":
		return &doc.ContactName
	case "email":
		return &doc.Email
	case "phone":
		return &doc.Phone
	case "role":
		return &doc.Role
	case "linkedin":
		return &doc.LinkedIn
	case "website":
		return &doc.Website
	case "industry":
		return &doc.Industry
	case "tier":
		return &doc.Tier
	case "lead score":
		return &doc.LeadScore
	case "email subject":
		return &doc.EmailSubject
	case "best send time":
		return &doc.BestSendTime
	case "status":
		return &doc.Status
	}
	return nil
}

// Profiles is the set of profile documents keyed by rank.
type Profiles struct {
	Records    map[int]model.ProfileDocument
	Filenames  []string // every *.txt file seen, sorted
	Errors     []ParseError
	Duplicates []int // ranks claimed by more than one document; the first file wins
}

// Ranks returns the ranks present, ascending.
func (p *Profiles) Ranks() []int {
	return sortedKeys(p.Records)
}

// NewProfiles indexes already-parsed documents.
func NewProfiles(docs []model.ProfileDocument) *Profiles {
	p := &Profiles{Records: make(map[int]model.ProfileDocument, len(docs))}
	for _, d := range docs {
		p.Filenames = append(p.Filenames, d.Filename)
		p.add(d)
	}
	sort.Strings(p.Filenames)
	return p
}

func (p *Profiles) add(d model.ProfileDocument) {
	if _, dup := p.Records[d.Rank]; dup {
		p.Duplicates = append(p.Duplicates, d.Rank)
		return
	}
	p.Records[d.Rank] = d
}

// LoadProfiles parses every *.txt document in dir, in filename order. A
// document that cannot be read or carries no rank is listed in Errors and
// skipped; only an unreadable directory is fatal.
func LoadProfiles(dir string) (*Profiles, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, eris.Wrapf(err, "verify: profiles dir %s", dir)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, eris.Wrap(err, "verify: list profiles")
	}
	sort.Strings(paths)

	p := &Profiles{Records: make(map[int]model.ProfileDocument, len(paths))}
	for _, path := range paths {
		name := filepath.Base(path)
		p.Filenames = append(p.Filenames, name)

		doc, err := parseProfileFile(path, name)
		if err != nil {
			p.Errors = append(p.Errors, ParseError{Filename: name, Err: err})
			zap.L().Debug("verify: profile skipped", zap.String("file", name), zap.Error(err))
			continue
		}
		p.add(doc)
	}

	zap.L().Info("verify: profiles loaded",
		zap.String("dir", dir),
		zap.Int("files", len(paths)),
		zap.Int("parsed", len(p.Records)),
		zap.Int("errors", len(p.Errors)),
	)
	return p, nil
}

func parseProfileFile(path, name string) (model.ProfileDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.ProfileDocument{}, eris.Wrap(err, "verify: open profile")
	}
	defer f.Close() //nolint:errcheck
	return ParseProfile(name, f)
}
