package verify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/quality"
)

// Required master fields checked for completeness, in report order.
var RequiredFields = []string{"company", "contact_name", "email", "role", "industry", "tier", "lead_score"}

func masterField(r model.MasterRecord, field string) string {
	switch field {
	case "company":
		return r.Company
	case "contact_name":
		return r.ContactName
	case "email":
		return r.Email
	case "role":
		return r.Role
	case "industry":
		return r.Industry
	case "tier":
		return r.Tier
	case "lead_score":
		return r.LeadScore
	}
	return ""
}

// ScoreWeights split the overall score between its four components.
type ScoreWeights struct {
	MasterCoverage  float64
	ProfileCoverage float64
	Consistency     float64
	Completeness    float64
}

// DefaultScoreWeights returns 15/15/30/40.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{MasterCoverage: 0.15, ProfileCoverage: 0.15, Consistency: 0.30, Completeness: 0.40}
}

// Options configure a Verifier.
type Options struct {
	// Expected is N of the expected rank range [1, N]. Zero means the number
	// of master records.
	Expected              int
	CompletenessThreshold float64 // percent
	LinkedInPrefix        string
	Weights               ScoreWeights
}

// DefaultOptions returns a 95% threshold, linkedin.com URLs and the default
// score weights.
func DefaultOptions() Options {
	return Options{
		CompletenessThreshold: 95,
		LinkedInPrefix:        "linkedin.com/",
		Weights:               DefaultScoreWeights(),
	}
}

// FieldMismatch is one field that disagrees between the sources.
type FieldMismatch struct {
	Field   string
	Master  string
	Profile string
}

// Mismatch lists the disagreeing fields of one rank.
type Mismatch struct {
	Rank   int
	Fields []FieldMismatch
}

// FieldCompleteness is the fill rate of one required master field.
type FieldCompleteness struct {
	Field          string
	Filled         int
	Empty          int
	Percent        float64
	BelowThreshold bool
}

// RankValue is a value flagged at a rank.
type RankValue struct {
	Rank  int
	Value string
}

// FilenameIssue is a profile filename that does not correspond to the
// master record of its rank.
type FilenameIssue struct {
	Rank        int
	Issue       string
	Company     string
	Filename    string
	FileCompany string
	Similarity  float64
}

// Filename issue kinds.
const (
	IssueFileMissing     = "File missing"
	IssueCompanyMismatch = "Company name mismatch"
	IssueRankMismatch    = "Rank in filename differs from document"
	IssueUnparseableName = "Filename does not encode a rank"
)

// TierCount is the share of master records in one tier.
type TierCount struct {
	Tier    string
	Count   int
	Percent float64
}

// ScoreComponent is one weighted term of the overall score.
type ScoreComponent struct {
	Name   string
	Points float64
}

// Result is the full reconciliation of one master table and profile set.
type Result struct {
	Expected     int
	MasterRanks  int
	ProfileRanks int

	MissingInMaster   []int
	MissingInProfiles []int
	ExtraInMaster     []int
	ExtraInProfiles   []int

	Common          int
	Mismatches      []Mismatch
	Completeness    []FieldCompleteness
	InvalidEmails   []RankValue
	InvalidLinkedIn []RankValue
	FilenameIssues  []FilenameIssue
	Tiers           []TierCount
	Duplicates      DuplicateSummary

	Components  []ScoreComponent
	Score       float64
	Rating      string
	Corrections []string

	MasterErrors          []string
	ProfileErrors         []ParseError
	DuplicateMasterRanks  []int
	DuplicateProfileRanks []int
	CompletenessThreshold float64
}

// Extras returns the ranks outside the expected range in either source.
func (r *Result) Extras() []int {
	set := make(map[int]struct{})
	for _, n := range r.ExtraInMaster {
		set[n] = struct{}{}
	}
	for _, n := range r.ExtraInProfiles {
		set[n] = struct{}{}
	}
	return sortedKeys(set)
}

// Verifier compares a master table with its profile documents. It keeps no
// state between calls.
type Verifier struct {
	opts     Options
	linkedIn *regexp.Regexp
}

// New creates a Verifier.
func New(opts Options) *Verifier {
	if opts.LinkedInPrefix == "" {
		opts.LinkedInPrefix = DefaultOptions().LinkedInPrefix
	}
	return &Verifier{opts: opts, linkedIn: linkedInPattern(opts.LinkedInPrefix)}
}

// ValidLinkedIn reports whether url is an http(s) URL on the configured
// profile domain.
func (v *Verifier) ValidLinkedIn(url string) bool {
	return v.linkedIn.MatchString(strings.ToLower(strings.TrimSpace(url)))
}

// Verify runs every check in one pass.
func (v *Verifier) Verify(master *Master, profiles *Profiles) *Result {
	n := v.opts.Expected
	if n <= 0 {
		n = len(master.Records)
	}

	res := &Result{
		Expected:              n,
		MasterRanks:           len(master.Records),
		ProfileRanks:          len(profiles.Records),
		MasterErrors:          master.Errors,
		ProfileErrors:         profiles.Errors,
		DuplicateMasterRanks:  master.Duplicates,
		DuplicateProfileRanks: profiles.Duplicates,
		CompletenessThreshold: v.opts.CompletenessThreshold,
	}

	v.coverage(res, master, profiles)
	v.consistency(res, master, profiles)
	v.completeness(res, master)
	v.syntax(res, master)
	v.filenames(res, master, profiles)
	v.tiers(res, master)
	res.Duplicates = FindDuplicates(master)
	v.score(res, master)
	v.corrections(res)

	zap.L().Info("verify: complete",
		zap.Int("expected", n),
		zap.Int("master", res.MasterRanks),
		zap.Int("profiles", res.ProfileRanks),
		zap.Int("mismatches", len(res.Mismatches)),
		zap.Int("duplicate_emails", len(res.Duplicates.Emails)),
		zap.Float64("score", res.Score),
	)
	return res
}

func (v *Verifier) coverage(res *Result, master *Master, profiles *Profiles) {
	for rank := 1; rank <= res.Expected; rank++ {
		if _, ok := master.Records[rank]; !ok {
			res.MissingInMaster = append(res.MissingInMaster, rank)
		}
		if _, ok := profiles.Records[rank]; !ok {
			res.MissingInProfiles = append(res.MissingInProfiles, rank)
		}
	}
	inRange := func(r int) bool { return r >= 1 && r <= res.Expected }
	for _, r := range master.Ranks() {
		if !inRange(r) {
			res.ExtraInMaster = append(res.ExtraInMaster, r)
		}
	}
	for _, r := range profiles.Ranks() {
		if !inRange(r) {
			res.ExtraInProfiles = append(res.ExtraInProfiles, r)
		}
	}
}

func (v *Verifier) consistency(res *Result, master *Master, profiles *Profiles) {
	for _, rank := range master.Ranks() {
		p, ok := profiles.Records[rank]
		if !ok {
			continue
		}
		m := master.Records[rank]
		res.Common++

		var fields []FieldMismatch
		check := func(field, mv, pv string, norm func(string) string) {
			if Absent(mv) || Absent(pv) {
				return
			}
			if norm(mv) != norm(pv) {
				fields = append(fields, FieldMismatch{Field: field, Master: mv, Profile: pv})
			}
		}
		check("Company", m.Company, p.Company, Normalize)
		check("Email", m.Email, p.Email, Normalize)
		check("Name", m.ContactName, p.ContactName, strings.TrimSpace)
		check("Tier", m.Tier, p.Tier, strings.TrimSpace)
		check("Lead Score", m.LeadScore, p.LeadScore, strings.TrimSpace)

		if len(fields) > 0 {
			res.Mismatches = append(res.Mismatches, Mismatch{Rank: rank, Fields: fields})
		}
	}
}

func (v *Verifier) completeness(res *Result, master *Master) {
	total := len(master.Records)
	for _, field := range RequiredFields {
		fc := FieldCompleteness{Field: field}
		for _, rec := range master.Records {
			if Absent(masterField(rec, field)) {
				fc.Empty++
			} else {
				fc.Filled++
			}
		}
		if total > 0 {
			fc.Percent = float64(fc.Filled) / float64(total) * 100
			fc.BelowThreshold = fc.Percent < v.opts.CompletenessThreshold
		}
		res.Completeness = append(res.Completeness, fc)
	}
}

func (v *Verifier) syntax(res *Result, master *Master) {
	for _, rank := range master.Ranks() {
		rec := master.Records[rank]
		if !Absent(rec.Email) && !quality.ValidEmail(rec.Email) {
			res.InvalidEmails = append(res.InvalidEmails, RankValue{Rank: rank, Value: rec.Email})
		}
		if !Absent(rec.LinkedIn) && !v.ValidLinkedIn(rec.LinkedIn) {
			res.InvalidLinkedIn = append(res.InvalidLinkedIn, RankValue{Rank: rank, Value: rec.LinkedIn})
		}
	}
}

func (v *Verifier) filenames(res *Result, master *Master, profiles *Profiles) {
	type file struct{ name, company string }
	byRank := make(map[int]file)

	for _, name := range profiles.Filenames {
		rank, company, ok := ParseFilename(name)
		if !ok {
			res.FilenameIssues = append(res.FilenameIssues, FilenameIssue{Issue: IssueUnparseableName, Filename: name})
			continue
		}
		if _, dup := byRank[rank]; !dup {
			byRank[rank] = file{name: name, company: company}
		}
	}

	for _, rank := range master.Ranks() {
		company := master.Records[rank].Company
		f, ok := byRank[rank]
		if !ok {
			res.FilenameIssues = append(res.FilenameIssues, FilenameIssue{Rank: rank, Issue: IssueFileMissing, Company: company})
			continue
		}
		if !FilenameMatches(company, f.company) {
			res.FilenameIssues = append(res.FilenameIssues, FilenameIssue{
				Rank:        rank,
				Issue:       IssueCompanyMismatch,
				Company:     company,
				Filename:    f.name,
				FileCompany: f.company,
				Similarity:  Similarity(company, f.company),
			})
		}
	}

	for _, rank := range profiles.Ranks() {
		doc := profiles.Records[rank]
		if fr, _, ok := ParseFilename(doc.Filename); ok && fr != doc.Rank {
			res.FilenameIssues = append(res.FilenameIssues, FilenameIssue{
				Rank: doc.Rank, Issue: IssueRankMismatch, Filename: doc.Filename,
			})
		}
	}
}

func (v *Verifier) tiers(res *Result, master *Master) {
	counts := make(map[string]int)
	for _, rec := range master.Records {
		tier := strings.TrimSpace(rec.Tier)
		if tier == "" {
			tier = "(empty)"
		}
		counts[tier]++
	}
	total := len(master.Records)
	for tier, c := range counts {
		res.Tiers = append(res.Tiers, TierCount{Tier: tier, Count: c, Percent: float64(c) / float64(total) * 100})
	}
	sort.Slice(res.Tiers, func(i, j int) bool { return res.Tiers[i].Tier < res.Tiers[j].Tier })
}

func (v *Verifier) score(res *Result, master *Master) {
	w := v.opts.Weights
	n := float64(res.Expected)

	coverage := func(missing int) float64 {
		if n == 0 {
			return 0
		}
		return (n - float64(missing)) / n * 100
	}

	var consistency float64
	if res.Common > 0 {
		consistency = float64(res.Common-len(res.Mismatches)) / float64(res.Common) * 100
	}

	var completeness float64
	if len(master.Records) > 0 {
		for _, fc := range res.Completeness {
			completeness += fc.Percent
		}
		completeness /= float64(len(res.Completeness))
	}

	res.Components = []ScoreComponent{
		{Name: "Rank completeness (master)", Points: coverage(len(res.MissingInMaster)) * w.MasterCoverage},
		{Name: "Rank completeness (profiles)", Points: coverage(len(res.MissingInProfiles)) * w.ProfileCoverage},
		{Name: "Data consistency", Points: consistency * w.Consistency},
		{Name: "Field completeness", Points: completeness * w.Completeness},
	}
	for _, c := range res.Components {
		res.Score += c.Points
	}
	res.Rating = RatingFor(res.Score)
}

// RatingFor maps an overall score to its rating label.
func RatingFor(score float64) string {
	switch {
	case score >= 90:
		return "EXCELLENT"
	case score >= 80:
		return "GOOD"
	case score >= 70:
		return "FAIR"
	default:
		return "NEEDS IMPROVEMENT"
	}
}

func (v *Verifier) corrections(res *Result) {
	add := func(format string, args ...any) {
		res.Corrections = append(res.Corrections, fmt.Sprintf(format, args...))
	}
	if len(res.MissingInMaster) > 0 {
		add("Add %d missing ranks to the master table: %v", len(res.MissingInMaster), res.MissingInMaster)
	}
	if len(res.MissingInProfiles) > 0 {
		add("Create %d missing profile files for ranks: %v", len(res.MissingInProfiles), res.MissingInProfiles)
	}
	if extras := res.Extras(); len(extras) > 0 {
		add("Remove or renumber %d ranks outside 1-%d: %v", len(extras), res.Expected, extras)
	}
	if len(res.Mismatches) > 0 {
		add("Resolve %d data mismatches between the master table and profile files", len(res.Mismatches))
	}
	if len(res.InvalidEmails) > 0 {
		add("Fix %d invalid email formats", len(res.InvalidEmails))
	}
	if len(res.InvalidLinkedIn) > 0 {
		add("Fix %d invalid LinkedIn URL formats", len(res.InvalidLinkedIn))
	}
	for _, fc := range res.Completeness {
		if fc.Empty > 0 && fc.BelowThreshold {
			add("Fill %d empty '%s' values (%.1f%% incomplete)", fc.Empty, fc.Field, 100-fc.Percent)
		}
	}
	if len(res.ProfileErrors) > 0 {
		add("Repair %d profile files that could not be parsed", len(res.ProfileErrors))
	}
}
