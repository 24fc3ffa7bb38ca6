package verify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/tabular"
)

const sampleProfile = `================================================================
CONTACT PROFILE #12
================================================================
Company: Acme & Sons
Contact: Jane Doe
Email: jane@acme.com
Phone: Not specified
LinkedIn: https://www.linkedin.com/in/jane
Tier: Tier 1
Lead Score: 87
Email Subject: Hello: a question
BEST SEND TIME: Tuesday 10:00 AM
STATUS: nan
Company: Ignored Duplicate Label
`

func TestParseProfile(t *testing.T) {
	doc, err := ParseProfile("12_Acme_Sons.txt", strings.NewReader(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, model.ProfileDocument{
		Filename:     "12_Acme_Sons.txt",
		Rank:         12,
		Company:      "Acme & Sons",
		ContactName:  "Jane Doe",
		Email:        "jane@acme.com",
		LinkedIn:     "https://www.linkedin.com/in/jane",
		Tier:         "Tier 1",
		LeadScore:    "87",
		EmailSubject: "Hello: a question",
		BestSendTime: "Tuesday 10:00 AM",
	}, doc)
}

func TestParseProfile_MissingRank(t *testing.T) {
	_, err := ParseProfile("x.txt", strings.NewReader("Company: Acme\nEmail: a@b.com\n"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMissingRank))
}

func TestAbsent(t *testing.T) {
	for _, v := range []string{"", "  ", "nan", "NaN", "Not specified", "NOT SPECIFIED"} {
		assert.True(t, Absent(v), v)
	}
	assert.False(t, Absent("Acme"))
}

func TestLoadProfiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("2_Beta.txt", "CONTACT PROFILE #2\nCompany: Beta\n")
	write("1_Acme.txt", "CONTACT PROFILE #1\nCompany: Acme\n")
	write("3_Broken.txt", "Company: Broken\n")
	write("9_Dup.txt", "CONTACT PROFILE #1\nCompany: Dup\n")
	write("notes.md", "CONTACT PROFILE #5\n")

	p, err := LoadProfiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, p.Ranks())
	assert.Equal(t, "Acme", p.Records[1].Company)
	assert.Equal(t, []int{1}, p.Duplicates)
	assert.Equal(t, []string{"1_Acme.txt", "2_Beta.txt", "3_Broken.txt", "9_Dup.txt"}, p.Filenames)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "3_Broken.txt", p.Errors[0].Filename)
	assert.True(t, eris.Is(p.Errors[0].Err, ErrMissingRank))
}

func TestLoadProfiles_MissingDir(t *testing.T) {
	_, err := LoadProfiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestMasterFromTable(t *testing.T) {
	tbl := &tabular.Table{
		Header: []string{"Rank", "Company", "Contact_Name", "Email", "Lead_Score"},
		Rows: [][]string{
			{"1", "Acme", "Jane Doe", "jane@acme.com", "90"},
			{"x", "Bad", "", "", ""},
			{"1", "Acme Again", "", "", ""},
			{" 2 ", "Beta"},
		},
	}
	m, err := MasterFromTable(tbl)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, m.Ranks())
	assert.Equal(t, "Acme", m.Records[1].Company)
	assert.Equal(t, "Jane Doe", m.Records[1].ContactName)
	assert.Equal(t, "90", m.Records[1].LeadScore)
	assert.Equal(t, "", m.Records[2].Email)
	assert.Equal(t, []int{1}, m.Duplicates)
	require.Len(t, m.Errors, 1)
	assert.Contains(t, m.Errors[0], "line 3")
}

func TestMasterFromTable_NoRank(t *testing.T) {
	_, err := MasterFromTable(&tabular.Table{Header: []string{"Company"}})
	assert.True(t, eris.Is(err, ErrNoRankColumn))
}

func TestLoadMaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")
	content := "Rank,Company,Contact_Name,Email\n1,Acme,Jane Doe,jane@acme.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := LoadMaster(path)
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.com", m.Records[1].Email)

	_, err = LoadMaster(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func masterOf(ranks ...int) *Master {
	m := &Master{Records: make(map[int]model.MasterRecord)}
	for _, r := range ranks {
		m.Records[r] = model.MasterRecord{Rank: r}
	}
	return m
}

func profilesOf(ranks ...int) *Profiles {
	docs := make([]model.ProfileDocument, 0, len(ranks))
	for _, r := range ranks {
		docs = append(docs, model.ProfileDocument{Rank: r})
	}
	return NewProfiles(docs)
}

func TestVerify_Coverage(t *testing.T) {
	opts := DefaultOptions()
	opts.Expected = 4

	res := New(opts).Verify(masterOf(1, 2, 3), profilesOf(2, 3, 4))

	assert.Equal(t, []int{1}, res.MissingInProfiles)
	assert.Equal(t, []int{4}, res.MissingInMaster)
	assert.Empty(t, res.Extras())
	assert.Equal(t, 2, res.Common)
}

func TestVerify_Extras(t *testing.T) {
	opts := DefaultOptions()
	opts.Expected = 2

	res := New(opts).Verify(masterOf(1, 2, 3), profilesOf(0, 1, 2, 5))
	assert.Equal(t, []int{3}, res.ExtraInMaster)
	assert.Equal(t, []int{0, 5}, res.ExtraInProfiles)
	assert.Equal(t, []int{0, 3, 5}, res.Extras())
}

func TestVerify_ExpectedDefaultsToMasterSize(t *testing.T) {
	res := New(DefaultOptions()).Verify(masterOf(1, 2, 3), profilesOf(1, 2, 3))
	assert.Equal(t, 3, res.Expected)
	assert.Empty(t, res.MissingInMaster)
	assert.Empty(t, res.MissingInProfiles)
}

func TestVerify_Mismatches(t *testing.T) {
	master := &Master{Records: map[int]model.MasterRecord{
		1: {Rank: 1, Company: "Acme & Sons", Email: "Jane@Acme.com", ContactName: "Jane Doe", Tier: "Tier 1", LeadScore: "87"},
		2: {Rank: 2, Company: "Beta", Email: "b@beta.com", ContactName: "Bob Roe", Tier: "Tier 2", LeadScore: "nan"},
	}}
	profiles := NewProfiles([]model.ProfileDocument{
		{Rank: 1, Company: "acme and  sons", Email: "jane@acme.com", ContactName: "Jane  Doe", Tier: "", LeadScore: "87"},
		{Rank: 2, Company: "Gamma", Email: "b@beta.com", ContactName: "Bob Roe", Tier: "Tier 2", LeadScore: "55"},
	})

	res := New(DefaultOptions()).Verify(master, profiles)
	require.Len(t, res.Mismatches, 2)

	assert.Equal(t, 1, res.Mismatches[0].Rank)
	assert.Equal(t, []FieldMismatch{{Field: "Name", Master: "Jane Doe", Profile: "Jane  Doe"}}, res.Mismatches[0].Fields)

	assert.Equal(t, 2, res.Mismatches[1].Rank)
	assert.Equal(t, []FieldMismatch{{Field: "Company", Master: "Beta", Profile: "Gamma"}}, res.Mismatches[1].Fields)
}

func TestVerify_CompletenessAndSyntax(t *testing.T) {
	master := &Master{Records: map[int]model.MasterRecord{
		1: {Rank: 1, Company: "Acme", Email: "jane@acme", Role: "nan", LinkedIn: "https://linkedin.com/in/jane"},
		2: {Rank: 2, Company: "Beta", Email: "bob@beta.com", Role: "CEO", LinkedIn: "http://facebook.com/bob"},
	}}

	res := New(DefaultOptions()).Verify(master, NewProfiles(nil))

	byField := make(map[string]FieldCompleteness)
	for _, fc := range res.Completeness {
		byField[fc.Field] = fc
	}
	assert.Equal(t, FieldCompleteness{Field: "company", Filled: 2, Percent: 100}, byField["company"])
	assert.Equal(t, FieldCompleteness{Field: "role", Filled: 1, Empty: 1, Percent: 50, BelowThreshold: true}, byField["role"])

	assert.Equal(t, []RankValue{{Rank: 1, Value: "jane@acme"}}, res.InvalidEmails)
	assert.Equal(t, []RankValue{{Rank: 2, Value: "http://facebook.com/bob"}}, res.InvalidLinkedIn)
}

func TestValidLinkedIn(t *testing.T) {
	v := New(DefaultOptions())
	assert.True(t, v.ValidLinkedIn("https://www.linkedin.com/in/jane"))
	assert.True(t, v.ValidLinkedIn("http://linkedin.com/company/acme"))
	assert.False(t, v.ValidLinkedIn("linkedin.com/in/jane"))
	assert.False(t, v.ValidLinkedIn("https://example.com/linkedin.com/"))
}

func TestFilenameStem(t *testing.T) {
	assert.Equal(t, "Stan_Hywet_Hall_Gardens", FilenameStem("Stan Hywet Hall & Gardens"))
	assert.Equal(t, "A_B_Testing_Co", FilenameStem("A/B Testing, Co."))
	assert.Equal(t, "Akron-Canton_Foodbank", FilenameStem("Akron-Canton  Foodbank"))
}

func TestFilenameMatches(t *testing.T) {
	tests := []struct {
		company, file string
		want          bool
	}{
		{"Stan Hywet Hall & Gardens", "Stan_Hywet_Hall_Gardens", true},
		{"PNC Bank", "PNC", true},
		{"Diebold Nixdorf Inc", "Diebold_Nixdorf_Incorporated", true},
		{"Greater Cleveland Regional Transit", "Greater_Cleveland_RTA", true},
		{"Acme", "Zenith", false},
		{"Playhouse Square", "Huntington_Bank", false},
		{"", "Acme_Corp", false},
		{"Acme Corp", "", false},
		{"&", "Acme_Corp", false},
	}
	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameMatches(tt.company, tt.file))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Acme", "acme"))
	assert.InDelta(t, 2.0/3, Similarity("abc", "abd"), 1e-9)
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestParseFilename(t *testing.T) {
	rank, company, ok := ParseFilename("12_Acme_Sons.txt")
	assert.True(t, ok)
	assert.Equal(t, 12, rank)
	assert.Equal(t, "Acme_Sons", company)

	_, _, ok = ParseFilename("Acme.txt")
	assert.False(t, ok)
}

func TestVerify_FilenameIssues(t *testing.T) {
	master := &Master{Records: map[int]model.MasterRecord{
		1: {Rank: 1, Company: "Acme"},
		2: {Rank: 2, Company: "Playhouse Square"},
		3: {Rank: 3, Company: "Beta"},
	}}
	profiles := NewProfiles([]model.ProfileDocument{
		{Rank: 1, Filename: "1_Acme.txt"},
		{Rank: 2, Filename: "2_Huntington_Bank.txt"},
		{Rank: 4, Filename: "5_Gamma.txt"},
		{Rank: 6, Filename: "readme.txt"},
	})

	res := New(DefaultOptions()).Verify(master, profiles)

	var issues []string
	for _, fi := range res.FilenameIssues {
		issues = append(issues, fi.Issue)
	}
	assert.ElementsMatch(t, []string{
		IssueUnparseableName, // readme.txt
		IssueCompanyMismatch, // rank 2
		IssueFileMissing,     // rank 3
		IssueRankMismatch,    // 5_Gamma.txt holds rank 4
	}, issues)

	for _, fi := range res.FilenameIssues {
		if fi.Issue == IssueCompanyMismatch {
			assert.Equal(t, 2, fi.Rank)
			assert.Less(t, fi.Similarity, 0.5)
		}
	}
}

func healthy() (*Master, *Profiles) {
	master := &Master{Records: map[int]model.MasterRecord{
		1: {Rank: 1, Company: "Acme", ContactName: "Jane Doe", Email: "jane@acme.com", Role: "CEO", Industry: "Food", Tier: "Tier 1", LeadScore: "90"},
		2: {Rank: 2, Company: "Beta Co", ContactName: "Bob Roe", Email: "bob@beta.com", Role: "COO", Industry: "Retail", Tier: "Tier 2", LeadScore: "80"},
	}}
	profiles := NewProfiles([]model.ProfileDocument{
		{Rank: 1, Filename: "1_Acme.txt", Company: "Acme", ContactName: "Jane Doe", Email: "jane@acme.com", Tier: "Tier 1", LeadScore: "90"},
		{Rank: 2, Filename: "2_Beta_Co.txt", Company: "Beta Co", ContactName: "Bob Roe", Email: "bob@beta.com", Tier: "Tier 2", LeadScore: "80"},
	})
	return master, profiles
}

func TestVerify_HealthyScore(t *testing.T) {
	master, profiles := healthy()
	res := New(DefaultOptions()).Verify(master, profiles)

	assert.InDelta(t, 100.0, res.Score, 1e-9)
	assert.Equal(t, "EXCELLENT", res.Rating)
	assert.Empty(t, res.Corrections)
	assert.Empty(t, res.FilenameIssues)
	assert.Equal(t, []TierCount{{Tier: "Tier 1", Count: 1, Percent: 50}, {Tier: "Tier 2", Count: 1, Percent: 50}}, res.Tiers)
}

func TestVerify_ScoreComponents(t *testing.T) {
	master, profiles := healthy()
	opts := DefaultOptions()
	opts.Expected = 4

	res := New(opts).Verify(master, profiles)

	require.Len(t, res.Components, 4)
	assert.InDelta(t, 7.5, res.Components[0].Points, 1e-9)
	assert.InDelta(t, 7.5, res.Components[1].Points, 1e-9)
	assert.InDelta(t, 30, res.Components[2].Points, 1e-9)
	assert.InDelta(t, 40, res.Components[3].Points, 1e-9)
	assert.InDelta(t, 85, res.Score, 1e-9)
	assert.Equal(t, "GOOD", res.Rating)
	assert.NotEmpty(t, res.Corrections)
}

func TestRatingFor(t *testing.T) {
	assert.Equal(t, "EXCELLENT", RatingFor(90))
	assert.Equal(t, "GOOD", RatingFor(80))
	assert.Equal(t, "FAIR", RatingFor(70))
	assert.Equal(t, "NEEDS IMPROVEMENT", RatingFor(69.9))
}

func TestFormatReport(t *testing.T) {
	opts := DefaultOptions()
	opts.Expected = 4
	res := New(opts).Verify(masterOf(1, 2, 3), profilesOf(2, 3, 4))

	out := FormatReport(res)
	assert.Contains(t, out, "RANK COVERAGE ANALYSIS")
	assert.Contains(t, out, "Expected ranks: 1-4 (4 total)")
	assert.Contains(t, out, "Ranks missing in master (1):\n   [4]")
	assert.Contains(t, out, "Ranks missing in profile files (1):\n   [1]")
	assert.Contains(t, out, "TOTAL SCORE")
	assert.Contains(t, out, "Rating: "+res.Rating)
	assert.Contains(t, out, "CORRECTIONS NEEDED")
	assert.Contains(t, out, "END OF REPORT")
}

func TestFormatReport_Healthy(t *testing.T) {
	master, profiles := healthy()
	out := FormatReport(New(DefaultOptions()).Verify(master, profiles))
	assert.Contains(t, out, "OK No data mismatches found in common records")
	assert.Contains(t, out, "OK No corrections needed")
}

func TestVerify_EmptyMasterNotBelowThreshold(t *testing.T) {
	res := New(DefaultOptions()).Verify(masterOf(), NewProfiles(nil))

	require.NotEmpty(t, res.Completeness)
	for _, fc := range res.Completeness {
		assert.False(t, fc.BelowThreshold, fc.Field)
	}
	for _, c := range res.Corrections {
		assert.NotContains(t, c, "Fill ")
	}
	assert.NotContains(t, FormatReport(res), "!  company")
}

func duplicated() *Master {
	return &Master{Records: map[int]model.MasterRecord{
		1: {Rank: 1, Company: "Acme", ContactName: "Jane Doe", Email: "Jane@Acme.com", Tier: "Tier 1", EmailSubject: "Quick question"},
		2: {Rank: 2, Company: "Acme", ContactName: "jane doe", Email: "jane@acme.com", Tier: "Tier 2", EmailSubject: "Following up"},
		3: {Rank: 3, Company: "Acme", ContactName: "Bob Roe", Email: "bob@acme.com", Tier: "Tier 1"},
		4: {Rank: 4, Company: "Beta", ContactName: "Ann Lee", Email: "ann@beta.com", EmailSubject: "Hello"},
		5: {Rank: 5, Company: "Beta", ContactName: "Al Poe", Email: "ann@beta.com", EmailSubject: "Hello"},
		6: {Rank: 6, Company: "Gamma", ContactName: "nan", Email: "nan"},
		7: {Rank: 7, Company: "Delta", ContactName: "Not specified", Email: ""},
	}}
}

func TestFindDuplicates(t *testing.T) {
	d := FindDuplicates(duplicated())

	assert.Equal(t, []DuplicateGroup{
		{Key: "ann@beta.com", Ranks: []int{4, 5}},
		{Key: "jane@acme.com", Ranks: []int{1, 2}, SubjectsDiffer: true},
	}, d.Emails)
	assert.Equal(t, []DuplicateGroup{{Key: "jane doe", Ranks: []int{1, 2}}}, d.Names)
	assert.Equal(t, []CompanyContacts{
		{Company: "Acme", Tier: "Tier 1", Ranks: []int{1, 2, 3}},
		{Company: "Beta", Tier: "", Ranks: []int{4, 5}},
	}, d.Companies)
	assert.Equal(t, 4, d.UniqueCompanies)
}

func TestFindDuplicates_None(t *testing.T) {
	master, _ := healthy()
	d := FindDuplicates(master)

	assert.Empty(t, d.Emails)
	assert.Empty(t, d.Names)
	assert.Empty(t, d.Companies)
	assert.Equal(t, 2, d.UniqueCompanies)
}

func TestVerify_DuplicatesReported(t *testing.T) {
	res := New(DefaultOptions()).Verify(duplicated(), NewProfiles(nil))
	assert.Len(t, res.Duplicates.Emails, 2)
	for _, c := range res.Corrections {
		assert.NotContains(t, strings.ToLower(c), "duplicate")
	}

	out := FormatReport(res)
	assert.Contains(t, out, "DUPLICATE CONTACT ANALYSIS")
	assert.Contains(t, out, "! Duplicate emails found: 2")
	assert.Contains(t, out, "jane@acme.com: ranks [1 2] (different messaging)")
	assert.Contains(t, out, "ann@beta.com: ranks [4 5] (identical messaging)")
	assert.Contains(t, out, "jane doe: ranks [1 2]")
	assert.Contains(t, out, "Companies with multiple contacts: 2")
	assert.Contains(t, out, "[Tier 1]:  3 contacts (ranks [1 2 3])")
	assert.Contains(t, out, "Unique companies: 4")
	assert.Contains(t, out, "Average contacts per company: 1.75")
}

func TestFormatReport_NoDuplicates(t *testing.T) {
	master, profiles := healthy()
	out := FormatReport(New(DefaultOptions()).Verify(master, profiles))
	assert.Contains(t, out, "OK No duplicate email addresses found")
	assert.Contains(t, out, "OK No duplicate contact names found")
	assert.Contains(t, out, "OK All contacts are from different companies")
}
