// Package verify reconciles the ranked master table against the per-contact
// profile documents and scores their combined quality.
package verify

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/tabular"
)

// Master table column names.
const (
	ColRank         = "Rank"
	ColCompany      = "Company"
	ColContactName  = "Contact_Name"
	ColEmail        = "Email"
	ColPhone        = "Phone"
	ColRole         = "Role"
	ColIndustry     = "Industry"
	ColTier         = "Tier"
	ColLinkedIn     = "LinkedIn"
	ColWebsite      = "Website"
	ColLeadScore    = "Lead_Score"
	ColEmailSubject = "Email_Subject"
	ColBestSendDay  = "Best_Send_Day"
	ColBestSendTime = "Best_Send_Time"
	ColStatus       = "Status"
)

// ErrNoRankColumn is returned when the master table has no Rank column.
var ErrNoRankColumn = eris.New("verify: master table has no Rank column")

// Master is the master table keyed by rank.
type Master struct {
	Records    map[int]model.MasterRecord
	Errors     []string // rows whose rank could not be parsed
	Duplicates []int    // ranks seen more than once; the first row wins
}

// Ranks returns the ranks present, ascending.
func (m *Master) Ranks() []int {
	return sortedKeys(m.Records)
}

// LoadMaster reads the master table from a CSV or XLSX file.
func LoadMaster(path string) (*Master, error) {
	t, err := tabular.Read(path)
	if err != nil {
		return nil, eris.Wrap(err, "verify: load master")
	}
	return MasterFromTable(t)
}

// MasterFromTable indexes a master table by rank. Columns are addressed by
// header name.
func MasterFromTable(t *tabular.Table) (*Master, error) {
	idx := tabular.ColumnIndex(t.Header)
	if !tabular.HasColumn(idx, ColRank) {
		return nil, ErrNoRankColumn
	}

	m := &Master{Records: make(map[int]model.MasterRecord, t.Len())}
	for i, row := range t.Rows {
		col := func(name string) string { return tabular.Column(row, idx, name) }

		raw := col(ColRank)
		rank, err := strconv.Atoi(raw)
		if err != nil {
			m.Errors = append(m.Errors, fmt.Sprintf("line %d: invalid rank %q", tabular.LineOf(i), raw))
			continue
		}
		if _, dup := m.Records[rank]; dup {
			m.Duplicates = append(m.Duplicates, rank)
			continue
		}

		m.Records[rank] = model.MasterRecord{
			Rank:         rank,
			Company:      col(ColCompany),
			ContactName:  col(ColContactName),
			Email:        col(ColEmail),
			Phone:        col(ColPhone),
			Role:         col(ColRole),
			Industry:     col(ColIndustry),
			Tier:         col(ColTier),
			LinkedIn:     col(ColLinkedIn),
			Website:      col(ColWebsite),
			LeadScore:    col(ColLeadScore),
			EmailSubject: col(ColEmailSubject),
			BestSendDay:  col(ColBestSendDay),
			BestSendTime: col(ColBestSendTime),
			Status:       col(ColStatus),
		}
	}
	return m, nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
