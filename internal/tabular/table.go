// Package tabular reads and writes the delimited and spreadsheet contact tables.
package tabular

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/model"
)

// Required column names of the contact table.
const (
	ColCompany   = "Company"
	ColFirstName = "First Name"
	ColLastName  = "Last Name"
	ColEmail     = "Email"
)

// ErrMissingColumns is returned when a header names some, but not all, of the
// required contact columns.
var ErrMissingColumns = eris.New("tabular: missing required columns")

// Table is an in-memory snapshot of a tabular source: a header row plus data
// rows in file order. Rows may be ragged.
type Table struct {
	Header    []string
	Rows      [][]string
	Delimiter rune   // CSV delimiter the table was read with (0 = ',')
	Sheet     string // XLSX sheet name the table was read from
}

// Clone returns a deep copy so callers can transform a snapshot without
// touching the original.
func (t *Table) Clone() *Table {
	out := &Table{
		Header:    append([]string(nil), t.Header...),
		Rows:      make([][]string, len(t.Rows)),
		Delimiter: t.Delimiter,
		Sheet:     t.Sheet,
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// LineOf returns the 1-based source line of data row i.
func LineOf(i int) int {
	return i + 2
}

// Schema locates the contact columns within a row.
type Schema struct {
	Company   int
	FirstName int
	LastName  int
	Email     int
}

// DefaultSchema is the positional layout used when the header names none of
// the contact columns.
var DefaultSchema = Schema{Company: 0, FirstName: 1, LastName: 2, Email: 3}

// ResolveSchema addresses the contact columns by header name so tables with
// extra or reordered columns (e.g. a leading Title column) are handled.
func ResolveSchema(header []string) (Schema, error) {
	idx := ColumnIndex(header)

	names := []string{ColCompany, ColFirstName, ColLastName, ColEmail}
	found := make([]int, len(names))
	var missing []string
	for i, name := range names {
		pos, ok := idx[normalizeHeader(name)]
		if !ok {
			missing = append(missing, name)
			found[i] = -1
			continue
		}
		found[i] = pos
	}

	switch len(missing) {
	case 0:
		return Schema{Company: found[0], FirstName: found[1], LastName: found[2], Email: found[3]}, nil
	case len(names):
		return DefaultSchema, nil
	default:
		return Schema{}, eris.Wrapf(ErrMissingColumns, "%s", strings.Join(missing, ", "))
	}
}

// Width is the minimum number of fields a row needs to carry every column.
func (s Schema) Width() int {
	return max(s.Company, s.FirstName, s.LastName, s.Email) + 1
}

// Fits reports whether the row carries every contact column.
func (s Schema) Fits(row []string) bool {
	return len(row) >= s.Width()
}

// Record returns a typed view of data row i. The row must fit the schema.
func (s Schema) Record(i int, row []string) model.ContactRecord {
	return model.ContactRecord{
		Line:      LineOf(i),
		Company:   row[s.Company],
		FirstName: row[s.FirstName],
		LastName:  row[s.LastName],
		Email:     row[s.Email],
	}
}

// SetNames overwrites the name fields of a row in place.
func (s Schema) SetNames(row []string, first, last string) {
	row[s.FirstName] = first
	row[s.LastName] = last
}

// ColumnIndex maps normalized header names to their positions. When a name
// repeats, the first occurrence wins.
func ColumnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		key := normalizeHeader(col)
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

// HasColumn reports whether the header indexed by idx carries name.
func HasColumn(idx map[string]int, name string) bool {
	_, ok := idx[normalizeHeader(name)]
	return ok
}

// Column safely retrieves a trimmed column value from a row.
func Column(row []string, idx map[string]int, name string) string {
	i, ok := idx[normalizeHeader(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// normalizeHeader folds case, underscores and repeated spaces so that
// "First_Name", "first name" and "First Name" are the same column.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.ReplaceAll(h, "_", " ")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}
