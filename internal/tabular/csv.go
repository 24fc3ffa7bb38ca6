package tabular

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// Read loads a table from path, choosing the parser by file extension.
func Read(path string) (*Table, error) {
	if isXLSX(path) {
		return ReadXLSX(path, XLSXOptions{})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f, CSVOptions{LazyQuotes: true})
}

// ReadCSV parses a delimited table with a header row. Rows may have any
// number of fields; short rows are kept so they can be passed through.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "tabular: read csv")
	}
	if len(records) == 0 {
		return nil, eris.New("tabular: csv has no header row")
	}

	if opts.TrimSpace {
		for _, record := range records {
			for i, field := range record {
				record[i] = strings.TrimSpace(field)
			}
		}
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	return &Table{
		Header:    header,
		Rows:      records[1:],
		Delimiter: reader.Comma,
	}, nil
}

// EncodeCSV writes the header and every row. Fields containing the delimiter,
// quotes or newlines are quoted.
func EncodeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if t.Delimiter != 0 {
		cw.Comma = t.Delimiter
	}

	if err := cw.Write(t.Header); err != nil {
		return eris.Wrap(err, "tabular: write header")
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "tabular: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "tabular: flush csv")
}

// WriteFile renders the full table in memory and atomically replaces path
// with it. On any error the previous file at path is left untouched.
func WriteFile(path string, t *Table) error {
	var buf bytes.Buffer

	if isXLSX(path) {
		if err := EncodeXLSX(&buf, t); err != nil {
			return err
		}
	} else if err := EncodeCSV(&buf, t); err != nil {
		return err
	}

	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "tabular: replace %s", path)
	}
	return nil
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
