package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrNotFound is returned when a table file does not exist.
var ErrNotFound = eris.New("table file not found")

// ErrUnsupportedFormat is returned for file extensions with no reader.
var ErrUnsupportedFormat = eris.New("unsupported table format")

// Options configures table readers.
type Options struct {
	Delimiter  rune   // default ',' (tab for .tsv files)
	Charset    string // source encoding label, e.g. "windows-1252"; empty means UTF-8
	LazyQuotes bool
	SheetName  string // xlsx only; default first sheet
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read loads a table from path, choosing the reader by file extension.
func Read(path string, opts Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, eris.Wrapf(err, "table: stat %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSVFile(path, opts)
	case ".tsv":
		if opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
		return ReadCSVFile(path, opts)
	case ".xlsx":
		return ReadXLSX(path, opts)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close() //nolint:errcheck

	t, err := ReadCSV(f, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: read %s", path)
	}
	return t, nil
}

// ReadCSV parses a header row followed by data rows. An input with no header
// yields a table with no columns.
func ReadCSV(r io.Reader, opts Options) (*Table, error) {
	if opts.Charset != "" {
		enc, err := htmlindex.Get(opts.Charset)
		if err != nil {
			return nil, eris.Wrapf(err, "csv: unsupported charset %q", opts.Charset)
		}
		r = enc.NewDecoder().Reader(r)
	}

	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields; New pads short rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read rows")
	}
	if len(records) == 0 {
		return New(nil, nil)
	}

	// Header names are kept verbatim so written output matches the input.
	return New(records[0], records[1:])
}

// WriteFile writes t to path in the format named by its extension: CSV for
// .csv and .txt, tab-separated for .tsv, and a single-sheet workbook for
// .xlsx. Other extensions return ErrUnsupportedFormat.
func WriteFile(path string, t *Table) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return writeDelimited(path, t, ',')
	case ".tsv":
		return writeDelimited(path, t, '\t')
	case ".xlsx":
		return WriteXLSX(path, t)
	default:
		return eris.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
}

// Writable reports whether WriteFile supports the extension of path.
func Writable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv", ".xlsx":
		return true
	}
	return false
}

// WriteCSV writes t to path as a header row followed by data rows.
func WriteCSV(path string, t *Table) error {
	return writeDelimited(path, t, ',')
}

func writeDelimited(path string, t *Table, comma rune) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "csv: create output file")
	}

	if err := WriteDelimited(f, t, comma); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrap(f.Close(), "csv: close output file")
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "table: create output dir")
		}
	}
	return nil
}

// Write encodes t as CSV to w.
func Write(w io.Writer, t *Table) error {
	return WriteDelimited(w, t, ',')
}

// WriteDelimited encodes t to w using comma as the field separator.
func WriteDelimited(w io.Writer, t *Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(t.Names()); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	for r := 0; r < t.NumRows(); r++ {
		if err := cw.Write(t.Row(r)); err != nil {
			return eris.Wrapf(err, "csv: write row %d", r+1)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}
