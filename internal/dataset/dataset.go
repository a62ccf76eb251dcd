package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesreg/internal/regression"
)

// Format identifies a supported input file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Content types accepted for uploads
const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrUnsupportedFormat is returned when neither the file name nor the content
// type identifies a known format.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// utf8BOM is stripped from the first header cell of CSV exports
const utf8BOM = "\uFEFF"

// ReadError reports an input that could not be read as a table.
type ReadError struct {
	Format Format
	Source string
	Err    error
}

// Error implements the error interface
func (e *ReadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("read %s dataset %s: %v", e.Format, e.Source, e.Err)
	}
	return fmt.Sprintf("read %s dataset: %v", e.Format, e.Err)
}

// Unwrap returns the underlying error
func (e *ReadError) Unwrap() error {
	return e.Err
}

// DetectFormat picks the format from a file name extension, falling back to
// a MIME content type. Either argument may be empty.
func DetectFormat(name, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}

	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			switch mediaType {
			case ContentTypeCSV, "application/csv":
				return FormatCSV, nil
			case ContentTypeXLSX:
				return FormatXLSX, nil
			}
		}
	}

	return "", fmt.Errorf("%w: name %q, content type %q", ErrUnsupportedFormat, name, contentType)
}

// ReadFile opens path and reads it with the format implied by its extension.
func ReadFile(path string) ([]regression.RawRecord, error) {
	format, err := DetectFormat(path, "")
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := Read(f, format)
	if err != nil {
		var rerr *ReadError
		if errors.As(err, &rerr) {
			rerr.Source = path
		}
		return nil, err
	}
	return records, nil
}

// Read parses r in the given format.
func Read(r io.Reader, format Format) ([]regression.RawRecord, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadCSV reads a CSV table whose first line is the header. Every row must
// have as many cells as the header.
func ReadCSV(r io.Reader) ([]regression.RawRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("missing header row")
		}
		return nil, &ReadError{Format: FormatCSV, Err: err}
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	var records []regression.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ReadError{Format: FormatCSV, Err: err}
		}
		records = append(records, toRecord(header, row))
	}
	return records, nil
}

// ReadXLSX reads the first worksheet of an XLSX workbook. Rows with no
// content are skipped.
func ReadXLSX(r io.Reader) ([]regression.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ReadError{Format: FormatXLSX, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ReadError{Format: FormatXLSX, Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ReadError{Format: FormatXLSX, Err: fmt.Errorf("sheet %q: %w", sheets[0], err)}
	}
	if len(rows) == 0 {
		return nil, &ReadError{Format: FormatXLSX, Err: errors.New("missing header row")}
	}

	header := rows[0]
	records := make([]regression.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		records = append(records, toRecord(header, row))
	}
	return records, nil
}

// ReadBytes reads an in-memory upload.
func ReadBytes(data []byte, format Format) ([]regression.RawRecord, error) {
	return Read(bytes.NewReader(data), format)
}

// toRecord zips a header with a row. Spreadsheets omit trailing empty
// cells, so missing cells are left out and extra cells are dropped.
func toRecord(header, row []string) regression.RawRecord {
	rec := make(regression.RawRecord, len(header))
	for i, name := range header {
		if i >= len(row) {
			break
		}
		rec[name] = row[i]
	}
	return rec
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
