package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawRow is one upstream record keyed by normalized (lowercased, trimmed)
// column name. The transport owns the physical format; the readers below
// only lift it into rows.
type RawRow map[string]string

// RowReader yields feed rows one at a time. Next returns io.EOF when the
// sequence is exhausted; any other error is a transport read failure and
// fatal to the run. Readers are single-pass and not restartable.
type RowReader interface {
	Next() (RawRow, error)
}

// NewCSVRowReader returns a RowReader over CSV data. The first record is the
// header; a UTF-8 BOM on the first header cell is stripped, matching feeds
// exported as utf-8-sig.
func NewCSVRowReader(r io.Reader) (RowReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return &sliceRowReader{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read feed header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	return &csvRowReader{r: cr, header: normalizeHeader(header)}, nil
}

type csvRowReader struct {
	r      *csv.Reader
	header []string
}

func (c *csvRowReader) Next() (RawRow, error) {
	record, err := c.r.Read()
	if err != nil {
		return nil, err
	}
	return zipRow(c.header, record), nil
}

// NewExcelRowReader returns a RowReader over the first sheet of an xlsx
// workbook. The sheet is read eagerly (the workbook format does not stream)
// and rows are yielded one at a time to keep the parsing contract uniform.
func NewExcelRowReader(r io.Reader) (RowReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel feed: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel feed has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read excel rows: %w", err)
	}
	if len(rows) == 0 {
		return &sliceRowReader{}, nil
	}

	header := normalizeHeader(rows[0])
	raw := make([]RawRow, 0, len(rows)-1)
	for _, record := range rows[1:] {
		raw = append(raw, zipRow(header, record))
	}
	return &sliceRowReader{rows: raw}, nil
}

type sliceRowReader struct {
	rows []RawRow
	pos  int
}

func (s *sliceRowReader) Next() (RawRow, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

func zipRow(header, record []string) RawRow {
	row := make(RawRow, len(header))
	for i, name := range header {
		if name == "" || i >= len(record) {
			continue
		}
		row[name] = record[i]
	}
	return row
}
