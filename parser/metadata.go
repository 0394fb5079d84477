package parser

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/cases"
)

// Sheet is a loaded metadata sheet with an index by normalized case-file id.
type Sheet struct {
	Rows []cases.Metadata

	index map[string]int
}

// LoadSheet reads a metadata sheet from a .csv or .xlsx file.
func LoadSheet(path string) (*Sheet, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx", ".xls":
		records, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported sheet format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", path)
	}

	return newSheet(rowsFromRecords(records)), nil
}

func newSheet(rows []cases.Metadata) *Sheet {
	s := &Sheet{Rows: rows, index: make(map[string]int, len(rows))}
	for i, row := range rows {
		id := row.CaseNumber
		if id == "" && row.PDFFilename != "" {
			id, _ = cases.ParseFilename(row.PDFFilename)
		}
		normalized := cases.NormalizeFileID(id)
		if normalized == "" {
			continue
		}
		// First row wins when the sheet repeats an id.
		if _, exists := s.index[normalized]; !exists {
			s.index[normalized] = i
		}
	}
	return s
}

// Lookup returns the row whose normalized case-file id matches.
func (s *Sheet) Lookup(normalizedID string) (cases.Metadata, bool) {
	i, ok := s.index[normalizedID]
	if !ok {
		return cases.Metadata{}, false
	}
	return s.Rows[i], true
}

// Row returns the 1-based nth data row.
func (s *Sheet) Row(n int) (cases.Metadata, bool) {
	if n < 1 || n > len(s.Rows) {
		return cases.Metadata{}, false
	}
	return s.Rows[n-1], true
}

// rowsFromRecords maps header-named columns onto Metadata. The first record
// is the header; column order in the sheet does not matter.
func rowsFromRecords(records [][]string) []cases.Metadata {
	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]cases.Metadata, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		year, _ := strconv.Atoi(field(record, "year"))
		rows = append(rows, cases.Metadata{
			OpinionType:       field(record, "opinion_type"),
			PublicationStatus: field(record, "publication_status"),
			Year:              year,
			Month:             field(record, "month"),
			CaseNumber:        field(record, "case_number"),
			Division:          field(record, "division"),
			CaseTitle:         field(record, "case_title"),
			FileDate:          field(record, "file_date"),
			FileContains:      field(record, "file_contains"),
			CaseInfoURL:       field(record, "case_info_url"),
			PDFURL:            field(record, "pdf_url"),
			PDFFilename:       field(record, "pdf_filename"),
		})
	}
	return rows
}
