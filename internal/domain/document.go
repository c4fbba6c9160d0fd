package domain

import "time"

// Table is one materialized input: the ordered column names from the CSV
// header plus every data row, exactly as read.
type Table struct {
	Path    string
	Columns []string
	Rows    []RawRow
}

// Document is the per-input output: an ordered record sequence plus
// provenance. Built once per CSV, written once, never mutated.
type Document struct {
	SourceCSV   string   `json:"source_csv"`
	GeneratedAt string   `json:"generated_at"`
	NRows       int      `json:"n_rows"`
	Records     []Record `json:"records"`
}

// AssembleDocument assembles every row of one input table, in file order,
// into a Document. Rows are independent; a malformed row degrades field by
// field rather than failing the document.
func AssembleDocument(source string, columns []string, rows []RawRow) Document {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, AssembleRecord(row, columns))
	}
	return Document{
		SourceCSV:   source,
		GeneratedAt: clock.Now().UTC().Format(time.RFC3339Nano),
		NRows:       len(records),
		Records:     records,
	}
}
