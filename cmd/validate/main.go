// Command validate checks the integrity of a translated archive tree: for
// every CSV under the root it verifies the sibling JSON document exists,
// its provenance and row count match the CSV, every input column survives
// in each record, and the missing/trace encoding rules hold.
//
// Usage:
//
//	go run ./cmd/validate -root data/asos
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/metar-translator/internal/adapter/csvdir"
	"github.com/couchcryptid/metar-translator/internal/adapter/jsonfile"
	"github.com/couchcryptid/metar-translator/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	root := flag.String("root", "", "root directory containing translated CSV/JSON pairs")
	pattern := flag.String("pattern", "*.csv", "input file glob")
	flag.Parse()

	if *root == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*root, *pattern); code != 0 {
		os.Exit(code)
	}
}

func run(root, pattern string) int {
	fmt.Println("=== METAR Translation Integrity Validation ===")
	fmt.Println()

	paths, err := csvdir.Discover(root, pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: discover CSVs: %v\n", err)
		return 1
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "FATAL: no files matching %q under %s\n", pattern, root)
		return 1
	}

	var phases []*phase
	for _, csvPath := range paths {
		phases = append(phases, validateFile(csvPath))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Printf("\nall %d files validated\n", len(paths))
	return 0
}

func validateFile(csvPath string) *phase {
	p := &phase{name: csvPath}

	table, err := csvdir.ReadTable(csvPath)
	if err != nil {
		p.errorf("read CSV: %v", err)
		return p
	}

	jsonPath := jsonfile.OutputPath(csvPath)
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		p.errorf("read JSON: %v", err)
		return p
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		p.errorf("parse JSON: %v", err)
		return p
	}

	if doc.SourceCSV == "" {
		p.errorf("source_csv is empty")
	}
	if doc.GeneratedAt == "" {
		p.errorf("generated_at is empty")
	}
	if doc.NRows != len(doc.Records) {
		p.errorf("n_rows %d != len(records) %d", doc.NRows, len(doc.Records))
	}
	if len(doc.Records) != len(table.Rows) {
		p.errorf("records %d != CSV rows %d", len(doc.Records), len(table.Rows))
		return p
	}

	for i, rec := range doc.Records {
		validateRecord(p, i, table, rec)
	}
	return p
}

func validateRecord(p *phase, i int, table domain.Table, rec domain.Record) {
	// Column preservation: every input column surfaces under some key.
	for _, col := range table.Columns {
		_, direct := rec[col]
		_, raw := rec[col+"_raw"]
		if !direct && !raw {
			p.errorf("record %d: column %q dropped", i, col)
		}
	}

	// Missing/trace invariants per schema column present in the row.
	for _, spec := range domain.NumericSchema {
		rawAny, ok := rec[spec.Name+"_raw"]
		if !ok {
			continue
		}
		raw, _ := rawAny.(string)
		value := rec[spec.Name+"_v"]
		isTrace, _ := rec[spec.Name+"_is_trace"].(bool)

		if isTrace {
			if v, ok := value.(float64); !ok || v != 0 {
				p.errorf("record %d: %s trace with non-zero value %v", i, spec.Name, value)
			}
			continue
		}
		if domain.IsMissing(raw) && value != nil {
			p.errorf("record %d: %s missing but value %v", i, spec.Name, value)
		}
	}

	if _, ok := rec["metar_parsed"]; !ok {
		p.errorf("record %d: metar_parsed absent", i)
	}
}
