// Command genmock writes a deterministic mock ASOS CSV export and the JSON
// document the translator produces for it, for use as test fixtures. It
// uses the actual domain package under a frozen clock so the fixture
// matches real translator behavior.
//
// Usage:
//
//	go run ./cmd/genmock -csv-out data/mock/AMW_240426.csv -json-out data/mock/AMW_240426.json
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/metar-translator/internal/adapter/jsonfile"
	"github.com/couchcryptid/metar-translator/internal/domain"
)

var mockColumns = []string{
	"station", "valid", "tmpf", "dwpf", "relh", "drct", "sknt", "p01i",
	"alti", "mslp", "vsby", "gust", "skyc1", "skyc2", "skyc3", "skyc4",
	"skyl1", "skyl2", "skyl3", "skyl4", "wxcodes", "snowdepth", "metar",
}

// mockRows covers the encodings the translator has to handle: plain values,
// missing sentinels, trace precipitation, malformed numerics, and reports
// with and without parseable METAR groups.
var mockRows = [][]string{
	{"AMW", "2024-04-26 17:53", "66.2", "62.6", "88.18", "210.0", "15.0", "0.00", "29.92", "M", "10.00", "25.0", "OVC", "M", "M", "M", "1000.0", "M", "M", "M", "M", "M",
		"KAMW 261753Z 21015G25KT 10SM OVC010 19/17 A2992 RMK AO2"},
	{"AMW", "2024-04-26 18:53", "64.4", "62.6", "93.86", "200.0", "12.0", "T", "29.90", "1012.6", "5.00", "M", "OVC", "M", "M", "M", "700.0", "M", "M", "M", "-RA BR", "M",
		"KAMW 261853Z 20012KT 5SM -RA BR OVC007 18/17 A2990 RMK AO2"},
	{"AMW", "2024-04-26 19:53", "M", "M", "M", "VRB", "3.0", "M", "29.91", "M", "M1/4", "M", "VV", "M", "M", "M", "200.0", "M", "M", "M", "FG", "M",
		"KAMW 261953Z VRB03KT M1/4SM FG VV002 A2991"},
	{"AMW", "2024-04-26 20:53", "bad", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M", "M"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvOut := flag.String("csv-out", "", "output path for the mock CSV")
	jsonOut := flag.String("json-out", "", "output path for the expected JSON document")
	flag.Parse()

	if *csvOut == "" || *jsonOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -json-out")
	}

	// Freeze the clock for a reproducible generated_at.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	if err := writeCSV(*csvOut); err != nil {
		return fmt.Errorf("writing mock CSV: %w", err)
	}
	log.Printf("wrote mock CSV: %s (%d rows)", *csvOut, len(mockRows))

	rows := make([]domain.RawRow, 0, len(mockRows))
	for _, cells := range mockRows {
		row := make(domain.RawRow, len(mockColumns))
		for i, col := range mockColumns {
			row[col] = cells[i]
		}
		rows = append(rows, row)
	}
	doc := domain.AssembleDocument(*csvOut, mockColumns, rows)

	if err := os.MkdirAll(filepath.Dir(*jsonOut), 0o755); err != nil {
		return fmt.Errorf("writing JSON fixture: %w", err)
	}
	if err := jsonfile.NewWriter(2).Write(*jsonOut, doc); err != nil {
		return fmt.Errorf("writing JSON fixture: %w", err)
	}
	log.Printf("wrote JSON fixture: %s (%d records)", *jsonOut, doc.NRows)
	return nil
}

func writeCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(mockColumns); err != nil {
		return err
	}
	for _, row := range mockRows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
