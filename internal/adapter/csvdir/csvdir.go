// Package csvdir discovers and reads METAR CSV exports from a directory
// tree. It is the input boundary: everything past ReadTable works on
// in-memory rows.
package csvdir

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/couchcryptid/metar-translator/internal/domain"
)

// Source adapts this package's functions to the pipeline's TableSource.
type Source struct{}

func (Source) Discover(root, pattern string) ([]string, error) {
	return Discover(root, pattern)
}

func (Source) ReadTable(path string) (domain.Table, error) {
	return ReadTable(path)
}

// Discover walks root recursively and returns the paths of regular files
// whose base name matches pattern (e.g. "*.csv"), in walk order.
func Discover(root, pattern string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		matched, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if matched {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	return paths, nil
}

// ReadTable reads one CSV file into memory. The first record is the header;
// each following record becomes a RawRow. Short rows simply leave trailing
// columns absent, and extra cells are dropped, so ragged exports still load.
// Only a structurally unreadable file is an error.
func ReadTable(path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are handled here, not rejected

	header, err := r.Read()
	if err == io.EOF {
		return domain.Table{Path: path}, nil
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("read header %s: %w", path, err)
	}

	t := domain.Table{Path: path, Columns: header}
	for {
		cells, err := r.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("read %s: %w", path, err)
		}
		row := make(domain.RawRow, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
}
