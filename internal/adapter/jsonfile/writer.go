// Package jsonfile writes assembled documents as JSON files beside their
// source CSVs.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/metar-translator/internal/domain"
)

// Writer serializes documents to disk.
type Writer struct {
	indent string
}

// NewWriter creates a Writer indenting with the given number of spaces.
// Zero or negative means compact output.
func NewWriter(indentSpaces int) *Writer {
	indent := ""
	if indentSpaces > 0 {
		indent = strings.Repeat(" ", indentSpaces)
	}
	return &Writer{indent: indent}
}

// OutputPath returns the JSON path for a CSV path: same directory, same
// base name, .json extension.
func OutputPath(csvPath string) string {
	ext := filepath.Ext(csvPath)
	return strings.TrimSuffix(csvPath, ext) + ".json"
}

// WriteFor writes the document beside its source CSV and returns the
// output path. It implements pipeline.DocumentWriter.
func (w *Writer) WriteFor(csvPath string, doc domain.Document) (string, error) {
	path := OutputPath(csvPath)
	if err := w.Write(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// Write serializes the document to path. The file is written to a temp
// sibling and renamed into place so a concurrent reader never observes a
// partial document.
func (w *Writer) Write(path string, doc domain.Document) error {
	var data []byte
	var err error
	if w.indent == "" {
		data, err = json.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", w.indent)
	}
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", path, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
