// ABOUTME: Source interface for loading the health table.
// ABOUTME: Implemented by the CSV loader, JSON backups, and the SQLite record store.
package storage

import (
	"fmt"
	"os"

	"github.com/harperreed/healthboard/internal/table"
)

// Source loads the health table from a backend.
// This interface allows swapping implementations (e.g., for testing).
type Source interface {
	Load() (*table.Table, error)
	Close() error
}

// CSVSource reads the table from a CSV file on every Load.
type CSVSource struct {
	Path string
}

// NewCSVSource returns a source reading the CSV file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Load reads and parses the CSV file.
func (s *CSVSource) Load() (*table.Table, error) {
	return table.Load(s.Path)
}

// Close is a no-op; the file is not held open between loads.
func (s *CSVSource) Close() error {
	return nil
}

// JSONSource reads the table from a JSON export written by ExportJSON.
type JSONSource struct {
	Path string
}

// NewJSONSource returns a source reading the JSON backup at path.
func NewJSONSource(path string) *JSONSource {
	return &JSONSource{Path: path}
}

// Load reads and decodes the backup.
func (s *JSONSource) Load() (*table.Table, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return ImportJSON(data)
}

// Close is a no-op.
func (s *JSONSource) Close() error {
	return nil
}

var (
	_ Source = (*CSVSource)(nil)
	_ Source = (*JSONSource)(nil)
	_ Source = (*DB)(nil)
)
