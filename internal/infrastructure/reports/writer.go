// internal/infrastructure/reports/writer.go
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"
	domain "github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/reports"
)

// NewFileWriter creates a report writer for the given path, choosing the
// format from the file extension (.csv or .json).
func NewFileWriter(path string) (domain.Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVWriter(file), nil
	case ".json":
		return NewJSONWriter(file), nil
	default:
		file.Close()
		return nil, fmt.Errorf("unsupported report file extension %q: use .csv or .json", filepath.Ext(path))
	}
}

// MultiWriter fans report output out to several writers, e.g. console plus
// a file. The first error stops the corresponding write.
type MultiWriter struct {
	writers []domain.Writer
}

var _ domain.Writer = (*MultiWriter)(nil)

func NewMultiWriter(writers ...domain.Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) WriteRepositorySummary(summary *domain.RepositorySummary, by domain.SortBy) error {
	for _, w := range m.writers {
		if err := w.WriteRepositorySummary(summary, by); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiWriter) WriteGroupsSummary(summary *domain.GroupsSummary, by domain.SortBy, topGroups int) error {
	for _, w := range m.writers {
		if err := w.WriteGroupsSummary(summary, by, topGroups); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiWriter) WriteComponent(component models.Component) error {
	for _, w := range m.writers {
		if err := w.WriteComponent(component); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiWriter) Close() error {
	var firstErr error
	for _, w := range m.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
