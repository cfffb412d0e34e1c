// internal/infrastructure/reports/csv.go
package reports

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"
	domain "github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/reports"
)

// CSVWriter renders summaries and component lists as CSV records.
type CSVWriter struct {
	csv           *csv.Writer
	closer        io.Closer
	headerWritten bool
}

var _ domain.Writer = (*CSVWriter)(nil)

func NewCSVWriter(out io.WriteCloser) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(out), closer: out}
}

func (w *CSVWriter) WriteRepositorySummary(summary *domain.RepositorySummary, by domain.SortBy) error {
	if !w.headerWritten {
		if err := w.csv.Write([]string{"Repository", "Format", "Removed Components", "Removed Bytes", "Remaining Components", "Remaining Bytes"}); err != nil {
			return err
		}
		w.headerWritten = true
	}

	for _, entry := range summary.Sorted(by) {
		record := []string{
			entry.Name,
			entry.Stats.Format,
			strconv.FormatInt(entry.Stats.RemovedComponents, 10),
			strconv.FormatInt(entry.Stats.RemovedBytes, 10),
			strconv.FormatInt(entry.Stats.RemainingComponents, 10),
			strconv.FormatInt(entry.Stats.RemainingBytes, 10),
		}
		if err := w.csv.Write(record); err != nil {
			return err
		}
	}

	return w.csv.Write([]string{
		"TOTAL", "-",
		strconv.FormatInt(summary.Totals.RemovedComponents, 10),
		strconv.FormatInt(summary.Totals.RemovedBytes, 10),
		strconv.FormatInt(summary.Totals.RemainingComponents, 10),
		strconv.FormatInt(summary.Totals.RemainingBytes, 10),
	})
}

func (w *CSVWriter) WriteGroupsSummary(summary *domain.GroupsSummary, by domain.SortBy, topGroups int) error {
	if !w.headerWritten {
		if err := w.csv.Write([]string{"Group", "Removed Components", "Removed Bytes", "Remaining Components", "Remaining Bytes"}); err != nil {
			return err
		}
		w.headerWritten = true
	}

	for i, entry := range summary.Sorted(by) {
		if i >= topGroups {
			break
		}
		record := []string{
			entry.Name,
			strconv.FormatInt(entry.Stats.RemovedComponents, 10),
			strconv.FormatInt(entry.Stats.RemovedBytes, 10),
			strconv.FormatInt(entry.Stats.RemainingComponents, 10),
			strconv.FormatInt(entry.Stats.RemainingBytes, 10),
		}
		if err := w.csv.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) WriteComponent(component models.Component) error {
	if !w.headerWritten {
		if err := w.csv.Write([]string{"Repository", "Group", "Name", "Version", "Size Bytes"}); err != nil {
			return err
		}
		w.headerWritten = true
	}
	return w.csv.Write([]string{
		component.Repository,
		component.Group,
		component.Name,
		component.Version,
		strconv.FormatInt(component.SizeBytes(), 10),
	})
}

func (w *CSVWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.closer.Close()
		return err
	}
	return w.closer.Close()
}
