// internal/infrastructure/reports/json.go
package reports

import (
	"encoding/json"
	"io"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"
	domain "github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/reports"
)

// JSONWriter renders summaries and component lists as indented JSON
// documents, one per write.
type JSONWriter struct {
	encoder *json.Encoder
	closer  io.Closer
}

var _ domain.Writer = (*JSONWriter)(nil)

func NewJSONWriter(out io.WriteCloser) *JSONWriter {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return &JSONWriter{encoder: encoder, closer: out}
}

func (w *JSONWriter) WriteRepositorySummary(summary *domain.RepositorySummary, _ domain.SortBy) error {
	return w.encoder.Encode(summary)
}

func (w *JSONWriter) WriteGroupsSummary(summary *domain.GroupsSummary, _ domain.SortBy, _ int) error {
	return w.encoder.Encode(summary)
}

func (w *JSONWriter) WriteComponent(component models.Component) error {
	return w.encoder.Encode(component)
}

func (w *JSONWriter) Close() error {
	return w.closer.Close()
}
