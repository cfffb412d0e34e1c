package reports

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"
	domain "github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/reports"
)

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func sampleSummary() *domain.RepositorySummary {
	s := domain.NewRepositorySummary()
	s.Add("maven-releases", "maven2", 3, 3000, 7, 7000)
	s.Add("npm-internal", "npm", 10, 500, 2, 100)
	return s
}

func sampleComponent() models.Component {
	return models.Component{
		Repository: "maven-releases",
		Format:     "maven2",
		Group:      "com.example",
		Name:       "lib",
		Version:    "1.0.0",
		Assets: []models.Asset{
			{CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), SizeBytes: 4096},
		},
	}
}

func TestConsoleWriter_RepositorySummary(t *testing.T) {
	var buf bytes.Buffer
	w := NewConsoleWriter(&buf, false)

	require.NoError(t, w.WriteRepositorySummary(sampleSummary(), domain.SortByComponents))

	out := buf.String()
	assert.Contains(t, out, "Repository Report Summary (Removal):")
	assert.Contains(t, out, "maven-releases")
	assert.Contains(t, out, "2.93 KB") // 3000 bytes removed
	assert.Contains(t, out, "TOTAL")

	// npm-internal removed more components, so it sorts first.
	assert.Less(t, strings.Index(out, "npm-internal"), strings.Index(out, "maven-releases"))
}

func TestConsoleWriter_DryRunLabel(t *testing.T) {
	var buf bytes.Buffer
	w := NewConsoleWriter(&buf, true)

	require.NoError(t, w.WriteRepositorySummary(sampleSummary(), domain.SortByName))
	assert.Contains(t, buf.String(), "(Dry Run)")
}

func TestConsoleWriter_GroupsSummaryHonorsTopGroups(t *testing.T) {
	s := domain.NewGroupsSummary()
	s.Add("com.a", 5, 500, 0, 0)
	s.Add("com.b", 4, 400, 0, 0)
	s.Add("com.c", 3, 300, 0, 0)

	var buf bytes.Buffer
	w := NewConsoleWriter(&buf, false)
	require.NoError(t, w.WriteGroupsSummary(s, domain.SortByComponents, 2))

	out := buf.String()
	assert.Contains(t, out, "com.a")
	assert.Contains(t, out, "com.b")
	assert.NotContains(t, out, "com.c")
}

func TestCSVWriter(t *testing.T) {
	buf := nopWriteCloser{&bytes.Buffer{}}
	w := NewCSVWriter(buf)

	require.NoError(t, w.WriteRepositorySummary(sampleSummary(), domain.SortByName))
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // header + 2 repositories + total
	assert.Equal(t, "Repository,Format,Removed Components,Removed Bytes,Remaining Components,Remaining Bytes", lines[0])
	assert.Equal(t, "maven-releases,maven2,3,3000,7,7000", lines[1])
	assert.Equal(t, "TOTAL,-,13,3500,9,7100", lines[3])
}

func TestCSVWriter_Components(t *testing.T) {
	buf := nopWriteCloser{&bytes.Buffer{}}
	w := NewCSVWriter(buf)

	require.NoError(t, w.WriteComponent(sampleComponent()))
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "maven-releases,com.example,lib,1.0.0,4096", lines[1])
}

func TestJSONWriter(t *testing.T) {
	buf := nopWriteCloser{&bytes.Buffer{}}
	w := NewJSONWriter(buf)

	require.NoError(t, w.WriteRepositorySummary(sampleSummary(), domain.SortByName))
	require.NoError(t, w.Close())

	var decoded struct {
		Repositories map[string]struct {
			Format            string `json:"format"`
			RemovedComponents int64  `json:"removedComponents"`
		} `json:"repositories"`
		Totals struct {
			RemovedBytes int64 `json:"removedBytes"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, int64(3), decoded.Repositories["maven-releases"].RemovedComponents)
	assert.Equal(t, int64(3500), decoded.Totals.RemovedBytes)
}

func TestNewFileWriter(t *testing.T) {
	dir := t.TempDir()

	csvWriter, err := NewFileWriter(filepath.Join(dir, "report.csv"))
	require.NoError(t, err)
	require.IsType(t, &CSVWriter{}, csvWriter)
	require.NoError(t, csvWriter.Close())

	jsonWriter, err := NewFileWriter(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	require.IsType(t, &JSONWriter{}, jsonWriter)
	require.NoError(t, jsonWriter.Close())

	_, err = NewFileWriter(filepath.Join(dir, "report.txt"))
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "report.txt"))
	assert.NoError(t, statErr, "file is created before the extension check")
}

func TestMultiWriter(t *testing.T) {
	var first, second bytes.Buffer
	multi := NewMultiWriter(NewConsoleWriter(&first, false), NewConsoleWriter(&second, false))

	require.NoError(t, multi.WriteComponent(sampleComponent()))
	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), "lib")
	require.NoError(t, multi.Close())
}
