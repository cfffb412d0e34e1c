// internal/infrastructure/reports/console.go
package reports

import (
	"fmt"
	"io"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"
	domain "github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/reports"
	"github.com/skarzhevskyy/nexus-repository-cleanup/pkg/helper"
)

const consoleRuleLine = "===================================================================================================================="

// ConsoleWriter renders summary tables for terminal output.
type ConsoleWriter struct {
	out    io.Writer
	dryRun bool
}

var _ domain.Writer = (*ConsoleWriter)(nil)

func NewConsoleWriter(out io.Writer, dryRun bool) *ConsoleWriter {
	return &ConsoleWriter{out: out, dryRun: dryRun}
}

func (w *ConsoleWriter) mode() string {
	if w.dryRun {
		return "Dry Run"
	}
	return "Removal"
}

func (w *ConsoleWriter) WriteRepositorySummary(summary *domain.RepositorySummary, by domain.SortBy) error {
	fmt.Fprintf(w.out, "\nRepository Report Summary (%s):\n", w.mode())
	fmt.Fprintln(w.out, consoleRuleLine)

	nameWidth := columnWidth(30, repositoryNames(summary))
	headerFormat := fmt.Sprintf("%%-%ds %%-10s %%-12s %%-15s %%-15s %%-15s\n", nameWidth)
	dataFormat := fmt.Sprintf("%%-%ds %%-10s %%12d %%15s %%15d %%15s\n", nameWidth)

	fmt.Fprintf(w.out, headerFormat, "Repository", "Format", "Removed #", "Removed Size", "Remaining #", "Remaining Size")
	fmt.Fprintf(w.out, headerFormat, repeat(nameWidth), repeat(10), repeat(12), repeat(15), repeat(15), repeat(15))

	for _, entry := range summary.Sorted(by) {
		fmt.Fprintf(w.out, dataFormat,
			entry.Name,
			entry.Stats.Format,
			entry.Stats.RemovedComponents,
			helper.FormatSize(entry.Stats.RemovedBytes),
			entry.Stats.RemainingComponents,
			helper.FormatSize(entry.Stats.RemainingBytes))
	}

	fmt.Fprintf(w.out, "\n"+dataFormat,
		"TOTAL", "-",
		summary.Totals.RemovedComponents,
		helper.FormatSize(summary.Totals.RemovedBytes),
		summary.Totals.RemainingComponents,
		helper.FormatSize(summary.Totals.RemainingBytes))
	return nil
}

func (w *ConsoleWriter) WriteGroupsSummary(summary *domain.GroupsSummary, by domain.SortBy, topGroups int) error {
	sortLabel := "Components"
	if by == domain.SortBySize {
		sortLabel = "Size"
	}
	fmt.Fprintf(w.out, "\nTop Consuming Groups (by %s, %s):\n", sortLabel, w.mode())
	fmt.Fprintln(w.out, consoleRuleLine)

	nameWidth := columnWidth(30, groupNames(summary))
	headerFormat := fmt.Sprintf("%%-%ds %%-12s %%-15s %%-15s %%-15s\n", nameWidth)
	dataFormat := fmt.Sprintf("%%-%ds %%12d %%15s %%15d %%15s\n", nameWidth)

	fmt.Fprintf(w.out, headerFormat, "Group", "Removed #", "Removed Size", "Remaining #", "Remaining Size")
	fmt.Fprintf(w.out, headerFormat, repeat(nameWidth), repeat(12), repeat(15), repeat(15), repeat(15))

	for i, entry := range summary.Sorted(by) {
		if i >= topGroups {
			break
		}
		fmt.Fprintf(w.out, dataFormat,
			entry.Name,
			entry.Stats.RemovedComponents,
			helper.FormatSize(entry.Stats.RemovedBytes),
			entry.Stats.RemainingComponents,
			helper.FormatSize(entry.Stats.RemainingBytes))
	}
	return nil
}

// WriteComponent prints one selected component as a single line.
func (w *ConsoleWriter) WriteComponent(component models.Component) error {
	group := component.Group
	if group == "" {
		group = "-"
	}
	fmt.Fprintf(w.out, "%s %s %s %s %s\n",
		component.Repository, group, component.Name, component.Version,
		helper.FormatSize(component.SizeBytes()))
	return nil
}

func (w *ConsoleWriter) Close() error { return nil }

func columnWidth(minimum int, names []string) int {
	width := minimum
	for _, name := range names {
		if len(name)+2 > width {
			width = len(name) + 2
		}
	}
	return width
}

func repeat(n int) string {
	dashes := make([]byte, n)
	for i := range dashes {
		dashes[i] = '-'
	}
	return string(dashes)
}

func repositoryNames(summary *domain.RepositorySummary) []string {
	names := make([]string, 0, len(summary.Repositories))
	for name := range summary.Repositories {
		names = append(names, name)
	}
	return names
}

func groupNames(summary *domain.GroupsSummary) []string {
	names := make([]string, 0, len(summary.Groups))
	for name := range summary.Groups {
		names = append(names, name)
	}
	return names
}
