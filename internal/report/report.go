// Package report renders the outcome of a profiling run for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/goprofile/internal/types"
)

// Renderer writes human-readable run summaries and profile tables.
type Renderer struct {
	out io.Writer
}

// New creates a renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Summary prints the run verdict: scanned counts, warnings and the
// failure table. Returns true when the run had no failures.
func (r *Renderer) Summary(status *types.ProcessorStatus) bool {
	scanned := status.ScannedEntities()
	warnings := status.Warnings()
	failures := status.Failures()

	fmt.Fprintln(r.out)
	if status.OK() {
		fmt.Fprintf(r.out, "%s  %d entities scanned, %d warnings\n",
			color.Green.Sprint("PASS"), len(scanned), len(warnings))
	} else {
		fmt.Fprintf(r.out, "%s  %d entities scanned, %d warnings, %d failures\n",
			color.Red.Sprint("FAIL"), len(scanned), len(warnings), len(failures))
	}

	for _, w := range warnings {
		fmt.Fprintf(r.out, "  %s %s\n", color.Yellow.Sprint("warn:"), w)
	}

	if len(failures) > 0 {
		fmt.Fprintln(r.out)
		r.failureTable(failures)
	}
	return status.OK()
}

// failureTable prints failures as an aligned two-column table.
func (r *Renderer) failureTable(failures []types.Failure) {
	entityWidth := runewidth.StringWidth("ENTITY")
	for _, f := range failures {
		if w := runewidth.StringWidth(f.Entity); w > entityWidth {
			entityWidth = w
		}
	}

	fmt.Fprintf(r.out, "  %s  %s\n", pad("ENTITY", entityWidth), "ERROR")
	for _, f := range failures {
		fmt.Fprintf(r.out, "  %s  %s\n", pad(f.Entity, entityWidth), f.Message)
	}
}

// Profile prints the assembled profile: the table aggregates followed by
// one block per column with its metrics in alphabetical order.
func (r *Renderer) Profile(result *types.ProfileResult) {
	fmt.Fprintf(r.out, "\n%s  run %s\n", color.Cyan.Sprint("profile"), result.RunID)

	if len(result.Table) > 0 {
		fmt.Fprintf(r.out, "\n%s\n", color.Bold.Sprint("table"))
		r.metricBlock(result.Table)
	}

	columns := make([]string, 0, len(result.Columns))
	for name := range result.Columns {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	for _, name := range columns {
		fmt.Fprintf(r.out, "\n%s\n", color.Bold.Sprint(name))
		r.metricBlock(result.Columns[name])
	}

	if len(result.System) > 0 {
		fmt.Fprintf(r.out, "\n%s\n", color.Bold.Sprint("system"))
		r.metricBlock(result.System)
	}
}

// metricBlock prints one metric map with padded metric names.
func (r *Renderer) metricBlock(row map[string]interface{}) {
	names := make([]string, 0, len(row))
	width := 0
	for name := range row {
		if name == "name" || name == "timestamp" {
			continue
		}
		names = append(names, name)
		if w := runewidth.StringWidth(name); w > width {
			width = w
		}
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(r.out, "  %s  %s\n", pad(name, width), formatValue(row[name]))
	}
}

// formatValue renders one metric value compactly.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return color.Gray.Sprint("null")
	case float64:
		return fmt.Sprintf("%g", val)
	case string:
		return val
	case []map[string]interface{}:
		return fmt.Sprintf("%d rows", len(val))
	case map[string]interface{}:
		if values, ok := val["values"].([]interface{}); ok {
			return fmt.Sprintf("%d values", len(values))
		}
		if freqs, ok := val["frequencies"].([]int64); ok {
			return fmt.Sprintf("%d bins", len(freqs))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// pad right-pads s to the given display width, wide runes included.
func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
