// Package table renders plain-text tables for the command line.
package table

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Writer formats rows into a bordered table. Column widths are measured in
// terminal cells, ignoring ANSI colour codes.
type Writer struct {
	out       io.Writer
	headers   []string
	rows      [][]string
	widths    []int
	columns   int
	cellLimit int
}

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func displayWidth(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// SetCellLimit truncates cells wider than limit cells with an ellipsis.
// Zero disables truncation. It applies to rows added afterwards.
func (t *Writer) SetCellLimit(limit int) {
	t.cellLimit = limit
}

// SetHeader sets the table headers and fixes the column count.
func (t *Writer) SetHeader(headers ...string) {
	t.headers = headers
	t.columns = len(headers)
	t.updateWidths(headers)
}

// Append adds a row. Cells beyond the header count are dropped.
func (t *Writer) Append(row ...string) {
	if t.cellLimit > 0 {
		truncated := make([]string, len(row))
		for i, cell := range row {
			if displayWidth(cell) > t.cellLimit {
				cell = runewidth.Truncate(stripANSI(cell), t.cellLimit, "...")
			}
			truncated[i] = cell
		}
		row = truncated
	}
	t.rows = append(t.rows, row)
	t.updateWidths(row)
}

func (t *Writer) updateWidths(row []string) {
	limit := len(row)
	if t.columns > 0 && limit > t.columns {
		limit = t.columns
	}
	for i := 0; i < limit; i++ {
		if i >= len(t.widths) {
			t.widths = append(t.widths, 0)
		}
		if width := displayWidth(row[i]); width > t.widths[i] {
			t.widths[i] = width
		}
	}
}

// Render writes the table. An empty table writes nothing.
func (t *Writer) Render() error {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return nil
	}
	var sb strings.Builder
	t.writeBorder(&sb)
	if len(t.headers) > 0 {
		t.writeRow(&sb, t.headers)
		t.writeBorder(&sb)
	}
	for _, row := range t.rows {
		t.writeRow(&sb, row)
	}
	t.writeBorder(&sb)
	_, err := io.WriteString(t.out, sb.String())
	return err
}

func (t *Writer) writeBorder(sb *strings.Builder) {
	sb.WriteString("+")
	for _, width := range t.widths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
}

func (t *Writer) writeRow(sb *strings.Builder, row []string) {
	sb.WriteString("|")
	for i, width := range t.widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		fmt.Fprintf(sb, " %s%s |", cell, strings.Repeat(" ", width-displayWidth(cell)))
	}
	sb.WriteString("\n")
}
