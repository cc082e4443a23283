// Package ui formats command line output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Colors
var (
	Brand  = color.New(color.FgHiMagenta, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Cell is a table cell with an optional color. Padding is computed on the
// plain text so escape codes never skew the columns.
type Cell struct {
	Text  string
	Color *color.Color
}

// Plain returns an uncolored cell
func Plain(text string) Cell {
	return Cell{Text: text}
}

// Banner prints the command banner
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s\n\n", Brand.Sprint("contractlens"), Subtle.Sprint(subtitle))
}

// Table prints an aligned table
func Table(w io.Writer, headers []string, rows [][]Cell) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell.Text) > widths[i] {
				widths[i] = len(cell.Text)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(w, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		var line strings.Builder
		line.WriteString("  ")
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			text := cell.Text
			if cell.Color != nil {
				text = cell.Color.Sprint(text)
			}
			line.WriteString(text)
			if i < len(row)-1 {
				line.WriteString(strings.Repeat(" ", widths[i]-len(cell.Text)+2))
			}
		}
		fmt.Fprintln(w, line.String())
	}
}

// KeyValue prints an aligned label and value
func KeyValue(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "  %s  %v\n", Info.Sprintf("%-22s", key), value)
}
