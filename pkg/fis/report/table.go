package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = 2

// WriteTable writes rows as left-aligned columns. Headers, when given, are
// bold on a color terminal and plain otherwise.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle()
	header := r.NewStyle().Bold(true)

	widths := make([]int, 0, len(headers))
	measure := func(row []string) {
		for i, c := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if cw := lipgloss.Width(c); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	var sb strings.Builder
	line := func(style lipgloss.Style, row []string) {
		var l strings.Builder
		for i, c := range row {
			if i == len(row)-1 {
				l.WriteString(style.Render(c))
				break
			}
			l.WriteString(style.Width(widths[i] + columnGap).Render(c))
		}
		sb.WriteString(strings.TrimRight(l.String(), " "))
		sb.WriteString("\n")
	}

	if len(headers) > 0 {
		line(header, headers)
	}
	for _, row := range rows {
		line(cell, row)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
