package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableOption adjusts how RenderTable lays out columns.
type TableOption func(*tableLayout)

type tableLayout struct {
	right map[int]bool
}

// AlignRight right-aligns the given zero-based columns, which suits
// numbers.
func AlignRight(cols ...int) TableOption {
	return func(l *tableLayout) {
		for _, c := range cols {
			l.right[c] = true
		}
	}
}

// RenderTable renders an aligned table with a header separator line.
// Column widths are measured on visible width, so styled cells line up.
func RenderTable(headers []string, rows [][]string, opts ...TableOption) string {
	if len(headers) == 0 {
		return ""
	}
	layout := tableLayout{right: make(map[int]bool)}
	for _, opt := range opts {
		opt(&layout)
	}

	cols := len(headers)
	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	const colGap = 2
	var b strings.Builder

	writeCell := func(i int, raw, styled string) {
		pad := max(widths[i]-lipgloss.Width(raw), 0)
		if layout.right[i] {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(styled)
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", colGap))
			}
			return
		}
		b.WriteString(styled)
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", pad+colGap))
		}
	}

	for i, h := range headers {
		writeCell(i, h, StyleHeader.Render(h))
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			writeCell(i, cell, cell)
		}
		b.WriteString("\n")
	}

	return b.String()
}
