package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{999.999, "$1,000.00"},
		{1234.5, "$1,234.50"},
		{100000, "$100,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-1700, "-$1,700.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.in), "Money(%v)", tt.in)
	}
}

func TestHoursAndPct(t *testing.T) {
	assert.Equal(t, "42.5h", Hours(42.5))
	assert.Equal(t, "+5.0h", SignedHours(5))
	assert.Equal(t, "-2.0h", SignedHours(-2))
	assert.Equal(t, "0.0h", SignedHours(0))
	assert.Equal(t, "65.8%", Pct(65.75))
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestSlipBadge(t *testing.T) {
	assert.Contains(t, SlipBadge(12), "12d late")
	assert.Contains(t, SlipBadge(-3), "3d early")
	assert.Contains(t, SlipBadge(0), "on schedule")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Riverside", Truncate("Riverside", 9))
	assert.Equal(t, "River…", Truncate("Riverside", 6))
	assert.Equal(t, "Überbau…", Truncate("Überbauung Nord", 8))
}

func TestRenderBox_WithTitle(t *testing.T) {
	out := RenderBox("payroll estimate", "body text")
	assert.Contains(t, out, "PAYROLL ESTIMATE")
	assert.Contains(t, out, "body text")
	assert.Contains(t, out, "╭")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(
		[]string{"PROJECT", "HOURS"},
		[][]string{{"Riverside Plaza", "40.0h"}, {"Harbor", "120.5h"}},
		AlignRight(1),
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "Riverside Plaza   40.0h", lines[2])
	assert.Equal(t, "Harbor           120.5h", lines[3])
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderBudgetUsage(t *testing.T) {
	assert.Contains(t, RenderBudgetUsage(50, 45, 10), "111%")
	assert.Contains(t, RenderBudgetUsage(0, 10, 10), "0%")
	assert.Contains(t, RenderBudgetUsage(5, 0, 10), "n/a")
	assert.Contains(t, RenderBudgetUsage(50, 45, 10), strings.Repeat("█", 10))
}

func TestRenderEfficiency(t *testing.T) {
	out := RenderEfficiency(80, 10)
	assert.Contains(t, out, strings.Repeat("█", 8)+strings.Repeat("░", 2))
	assert.Contains(t, out, " 80%")
	assert.Contains(t, RenderEfficiency(150, 4), "100%")
}

func TestRenderEmphasis(t *testing.T) {
	assert.Equal(t, "plain", renderEmphasis("plain"))
	assert.Equal(t, "a b c", renderEmphasis("a **b** c"))
	assert.Equal(t, "a b c **d", renderEmphasis("a **b** c **d"))
}
