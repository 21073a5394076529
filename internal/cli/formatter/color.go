package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// VarianceStyle colors an hour variance: red over budget, green under.
func VarianceStyle(variance float64) lipgloss.Style {
	switch {
	case variance > 0:
		return StyleRed
	case variance < 0:
		return StyleGreen
	default:
		return StyleDim
	}
}

// BudgetIndicator returns "● OVER" or "● UNDER" for an hour variance.
func BudgetIndicator(variance float64) string {
	switch {
	case variance > 0:
		return StyleRed.Render("● OVER")
	case variance < 0:
		return StyleGreen.Render("● UNDER")
	default:
		return StyleDim.Render("● ON BUDGET")
	}
}

// MarginStyle colors a profit margin percentage. A zero margin usually means
// the project has no revenue yet.
func MarginStyle(margin float64) lipgloss.Style {
	switch {
	case margin <= 0:
		return StyleRed
	case margin < 15:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// SourceBadge labels narrated text as model output or fallback text.
func SourceBadge(source string) string {
	if source == "llm" {
		return StylePurple.Render("◆ AI")
	}
	return StyleDim.Render("◇ rules")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
