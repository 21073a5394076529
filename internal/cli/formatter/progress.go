package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func bar(frac float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int(min(max(frac, 0), 1) * float64(width))
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

// RenderEfficiency renders a billable share like [████░░░░]  45%.
// Higher is better: green from 66%, yellow from 33%, red below.
func RenderEfficiency(pct float64, width int) string {
	frac := pct / 100
	style := StyleGreen
	if frac < 0.33 {
		style = StyleRed
	} else if frac < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar(frac, width)), min(max(pct, 0), 100))
}

// RenderBudgetUsage renders actual against budgeted hours. The bar caps at
// full while the percentage keeps counting past 100%. Without a budget the
// usage is shown as n/a.
func RenderBudgetUsage(actual, budget float64, width int) string {
	if budget <= 0 {
		return fmt.Sprintf("[%s]  n/a", StyleDim.Render(bar(0, width)))
	}
	frac := actual / budget
	style := StyleGreen
	if frac > 1 {
		style = StyleRed
	} else if frac >= 0.8 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar(frac, width)), frac*100)
}
