package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// Money renders an amount as "$1,234.56", rounded half away from zero.
func Money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + "$" + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Hours renders an hour count with one decimal, e.g. "42.5h".
func Hours(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "h"
}

// SignedHours renders a variance with an explicit sign, e.g. "+5.0h".
func SignedHours(v float64) string {
	if v > 0 {
		return "+" + Hours(v)
	}
	return Hours(v)
}

// Pct renders a percentage with one decimal, e.g. "65.8%".
func Pct(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// ShortDate renders a date as "Mar 2, 2026".
func ShortDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// SlipBadge describes how far the estimated completion has moved from the
// original one.
func SlipBadge(days int) string {
	switch {
	case days > 0:
		return StyleRed.Render(fmt.Sprintf("▲ %dd late", days))
	case days < 0:
		return StyleGreen.Render(fmt.Sprintf("▼ %dd early", -days))
	default:
		return StyleGreen.Render("● on schedule")
	}
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}
