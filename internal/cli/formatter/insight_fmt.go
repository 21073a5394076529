package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitewise/internal/narration"
	"github.com/alexanderramin/sitewise/internal/service"
)

// FormatInsight renders narrated text in a box titled by its view.
// Markdown bold markers are rendered as bold text.
func FormatInsight(in *narration.Insight) string {
	body := renderEmphasis(in.Text) + "\n\n" + SourceBadge(string(in.Source))
	return RenderBox(string(in.View)+" insight", body) + "\n"
}

// renderEmphasis replaces **bold** spans with the bold style.
func renderEmphasis(text string) string {
	parts := strings.Split(text, "**")
	if len(parts) < 3 {
		return text
	}
	var b strings.Builder
	for i, p := range parts {
		// An unmatched trailing marker leaves the last part plain.
		if i%2 == 1 && i < len(parts)-1 {
			b.WriteString(Bold(p))
			continue
		}
		if i%2 == 1 {
			b.WriteString("**")
		}
		b.WriteString(p)
	}
	return b.String()
}

// FormatProviderInfo describes the configured narration model.
func FormatProviderInfo(info narration.ProviderInfo) string {
	state := StyleDim.Render("disabled")
	switch {
	case info.Configured:
		state = StyleGreen.Render("ready")
	case info.Enabled:
		state = StyleYellow.Render("enabled, not configured")
	}
	return fmt.Sprintf("%s %s %s  %s\n", Dim("LLM"), Bold(string(info.Provider)), info.Model, state)
}

// FormatImportResult summarizes an imported snapshot.
func FormatImportResult(r *service.ImportResult) string {
	c := r.Counts
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s Imported %s project(s)\n", StyleGreen.Render("✔"), Bold(fmt.Sprint(c.Projects))))
	b.WriteString(Dim(fmt.Sprintf("  %d labor record(s), %d event(s), %d invoice(s), %d union(s), %d rate(s)",
		c.Labor, c.Events, c.Invoices, c.Unions, c.Rates)) + "\n")
	for _, p := range r.Projects {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", Dim(fmt.Sprintf("#%d", p.ID)), p.Name, Dim(Hours(p.ActualHours))))
	}
	return b.String()
}
