package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vitrify/igucycle/internal/scenario"
)

// Rendering layout constants.
const (
	summaryBoxWidth = 64
	barWidth        = 30
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(summaryBoxWidth)

	bestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	worstStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

// printer formats numbers with thousands separators.
var printer = message.NewPrinter(language.English)

// fnum renders a float with grouping and three decimals.
func fnum(f float64) string {
	return printer.Sprintf("%.3f", f)
}

// renderResult writes the single-run summary box and stage table.
func renderResult(w io.Writer, res *scenario.Result) {
	var b strings.Builder

	b.WriteString(titleStyle.Render(res.Pathway.Title()) + "\n")
	if res.Group != "" {
		b.WriteString(labelStyle.Render("Product: ") + res.Group + "\n")
	}
	b.WriteString(labelStyle.Render("Run:     ") + res.RunID + "\n\n")

	b.WriteString(fmt.Sprintf("%-24s %s kgCO2e\n", "Total", fnum(res.TotalKgCO2e())))
	b.WriteString(fmt.Sprintf("%-24s %s kgCO2e\n", "  process", fnum(res.Totals.Process)))
	b.WriteString(fmt.Sprintf("%-24s %s kgCO2e\n", "  transport", fnum(res.Totals.Transport)))
	b.WriteString(fmt.Sprintf("%-24s %s kgCO2e\n", "  embodied (new)", fnum(res.Totals.EmbodiedNew)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%-24s %s kg -> %s kg (waste %s kg)\n", "Mass",
		fnum(res.InitialMassKg), fnum(res.FinalMassKg), fnum(res.WasteMassKg)))
	b.WriteString(fmt.Sprintf("%-24s %s m2 -> %s m2 (%.1f%% yield)\n", "Area",
		fnum(res.InitialAreaM2), fnum(res.FinalAreaM2), res.YieldPercent()))

	fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))

	fmt.Fprintln(w, titleStyle.Render("Stages"))
	for _, s := range res.Stages {
		line := fmt.Sprintf("  %-40s %12s kgCO2e  [%s]", s.Entry.Stage, fnum(s.Entry.EmissionKgCO2e), s.Entry.Category)
		fmt.Fprintln(w, line)
		if s.Entry.Note != "" {
			fmt.Fprintln(w, labelStyle.Render("      "+s.Entry.Note))
		}
	}
}

// renderComparison writes the pathway comparison table with proportional
// bars, best pathway first.
func renderComparison(w io.Writer, results []*scenario.Result) {
	sorted := make([]*scenario.Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalKgCO2e() < sorted[j].TotalKgCO2e()
	})

	maxTotal := 0.0
	for _, r := range sorted {
		if t := r.TotalKgCO2e(); t > maxTotal {
			maxTotal = t
		}
	}

	fmt.Fprintln(w, titleStyle.Render("Pathway comparison (kgCO2e, best first)"))
	for i, r := range sorted {
		bar := renderBar(r.TotalKgCO2e(), maxTotal)
		line := fmt.Sprintf("  %-34s %14s  %s", r.Pathway.Title(), fnum(r.TotalKgCO2e()), bar)
		switch i {
		case 0:
			line = bestStyle.Render(line)
		case len(sorted) - 1:
			line = worstStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

// renderBar draws a proportional bar for a value against the maximum.
func renderBar(value, maxValue float64) string {
	if maxValue <= 0 {
		return ""
	}
	n := int(value / maxValue * barWidth)
	if n < 1 && value > 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
