package charts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8E8E93")).Italic(true)
)

const noData = "no data"

// RenderBars draws the bar chart horizontally, one category per line,
// with the longest bar filling width cells.
func RenderBars(b BarChart, width int) string {
	if len(b.Categories) == 0 {
		return mutedStyle.Render(noData)
	}
	if width < 1 {
		width = 1
	}

	labelWidth := 0
	for _, c := range b.Categories {
		labelWidth = max(labelWidth, lipgloss.Width(c))
	}

	highest := b.Max()
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(BarGradient.To))

	lines := make([]string, 0, len(b.Categories))
	for i, category := range b.Categories {
		cells := 0
		if highest > 0 {
			cells = b.Values[i] * width / highest
		}
		if b.Values[i] > 0 && cells == 0 {
			cells = 1
		}

		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(category))
		lines = append(lines, fmt.Sprintf("%s%s %s %s",
			labelStyle.Render(category), pad,
			bar.Render(strings.Repeat("█", cells)),
			valueStyle.Render(fmt.Sprintf("%d", b.Values[i])),
		))
	}
	return strings.Join(lines, "\n")
}

// RenderPieLegend lists each slice with its colour swatch, count and
// share of the total.
func RenderPieLegend(p PieChart) string {
	if len(p.Slices) == 0 {
		return mutedStyle.Render(noData)
	}

	total := p.Total()
	nameWidth := 0
	for _, s := range p.Slices {
		nameWidth = max(nameWidth, lipgloss.Width(s.Name))
	}

	lines := make([]string, 0, len(p.Slices))
	for _, s := range p.Slices {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Fill.From)).Render("●")
		pad := strings.Repeat(" ", nameWidth-lipgloss.Width(s.Name))
		lines = append(lines, fmt.Sprintf("%s %s%s %s %s",
			swatch,
			labelStyle.Render(s.Name), pad,
			valueStyle.Render(fmt.Sprintf("%3d", s.Value)),
			labelStyle.Render(fmt.Sprintf("(%.1f%%)", share(s.Value, total))),
		))
	}
	return strings.Join(lines, "\n")
}

// RenderOverview draws the four counters on one line.
func RenderOverview(o OverviewCounters) string {
	item := func(label string, value int, color string, suffix string) string {
		v := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(fmt.Sprintf("%d", value))
		out := labelStyle.Render(label+" ") + v
		if suffix != "" {
			out += labelStyle.Render(" " + suffix)
		}
		return out
	}

	return strings.Join([]string{
		item("Total", o.Total, "#1890FF", ""),
		item("Online", o.Online, "#52C41A", fmt.Sprintf("(%s%%)", FormatShare(o.OnlineShare))),
		item("Under repair", o.Maintenance, "#FAAD14", ""),
		item("Pending purchase", o.Purchasing, "#722ED1", ""),
	}, "   ")
}

// FormatShare prints a share with one decimal, or "0" when it is zero.
func FormatShare(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", v)
}
