package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/devinv/internal/gateway"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
	ResultInfo
)

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type            ResultType // Success, failure, or warning
	Title           string     // e.g., "Device added"
	Details         []Param    // Key-value details, in display order
	Message         string     // Error text (for failure results)
	Troubleshooting []string   // Troubleshooting tips (for failure results)
	Width           int        // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Param) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box. The message and tips come
// from the gateway's friendly error text when err is a gateway error.
func NewFailureResult(title string, err error) *Result {
	r := &Result{
		Type:  ResultFailure,
		Title: title,
		Width: GetTerminalWidth(),
	}
	if err != nil {
		r.Message = gateway.ShortMessage(err)
		r.Troubleshooting = HintItems(gateway.TroubleshootingHint(err))
	}
	return r
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Param) *Result {
	return &Result{
		Type:    ResultWarning,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewInfoResult creates a neutral box for displaying a record
func NewInfoResult(title string, details ...Param) *Result {
	return &Result{
		Type:    ResultInfo,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail key-value pair
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{Key: key, Value: value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	switch r.Type {
	case ResultFailure:
		return r.renderFailure()
	case ResultInfo:
		return r.box(PrimaryColor, r.titled(lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true), "●  INFO"))
	case ResultWarning:
		return r.box(WarningColor, r.titled(
			lipgloss.NewStyle().Foreground(WarningColor).Bold(true),
			"⚠  WARNING",
		))
	default:
		return r.box(SuccessColor, r.titled(SuccessTitleStyle, SuccessMarker+"  SUCCESS"))
	}
}

// titled renders the title line followed by the details.
func (r *Result) titled(style lipgloss.Style, label string) []string {
	lines := []string{"", style.Render(fmt.Sprintf("   %s  ─  %s", label, r.Title)), ""}
	for _, d := range r.Details {
		keyStyled := ResultKeyStyle.Render(fmt.Sprintf("   %s:", d.Key))
		lines = append(lines, keyStyled+" "+ResultValueStyle.Render(d.Value))
	}
	return append(lines, "")
}

func (r *Result) renderFailure() string {
	lines := r.titled(ErrorTitleStyle, FailureMarker+"  FAILED")

	if r.Message != "" {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Message), "")
	}

	if len(r.Troubleshooting) > 0 {
		lines = append(lines, r.renderTroubleshootingBox(max(r.Width, MinTerminalWidth)), "")
	}

	return r.box(ErrorColor, lines)
}

func (r *Result) box(color lipgloss.Color, lines []string) string {
	width := max(r.Width, MinTerminalWidth)
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// renderTroubleshootingBox renders the inner troubleshooting box
func (r *Result) renderTroubleshootingBox(width int) string {
	lines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
	for _, tip := range r.Troubleshooting {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(max(width-12, 40)).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

// HintItems splits a multi-line troubleshooting hint into its tips,
// dropping the "Troubleshooting:" caption and bullet markers.
func HintItems(hint string) []string {
	var items []string
	for _, line := range strings.Split(hint, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "•"))
		if line == "" || line == "Troubleshooting:" {
			continue
		}
		items = append(items, line)
	}
	return items
}
