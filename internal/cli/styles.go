package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

const cellWidth = 3

// Markers keep the grid readable when the terminal has no colors.
const (
	markPeriod    = "*"
	markPredicted = "~"
	markNone      = " "
)

// styles holds the lipgloss styles bound to one output. Colors are only
// emitted when that output is a terminal.
type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	label     lipgloss.Style
	period    lipgloss.Style
	predicted lipgloss.Style
	today     lipgloss.Style
	selected  lipgloss.Style
	cell      lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		header:    r.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		label:     r.NewStyle().Foreground(lipgloss.Color("244")),
		period:    r.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("161")),
		predicted: r.NewStyle().Foreground(lipgloss.Color("175")),
		today:     r.NewStyle().Underline(true).Bold(true),
		selected:  r.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		cell:      r.NewStyle().Width(cellWidth),
	}
}
