package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI.
const (
	ColorAccent    = "86"  // titles, spinner
	ColorHighlight = "205" // selected card, dialog borders
	ColorDanger    = "196" // delete dialog, errors
	ColorMuted     = "241" // hints, unselected cards
	ColorText      = "252"
	ColorWarning   = "208" // status line warnings
)

// Styles contains shared style definitions used across views and modals.
var Styles = struct {
	Title        lipgloss.Style
	TitleWarning lipgloss.Style

	Box       lipgloss.Style // create/edit dialog
	BoxDanger lipgloss.Style // delete dialog

	Selected lipgloss.Style
	Muted    lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style
	Empty    lipgloss.Style
	Label    lipgloss.Style // form field labels
	Error    lipgloss.Style // inline field and backend errors
	Warning  lipgloss.Style // status line
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Label: lipgloss.NewStyle().
		Width(9).
		Foreground(lipgloss.Color(ColorText)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Warning: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
}

// newCardDelegate returns the list delegate used for car cards: title plus one
// description line, highlighted when selected.
func newCardDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(1)
	d.ShowDescription = true
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(lipgloss.Color(ColorHighlight)).
		BorderForeground(lipgloss.Color(ColorHighlight)).Bold(true)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(lipgloss.Color(ColorText)).
		BorderForeground(lipgloss.Color(ColorHighlight))
	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(lipgloss.Color(ColorText))
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(lipgloss.Color(ColorMuted))
	return d
}
