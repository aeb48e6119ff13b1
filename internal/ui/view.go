package ui

import tea "github.com/charmbracelet/bubbletea"

// View is a screen region with Bubble Tea's Init/Update/View. Update returns
// the View to keep, which lets a modal replace itself.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
