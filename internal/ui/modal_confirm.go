package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"carmanager/internal/car"
	"carmanager/internal/workflow"
)

// ConfirmModal is a generic confirmation modal.
// Enter or y confirms; Esc cancels.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string // optional warning line
	OnConfirm func() tea.Msg

	err     error
	pending bool

	boxStyle    lipgloss.Style
	titleStyle  lipgloss.Style
	detailStyle lipgloss.Style
}

var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a confirmation modal.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:       title,
		Label:       label,
		OnConfirm:   onConfirm,
		boxStyle:    Styles.BoxDanger,
		titleStyle:  Styles.TitleWarning,
		detailStyle: Styles.Warning,
	}
}

// WithDetails adds a warning line under the label.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewDeleteCarConfirmModal asks before deleting rec.
func NewDeleteCarConfirmModal(rec car.Record) *ConfirmModal {
	return NewConfirmModal(
		"Confirm delete",
		"Delete "+workflow.Describe(rec)+"?",
		func() tea.Msg { return ConfirmDeleteCarMsg{} },
	).WithDetails("This cannot be undone")
}

// SetError shows a backend failure; nil clears it.
func (m *ConfirmModal) SetError(err error) {
	m.err = err
}

// SetPending marks the confirmed action in flight. Confirm keys are ignored meanwhile.
func (m *ConfirmModal) SetPending(pending bool) {
	m.pending = pending
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "n":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil && !m.pending {
				return m, m.OnConfirm
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	var b strings.Builder
	b.WriteString(m.titleStyle.Render(m.Title) + "\n\n")
	b.WriteString(m.Label)
	if m.Details != "" {
		b.WriteString("\n" + m.detailStyle.Render(m.Details))
	}
	if m.err != nil {
		b.WriteString("\n\n" + Styles.Error.Render("Delete failed: "+m.err.Error()))
	}
	b.WriteString("\n\n")
	if m.pending {
		b.WriteString(Styles.Hint.Render("deleting…"))
	} else {
		b.WriteString(Styles.Hint.Render("y/Enter: confirm  Esc: cancel"))
	}
	return m.boxStyle.Render(b.String())
}
