package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"carmanager/internal/car"
)

// CarFormModal is the create/edit dialog: one text input per car field.
// Tab and shift+tab move between fields, enter submits, esc cancels.
type CarFormModal struct {
	mode      car.Mode
	id        string
	inputs    []textinput.Model // in car.Fields order
	initial   []string          // values the dialog opened with
	shown     []string          // initial as the inputs hold them after sanitizing
	focus     int
	fieldErrs car.FieldErrors
	err       error
	pending   bool
}

var _ View = (*CarFormModal)(nil)

// NewCarFormModal creates the dialog pre-filled with form.
func NewCarFormModal(mode car.Mode, form car.Form) *CarFormModal {
	m := &CarFormModal{
		mode:    mode,
		id:      form.ID,
		inputs:  make([]textinput.Model, len(car.Fields)),
		initial: make([]string, len(car.Fields)),
		shown:   make([]string, len(car.Fields)),
	}
	for i, f := range car.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = strings.ToLower(f.Label())
		ti.Width = 40
		ti.SetValue(form.Get(f))
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
		m.initial[i] = form.Get(f)
		m.shown[i] = ti.Value()
	}
	return m
}

// Mode returns whether the dialog creates or edits.
func (m *CarFormModal) Mode() car.Mode { return m.mode }

// Values returns the current input values as a form. A field the user has not
// changed keeps its original value, including newlines and tabs the input
// cannot display.
func (m *CarFormModal) Values() car.Form {
	f := car.Form{ID: m.id}
	for i, field := range car.Fields {
		v := m.inputs[i].Value()
		if v == m.shown[i] {
			v = m.initial[i]
		}
		f = f.With(field, v)
	}
	return f
}

// Focused returns the field with keyboard focus.
func (m *CarFormModal) Focused() car.Field {
	return car.Fields[m.focus]
}

// SetFieldErrors shows a message under each invalid field.
func (m *CarFormModal) SetFieldErrors(errs car.FieldErrors) {
	m.fieldErrs = errs
}

// SetError shows a backend failure; nil clears it.
func (m *CarFormModal) SetError(err error) {
	m.err = err
}

// SetPending marks a submission in flight. Enter is ignored meanwhile.
func (m *CarFormModal) SetPending(pending bool) {
	m.pending = pending
}

// Init implements View.
func (m *CarFormModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *CarFormModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			if m.pending {
				return m, nil
			}
			form := m.Values()
			return m, func() tea.Msg { return SubmitCarFormMsg{Form: form} }
		case "tab", "down":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *CarFormModal) moveFocus(dir int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + dir + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

// Title returns the dialog heading.
func (m *CarFormModal) Title() string {
	if m.mode == car.ModeEdit {
		return "Edit car"
	}
	return "Add car"
}

// View implements View.
func (m *CarFormModal) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(m.Title()) + "\n\n")
	for i, f := range car.Fields {
		label := f.Label()
		if i == m.focus {
			label = Styles.Selected.Render(Styles.Label.Render(label))
		} else {
			label = Styles.Label.Render(label)
		}
		b.WriteString(label + " " + m.inputs[i].View() + "\n")
		if msg := m.fieldErrs.Message(f); msg != "" {
			b.WriteString(Styles.Label.Render("") + " " + Styles.Error.Render(msg) + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n" + Styles.Error.Render("Save failed: "+m.err.Error()) + "\n")
	}
	b.WriteString("\n")
	if m.pending {
		b.WriteString(Styles.Hint.Render("saving…"))
	} else {
		b.WriteString(Styles.Hint.Render("Enter: save  Tab: next field  Esc: cancel"))
	}
	return Styles.Box.Render(b.String())
}
