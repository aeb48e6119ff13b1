package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func newHelpModel() help.Model {
	m := help.New()
	m.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	m.Styles.ShortDesc = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted))
	m.Styles.ShortSeparator = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted))
	return m
}

// RenderKeybindHelp produces the transient help bar shown after SPC.
// With a buffered sequence (e.g. "SPC c") it shows the next-level keys.
func RenderKeybindHelp(keyHandler *KeyHandler) string {
	if keyHandler == nil {
		return ""
	}
	bindings := NewKeyMap(keyHandler.Registry, keyHandler).ShortHelp()
	if len(bindings) == 0 {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1).
		MarginTop(1)

	prefix := keyHandler.LeaderSeq
	if seq := keyHandler.CurrentSeq(); seq != "" {
		prefix = seq
	}
	content := Styles.Hint.Render(prefix) + " " + newHelpModel().ShortHelpView(bindings)
	return boxStyle.Render(content)
}

// footerKeys is the display order of the single-key bindings in the footer.
var footerKeys = []string{"a", "e", "d", "r", "q", "SPC"}

// RenderFooter renders the single-key bindings that are registered, in a fixed order.
func RenderFooter(reg *KeybindRegistry) string {
	if reg == nil {
		return ""
	}
	hints := reg.Hints()
	bindings := make([]key.Binding, 0, len(footerKeys))
	for _, k := range footerKeys {
		desc, ok := hints[k]
		if k == "SPC" {
			desc, ok = "commands", len(reg.LeaderHints("")) > 0
		}
		if !ok {
			continue
		}
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, desc),
		))
	}
	return newHelpModel().ShortHelpView(bindings)
}
