package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"carmanager/internal/workflow"
)

// runTaskCmd runs task off the event loop and reports its result as TaskResultMsg.
func runTaskCmd(ctx context.Context, task workflow.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	return func() tea.Msg {
		return TaskResultMsg{Result: task(ctx)}
	}
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// bindCarKeys registers the list-level keys and their SPC-leader equivalents.
func bindCarKeys(reg *KeybindRegistry) {
	reg.BindWithDesc("a", msgCmd(ShowCreateCarMsg{}), "add")
	reg.BindWithDesc("e", msgCmd(ShowEditCarMsg{}), "edit")
	reg.BindWithDesc("enter", msgCmd(ShowEditCarMsg{}), "edit")
	reg.BindWithDesc("d", msgCmd(ShowDeleteCarMsg{}), "delete")
	reg.BindWithDesc("r", msgCmd(RefreshCarsMsg{}), "refresh")
	reg.BindWithDesc("q", tea.Quit, "quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "quit")

	reg.BindWithDesc("SPC c a", msgCmd(ShowCreateCarMsg{}), "Add car")
	reg.BindWithDesc("SPC c e", msgCmd(ShowEditCarMsg{}), "Edit car")
	reg.BindWithDesc("SPC c d", msgCmd(ShowDeleteCarMsg{}), "Delete car")
	reg.BindWithDesc("SPC r", msgCmd(RefreshCarsMsg{}), "Refresh")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
}
