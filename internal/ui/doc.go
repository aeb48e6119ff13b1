// Package ui is the terminal front end of the car manager, built on Bubble Tea.
//
// The pieces:
//   - View: a screen region with its own Init/Update/View (Elm-style)
//   - CarListView: the card list of every car, with loading and empty states
//   - CarFormModal and ConfirmModal: the create/edit dialog and the delete confirmation
//   - OverlayStack: modals drawn over the list; the top one receives input
//   - KeyHandler: single keys plus SPC-leader sequences
//
// AppModel owns a workflow.Orchestrator. Backend tasks run as tea.Cmds and come
// back as TaskResultMsg; the overlays are then synced to the orchestrator's
// dialog flags so the screen never disagrees with the state.
package ui
