package ui

import (
	"carmanager/internal/car"
	"carmanager/internal/workflow"
)

// ShowCreateCarMsg opens an empty create dialog (a, SPC c a).
type ShowCreateCarMsg struct{}

// ShowEditCarMsg opens the edit dialog for the car under the cursor (e, enter, SPC c e).
type ShowEditCarMsg struct{}

// ShowDeleteCarMsg asks to delete the car under the cursor (d, SPC c d).
type ShowDeleteCarMsg struct{}

// RefreshCarsMsg re-fetches the list (r, SPC r).
type RefreshCarsMsg struct{}

// SubmitCarFormMsg is sent by CarFormModal on enter.
type SubmitCarFormMsg struct {
	Form car.Form
}

// ConfirmDeleteCarMsg is sent when the user confirms the delete dialog.
type ConfirmDeleteCarMsg struct{}

// DismissModalMsg closes the top overlay without acting.
type DismissModalMsg struct{}

// TaskResultMsg carries a finished backend task back to the event loop.
type TaskResultMsg struct {
	Result workflow.Result
}
