package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"carmanager/internal/car"
	"carmanager/internal/ui/textutil"
	"carmanager/internal/workflow"
)

// AppModel is the root model: the car list with at most one dialog over it.
type AppModel struct {
	Workflow   *workflow.Orchestrator
	List       *CarListView
	Overlays   OverlayStack
	KeyHandler *KeyHandler
	Logger     *zap.Logger

	// Status is the line under the list: the last fetch or save failure, or a notice.
	Status string

	ctx      context.Context
	inflight int // tasks started but not yet applied
	width    int
	height   int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root model. Backend tasks run with ctx.
func NewAppModel(ctx context.Context, wf *workflow.Orchestrator, logger *zap.Logger) *AppModel {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := NewKeybindRegistry()
	bindCarKeys(reg)
	return &AppModel{
		Workflow:   wf,
		List:       NewCarListView(),
		KeyHandler: NewKeyHandler(reg),
		Logger:     logger.Named("ui"),
		ctx:        ctx,
	}
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (a *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: a}
}

// Init implements tea.Model. The list is fetched on mount.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.List.Init(), a.run(a.Workflow.RefreshList()))
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, a.updateList(msg)
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case ShowCreateCarMsg:
		return a, a.showCreate()
	case ShowEditCarMsg:
		return a, a.showEdit()
	case ShowDeleteCarMsg:
		return a, a.showDelete()
	case RefreshCarsMsg:
		return a, a.run(a.Workflow.RefreshList())
	case SubmitCarFormMsg:
		return a, a.submit(msg.Form)
	case ConfirmDeleteCarMsg:
		return a, a.confirmDelete()
	case DismissModalMsg:
		a.dismiss()
		return a, nil
	case TaskResultMsg:
		a.apply(msg.Result)
		return a, nil
	}

	// Spinner ticks and cursor blinks.
	var cmds []tea.Cmd
	if cmd, ok := a.Overlays.UpdateTop(msg); ok {
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, a.updateList(msg))
	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	body := a.List.View()
	if top, ok := a.Overlays.Peek(); ok {
		modal := top.View.View()
		if a.width > 0 && a.height > 0 {
			body = lipgloss.Place(a.width, a.height-2, lipgloss.Center, lipgloss.Center, modal)
		} else {
			body = modal
		}
	}

	footer := ""
	if a.Status != "" {
		status := textutil.FirstLine(a.Status)
		if a.width > 0 {
			status = textutil.Truncate(status, a.width)
		}
		footer = Styles.Warning.Render(status) + "\n"
	}
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		footer += RenderKeybindHelp(a.KeyHandler)
	} else if a.Overlays.Len() == 0 && a.KeyHandler != nil {
		footer += RenderFooter(a.KeyHandler.Registry)
	}
	return body + "\n" + footer
}

func (a *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.dismiss()
			return nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		if form, ok := topView[*CarFormModal](&a.Overlays); ok {
			a.Workflow.UpdateForm(form.Values())
		}
		return cmd
	}
	if a.KeyHandler != nil {
		if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
			return cmd
		}
	}
	return a.updateList(msg)
}

func (a *AppModel) updateList(msg tea.Msg) tea.Cmd {
	v, cmd := a.List.Update(msg)
	if l, ok := v.(*CarListView); ok {
		a.List = l
	}
	return cmd
}

func (a *AppModel) showCreate() tea.Cmd {
	if err := a.Workflow.StartCreate(); err != nil {
		a.refuse("add", err)
		return nil
	}
	return a.openForm()
}

func (a *AppModel) showEdit() tea.Cmd {
	rec, ok := a.List.Selected()
	if !ok {
		a.Status = "No car selected"
		return nil
	}
	if err := a.Workflow.StartEdit(rec); err != nil {
		a.refuse("edit", err)
		return nil
	}
	return a.openForm()
}

func (a *AppModel) openForm() tea.Cmd {
	s := a.Workflow.State()
	modal := NewCarFormModal(s.Mode, s.Form)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	a.sync()
	return modal.Init()
}

func (a *AppModel) showDelete() tea.Cmd {
	rec, ok := a.List.Selected()
	if !ok {
		a.Status = "No car selected"
		return nil
	}
	if err := a.Workflow.StartDelete(rec); err != nil {
		a.refuse("delete", err)
		return nil
	}
	s := a.Workflow.State()
	a.Overlays.Push(Overlay{View: NewDeleteCarConfirmModal(s.Selection), Dismiss: "esc"})
	a.sync()
	return nil
}

func (a *AppModel) submit(form car.Form) tea.Cmd {
	task, err := a.Workflow.SubmitForm(form)
	var invalid *car.ValidationError
	switch {
	case errors.As(err, &invalid):
		a.sync()
		return nil
	case err != nil:
		a.refuse("save", err)
		return nil
	}
	a.sync()
	return a.run(task)
}

func (a *AppModel) confirmDelete() tea.Cmd {
	task, err := a.Workflow.ConfirmDelete()
	if err != nil {
		a.refuse("delete", err)
		return nil
	}
	a.sync()
	return a.run(task)
}

func (a *AppModel) dismiss() {
	top, ok := a.Overlays.Pop()
	if !ok {
		return
	}
	switch top.View.(type) {
	case *CarFormModal:
		a.Workflow.CancelCreateEdit()
	case *ConfirmModal:
		a.Workflow.CancelDelete()
	}
	a.sync()
}

func (a *AppModel) apply(r workflow.Result) {
	if a.inflight > 0 {
		a.inflight--
	}
	a.Workflow.Apply(r)
	a.List.SetLoading(a.inflight > 0)
	a.sync()
}

// run starts task and the list spinner.
func (a *AppModel) run(task workflow.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	a.inflight++
	return tea.Batch(a.List.SetLoading(true), runTaskCmd(a.ctx, task))
}

// sync makes the list, the overlays and the status line match the orchestrator state.
func (a *AppModel) sync() {
	s := a.Workflow.State()
	a.List.SetCars(s.Cars, s.Loaded)

	if form, ok := topView[*CarFormModal](&a.Overlays); ok {
		if !s.EditOpen {
			a.Overlays.Pop()
		} else {
			form.SetFieldErrors(s.FieldErrors)
			form.SetError(s.Err)
			form.SetPending(s.Pending)
		}
	}
	if confirm, ok := topView[*ConfirmModal](&a.Overlays); ok {
		if !s.DeleteOpen {
			a.Overlays.Pop()
		} else {
			confirm.SetError(s.Err)
			confirm.SetPending(s.Pending)
		}
	}

	switch {
	case s.Err != nil:
		a.Status = "Save failed: " + s.Err.Error()
	case s.FetchErr != nil:
		a.Status = "Could not load cars: " + s.FetchErr.Error()
	default:
		a.Status = ""
	}
}

func (a *AppModel) refuse(action string, err error) {
	a.Logger.Debug("action refused", zap.String("action", action), zap.Error(err))
	switch {
	case errors.Is(err, workflow.ErrBusy):
		a.Status = "Still saving the previous change"
	case errors.Is(err, workflow.ErrDialogOpen):
		a.Status = "Close the open dialog first"
	default:
		a.Status = err.Error()
	}
}
