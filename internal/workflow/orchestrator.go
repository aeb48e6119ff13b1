// Package workflow keeps the car list, the edit form, the delete selection and
// the two dialog flags consistent with the remote /car resource.
//
// All State mutation happens through Orchestrator methods called from a single
// event loop. Network work is handed back as a Task; the caller runs it off the
// loop and feeds the Result to Apply on the loop. After every successful
// mutation the list is re-fetched wholesale; there is no local patching.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"carmanager/internal/car"
)

var (
	// ErrBusy is returned while a create, update or delete is in flight.
	ErrBusy = errors.New("a change is already being saved")
	// ErrDialogOpen is returned when a dialog is requested while another is visible.
	ErrDialogOpen = errors.New("another dialog is open")
	// ErrNoSelection is returned by ConfirmDelete without an open delete dialog.
	ErrNoSelection = errors.New("no car selected for deletion")
)

// Backend is the remote /car resource.
type Backend interface {
	List(ctx context.Context) ([]car.Record, error)
	Create(ctx context.Context, rec car.Record) (car.Record, error)
	Update(ctx context.Context, id string, rec car.Record) (car.Record, error)
	Delete(ctx context.Context, id string) error
}

// State is the complete view state of the car manager.
type State struct {
	// Cars is the last successful fetch, unmodified.
	Cars []car.Record
	// Loaded is true once a fetch has succeeded.
	Loaded bool

	Mode        car.Mode
	Form        car.Form
	FieldErrors car.FieldErrors

	// Selection is the record targeted by the delete dialog.
	Selection car.Record

	EditOpen   bool
	DeleteOpen bool

	// Pending is true while a mutation task is outstanding.
	Pending bool
	// Err is the last mutation failure, cleared when a dialog opens or closes.
	Err error
	// FetchErr is the last list fetch failure, cleared by the next successful fetch.
	FetchErr error
}

// Orchestrator turns user actions into state changes and backend tasks.
type Orchestrator struct {
	state    State
	backend  Backend
	logger   *zap.Logger
	fetchSeq atomic.Uint64 // last fetch started; bumped from task goroutines
	shownSeq uint64        // fetch whose list is displayed
	failSeq  uint64        // fetch behind FetchErr
}

// New creates an orchestrator with an empty list.
func New(backend Backend, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		backend: backend,
		logger:  logger.Named("workflow"),
		state:   State{Mode: car.ModeCreate, Form: car.EmptyForm()},
	}
}

// State returns a snapshot of the view state. The Cars slice is a copy.
func (o *Orchestrator) State() State {
	s := o.state
	s.Cars = car.CloneAll(o.state.Cars)
	s.Selection = o.state.Selection.Clone()
	return s
}

// RefreshList returns a task fetching the full record set.
func (o *Orchestrator) RefreshList() Task {
	return func(ctx context.Context) Result {
		r := Result{Op: OpRefresh}
		o.fetch(ctx, &r)
		return r
	}
}

// StartCreate opens an empty create dialog.
func (o *Orchestrator) StartCreate() error {
	if err := o.checkNoDialog(); err != nil {
		return err
	}
	o.state.Mode = car.ModeCreate
	o.state.Form = car.EmptyForm()
	o.openEdit()
	return nil
}

// StartEdit opens the edit dialog populated with rec's current values.
func (o *Orchestrator) StartEdit(rec car.Record) error {
	if err := o.checkNoDialog(); err != nil {
		return err
	}
	o.state.Mode = car.ModeEdit
	o.state.Form = car.FormFromRecord(rec)
	o.openEdit()
	return nil
}

// StartDelete selects rec and opens the delete confirmation.
func (o *Orchestrator) StartDelete(rec car.Record) error {
	if err := o.checkNoDialog(); err != nil {
		return err
	}
	o.state.Selection = rec.Clone()
	o.state.DeleteOpen = true
	o.state.Err = nil
	return nil
}

// UpdateForm records the dialog's current input values without validating them.
func (o *Orchestrator) UpdateForm(f car.Form) {
	if !o.state.EditOpen {
		return
	}
	// The id is fixed when the dialog opens.
	f.ID = o.state.Form.ID
	o.state.Form = f
}

// SubmitForm validates f and returns the create or update task.
// Invalid fields block the submission with a *car.ValidationError and no task.
func (o *Orchestrator) SubmitForm(f car.Form) (Task, error) {
	if !o.state.EditOpen {
		return nil, errors.New("submit: edit dialog is not open")
	}
	if o.state.Pending {
		return nil, ErrBusy
	}
	f.ID = o.state.Form.ID
	o.state.Form = f
	o.state.FieldErrors = f.Validate()
	if err := o.state.FieldErrors.Err(); err != nil {
		return nil, err
	}

	o.state.Pending = true
	o.state.Err = nil
	mode := o.state.Mode
	payload := f.Payload()
	backend := o.backend

	if mode == car.ModeEdit {
		id := f.ID
		return func(ctx context.Context) Result {
			r := Result{Op: OpUpdate, ID: id}
			if _, err := backend.Update(ctx, id, payload); err != nil {
				r.Err = err
				return r
			}
			o.fetch(ctx, &r)
			return r
		}, nil
	}

	payload.ID = ""
	return func(ctx context.Context) Result {
		r := Result{Op: OpCreate}
		created, err := backend.Create(ctx, payload)
		if err != nil {
			r.Err = err
			return r
		}
		r.ID = created.ID
		o.fetch(ctx, &r)
		return r
	}, nil
}

// ConfirmDelete returns the task deleting the selected record.
func (o *Orchestrator) ConfirmDelete() (Task, error) {
	if !o.state.DeleteOpen {
		return nil, ErrNoSelection
	}
	if o.state.Pending {
		return nil, ErrBusy
	}
	o.state.Pending = true
	o.state.Err = nil
	id := o.state.Selection.ID
	backend := o.backend
	return func(ctx context.Context) Result {
		r := Result{Op: OpDelete, ID: id}
		if err := backend.Delete(ctx, id); err != nil {
			r.Err = err
			return r
		}
		o.fetch(ctx, &r)
		return r
	}, nil
}

// CancelCreateEdit closes the edit dialog. The list and selection are untouched.
func (o *Orchestrator) CancelCreateEdit() {
	o.state.EditOpen = false
	o.state.FieldErrors = nil
	o.state.Err = nil
}

// CancelDelete closes the delete confirmation. The list and selection are untouched.
func (o *Orchestrator) CancelDelete() {
	o.state.DeleteOpen = false
	o.state.Err = nil
}

// Apply folds a finished task's result into the state.
func (o *Orchestrator) Apply(r Result) {
	if r.Op.IsMutation() {
		o.state.Pending = false
		if r.Err != nil {
			o.state.Err = r.Err
			o.logger.Error("car change failed",
				zap.String("op", r.Op.String()),
				zap.String("id", r.ID),
				zap.Error(r.Err),
			)
			return
		}
		switch r.Op {
		case OpCreate, OpUpdate:
			o.state.EditOpen = false
			o.state.FieldErrors = nil
		case OpDelete:
			o.state.DeleteOpen = false
		}
		o.state.Err = nil
		o.logger.Info("car change saved", zap.String("op", r.Op.String()), zap.String("id", r.ID))
	}
	o.applyFetch(r)
}

func (o *Orchestrator) applyFetch(r Result) {
	if r.FetchSeq <= o.shownSeq {
		o.logger.Debug("dropping stale car list",
			zap.Uint64("fetch", r.FetchSeq),
			zap.Uint64("shown", o.shownSeq),
			zap.NamedError("fetch_error", r.FetchErr),
		)
		return
	}
	if r.FetchErr != nil {
		if r.FetchSeq > o.failSeq {
			o.failSeq = r.FetchSeq
			o.state.FetchErr = r.FetchErr
		}
		o.logger.Warn("car list refresh failed; keeping previous list",
			zap.Uint64("fetch", r.FetchSeq),
			zap.Int("kept", len(o.state.Cars)),
			zap.Error(r.FetchErr),
		)
		return
	}
	o.shownSeq = r.FetchSeq
	o.state.Cars = car.CloneAll(r.Cars)
	if o.state.Cars == nil {
		o.state.Cars = []car.Record{}
	}
	o.state.Loaded = true
	// A failure from a fetch started after this one still stands.
	if r.FetchSeq > o.failSeq {
		o.state.FetchErr = nil
	}
}

func (o *Orchestrator) openEdit() {
	o.state.FieldErrors = nil
	o.state.Err = nil
	o.state.EditOpen = true
}

func (o *Orchestrator) checkNoDialog() error {
	if o.state.Pending {
		return ErrBusy
	}
	if o.state.EditOpen || o.state.DeleteOpen {
		return ErrDialogOpen
	}
	return nil
}

// fetch runs the list call for a task. Safe to call off the event loop.
func (o *Orchestrator) fetch(ctx context.Context, r *Result) {
	r.FetchSeq = o.fetchSeq.Add(1)
	r.Cars, r.FetchErr = o.backend.List(ctx)
}

// Describe returns a one-line label for a record, used in dialogs and logs.
func Describe(rec car.Record) string {
	return fmt.Sprintf("%s %s (%s)", rec.Brand, rec.Series, rec.License)
}
