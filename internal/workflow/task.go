package workflow

import (
	"context"

	"carmanager/internal/car"
)

// Op names the backend work a Task performed.
type Op int

const (
	OpRefresh Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpRefresh:
		return "refresh"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// IsMutation reports whether the op changes backend state.
func (o Op) IsMutation() bool {
	return o == OpCreate || o == OpUpdate || o == OpDelete
}

// Task is backend work to run off the event loop. Its Result goes to Apply.
type Task func(ctx context.Context) Result

// Result is the outcome of a Task.
// For mutations, Cars/FetchErr describe the follow-up fetch, which only runs
// when Err is nil.
type Result struct {
	Op Op
	// ID is the record the mutation targeted (or the id the backend assigned on create).
	ID string
	// Err is the mutation failure; nil for refreshes.
	Err error

	FetchSeq uint64
	Cars     []car.Record
	FetchErr error
}
