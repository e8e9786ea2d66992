// Package lifecycle cycles tasks through their statuses
package lifecycle

import (
	"time"

	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/recurrence"
)

// Next returns the status that follows s. Unknown statuses restart at todo.
func Next(s model.Status) model.Status {
	switch s {
	case model.StatusTodo:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusDone
	default:
		return model.StatusTodo
	}
}

// Result is the outcome of a toggle
type Result struct {
	Task    model.Task  `json:"task"`
	Sibling *model.Task `json:"sibling,omitempty"`
}

// Toggle advances t one step. Entering done stamps CompletedAt and, for
// recurring tasks, forks the next occurrence as a sibling with an id from
// newID. The input task is not modified.
func Toggle(t model.Task, now time.Time, newID func() string) Result {
	out := t.Clone()
	out.SetStatus(Next(t.Status), now)
	if out.Status == model.StatusDone {
		at := now
		out.CompletedAt = &at
	}
	out.UpdatedAt = now

	res := Result{Task: out}
	if out.Status != model.StatusDone || !out.Recurring.IsRecurring() {
		return res
	}

	due, ok := recurrence.NextFor(t, now)
	if !ok {
		return res
	}
	sibling := recurrence.Spawn(out, due, newID(), now)
	res.Sibling = &sibling
	return res
}
