// Package recurrence computes the next occurrence of repeating tasks
package recurrence

import (
	"time"

	"github.com/existflow/taskmgr/internal/model"
)

// Next returns the due date that follows from for the given cadence.
// The second value is false when the cadence does not repeat.
func Next(from model.Date, cadence model.Recurrence) (model.Date, bool) {
	switch cadence {
	case model.RecurDaily:
		return from.AddDays(1), true
	case model.RecurWeekly:
		return from.AddDays(7), true
	case model.RecurMonthly:
		return from.AddMonths(1), true
	default:
		return model.Date{}, false
	}
}

// NextFor returns the next due date of t, counting from its due date or,
// for undated tasks, from the local day of now.
func NextFor(t model.Task, now time.Time) (model.Date, bool) {
	from := model.Today(now)
	if t.DueDate != nil {
		from = *t.DueDate
	}
	return Next(from, t.Recurring)
}

// Spawn builds the sibling that represents the next occurrence of t
func Spawn(t model.Task, due model.Date, id string, now time.Time) model.Task {
	next := t.Clone()
	next.ID = id
	next.DueDate = &due
	next.Status = model.StatusTodo
	next.CompletedAt = nil
	next.CreatedAt = now
	next.UpdatedAt = now
	return next
}
