package model

import "strings"

// Status is the lifecycle state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every status in cycle order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Label returns a human readable name
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Color returns the display color of the status
func (s Status) Color() string {
	switch s {
	case StatusInProgress:
		return "#f39c12"
	case StatusDone:
		return "#2ecc71"
	default:
		return "#e74c3c"
	}
}

// ParseStatus accepts status ids case-insensitively, with "-" or " " for "_"
func ParseStatus(s string) (Status, bool) {
	v := Status(strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s))))
	switch v {
	case StatusTodo, StatusInProgress, StatusDone:
		return v, true
	}
	return "", false
}

// Priority is the importance of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from highest to lowest
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities; higher is more important and unknown is 0
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Color returns the display color of the priority
func (p Priority) Color() string {
	switch p {
	case PriorityHigh:
		return "#e74c3c"
	case PriorityMedium:
		return "#f39c12"
	default:
		return "#95a5a6"
	}
}

// ParsePriority accepts priority ids case-insensitively
func ParsePriority(s string) (Priority, bool) {
	v := Priority(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return v, true
	}
	return "", false
}

// Recurrence is the cadence of a repeating task
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// IsRecurring reports whether the cadence repeats
func (r Recurrence) IsRecurring() bool {
	return r != "" && r != RecurNone
}

// ParseRecurrence accepts cadence ids case-insensitively
func ParseRecurrence(s string) (Recurrence, bool) {
	v := Recurrence(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly:
		return v, true
	case "":
		return RecurNone, true
	}
	return "", false
}
