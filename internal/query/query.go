// Package query derives filtered, ordered views of a task collection.
// Nothing here mutates its input.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/existflow/taskmgr/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the order of a view
type SortKey string

const (
	SortPriority  SortKey = "priority"
	SortDueDate   SortKey = "dueDate"
	SortCreatedAt SortKey = "createdAt"
	SortTitle     SortKey = "title"
)

// SortKeys lists the recognised keys in the order the UI cycles them
var SortKeys = []SortKey{SortCreatedAt, SortPriority, SortDueDate, SortTitle}

// DateRange bounds due dates inclusively; nil ends are open
type DateRange struct {
	Start *model.Date `json:"start,omitempty"`
	End   *model.Date `json:"end,omitempty"`
}

// Filters are combined with AND. Empty sets place no constraint.
type Filters struct {
	Status       []model.Status   `json:"status,omitempty"`
	Priority     []model.Priority `json:"priority,omitempty"`
	Category     []model.Category `json:"category,omitempty"`
	Search       string           `json:"search,omitempty"`
	Overdue      bool             `json:"overdue,omitempty"`
	DueDateRange *DateRange       `json:"dueDateRange,omitempty"`
}

// IsActive reports whether any criterion is set
func (f Filters) IsActive() bool {
	return len(f.Status) > 0 || len(f.Priority) > 0 || len(f.Category) > 0 ||
		f.Search != "" || f.Overdue || f.DueDateRange != nil
}

// View filters then sorts tasks
func View(tasks []model.Task, f Filters, key SortKey, now time.Time) []model.Task {
	return Sort(Filter(tasks, f, now), key)
}

// Filter keeps the tasks matching every criterion in f
func Filter(tasks []model.Task, f Filters, now time.Time) []model.Task {
	search := strings.ToLower(f.Search)
	today := model.Today(now)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if len(f.Status) > 0 && !contains(f.Status, t.Status) {
			continue
		}
		if len(f.Priority) > 0 && !contains(f.Priority, t.Priority) {
			continue
		}
		if len(f.Category) > 0 && !contains(f.Category, t.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if f.DueDateRange != nil && !inRange(t.DueDate, *f.DueDateRange) {
			continue
		}
		if f.Overdue && (t.DueDate == nil || !t.DueDate.Before(today)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort returns a stably ordered copy of tasks. Unknown keys keep the
// input order.
func Sort(tasks []model.Task, key SortKey) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)

	switch key {
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		})
	case SortDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			return a.Before(*b)
		})
	case SortCreatedAt:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case SortTitle:
		c := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Title, out[j].Title) < 0
		})
	}
	return out
}

// ParseSortKey maps user input to a key; unknown input is returned as is
// and sorts as identity.
func ParseSortKey(s string) SortKey {
	for _, k := range SortKeys {
		if strings.EqualFold(string(k), s) {
			return k
		}
	}
	switch strings.ToLower(s) {
	case "due", "due_date", "duedate":
		return SortDueDate
	case "created", "created_at":
		return SortCreatedAt
	}
	return SortKey(s)
}

func inRange(due *model.Date, r DateRange) bool {
	if due == nil {
		return false
	}
	if r.Start != nil && due.Before(*r.Start) {
		return false
	}
	if r.End != nil && due.After(*r.End) {
		return false
	}
	return true
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
