package query

import (
	"fmt"
	"time"

	"github.com/existflow/taskmgr/internal/model"
)

// DisplayDateLayout is how due dates are shown to the user
const DisplayDateLayout = "Jan 2, 2006"

// Overdue lists open tasks due before today. Unlike Filters.Overdue it
// leaves out completed tasks.
func Overdue(tasks []model.Task, now time.Time) []model.Task {
	today := model.Today(now)
	out := []model.Task{}
	for _, t := range tasks {
		if t.DueDate == nil || t.Status == model.StatusDone {
			continue
		}
		if t.DueDate.Before(today) {
			out = append(out, t)
		}
	}
	return out
}

// Upcoming lists open tasks due between today and today+days inclusive
func Upcoming(tasks []model.Task, days int, now time.Time) []model.Task {
	today := model.Today(now)
	limit := today.AddDays(days)
	out := []model.Task{}
	for _, t := range tasks {
		if t.DueDate == nil || t.Status == model.StatusDone {
			continue
		}
		if !t.DueDate.Before(today) && !t.DueDate.After(limit) {
			out = append(out, t)
		}
	}
	return out
}

// ByStatus lists the tasks in one status
func ByStatus(tasks []model.Task, s model.Status) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.Status == s {
			out = append(out, t)
		}
	}
	return out
}

// ForDate lists the tasks due on d
func ForDate(tasks []model.Task, d model.Date) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.DueDate != nil && t.DueDate.Equal(d) {
			out = append(out, t)
		}
	}
	return out
}

// CountByStatus tallies tasks per status; every status has an entry
func CountByStatus(tasks []model.Task) map[model.Status]int {
	counts := make(map[model.Status]int, len(model.Statuses))
	for _, s := range model.Statuses {
		counts[s] = 0
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

// DayMark is the calendar marker for one day
type DayMark struct {
	Dots     []string `json:"dots"`
	Selected bool     `json:"selected"`
}

// Marks buckets dated tasks by day. Each task adds one dot: the done
// color when completed, its category color otherwise. The selected day
// is always present.
func Marks(tasks []model.Task, selected model.Date) map[model.Date]DayMark {
	marks := make(map[model.Date]DayMark)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		m := marks[*t.DueDate]
		m.Selected = t.DueDate.Equal(selected)
		color := t.Category.Color()
		if t.Status == model.StatusDone {
			color = model.StatusDone.Color()
		}
		m.Dots = append(m.Dots, color)
		marks[*t.DueDate] = m
	}
	if _, ok := marks[selected]; !ok {
		marks[selected] = DayMark{Dots: []string{}, Selected: true}
	}
	return marks
}

// MonthGrid lays out a month as Sunday-first weeks. Cells outside the
// month are nil.
func MonthGrid(year int, month time.Month) [][]*model.Date {
	first := model.NewDate(year, month, 1)
	days := model.DaysIn(year, month)

	var weeks [][]*model.Date
	week := make([]*model.Date, 7)
	col := int(first.Weekday())
	for day := 1; day <= days; day++ {
		d := model.NewDate(year, month, day)
		week[col] = &d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]*model.Date, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// DaysUntil returns calendar days from today to due
func DaysUntil(due model.Date, now time.Time) int {
	return model.Today(now).DaysUntil(due)
}

// DueLabel describes a due date relative to today
func DueLabel(due model.Date, now time.Time) string {
	text := due.Format(DisplayDateLayout)
	switch days := DaysUntil(due, now); {
	case days < 0:
		return fmt.Sprintf("Overdue - %s", text)
	case days == 0:
		return fmt.Sprintf("Due Today - %s", text)
	case days == 1:
		return fmt.Sprintf("Due Tomorrow - %s", text)
	}
	return text
}
