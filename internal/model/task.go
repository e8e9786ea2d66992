package model

import (
	"strings"
	"time"
)

// Task represents a single work item
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        Status     `json:"status"`
	Priority      Priority   `json:"priority"`
	Category      Category   `json:"category"`
	DueDate       *Date      `json:"dueDate"`
	Tags          []string   `json:"tags"`
	Recurring     Recurrence `json:"recurring"`
	EstimatedTime *int       `json:"estimatedTime"`
	ActualTime    *int       `json:"actualTime"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	CompletedAt   *time.Time `json:"completedAt"`
	Dependencies  []string   `json:"dependencies"`
}

// Options are the optional fields accepted by NewTask
type Options struct {
	Status        Status
	Priority      Priority
	Category      Category
	DueDate       *Date
	Tags          []string
	Recurring     Recurrence
	EstimatedTime *int
	ActualTime    *int
	CompletedAt   *time.Time
	Dependencies  []string
}

// NewTask creates a new task with defaults
func NewTask(id, title, description string, opts Options, now time.Time) Task {
	t := Task{
		ID:            id,
		Title:         title,
		Description:   description,
		Status:        StatusTodo,
		Priority:      PriorityMedium,
		Category:      CategoryOther,
		DueDate:       copyDate(opts.DueDate),
		Tags:          NormalizeTags(opts.Tags),
		Recurring:     RecurNone,
		EstimatedTime: minutes(opts.EstimatedTime),
		ActualTime:    minutes(opts.ActualTime),
		CreatedAt:     now,
		UpdatedAt:     now,
		Dependencies:  append([]string{}, opts.Dependencies...),
	}
	if opts.Status != "" {
		t.Status = opts.Status
	}
	if opts.Priority != "" {
		t.Priority = opts.Priority
	}
	if opts.Category != "" {
		t.Category = ParseCategory(string(opts.Category))
	}
	if opts.Recurring != "" {
		t.Recurring = opts.Recurring
	}
	if t.Status == StatusDone {
		completed := now
		if opts.CompletedAt != nil {
			completed = *opts.CompletedAt
		}
		t.CompletedAt = &completed
	}
	return t
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	c := t
	c.DueDate = copyDate(t.DueDate)
	c.Tags = append([]string{}, t.Tags...)
	c.Dependencies = append([]string{}, t.Dependencies...)
	c.EstimatedTime = copyInt(t.EstimatedTime)
	c.ActualTime = copyInt(t.ActualTime)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return c
}

// AddTag appends tag unless it is blank or already present
func (t *Task) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, existing := range t.Tags {
		if existing == tag {
			return false
		}
	}
	t.Tags = append(t.Tags, tag)
	return true
}

// RemoveTag drops tag, keeping the order of the rest
func (t *Task) RemoveTag(tag string) bool {
	for i, existing := range t.Tags {
		if existing == tag {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// IsDone reports whether the task is completed
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// IsOverdue returns true if the task is due before today. It looks at the
// date only; completed tasks are not excluded.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(Today(now))
}

// SetStatus changes status and keeps CompletedAt in step with it
func (t *Task) SetStatus(s Status, now time.Time) {
	t.Status = s
	if s == StatusDone {
		if t.CompletedAt == nil {
			at := now
			t.CompletedAt = &at
		}
		return
	}
	t.CompletedAt = nil
}

// NormalizeTags trims tags, drops blanks and duplicates, and keeps the
// first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Minutes returns a pointer to n minutes, for Options and Patch literals
func Minutes(n int) *int {
	return &n
}

func minutes(p *int) *int {
	if p == nil {
		return nil
	}
	n := *p
	if n < 0 {
		n = 0
	}
	return &n
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}

func copyDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
