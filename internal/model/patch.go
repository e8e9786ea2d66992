package model

import "time"

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title         *string     `json:"title,omitempty"`
	Description   *string     `json:"description,omitempty"`
	Status        *Status     `json:"status,omitempty"`
	Priority      *Priority   `json:"priority,omitempty"`
	Category      *Category   `json:"category,omitempty"`
	DueDate       *Date       `json:"dueDate,omitempty"`
	Tags          *[]string   `json:"tags,omitempty"`
	Recurring     *Recurrence `json:"recurring,omitempty"`
	EstimatedTime *int        `json:"estimatedTime,omitempty"`
	ActualTime    *int        `json:"actualTime,omitempty"`
	Dependencies  *[]string   `json:"dependencies,omitempty"`

	ClearDueDate       bool `json:"clearDueDate,omitempty"`
	ClearEstimatedTime bool `json:"clearEstimatedTime,omitempty"`
	ClearActualTime    bool `json:"clearActualTime,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply returns a copy of t with the patch merged on and UpdatedAt bumped.
// Setting Status keeps CompletedAt consistent; recurrence is not triggered.
func (p Patch) Apply(t Task, now time.Time) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Category != nil {
		out.Category = ParseCategory(string(*p.Category))
	}
	if p.ClearDueDate {
		out.DueDate = nil
	} else if p.DueDate != nil {
		out.DueDate = copyDate(p.DueDate)
	}
	if p.Tags != nil {
		out.Tags = NormalizeTags(*p.Tags)
	}
	if p.Recurring != nil {
		out.Recurring = *p.Recurring
	}
	if p.ClearEstimatedTime {
		out.EstimatedTime = nil
	} else if p.EstimatedTime != nil {
		out.EstimatedTime = minutes(p.EstimatedTime)
	}
	if p.ClearActualTime {
		out.ActualTime = nil
	} else if p.ActualTime != nil {
		out.ActualTime = minutes(p.ActualTime)
	}
	if p.Dependencies != nil {
		out.Dependencies = append([]string{}, (*p.Dependencies)...)
	}
	if p.Status != nil {
		out.SetStatus(*p.Status, now)
	}
	out.UpdatedAt = now
	return out
}
