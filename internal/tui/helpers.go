package tui

import (
	"strings"

	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/query"
)

// truncate shortens s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}

func statusFilterLabel(s model.Status) string {
	if s == "" {
		return "All"
	}
	return s.Label()
}

func sortLabel(k query.SortKey) string {
	switch k {
	case query.SortPriority:
		return "Priority"
	case query.SortDueDate:
		return "Due date"
	case query.SortTitle:
		return "Title"
	default:
		return "Newest"
	}
}

// progressBar renders a fraction in [0,1] as a fixed-width bar
func progressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(fraction*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return repeat("█", filled) + repeat("░", width-filled)
}
