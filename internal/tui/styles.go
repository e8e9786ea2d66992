package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/taskmgr/internal/model"
)

// Color palette
var (
	Primary   = lipgloss.Color("#4ECDC4")
	Danger    = lipgloss.Color("#FF6B6B")
	Surface   = lipgloss.Color("#16213e")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface).
			Bold(true).
			Padding(0, 1)

	TaskListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	OverdueStyle = lipgloss.NewStyle().Foreground(Danger).Bold(true)

	// Calendar cells
	DaySelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	DayTodayStyle    = lipgloss.NewStyle().Underline(true).Foreground(Primary)
	DayHeaderStyle   = lipgloss.NewStyle().Foreground(TextMuted)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(Text).
				Background(Danger).
				Bold(true).
				Padding(0, 1)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	TimerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 4).
			Align(lipgloss.Center)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// PriorityStyle returns the style for a priority badge
func PriorityStyle(p model.Priority) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color()))
	if p == model.PriorityHigh {
		s = s.Bold(true)
	}
	return s
}

// FormatPriority returns a short coloured priority badge
func FormatPriority(p model.Priority) string {
	label := "LOW"
	switch p {
	case model.PriorityHigh:
		label = "HIGH"
	case model.PriorityMedium:
		label = "MED"
	}
	return PriorityStyle(p).Render(label)
}

// FormatStatus returns the status icon used in task rows
func FormatStatus(s model.Status) string {
	icon := "[ ]"
	switch s {
	case model.StatusInProgress:
		icon = "[~]"
	case model.StatusDone:
		icon = "[x]"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color())).Render(icon)
}

// FormatCategory renders the category name in its colour
func FormatCategory(c model.Category) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color())).Render(c.Name())
}
