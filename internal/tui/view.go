package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/pomodoro"
	"github.com/existflow/taskmgr/internal/query"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)

	var body string
	switch m.view {
	case ViewCalendar:
		body = m.renderCalendar()
	case ViewTimer:
		body = m.renderTimer()
	default:
		body = m.renderTaskList()
	}
	body = lipgloss.NewStyle().Width(m.width).Height(bodyHeight).Render(body)

	switch m.mode {
	case ModeAddTask, ModeEditTask, ModeConfirmDelete:
		body = lipgloss.Place(
			m.width, bodyHeight,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	case ModeHelp:
		body = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func (m Model) renderHeader() string {
	tabs := []string{"Tasks", "Calendar", "Timer"}
	var parts []string
	for i, name := range tabs {
		style := TabStyle
		if View(i) == m.view {
			style = TabActiveStyle
		}
		parts = append(parts, style.Render(name))
	}

	counts := query.CountByStatus(m.allTasks)
	summary := HelpStyle.Render(fmt.Sprintf("%d todo · %d in progress · %d done",
		counts[model.StatusTodo], counts[model.StatusInProgress], counts[model.StatusDone]))

	left := HeaderStyle.Render("taskmgr") + strings.Join(parts, "")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(summary) - 1
	line := left + repeat(" ", gap) + summary

	if errText := m.store.Err(); errText != "" {
		banner := ErrorBannerStyle.Width(m.width).Render(truncate("⚠ "+errText, m.width-4) + "  (E to dismiss)")
		return lipgloss.JoinVertical(lipgloss.Left, line, banner)
	}
	return line
}

func (m Model) renderTaskList() string {
	width := m.width - 4
	var s string

	title := fmt.Sprintf("%s · sorted by %s (%d)",
		statusFilterLabel(statusFilters[m.statusFilter]), sortLabel(m.sortKey()), len(m.tasks))
	if m.filterText != "" {
		title += fmt.Sprintf(" · /%s", m.filterText)
	}
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", width-4)) + "\n\n"

	if len(m.tasks) == 0 {
		s += HelpStyle.Render("  No tasks. Press 'a' to add one.")
	}
	s += m.renderRows(m.tasks, width)

	if upcoming := query.Upcoming(m.allTasks, m.upcomingDays, m.store.Now()); len(upcoming) > 0 && m.filterText == "" {
		s += "\n" + HelpStyle.Render(fmt.Sprintf("Upcoming (%d days): ", m.upcomingDays))
		var titles []string
		for _, t := range upcoming {
			titles = append(titles, truncate(t.Title, 20))
		}
		s += HelpStyle.Render(strings.Join(titles, ", "))
	}

	return TaskListStyle.Width(m.width).Render(s)
}

func (m Model) renderRows(tasks []model.Task, width int) string {
	now := m.store.Now()
	contentWidth := max(width-44, 10)

	var s string
	for i, t := range tasks {
		cursor := "  "
		style := TaskItemStyle
		if i == m.cursor {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}
		if t.Status == model.StatusDone {
			style = TaskDoneStyle
		}

		due := ""
		if t.DueDate != nil {
			due = query.DueLabel(*t.DueDate, now)
			if t.IsOverdue(now) {
				due = OverdueStyle.Render(due)
			} else {
				due = HelpStyle.Render(due)
			}
		}
		recur := ""
		if t.Recurring.IsRecurring() {
			recur = " ↻"
		}

		row := style.Render(fmt.Sprintf("%s %-*s", cursor, contentWidth, truncate(t.Title, contentWidth)))
		s += FormatStatus(t.Status) + row + " " +
			FormatPriority(t.Priority) + " " +
			FormatCategory(t.Category) + recur + " " + due + "\n"
	}
	return s
}

func (m Model) renderCalendar() string {
	today := model.Today(m.store.Now())
	marks := query.Marks(m.allTasks, m.selected)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(m.selected.Format("January 2006")))
	b.WriteString("\n" + DayHeaderStyle.Render(" Su   Mo   Tu   We   Th   Fr   Sa") + "\n")

	for _, week := range query.MonthGrid(m.selected.Year(), m.selected.Month()) {
		for _, cell := range week {
			if cell == nil {
				b.WriteString("     ")
				continue
			}
			mark := marks[*cell]
			text := fmt.Sprintf("%2d", cell.Day())
			style := lipgloss.NewStyle()
			switch {
			case mark.Selected:
				style = DaySelectedStyle
			case cell.Equal(today):
				style = DayTodayStyle
			}
			dot := " "
			if len(mark.Dots) > 0 {
				// First dot carries the colour of the earliest task that day
				dot = lipgloss.NewStyle().Foreground(lipgloss.Color(mark.Dots[0])).Render("•")
			}
			b.WriteString(" " + style.Render(text) + dot + " ")
		}
		b.WriteString("\n")
	}

	day := query.ForDate(m.allTasks, m.selected)
	b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%s (%d)", m.selected.Format("Monday, January 2"), len(day))) + "\n")
	if len(day) == 0 {
		b.WriteString(HelpStyle.Render("  Nothing due. Press 'a' to add a task for this day."))
	}
	b.WriteString(m.renderRows(day, m.width-4))

	return TaskListStyle.Width(m.width).Render(b.String())
}

func (m Model) renderTimer() string {
	phase := m.timer.Phase()
	accent := lipgloss.Color(phase.Color())

	state := "paused"
	if m.timer.Running() {
		state = "running"
	} else if m.timer.Remaining() <= 0 {
		state = "finished"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(accent).Render(phase.Label()) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(pomodoro.FormatClock(m.timer.Remaining())) + "\n")
	b.WriteString(HelpStyle.Render(state) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(accent).Render(progressBar(m.timer.Progress(), 30)) + "\n\n")
	b.WriteString(fmt.Sprintf("Pomodoros: %d   Focus: %s   Long break in: %d\n",
		m.timer.Completed(), formatDuration(m.timer.Total()), m.timer.UntilLongBreak()))

	if t, ok := m.boundTask(); ok {
		logged := 0
		if t.ActualTime != nil {
			logged = *t.ActualTime
		}
		b.WriteString(HelpStyle.Render(fmt.Sprintf("\nWorking on: %s (%dm logged)", truncate(t.Title, 40), logged)))
	} else {
		b.WriteString(HelpStyle.Render("\nNo task bound. Press t on a task to time it."))
	}

	box := TimerBoxStyle.BorderForeground(accent).Render(b.String())
	return lipgloss.Place(m.width, lipgloss.Height(box)+2, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderStatusBar() string {
	// When in filter mode, show inline search input (like vim)
	if m.mode == ModeFilter {
		return StatusBarStyle.Width(m.width).Render(fmt.Sprintf("/%s [%d]", m.input.View(), len(m.tasks)))
	}

	text := m.help.ShortHelpView(keys.ShortHelp())
	if m.view == ViewTimer {
		text = m.help.ShortHelpView([]key.Binding{keys.Start, keys.Skip, keys.Extend, keys.Reset, keys.ResetAll, keys.Tab, keys.Quit})
	}
	if m.message != "" {
		text = m.message
	}
	return StatusBarStyle.Width(m.width).Render(text)
}

func (m Model) renderModal() string {
	if m.mode == ModeConfirmDelete {
		title := ""
		if t := m.currentTask(); t != nil {
			title = truncate(t.Title, 40)
		}
		content := lipgloss.NewStyle().Bold(true).Render("Delete Task") + "\n\n"
		content += title + "\n\n"
		content += HelpStyle.Render("y:delete  any other key:cancel")
		return ModalStyle.BorderForeground(Danger).Render(content)
	}

	title := "Add Task"
	if m.mode == ModeEditTask {
		title = "Edit Task"
	} else if m.view == ViewCalendar {
		title = fmt.Sprintf("Add Task due %s", m.selected.Format(query.DisplayDateLayout))
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Keyboard Shortcuts") + "\n\n"
	content += h.View(keys) + "\n\n"
	content += HelpStyle.Render("Calendar: J/K move a week. List: G jumps to the bottom.") + "\n"
	content += HelpStyle.Render("Press ? or Esc to close")
	return TaskListStyle.Render(content)
}

func formatDuration(d time.Duration) string {
	mins := int(d / time.Minute)
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh%02dm", mins/60, mins%60)
}
