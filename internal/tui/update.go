package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/taskmgr/internal/logger"
	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/query"
)

// tickMsg is sent every second for the clock and the timer
type tickMsg time.Time

// refreshMsg is sent when the store reports a change
type refreshMsg struct{}

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForRefresh())
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForRefresh listens for store change signals
func (m Model) waitForRefresh() tea.Cmd {
	if m.refreshChan == nil {
		return nil
	}
	return func() tea.Msg {
		<-m.refreshChan
		return refreshMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.handleTick()
		return m, tickCmd()

	case refreshMsg:
		m.loadData()
		return m, m.waitForRefresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask, ModeEditTask:
			return m.updateInput(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeConfirmDelete:
			return m.updateConfirm(msg)
		case ModeHelp:
			if key.Matches(msg, keys.Escape, keys.Help, keys.Quit) {
				m.mode = ModeNormal
			}
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, keys.Quit):
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil
	case key.Matches(msg, keys.Tab):
		m.switchView((m.view + 1) % 3)
		return m, nil
	case key.Matches(msg, keys.Dismiss):
		m.store.ClearError()
		m.message = ""
		return m, nil
	}

	if m.view == ViewTimer {
		m.handleTimerKeys(msg)
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Escape):
		switch {
		case m.view != ViewList:
			m.switchView(ViewList)
		case m.filterText != "":
			m.filterText = ""
			m.applyFilter()
			m.message = "Filter cleared"
		}

	case key.Matches(msg, keys.Calendar):
		m.switchView(ViewCalendar)

	case key.Matches(msg, keys.Timer):
		if t := m.currentTask(); t != nil {
			m.timerTask = t.ID
		}
		m.switchView(ViewTimer)

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visibleTasks())-1 {
			m.cursor++
		}

	case m.view == ViewCalendar && key.Matches(msg, keys.Left):
		m.moveSelected(-1)

	case m.view == ViewCalendar && key.Matches(msg, keys.Right):
		m.moveSelected(1)

	case m.view == ViewCalendar && msg.String() == "K":
		m.moveSelected(-7)

	case m.view == ViewCalendar && msg.String() == "J":
		m.moveSelected(7)

	case m.view == ViewCalendar && key.Matches(msg, keys.Today):
		m.selected = model.Today(m.store.Now())
		m.cursor = 0

	case msg.String() == "G":
		m.cursor = max(len(m.visibleTasks())-1, 0)

	case key.Matches(msg, keys.Priority):
		m.handlePriority(msg.String())

	case key.Matches(msg, keys.Add):
		return m.startAddTask()

	case key.Matches(msg, keys.Edit):
		return m.startEditTask()

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		m.handleToggle()

	case key.Matches(msg, keys.Delete):
		if t := m.currentTask(); t != nil {
			m.mode = ModeConfirmDelete
		}

	case key.Matches(msg, keys.Search):
		return m.startFilter()

	case key.Matches(msg, keys.Status):
		m.statusFilter = (m.statusFilter + 1) % len(statusFilters)
		m.applyFilter()
		m.message = "Status: " + statusFilterLabel(statusFilters[m.statusFilter])

	case key.Matches(msg, keys.Sort):
		m.sortIndex = (m.sortIndex + 1) % len(query.SortKeys)
		m.applyFilter()
		m.message = "Sort: " + sortLabel(m.sortKey())
	}

	return m, nil
}

func (m *Model) switchView(v View) {
	m.view = v
	m.cursor = 0
	m.message = ""
	m.clampCursor()
}

func (m *Model) moveSelected(days int) {
	m.selected = m.selected.AddDays(days)
	m.cursor = 0
}

func (m *Model) handlePriority(k string) {
	t := m.currentTask()
	if t == nil {
		return
	}
	var p model.Priority
	switch k {
	case "1":
		p = model.PriorityHigh
	case "2":
		p = model.PriorityMedium
	default:
		p = model.PriorityLow
	}
	if t.Priority == p {
		return
	}
	if _, _, err := m.store.Update(context.Background(), t.ID, model.Patch{Priority: &p}); err != nil {
		m.message = fmt.Sprintf("Error: %v", err)
		return
	}
	m.loadData()
	m.message = fmt.Sprintf("Priority: %s", p)
}

func (m *Model) handleToggle() {
	t := m.currentTask()
	if t == nil {
		return
	}
	res, found, err := m.store.ToggleStatus(context.Background(), t.ID)
	if err != nil {
		m.message = fmt.Sprintf("Error: %v", err)
		return
	}
	if !found {
		return
	}
	m.loadData()
	m.message = fmt.Sprintf("%s → %s", truncate(res.Task.Title, 30), res.Task.Status.Label())
	if res.Sibling != nil && res.Sibling.DueDate != nil {
		m.message += fmt.Sprintf(" (next on %s)", res.Sibling.DueDate.Format(query.DisplayDateLayout))
	}
}

func (m Model) startAddTask() (tea.Model, tea.Cmd) {
	m.mode = ModeAddTask
	m.input.Placeholder = "Task title..."
	m.input.SetValue("")
	m.input.Focus()
	return m, nil
}

func (m Model) startEditTask() (tea.Model, tea.Cmd) {
	t := m.currentTask()
	if t == nil {
		return m, nil
	}
	m.mode = ModeEditTask
	m.input.SetValue(t.Title)
	m.input.CursorEnd()
	m.input.Focus()
	return m, nil
}

func (m Model) startFilter() (tea.Model, tea.Cmd) {
	m.mode = ModeFilter
	m.switchView(ViewList)
	m.input.Placeholder = "Search title or description..."
	m.input.SetValue(m.filterText)
	m.input.CursorEnd()
	m.input.Focus()
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := m.input.Value()
		mode := m.mode
		m.mode = ModeNormal
		m.input.Blur()
		if value == "" {
			return m, nil
		}

		ctx := context.Background()
		switch mode {
		case ModeAddTask:
			var opts model.Options
			if m.view == ViewCalendar {
				due := m.selected
				opts.DueDate = &due
			}
			t, err := m.store.Create(ctx, value, "", opts)
			if err != nil {
				m.message = fmt.Sprintf("Error adding task: %v", err)
				return m, nil
			}
			m.message = fmt.Sprintf("Added: %s", t.Title)
		case ModeEditTask:
			t := m.currentTask()
			if t == nil {
				return m, nil
			}
			if _, _, err := m.store.Update(ctx, t.ID, model.Patch{Title: &value}); err != nil {
				m.message = fmt.Sprintf("Error updating task: %v", err)
				return m, nil
			}
			m.message = fmt.Sprintf("Updated: %s", value)
		}

		m.loadData()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateFilter applies the search live as the user types
func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		m.filterText = ""
		m.applyFilter()
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.mode = ModeNormal
		m.input.Blur()
		if m.filterText != "" {
			m.message = fmt.Sprintf("%d matches for %q", len(m.tasks), m.filterText)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filterText = m.input.Value()
	m.cursor = 0
	m.applyFilter()
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if msg.String() != "y" && msg.String() != "Y" {
		m.message = "Delete cancelled"
		return m, nil
	}

	t := m.currentTask()
	if t == nil {
		return m, nil
	}
	if err := m.store.Delete(context.Background(), t.ID); err != nil {
		m.message = fmt.Sprintf("Error deleting task: %v", err)
		return m, nil
	}
	if m.timerTask == t.ID {
		m.timerTask = ""
	}
	m.loadData()
	m.message = fmt.Sprintf("Deleted: %s", truncate(t.Title, 40))
	return m, nil
}

func (m *Model) handleTimerKeys(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.switchView(ViewList)
	case key.Matches(msg, keys.Start):
		if m.timer.Remaining() <= 0 {
			// A finished break waits for the next work phase
			m.timer.StartWork()
			return
		}
		m.timer.Toggle()
	case key.Matches(msg, keys.Skip):
		m.timer.StartWork()
	case key.Matches(msg, keys.Extend):
		m.timer.ExtendBreak()
	case key.Matches(msg, keys.Reset):
		m.timer.Reset()
	case key.Matches(msg, keys.ResetAll):
		m.timer.ResetSession()
		m.message = "Session reset"
	}
}

// handleTick advances the pomodoro clock and credits finished work phases
func (m *Model) handleTick() {
	ev, ok := m.timer.Tick(time.Second)
	if !ok {
		return
	}
	if ev.Phase.IsBreak() {
		m.message = "Break over. Press space to start working."
		return
	}

	m.message = fmt.Sprintf("Pomodoro #%d done. Time for a %s.", ev.Completed, ev.Next.Label())
	t, bound := m.boundTask()
	if !bound {
		return
	}
	if _, _, err := m.store.LogTime(context.Background(), t.ID, ev.WorkMinutes); err != nil {
		logger.Error("Failed to log pomodoro time", logger.F("task", t.ID), logger.F("error", err))
		m.message = fmt.Sprintf("Error logging time: %v", err)
		return
	}
	logger.Info("Pomodoro logged", logger.F("task", t.ID), logger.F("minutes", ev.WorkMinutes))
	m.message += fmt.Sprintf(" Logged %dm to %s.", ev.WorkMinutes, truncate(t.Title, 30))
	m.loadData()
}
