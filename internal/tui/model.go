package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/taskmgr/internal/logger"
	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/pomodoro"
	"github.com/existflow/taskmgr/internal/query"
	"github.com/existflow/taskmgr/internal/store"
)

// View is the screen shown in the main area
type View int

const (
	ViewList View = iota
	ViewCalendar
	ViewTimer
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeEditTask
	ModeFilter
	ModeConfirmDelete
	ModeHelp
)

// Options configure a new Model
type Options struct {
	DefaultSort  string
	UpcomingDays int
	Timer        pomodoro.Durations
	StartView    View
	// TimerTaskID receives logged pomodoro minutes when set
	TimerTaskID string
}

// statusFilters is the cycle used by the status filter key; "" shows all
var statusFilters = []model.Status{"", model.StatusTodo, model.StatusInProgress, model.StatusDone}

// Model is the main TUI model
type Model struct {
	store    *store.Store
	tasks    []model.Task // visible list after filter and sort
	allTasks []model.Task

	unsubscribe func()
	refreshChan chan struct{} // signalled by the store listener

	// UI state
	width  int
	height int
	view   View
	mode   Mode
	cursor int

	input textinput.Model
	help  help.Model

	// Filter
	filterText   string
	statusFilter int
	sortIndex    int
	upcomingDays int

	// Calendar
	selected model.Date

	// Pomodoro
	timer     *pomodoro.Session
	timerTask string

	message string
}

// NewModel creates a new TUI model over a loaded store
func NewModel(s *store.Store, opts Options) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Task title..."
	ti.CharLimit = 256
	ti.Width = 50

	durations := opts.Timer
	if durations.Work <= 0 {
		durations = pomodoro.DefaultDurations()
	}
	days := opts.UpcomingDays
	if days <= 0 {
		days = 7
	}

	m := Model{
		store:        s,
		view:         opts.StartView,
		mode:         ModeNormal,
		input:        ti,
		help:         help.New(),
		sortIndex:    sortIndexOf(query.ParseSortKey(opts.DefaultSort)),
		upcomingDays: days,
		selected:     model.Today(s.Now()),
		timer:        pomodoro.New(durations),
		timerTask:    opts.TimerTaskID,
		refreshChan:  make(chan struct{}, 1), // Buffered to avoid blocking
	}

	// Store changes from any writer trigger a reload
	refresh := m.refreshChan
	m.unsubscribe = s.Subscribe(func([]model.Task) {
		select {
		case refresh <- struct{}{}:
		default:
		}
	})

	m.loadData()
	logger.Debug("TUI model initialized", logger.F("tasks", len(m.allTasks)))
	return m
}

func (m *Model) loadData() {
	m.allTasks = m.store.Tasks()
	m.applyFilter()
}

// filters returns the list filters for the current UI state
func (m *Model) filters() query.Filters {
	f := query.Filters{Search: m.filterText}
	if st := statusFilters[m.statusFilter]; st != "" {
		f.Status = []model.Status{st}
	}
	return f
}

func (m *Model) sortKey() query.SortKey {
	return query.SortKeys[m.sortIndex]
}

func (m *Model) applyFilter() {
	m.tasks = query.View(m.allTasks, m.filters(), m.sortKey(), m.store.Now())
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.visibleTasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// visibleTasks returns the rows the cursor moves over in the current view
func (m *Model) visibleTasks() []model.Task {
	if m.view == ViewCalendar {
		return query.ForDate(m.allTasks, m.selected)
	}
	return m.tasks
}

func (m *Model) currentTask() *model.Task {
	rows := m.visibleTasks()
	if m.cursor >= 0 && m.cursor < len(rows) {
		t := rows[m.cursor]
		return &t
	}
	return nil
}

// boundTask returns the task credited by the pomodoro timer, if any
func (m *Model) boundTask() (model.Task, bool) {
	if m.timerTask == "" {
		return model.Task{}, false
	}
	return m.store.Get(m.timerTask)
}

func sortIndexOf(k query.SortKey) int {
	for i, key := range query.SortKeys {
		if key == k {
			return i
		}
	}
	return 0
}
