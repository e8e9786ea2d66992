package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/pomodoro"
	"github.com/existflow/taskmgr/internal/storage"
	"github.com/existflow/taskmgr/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

type brokenWrites struct {
	*storage.Memory
	fail bool
}

func (b *brokenWrites) Put(ctx context.Context, entries map[string][]byte) error {
	if b.fail {
		return errors.New("disk full")
	}
	return b.Memory.Put(ctx, entries)
}

func newTestStore(t *testing.T) (*store.Store, *brokenWrites) {
	t.Helper()
	backend := &brokenWrites{Memory: storage.NewMemory()}
	require.NoError(t, backend.Put(context.Background(), map[string][]byte{store.SampleDataKey: []byte("true")}))

	n := 0
	s := store.New(backend,
		store.WithClock(func() time.Time { return testNow }),
		store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%02d", n)
		}),
	)
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s, backend
}

func newTestModel(t *testing.T, s *store.Store, opts Options) Model {
	t.Helper()
	m := NewModel(s, opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

func TestNewModelLoadsTasks(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Create(context.Background(), "One", "", model.Options{})
	require.NoError(t, err)
	_, err = s.Create(context.Background(), "Two", "", model.Options{})
	require.NoError(t, err)

	m := newTestModel(t, s, Options{})
	assert.Len(t, m.tasks, 2)
	assert.Contains(t, m.View(), "One")
}

func TestAddTask(t *testing.T) {
	s, _ := newTestStore(t)
	m := newTestModel(t, s, Options{})

	m = press(m, "a")
	require.Equal(t, ModeAddTask, m.mode)
	m = typeText(m, "Buy milk")
	m = press(m, "enter")

	assert.Equal(t, ModeNormal, m.mode)
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Len(t, m.tasks, 1)
}

func TestAddEmptyTitleIsIgnored(t *testing.T) {
	s, _ := newTestStore(t)
	m := newTestModel(t, s, Options{})

	m = press(m, "a", "enter")
	assert.Empty(t, s.Tasks())
	assert.Empty(t, s.Err())
}

func TestEditTitle(t *testing.T) {
	s, _ := newTestStore(t)
	task, err := s.Create(context.Background(), "Old", "", model.Options{})
	require.NoError(t, err)
	m := newTestModel(t, s, Options{})

	m = press(m, "e")
	m = typeText(m, " name")
	press(m, "enter")

	got, ok := s.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Old name", got.Title)
}

func TestToggleAdvancesStatus(t *testing.T) {
	s, _ := newTestStore(t)
	task, err := s.Create(context.Background(), "Write report", "", model.Options{})
	require.NoError(t, err)
	m := newTestModel(t, s, Options{})

	m = press(m, "x")
	got, _ := s.Get(task.ID)
	assert.Equal(t, model.StatusInProgress, got.Status)

	press(m, "x")
	got, _ = s.Get(task.ID)
	assert.Equal(t, model.StatusDone, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestToggleRecurringSpawnsSibling(t *testing.T) {
	s, _ := newTestStore(t)
	due := model.NewDate(2024, time.March, 15)
	_, err := s.Create(context.Background(), "Water plants", "", model.Options{
		Status:    model.StatusInProgress,
		DueDate:   &due,
		Recurring: model.RecurWeekly,
	})
	require.NoError(t, err)
	m := newTestModel(t, s, Options{})

	m = press(m, "x")
	assert.Len(t, s.Tasks(), 2)
	assert.Contains(t, m.message, "Mar 22, 2024")
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Create(context.Background(), "Scratch", "", model.Options{})
	require.NoError(t, err)
	m := newTestModel(t, s, Options{})

	m = press(m, "d")
	require.Equal(t, ModeConfirmDelete, m.mode)
	m = press(m, "n")
	assert.Len(t, s.Tasks(), 1)

	press(m, "d", "y")
	assert.Empty(t, s.Tasks())
}

func TestStatusFilterAndSearch(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	_, err := s.Create(ctx, "Buy groceries", "", model.Options{})
	require.NoError(t, err)
	_, err = s.Create(ctx, "Ship release", "", model.Options{Status: model.StatusDone})
	require.NoError(t, err)
	m := newTestModel(t, s, Options{})

	m = press(m, "f")
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "Buy groceries", m.tasks[0].Title)

	// Back to all
	m = press(m, "f", "f", "f")
	require.Len(t, m.tasks, 2)

	m = press(m, "/")
	m = typeText(m, "ship")
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "Ship release", m.tasks[0].Title)

	m = press(m, "esc")
	assert.Len(t, m.tasks, 2)
}

func TestSortCycles(t *testing.T) {
	s, _ := newTestStore(t)
	m := newTestModel(t, s, Options{DefaultSort: "priority"})
	assert.Equal(t, "priority", string(m.sortKey()))

	m = press(m, "s")
	assert.Equal(t, "dueDate", string(m.sortKey()))
}

func TestCalendarAddUsesSelectedDay(t *testing.T) {
	s, _ := newTestStore(t)
	m := newTestModel(t, s, Options{})

	m = press(m, "c", "l")
	require.Equal(t, ViewCalendar, m.view)
	assert.Equal(t, model.NewDate(2024, time.March, 16), m.selected)

	m = press(m, "a")
	m = typeText(m, "Picnic")
	m = press(m, "enter")

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, "2024-03-16", tasks[0].DueDate.String())
	assert.Len(t, m.visibleTasks(), 1)
	assert.Contains(t, m.View(), "March 2024")
}

func TestTimerLogsFinishedWorkPhase(t *testing.T) {
	s, _ := newTestStore(t)
	task, err := s.Create(context.Background(), "Deep work", "", model.Options{})
	require.NoError(t, err)

	d := pomodoro.DefaultDurations()
	d.Work = time.Minute
	m := newTestModel(t, s, Options{Timer: d, StartView: ViewTimer, TimerTaskID: task.ID})

	m = press(m, " ")
	require.True(t, m.timer.Running())
	for i := 0; i < 60; i++ {
		next, _ := m.Update(tickMsg(testNow))
		m = next.(Model)
	}

	assert.Equal(t, 1, m.timer.Completed())
	assert.Equal(t, pomodoro.ShortBreak, m.timer.Phase())
	got, _ := s.Get(task.ID)
	require.NotNil(t, got.ActualTime)
	assert.Equal(t, 1, *got.ActualTime)
	assert.Contains(t, m.View(), "Deep work")
}

func TestErrorBannerDismiss(t *testing.T) {
	s, backend := newTestStore(t)
	m := newTestModel(t, s, Options{})

	backend.fail = true
	m = press(m, "a")
	m = typeText(m, "Lost")
	m = press(m, "enter")

	require.NotEmpty(t, s.Err())
	assert.Contains(t, m.View(), "disk full")

	m = press(m, "E")
	assert.Empty(t, s.Err())
	assert.NotContains(t, m.View(), "disk full")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel...", truncate("hello world", 6))
	assert.Equal(t, "日本語...", truncate("日本語のテキスト", 6))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░", progressBar(0, 4))
	assert.Equal(t, "██░░", progressBar(0.5, 4))
	assert.Equal(t, "████", progressBar(1.5, 4))
}
