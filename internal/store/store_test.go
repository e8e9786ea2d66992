package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/query"
	"github.com/existflow/taskmgr/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

// flakyBackend wraps memory storage and fails writes on demand
type flakyBackend struct {
	*storage.Memory
	mu        sync.Mutex
	failPut   bool
	failGet   bool
	putCalls  int
	lastBatch []string
}

func newFlaky() *flakyBackend {
	return &flakyBackend{Memory: storage.NewMemory()}
}

func (f *flakyBackend) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, errors.New("disk on fire")
	}
	return f.Memory.Get(ctx, key)
}

func (f *flakyBackend) Put(ctx context.Context, entries map[string][]byte) error {
	f.mu.Lock()
	f.putCalls++
	f.lastBatch = f.lastBatch[:0]
	for k := range entries {
		f.lastBatch = append(f.lastBatch, k)
	}
	fail := f.failPut
	f.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return f.Memory.Put(ctx, entries)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
}

func newStore(t *testing.T, backend storage.Backend) *Store {
	t.Helper()
	return New(backend,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(sequentialIDs()),
	)
}

// emptyStore returns a loaded store with the sample data already consumed
func emptyStore(t *testing.T) (*Store, *flakyBackend) {
	t.Helper()
	backend := newFlaky()
	require.NoError(t, backend.Memory.Put(context.Background(), map[string][]byte{SampleDataKey: []byte("true")}))
	s := newStore(t, backend)
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s, backend
}

func TestLoadSeedsOnce(t *testing.T) {
	ctx := context.Background()
	backend := newFlaky()

	s := newStore(t, backend)
	tasks, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 12)
	assert.Equal(t, 1, backend.putCalls)
	assert.ElementsMatch(t, []string{TasksKey, SampleDataKey}, backend.lastBatch)

	marker, err := backend.Memory.Get(ctx, SampleDataKey)
	require.NoError(t, err)
	assert.Equal(t, "true", string(marker))

	for _, task := range tasks {
		require.NoError(t, s.Delete(ctx, task.ID))
	}

	reloaded := newStore(t, backend)
	tasks, err = reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)
}

func TestLoadMarkerWithoutTasksStartsEmpty(t *testing.T) {
	s, backend := emptyStore(t)
	assert.Empty(t, s.Tasks())
	assert.Equal(t, 0, backend.putCalls)
}

func TestLoadReadFailureKeepsCollection(t *testing.T) {
	ctx := context.Background()
	s, backend := emptyStore(t)
	_, err := s.Create(ctx, "Keep me", "", model.Options{})
	require.NoError(t, err)

	backend.failGet = true
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrStorageRead)
	assert.Len(t, s.Tasks(), 1)
	assert.NotEmpty(t, s.Err())
}

func TestLoadLegacyArray(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	legacy := `[{"id":"a","title":"Old","status":"todo","priority":"high","category":"gardening","dueDate":"2024-03-01T00:00:00.000Z"}]`
	require.NoError(t, backend.Put(ctx, map[string][]byte{TasksKey: []byte(legacy)}))

	s := newStore(t, backend)
	tasks, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.CategoryOther, tasks[0].Category)
	assert.Equal(t, model.RecurNone, tasks[0].Recurring)
	assert.Equal(t, "2024-03-01", tasks[0].DueDate.String())
	assert.NotNil(t, tasks[0].Tags)

	// next write upgrades the layout
	_, _, err = s.Update(ctx, "a", model.Patch{})
	require.NoError(t, err)
	data, err := backend.Get(ctx, TasksKey)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, "1", string(doc["version"]))
}

func TestLoadRepairsCompletedAt(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	stored := `{"version":1,"tasks":[
		{"id":"done","title":"Finished","status":"done","updatedAt":"2024-03-10T08:00:00Z","completedAt":null},
		{"id":"open","title":"Open","status":"todo","completedAt":"2024-03-09T08:00:00Z"}
	]}`
	require.NoError(t, backend.Put(ctx, map[string][]byte{TasksKey: []byte(stored)}))

	s := newStore(t, backend)
	_, err := s.Load(ctx)
	require.NoError(t, err)

	done, ok := s.Get("done")
	require.True(t, ok)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(done.UpdatedAt))

	open, ok := s.Get("open")
	require.True(t, ok)
	assert.Nil(t, open.CompletedAt)
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Put(ctx, map[string][]byte{TasksKey: []byte(`{"version":99,"tasks":[]}`)}))

	_, err := newStore(t, backend).Load(ctx)
	assert.ErrorIs(t, err, ErrStorageRead)
}

func TestSearchSampleData(t *testing.T) {
	s := newStore(t, storage.NewMemory())
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	got := s.Query(query.Filters{Search: "groc"}, "")
	require.Len(t, got, 1)
	assert.Equal(t, "Weekly grocery shopping", got[0].Title)
}

func TestSampleDataShape(t *testing.T) {
	tasks := SampleTasks(testNow, sequentialIDs())
	today := model.Today(testNow)

	byTitle := map[string]model.Task{}
	for _, task := range tasks {
		byTitle[task.Title] = task
		if task.Status == model.StatusDone {
			assert.NotNil(t, task.CompletedAt, task.Title)
		} else {
			assert.Nil(t, task.CompletedAt, task.Title)
		}
	}

	assert.Equal(t, today, *byTitle["Review project proposal"].DueDate)
	assert.Equal(t, today.AddDays(-7), *byTitle["Morning workout"].DueDate)
	assert.Equal(t, model.RecurWeekly, byTitle["Weekly grocery shopping"].Recurring)
	assert.Nil(t, byTitle["Plan weekend trip"].DueDate)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s, backend := emptyStore(t)

	due := model.MustParseDate("2024-03-20")
	created, err := s.Create(ctx, "Write report", "quarterly", model.Options{
		Priority: model.PriorityHigh,
		DueDate:  &due,
		Tags:     []string{"work", "work", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "id-01", created.ID)
	assert.Equal(t, model.StatusTodo, created.Status)
	assert.Equal(t, []string{"work"}, created.Tags)
	assert.Equal(t, testNow, created.CreatedAt)

	got, ok := s.Get("id-01")
	require.True(t, ok)
	assert.Equal(t, created, got)
	assert.Equal(t, 1, backend.putCalls)
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	s, backend := emptyStore(t)

	_, err := s.Create(context.Background(), "   ", "", model.Options{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, s.Tasks())
	assert.Equal(t, 0, backend.putCalls)
	assert.Contains(t, s.Err(), "title")
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	created, err := s.Create(ctx, "Draft", "", model.Options{})
	require.NoError(t, err)

	title := "Final"
	priority := model.PriorityLow
	updated, found, err := s.Update(ctx, created.ID, model.Patch{Title: &title, Priority: &priority})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, model.PriorityLow, updated.Priority)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	s, backend := emptyStore(t)
	title := "x"

	_, found, err := s.Update(context.Background(), "missing", model.Patch{Title: &title})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, backend.putCalls)
}

func TestUpdateStatusDoesNotSpawn(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	created, err := s.Create(ctx, "Water plants", "", model.Options{Recurring: model.RecurDaily})
	require.NoError(t, err)

	done := model.StatusDone
	updated, _, err := s.Update(ctx, created.ID, model.Patch{Status: &done})
	require.NoError(t, err)
	assert.NotNil(t, updated.CompletedAt)
	assert.Len(t, s.Tasks(), 1)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	s, backend := emptyStore(t)
	_, err := s.Create(ctx, "Only", "", model.Options{})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "missing"))
	assert.Len(t, s.Tasks(), 1)
	assert.Equal(t, 1, backend.putCalls)
}

func TestDeleteMatching(t *testing.T) {
	ctx := context.Background()
	s, backend := emptyStore(t)
	for _, status := range []model.Status{model.StatusDone, model.StatusTodo, model.StatusDone} {
		_, err := s.Create(ctx, "t", "", model.Options{Status: status})
		require.NoError(t, err)
	}

	n, err := s.DeleteMatching(ctx, func(task model.Task) bool { return task.IsDone() })
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, s.Tasks(), 1)

	n, err = s.DeleteMatching(ctx, func(task model.Task) bool { return task.IsDone() })
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 4, backend.putCalls)
}

func TestToggleWeeklySpawnsSibling(t *testing.T) {
	ctx := context.Background()
	s, backend := emptyStore(t)
	due := model.MustParseDate("2024-03-15")
	created, err := s.Create(ctx, "Groceries", "", model.Options{Recurring: model.RecurWeekly, DueDate: &due})
	require.NoError(t, err)

	res, found, err := s.ToggleStatus(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.StatusInProgress, res.Task.Status)
	assert.Nil(t, res.Sibling)

	res, _, err = s.ToggleStatus(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, res.Task.Status)
	require.NotNil(t, res.Task.CompletedAt)
	require.NotNil(t, res.Sibling)
	assert.Equal(t, "2024-03-22", res.Sibling.DueDate.String())
	assert.Equal(t, model.StatusTodo, res.Sibling.Status)
	assert.Nil(t, res.Sibling.CompletedAt)
	assert.NotEqual(t, created.ID, res.Sibling.ID)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, res.Sibling.ID, tasks[1].ID)
	// create + two toggles, the sibling rides along with the second
	assert.Equal(t, 3, backend.putCalls)
}

func TestToggleMonthlyClampsDay(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	due := model.MustParseDate("2024-01-31")
	created, err := s.Create(ctx, "Pay rent", "", model.Options{
		Recurring: model.RecurMonthly, DueDate: &due, Status: model.StatusInProgress,
	})
	require.NoError(t, err)

	res, _, err := s.ToggleStatus(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Sibling)
	assert.Equal(t, "2024-02-29", res.Sibling.DueDate.String())
}

func TestToggleDoneGoesBackToTodo(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	created, err := s.Create(ctx, "Finished", "", model.Options{Status: model.StatusDone})
	require.NoError(t, err)

	res, _, err := s.ToggleStatus(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTodo, res.Task.Status)
	assert.Nil(t, res.Task.CompletedAt)
	assert.Nil(t, res.Sibling)
}

func TestToggleUnknownID(t *testing.T) {
	s, _ := emptyStore(t)
	_, found, err := s.ToggleStatus(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPersistFailureLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	s, backend := emptyStore(t)
	due := model.MustParseDate("2024-03-15")
	created, err := s.Create(ctx, "Stable", "", model.Options{
		Recurring: model.RecurDaily, DueDate: &due, Status: model.StatusInProgress,
	})
	require.NoError(t, err)
	before := s.Tasks()

	backend.failPut = true

	_, err = s.Create(ctx, "Lost", "", model.Options{})
	assert.ErrorIs(t, err, ErrStorageWrite)

	_, _, err = s.ToggleStatus(ctx, created.ID)
	assert.ErrorIs(t, err, ErrStorageWrite)

	err = s.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrStorageWrite)

	assert.Equal(t, before, s.Tasks())
	assert.Contains(t, s.Err(), "disk full")

	s.ClearError()
	assert.Empty(t, s.Err())
}

func TestLogTime(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	created, err := s.Create(ctx, "Focus", "", model.Options{})
	require.NoError(t, err)

	updated, found, err := s.LogTime(ctx, created.ID, 25)
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, updated.ActualTime)
	assert.Equal(t, 25, *updated.ActualTime)

	updated, _, err = s.LogTime(ctx, created.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 50, *updated.ActualTime)

	_, _, err = s.LogTime(ctx, created.ID, -5)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, backend := emptyStore(t)

	var got [][]model.Task
	unsubscribe := s.Subscribe(func(tasks []model.Task) {
		got = append(got, tasks)
	})

	_, err := s.Create(ctx, "One", "", model.Options{})
	require.NoError(t, err)
	_, err = s.Create(ctx, "Two", "", model.Options{})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Len(t, got[1], 2)

	backend.failPut = true
	_, err = s.Create(ctx, "Three", "", model.Options{})
	require.Error(t, err)
	assert.Len(t, got, 2, "failed writes must not notify")

	backend.failPut = false
	unsubscribe()
	_, err = s.Create(ctx, "Four", "", model.Options{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSubscriberSnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)

	s.Subscribe(func(tasks []model.Task) {
		for i := range tasks {
			tasks[i].Title = "mutated"
		}
	})
	created, err := s.Create(ctx, "Original", "", model.Options{})
	require.NoError(t, err)

	got, _ := s.Get(created.ID)
	assert.Equal(t, "Original", got.Title)
}

func TestQueryAndHelpers(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	yesterday := model.Today(testNow).AddDays(-1)
	tomorrow := model.Today(testNow).AddDays(1)

	_, err := s.Create(ctx, "Late", "", model.Options{DueDate: &yesterday, Priority: model.PriorityLow})
	require.NoError(t, err)
	_, err = s.Create(ctx, "Soon", "", model.Options{DueDate: &tomorrow, Priority: model.PriorityHigh})
	require.NoError(t, err)
	_, err = s.Create(ctx, "Done late", "", model.Options{DueDate: &yesterday, Status: model.StatusDone})
	require.NoError(t, err)

	sorted := s.Query(query.Filters{}, query.SortPriority)
	require.Len(t, sorted, 3)
	assert.Equal(t, "Soon", sorted[0].Title)

	assert.Len(t, s.Overdue(), 1)
	assert.Len(t, s.Upcoming(3), 1)
	assert.Len(t, s.ByStatus(model.StatusDone), 1)
	assert.Len(t, s.ForDate(yesterday), 2)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	s, _ := emptyStore(t)
	for _, title := range []string{"a", "b"} {
		_, err := s.Create(ctx, title, "", model.Options{})
		require.NoError(t, err)
	}

	got, err := s.Resolve("id-02")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)

	_, err = s.Resolve("id-0")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = s.Resolve("zzz")
	assert.ErrorContains(t, err, "not found")
}

func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Put(ctx, map[string][]byte{SampleDataKey: []byte("true")}))

	var idMu sync.Mutex
	n := 0
	s := New(backend, WithIDGenerator(func() string {
		idMu.Lock()
		defer idMu.Unlock()
		n++
		return fmt.Sprintf("c-%d", n)
	}))
	_, err := s.Load(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(ctx, fmt.Sprintf("task %d", i), "", model.Options{})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	reloaded := New(backend)
	tasks, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 20)
	for _, task := range tasks {
		assert.True(t, strings.HasPrefix(task.ID, "c-"))
	}
}
