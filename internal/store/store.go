// Package store owns the authoritative task collection. Every mutation
// runs read-modify-persist-swap under one lock and writes the whole
// collection back in a single Put.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/existflow/taskmgr/internal/lifecycle"
	"github.com/existflow/taskmgr/internal/logger"
	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/query"
	"github.com/existflow/taskmgr/internal/storage"
	"github.com/google/uuid"
)

// Listener receives a snapshot of the collection after each change
type Listener func(tasks []model.Task)

// Store is the single source of truth for tasks
type Store struct {
	backend storage.Backend
	now     func() time.Time
	newID   func() string

	mu    sync.Mutex
	tasks []model.Task

	errMu   sync.RWMutex
	lastErr string

	subMu     sync.Mutex
	listeners map[int]Listener
	nextSub   int
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the uuid generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates a store over backend. Call Load before using it.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		tasks:     []model.Task{},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted collection. On first run it seeds sample
// tasks and the marker together; once the marker exists seeding never
// happens again.
func (s *Store) Load(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()

	data, err := s.backend.Get(ctx, TasksKey)
	switch {
	case err == nil:
		tasks, decErr := decodeTasks(data)
		if decErr != nil {
			s.mu.Unlock()
			return nil, s.fail(fmt.Errorf("%w: %v", ErrStorageRead, decErr))
		}
		s.tasks = tasks
		logger.Info("Tasks loaded", logger.F("count", len(tasks)))

	case errors.Is(err, storage.ErrNotFound):
		seeded, seedErr := s.seedLocked(ctx)
		if seedErr != nil {
			s.mu.Unlock()
			return nil, s.fail(seedErr)
		}
		if !seeded {
			s.tasks = []model.Task{}
		}

	default:
		s.mu.Unlock()
		return nil, s.fail(fmt.Errorf("%w: %v", ErrStorageRead, err))
	}

	snapshot := cloneAll(s.tasks)
	s.mu.Unlock()

	s.notify(snapshot)
	return cloneAll(snapshot), nil
}

// seedLocked writes sample data when the marker is absent
func (s *Store) seedLocked(ctx context.Context) (bool, error) {
	_, err := s.backend.Get(ctx, SampleDataKey)
	if err == nil {
		logger.Debug("Sample data already loaded once, starting empty")
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	tasks := SampleTasks(s.now(), s.newID)
	data, err := encodeTasks(tasks)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := s.backend.Put(ctx, map[string][]byte{
		TasksKey:      data,
		SampleDataKey: []byte("true"),
	}); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	s.tasks = tasks
	logger.Info("Seeded sample tasks", logger.F("count", len(tasks)))
	return true, nil
}

// Create builds a task, appends it and persists the collection
func (s *Store) Create(ctx context.Context, title, description string, opts model.Options) (model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return model.Task{}, s.fail(fmt.Errorf("%w: title is required", ErrValidation))
	}

	var created model.Task
	err := s.mutate(ctx, "create", func(tasks []model.Task) ([]model.Task, bool) {
		created = model.NewTask(s.newID(), title, description, opts, s.now())
		return append(tasks, created), true
	})
	if err != nil {
		return model.Task{}, err
	}
	logger.Info("Task created", logger.F("id", created.ID), logger.F("title", created.Title))
	return created.Clone(), nil
}

// Update merges patch onto the task with id. An unknown id is a silent
// no-op reported as false.
func (s *Store) Update(ctx context.Context, id string, patch model.Patch) (model.Task, bool, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Task{}, false, s.fail(fmt.Errorf("%w: title is required", ErrValidation))
	}

	var updated model.Task
	found := false
	err := s.mutate(ctx, "update", func(tasks []model.Task) ([]model.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 {
			return tasks, false
		}
		found = true
		updated = patch.Apply(tasks[i], s.now())
		tasks[i] = updated
		return tasks, true
	})
	if err != nil || !found {
		return model.Task{}, false, err
	}
	logger.Debug("Task updated", logger.F("id", id))
	return updated.Clone(), true, nil
}

// Delete removes the task with id; unknown ids are ignored
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.mutate(ctx, "delete", func(tasks []model.Task) ([]model.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 {
			return tasks, false
		}
		return append(tasks[:i], tasks[i+1:]...), true
	})
	if err == nil {
		logger.Debug("Task deleted", logger.F("id", id))
	}
	return err
}

// DeleteMatching removes every task for which match returns true and
// reports how many went
func (s *Store) DeleteMatching(ctx context.Context, match func(model.Task) bool) (int, error) {
	removed := 0
	err := s.mutate(ctx, "delete matching", func(tasks []model.Task) ([]model.Task, bool) {
		kept := tasks[:0]
		for _, t := range tasks {
			if match(t) {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		return kept, removed > 0
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Info("Tasks deleted", logger.F("count", removed))
	}
	return removed, nil
}

// ToggleStatus advances the task one status step. Completing a recurring
// task appends its next occurrence in the same write.
func (s *Store) ToggleStatus(ctx context.Context, id string) (lifecycle.Result, bool, error) {
	var res lifecycle.Result
	found := false
	err := s.mutate(ctx, "toggle", func(tasks []model.Task) ([]model.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 {
			return tasks, false
		}
		found = true
		res = lifecycle.Toggle(tasks[i], s.now(), s.newID)
		tasks[i] = res.Task
		if res.Sibling != nil {
			tasks = append(tasks, *res.Sibling)
		}
		return tasks, true
	})
	if err != nil || !found {
		return lifecycle.Result{}, false, err
	}

	fields := []logger.Field{logger.F("id", id), logger.F("status", res.Task.Status)}
	if res.Sibling != nil {
		fields = append(fields, logger.F("next", res.Sibling.ID), logger.F("next_due", res.Sibling.DueDate))
	}
	logger.Info("Task status toggled", fields...)
	return cloneResult(res), true, nil
}

// LogTime adds minutes to the task's actual time
func (s *Store) LogTime(ctx context.Context, id string, minutes int) (model.Task, bool, error) {
	if minutes < 0 {
		return model.Task{}, false, s.fail(fmt.Errorf("%w: minutes must not be negative", ErrValidation))
	}

	var updated model.Task
	found := false
	err := s.mutate(ctx, "log time", func(tasks []model.Task) ([]model.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 {
			return tasks, false
		}
		found = true
		total := minutes
		if tasks[i].ActualTime != nil {
			total += *tasks[i].ActualTime
		}
		updated = model.Patch{ActualTime: &total}.Apply(tasks[i], s.now())
		tasks[i] = updated
		return tasks, true
	})
	if err != nil || !found {
		return model.Task{}, false, err
	}
	logger.Info("Time logged", logger.F("id", id), logger.F("minutes", minutes))
	return updated.Clone(), true, nil
}

// Query returns a filtered, sorted view of the current collection
func (s *Store) Query(f query.Filters, key query.SortKey) []model.Task {
	return query.View(s.Tasks(), f, key, s.now())
}

// Tasks returns a copy of the whole collection in insertion order
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.tasks)
}

// Get returns the task with id
func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.tasks, id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// Resolve finds a task by full id or unique id prefix
func (s *Store) Resolve(ref string) (model.Task, error) {
	if t, ok := s.Get(ref); ok {
		return t, nil
	}
	if ref == "" {
		return model.Task{}, fmt.Errorf("task not found: %q", ref)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var match *model.Task
	for i := range s.tasks {
		if strings.HasPrefix(s.tasks[i].ID, ref) {
			if match != nil {
				return model.Task{}, fmt.Errorf("task id %q is ambiguous", ref)
			}
			match = &s.tasks[i]
		}
	}
	if match == nil {
		return model.Task{}, fmt.Errorf("task not found: %s", ref)
	}
	return match.Clone(), nil
}

// ByStatus lists tasks in one status
func (s *Store) ByStatus(status model.Status) []model.Task {
	return query.ByStatus(s.Tasks(), status)
}

// Overdue lists open tasks past their due date
func (s *Store) Overdue() []model.Task {
	return query.Overdue(s.Tasks(), s.now())
}

// Upcoming lists open tasks due within days
func (s *Store) Upcoming(days int) []model.Task {
	return query.Upcoming(s.Tasks(), days, s.now())
}

// ForDate lists tasks due on d
func (s *Store) ForDate(d model.Date) []model.Task {
	return query.ForDate(s.Tasks(), d)
}

// Now returns the store clock
func (s *Store) Now() time.Time {
	return s.now()
}

// Subscribe registers fn for change notifications; call the returned
// func to stop.
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.listeners, id)
	}
}

// Err returns the latest error message, or "" when there is none
func (s *Store) Err() string {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.lastErr
}

// ClearError resets the error signal
func (s *Store) ClearError() {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	s.lastErr = ""
}

// mutate applies fn to a working copy and swaps it in only after a
// successful write. fn reports false when nothing changed.
func (s *Store) mutate(ctx context.Context, op string, fn func([]model.Task) ([]model.Task, bool)) error {
	s.mu.Lock()

	next, changed := fn(cloneAll(s.tasks))
	if !changed {
		s.mu.Unlock()
		return nil
	}

	data, err := encodeTasks(next)
	if err == nil {
		err = s.backend.Put(ctx, map[string][]byte{TasksKey: data})
	}
	if err != nil {
		s.mu.Unlock()
		logger.Error("Failed to persist tasks", logger.F("op", op), logger.F("error", err))
		return s.fail(fmt.Errorf("%w: %v", ErrStorageWrite, err))
	}

	s.tasks = next
	snapshot := cloneAll(next)
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

func (s *Store) notify(snapshot []model.Task) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.subMu.Unlock()

	for _, l := range listeners {
		l(cloneAll(snapshot))
	}
}

func (s *Store) fail(err error) error {
	s.errMu.Lock()
	s.lastErr = err.Error()
	s.errMu.Unlock()
	return err
}

func indexOf(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func cloneResult(r lifecycle.Result) lifecycle.Result {
	out := lifecycle.Result{Task: r.Task.Clone()}
	if r.Sibling != nil {
		sib := r.Sibling.Clone()
		out.Sibling = &sib
	}
	return out
}
