package lifecycle

import (
	"fmt"
	"testing"
	"time"

	"github.com/existflow/taskmgr/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func TestNext(t *testing.T) {
	assert.Equal(t, model.StatusInProgress, Next(model.StatusTodo))
	assert.Equal(t, model.StatusDone, Next(model.StatusInProgress))
	assert.Equal(t, model.StatusTodo, Next(model.StatusDone))
	assert.Equal(t, model.StatusTodo, Next("archived"))
}

func TestToggleFullCycle(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	task := model.NewTask("t1", "Write", "", model.Options{}, now.Add(-time.Hour))

	r1 := Toggle(task, now, sequentialIDs())
	assert.Equal(t, model.StatusInProgress, r1.Task.Status)
	assert.Nil(t, r1.Task.CompletedAt)
	assert.Nil(t, r1.Sibling)
	assert.Equal(t, now, r1.Task.UpdatedAt)

	r2 := Toggle(r1.Task, now.Add(time.Minute), sequentialIDs())
	assert.Equal(t, model.StatusDone, r2.Task.Status)
	require.NotNil(t, r2.Task.CompletedAt)
	assert.Equal(t, now.Add(time.Minute), *r2.Task.CompletedAt)
	assert.Nil(t, r2.Sibling)

	r3 := Toggle(r2.Task, now.Add(2*time.Minute), sequentialIDs())
	assert.Equal(t, task.Status, r3.Task.Status)
	assert.Nil(t, r3.Task.CompletedAt)
	assert.Equal(t, "t1", r3.Task.ID)

	// input untouched
	assert.Equal(t, model.StatusTodo, task.Status)
}

func TestToggleCompletedAtInvariant(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	task := model.NewTask("t1", "Write", "", model.Options{}, now)
	for i := 0; i < 9; i++ {
		task = Toggle(task, now, sequentialIDs()).Task
		assert.Equal(t, task.Status == model.StatusDone, task.CompletedAt != nil, "step %d", i)
	}
}

func TestToggleWeeklySpawnsSibling(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	due := model.MustParseDate("2024-01-10")
	task := model.NewTask("orig", "Groceries", "", model.Options{
		Status:    model.StatusInProgress,
		DueDate:   &due,
		Recurring: model.RecurWeekly,
		Tags:      []string{"shopping"},
	}, now)

	res := Toggle(task, now, sequentialIDs())

	assert.Equal(t, model.StatusDone, res.Task.Status)
	require.NotNil(t, res.Sibling)
	assert.Equal(t, "2024-01-17", res.Sibling.DueDate.String())
	assert.Equal(t, model.StatusTodo, res.Sibling.Status)
	assert.Nil(t, res.Sibling.CompletedAt)
	assert.NotEqual(t, res.Task.ID, res.Sibling.ID)
	assert.Equal(t, "gen-1", res.Sibling.ID)
	assert.Equal(t, []string{"shopping"}, res.Sibling.Tags)
	assert.Equal(t, "2024-01-10", res.Task.DueDate.String())
}

func TestToggleMonthlyClampsToLeapDay(t *testing.T) {
	now := time.Date(2024, 1, 31, 12, 0, 0, 0, time.Local)
	due := model.MustParseDate("2024-01-31")
	task := model.NewTask("orig", "Rent", "", model.Options{
		Status:    model.StatusInProgress,
		DueDate:   &due,
		Recurring: model.RecurMonthly,
	}, now)

	res := Toggle(task, now, sequentialIDs())
	require.NotNil(t, res.Sibling)
	assert.Equal(t, "2024-02-29", res.Sibling.DueDate.String())
}

func TestToggleUndatedRecurringUsesToday(t *testing.T) {
	now := time.Date(2024, 3, 5, 7, 0, 0, 0, time.Local)
	task := model.NewTask("orig", "Stretch", "", model.Options{
		Status:    model.StatusInProgress,
		Recurring: model.RecurDaily,
	}, now)

	res := Toggle(task, now, sequentialIDs())
	require.NotNil(t, res.Sibling)
	assert.Equal(t, "2024-03-06", res.Sibling.DueDate.String())
}

func TestToggleNonRecurringNoSibling(t *testing.T) {
	now := time.Date(2024, 3, 5, 7, 0, 0, 0, time.Local)
	task := model.NewTask("orig", "Once", "", model.Options{Status: model.StatusInProgress}, now)

	res := Toggle(task, now, func() string {
		t.Fatal("id generator must not be called")
		return ""
	})
	assert.Nil(t, res.Sibling)
}

func TestToggleDoneToTodoDoesNotSpawn(t *testing.T) {
	now := time.Date(2024, 3, 5, 7, 0, 0, 0, time.Local)
	task := model.NewTask("orig", "Stretch", "", model.Options{
		Status:    model.StatusDone,
		Recurring: model.RecurDaily,
	}, now)

	res := Toggle(task, now, sequentialIDs())
	assert.Equal(t, model.StatusTodo, res.Task.Status)
	assert.Nil(t, res.Sibling)
}
