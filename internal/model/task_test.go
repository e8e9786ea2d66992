package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 10, 9, 30, 0, 0, time.Local)

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask("id-1", "Write report", "", Options{}, testNow)

	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, StatusTodo, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, CategoryOther, task.Category)
	assert.Equal(t, RecurNone, task.Recurring)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.CompletedAt)
	assert.NotNil(t, task.Tags)
	assert.Empty(t, task.Tags)
	assert.NotNil(t, task.Dependencies)
	assert.Equal(t, testNow, task.CreatedAt)
	assert.Equal(t, testNow, task.UpdatedAt)
}

func TestNewTaskDoneSetsCompletedAt(t *testing.T) {
	task := NewTask("id", "Workout", "", Options{Status: StatusDone}, testNow)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)

	earlier := testNow.Add(-48 * time.Hour)
	task = NewTask("id", "Workout", "", Options{Status: StatusDone, CompletedAt: &earlier}, testNow)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, earlier, *task.CompletedAt)

	task = NewTask("id", "Workout", "", Options{Status: StatusTodo, CompletedAt: &earlier}, testNow)
	assert.Nil(t, task.CompletedAt)
}

func TestNewTaskNormalizesInput(t *testing.T) {
	task := NewTask("id", "x", "", Options{
		Category:      "Gardening",
		Tags:          []string{"a", " b ", "a", "", "c", "b"},
		EstimatedTime: Minutes(-5),
	}, testNow)

	assert.Equal(t, CategoryOther, task.Category)
	assert.Equal(t, []string{"a", "b", "c"}, task.Tags)
	require.NotNil(t, task.EstimatedTime)
	assert.Equal(t, 0, *task.EstimatedTime)
}

func TestAddTagSuppressesDuplicates(t *testing.T) {
	task := NewTask("id", "x", "", Options{Tags: []string{"one"}}, testNow)

	assert.True(t, task.AddTag("two"))
	assert.False(t, task.AddTag("one"))
	assert.False(t, task.AddTag("  "))
	assert.Equal(t, []string{"one", "two"}, task.Tags)

	assert.True(t, task.RemoveTag("one"))
	assert.False(t, task.RemoveTag("missing"))
	assert.Equal(t, []string{"two"}, task.Tags)
}

func TestCloneIsDeep(t *testing.T) {
	due := MustParseDate("2024-02-01")
	task := NewTask("id", "x", "", Options{DueDate: &due, Tags: []string{"a"}, ActualTime: Minutes(3)}, testNow)

	c := task.Clone()
	c.Tags[0] = "changed"
	*c.ActualTime = 10
	*c.DueDate = c.DueDate.AddDays(1)

	assert.Equal(t, "a", task.Tags[0])
	assert.Equal(t, 3, *task.ActualTime)
	assert.Equal(t, "2024-02-01", task.DueDate.String())
}

func TestIsOverdueIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, 1, 10, 23, 59, 0, 0, time.Local)
	yesterday := MustParseDate("2024-01-09")
	today := MustParseDate("2024-01-10")

	task := Task{DueDate: &yesterday}
	assert.True(t, task.IsOverdue(late))

	task = Task{DueDate: &today}
	assert.False(t, task.IsOverdue(late))

	task = Task{}
	assert.False(t, task.IsOverdue(late))
}

func TestPatchApply(t *testing.T) {
	due := MustParseDate("2024-01-15")
	base := NewTask("id", "Old", "desc", Options{DueDate: &due, EstimatedTime: Minutes(30)}, testNow)
	later := testNow.Add(time.Hour)

	title := "New"
	cat := Category("WORK")
	tags := []string{"x", "x", "y"}
	out := Patch{Title: &title, Category: &cat, Tags: &tags, ClearDueDate: true, ClearEstimatedTime: true}.Apply(base, later)

	assert.Equal(t, "New", out.Title)
	assert.Equal(t, "desc", out.Description)
	assert.Equal(t, CategoryWork, out.Category)
	assert.Equal(t, []string{"x", "y"}, out.Tags)
	assert.Nil(t, out.DueDate)
	assert.Nil(t, out.EstimatedTime)
	assert.Equal(t, later, out.UpdatedAt)
	assert.Equal(t, testNow, out.CreatedAt)

	// original untouched
	assert.Equal(t, "Old", base.Title)
	assert.NotNil(t, base.DueDate)
}

func TestPatchStatusKeepsCompletedAtConsistent(t *testing.T) {
	base := NewTask("id", "x", "", Options{}, testNow)
	done := StatusDone
	out := Patch{Status: &done}.Apply(base, testNow)
	require.NotNil(t, out.CompletedAt)

	todo := StatusTodo
	out = Patch{Status: &todo}.Apply(out, testNow)
	assert.Nil(t, out.CompletedAt)
}

func TestPatchIsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	title := "x"
	assert.False(t, Patch{Title: &title}.IsEmpty())
}

func TestTaskJSONFieldNames(t *testing.T) {
	due := MustParseDate("2024-01-31")
	task := NewTask("abc", "Pay rent", "", Options{DueDate: &due}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{
		"id", "title", "description", "status", "priority", "category", "dueDate", "tags",
		"recurring", "estimatedTime", "actualTime", "createdAt", "updatedAt", "completedAt", "dependencies",
	} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "2024-01-31", raw["dueDate"])
	assert.Nil(t, raw["completedAt"])
	assert.Equal(t, "todo", raw["status"])
}

func TestLookupCategoryFallsBackToOther(t *testing.T) {
	assert.Equal(t, "Work", LookupCategory(CategoryWork).Name)
	assert.Equal(t, "#3498db", CategoryWork.Color())
	assert.Equal(t, CategoryOther, LookupCategory("nope").ID)
	assert.Equal(t, CategoryShopping, ParseCategory(" Shopping "))
}

func TestParseEnums(t *testing.T) {
	s, ok := ParseStatus("In-Progress")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, s)
	_, ok = ParseStatus("blocked")
	assert.False(t, ok)

	p, ok := ParsePriority("HIGH")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	r, ok := ParseRecurrence("")
	assert.True(t, ok)
	assert.Equal(t, RecurNone, r)
	_, ok = ParseRecurrence("yearly")
	assert.False(t, ok)
}
