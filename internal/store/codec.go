package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/existflow/taskmgr/internal/model"
)

// Storage keys
const (
	TasksKey      = "tasks"
	SampleDataKey = "sample_data_loaded"
)

// schemaVersion is written with every save
const schemaVersion = 1

type document struct {
	Version int          `json:"version"`
	Tasks   []model.Task `json:"tasks"`
}

func encodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(document{Version: schemaVersion, Tasks: tasks})
}

// decodeTasks accepts the versioned document and the bare array written
// before versioning existed.
func decodeTasks(data []byte) ([]model.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []model.Task{}, nil
	}

	if trimmed[0] == '[' {
		var tasks []model.Task
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, err
		}
		return normalize(tasks), nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	if doc.Version > schemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d", doc.Version)
	}
	return normalize(doc.Tasks), nil
}

// normalize fills fields older records may lack
func normalize(tasks []model.Task) []model.Task {
	if tasks == nil {
		return []model.Task{}
	}
	for i := range tasks {
		t := &tasks[i]
		if t.Status == "" {
			t.Status = model.StatusTodo
		}
		if t.Priority == "" {
			t.Priority = model.PriorityMedium
		}
		t.Category = model.ParseCategory(string(t.Category))
		if t.Recurring == "" {
			t.Recurring = model.RecurNone
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		if t.Dependencies == nil {
			t.Dependencies = []string{}
		}
		// completedAt is set exactly when the task is done
		switch {
		case t.Status == model.StatusDone && t.CompletedAt == nil:
			at := t.UpdatedAt
			t.CompletedAt = &at
		case t.Status != model.StatusDone:
			t.CompletedAt = nil
		}
	}
	return tasks
}
