package cli

import (
	"fmt"

	"github.com/existflow/taskmgr/internal/model"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:     "done [task-id]",
	Aliases: []string{"toggle"},
	Short:   "Advance a task's status",
	Long: `Move a task one step through todo → in progress → done → todo.
Completing a recurring task schedules its next occurrence.

Examples:
  taskmgr done abc123
  taskmgr done abc123 --finish`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var doneFinish bool

func init() {
	doneCmd.Flags().BoolVarP(&doneFinish, "finish", "f", false, "Toggle until the task is done")
}

func runDone(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	task, err := s.Resolve(args[0])
	if err != nil {
		return err
	}

	if doneFinish && task.Status == model.StatusDone {
		fmt.Printf("✓ Already done: \"%s\"\n", task.Title)
		return nil
	}

	// three steps reach done from any status
	for step := 0; step < 3; step++ {
		res, found, err := s.ToggleStatus(cmd.Context(), task.ID)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		if !found {
			return fmt.Errorf("task not found: %s", args[0])
		}
		task = res.Task

		if res.Sibling != nil {
			fmt.Printf("↻ Next \"%s\" scheduled for %s  %s\n", res.Sibling.Title, res.Sibling.DueDate, shortID(res.Sibling.ID))
		}
		if !doneFinish || task.Status == model.StatusDone {
			break
		}
	}

	switch task.Status {
	case model.StatusDone:
		fmt.Printf("✓ Completed: \"%s\"\n", task.Title)
	case model.StatusInProgress:
		fmt.Printf("▶ Started: \"%s\"\n", task.Title)
	default:
		fmt.Printf("○ Reopened: \"%s\"\n", task.Title)
	}
	return nil
}
