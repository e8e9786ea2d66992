package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/taskmgr/internal/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task.

Examples:
  taskmgr add "Buy groceries"
  taskmgr add "Quarterly report" -p high -c work --due friday
  taskmgr add "Water plants" --recurring daily --tags home,garden`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addPriority    string
	addCategory    string
	addStatus      string
	addDue         string
	addTags        string
	addRecurring   string
	addEstimate    int
)

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "D", "", "Task description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "Priority (low, medium, high)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "other", "Category (work, personal, health, education, shopping, other)")
	addCmd.Flags().StringVarP(&addStatus, "status", "s", "todo", "Initial status (todo, in_progress, done)")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (e.g., 'tomorrow', '+3', '2024-01-15')")
	addCmd.Flags().StringVarP(&addTags, "tags", "t", "", "Comma separated tags")
	addCmd.Flags().StringVarP(&addRecurring, "recurring", "r", "none", "Recurrence (none, daily, weekly, monthly)")
	addCmd.Flags().IntVarP(&addEstimate, "estimate", "e", 0, "Estimated time in minutes")
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	title := strings.Join(args, " ")

	priority, err := parsePriorityFlag(addPriority)
	if err != nil {
		return err
	}
	status, err := parseStatusFlag(addStatus)
	if err != nil {
		return err
	}
	recurring, err := parseRecurringFlag(addRecurring)
	if err != nil {
		return err
	}

	opts := model.Options{
		Status:    status,
		Priority:  priority,
		Category:  model.ParseCategory(addCategory),
		Tags:      parseTags(addTags),
		Recurring: recurring,
	}
	if addDue != "" {
		due, err := parseDue(addDue, s.Now())
		if err != nil {
			return err
		}
		opts.DueDate = &due
	}
	if addEstimate > 0 {
		opts.EstimatedTime = model.Minutes(addEstimate)
	}

	task, err := s.Create(cmd.Context(), title, addDescription, opts)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("✓ Added [%s]: \"%s\" (%s)  %s\n", task.Category.Name(), task.Title, task.Priority, shortID(task.ID))
	return nil
}
