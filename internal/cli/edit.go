package cli

import (
	"fmt"

	"github.com/existflow/taskmgr/internal/model"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Long: `Change fields of an existing task. Only the flags you pass are applied.

Examples:
  taskmgr edit abc123 --title "Call the dentist"
  taskmgr edit abc123 -p high --due tomorrow
  taskmgr edit abc123 --no-due`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle       string
	editDescription string
	editPriority    string
	editCategory    string
	editStatus      string
	editDue         string
	editNoDue       bool
	editTags        string
	editRecurring   string
	editEstimate    int
	editActual      int
)

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "D", "", "New description")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "Priority (low, medium, high)")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "Category")
	editCmd.Flags().StringVarP(&editStatus, "status", "s", "", "Status (todo, in_progress, done)")
	editCmd.Flags().StringVarP(&editDue, "due", "d", "", "Due date")
	editCmd.Flags().BoolVar(&editNoDue, "no-due", false, "Remove the due date")
	editCmd.Flags().StringVarP(&editTags, "tags", "t", "", "Replace tags (comma separated)")
	editCmd.Flags().StringVarP(&editRecurring, "recurring", "r", "", "Recurrence (none, daily, weekly, monthly)")
	editCmd.Flags().IntVarP(&editEstimate, "estimate", "e", 0, "Estimated time in minutes")
	editCmd.Flags().IntVar(&editActual, "actual", 0, "Actual time in minutes")
}

func runEdit(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	task, err := s.Resolve(args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	var patch model.Patch
	if flags.Changed("title") {
		patch.Title = &editTitle
	}
	if flags.Changed("description") {
		patch.Description = &editDescription
	}
	if flags.Changed("priority") {
		p, err := parsePriorityFlag(editPriority)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	if flags.Changed("category") {
		c := model.ParseCategory(editCategory)
		patch.Category = &c
	}
	if flags.Changed("status") {
		st, err := parseStatusFlag(editStatus)
		if err != nil {
			return err
		}
		patch.Status = &st
	}
	if editNoDue {
		patch.ClearDueDate = true
	} else if flags.Changed("due") {
		due, err := parseDue(editDue, s.Now())
		if err != nil {
			return err
		}
		patch.DueDate = &due
	}
	if flags.Changed("tags") {
		tags := parseTags(editTags)
		patch.Tags = &tags
	}
	if flags.Changed("recurring") {
		r, err := parseRecurringFlag(editRecurring)
		if err != nil {
			return err
		}
		patch.Recurring = &r
	}
	if flags.Changed("estimate") {
		patch.EstimatedTime = &editEstimate
	}
	if flags.Changed("actual") {
		patch.ActualTime = &editActual
	}

	if patch.IsEmpty() {
		fmt.Println("Nothing to change.")
		return nil
	}

	updated, found, err := s.Update(cmd.Context(), task.ID, patch)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if !found {
		return fmt.Errorf("task not found: %s", args[0])
	}

	fmt.Println("✓ Updated:")
	printTaskDetail(updated, s.Now())
	return nil
}
