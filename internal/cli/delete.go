package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task by its ID or a unique ID prefix.

Examples:
  taskmgr delete abc123
  taskmgr rm abc123 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	task, err := s.Resolve(args[0])
	if err != nil {
		return err
	}

	if cfg.ConfirmDelete && !deleteForce {
		fmt.Printf("About to delete: \"%s\" (ID: %s)\n", task.Title, task.ID)
		if !confirm("Are you sure?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := s.Delete(cmd.Context(), task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	fmt.Printf("🗑️  Deleted: \"%s\"\n", task.Title)
	return nil
}
