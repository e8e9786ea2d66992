package cli

import (
	"fmt"

	"github.com/existflow/taskmgr/internal/model"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove completed tasks",
	Long: `Remove completed tasks from the store.
With --all every task is removed. Sample data is never re-seeded.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().Bool("all", false, "Remove every task, not only completed ones")
	clearCmd.Flags().Bool("force", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	force, _ := cmd.Flags().GetBool("force")

	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	what := "completed tasks"
	if all {
		what = "ALL tasks"
	}
	if !force && !confirm(fmt.Sprintf("Remove %s?", what)) {
		fmt.Println("Aborted.")
		return nil
	}

	n, err := s.DeleteMatching(cmd.Context(), func(t model.Task) bool {
		return all || t.IsDone()
	})
	if err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	fmt.Printf("🧹 Removed %d task(s).\n", n)
	return nil
}
