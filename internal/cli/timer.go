package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/taskmgr/internal/logger"
	"github.com/existflow/taskmgr/internal/tui"
	"github.com/spf13/cobra"
)

var timerCmd = &cobra.Command{
	Use:     "timer [task-id]",
	Aliases: []string{"pomodoro"},
	Short:   "Open the pomodoro timer",
	Long: `Open the TUI on the pomodoro timer. When a task id (or unique prefix)
is given, every finished work phase is logged to that task's actual time.

Examples:
  taskmgr timer
  taskmgr timer 3f2a`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTimer,
}

func runTimer(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	opts := tui.Options{
		DefaultSort:  cfg.DefaultSort,
		UpcomingDays: cfg.UpcomingDays,
		Timer:        timerDurations(),
		StartView:    tui.ViewTimer,
	}
	if len(args) == 1 {
		task, err := s.Resolve(args[0])
		if err != nil {
			return err
		}
		opts.TimerTaskID = task.ID
		logger.Info("Timer bound to task", logger.F("task", task.ID))
	}

	p := tea.NewProgram(tui.NewModel(s, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", logger.F("error", err))
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
