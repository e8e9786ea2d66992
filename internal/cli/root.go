package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/taskmgr/internal/config"
	"github.com/existflow/taskmgr/internal/logger"
	"github.com/existflow/taskmgr/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	logFile     string
	logConsole  bool
	dataDir     string
	storageKind string
)

// cfg is the configuration resolved for the running command
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "taskmgr",
	Short: "taskmgr - personal task manager",
	Long: `taskmgr keeps your tasks with priorities, categories, due dates,
recurrence and a pomodoro timer.

Run 'taskmgr' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}
		if cmd.Flags().Changed("data") {
			cfg.DataDir = dataDir
			configChanged = true
		}
		if cmd.Flags().Changed("storage") {
			cfg.Storage = storageKind
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("taskmgr started", logger.F("command", cmd.Name()), logger.F("storage", cfg.Storage))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeStore, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		logger.Info("Launching TUI")
		m := tui.NewModel(s, tui.Options{
			DefaultSort:  cfg.DefaultSort,
			UpcomingDays: cfg.UpcomingDays,
			Timer:        timerDurations(),
		})
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("taskmgr exiting", logger.F("command", cmd.Name()))
		_ = logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Storage flags
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Directory holding the task store")
	rootCmd.PersistentFlags().StringVar(&storageKind, "storage", "", "Storage backend (sqlite, file, memory)")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
