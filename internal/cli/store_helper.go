package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/existflow/taskmgr/internal/logger"
	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/pomodoro"
	"github.com/existflow/taskmgr/internal/storage"
	"github.com/existflow/taskmgr/internal/store"
	"golang.org/x/term"
)

// openStore opens the configured backend and loads the task collection.
// The returned func closes the backend.
func openStore(ctx context.Context) (*store.Store, func(), error) {
	backend, err := storage.Open(storage.Kind(cfg.Storage), cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open storage", logger.F("kind", cfg.Storage), logger.F("error", err))
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if cfg.Encrypt {
		passphrase, err := readPassphrase()
		if err != nil {
			_ = backend.Close()
			return nil, nil, err
		}
		encrypted, err := storage.NewEncrypted(ctx, backend, passphrase)
		if err != nil {
			_ = backend.Close()
			return nil, nil, fmt.Errorf("failed to unlock storage: %w", err)
		}
		backend = encrypted
	}

	s := store.New(backend)
	if _, err := s.Load(ctx); err != nil {
		_ = backend.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := backend.Close(); err != nil {
			logger.Warn("Failed to close storage", logger.F("error", err))
			return
		}
		logger.Debug("Storage closed")
	}
	return s, closeFn, nil
}

// readPassphrase takes TASKMGR_PASSPHRASE or prompts on the terminal
func readPassphrase() (string, error) {
	if p := os.Getenv("TASKMGR_PASSPHRASE"); p != "" {
		return p, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("storage is encrypted: set TASKMGR_PASSPHRASE")
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(b), nil
}

// confirm asks a yes/no question. Without a terminal it answers no.
func confirm(prompt string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func timerDurations() pomodoro.Durations {
	return pomodoro.FromMinutes(
		cfg.Timer.WorkMinutes,
		cfg.Timer.ShortBreakMinutes,
		cfg.Timer.LongBreakMinutes,
		cfg.Timer.LongBreakEvery,
	)
}

// parseDue understands today, tomorrow, +N (days from today), weekday
// names and YYYY-MM-DD.
func parseDue(s string, now time.Time) (model.Date, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := model.Today(now)

	switch s {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}

	if strings.HasPrefix(s, "+") {
		var n int
		if _, err := fmt.Sscanf(s, "+%d", &n); err == nil {
			return today.AddDays(n), nil
		}
	}

	for i := 0; i < 7; i++ {
		wd := time.Weekday(i)
		name := strings.ToLower(wd.String())
		if s == name || s == name[:3] {
			diff := (int(wd) - int(today.Weekday()) + 7) % 7
			if diff == 0 {
				diff = 7
			}
			return today.AddDays(diff), nil
		}
	}

	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid due date %q (use YYYY-MM-DD, today, tomorrow, +N or a weekday)", s)
	}
	return d, nil
}

func parseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return model.NormalizeTags(strings.Split(s, ","))
}

func parseStatusFlag(s string) (model.Status, error) {
	st, ok := model.ParseStatus(s)
	if !ok {
		return "", fmt.Errorf("invalid status %q (todo, in_progress, done)", s)
	}
	return st, nil
}

func parsePriorityFlag(s string) (model.Priority, error) {
	p, ok := model.ParsePriority(s)
	if !ok {
		return "", fmt.Errorf("invalid priority %q (low, medium, high)", s)
	}
	return p, nil
}

func parseRecurringFlag(s string) (model.Recurrence, error) {
	r, ok := model.ParseRecurrence(s)
	if !ok {
		return "", fmt.Errorf("invalid recurrence %q (none, daily, weekly, monthly)", s)
	}
	return r, nil
}
