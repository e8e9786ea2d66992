package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/query"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, optionally filtered and sorted.

Examples:
  taskmgr list
  taskmgr list --status todo,in_progress --sort priority
  taskmgr list --search groc
  taskmgr list --overdue
  taskmgr list --upcoming 3`,
	RunE: runList,
}

var (
	listStatus   []string
	listPriority []string
	listCategory []string
	listSearch   string
	listOverdue  bool
	listUpcoming int
	listFrom     string
	listTo       string
	listSort     string
)

func init() {
	listCmd.Flags().StringSliceVar(&listStatus, "status", nil, "Filter by status (todo, in_progress, done)")
	listCmd.Flags().StringSliceVarP(&listPriority, "priority", "p", nil, "Filter by priority (low, medium, high)")
	listCmd.Flags().StringSliceVarP(&listCategory, "category", "c", nil, "Filter by category")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Search title and description")
	listCmd.Flags().BoolVar(&listOverdue, "overdue", false, "Only open tasks past their due date")
	listCmd.Flags().IntVar(&listUpcoming, "upcoming", 0, "Only open tasks due within N days")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Due on or after date")
	listCmd.Flags().StringVar(&listTo, "to", "", "Due on or before date")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort by priority, dueDate, createdAt or title")
}

func runList(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	now := s.Now()
	filters, err := buildFilters(now)
	if err != nil {
		return err
	}

	sortKey := query.ParseSortKey(cfg.DefaultSort)
	if listSort != "" {
		sortKey = query.ParseSortKey(listSort)
	}

	var tasks []model.Task
	switch {
	case listOverdue:
		tasks = query.View(s.Overdue(), filters, sortKey, now)
	case cmd.Flags().Changed("upcoming"):
		tasks = query.View(s.Upcoming(listUpcoming), filters, sortKey, now)
	default:
		tasks = s.Query(filters, sortKey)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found. Add one with: taskmgr add \"Your task\"")
		return nil
	}

	printTasks(tasks, now)
	return nil
}

func buildFilters(now time.Time) (query.Filters, error) {
	var f query.Filters
	for _, v := range listStatus {
		st, err := parseStatusFlag(v)
		if err != nil {
			return f, err
		}
		f.Status = append(f.Status, st)
	}
	for _, v := range listPriority {
		p, err := parsePriorityFlag(v)
		if err != nil {
			return f, err
		}
		f.Priority = append(f.Priority, p)
	}
	for _, v := range listCategory {
		f.Category = append(f.Category, model.ParseCategory(v))
	}
	f.Search = listSearch

	var r query.DateRange
	if listFrom != "" {
		d, err := parseDue(listFrom, now)
		if err != nil {
			return f, err
		}
		r.Start = &d
	}
	if listTo != "" {
		d, err := parseDue(listTo, now)
		if err != nil {
			return f, err
		}
		r.End = &d
	}
	if r.Start != nil || r.End != nil {
		f.DueDateRange = &r
	}
	return f, nil
}

func printTasks(tasks []model.Task, now time.Time) {
	counts := query.CountByStatus(tasks)
	fmt.Printf("\n%d tasks (%d to do, %d in progress, %d done)\n",
		len(tasks), counts[model.StatusTodo], counts[model.StatusInProgress], counts[model.StatusDone])
	fmt.Println(strings.Repeat("─", 78))

	for _, t := range tasks {
		printTask(t, now)
	}
	fmt.Println()
}

func printTask(t model.Task, now time.Time) {
	// Status icon
	icon := "[ ]"
	switch t.Status {
	case model.StatusInProgress:
		icon = "[~]"
	case model.StatusDone:
		icon = "[x]"
	}

	// Priority indicator
	priority := "  "
	switch t.Priority {
	case model.PriorityHigh:
		priority = "▲ "
	case model.PriorityLow:
		priority = "▽ "
	}

	// Due date
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 2")
		if !t.IsDone() && t.IsOverdue(now) {
			due = "!" + due
		}
	}

	recur := ""
	if t.Recurring.IsRecurring() {
		recur = "↻"
	}

	fmt.Printf("  %s  %-8s  %s%-40s  %-10s  %-9s %s\n",
		icon, shortID(t.ID), priority, truncate(t.Title, 40), due, t.Category.Name(), recur)
}

func printTaskDetail(t model.Task, now time.Time) {
	fmt.Printf("%s  %s\n", shortID(t.ID), t.Title)
	if t.Description != "" {
		fmt.Printf("    %s\n", t.Description)
	}
	fmt.Printf("    Status: %s   Priority: %s   Category: %s\n", t.Status.Label(), t.Priority, t.Category.Name())
	if t.DueDate != nil {
		fmt.Printf("    %s\n", query.DueLabel(*t.DueDate, now))
	}
	if len(t.Tags) > 0 {
		fmt.Printf("    Tags: %s\n", strings.Join(t.Tags, ", "))
	}
	if t.Recurring.IsRecurring() {
		fmt.Printf("    Repeats: %s\n", t.Recurring)
	}
	if t.EstimatedTime != nil || t.ActualTime != nil {
		fmt.Printf("    Time: %s / %s\n", formatMinutes(t.ActualTime), formatMinutes(t.EstimatedTime))
	}
}

func formatMinutes(m *int) string {
	if m == nil {
		return "-"
	}
	d := time.Duration(*m) * time.Minute
	if d < time.Hour {
		return fmt.Sprintf("%dm", *m)
	}
	return fmt.Sprintf("%dh%02dm", *m/60, *m%60)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
