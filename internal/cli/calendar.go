package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/taskmgr/internal/model"
	"github.com/existflow/taskmgr/internal/query"
	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show a month calendar with due tasks",
	Long: `Print a month grid marking days with due tasks, followed by the
tasks due on the selected day.

Examples:
  taskmgr calendar
  taskmgr calendar --date 2024-03-15`,
	RunE: runCalendar,
}

var calendarDate string

var (
	calSelected = lipgloss.NewStyle().Bold(true).Reverse(true)
	calBusy     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3498db"))
	calToday    = lipgloss.NewStyle().Underline(true)
	calHeader   = lipgloss.NewStyle().Bold(true)
)

func init() {
	calendarCmd.Flags().StringVarP(&calendarDate, "date", "d", "today", "Selected day")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	now := s.Now()
	selected, err := parseDue(calendarDate, now)
	if err != nil {
		return err
	}

	tasks := s.Tasks()
	fmt.Println()
	fmt.Println(renderMonth(tasks, selected, model.Today(now)))

	day := query.ForDate(tasks, selected)
	fmt.Printf("\n%s (%d tasks)\n", selected.Format("Monday, January 2, 2006"), len(day))
	fmt.Println(strings.Repeat("─", 78))
	for _, t := range day {
		printTask(t, now)
	}
	fmt.Println()
	return nil
}

// renderMonth draws the month of selected. Busy days carry a dot count.
func renderMonth(tasks []model.Task, selected, today model.Date) string {
	marks := query.Marks(tasks, selected)

	var b strings.Builder
	title := selected.Format("January 2006")
	b.WriteString(calHeader.Render(fmt.Sprintf("%*s", 14+len(title)/2, title)))
	b.WriteString("\n Su   Mo   Tu   We   Th   Fr   Sa\n")

	for _, week := range query.MonthGrid(selected.Year(), selected.Month()) {
		for _, cell := range week {
			if cell == nil {
				b.WriteString("     ")
				continue
			}
			mark := marks[*cell]
			text := fmt.Sprintf("%2d", cell.Day())
			dots := " "
			if n := len(mark.Dots); n > 0 {
				dots = "•"
				if n > 1 {
					dots = fmt.Sprintf("%d", min(n, 9))
				}
			}

			style := lipgloss.NewStyle()
			switch {
			case mark.Selected:
				style = calSelected
			case len(mark.Dots) > 0:
				style = calBusy
			case cell.Equal(today):
				style = calToday
			}
			b.WriteString(" " + style.Render(text) + dots + " ")
		}
		b.WriteString("\n")
	}
	return b.String()
}
