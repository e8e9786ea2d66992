package cli

import (
	"fmt"
	"sort"

	"github.com/existflow/taskmgr/internal/model"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage task tags",
	Long: `Add, remove and list tags.

Examples:
  taskmgr tag ls
  taskmgr tag add abc123 urgent review
  taskmgr tag rm abc123 review`,
	RunE: runTagList,
}

var tagListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tags with task counts",
	RunE:    runTagList,
}

var tagAddCmd = &cobra.Command{
	Use:   "add [task-id] [tag...]",
	Short: "Add tags to a task",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTagAdd,
}

var tagRemoveCmd = &cobra.Command{
	Use:     "rm [task-id] [tag...]",
	Aliases: []string{"remove"},
	Short:   "Remove tags from a task",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runTagRemove,
}

func init() {
	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)
}

func runTagList(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	counts := make(map[string]int)
	for _, t := range s.Tasks() {
		for _, tag := range t.Tags {
			counts[tag]++
		}
	}
	if len(counts) == 0 {
		fmt.Println("No tags yet.")
		return nil
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	fmt.Println("\n🏷  Tags")
	for _, tag := range tags {
		fmt.Printf("  #%-24s %d\n", tag, counts[tag])
	}
	fmt.Println()
	return nil
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	return changeTags(cmd, args[0], func(t *model.Task) int {
		n := 0
		for _, tag := range args[1:] {
			if t.AddTag(tag) {
				n++
			}
		}
		return n
	})
}

func runTagRemove(cmd *cobra.Command, args []string) error {
	return changeTags(cmd, args[0], func(t *model.Task) int {
		n := 0
		for _, tag := range args[1:] {
			if t.RemoveTag(tag) {
				n++
			}
		}
		return n
	})
}

func changeTags(cmd *cobra.Command, ref string, change func(*model.Task) int) error {
	s, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	task, err := s.Resolve(ref)
	if err != nil {
		return err
	}

	if change(&task) == 0 {
		fmt.Println("Tags unchanged.")
		return nil
	}

	tags := task.Tags
	updated, found, err := s.Update(cmd.Context(), task.ID, model.Patch{Tags: &tags})
	if err != nil {
		return fmt.Errorf("failed to update tags: %w", err)
	}
	if !found {
		return fmt.Errorf("task not found: %s", ref)
	}

	fmt.Printf("✓ \"%s\" tags: %v\n", updated.Title, updated.Tags)
	return nil
}
