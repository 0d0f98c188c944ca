package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/kilupskalvis/wbg/internal/diff"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working tree status",
	Long: `Show staged changes (what a commit would record now), changes in the
working tree that are not staged yet, and untracked files.`,
	Run: runStatus,
}

var statusShort bool

func init() {
	statusCmd.Flags().BoolVarP(&statusShort, "short", "s", false, "Give the output in the short format")
}

func runStatus(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	status := c.run(core.StatusOp{}).(*core.StatusResult)

	if statusShort {
		printShortStatus(status)
		return
	}

	head := status.Head
	switch {
	case head.IsDetached:
		fmt.Printf("HEAD detached at %s\n", shortID(head.CommitID))
	default:
		fmt.Printf("On branch %s\n", head.BranchName)
	}
	if head.IsUnborn() {
		fmt.Println("\nNo commits yet")
	}

	if status.Clean() {
		fmt.Println("\nNothing to commit, working tree clean")
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	if len(status.Staged) > 0 {
		fmt.Println("\nChanges to be committed:")
		cyan.Println("  (use \"wbg unstage <file>...\" to unstage)")
		fmt.Println()
		printChanges(status.Staged, green, "        ")
	}

	if len(status.Unstaged) > 0 {
		fmt.Println("\nChanges not staged for commit:")
		cyan.Println("  (use \"wbg add <file>...\" to update what will be committed)")
		fmt.Println()
		printChanges(status.Unstaged, red, "        ")
	}

	if len(status.Untracked) > 0 {
		fmt.Println("\nUntracked files:")
		cyan.Println("  (use \"wbg add <file>...\" to include in what will be committed)")
		fmt.Println()
		for _, p := range status.Untracked {
			red.Printf("        %s\n", p)
		}
	}

	fmt.Println()
	parts := []string{}
	if n := len(status.Staged); n > 0 {
		parts = append(parts, fmt.Sprintf("%d staged", n))
	}
	if n := len(status.Unstaged); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unstaged", n))
	}
	if n := len(status.Untracked); n > 0 {
		parts = append(parts, fmt.Sprintf("%d untracked", n))
	}
	fmt.Println(strings.Join(parts, ", "))
}

// printChanges prints one line per changed file
func printChanges(diffs []diff.FileDiff, c *color.Color, indent string) {
	for _, d := range diffs {
		label := string(d.Status) + ":"
		if d.Status == diff.Added {
			label = "new file:"
		}
		c.Printf("%s%-10s %s\n", indent, label, d.Path)
	}
}

func printShortStatus(status *core.StatusResult) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	for _, e := range status.Entries {
		if e.Untracked && e.Index == "" {
			red.Printf("?? %s\n", e.Path)
			continue
		}
		green.Print(statusCode(e.Index))
		red.Print(statusCode(e.Work))
		fmt.Printf(" %s\n", e.Path)
	}
}

func statusCode(s diff.Status) string {
	switch s {
	case diff.Added:
		return "A"
	case diff.Deleted:
		return "D"
	case diff.Modified:
		return "M"
	default:
		return " "
	}
}
