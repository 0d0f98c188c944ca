package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/kilupskalvis/wbg/internal/diff"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff [<from> [<to>]]",
	Short: "Show changes between commits, the staging area and the working tree",
	Long: `Show line-level changes.

Examples:
  wbg diff                  # HEAD vs working tree
  wbg diff --cached         # HEAD vs staging area
  wbg diff abc1234          # commit vs working tree
  wbg diff abc1234 main     # commit vs commit`,
	Args: cobra.MaximumNArgs(2),
	Run:  runDiff,
}

var (
	diffStat   bool
	diffCached bool
)

func init() {
	diffCmd.Flags().BoolVar(&diffStat, "stat", false, "Show diffstat instead of full diff")
	diffCmd.Flags().BoolVar(&diffCached, "cached", false, "Compare the staging area with HEAD")
}

func runDiff(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	opts := core.DiffOptions{Cached: diffCached}
	if len(args) > 0 {
		opts.From = args[0]
	}
	if len(args) > 1 {
		opts.To = args[1]
	}

	diffs := c.run(core.DiffOp{Options: opts}).([]diff.FileDiff)
	if len(diffs) == 0 {
		fmt.Println("No changes")
		return
	}

	if diffStat {
		printDiffStat(diffs)
		return
	}
	for i := range diffs {
		printFileDiff(&diffs[i])
	}
}

// printFileDiff renders one file as a unified diff
func printFileDiff(fd *diff.FileDiff) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	oldName, newName := "a/"+fd.Path, "b/"+fd.Path
	switch fd.Status {
	case diff.Added:
		oldName = "/dev/null"
	case diff.Deleted:
		newName = "/dev/null"
	}
	bold.Printf("diff --wbg a/%s b/%s\n", fd.Path, fd.Path)
	if fd.Status == diff.Added {
		bold.Println("new file")
	} else if fd.Status == diff.Deleted {
		bold.Println("deleted file")
	}

	if fd.Binary {
		fmt.Printf("Binary files %s and %s differ\n", oldName, newName)
		return
	}
	if fd.TooLarge {
		fmt.Printf("Files %s and %s differ (too large to diff)\n", oldName, newName)
		return
	}
	bold.Printf("--- %s\n", oldName)
	bold.Printf("+++ %s\n", newName)

	for _, h := range fd.Hunks(diff.DefaultContext) {
		cyan.Println(h.Header())
		for _, line := range h.Lines {
			text := line.Text
			missingNewline := !strings.HasSuffix(text, "\n")
			text = strings.TrimSuffix(text, "\n")

			switch line.Type {
			case diff.Addition:
				green.Printf("+%s\n", text)
			case diff.Deletion:
				red.Printf("-%s\n", text)
			default:
				fmt.Printf(" %s\n", text)
			}
			if missingNewline {
				fmt.Println(`\ No newline at end of file`)
			}
		}
	}
}

// printDiffStat prints a per-file summary of added and removed lines
func printDiffStat(diffs []diff.FileDiff) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	width := 0
	for _, d := range diffs {
		if len(d.Path) > width {
			width = len(d.Path)
		}
	}

	added, removed := 0, 0
	for _, d := range diffs {
		fmt.Printf(" %-*s | ", width, d.Path)
		if d.Binary {
			fmt.Println("Bin")
			continue
		}
		if d.TooLarge {
			fmt.Println("Large")
			continue
		}
		fmt.Printf("%d ", d.Stats.Added+d.Stats.Removed)
		green.Print(strings.Repeat("+", min(d.Stats.Added, 40)))
		red.Print(strings.Repeat("-", min(d.Stats.Removed, 40)))
		fmt.Println()
		added += d.Stats.Added
		removed += d.Stats.Removed
	}
	fmt.Printf(" %d file(s) changed, %d insertion(s)(+), %d deletion(s)(-)\n", len(diffs), added, removed)
}
