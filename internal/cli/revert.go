package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/kilupskalvis/wbg/internal/diff"
	"github.com/spf13/cobra"
)

var revertCmd = &cobra.Command{
	Use:   "revert <commit>",
	Short: "Restore the working tree to a commit",
	Long: `Restore the working tree to the snapshot of a commit.

HEAD does not move and no commit is created. Without --hard only the files
of the target commit are written; other files are left as they are. With
--hard, tracked files missing from the target are removed and the staging
area is rewritten so that the next commit records the target snapshot.`,
	Args: cobra.ExactArgs(1),
	Run:  runRevert,
}

var revertHard bool

func init() {
	revertCmd.Flags().BoolVar(&revertHard, "hard", false, "Make the working tree and staging area match the commit exactly")
}

func runRevert(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	result := c.run(core.RevertOp{
		Ref:     args[0],
		Options: core.RevertOptions{Hard: revertHard},
	}).(*core.RevertResult)

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	fmt.Printf("Reverted working tree to %s %s\n", result.Target.ShortID(), result.Target.Subject())
	for _, ch := range result.Changes {
		switch ch.Status {
		case diff.Added:
			green.Printf("  restored: %s\n", ch.Path)
		case diff.Deleted:
			if revertHard {
				red.Printf("  removed:  %s\n", ch.Path)
			} else {
				fmt.Printf("  kept:     %s (not in %s)\n", ch.Path, result.Target.ShortID())
			}
		default:
			yellow.Printf("  reverted: %s\n", ch.Path)
		}
	}
	fmt.Printf(" %d written, %d removed", result.FilesWritten, result.FilesRemoved)
	if revertHard {
		fmt.Printf(", %d staged", result.Staged)
	}
	fmt.Println()
}
