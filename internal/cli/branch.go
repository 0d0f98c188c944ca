package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/kilupskalvis/wbg/internal/models"
	"github.com/spf13/cobra"
)

var branchCmd = &cobra.Command{
	Use:   "branch [name [start]]",
	Short: "List, create, rename or delete branches",
	Long: `Manage branches in the wbg repository.

Without arguments, lists all branches.
With a name argument, creates a new branch at HEAD.
The branch HEAD is attached to can never be deleted.

Examples:
  wbg branch                   # List all branches
  wbg branch feature           # Create 'feature' branch at HEAD
  wbg branch feature abc1234   # Create 'feature' branch at commit abc1234
  wbg branch -m old new        # Rename 'old' to 'new'
  wbg branch -d feature        # Delete 'feature' branch`,
	Args: cobra.MaximumNArgs(2),
	Run:  runBranch,
}

var (
	branchDelete bool
	branchMove   bool
)

func init() {
	branchCmd.Flags().BoolVarP(&branchDelete, "delete", "d", false, "Delete a branch")
	branchCmd.Flags().BoolVarP(&branchMove, "move", "m", false, "Rename a branch")
	branchCmd.MarkFlagsMutuallyExclusive("delete", "move")
}

func runBranch(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	switch {
	case branchDelete:
		if len(args) != 1 {
			exitError("branch name required for deletion")
		}
		c.run(core.BranchDeleteOp{Name: args[0]})
		fmt.Printf("Deleted branch '%s'\n", args[0])

	case branchMove:
		if len(args) != 2 {
			exitError("usage: wbg branch -m <old> <new>")
		}
		c.run(core.BranchRenameOp{OldName: args[0], NewName: args[1]})
		fmt.Printf("Renamed branch '%s' to '%s'\n", args[0], args[1])

	case len(args) > 0:
		op := core.BranchCreateOp{Name: args[0]}
		if len(args) > 1 {
			op.StartPoint = args[1]
		}
		branch := c.run(op).(*models.Branch)
		fmt.Printf("Created branch '%s' at %s\n", branch.Name, shortID(branch.CommitID))

	default:
		listBranches(c)
	}
}

func listBranches(c *cmdContext) {
	branches := c.run(core.BranchListOp{}).([]core.BranchInfo)
	if len(branches) == 0 {
		fmt.Println("No branches yet. Create a commit first, then branches will be available.")
		return
	}

	green := color.New(color.FgGreen)
	for _, branch := range branches {
		if branch.Current {
			green.Printf("* %s\n", branch.Name)
		} else {
			fmt.Printf("  %s\n", branch.Name)
		}
	}
}
