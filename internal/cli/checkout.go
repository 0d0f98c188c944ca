package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <branch|commit>",
	Short: "Switch branches or restore working tree",
	Long: `Switch to a branch or checkout a specific commit.

Examples:
  wbg checkout main          # Switch to main branch
  wbg checkout abc1234       # Checkout specific commit (detached HEAD)
  wbg checkout -b feature    # Create and switch to new branch
  wbg checkout -f main       # Force checkout, discarding uncommitted changes`,
	Args: cobra.ExactArgs(1),
	Run:  runCheckout,
}

var (
	checkoutCreateBranch bool
	checkoutForce        bool
)

func init() {
	checkoutCmd.Flags().BoolVarP(&checkoutCreateBranch, "branch", "b", false, "Create and checkout a new branch")
	checkoutCmd.Flags().BoolVarP(&checkoutForce, "force", "f", false, "Force checkout, discarding local changes")
}

func runCheckout(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	result := c.run(core.CheckoutOp{
		Target: args[0],
		Options: core.CheckoutOptions{
			Create: checkoutCreateBranch,
			Force:  checkoutForce,
		},
	}).(*core.CheckoutResult)

	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	switch {
	case result.Created:
		green.Printf("Switched to a new branch '%s'\n", result.BranchName)
	case result.IsDetached:
		yellow.Printf("HEAD is now at %s\n", shortID(result.TargetCommit))
		fmt.Println("You are in 'detached HEAD' state. You can look around, make experimental")
		fmt.Println("changes and commit them. To create a branch to retain commits, use:")
		fmt.Println("  wbg checkout -b <new-branch-name>")
	default:
		green.Printf("Switched to branch '%s'\n", result.BranchName)
	}

	if result.FilesWritten > 0 || result.FilesRemoved > 0 {
		fmt.Printf("  %d written, %d removed\n", result.FilesWritten, result.FilesRemoved)
	}
}
