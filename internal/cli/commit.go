package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/kilupskalvis/wbg/internal/models"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record changes to the repository",
	Long: `Create a new commit with staged changes.

By default, only staged changes are committed. Use -a to automatically
stage all modified and deleted tracked files before committing.`,
	Run: runCommit,
}

var (
	commitMessage string
	commitAll     bool
)

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message (required)")
	commitCmd.Flags().BoolVarP(&commitAll, "all", "a", false, "Automatically stage all tracked changes before committing")
	commitCmd.MarkFlagRequired("message")
}

func runCommit(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	commit := c.run(core.CommitOp{Options: core.CommitOptions{
		Message: commitMessage,
		All:     commitAll,
	}}).(*models.Commit)

	green := color.New(color.FgGreen)
	where := commit.Branch
	if where == "" {
		where = "detached HEAD"
	}
	if commit.IsRoot() {
		where += " (root-commit)"
	}
	green.Printf("[%s %s] %s\n", where, commit.ShortID(), commit.Subject())
	fmt.Printf(" %d file(s) in snapshot\n", len(commit.Files))
}
