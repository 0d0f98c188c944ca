package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/kilupskalvis/wbg/internal/models"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [commit]",
	Short: "Show commit details",
	Long:  `Show a commit's metadata and the changes it introduced relative to its parent.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runShow,
}

func runShow(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}
	result := c.run(core.ShowOp{Ref: ref}).(*core.ShowResult)

	printCommitHeader(result.Commit, "")
	if len(result.Changes) == 0 {
		fmt.Println("No changes in this commit")
		return
	}
	for i := range result.Changes {
		printFileDiff(&result.Changes[i])
	}
}

// printCommitHeader prints the long form of a commit, decorated with refs.
func printCommitHeader(commit *models.Commit, decoration string) {
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	yellow.Printf("commit %s", commit.ID)
	if decoration != "" {
		cyan.Printf(" (%s)", decoration)
	}
	fmt.Println()

	if commit.ParentID != "" {
		fmt.Printf("Parent: %s\n", shortID(commit.ParentID))
	}
	fmt.Printf("Author: %s <%s>\n", commit.AuthorName, commit.AuthorEmail)
	fmt.Printf("Date:   %s\n", commit.Timestamp.Local().Format("Mon Jan 2 15:04:05 2006 -0700"))
	fmt.Printf("\n    %s\n\n", strings.ReplaceAll(commit.Message, "\n", "\n    "))
}
