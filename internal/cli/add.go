package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [-A] [<path> | <glob> | .]...",
	Short: "Add file contents to the staging area",
	Long: `Add file contents to the staging area.

Ignored files are skipped when expanding directories and globs, but a file
named explicitly is always staged.

Examples:
  wbg add .                 Stage everything under the current directory
  wbg add src/main.go       Stage one file
  wbg add '**/*.go'         Stage every Go file
  wbg add -A                Stage all modified and deleted tracked files`,
	Run: runAdd,
}

var addAll bool

func init() {
	addCmd.Flags().BoolVarP(&addAll, "all", "A", false, "Stage all modified and deleted tracked files")
}

func runAdd(cmd *cobra.Command, args []string) {
	if len(args) == 0 && !addAll {
		exitError("nothing specified, nothing added")
	}

	c := initContext()
	defer c.Close()

	result := c.run(core.AddOp{Options: core.AddOptions{
		Paths: c.repoPaths(args),
		All:   addAll,
	}}).(*core.AddResult)

	if result.Count() == 0 {
		fmt.Println("No changes to stage")
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	for _, p := range result.Staged {
		green.Printf("  staged:   %s\n", p)
	}
	for _, p := range result.Deleted {
		red.Printf("  deleted:  %s\n", p)
	}
	for _, p := range result.Restored {
		fmt.Printf("  restored: %s\n", p)
	}
}

var unstageCmd = &cobra.Command{
	Use:   "unstage <path>...",
	Short: "Remove paths from the staging area",
	Long: `Remove paths from the staging area. The working tree is not touched.

Examples:
  wbg unstage notes.txt     Unstage one file
  wbg unstage docs          Unstage everything under docs/
  wbg unstage .             Unstage everything`,
	Args: cobra.MinimumNArgs(1),
	Run:  runUnstage,
}

func runUnstage(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	removed := c.run(core.UnstageOp{Paths: c.repoPaths(args)}).([]string)
	if len(removed) == 0 {
		fmt.Println("Nothing to unstage")
		return
	}
	for _, p := range removed {
		fmt.Printf("  unstaged: %s\n", p)
	}
}
