package cli

import (
	"fmt"
	"os"

	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/kilupskalvis/wbg/internal/worktree"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new wbg repository",
	Long: `Initialize a new wbg repository in the current directory, or in the
given directory. This creates a .wbg directory to store version control data.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		exitError("%v", err)
	}

	logger := newLogger()
	defer logger.Sync()

	repo, err := core.Init(root, worktree.NewOSTree(root), core.WithLogger(logger))
	if err != nil {
		exitWith(err)
	}
	defer repo.Close()

	fmt.Printf("Initialized empty wbg repository in %s/\n", repo.Config.MetaPath())
	fmt.Printf("On branch %s\n", repo.Config.Core.DefaultBranch)
}
