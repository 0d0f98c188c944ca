// Package cli implements the command-line interface for wbg.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilupskalvis/wbg/internal/config"
	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/kilupskalvis/wbg/internal/logging"
	"github.com/kilupskalvis/wbg/internal/worktree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Repo *core.Repository
	Log  *zap.Logger
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Repo != nil {
		if err := c.Repo.Close(); err != nil {
			c.Log.Warn("close repository", zap.Error(err))
		}
	}
	c.Log.Sync()
}

// newLogger builds the CLI logger, falling back to a no-op logger when
// WBG_LOG_LEVEL is invalid.
func newLogger() *zap.Logger {
	logger, err := logging.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; logging disabled\n", err)
		return logging.Nop()
	}
	return logger
}

// initContext opens the repository containing the current directory
func initContext() *cmdContext {
	logger := newLogger()

	cwd, err := os.Getwd()
	if err != nil {
		exitError("%v", err)
	}
	root, err := config.FindRoot(cwd)
	if err != nil {
		exitWith(err)
	}

	repo, err := core.Open(root, worktree.NewOSTree(root), core.WithLogger(logger))
	if err != nil {
		exitWith(err)
	}
	return &cmdContext{Repo: repo, Log: logger}
}

// run executes one operation and exits on failure.
func (c *cmdContext) run(op core.Operation) any {
	result, err := core.Execute(context.Background(), c.Repo, op)
	if err != nil {
		c.Log.Debug("operation failed", zap.String("op", fmt.Sprintf("%T", op)), zap.Error(err))
		c.Close()
		exitWith(err)
	}
	return result
}

var rootCmd = &cobra.Command{
	Use:   "wbg",
	Short: "A small local version control system",
	Long: `wbg is a single-user, local version control system for a directory
of files. Stage changes, commit snapshots, branch, check out and revert,
and inspect history and diffs.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(unstageCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(revertCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(checkoutCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// exitWith prints err and exits with the status its kind maps to.
func exitWith(err error) {
	if errs.IsFatal(err) {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(errs.ExitCode(err))
}

// shortID returns first 7 characters of an ID
func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

// repoPaths converts command-line paths, relative to the working
// directory, into slash paths relative to the repository root.
func (c *cmdContext) repoPaths(args []string) []string {
	cwd, err := os.Getwd()
	if err != nil {
		exitError("%v", err)
	}
	out := make([]string, 0, len(args))
	for _, arg := range args {
		abs := arg
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, arg)
		}
		rel, err := filepath.Rel(c.Repo.Root, abs)
		if err != nil {
			exitError("%v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}
