package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wbg/internal/core"
	"github.com/kilupskalvis/wbg/internal/models"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log [<ref>]",
	Short: "Show commit history",
	Long: `Display the commit history starting at HEAD, or at the given ref.

With --graph, the history of every branch is merged into one timeline
ordered by commit time, with one column per branch.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLog,
}

var (
	logOneline bool
	logGraph   bool
	logLimit   int
)

func init() {
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "Show each commit on a single line")
	logCmd.Flags().BoolVar(&logGraph, "graph", false, "Show all branches as a merged timeline")
	logCmd.Flags().IntVarP(&logLimit, "n", "n", 0, "Limit the number of commits to show")
}

func runLog(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if logGraph {
		printGraph(c.run(core.GraphOp{Limit: logLimit}).(*core.GraphResult))
		return
	}

	opts := core.LogOptions{Limit: logLimit}
	if len(args) > 0 {
		opts.Start = args[0]
	}
	commits := c.run(core.LogOp{Options: opts}).([]*models.Commit)
	if len(commits) == 0 {
		fmt.Println("No commits yet")
		return
	}

	decorations := c.decorations()
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	for _, commit := range commits {
		if logOneline {
			yellow.Printf("%s ", commit.ShortID())
			if d := decorations[commit.ID]; d != "" {
				cyan.Printf("(%s) ", d)
			}
			fmt.Println(commit.Subject())
			continue
		}
		printCommitHeader(commit, decorations[commit.ID])
	}
}

// decorations maps commit ids to the refs pointing at them, HEAD first.
func (c *cmdContext) decorations() map[string]string {
	head := c.run(core.HeadOp{}).(*models.HeadState)
	branches := c.run(core.BranchListOp{}).([]core.BranchInfo)

	refs := make(map[string][]string)
	if head.IsDetached {
		refs[head.CommitID] = append(refs[head.CommitID], "HEAD")
	}
	for _, b := range branches {
		name := b.Name
		if b.Current {
			name = "HEAD -> " + name
			refs[b.CommitID] = append([]string{name}, refs[b.CommitID]...)
			continue
		}
		refs[b.CommitID] = append(refs[b.CommitID], name)
	}

	out := make(map[string]string, len(refs))
	for id, names := range refs {
		out[id] = strings.Join(names, ", ")
	}
	return out
}

// printGraph renders one column per ref: '*' marks a ref's tip, '|' a
// commit the ref reaches.
func printGraph(g *core.GraphResult) {
	if len(g.Rows) == 0 {
		fmt.Println("No commits yet")
		return
	}

	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	for _, ref := range g.Refs {
		green.Printf("%s ", ref)
	}
	fmt.Println()

	for _, row := range g.Rows {
		tips := make(map[string]bool, len(row.Tips))
		for _, t := range row.Tips {
			tips[t] = true
		}
		for k, ref := range g.Refs {
			switch {
			case tips[ref]:
				fmt.Print("* ")
			case row.OnBranch[k]:
				fmt.Print("| ")
			default:
				fmt.Print("  ")
			}
		}
		yellow.Printf("%s ", row.Commit.ShortID())
		if len(row.Tips) > 0 {
			cyan.Printf("(%s) ", strings.Join(row.Tips, ", "))
		}
		fmt.Println(row.Commit.Subject())
	}

	if len(g.Orphans) > 0 {
		fmt.Printf("\n%d commit(s) not reachable from any branch\n", len(g.Orphans))
	}
}
