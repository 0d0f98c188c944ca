package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for wbg.

To load completions:

Bash:
  $ source <(wbg completion bash)
  # Or add to ~/.bashrc:
  $ echo 'source <(wbg completion bash)' >> ~/.bashrc

Zsh:
  $ source <(wbg completion zsh)
  # Or add to ~/.zshrc:
  $ echo 'source <(wbg completion zsh)' >> ~/.zshrc

Fish:
  $ wbg completion fish | source
  # Or add to config:
  $ wbg completion fish > ~/.config/fish/completions/wbg.fish

PowerShell:
  PS> wbg completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletionV2(out, true)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			default:
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			}
		},
	})
}
