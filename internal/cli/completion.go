package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for lightning.

To load completions:

Bash:
  $ source <(lightning completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ lightning completion bash > /etc/bash_completion.d/lightning
  # macOS:
  $ lightning completion bash > $(brew --prefix)/etc/bash_completion.d/lightning

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ lightning completion zsh > "${fpath[1]}/_lightning"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ lightning completion fish | source

  # To load completions for each session, execute once:
  $ lightning completion fish > ~/.config/fish/completions/lightning.fish

PowerShell:
  PS> lightning completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> lightning completion powershell > lightning.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
