package cli

import (
	"slices"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rangedeck.

To load completions:

Bash:
  $ source <(rangedeck completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ rangedeck completion bash > /etc/bash_completion.d/rangedeck
  # macOS:
  $ rangedeck completion bash > $(brew --prefix)/etc/bash_completion.d/rangedeck

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ rangedeck completion zsh > "${fpath[1]}/_rangedeck"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ rangedeck completion fish | source

  # To load completions for each session, execute once:
  $ rangedeck completion fish > ~/.config/fish/completions/rangedeck.fish

PowerShell:
  PS> rangedeck completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> rangedeck completion powershell > rangedeck.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// completeKeys completes the comparison key in the first argument: every
// notebook, "global", and every saved ad-hoc comparison.
func (c *CLI) completeKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.loadConfig(cmd); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	keys, err := c.comparisonKeys(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}

// comparisonKeys lists catalog keys followed by stored keys the catalog
// does not know.
func (c *CLI) comparisonKeys(cmd *cobra.Command) ([]string, error) {
	cat, err := c.openCatalog()
	if err != nil {
		return nil, err
	}
	keys := cat.Keys()

	s, err := c.openStore(cmd.Context())
	if err != nil {
		return keys, nil
	}
	defer s.Close()
	stored, err := s.Keys(cmd.Context())
	if err != nil {
		return keys, nil
	}
	for _, k := range stored {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
