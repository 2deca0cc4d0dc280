package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codematrix/pkg/config"
	"github.com/matzehuels/codematrix/pkg/pack"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for codematrix.

To load completions:

Bash:
  $ source <(codematrix completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ codematrix completion bash > /etc/bash_completion.d/codematrix
  # macOS:
  $ codematrix completion bash > $(brew --prefix)/etc/bash_completion.d/codematrix

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ codematrix completion zsh > "${fpath[1]}/_codematrix"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ codematrix completion fish | source

  # To load completions for each session, execute once:
  $ codematrix completion fish > ~/.config/fish/completions/codematrix.fish

PowerShell:
  PS> codematrix completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> codematrix completion powershell > codematrix.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// registerValueCompletions completes the enumerated flag values of every
// subcommand: packing strategies, viz types, output formats and cache URLs.
func registerValueCompletions(root *cobra.Command) {
	strategies := make([]string, len(pack.Strategies))
	for i, s := range pack.Strategies {
		strategies[i] = string(s)
	}
	fixed := map[string][]string{
		"strategy": strategies,
		"type":     {config.VizMatrix, config.VizNodelink},
	}

	for _, cmd := range root.Commands() {
		for name, values := range fixed {
			if cmd.Flags().Lookup(name) != nil {
				_ = cmd.RegisterFlagCompletionFunc(name, completeValues(values, cobra.ShellCompDirectiveNoFileComp))
			}
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
		}
	}
	_ = root.RegisterFlagCompletionFunc("cache", completeValues(
		[]string{"none", "file://", "redis://", "mongodb://"},
		cobra.ShellCompDirectiveNoSpace|cobra.ShellCompDirectiveNoFileComp,
	))
}

func completeValues(values []string, directive cobra.ShellCompDirective) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, directive
	}
}

// completeFormats completes the last entry of a comma-separated format list,
// skipping formats already given.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, given := "", []string(nil)
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		given = strings.Split(toComplete[:i], ",")
	}
	var out []string
	for _, f := range config.Formats {
		if !slices.Contains(given, f) && strings.HasPrefix(prefix+f, toComplete) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}
