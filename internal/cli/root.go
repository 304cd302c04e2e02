// Package cli provides the command-line interface for fortlint.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fortlint/internal/cli/commands"
	"github.com/leapstack-labs/fortlint/internal/cli/config"
	"github.com/leapstack-labs/fortlint/internal/runner"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// commandsWithoutConfig never read a config file.
var commandsWithoutConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"version":    true,
	"explain":    true,
	"rules":      true,
	"init":       true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "fortlint",
		Short: "fortlint - A linter for Fortran",
		Long: `fortlint checks Fortran source files against a catalog of rules and can
fix many violations automatically.

Configuration is read from fortlint.toml, .fortlint.toml, fortlint.yaml or the
[extra.fortlint] table of fpm.toml, searching upward from the working directory.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger := commands.NewLogger(cmd.ErrOrStderr(), commands.LogLevelFromFlags(cmd.Flags()))
			ctx := context.WithValue(cmd.Context(), config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			if commandsWithoutConfig[cmd.Name()] {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return &commands.ExitError{Code: runner.ExitFatal, Err: err}
			}
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}
			cmd.SetContext(config.WithConfig(ctx, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("fortlint v{{.Version}}\n")

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a fortlint.toml, fpm.toml or fortlint.yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Print violations only, without the summary")
	rootCmd.PersistentFlags().BoolP("silent", "s", false, "Print nothing; report the outcome in the exit status")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet", "silent")

	// Add subcommands
	rootCmd.AddCommand(commands.NewCheckCommand(Version))
	rootCmd.AddCommand(commands.NewExplainCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewCleanCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewServerCommand(Version))
	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command with the process arguments and returns the
// exit status.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(rootCmd *cobra.Command, args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return runner.ExitClean
	}

	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	// Usage errors from cobra, such as unknown flags.
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	return runner.ExitFatal
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for fortlint.

To load completions:

Bash:
  $ source <(fortlint completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ fortlint completion zsh > "${fpath[1]}/_fortlint"

Fish:
  $ fortlint completion fish > ~/.config/fish/completions/fortlint.fish

PowerShell:
  PS> fortlint completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
