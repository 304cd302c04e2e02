package commands

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fortlint/internal/cli/output"
)

//go:embed templates
var templateFS embed.FS

// configTemplates maps --format values to embedded starter configs.
var configTemplates = map[string]string{
	"toml": "templates/fortlint.toml",
	"yaml": "templates/fortlint.yaml",
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var format string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter fortlint configuration",
		Long: `Write a commented fortlint.toml, or fortlint.yaml with --format yaml, that
selects the stable rule groups and shows where per-file ignores and rule
options go.`,
		Example: `  # Initialize in current directory
  fortlint init

  # Write YAML into another directory
  fortlint init lib/ --format yaml

  # Force overwrite existing config
  fortlint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cctx := NewCommandContextWithoutConfig(cmd, output.ModeAuto)
			path, err := writeStarterConfig(dir, format, force)
			if err != nil {
				return fatal(err)
			}
			cctx.Logger.Debug("wrote config", "path", path)
			if cctx.Level < LevelQuiet {
				cctx.Renderer.Success("Created " + path)
				cctx.Renderer.Println("Run 'fortlint check' to lint the project.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().StringVar(&format, "format", "toml", "Config format: toml or yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// writeStarterConfig copies the embedded template for format into dir and
// returns the written path.
func writeStarterConfig(dir, format string, force bool) (string, error) {
	name, ok := configTemplates[format]
	if !ok {
		return "", fmt.Errorf("unknown config format %q (want toml or yaml)", format)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	target := filepath.Join(dir, filepath.Base(name))
	if _, err := os.Stat(target); err == nil && !force {
		return "", fmt.Errorf("%s already exists. Use --force to overwrite", target)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	content, err := templateFS.ReadFile(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target, content, 0o600); err != nil {
		return "", err
	}
	return target, nil
}
