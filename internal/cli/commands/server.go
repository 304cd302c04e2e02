package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fortlint/internal/lsp"
	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules"
)

// NewServerCommand creates the server command, which speaks the Language
// Server Protocol over stdin and stdout.
func NewServerCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the language server",
		Long: `Run a Language Server Protocol server over stdin and stdout.

Open Fortran documents are checked on every change and violations are
published as diagnostics. Fixes are offered as quick fixes, and every safe
fix in a document can be applied with the source.fixAll.fortlint action.
Logs are written to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, err := NewCommandContext(cmd)
			if err != nil {
				return fatal(err)
			}
			settings := cctx.Cfg.Settings()
			lint.SetDocsBaseURL(cctx.Cfg.Check.DocsBaseURL)

			reg, err := rules.Default(settings)
			if err != nil {
				return fatal(err)
			}
			resolver, err := lint.NewResolver(reg, settings)
			if err != nil {
				return fatal(fmt.Errorf("invalid rule selection: %w", err))
			}

			srv, err := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Options{
				Settings: settings,
				Registry: reg,
				Resolver: resolver,
				Root:     cctx.Cfg.ProjectRoot,
				Version:  version,
				Logger:   cctx.Logger,
			})
			if err != nil {
				return fatal(err)
			}
			if err := srv.Run(); err != nil {
				return fatal(err)
			}
			return nil
		},
	}
}
