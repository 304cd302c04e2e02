package commands

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fortlint/internal/cache"
)

// NewCleanCommand creates the clean command.
func NewCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove cached check results",
		Long: `Remove the cached results of previous checks.

The cache lives in the cache-dir setting, .fortlint_cache next to the
config file by default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, err := NewCommandContext(cmd)
			if err != nil {
				return fatal(err)
			}
			dir := cctx.Cfg.CachePath()
			if dir == "" && cctx.Cfg.Check.CacheDir != "" {
				// Caching is off, but old entries may remain.
				dir = cctx.Cfg.Check.CacheDir
				if !filepath.IsAbs(dir) {
					dir = filepath.Join(cctx.Cfg.ProjectRoot, dir)
				}
			}
			if dir == "" {
				return nil
			}
			if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
				cctx.Logger.Debug("no cache to clear", "dir", dir)
				return nil
			}
			c, err := cache.Open(dir)
			if err != nil {
				return fatal(err)
			}
			if err := c.Clear(); err != nil {
				return fatal(err)
			}
			cctx.Logger.Debug("cache cleared", "dir", c.Dir())
			if cctx.Level < LevelQuiet {
				cctx.Renderer.Success("Removed cached results in " + c.Dir())
			}
			return nil
		},
	}
}
