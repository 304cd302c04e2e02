package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/leapstack-labs/fortlint/internal/cli/config"
)

// generateConfigDocs writes the configuration reference. Settings are
// listed from the check flags, whose names are the config keys.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fs := pflag.NewFlagSet("check", pflag.ContinueOnError)
	config.AddCheckFlags(fs)

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "fortlint configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("fortlint reads the first of `fortlint.toml`, `.fortlint.toml`, `fortlint.yaml`, `.fortlint.yaml` " +
		"or an `fpm.toml` with an `[extra.fortlint]` table, searching from the working directory upward. " +
		"Relative paths in the file are resolved against its directory.")
	w.CodeBlock("toml", `[check]
line-length = 120
select = ["T", "S"]
ignore = ["S061"]

[check.per-file-ignores]
"legacy/*.f90" = ["T001"]

[check.rules.S001]
ignore-comments = true`)

	w.Header(2, "Settings")
	var rows [][]string
	fs.VisitAll(func(f *pflag.Flag) {
		key := f.Name
		if key == "no-cache" {
			key = "cache"
		}
		rows = append(rows, []string{
			InlineCode(key),
			f.Value.Type(),
			cleanDescription(f.Usage),
			InlineCode(config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))),
		})
	})
	w.Table([]string{"Key", "Type", "Description", "Environment"}, rows)

	w.Header(2, "Rule options")
	w.Paragraph("Rules that take options read them from `[check.rules.<CODE>]`.")
	w.Table([]string{"Rule", "Option", "Description"}, [][]string{
		{InlineCode("S001"), InlineCode("ignore-comments"), "Skip lines that hold only a comment"},
	})

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
