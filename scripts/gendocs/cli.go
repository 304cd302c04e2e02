package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/fortlint/internal/cli"
	"github.com/leapstack-labs/fortlint/internal/cli/config"
	"github.com/leapstack-labs/fortlint/internal/runner"
)

// documented reports whether cmd gets a page of its own.
func documented(cmd *cobra.Command) bool {
	return !cmd.Hidden && cmd.Name() != "help" && cmd.Name() != "__complete"
}

// generateCLIDocs writes an index page and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string][]byte{"index.md": cliIndex(root)}
	for _, cmd := range root.Commands() {
		if documented(cmd) {
			pages[cmd.Name()+".md"] = commandPage(cmd)
		}
	}

	for name, data := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func cliIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for fortlint")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("fortlint checks Fortran sources against its rule catalog and applies fixes.")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/fortlint/cmd/fortlint@latest\nfortlint check src/")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range root.Commands() {
		if documented(cmd) {
			link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
			rows = append(rows, []string{link, cleanDescription(cmd.Short)})
		}
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph(fmt.Sprintf("Every key of the %s table can be set from the environment with the %s prefix: "+
		"%s sets %s. Flags override the environment, which overrides the config file.",
		InlineCode("check"), InlineCode(config.EnvPrefix),
		InlineCode(config.EnvPrefix+"LINE_LENGTH=120"), InlineCode("check.line-length")))

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode(fmt.Sprint(runner.ExitClean)), "No violations remain"},
		{InlineCode(fmt.Sprint(runner.ExitViolations)), "Violations remain"},
		{InlineCode(fmt.Sprint(runner.ExitFatal)), "A file could not be read, parsed or fixed, or the invocation is invalid"},
	})
	return w.Bytes()
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	use := cmd.UseLine()
	if !strings.HasPrefix(use, "fortlint") {
		use = "fortlint " + use
	}
	w.CodeBlock("bash", use)

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		writeFlagsTable(w, cmd.InheritedFlags())
	}
	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w.Bytes()
}

func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, flagDefault(f), cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// flagDefault renders a flag's default; empty values and zero-length lists
// render as nothing.
func flagDefault(f *pflag.Flag) string {
	switch v := f.DefValue; {
	case v == "" || v == "[]" || v == "0" && f.Value.Type() == "int":
		return ""
	case f.Value.Type() == "bool":
		return v
	default:
		return InlineCode(v)
	}
}

// dedent strips the indentation shared by the non-blank lines of s.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	prefix := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if prefix < 0 || n < prefix {
			prefix = n
		}
	}
	for i, l := range lines {
		lines[i] = l[min(max(prefix, 0), len(l)):]
	}
	return strings.Join(lines, "\n")
}
