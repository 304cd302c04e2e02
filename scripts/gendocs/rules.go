package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"modules": "Rules about where procedures live.",
	"style":   "Rules about layout and naming that do not change meaning.",
	"typing":  "Rules about implicit typing.",
}

// generateRuleDocs writes an index of every rule plus one page per rule.
// Page names are lower-cased rule codes, matching the URLs built by lint.BuildDocURL.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reg, err := rules.Default(lint.DefaultSettings())
	if err != nil {
		return err
	}

	if err := generateRuleIndex(outDir, reg); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, rule := range reg.Rules() {
		w := NewMarkdownWriter()
		w.Frontmatter(fmt.Sprintf("%s (%s)", rule.Name(), rule.Code()), rule.Summary())
		w.GeneratedMarker()
		writeRuleDoc(w, rule)
		name := strings.ToLower(rule.Code()) + ".md"
		if err := os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600); err != nil {
			return err
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func generateRuleIndex(outDir string, reg *lint.Registry) error {
	w := NewMarkdownWriter()
	w.Frontmatter("Rules", "Every rule fortlint can check")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("fortlint has %d rules. Rules marked %s fix violations with %s; "+
		"preview rules only run with %s.", len(reg.Rules()), InlineCode("🛠"), InlineCode("--fix"), InlineCode("--preview")))

	for _, group := range reg.Groups() {
		w.Header(2, capitalizeFirst(group))
		if desc := groupDescriptions[group]; desc != "" {
			w.Paragraph(desc)
		}
		var rows [][]string
		for _, rule := range reg.ByGroup(group) {
			marks := ""
			if rule.FixAvailability() != lint.FixNone {
				marks += "🛠"
			}
			if rule.IsPreview() {
				marks += "🧪"
			}
			rows = append(rows, []string{
				fmt.Sprintf("[%s](%s.md)", rule.Code(), strings.ToLower(rule.Code())),
				InlineCode(rule.Name()),
				cleanDescription(rule.Summary()),
				marks,
			})
		}
		w.Table([]string{"Code", "Name", "Summary", ""}, rows)
	}

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule lint.Rule) {
	w.Header(1, fmt.Sprintf("%s (%s)", rule.Name(), rule.Code()))
	w.Paragraph(fmt.Sprintf("Derived from the **%s** rules.", capitalizeFirst(rule.Group())))

	if rule.IsPreview() {
		w.Paragraph("This rule is in preview and must be enabled with `--preview`.")
	}

	w.Line(fmt.Sprintf("**Fix:** %s", InlineCode(rule.FixAvailability().String())))
	w.Newline()

	w.Header(2, "What it does")
	w.Paragraph(rule.Summary())

	w.Header(2, "Why is this bad?")
	w.Paragraph(rule.Explain())
}
