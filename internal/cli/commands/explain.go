package commands

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/fortlint/internal/cli/output"
	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules"
)

// NewExplainCommand creates the explain command.
func NewExplainCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "explain [RULE_CODE...]",
		Short: "Explain what rules check and why",
		Long: `Print the description, rationale and fix behavior of rules.

Arguments are rule selectors: an exact code such as T001, a prefix such as
T, or ALL. Several selectors may be separated by commas or spaces. Without
arguments every rule is explained.`,
		Example: `  # Explain one rule
  fortlint explain T001

  # Explain the style rules as markdown
  fortlint explain S --format markdown`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := output.ParseMode(format)
			if err != nil {
				return fatal(err)
			}
			cctx := NewCommandContextWithoutConfig(cmd, mode)
			reg, err := rules.Default(lint.DefaultSettings())
			if err != nil {
				return fatal(err)
			}
			selected, err := selectRules(reg, args)
			if err != nil {
				return fatal(err)
			}
			return explainRules(cctx.Renderer, selected)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: auto, text, markdown, json")
	return cmd
}

// selectRules expands selector arguments, preview rules included, in code
// order. No arguments selects every rule.
func selectRules(reg *lint.Registry, args []string) ([]lint.Rule, error) {
	if len(args) == 0 {
		return reg.Rules(), nil
	}
	var codes []string
	for _, arg := range args {
		sels, err := lint.ParseSelectors(arg)
		if err != nil {
			return nil, err
		}
		for _, sel := range sels {
			matched, err := reg.Match(sel, true)
			if err != nil {
				return nil, err
			}
			codes = append(codes, matched...)
		}
	}
	var out []lint.Rule
	for _, code := range lint.NewRuleSet(codes...) {
		rule, _ := reg.Get(code)
		out = append(out, rule)
	}
	return out, nil
}

// ruleDoc is the JSON form of an explained rule.
type ruleDoc struct {
	lint.RuleInfo
	Explanation string `json:"explanation"`
}

func explainRules(r *output.Renderer, selected []lint.Rule) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		docs := make([]ruleDoc, 0, len(selected))
		for _, rule := range selected {
			docs = append(docs, ruleDoc{RuleInfo: lint.GetRuleInfo(rule), Explanation: rule.Explain()})
		}
		return r.JSON(docs)
	case output.ModeMarkdown:
		for i, rule := range selected {
			if i > 0 {
				r.Println("")
			}
			explainMarkdown(r, rule)
		}
	default:
		for i, rule := range selected {
			if i > 0 {
				r.Println("")
			}
			explainText(r, rule)
		}
	}
	return nil
}

var titleCaser = cases.Title(language.English)

// explainWidth is the wrap column of explanations in text mode.
const explainWidth = 76

func fixSentence(f lint.FixAvailability) string {
	switch f {
	case lint.FixAlways:
		return "Fix is always available."
	case lint.FixSometimes:
		return "Fix is sometimes available."
	default:
		return "Fix is not available."
	}
}

func explainText(r *output.Renderer, rule lint.Rule) {
	styles := r.Styles()
	r.Println(styles.Header1.Render(fmt.Sprintf("%s (%s)", rule.Name(), rule.Code())))
	r.Println("")
	details := []string{
		styles.Bold.Render("Group") + ": " + titleCaser.String(rule.Group()),
		styles.Bold.Render("Fix") + ": " + rule.FixAvailability().String(),
	}
	if rule.IsPreview() {
		details = append(details, styles.Warning.Render("preview"))
	}
	r.Println("  " + strings.Join(details, "  "))
	r.Println("")
	r.Println(indent.String(wordwrap.String(strings.TrimSpace(rule.Explain()), explainWidth), 2))
	r.Println(styles.Muted.Render("  " + lint.BuildDocURL(rule.Code())))
}

func explainMarkdown(r *output.Renderer, rule lint.Rule) {
	r.Printf("# %s (%s)\n\n", rule.Name(), rule.Code())
	r.Printf("Derived from the **%s** rules.\n\n", titleCaser.String(rule.Group()))
	if rule.IsPreview() {
		r.Println("This rule is in preview and must be enabled with `--preview`.")
		r.Println("")
	}
	r.Println(fixSentence(rule.FixAvailability()))
	r.Println("")
	r.Println(strings.TrimSpace(rule.Explain()))
}
