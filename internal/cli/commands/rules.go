package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fortlint/internal/cli/output"
	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Preview bool   // Only preview rules
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-code]",
		Short: "List available lint rules",
		Long: `List every built-in rule with its code, group and fix availability.

With a rule code, show that rule's full documentation, as explain does.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  fortlint rules

  # List the typing rules
  fortlint rules --group typing

  # Show details for a specific rule
  fortlint rules T001

  # Output as JSON
  fortlint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := output.ParseMode(opts.Format)
			if err != nil {
				return fatal(err)
			}
			cctx := NewCommandContextWithoutConfig(cmd, mode)
			reg, err := rules.Default(lint.DefaultSettings())
			if err != nil {
				return fatal(err)
			}
			if len(args) > 0 {
				rule, ok := reg.Get(args[0])
				if !ok {
					return fatal(fmt.Errorf("rule %q not found", args[0]))
				}
				return explainRules(cctx.Renderer, []lint.Rule{rule})
			}
			return listRules(cctx.Renderer, filterRules(reg, opts))
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVar(&opts.Preview, "preview", false, "Only list preview rules")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: auto, text, markdown, json")

	return cmd
}

func filterRules(reg *lint.Registry, opts *RulesOptions) []lint.RuleInfo {
	var out []lint.RuleInfo
	for _, rule := range reg.Rules() {
		if opts.Group != "" && rule.Group() != opts.Group {
			continue
		}
		if opts.Preview && !rule.IsPreview() {
			continue
		}
		out = append(out, lint.GetRuleInfo(rule))
	}
	return out
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []lint.RuleInfo `json:"rules"`
	Count int             `json:"count"`
}

func listRules(r *output.Renderer, infos []lint.RuleInfo) error {
	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		if infos == nil {
			infos = []lint.RuleInfo{}
		}
		return r.JSON(RulesJSONOutput{Rules: infos, Count: len(infos)})
	}

	styles := r.Styles()
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Code", "Name", "Group", "Fix", "Summary"})
	for _, info := range infos {
		name := info.Name
		if info.Preview {
			name += " (preview)"
		}
		code := info.Code
		if mode == output.ModeText {
			code = styles.Bold.Render(code)
		}
		t.AppendRow(table.Row{code, name, titleCaser.String(info.Group), info.Fix, info.Summary})
	}

	if mode == output.ModeMarkdown {
		r.Println(t.RenderMarkdown())
		return nil
	}
	t.SetStyle(table.StyleLight)
	r.Println(t.Render())
	r.Println("")
	r.Println(styles.Muted.Render(fmt.Sprintf("%d rules. Use 'fortlint explain <code>' for detailed documentation.", len(infos))))
	return nil
}
