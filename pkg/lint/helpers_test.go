package lint

import (
	"bytes"

	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// nodeRule reports every node of kind.
func nodeRule(code, kind string, preview bool) RuleFunc {
	return func(*Settings) RuleDef {
		return RuleDef{
			Code: code, Name: "node-" + kind, Group: "test", Preview: preview,
			Method: NodeMethod{
				Entrypoints: []string{kind},
				Check: func(n syntax.Node, file *source.File) []Violation {
					return []Violation{NodeViolation(file, n, kind+" found")}
				},
			},
		}
	}
}

// trailingSpaceRule flags trailing blanks with a safe fix deleting them.
func trailingSpaceRule(code string) RuleFunc {
	return func(*Settings) RuleDef {
		return RuleDef{
			Code: code, Name: "trailing", Group: "style", Fix: FixAlways,
			Method: TreeMethod{Check: func(_ syntax.Node, file *source.File) []Violation {
				var out []Violation
				for line := 1; line <= file.LineCount(); line++ {
					start, end := file.LineStart(line), file.LineEnd(line)
					trimmed := len(bytes.TrimRight(file.Text[start:end], " \t"))
					if start+trimmed < end {
						v := NewViolation(file, start+trimmed, end, "trailing whitespace")
						out = append(out, v.WithFix(SafeFix("remove", Deletion(start+trimmed, end))))
					}
				}
				return out
			}},
		}
	}
}

// queryRule reports the header of every function.
func queryRule(code string) RuleFunc {
	return func(*Settings) RuleDef {
		return RuleDef{
			Code: code, Name: "function-header", Group: "test",
			Method: QueryMethod{
				Queries: []string{`(function (function_statement) @header)`},
				Report: func(m syntax.Match, file *source.File) []Violation {
					n, _ := m.Node("header")
					return []Violation{NodeViolation(file, n, "function header")}
				},
			},
		}
	}
}

// stubRule is a tree rule that never reports.
func stubRule(code string, preview bool) RuleFunc {
	return func(*Settings) RuleDef {
		return RuleDef{
			Code: code, Name: "stub-" + code, Group: code[:1], Preview: preview,
			Method: TreeMethod{Check: func(syntax.Node, *source.File) []Violation { return nil }},
		}
	}
}
