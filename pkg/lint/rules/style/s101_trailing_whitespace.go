package style

import (
	"bytes"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// TrailingWhitespace detects blanks at the end of lines.
func TrailingWhitespace(*lint.Settings) lint.RuleDef {
	return lint.RuleDef{
		Code:    "S101",
		Name:    "trailing-whitespace",
		Group:   "style",
		Summary: "Lines should not end with whitespace.",
		Explanation: `Trailing whitespace is invisible, clutters diffs and is stripped by most
editors, producing unrelated changes. Whitespace-only lines are reported too.`,
		Fix:    lint.FixAlways,
		Method: lint.TreeMethod{Check: checkTrailingWhitespace},
	}
}

func checkTrailingWhitespace(_ syntax.Node, file *source.File) []lint.Violation {
	var out []lint.Violation
	for line := 1; line <= file.LineCount(); line++ {
		text := file.Line(line)
		kept := len(bytes.TrimRight(text, " \t\f\v"))
		if kept == len(text) {
			continue
		}
		start := file.LineStart(line)
		msg := "trailing whitespace"
		if kept == 0 {
			msg = "whitespace-only line"
		}
		v := lint.NewViolation(file, start+kept, start+len(text), msg)
		out = append(out, v.WithFix(lint.SafeFix("Remove trailing whitespace", lint.Deletion(start+kept, start+len(text)))))
	}
	return out
}
