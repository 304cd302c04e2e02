package style

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// LineTooLong detects lines wider than Settings.LineLength.
//
// Options:
//   - ignore-comments (bool): skip lines that hold only a comment
func LineTooLong(s *lint.Settings) lint.RuleDef {
	maxWidth := s.LineLength
	if maxWidth <= 0 {
		maxWidth = lint.DefaultLineLength
	}
	ignoreComments := lint.GetBoolOption(s.Options("S001"), "ignore-comments", false)

	return lint.RuleDef{
		Code:    "S001",
		Name:    "line-too-long",
		Group:   "style",
		Summary: "Lines should not exceed the configured length.",
		Explanation: fmt.Sprintf(`Long lines are hard to read and some compilers reject free-form lines
longer than 132 characters. The maximum is set with 'line-length'
(currently %d). Width is measured in terminal cells, so wide characters count
double.

Lines that consist of a single word, or that end with a URL starting before
the limit, are exempt since they cannot be split.`, maxWidth),
		Method: lint.TreeMethod{Check: func(_ syntax.Node, file *source.File) []lint.Violation {
			return checkLineLength(file, maxWidth, ignoreComments)
		}},
	}
}

func checkLineLength(file *source.File, maxWidth int, ignoreComments bool) []lint.Violation {
	var out []lint.Violation
	for line := 1; line <= file.LineCount(); line++ {
		text := file.Line(line)
		width, cut := measure(text, maxWidth)
		if width <= maxWidth || exempt(text, maxWidth, ignoreComments) {
			continue
		}
		start := file.LineStart(line)
		msg := fmt.Sprintf("line length of %d, exceeds maximum %d", width, maxWidth)
		out = append(out, lint.NewViolation(file, start+cut, start+len(text), msg))
	}
	return out
}

// measure returns the display width of text and the byte offset of the
// first rune past maxWidth.
func measure(text []byte, maxWidth int) (width, cut int) {
	cut = len(text)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRune(text[i:])
		w := runewidth.RuneWidth(r)
		if r == '\t' {
			w = 1
		}
		if width+w > maxWidth && cut == len(text) {
			cut = i
		}
		width += w
		i += size
	}
	return width, cut
}

func exempt(text []byte, maxWidth int, ignoreComments bool) bool {
	trimmed := bytes.TrimSpace(text)
	if bytes.HasPrefix(trimmed, []byte("!")) {
		if ignoreComments {
			return true
		}
		trimmed = bytes.TrimSpace(bytes.TrimLeft(trimmed, "!"))
	}
	fields := strings.Fields(string(trimmed))
	if len(fields) <= 1 {
		return true
	}
	last := fields[len(fields)-1]
	if !strings.Contains(last, "://") {
		return false
	}
	urlStart := bytes.LastIndex(text, []byte(last))
	width, _ := measure(text[:urlStart], maxWidth)
	return width < maxWidth
}
