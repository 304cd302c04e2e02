package lint

import (
	"strings"

	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/token"
)

// noqa is a suppression comment. A nil codes list suppresses every rule.
type noqa struct {
	codes []string
}

func (n noqa) covers(code string) bool {
	if n.codes == nil {
		return true
	}
	for _, c := range n.codes {
		if strings.HasPrefix(code, c) {
			return true
		}
	}
	return false
}

// parseNoqa recognizes "! noqa" and "! noqa: T001, S1".
func parseNoqa(c *token.Comment) (noqa, bool) {
	if !c.IsLineComment() {
		return noqa{}, false
	}
	body := c.Body()
	if len(body) < 4 || !strings.EqualFold(body[:4], "noqa") {
		return noqa{}, false
	}
	rest := strings.TrimSpace(body[4:])
	if rest == "" {
		return noqa{}, true
	}
	if rest[0] != ':' {
		return noqa{}, false
	}
	codes := []string{}
	for _, f := range strings.FieldsFunc(rest[1:], func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		codes = append(codes, strings.ToUpper(f))
	}
	return noqa{codes: codes}, true
}

// suppress drops violations starting on a line that carries a matching noqa
// comment and returns the kept violations and the number dropped.
func suppress(vs []Violation, file *source.File, comments []*token.Comment) ([]Violation, int) {
	if len(vs) == 0 || len(comments) == 0 {
		return vs, 0
	}
	byLine := make(map[int]noqa)
	for _, c := range comments {
		if n, ok := parseNoqa(c); ok {
			byLine[file.Position(c.Span.Start.Offset).Line] = n
		}
	}
	if len(byLine) == 0 {
		return vs, 0
	}
	kept := vs[:0]
	dropped := 0
	for _, v := range vs {
		if n, ok := byLine[v.Span.Start.Line]; ok && n.covers(v.Code) {
			dropped++
			continue
		}
		kept = append(kept, v)
	}
	return kept, dropped
}
