package lint

import (
	"fmt"
	"strings"
)

// SelectorKind tags a Selector.
type SelectorKind int

// Selector kinds.
const (
	SelectorAll SelectorKind = iota
	SelectorPrefix
	SelectorCode
)

// Selector identifies one or more rule codes: ALL, a code prefix such as
// "T" or "T00", or an exact code such as "T001".
type Selector struct {
	Kind  SelectorKind
	Value string
}

// All selects every rule.
var All = Selector{Kind: SelectorAll, Value: "ALL"}

// ParseSelector parses one selector token. Codes are one or more upper-case
// letters followed by three digits; any shorter form is a prefix.
func ParseSelector(s string) (Selector, error) {
	if s == "ALL" {
		return All, nil
	}
	letters := 0
	for letters < len(s) && s[letters] >= 'A' && s[letters] <= 'Z' {
		letters++
	}
	digits := 0
	for letters+digits < len(s) && s[letters+digits] >= '0' && s[letters+digits] <= '9' {
		digits++
	}
	switch {
	case letters == 0 || letters+digits != len(s) || digits > 3:
		return Selector{}, &SelectorError{Selector: s, Reason: "not a rule code, prefix or ALL"}
	case digits == 3:
		return Selector{Kind: SelectorCode, Value: s}, nil
	default:
		return Selector{Kind: SelectorPrefix, Value: s}, nil
	}
}

// ParseSelectors parses a comma-separated selector list. Empty items are
// skipped.
func ParseSelectors(s string) ([]Selector, error) {
	out := []Selector{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		sel, err := ParseSelector(item)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

// String returns the selector as written.
func (s Selector) String() string { return s.Value }

// MarshalText implements encoding.TextMarshaler.
func (s Selector) MarshalText() ([]byte, error) { return []byte(s.Value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Selector) UnmarshalText(b []byte) error {
	sel, err := ParseSelector(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*s = sel
	return nil
}

// Matches reports whether code is selected, without regard to preview.
func (s Selector) Matches(code string) bool {
	switch s.Kind {
	case SelectorAll:
		return true
	case SelectorPrefix:
		return strings.HasPrefix(code, s.Value)
	default:
		return code == s.Value
	}
}

// SelectorError reports a selector that is malformed or matches no rule.
type SelectorError struct {
	Selector string
	Reason   string
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("invalid rule selector %q: %s", e.Selector, e.Reason)
}

// MarshalText implements encoding.TextMarshaler.
func (p PatternPrefixPair) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PatternPrefixPair) UnmarshalText(b []byte) error {
	pair, err := ParsePatternPrefixPair(string(b))
	if err != nil {
		return err
	}
	*p = pair
	return nil
}
