package lint

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/leapstack-labs/fortlint/pkg/source"
)

// MaxFixPasses bounds the check and apply loop of FixFile.
const MaxFixPasses = 10

// OverlapError reports two fixes whose edits touch the same bytes. The file
// is left unmodified.
type OverlapError struct {
	First      Edit
	Second     Edit
	FirstCode  string
	SecondCode string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping fixes: %s edits [%d,%d) and %s edits [%d,%d)",
		e.FirstCode, e.First.Start, e.First.End, e.SecondCode, e.Second.Start, e.Second.End)
}

type ownedEdit struct {
	Edit
	code string
	seq  int
}

// ApplyFixes applies the applicable fixes of vs to src in one pass. Safe
// fixes always apply and unsafe fixes only when unsafe is set. It returns the
// new text and the violations whose fixes were applied. Overlapping edits
// fail the whole pass with *OverlapError.
func ApplyFixes(src []byte, vs []Violation, unsafe bool) ([]byte, []Violation, error) {
	var edits []ownedEdit
	var applied []Violation
	for _, v := range vs {
		if !v.Fix.Applies(unsafe) {
			continue
		}
		applied = append(applied, v)
		for _, e := range v.Fix.Edits {
			if e.Start < 0 || e.End < e.Start || e.End > len(src) {
				return nil, nil, fmt.Errorf("%s fix edit [%d,%d) out of range", v.Code, e.Start, e.End)
			}
			edits = append(edits, ownedEdit{Edit: e, code: v.Code, seq: len(edits)})
		}
	}
	if len(applied) == 0 {
		return src, nil, nil
	}

	slices.SortFunc(edits, func(a, b ownedEdit) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End), cmp.Compare(a.seq, b.seq))
	})
	for i := 1; i < len(edits); i++ {
		a, b := edits[i-1], edits[i]
		if b.Start < a.End {
			return nil, nil, &OverlapError{First: a.Edit, Second: b.Edit, FirstCode: a.code, SecondCode: b.code}
		}
	}

	out := bytes.Clone(src)
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		out = slices.Concat(out[:e.Start:e.Start], []byte(e.Content), out[e.End:])
	}
	return out, applied, nil
}

// FixResult is the outcome of FixFile.
type FixResult struct {
	// Text is the fixed source. It equals the input when nothing applied.
	Text []byte
	// Fixed lists the violations whose fixes were applied, over all passes.
	Fixed []Violation
	// Remaining is the check result of the final text.
	Remaining *Result
}

// Changed reports whether any fix was applied.
func (r *FixResult) Changed() bool { return len(r.Fixed) > 0 }

// FixFile checks file, applies the applicable fixes and repeats on the new
// text until no fix applies or MaxFixPasses is reached. Nothing is written;
// on error the caller keeps the original text.
func (c *Checker) FixFile(file *source.File, rs RuleSet, unsafe bool) (*FixResult, error) {
	res := &FixResult{Text: file.Text}
	current := file
	for pass := 0; ; pass++ {
		result, err := c.Check(current, rs)
		if err != nil {
			if pass == 0 {
				return nil, err
			}
			return nil, fmt.Errorf("fixes produced invalid source: %w", err)
		}
		res.Remaining = result
		if pass == MaxFixPasses {
			return res, nil
		}
		text, applied, err := ApplyFixes(current.Text, result.Violations, unsafe)
		if err != nil {
			return nil, err
		}
		if len(applied) == 0 {
			return res, nil
		}
		res.Fixed = append(res.Fixed, applied...)
		res.Text = text
		current = source.New(file.Name, text)
	}
}
