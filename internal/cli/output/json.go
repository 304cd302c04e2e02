package output

import (
	"encoding/json"
	"io"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/token"
)

type jsonLocation struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

type jsonEdit struct {
	Content     string       `json:"content"`
	Location    jsonLocation `json:"location"`
	EndLocation jsonLocation `json:"end_location"`
}

type jsonFix struct {
	Applicability string     `json:"applicability"`
	Message       string     `json:"message"`
	Edits         []jsonEdit `json:"edits"`
}

type jsonViolation struct {
	Code        string       `json:"code"`
	Name        string       `json:"name,omitempty"`
	Message     string       `json:"message"`
	Filename    string       `json:"filename"`
	Location    jsonLocation `json:"location"`
	EndLocation jsonLocation `json:"end_location"`
	Fix         *jsonFix     `json:"fix"`
	URL         string       `json:"url,omitempty"`
}

func location(p token.Position) jsonLocation {
	return jsonLocation{Row: p.Line, Column: p.Column}
}

// writeJSON writes all violations as one array. No violations produce [].
func writeJSON(w io.Writer, entries []entry, lookup Lookup) error {
	items := make([]jsonViolation, 0, len(entries))
	for _, e := range entries {
		item := jsonViolation{
			Code:        e.v.Code,
			Message:     e.v.Message,
			Filename:    e.file.Name,
			Location:    location(e.v.Span.Start),
			EndLocation: location(e.v.Span.End),
			Fix:         fixJSON(e.file, e.v.Fix),
		}
		if rule, ok := lookup(e.v.Code); ok {
			item.Name = rule.Name()
			item.URL = lint.BuildDocURL(rule.Code())
		}
		items = append(items, item)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func fixJSON(file *source.File, f *lint.Fix) *jsonFix {
	if f == nil {
		return nil
	}
	out := &jsonFix{
		Applicability: f.Applicability.String(),
		Message:       f.Description,
		Edits:         make([]jsonEdit, 0, len(f.Edits)),
	}
	for _, ed := range f.Edits {
		out.Edits = append(out.Edits, jsonEdit{
			Content:     ed.Content,
			Location:    location(file.Position(ed.Start)),
			EndLocation: location(file.Position(ed.End)),
		})
	}
	return out
}
