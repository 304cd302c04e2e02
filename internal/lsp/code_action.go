package lsp

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/source"
)

// handleCodeAction handles the textDocument/codeAction request.
func (s *Server) handleCodeAction(msg *JSONRPCMessage) error {
	var params CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	s.sendResponse(msg.ID, s.getCodeActions(params), nil)
	return nil
}

// wants reports whether the client's Only filter admits kind. Kinds are
// hierarchical, so "source.fixAll" admits "source.fixAll.fortlint".
func wants(only []CodeActionKind, kind CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, k := range only {
		if kind == k || strings.HasPrefix(string(kind), string(k)+".") {
			return true
		}
	}
	return false
}

// getCodeActions returns code actions for the given parameters.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	actions := []CodeAction{}
	uri := params.TextDocument.URI

	res, ok := s.results.get(uri)
	if !ok || s.documents.Get(uri) != res.doc {
		return actions
	}

	if wants(params.Context.Only, CodeActionKindQuickFix) {
		for _, diag := range params.Context.Diagnostics {
			if diag.Source != "fortlint" {
				continue
			}
			for _, v := range res.violations {
				if v.Fix == nil || v.Code != diag.Code || violationToDiagnostic(res.doc, v).Range != diag.Range {
					continue
				}
				actions = append(actions, quickFix(res.doc, v, diag))
			}
		}
	}

	if wants(params.Context.Only, CodeActionKindSourceFortlint) {
		if action, ok := s.fixAllAction(res); ok {
			actions = append(actions, action)
		}
	}
	return actions
}

// quickFix turns the fix of v into a code action.
func quickFix(doc *Document, v lint.Violation, diag Diagnostic) CodeAction {
	title := fmt.Sprintf("%s: %s", v.Code, v.Fix.Description)
	if v.Fix.Applicability == lint.Unsafe {
		title += " (unsafe)"
	}

	edits := make([]TextEdit, 0, len(v.Fix.Edits))
	for _, e := range v.Fix.Edits {
		edits = append(edits, TextEdit{Range: doc.Range(e.Start, e.End), NewText: e.Content})
	}

	return CodeAction{
		Title:       title,
		Kind:        CodeActionKindQuickFix,
		Diagnostics: []Diagnostic{diag},
		IsPreferred: v.Fix.Applicability == lint.Safe,
		Edit:        &WorkspaceEdit{Changes: map[string][]TextEdit{doc.URI: edits}},
	}
}

// fixAllAction applies every safe fix to the document and offers the
// result as a single whole-document edit.
func (s *Server) fixAllAction(res checked) (CodeAction, bool) {
	if !slices.ContainsFunc(res.violations, func(v lint.Violation) bool {
		return v.Fix != nil && v.Fix.Applicability == lint.Safe
	}) {
		return CodeAction{}, false
	}

	rel := s.relPath(res.doc.URI)
	fixed, err := s.checker.FixFile(source.New(rel, []byte(res.doc.Content)), s.opts.Resolver.ForFile(rel), false)
	if err != nil {
		s.logger.Warn("Fix all failed", "uri", res.doc.URI, "error", err)
		s.sendNotification("window/showMessage", &ShowMessageParams{
			Type:    MessageTypeWarning,
			Message: "fortlint: cannot fix all problems: " + err.Error(),
		})
		return CodeAction{}, false
	}
	if !fixed.Changed() {
		return CodeAction{}, false
	}

	whole := res.doc.Range(0, len(res.doc.Content))
	return CodeAction{
		Title: "Fix all auto-fixable problems",
		Kind:  CodeActionKindSourceFortlint,
		Edit: &WorkspaceEdit{Changes: map[string][]TextEdit{
			res.doc.URI: {{Range: whole, NewText: string(fixed.Text)}},
		}},
	}, true
}

// getHover describes the rules whose violations cover the position.
func (s *Server) getHover(params HoverParams) *Hover {
	uri := params.TextDocument.URI
	res, ok := s.results.get(uri)
	if !ok || s.documents.Get(uri) != res.doc {
		return nil
	}
	offset := res.doc.PositionToOffset(params.Position)

	var b strings.Builder
	var span *Range
	for _, v := range res.violations {
		if offset < v.Span.Start.Offset || offset > v.Span.End.Offset {
			continue
		}
		rule, ok := s.opts.Registry.Get(v.Code)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n---\n\n")
		}
		info := lint.GetRuleInfo(rule)
		fmt.Fprintf(&b, "**%s** `%s`\n\n%s\n\n[Documentation](%s)", info.Name, info.Code, info.Summary, info.DocURL)
		if span == nil {
			r := res.doc.Range(v.Span.Start.Offset, v.Span.End.Offset)
			span = &r
		}
	}
	if b.Len() == 0 {
		return nil
	}
	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: b.String()},
		Range:    span,
	}
}
