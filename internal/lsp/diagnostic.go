package lsp

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/leapstack-labs/fortlint/internal/discovery"
	"github.com/leapstack-labs/fortlint/internal/runner"
	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// checked is the last lint result of one document version.
type checked struct {
	doc        *Document
	violations []lint.Violation
}

// resultStore keeps the violations behind the published diagnostics so code
// actions and hover can find their fixes.
type resultStore struct {
	mu      sync.RWMutex
	results map[string]checked
}

func newResultStore() *resultStore {
	return &resultStore{results: make(map[string]checked)}
}

func (s *resultStore) set(uri string, c checked) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[uri] = c
}

func (s *resultStore) get(uri string) (checked, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.results[uri]
	return c, ok
}

func (s *resultStore) clear(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, uri)
}

// relPath is the document path relative to the project root, as per-file
// ignore patterns expect.
func (s *Server) relPath(uri string) string {
	path := URIToPath(uri)
	rel, err := filepath.Rel(s.projectRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// lintDocument runs the checker over doc. Documents whose extension is not
// a configured Fortran suffix yield no violations.
func (s *Server) lintDocument(doc *Document) ([]lint.Violation, error) {
	path := URIToPath(doc.URI)
	if !discovery.HasExtension(path, s.opts.Settings.FileExtensions) {
		return nil, nil
	}
	rel := s.relPath(doc.URI)
	res, err := s.checker.Check(source.New(rel, []byte(doc.Content)), s.opts.Resolver.ForFile(rel))
	if err != nil {
		return nil, err
	}
	return res.Violations, nil
}

// publishDiagnostics lints doc and sends the result to the client.
func (s *Server) publishDiagnostics(doc *Document) {
	violations, err := s.lintDocument(doc)
	diagnostics := []Diagnostic{}

	if err != nil {
		diagnostics = append(diagnostics, s.parseErrorDiagnostic(doc, err))
		s.results.clear(doc.URI)
	} else {
		for _, v := range violations {
			diagnostics = append(diagnostics, violationToDiagnostic(doc, v))
		}
		s.results.set(doc.URI, checked{doc: doc, violations: violations})
	}

	s.logger.Debug("Publishing diagnostics", "uri", doc.URI, "count", len(diagnostics))

	version := doc.Version
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// violationToDiagnostic converts a violation to an LSP diagnostic.
func violationToDiagnostic(doc *Document, v lint.Violation) Diagnostic {
	return Diagnostic{
		Range:           doc.Range(v.Span.Start.Offset, v.Span.End.Offset),
		Severity:        DiagnosticSeverityWarning,
		Code:            v.Code,
		CodeDescription: &CodeDescription{Href: lint.BuildDocURL(v.Code)},
		Source:          "fortlint",
		Message:         v.Message,
	}
}

// parseErrorDiagnostic reports a file that could not be parsed. The range
// covers the rest of the offending line.
func (s *Server) parseErrorDiagnostic(doc *Document, err error) Diagnostic {
	msg := err.Error()
	start := 0
	var pe *syntax.ParseError
	if errors.As(err, &pe) {
		msg = pe.Message
		start = pe.Pos.Offset
	}
	pos := doc.OffsetToPosition(start)
	end := doc.Lines[pos.Line]
	end += len(doc.GetLine(int(pos.Line)))
	return Diagnostic{
		Range:    doc.Range(start, max(start, end)),
		Severity: DiagnosticSeverityError,
		Code:     runner.CodeSyntaxError,
		Source:   "fortlint",
		Message:  msg,
	}
}
