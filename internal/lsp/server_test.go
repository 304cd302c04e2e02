package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortlint/internal/testutil"
	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules"
)

const dirtyModule = "module dirty\n  implicit none \ncontains\n  subroutine s()\n  end subroutine s\nend module dirty\n"

// session collects client messages to replay against a server.
type session struct {
	buf    bytes.Buffer
	nextID int
}

func (s *session) request(method string, params any) int {
	s.nextID++
	s.write(map[string]any{"jsonrpc": "2.0", "id": s.nextID, "method": method, "params": params})
	return s.nextID
}

func (s *session) notify(method string, params any) {
	s.write(map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
}

func (s *session) write(msg any) {
	body, _ := json.Marshal(msg)
	fmt.Fprintf(&s.buf, "Content-Length: %d\r\n\r\n%s", len(body), body)
}

// transcript is what the server wrote back.
type transcript []JSONRPCMessage

func (tr transcript) response(t *testing.T, id int) JSONRPCMessage {
	t.Helper()
	for _, m := range tr {
		if m.ID != nil && string(*m.ID) == strconv.Itoa(id) {
			return m
		}
	}
	require.Failf(t, "missing response", "no response with id %d", id)
	return JSONRPCMessage{}
}

func (tr transcript) diagnostics(t *testing.T) []PublishDiagnosticsParams {
	t.Helper()
	var out []PublishDiagnosticsParams
	for _, m := range tr {
		if m.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var p PublishDiagnosticsParams
		require.NoError(t, json.Unmarshal(m.Params, &p))
		out = append(out, p)
	}
	return out
}

func readTranscript(t *testing.T, data []byte) transcript {
	t.Helper()
	r := bufio.NewReader(bytes.NewReader(data))
	var out transcript
	for {
		header, err := r.ReadString('\n')
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(header, "Content-Length:")))
		require.NoError(t, err)
		_, err = r.ReadString('\n')
		require.NoError(t, err)

		body := make([]byte, n)
		_, err = io.ReadFull(r, body)
		require.NoError(t, err)
		var msg JSONRPCMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		out = append(out, msg)
	}
}

func newTestServer(t *testing.T, in io.Reader, out io.Writer, root string) *Server {
	t.Helper()
	settings := lint.DefaultSettings()
	reg, err := rules.Default(settings)
	require.NoError(t, err)
	resolver, err := lint.NewResolver(reg, settings)
	require.NoError(t, err)

	srv, err := NewServer(in, out, Options{
		Settings: settings,
		Registry: reg,
		Resolver: resolver,
		Root:     root,
		Version:  "test",
		Logger:   testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return srv
}

// runSession replays s against a fresh server rooted at root.
func runSession(t *testing.T, root string, s *session) transcript {
	t.Helper()
	var out bytes.Buffer
	srv := newTestServer(t, &s.buf, &out, root)
	require.NoError(t, srv.Run())
	return readTranscript(t, out.Bytes())
}

func initialize(s *session, root string) int {
	id := s.request("initialize", map[string]any{"processId": 1, "rootUri": PathToURI(root)})
	s.notify("initialized", map[string]any{})
	return id
}

func openDoc(s *session, uri, text string) {
	s.notify("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "languageId": "fortran", "version": 1, "text": text},
	})
}

func TestNewServerRequiresEngine(t *testing.T) {
	_, err := NewServer(strings.NewReader(""), io.Discard, Options{})
	require.Error(t, err)
}

func TestInitialize(t *testing.T) {
	root := t.TempDir()
	s := &session{}
	id := initialize(s, root)
	s.request("shutdown", nil)
	s.notify("exit", nil)

	tr := runSession(t, root, s)

	var result InitializeResult
	require.NoError(t, json.Unmarshal(tr.response(t, id).Result, &result))
	require.NotNil(t, result.Capabilities.TextDocumentSync)
	assert.Equal(t, TextDocumentSyncKindFull, result.Capabilities.TextDocumentSync.Change)
	assert.True(t, result.Capabilities.HoverProvider)
	require.NotNil(t, result.Capabilities.CodeActionProvider)
	assert.Contains(t, result.Capabilities.CodeActionProvider.CodeActionKinds, CodeActionKindSourceFortlint)
	assert.Equal(t, "fortlint", result.ServerInfo.Name)
	assert.Equal(t, "test", result.ServerInfo.Version)
}

func TestRequestBeforeInitialize(t *testing.T) {
	s := &session{}
	id := s.request("textDocument/hover", map[string]any{})

	tr := runSession(t, t.TempDir(), s)

	resp := tr.response(t, id)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeServerNotInitialized, resp.Error.Code)
}

func TestUnknownMethod(t *testing.T) {
	root := t.TempDir()
	s := &session{}
	initialize(s, root)
	id := s.request("workspace/symbol", map[string]any{})

	tr := runSession(t, root, s)

	resp := tr.response(t, id)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestDiagnosticsLifecycle(t *testing.T) {
	root := t.TempDir()
	uri := PathToURI(filepath.Join(root, "src", "dirty.f90"))

	s := &session{}
	initialize(s, root)
	openDoc(s, uri, dirtyModule)
	s.notify("textDocument/didChange", map[string]any{
		"textDocument":   map[string]any{"uri": uri, "version": 2},
		"contentChanges": []map[string]any{{"text": strings.Replace(dirtyModule, "none ", "none", 1)}},
	})
	s.notify("textDocument/didClose", map[string]any{"textDocument": map[string]any{"uri": uri}})

	published := runSession(t, root, s).diagnostics(t)
	require.Len(t, published, 3)

	opened := published[0]
	assert.Equal(t, uri, opened.URI)
	require.NotNil(t, opened.Version)
	assert.Equal(t, 1, *opened.Version)
	require.Len(t, opened.Diagnostics, 1)
	d := opened.Diagnostics[0]
	assert.Equal(t, "S101", d.Code)
	assert.Equal(t, "fortlint", d.Source)
	assert.Equal(t, DiagnosticSeverityWarning, d.Severity)
	assert.Equal(t, "trailing whitespace", d.Message)
	assert.Equal(t, Range{Start: Position{1, 15}, End: Position{1, 16}}, d.Range)
	require.NotNil(t, d.CodeDescription)
	assert.Equal(t, lint.BuildDocURL("S101"), d.CodeDescription.Href)

	assert.Empty(t, published[1].Diagnostics, "fixed after change")
	assert.Equal(t, 2, *published[1].Version)
	assert.Empty(t, published[2].Diagnostics, "cleared on close")
}

func TestDiagnosticsParseError(t *testing.T) {
	root := t.TempDir()
	uri := PathToURI(filepath.Join(root, "broken.f90"))

	s := &session{}
	initialize(s, root)
	openDoc(s, uri, "subroutine s()\n  x = = 1\nend subroutine s\n")

	published := runSession(t, root, s).diagnostics(t)
	require.Len(t, published, 1)
	require.Len(t, published[0].Diagnostics, 1)
	assert.Equal(t, "E001", published[0].Diagnostics[0].Code)
	assert.Equal(t, DiagnosticSeverityError, published[0].Diagnostics[0].Severity)
}

func TestDiagnosticsSkipsOtherFiles(t *testing.T) {
	root := t.TempDir()
	uri := PathToURI(filepath.Join(root, "notes.txt"))

	s := &session{}
	initialize(s, root)
	openDoc(s, uri, "trailing  \n")

	published := runSession(t, root, s).diagnostics(t)
	require.Len(t, published, 1)
	assert.Empty(t, published[0].Diagnostics)
}

func TestCodeActions(t *testing.T) {
	root := t.TempDir()
	uri := PathToURI(filepath.Join(root, "dirty.f90"))
	diag := Diagnostic{
		Range:  Range{Start: Position{1, 15}, End: Position{1, 16}},
		Code:   "S101",
		Source: "fortlint",
	}

	s := &session{}
	initialize(s, root)
	openDoc(s, uri, dirtyModule)
	all := s.request("textDocument/codeAction", CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Range:        diag.Range,
		Context:      CodeActionContext{Diagnostics: []Diagnostic{diag}},
	})
	onlyFixAll := s.request("textDocument/codeAction", CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Range:        diag.Range,
		Context:      CodeActionContext{Diagnostics: []Diagnostic{diag}, Only: []CodeActionKind{CodeActionKindSourceFixAll}},
	})
	other := s.request("textDocument/codeAction", CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: PathToURI(filepath.Join(root, "closed.f90"))},
		Context:      CodeActionContext{Diagnostics: []Diagnostic{diag}},
	})

	tr := runSession(t, root, s)

	var actions []CodeAction
	require.NoError(t, json.Unmarshal(tr.response(t, all).Result, &actions))
	require.Len(t, actions, 2)

	quick := actions[0]
	assert.Equal(t, CodeActionKindQuickFix, quick.Kind)
	assert.Equal(t, "S101: Remove trailing whitespace", quick.Title)
	assert.True(t, quick.IsPreferred)
	require.NotNil(t, quick.Edit)
	assert.Equal(t, []TextEdit{{Range: diag.Range, NewText: ""}}, quick.Edit.Changes[uri])

	fixAll := actions[1]
	assert.Equal(t, CodeActionKindSourceFortlint, fixAll.Kind)
	require.NotNil(t, fixAll.Edit)
	edits := fixAll.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, strings.Replace(dirtyModule, "none ", "none", 1), edits[0].NewText)
	assert.Equal(t, Position{6, 0}, edits[0].Range.End)

	require.NoError(t, json.Unmarshal(tr.response(t, onlyFixAll).Result, &actions))
	require.Len(t, actions, 1)
	assert.Equal(t, CodeActionKindSourceFortlint, actions[0].Kind)

	require.NoError(t, json.Unmarshal(tr.response(t, other).Result, &actions))
	assert.Empty(t, actions)
}

func TestHover(t *testing.T) {
	root := t.TempDir()
	uri := PathToURI(filepath.Join(root, "dirty.f90"))

	s := &session{}
	initialize(s, root)
	openDoc(s, uri, dirtyModule)
	on := s.request("textDocument/hover", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     Position{1, 15},
	})
	off := s.request("textDocument/hover", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     Position{0, 0},
	})

	tr := runSession(t, root, s)

	var hover Hover
	require.NoError(t, json.Unmarshal(tr.response(t, on).Result, &hover))
	assert.Equal(t, MarkupKindMarkdown, hover.Contents.Kind)
	assert.Contains(t, hover.Contents.Value, "**trailing-whitespace** `S101`")
	assert.Contains(t, hover.Contents.Value, lint.BuildDocURL("S101"))

	assert.Contains(t, []string{"", "null"}, string(tr.response(t, off).Result), "no hover away from violations")
}

func TestShutdownRejectsRequests(t *testing.T) {
	root := t.TempDir()
	s := &session{}
	initialize(s, root)
	s.request("shutdown", nil)
	id := s.request("textDocument/hover", map[string]any{})

	tr := runSession(t, root, s)

	resp := tr.response(t, id)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidRequest, resp.Error.Code)
}
