package lsp

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func requestActions(t *testing.T, s *Server, params codeActionParams) []codeAction {
	t.Helper()
	var out bytes.Buffer
	s.out.Reset(&out)
	payload, err := json.Marshal(params)
	require.NoError(t, err)
	require.NoError(t, s.handleMessage(&rpcMessage{JSONRPC: "2.0", ID: json.RawMessage(`7`), Method: "textDocument/codeAction", Params: payload}))
	msgs := readAll(t, &out)
	require.Len(t, msgs, 1)
	require.Nil(t, msgs[0].Error)
	var actions []codeAction
	require.NoError(t, json.Unmarshal(msgs[0].Result, &actions))
	return actions
}

func openDoc(t *testing.T, s *Server, text string) string {
	t.Helper()
	uri := pathToURI(filepath.Join(t.TempDir(), "a.cs"))
	call(t, s, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: text},
	})
	return uri
}

func TestQuickFixForGroupUnderCaret(t *testing.T) {
	server := newTestServer(t, &bytes.Buffer{})
	uri := openDoc(t, server, "var x = (a);\nvar y = (b);\n")

	caret := position{Line: 1, Character: 9}
	actions := requestActions(t, server, codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Range:        lspRange{Start: caret, End: caret},
		Context:      codeActionContext{Only: []string{kindQuickFix}},
	})
	require.Len(t, actions, 1)
	action := actions[0]
	require.Equal(t, kindQuickFix, action.Kind)
	require.Equal(t, "Remove unnecessary parentheses", action.Title)
	require.True(t, action.IsPreferred)
	require.Equal(t, []textEdit{
		{Range: lspRange{Start: position{Line: 1, Character: 8}, End: position{Line: 1, Character: 9}}},
		{Range: lspRange{Start: position{Line: 1, Character: 10}, End: position{Line: 1, Character: 11}}},
	}, action.Edit.Changes[uri])
}

func TestQuickFixLinksPublishedDiagnostic(t *testing.T) {
	var published bytes.Buffer
	server := newTestServer(t, &published)
	uri := openDoc(t, server, "var x = (a);\n")
	flush(server)
	diags := decodePublish(t, readAll(t, &published)[0]).Diagnostics

	actions := requestActions(t, server, codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Range:        diags[0].Range,
		Context:      codeActionContext{Diagnostics: diags[:1], Only: []string{kindQuickFix}},
	})
	require.Len(t, actions, 1)
	require.Len(t, actions[0].Diagnostics, 1)
	require.Equal(t, diags[0].Data, actions[0].Diagnostics[0].Data)
}

func TestFixAllAction(t *testing.T) {
	server := newTestServer(t, &bytes.Buffer{})
	uri := openDoc(t, server, "var a = ((x)) + (1 * 2) - ((3));\n")

	actions := requestActions(t, server, codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Context:      codeActionContext{Only: []string{kindFixAll}},
	})
	require.Len(t, actions, 1)
	require.Equal(t, kindFixAllUnparen, actions[0].Kind)

	// правки применяются с конца, чтобы смещения не поехали
	text := "var a = ((x)) + (1 * 2) - ((3));\n"
	edits := actions[0].Edit.Changes[uri]
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		start := offsetForPosition(text, e.Range.Start)
		end := offsetForPosition(text, e.Range.End)
		text = text[:start] + e.NewText + text[end:]
	}
	require.Equal(t, "var a = x + 1 * 2 - 3;\n", text)
}

func TestNoActionsForBrokenOrClosedDocuments(t *testing.T) {
	server := newTestServer(t, &bytes.Buffer{})
	broken := openDoc(t, server, "var x = ((a);\n")
	require.Empty(t, requestActions(t, server, codeActionParams{TextDocument: textDocumentIdentifier{URI: broken}}))
	require.Empty(t, requestActions(t, server, codeActionParams{TextDocument: textDocumentIdentifier{URI: "file:///nowhere/b.cs"}}))
}

func TestWantsKindFilter(t *testing.T) {
	require.True(t, wants(nil, kindQuickFix))
	require.True(t, wants([]string{"source"}, kindFixAllUnparen))
	require.True(t, wants([]string{kindFixAll}, kindFixAllUnparen))
	require.False(t, wants([]string{kindFixAll}, kindQuickFix))
	require.False(t, wants([]string{"source.fix"}, kindFixAllUnparen))
}

func TestCodeActionsUseCurrentText(t *testing.T) {
	server := newTestServer(t, &bytes.Buffer{})
	uri := openDoc(t, server, "var x = a;\n")
	call(t, server, "textDocument/didChange", didChangeTextDocumentParams{
		TextDocument:   versionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{{Text: "var x = (a);\n"}},
	})
	a, err := server.currentAnalysis(context.Background(), uri)
	require.NoError(t, err)
	require.Equal(t, 2, a.version)
	require.Len(t, a.verdicts, 1)
}
