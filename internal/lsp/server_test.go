package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"unparen/internal/parens"
)

func newTestServer(t *testing.T, out io.Writer) *Server {
	t.Helper()
	style := parens.AlwaysRemove()
	return NewServer(bytes.NewReader(nil), out, ServerOptions{
		Debounce: time.Hour,
		Style:    &style,
		Log:      io.Discard,
	})
}

func call(t *testing.T, s *Server, method string, params any) {
	t.Helper()
	payload, err := json.Marshal(params)
	require.NoError(t, err)
	require.NoError(t, s.handleMessage(&rpcMessage{JSONRPC: "2.0", Method: method, Params: payload}))
}

// flush runs the pending analysis right away instead of waiting for the timer.
func flush(s *Server) {
	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	seq := s.analysisSeq
	s.mu.Unlock()
	s.runDiagnostics(seq)
}

func readAll(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	var msgs []rpcMessage
	for {
		payload, err := readMessage(reader)
		if errors.Is(err, io.EOF) {
			return msgs
		}
		require.NoError(t, err)
		var msg rpcMessage
		require.NoError(t, json.Unmarshal(payload, &msg))
		msgs = append(msgs, msg)
	}
}

func decodePublish(t *testing.T, msg rpcMessage) publishDiagnosticsParams {
	t.Helper()
	require.Equal(t, "textDocument/publishDiagnostics", msg.Method)
	var params publishDiagnosticsParams
	require.NoError(t, json.Unmarshal(msg.Params, &params))
	return params
}

func TestPublishDiagnosticsMapping(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "a.cs"))
	var out bytes.Buffer
	server := newTestServer(t, &out)

	call(t, server, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "var y = 2;\n"},
	})
	call(t, server, "textDocument/didChange", didChangeTextDocumentParams{
		TextDocument: versionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{{
			Range: &lspRange{Start: position{Line: 1, Character: 0}, End: position{Line: 1, Character: 0}},
			Text:  "var x = (a);\n",
		}},
	})
	flush(server)

	msgs := readAll(t, &out)
	require.Len(t, msgs, 1)
	params := decodePublish(t, msgs[0])
	require.Equal(t, uri, params.URI)
	require.NotNil(t, params.Version)
	require.Equal(t, 2, *params.Version)

	// одна основная диагностика и две приглушённые скобки
	require.Len(t, params.Diagnostics, 3)
	primary := params.Diagnostics[0]
	require.Equal(t, "STY3001", primary.Code)
	require.Equal(t, "unparen", primary.Source)
	require.Equal(t, severityHint, primary.Severity)
	require.Empty(t, primary.Tags)
	require.Equal(t, lspRange{Start: position{Line: 1, Character: 8}, End: position{Line: 1, Character: 11}}, primary.Range)
	require.NotNil(t, primary.Data)
	require.Len(t, primary.RelatedInformation, 2)

	var faded []lspRange
	for _, d := range params.Diagnostics[1:] {
		require.Equal(t, []int{tagUnnecessary}, d.Tags)
		require.Equal(t, primary.Data, d.Data)
		faded = append(faded, d.Range)
	}
	want := []lspRange{
		{Start: position{Line: 1, Character: 8}, End: position{Line: 1, Character: 9}},
		{Start: position{Line: 1, Character: 10}, End: position{Line: 1, Character: 11}},
	}
	if diff := cmp.Diff(want, faded); diff != "" {
		t.Fatalf("faded ranges mismatch (-want +got):\n%s", diff)
	}
}

func TestPublishSyntaxErrors(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "broken.cs"))
	var out bytes.Buffer
	server := newTestServer(t, &out)

	call(t, server, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "var x = (1 + ;\n"},
	})
	flush(server)

	msgs := readAll(t, &out)
	require.Len(t, msgs, 1)
	params := decodePublish(t, msgs[0])
	require.NotEmpty(t, params.Diagnostics)
	errs := 0
	for _, d := range params.Diagnostics {
		require.NotEqual(t, "STY3001", d.Code)
		if d.Severity == severityError {
			errs++
		}
	}
	require.Positive(t, errs)
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "a.cs"))
	var out bytes.Buffer
	server := newTestServer(t, &out)

	call(t, server, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "var x = (a);\n"},
	})
	flush(server)
	call(t, server, "textDocument/didClose", didCloseTextDocumentParams{
		TextDocument: textDocumentIdentifier{URI: uri},
	})

	msgs := readAll(t, &out)
	require.Len(t, msgs, 2)
	require.NotEmpty(t, decodePublish(t, msgs[0]).Diagnostics)
	cleared := decodePublish(t, msgs[1])
	require.Equal(t, uri, cleared.URI)
	require.Empty(t, cleared.Diagnostics)
}

func TestStaleRunPublishesNothing(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "a.cs"))
	var out bytes.Buffer
	server := newTestServer(t, &out)

	call(t, server, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "var x = (a);\n"},
	})
	server.mu.Lock()
	stale := server.analysisSeq
	server.mu.Unlock()
	server.scheduleDiagnostics()
	server.runDiagnostics(stale)
	require.Empty(t, readAll(t, &out))
}

func TestSettingsOverrideStyle(t *testing.T) {
	uri := pathToURI(filepath.Join(t.TempDir(), "a.cs"))
	var out bytes.Buffer
	style := parens.DefaultOptions()
	server := NewServer(bytes.NewReader(nil), &out, ServerOptions{Debounce: time.Hour, Style: &style, Log: io.Discard})

	call(t, server, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, Version: 1, Text: "var x = 1 + (2 * 3);\n"},
	})
	flush(server)
	call(t, server, "workspace/didChangeConfiguration", json.RawMessage(`{"settings":{"unparen":{"arithmetic":"always"}}}`))
	flush(server)

	msgs := readAll(t, &out)
	require.Len(t, msgs, 2)
	require.Empty(t, decodePublish(t, msgs[0]).Diagnostics)
	require.NotEmpty(t, decodePublish(t, msgs[1]).Diagnostics)
}

func TestInvalidSettingsAreRejected(t *testing.T) {
	server := newTestServer(t, io.Discard)
	require.Error(t, server.applySettings(json.RawMessage(`{"unparen":{"patterns":"sometimes"}}`)))
	require.NoError(t, server.applySettings(json.RawMessage(`{"unparen":{"patterns":"require","trace":true}}`)))
	server.mu.Lock()
	defer server.mu.Unlock()
	require.True(t, server.traceLSP)
	require.NotNil(t, server.settings.Patterns)
}

func TestRunLifecycle(t *testing.T) {
	var in bytes.Buffer
	for _, msg := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"rootUri":"file:///tmp"}}`,
		`{"jsonrpc":"2.0","method":"initialized","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"textDocument/hover","params":{}}`,
		`{"jsonrpc":"2.0","id":3,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	} {
		require.NoError(t, writeMessage(&in, []byte(msg)))
	}
	var out bytes.Buffer
	server := NewServer(&in, &out, ServerOptions{Log: io.Discard})
	err := server.Run(context.Background())
	require.ErrorIs(t, err, ErrExit)

	msgs := readAll(t, &out)
	require.Len(t, msgs, 3)

	var initRes initializeResult
	require.NoError(t, json.Unmarshal(msgs[0].Result, &initRes))
	require.True(t, initRes.Capabilities.TextDocumentSync.OpenClose)
	require.NotNil(t, initRes.Capabilities.CodeActionProvider)
	require.Contains(t, initRes.Capabilities.CodeActionProvider.CodeActionKinds, kindQuickFix)
	require.Equal(t, "unparen", initRes.ServerInfo.Name)

	require.NotNil(t, msgs[1].Error)
	require.Equal(t, codeMethodNotFound, msgs[1].Error.Code)
	require.JSONEq(t, `3`, string(msgs[2].ID))
}

func TestExitWithoutShutdown(t *testing.T) {
	var in bytes.Buffer
	require.NoError(t, writeMessage(&in, []byte(`{"jsonrpc":"2.0","method":"exit"}`)))
	server := NewServer(&in, io.Discard, ServerOptions{Log: io.Discard})
	require.ErrorIs(t, server.Run(context.Background()), ErrExitWithoutShutdown)
}
