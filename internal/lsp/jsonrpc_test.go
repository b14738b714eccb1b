package lsp

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONRPCFramingMultipleMessages(t *testing.T) {
	var buf bytes.Buffer
	msg1 := []byte(`{"jsonrpc":"2.0","method":"one"}`)
	msg2 := []byte(`{"jsonrpc":"2.0","method":"two"}`)

	require.NoError(t, writeMessage(&buf, msg1))
	require.NoError(t, writeMessage(&buf, msg2))

	reader := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	got1, err := readMessage(reader)
	require.NoError(t, err)
	got2, err := readMessage(reader)
	require.NoError(t, err)
	require.Equal(t, string(msg1), string(got1))
	require.Equal(t, string(msg2), string(got2))
}

func TestJSONRPCExtraHeaders(t *testing.T) {
	raw := "Content-Type: application/vscode-jsonrpc; charset=utf-8\r\ncontent-length: 2\r\n\r\n{}"
	got, err := readMessage(bufio.NewReader(strings.NewReader(raw)))
	require.NoError(t, err)
	require.Equal(t, "{}", string(got))
}

func TestJSONRPCBadHeaders(t *testing.T) {
	for name, raw := range map[string]string{
		"missing length": "X-Other: 1\r\n\r\n{}",
		"bad length":     "Content-Length: abc\r\n\r\n{}",
		"negative":       "Content-Length: -4\r\n\r\n{}",
		"short body":     "Content-Length: 10\r\n\r\n{}",
		"cut header":     "Content-Len",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := readMessage(bufio.NewReader(strings.NewReader(raw)))
			require.Error(t, err)
		})
	}
}
