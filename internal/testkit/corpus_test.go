package testkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	var got struct {
		Arithmetic string `yaml:"arithmetic"`
		Ignore     bool   `yaml:"ignore"`
	}
	text := "//% arithmetic: require\n//% ignore: true\nvar x = (a);\n//% not: header\n"
	require.NoError(t, ParseHeader(text, &got))
	require.Equal(t, "require", got.Arithmetic)
	require.True(t, got.Ignore)
}

func TestParseHeaderAbsent(t *testing.T) {
	got := map[string]string{"keep": "me"}
	require.NoError(t, ParseHeader("var x = (a);\n", &got))
	require.Equal(t, map[string]string{"keep": "me"}, got)
}

func TestParseHeaderInvalid(t *testing.T) {
	var got struct{}
	err := ParseHeader("//% [unclosed\n", &got)
	require.ErrorContains(t, err, "corpus header")
}

func TestDiffCompare(t *testing.T) {
	require.Empty(t, DiffCompare("a\nb\n", "a\nb\n"))

	msg := DiffCompare("a\nc\n", "a\nb\n")
	require.Contains(t, msg, "--- want")
	require.Contains(t, msg, "+++ got")
	require.True(t, strings.Contains(msg, "-b") && strings.Contains(msg, "+c"), msg)
}
