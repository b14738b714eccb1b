package main

import (
	"fmt"
	"os"
	"strings"

	"unparen/internal/diagfmt"
)

// uiMode is the --ui choice for the progress view of a directory check.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

var uiModeNames = [...]string{
	uiModeAuto: "auto",
	uiModeOn:   "on",
	uiModeOff:  "off",
}

func readUIMode(value string) (uiMode, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return uiModeAuto, nil
	}
	for m, name := range uiModeNames {
		if name == v {
			return uiMode(m), nil
		}
	}
	return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// progressMinFiles: smaller trees finish before the view would draw.
const progressMinFiles = 16

// progressView decides whether a run shows the progress view.
type progressView struct {
	mode   uiMode
	format diagfmt.Format
}

// enabled reports whether analyzing files files gets the view. Only the
// human formats share stdout with it; json and sarif need it whole.
func (v progressView) enabled(files int) bool {
	if v.format != diagfmt.FormatPretty && v.format != diagfmt.FormatShort {
		return false
	}
	switch v.mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return files >= progressMinFiles && isTerminal(os.Stdout)
}
