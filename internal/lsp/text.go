package lsp

import "unicode/utf8"

// applyChanges applies incremental or full content changes in order.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start)
		end := max(offsetForPosition(text, change.Range.End), start)
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition converts a zero-based line and UTF-16 column into a
// byte offset of text. Positions past the end of a line clamp to the line
// end; lines past the end of text clamp to len(text).
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	i := 0
	for line := 0; line < pos.Line; line++ {
		for i < len(text) && text[i] != '\n' {
			i++
		}
		if i == len(text) {
			return len(text)
		}
		i++
	}
	return i + utf16Prefix(text[i:], pos.Character)
}

// utf16Prefix returns the byte length of the longest prefix of the line
// starting text that spans at most units UTF-16 code units.
func utf16Prefix(text string, units int) int {
	n, i := 0, 0
	for i < len(text) && text[i] != '\n' {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := utf16Width(r)
		if n+need > units {
			break
		}
		n += need
		i += size
	}
	return i
}

// utf16Width is the number of UTF-16 code units encoding r. Invalid bytes
// count as one unit, as editors show them as U+FFFD.
func utf16Width(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}
