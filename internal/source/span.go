package source

import (
	"fmt"
)

// Span is a half-open byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.File == other.File && s.Start < other.End && other.Start < s.End
}

// Head returns the empty span at the start of s.
func (s Span) Head() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// Tail returns the empty span at the end of s.
func (s Span) Tail() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}

func (s Span) ShiftLeft(n uint32) Span {
	return Span{File: s.File, Start: s.Start - n, End: s.End - n}
}

func (s Span) ShiftRight(n uint32) Span {
	return Span{File: s.File, Start: s.Start + n, End: s.End + n}
}
