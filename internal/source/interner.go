package source

import (
	"slices"

	"golang.org/x/text/unicode/norm"
)

// StringID is a handle to an interned identifier.
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier text. Keys are NFC-normalized so that
// composed and decomposed spellings of one name map to the same ID.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID for s, inserting it on first use.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	key := s
	if !norm.NFC.IsNormalString(s) {
		key = norm.NFC.String(s)
		if id, ok := i.index[key]; ok {
			i.index[s] = id
			return id
		}
	} else {
		// собственная копия, чтобы не держать исходный буфер файла
		key = string([]byte(s))
	}
	id := StringID(len(i.byID))
	i.byID = append(i.byID, key)
	i.index[key] = id
	if key != s {
		i.index[s] = id
	}
	return id
}

// Lookup returns the canonical text for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on an unknown id.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Len counts interned strings including NoStringID.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of all canonical strings.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
