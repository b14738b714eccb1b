package source

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("value")
	b := in.Intern("value")
	if a != b || a == NoStringID {
		t.Fatalf("Intern ids %d %d", a, b)
	}
	if s := in.MustLookup(a); s != "value" {
		t.Fatalf("Lookup = %q", s)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("unknown id resolved")
	}
}

func TestInternerNormalizesNFC(t *testing.T) {
	in := NewInterner()
	composed := in.Intern("caf\u00e9")
	decomposed := in.Intern("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("NFC variants interned separately: %d vs %d", composed, decomposed)
	}
	if in.Len() != 2 {
		t.Fatalf("Len = %d; want 2", in.Len())
	}
}
