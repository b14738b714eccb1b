package fix

import "testing"

func TestEditIndex(t *testing.T) {
	var x editIndex[uint32]
	x.add(4, 5)
	x.add(10, 12)
	x.add(20, 20)

	cases := []struct {
		start, end uint32
		want       bool
	}{
		{0, 4, false},
		{3, 5, true},
		{4, 4, true},
		{5, 5, false},
		{5, 10, false},
		{11, 11, true},
		{12, 20, false},
		{19, 21, true},
		{20, 20, false},
		{21, 30, false},
	}
	for _, tc := range cases {
		if got := x.conflicts(tc.start, tc.end); got != tc.want {
			t.Errorf("conflicts(%d, %d) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
	if x.len() != 3 {
		t.Fatalf("len = %d, want 3", x.len())
	}
}

func TestEditIndexCopyIsIndependent(t *testing.T) {
	var x editIndex[uint32]
	x.add(1, 2)
	y := x.copy()
	y.add(5, 6)

	if x.conflicts(5, 6) {
		t.Fatal("copy shares storage with the original")
	}
	if !y.conflicts(1, 2) {
		t.Fatal("copy lost an entry")
	}
}
