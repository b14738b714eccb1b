package fix

import (
	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints"
)

// editIndex records the half-open ranges [start, end) already edited in one
// file. Insertions are points: two insertions never conflict, an insertion
// conflicts with a range that strictly contains its position or starts at it.
type editIndex[K constraints.Unsigned] struct {
	// ranges: конец -> начало, только непустые диапазоны
	ranges btree.Map[K, K]
	points btree.Set[K]
}

// conflicts reports whether [start, end) touches anything already recorded.
func (x *editIndex[K]) conflicts(start, end K) bool {
	it := x.ranges.Iter()
	// первый диапазон, заканчивающийся правее start
	if it.Seek(start + 1) {
		if start == end {
			if it.Value() <= start {
				return true
			}
		} else if it.Value() < end {
			return true
		}
	}
	if start == end {
		return false
	}
	pt := x.points.Iter()
	return pt.Seek(start) && pt.Key() < end
}

// add records [start, end). Callers check conflicts first.
func (x *editIndex[K]) add(start, end K) {
	if start == end {
		x.points.Insert(start)
		return
	}
	x.ranges.Set(end, start)
}

// len returns the number of recorded edits.
func (x *editIndex[K]) len() int {
	return x.ranges.Len() + x.points.Len()
}

// copy returns an independent index with the same contents.
func (x *editIndex[K]) copy() editIndex[K] {
	var out editIndex[K]
	x.ranges.Scan(func(end, start K) bool {
		out.ranges.Set(end, start)
		return true
	})
	x.points.Scan(func(p K) bool {
		out.points.Insert(p)
		return true
	})
	return out
}
