package skiplist

import "sync/atomic"

const (
	// fullyLinked is set once a node is spliced in at every level it
	// occupies. Readers treat nodes without it as absent.
	fullyLinked uint32 = 1 << iota
	// marked is the logical-deletion bit. A marked node is dead even
	// while still physically reachable.
	marked
)

type bitflag struct {
	data atomic.Uint32
}

func (f *bitflag) SetTrue(flag uint32) {
	for {
		old := f.data.Load()
		if old&flag == flag {
			return
		}
		if f.data.CompareAndSwap(old, old|flag) {
			return
		}
	}
}

func (f *bitflag) Get(flag uint32) bool {
	return f.data.Load()&flag != 0
}

// MGet masks the flags with mask and reports whether the result equals
// expect, allowing several bits to be checked in one atomic load.
func (f *bitflag) MGet(mask, expect uint32) bool {
	return f.data.Load()&mask == expect
}
