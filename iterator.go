package skiplist

// Iterator provides a forward-only view over the skip list, optionally
// bounded by an upper key. It holds no locks: each step follows the live
// level-0 links, so it observes some valid interleaving of concurrent
// mutations rather than a frozen snapshot.
type Iterator[K comparable, V any] struct {
	m       *SkipListMap[K, V]
	current *node[K, V]
	key     K
	value   V
	valid   bool

	upper    K
	hasUpper bool
}

// Iterator returns a new iterator positioned before the first element.
func (m *SkipListMap[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{m: m}
}

// SeekGE returns an iterator positioned at the first element whose key is
// greater than or equal to the provided key. The returned iterator is
// valid if and only if such an element exists.
func (m *SkipListMap[K, V]) SeekGE(key K) *Iterator[K, V] {
	it := m.Iterator()
	it.SeekGE(key)
	return it
}

// Range returns an iterator positioned at the first element with key
// >= lo, yielding elements until the key exceeds hi (both bounds
// inclusive). Iterate with:
//
//	for it := m.Range(lo, hi); it.Valid(); it.Next() { ... }
func (m *SkipListMap[K, V]) Range(lo, hi K) *Iterator[K, V] {
	it := &Iterator[K, V]{m: m, upper: hi, hasUpper: true}
	it.SeekGE(lo)
	return it
}

// SeekGE positions the iterator at the first element whose key is greater
// than or equal to key. It returns true if such an element exists within
// the iterator's bound.
func (it *Iterator[K, V]) SeekGE(key K) bool {
	if it == nil || it.m == nil {
		return false
	}
	it.invalidate()
	n := it.m.seekNode(key)
	for {
		if !it.settle(n) {
			return false
		}
		if it.valid {
			return true
		}
		// The node went dead between seek and the value load; keep
		// walking from its position.
		n = it.m.advanceFrom(n)
	}
}

// Next advances the iterator to the next element and reports whether it
// moved forward. If the iterator was not valid prior to the call, it
// advances to the first element.
func (it *Iterator[K, V]) Next() bool {
	if it == nil || it.m == nil {
		return false
	}
	start := it.current
	if !it.valid {
		start = nil
	}
	for {
		next := it.m.advanceFrom(start)
		if !it.settle(next) {
			return false
		}
		if it.valid {
			return true
		}
		start = next
	}
}

// Valid reports whether the iterator currently points at an element.
func (it *Iterator[K, V]) Valid() bool {
	return it != nil && it.valid
}

// Key returns the key at the iterator's current position. It should only
// be called when Valid reports true.
func (it *Iterator[K, V]) Key() K {
	var zero K
	if !it.Valid() {
		return zero
	}
	return it.key
}

// Value returns the value at the iterator's current position. It should
// only be called when Valid reports true.
func (it *Iterator[K, V]) Value() V {
	var zero V
	if !it.Valid() {
		return zero
	}
	return it.value
}

// settle tries to make n the iterator's current element. It returns false
// when iteration is exhausted (nil node or upper bound passed). A node
// that was logically deleted in between leaves the iterator invalid but
// keeps the position, signalling the caller to continue the walk.
func (it *Iterator[K, V]) settle(n *node[K, V]) bool {
	if n == nil {
		it.invalidate()
		return false
	}
	if it.hasUpper && it.m.less(it.upper, n.key) {
		it.invalidate()
		return false
	}
	it.current = n
	if !n.flags.MGet(fullyLinked|marked, fullyLinked) {
		it.valid = false
		return true
	}
	it.key = n.key
	it.value = *n.val.Load()
	it.valid = true
	return true
}

func (it *Iterator[K, V]) invalidate() {
	var zeroK K
	var zeroV V
	it.current = nil
	it.valid = false
	it.key = zeroK
	it.value = zeroV
}
