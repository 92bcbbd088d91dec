package skiplist

// find fills preds and succs with the predecessor chain and its successors
// for key at every level, walking lock-free from the head at the current
// top level down to level 0. It returns the first (highest) level at which
// a node with the key was observed, or -1.
//
// The chains are a snapshot: by the time a caller locks a predecessor the
// link may have changed, which is exactly what the mutation protocol's
// validation step catches.
func (m *SkipListMap[K, V]) find(key K, preds, succs []*node[K, V]) int {
	top := int(m.levels.Load())
	for i := m.cfg.maxLevel - 1; i >= top; i-- {
		preds[i] = m.head
		succs[i] = m.head.loadNext(i)
	}

	lFound := -1
	x := m.head
	for i := top - 1; i >= 0; i-- {
		next := x.loadNext(i)
		for next != m.tail && m.less(next.key, key) {
			x = next
			next = x.loadNext(i)
		}
		preds[i] = x
		succs[i] = next

		if lFound == -1 && next != m.tail && next.key == key {
			lFound = i
		}
	}
	return lFound
}

// seekNode returns the first live node whose key is >= key, or nil.
func (m *SkipListMap[K, V]) seekNode(key K) *node[K, V] {
	x := m.head
	for i := int(m.levels.Load()) - 1; i >= 0; i-- {
		next := x.loadNext(i)
		for next != m.tail && m.less(next.key, key) {
			x = next
			next = x.loadNext(i)
		}
	}

	next := x.loadNext(0)
	for next != m.tail {
		if next.flags.MGet(fullyLinked|marked, fullyLinked) {
			return next
		}
		next = next.loadNext(0)
	}
	return nil
}

// advanceFrom returns the first live node after start on level 0, or nil
// when the tail is reached. A nil start means the head. If start was
// unlinked concurrently its next pointers still lead back into the list,
// so a stale iterator resumes at a valid, possibly slightly old, position.
func (m *SkipListMap[K, V]) advanceFrom(start *node[K, V]) *node[K, V] {
	x := start
	if x == nil {
		x = m.head
	}
	next := x.loadNext(0)
	for next != m.tail {
		if next.flags.MGet(fullyLinked|marked, fullyLinked) {
			return next
		}
		next = next.loadNext(0)
	}
	return nil
}
