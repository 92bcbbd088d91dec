package skiplist

// Put inserts or updates the value for the given key. It returns the
// previous value and true if an existing entry was replaced, otherwise the
// zero value and false.
//
// Updates lock only the target node; inserts lock only the predecessor at
// each level the new node occupies, in ascending level order, and
// re-validate every link after acquiring the lock. A stale snapshot
// releases all locks and retries from a fresh traversal.
func (m *SkipListMap[K, V]) Put(key K, value V) (V, bool) {
	var zero V
	height := m.gen.randomLevel()

	buf := m.acquireSearch()
	defer m.releaseSearch(buf)

	for {
		lFound := m.find(key, buf.preds, buf.succs)
		if lFound != -1 {
			found := buf.succs[lFound]
			if found.flags.Get(marked) {
				// Deletion in progress; once it finishes the key is
				// absent and the insert path below applies.
				m.metrics.IncInsertRetry()
				continue
			}
			if !found.flags.Get(fullyLinked) {
				// Another insert of this key is mid-splice; re-run the
				// traversal until it commits.
				continue
			}

			found.mu.Lock()
			if found.flags.Get(marked) {
				// Lost the race with a delete between traversal and lock.
				found.mu.Unlock()
				m.metrics.IncInsertRetry()
				continue
			}
			old := found.val.Swap(&value)
			found.mu.Unlock()
			return *old, true
		}

		m.raiseLevels(height)

		var (
			highestLocked = -1
			valid         = true
			prevPred      *node[K, V]
		)
		for layer := 0; valid && layer < height; layer++ {
			pred, succ := buf.preds[layer], buf.succs[layer]
			// Consecutive levels often share a predecessor; lock it once.
			if pred != prevPred {
				pred.mu.Lock()
				highestLocked = layer
				prevPred = pred
			}
			valid = !pred.flags.Get(marked) && !succ.flags.Get(marked) &&
				pred.loadNext(layer) == succ
		}
		if !valid {
			unlockPreds(buf.preds, highestLocked)
			m.metrics.IncInsertRetry()
			continue
		}

		nn := newNode(key, &value, height)
		for layer := 0; layer < height; layer++ {
			nn.storeNext(layer, buf.succs[layer])
		}
		if insertSpliceHook != nil {
			insertSpliceHook(nn)
		}
		// The node's own forward array is fully populated before any
		// predecessor link is redirected at it, so a concurrent reader
		// never observes a partially constructed node.
		for layer := 0; layer < height; layer++ {
			buf.preds[layer].storeNext(layer, nn)
		}
		nn.flags.SetTrue(fullyLinked)

		unlockPreds(buf.preds, highestLocked)
		m.metrics.IncInsertSuccess()
		m.metrics.AddLen(1)
		return zero, false
	}
}

// Delete removes the key from the skip list. It returns the removed value
// and true, or the zero value and false if the key was absent.
//
// The target node is locked and marked first (the logical deletion, which
// is the operation's commit point), then each predecessor is locked in
// ascending level order and validated before the node is unlinked top-down.
// The unlinked node is left for the garbage collector: a concurrent reader
// holding a stale next pointer can still traverse through it safely.
func (m *SkipListMap[K, V]) Delete(key K) (V, bool) {
	var zero V
	var (
		target   *node[K, V]
		isMarked bool
		topLayer = -1
	)

	buf := m.acquireSearch()
	defer m.releaseSearch(buf)

	for {
		lFound := m.find(key, buf.preds, buf.succs)
		if !isMarked {
			if lFound == -1 {
				return zero, false
			}
			candidate := buf.succs[lFound]
			// Only delete a settled node, observed at its full height;
			// anything else is a concurrent insert or delete in flight.
			if !candidate.flags.MGet(fullyLinked|marked, fullyLinked) ||
				candidate.topLevel() != lFound {
				return zero, false
			}

			target = candidate
			topLayer = lFound
			target.mu.Lock()
			if target.flags.Get(marked) {
				// Another deleter already owns this node.
				target.mu.Unlock()
				return zero, false
			}
			target.flags.SetTrue(marked)
			isMarked = true
			if deleteMarkedHook != nil {
				deleteMarkedHook(target)
			}
		}

		var (
			highestLocked = -1
			valid         = true
			prevPred      *node[K, V]
		)
		for layer := 0; valid && layer <= topLayer; layer++ {
			pred := buf.preds[layer]
			if pred != prevPred {
				pred.mu.Lock()
				highestLocked = layer
				prevPred = pred
			}
			valid = !pred.flags.Get(marked) && pred.loadNext(layer) == target
		}
		if !valid {
			unlockPreds(buf.preds, highestLocked)
			m.metrics.IncDeleteRetry()
			continue
		}

		// The target is marked and its lock is held, so its next links
		// cannot change under us; unlink from the top level down.
		for i := topLayer; i >= 0; i-- {
			buf.preds[i].storeNext(i, target.loadNext(i))
		}
		old := target.val.Load()
		target.mu.Unlock()
		unlockPreds(buf.preds, highestLocked)
		m.metrics.AddLen(-1)
		return *old, true
	}
}

// raiseLevels grows the current top level to at least height. The store
// happens before any link at the new levels is installed, and head's links
// at those levels already point at tail, so concurrent traversals that see
// the higher level fall through it correctly.
func (m *SkipListMap[K, V]) raiseLevels(height int) {
	for {
		cur := m.levels.Load()
		if int(cur) >= height || m.levels.CompareAndSwap(cur, int32(height)) {
			return
		}
	}
}

// unlockPreds releases the predecessor locks taken up to highestLocked,
// skipping predecessors that repeat across consecutive levels.
func unlockPreds[K, V any](preds []*node[K, V], highestLocked int) {
	var prev *node[K, V]
	for i := highestLocked; i >= 0; i-- {
		if preds[i] != prev {
			preds[i].mu.Unlock()
			prev = preds[i]
		}
	}
}
