package skiplist

// searchBuf holds the predecessor/successor chains produced by find.
// The slices are recycled through a sync.Pool because every mutation
// allocates two full-height chains; the buffers are strictly
// operation-local so pooling them is safe.
//
// Removed nodes themselves are never pooled: a concurrent reader may still
// hold a stale next pointer into an unlinked node, so reclamation of nodes
// is left entirely to the garbage collector.
type searchBuf[K, V any] struct {
	preds []*node[K, V]
	succs []*node[K, V]
}

func (m *SkipListMap[K, V]) acquireSearch() *searchBuf[K, V] {
	return m.searchPool.Get().(*searchBuf[K, V])
}

func (m *SkipListMap[K, V]) releaseSearch(buf *searchBuf[K, V]) {
	for i := range buf.preds {
		buf.preds[i] = nil
		buf.succs[i] = nil
	}
	m.searchPool.Put(buf)
}
