package skiplist

import (
	"sync"
	"sync/atomic"
)

// node holds key/value, per-level next pointers and the lock guarding them.
//
// The mutex protects the node's next links against concurrent structural
// changes; readers never take it and rely on the atomic pointer loads
// instead. The flags move a node through its lifecycle: a node becomes
// visible to readers only once fullyLinked is set, and is logically deleted
// the moment marked is set, even though it stays physically linked until
// the deleter unlinks it level by level.
type node[K, V any] struct {
	key   K
	val   atomic.Pointer[V]
	next  []atomic.Pointer[node[K, V]]
	mu    sync.Mutex
	flags bitflag
}

func newNode[K, V any](key K, val *V, level int) *node[K, V] {
	n := &node[K, V]{
		key:  key,
		next: make([]atomic.Pointer[node[K, V]], level),
	}
	n.val.Store(val)
	return n
}

func (n *node[K, V]) loadNext(level int) *node[K, V] {
	return n.next[level].Load()
}

func (n *node[K, V]) storeNext(level int, succ *node[K, V]) {
	n.next[level].Store(succ)
}

// topLevel is the highest level index the node participates in. It never
// changes after creation.
func (n *node[K, V]) topLevel() int {
	return len(n.next) - 1
}

// newSentinels builds the head and tail boundary nodes. Head spans the full
// configured ceiling with every link pointing at tail, so a traversal entry
// point exists for any level the list may ever grow to.
func newSentinels[K, V any](maxLevel int) (head, tail *node[K, V]) {
	head = &node[K, V]{next: make([]atomic.Pointer[node[K, V]], maxLevel)}
	tail = &node[K, V]{}
	for i := range head.next {
		head.next[i].Store(tail)
	}
	head.flags.SetTrue(fullyLinked)
	tail.flags.SetTrue(fullyLinked)
	return head, tail
}
