package skiplist

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// SkipListMap is a sorted concurrent map backed by a skip list with
// fine-grained per-node locking. Reads (Get, Contains, iteration) are
// lock-free; Put and Delete lock only the nodes adjacent to the affected
// key, so mutations in disjoint key regions proceed fully in parallel.
type SkipListMap[K comparable, V any] struct {
	less Less[K]
	head *node[K, V]
	tail *node[K, V]
	cfg  Config
	gen  *levelGen
	// levels is the highest level currently in use. It only grows, and it
	// is raised before a tall node is spliced in; the empty upper levels a
	// traversal may observe in between are head->tail and therefore
	// harmless.
	levels     atomic.Int32
	metrics    *Metrics
	searchPool sync.Pool
}

// New returns an empty SkipListMap ordered by less. It fails if the
// supplied options describe a structure that cannot provide the expected
// probabilistic guarantees.
func New[K comparable, V any](less Less[K], opts ...Option) (*SkipListMap[K, V], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	head, tail := newSentinels[K, V](cfg.maxLevel)
	m := &SkipListMap[K, V]{
		less:    less,
		head:    head,
		tail:    tail,
		cfg:     cfg,
		gen:     newLevelGen(cfg.maxLevel, cfg.p),
		metrics: newMetrics(),
	}
	m.levels.Store(1)
	m.searchPool.New = func() any {
		return &searchBuf[K, V]{
			preds: make([]*node[K, V], cfg.maxLevel),
			succs: make([]*node[K, V], cfg.maxLevel),
		}
	}
	return m, nil
}

// MustNew is New, panicking on configuration errors. Intended for
// package-level construction with known-good options.
func MustNew[K comparable, V any](less Less[K], opts ...Option) *SkipListMap[K, V] {
	m, err := New[K, V](less, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Get returns the value for a key. The boolean is false if the key is
// absent or logically deleted. Get takes no locks: it only follows atomic
// next pointers, so it may run concurrently with any mutation.
func (m *SkipListMap[K, V]) Get(key K) (V, bool) {
	var zero V
	x := m.head
	for i := int(m.levels.Load()) - 1; i >= 0; i-- {
		next := x.loadNext(i)
		for next != m.tail && m.less(next.key, key) {
			x = next
			next = x.loadNext(i)
		}

		if next != m.tail && next.key == key {
			if getAfterFindHook != nil {
				getAfterFindHook(next)
			}
			// A node mid-insert (not yet fully linked) or mid-delete
			// (marked) counts as absent.
			if next.flags.MGet(fullyLinked|marked, fullyLinked) {
				return *next.val.Load(), true
			}
			return zero, false
		}
	}
	return zero, false
}

// Contains reports whether the key exists in the skip list.
func (m *SkipListMap[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of live keys. The count is maintained by an
// atomic counter updated at each mutation's commit point, so it is exact
// at any quiescent moment.
func (m *SkipListMap[K, V]) Len() int {
	return int(m.metrics.Len())
}

// Levels returns the highest level currently in use.
func (m *SkipListMap[K, V]) Levels() int {
	return int(m.levels.Load())
}

// Metrics exposes the contention counters, e.g. for a prometheus
// Collector.
func (m *SkipListMap[K, V]) Metrics() *Metrics {
	return m.metrics
}

// String renders the layered structure, one row per level from the top
// down. Nodes that do not reach a level are drawn as dashes, so the
// column layout lines up with the full level-0 sequence. Only useful for
// small lists; iteration is weakly consistent like any other read.
func (m *SkipListMap[K, V]) String() string {
	type entry struct {
		text  string
		level int
	}
	var entries []entry
	for n := m.advanceFrom(nil); n != nil; n = m.advanceFrom(n) {
		entries = append(entries, entry{text: fmt.Sprintf("%v", n.key), level: n.topLevel()})
	}

	var sb strings.Builder
	for l := int(m.levels.Load()) - 1; l >= 0; l-- {
		sb.WriteString("-inf")
		for _, e := range entries {
			sb.WriteByte(' ')
			if e.level >= l {
				sb.WriteString(e.text)
			} else {
				sb.WriteString(strings.Repeat("-", len(e.text)))
			}
		}
		sb.WriteString(" +inf\n")
	}
	return sb.String()
}
