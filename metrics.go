package skiplist

import (
	"runtime"
	"sync/atomic"

	"github.com/valyala/fastrand"
)

type metricShard struct {
	insertRetries   atomic.Int64
	insertSuccesses atomic.Int64
	deleteRetries   atomic.Int64
	length          atomic.Int64
	// Pad to cache line size to prevent false sharing.
	_ [32]byte
}

// Metrics aggregates the map's contention counters across per-CPU shards.
// Writers pick a shard at random, readers sum over all of them.
type Metrics struct {
	shards []metricShard
	mask   uint32
}

func newMetrics() *Metrics {
	shardCount := nextPowerOfTwo(runtime.GOMAXPROCS(0))
	return &Metrics{
		shards: make([]metricShard, shardCount),
		mask:   uint32(shardCount - 1),
	}
}

func nextPowerOfTwo(v int) int {
	n := 1
	for n < v {
		n <<= 1
	}
	return n
}

func (m *Metrics) shard() *metricShard {
	if len(m.shards) == 1 {
		return &m.shards[0]
	}
	return &m.shards[fastrand.Uint32()&m.mask]
}

func (m *Metrics) IncInsertRetry() {
	m.shard().insertRetries.Add(1)
}

func (m *Metrics) IncInsertSuccess() {
	m.shard().insertSuccesses.Add(1)
}

func (m *Metrics) IncDeleteRetry() {
	m.shard().deleteRetries.Add(1)
}

func (m *Metrics) AddLen(d int64) {
	m.shard().length.Add(d)
}

// Len returns the number of live keys.
func (m *Metrics) Len() int64 {
	var total int64
	for i := range m.shards {
		total += m.shards[i].length.Load()
	}
	return total
}

// InsertStats reports the total number of validation retries and committed
// insertions. The ratio enables contention analysis in benchmarks.
func (m *Metrics) InsertStats() (retries, successes int64) {
	for i := range m.shards {
		retries += m.shards[i].insertRetries.Load()
		successes += m.shards[i].insertSuccesses.Load()
	}
	return retries, successes
}

// DeleteRetries reports the total number of delete validation retries.
func (m *Metrics) DeleteRetries() int64 {
	var total int64
	for i := range m.shards {
		total += m.shards[i].deleteRetries.Load()
	}
	return total
}
