package skiplist

import (
	"math"

	"github.com/valyala/fastrand"
)

// levelGen draws node heights with a geometric distribution:
// P(level > k) = p^k, capped at the configured ceiling. This is the
// mechanism that keeps the structure probabilistically balanced without
// any rebalancing step.
type levelGen struct {
	maxLevel  int
	threshold uint32
}

func newLevelGen(maxLevel int, p float64) *levelGen {
	return &levelGen{
		maxLevel:  maxLevel,
		threshold: uint32(p * math.MaxUint32),
	}
}

// randomLevel returns a height in [1, maxLevel]. fastrand keeps per-P
// generator state, so concurrent calls never contend on a shared lock.
func (g *levelGen) randomLevel() int {
	level := 1
	for level < g.maxLevel && fastrand.Uint32() < g.threshold {
		level++
	}
	return level
}
