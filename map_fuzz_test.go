package skiplist

import (
	"sort"
	"testing"
)

type fuzzOp struct {
	typ byte
	key int
	val int
}

func decodeFuzzOps(input []byte) []fuzzOp {
	var ops []fuzzOp
	for len(input) >= 3 {
		ops = append(ops, fuzzOp{
			typ: input[0] % 3,
			key: int(input[1] % 16),
			val: int(input[2]),
		})
		input = input[3:]
	}
	return ops
}

// FuzzSkipListMapModel replays an arbitrary operation stream against the
// map and a plain map-based model, comparing every result, and then
// cross-checks the structural invariants and iteration order.
func FuzzSkipListMapModel(f *testing.F) {
	f.Add([]byte{0, 1, 1, 0, 2, 2})
	f.Add([]byte{0, 1, 1, 1, 1, 0, 2, 1, 0})
	f.Add([]byte{2, 3, 5, 0, 3, 7, 1, 3, 0})

	f.Fuzz(func(t *testing.T, input []byte) {
		ops := decodeFuzzOps(input)
		if len(ops) == 0 {
			t.Skip()
		}

		m := MustNew[int, int](intLess, WithMaxLevel(8))
		model := make(map[int]int)

		for _, op := range ops {
			switch op.typ {
			case 0: // Put
				old, replaced := m.Put(op.key, op.val)
				wantOld, wantReplaced := model[op.key]
				if replaced != wantReplaced || (replaced && old != wantOld) {
					t.Fatalf("Put(%d, %d) = (%d, %t), model says (%d, %t)",
						op.key, op.val, old, replaced, wantOld, wantReplaced)
				}
				model[op.key] = op.val
			case 1: // Delete
				old, removed := m.Delete(op.key)
				wantOld, wantRemoved := model[op.key]
				if removed != wantRemoved || (removed && old != wantOld) {
					t.Fatalf("Delete(%d) = (%d, %t), model says (%d, %t)",
						op.key, old, removed, wantOld, wantRemoved)
				}
				delete(model, op.key)
			case 2: // Get
				got, ok := m.Get(op.key)
				want, wantOK := model[op.key]
				if ok != wantOK || (ok && got != want) {
					t.Fatalf("Get(%d) = (%d, %t), model says (%d, %t)",
						op.key, got, ok, want, wantOK)
				}
			}
			if m.Len() != len(model) {
				t.Fatalf("Len() = %d, model has %d keys", m.Len(), len(model))
			}
		}

		var wantKeys []int
		for k := range model {
			wantKeys = append(wantKeys, k)
		}
		sort.Ints(wantKeys)

		i := 0
		it := m.Iterator()
		for it.Next() {
			if i >= len(wantKeys) || it.Key() != wantKeys[i] || it.Value() != model[it.Key()] {
				t.Fatalf("iteration diverged from model at position %d (key %d)", i, it.Key())
			}
			i++
		}
		if i != len(wantKeys) {
			t.Fatalf("iterator yielded %d keys, model has %d", i, len(wantKeys))
		}
		checkInvariants(t, m)
	})
}
