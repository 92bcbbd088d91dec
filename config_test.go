package skiplist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
	}{
		{name: "zero max level", opts: []Option{WithMaxLevel(0)}},
		{name: "negative max level", opts: []Option{WithMaxLevel(-3)}},
		{name: "probability zero", opts: []Option{WithProbability(0)}},
		{name: "probability one", opts: []Option{WithProbability(1)}},
		{name: "probability above one", opts: []Option{WithProbability(1.5)}},
		{name: "probability negative", opts: []Option{WithProbability(-0.5)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := New[int, int](intLess, tc.opts...)
			require.Nil(t, m)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	m, err := New[int, int](intLess)
	require.NoError(t, err)
	require.Equal(t, DefaultMaxLevel, m.cfg.maxLevel)
	require.Equal(t, DefaultProbability, m.cfg.p)
	require.Equal(t, 0, m.Len())
}

func TestMustNewPanicsOnInvalidConfig(t *testing.T) {
	require.Panics(t, func() {
		MustNew[int, int](intLess, WithMaxLevel(0))
	})
}

func TestSmallMaxLevel(t *testing.T) {
	// A ceiling of 1 degrades to a sorted linked list but must stay
	// correct.
	m := MustNew[int, int](intLess, WithMaxLevel(1))
	for i := 9; i >= 0; i-- {
		m.Put(i, i)
	}
	require.Equal(t, 10, m.Len())
	require.Equal(t, 1, m.Levels())

	it := m.Iterator()
	want := 0
	for it.Next() {
		require.Equal(t, want, it.Key())
		want++
	}
	checkInvariants(t, m)
}
