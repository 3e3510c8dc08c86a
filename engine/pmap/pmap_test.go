package pmap

import (
	"math/rand/v2"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkTree verifies ordering, AVL balance and cached height/size for every node.
func checkTree[V any](t *testing.T, n *node[int, V], lo, hi *int) (int, int) {
	t.Helper()
	if n == nil {
		return 0, 0
	}
	if lo != nil {
		require.Greater(t, n.key, *lo)
	}
	if hi != nil {
		require.Less(t, n.key, *hi)
	}
	lh, ls := checkTree(t, n.left, lo, &n.key)
	rh, rs := checkTree(t, n.right, &n.key, hi)
	require.LessOrEqual(t, lh-rh, 1, "left heavy at %d", n.key)
	require.LessOrEqual(t, rh-lh, 1, "right heavy at %d", n.key)
	require.Equal(t, max(lh, rh)+1, n.height)
	require.Equal(t, ls+rs+1, n.size)
	return n.height, n.size
}

func TestEmpty(t *testing.T) {
	m := Empty[string, int]()
	assert.Equal(t, 0, m.Len())
	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Empty(t, m.Keys())

	var zero Map[string, int]
	assert.True(t, zero.Equal(m, func(a, b int) bool { return a == b }))
}

func TestWithGet(t *testing.T) {
	m := Empty[string, int]().With("b", 2).With("a", 1).With("c", 3)

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, []int{1, 2, 3}, m.Values())

	replaced := m.With("b", 20)
	v, _ = replaced.Get("b")
	assert.Equal(t, 20, v)
	assert.Equal(t, 3, replaced.Len())

	v, _ = m.Get("b")
	assert.Equal(t, 2, v, "receiver must be unchanged")
}

func TestWithoutAbsentKey(t *testing.T) {
	m := Empty[int, string]().With(1, "one")
	same := m.Without(42)
	assert.Same(t, m.root, same.root)

	gone := m.Without(1)
	assert.False(t, gone.Has(1))
	assert.True(t, m.Has(1))
	assert.Equal(t, 0, gone.Len())
}

func TestLast(t *testing.T) {
	_, _, ok := Empty[int, int]().Last()
	assert.False(t, ok)

	m := Of(map[int]int{5: 50, 9: 90, 1: 10})
	k, v, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, 9, k)
	assert.Equal(t, 90, v)
}

func TestReplayAgainstGoMap(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 20; round++ {
		m := Empty[int, int]()
		ref := map[int]int{}
		for op := 0; op < 2000; op++ {
			k := rng.IntN(300)
			if rng.IntN(3) == 0 {
				m = m.Without(k)
				delete(ref, k)
				_, ok := m.Get(k)
				require.False(t, ok)
			} else {
				v := rng.Int()
				m = m.With(k, v)
				ref[k] = v
				got, ok := m.Get(k)
				require.True(t, ok)
				require.Equal(t, v, got)
			}
		}
		checkTree(t, m.root, nil, nil)
		require.Equal(t, len(ref), m.Len())

		keys := make([]int, 0, len(ref))
		for k := range ref {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		require.Equal(t, keys, m.Keys())
		for k, v := range m.All() {
			require.Equal(t, ref[k], v)
		}
	}
}

// collect returns every node reachable from n.
func collect[V any](n *node[int, V], into map[*node[int, V]]bool) {
	if n == nil {
		return
	}
	into[n] = true
	collect(n.left, into)
	collect(n.right, into)
}

func TestStructuralSharing(t *testing.T) {
	base := Empty[int, int]()
	for i := 0; i < 1024; i++ {
		base = base.With(i, i)
	}
	a := base.With(2000, 1)
	b := a.With(500, -1)

	before := map[*node[int, int]]bool{}
	collect(a.root, before)
	after := map[*node[int, int]]bool{}
	collect(b.root, after)

	fresh := 0
	for n := range after {
		if !before[n] {
			fresh++
		}
	}
	// Only the root-to-key path is reallocated.
	assert.LessOrEqual(t, fresh, b.root.height+2)
	assert.Greater(t, len(after)-fresh, 1000)

	// The subtree on the side away from the updated key is the same node.
	if 500 < a.root.key {
		assert.Same(t, a.root.right, b.root.right)
	} else {
		assert.Same(t, a.root.left, b.root.left)
	}
}

func TestEqual(t *testing.T) {
	eq := func(a, b string) bool { return a == b }
	a := Empty[int, string]().With(1, "x").With(2, "y")
	b := Empty[int, string]().With(2, "y").With(1, "x")
	assert.True(t, a.Equal(b, eq))
	assert.False(t, a.Equal(b.With(3, "z"), eq))
	assert.False(t, a.Equal(b.With(2, "q"), eq))
	assert.True(t, a.Equal(a.Without(99), eq))
}

func TestConcurrentReads(t *testing.T) {
	m := Empty[int, int]()
	for i := 0; i < 256; i++ {
		m = m.With(i, i*i)
	}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			derived := m
			for i := 0; i < 256; i++ {
				v, ok := m.Get(i)
				assert.True(t, ok)
				assert.Equal(t, i*i, v)
				derived = derived.Without(i)
			}
			assert.Equal(t, 0, derived.Len())
		}()
	}
	wg.Wait()
	assert.Equal(t, 256, m.Len())
}
