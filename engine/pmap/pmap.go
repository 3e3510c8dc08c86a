// Package pmap provides an immutable ordered map with structural sharing.
//
// A Map is a persistent AVL tree. Every update copies only the nodes on the
// path from the root to the updated key; all other subtrees are shared with the
// map the update was derived from. Updates therefore cost O(log n) time and
// allocation, and a Map can be read from any number of goroutines without
// locking because no node is ever modified after it is built.
package pmap

import (
	"cmp"
	"iter"
)

// node is a single immutable tree node. height and size describe the subtree
// rooted at the node.
type node[K cmp.Ordered, V any] struct {
	key    K
	value  V
	left   *node[K, V]
	right  *node[K, V]
	height int
	size   int
}

// Map is an immutable map from K to V. The zero value is an empty map.
type Map[K cmp.Ordered, V any] struct {
	root *node[K, V]
}

// Empty returns an empty map.
//
// Returns:
//   - Map[K, V]: the empty map
func Empty[K cmp.Ordered, V any]() Map[K, V] {
	return Map[K, V]{}
}

// Of builds a map from key/value pairs given as a Go map.
//
// Parameters:
//   - entries: the entries to insert
//
// Returns:
//   - Map[K, V]: a map containing every entry
func Of[K cmp.Ordered, V any](entries map[K]V) Map[K, V] {
	m := Empty[K, V]()
	for k, v := range entries {
		m = m.With(k, v)
	}
	return m
}

// Len returns the number of entries in the map.
func (m Map[K, V]) Len() int {
	return size(m.root)
}

// Get returns the value stored for key.
//
// Parameters:
//   - key: the key to look up
//
// Returns:
//   - V: the stored value, or the zero value if absent
//   - bool: true if the key is present
func (m Map[K, V]) Get(key K) (V, bool) {
	n := m.root
	for n != nil {
		switch c := cmp.Compare(key, n.key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.value, true
		}
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (m Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// With returns a map identical to m except that key maps to value. The receiver
// is not modified.
//
// Parameters:
//   - key: the key to insert or replace
//   - value: the value to associate with key
//
// Returns:
//   - Map[K, V]: the updated map
func (m Map[K, V]) With(key K, value V) Map[K, V] {
	return Map[K, V]{root: insert(m.root, key, value)}
}

// Without returns a map identical to m except that key is absent. If key is not
// present the receiver itself is returned.
//
// Parameters:
//   - key: the key to remove
//
// Returns:
//   - Map[K, V]: the updated map
func (m Map[K, V]) Without(key K) Map[K, V] {
	root, found := remove(m.root, key)
	if !found {
		return m
	}
	return Map[K, V]{root: root}
}

// All iterates over the entries in ascending key order.
//
// Returns:
//   - iter.Seq2[K, V]: the entry sequence
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		walk(m.root, yield)
	}
}

// Keys returns every key in ascending order.
func (m Map[K, V]) Keys() []K {
	out := make([]K, 0, m.Len())
	for k := range m.All() {
		out = append(out, k)
	}
	return out
}

// Values returns every value in ascending key order.
func (m Map[K, V]) Values() []V {
	out := make([]V, 0, m.Len())
	for _, v := range m.All() {
		out = append(out, v)
	}
	return out
}

// Last returns the entry with the greatest key.
//
// Returns:
//   - K: the greatest key
//   - V: its value
//   - bool: false if the map is empty
func (m Map[K, V]) Last() (K, V, bool) {
	n := m.root
	if n == nil {
		var k K
		var v V
		return k, v, false
	}
	for n.right != nil {
		n = n.right
	}
	return n.key, n.value, true
}

// Equal reports whether m and other hold the same keys with values that
// compare equal under eq. Maps that share a root are equal without a walk.
//
// Parameters:
//   - other: the map to compare with
//   - eq: the value equality function
//
// Returns:
//   - bool: true if both maps hold the same entries
func (m Map[K, V]) Equal(other Map[K, V], eq func(a, b V) bool) bool {
	if m.root == other.root {
		return true
	}
	if m.Len() != other.Len() {
		return false
	}
	next, stop := iter.Pull2(other.All())
	defer stop()
	for k, v := range m.All() {
		ok, ov, present := next()
		if !present || cmp.Compare(k, ok) != 0 || !eq(v, ov) {
			return false
		}
	}
	return true
}

func walk[K cmp.Ordered, V any](n *node[K, V], yield func(K, V) bool) bool {
	if n == nil {
		return true
	}
	if !walk(n.left, yield) {
		return false
	}
	if !yield(n.key, n.value) {
		return false
	}
	return walk(n.right, yield)
}

func height[K cmp.Ordered, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func size[K cmp.Ordered, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.size
}

// mk allocates a node over the given children.
func mk[K cmp.Ordered, V any](key K, value V, left, right *node[K, V]) *node[K, V] {
	return &node[K, V]{
		key:    key,
		value:  value,
		left:   left,
		right:  right,
		height: max(height(left), height(right)) + 1,
		size:   size(left) + size(right) + 1,
	}
}

// balance builds a node for (key, value, left, right), rotating when the
// child heights differ by more than one. Rotations allocate fresh nodes, so
// existing nodes are never modified.
func balance[K cmp.Ordered, V any](key K, value V, left, right *node[K, V]) *node[K, V] {
	hl, hr := height(left), height(right)
	switch {
	case hl > hr+1:
		if height(left.left) >= height(left.right) {
			return mk(left.key, left.value, left.left, mk(key, value, left.right, right))
		}
		lr := left.right
		return mk(lr.key, lr.value,
			mk(left.key, left.value, left.left, lr.left),
			mk(key, value, lr.right, right))
	case hr > hl+1:
		if height(right.right) >= height(right.left) {
			return mk(right.key, right.value, mk(key, value, left, right.left), right.right)
		}
		rl := right.left
		return mk(rl.key, rl.value,
			mk(key, value, left, rl.left),
			mk(right.key, right.value, rl.right, right.right))
	default:
		return mk(key, value, left, right)
	}
}

func insert[K cmp.Ordered, V any](n *node[K, V], key K, value V) *node[K, V] {
	if n == nil {
		return mk[K, V](key, value, nil, nil)
	}
	switch c := cmp.Compare(key, n.key); {
	case c < 0:
		return balance(n.key, n.value, insert(n.left, key, value), n.right)
	case c > 0:
		return balance(n.key, n.value, n.left, insert(n.right, key, value))
	default:
		return mk(key, value, n.left, n.right)
	}
}

func remove[K cmp.Ordered, V any](n *node[K, V], key K) (*node[K, V], bool) {
	if n == nil {
		return nil, false
	}
	switch c := cmp.Compare(key, n.key); {
	case c < 0:
		left, found := remove(n.left, key)
		if !found {
			return n, false
		}
		return balance(n.key, n.value, left, n.right), true
	case c > 0:
		right, found := remove(n.right, key)
		if !found {
			return n, false
		}
		return balance(n.key, n.value, n.left, right), true
	default:
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		successor := n.right
		for successor.left != nil {
			successor = successor.left
		}
		return balance(successor.key, successor.value, n.left, removeMin(n.right)), true
	}
}

func removeMin[K cmp.Ordered, V any](n *node[K, V]) *node[K, V] {
	if n.left == nil {
		return n.right
	}
	return balance(n.key, n.value, removeMin(n.left), n.right)
}
