package tree

import (
	"iter"

	"github.com/segmentio/orderedmap/container/stack"
)

// Map is a map type associating keys to values in a similar way to the standard
// Go map type, but backed by a binary search tree instead of a hashmap, which
// maintains ordering of keys.
//
// The tree is not balanced: operations cost O(h) where h is the height of the
// tree, which degrades to O(n) when keys are inserted in sorted order. Height
// reports the current value of h.
//
// The zero-value is a valid empty map which supports lookups and deletes, but
// must be initialized prior to inserting any keys.
//
// Maps are not safe to use concurrently from multiple goroutines.
type Map[K, V any] struct {
	cmp     func(K, K) int
	destroy func(V)
	len     int
	root    *node[K, V]
	// Incremented on every structural change, iterators compare it with the
	// value they were created at.
	version uint64
}

type node[K, V any] struct {
	left  *node[K, V]
	right *node[K, V]
	key   K
	value V
}

// NewMap instantiates a new map using the given comparison function to order
// the keys.
func NewMap[K, V any](cmp func(K, K) int, options ...Option[V]) *Map[K, V] {
	m := new(Map[K, V])
	m.Init(cmp, options...)
	return m
}

// Init initializes (or re-initializes) the map. The comparison function passed
// as argument will be used to order the keys, it must define a strict total
// order.
//
// Entries held by the map prior to calling Init are dropped without being
// passed to the destructor; call Destroy first to release them.
//
// Init must be called prior to inserting keys in the map, otherwise inserts
// will panic.
//
// Complexity: O(1)
func (m *Map[K, V]) Init(cmp func(K, K) int, options ...Option[V]) {
	config := Config[V]{}
	config.Apply(options...)
	m.cmp = cmp
	m.destroy = config.Destroy
	m.len = 0
	m.root = nil
	m.version++
}

// Len returns the number of entries currently held in the map.
//
// Complexity: O(1)
func (m *Map[K, V]) Len() int { return m.len }

// Contains returns true if the key exists in the map.
//
// Complexity: O(h)
func (m *Map[K, V]) Contains(key K) bool {
	n, _ := m.find(key)
	return n != nil
}

// Lookup returns the value associated with the given key in the map, and a
// boolean value indicating whether the key was found in the map.
//
// Complexity: O(h)
func (m *Map[K, V]) Lookup(key K) (value V, found bool) {
	if n, _ := m.find(key); n != nil {
		return n.value, true
	}
	return value, false
}

// find descends from the root and returns the node holding key along with its
// parent. The node is nil if the key was not found, the parent is nil if the
// node is the root.
func (m *Map[K, V]) find(key K) (n, parent *node[K, V]) {
	for n = m.root; n != nil; {
		switch cmp := m.cmp(key, n.key); {
		case cmp < 0:
			parent, n = n, n.left
		case cmp > 0:
			parent, n = n, n.right
		default:
			return n, parent
		}
	}
	return nil, parent
}

// Insert inserts a new entry in the map, or replaces the value if the key
// already existed. The method returns a boolean indicating whether the value
// was replaced.
//
// When a value is replaced, the previous value is passed to the destructor
// installed on the map, if any. The number of entries does not change.
//
// Keys are stored by value; programs using reference types such as byte
// slices as keys must not modify them after insertion.
//
// The map must have been initialized by a call to NewMap or Init or the call
// to Insert will panic.
//
// Complexity: O(h)
func (m *Map[K, V]) Insert(key K, value V) (replaced bool) {
	if m.cmp == nil {
		panic("tree: Insert called on a map that was not initialized")
	}

	var parent *node[K, V]
	var cmp int

	for n := m.root; n != nil; {
		switch cmp = m.cmp(key, n.key); {
		case cmp < 0:
			parent, n = n, n.left
		case cmp > 0:
			parent, n = n, n.right
		default:
			previous := n.value
			n.value = value
			if m.destroy != nil {
				m.destroy(previous)
			}
			return true
		}
	}

	inserted := &node[K, V]{key: key, value: value}
	switch {
	case parent == nil:
		m.root = inserted
	case cmp < 0:
		parent.left = inserted
	default:
		parent.right = inserted
	}
	m.len++
	m.version++
	return false
}

// Delete deletes the given key from the map. If the key does not exist,
// the map is not modified. The method returns the value removed from the map
// and a boolean indicating whether the key was found. Ownership of the value
// goes to the caller, the destructor is not invoked.
//
// When the node holding the key has two children, its in-order predecessor
// (the largest key of its left subtree) is removed from the tree and moved
// into the node. The node therefore survives the deletion while carrying a
// different entry.
//
// Complexity: O(h)
func (m *Map[K, V]) Delete(key K) (value V, deleted bool) {
	if m.root == nil {
		return value, false
	}

	n, parent := m.find(key)
	if n == nil {
		return value, false
	}
	m.version++

	switch {
	case n.left == nil:
		m.replace(parent, n, n.right)
	case n.right == nil:
		m.replace(parent, n, n.left)
	default:
		// The predecessor has no right child, so removing it always lands in one
		// of the two cases above, and that call accounts for the length.
		pred := max(n.left)
		predKey := pred.key
		predValue, _ := m.Delete(predKey)
		value = n.value
		n.key, n.value = predKey, predValue
		return value, true
	}

	m.len--
	value = n.value
	n.left, n.right = nil, nil
	return value, true
}

// replace links child in place of n under parent, or as the new root if n had
// no parent.
func (m *Map[K, V]) replace(parent, n, child *node[K, V]) {
	switch {
	case parent == nil:
		m.root = child
	case parent.left == n:
		parent.left = child
	default:
		parent.right = child
	}
}

// Destroy removes all entries from the map, passing each value to the
// destructor installed on the map, if any. Values are released in post-order:
// both subtrees of a node are released before the node itself.
//
// The map remains initialized and can be reused after Destroy returns.
//
// Complexity: O(n)
func (m *Map[K, V]) Destroy() {
	type frame struct {
		node     *node[K, V]
		expanded bool
	}

	var s stack.Stack[frame]
	if m.root != nil {
		s.Push(frame{node: m.root})
	}

	for !s.Empty() {
		f, _ := s.Pop()
		n := f.node

		if !f.expanded && (n.left != nil || n.right != nil) {
			s.Push(frame{node: n, expanded: true})
			if n.right != nil {
				s.Push(frame{node: n.right})
			}
			if n.left != nil {
				s.Push(frame{node: n.left})
			}
			continue
		}

		if m.destroy != nil {
			m.destroy(n.value)
		}
		n.left, n.right = nil, nil
	}

	m.root = nil
	m.len = 0
	m.version++
}

// Range calls f for each entry of the map. The keys and values are presented in
// ascending order according to the comparison function installed on the map.
// If f returns false, the iteration stops.
//
// The map must not be modified by f.
//
// Complexity: O(N)
func (m *Map[K, V]) Range(f func(K, V) bool) {
	var s stack.Stack[*node[K, V]]
	pushLeftSpine(&s, m.root)

	for {
		n, ok := s.Pop()
		if !ok || !f(n.key, n.value) {
			return
		}
		pushLeftSpine(&s, n.right)
	}
}

// All returns an iterator over the entries of the map in ascending key order,
// for use with range-over-func loops.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) { m.Range(yield) }
}

// Min returns the entry with the smallest key in the map.
//
// Complexity: O(h)
func (m *Map[K, V]) Min() (key K, value V, found bool) {
	if m.root != nil {
		n := min(m.root)
		key, value, found = n.key, n.value, true
	}
	return key, value, found
}

// Max returns the entry with the largest key in the map.
//
// Complexity: O(h)
func (m *Map[K, V]) Max() (key K, value V, found bool) {
	if m.root != nil {
		n := max(m.root)
		key, value, found = n.key, n.value, true
	}
	return key, value, found
}

// Height returns the number of nodes on the longest path from the root of the
// tree to a leaf. The height of an empty map is zero.
//
// Complexity: O(N)
func (m *Map[K, V]) Height() int {
	type frame struct {
		node  *node[K, V]
		depth int
	}

	var s stack.Stack[frame]
	if m.root != nil {
		s.Push(frame{node: m.root, depth: 1})
	}

	height := 0
	for !s.Empty() {
		f, _ := s.Pop()
		if f.depth > height {
			height = f.depth
		}
		if f.node.left != nil {
			s.Push(frame{node: f.node.left, depth: f.depth + 1})
		}
		if f.node.right != nil {
			s.Push(frame{node: f.node.right, depth: f.depth + 1})
		}
	}
	return height
}

func pushLeftSpine[K, V any](s *stack.Stack[*node[K, V]], n *node[K, V]) {
	for ; n != nil; n = n.left {
		s.Push(n)
	}
}

func min[K, V any](n *node[K, V]) *node[K, V] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func max[K, V any](n *node[K, V]) *node[K, V] {
	for n.right != nil {
		n = n.right
	}
	return n
}
