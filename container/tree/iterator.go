package tree

import (
	"github.com/cockroachdb/errors"

	"github.com/segmentio/orderedmap/container/stack"
)

// ErrMapModified is reported by iterators of a map which was structurally
// modified after the iterator was created.
var ErrMapModified = errors.New("tree: map modified during iteration")

// Iterator is a cursor walking the entries of a Map in ascending key order.
//
// The iterator holds references into the tree without copying its entries.
// Inserting new keys in the map or deleting keys from it invalidates the
// iterator: it then behaves as if it had reached the end, and Err reports
// ErrMapModified. Replacing the value of an existing key does not invalidate
// iterators.
//
// Iterators are obtained by calling Iter on a map:
//
//	for it := m.Iter(); !it.Done(); it.Next() {
//		key, _ := it.Current()
//		...
//	}
type Iterator[K, V any] struct {
	m       *Map[K, V]
	version uint64
	// The node at the top is the current position, the nodes below are the
	// ancestors whose right subtrees have not been visited yet.
	stack stack.Stack[*node[K, V]]
}

// Iter returns an iterator positioned at the smallest key of the map, or at the
// end if the map is empty.
//
// Complexity: O(h)
func (m *Map[K, V]) Iter() *Iterator[K, V] {
	it := &Iterator[K, V]{m: m, version: m.version}
	pushLeftSpine(&it.stack, m.root)
	return it
}

func (it *Iterator[K, V]) valid() bool {
	return it.m != nil && it.m.version == it.version
}

// Done returns true if the iterator has no more entries to present.
//
// Complexity: O(1)
func (it *Iterator[K, V]) Done() bool {
	return !it.valid() || it.stack.Empty()
}

// Current returns the key at the current position of the iterator, and a
// boolean indicating whether the iterator was positioned on an entry.
//
// Complexity: O(1)
func (it *Iterator[K, V]) Current() (key K, ok bool) {
	if it.valid() {
		if n, found := it.stack.Peek(); found {
			key, ok = n.key, true
		}
	}
	return key, ok
}

// Value returns the value at the current position of the iterator, and a
// boolean indicating whether the iterator was positioned on an entry.
//
// Complexity: O(1)
func (it *Iterator[K, V]) Value() (value V, ok bool) {
	if it.valid() {
		if n, found := it.stack.Peek(); found {
			value, ok = n.value, true
		}
	}
	return value, ok
}

// Next moves the iterator to the next entry. The method returns false, without
// doing anything, if the iterator was already at the end.
//
// Complexity: O(h), amortized O(1) over a full traversal
func (it *Iterator[K, V]) Next() bool {
	if !it.valid() {
		return false
	}
	n, ok := it.stack.Pop()
	if !ok {
		return false
	}
	pushLeftSpine(&it.stack, n.right)
	return true
}

// Err returns ErrMapModified if the map was structurally modified since the
// iterator was created, or nil otherwise. Closed iterators return nil.
func (it *Iterator[K, V]) Err() error {
	if it.m != nil && it.m.version != it.version {
		return errors.Wrapf(ErrMapModified, "iterator created at version %d, map at version %d", it.version, it.m.version)
	}
	return nil
}

// Close releases the resources held by the iterator. The map is not affected.
// A closed iterator is at the end.
func (it *Iterator[K, V]) Close() {
	it.stack.Reset()
	it.m = nil
}
