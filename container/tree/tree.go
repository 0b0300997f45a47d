package tree

// Tree is a binary search tree containing elements of type E.
type Tree[E any] struct{ impl Map[E, struct{}] }

// New constructs a new tree using the comparison function passed as argument
// to order the elements.
func New[E any](cmp func(E, E) int) *Tree[E] {
	t := new(Tree[E])
	t.Init(cmp)
	return t
}

// Init initializes the tree with the given comparison function to order the
// elements.
func (t *Tree[E]) Init(cmp func(E, E) int) {
	t.impl.Init(cmp)
}

// Len returns the number of elements in the tree.
func (t *Tree[E]) Len() int { return t.impl.Len() }

// Range calls f for each element in the tree, in the order defined by the
// comparison function. If f returns false, the iteration is stopped.
func (t *Tree[E]) Range(f func(E) bool) {
	t.impl.Range(func(elem E, _ struct{}) bool { return f(elem) })
}

// Insert inserts a new element in the tree. The method panics if the tree
// had not been initialized by a call to New or Init.
func (t *Tree[E]) Insert(elem E) (replaced bool) {
	return t.impl.Insert(elem, struct{}{})
}

// Contains returns true if the given element exists in the tree.
func (t *Tree[E]) Contains(elem E) bool {
	return t.impl.Contains(elem)
}

// Delete removes an element from the tree.
func (t *Tree[E]) Delete(elem E) (deleted bool) {
	_, deleted = t.impl.Delete(elem)
	return deleted
}

// Iter returns an iterator over the elements of the tree. Only the Current
// method of the iterator is meaningful, values are always empty.
func (t *Tree[E]) Iter() *Iterator[E, struct{}] {
	return t.impl.Iter()
}
