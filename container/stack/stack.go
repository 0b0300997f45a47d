// Package stack contains the implementation of a type-safe LIFO stack.
//
// The stack is used by the tree package to walk binary trees without recursion,
// keeping the memory used by a traversal on the heap instead of the goroutine
// stack.
package stack

// Stack is a last-in first-out sequence of values.
//
// The zero-value is a valid, empty stack.
type Stack[T any] struct {
	items []T
}

// Len returns the number of values on the stack.
//
// Complexity: O(1)
func (s *Stack[T]) Len() int { return len(s.items) }

// Empty returns true if there are no values on the stack.
//
// Complexity: O(1)
func (s *Stack[T]) Empty() bool { return len(s.items) == 0 }

// Push adds a value to the top of the stack.
//
// Complexity: O(1) amortized
func (s *Stack[T]) Push(value T) {
	s.items = append(s.items, value)
}

// Pop removes the value at the top of the stack and returns it, along with a
// boolean indicating whether the stack had any values.
//
// Complexity: O(1)
func (s *Stack[T]) Pop() (value T, ok bool) {
	if i := len(s.items) - 1; i >= 0 {
		var zero T
		value, ok = s.items[i], true
		s.items[i] = zero // release the reference to the popped value
		s.items = s.items[:i]
	}
	return value, ok
}

// Peek returns the value at the top of the stack without removing it.
//
// Complexity: O(1)
func (s *Stack[T]) Peek() (value T, ok bool) {
	if i := len(s.items) - 1; i >= 0 {
		value, ok = s.items[i], true
	}
	return value, ok
}

// Reset empties the stack and releases the memory it was holding.
func (s *Stack[T]) Reset() {
	s.items = nil
}
