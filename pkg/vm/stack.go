package vm

// Stack is a growable LIFO used both as the machine's auxiliary save area
// and as the frame stack of the iterative evaluator.
type Stack[T any] struct {
	items []T
}

// NewStack creates an empty stack with room for capacity items.
func NewStack[T any](capacity int) *Stack[T] {
	return &Stack[T]{items: make([]T, 0, capacity)}
}

// Push appends v to the top of the stack.
func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top item.
// Popping an empty stack is an invariant violation and panics with ErrStackUnderflow.
func (s *Stack[T]) Pop() T {
	n := len(s.items)
	if n == 0 {
		panic(ErrStackUnderflow)
	}
	v := s.items[n-1]
	s.items = s.items[:n-1]
	return v
}

// Len returns the number of items on the stack.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Reset empties the stack, keeping its storage.
func (s *Stack[T]) Reset() {
	s.items = s.items[:0]
}
