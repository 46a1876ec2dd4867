package engine

import "errors"

var (
	ErrStackFull  = errors.New("stack has reached its capacity")
	ErrStackEmpty = errors.New("stack is empty")
)

// Stack is LIFO container used instead of recursion when walking trees.
type Stack[T any] struct {
	items    []T
	capacity int
}

// NewStack creates stack, capacity 0 means unlimited.
func NewStack[T any](capacity int) *Stack[T] {
	return &Stack[T]{capacity: capacity}
}

func (s *Stack[T]) Push(v T) error {
	if s.capacity > 0 && len(s.items) >= s.capacity {
		return ErrStackFull
	}
	s.items = append(s.items, v)
	return nil
}

func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, ErrStackEmpty
	}
	v := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

func (s *Stack[T]) Peek() (T, error) {
	if len(s.items) == 0 {
		var zero T
		return zero, ErrStackEmpty
	}
	return s.items[len(s.items)-1], nil
}

func (s *Stack[T]) Size() int {
	return len(s.items)
}

func (s *Stack[T]) Empty() bool {
	return len(s.items) == 0
}
