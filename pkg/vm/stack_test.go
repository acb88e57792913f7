package vm

import (
	"errors"
	"testing"
)

func TestStack_PushPop(t *testing.T) {
	s := NewStack[int64](0)
	s.Push(1)
	s.Push(2)
	s.Push(3)

	if s.Len() != 3 {
		t.Fatalf("expected len 3, got %d", s.Len())
	}

	for _, want := range []int64{3, 2, 1} {
		if got := s.Pop(); got != want {
			t.Errorf("expected pop %d, got %d", want, got)
		}
	}
	if s.Len() != 0 {
		t.Errorf("expected empty stack, got len %d", s.Len())
	}
}

func TestStack_Reset(t *testing.T) {
	s := NewStack[int64](4)
	s.Push(7)
	s.Push(8)
	s.Reset()
	if s.Len() != 0 {
		t.Errorf("expected len 0 after reset, got %d", s.Len())
	}
}

func TestStack_PopEmptyPanics(t *testing.T) {
	s := NewStack[int64](0)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on empty pop")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrStackUnderflow) {
			t.Errorf("expected ErrStackUnderflow, got %v", r)
		}
	}()

	s.Pop()
}
