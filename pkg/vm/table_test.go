package vm

import (
	"errors"
	"testing"
)

func TestEvalTable_KnownCandidates(t *testing.T) {
	tests := []struct {
		p          int64
		reg0, reg1 int64
	}{
		{0, 2, 1},
		{1, 32765, 32764}, // f(3, 13) = 2^16 - 3, reduced mod 2^15
		{25734, 6, 5},
	}

	for _, tt := range tests {
		rf := &RegisterFile{}
		rf.Load(InitialA, InitialB, tt.p)
		if err := EvalTable(rf); err != nil {
			t.Fatalf("p=%d: EvalTable failed: %v", tt.p, err)
		}
		if rf.A() != tt.reg0 || rf.B() != tt.reg1 {
			t.Errorf("p=%d: expected (%d, %d), got (%d, %d)", tt.p, tt.reg0, tt.reg1, rf.A(), rf.B())
		}
		if rf.Param() != tt.p {
			t.Errorf("p=%d: reg7 changed to %d", tt.p, rf.Param())
		}
	}
}

func TestEvalTable_BaseLevel(t *testing.T) {
	rf := &RegisterFile{}
	rf.Load(0, WordMask, 123)
	if err := EvalTable(rf); err != nil {
		t.Fatalf("EvalTable failed: %v", err)
	}
	if rf.A() != 0 || rf.B() != WordMask {
		t.Errorf("expected (0, %d), got (%d, %d)", WordMask, rf.A(), rf.B())
	}
}

func TestEvalTable_OutOfDomain(t *testing.T) {
	inputs := [][3]int64{
		{-1, 1, 0},
		{4, WordMod, 0},
		{4, 1, WordMod},
	}
	for _, in := range inputs {
		rf := &RegisterFile{}
		rf.Load(in[0], in[1], in[2])
		if err := EvalTable(rf); !errors.Is(err, ErrOutOfDomain) {
			t.Errorf("%v: expected ErrOutOfDomain, got %v", in, err)
		}
	}
}

func TestRun_TableIgnoresBudget(t *testing.T) {
	m := NewMachine(1)
	m.Reset(InitialA, InitialB, 1)
	out, err := m.Run(Table)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Aborted || out.Steps != 0 {
		t.Errorf("expected untouched budget, got steps %d aborted %v", out.Steps, out.Aborted)
	}
	if out.Reg0 != 32765 {
		t.Errorf("expected reg0 32765, got %d", out.Reg0)
	}
}
