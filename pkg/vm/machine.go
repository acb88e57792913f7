// Package vm implements the teleporter check routine of the host machine.
//
// The routine is a two-register recursive function parameterised by reg7.
// A Machine holds the state of one evaluation:
//   - a register file (reg0, reg1 and the read-only parameter reg7)
//   - an auxiliary stack used to save reg0 across a branch
//   - a step budget shared by the whole call tree
//
// Basic usage:
//
//	m := vm.NewMachine(vm.DefaultCeiling)
//	m.Reset(vm.InitialA, vm.InitialB, p)
//	out, err := m.Run(vm.Iterative)
package vm

import (
	"errors"
	"fmt"
	"strings"
)

// Error definitions
var (
	ErrStackUnderflow  = errors.New("pop on empty stack")
	ErrStackImbalance  = errors.New("auxiliary stack imbalance")
	ErrOutOfDomain     = errors.New("value outside 15-bit word domain")
	ErrUnknownStrategy = errors.New("unknown evaluation strategy")
)

// Strategy selects how the routine is evaluated.
type Strategy int

const (
	Iterative Strategy = iota // Explicit frame stack, no host stack growth
	Recursive                 // Host call stack, one Go call per routine call
	Table                     // Memoised level tables, no step budget
)

var strategyNames = map[Strategy]string{
	Iterative: "iterative",
	Recursive: "recursive",
	Table:     "table",
}

// String returns the strategy name.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy looks up a strategy by name.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Outcome is the machine state after an evaluation returns.
type Outcome struct {
	Reg0       int64
	Reg1       int64
	Steps      int64 // Routine entries counted, or Aborted
	Aborted    bool
	StackDepth int // Auxiliary stack depth after return
}

// Machine represents one evaluation's exclusively owned state.
type Machine struct {
	Regs   RegisterFile
	Stack  *Stack[int64]
	Budget *Budget
}

// NewMachine creates a machine whose call trees abort after ceiling steps.
func NewMachine(ceiling int64) *Machine {
	return &Machine{
		Stack:  NewStack[int64](16),
		Budget: NewBudget(ceiling),
	}
}

// Reset discards all state and loads reg0, reg1 and reg7.
func (m *Machine) Reset(a, b, p int64) {
	m.Regs.Load(a, b, p)
	m.Stack.Reset()
	m.Budget.Reset()
}

// Run evaluates the routine from the current registers.
func (m *Machine) Run(s Strategy) (Outcome, error) {
	switch s {
	case Iterative:
		EvalIterative(m)
	case Recursive:
		EvalRecursive(m)
	case Table:
		if err := EvalTable(&m.Regs); err != nil {
			return Outcome{}, err
		}
	default:
		return Outcome{}, fmt.Errorf("%w: %v", ErrUnknownStrategy, s)
	}
	return m.Outcome(), nil
}

// Outcome snapshots the current machine state.
func (m *Machine) Outcome() Outcome {
	return Outcome{
		Reg0:       m.Regs.A(),
		Reg1:       m.Regs.B(),
		Steps:      m.Budget.Steps,
		Aborted:    m.Budget.Exhausted(),
		StackDepth: m.Stack.Len(),
	}
}
