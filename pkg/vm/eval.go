package vm

import "fmt"

// wrap reduces v into the word domain [0, WordMod).
func wrap(v int64) int64 {
	return ((v % WordMod) + WordMod) % WordMod
}

// EvalRecursive runs the routine using the Go call stack.
// Deep branch nesting grows the goroutine stack; only the step budget is enforced.
func EvalRecursive(m *Machine) {
	evalRecursive(m.Budget, &m.Regs, m.Regs.Param(), m.Stack)
}

func evalRecursive(b *Budget, rf *RegisterFile, p int64, st *Stack[int64]) {
	if !b.Enter() {
		return
	}
	r := &rf.R

	switch {
	case r[RegA] == 0:
		r[RegA] = wrap(r[RegB] + 1)

	case r[RegB] == 0:
		r[RegA]--
		r[RegB] = p
		evalRecursive(b, rf, p, st)

	default:
		st.Push(r[RegA])
		r[RegB]--
		evalRecursive(b, rf, p, st)
		r[RegB] = r[RegA]
		r[RegA] = st.Pop()
		r[RegA]--
		evalRecursive(b, rf, p, st)
	}
}

type frameKind uint8

const (
	frameCall   frameKind = iota // Enter the routine with the current registers
	frameResume                  // Second half of a branch after its first call returned
)

// frame is a pending unit of work. depth is the auxiliary stack depth
// recorded just before the branch pushed reg0.
type frame struct {
	kind  frameKind
	depth int
}

// EvalIterative runs the routine with an explicit frame stack. It leaves the
// registers, counter and auxiliary stack exactly as EvalRecursive would, and
// never grows the Go call stack.
func EvalIterative(m *Machine) {
	b, st, p := m.Budget, m.Stack, m.Regs.Param()
	r := &m.Regs.R

	work := NewStack[frame](64)
	work.Push(frame{kind: frameCall})

	for work.Len() > 0 {
		f := work.Pop()

		if f.kind == frameResume {
			if st.Len() != f.depth+1 {
				panic(fmt.Errorf("%w: depth %d, want %d", ErrStackImbalance, st.Len(), f.depth+1))
			}
			r[RegB] = r[RegA]
			r[RegA] = st.Pop()
			r[RegA]--
			work.Push(frame{kind: frameCall})
			continue
		}

		if !b.Enter() {
			continue
		}

		switch {
		case r[RegA] == 0:
			r[RegA] = wrap(r[RegB] + 1)

		case r[RegB] == 0:
			r[RegA]--
			r[RegB] = p
			work.Push(frame{kind: frameCall})

		default:
			work.Push(frame{kind: frameResume, depth: st.Len()})
			st.Push(r[RegA])
			r[RegB]--
			work.Push(frame{kind: frameCall})
		}
	}
}
