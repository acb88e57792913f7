package vm

import "fmt"

// EvalTable computes the routine's result without a step budget.
//
// With f the routine's effect on reg0:
//
//	f(0, b) = (b + 1) mod 32768
//	f(a, 0) = f(a-1, p)
//	f(a, b) = f(a-1, f(a, b-1))
//
// Every value stays inside the word domain, so each level is a table of
// WordMod entries built from the level below it. On return reg1 holds the
// argument of the last base case, which is reg0 - 1 modulo WordMod.
func EvalTable(rf *RegisterFile) error {
	a, b, p := rf.A(), rf.B(), rf.Param()
	for _, v := range []int64{a, b, p} {
		if v < 0 || v >= WordMod {
			return fmt.Errorf("%w: %d", ErrOutOfDomain, v)
		}
	}

	prev := make([]int64, WordMod)
	for i := range prev {
		prev[i] = int64(i+1) % WordMod
	}

	cur := make([]int64, WordMod)
	for level := int64(1); level <= a; level++ {
		cur[0] = prev[p]
		for i := 1; i < WordMod; i++ {
			cur[i] = prev[cur[i-1]]
		}
		prev, cur = cur, prev
	}

	result := prev[b]
	rf.R[RegA] = result
	rf.R[RegB] = wrap(result - 1)
	return nil
}
