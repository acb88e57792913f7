package vm

const (
	// Aborted is the step counter value of an exhausted call tree.
	Aborted int64 = -1

	// DefaultCeiling is the number of steps after which a call tree aborts.
	DefaultCeiling int64 = 100_000_000
)

// Budget is the step counter shared by every call in one evaluation tree.
type Budget struct {
	Steps   int64
	Ceiling int64
}

// NewBudget returns a zeroed budget. A non-positive ceiling selects DefaultCeiling.
func NewBudget(ceiling int64) *Budget {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Budget{Ceiling: ceiling}
}

// Enter is the guard run on every evaluator entry. It reports whether the
// call may proceed, counting it if so. Once the counter passes the ceiling it
// is pinned to Aborted and every later Enter returns false.
func (b *Budget) Enter() bool {
	if b.Steps == Aborted || b.Steps > b.Ceiling {
		b.Steps = Aborted
		return false
	}
	b.Steps++
	return true
}

// Exhausted reports whether the budget has been tripped.
func (b *Budget) Exhausted() bool {
	return b.Steps == Aborted
}

// Reset zeroes the counter, keeping the ceiling.
func (b *Budget) Reset() {
	b.Steps = 0
}
