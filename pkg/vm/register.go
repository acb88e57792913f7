package vm

const (
	NumRegs = 8 // R0-R7: the host machine's general purpose registers

	RegA     = 0 // reg0: first argument and result
	RegB     = 1 // reg1: second argument
	RegParam = 7 // reg7: the candidate parameter, read only during evaluation
)

// Word domain of the host machine: values are 15-bit unsigned.
const (
	WordMod  = 32768
	WordMask = WordMod - 1
)

// Initial register values loaded before every evaluation.
const (
	InitialA int64 = 4
	InitialB int64 = 1
)

// RegisterFile holds machine state.
type RegisterFile struct {
	R [NumRegs]int64
}

// Reset clears all registers.
func (rf *RegisterFile) Reset() {
	for i := range rf.R {
		rf.R[i] = 0
	}
}

// Load clears the file and sets reg0, reg1 and reg7.
func (rf *RegisterFile) Load(a, b, p int64) {
	rf.Reset()
	rf.R[RegA] = a
	rf.R[RegB] = b
	rf.R[RegParam] = p
}

// A returns reg0.
func (rf *RegisterFile) A() int64 { return rf.R[RegA] }

// B returns reg1.
func (rf *RegisterFile) B() int64 { return rf.R[RegB] }

// Param returns reg7.
func (rf *RegisterFile) Param() int64 { return rf.R[RegParam] }
