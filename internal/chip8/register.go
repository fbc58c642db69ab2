package chip8

import "fmt"

const (
	// NumRegisters is the number of general purpose registers V0-VF.
	NumRegisters = 16

	// StackDepth is the call stack capacity in return addresses.
	StackDepth = 16

	// flagRegister is VF, the implicit output of carry, borrow, shift and
	// sprite collision operations.
	flagRegister = 0xF
)

// Registers holds the CHIP-8 register file: the general purpose registers
// V0-VF, the index register I, the program counter and the call stack.
type Registers struct {
	V  [NumRegisters]uint8
	I  uint16
	PC uint16

	SP    uint8
	stack [StackDepth]uint16
}

// newRegisters returns a register file with the program counter set to the
// program entry point.
func newRegisters() Registers {
	return Registers{PC: ProgramStart}
}

// Push stores a return address on the call stack.
func (r *Registers) Push(address uint16) error {
	if int(r.SP) >= StackDepth {
		return fmt.Errorf("%w: call depth exceeds %d", ErrStackOverflow, StackDepth)
	}
	r.stack[r.SP] = address
	r.SP++
	return nil
}

// Pop removes and returns the top return address from the call stack.
func (r *Registers) Pop() (uint16, error) {
	if r.SP == 0 {
		return 0, fmt.Errorf("%w: return without matching call", ErrStackUnderflow)
	}
	r.SP--
	return r.stack[r.SP], nil
}
