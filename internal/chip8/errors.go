package chip8

import "errors"

// Error taxonomy of the virtual machine. ErrProgramTooLarge is returned at
// load time and is recoverable by the caller; the others are fatal and halt
// the VM permanently once returned by Step.
var (
	ErrProgramTooLarge    = errors.New("program too large")
	ErrAddressOutOfBounds = errors.New("address out of bounds")
	ErrIllegalInstruction = errors.New("illegal instruction")
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackUnderflow     = errors.New("stack underflow")
)
