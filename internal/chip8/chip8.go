// Package chip8 implements the CHIP-8 virtual machine core: memory, register
// file, timers, display buffer, input latch and the fetch-decode-execute
// cycle over the 35 documented CHIP-8 operations.
//
// The core is single-threaded and owns all interpreter state exclusively.
// The caller drives time: it calls Step at its chosen CPU rate, Tick at a
// fixed 60 Hz cadence, and reads the framebuffer and sound state in between.
// None of these calls may run concurrently.
package chip8

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// VM is a complete CHIP-8 virtual machine instance. Multiple instances can
// coexist; no state is shared between them.
type VM struct {
	mem     Memory
	regs    Registers
	timers  Timers
	display Display
	keys    Keypad

	rng    *rand.Rand
	logger *log.Logger
	halted error
}

// New returns a VM with the font data installed and the given program image
// loaded at the program start address. Programs larger than the available
// memory above the reserved region are rejected with ErrProgramTooLarge.
func New(logger *log.Logger, program []byte) (*VM, error) {
	mem, err := newMemory(program)
	if err != nil {
		return nil, err
	}

	return &VM{
		mem:    mem,
		regs:   newRegisters(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}, nil
}

// Step performs exactly one fetch-decode-execute cycle. A fatal error
// (out of bounds access, illegal instruction, call stack imbalance) halts
// the machine permanently: every following Step returns the same error.
func (vm *VM) Step() error {
	if vm.halted != nil {
		return vm.halted
	}

	pc := vm.regs.PC
	opcode, err := vm.fetch()
	if err != nil {
		vm.halted = fmt.Errorf("fetching at $%04X: %w", pc, err)
		return vm.halted
	}

	in, err := Decode(opcode)
	if err != nil {
		vm.halted = fmt.Errorf("decoding at $%04X: %w", pc, err)
		return vm.halted
	}

	vm.logger.Debug("Executing instruction",
		log.Hex("pc", pc),
		log.Hex("opcode", opcode),
		log.String("op", in.Name()),
	)

	if err := vm.execute(in); err != nil {
		vm.halted = fmt.Errorf("executing %s at $%04X: %w", in.Name(), pc, err)
		return vm.halted
	}
	return nil
}

// fetch reads the big-endian 16 bit opcode at the program counter and
// advances the counter past it. Control flow instructions executed
// afterwards therefore see the address of the next instruction.
func (vm *VM) fetch() (uint16, error) {
	hi, err := vm.mem.ReadByte(vm.regs.PC)
	if err != nil {
		return 0, err
	}
	lo, err := vm.mem.ReadByte(vm.regs.PC + 1)
	if err != nil {
		return 0, err
	}
	vm.regs.PC += 2
	return uint16(hi)<<8 | uint16(lo), nil
}

// Tick decrements the delay and sound timers. The caller invokes it at a
// fixed 60 Hz rate, independent of the Step rate.
func (vm *VM) Tick() {
	vm.timers.Tick()
}

// SetKey latches the pressed state of a keypad key (0x0-0xF).
func (vm *VM) SetKey(key uint8, pressed bool) {
	vm.keys.Set(key, pressed)
}

// Framebuffer returns a snapshot of the display contents.
func (vm *VM) Framebuffer() Framebuffer {
	return vm.display.pixels
}

// SoundActive reports whether the sound timer is running and a tone should
// be played.
func (vm *VM) SoundActive() bool {
	return vm.timers.SoundActive()
}
