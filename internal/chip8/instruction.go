package chip8

import (
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies one of the 35 CHIP-8 operations. Decoding the raw opcode
// into this closed enumeration up front lets the executor dispatch with an
// exhaustive switch instead of re-deriving nibble patterns, and makes an
// unknown opcode a decode error rather than a forgotten branch.
type Op uint8

const (
	OpInvalid Op = iota

	OpCls    // 00E0: clear the display
	OpRet    // 00EE: return from subroutine
	OpJp     // 1NNN: jump to address
	OpCall   // 2NNN: call subroutine
	OpSeNN   // 3XNN: skip if VX == NN
	OpSneNN  // 4XNN: skip if VX != NN
	OpSeXY   // 5XY0: skip if VX == VY
	OpLdNN   // 6XNN: VX = NN
	OpAddNN  // 7XNN: VX += NN, no carry flag
	OpLdXY   // 8XY0: VX = VY
	OpOr     // 8XY1: VX |= VY
	OpAnd    // 8XY2: VX &= VY
	OpXor    // 8XY3: VX ^= VY
	OpAddXY  // 8XY4: VX += VY, VF = carry
	OpSub    // 8XY5: VX -= VY, VF = no borrow
	OpShr    // 8XY6: VX >>= 1, VF = shifted out bit
	OpSubn   // 8XY7: VX = VY - VX, VF = no borrow
	OpShl    // 8XYE: VX <<= 1, VF = shifted out bit
	OpSneXY  // 9XY0: skip if VX != VY
	OpLdI    // ANNN: I = NNN
	OpJpV0   // BNNN: jump to NNN + V0
	OpRnd    // CXNN: VX = random byte & NN
	OpDrw    // DXYN: draw N-row sprite at (VX, VY), VF = collision
	OpSkp    // EX9E: skip if key VX is pressed
	OpSknp   // EXA1: skip if key VX is not pressed
	OpLdDT   // FX07: VX = delay timer
	OpLdKey  // FX0A: wait for key press, VX = key
	OpSetDT  // FX15: delay timer = VX
	OpSetST  // FX18: sound timer = VX
	OpAddI   // FX1E: I += VX
	OpLdFont // FX29: I = font sprite address of digit VX
	OpBCD    // FX33: memory[I..I+2] = BCD of VX
	OpStore  // FX55: memory[I..I+X] = V0..VX, I += X+1
	OpLoad   // FX65: V0..VX = memory[I..I+X], I += X+1
)

// Instruction is a decoded CHIP-8 instruction with its typed operands. Not
// every operation uses every operand field.
type Instruction struct {
	Op  Op
	X   uint8  // second nibble, register index
	Y   uint8  // third nibble, register index
	N   uint8  // fourth nibble
	NN  uint8  // low byte
	NNN uint16 // low 12 bits, address

	ins *chip8cpu.Instruction
}

// Name returns the assembler mnemonic of the instruction.
func (in Instruction) Name() string {
	if in.ins == nil {
		return ""
	}
	return in.ins.Name
}

// Decode splits a big-endian 16 bit opcode into an operation and its typed
// operands. Opcodes that match none of the 35 documented operations return
// an ErrIllegalInstruction error.
func Decode(opcode uint16) (Instruction, error) {
	in := Instruction{
		X:   uint8(opcode >> 8 & 0x0F),
		Y:   uint8(opcode >> 4 & 0x0F),
		N:   uint8(opcode & 0x0F),
		NN:  uint8(opcode & 0xFF),
		NNN: opcode & 0x0FFF,
	}

	switch opcode & 0xF000 {
	case 0x0000:
		// Only the exact CLS and RET encodings are valid, the whole SYS
		// range 0NNN is treated as illegal.
		switch opcode {
		case 0x00E0:
			in.Op, in.ins = OpCls, chip8cpu.ClsInst
		case 0x00EE:
			in.Op, in.ins = OpRet, chip8cpu.RetInst
		}

	case 0x1000:
		in.Op, in.ins = OpJp, chip8cpu.JpInst
	case 0x2000:
		in.Op, in.ins = OpCall, chip8cpu.CallInst
	case 0x3000:
		in.Op, in.ins = OpSeNN, chip8cpu.SeInst
	case 0x4000:
		in.Op, in.ins = OpSneNN, chip8cpu.SneInst

	case 0x5000:
		if opcode&0x000F == 0 {
			in.Op, in.ins = OpSeXY, chip8cpu.SeInst
		}

	case 0x6000:
		in.Op, in.ins = OpLdNN, chip8cpu.LdInst
	case 0x7000:
		in.Op, in.ins = OpAddNN, chip8cpu.AddInst

	case 0x8000:
		switch opcode & 0x000F {
		case 0x0:
			in.Op, in.ins = OpLdXY, chip8cpu.LdInst
		case 0x1:
			in.Op, in.ins = OpOr, chip8cpu.OrInst
		case 0x2:
			in.Op, in.ins = OpAnd, chip8cpu.AndInst
		case 0x3:
			in.Op, in.ins = OpXor, chip8cpu.XorInst
		case 0x4:
			in.Op, in.ins = OpAddXY, chip8cpu.AddInst
		case 0x5:
			in.Op, in.ins = OpSub, chip8cpu.SubInst
		case 0x6:
			in.Op, in.ins = OpShr, chip8cpu.ShrInst
		case 0x7:
			in.Op, in.ins = OpSubn, chip8cpu.SubnInst
		case 0xE:
			in.Op, in.ins = OpShl, chip8cpu.ShlInst
		}

	case 0x9000:
		if opcode&0x000F == 0 {
			in.Op, in.ins = OpSneXY, chip8cpu.SneInst
		}

	case 0xA000:
		in.Op, in.ins = OpLdI, chip8cpu.LdInst
	case 0xB000:
		in.Op, in.ins = OpJpV0, chip8cpu.JpInst
	case 0xC000:
		in.Op, in.ins = OpRnd, chip8cpu.RndInst
	case 0xD000:
		in.Op, in.ins = OpDrw, chip8cpu.DrwInst

	case 0xE000:
		switch opcode & 0x00FF {
		case 0x9E:
			in.Op, in.ins = OpSkp, chip8cpu.SkpInst
		case 0xA1:
			in.Op, in.ins = OpSknp, chip8cpu.SknpInst
		}

	case 0xF000:
		switch opcode & 0x00FF {
		case 0x07:
			in.Op, in.ins = OpLdDT, chip8cpu.LdInst
		case 0x0A:
			in.Op, in.ins = OpLdKey, chip8cpu.LdInst
		case 0x15:
			in.Op, in.ins = OpSetDT, chip8cpu.LdInst
		case 0x18:
			in.Op, in.ins = OpSetST, chip8cpu.LdInst
		case 0x1E:
			in.Op, in.ins = OpAddI, chip8cpu.AddInst
		case 0x29:
			in.Op, in.ins = OpLdFont, chip8cpu.LdInst
		case 0x33:
			in.Op, in.ins = OpBCD, chip8cpu.LdInst
		case 0x55:
			in.Op, in.ins = OpStore, chip8cpu.LdInst
		case 0x65:
			in.Op, in.ins = OpLoad, chip8cpu.LdInst
		}
	}

	if in.Op == OpInvalid {
		return Instruction{}, fmt.Errorf("%w: opcode $%04X", ErrIllegalInstruction, opcode)
	}
	return in, nil
}
