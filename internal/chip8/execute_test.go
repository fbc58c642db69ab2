package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// newTestVM creates a VM loaded with the given instruction stream.
func newTestVM(t *testing.T, opcodes ...uint16) *VM {
	t.Helper()

	program := make([]byte, 0, len(opcodes)*2)
	for _, opcode := range opcodes {
		program = append(program, byte(opcode>>8), byte(opcode))
	}

	vm, err := New(log.NewTestLogger(t), program)
	assert.NoError(t, err)
	return vm
}

// step runs n cycles and fails the test on any error.
func step(t *testing.T, vm *VM, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		assert.NoError(t, vm.Step())
	}
}

func TestExecuteClearAndJumpLoop(t *testing.T) {
	// 00E0 clear screen, 1200 jump back to the program start. The
	// framebuffer stays dark and the PC stays pinned for any cycle count.
	vm := newTestVM(t, 0x00E0, 0x1200)
	vm.display.DrawSprite(0, 0, []byte{0xFF})

	for i := 0; i < 8; i++ {
		assert.NoError(t, vm.Step())
		assert.Equal(t, Framebuffer{}, vm.Framebuffer())
		assert.True(t, vm.regs.PC == 0x200 || vm.regs.PC == 0x202)
	}
	assert.Equal(t, uint16(0x200), vm.regs.PC)
}

func TestExecuteLoadAndAddImmediate(t *testing.T) {
	// 6A05 VA = 5, 7A03 VA += 3. VF stays untouched.
	vm := newTestVM(t, 0x6A05, 0x7A03)
	vm.regs.V[flagRegister] = 0x77

	step(t, vm, 2)
	assert.Equal(t, uint8(8), vm.regs.V[0xA])
	assert.Equal(t, uint8(0x77), vm.regs.V[flagRegister])
}

func TestExecuteAddImmediateWraps(t *testing.T) {
	vm := newTestVM(t, 0x7AFF)
	vm.regs.V[0xA] = 0x02

	step(t, vm, 1)
	assert.Equal(t, uint8(0x01), vm.regs.V[0xA])
	assert.Equal(t, uint8(0), vm.regs.V[flagRegister])
}

func TestExecuteAddWithCarry(t *testing.T) {
	// 8014 V0 += V1 with VF = carry, 250 + 10 = 260 -> 4 carry 1.
	vm := newTestVM(t, 0x8014)
	vm.regs.V[0] = 250
	vm.regs.V[1] = 10

	step(t, vm, 1)
	assert.Equal(t, uint8(4), vm.regs.V[0])
	assert.Equal(t, uint8(1), vm.regs.V[flagRegister])
}

func TestExecuteAddWithoutCarry(t *testing.T) {
	vm := newTestVM(t, 0x8014)
	vm.regs.V[0] = 10
	vm.regs.V[1] = 20
	vm.regs.V[flagRegister] = 1

	step(t, vm, 1)
	assert.Equal(t, uint8(30), vm.regs.V[0])
	assert.Equal(t, uint8(0), vm.regs.V[flagRegister])
}

func TestExecuteFlagOverwritesResultOnVF(t *testing.T) {
	// 8F14 targets VF itself: the carry flag is written after the sum and
	// wins.
	vm := newTestVM(t, 0x8F14)
	vm.regs.V[0xF] = 200
	vm.regs.V[1] = 100

	step(t, vm, 1)
	assert.Equal(t, uint8(1), vm.regs.V[flagRegister])
}

func TestExecuteSub(t *testing.T) {
	tests := []struct {
		name     string
		vx, vy   uint8
		want     uint8
		wantFlag uint8
	}{
		{"no borrow", 20, 5, 15, 1},
		{"equal operands", 7, 7, 0, 1},
		{"borrow wraps", 5, 20, 241, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, 0x8015)
			vm.regs.V[0] = tt.vx
			vm.regs.V[1] = tt.vy

			step(t, vm, 1)
			assert.Equal(t, tt.want, vm.regs.V[0])
			assert.Equal(t, tt.wantFlag, vm.regs.V[flagRegister])
		})
	}
}

func TestExecuteSubn(t *testing.T) {
	vm := newTestVM(t, 0x8017)
	vm.regs.V[0] = 5
	vm.regs.V[1] = 20

	step(t, vm, 1)
	assert.Equal(t, uint8(15), vm.regs.V[0])
	assert.Equal(t, uint8(1), vm.regs.V[flagRegister])
}

func TestExecuteBitwise(t *testing.T) {
	vm := newTestVM(t, 0x8341, 0x8342, 0x8343)
	vm.regs.V[3] = 0b1100
	vm.regs.V[4] = 0b1010

	step(t, vm, 1)
	assert.Equal(t, uint8(0b1110), vm.regs.V[3])

	step(t, vm, 1)
	assert.Equal(t, uint8(0b1010), vm.regs.V[3])

	step(t, vm, 1)
	assert.Equal(t, uint8(0b0000), vm.regs.V[3])
}

func TestExecuteShifts(t *testing.T) {
	// 8106 shifts V1 right, 810E shifts V1 left. VY is ignored and VF
	// receives the shifted out bit.
	vm := newTestVM(t, 0x8106, 0x810E)
	vm.regs.V[1] = 0b10000101

	step(t, vm, 1)
	assert.Equal(t, uint8(0b01000010), vm.regs.V[1])
	assert.Equal(t, uint8(1), vm.regs.V[flagRegister])

	step(t, vm, 1)
	assert.Equal(t, uint8(0b10000100), vm.regs.V[1])
	assert.Equal(t, uint8(0), vm.regs.V[flagRegister])
}

func TestExecuteSkips(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		vx, vy   uint8
		wantSkip bool
	}{
		{"se byte taken", 0x3042, 0x42, 0, true},
		{"se byte not taken", 0x3042, 0x41, 0, false},
		{"sne byte taken", 0x4042, 0x41, 0, true},
		{"sne byte not taken", 0x4042, 0x42, 0, false},
		{"se reg taken", 0x5010, 7, 7, true},
		{"se reg not taken", 0x5010, 7, 8, false},
		{"sne reg taken", 0x9010, 7, 8, true},
		{"sne reg not taken", 0x9010, 7, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, tt.opcode)
			vm.regs.V[0] = tt.vx
			vm.regs.V[1] = tt.vy

			step(t, vm, 1)
			wantPC := uint16(0x202)
			if tt.wantSkip {
				wantPC = 0x204
			}
			assert.Equal(t, wantPC, vm.regs.PC)
		})
	}
}

func TestExecuteCallReturnSymmetry(t *testing.T) {
	// A call at 0x200 to 0x300 followed by a return restores the PC to the
	// instruction after the call site, for every depth up to capacity.
	vm := newTestVM(t, 0x2300)

	for depth := 1; depth <= StackDepth; depth++ {
		vm.regs.PC = 0x200
		assert.NoError(t, vm.Step())
		assert.Equal(t, uint16(0x300), vm.regs.PC)
		assert.Equal(t, uint8(depth), vm.regs.SP)
	}

	for depth := StackDepth; depth >= 1; depth-- {
		assert.NoError(t, vm.mem.WriteByte(vm.regs.PC, 0x00))
		assert.NoError(t, vm.mem.WriteByte(vm.regs.PC+1, 0xEE))
		assert.NoError(t, vm.Step())
		assert.Equal(t, uint16(0x202), vm.regs.PC)
		vm.regs.PC = 0x300
	}
}

func TestExecuteCallStackOverflow(t *testing.T) {
	// 2200: call to self, growing the stack by one per cycle.
	vm := newTestVM(t, 0x2200)

	for i := 0; i < StackDepth; i++ {
		assert.NoError(t, vm.Step())
	}

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
}

func TestExecuteReturnStackUnderflow(t *testing.T) {
	vm := newTestVM(t, 0x00EE)

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestExecuteJumpV0(t *testing.T) {
	vm := newTestVM(t, 0xB300)
	vm.regs.V[0] = 0x10

	step(t, vm, 1)
	assert.Equal(t, uint16(0x310), vm.regs.PC)
}

func TestExecuteRandomMask(t *testing.T) {
	// The random byte is masked with NN, so a zero mask pins the result.
	vm := newTestVM(t, 0xC100)
	vm.regs.V[1] = 0xEE

	step(t, vm, 1)
	assert.Equal(t, uint8(0), vm.regs.V[1])

	vm = newTestVM(t, 0xC20F)
	step(t, vm, 1)
	assert.True(t, vm.regs.V[2] <= 0x0F)
}

func TestExecuteDraw(t *testing.T) {
	// A202 points I at the second instruction's bytes which double as
	// sprite data (0xD0, 0x11).
	vm := newTestVM(t, 0xA202, 0xD011)
	vm.regs.V[0] = 4
	vm.regs.V[1] = 2

	step(t, vm, 2)
	// 0xD0 = 0b11010000 drawn at (4, 2).
	assert.True(t, vm.display.Pixel(4, 2))
	assert.True(t, vm.display.Pixel(5, 2))
	assert.False(t, vm.display.Pixel(6, 2))
	assert.True(t, vm.display.Pixel(7, 2))
	assert.Equal(t, uint8(0), vm.regs.V[flagRegister])
}

func TestExecuteDrawCollision(t *testing.T) {
	// Drawing the same sprite twice at the same spot erases it again and
	// reports the collision in VF.
	vm := newTestVM(t, 0xA202, 0xD011, 0xD011)
	vm.regs.V[0] = 4
	vm.regs.V[1] = 2

	step(t, vm, 3)
	assert.Equal(t, Framebuffer{}, vm.Framebuffer())
	assert.Equal(t, uint8(1), vm.regs.V[flagRegister])
}

func TestExecuteDrawOutOfBoundsSprite(t *testing.T) {
	vm := newTestVM(t, 0xD011)
	vm.regs.I = MemorySize

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrAddressOutOfBounds))
}

func TestExecuteKeySkips(t *testing.T) {
	vm := newTestVM(t, 0xE09E, 0xE0A1)
	vm.regs.V[0] = 0x5
	vm.SetKey(0x5, true)

	// Key 5 pressed: EX9E skips past the EXA1 at 0x202.
	step(t, vm, 1)
	assert.Equal(t, uint16(0x204), vm.regs.PC)

	vm = newTestVM(t, 0xE09E, 0xE0A1)
	vm.regs.V[0] = 0x5

	// Key 5 not pressed: EX9E falls through, EXA1 skips.
	step(t, vm, 2)
	assert.Equal(t, uint16(0x206), vm.regs.PC)
}

func TestExecuteWaitForKey(t *testing.T) {
	vm := newTestVM(t, 0xF30A)

	// No key down: the instruction re-executes, PC stays put.
	step(t, vm, 3)
	assert.Equal(t, uint16(0x200), vm.regs.PC)

	vm.SetKey(0x9, true)
	step(t, vm, 1)
	assert.Equal(t, uint16(0x202), vm.regs.PC)
	assert.Equal(t, uint8(0x9), vm.regs.V[3])
}

func TestExecuteTimerInstructions(t *testing.T) {
	// F115 sets the delay timer from V1, F207 reads it back into V2,
	// F318 sets the sound timer from V3.
	vm := newTestVM(t, 0xF115, 0xF207, 0xF318)
	vm.regs.V[1] = 42
	vm.regs.V[3] = 7

	step(t, vm, 3)
	assert.Equal(t, uint8(42), vm.timers.Delay())
	assert.Equal(t, uint8(42), vm.regs.V[2])
	assert.True(t, vm.SoundActive())
}

func TestExecuteAddIndex(t *testing.T) {
	vm := newTestVM(t, 0xF11E)
	vm.regs.I = 0x300
	vm.regs.V[1] = 0x20

	step(t, vm, 1)
	assert.Equal(t, uint16(0x320), vm.regs.I)
}

func TestExecuteFontAddress(t *testing.T) {
	vm := newTestVM(t, 0xF129)
	vm.regs.V[1] = 0xA

	step(t, vm, 1)
	assert.Equal(t, uint16(fontStart+0xA*fontSpriteSize), vm.regs.I)

	// Values above 0xF index the font by their low nibble.
	vm = newTestVM(t, 0xF129)
	vm.regs.V[1] = 0x1A

	step(t, vm, 1)
	assert.Equal(t, uint16(fontStart+0xA*fontSpriteSize), vm.regs.I)
}

func TestExecuteBCD(t *testing.T) {
	vm := newTestVM(t, 0xF133)
	vm.regs.V[1] = 254
	vm.regs.I = 0x400

	step(t, vm, 1)
	for i, want := range []byte{2, 5, 4} {
		got, err := vm.mem.ReadByte(0x400 + uint16(i))
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestExecuteStoreLoad(t *testing.T) {
	// F255 stores V0-V2 at I and advances I by three; F265 reads them back.
	vm := newTestVM(t, 0xF255, 0xF265)
	vm.regs.V[0] = 0x11
	vm.regs.V[1] = 0x22
	vm.regs.V[2] = 0x33
	vm.regs.V[3] = 0x99
	vm.regs.I = 0x400

	step(t, vm, 1)
	assert.Equal(t, uint16(0x403), vm.regs.I)
	for i, want := range []byte{0x11, 0x22, 0x33} {
		got, err := vm.mem.ReadByte(0x400 + uint16(i))
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// V3 was not stored.
	got, err := vm.mem.ReadByte(0x403)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), got)

	vm.regs.I = 0x400
	vm.regs.V[0], vm.regs.V[1], vm.regs.V[2] = 0, 0, 0

	step(t, vm, 1)
	assert.Equal(t, uint16(0x403), vm.regs.I)
	assert.Equal(t, uint8(0x11), vm.regs.V[0])
	assert.Equal(t, uint8(0x22), vm.regs.V[1])
	assert.Equal(t, uint8(0x33), vm.regs.V[2])
	assert.Equal(t, uint8(0x99), vm.regs.V[3])
}

func TestExecuteStoreOutOfBounds(t *testing.T) {
	vm := newTestVM(t, 0xF155)
	vm.regs.I = MemorySize - 1

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrAddressOutOfBounds))
}
