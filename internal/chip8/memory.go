package chip8

import "fmt"

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter reserved area, font data at 0x050-0x09F
//	0x200-0xFFF: User program space (3584 bytes)
const (
	// MemorySize is the total addressable memory in bytes.
	MemorySize = 4096

	// ProgramStart is the memory address where CHIP-8 programs begin execution.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits above ProgramStart.
	MaxProgramSize = MemorySize - ProgramStart

	// fontStart is the address the hex digit sprites are written to.
	fontStart = 0x050

	// fontSpriteSize is the size of one hex digit sprite in bytes.
	fontSpriteSize = 5
)

// font contains the 16 five-byte sprites for the hex digits 0-F.
var font = [...]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4KB address space of the VM. The font sprites are
// written once at construction, the program image once at load time; all
// later mutation happens through the store instructions.
type Memory struct {
	data [MemorySize]byte
}

// newMemory returns memory initialized with the font data and the given
// program image loaded at ProgramStart.
func newMemory(program []byte) (Memory, error) {
	var m Memory
	copy(m.data[fontStart:], font[:])
	if err := m.load(program); err != nil {
		return Memory{}, err
	}
	return m, nil
}

// load writes a program image starting at ProgramStart.
func (m *Memory) load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, %d allowed", ErrProgramTooLarge,
			len(program), MaxProgramSize)
	}
	copy(m.data[ProgramStart:], program)
	return nil
}

// ReadByte returns the byte at the given address. Unlike the display buffer,
// memory addresses never wrap; out of range access is an error.
func (m *Memory) ReadByte(address uint16) (byte, error) {
	if address >= MemorySize {
		return 0, fmt.Errorf("%w: read at $%04X", ErrAddressOutOfBounds, address)
	}
	return m.data[address], nil
}

// WriteByte sets the byte at the given address.
func (m *Memory) WriteByte(address uint16, value byte) error {
	if address >= MemorySize {
		return fmt.Errorf("%w: write at $%04X", ErrAddressOutOfBounds, address)
	}
	m.data[address] = value
	return nil
}
