// Package loader handles ROM file loading operations.
package loader

import (
	"bytes"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
)

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads a CHIP-8 ROM file and returns its raw program bytes. CHIP-8
// ROMs carry no header or metadata, so the file is loaded as an opaque
// buffer; length validation happens when the VM loads the image.
func (l *Loader) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	cart, err := cartridge.LoadBuffer(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	// LoadBuffer pads the program buffer to a full PRG bank, trim it back
	// to the real file length.
	return cart.PRG[:len(data)], nil
}
