// Package options contains the program options.
package options

// Default option values.
const (
	DefaultClock = 700
	DefaultScale = 15
)

// Program options of the emulator.
type Program struct {
	Input string // ROM file to run

	Clock int // CPU steps per second
	Scale int // window pixels per CHIP-8 pixel

	Debug bool
	Quiet bool
}

// NewProgram returns program options with default values.
func NewProgram() Program {
	return Program{
		Clock: DefaultClock,
		Scale: DefaultScale,
	}
}
