// Package emulator orchestrates the emulation workflow: it loads a ROM,
// owns the run loop and drives the VM at the configured CPU clock while
// ticking timers and presenting frames at a fixed 60 Hz.
package emulator

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/chip8emu/internal/loader"
	"github.com/retroenv/chip8emu/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// frameRate is the timer and presentation cadence in Hz. The CPU clock is
// configured independently; only the ratio of steps per frame changes.
const frameRate = 60

// Presenter displays framebuffer contents and delivers key events back to
// the VM. The GLFW window implements it; tests use a fake.
type Presenter interface {
	SetKeyHandler(handler func(key uint8, pressed bool))
	Render(fb chip8.Framebuffer)
	Beep(active bool)
	ShouldClose() bool
	PollEvents()
}

// Emulator runs CHIP-8 programs against a presenter.
type Emulator struct {
	logger    *log.Logger
	loader    *loader.Loader
	presenter Presenter
}

// New creates a new emulator.
func New(logger *log.Logger, presenter Presenter) *Emulator {
	return &Emulator{
		logger:    logger,
		loader:    loader.New(),
		presenter: presenter,
	}
}

// Run loads the ROM named by the options and emulates it until the
// presenter closes, the context is cancelled or the VM hits a fatal error.
func (e *Emulator) Run(ctx context.Context, opts options.Program) error {
	program, err := e.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	vm, err := chip8.New(e.logger, program)
	if err != nil {
		return fmt.Errorf("creating VM: %w", err)
	}

	e.logger.Info("Running CHIP-8 program",
		log.String("file", opts.Input),
		log.Int("clock", opts.Clock),
	)

	return e.loop(ctx, vm, opts.Clock)
}

// loop interleaves CPU steps, timer ticks and presentation. Per 60 Hz frame
// it executes clock/60 instructions, decrements the timers once and renders
// the framebuffer.
func (e *Emulator) loop(ctx context.Context, vm *chip8.VM, clock int) error {
	e.presenter.SetKeyHandler(vm.SetKey)

	stepsPerFrame := clock / frameRate
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	frame := time.NewTicker(time.Second / frameRate)
	defer frame.Stop()

	for !e.presenter.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-frame.C:
		}

		for i := 0; i < stepsPerFrame; i++ {
			if err := vm.Step(); err != nil {
				return fmt.Errorf("stepping VM: %w", err)
			}
		}
		vm.Tick()

		e.presenter.Render(vm.Framebuffer())
		e.presenter.Beep(vm.SoundActive())
		e.presenter.PollEvents()
	}
	return nil
}
