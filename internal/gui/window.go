// Package gui provides the GLFW window shell that presents the framebuffer
// via OpenGL and forwards keyboard state to the VM.
package gui

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"

	"github.com/retroenv/chip8emu/internal/chip8"
)

// keyMap maps the keyboard to the CHIP-8 hex keypad:
//
//	Keypad    =>  Keyboard
//	|1|2|3|C|     |1|2|3|4|
//	|4|5|6|D|     |Q|W|E|R|
//	|7|8|9|E|     |A|S|D|F|
//	|A|0|B|F|     |Z|X|C|V|
var keyMap = map[glfw.Key]uint8{
	glfw.Key1: 0x1, glfw.Key2: 0x2, glfw.Key3: 0x3, glfw.Key4: 0xC,
	glfw.KeyQ: 0x4, glfw.KeyW: 0x5, glfw.KeyE: 0x6, glfw.KeyR: 0xD,
	glfw.KeyA: 0x7, glfw.KeyS: 0x8, glfw.KeyD: 0x9, glfw.KeyF: 0xE,
	glfw.KeyZ: 0xA, glfw.KeyX: 0x0, glfw.KeyC: 0xB, glfw.KeyV: 0xF,
}

// Window is a GLFW window rendering the CHIP-8 display. It must be created
// and used from the main OS thread.
type Window struct {
	window *glfw.Window
	vertex []uint32

	beeping bool
	handler func(key uint8, pressed bool)
}

// NewWindow initializes GLFW and OpenGL and opens a window sized to the
// CHIP-8 display scaled by the given factor.
func NewWindow(scale int) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	width := chip8.DisplayWidth * scale
	height := chip8.DisplayHeight * scale
	window, err := glfw.CreateWindow(width, height, "chip8emu", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	window.MakeContextCurrent()

	vertex, err := glSetup()
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("setting up OpenGL: %w", err)
	}

	w := &Window{
		window: window,
		vertex: vertex,
	}
	window.SetKeyCallback(w.keyCallback)
	window.SetSizeCallback(resizeCallback)

	gl.ClearColor(0.1, 0.1, 0.1, 0)
	return w, nil
}

// Close terminates the GLFW session.
func (w *Window) Close() {
	glfw.Terminate()
}

// SetKeyHandler registers the function that receives keypad state changes.
func (w *Window) SetKeyHandler(handler func(key uint8, pressed bool)) {
	w.handler = handler
}

// Render uploads the lit pixels as quads and presents the frame.
func (w *Window) Render(fb chip8.Framebuffer) {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	n := fillVertices(fb, w.vertex)
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, n*4, gl.Ptr(w.vertex))
	gl.DrawElements(gl.TRIANGLES, int32(n), gl.UNSIGNED_INT, gl.PtrOffset(0))

	w.window.SwapBuffers()
}

// Beep rings the terminal bell on the rising edge of the sound timer.
func (w *Window) Beep(active bool) {
	if active && !w.beeping {
		fmt.Print("\a")
	}
	w.beeping = active
}

// ShouldClose reports whether the user requested to close the window.
func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}

// PollEvents processes pending window and input events.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) keyCallback(window *glfw.Window, key glfw.Key, _ int,
	action glfw.Action, _ glfw.ModifierKey) {

	if key == glfw.KeyEscape && action == glfw.Press {
		window.SetShouldClose(true)
		return
	}

	pad, ok := keyMap[key]
	if !ok || w.handler == nil {
		return
	}

	switch action {
	case glfw.Press:
		w.handler(pad, true)
	case glfw.Release:
		w.handler(pad, false)
	}
}

func resizeCallback(_ *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}
