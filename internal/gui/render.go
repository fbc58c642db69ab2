package gui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/retroenv/chip8emu/internal/chip8"
)

var (
	vertexShaderGlsl = `
	  #version 410 core
	  in vec2 pos;
	  void main() {
	    gl_Position = vec4(pos, 0.0, 1.0);
	  }`
	fragmentShaderGlsl = `
	  #version 410 core
	  out vec4 color;
	  void main() {
	    color = vec4(0.85, 0.85, 0.85, 1.0);
	  }`
)

// glSetup compiles the shaders and uploads a static grid of quad corner
// vertices covering the display. The returned element buffer is re-filled
// per frame with the indices of the lit pixels' quads.
//
// The grid has (width+1) x (height+1) corners. The corner at display
// coordinate (x, y) is vertex number x*(height+1)+y, so the quad of pixel
// (x, y) is spanned by the vertices at (x, y), (x, y+1), (x+1, y) and
// (x+1, y+1).
func glSetup() ([]uint32, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	w, h := chip8.DisplayWidth+1, chip8.DisplayHeight+1
	ncoords := w * h * 2
	buf := make([]float32, ncoords)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			i := 2 * (x*h + y)
			buf[i] = -1 + float32(x)/float32(chip8.DisplayWidth/2)
			buf[i+1] = 1 - float32(y)/float32(chip8.DisplayHeight/2)
		}
	}

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.STATIC_DRAW)

	// Each pixel quad needs 6 element indices.
	vertex := make([]uint32, ncoords*3)

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(vertex)*4, gl.Ptr(vertex), gl.DYNAMIC_DRAW)

	vertexShader, err := compileShader(gl.VERTEX_SHADER, vertexShaderGlsl)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, fragmentShaderGlsl)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.BindFragDataLocation(program, 0, gl.Str("color\x00"))
	gl.LinkProgram(program)
	gl.UseProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		infoLog := strings.Repeat("\x00", 1+int(length))
		gl.GetProgramInfoLog(program, length, nil, gl.Str(infoLog))
		return nil, fmt.Errorf("program link error: %s", infoLog)
	}

	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return nil, fmt.Errorf("GL error: 0x%x", glErr)
	}

	return vertex, nil
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSource, free := gl.Strs(source)
	defer free()
	gl.ShaderSource(shader, 1, cSource, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
		infoLog := strings.Repeat("\x00", 1+int(length))
		gl.GetShaderInfoLog(shader, length, nil, gl.Str(infoLog))
		return 0, errors.New(infoLog)
	}
	return shader, nil
}

// fillVertices writes the element indices of two triangles per lit pixel
// and returns the number of indices written.
func fillVertices(fb chip8.Framebuffer, vertex []uint32) int {
	h := chip8.DisplayHeight + 1
	n := 0
	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if !fb[y][x] {
				continue
			}
			// Corners of the pixel quad.
			q1 := uint32(x*h + y)
			q2 := uint32(x*h + y + 1)
			q3 := uint32((x+1)*h + y)
			q4 := uint32((x+1)*h + y + 1)
			vertex[n+0] = q1
			vertex[n+1] = q2
			vertex[n+2] = q3
			vertex[n+3] = q2
			vertex[n+4] = q3
			vertex[n+5] = q4
			n += 6
		}
	}
	return n
}
