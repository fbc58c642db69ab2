package chip8

// Display buffer dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32

	// spriteWidth is the fixed width of sprite rows in pixels.
	spriteWidth = 8
)

// Framebuffer is a read-only snapshot of the display contents, indexed as
// [y][x] with true meaning the pixel is lit.
type Framebuffer [DisplayHeight][DisplayWidth]bool

// Display is the monochrome 64x32 pixel buffer. It is mutated only by the
// draw instruction via XOR composition and by the clear screen instruction.
// Pixel coordinates wrap around both axes.
type Display struct {
	pixels Framebuffer
}

// Clear sets every pixel to off.
func (d *Display) Clear() {
	d.pixels = Framebuffer{}
}

// DrawSprite XORs the given sprite rows onto the buffer at the given
// coordinates, wrapping modulo the display dimensions. It reports whether
// any pixel was flipped from on to off, the collision condition that feeds
// the VF register.
func (d *Display) DrawSprite(x, y uint8, sprite []byte) bool {
	collision := false
	for row, bits := range sprite {
		py := (int(y) + row) % DisplayHeight
		for col := 0; col < spriteWidth; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % DisplayWidth
			d.pixels[py][px] = !d.pixels[py][px]
			if !d.pixels[py][px] {
				collision = true
			}
		}
	}
	return collision
}

// Pixel reports whether the pixel at the given coordinates is lit.
// Coordinates wrap modulo the display dimensions.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[y%DisplayHeight][x%DisplayWidth]
}
