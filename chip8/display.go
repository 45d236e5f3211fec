package chip8

const (
	/// Width of the display in pixels.
	///
	Width = 64

	/// Height of the display in pixels.
	///
	Height = 32
)

/// Frame is a snapshot of the display. Each pixel is 0 or 1, indexed
/// by row then column.
///
type Frame [Height][Width]byte

/// Display is the monochrome 64x32 screen. Sprites are XOR'ed onto
/// it one byte (8 pixels) at a time.
///
type Display struct {
	pixels Frame
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.pixels = Frame{}
}

/// DrawByte XORs the 8 bits of b, MSB first, onto row y starting at
/// column x. Both coordinates wrap, but the row is clipped at the
/// right edge of the screen. Returns true if any pixel was turned off.
///
func (d *Display) DrawByte(b byte, x, y int) bool {
	x = wrap(x, Width)
	y = wrap(y, Height)

	collision := false

	for bit := 0; bit < 8 && x+bit < Width; bit++ {
		if b&(0x80>>uint(bit)) == 0 {
			continue
		}

		p := &d.pixels[y][x+bit]

		// turning a pixel off is a collision
		if *p == 1 {
			collision = true
		}

		*p ^= 1
	}

	return collision
}

/// Pixel returns the value (0 or 1) at column x of row y. Coordinates
/// wrap.
///
func (d *Display) Pixel(x, y int) byte {
	return d.pixels[wrap(y, Height)][wrap(x, Width)]
}

// Frame returns a copy of the screen.
func (d *Display) Frame() Frame {
	return d.pixels
}

func wrap(n, size int) int {
	n %= size
	if n < 0 {
		n += size
	}

	return n
}
