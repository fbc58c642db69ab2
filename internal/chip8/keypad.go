package chip8

// NumKeys is the number of keys on the CHIP-8 hex keypad.
const NumKeys = 16

// Keypad is the 16-key input latch. It is written by the shell between
// cycles and read by the skip and wait-for-key instructions. Writes are
// last-write-wins per key; programs poll rather than edge-trigger.
type Keypad struct {
	pressed [NumKeys]bool
}

// Set latches the pressed state of a key. Only the low nibble of the key
// index is significant.
func (k *Keypad) Set(key uint8, pressed bool) {
	k.pressed[key&0x0F] = pressed
}

// Pressed reports whether a key is currently down. Only the low nibble of
// the key index is significant.
func (k *Keypad) Pressed(key uint8) bool {
	return k.pressed[key&0x0F]
}

// FirstPressed returns the lowest-numbered key that is currently down.
func (k *Keypad) FirstPressed() (uint8, bool) {
	for key := uint8(0); key < NumKeys; key++ {
		if k.pressed[key] {
			return key, true
		}
	}
	return 0, false
}
