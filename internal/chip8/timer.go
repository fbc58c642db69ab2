package chip8

// Timers holds the delay and sound countdown timers. Both are decremented
// once per Tick while nonzero and held at zero otherwise. The tick cadence
// (60 Hz) is driven by the caller, decoupled from the CPU step rate.
type Timers struct {
	delay uint8
	sound uint8
}

// Tick decrements both timers by one if they are nonzero.
func (t *Timers) Tick() {
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
	}
}

// Delay returns the current delay timer value.
func (t *Timers) Delay() uint8 {
	return t.delay
}

// SetDelay sets the delay timer.
func (t *Timers) SetDelay(value uint8) {
	t.delay = value
}

// SetSound sets the sound timer.
func (t *Timers) SetSound(value uint8) {
	t.sound = value
}

// SoundActive reports whether the sound timer is running, meaning a tone
// should be audible.
func (t *Timers) SoundActive() bool {
	return t.sound > 0
}
