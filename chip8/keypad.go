package chip8

/// Keypad holds the state of the 16 hex keys as last reported by the
/// host, and whether the machine is blocked waiting for one.
///
type Keypad struct {
	keys    [16]bool
	waiting bool
}

// SetKeys replaces the key snapshot.
func (k *Keypad) SetKeys(keys [16]bool) {
	k.keys = keys
}

// IsPressed is true if key is down. Keys past F are never pressed.
func (k *Keypad) IsPressed(key byte) bool {
	return key < 16 && k.keys[key]
}

/// NextKey returns the lowest numbered key that is down, if any.
///
func (k *Keypad) NextKey() (byte, bool) {
	for i, down := range k.keys {
		if down {
			return byte(i), true
		}
	}

	return 0, false
}

// Keys returns the current snapshot.
func (k *Keypad) Keys() [16]bool {
	return k.keys
}

// Waiting is true while a LD Vx, K instruction is blocked.
func (k *Keypad) Waiting() bool {
	return k.waiting
}
