package input

// Keyboard tracks held keys and the two virtual axes built on them.
type Keyboard struct {
	held       [numKeys]bool
	horizontal Axis
	vertical   Axis
}

// NewKeyboard uses the same axis settings for both axes.
func NewKeyboard(axis Axis) *Keyboard {
	return &Keyboard{horizontal: axis, vertical: axis}
}

func (k *Keyboard) Press(key Key) {
	if key >= 0 && key < numKeys {
		k.held[key] = true
	}
}

func (k *Keyboard) Release(key Key) {
	if key >= 0 && key < numKeys {
		k.held[key] = false
	}
}

// Set replaces the held set with keys.
func (k *Keyboard) Set(keys []Key) {
	k.held = [numKeys]bool{}
	for _, key := range keys {
		k.Press(key)
	}
}

func (k *Keyboard) Held(key Key) bool {
	return key >= 0 && key < numKeys && k.held[key]
}

// Update advances both axes by one frame and returns the resulting
// snapshot.
func (k *Keyboard) Update(dt float64) Snapshot {
	k.horizontal.Update(dt, k.held[Right], k.held[Left])
	k.vertical.Update(dt, k.held[Up], k.held[Down])
	return k.Snapshot()
}

// Snapshot reads the current state without advancing the axes.
func (k *Keyboard) Snapshot() Snapshot {
	return Snapshot{
		Horizontal: k.horizontal.Value(),
		Vertical:   k.vertical.Value(),
		Space:      k.held[Space],
		Up:         k.held[Up],
		Down:       k.held[Down],
	}
}

func (k *Keyboard) Reset() {
	k.held = [numKeys]bool{}
	k.horizontal.Reset()
	k.vertical.Reset()
}
