package memory

import "github.com/halvard/dmgcore/dmgcore/bit"

// Key identifies one of the eight DMG buttons.
type Key uint8

const (
	Right Key = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Joypad tracks button/d-pad state and the P1 column select, and raises a
// Joypad interrupt on any high-to-low (released-to-pressed) transition of a
// bit in the currently selected column, matching the real hardware wiring.
type Joypad struct {
	buttons uint8 // low nibble: A,B,Select,Start; 1 = released
	dpad    uint8 // low nibble: Right,Left,Up,Down; 1 = released
	line    uint8 // P1 bits 4-5, selection

	InterruptHandler func()
}

func NewJoypad() *Joypad {
	return &Joypad{buttons: 0x0F, dpad: 0x0F}
}

// Read returns the full P1 register value: bits 6-7 fixed high, bits 4-5 the
// stored selection, and bits 0-3 the selected button group (ANDed together
// if both groups are selected, 0x0F if neither is).
func (j *Joypad) Read() uint8 {
	result := uint8(0xC0) | (j.line & 0x30)

	selectDpad := !bit.IsSet(4, j.line)
	selectButtons := !bit.IsSet(5, j.line)

	switch {
	case selectDpad && selectButtons:
		result |= j.buttons & j.dpad & 0x0F
	case selectDpad:
		result |= j.dpad & 0x0F
	case selectButtons:
		result |= j.buttons & 0x0F
	default:
		result |= 0x0F
	}
	return result
}

// Write stores the selection bits (4-5); the button state bits are
// read-only from the CPU's perspective.
func (j *Joypad) Write(value uint8) {
	j.line = value & 0x30
}

func (j *Joypad) Press(key Key) {
	before := j.Read() & 0x0F
	j.setBit(key, false)
	after := j.Read() & 0x0F
	if before&^after != 0 && j.InterruptHandler != nil {
		j.InterruptHandler()
	}
}

func (j *Joypad) Release(key Key) {
	j.setBit(key, true)
}

func (j *Joypad) setBit(key Key, released bool) {
	var group *uint8
	var idx uint8
	switch key {
	case Right:
		group, idx = &j.dpad, 0
	case Left:
		group, idx = &j.dpad, 1
	case Up:
		group, idx = &j.dpad, 2
	case Down:
		group, idx = &j.dpad, 3
	case A:
		group, idx = &j.buttons, 0
	case B:
		group, idx = &j.buttons, 1
	case Select:
		group, idx = &j.buttons, 2
	case Start:
		group, idx = &j.buttons, 3
	}
	if released {
		*group = bit.Set(idx, *group)
	} else {
		*group = bit.Reset(idx, *group)
	}
}
