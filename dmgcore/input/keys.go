// Package input maps host keyboard events onto the eight Game Boy buttons.
package input

import "github.com/halvard/dmgcore/dmgcore/memory"

// Key identifies a Game Boy button from the host's perspective. It mirrors
// memory.Key one-to-one; keeping it a distinct type lets renderers depend on
// input without pulling in the memory package's wider surface.
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

// ToDomain converts a Key to the memory package's Joypad button enum.
func (k Key) ToDomain() memory.Key {
	return memory.Key(k)
}

// FromRune maps character keys onto a Key: Z/X to A/B and A/S to
// Select/Start. Direction buttons are not mapped here. ok is false if r isn't
// bound to any button.
func FromRune(r rune) (key Key, ok bool) {
	switch r {
	case 'z', 'Z':
		return A, true
	case 'x', 'X':
		return B, true
	case 'a', 'A':
		return Select, true
	case 's', 'S':
		return Start, true
	default:
		return 0, false
	}
}
