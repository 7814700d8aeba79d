//go:build !sdl2

package render

import "github.com/halvard/dmgcore/dmgcore"

// Runner is implemented by both front ends: it owns the frame-pump loop and
// blocks until the user quits.
type Runner interface {
	Run() error
}

// NewRenderer builds the terminal front end, the default when the sdl2 build
// tag isn't set (no SDL2 development libraries required).
func NewRenderer(emu *dmgcore.Emulator) (Runner, error) {
	return NewTerminalRenderer(emu)
}
