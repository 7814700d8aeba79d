//go:build sdl2

package render

import "github.com/halvard/dmgcore/dmgcore"

// Runner is implemented by both front ends: it owns the frame-pump loop and
// blocks until the user quits.
type Runner interface {
	Run() error
}

// NewRenderer builds the SDL2 front end. Present only in sdl2-tagged builds.
func NewRenderer(emu *dmgcore.Emulator) (Runner, error) {
	return NewSDLRenderer(emu)
}
