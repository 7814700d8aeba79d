package render

import "github.com/halvard/dmgcore/dmgcore/timing"

// LimiterSetter is implemented by both front ends: it lets the caller swap
// the default adaptive frame-pacing strategy for a simpler one.
type LimiterSetter interface {
	SetLimiter(timing.Limiter)
}

func (t *TerminalRenderer) SetLimiter(l timing.Limiter) { t.limiter = l }

// SelectLimiter maps a CLI-friendly name to a timing.Limiter strategy.
// Unrecognized names fall back to the adaptive limiter.
func SelectLimiter(name string) timing.Limiter {
	switch name {
	case "ticker":
		return timing.NewTickerLimiter()
	case "none":
		return timing.NewNoOpLimiter()
	default:
		return timing.NewAdaptiveLimiter()
	}
}
