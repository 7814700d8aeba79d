// Package render implements host-facing presentation: a tcell-based
// terminal renderer (and, behind a build tag, an SDL2 window) plus the
// pixel-to-glyph conversion helpers they share.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/halvard/dmgcore/dmgcore"
	"github.com/halvard/dmgcore/dmgcore/input"
	"github.com/halvard/dmgcore/dmgcore/timing"
	"github.com/halvard/dmgcore/dmgcore/video"
)

var arrowKeys = map[tcell.Key]input.Key{
	tcell.KeyUp:    input.Up,
	tcell.KeyDown:  input.Down,
	tcell.KeyLeft:  input.Left,
	tcell.KeyRight: input.Right,
}

// TerminalRenderer drives an Emulator from a tcell screen: it pumps frames
// paced by its timing.Limiter (adaptive by default) and turns keyboard events
// into joypad presses.
type TerminalRenderer struct {
	screen   tcell.Screen
	emulator *dmgcore.Emulator
	limiter  timing.Limiter
	running  bool
}

func NewTerminalRenderer(emu *dmgcore.Emulator) (*TerminalRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	return &TerminalRenderer{
		screen:   screen,
		emulator: emu,
		limiter:  timing.NewAdaptiveLimiter(),
		running:  true,
	}, nil
}

func (t *TerminalRenderer) Run() error {
	defer func() {
		slog.Info("finishing terminal")
		t.screen.Fini()
	}()

	t.screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleInput()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		t.running = false
		slog.Info("received signal to stop")
	}()

	for t.running {
		t.limiter.WaitForNextFrame()
		t.emulator.RunUntilFrame()
		t.render()
		t.screen.Show()
	}

	return nil
}

func (t *TerminalRenderer) handleInput() {
	for t.running {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.handleKey(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *TerminalRenderer) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape {
		t.running = false
		return
	}

	if key, ok := arrowKeys[ev.Key()]; ok {
		t.emulator.HandlePress(key)
		return
	}

	if key, ok := input.FromRune(ev.Rune()); ok {
		t.emulator.HandlePress(key)
	}
}

// render converts the current frame to half-block glyphs (two pixel rows
// per terminal row) and draws it onto the screen.
func (t *TerminalRenderer) render() {
	fb := t.emulator.GetCurrentFrame()
	lines := RenderFrameToHalfBlocks(fb.ToSlice(), video.FramebufferWidth, video.FramebufferHeight)

	t.screen.Clear()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y, line := range lines {
		for x, r := range line {
			t.screen.SetContent(x, y, r, nil, style)
		}
	}
}
