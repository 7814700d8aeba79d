//go:build sdl2

package render

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/halvard/dmgcore/dmgcore"
	"github.com/halvard/dmgcore/dmgcore/input"
	"github.com/halvard/dmgcore/dmgcore/timing"
	"github.com/halvard/dmgcore/dmgcore/video"
)

const (
	pixelScale       = 4
	bytesPerPixel    = 4
	windowWidth      = video.FramebufferWidth * pixelScale
	windowHeight     = video.FramebufferHeight * pixelScale
)

var sdlKeyMapping = map[sdl.Keycode]input.Key{
	sdl.K_UP:     input.Up,
	sdl.K_DOWN:   input.Down,
	sdl.K_LEFT:   input.Left,
	sdl.K_RIGHT:  input.Right,
	sdl.K_z:      input.A,
	sdl.K_x:      input.B,
	sdl.K_RETURN: input.Start,
	sdl.K_RSHIFT: input.Select,
	sdl.K_LSHIFT: input.Select,
}

// SDLRenderer drives an Emulator through an accelerated SDL2 window, scaling
// the 160x144 framebuffer up by pixelScale and streaming it to a texture
// every frame. Building it requires the sdl2 build tag and the SDL2
// development libraries; the terminal renderer is the default front end.
type SDLRenderer struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	emulator *dmgcore.Emulator
	limiter  timing.Limiter
	pixels   []byte
	running  bool
}

func NewSDLRenderer(emu *dmgcore.Emulator) (*SDLRenderer, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow("dmgcore", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		windowWidth, windowHeight, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth, video.FramebufferHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create texture: %w", err)
	}

	return &SDLRenderer{
		window:   window,
		renderer: renderer,
		texture:  texture,
		emulator: emu,
		limiter:  timing.NewAdaptiveLimiter(),
		pixels:   make([]byte, video.FramebufferWidth*video.FramebufferHeight*bytesPerPixel),
		running:  true,
	}, nil
}

// SetLimiter swaps the renderer's frame-pacing strategy, satisfying
// render.LimiterSetter.
func (s *SDLRenderer) SetLimiter(l timing.Limiter) { s.limiter = l }

func (s *SDLRenderer) Run() error {
	defer s.close()

	for s.running {
		s.handleEvents()
		s.limiter.WaitForNextFrame()
		s.emulator.RunUntilFrame()
		s.render()
	}
	return nil
}

func (s *SDLRenderer) close() {
	slog.Info("closing SDL2 window")
	s.texture.Destroy()
	s.renderer.Destroy()
	s.window.Destroy()
	sdl.Quit()
}

func (s *SDLRenderer) handleEvents() {
	for {
		event := sdl.PollEvent()
		if event == nil {
			return
		}
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.running = false
		case *sdl.KeyboardEvent:
			s.handleKey(e)
		}
	}
}

func (s *SDLRenderer) handleKey(e *sdl.KeyboardEvent) {
	if e.Keysym.Sym == sdl.K_ESCAPE {
		s.running = false
		return
	}

	key, ok := sdlKeyMapping[e.Keysym.Sym]
	if !ok {
		return
	}

	switch e.Type {
	case sdl.KEYDOWN:
		s.emulator.HandlePress(key)
	case sdl.KEYUP:
		s.emulator.HandleRelease(key)
	}
}

func (s *SDLRenderer) render() {
	frame := s.emulator.GetCurrentFrame().ToSlice()

	for i, gbPixel := range frame {
		r, g, b, a := gbColorToRGBA(gbPixel)
		dst := i * bytesPerPixel
		// ABGR byte order, matching SDL's little-endian RGBA8888 layout.
		s.pixels[dst] = a
		s.pixels[dst+1] = b
		s.pixels[dst+2] = g
		s.pixels[dst+3] = r
	}

	s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*bytesPerPixel)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

func gbColorToRGBA(gbColor uint32) (r, g, b, a uint8) {
	switch video.GBColor(gbColor) {
	case video.WhiteColor:
		return 0xFF, 0xFF, 0xFF, 0xFF
	case video.LightGreyColor:
		return 0x98, 0x98, 0x98, 0xFF
	case video.DarkGreyColor:
		return 0x4C, 0x4C, 0x4C, 0xFF
	default:
		return 0x00, 0x00, 0x00, 0xFF
	}
}
