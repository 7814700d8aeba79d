// Package video implements the DMG picture processing unit: the four-mode
// scanline state machine, background/window/sprite rendering, and the
// framebuffer it produces once per frame.
package video

import (
	"github.com/halvard/dmgcore/dmgcore/addr"
	"github.com/halvard/dmgcore/dmgcore/bit"
	"github.com/halvard/dmgcore/dmgcore/interrupt"
)

// Mode is the PPU's current rendering stage, matching STAT bits 1-0.
type Mode int

const (
	HBlank Mode = 0
	VBlank Mode = 1
	OAMScan Mode = 2
	Transfer Mode = 3
)

const (
	oamScanCycles  = 80
	transferCycles = 172
	hblankCycles   = 204
	scanlineCycles = oamScanCycles + transferCycles + hblankCycles // 456
	framesLines    = 154
	vblankLines    = 10
)

// Bus is the memory-side dependency the PPU needs.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// PPU is the DMG picture processing unit.
type PPU struct {
	bus Bus
	ic  *interrupt.Controller

	framebuffer *FrameBuffer
	bgPriority  []byte // per-pixel BG/window color index, for sprite priority
	oam         *OAM
	windowLine  int

	mode          Mode
	line          int
	cycles        int
	drawnLine     bool
	lcdWasEnabled bool
}

// New returns a PPU wired to bus for VRAM/OAM/register access and ic for
// raising VBlank/LCDStat interrupts.
func New(bus Bus, ic *interrupt.Controller) *PPU {
	return &PPU{
		bus:           bus,
		ic:            ic,
		framebuffer:   NewFrameBuffer(),
		bgPriority:    make([]byte, FramebufferSize),
		oam:           NewOAM(bus),
		mode:          OAMScan,
		lcdWasEnabled: true,
	}
}

// FrameBuffer returns the current (possibly partially-drawn) frame.
func (p *PPU) FrameBuffer() *FrameBuffer { return p.framebuffer }

// Tick advances the PPU state machine by cycles T-cycles.
func (p *PPU) Tick(cycles int) {
	if p.readLCDC(lcdEnable) == 0 {
		if p.lcdWasEnabled {
			p.resetForLCDDisable()
		}
		p.lcdWasEnabled = false
		return
	}
	p.lcdWasEnabled = true

	p.cycles += cycles

	mode, line := p.mode, p.line
	switch p.mode {
	case OAMScan:
		if p.cycles >= oamScanCycles {
			p.cycles -= oamScanCycles
			p.setMode(Transfer)
			p.drawnLine = false
		}
	case Transfer:
		if !p.drawnLine {
			p.drawScanline()
			p.drawnLine = true
		}
		if p.cycles >= transferCycles {
			p.cycles -= transferCycles
			p.setMode(HBlank)
			if p.statIRQEnabled(statHBlankIRQ) {
				p.ic.Request(interrupt.LCDStat)
			}
		}
	case HBlank:
		if p.cycles >= hblankCycles {
			p.cycles -= hblankCycles
			p.setLY(p.line + 1)

			if p.line == 144 {
				p.setMode(VBlank)
				p.windowLine = 0
				p.ic.Request(interrupt.VBlank)
				if p.statIRQEnabled(statVBlankIRQ) {
					p.ic.Request(interrupt.LCDStat)
				}
			} else {
				p.setMode(OAMScan)
				if p.statIRQEnabled(statOAMIRQ) {
					p.ic.Request(interrupt.LCDStat)
				}
			}
		}
	case VBlank:
		if p.cycles >= scanlineCycles {
			p.cycles -= scanlineCycles
			if p.line == framesLines-1 {
				p.setLY(0)
				p.setMode(OAMScan)
				if p.statIRQEnabled(statOAMIRQ) {
					p.ic.Request(interrupt.LCDStat)
				}
			} else {
				p.setLY(p.line + 1)
			}
		}
	}

	// a large step can cover more than one mode transition
	if p.mode != mode || p.line != line {
		p.Tick(0)
	}
}

func (p *PPU) drawScanline() {
	p.drawBackground()
	p.drawWindow()
	p.drawSprites()
}

// --- background ------------------------------------------------------------

func (p *PPU) drawBackground() {
	row := p.line * FramebufferWidth

	if p.readLCDC(bgEnable) == 0 {
		color := p.paletteColor(addr.BGP, 0)
		for x := 0; x < FramebufferWidth; x++ {
			p.framebuffer.buffer[row+x] = uint32(color)
			p.bgPriority[row+x] = 0
		}
		return
	}

	tileData, signedTiles := p.tileDataArea(bgWindowTileData)
	tileMap := p.tileMapArea(bgTileMap)

	scx := p.bus.Read(addr.SCX)
	scy := p.bus.Read(addr.SCY)
	wrappedY := (p.line + int(scy)) & 0xFF
	tileRow := wrappedY / 8
	pixelY := wrappedY % 8

	for x := 0; x < FramebufferWidth; x++ {
		wrappedX := (x + int(scx)) & 0xFF
		tileCol := wrappedX / 8
		pixelX := wrappedX % 8

		tileIndex := p.bus.Read(tileMap + uint16(tileRow*32+tileCol))
		tile := p.fetchTileRow(tileData, tileIndex, signedTiles, pixelY)

		colorIdx := uint8(tile.GetPixel(pixelX))
		p.framebuffer.buffer[row+x] = uint32(p.paletteColor(addr.BGP, colorIdx))
		p.bgPriority[row+x] = colorIdx
	}
}

// --- window ------------------------------------------------------------

func (p *PPU) drawWindow() {
	if p.readLCDC(windowEnable) == 0 || p.windowLine > 143 {
		return
	}

	wy := p.bus.Read(addr.WY)
	if int(wy) > p.line {
		return
	}
	wx := int(p.bus.Read(addr.WX)) - 7
	if wx >= FramebufferWidth {
		return
	}

	tileData, signedTiles := p.tileDataArea(bgWindowTileData)
	tileMap := p.tileMapArea(windowTileMap)

	tileRow := p.windowLine / 8
	pixelY := p.windowLine % 8
	row := p.line * FramebufferWidth

	for tileCol := 0; tileCol < 32; tileCol++ {
		tileIndex := p.bus.Read(tileMap + uint16(tileRow*32+tileCol))
		tile := p.fetchTileRow(tileData, tileIndex, signedTiles, pixelY)

		for pixelX := 0; pixelX < 8; pixelX++ {
			screenX := wx + tileCol*8 + pixelX
			if screenX < 0 || screenX >= FramebufferWidth {
				continue
			}
			colorIdx := uint8(tile.GetPixel(pixelX))
			p.framebuffer.buffer[row+screenX] = uint32(p.paletteColor(addr.BGP, colorIdx))
			p.bgPriority[row+screenX] = colorIdx
		}
	}

	p.windowLine++
}

// --- sprites ------------------------------------------------------------

func (p *PPU) drawSprites() {
	if p.readLCDC(objEnable) == 0 {
		return
	}

	sprites := p.oam.GetSpritesForScanline(p.line)
	row := p.line * FramebufferWidth

	for i := range sprites {
		s := &sprites[i]
		if !s.HasPriorityForAnyPixel() {
			continue
		}

		tileIndex := s.TileIndex
		if s.Height == 16 {
			tileIndex &= 0xFE
		}

		pixelY := p.line - int(s.Y)
		if s.FlipY {
			pixelY = s.Height - 1 - pixelY
		}
		tileOffset := 0
		if pixelY >= 8 {
			tileOffset = 1
			pixelY -= 8
		}

		tile := FetchTile(p.bus, addr.TileData0+uint16(int(tileIndex)+tileOffset)*16)
		tileRow := tile.Rows[pixelY]

		paletteAddr := addr.OBP0
		if s.PaletteOBP1 {
			paletteAddr = addr.OBP1
		}

		for pixelX := 0; pixelX < 8; pixelX++ {
			if !s.HasPriorityForPixel(pixelX) {
				continue
			}
			screenX := int(s.X) + pixelX
			if screenX < 0 || screenX >= FramebufferWidth {
				continue
			}

			var colorIdx int
			if s.FlipX {
				colorIdx = tileRow.GetPixelFlipped(pixelX)
			} else {
				colorIdx = tileRow.GetPixel(pixelX)
			}
			if colorIdx == 0 {
				continue // transparent
			}

			position := row + screenX
			if s.BehindBG && p.bgPriority[position] != 0 {
				continue
			}

			p.framebuffer.buffer[position] = uint32(p.paletteColor(paletteAddr, uint8(colorIdx)))
		}
	}
}

func (p *PPU) fetchTileRow(base uint16, tileIndex uint8, signed bool, pixelY int) TileRow {
	var addrOffset uint16
	if signed {
		addrOffset = uint16(int16(int8(tileIndex)) * 16)
	} else {
		addrOffset = uint16(tileIndex) * 16
	}
	rowAddr := base + addrOffset + uint16(pixelY*2)
	return TileRow{Low: p.bus.Read(rowAddr), High: p.bus.Read(rowAddr + 1)}
}

func (p *PPU) paletteColor(paletteAddr uint16, colorIdx uint8) GBColor {
	palette := p.bus.Read(paletteAddr)
	shade := (palette >> (colorIdx * 2)) & 0x03
	return ByteToColor(shade)
}

// --- registers ------------------------------------------------------------

type lcdcBit uint8

const (
	lcdEnable         lcdcBit = 7
	windowTileMap     lcdcBit = 6
	windowEnable      lcdcBit = 5
	bgWindowTileData  lcdcBit = 4
	bgTileMap         lcdcBit = 3
	objSize           lcdcBit = 2
	objEnable         lcdcBit = 1
	bgEnable          lcdcBit = 0
)

func (p *PPU) readLCDC(b lcdcBit) uint8 {
	if bit.IsSet(uint8(b), p.bus.Read(addr.LCDC)) {
		return 1
	}
	return 0
}

func (p *PPU) tileDataArea(b lcdcBit) (base uint16, signed bool) {
	if p.readLCDC(b) == 0 {
		return addr.TileData2, true
	}
	return addr.TileData0, false
}

func (p *PPU) tileMapArea(b lcdcBit) uint16 {
	if p.readLCDC(b) == 0 {
		return addr.TileMap0
	}
	return addr.TileMap1
}

type statBit uint8

const (
	statLYCIRQ    statBit = 6
	statOAMIRQ    statBit = 5
	statVBlankIRQ statBit = 4
	statHBlankIRQ statBit = 3
	statLYCEqual  statBit = 2
)

func (p *PPU) statIRQEnabled(b statBit) bool {
	return bit.IsSet(uint8(b), p.bus.Read(addr.STAT))
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
	stat := p.bus.Read(addr.STAT)
	stat = (stat &^ 0x03) | uint8(m)
	p.bus.Write(addr.STAT, stat)
}

// resetForLCDDisable implements the LCDC bit 7 1->0 edge: LY, mode and the
// dot counter all reset immediately rather than freezing at whatever
// scanline the LCD happened to be on.
func (p *PPU) resetForLCDDisable() {
	p.line = 0
	p.cycles = 0
	p.drawnLine = false
	p.setMode(HBlank)
	p.bus.Write(addr.LY, 0)
}

func (p *PPU) setLY(line int) {
	p.line = line
	p.bus.Write(addr.LY, uint8(p.line))
	p.compareLYToLYC()
}

func (p *PPU) compareLYToLYC() {
	ly := p.bus.Read(addr.LY)
	lyc := p.bus.Read(addr.LYC)
	stat := p.bus.Read(addr.STAT)

	if ly == lyc {
		stat = bit.Set(uint8(statLYCEqual), stat)
		if bit.IsSet(uint8(statLYCIRQ), stat) {
			p.ic.Request(interrupt.LCDStat)
		}
	} else {
		stat = bit.Reset(uint8(statLYCEqual), stat)
	}
	p.bus.Write(addr.STAT, stat)
}
