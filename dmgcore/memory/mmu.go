// Package memory implements the DMG's 16-bit address space: region
// dispatch, the cartridge/MBC boundary, the timer and joypad registers, and
// OAM DMA.
package memory

import (
	"log/slog"

	"github.com/halvard/dmgcore/dmgcore/addr"
	"github.com/halvard/dmgcore/dmgcore/faults"
	"github.com/halvard/dmgcore/dmgcore/interrupt"
)

type region uint8

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionUnusable
	regionIO
	regionHRAM
)

// MMU dispatches every CPU-visible memory access to the right backing
// store: cartridge ROM/RAM through the MBC, VRAM/WRAM/OAM/HRAM as flat
// arrays, and the memory-mapped I/O registers to their owning components.
type MMU struct {
	cart *Cartridge
	mbc  MBC

	vram [0x2000]byte
	wram [0x2000]byte
	oam  [0xA0]byte
	hram [0x7F]byte
	io   [0x80]byte

	regionOf [256]region

	Timer   Timer
	Joypad  *Joypad
	ic      *interrupt.Controller
	bootROM bool
}

// New returns an MMU with no cartridge loaded (reads from ROM/external RAM
// return 0xFF).
func New(ic *interrupt.Controller) *MMU {
	m := &MMU{
		Joypad: NewJoypad(),
		ic:     ic,
	}
	m.Joypad.InterruptHandler = func() { ic.Request(interrupt.Joypad) }
	m.Timer.TimerInterruptHandler = func() { ic.Request(interrupt.Timer) }
	initRegionMap(&m.regionOf)
	return m
}

// NewWithCartridge returns an MMU with cart loaded and its MBC constructed
// from the cartridge header.
func NewWithCartridge(ic *interrupt.Controller, cart *Cartridge) *MMU {
	m := New(ic)
	m.cart = cart
	m.mbc = NewMBC(cart)
	return m
}

func initRegionMap(table *[256]region) {
	for i := 0x00; i <= 0x7F; i++ {
		table[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		table[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		table[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		table[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		table[i] = regionEcho
	}
	table[0xFE] = regionOAM // further split between OAM and unusable in Read/Write
	table[0xFF] = regionIO  // further split between IO and HRAM in Read/Write
}

// Tick advances the timer by the given number of T-cycles.
func (m *MMU) Tick(cycles int) {
	m.Timer.Tick(cycles)
}

// Read returns the byte at address, dispatching by region.
func (m *MMU) Read(address uint16) uint8 {
	switch m.regionOf[address>>8] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			return 0xFF
		}
		return m.mbc.Read(address)
	case regionVRAM:
		return m.vram[address-0x8000]
	case regionWRAM:
		return m.wram[address-0xC000]
	case regionEcho:
		faults.Raise(faults.ProhibitedRegion, address, 0, "echo RAM (0xE000-0xFDFF) is not a valid CPU access target")
		return 0xFF
	case regionOAM:
		if address <= 0xFE9F {
			return m.oam[address-0xFE00]
		}
		return 0xFF // 0xFEA0-0xFEFF: unusable
	case regionIO:
		return m.readIO(address)
	default:
		faults.Raise(faults.OutOfRange, address, 0, "read from unmapped address")
		return 0xFF
	}
}

// Write stores value at address, dispatching by region.
func (m *MMU) Write(address uint16, value uint8) {
	switch m.regionOf[address>>8] {
	case regionROM:
		if m.mbc != nil {
			m.mbc.Write(address, value)
		}
	case regionExtRAM:
		if m.mbc != nil {
			m.mbc.Write(address, value)
		}
	case regionVRAM:
		m.vram[address-0x8000] = value
	case regionWRAM:
		m.wram[address-0xC000] = value
	case regionEcho:
		faults.Raise(faults.ProhibitedRegion, address, 0, "echo RAM (0xE000-0xFDFF) is not a valid CPU access target")
	case regionOAM:
		if address <= 0xFE9F {
			m.oam[address-0xFE00] = value
		}
		// 0xFEA0-0xFEFF: unusable, write discarded
	case regionIO:
		m.writeIO(address, value)
	default:
		faults.Raise(faults.OutOfRange, address, 0, "write to unmapped address")
	}
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return m.Joypad.Read()
	case address == addr.DIV, address == addr.TIMA, address == addr.TMA, address == addr.TAC:
		return m.Timer.Read(address)
	case address == addr.IF:
		return m.ic.ReadIF()
	case address == addr.IE:
		return m.ic.ReadIE()
	case address == addr.BootROMLock:
		if m.bootROM {
			return 0x00
		}
		return 0x01
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		return m.hram[address-addr.HRAMStart]
	default:
		return m.io[address&0x7F]
	}
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		m.Joypad.Write(value)
	case address == addr.DIV, address == addr.TIMA, address == addr.TMA, address == addr.TAC:
		m.Timer.Write(address, value)
	case address == addr.IF:
		m.ic.WriteIF(value)
	case address == addr.IE:
		m.ic.WriteIE(value)
	case address == addr.DMA:
		m.runOAMDMA(value)
	case address == addr.BootROMLock:
		if value != 0 {
			m.bootROM = true
		}
	case address >= addr.HRAMStart && address <= addr.HRAMEnd:
		m.hram[address-addr.HRAMStart] = value
	default:
		m.io[address&0x7F] = value
	}
}

// runOAMDMA copies 160 bytes from sourceHigh<<8 into OAM. On real hardware
// this takes 160 M-cycles during which the CPU can only access HRAM; that
// timing restriction isn't modeled here, only the data transfer.
func (m *MMU) runOAMDMA(sourceHigh uint8) {
	base := uint16(sourceHigh) << 8
	for i := uint16(0); i < 0xA0; i++ {
		m.oam[i] = m.Read(base + i)
	}
	slog.Debug("OAM DMA transfer", "source", base)
}
