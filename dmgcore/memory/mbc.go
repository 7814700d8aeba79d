package memory

import "github.com/halvard/dmgcore/dmgcore/faults"

// MBC is a cartridge memory bank controller: it owns ROM bank switching and
// any external/battery-backed RAM, and is consulted for every access in the
// 0x0000-0x7FFF and 0xA000-0xBFFF ranges.
type MBC interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// NewMBC picks and constructs the MBC matching a cartridge's header type.
func NewMBC(cart *Cartridge) MBC {
	ramSize := cart.RAMBanks * 0x2000

	switch cart.Type {
	case ROMOnly:
		return NewNoMBC(cart.data)
	case MBC1Type, MBC1RAM, MBC1RAMBattery:
		return NewMBC1(cart.data, ramSize)
	case MBC2Type, MBC2Battery:
		return NewMBC2(cart.data)
	case MBC3RTCBattery, MBC3RTCRAMBattery, MBC3Type, MBC3RAM, MBC3RAMBattery:
		hasRTC := cart.Type == MBC3RTCBattery || cart.Type == MBC3RTCRAMBattery
		return NewMBC3(cart.data, ramSize, hasRTC)
	case MBC5Type, MBC5RAM, MBC5RAMBattery, MBC5Rumble, MBC5RumbleRAM, MBC5RumbleRAMBatt:
		return NewMBC5(cart.data, ramSize)
	default:
		faults.Raise(faults.UnimplementedMbc, 0, 0, "unsupported cartridge type byte")
		return nil
	}
}

// NoMBC: ROM fully and statically mapped to 0x0000-0x7FFF, no banking, no RAM.
type NoMBC struct {
	rom []byte
}

func NewNoMBC(rom []byte) *NoMBC { return &NoMBC{rom: rom} }

func (m *NoMBC) Read(address uint16) uint8 {
	if int(address) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[address]
}

func (m *NoMBC) Write(address uint16, value uint8) {}

// MBC1: 5-bit switchable ROM bank plus a 2-bit secondary register that is
// either the upper ROM bank bits (mode 0) or the RAM bank number (mode 1).
type MBC1 struct {
	rom         []byte
	ram         []byte
	romBank     uint8
	secondary   uint8
	bankingMode uint8
	ramEnabled  bool
}

func NewMBC1(rom []byte, ramSize int) *MBC1 {
	return &MBC1{rom: rom, ram: make([]byte, ramSize), romBank: 1}
}

func (m *MBC1) effectiveROMBank() uint32 {
	bank := m.romBank
	if bank == 0 {
		bank = 1
	}
	if m.bankingMode == 0 {
		bank |= m.secondary << 5
	}
	return uint32(bank)
}

func (m *MBC1) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		bank := uint32(0)
		if m.bankingMode == 1 {
			bank = uint32(m.secondary) << 5
		}
		offset := bank*0x4000 + uint32(address)
		return m.romAt(offset)
	case address <= 0x7FFF:
		offset := m.effectiveROMBank()*0x4000 + uint32(address-0x4000)
		return m.romAt(offset)
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		bank := uint32(0)
		if m.bankingMode == 1 {
			bank = uint32(m.secondary)
		}
		offset := (bank*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
		return m.ram[offset]
	default:
		return 0xFF
	}
}

func (m *MBC1) romAt(offset uint32) uint8 {
	if len(m.rom) == 0 {
		return 0xFF
	}
	return m.rom[offset%uint32(len(m.rom))]
}

func (m *MBC1) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case address <= 0x5FFF:
		m.secondary = value & 0x03
	case address <= 0x7FFF:
		m.bankingMode = value & 0x01
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		bank := uint32(0)
		if m.bankingMode == 1 {
			bank = uint32(m.secondary)
		}
		offset := (bank*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
		m.ram[offset] = value
	}
}

// MBC2: 4-bit ROM bank register and 512x4-bit built-in RAM; the low bit of
// the upper address byte distinguishes a RAM-enable write from a ROM-bank
// write in the 0x0000-0x3FFF range.
type MBC2 struct {
	rom        []byte
	ram        [512]byte
	romBank    uint8
	ramEnabled bool
}

func NewMBC2(rom []byte) *MBC2 {
	return &MBC2{rom: rom, romBank: 1}
}

func (m *MBC2) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.romAt(uint32(address))
	case address <= 0x7FFF:
		offset := uint32(m.romBank)*0x4000 + uint32(address-0x4000)
		return m.romAt(offset)
	case address >= 0xA000 && address <= 0xA1FF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[address-0xA000] | 0xF0
	default:
		return 0xFF
	}
}

func (m *MBC2) romAt(offset uint32) uint8 {
	if len(m.rom) == 0 {
		return 0xFF
	}
	return m.rom[offset%uint32(len(m.rom))]
}

func (m *MBC2) Write(address uint16, value uint8) {
	switch {
	case address <= 0x3FFF:
		if address&0x100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
		} else {
			bank := value & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = bank
		}
	case address >= 0xA000 && address <= 0xA1FF:
		if m.ramEnabled {
			m.ram[address-0xA000] = value & 0x0F
		}
	}
}

// MBC3: 7-bit ROM bank and a 2-bit RAM bank (or RTC register select
// 0x08-0x0C). The RTC registers are plain storage: they are not clocked, and
// a latch-clock-data write only records the value written.
type MBC3 struct {
	rom        []byte
	ram        []byte
	rtc        [5]uint8
	romBank    uint8
	ramOrRTC   uint8
	ramEnabled bool
	hasRTC     bool
	latchState uint8
}

func NewMBC3(rom []byte, ramSize int, hasRTC bool) *MBC3 {
	return &MBC3{rom: rom, ram: make([]byte, ramSize), romBank: 1, hasRTC: hasRTC}
}

func (m *MBC3) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.romAt(uint32(address))
	case address <= 0x7FFF:
		bank := m.romBank
		if bank == 0 {
			bank = 1
		}
		offset := uint32(bank)*0x4000 + uint32(address-0x4000)
		return m.romAt(offset)
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.hasRTC && m.ramOrRTC >= 0x08 && m.ramOrRTC <= 0x0C {
			return m.rtc[m.ramOrRTC-0x08]
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		offset := (uint32(m.ramOrRTC)*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
		return m.ram[offset]
	default:
		return 0xFF
	}
}

func (m *MBC3) romAt(offset uint32) uint8 {
	if len(m.rom) == 0 {
		return 0xFF
	}
	return m.rom[offset%uint32(len(m.rom))]
}

func (m *MBC3) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case address <= 0x5FFF:
		m.ramOrRTC = value
	case address <= 0x7FFF:
		if m.latchState == 0x00 && value == 0x01 {
			// latch-clock-data (0x00 then 0x01): the RTC registers are not
			// clocked, so there is nothing to snapshot.
		}
		m.latchState = value
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		if m.hasRTC && m.ramOrRTC >= 0x08 && m.ramOrRTC <= 0x0C {
			m.rtc[m.ramOrRTC-0x08] = value
			return
		}
		if len(m.ram) == 0 {
			return
		}
		offset := (uint32(m.ramOrRTC)*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
		m.ram[offset] = value
	}
}

// MBC5: the simplest of the banked controllers, with a full 9-bit ROM bank
// number and no banking-mode quirks.
type MBC5 struct {
	rom        []byte
	ram        []byte
	romBank    uint16
	ramBank    uint8
	ramEnabled bool
}

func NewMBC5(rom []byte, ramSize int) *MBC5 {
	return &MBC5{rom: rom, ram: make([]byte, ramSize), romBank: 1}
}

func (m *MBC5) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.romAt(uint32(address))
	case address <= 0x7FFF:
		offset := uint32(m.romBank)*0x4000 + uint32(address-0x4000)
		return m.romAt(offset)
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := (uint32(m.ramBank)*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
		return m.ram[offset]
	default:
		return 0xFF
	}
}

func (m *MBC5) romAt(offset uint32) uint8 {
	if len(m.rom) == 0 {
		return 0xFF
	}
	return m.rom[offset%uint32(len(m.rom))]
}

func (m *MBC5) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x2FFF:
		m.romBank = (m.romBank & 0x100) | uint16(value)
	case address <= 0x3FFF:
		m.romBank = (m.romBank & 0xFF) | (uint16(value&0x01) << 8)
	case address <= 0x5FFF:
		m.ramBank = value & 0x0F
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		offset := (uint32(m.ramBank)*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
		m.ram[offset] = value
	}
}
