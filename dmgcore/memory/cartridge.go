package memory

import "github.com/halvard/dmgcore/dmgcore/bit"

const (
	titleAddress          = 0x134
	titleLength           = 16
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	headerChecksumAddress = 0x14D
	globalChecksumAddress = 0x14E
)

// CartridgeType is the value of header byte 0x147, identifying which MBC
// (if any) the cartridge uses and what extra hardware it carries.
type CartridgeType uint8

const (
	ROMOnly            CartridgeType = 0x00
	MBC1Type           CartridgeType = 0x01
	MBC1RAM            CartridgeType = 0x02
	MBC1RAMBattery     CartridgeType = 0x03
	MBC2Type           CartridgeType = 0x05
	MBC2Battery        CartridgeType = 0x06
	MBC3RTCBattery     CartridgeType = 0x0F
	MBC3RTCRAMBattery  CartridgeType = 0x10
	MBC3Type           CartridgeType = 0x11
	MBC3RAM            CartridgeType = 0x12
	MBC3RAMBattery     CartridgeType = 0x13
	MBC5Type           CartridgeType = 0x19
	MBC5RAM            CartridgeType = 0x1A
	MBC5RAMBattery     CartridgeType = 0x1B
	MBC5Rumble         CartridgeType = 0x1C
	MBC5RumbleRAM      CartridgeType = 0x1D
	MBC5RumbleRAMBatt  CartridgeType = 0x1E
)

// Cartridge is the parsed ROM image: the raw bytes plus the header fields
// needed to pick and size an MBC.
type Cartridge struct {
	data           []byte
	Title          string
	Type           CartridgeType
	ROMBanks       int
	RAMBanks       int
	HeaderChecksum uint8
	GlobalChecksum uint16
}

// NewCartridge parses a ROM image's header. It does not validate the header
// checksum; a corrupt ROM is the caller's problem, not a decode fault.
func NewCartridge(data []byte) *Cartridge {
	padded := data
	if len(padded) < 0x150 {
		padded = make([]byte, 0x150)
		copy(padded, data)
	}

	romSizeCode := padded[romSizeAddress]
	romBanks := 2 << romSizeCode

	ramBanks := 0
	switch padded[ramSizeAddress] {
	case 0x02:
		ramBanks = 1
	case 0x03:
		ramBanks = 4
	case 0x04:
		ramBanks = 16
	case 0x05:
		ramBanks = 8
	}

	return &Cartridge{
		data:           data,
		Title:          cleanTitle(padded[titleAddress : titleAddress+titleLength]),
		Type:           CartridgeType(padded[cartridgeTypeAddress]),
		ROMBanks:       romBanks,
		RAMBanks:       ramBanks,
		HeaderChecksum: padded[headerChecksumAddress],
		GlobalChecksum: bit.Combine(padded[globalChecksumAddress], padded[globalChecksumAddress+1]),
	}
}

// NewBlankCartridge returns an empty ROM-only cartridge, useful for running
// the core without a loaded game (e.g. in tests).
func NewBlankCartridge() *Cartridge {
	return &Cartridge{
		data:     make([]byte, 0x8000),
		Title:    "(Untitled)",
		Type:     ROMOnly,
		ROMBanks: 2,
	}
}
