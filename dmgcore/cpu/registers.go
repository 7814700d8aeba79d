package cpu

import "github.com/halvard/dmgcore/dmgcore/faults"

// Register8 is an 8-bit register value.
type Register8 uint8

func (r Register8) get() uint8     { return uint8(r) }
func (r *Register8) set(v uint8)   { *r = Register8(v) }
func (r *Register8) incr()         { *r = Register8(r.get() + 1) }
func (r *Register8) decr()         { *r = Register8(r.get() - 1) }

// Register16 is a 16-bit register, addressable as a pair of 8-bit halves.
type Register16 struct {
	high, low Register8
}

func (r Register16) get() uint16 {
	return (uint16(r.high) << 8) | uint16(r.low)
}

func (r *Register16) set(v uint16) {
	r.high = Register8(v >> 8)
	r.low = Register8(v)
}

func (r Register16) getHigh() uint8 { return r.high.get() }
func (r Register16) getLow() uint8  { return r.low.get() }
func (r *Register16) setHigh(v uint8) { r.high.set(v) }
func (r *Register16) setLow(v uint8)  { r.low.set(v) }

// RegID names one addressable unit of the register file: a 16-bit pair, an
// 8-bit half, or a single flag bit of F. Using a closed enum instead of the
// string-keyed lookup tables of the original implementation (see
// original_source/src/cpu/registers.rs) turns every register access into an
// exhaustive switch, eliminating UnknownRegister as a possible runtime
// outcome for any RegID the compiler accepted.
type RegID uint8

const (
	AF RegID = iota
	BC
	DE
	HL
	SP
	PC

	A
	F
	B
	C
	D
	E
	H
	L

	FlagZ
	FlagN
	FlagH
	FlagC
)

// Flag bit positions within F.
const (
	flagZBit uint8 = 7
	flagNBit uint8 = 6
	flagHBit uint8 = 5
	flagCBit uint8 = 4
)

// Registers is the Game Boy register file: six 16-bit pairs (AF, BC, DE, HL,
// SP, PC), with A/F/B/C/D/E/H/L as named views into the high/low byte of
// their pair, and Z/N/H/C as named bits of F. F's low nibble is always 0.
type Registers struct {
	af, bc, de, hl, sp, pc Register16
}

// Get reads the named register or flag. Any RegID not in the enum above is
// a compile-time impossibility for callers using the constants, but Get
// still raises UnknownRegister defensively for a RegID built out of range
// (e.g. via an external decode table gone wrong).
func (r *Registers) Get(id RegID) uint16 {
	switch id {
	case AF:
		return r.af.get()
	case BC:
		return r.bc.get()
	case DE:
		return r.de.get()
	case HL:
		return r.hl.get()
	case SP:
		return r.sp.get()
	case PC:
		return r.pc.get()
	case A:
		return uint16(r.af.getHigh())
	case F:
		return uint16(r.af.getLow())
	case B:
		return uint16(r.bc.getHigh())
	case C:
		return uint16(r.bc.getLow())
	case D:
		return uint16(r.de.getHigh())
	case E:
		return uint16(r.de.getLow())
	case H:
		return uint16(r.hl.getHigh())
	case L:
		return uint16(r.hl.getLow())
	case FlagZ:
		return uint16(flagBit(r.af.getLow(), flagZBit))
	case FlagN:
		return uint16(flagBit(r.af.getLow(), flagNBit))
	case FlagH:
		return uint16(flagBit(r.af.getLow(), flagHBit))
	case FlagC:
		return uint16(flagBit(r.af.getLow(), flagCBit))
	default:
		faults.Raise(faults.UnknownRegister, 0, r.pc.get(), "unknown register id")
		return 0
	}
}

// Set writes the named register or flag. Writes to an 8-bit half preserve
// the other half of the pair. Writing F masks its low nibble to 0. Flag
// writes accept only 0 or 1; anything else is InvalidFlagValue.
func (r *Registers) Set(id RegID, value uint16) {
	switch id {
	case AF:
		r.af.set(value & 0xFFF0)
	case BC:
		r.bc.set(value)
	case DE:
		r.de.set(value)
	case HL:
		r.hl.set(value)
	case SP:
		r.sp.set(value)
	case PC:
		r.pc.set(value)
	case A:
		r.af.setHigh(uint8(value))
	case F:
		r.af.setLow(uint8(value) & 0xF0)
	case B:
		r.bc.setHigh(uint8(value))
	case C:
		r.bc.setLow(uint8(value))
	case D:
		r.de.setHigh(uint8(value))
	case E:
		r.de.setLow(uint8(value))
	case H:
		r.hl.setHigh(uint8(value))
	case L:
		r.hl.setLow(uint8(value))
	case FlagZ:
		r.setFlagBit(flagZBit, value)
	case FlagN:
		r.setFlagBit(flagNBit, value)
	case FlagH:
		r.setFlagBit(flagHBit, value)
	case FlagC:
		r.setFlagBit(flagCBit, value)
	default:
		faults.Raise(faults.UnknownRegister, 0, r.pc.get(), "unknown register id")
	}
}

func (r *Registers) setFlagBit(bitPos uint8, value uint16) {
	if value > 1 {
		faults.Raise(faults.InvalidFlagValue, 0, r.pc.get(), "flag value must be 0 or 1")
	}
	f := r.af.getLow()
	if value == 1 {
		f |= 1 << bitPos
	} else {
		f &^= 1 << bitPos
	}
	r.af.setLow(f & 0xF0)
}

func flagBit(f uint8, bitPos uint8) uint8 {
	return (f >> bitPos) & 1
}
