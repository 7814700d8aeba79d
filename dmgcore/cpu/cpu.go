// Package cpu implements the Sharp LR35902 instruction set: the register
// file, the instruction decoder, and the fetch-decode-execute-service loop
// including interrupt dispatch and the HALT/STOP power states.
package cpu

import (
	"github.com/halvard/dmgcore/dmgcore/faults"
	"github.com/halvard/dmgcore/dmgcore/interrupt"
)

// MMU is the memory-side dependency the CPU needs: byte-addressed reads and
// writes across the full 16-bit address space. Satisfied by memory.MMU.
type MMU interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU is the Sharp LR35902 core: register file, halt/stop state, and the
// pending-EI countdown that implements the instruction's one-instruction
// delayed effect on IME.
type CPU struct {
	regs Registers
	mmu  MMU
	ic   *interrupt.Controller

	halted  bool
	stopped bool
	haltBug bool

	imeDelay int
}

// New returns a CPU wired to mmu and ic, with registers set to the values
// the hardware boot ROM leaves behind when control passes to the cartridge
// at 0x0100.
func New(mmu MMU, ic *interrupt.Controller) *CPU {
	c := &CPU{mmu: mmu, ic: ic}
	c.regs.Set(AF, 0x01B0)
	c.regs.Set(BC, 0x0013)
	c.regs.Set(DE, 0x00D8)
	c.regs.Set(HL, 0x014D)
	c.regs.Set(SP, 0xFFFE)
	c.regs.Set(PC, 0x0100)
	return c
}

// Registers exposes the register file for inspection (tests, debuggers).
func (c *CPU) Registers() *Registers { return &c.regs }

// Halted reports whether the CPU is in the low-power HALT state.
func (c *CPU) Halted() bool { return c.halted }

// Step runs exactly one "step" of the fetch-execute loop: either servicing a
// pending interrupt, spinning in place while halted, or decoding and
// executing one instruction. It returns the number of T-cycles elapsed.
func (c *CPU) Step() int {
	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.ic.EnableIME()
		}
	}

	if c.halted {
		if c.ic.Pending() != 0 {
			c.halted = false
		} else {
			return 4
		}
	}

	if c.serviceInterrupt() {
		return 20
	}

	pc := c.regs.Get(PC)
	next, instruction := Decode(c.mmu, pc)
	if c.haltBug {
		next = pc
		c.haltBug = false
	}
	c.regs.Set(PC, next)

	return c.execute(&instruction)
}

// serviceInterrupt dispatches the highest-priority pending, enabled
// interrupt if IME is set. It pushes the current PC, clears IF for the
// source, disables IME, and jumps to the source's vector.
func (c *CPU) serviceInterrupt() bool {
	if !c.ic.IME() {
		return false
	}
	src, ok := c.ic.NextSource()
	if !ok {
		return false
	}
	c.ic.Clear(src)
	c.ic.DisableIME()
	c.push(c.regs.Get(PC))
	c.regs.Set(PC, src.Vector())
	return true
}

func (c *CPU) push(value uint16) {
	sp := c.regs.Get(SP) - 2
	c.regs.Set(SP, sp)
	c.mmu.Write(sp, uint8(value))
	c.mmu.Write(sp+1, uint8(value>>8))
}

func (c *CPU) pop() uint16 {
	sp := c.regs.Get(SP)
	lo := c.mmu.Read(sp)
	hi := c.mmu.Read(sp + 1)
	c.regs.Set(SP, sp+2)
	return uint16(hi)<<8 | uint16(lo)
}

func nameToRegID(name string) RegID {
	switch name {
	case "A":
		return A
	case "B":
		return B
	case "C":
		return C
	case "D":
		return D
	case "E":
		return E
	case "H":
		return H
	case "L":
		return L
	case "AF":
		return AF
	case "BC":
		return BC
	case "DE":
		return DE
	case "HL":
		return HL
	case "SP":
		return SP
	case "PC":
		return PC
	default:
		faults.Raise(faults.UnknownRegister, 0, 0, "no RegID for operand name "+name)
		return RegID(255)
	}
}
