package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/halvard/dmgcore/dmgcore/interrupt"
)

// ram is a flat 64KB address space satisfying the MMU interface, enough to
// drive the fetch-execute loop without pulling in the real memory package.
type ram [65536]uint8

func (r *ram) Read(address uint16) uint8        { return r[address] }
func (r *ram) Write(address uint16, value uint8) { r[address] = value }

func (r *ram) loadAt(address uint16, bytes ...uint8) {
	copy(r[address:], bytes)
}

func newTestCPU() (*CPU, *ram, *interrupt.Controller) {
	mem := &ram{}
	ic := interrupt.New()
	c := New(mem, ic)
	c.regs.Set(PC, 0x0000)
	return c, mem, ic
}

func TestCPU_InitialRegistersMatchBootHandoff(t *testing.T) {
	c, _, _ := newTestCPU()
	c.regs.Set(PC, 0x0100) // undo the test override to check New's own defaults
	assert.Equal(t, uint16(0x01B0), c.regs.Get(AF))
	assert.Equal(t, uint16(0xFFFE), c.regs.Get(SP))
	assert.Equal(t, uint16(0x0100), c.regs.Get(PC))
}

func TestCPU_StepAdvancesPCAndReturnsCycles(t *testing.T) {
	c, mem, _ := newTestCPU()
	mem.loadAt(0, 0x00) // NOP
	cycles := c.Step()
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(1), c.regs.Get(PC))
}

func TestCPU_LDImmediateLoadsRegister(t *testing.T) {
	c, mem, _ := newTestCPU()
	mem.loadAt(0, 0x3E, 0x42) // LD A,0x42
	c.Step()
	assert.Equal(t, uint16(0x42), c.regs.Get(A))
	assert.Equal(t, uint16(2), c.regs.Get(PC))
}

func TestCPU_JumpSetsAbsolutePC(t *testing.T) {
	c, mem, _ := newTestCPU()
	mem.loadAt(0, 0xC3, 0x00, 0x02) // JP 0x0200
	c.Step()
	assert.Equal(t, uint16(0x0200), c.regs.Get(PC))
}

func TestCPU_CallPushesReturnAddressAndJumps(t *testing.T) {
	c, mem, _ := newTestCPU()
	c.regs.Set(SP, 0xFFFE)
	mem.loadAt(0, 0xCD, 0x34, 0x12) // CALL 0x1234
	c.Step()
	assert.Equal(t, uint16(0x1234), c.regs.Get(PC))
	assert.Equal(t, uint16(0xFFFC), c.regs.Get(SP))
	assert.Equal(t, uint16(0x0003), c.pop()) // return address pushed was PC after the 3-byte CALL
}

func TestCPU_RetPopsReturnAddress(t *testing.T) {
	c, mem, _ := newTestCPU()
	c.regs.Set(SP, 0xFFFE)
	c.push(0x1234)
	mem.loadAt(0, 0xC9) // RET
	c.Step()
	assert.Equal(t, uint16(0x1234), c.regs.Get(PC))
}

func TestCPU_HaltSpinsUntilInterruptPending(t *testing.T) {
	c, mem, ic := newTestCPU()
	mem.loadAt(0, 0x76) // HALT
	ic.WriteIE(1 << uint8(interrupt.VBlank))
	c.Step() // executes HALT, enters halted state
	assert.True(t, c.Halted())

	cycles := c.Step() // nothing pending yet, spins in place
	assert.Equal(t, 4, cycles)
	assert.True(t, c.Halted())

	ic.Request(interrupt.VBlank)
	c.Step() // wakes up; IME is off so no dispatch, just resumes fetch-execute
	assert.False(t, c.Halted())
}

func TestCPU_HaltBugDuplicatesFollowingInstruction(t *testing.T) {
	c, mem, ic := newTestCPU()
	// IME off, but an interrupt is already pending: triggers the halt bug
	// instead of a real halt.
	ic.WriteIE(1 << uint8(interrupt.VBlank))
	ic.Request(interrupt.VBlank)
	mem.loadAt(0, 0x76, 0x3C) // HALT, then INC A
	c.Step()                 // HALT: sets haltBug, does not halt
	assert.False(t, c.Halted())
	assert.Equal(t, uint16(1), c.regs.Get(PC))

	c.Step() // INC A executes, but PC fails to advance past it
	assert.Equal(t, uint16(1), c.regs.Get(A))
	assert.Equal(t, uint16(1), c.regs.Get(PC))

	c.Step() // INC A executes again from the same PC
	assert.Equal(t, uint16(2), c.regs.Get(A))
	assert.Equal(t, uint16(2), c.regs.Get(PC))
}

func TestCPU_EITakesEffectAfterFollowingInstruction(t *testing.T) {
	c, mem, ic := newTestCPU()
	mem.loadAt(0, 0xFB, 0x00, 0x00) // EI, NOP, NOP
	c.Step()                       // EI: IME not yet set
	assert.False(t, ic.IME())

	c.Step() // the instruction right after EI
	assert.False(t, ic.IME(), "IME takes effect only after the instruction following EI")

	c.Step() // one more instruction boundary
	assert.True(t, ic.IME())
}

func TestCPU_ServicesHighestPriorityPendingInterrupt(t *testing.T) {
	c, mem, ic := newTestCPU()
	c.regs.Set(SP, 0xFFFE)
	c.regs.Set(PC, 0x0150)
	mem.loadAt(0x0150, 0x00) // NOP, never reached: the interrupt fires first
	ic.EnableIME()
	ic.WriteIE(1<<uint8(interrupt.VBlank) | 1<<uint8(interrupt.Timer))
	ic.Request(interrupt.Timer)
	ic.Request(interrupt.VBlank) // higher priority than Timer

	cycles := c.Step()
	assert.Equal(t, 20, cycles)
	assert.Equal(t, interrupt.VBlank.Vector(), c.regs.Get(PC))
	assert.False(t, ic.IME())
	assert.NotZero(t, ic.Pending()&(1<<uint8(interrupt.Timer)), "lower-priority Timer interrupt stays pending")
	assert.Equal(t, uint16(0x0150), c.pop(), "return address pushed is where the CPU was about to execute")
}

func TestCPU_RETIRestoresPCAndReenablesIME(t *testing.T) {
	c, mem, ic := newTestCPU()
	c.regs.Set(SP, 0xFFFE)
	c.push(0x0200)
	mem.loadAt(0, 0xD9) // RETI
	c.Step()
	assert.Equal(t, uint16(0x0200), c.regs.Get(PC))
	assert.True(t, ic.IME())
}

func TestCPU_DisabledInterruptSourceIsNotServiced(t *testing.T) {
	c, mem, ic := newTestCPU()
	mem.loadAt(0, 0x00) // NOP
	ic.EnableIME()
	ic.Request(interrupt.VBlank) // IE never set for VBlank

	cycles := c.Step()
	assert.Equal(t, 4, cycles, "falls through to a normal NOP fetch")
	assert.Equal(t, uint16(1), c.regs.Get(PC))
}
