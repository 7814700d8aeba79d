package dmgcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/halvard/dmgcore/dmgcore/cpu"
)

func TestEmulator_NewStartsInRunningState(t *testing.T) {
	e := New()
	assert.Equal(t, DebuggerRunning, e.GetDebuggerState())
	assert.Equal(t, uint64(0), e.GetFrameCount())
}

func TestEmulator_RunUntilFrameAdvancesInstructionCountAndFrame(t *testing.T) {
	e := New()
	e.RunUntilFrame()
	assert.Equal(t, uint64(1), e.GetFrameCount())
	assert.NotZero(t, e.GetInstructionCount())
}

func TestEmulator_StepModeExecutesExactlyOneInstructionPerRequest(t *testing.T) {
	e := New()
	e.DebuggerStepInstruction()

	before := e.GetInstructionCount()
	e.RunUntilFrame()
	assert.Equal(t, before+1, e.GetInstructionCount())
	assert.Equal(t, DebuggerPaused, e.GetDebuggerState())

	// without a new step request, staying paused does not execute more
	e.RunUntilFrame()
	assert.Equal(t, before+1, e.GetInstructionCount())
}

func TestEmulator_PausedStateExecutesNothing(t *testing.T) {
	e := New()
	e.DebuggerPause()
	before := e.GetInstructionCount()
	e.RunUntilFrame()
	assert.Equal(t, before, e.GetInstructionCount())
}

func TestEmulator_RecoversFaultAndPauses(t *testing.T) {
	e := New()
	// WRAM is writable, unlike the blank cartridge's ROM space; point PC
	// there and land a JP straight into Echo RAM (a hard fault).
	e.cpu.Registers().Set(cpu.PC, 0xC000)
	e.mem.Write(0xC000, 0xC3) // JP
	e.mem.Write(0xC001, 0x00)
	e.mem.Write(0xC002, 0xE0) // target 0xE000

	assert.NotPanics(t, func() {
		e.RunUntilFrame()
	})
	assert.Equal(t, DebuggerPaused, e.GetDebuggerState())

	// further calls are no-ops while paused, not repeated faults
	assert.NotPanics(t, func() {
		e.RunUntilFrame()
	})
}
