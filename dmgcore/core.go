// Package dmgcore ties the CPU, MMU and PPU together into a runnable
// emulator: the Scheduler drives the fetch-execute-tick loop, and the
// Emulator type is the package's public entry point.
package dmgcore

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/halvard/dmgcore/dmgcore/cpu"
	"github.com/halvard/dmgcore/dmgcore/faults"
	"github.com/halvard/dmgcore/dmgcore/input"
	"github.com/halvard/dmgcore/dmgcore/interrupt"
	"github.com/halvard/dmgcore/dmgcore/memory"
	"github.com/halvard/dmgcore/dmgcore/video"
)

// CyclesPerFrame is the number of T-cycles in one Game Boy video frame
// (70224 = 456 dots/line * 154 lines).
const CyclesPerFrame = 70224

// DebuggerState represents the current debugger mode.
type DebuggerState int

const (
	DebuggerRunning   DebuggerState = iota // Normal execution
	DebuggerPaused                         // Paused, waiting for commands
	DebuggerStep                           // Execute one instruction then pause
	DebuggerStepFrame                      // Execute one frame then pause
)

// Emulator is the root struct and entry point for running the emulation: it
// owns the CPU, PPU, MMU and interrupt controller and schedules their ticks.
type Emulator struct {
	cpu *cpu.CPU
	ppu *video.PPU
	mem *memory.MMU
	ic  *interrupt.Controller

	debuggerState    DebuggerState
	debuggerMutex    sync.RWMutex
	stepRequested    bool
	frameRequested   bool
	instructionCount uint64
	frameCount       uint64
}

func newEmulator(mem *memory.MMU, ic *interrupt.Controller) *Emulator {
	return &Emulator{
		cpu: cpu.New(mem, ic),
		ppu: video.New(mem, ic),
		mem: mem,
		ic:  ic,
	}
}

// New creates an emulator with no cartridge loaded (a blank ROM-only cart).
func New() *Emulator {
	ic := interrupt.New()
	cart := memory.NewBlankCartridge()
	mem := memory.NewWithCartridge(ic, cart)
	return newEmulator(mem, ic)
}

// NewWithFile creates an emulator and loads the ROM at path into it.
func NewWithFile(path string) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded ROM data", "size", len(data))

	ic := interrupt.New()
	cart := memory.NewCartridge(data)
	mem := memory.NewWithCartridge(ic, cart)
	return newEmulator(mem, ic), nil
}

// RunUntilFrame advances the emulator until a full frame (CyclesPerFrame
// T-cycles) has elapsed, or performs a single debugger step if the debugger
// is in single-step/step-frame mode. A *faults.Fault panicking out of any
// component is recovered here: it's logged and the emulator is paused rather
// than crashing the host process.
func (e *Emulator) RunUntilFrame() {
	defer e.recoverFault()

	e.debuggerMutex.RLock()
	state := e.debuggerState
	e.debuggerMutex.RUnlock()

	switch state {
	case DebuggerPaused:
		return
	case DebuggerStep:
		e.runStep()
		return
	case DebuggerStepFrame:
		e.runStepFrame()
		return
	}

	e.runFrame()
}

func (e *Emulator) recoverFault() {
	r := recover()
	if r == nil {
		return
	}

	fault, ok := r.(*faults.Fault)
	if !ok {
		panic(r)
	}

	slog.Error("emulator fault, pausing", "fault", fault.Error())
	e.SetDebuggerState(DebuggerPaused)
}

func (e *Emulator) runStep() {
	e.debuggerMutex.Lock()
	if !e.stepRequested {
		e.debuggerMutex.Unlock()
		return
	}
	e.stepRequested = false
	e.debuggerMutex.Unlock()

	oldPC := e.cpu.Registers().Get(cpu.PC)
	e.tick()
	slog.Debug("step executed", "pc", fmt.Sprintf("0x%04X", oldPC), "new_pc", fmt.Sprintf("0x%04X", e.cpu.Registers().Get(cpu.PC)))

	e.SetDebuggerState(DebuggerPaused)
}

func (e *Emulator) runStepFrame() {
	e.debuggerMutex.Lock()
	requested := e.frameRequested
	e.frameRequested = false
	e.debuggerMutex.Unlock()

	if !requested {
		return
	}

	total := 0
	for total < CyclesPerFrame {
		total += e.tick()
	}
	e.frameCount++
	slog.Debug("frame step completed", "frame", e.frameCount, "instructions", e.instructionCount)
	e.SetDebuggerState(DebuggerPaused)
}

func (e *Emulator) runFrame() {
	total := 0
	for total < CyclesPerFrame {
		total += e.tick()
	}
	e.frameCount++
	if e.frameCount%60 == 0 {
		slog.Debug("frame completed", "frame", e.frameCount, "pc", fmt.Sprintf("0x%04X", e.cpu.Registers().Get(cpu.PC)))
	}
}

// tick steps the CPU by one instruction and advances the PPU and the MMU's
// timer by the same number of T-cycles, returning that cycle count.
func (e *Emulator) tick() int {
	cycles := e.cpu.Step()
	e.ppu.Tick(cycles)
	e.mem.Tick(cycles)
	e.instructionCount++
	return cycles
}

// GetCurrentFrame returns the PPU's framebuffer for the most recently
// completed (or in-progress) frame.
func (e *Emulator) GetCurrentFrame() *video.FrameBuffer {
	return e.ppu.FrameBuffer()
}

// HandlePress forwards a host key-press event to the joypad.
func (e *Emulator) HandlePress(key input.Key) {
	e.mem.Joypad.Press(key.ToDomain())
}

// HandleRelease forwards a host key-release event to the joypad.
func (e *Emulator) HandleRelease(key input.Key) {
	e.mem.Joypad.Release(key.ToDomain())
}

func (e *Emulator) CPU() *cpu.CPU { return e.cpu }
func (e *Emulator) MMU() *memory.MMU { return e.mem }

// SetDebuggerState sets the debugger mode.
func (e *Emulator) SetDebuggerState(state DebuggerState) {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.debuggerState = state
	slog.Debug("debugger state changed", "state", state)
}

func (e *Emulator) GetDebuggerState() DebuggerState {
	e.debuggerMutex.RLock()
	defer e.debuggerMutex.RUnlock()
	return e.debuggerState
}

func (e *Emulator) DebuggerPause() {
	e.SetDebuggerState(DebuggerPaused)
	slog.Info("emulator paused")
}

func (e *Emulator) DebuggerResume() {
	e.SetDebuggerState(DebuggerRunning)
	slog.Info("emulator resumed")
}

func (e *Emulator) DebuggerStepInstruction() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.stepRequested = true
	e.debuggerState = DebuggerStep
	slog.Info("step instruction requested")
}

func (e *Emulator) DebuggerStepFrame() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.frameRequested = true
	e.debuggerState = DebuggerStepFrame
	slog.Info("step frame requested")
}

func (e *Emulator) GetInstructionCount() uint64 { return e.instructionCount }
func (e *Emulator) GetFrameCount() uint64       { return e.frameCount }
