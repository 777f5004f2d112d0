package hw

import (
	"errors"
	"fmt"

	"nescore/emu/log"
)

const (
	ResetVector = 0xFFFC // Reset vector
	IRQVector   = 0xFFFE // Interrupt request vector
)

const stackBase = 0x0100

// CPUBus is the 16-bit address space the CPU executes against.
type CPUBus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

var (
	ErrIllegalOpcode = errors.New("illegal opcode")
	ErrHalted        = errors.New("cpu halted")
)

// DecodeError is returned by a step that could not execute an instruction,
// either because the opcode is unassigned (ErrIllegalOpcode) or because the
// CPU is stopped (ErrHalted).
type DecodeError struct {
	PC     uint16
	Opcode uint8
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: opcode $%02X at $%04X", e.Err, e.Opcode, e.PC)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// CPU is the NES 6502 (Ricoh 2A03 without the decimal mode).
//
// The CPU does not hold a reference to its bus, the bus is lent for the
// duration of each step.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       P

	// Cycles is the total number of cycles executed since reset.
	Cycles int64

	stopped *DecodeError // set once STP has been executed
	extra   int          // cycles added by the current instruction
}

// NewCPU returns a CPU in its power-up state. PC is left to 0, call Reset to
// load it from the reset vector.
func NewCPU() *CPU {
	return &CPU{
		SP:     0xFD,
		P:      Interrupt | Unused,
		Cycles: 7,
	}
}

// Reset puts the CPU in its power-up state and loads PC from the reset vector.
func (c *CPU) Reset(bus CPUBus) {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = Interrupt | Unused
	c.PC = read16(bus, ResetVector)
	c.Cycles = 7
	c.stopped = nil
}

func (c *CPU) ProgramCounter() uint16     { return c.PC }
func (c *CPU) Registers() (a, x, y uint8) { return c.A, c.X, c.Y }
func (c *CPU) Status() P                  { return c.P }
func (c *CPU) StackPointer() uint8        { return c.SP }
func (c *CPU) IsHalted() bool             { return c.stopped != nil }

// Step executes one instruction and returns the number of cycles it took.
//
// A *DecodeError is returned, and the CPU left untouched, if the opcode at PC
// is unassigned. Once a STP opcode has been executed, every step returns a
// *DecodeError wrapping ErrHalted.
func (c *CPU) Step(bus CPUBus) (int, error) {
	var tr Trace
	err := c.exec(bus, &tr)
	return tr.Cycles, err
}

// Trace describes an executed instruction.
type Trace struct {
	Desc   Descriptor
	Cycles int

	fetched [3]uint8
	n       uint8
}

// Bytes returns the bytes fetched for the instruction, opcode included.
func (t *Trace) Bytes() []uint8 {
	return t.fetched[:t.n]
}

// StepTrace is like Step, and also reports the descriptor of the instruction
// and the bytes fetched from the bus to decode it.
func (c *CPU) StepTrace(bus CPUBus) (Trace, error) {
	var tr Trace
	err := c.exec(bus, &tr)
	return tr, err
}

func (c *CPU) exec(bus CPUBus, tr *Trace) error {
	if c.stopped != nil {
		return c.stopped
	}

	pc := c.PC
	opcode := bus.Read8(pc)
	tr.fetched[0] = opcode
	tr.n = 1

	d := opcodes[opcode]
	if !d.Valid() {
		log.ModCPU.DebugZ("illegal opcode").
			Hex16("pc", pc).
			Hex8("opcode", opcode).
			End()
		return &DecodeError{PC: pc, Opcode: opcode, Err: ErrIllegalOpcode}
	}

	for i := uint8(1); i < d.Bytes; i++ {
		tr.fetched[i] = bus.Read8(pc + uint16(i))
	}
	tr.n = d.Bytes
	tr.Desc = d
	c.PC = pc + uint16(d.Bytes)

	o := c.resolve(bus, d.Mode, tr.fetched[1], tr.fetched[2])
	c.extra = 0
	handlers[d.Op](c, bus, o)

	tr.Cycles = int(d.Cycles) + c.extra
	if o.crossed {
		tr.Cycles += int(d.PageCycles)
	}
	c.Cycles += int64(tr.Cycles)

	if d.Op == STP {
		c.stopped = &DecodeError{PC: pc, Opcode: opcode, Err: ErrHalted}
		log.ModCPU.InfoZ("cpu halted").
			Hex16("pc", pc).
			Hex8("opcode", opcode).
			End()
		return c.stopped
	}
	return nil
}

// operand is the result of addressing mode resolution.
type operand struct {
	addr    uint16 // effective address
	base    uint16 // address before indexing
	mem     bool   // false for accumulator and implied modes
	crossed bool   // indexing or branching crossed a page
}

func at(addr uint16) operand {
	return operand{addr: addr, base: addr, mem: true}
}

func indexed(base uint16, idx uint8) operand {
	addr := base + uint16(idx)
	return operand{
		addr:    addr,
		base:    base,
		mem:     true,
		crossed: base&0xFF00 != addr&0xFF00,
	}
}

// resolve computes the effective address of an instruction operand, lo and
// hi being the operand bytes. PC must already point to the next instruction.
func (c *CPU) resolve(bus CPUBus, mode AddrMode, lo, hi uint8) operand {
	abs := uint16(hi)<<8 | uint16(lo)

	switch mode {
	case Implied, Accumulator:
		return operand{}
	case Immediate:
		return at(c.PC - 1)
	case ZeroPage:
		return at(uint16(lo))
	case ZeroPageX:
		return at(uint16(lo + c.X))
	case ZeroPageY:
		return at(uint16(lo + c.Y))
	case Relative:
		o := at(c.PC + uint16(int8(lo)))
		o.base = c.PC
		o.crossed = c.PC&0xFF00 != o.addr&0xFF00
		return o
	case Absolute:
		return at(abs)
	case AbsoluteX:
		return indexed(abs, c.X)
	case AbsoluteY:
		return indexed(abs, c.Y)
	case Indirect:
		// The pointer high byte is read without carrying into the next page.
		plo := bus.Read8(abs)
		phi := bus.Read8(abs&0xFF00 | uint16(lo+1))
		return at(uint16(phi)<<8 | uint16(plo))
	case IndirectX:
		return at(zpread16(bus, lo+c.X))
	case IndirectY:
		return indexed(zpread16(bus, lo), c.Y)
	}
	panic(fmt.Sprintf("unexpected addressing mode %d", mode))
}

// zpread16 reads a little-endian word from the zero page, wrapping from
// $FF to $00.
func zpread16(bus CPUBus, ptr uint8) uint16 {
	lo := bus.Read8(uint16(ptr))
	hi := bus.Read8(uint16(ptr + 1))
	return uint16(hi)<<8 | uint16(lo)
}

func read16(bus CPUBus, addr uint16) uint16 {
	lo := bus.Read8(addr)
	hi := bus.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

/* stack operations */

func (c *CPU) push8(bus CPUBus, val uint8) {
	bus.Write8(stackBase|uint16(c.SP), val)
	if c.SP == 0x00 {
		log.ModCPU.DebugZ("stack overflow").Hex16("pc", c.PC).End()
	}
	c.SP--
}

func (c *CPU) push16(bus CPUBus, val uint16) {
	c.push8(bus, uint8(val>>8))
	c.push8(bus, uint8(val))
}

func (c *CPU) pull8(bus CPUBus) uint8 {
	if c.SP == 0xFF {
		log.ModCPU.DebugZ("stack underflow").Hex16("pc", c.PC).End()
	}
	c.SP++
	return bus.Read8(stackBase | uint16(c.SP))
}

func (c *CPU) pull16(bus CPUBus) uint16 {
	lo := c.pull8(bus)
	hi := c.pull8(bus)
	return uint16(hi)<<8 | uint16(lo)
}
