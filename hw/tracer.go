package hw

import (
	"io"
	"strconv"
)

// Tracer writes the execution trace of a CPU, one line per instruction,
// showing the CPU state before the instruction executes:
//
//	C000	4C F5 C5	A:00 X:00 Y:00 P:24 SP:FD CYC:7
type Tracer struct {
	w   io.Writer
	buf []byte
}

func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w, buf: make([]byte, 0, 64)}
}

// Step executes one instruction and traces it. Nothing is written if the
// CPU is halted.
func (t *Tracer) Step(cpu *CPU, bus CPUBus) (Trace, error) {
	state := cpuState{
		PC:     cpu.ProgramCounter(),
		P:      cpu.Status(),
		SP:     cpu.StackPointer(),
		Cycles: cpu.Cycles,
	}
	state.A, state.X, state.Y = cpu.Registers()

	tr, err := cpu.StepTrace(bus)
	if tr.n == 0 {
		return tr, err
	}
	if _, werr := t.w.Write(t.format(state, tr.Bytes())); werr != nil && err == nil {
		err = werr
	}
	return tr, err
}

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	A, X, Y uint8
	P       P
	SP      uint8
	PC      uint16
	Cycles  int64
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

func (t *Tracer) format(state cpuState, fetched []byte) []byte {
	buf := t.buf[:0]
	var hex [2]byte

	appendHex := func(v byte) {
		hexEncode(hex[:], v)
		buf = append(buf, hex[:]...)
	}

	appendHex(byte(state.PC >> 8))
	appendHex(byte(state.PC))
	buf = append(buf, '\t')

	// The byte column is 8 characters wide.
	for i := range 3 {
		if i > 0 {
			buf = append(buf, ' ')
		}
		if i < len(fetched) {
			appendHex(fetched[i])
		} else {
			buf = append(buf, ' ', ' ')
		}
	}
	buf = append(buf, '\t')

	regs := [...]struct {
		name string
		val  uint8
	}{
		{"A:", state.A},
		{"X:", state.X},
		{"Y:", state.Y},
		{"P:", uint8(state.P)},
		{"SP:", state.SP},
	}
	for _, r := range regs {
		buf = append(buf, r.name...)
		appendHex(r.val)
		buf = append(buf, ' ')
	}

	buf = append(buf, "CYC:"...)
	buf = strconv.AppendInt(buf, state.Cycles, 10)
	buf = append(buf, '\n')

	t.buf = buf
	return buf
}
