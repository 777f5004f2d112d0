package emu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"nescore/emu/log"
	"nescore/hw"
)

//go:generate go tool stringer -type=Policy -linecomment

// Policy is the action taken by a Runner when the CPU fails to decode an
// instruction.
type Policy uint8

const (
	Abort    Policy = iota // abort
	Continue               // continue
	Reset                  // reset
)

func (p Policy) MarshalText() ([]byte, error) {
	if p > Reset {
		return nil, fmt.Errorf("invalid policy %d", p)
	}
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	for pol := Abort; pol <= Reset; pol++ {
		if pol.String() == string(text) {
			*p = pol
			return nil
		}
	}
	return fmt.Errorf("unknown policy %q (abort|continue|reset)", text)
}

// Stats reports what a Runner did.
type Stats struct {
	Steps  int   // executed or attempted instructions
	Cycles int64 // CPU cycles
	Errors int   // decode errors
}

// Runner steps a CPU on its bus until it halts, it reaches MaxSteps or it
// fails to decode an instruction, in which case Policy is applied.
type Runner struct {
	CPU *hw.CPU
	Bus *hw.Bus

	Policy   Policy
	MaxSteps int       // 0 means no limit
	Trace    io.Writer // execution trace, if not nil
}

// Run runs the CPU. Halting the CPU is not an error.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	step := func() (int, error) { return r.CPU.Step(r.Bus) }
	if r.Trace != nil {
		tracer := hw.NewTracer(r.Trace)
		step = func() (int, error) {
			tr, err := tracer.Step(r.CPU, r.Bus)
			return tr.Cycles, err
		}
	}

	var st Stats
	for r.MaxSteps <= 0 || st.Steps < r.MaxSteps {
		if st.Steps&0x3FF == 0 {
			if err := ctx.Err(); err != nil {
				return st, err
			}
		}

		cycles, err := step()
		st.Steps++
		st.Cycles += int64(cycles)
		if err == nil {
			continue
		}

		if errors.Is(err, hw.ErrHalted) {
			log.ModEmu.InfoZ("cpu halted").Int("steps", st.Steps).End()
			return st, nil
		}

		var derr *hw.DecodeError
		if !errors.As(err, &derr) {
			return st, err
		}
		st.Errors++

		switch r.Policy {
		case Continue:
			log.ModEmu.WarnZ("skipping illegal opcode").
				Hex16("pc", derr.PC).
				Hex8("opcode", derr.Opcode).
				End()
			r.CPU.PC = derr.PC + 1
		case Reset:
			log.ModEmu.WarnZ("illegal opcode, resetting cpu").
				Hex16("pc", derr.PC).
				Hex8("opcode", derr.Opcode).
				End()
			r.CPU.Reset(r.Bus)
		default:
			return st, err
		}
	}
	return st, nil
}
