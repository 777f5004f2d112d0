// Package snapshot captures the state of a machine into JSON, and restores it.
package snapshot

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"nescore/hw"
)

// State is the state of the CPU and of the memories it owns. Cartridge
// memory is not part of it.
type State struct {
	PC      uint16
	A, X, Y uint8
	SP      uint8
	P       uint8
	Cycles  int64

	RAM     []byte
	VRAM    []byte
	Palette []byte
}

// Capture copies the state of cpu and bus.
func Capture(cpu *hw.CPU, bus *hw.Bus) *State {
	return &State{
		PC:      cpu.PC,
		A:       cpu.A,
		X:       cpu.X,
		Y:       cpu.Y,
		SP:      cpu.SP,
		P:       uint8(cpu.P),
		Cycles:  cpu.Cycles,
		RAM:     clone(bus.RAM.Data),
		VRAM:    clone(bus.VRAM.Data),
		Palette: clone(bus.Palette.Data),
	}
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}

// Restore loads s into cpu and bus. Memories must have the size of the
// bus ones.
func (s *State) Restore(cpu *hw.CPU, bus *hw.Bus) error {
	mems := []struct {
		name string
		dst  []byte
		src  []byte
	}{
		{"ram", bus.RAM.Data, s.RAM},
		{"vram", bus.VRAM.Data, s.VRAM},
		{"palette", bus.Palette.Data, s.Palette},
	}
	for _, m := range mems {
		if len(m.src) != len(m.dst) {
			return errors.Errorf("%s: got %d bytes, want %d", m.name, len(m.src), len(m.dst))
		}
	}
	for _, m := range mems {
		copy(m.dst, m.src)
	}

	cpu.PC = s.PC
	cpu.A, cpu.X, cpu.Y = s.A, s.X, s.Y
	cpu.SP = s.SP
	cpu.P = hw.P(s.P)
	cpu.Cycles = s.Cycles
	return nil
}

// Encode writes s as a JSON object.
func (s *State) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("pc", func(e *jx.Encoder) { e.UInt16(s.PC) })
		e.Field("a", func(e *jx.Encoder) { e.UInt8(s.A) })
		e.Field("x", func(e *jx.Encoder) { e.UInt8(s.X) })
		e.Field("y", func(e *jx.Encoder) { e.UInt8(s.Y) })
		e.Field("sp", func(e *jx.Encoder) { e.UInt8(s.SP) })
		e.Field("p", func(e *jx.Encoder) { e.UInt8(s.P) })
		e.Field("cycles", func(e *jx.Encoder) { e.Int64(s.Cycles) })
		e.Field("ram", func(e *jx.Encoder) { e.Base64(s.RAM) })
		e.Field("vram", func(e *jx.Encoder) { e.Base64(s.VRAM) })
		e.Field("palette", func(e *jx.Encoder) { e.Base64(s.Palette) })
	})
}

// Decode reads s from a JSON object. Unknown fields are skipped.
func (s *State) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pc":
			s.PC, err = d.UInt16()
		case "a":
			s.A, err = d.UInt8()
		case "x":
			s.X, err = d.UInt8()
		case "y":
			s.Y, err = d.UInt8()
		case "sp":
			s.SP, err = d.UInt8()
		case "p":
			s.P, err = d.UInt8()
		case "cycles":
			s.Cycles, err = d.Int64()
		case "ram":
			s.RAM, err = d.Base64()
		case "vram":
			s.VRAM, err = d.Base64()
		case "palette":
			s.Palette, err = d.Base64()
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
}

func (s *State) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes(), nil
}

func (s *State) UnmarshalJSON(data []byte) error {
	return s.Decode(jx.DecodeBytes(data))
}
