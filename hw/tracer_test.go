package hw

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestTraceFormat(t *testing.T) {
	want := []string{
		"E052\tA9 32   \tA:00 X:01 Y:00 P:07 SP:F4 CYC:8",
		"E054\t20 EE E0\tA:32 X:01 Y:00 P:05 SP:F4 CYC:10",
		"E0EE\t8B      \tA:32 X:01 Y:00 P:05 SP:F2 CYC:16",
		"E0EE\t02      \tA:32 X:01 Y:00 P:05 SP:F2 CYC:16",
	}

	bus := new(flatbus)
	copy(bus[0xE052:], []byte{0xA9, 0x32, 0x20, 0xEE, 0xE0})
	bus[0xE0EE] = 0x8B

	cpu := NewCPU()
	cpu.PC = 0xE052
	cpu.X = 0x01
	cpu.P = P(0x07)
	cpu.SP = 0xF4
	cpu.Cycles = 8

	var out bytes.Buffer
	tracer := NewTracer(&out)

	for range 2 {
		if _, err := tracer.Step(cpu, bus); err != nil {
			t.Fatal(err)
		}
	}

	tr, err := tracer.Step(cpu, bus)
	if !errors.Is(err, ErrIllegalOpcode) {
		t.Fatalf("got error %v, want ErrIllegalOpcode", err)
	}
	if !bytes.Equal(tr.Bytes(), []byte{0x8B}) {
		t.Errorf("fetched bytes = % X, want 8B", tr.Bytes())
	}

	bus[0xE0EE] = 0x02
	for range 2 {
		if _, err := tracer.Step(cpu, bus); !errors.Is(err, ErrHalted) {
			t.Fatalf("got error %v, want ErrHalted", err)
		}
	}

	wantstr := strings.Join(want, "\n") + "\n"
	if out.String() != wantstr {
		t.Fatalf("trace differs\ngot:\n%s\nwant:\n%s\n", out.String(), wantstr)
	}
}

func TestStepTrace(t *testing.T) {
	bus := new(flatbus)
	copy(bus[0x0600:], []byte{0xBD, 0xFF, 0x02}) // LDA $02FF,X
	cpu := NewCPU()
	cpu.PC = 0x0600
	cpu.X = 1

	tr, err := cpu.StepTrace(bus)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Desc != Lookup(0xBD) {
		t.Errorf("Desc = %v, want %v", tr.Desc, Lookup(0xBD))
	}
	if !bytes.Equal(tr.Bytes(), []byte{0xBD, 0xFF, 0x02}) {
		t.Errorf("fetched bytes = % X", tr.Bytes())
	}
	if tr.Cycles != 5 {
		t.Errorf("Cycles = %d, want 5", tr.Cycles)
	}
}

func BenchmarkTraceFormat(b *testing.B) {
	tracer := NewTracer(io.Discard)
	s1 := cpuState{PC: 0xE052, A: 0x00, X: 0x01, Y: 0x00, P: P(0x07), SP: 0xF4, Cycles: 8}
	s2 := cpuState{PC: 0xE054, A: 0x32, X: 0x01, Y: 0x00, P: P(0x05), SP: 0xF4, Cycles: 10}
	b1 := []byte{0xA9, 0x32}
	b2 := []byte{0x20, 0xEE, 0xE0}

	for range b.N {
		tracer.w.Write(tracer.format(s1, b1))
		tracer.w.Write(tracer.format(s2, b2))
	}
}
