package emu

import (
	"testing"

	"nescore/hw"
)

// newMachine returns a NROM machine which 32KB PRG-ROM holds code at $8000,
// where the reset vector points to.
func newMachine(t *testing.T, code ...byte) (*hw.CPU, *hw.Bus) {
	t.Helper()

	prg := make([]byte, 0x8000)
	copy(prg, code)
	prg[0x7FFC] = 0x00
	prg[0x7FFD] = 0x80

	cpu, bus, err := New(0, prg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return cpu, bus
}
