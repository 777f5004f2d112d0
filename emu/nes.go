// Package emu assembles the hardware components into a runnable machine.
package emu

import (
	"nescore/hw"
	"nescore/hw/mappers"
	"nescore/ines"
)

const chrRAMSize = 0x2000

// New creates a CPU and its bus for a cartridge made of the given PRG and
// CHR contents, handled by the mapper with iNES number mapperType. An empty
// chr gives the cartridge 8KB of CHR-RAM. The CPU is reset.
func New(mapperType uint16, prg, chr []byte) (*hw.CPU, *hw.Bus, error) {
	m, err := mappers.New(mapperType, prg, chr)
	if err != nil {
		return nil, nil, err
	}
	if len(chr) == 0 {
		chr = make([]byte, chrRAMSize)
	}

	bus := hw.NewBus(m, prg, chr)
	cpu := hw.NewCPU()
	cpu.Reset(bus)
	return cpu, bus, nil
}

// Load is like New, with the cartridge described by rom.
func Load(rom *ines.Rom) (*hw.CPU, *hw.Bus, error) {
	cpu, bus, err := New(rom.Mapper(), rom.PRG, rom.CHR)
	if err != nil {
		return nil, nil, err
	}
	bus.Mirroring = rom.Mirroring()
	return cpu, bus, nil
}
