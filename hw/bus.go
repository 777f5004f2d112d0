package hw

import (
	"fmt"

	"nescore/emu/log"
	"nescore/hw/hwio"
	"nescore/ines"
)

// GraphicsRegisters is the set of 8 memory-mapped PPU registers, as seen
// from the CPU bus.
type GraphicsRegisters interface {
	ReadRegister(idx uint8) uint8
	WriteRegister(idx uint8, val uint8)
}

// Bus is the NES address space. It decodes CPU addresses ($0000-$FFFF)
// and PPU addresses ($0000-$3FFF) to the devices backing them.
type Bus struct {
	RAM     *hwio.Mem // 2KB internal RAM
	VRAM    *hwio.Mem // nametables
	Palette *hwio.Mem

	PRG []byte // program ROM
	CHR []byte // character ROM or RAM

	Mapper    Mapper
	PPU       GraphicsRegisters
	Mirroring ines.NTMirroring
}

// NewBus returns a bus with the given cartridge contents and a PPU attached.
func NewBus(mapper Mapper, prg, chr []byte) *Bus {
	b := &Bus{
		RAM:     hwio.NewMem("ram", 0x800, 0),
		VRAM:    hwio.NewMem("vram", 0x1000, 0),
		Palette: hwio.NewMem("palette", 0x20, 0),
		PRG:     prg,
		CHR:     chr,
		Mapper:  mapper,
	}
	b.PPU = NewPPU(b)
	return b
}

// Read8 reads a byte from the CPU address space.
func (b *Bus) Read8(addr uint16) uint8 {
	switch {
	case addr >= 0x6000:
		return b.Mapper.Read(addr, b.PRG)
	case addr >= 0x4020:
		log.ModMem.WarnZ("read from expansion rom").Hex16("addr", addr).End()
		return 0
	case addr >= 0x4000:
		log.ModMem.DebugZ("read from apu/io").Hex16("addr", addr).End()
		return 0
	case addr >= 0x2008:
		return b.PPU.ReadRegister(uint8(addr % 8))
	case addr >= 0x2000:
		return b.PPU.ReadRegister(uint8(addr - 0x2000))
	case addr >= 0x0800:
		return b.RAM.Read8(addr % 0x800)
	case addr <= 0x07FF:
		return b.RAM.Read8(addr)
	}
	panic(fmt.Sprintf("bus: unmapped cpu read at $%04X", addr))
}

// Write8 writes a byte to the CPU address space.
func (b *Bus) Write8(addr uint16, val uint8) {
	switch {
	case addr >= 0x6000:
		b.Mapper.Write(addr, val, b.PRG)
	case addr >= 0x4020:
		log.ModMem.WarnZ("write to expansion rom").Hex16("addr", addr).Hex8("val", val).End()
	case addr >= 0x4000:
		log.ModMem.DebugZ("write to apu/io").Hex16("addr", addr).Hex8("val", val).End()
	case addr >= 0x2008:
		b.PPU.WriteRegister(uint8(addr%8), val)
	case addr >= 0x2000:
		b.PPU.WriteRegister(uint8(addr-0x2000), val)
	case addr >= 0x0800:
		b.RAM.Write8(addr%0x800, val)
	case addr <= 0x07FF:
		b.RAM.Write8(addr, val)
	default:
		panic(fmt.Sprintf("bus: unmapped cpu write at $%04X", addr))
	}
}

// ReadVRAM reads a byte from the PPU address space.
func (b *Bus) ReadVRAM(addr uint16) uint8 {
	switch {
	case addr > 0x3FFF:
		panic(fmt.Sprintf("bus: ppu address $%04X out of range", addr))
	case addr >= 0x3F00:
		return b.Palette.Read8(paletteIndex(addr))
	case addr >= 0x3000:
		log.ModPPU.WarnZ("read from unused vram region").Hex16("addr", addr).End()
		return 0
	case addr >= 0x2000:
		return b.VRAM.Read8(b.nametableIndex(addr))
	}
	return b.Mapper.ReadCHR(addr, b.CHR)
}

// WriteVRAM writes a byte to the PPU address space.
func (b *Bus) WriteVRAM(addr uint16, val uint8) {
	switch {
	case addr > 0x3FFF:
		panic(fmt.Sprintf("bus: ppu address $%04X out of range", addr))
	case addr >= 0x3F00:
		b.Palette.Write8(paletteIndex(addr), val)
	case addr >= 0x3000:
		log.ModPPU.WarnZ("write to unused vram region").Hex16("addr", addr).Hex8("val", val).End()
	case addr >= 0x2000:
		b.VRAM.Write8(b.nametableIndex(addr), val)
	default:
		b.Mapper.WriteCHR(addr, val, b.CHR)
	}
}

// $3F10/$3F14/$3F18/$3F1C are mirrors of $3F00/$3F04/$3F08/$3F0C.
func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx&0x13 == 0x10 {
		idx &^= 0x10
	}
	return idx
}

// nametableIndex maps a nametable address ($2000-$2FFF) to a VRAM offset.
func (b *Bus) nametableIndex(addr uint16) uint16 {
	off := addr & 0x0FFF
	table := off / 0x400
	switch b.Mirroring {
	case ines.HorzMirroring:
		return (table>>1)*0x400 + off&0x3FF
	case ines.VertMirroring:
		return (table&1)*0x400 + off&0x3FF
	}
	return off
}
