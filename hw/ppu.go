package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// VRAMBus is the PPU address space.
type VRAMBus interface {
	ReadVRAM(addr uint16) uint8
	WriteVRAM(addr uint16, val uint8)
}

// PPUCTRL bits
const (
	ntselect = 0b11 // nametable selection mask
	vramIncr = 2    // VRAM address increment per CPU read/write of PPUDATA (+1 or +32)
)

// PPUSTATUS bits
const (
	spriteOverflow = 5
	sprite0Hit     = 6
	vblank         = 7
)

// PPU holds the graphics registers mapped at $2000-$2007 and the internal
// VRAM address latches. Rendering is not emulated.
type PPU struct {
	Bus VRAMBus

	PPUCTRL   hwio.Reg8
	PPUMASK   hwio.Reg8
	PPUSTATUS hwio.Reg8
	OAMADDR   hwio.Reg8
	OAMDATA   hwio.Reg8
	PPUSCROLL hwio.Reg8
	PPUADDR   hwio.Reg8
	PPUDATA   hwio.Reg8

	OAM [256]uint8

	regs [8]*hwio.Reg8

	// VRAM address latches
	v      uint16 // current VRAM address (15 bits)
	t      uint16 // temporary VRAM address (15 bits)
	x      uint8  // fine X scroll (3 bits)
	w      bool   // write toggle, set after the first of 2 writes
	buffer uint8  // PPUDATA read buffer
}

func NewPPU(bus VRAMBus) *PPU {
	p := &PPU{Bus: bus}
	p.PPUCTRL = hwio.Reg8{Name: "PPUCTRL", Access: hwio.WriteOnly, OnWrite: p.writePPUCTRL}
	p.PPUMASK = hwio.Reg8{Name: "PPUMASK", Access: hwio.WriteOnly}
	p.PPUSTATUS = hwio.Reg8{Name: "PPUSTATUS", Access: hwio.ReadOnly, OnRead: p.readPPUSTATUS}
	p.OAMADDR = hwio.Reg8{Name: "OAMADDR", Access: hwio.WriteOnly}
	p.OAMDATA = hwio.Reg8{Name: "OAMDATA", OnRead: p.readOAMDATA, OnWrite: p.writeOAMDATA}
	p.PPUSCROLL = hwio.Reg8{Name: "PPUSCROLL", Access: hwio.WriteOnly, OnWrite: p.writePPUSCROLL}
	p.PPUADDR = hwio.Reg8{Name: "PPUADDR", Access: hwio.WriteOnly, OnWrite: p.writePPUADDR}
	p.PPUDATA = hwio.Reg8{Name: "PPUDATA", OnRead: p.readPPUDATA, OnWrite: p.writePPUDATA}

	p.regs = [8]*hwio.Reg8{
		&p.PPUCTRL, &p.PPUMASK, &p.PPUSTATUS, &p.OAMADDR,
		&p.OAMDATA, &p.PPUSCROLL, &p.PPUADDR, &p.PPUDATA,
	}
	return p
}

// Reset puts the PPU registers in their power-up state.
func (p *PPU) Reset() {
	for _, r := range p.regs {
		r.Value = 0
	}
	p.v, p.t, p.x = 0, 0, 0
	p.w = false
	p.buffer = 0
}

// ReadRegister reads the register at index idx (0-7), that is $2000+idx.
func (p *PPU) ReadRegister(idx uint8) uint8 {
	return p.regs[idx&7].Read()
}

// WriteRegister writes the register at index idx (0-7), that is $2000+idx.
func (p *PPU) WriteRegister(idx uint8, val uint8) {
	p.regs[idx&7].Write(val)
}

// SetVBlank sets or clears the vblank flag of PPUSTATUS.
func (p *PPU) SetVBlank(on bool) {
	hwio.WriteBit8(&p.PPUSTATUS.Value, vblank, on)
}

// PPUCTRL: $2000
func (p *PPU) writePPUCTRL(_, val uint8) {
	log.ModPPU.DebugZ("write to PPUCTRL").Hex8("val", val).End()

	// Transfer the nametable bits.
	p.t &^= ntselect << 10
	p.t |= (uint16(val) & ntselect) << 10
}

// PPUSTATUS: $2002
func (p *PPU) readPPUSTATUS(val uint8) uint8 {
	p.w = false
	hwio.ClearBit8(&p.PPUSTATUS.Value, vblank)
	return val & (1<<spriteOverflow | 1<<sprite0Hit | 1<<vblank)
}

// OAMDATA: $2004
func (p *PPU) readOAMDATA(uint8) uint8 {
	return p.OAM[p.OAMADDR.Value]
}

func (p *PPU) writeOAMDATA(_, val uint8) {
	p.OAM[p.OAMADDR.Value] = val
	p.OAMADDR.Value++
}

// PPUSCROLL: $2005
func (p *PPU) writePPUSCROLL(_, val uint8) {
	log.ModPPU.DebugZ("write to PPUSCROLL").Hex8("val", val).Bool("latch", p.w).End()

	if !p.w { // first write
		p.x = val & 0b111
		p.t &^= 0b1_1111
		p.t |= uint16(val >> 3)
	} else { // second write
		p.t &^= 0b0111_0011_1110_0000
		p.t |= uint16(val&0b111) << 12
		p.t |= uint16(val&0b1111_1000) << 2
	}

	p.w = !p.w
}

// To read/write VRAM from CPU, PPUADDR is set to the address of the operation.
// It's a 16-bit register so 2 writes are necessary.
// PPUADDR: $2006
func (p *PPU) writePPUADDR(_, val uint8) {
	if !p.w { // first write
		p.t &= 0x00FF
		p.t |= uint16(val&0b11_1111) << 8
	} else { // second write
		p.t &= 0xFF00
		p.t |= uint16(val)
		p.v = p.t
	}

	p.w = !p.w
}

// PPUDATA: $2007
func (p *PPU) readPPUDATA(uint8) uint8 {
	addr := p.v & 0x3FFF

	var val uint8
	if addr < 0x3F00 {
		// VRAM reads are delayed by one read.
		val = p.buffer
		p.buffer = p.Bus.ReadVRAM(addr)
	} else {
		// Palette reads are immediate, the buffer gets the nametable byte
		// 'under' the palette.
		val = p.Bus.ReadVRAM(addr)
		p.buffer = p.Bus.ReadVRAM(addr - 0x1000)
	}

	log.ModPPU.DebugZ("vram read").Hex16("addr", addr).Hex8("val", val).End()
	p.incVRAMaddr()
	return val
}

// PPUDATA: $2007
func (p *PPU) writePPUDATA(_, val uint8) {
	addr := p.v & 0x3FFF
	log.ModPPU.DebugZ("vram write").Hex16("addr", addr).Hex8("val", val).End()

	p.Bus.WriteVRAM(addr, val)
	p.incVRAMaddr()
}

// After each access to PPUDATA, the VRAM address is incremented.
func (p *PPU) incVRAMaddr() {
	incr := uint16(1)
	if hwio.GetBit8(p.PPUCTRL.Value, vramIncr) {
		incr = 32
	}
	p.v = (p.v + incr) & 0x7FFF
}
