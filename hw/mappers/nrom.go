package mappers

import (
	"errors"
	"fmt"

	"nescore/hw"
	"nescore/hw/hwio"
)

var NROM = MapperDesc{
	Name: "NROM",
	New:  newNROM,
}

var (
	ErrPRGROMSize = errors.New("invalid PRG-ROM size")
	ErrCHRROMSize = errors.New("invalid CHR-ROM size")
)

const (
	prgBank = 0x4000
	chrBank = 0x2000
)

// nrom accesses the cartridge ROMs through read-only views created from the
// buffers it's been given, the ones passed to each access are only used for
// CHR-RAM.
type nrom struct {
	PRGRAM *hwio.Mem
	PRGROM *hwio.Mem // 16KB images are mirrored at $C000 by the mask
	CHRROM *hwio.Mem // nil for CHR-RAM
}

// newNROM creates a NROM mapper with 16KB or 32KB of PRG-ROM and either 8KB
// of CHR-ROM or, when chr is empty, CHR-RAM.
func newNROM(prg, chr []byte) (hw.Mapper, error) {
	if len(prg) != prgBank && len(prg) != 2*prgBank {
		return nil, fmt.Errorf("%w: %d bytes, want 16KB or 32KB", ErrPRGROMSize, len(prg))
	}
	if len(chr) != 0 && len(chr) != chrBank {
		return nil, fmt.Errorf("%w: %d bytes, want 8KB", ErrCHRROMSize, len(chr))
	}

	m := &nrom{
		PRGRAM: hwio.NewMem("prgram", 0x2000, hwio.MemFlagReadWrite),
		PRGROM: hwio.WrapMem("prgrom", prg, hwio.MemFlagReadOnly),
	}
	if len(chr) != 0 {
		m.CHRROM = hwio.WrapMem("chrrom", chr, hwio.MemFlagReadOnly)
	}
	return m, nil
}

func (m *nrom) Read(addr uint16, _ []byte) uint8 {
	switch {
	case addr >= 0x8000:
		return m.PRGROM.Read8(addr)
	case addr >= 0x6000:
		return m.PRGRAM.Read8(addr - 0x6000)
	}
	modMapper.WarnZ("read below PRG-RAM").Hex16("addr", addr).End()
	return 0
}

func (m *nrom) Write(addr uint16, val uint8, _ []byte) {
	switch {
	case addr >= 0x8000:
		m.PRGROM.Write8(addr, val)
	case addr >= 0x6000:
		m.PRGRAM.Write8(addr-0x6000, val)
	default:
		modMapper.WarnZ("write below PRG-RAM").Hex16("addr", addr).Hex8("val", val).End()
	}
}

func (m *nrom) ReadCHR(addr uint16, chr []byte) uint8 {
	if m.CHRROM != nil {
		return m.CHRROM.Read8(addr)
	}
	return chr[addr&(chrBank-1)]
}

func (m *nrom) WriteCHR(addr uint16, val uint8, chr []byte) {
	if m.CHRROM != nil {
		m.CHRROM.Write8(addr, val)
		return
	}
	chr[addr&(chrBank-1)] = val
}
