package hwio

import (
	"fmt"

	"nescore/emu/log"
)

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = 1 // writes are dropped and logged
)

// Mem is a linear memory area. Its size is a power of 2 so that any address
// maps into it by masking, which mirrors the area over wider windows.
type Mem struct {
	Name  string
	Data  []byte
	Flags MemFlags

	mask uint16
}

// NewMem allocates a memory area of the given size.
func NewMem(name string, size int, flags MemFlags) *Mem {
	return WrapMem(name, make([]byte, size), flags)
}

// WrapMem creates a memory area backed by buf.
func WrapMem(name string, buf []byte, flags MemFlags) *Mem {
	if len(buf) == 0 || len(buf)&(len(buf)-1) != 0 || len(buf) > 0x10000 {
		panic(fmt.Sprintf("hwio: %s: memory size %d is not a power of 2", name, len(buf)))
	}
	return &Mem{
		Name:  name,
		Data:  buf,
		Flags: flags,
		mask:  uint16(len(buf) - 1),
	}
}

func (m *Mem) Read8(addr uint16) uint8 {
	return m.Data[addr&m.mask]
}

func (m *Mem) Write8(addr uint16, val uint8) {
	if m.Flags&MemFlagReadOnly != 0 {
		log.ModHwIo.WarnZ("write to readonly memory").
			String("name", m.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	m.Data[addr&m.mask] = val
}
