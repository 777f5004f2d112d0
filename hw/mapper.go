package hw

// Mapper is the cartridge address translation logic. It serves the CPU
// cartridge window ($6000-$FFFF) from the program ROM and the PPU pattern
// tables ($0000-$1FFF) from the character ROM, both buffers being owned by
// the Bus and lent on each access.
type Mapper interface {
	Read(addr uint16, prg []byte) uint8
	Write(addr uint16, val uint8, prg []byte)
	ReadCHR(addr uint16, chr []byte) uint8
	WriteCHR(addr uint16, val uint8, chr []byte)
}

// NoMapper is the mapper of a bus without cartridge. Any access panics.
type NoMapper struct{}

func (NoMapper) Read(addr uint16, _ []byte) uint8 {
	panic(noCartridge(addr))
}

func (NoMapper) Write(addr uint16, _ uint8, _ []byte) {
	panic(noCartridge(addr))
}

func (NoMapper) ReadCHR(addr uint16, _ []byte) uint8 {
	panic(noCartridge(addr))
}

func (NoMapper) WriteCHR(addr uint16, _ uint8, _ []byte) {
	panic(noCartridge(addr))
}

func noCartridge(addr uint16) string {
	return "no mapper: cartridge access at $" + hex16(addr)
}

func hex16(v uint16) string {
	var buf [4]byte
	hexEncode(buf[0:], byte(v>>8))
	hexEncode(buf[2:], byte(v))
	return string(buf[:])
}
