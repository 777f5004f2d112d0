// Package mappers implements the cartridge mappers, indexed by their iNES
// mapper number.
package mappers

import (
	"errors"
	"fmt"

	"nescore/emu/log"
	"nescore/hw"
)

var modMapper = log.NewModule("mapper")

var ErrUnsupportedMapper = errors.New("unsupported mapper")

type MapperDesc struct {
	Name string
	New  func(prg, chr []byte) (hw.Mapper, error)
}

var All = map[uint16]MapperDesc{
	0: NROM,
}

// New creates the mapper with iNES number code for the given PRG and CHR
// contents.
func New(code uint16, prg, chr []byte) (hw.Mapper, error) {
	desc, ok := All[code]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, code)
	}
	m, err := desc.New(prg, chr)
	if err != nil {
		return nil, fmt.Errorf("mapper %s: %w", desc.Name, err)
	}
	modMapper.InfoZ("mapper loaded").
		String("name", desc.Name).
		Int("prg", len(prg)).
		Int("chr", len(chr)).
		End()
	return m, nil
}
