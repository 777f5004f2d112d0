// Package ines implements a reader for roms in the iNES file format, used for
// the distribution of NES binary programs.
package ines

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

//go:generate go tool stringer -type=NTMirroring -linecomment

// NTMirroring is the nametable mirroring mode wired by the cartridge.
type NTMirroring uint8

const (
	HorzMirroring NTMirroring = iota // horizontal
	VertMirroring                    // vertical
	FourScreen                       // four-screen
)

var (
	ErrMissingHeader = errors.New("missing iNES header")
	ErrReservedBytes = errors.New("non-zero reserved header bytes")
	ErrNoPRGROM      = errors.New("no PRG-ROM")
	ErrTruncated     = errors.New("truncated rom")
	ErrNES20         = errors.New("NES 2.0 format is not supported")
)

const (
	Magic       = "NES\x1a"
	headerSize  = 16
	trainerSize = 512
	prgBankSize = 16 << 10
	chrBankSize = 8 << 10
)

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRG     []byte // PRG-ROM data (length is a multiple of 16k)
	CHR     []byte // CHR-ROM data (length is a multiple of 8k), empty for CHR-RAM
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	if err := rom.decode(buf); err != nil {
		return 0, err
	}
	off := headerSize

	if rom.HasTrainer() {
		if len(buf) < off+trainerSize {
			return 0, fmt.Errorf("%w: incomplete trainer section", ErrTruncated)
		}
		rom.Trainer = buf[off : off+trainerSize]
		off += trainerSize
	}

	if len(buf) < off+rom.prgsz {
		return 0, fmt.Errorf("%w: PRG section has %d bytes, want %d", ErrTruncated, len(buf)-off, rom.prgsz)
	}
	rom.PRG = buf[off : off+rom.prgsz]
	off += rom.prgsz

	if len(buf) < off+rom.chrsz {
		return 0, fmt.Errorf("%w: CHR section has %d bytes, want %d", ErrTruncated, len(buf)-off, rom.chrsz)
	}
	rom.CHR = buf[off : off+rom.chrsz]

	return int64(len(buf)), nil
}

type header struct {
	raw   [headerSize]byte
	prgsz int
	chrsz int
}

func (hdr *header) decode(p []byte) error {
	if len(p) < headerSize || string(p[:4]) != Magic {
		return ErrMissingHeader
	}
	copy(hdr.raw[:], p[:headerSize])

	if hdr.raw[7]&0x0C == 0x08 {
		return ErrNES20
	}
	for i := 9; i < headerSize; i++ {
		if hdr.raw[i] != 0 {
			return fmt.Errorf("%w: byte %d is $%02X", ErrReservedBytes, i, hdr.raw[i])
		}
	}

	hdr.prgsz = int(hdr.raw[4]) * prgBankSize
	hdr.chrsz = int(hdr.raw[5]) * chrBankSize
	if hdr.prgsz == 0 {
		return ErrNoPRGROM
	}
	return nil
}

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// Mapper returns the iNES mapper number.
func (hdr *header) Mapper() uint16 {
	return uint16(hdr.raw[7]&0xF0) | uint16(hdr.raw[6]>>4)
}

// Mirroring returns the nametable mirroring mode.
func (hdr *header) Mirroring() NTMirroring {
	switch {
	case hdr.raw[6]&0x08 != 0:
		return FourScreen
	case hdr.raw[6]&0x01 != 0:
		return VertMirroring
	}
	return HorzMirroring
}

// PrintInfos writes a summary of the rom header to w.
func (rom *Rom) PrintInfos(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "PRG ROM:\t%d x 16KB\n", rom.raw[4])
	fmt.Fprintf(tw, "CHR ROM:\t%d x 8KB\n", rom.raw[5])
	fmt.Fprintf(tw, "mapper:\t%d\n", rom.Mapper())
	fmt.Fprintf(tw, "mirroring:\t%s\n", rom.Mirroring())
	fmt.Fprintf(tw, "trainer:\t%t\n", rom.HasTrainer())
	fmt.Fprintf(tw, "persistent:\t%t\n", rom.HasPersistent())
	tw.Flush()
}
