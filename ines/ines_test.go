package ines

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nescore/tests"
)

func mkrom(hdr [16]byte, sizes ...int) []byte {
	buf := append([]byte(nil), hdr[:]...)
	for _, sz := range sizes {
		for i := range sz {
			buf = append(buf, byte(i))
		}
	}
	return buf
}

func mkheader(prg, chr, flags6, flags7 byte) [16]byte {
	return [16]byte{'N', 'E', 'S', 0x1A, prg, chr, flags6, flags7}
}

func TestReadFrom(t *testing.T) {
	buf := mkrom(mkheader(1, 1, 0x01, 0x00), 0x4000, 0x2000)

	var rom Rom
	n, err := rom.ReadFrom(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(buf)) {
		t.Errorf("read %d bytes, want %d", n, len(buf))
	}

	got := []any{len(rom.PRG), len(rom.CHR), len(rom.Trainer), rom.Mapper(), rom.Mirroring()}
	want := []any{0x4000, 0x2000, 0, uint16(0), VertMirroring}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rom mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(rom.PRG, buf[16:16+0x4000]) {
		t.Errorf("PRG content mismatch")
	}
}

func TestTrainer(t *testing.T) {
	buf := mkrom(mkheader(2, 0, 0x04, 0x00), 512, 0x8000)
	for i := 16; i < 16+512; i++ {
		buf[i] = 0xEE
	}

	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatal(err)
	}
	if len(rom.Trainer) != 512 || len(rom.PRG) != 0x8000 || len(rom.CHR) != 0 {
		t.Errorf("trainer=%d PRG=%d CHR=%d", len(rom.Trainer), len(rom.PRG), len(rom.CHR))
	}
	if rom.Trainer[0] != 0xEE || rom.PRG[0] != 0 || rom.PRG[0x1FF] != 0xFF {
		t.Errorf("PRG starts at the wrong offset")
	}
}

func TestHeaderFields(t *testing.T) {
	cases := []struct {
		flags6, flags7 byte
		mapper         uint16
		mirroring      NTMirroring
	}{
		{0x00, 0x00, 0, HorzMirroring},
		{0x01, 0x00, 0, VertMirroring},
		{0x08, 0x00, 0, FourScreen},
		{0x09, 0x00, 0, FourScreen},
		{0x10, 0x00, 1, HorzMirroring},
		{0x40, 0x40, 0x44, HorzMirroring},
		{0xF1, 0xF0, 0xFF, VertMirroring},
	}
	for _, tt := range cases {
		var rom Rom
		buf := mkrom(mkheader(1, 0, tt.flags6, tt.flags7), 0x4000)
		if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
			t.Fatalf("flags6=%02X flags7=%02X: %v", tt.flags6, tt.flags7, err)
		}
		if got := rom.Mapper(); got != tt.mapper {
			t.Errorf("flags6=%02X flags7=%02X: mapper=%d, want %d", tt.flags6, tt.flags7, got, tt.mapper)
		}
		if got := rom.Mirroring(); got != tt.mirroring {
			t.Errorf("flags6=%02X flags7=%02X: mirroring=%s, want %s", tt.flags6, tt.flags7, got, tt.mirroring)
		}
	}
}

func TestReadFromErrors(t *testing.T) {
	reserved := mkheader(1, 0, 0, 0)
	reserved[12] = 0x44
	nes20 := mkheader(1, 0, 0, 0x08)

	cases := []struct {
		name string
		buf  []byte
		want error
	}{
		{"empty", nil, ErrMissingHeader},
		{"short", []byte("NES\x1a\x01"), ErrMissingHeader},
		{"magic", mkrom([16]byte{'N', 'E', 'Z', 0x1A, 1}, 0x4000), ErrMissingHeader},
		{"reserved", mkrom(reserved, 0x4000), ErrReservedBytes},
		{"nes2.0", mkrom(nes20, 0x4000), ErrNES20},
		{"no prg", mkrom(mkheader(0, 1, 0, 0), 0x2000), ErrNoPRGROM},
		{"truncated prg", mkrom(mkheader(2, 0, 0, 0), 0x4000), ErrTruncated},
		{"truncated chr", mkrom(mkheader(1, 1, 0, 0), 0x4000, 0x1000), ErrTruncated},
		{"truncated trainer", mkrom(mkheader(1, 0, 0x04, 0), 100), ErrTruncated},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var rom Rom
			_, err := rom.ReadFrom(bytes.NewReader(tt.buf))
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPrintInfos(t *testing.T) {
	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(mkrom(mkheader(2, 1, 0x01, 0), 0x8000, 0x2000))); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	rom.PrintInfos(&sb)
	for _, s := range []string{"2 x 16KB", "1 x 8KB", "mapper:", "vertical"} {
		if !strings.Contains(sb.String(), s) {
			t.Errorf("infos do not contain %q:\n%s", s, sb.String())
		}
	}
}

func TestRomOpen(t *testing.T) {
	dir := filepath.Join(tests.RomsPath(t), "instr_test-v5", "rom_singles")
	paths := []string{
		"01-basics.nes",
		"02-implied.nes",
		"10-branches.nes",
		"11-stack.nes",
		"16-special.nes",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rom, err := Open(filepath.Join(dir, path))
			if err != nil {
				t.Fatal(err)
			}
			if len(rom.PRG) == 0 || len(rom.PRG)%0x4000 != 0 {
				t.Errorf("PRG size = %d", len(rom.PRG))
			}
		})
	}
}
