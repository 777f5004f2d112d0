package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nescore/emu"
	"nescore/emu/log"
)

func TestEnableLogModules(t *testing.T) {
	defer log.DisableDebugModules(log.ModuleMaskAll)

	mask, err := enableLogModules([]string{"cpu", "ppu"})
	if err != nil {
		t.Fatal(err)
	}
	if want := log.ModCPU.Mask() | log.ModPPU.Mask(); mask != want {
		t.Errorf("mask = %b, want %b", mask, want)
	}

	for _, names := range [][]string{
		{"nope"},
		{"all", "no"},
		{"cpu", "no"},
	} {
		if _, err := enableLogModules(names); err == nil {
			t.Errorf("enableLogModules(%q) should fail", names)
		}
	}
}

// writeRom writes an NROM-128 rom which program starts at $C000 with the
// given code.
func writeRom(t *testing.T, code ...byte) string {
	t.Helper()

	buf := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	prg := make([]byte, 0x4000)
	copy(prg, code)
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0xC0
	buf = append(buf, prg...)
	buf = append(buf, make([]byte, 0x2000)...)

	path := filepath.Join(t.TempDir(), "test.nes")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	// LDA #$07; STA $0200; STP
	rom := writeRom(t, 0xA9, 0x07, 0x8D, 0x00, 0x02, 0x02)
	dir := t.TempDir()

	var tracebuf bytes.Buffer
	args := Run{
		RomPath:   rom,
		Config:    writeConfig(t, ""),
		Trace:     &outfile{Writer: &tracebuf},
		DumpState: filepath.Join(dir, "state.json"),
	}

	var out bytes.Buffer
	if err := run(context.Background(), &out, args); err != nil {
		t.Fatal(err)
	}
	if want := "steps: 3, cycles: 8, errors: 0\n"; out.String() != want {
		t.Errorf("run output = %q, want %q", out.String(), want)
	}
	if n := strings.Count(tracebuf.String(), "\n"); n != 3 {
		t.Errorf("trace has %d lines, want 3:\n%s", n, tracebuf.String())
	}

	buf, err := os.ReadFile(args.DumpState)
	if err != nil {
		t.Fatal(err)
	}
	var st struct {
		A   uint8  `json:"a"`
		PC  uint16 `json:"pc"`
		RAM []byte `json:"ram"`
	}
	if err := json.Unmarshal(buf, &st); err != nil {
		t.Fatal(err)
	}
	if st.A != 7 || st.RAM[0x200] != 7 || st.PC != 0xC006 {
		t.Errorf("got A=%d RAM[$200]=%d PC=$%04X", st.A, st.RAM[0x200], st.PC)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunPolicy(t *testing.T) {
	// .byte $8B; STP
	rom := writeRom(t, 0x8B, 0x02)

	var out bytes.Buffer
	err := run(context.Background(), &out, Run{RomPath: rom, Config: writeConfig(t, "")})
	if err == nil {
		t.Fatalf("run should fail with the default abort policy")
	}

	out.Reset()
	cfg := writeConfig(t, "[run]\non_error = \"continue\"\n")
	if err := run(context.Background(), &out, Run{RomPath: rom, Config: cfg}); err != nil {
		t.Fatal(err)
	}
	if want := "steps: 2, cycles: 2, errors: 1\n"; out.String() != want {
		t.Errorf("run output = %q, want %q", out.String(), want)
	}

	if err := run(context.Background(), &out, Run{RomPath: rom, Config: cfg, OnError: "ignore"}); err == nil {
		t.Errorf("run should fail with an invalid policy")
	}
}

func TestVerifyArgs(t *testing.T) {
	var out bytes.Buffer
	if err := verify(context.Background(), &out, Verify{Files: []string{"a.nes"}, StartPC: "C000"}); err == nil {
		t.Errorf("verify should fail with an odd number of files")
	}
	if err := verify(context.Background(), &out, Verify{Files: []string{"a.nes", "a.log"}, StartPC: "zz"}); err == nil {
		t.Errorf("verify should fail with an invalid start address")
	}
}

func TestVerify(t *testing.T) {
	rom := writeRom(t, 0xA9, 0x07, 0x8D, 0x00, 0x02, 0x02)

	var trace bytes.Buffer
	args := Run{
		RomPath: rom,
		Config:  writeConfig(t, ""),
		Trace:   &outfile{Writer: &trace},
	}
	if err := run(context.Background(), new(bytes.Buffer), args); err != nil {
		t.Fatal(err)
	}
	golden := filepath.Join(t.TempDir(), "golden.log")
	if err := os.WriteFile(golden, trace.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := verify(context.Background(), &out, Verify{Files: []string{rom, golden}, StartPC: "C000"}); err != nil {
		t.Fatalf("verify: %v\n%s", err, out.String())
	}
	if !strings.HasPrefix(out.String(), "ok") {
		t.Errorf("got output %q", out.String())
	}
}

func TestShowConfig(t *testing.T) {
	var out bytes.Buffer
	if err := showConfig(&out, ConfigCmd{Path: writeConfig(t, "[run]\nmax_steps = 12\n")}); err != nil {
		t.Fatal(err)
	}
	want := emu.DefaultConfig()
	want.Run.MaxSteps = 12
	buf, err := want.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != string(buf) {
		t.Errorf("got:\n%s\nwant:\n%s", out.String(), buf)
	}
}
