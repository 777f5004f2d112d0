package emu

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"nescore/hw"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, `
[cpu]
start_pc = "C000"
status = 0x24

[run]
max_steps = 8991
on_error = "continue"

[log]
modules = ["cpu", "mapper"]
`)

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.CPU.StartPC = "C000"
	want.Run.MaxSteps = 8991
	want.Run.OnError = Continue
	want.Log.Modules = []string{"cpu", "mapper"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name, content string
	}{
		{"bad policy", "[run]\non_error = \"retry\"\n"},
		{"bad type", "[cpu]\ncycles = \"seven\"\n"},
		{"syntax", "[cpu\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeFile(t, tt.content)); err == nil {
				t.Errorf("LoadConfig should fail")
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("LoadConfig of a missing explicit file should fail")
	}
}

func TestConfigMarshal(t *testing.T) {
	buf, err := DefaultConfig().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(buf), `on_error = "abort"`) {
		t.Errorf("marshaled config lacks the error policy:\n%s", buf)
	}

	got, err := LoadConfig(writeFile(t, string(buf)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestCPUConfigApply(t *testing.T) {
	cpu := hw.NewCPU()
	cfg := CPUConfig{StartPC: "$C000", Cycles: 7, Status: 0x24}
	if err := cfg.Apply(cpu); err != nil {
		t.Fatal(err)
	}
	if cpu.PC != 0xC000 || cpu.Cycles != 7 || cpu.P != 0x24 {
		t.Errorf("PC=$%04X cycles=%d P=$%02X", cpu.PC, cpu.Cycles, uint8(cpu.P))
	}

	cfg.StartPC = "G000"
	if err := cfg.Apply(cpu); err == nil {
		t.Errorf("Apply should fail on an invalid address")
	}
}

func TestParseAddr(t *testing.T) {
	for _, s := range []string{"C000", "c000", "$C000", "0xC000", "0XC000"} {
		addr, err := ParseAddr(s)
		if err != nil || addr != 0xC000 {
			t.Errorf("ParseAddr(%q) = $%04X, %v", s, addr, err)
		}
	}
	for _, s := range []string{"", "10000", "xyz"} {
		if _, err := ParseAddr(s); err == nil {
			t.Errorf("ParseAddr(%q) should fail", s)
		}
	}
}
