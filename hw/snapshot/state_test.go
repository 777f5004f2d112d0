package snapshot

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nescore/hw"
)

func newMachine(t *testing.T) (*hw.CPU, *hw.Bus) {
	t.Helper()

	// LDA #$42; STA $10; INX; STP
	prg := make([]byte, 0x8000)
	copy(prg, []byte{0xA9, 0x42, 0x85, 0x10, 0xE8, 0x02})
	prg[0x7FFC] = 0x00
	prg[0x7FFD] = 0x80

	bus := hw.NewBus(romMapper{}, prg, nil)
	cpu := hw.NewCPU()
	cpu.Reset(bus)
	return cpu, bus
}

// romMapper maps 32KB of PRG-ROM at $8000.
type romMapper struct{}

func (romMapper) Read(addr uint16, prg []byte) uint8          { return prg[addr&0x7FFF] }
func (romMapper) Write(addr uint16, val uint8, prg []byte)    {}
func (romMapper) ReadCHR(addr uint16, chr []byte) uint8       { return 0 }
func (romMapper) WriteCHR(addr uint16, val uint8, chr []byte) {}

func TestCaptureRestore(t *testing.T) {
	cpu, bus := newMachine(t)
	for range 3 {
		if _, err := cpu.Step(bus); err != nil {
			t.Fatal(err)
		}
	}
	bus.WriteVRAM(0x2005, 0xAB)
	bus.WriteVRAM(0x3F01, 0x1C)

	st := Capture(cpu, bus)
	buf, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}

	cpu2, bus2 := newMachine(t)
	var st2 State
	if err := json.Unmarshal(buf, &st2); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(st, &st2); diff != "" {
		t.Fatalf("state mismatch after json round trip (-want +got):\n%s", diff)
	}
	if err := st2.Restore(cpu2, bus2); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(*st, *Capture(cpu2, bus2)); diff != "" {
		t.Errorf("restored state mismatch (-want +got):\n%s", diff)
	}
	if got := bus2.Read8(0x0010); got != 0x42 {
		t.Errorf("ram[$10] = $%02X, want $42", got)
	}
	if got := bus2.ReadVRAM(0x2005); got != 0xAB {
		t.Errorf("vram[$2005] = $%02X, want $AB", got)
	}
	if a, x, _ := cpu2.Registers(); a != 0x42 || x != 1 || cpu2.PC != 0x8005 {
		t.Errorf("got A=$%02X X=$%02X PC=$%04X", a, x, cpu2.PC)
	}
}

func TestRestoreSizes(t *testing.T) {
	cpu, bus := newMachine(t)
	st := Capture(cpu, bus)
	st.VRAM = st.VRAM[:10]

	before := *Capture(cpu, bus)
	cpu.PC = 0x1234
	if err := st.Restore(cpu, bus); err == nil {
		t.Fatal("Restore should fail")
	}
	if cpu.PC != 0x1234 {
		t.Errorf("cpu modified by a failed Restore")
	}
	cpu.PC = before.PC
	if diff := cmp.Diff(before, *Capture(cpu, bus)); diff != "" {
		t.Errorf("failed Restore modified the machine:\n%s", diff)
	}
}

func TestDecode(t *testing.T) {
	const data = `{"pc": 49152, "sp": 253, "p": 36, "cycles": 7, "comment": "skipped", "ram": "AAEC"}`

	var st State
	if err := st.UnmarshalJSON([]byte(data)); err != nil {
		t.Fatal(err)
	}
	want := State{PC: 0xC000, SP: 0xFD, P: 0x24, Cycles: 7, RAM: []byte{0, 1, 2}}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("decode mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{
		`{"pc": "C000"}`,
		`{"ram": 12}`,
		`{"cycles": true}`,
	} {
		var st State
		err := st.UnmarshalJSON([]byte(bad))
		if err == nil {
			t.Errorf("UnmarshalJSON(%s) should fail", bad)
		} else if !strings.Contains(err.Error(), "field") {
			t.Errorf("UnmarshalJSON(%s): error %q lacks the field name", bad, err)
		}
	}
	if err := new(State).UnmarshalJSON([]byte(`[]`)); err == nil {
		t.Errorf("UnmarshalJSON([]) should fail")
	}
}
