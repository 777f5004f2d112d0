package hw

import (
	"fmt"
	"testing"

	"nescore/tests"
)

// Opcodes whose behavior is not checked against the single step tests: the
// page crossing behavior of SHX/SHY depends on the chip revision and STP
// jams the CPU.
var unstableOps = map[uint8]bool{
	0x9C: true, // SHY
	0x9E: true, // SHX
}

func TestOpcodes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long test")
	}

	dir := tests.ProcTestsPath(t)

	for opcode := range 256 {
		op := uint8(opcode)
		d := Lookup(op)
		opstr := fmt.Sprintf("%02x", opcode)
		switch {
		case !d.Valid():
			continue
		case unstableOps[op] || d.Op == STP:
			t.Run(opstr, func(t *testing.T) { t.Skipf("skipping unsupported opcode %s", d) })
		default:
			t.Run(opstr, testOpcode(dir, op))
		}
	}
}

type regs struct {
	PC             uint16
	SP, A, X, Y, P uint8
}

func testOpcode(dir string, opcode uint8) func(t *testing.T) {
	return func(t *testing.T) {
		t.Parallel()

		procTests, err := tests.LoadProcTests(dir, opcode)
		if err != nil {
			t.Fatal(err)
		}

		for _, tt := range procTests {
			bus := new(flatbus)
			for _, cell := range tt.Initial.RAM {
				bus[cell.Addr] = cell.Val
			}

			cpu := NewCPU()
			cpu.A = tt.Initial.A
			cpu.X = tt.Initial.X
			cpu.Y = tt.Initial.Y
			cpu.P = P(tt.Initial.P)
			cpu.SP = tt.Initial.SP
			cpu.PC = tt.Initial.PC

			cycles, err := cpu.Step(bus)
			if err != nil {
				t.Fatalf("%s: %v", tt.Name, err)
			}

			got := regs{cpu.PC, cpu.SP, cpu.A, cpu.X, cpu.Y, uint8(cpu.P)}
			f := tt.Final
			want := regs{f.PC, f.SP, f.A, f.X, f.Y, f.P}
			if got != want {
				t.Errorf("%s: state mismatch\ngot:  %+v\nwant: %+v", tt.Name, got, want)
			}
			if cycles != tt.Cycles {
				t.Errorf("%s: cycles = %d, want %d", tt.Name, cycles, tt.Cycles)
			}
			for _, cell := range tt.Final.RAM {
				if got := bus[cell.Addr]; got != cell.Val {
					t.Errorf("%s: ram[$%04X] = $%02X, want $%02X", tt.Name, cell.Addr, got, cell.Val)
				}
			}
			if t.Failed() {
				t.FailNow()
			}
		}
	}
}
