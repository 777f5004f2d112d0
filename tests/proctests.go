package tests

import (
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// CPUState is the processor state before or after a single step test.
type CPUState struct {
	PC      uint16
	SP      uint8
	A, X, Y uint8
	P       uint8
	RAM     []RAMCell
}

// RAMCell is the value of a memory location.
type RAMCell struct {
	Addr uint16
	Val  uint8
}

// ProcTest is a single step processor test: one instruction executed from
// Initial must lead to Final in len(Cycles) cycles.
type ProcTest struct {
	Name    string
	Initial CPUState
	Final   CPUState
	Cycles  int
}

// LoadProcTests reads the tests for the given opcode from dir.
func LoadProcTests(dir string, opcode uint8) ([]ProcTest, error) {
	buf, err := os.ReadFile(filepath.Join(dir, hexName(opcode)+".json"))
	if err != nil {
		return nil, err
	}
	return DecodeProcTests(buf)
}

func hexName(opcode uint8) string {
	const hextable = "0123456789abcdef"
	return string([]byte{hextable[opcode>>4], hextable[opcode&0x0f]})
}

// DecodeProcTests decodes a JSON array of single step processor tests.
func DecodeProcTests(buf []byte) ([]ProcTest, error) {
	var tests []ProcTest
	d := jx.DecodeBytes(buf)
	err := d.Arr(func(d *jx.Decoder) error {
		var pt ProcTest
		if err := pt.decode(d); err != nil {
			return errors.Wrapf(err, "test #%d", len(tests))
		}
		tests = append(tests, pt)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode processor tests")
	}
	return tests, nil
}

func (pt *ProcTest) decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			s, err := d.Str()
			pt.Name = s
			return err
		case "initial":
			if err := pt.Initial.decode(d); err != nil {
				return errors.Wrap(err, "initial")
			}
			return nil
		case "final":
			if err := pt.Final.decode(d); err != nil {
				return errors.Wrap(err, "final")
			}
			return nil
		case "cycles":
			// Only the number of bus accesses is checked.
			return d.Arr(func(d *jx.Decoder) error {
				pt.Cycles++
				return d.Skip()
			})
		}
		return d.Skip()
	})
}

func (s *CPUState) decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pc":
			s.PC, err = d.UInt16()
		case "s":
			s.SP, err = d.UInt8()
		case "a":
			s.A, err = d.UInt8()
		case "x":
			s.X, err = d.UInt8()
		case "y":
			s.Y, err = d.UInt8()
		case "p":
			s.P, err = d.UInt8()
		case "ram":
			err = d.Arr(func(d *jx.Decoder) error {
				var (
					cell RAMCell
					i    int
				)
				err := d.Arr(func(d *jx.Decoder) error {
					var err error
					switch i {
					case 0:
						cell.Addr, err = d.UInt16()
					case 1:
						cell.Val, err = d.UInt8()
					default:
						err = errors.Errorf("unexpected ram cell element %d", i)
					}
					i++
					return err
				})
				s.RAM = append(s.RAM, cell)
				return err
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
}
