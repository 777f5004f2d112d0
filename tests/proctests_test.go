package tests

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeProcTests(t *testing.T) {
	const js = `[
	{
		"name": "a9 4f 12",
		"initial": {"pc": 59656, "s": 203, "a": 1, "x": 2, "y": 3, "p": 36, "ram": [[59656, 169], [59657, 79]]},
		"final": {"pc": 59658, "s": 203, "a": 79, "x": 2, "y": 3, "p": 36, "ram": [[59656, 169], [59657, 79]]},
		"cycles": [[59656, 169, "read"], [59657, 79, "read"]]
	}
]`

	got, err := DecodeProcTests([]byte(js))
	if err != nil {
		t.Fatal(err)
	}

	want := []ProcTest{{
		Name: "a9 4f 12",
		Initial: CPUState{
			PC: 59656, SP: 203, A: 1, X: 2, Y: 3, P: 36,
			RAM: []RAMCell{{59656, 169}, {59657, 79}},
		},
		Final: CPUState{
			PC: 59658, SP: 203, A: 79, X: 2, Y: 3, P: 36,
			RAM: []RAMCell{{59656, 169}, {59657, 79}},
		},
		Cycles: 2,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeProcTests() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeProcTestsErrors(t *testing.T) {
	tests := []struct {
		name string
		js   string
	}{
		{"not an array", `{"name": "x"}`},
		{"bad register", `[{"initial": {"a": "x"}}]`},
		{"bad ram cell", `[{"initial": {"ram": [[1, 2, 3]]}}]`},
		{"truncated", `[{"name": "x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeProcTests([]byte(tt.js)); err == nil {
				t.Errorf("DecodeProcTests(%s) returned no error", tt.js)
			}
		})
	}
}

func TestHexName(t *testing.T) {
	for _, tt := range []struct {
		op   uint8
		want string
	}{{0x00, "00"}, {0xa9, "a9"}, {0xff, "ff"}} {
		if got := hexName(tt.op); got != tt.want {
			t.Errorf("hexName(%#x) = %q, want %q", tt.op, got, tt.want)
		}
	}
}
