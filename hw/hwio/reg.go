package hwio

import "nescore/emu/log"

// Access restricts the accesses to a register.
type Access uint8

const (
	ReadWrite Access = iota
	ReadOnly         // writes are dropped
	WriteOnly        // reads return 0
)

// Reg8 is an 8-bit memory-mapped register.
type Reg8 struct {
	Name   string
	Value  uint8
	Access Access

	// Optional access hooks. OnRead transforms the value read, OnWrite is
	// called after the value has been stored.
	OnRead  func(val uint8) uint8
	OnWrite func(old, val uint8)
}

func (r *Reg8) Write(val uint8) {
	if r.Access == ReadOnly {
		log.ModHwIo.WarnZ("write to readonly register").
			String("name", r.Name).
			Hex8("val", val).
			End()
		return
	}
	old := r.Value
	r.Value = val
	if r.OnWrite != nil {
		r.OnWrite(old, r.Value)
	}
}

func (r *Reg8) Read() uint8 {
	switch {
	case r.Access == WriteOnly:
		log.ModHwIo.DebugZ("read from writeonly register").String("name", r.Name).End()
		return 0
	case r.OnRead != nil:
		return r.OnRead(r.Value)
	}
	return r.Value
}
