package hw

// P is the processor status register.
type P uint8

const (
	Carry P = 1 << iota
	Zero
	Interrupt
	Decimal
	Break
	Unused
	Overflow
	Negative
)

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := (uint8(p) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}

func (p P) C() bool { return p&Carry != 0 }
func (p P) Z() bool { return p&Zero != 0 }
func (p P) I() bool { return p&Interrupt != 0 }
func (p P) D() bool { return p&Decimal != 0 }
func (p P) B() bool { return p&Break != 0 }
func (p P) V() bool { return p&Overflow != 0 }
func (p P) N() bool { return p&Negative != 0 }

// with returns p with flags set or cleared.
func (p P) with(flags P, set bool) P {
	if set {
		return p | flags
	}
	return p &^ flags
}

// nz returns p with Zero and Negative reflecting v.
func (p P) nz(v uint8) P {
	return p.with(Zero, v == 0).with(Negative, v&0x80 != 0)
}

// cv returns p with Carry and Overflow reflecting the 9-bit sum of x and y.
func (p P) cv(x, y uint8, sum uint16) P {
	p = p.with(Carry, sum > 0xFF)
	// signed overflow: the sign of the sum differs from both operands.
	return p.with(Overflow, (uint16(x)^sum)&(uint16(y)^sum)&0x80 != 0)
}

// pushed is the status byte as written on the stack by PHP and BRK.
func (p P) pushed() uint8 {
	return uint8(p | Break | Unused)
}

// pulled is the status restored from a stacked byte by PLP and RTI.
func pulled(v uint8) P {
	return P(v)&^Break | Unused
}
