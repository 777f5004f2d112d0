package hwio

func GetBit8(v uint8, n uint) bool {
	return v>>n&0x01 != 0
}

func SetBit8(v *uint8, n uint) {
	*v |= (1 << n)
}

func ClearBit8(v *uint8, n uint) {
	*v &^= (1 << n)
}

// WriteBit8 sets or clears bit n of v.
func WriteBit8(v *uint8, n uint, set bool) {
	if set {
		SetBit8(v, n)
	} else {
		ClearBit8(v, n)
	}
}
