package hw

// handlers maps each operation to its implementation. Handlers receive the
// resolved operand, PC already points to the next instruction.
var handlers = [...]func(c *CPU, bus CPUBus, o operand){
	ADC: (*CPU).adc,
	AND: (*CPU).and,
	ASL: (*CPU).asl,
	BCC: (*CPU).bcc,
	BCS: (*CPU).bcs,
	BEQ: (*CPU).beq,
	BIT: (*CPU).bit,
	BMI: (*CPU).bmi,
	BNE: (*CPU).bne,
	BPL: (*CPU).bpl,
	BRK: (*CPU).brk,
	BVC: (*CPU).bvc,
	BVS: (*CPU).bvs,
	CLC: (*CPU).clc,
	CLD: (*CPU).cld,
	CLI: (*CPU).cli,
	CLV: (*CPU).clv,
	CMP: (*CPU).cmp,
	CPX: (*CPU).cpx,
	CPY: (*CPU).cpy,
	DEC: (*CPU).dec,
	DEX: (*CPU).dex,
	DEY: (*CPU).dey,
	EOR: (*CPU).eor,
	INC: (*CPU).inc,
	INX: (*CPU).inx,
	INY: (*CPU).iny,
	JMP: (*CPU).jmp,
	JSR: (*CPU).jsr,
	LDA: (*CPU).lda,
	LDX: (*CPU).ldx,
	LDY: (*CPU).ldy,
	LSR: (*CPU).lsr,
	NOP: (*CPU).nop,
	ORA: (*CPU).ora,
	PHA: (*CPU).pha,
	PHP: (*CPU).php,
	PLA: (*CPU).pla,
	PLP: (*CPU).plp,
	ROL: (*CPU).rol,
	ROR: (*CPU).ror,
	RTI: (*CPU).rti,
	RTS: (*CPU).rts,
	SBC: (*CPU).sbc,
	SEC: (*CPU).sec,
	SED: (*CPU).sed,
	SEI: (*CPU).sei,
	STA: (*CPU).sta,
	STX: (*CPU).stx,
	STY: (*CPU).sty,
	TAX: (*CPU).tax,
	TAY: (*CPU).tay,
	TSX: (*CPU).tsx,
	TXA: (*CPU).txa,
	TXS: (*CPU).txs,
	TYA: (*CPU).tya,

	ALR: (*CPU).alr,
	ANC: (*CPU).anc,
	ARR: (*CPU).arr,
	AXS: (*CPU).axs,
	DCP: (*CPU).dcp,
	ISC: (*CPU).isc,
	LAX: (*CPU).lax,
	RLA: (*CPU).rla,
	RRA: (*CPU).rra,
	SAX: (*CPU).sax,
	SHX: (*CPU).shx,
	SHY: (*CPU).shy,
	SLO: (*CPU).slo,
	SRE: (*CPU).sre,
	STP: (*CPU).stp,
}

// load reads the operand, which is the accumulator for accumulator mode.
func (c *CPU) load(bus CPUBus, o operand) uint8 {
	if !o.mem {
		return c.A
	}
	return bus.Read8(o.addr)
}

// store writes the operand, which is the accumulator for accumulator mode.
func (c *CPU) store(bus CPUBus, o operand, val uint8) {
	if !o.mem {
		c.A = val
		return
	}
	bus.Write8(o.addr, val)
}

/* loads, stores and transfers */

func (c *CPU) lda(bus CPUBus, o operand) {
	c.A = bus.Read8(o.addr)
	c.P = c.P.nz(c.A)
}

func (c *CPU) ldx(bus CPUBus, o operand) {
	c.X = bus.Read8(o.addr)
	c.P = c.P.nz(c.X)
}

func (c *CPU) ldy(bus CPUBus, o operand) {
	c.Y = bus.Read8(o.addr)
	c.P = c.P.nz(c.Y)
}

func (c *CPU) sta(bus CPUBus, o operand) { bus.Write8(o.addr, c.A) }
func (c *CPU) stx(bus CPUBus, o operand) { bus.Write8(o.addr, c.X) }
func (c *CPU) sty(bus CPUBus, o operand) { bus.Write8(o.addr, c.Y) }

func (c *CPU) tax(CPUBus, operand) { c.X = c.A; c.P = c.P.nz(c.X) }
func (c *CPU) tay(CPUBus, operand) { c.Y = c.A; c.P = c.P.nz(c.Y) }
func (c *CPU) txa(CPUBus, operand) { c.A = c.X; c.P = c.P.nz(c.A) }
func (c *CPU) tya(CPUBus, operand) { c.A = c.Y; c.P = c.P.nz(c.A) }
func (c *CPU) tsx(CPUBus, operand) { c.X = c.SP; c.P = c.P.nz(c.X) }
func (c *CPU) txs(CPUBus, operand) { c.SP = c.X }

/* stack */

func (c *CPU) pha(bus CPUBus, _ operand) { c.push8(bus, c.A) }
func (c *CPU) php(bus CPUBus, _ operand) { c.push8(bus, c.P.pushed()) }

func (c *CPU) pla(bus CPUBus, _ operand) {
	c.A = c.pull8(bus)
	c.P = c.P.nz(c.A)
}

func (c *CPU) plp(bus CPUBus, _ operand) {
	c.P = pulled(c.pull8(bus))
}

/* logic and arithmetic */

func (c *CPU) and(bus CPUBus, o operand) {
	c.A &= bus.Read8(o.addr)
	c.P = c.P.nz(c.A)
}

func (c *CPU) eor(bus CPUBus, o operand) {
	c.A ^= bus.Read8(o.addr)
	c.P = c.P.nz(c.A)
}

func (c *CPU) ora(bus CPUBus, o operand) {
	c.A |= bus.Read8(o.addr)
	c.P = c.P.nz(c.A)
}

func (c *CPU) bit(bus CPUBus, o operand) {
	val := bus.Read8(o.addr)
	c.P = c.P.with(Zero, c.A&val == 0).
		with(Negative, val&0x80 != 0).
		with(Overflow, val&0x40 != 0)
}

// add adds val and the carry to the accumulator. There's no decimal mode.
func (c *CPU) add(val uint8) {
	sum := uint16(c.A) + uint16(val) + uint16(c.P&Carry)
	res := uint8(sum)
	c.P = c.P.cv(c.A, val, sum).nz(res)
	c.A = res
}

func (c *CPU) adc(bus CPUBus, o operand) { c.add(bus.Read8(o.addr)) }
func (c *CPU) sbc(bus CPUBus, o operand) { c.add(bus.Read8(o.addr) ^ 0xFF) }

func (c *CPU) compare(reg, val uint8) {
	c.P = c.P.with(Carry, reg >= val).nz(reg - val)
}

func (c *CPU) cmp(bus CPUBus, o operand) { c.compare(c.A, bus.Read8(o.addr)) }
func (c *CPU) cpx(bus CPUBus, o operand) { c.compare(c.X, bus.Read8(o.addr)) }
func (c *CPU) cpy(bus CPUBus, o operand) { c.compare(c.Y, bus.Read8(o.addr)) }

/* increments and decrements */

func (c *CPU) inc(bus CPUBus, o operand) {
	val := bus.Read8(o.addr) + 1
	bus.Write8(o.addr, val)
	c.P = c.P.nz(val)
}

func (c *CPU) dec(bus CPUBus, o operand) {
	val := bus.Read8(o.addr) - 1
	bus.Write8(o.addr, val)
	c.P = c.P.nz(val)
}

func (c *CPU) inx(CPUBus, operand) { c.X++; c.P = c.P.nz(c.X) }
func (c *CPU) iny(CPUBus, operand) { c.Y++; c.P = c.P.nz(c.Y) }
func (c *CPU) dex(CPUBus, operand) { c.X--; c.P = c.P.nz(c.X) }
func (c *CPU) dey(CPUBus, operand) { c.Y--; c.P = c.P.nz(c.Y) }

/* shifts and rotates */

func (c *CPU) asl(bus CPUBus, o operand) {
	val := c.load(bus, o)
	c.P = c.P.with(Carry, val&0x80 != 0)
	val <<= 1
	c.store(bus, o, val)
	c.P = c.P.nz(val)
}

func (c *CPU) lsr(bus CPUBus, o operand) {
	val := c.load(bus, o)
	c.P = c.P.with(Carry, val&0x01 != 0)
	val >>= 1
	c.store(bus, o, val)
	c.P = c.P.nz(val)
}

func (c *CPU) rol(bus CPUBus, o operand) {
	val := c.load(bus, o)
	carry := uint8(c.P & Carry)
	c.P = c.P.with(Carry, val&0x80 != 0)
	val = val<<1 | carry
	c.store(bus, o, val)
	c.P = c.P.nz(val)
}

func (c *CPU) ror(bus CPUBus, o operand) {
	val := c.load(bus, o)
	carry := uint8(c.P & Carry)
	c.P = c.P.with(Carry, val&0x01 != 0)
	val = val>>1 | carry<<7
	c.store(bus, o, val)
	c.P = c.P.nz(val)
}

/* jumps, calls and branches */

func (c *CPU) jmp(_ CPUBus, o operand) { c.PC = o.addr }

func (c *CPU) jsr(bus CPUBus, o operand) {
	c.push16(bus, c.PC-1)
	c.PC = o.addr
}

func (c *CPU) rts(bus CPUBus, _ operand) {
	c.PC = c.pull16(bus) + 1
}

func (c *CPU) rti(bus CPUBus, _ operand) {
	c.P = pulled(c.pull8(bus))
	c.PC = c.pull16(bus)
}

func (c *CPU) brk(bus CPUBus, _ operand) {
	// the byte following BRK is skipped
	c.push16(bus, c.PC+1)
	c.push8(bus, c.P.pushed())
	c.P |= Interrupt
	c.PC = read16(bus, IRQVector)
}

// branch jumps to the operand if cond holds. A taken branch costs one more
// cycle, and another one if the target is on a different page.
func (c *CPU) branch(o operand, cond bool) {
	if !cond {
		return
	}
	c.extra++
	if o.crossed {
		c.extra++
	}
	c.PC = o.addr
}

func (c *CPU) bcc(_ CPUBus, o operand) { c.branch(o, !c.P.C()) }
func (c *CPU) bcs(_ CPUBus, o operand) { c.branch(o, c.P.C()) }
func (c *CPU) bne(_ CPUBus, o operand) { c.branch(o, !c.P.Z()) }
func (c *CPU) beq(_ CPUBus, o operand) { c.branch(o, c.P.Z()) }
func (c *CPU) bpl(_ CPUBus, o operand) { c.branch(o, !c.P.N()) }
func (c *CPU) bmi(_ CPUBus, o operand) { c.branch(o, c.P.N()) }
func (c *CPU) bvc(_ CPUBus, o operand) { c.branch(o, !c.P.V()) }
func (c *CPU) bvs(_ CPUBus, o operand) { c.branch(o, c.P.V()) }

/* flags */

func (c *CPU) clc(CPUBus, operand) { c.P &^= Carry }
func (c *CPU) cld(CPUBus, operand) { c.P &^= Decimal }
func (c *CPU) cli(CPUBus, operand) { c.P &^= Interrupt }
func (c *CPU) clv(CPUBus, operand) { c.P &^= Overflow }
func (c *CPU) sec(CPUBus, operand) { c.P |= Carry }
func (c *CPU) sed(CPUBus, operand) { c.P |= Decimal }
func (c *CPU) sei(CPUBus, operand) { c.P |= Interrupt }

// nop reads its operand, if any, like the hardware does.
func (c *CPU) nop(bus CPUBus, o operand) {
	if o.mem {
		bus.Read8(o.addr)
	}
}

/* unofficial opcodes, built on top of the official ones */

func (c *CPU) slo(bus CPUBus, o operand) { c.asl(bus, o); c.ora(bus, o) }
func (c *CPU) rla(bus CPUBus, o operand) { c.rol(bus, o); c.and(bus, o) }
func (c *CPU) sre(bus CPUBus, o operand) { c.lsr(bus, o); c.eor(bus, o) }
func (c *CPU) rra(bus CPUBus, o operand) { c.ror(bus, o); c.adc(bus, o) }
func (c *CPU) dcp(bus CPUBus, o operand) { c.dec(bus, o); c.cmp(bus, o) }
func (c *CPU) isc(bus CPUBus, o operand) { c.inc(bus, o); c.sbc(bus, o) }
func (c *CPU) lax(bus CPUBus, o operand) { c.lda(bus, o); c.tax(bus, o) }

func (c *CPU) sax(bus CPUBus, o operand) { bus.Write8(o.addr, c.A&c.X) }

func (c *CPU) alr(bus CPUBus, o operand) {
	c.and(bus, o)
	c.lsr(bus, operand{})
}

func (c *CPU) anc(bus CPUBus, o operand) {
	c.and(bus, o)
	c.P = c.P.with(Carry, c.P.N())
}

func (c *CPU) arr(bus CPUBus, o operand) {
	c.and(bus, o)
	c.ror(bus, operand{})
	b6 := c.A&0x40 != 0
	b5 := c.A&0x20 != 0
	c.P = c.P.with(Carry, b6).with(Overflow, b6 != b5)
}

func (c *CPU) axs(bus CPUBus, o operand) {
	val := bus.Read8(o.addr)
	ax := c.A & c.X
	c.compare(ax, val)
	c.X = ax - val
}

// sh stores reg AND the high byte of the base address plus one. When indexing
// crosses a page, the stored value also replaces the target high byte.
func (c *CPU) sh(bus CPUBus, o operand, reg uint8) {
	val := reg & (uint8(o.base>>8) + 1)
	addr := o.addr
	if o.crossed {
		addr = uint16(val)<<8 | addr&0x00FF
	}
	bus.Write8(addr, val)
}

func (c *CPU) shx(bus CPUBus, o operand) { c.sh(bus, o, c.X) }
func (c *CPU) shy(bus CPUBus, o operand) { c.sh(bus, o, c.Y) }

func (c *CPU) stp(CPUBus, operand) {}
