package nes

import (
	"fmt"

	"github.com/golang/glog"
)

const (
	flagC = uint8(1 << iota) // Carry
	flagZ                    // Zero
	flagI                    // Interrupt Disable
	flagD                    // Decimal Mode
	flagB                    // Break Command
	flagU                    // Unused
	flagV                    // Overflow
	flagN                    // Negative
)

// status keeps the flags as independent booleans. The packed byte only
// exists on the stack (PHP/PLP/RTI) and in register snapshots.
type status struct {
	c bool // carry
	z bool // zero
	i bool // IRQ disable
	d bool // decimal - unused on NES
	v bool // overflow
	n bool // negative
}

// encode packs the flags. B and U are left clear.
func (s status) encode() uint8 {
	var res uint8
	if s.c {
		res |= flagC
	}
	if s.z {
		res |= flagZ
	}
	if s.i {
		res |= flagI
	}
	if s.d {
		res |= flagD
	}
	if s.v {
		res |= flagV
	}
	if s.n {
		res |= flagN
	}
	return res
}

// decodeFrom unpacks a status byte. B and U are not state and are dropped.
func (s *status) decodeFrom(data uint8) {
	s.c = data&flagC != 0
	s.z = data&flagZ != 0
	s.i = data&flagI != 0
	s.d = data&flagD != 0
	s.v = data&flagV != 0
	s.n = data&flagN != 0
}

// Registers is a copy of the CPU state, P is packed with U set.
type Registers struct {
	A      uint8
	X      uint8
	Y      uint8
	SP     uint8
	PC     uint16
	P      uint8
	Cycles uint64
}

func (r Registers) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d", r.A, r.X, r.Y, r.P, r.SP, r.Cycles)
}

type CPU struct {
	a  uint8  // accumulator
	x  uint8  // index register
	y  uint8  // index register
	sp uint8  // stack pointer, offset into $0100-$01FF
	pc uint16 // program counter
	p  status

	bus ReadWriter

	skipCycles  uint32 // cycles still owed by the last dispatched instruction
	totalCycles uint64

	unrecognized uint64
}

func NewCPU(bus ReadWriter) *CPU {
	return &CPU{
		sp:  0xfd,
		p:   status{i: true},
		bus: bus,
	}
}

func isDiffPage(a, b uint16) bool {
	return a&0xff00 != b&0xff00
}

func (c *CPU) read8(addr uint16) uint8 {
	return c.bus.Read8(addr)
}

func (c *CPU) read16(addr uint16) uint16 {
	return uint16(c.read8(addr)) | uint16(c.read8(addr+1))<<8
}

func (c *CPU) write8(addr uint16, data uint8) {
	c.bus.Write8(addr, data)
}

func (c *CPU) setZN(value uint8) {
	c.p.z = value == 0
	c.p.n = value&0x80 != 0
}

// skipPageCrossCycles charges inc extra cycles when a and b are on different pages.
func (c *CPU) skipPageCrossCycles(a, b uint16, inc uint32) {
	if isDiffPage(a, b) {
		c.skipCycles += inc
	}
}

func (c *CPU) stackPush8(data uint8) {
	c.write8(stackStartAddr|uint16(c.sp), data)
	c.sp--
}

func (c *CPU) stackPop8() uint8 {
	c.sp++
	return c.read8(stackStartAddr | uint16(c.sp))
}

func (c *CPU) stackPush16(data uint16) {
	c.stackPush8(uint8(data >> 8))
	c.stackPush8(uint8(data & 0xff))
}

func (c *CPU) stackPop16() uint16 {
	lo := uint16(c.stackPop8())
	hi := uint16(c.stackPop8())
	return lo | hi<<8
}

// Reset loads the program counter from the reset vector.
func (c *CPU) Reset() {
	c.ResetWithStartAddr(c.read16(resetVector))
}

// ResetWithStartAddr puts the CPU in its documented power-on state
// and starts execution at addr.
func (c *CPU) ResetWithStartAddr(addr uint16) {
	c.skipCycles = 0
	c.totalCycles = 0
	c.a = 0
	c.x = 0
	c.y = 0
	c.p = status{i: true}
	c.pc = addr
	c.sp = 0xfd
}

func (c *CPU) Registers() Registers {
	return Registers{
		A:      c.a,
		X:      c.x,
		Y:      c.y,
		SP:     c.sp,
		PC:     c.pc,
		P:      c.p.encode() | flagU,
		Cycles: c.totalCycles,
	}
}

// Cycles returns the number of Step calls since the last reset.
func (c *CPU) Cycles() uint64 {
	return c.totalCycles
}

// UnrecognizedOpcodes returns how many fetched opcodes could not be decoded.
func (c *CPU) UnrecognizedOpcodes() uint64 {
	return c.unrecognized
}

// Step runs one clock cycle. An instruction is decoded and executed on the
// first cycle; the remaining cycles it costs are spent by later calls.
func (c *CPU) Step() {
	c.totalCycles++

	if c.skipCycles > 1 {
		c.skipCycles--
		return
	}
	c.skipCycles = 0

	if glog.V(3) {
		text, _ := c.DisassembleAt(c.pc)
		glog.Infof("%04X  %-16s %s", c.pc, text, c.Registers())
	}

	addr := c.pc
	opcode := c.read8(c.pc)
	c.pc++

	cycleLength := operationCycles[opcode]
	if cycleLength != 0 &&
		(c.executeImplied(opcode) ||
			c.executeBranch(opcode) ||
			c.executeType1(opcode) ||
			c.executeType2(opcode)) {
		c.skipCycles += uint32(cycleLength)
		return
	}

	// keep running: the next cycle decodes the byte after this one
	c.unrecognized++
	glog.Warningf("cpu: unrecognized opcode $%02X at $%04X", opcode, addr)
}

func (c *CPU) executeImplied(opcode uint8) bool {
	switch operationImplied(opcode) {
	case opNOP:
	case opJSR:
		// push the address of the last byte of this instruction
		c.stackPush16(c.pc + 1)
		c.pc = c.read16(c.pc)
	case opRTI:
		c.p.decodeFrom(c.stackPop8())
		c.pc = c.stackPop16()
	case opRTS:
		c.pc = c.stackPop16() + 1
	case opJMP:
		c.pc = c.read16(c.pc)
	case opJMPI:
		location := c.read16(c.pc)
		// the high byte never carries into the next page
		page := location & 0xff00
		c.pc = uint16(c.read8(location)) | uint16(c.read8(page|((location+1)&0x00ff)))<<8
	case opPHP:
		c.stackPush8(c.p.encode() | flagB | flagU)
	case opPLP:
		c.p.decodeFrom(c.stackPop8())
	case opPHA:
		c.stackPush8(c.a)
	case opPLA:
		c.a = c.stackPop8()
		c.setZN(c.a)
	case opDEY:
		c.y--
		c.setZN(c.y)
	case opDEX:
		c.x--
		c.setZN(c.x)
	case opTAY:
		c.y = c.a
		c.setZN(c.y)
	case opINY:
		c.y++
		c.setZN(c.y)
	case opINX:
		c.x++
		c.setZN(c.x)
	case opCLC:
		c.p.c = false
	case opSEC:
		c.p.c = true
	case opCLI:
		c.p.i = false
	case opSEI:
		c.p.i = true
	case opCLD:
		c.p.d = false
	case opSED:
		c.p.d = true
	case opCLV:
		c.p.v = false
	case opTYA:
		c.a = c.y
		c.setZN(c.a)
	case opTXA:
		c.a = c.x
		c.setZN(c.a)
	case opTXS:
		c.sp = c.x
	case opTAX:
		c.x = c.a
		c.setZN(c.x)
	case opTSX:
		c.x = c.sp
		c.setZN(c.x)
	default:
		return false
	}
	return true
}

func (c *CPU) executeBranch(opcode uint8) bool {
	if !isBranch(opcode) {
		return false
	}

	var flag bool
	switch branchOnFlag(opcode >> branchOnFlagShift) {
	case branchOnNegative:
		flag = c.p.n
	case branchOnOverflow:
		flag = c.p.v
	case branchOnCarry:
		flag = c.p.c
	case branchOnZero:
		flag = c.p.z
	}
	// taken when bit 5 and the flag agree: !(bit5 ^ flag)
	branch := (opcode&branchConditionMask != 0) == flag

	if !branch {
		c.pc++
		return true
	}

	offset := int8(c.read8(c.pc))
	c.pc++
	c.skipCycles++
	newPC := c.pc + uint16(offset)
	c.skipPageCrossCycles(c.pc, newPC, 1)
	c.pc = newPC
	return true
}

func (c *CPU) executeType1(opcode uint8) bool {
	if opcode&instructionModeMask != instructionGroup1 {
		return false
	}

	op := operation1(decodeOperation(opcode))
	var location uint16

	switch addrMode1(decodeAddrMode(opcode)) {
	case addrModeIndexedIndirectX:
		zeroAddr := c.x + c.read8(c.pc)
		c.pc++
		location = uint16(c.read8(uint16(zeroAddr))) | uint16(c.read8(uint16(zeroAddr+1)))<<8
	case addrModeZeroPage:
		location = uint16(c.read8(c.pc))
		c.pc++
	case addrModeImmediate:
		location = c.pc
		c.pc++
	case addrModeAbsolute:
		location = c.read16(c.pc)
		c.pc += 2
	case addrModeIndirectY:
		zeroAddr := c.read8(c.pc)
		c.pc++
		location = uint16(c.read8(uint16(zeroAddr))) | uint16(c.read8(uint16(zeroAddr+1)))<<8
		if op != opSTA {
			c.skipPageCrossCycles(location, location+uint16(c.y), 1)
		}
		location += uint16(c.y)
	case addrModeIndexedX:
		location = uint16(c.read8(c.pc) + c.x)
		c.pc++
	case addrModeAbsoluteY:
		location = c.read16(c.pc)
		c.pc += 2
		if op != opSTA {
			c.skipPageCrossCycles(location, location+uint16(c.y), 1)
		}
		location += uint16(c.y)
	case addrModeAbsoluteX:
		location = c.read16(c.pc)
		c.pc += 2
		if op != opSTA {
			c.skipPageCrossCycles(location, location+uint16(c.x), 1)
		}
		location += uint16(c.x)
	}

	switch op {
	case opORA:
		c.a |= c.read8(location)
		c.setZN(c.a)
	case opAND:
		c.a &= c.read8(location)
		c.setZN(c.a)
	case opEOR:
		c.a ^= c.read8(location)
		c.setZN(c.a)
	case opADC:
		operand := uint16(c.read8(location))
		sum := uint16(c.a) + operand
		if c.p.c {
			sum++
		}
		c.p.c = sum&0x100 != 0
		c.p.v = (uint16(c.a)^sum)&(operand^sum)&0x80 != 0
		c.a = uint8(sum)
		c.setZN(c.a)
	case opSTA:
		c.write8(location, c.a)
	case opLDA:
		c.a = c.read8(location)
		c.setZN(c.a)
	case opCMP:
		diff := uint16(c.a) - uint16(c.read8(location))
		c.p.c = diff&0x100 == 0
		c.setZN(uint8(diff))
	case opSBC:
		subtrahend := uint16(c.read8(location))
		diff := uint16(c.a) - subtrahend
		if !c.p.c {
			diff--
		}
		c.p.c = diff&0x100 == 0
		c.p.v = (uint16(c.a)^diff)&(^subtrahend^diff)&0x80 != 0
		c.a = uint8(diff)
		c.setZN(c.a)
	}
	return true
}

func (c *CPU) executeType2(opcode uint8) bool {
	if opcode&instructionModeMask != instructionGroup2 {
		return false
	}

	op := operation2(decodeOperation(opcode))
	mode := addrMode2(decodeAddrMode(opcode))
	index := c.x
	if op.usesIndexY() {
		index = c.y
	}
	var location uint16

	switch mode {
	case addrMode2Immediate:
		location = c.pc
		c.pc++
	case addrMode2ZeroPage:
		location = uint16(c.read8(c.pc))
		c.pc++
	case addrMode2Accumulator:
	case addrMode2Absolute:
		location = c.read16(c.pc)
		c.pc += 2
	case addrMode2Indexed:
		location = uint16(c.read8(c.pc) + index)
		c.pc++
	case addrMode2AbsoluteIndexed:
		location = c.read16(c.pc)
		c.pc += 2
		c.skipPageCrossCycles(location, location+uint16(index), 1)
		location += uint16(index)
	default:
		return false
	}

	switch op {
	case opASL, opROL, opLSR, opROR:
		if mode == addrMode2Accumulator {
			c.a = c.shift(op, c.a)
			c.setZN(c.a)
			break
		}
		operand := c.shift(op, c.read8(location))
		c.setZN(operand)
		c.write8(location, operand)
	case opSTX:
		c.write8(location, c.x)
	case opLDX:
		c.x = c.read8(location)
		c.setZN(c.x)
	case opDEC:
		operand := c.read8(location) - 1
		c.setZN(operand)
		c.write8(location, operand)
	case opINC:
		operand := c.read8(location) + 1
		c.setZN(operand)
		c.write8(location, operand)
	}
	return true
}

// shift applies ASL/ROL/LSR/ROR to v and updates carry with the bit shifted out.
func (c *CPU) shift(op operation2, v uint8) uint8 {
	carryIn := c.p.c
	switch op {
	case opASL, opROL:
		c.p.c = v&0x80 != 0
		v <<= 1
		if op == opROL && carryIn {
			v |= 0x01
		}
	case opLSR, opROR:
		c.p.c = v&0x01 != 0
		v >>= 1
		if op == opROR && carryIn {
			v |= 0x80
		}
	}
	return v
}
