package nes

import "fmt"

// DisassembleAt decodes the instruction at addr with the same rules the
// CPU dispatches by. It returns the text and the instruction size in bytes.
// Opcodes the CPU would reject are shown as "???" with size 1.
func (c *CPU) DisassembleAt(addr uint16) (string, uint16) {
	opcode := c.read8(addr)
	if operationCycles[opcode] == 0 {
		return "???", 1
	}

	op8 := func() uint8 { return c.read8(addr + 1) }
	op16 := func() uint16 { return c.read16(addr + 1) }

	if isImplied(opcode) {
		name := operationImplied(opcode).String()
		switch operationImplied(opcode) {
		case opJSR, opJMP:
			return fmt.Sprintf("%s $%04X", name, op16()), 3
		case opJMPI:
			return fmt.Sprintf("%s ($%04X)", name, op16()), 3
		}
		return name, 1
	}

	if isBranch(opcode) {
		target := addr + 2 + uint16(int8(op8()))
		return fmt.Sprintf("%s $%04X", branchName(opcode), target), 2
	}

	switch opcode & instructionModeMask {
	case instructionGroup1:
		name := operation1(decodeOperation(opcode)).String()
		switch addrMode1(decodeAddrMode(opcode)) {
		case addrModeIndexedIndirectX:
			return fmt.Sprintf("%s ($%02X,X)", name, op8()), 2
		case addrModeZeroPage:
			return fmt.Sprintf("%s $%02X", name, op8()), 2
		case addrModeImmediate:
			return fmt.Sprintf("%s #$%02X", name, op8()), 2
		case addrModeAbsolute:
			return fmt.Sprintf("%s $%04X", name, op16()), 3
		case addrModeIndirectY:
			return fmt.Sprintf("%s ($%02X),Y", name, op8()), 2
		case addrModeIndexedX:
			return fmt.Sprintf("%s $%02X,X", name, op8()), 2
		case addrModeAbsoluteY:
			return fmt.Sprintf("%s $%04X,Y", name, op16()), 3
		case addrModeAbsoluteX:
			return fmt.Sprintf("%s $%04X,X", name, op16()), 3
		}
	case instructionGroup2:
		op := operation2(decodeOperation(opcode))
		index := "X"
		if op.usesIndexY() {
			index = "Y"
		}
		switch addrMode2(decodeAddrMode(opcode)) {
		case addrMode2Immediate:
			return fmt.Sprintf("%s #$%02X", op, op8()), 2
		case addrMode2ZeroPage:
			return fmt.Sprintf("%s $%02X", op, op8()), 2
		case addrMode2Accumulator:
			return fmt.Sprintf("%s A", op), 1
		case addrMode2Absolute:
			return fmt.Sprintf("%s $%04X", op, op16()), 3
		case addrMode2Indexed:
			return fmt.Sprintf("%s $%02X,%s", op, op8(), index), 2
		case addrMode2AbsoluteIndexed:
			return fmt.Sprintf("%s $%04X,%s", op, op16(), index), 3
		}
	}
	return "???", 1
}

// Disassemble returns count instructions starting at addr, one line each,
// prefixed with the address.
func (c *CPU) Disassemble(addr uint16, count int) []string {
	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		text, size := c.DisassembleAt(addr)
		lines = append(lines, fmt.Sprintf("$%04X: %s", addr, text))
		addr += size
	}
	return lines
}
