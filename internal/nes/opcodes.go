package nes

// Opcode layout used by the decoder:
//
//	aaabbbcc
//	     ^^  cc:  instruction group
//	  ^^^    bbb: addressing mode (groups 1 and 2)
//	^^^      aaa: operation (groups 1 and 2)
//
// Branches are xxy10000: xx selects the flag, y the expected value.
const (
	instructionModeMask = uint8(0x3)

	operationMask  = uint8(0xe0)
	operationShift = 5

	addrModeMask  = uint8(0x1c)
	addrModeShift = 2

	branchInstructionMask       = uint8(0x1f)
	branchInstructionMaskResult = uint8(0x10)
	branchConditionMask         = uint8(0x20)
	branchOnFlagShift           = 6
)

const (
	resetVector    = uint16(0xfffc)
	stackStartAddr = uint16(0x100)
)

// Values of opcode&instructionModeMask. The remaining encoding, 0,
// holds BIT/STY/LDY/CPY/CPX, which this core does not implement.
const (
	instructionGroup1 = uint8(0x1)
	instructionGroup2 = uint8(0x2)
)

func isBranch(opcode uint8) bool {
	return opcode&branchInstructionMask == branchInstructionMaskResult
}

type branchOnFlag uint8

const (
	branchOnNegative branchOnFlag = iota
	branchOnOverflow
	branchOnCarry
	branchOnZero
)

type operation1 uint8

const (
	opORA operation1 = iota
	opAND
	opEOR
	opADC
	opSTA
	opLDA
	opCMP
	opSBC
)

var operation1Names = [...]string{"ORA", "AND", "EOR", "ADC", "STA", "LDA", "CMP", "SBC"}

func (op operation1) String() string {
	return operation1Names[op&0x7]
}

type addrMode1 uint8

const (
	addrModeIndexedIndirectX addrMode1 = iota // ($nn,X)
	addrModeZeroPage                          // $nn
	addrModeImmediate                         // #$nn
	addrModeAbsolute                          // $nnnn
	addrModeIndirectY                         // ($nn),Y
	addrModeIndexedX                          // $nn,X
	addrModeAbsoluteY                         // $nnnn,Y
	addrModeAbsoluteX                         // $nnnn,X
)

type operation2 uint8

const (
	opASL operation2 = iota
	opROL
	opLSR
	opROR
	opSTX
	opLDX
	opDEC
	opINC
)

var operation2Names = [...]string{"ASL", "ROL", "LSR", "ROR", "STX", "LDX", "DEC", "INC"}

func (op operation2) String() string {
	return operation2Names[op&0x7]
}

// usesIndexY reports whether indexed modes of op are indexed by Y instead of X.
func (op operation2) usesIndexY() bool {
	return op == opSTX || op == opLDX
}

type addrMode2 uint8

const (
	addrMode2Immediate       addrMode2 = 0
	addrMode2ZeroPage        addrMode2 = 1
	addrMode2Accumulator     addrMode2 = 2
	addrMode2Absolute        addrMode2 = 3
	addrMode2Indexed         addrMode2 = 5
	addrMode2AbsoluteIndexed addrMode2 = 7
)

func decodeOperation(opcode uint8) uint8 {
	return (opcode & operationMask) >> operationShift
}

func decodeAddrMode(opcode uint8) uint8 {
	return (opcode & addrModeMask) >> addrModeShift
}

type operationImplied uint8

const (
	opNOP  operationImplied = 0xea
	opJSR  operationImplied = 0x20
	opRTI  operationImplied = 0x40
	opRTS  operationImplied = 0x60
	opJMP  operationImplied = 0x4c
	opJMPI operationImplied = 0x6c // JMP indirect
	opPHP  operationImplied = 0x08
	opPLP  operationImplied = 0x28
	opPHA  operationImplied = 0x48
	opPLA  operationImplied = 0x68
	opDEY  operationImplied = 0x88
	opDEX  operationImplied = 0xca
	opTAY  operationImplied = 0xa8
	opINY  operationImplied = 0xc8
	opINX  operationImplied = 0xe8
	opCLC  operationImplied = 0x18
	opSEC  operationImplied = 0x38
	opCLI  operationImplied = 0x58
	opSEI  operationImplied = 0x78
	opTYA  operationImplied = 0x98
	opCLV  operationImplied = 0xb8
	opCLD  operationImplied = 0xd8
	opSED  operationImplied = 0xf8
	opTXA  operationImplied = 0x8a
	opTXS  operationImplied = 0x9a
	opTAX  operationImplied = 0xaa
	opTSX  operationImplied = 0xba
)

var impliedNames = map[operationImplied]string{
	opNOP: "NOP", opJSR: "JSR", opRTI: "RTI", opRTS: "RTS",
	opJMP: "JMP", opJMPI: "JMP", opPHP: "PHP", opPLP: "PLP",
	opPHA: "PHA", opPLA: "PLA", opDEY: "DEY", opDEX: "DEX",
	opTAY: "TAY", opINY: "INY", opINX: "INX", opCLC: "CLC",
	opSEC: "SEC", opCLI: "CLI", opSEI: "SEI", opTYA: "TYA",
	opCLV: "CLV", opCLD: "CLD", opSED: "SED", opTXA: "TXA",
	opTXS: "TXS", opTAX: "TAX", opTSX: "TSX",
}

func (op operationImplied) String() string {
	if name, ok := impliedNames[op]; ok {
		return name
	}
	return "???"
}

func isImplied(opcode uint8) bool {
	_, ok := impliedNames[operationImplied(opcode)]
	return ok
}

var branchNames = [4][2]string{
	branchOnNegative: {"BPL", "BMI"},
	branchOnOverflow: {"BVC", "BVS"},
	branchOnCarry:    {"BCC", "BCS"},
	branchOnZero:     {"BNE", "BEQ"},
}

func branchName(opcode uint8) string {
	flag := opcode >> branchOnFlagShift
	if opcode&branchConditionMask != 0 {
		return branchNames[flag][1]
	}
	return branchNames[flag][0]
}

// operationCycles holds the base cost of every opcode.
// 0 marks an opcode the core never dispatches.
var operationCycles = [0x100]uint8{
	7, 6, 0, 0, 0, 3, 5, 0, 3, 2, 2, 0, 0, 4, 6, 0,
	2, 5, 0, 0, 0, 4, 6, 0, 2, 4, 0, 0, 0, 4, 7, 0,
	6, 6, 0, 0, 3, 3, 5, 0, 4, 2, 2, 0, 4, 4, 6, 0,
	2, 5, 0, 0, 0, 4, 6, 0, 2, 4, 0, 0, 0, 4, 7, 0,
	6, 6, 0, 0, 0, 3, 5, 0, 3, 2, 2, 0, 3, 4, 6, 0,
	2, 5, 0, 0, 0, 4, 6, 0, 2, 4, 0, 0, 0, 4, 7, 0,
	6, 6, 0, 0, 0, 3, 5, 0, 4, 2, 2, 0, 5, 4, 6, 0,
	2, 5, 0, 0, 0, 4, 6, 0, 2, 4, 0, 0, 0, 4, 7, 0,
	0, 6, 0, 0, 3, 3, 3, 0, 2, 0, 2, 0, 4, 4, 4, 0,
	2, 6, 0, 0, 4, 4, 4, 0, 2, 5, 2, 0, 0, 5, 0, 0,
	2, 6, 2, 0, 3, 3, 3, 0, 2, 2, 2, 0, 4, 4, 4, 0,
	2, 5, 0, 0, 4, 4, 4, 0, 2, 4, 2, 0, 4, 4, 4, 0,
	2, 6, 0, 0, 3, 3, 5, 0, 2, 2, 2, 0, 4, 4, 6, 0,
	2, 5, 0, 0, 0, 4, 6, 0, 2, 4, 0, 0, 0, 4, 7, 0,
	2, 6, 0, 0, 3, 3, 5, 0, 2, 2, 2, 2, 4, 4, 6, 0,
	2, 5, 0, 0, 0, 4, 6, 0, 2, 4, 0, 0, 0, 4, 7, 0,
}
