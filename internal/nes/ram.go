package nes

const (
	ramSizeBytes         = 0x800
	extendedRAMSizeBytes = 0x2000
)

// RAM is a plain byte array. Callers mask addresses into range.
type RAM struct {
	ram []uint8
}

func NewRAM(size int) *RAM {
	return &RAM{ram: make([]uint8, size)}
}

func (r *RAM) Read8(addr uint16) uint8 {
	return r.ram[addr]
}

func (r *RAM) Write8(addr uint16, data uint8) {
	r.ram[addr] = data
}

func (r *RAM) Len() int {
	return len(r.ram)
}
