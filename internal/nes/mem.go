package nes

import (
	"github.com/golang/glog"
)

type ReadWriter interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, data uint8)
}

// MainBus is the CPU address space.
//
// $0000-$07FF: 2 KB of internal RAM
// $0800-$1FFF: Mirrors of $0000-$07FF
// $2000-$5FFF: PPU, APU and I/O registers. Not implemented: reads return 0, writes are dropped
// $6000-$7FFF: Extended work RAM when the cartridge has it, otherwise same as above
// $8000-$FFFF: PRG-ROM through the mapper
type MainBus struct {
	ram         *RAM
	extendedRAM *RAM
	mapper      Mapper
}

func NewMainBus() *MainBus {
	return &MainBus{
		ram: NewRAM(ramSizeBytes),
	}
}

// SetMapper attaches the cartridge side of the address space.
func (b *MainBus) SetMapper(mapper Mapper) {
	b.mapper = mapper
	b.extendedRAM = nil
	if mapper != nil && mapper.HasExtendedRAM() {
		b.extendedRAM = NewRAM(extendedRAMSizeBytes)
		glog.V(1).Info("bus: extended work RAM mapped at $6000-$7FFF")
	}
}

func (b *MainBus) Read8(addr uint16) uint8 {
	switch {
	// read from ram
	case addr < 0x2000:
		return b.ram.Read8(addr & 0x07FF)
	// read from cartridge
	case addr >= 0x8000:
		if b.mapper == nil {
			return 0
		}
		return b.mapper.ReadPRG(addr)
	// read from extended ram
	case addr >= 0x6000 && b.extendedRAM != nil:
		return b.extendedRAM.Read8(addr - 0x6000)
	}

	if glog.V(2) {
		glog.Infof("bus: read from unimplemented peripheral address $%04X", addr)
	}
	return 0
}

func (b *MainBus) Write8(addr uint16, data uint8) {
	switch {
	// write to ram
	case addr < 0x2000:
		b.ram.Write8(addr&0x07FF, data)
		return
	// write to cartridge
	case addr >= 0x8000:
		if b.mapper != nil {
			b.mapper.WritePRG(addr, data)
		}
		return
	// write to extended ram
	case addr >= 0x6000 && b.extendedRAM != nil:
		b.extendedRAM.Write8(addr-0x6000, data)
		return
	}

	if glog.V(2) {
		glog.Infof("bus: write $%02X to unimplemented peripheral address $%04X", data, addr)
	}
}

// Read16 reads a little endian word. The high byte comes from addr+1
// through the same decoding as Read8, so $FFFF pairs with $0000.
func (b *MainBus) Read16(addr uint16) uint16 {
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}

// $0000-$0FFF: Pattern table 0
// $1000-$1FFF: Pattern table 1
// $2000-$3FFF: Nametables and palette, owned by a PPU that does not exist yet
type ppuMemory struct {
	mapper Mapper
}

func newPpuMemory(mapper Mapper) *ppuMemory {
	return &ppuMemory{mapper: mapper}
}

func (p *ppuMemory) Read8(addr uint16) uint8 {
	addr &= 0x3FFF
	if addr < 0x2000 {
		return p.mapper.ReadCHR(addr)
	}
	return 0
}

func (p *ppuMemory) Write8(addr uint16, data uint8) {
	addr &= 0x3FFF
	if addr < 0x2000 {
		p.mapper.WriteCHR(addr, data)
	}
}
