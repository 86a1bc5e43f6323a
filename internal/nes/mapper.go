package nes

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
)

const chrRAMSizeBytes = 0x2000

var ErrUnsupportedMapper = errors.New("mapper is not supported")

// Mapper translates CPU ($8000-$FFFF) and PPU ($0000-$1FFF) addresses
// into the cartridge buffers.
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, data uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, data uint8)
	HasExtendedRAM() bool
}

func NewMapper(cart *Cartridge) (Mapper, error) {
	switch cart.mapperID {
	case 0:
		return NewMapper0(cart), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, cart.mapperID)
}

// Mapper0 is NROM: one or two fixed 16 KB PRG banks and 8 KB of CHR.
type Mapper0 struct {
	cart *Cartridge

	oneBank    bool
	usesCHRRAM bool
	chrRAM     []uint8
}

func NewMapper0(cart *Cartridge) *Mapper0 {
	m := &Mapper0{}
	m.load(cart)
	return m
}

func (m *Mapper0) load(cart *Cartridge) {
	m.cart = cart
	m.oneBank = len(cart.prgMem) == prgBankSizeBytes

	if len(cart.chrMem) == 0 {
		m.usesCHRRAM = true
		m.chrRAM = make([]uint8, chrRAMSizeBytes)
		glog.V(1).Info("mapper0: uses CHR-RAM")
		return
	}
	m.usesCHRRAM = false
	m.chrRAM = nil
	glog.V(1).Info("mapper0: uses CHR-ROM")
}

// ReadPRG expects addr in $8000-$FFFF. A single bank is mirrored into $C000-$FFFF.
func (m *Mapper0) ReadPRG(addr uint16) uint8 {
	if m.oneBank {
		return m.cart.prgMem[(addr-0x8000)&0x3FFF]
	}
	return m.cart.prgMem[addr-0x8000]
}

func (m *Mapper0) WritePRG(addr uint16, data uint8) {
	glog.Warningf("mapper0: ROM memory write attempt at $%04X to set $%02X", addr, data)
}

// ReadCHR panics when addr is outside the 8 KB pattern area.
func (m *Mapper0) ReadCHR(addr uint16) uint8 {
	if m.usesCHRRAM {
		return m.chrRAM[addr]
	}
	return m.cart.chrMem[addr]
}

func (m *Mapper0) WriteCHR(addr uint16, data uint8) {
	if m.usesCHRRAM {
		m.chrRAM[addr] = data
		return
	}
	glog.Warningf("mapper0: read-only CHR memory write attempt at $%04X to set $%02X", addr, data)
}

func (m *Mapper0) HasExtendedRAM() bool {
	return m.cart.extendedRAM
}
