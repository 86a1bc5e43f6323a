package nes

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
)

const (
	inesMagic        = 0x1a53454e // "NES\x1a"
	prgBankSizeBytes = 0x4000
	chrBankSizeBytes = 0x2000
)

var (
	ErrInvalidSignature    = errors.New("not a valid iNES image")
	ErrNoPRGBanks          = errors.New("rom has no PRG-ROM banks")
	ErrTrainerUnsupported  = errors.New("trainer is not supported")
	ErrTVSystemUnsupported = errors.New("PAL rom is not supported")
)

type Mirroring uint8

const (
	MirroringHorizontal Mirroring = iota
	MirroringVertical
)

func (m Mirroring) String() string {
	if m == MirroringVertical {
		return "vertical"
	}
	return "horizontal"
}

// Cartridge is read-only once loaded.
type Cartridge struct {
	prgMem []uint8
	chrMem []uint8

	mirror      Mirroring
	mapperID    uint8
	extendedRAM bool
}

type inesHeader struct {
	Magic      uint32
	PrgRomSize uint8
	ChrRomSize uint8
	Flags6     uint8
	Flags7     uint8
	Flags8     uint8
	Flags9     uint8
	Flags10    uint8
	_          [5]uint8 // unused
}

// NewCartridgeFromFile reads a .nes file and returns a Cartridge.
// Supported NES format: iNES
func NewCartridgeFromFile(path string) (*Cartridge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open the file: %w", err)
	}
	defer file.Close()

	return LoadCartridge(file)
}

// NewCartridgeFromBytes is LoadCartridge over an in-memory image.
func NewCartridgeFromBytes(data []byte) (*Cartridge, error) {
	return LoadCartridge(bytes.NewReader(data))
}

// LoadCartridge parses an iNES image. It returns either a complete
// cartridge or an error, never a partially filled one.
func LoadCartridge(r io.Reader) (*Cartridge, error) {
	var header inesHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("couldn't read the header: %w", err)
	}

	if header.Magic != inesMagic {
		return nil, ErrInvalidSignature
	}
	if header.PrgRomSize == 0 {
		return nil, ErrNoPRGBanks
	}
	// bit 2 of flags6 is the trainer flag
	if header.Flags6&0x4 != 0 {
		return nil, ErrTrainerUnsupported
	}
	// flags10 bits 0-1: 0 NTSC, 2 PAL, 1 or 3 dual compatible
	if header.Flags10&0x3 == 0x2 || header.Flags10&0x1 != 0 {
		return nil, fmt.Errorf("%w: flags10=%02X", ErrTVSystemUnsupported, header.Flags10)
	}

	// flag6 and flag7 contain part of the mapper ID in 4 high bits
	// flag6: lower 4 bits of mapper ID
	// flag7: upper 4 bits of mapper ID
	cart := &Cartridge{
		prgMem:      make([]uint8, int(header.PrgRomSize)*prgBankSizeBytes),
		mirror:      Mirroring(header.Flags6 & 0x1),
		mapperID:    (header.Flags7 & 0xf0) | (header.Flags6 >> 4),
		extendedRAM: header.Flags6&0x2 != 0,
	}

	if _, err := io.ReadFull(r, cart.prgMem); err != nil {
		return nil, fmt.Errorf("couldn't read PRG ROM: %w", err)
	}

	if header.ChrRomSize > 0 {
		cart.chrMem = make([]uint8, int(header.ChrRomSize)*chrBankSizeBytes)
		if _, err := io.ReadFull(r, cart.chrMem); err != nil {
			return nil, fmt.Errorf("couldn't read CHR ROM: %w", err)
		}
	} else {
		glog.V(1).Info("cart: no CHR-ROM banks, cartridge uses CHR-RAM")
	}

	glog.V(1).Infof("cart: %d PRG banks, %d CHR banks, mapper %d, %s mirroring",
		header.PrgRomSize, header.ChrRomSize, cart.mapperID, cart.mirror)

	return cart, nil
}

func (c *Cartridge) PRG() []uint8 {
	return c.prgMem
}

func (c *Cartridge) CHR() []uint8 {
	return c.chrMem
}

func (c *Cartridge) Mirroring() Mirroring {
	return c.mirror
}

func (c *Cartridge) MapperID() uint8 {
	return c.mapperID
}

func (c *Cartridge) HasExtendedRAM() bool {
	return c.extendedRAM
}
