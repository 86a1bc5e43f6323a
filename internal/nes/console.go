package nes

import (
	"fmt"

	"github.com/golang/glog"
)

// CPUFrequency is the NTSC CPU clock in Hz.
const CPUFrequency = 1789773

type Config struct {
	// StartAddr replaces the reset vector when UseStartAddr is set.
	// nestest uses $C000 to run without a PPU.
	StartAddr    uint16
	UseStartAddr bool
}

// Console owns the whole machine: cartridge -> mapper -> bus -> cpu.
type Console struct {
	cfg Config

	cart   *Cartridge
	mapper Mapper
	bus    *MainBus
	cpu    *CPU
	ppuMem *ppuMemory
}

func NewConsole(cart *Cartridge, cfg Config) (*Console, error) {
	mapper, err := NewMapper(cart)
	if err != nil {
		return nil, fmt.Errorf("couldn't create mapper: %w", err)
	}

	bus := NewMainBus()
	bus.SetMapper(mapper)

	c := &Console{
		cfg:    cfg,
		cart:   cart,
		mapper: mapper,
		bus:    bus,
		cpu:    NewCPU(bus),
		ppuMem: newPpuMemory(mapper),
	}
	c.Reset()
	return c, nil
}

func NewConsoleFromFile(path string, cfg Config) (*Console, error) {
	cart, err := NewCartridgeFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't load cartridge %s: %w", path, err)
	}
	return NewConsole(cart, cfg)
}

func (c *Console) Reset() {
	if c.cfg.UseStartAddr {
		c.cpu.ResetWithStartAddr(c.cfg.StartAddr)
	} else {
		c.cpu.Reset()
	}
	glog.V(1).Infof("console: reset, PC=$%04X", c.cpu.pc)
}

// Step advances the machine by one CPU clock cycle.
func (c *Console) Step() {
	c.cpu.Step()
}

// Run steps the machine the given number of cycles.
func (c *Console) Run(cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		c.Step()
	}
}

func (c *Console) CPU() *CPU {
	return c.cpu
}

func (c *Console) Bus() *MainBus {
	return c.bus
}

func (c *Console) Cartridge() *Cartridge {
	return c.cart
}

// PPUMemory is the pattern table view a picture unit would read through.
func (c *Console) PPUMemory() ReadWriter {
	return c.ppuMem
}
