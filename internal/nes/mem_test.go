package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mapperMock struct {
	mock.Mock
}

func (m *mapperMock) ReadPRG(addr uint16) uint8 {
	args := m.Called(addr)
	return args.Get(0).(uint8)
}

func (m *mapperMock) WritePRG(addr uint16, data uint8) {
	m.Called(addr, data)
}

func (m *mapperMock) ReadCHR(addr uint16) uint8 {
	args := m.Called(addr)
	return args.Get(0).(uint8)
}

func (m *mapperMock) WriteCHR(addr uint16, data uint8) {
	m.Called(addr, data)
}

func (m *mapperMock) HasExtendedRAM() bool {
	return m.Called().Bool(0)
}

func newTestBus(extendedRAM bool) (*MainBus, *mapperMock) {
	mapper := &mapperMock{}
	mapper.On("HasExtendedRAM").Return(extendedRAM)
	bus := NewMainBus()
	bus.SetMapper(mapper)
	return bus, mapper
}

func TestMainBus_RAMMirroring(t *testing.T) {
	bus, _ := newTestBus(false)

	for addr := uint16(0); addr < 0x0800; addr += 0x33 {
		bus.Write8(addr, uint8(addr))
		for mirror := addr; mirror < 0x2000; mirror += 0x0800 {
			assert.Equal(t, uint8(addr), bus.Read8(mirror), "read $%04X", mirror)
		}
	}

	// writes through a mirror land in the same cell
	bus.Write8(0x1abc, 0x42)
	assert.Equal(t, uint8(0x42), bus.Read8(0x02bc))
}

func TestMainBus_Peripherals(t *testing.T) {
	bus, mapper := newTestBus(false)

	for _, addr := range []uint16{0x2000, 0x2002, 0x4016, 0x5fff, 0x6000, 0x7fff} {
		bus.Write8(addr, 0xff)
		assert.Equal(t, uint8(0), bus.Read8(addr), "read $%04X", addr)
	}
	mapper.AssertNotCalled(t, "WritePRG", mock.Anything, mock.Anything)
}

func TestMainBus_ExtendedRAM(t *testing.T) {
	bus, _ := newTestBus(true)

	bus.Write8(0x6000, 0x11)
	bus.Write8(0x7fff, 0x22)
	assert.Equal(t, uint8(0x11), bus.Read8(0x6000))
	assert.Equal(t, uint8(0x22), bus.Read8(0x7fff))
	assert.Equal(t, uint8(0), bus.Read8(0x5fff))
	assert.Equal(t, extendedRAMSizeBytes, bus.extendedRAM.Len())
}

func TestMainBus_Cartridge(t *testing.T) {
	bus, mapper := newTestBus(false)
	mapper.On("ReadPRG", uint16(0x8000)).Return(uint8(0xa9)).Once()
	mapper.On("ReadPRG", uint16(0xffff)).Return(uint8(0x12)).Once()
	mapper.On("WritePRG", uint16(0xc123), uint8(0x55)).Once()

	assert.Equal(t, uint8(0xa9), bus.Read8(0x8000))
	bus.Write8(0xc123, 0x55)

	// high byte of $FFFF comes from $0000
	bus.Write8(0x0000, 0x34)
	assert.Equal(t, uint16(0x3412), bus.Read16(0xffff))

	mapper.AssertExpectations(t)
}

func TestMainBus_NoMapper(t *testing.T) {
	bus := NewMainBus()
	bus.Write8(0x8000, 0x01)
	assert.Equal(t, uint8(0), bus.Read8(0x8000))
	assert.Nil(t, bus.extendedRAM)
}

func TestPPUMemory(t *testing.T) {
	mapper := &mapperMock{}
	mapper.On("ReadCHR", uint16(0x0fff)).Return(uint8(0x77)).Twice()
	mapper.On("WriteCHR", uint16(0x1000), uint8(0x01)).Once()
	mem := newPpuMemory(mapper)

	assert.Equal(t, uint8(0x77), mem.Read8(0x0fff))
	assert.Equal(t, uint8(0x77), mem.Read8(0x4fff), "addresses wrap at $4000")
	mem.Write8(0x1000, 0x01)
	mem.Write8(0x2000, 0x01)
	assert.Equal(t, uint8(0), mem.Read8(0x3f00))

	mapper.AssertExpectations(t)
}
