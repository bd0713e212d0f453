// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/bv"
	"github.com/pkg/errors"
)

// MemoryConfig configures a Memory. DataWidth and AddrWidth default to 32.
//
type MemoryConfig struct {
	Size      int `yaml:"size"`
	DataWidth int `yaml:"data_width"`
	AddrWidth int `yaml:"addr_width"`
}

// Memory is a single port synchronous RAM.
//
//	Clocks: clk (posedge)
//	Inputs: read_enable, write_enable, address[AddrWidth], write_data[DataWidth]
//	Outputs: read_data[DataWidth], read_valid
//	Function: if read_enable { read_data, read_valid = mem[address], address < size }
//	          if write_enable && address < size { mem[address] = write_data }
//
// Reads happen before writes: reading and writing the same address on the same
// edge returns the old value. An out of range read clears read_valid and
// leaves read_data unchanged.
//
type Memory struct {
	Clk rtlsim.ClockPin `rtl:"clock"`
	In  struct {
		ReadEnable  bv.Bit `rtl:"input,read_enable"`
		WriteEnable bv.Bit `rtl:"input,write_enable"`
		Address     bv.Bv  `rtl:"input"`
		WriteData   bv.Bv  `rtl:"input,write_data"`
	}
	Out struct {
		ReadData  bv.Bv  `rtl:"output,read_data"`
		ReadValid bv.Bit `rtl:"output,read_valid"`
	}

	cfg   MemoryConfig
	cells []bv.Bv
}

var memoryTable = rtlsim.NewStateTable((*Memory)(nil))

// NewMemory returns a new memory.
//
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.DataWidth == 0 {
		cfg.DataWidth = defaultWidth
	}
	if cfg.AddrWidth == 0 {
		cfg.AddrWidth = defaultWidth
	}
	return &Memory{cfg: cfg}
}

// Configure implements rtlsim.Component.
//
func (m *Memory) Configure(r *rtlsim.Registrar, h rtlsim.Handle) error {
	c := &m.cfg
	if c.Size < 1 {
		return errors.Wrapf(ErrConfig, "memory size %d", c.Size)
	}
	if err := checkWidth("data width", c.DataWidth); err != nil {
		return err
	}
	if c.AddrWidth < 1 || c.AddrWidth > 64 {
		return errors.Wrapf(ErrConfig, "address width %d out of range [1, 64]", c.AddrWidth)
	}
	if c.AddrWidth < 64 && uint64(c.Size-1)>>uint(c.AddrWidth) != 0 {
		return errors.Wrapf(ErrConfig, "address width %d cannot address %d words", c.AddrWidth, c.Size)
	}
	m.cells = make([]bv.Bv, c.Size)
	for i := range m.cells {
		m.cells[i] = bv.New(c.DataWidth)
	}
	m.In.Address = bv.New(c.AddrWidth)
	m.In.WriteData = bv.New(c.DataWidth)
	m.Out.ReadData = bv.New(c.DataWidth)
	posedge(r, h)
	return nil
}

// Size returns the number of words of the memory.
//
func (m *Memory) Size() int { return len(m.cells) }

// Word returns the content of the memory at address addr.
//
func (m *Memory) Word(addr int) bv.Bv { return m.cells[addr] }

// Reset clears the outputs. On simulation start, the memory content is
// cleared as well.
//
func (m *Memory) Reset(reason rtlsim.ResetReason) {
	if reason == rtlsim.ResetStart {
		for i := range m.cells {
			m.cells[i] = bv.New(m.cfg.DataWidth)
		}
	}
	m.Out.ReadData = bv.New(m.cfg.DataWidth)
	m.Out.ReadValid = bv.Zero
}

func (m *Memory) addr() (int, bool) {
	a, ok := m.In.Address.TryUint64()
	if !ok || a >= uint64(len(m.cells)) {
		return 0, false
	}
	return int(a), true
}

// Clock implements rtlsim.Component.
//
func (m *Memory) Clock(rtlsim.EdgeMask) {
	a, ok := m.addr()
	if m.In.ReadEnable.Bool() {
		m.Out.ReadValid = bv.OfBool(ok)
		if ok {
			m.Out.ReadData = m.cells[a]
		}
	} else {
		m.Out.ReadValid = bv.Zero
	}
	if ok && m.In.WriteEnable.Bool() {
		m.cells[a] = m.In.WriteData
	}
}

// Propagate implements rtlsim.Component.
//
func (m *Memory) Propagate(int) {}

// StateInfo implements rtlsim.Component.
//
func (m *Memory) StateInfo(i rtlsim.StateIndex) (rtlsim.StateInfo, bool) { return memoryTable.Info(i) }

// StateRef implements rtlsim.Component.
//
func (m *Memory) StateRef(i rtlsim.StateIndex) rtlsim.ValueRef { return memoryTable.Ref(m, i) }
