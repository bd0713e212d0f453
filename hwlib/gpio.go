// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/bv"
)

// GPIO register addresses.
//
const (
	GPIOOut = iota // output value, read/write
	GPIOOe         // output enable, read/write
	GPIOIn         // synchronized pin input, read only
	GPIOToggle     // write only: out ^= write_data
)

// GPIOAddrWidth is the width of the GPIO register address.
//
const GPIOAddrWidth = 2

// GPIOConfig configures a GPIO. Width defaults to 32.
//
type GPIOConfig struct {
	Width int `yaml:"width"`
}

// GPIO is a general purpose I/O bus target.
//
//	Clocks: clk (posedge)
//	Inputs: address[2], write_enable, write_data[Width], read_enable, pins_in[Width]
//	Outputs: read_data[Width], pins_out[Width], pins_oe[Width]
//	State: sync[Width] // first synchronizer stage
//
// pins_in goes through a two stage synchronizer before it can be read at
// GPIOIn: a pin change is visible two clock cycles later. Register reads
// return the values before the write of the same edge.
//
type GPIO struct {
	Clk rtlsim.ClockPin `rtl:"clock"`
	In  struct {
		Address     bv.Bv  `rtl:"input"`
		WriteEnable bv.Bit `rtl:"input,write_enable"`
		WriteData   bv.Bv  `rtl:"input,write_data"`
		ReadEnable  bv.Bit `rtl:"input,read_enable"`
		PinsIn      bv.Bv  `rtl:"input,pins_in"`
	}
	Out struct {
		ReadData bv.Bv `rtl:"output,read_data"`
		PinsOut  bv.Bv `rtl:"output,pins_out"`
		PinsOe   bv.Bv `rtl:"output,pins_oe"`
	}
	Sync struct {
		S1 bv.Bv `rtl:"state,sync"`
		S2 bv.Bv `rtl:"state,in"`
	}

	cfg GPIOConfig
}

var gpioTable = rtlsim.NewStateTable((*GPIO)(nil))

// NewGPIO returns a new GPIO.
//
func NewGPIO(cfg GPIOConfig) *GPIO {
	if cfg.Width == 0 {
		cfg.Width = defaultWidth
	}
	return &GPIO{cfg: cfg}
}

// Configure implements rtlsim.Component.
//
func (g *GPIO) Configure(r *rtlsim.Registrar, h rtlsim.Handle) error {
	if err := checkWidth("GPIO width", g.cfg.Width); err != nil {
		return err
	}
	g.In.Address = bv.New(GPIOAddrWidth)
	g.In.WriteData = bv.New(g.cfg.Width)
	g.In.PinsIn = bv.New(g.cfg.Width)
	g.Reset(rtlsim.ResetStart)
	posedge(r, h)
	return nil
}

// Reset implements rtlsim.Component.
//
func (g *GPIO) Reset(rtlsim.ResetReason) {
	w := g.cfg.Width
	g.Out.ReadData = bv.New(w)
	g.Out.PinsOut = bv.New(w)
	g.Out.PinsOe = bv.New(w)
	g.Sync.S1 = bv.New(w)
	g.Sync.S2 = bv.New(w)
}

// Clock implements rtlsim.Component.
//
func (g *GPIO) Clock(rtlsim.EdgeMask) {
	addr := g.In.Address.Uint64()
	if g.In.ReadEnable.Bool() {
		switch addr {
		case GPIOOut:
			g.Out.ReadData = g.Out.PinsOut
		case GPIOOe:
			g.Out.ReadData = g.Out.PinsOe
		case GPIOIn:
			g.Out.ReadData = g.Sync.S2
		default:
			g.Out.ReadData = bv.New(g.cfg.Width)
		}
	}
	g.Sync.S2, g.Sync.S1 = g.Sync.S1, g.In.PinsIn
	if g.In.WriteEnable.Bool() {
		switch addr {
		case GPIOOut:
			g.Out.PinsOut = g.In.WriteData
		case GPIOOe:
			g.Out.PinsOe = g.In.WriteData
		case GPIOToggle:
			g.Out.PinsOut = g.Out.PinsOut.Xor(g.In.WriteData)
		}
	}
}

// Propagate implements rtlsim.Component.
//
func (g *GPIO) Propagate(int) {}

// StateInfo implements rtlsim.Component.
//
func (g *GPIO) StateInfo(i rtlsim.StateIndex) (rtlsim.StateInfo, bool) { return gpioTable.Info(i) }

// StateRef implements rtlsim.Component.
//
func (g *GPIO) StateRef(i rtlsim.StateIndex) rtlsim.ValueRef { return gpioTable.Ref(g, i) }
