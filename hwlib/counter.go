// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/bv"
)

// CounterConfig configures a Counter. Width defaults to 32.
//
type CounterConfig struct {
	Width      int    `yaml:"width"`
	ResetValue uint64 `yaml:"reset_value"`
}

// Counter is an up/down counter with synchronous active low reset.
//
//	Clocks: clk (posedge)
//	Inputs: reset_n, increment, decrement
//	Outputs: count[Width]
//	Function: if !reset_n { count = ResetValue }
//	          else if increment && !decrement { count++ }
//	          else if decrement && !increment { count-- }
//
// The count wraps around modulo 2^Width.
//
type Counter struct {
	Clk rtlsim.ClockPin `rtl:"clock"`
	In  struct {
		ResetN    bv.Bit `rtl:"input,reset_n"`
		Increment bv.Bit `rtl:"input"`
		Decrement bv.Bit `rtl:"input"`
	}
	Out struct {
		Count bv.Bv `rtl:"output"`
	}

	cfg   CounterConfig
	reset bv.Bv
	one   bv.Bv
}

var counterTable = rtlsim.NewStateTable((*Counter)(nil))

// NewCounter returns a new counter.
//
func NewCounter(cfg CounterConfig) *Counter {
	if cfg.Width == 0 {
		cfg.Width = defaultWidth
	}
	return &Counter{cfg: cfg}
}

// Configure implements rtlsim.Component.
//
func (c *Counter) Configure(r *rtlsim.Registrar, h rtlsim.Handle) error {
	if err := checkWidth("counter width", c.cfg.Width); err != nil {
		return err
	}
	c.reset = bv.OfUint64(c.cfg.Width, c.cfg.ResetValue)
	c.one = bv.OfUint64(c.cfg.Width, 1)
	c.Out.Count = c.reset
	posedge(r, h)
	return nil
}

// Reset implements rtlsim.Component.
//
func (c *Counter) Reset(rtlsim.ResetReason) { c.Out.Count = c.reset }

// Clock implements rtlsim.Component.
//
func (c *Counter) Clock(rtlsim.EdgeMask) {
	inc, dec := c.In.Increment.Bool(), c.In.Decrement.Bool()
	switch {
	case !c.In.ResetN.Bool():
		c.Out.Count = c.reset
	case inc && !dec:
		c.Out.Count = c.Out.Count.Add(c.one)
	case dec && !inc:
		c.Out.Count = c.Out.Count.Sub(c.one)
	}
}

// Propagate implements rtlsim.Component.
//
func (c *Counter) Propagate(int) {}

// StateInfo implements rtlsim.Component.
//
func (c *Counter) StateInfo(i rtlsim.StateIndex) (rtlsim.StateInfo, bool) {
	return counterTable.Info(i)
}

// StateRef implements rtlsim.Component.
//
func (c *Counter) StateRef(i rtlsim.StateIndex) rtlsim.ValueRef { return counterTable.Ref(c, i) }
