// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/bv"
)

// RegisterConfig configures a Register. Width defaults to 32.
//
type RegisterConfig struct {
	Width      int    `yaml:"width"`
	ResetValue uint64 `yaml:"reset_value"`
	Negedge    bool   `yaml:"negedge"`
}

// Register is a clocked data register with enable.
//
//	Clocks: clk (posedge, or negedge if Negedge is set)
//	Inputs: d[Width], en
//	Outputs: q[Width]
//	Function: if en { q(t) = d(t-1) } // where t is the current clock cycle.
//
type Register struct {
	Clk rtlsim.ClockPin `rtl:"clock"`
	In  struct {
		D  bv.Bv  `rtl:"input"`
		En bv.Bit `rtl:"input"`
	}
	Out struct {
		Q bv.Bv `rtl:"output"`
	}

	cfg   RegisterConfig
	reset bv.Bv
}

var registerTable = rtlsim.NewStateTable((*Register)(nil))

// NewRegister returns a new register.
//
func NewRegister(cfg RegisterConfig) *Register {
	if cfg.Width == 0 {
		cfg.Width = defaultWidth
	}
	return &Register{cfg: cfg}
}

// Configure implements rtlsim.Component.
//
func (g *Register) Configure(r *rtlsim.Registrar, h rtlsim.Handle) error {
	if err := checkWidth("register width", g.cfg.Width); err != nil {
		return err
	}
	g.reset = bv.OfUint64(g.cfg.Width, g.cfg.ResetValue)
	g.In.D = bv.New(g.cfg.Width)
	g.Out.Q = g.reset
	r.RegisterInputEdge(h, 0, !g.cfg.Negedge, g.cfg.Negedge)
	return nil
}

// Reset implements rtlsim.Component.
//
func (g *Register) Reset(rtlsim.ResetReason) { g.Out.Q = g.reset }

// Clock implements rtlsim.Component.
//
func (g *Register) Clock(rtlsim.EdgeMask) {
	if g.In.En.Bool() {
		g.Out.Q = g.In.D
	}
}

// Propagate implements rtlsim.Component.
//
func (g *Register) Propagate(int) {}

// StateInfo implements rtlsim.Component.
//
func (g *Register) StateInfo(i rtlsim.StateIndex) (rtlsim.StateInfo, bool) {
	return registerTable.Info(i)
}

// StateRef implements rtlsim.Component.
//
func (g *Register) StateRef(i rtlsim.StateIndex) rtlsim.ValueRef { return registerTable.Ref(g, i) }
