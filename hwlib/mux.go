// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/bv"
)

// MuxConfig configures a Mux or DMux. Width defaults to 32.
//
type MuxConfig struct {
	Width int `yaml:"width"`
}

// Mux returns a multiplexer.
//
//	Inputs: a[Width], b[Width], sel
//	Outputs: out[Width]
//	Function: if sel == 0 { out = a } else { out = b }
//
type Mux struct {
	In struct {
		A   bv.Bv  `rtl:"input"`
		B   bv.Bv  `rtl:"input"`
		Sel bv.Bit `rtl:"input"`
	}
	Out struct {
		Out bv.Bv `rtl:"output"`
	}

	cfg MuxConfig
}

var muxTable = rtlsim.NewStateTable((*Mux)(nil))

// NewMux returns a new multiplexer.
//
func NewMux(cfg MuxConfig) *Mux {
	if cfg.Width == 0 {
		cfg.Width = defaultWidth
	}
	return &Mux{cfg: cfg}
}

// Configure implements rtlsim.Component.
//
func (m *Mux) Configure(r *rtlsim.Registrar, h rtlsim.Handle) error {
	if err := checkWidth("mux width", m.cfg.Width); err != nil {
		return err
	}
	m.In.A = bv.New(m.cfg.Width)
	m.In.B = bv.New(m.cfg.Width)
	m.Reset(rtlsim.ResetStart)
	r.DeclareCombStages(h, 1)
	return nil
}

// Reset implements rtlsim.Component.
//
func (m *Mux) Reset(rtlsim.ResetReason) { m.Out.Out = bv.New(m.cfg.Width) }

// Clock implements rtlsim.Component.
//
func (m *Mux) Clock(rtlsim.EdgeMask) {}

// Propagate implements rtlsim.Component.
//
func (m *Mux) Propagate(int) {
	if m.In.Sel.Bool() {
		m.Out.Out = m.In.B
	} else {
		m.Out.Out = m.In.A
	}
}

// StateInfo implements rtlsim.Component.
//
func (m *Mux) StateInfo(i rtlsim.StateIndex) (rtlsim.StateInfo, bool) { return muxTable.Info(i) }

// StateRef implements rtlsim.Component.
//
func (m *Mux) StateRef(i rtlsim.StateIndex) rtlsim.ValueRef { return muxTable.Ref(m, i) }

// DMux returns a demultiplexer.
//
//	Inputs: in[Width], sel
//	Outputs: a[Width], b[Width]
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
//
type DMux struct {
	In struct {
		In  bv.Bv  `rtl:"input"`
		Sel bv.Bit `rtl:"input"`
	}
	Out struct {
		A bv.Bv `rtl:"output"`
		B bv.Bv `rtl:"output"`
	}

	cfg MuxConfig
}

var dmuxTable = rtlsim.NewStateTable((*DMux)(nil))

// NewDMux returns a new demultiplexer.
//
func NewDMux(cfg MuxConfig) *DMux {
	if cfg.Width == 0 {
		cfg.Width = defaultWidth
	}
	return &DMux{cfg: cfg}
}

// Configure implements rtlsim.Component.
//
func (d *DMux) Configure(r *rtlsim.Registrar, h rtlsim.Handle) error {
	if err := checkWidth("demux width", d.cfg.Width); err != nil {
		return err
	}
	d.In.In = bv.New(d.cfg.Width)
	d.Reset(rtlsim.ResetStart)
	r.DeclareCombStages(h, 1)
	return nil
}

// Reset implements rtlsim.Component.
//
func (d *DMux) Reset(rtlsim.ResetReason) {
	d.Out.A = bv.New(d.cfg.Width)
	d.Out.B = bv.New(d.cfg.Width)
}

// Clock implements rtlsim.Component.
//
func (d *DMux) Clock(rtlsim.EdgeMask) {}

// Propagate implements rtlsim.Component.
//
func (d *DMux) Propagate(int) {
	zero := bv.New(d.cfg.Width)
	if d.In.Sel.Bool() {
		d.Out.A, d.Out.B = zero, d.In.In
	} else {
		d.Out.A, d.Out.B = d.In.In, zero
	}
}

// StateInfo implements rtlsim.Component.
//
func (d *DMux) StateInfo(i rtlsim.StateIndex) (rtlsim.StateInfo, bool) { return dmuxTable.Info(i) }

// StateRef implements rtlsim.Component.
//
func (d *DMux) StateRef(i rtlsim.StateIndex) rtlsim.ValueRef { return dmuxTable.Ref(d, i) }
