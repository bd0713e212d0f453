// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/bv"
)

// ALU operation codes.
//
const (
	OpAdd = iota
	OpSub
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpSlt
)

// OpWidth is the width of the ALU op input.
//
const OpWidth = 3

// ALUConfig configures an ALU. Width defaults to 32.
//
type ALUConfig struct {
	Width int `yaml:"width"`
}

// ALU is a purely combinational arithmetic and logic unit. It has no clock
// input and a single propagation stage.
//
//	Inputs: a[Width], b[Width], op[3]
//	Outputs: y[Width], zero, carry
//	Function: y = a op b
//	          zero = y == 0
//	          carry = carry out for OpAdd, borrow for OpSub, 0 otherwise
//
// Shift amounts are taken from b; shifting by Width or more yields 0. OpSlt
// sets y to 1 if a < b as signed two's complement integers, 0 otherwise.
//
type ALU struct {
	In struct {
		A  bv.Bv `rtl:"input"`
		B  bv.Bv `rtl:"input"`
		Op bv.Bv `rtl:"input"`
	}
	Out struct {
		Y     bv.Bv  `rtl:"output"`
		Zero  bv.Bit `rtl:"output"`
		Carry bv.Bit `rtl:"output"`
	}

	cfg ALUConfig
}

var aluTable = rtlsim.NewStateTable((*ALU)(nil))

// NewALU returns a new ALU.
//
func NewALU(cfg ALUConfig) *ALU {
	if cfg.Width == 0 {
		cfg.Width = defaultWidth
	}
	return &ALU{cfg: cfg}
}

// Configure implements rtlsim.Component.
//
func (u *ALU) Configure(r *rtlsim.Registrar, h rtlsim.Handle) error {
	if err := checkWidth("ALU width", u.cfg.Width); err != nil {
		return err
	}
	u.In.A = bv.New(u.cfg.Width)
	u.In.B = bv.New(u.cfg.Width)
	u.In.Op = bv.New(OpWidth)
	u.Reset(rtlsim.ResetStart)
	r.DeclareCombStages(h, 1)
	return nil
}

// Reset implements rtlsim.Component.
//
func (u *ALU) Reset(rtlsim.ResetReason) {
	u.Out.Y = bv.New(u.cfg.Width)
	u.Out.Zero = bv.One
	u.Out.Carry = bv.Zero
}

// Clock implements rtlsim.Component. The ALU has no clock input and is never
// clocked.
//
func (u *ALU) Clock(rtlsim.EdgeMask) {}

// Propagate implements rtlsim.Component.
//
func (u *ALU) Propagate(int) {
	a, b := u.In.A, u.In.B
	var y bv.Bv
	carry := false
	switch u.In.Op.Uint64() {
	case OpAdd:
		y = a.Add(b)
		carry = y.Less(a)
	case OpSub:
		y = a.Sub(b)
		carry = a.Less(b)
	case OpAnd:
		y = a.And(b)
	case OpOr:
		y = a.Or(b)
	case OpXor:
		y = a.Xor(b)
	case OpShl:
		y = a.Shl(shiftAmount(b))
	case OpShr:
		y = a.Shr(shiftAmount(b))
	case OpSlt:
		y = bv.New(a.Width())
		if signedLess(a, b) {
			y = bv.OfUint64(a.Width(), 1)
		}
	}
	u.Out.Y = y
	u.Out.Zero = bv.OfBool(y.IsZero())
	u.Out.Carry = bv.OfBool(carry)
}

func shiftAmount(b bv.Bv) uint {
	k, ok := b.TryUint64()
	if !ok || k > uint64(bv.MaxWidth) {
		return bv.MaxWidth
	}
	return uint(k)
}

func signedLess(a, b bv.Bv) bool {
	msb := a.Width() - 1
	sa, sb := a.Bit(msb), b.Bit(msb)
	if sa != sb {
		return sa == bv.One
	}
	return a.Less(b)
}

// StateInfo implements rtlsim.Component.
//
func (u *ALU) StateInfo(i rtlsim.StateIndex) (rtlsim.StateInfo, bool) { return aluTable.Info(i) }

// StateRef implements rtlsim.Component.
//
func (u *ALU) StateRef(i rtlsim.StateIndex) rtlsim.ValueRef { return aluTable.Ref(u, i) }
