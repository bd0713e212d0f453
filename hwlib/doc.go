// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of basic rtlsim components: memories,
// counters, registers, multiplexers, an ALU and a GPIO bus target.
//
// Each component is created from a plain configuration struct, which can be
// decoded from YAML, and checks it in its Configure method:
//
//	h, err := s.Instantiate("ram", hwlib.NewMemory(hwlib.MemoryConfig{Size: 1024}))
//
// State element names are listed in each component's documentation. Clocked
// components have a single clock input named "clk".
//
package hwlib

import (
	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/bv"
	"github.com/pkg/errors"
)

const defaultWidth = 32

func checkWidth(what string, w int) error {
	if w < 1 || w > bv.MaxWidth {
		return errors.Wrapf(ErrConfig, "%s %d out of range [1, %d]", what, w, bv.MaxWidth)
	}
	return nil
}

// ErrConfig is returned by Configure on invalid component configuration.
//
var ErrConfig = errors.New("invalid component configuration")

// posedge registers the clock input of single clock components.
func posedge(r *rtlsim.Registrar, h rtlsim.Handle) {
	r.RegisterInputEdge(h, 0, true, false)
}
