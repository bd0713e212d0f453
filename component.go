// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"github.com/db47h/rtlsim/bv"
	"github.com/pkg/errors"
)

// A Component is a simulated hardware block.
//
// A component owns its inputs, outputs and internal state. The simulation
// calls Clock whenever one of its clock inputs sees an edge it registered
// for in Configure. Clock must compute the next internal state and outputs
// from the current inputs without calling back into the simulation.
//
// Components with combinational paths from inputs to outputs declare a number
// of propagation stages in Configure; Propagate(stage) must then be
// idempotent for a given input snapshot and stage.
//
type Component interface {
	// Configure is called once when the component is instantiated. It must
	// register every clock-driven input with r.RegisterInputEdge.
	Configure(r *Registrar, h Handle) error
	Reset(reason ResetReason)
	Clock(mask EdgeMask)
	Propagate(stage int)
	// StateInfo describes the state element at index i. It returns false
	// past the last element.
	StateInfo(i StateIndex) (StateInfo, bool)
	// StateRef returns a reference to the value of state element i, or nil
	// if it has no value (clock pins) or does not exist.
	StateRef(i StateIndex) ValueRef
}

// ValueRef is a reference to a value held by a component. *bv.Bit and *bv.Bv
// implement ValueRef.
//
type ValueRef interface {
	Width() int
	Get() bv.Bv
	Set(v bv.Bv)
}

// StateIndex is a component local state element index.
//
type StateIndex int

// StateKind is the kind of a state element.
//
type StateKind int

// State element kinds.
//
const (
	KindClock StateKind = iota
	KindInput
	KindOutput
	KindState
)

var kindNames = [...]string{"clock", "input", "output", "state"}

func (k StateKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "StateKind(?)"
	}
	return kindNames[k]
}

// StateInfo describes a state element.
//
type StateInfo struct {
	Name string
	Kind StateKind
	// Edge input index for clock pins.
	Input int
}

// ClockPin is a zero size marker for clock inputs in component structs. See
// NewStateTable.
//
type ClockPin struct{}

// ResetReason tells a component why it is being reset.
//
type ResetReason int

// Reset reasons.
//
const (
	ResetStart ResetReason = iota
	ResetForced
)

// ControlEvent is a simulation control transition.
//
type ControlEvent int

// Control events.
//
const (
	ControlStart ControlEvent = iota
	ControlPause
	ControlResume
	ControlStop
)

// ControlHook can be implemented by components that need to be notified of
// simulation control transitions.
//
type ControlHook interface {
	Control(ev ControlEvent)
}

type edgeSense struct {
	posedge, negedge bool
}

// A Registrar is passed to Component.Configure.
//
type Registrar struct {
	s *Simulation
}

// RegisterInputEdge declares that the given input of instance h is a clock
// input, sensitive to rising edges, falling edges or both.
//
func (r *Registrar) RegisterInputEdge(h Handle, input int, posedge, negedge bool) {
	checkEdgeInput(input)
	i := r.s.reg.get(h)
	if i.edges == nil {
		i.edges = make(map[int]edgeSense)
	}
	i.edges[input] = edgeSense{posedge, negedge}
}

// DeclareCombStages declares that instance h has n combinational propagation
// stages.
//
func (r *Registrar) DeclareCombStages(h Handle, n int) {
	if n < 0 {
		panic(errors.Errorf("invalid stage count %d", n))
	}
	r.s.reg.get(h).stages = n
}

// StateIndexOf returns the index of the named state element of c.
//
func StateIndexOf(c Component, name string) (StateIndex, bool) {
	for i := StateIndex(0); ; i++ {
		si, ok := c.StateInfo(i)
		if !ok {
			return -1, false
		}
		if si.Name == name {
			return i, true
		}
	}
}
