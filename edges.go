// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"sort"

	"github.com/pkg/errors"
)

// MaxEdgeInputs is the maximum number of clock inputs of a component.
//
const MaxEdgeInputs = 32

// EdgeMask tells a component which of its clock inputs saw an edge. Bit 2*i is
// set on a rising edge of input i, bit 2*i+1 on a falling edge.
//
type EdgeMask uint64

func checkEdgeInput(input int) {
	if input < 0 || input >= MaxEdgeInputs {
		panic(errors.Errorf("edge input index %d out of range", input))
	}
}

// PosedgeOf returns the mask for a rising edge on the given input.
//
func PosedgeOf(input int) EdgeMask {
	checkEdgeInput(input)
	return 1 << uint(2*input)
}

// NegedgeOf returns the mask for a falling edge on the given input.
//
func NegedgeOf(input int) EdgeMask {
	checkEdgeInput(input)
	return 1 << uint(2*input+1)
}

// Posedge returns true if input saw a rising edge.
//
func (m EdgeMask) Posedge(input int) bool { return m&PosedgeOf(input) != 0 }

// Negedge returns true if input saw a falling edge.
//
func (m EdgeMask) Negedge(input int) bool { return m&NegedgeOf(input) != 0 }

// InstanceEdge is an instance to be clocked with the given edge mask.
//
type InstanceEdge struct {
	Handle Handle
	Mask   EdgeMask
}

type edgeKey struct {
	pos, neg ClockSet
}

type subscriber struct {
	h     Handle
	input int
}

// EdgeRouter maps clock edges to the instances they drive.
//
type EdgeRouter struct {
	pos, neg    [MaxClocks][]subscriber
	cache       map[edgeKey][]InstanceEdge
	derivations int
}

// NewEdgeRouter returns a new, empty, EdgeRouter.
//
func NewEdgeRouter() *EdgeRouter {
	return &EdgeRouter{cache: make(map[edgeKey][]InstanceEdge)}
}

// EdgeUsedBy records that the rising (posedge true) or falling edge of clock
// clk drives the given input of instance h.
//
// It must not be called once InstanceEdges has been called.
//
func (r *EdgeRouter) EdgeUsedBy(clk ClockIndex, h Handle, input int, posedge bool) {
	checkEdgeInput(input)
	s := subscriber{h, input}
	if posedge {
		r.pos[clk] = append(r.pos[clk], s)
	} else {
		r.neg[clk] = append(r.neg[clk], s)
	}
}

// InstanceEdges returns the instances to clock for the given sets of rising
// and falling clock edges, sorted by handle. The result is computed once per
// distinct pair and must not be modified.
//
func (r *EdgeRouter) InstanceEdges(pos, neg ClockSet) []InstanceEdge {
	k := edgeKey{pos, neg}
	if ie, ok := r.cache[k]; ok {
		return ie
	}
	ie := r.derive(pos, neg)
	r.cache[k] = ie
	return ie
}

func (r *EdgeRouter) derive(pos, neg ClockSet) []InstanceEdge {
	r.derivations++
	masks := make(map[Handle]EdgeMask)
	pos.Each(func(c ClockIndex) {
		for _, s := range r.pos[c] {
			masks[s.h] |= PosedgeOf(s.input)
		}
	})
	neg.Each(func(c ClockIndex) {
		for _, s := range r.neg[c] {
			masks[s.h] |= NegedgeOf(s.input)
		}
	})
	ie := make([]InstanceEdge, 0, len(masks))
	for h, m := range masks {
		ie = append(ie, InstanceEdge{h, m})
	}
	sort.Slice(ie, func(i, j int) bool { return ie[i].Handle < ie[j].Handle })
	return ie
}

// Derivations returns how many distinct edge set pairs have been routed.
//
func (r *EdgeRouter) Derivations() int { return r.derivations }
