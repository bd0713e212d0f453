// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing components.
//
package hwtest

import (
	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/bv"
	"github.com/pkg/errors"
)

// ClockName is the name of the bench clock. Its period is 2 ticks, with a
// falling edge 1 tick after each rising edge.
//
const ClockName = "clk"

// InstanceName is the name of the component instance under test.
//
const InstanceName = "dut"

// Bench runs a single component instance on its own clock. Every clock pin
// of the component is connected to the bench clock.
//
// Bench methods panic on unknown state names, like instance access does.
//
type Bench[C rtlsim.Component] struct {
	Sim *rtlsim.Simulation
	H   rtlsim.Handle
}

// NewBench instantiates c in a new simulation, prepares and starts it.
//
func NewBench[C rtlsim.Component](c C, opts ...rtlsim.Option) (*Bench[C], error) {
	s := rtlsim.New(opts...)
	clk, err := s.AddClock(ClockName, 0, 2, 1)
	if err != nil {
		return nil, err
	}
	h, err := s.Instantiate(InstanceName, c)
	if err != nil {
		return nil, err
	}
	for i := rtlsim.StateIndex(0); ; i++ {
		si, ok := c.StateInfo(i)
		if !ok {
			break
		}
		if si.Kind != rtlsim.KindClock {
			continue
		}
		if err = s.ConnectClock(clk, h, si.Input); err != nil {
			return nil, err
		}
	}
	s.Prepare()
	if err = s.Start(true); err != nil {
		s.Dispose()
		return nil, err
	}
	return &Bench[C]{Sim: s, H: h}, nil
}

// Close releases the bench simulation.
//
func (b *Bench[C]) Close() { b.Sim.Dispose() }

func (b *Bench[C]) index(name string) rtlsim.StateIndex {
	i, ok := b.Sim.Instance(b.H).StateIndex(name)
	if !ok {
		panic(errors.Errorf("no state element named %q", name))
	}
	return i
}

// Set sets the named state element. The value is truncated to the width of
// the element.
//
func (b *Bench[C]) Set(name string, v uint64) {
	i := b.index(name)
	r := rtlsim.InstMut[C](b.Sim, b.H)
	defer r.Release()
	ref, ok := r.TryStateDataMut(i)
	if !ok {
		panic(errors.Errorf("state element %q has no value", name))
	}
	ref.Set(bv.OfUint64(ref.Width(), v))
}

// SetBv sets the named state element to v, which must have the same width.
//
func (b *Bench[C]) SetBv(name string, v bv.Bv) {
	i := b.index(name)
	r := rtlsim.InstMut[C](b.Sim, b.H)
	defer r.Release()
	ref, ok := r.TryStateDataMut(i)
	if !ok {
		panic(errors.Errorf("state element %q has no value", name))
	}
	ref.Set(v)
}

// Get returns the value of the named state element.
//
func (b *Bench[C]) Get(name string) bv.Bv {
	v, ok := b.Sim.Instance(b.H).TryStateData(b.index(name))
	if !ok {
		panic(errors.Errorf("state element %q has no value", name))
	}
	return v
}

// Uint64 returns the low 64 bits of the named state element.
//
func (b *Bench[C]) Uint64(name string) uint64 { return b.Get(name).Uint64() }

// Bool returns true if the named state element is not zero.
//
func (b *Bench[C]) Bool(name string) bool { return !b.Get(name).IsZero() }

// With calls f with exclusive access to the component.
//
func (b *Bench[C]) With(f func(c C)) {
	r := rtlsim.InstMut[C](b.Sim, b.H)
	defer r.Release()
	f(r.Get())
}

// Cycle runs n full clock cycles. Combinational stages are propagated after
// each clock edge.
//
func (b *Bench[C]) Cycle(n int) {
	for i := 0; i < n; i++ {
		b.Sim.FireNextEdges()
		b.Sim.PropagateAll()
		b.Sim.FireNextEdges()
		b.Sim.PropagateAll()
	}
}

// Propagate propagates combinational stages without clocking.
//
func (b *Bench[C]) Propagate() { b.Sim.PropagateAll() }
