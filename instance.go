// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"sync"

	"github.com/db47h/rtlsim/bv"
	"github.com/pkg/errors"
)

// Handle identifies a component instance. Handles are allocated densely from
// 0 and stay valid for the lifetime of the simulation.
//
type Handle int

type instance struct {
	name   NameHandle
	mu     sync.RWMutex
	c      Component
	edges  map[int]edgeSense
	stages int
}

func (i *instance) clock(m EdgeMask) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.c.Clock(m)
}

// tryClock clocks the instance if it is not borrowed.
func (i *instance) tryClock(m EdgeMask) bool {
	if !i.mu.TryLock() {
		return false
	}
	defer i.mu.Unlock()
	i.c.Clock(m)
	return true
}

func (i *instance) with(f func(c Component)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	f(i.c)
}

type registry struct {
	insts  []*instance
	byName map[NameHandle]Handle
}

func newRegistry() *registry {
	return &registry{byName: make(map[NameHandle]Handle)}
}

func (r *registry) get(h Handle) *instance {
	if h < 0 || int(h) >= len(r.insts) {
		panic(errors.Errorf("invalid instance handle %d", h))
	}
	return r.insts[h]
}

func (r *registry) insert(name NameHandle, c Component) (Handle, bool) {
	if _, ok := r.byName[name]; ok {
		return -1, false
	}
	h := Handle(len(r.insts))
	r.insts = append(r.insts, &instance{name: name, c: c})
	r.byName[name] = h
	return h, true
}

// remove removes the last inserted instance.
func (r *registry) remove(h Handle) {
	if int(h) != len(r.insts)-1 {
		panic(errors.Errorf("cannot remove instance %d", h))
	}
	delete(r.byName, r.insts[h].name)
	r.insts = r.insts[:h]
}

// Shared is a shared borrow of a component instance. Any number of shared
// borrows of an instance may be held at the same time, but none while the
// instance is borrowed exclusively or being clocked.
//
// The component returned by Get must not be modified. Release must be called
// once the borrow is no longer needed.
//
type Shared[C Component] struct {
	i *instance
	h Handle
	c C
}

// Get returns the borrowed component.
//
func (r *Shared[C]) Get() C { return r.c }

// Handle returns the instance handle.
//
func (r *Shared[C]) Handle() Handle { return r.h }

// Release releases the borrow.
//
func (r *Shared[C]) Release() {
	if r.i == nil {
		panic("borrow already released")
	}
	r.i.mu.RUnlock()
	r.i = nil
}

// TryStateData returns a copy of the value of state element i.
//
func (r *Shared[C]) TryStateData(i StateIndex) (bv.Bv, bool) {
	return stateData(r.c, i)
}

// Exclusive is an exclusive borrow of a component instance.
//
type Exclusive[C Component] struct {
	i *instance
	h Handle
	c C
}

// Get returns the borrowed component.
//
func (r *Exclusive[C]) Get() C { return r.c }

// Handle returns the instance handle.
//
func (r *Exclusive[C]) Handle() Handle { return r.h }

// Release releases the borrow.
//
func (r *Exclusive[C]) Release() {
	if r.i == nil {
		panic("borrow already released")
	}
	r.i.mu.Unlock()
	r.i = nil
}

// TryStateData returns a copy of the value of state element i.
//
func (r *Exclusive[C]) TryStateData(i StateIndex) (bv.Bv, bool) {
	return stateData(r.c, i)
}

// TryStateDataMut returns a mutable reference to state element i. The
// reference must not be used after Release.
//
func (r *Exclusive[C]) TryStateDataMut(i StateIndex) (ValueRef, bool) {
	v := r.c.StateRef(i)
	return v, v != nil
}

func stateData(c Component, i StateIndex) (bv.Bv, bool) {
	v := c.StateRef(i)
	if v == nil {
		return bv.Bv{}, false
	}
	return v.Get(), true
}

func downcast[C Component](i *instance, h Handle, unlock func()) C {
	c, ok := i.c.(C)
	if !ok {
		unlock()
		var want C
		panic(errors.Errorf("instance %d: type mismatch: have %T, want %T", h, i.c, want))
	}
	return c
}

// Inst returns a shared borrow of instance h, waiting for any exclusive
// borrow to be released. It panics if the instance is not of type C or if
// the simulation has not been prepared.
//
func Inst[C Component](s *Simulation, h Handle) *Shared[C] {
	i := s.runInstance(h)
	i.mu.RLock()
	c := downcast[C](i, h, i.mu.RUnlock)
	return &Shared[C]{i, h, c}
}

// InstMut returns an exclusive borrow of instance h, waiting for any other
// borrow to be released. It panics if the instance is not of type C or if
// the simulation has not been prepared.
//
func InstMut[C Component](s *Simulation, h Handle) *Exclusive[C] {
	i := s.runInstance(h)
	i.mu.Lock()
	c := downcast[C](i, h, i.mu.Unlock)
	return &Exclusive[C]{i, h, c}
}

// TryInstMut is like InstMut but returns false instead of waiting if the
// instance is already borrowed.
//
func TryInstMut[C Component](s *Simulation, h Handle) (*Exclusive[C], bool) {
	i := s.runInstance(h)
	if !i.mu.TryLock() {
		return nil, false
	}
	c := downcast[C](i, h, i.mu.Unlock)
	return &Exclusive[C]{i, h, c}, true
}

// Instance is a type erased view of a component instance.
//
type Instance struct {
	s *Simulation
	h Handle
	i *instance
}

// Handle returns the instance handle.
//
func (v *Instance) Handle() Handle { return v.h }

// Name returns the fully qualified instance name.
//
func (v *Instance) Name() string { return v.s.names.String(v.i.name) }

// StateIndex returns the index of the named state element.
//
func (v *Instance) StateIndex(name string) (StateIndex, bool) {
	v.i.mu.RLock()
	defer v.i.mu.RUnlock()
	return StateIndexOf(v.i.c, name)
}

// StateInfo describes state element i.
//
func (v *Instance) StateInfo(i StateIndex) (StateInfo, bool) {
	v.i.mu.RLock()
	defer v.i.mu.RUnlock()
	return v.i.c.StateInfo(i)
}

// TryStateData returns a copy of the value of state element i.
//
func (v *Instance) TryStateData(i StateIndex) (bv.Bv, bool) {
	v.i.mu.RLock()
	defer v.i.mu.RUnlock()
	return stateData(v.i.c, i)
}
