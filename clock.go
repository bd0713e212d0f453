// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"math"

	"github.com/pkg/errors"
)

// Time is the simulation time, in ticks.
//
type Time uint64

// MaxTime is returned by Clocks.Time once no clock has any edge left to fire.
//
const MaxTime = Time(math.MaxUint64)

// MaxClocks is the maximum number of clocks in a simulation.
//
const MaxClocks = 64

// ClockIndex identifies a clock.
//
type ClockIndex int

// A Clock is a periodic clock signal.
//
// The first rising edge happens at Delay, then every Period ticks. If
// NegedgeOffset is not 0, a falling edge occurs NegedgeOffset ticks after each
// rising edge; otherwise the clock has no falling edges.
//
type Clock struct {
	Name          string `yaml:"name"`
	Delay         Time   `yaml:"delay"`
	Period        Time   `yaml:"period"`
	NegedgeOffset Time   `yaml:"negedge_offset"`
}

// ClockSet is a set of clocks, one bit per ClockIndex.
//
type ClockSet uint64

// Has returns true if clock i is in the set.
//
func (s ClockSet) Has(i ClockIndex) bool { return s&(1<<uint(i)) != 0 }

// With returns s with clock i added.
//
func (s ClockSet) With(i ClockIndex) ClockSet { return s | 1<<uint(i) }

// Each calls f for each clock in s, in ascending index order.
//
func (s ClockSet) Each(f func(i ClockIndex)) {
	for i := ClockIndex(0); s != 0; i, s = i+1, s>>1 {
		if s&1 != 0 {
			f(i)
		}
	}
}

// clockPosn is the scheduling cursor of a clock.
type clockPosn struct {
	nextEdge      Time
	nextIsPosedge bool
}

// edgeAt evaluates the clock at time t and advances the cursor if an edge is
// due.
func (p *clockPosn) edgeAt(c *Clock, t Time) (posedge, negedge bool) {
	switch {
	case t < p.nextEdge:
		return false, false
	case t > p.nextEdge:
		panic(errors.Errorf("clock %q: scheduling invariant violated: time %d past next edge %d", c.Name, t, p.nextEdge))
	}
	// edges before the initial delay advance the cursor but are not reported.
	enable := t >= c.Delay
	switch {
	case !p.nextIsPosedge:
		negedge = enable
		p.nextEdge = addTime(p.nextEdge, c.Period-c.NegedgeOffset)
		p.nextIsPosedge = true
	case c.NegedgeOffset > 0:
		posedge = enable
		p.nextEdge = addTime(p.nextEdge, c.NegedgeOffset)
		p.nextIsPosedge = false
	default:
		posedge = enable
		p.nextEdge = addTime(p.nextEdge, c.Period)
	}
	return posedge, negedge
}

func addTime(a, b Time) Time {
	if a > MaxTime-b {
		return MaxTime
	}
	return a + b
}

type schedule struct {
	time     Time
	nextTime Time
	posn     []clockPosn
}

// Clocks is the set of clocks of a simulation together with their schedule.
//
// Clocks are added with Add, then the schedule is derived once with
// DeriveSchedule. From there on, NextEdges advances time edge by edge.
//
type Clocks struct {
	clocks []Clock
	names  map[string]ClockIndex
	sched  *schedule
}

// NewClocks returns an empty clock array.
//
func NewClocks() *Clocks {
	return &Clocks{names: make(map[string]ClockIndex)}
}

// Add adds a new clock and returns its index.
//
func (a *Clocks) Add(name string, delay, period, negedgeOffset Time) (ClockIndex, error) {
	if a.sched != nil {
		return -1, errors.Wrapf(ErrScheduleDerived, "add clock %q", name)
	}
	if period < 1 {
		return -1, errors.Wrapf(ErrInvalidClock, "clock %q: period must be at least one", name)
	}
	if negedgeOffset >= period {
		return -1, errors.Wrapf(ErrInvalidClock, "clock %q: negedge offset must be less than period", name)
	}
	if _, ok := a.names[name]; ok {
		return -1, errors.Wrapf(ErrDuplicateName, "clock %q", name)
	}
	if len(a.clocks) >= MaxClocks {
		return -1, errors.Wrapf(ErrTooManyClocks, "clock %q", name)
	}
	i := ClockIndex(len(a.clocks))
	a.clocks = append(a.clocks, Clock{Name: name, Delay: delay, Period: period, NegedgeOffset: negedgeOffset})
	a.names[name] = i
	return i, nil
}

// Len returns the number of clocks.
//
func (a *Clocks) Len() int { return len(a.clocks) }

// Clock returns the clock at index i.
//
func (a *Clocks) Clock(i ClockIndex) Clock { return a.clocks[i] }

// Lookup returns the index of the named clock.
//
func (a *Clocks) Lookup(name string) (ClockIndex, bool) {
	i, ok := a.names[name]
	return i, ok
}

// DeriveSchedule freezes the clock set and initializes the schedule. It must
// be called exactly once, after the last call to Add.
//
// With no clocks, the schedule is empty and time is immediately exhausted.
//
func (a *Clocks) DeriveSchedule() {
	if a.sched != nil {
		panic("schedule already derived")
	}
	s := &schedule{nextTime: MaxTime, posn: make([]clockPosn, len(a.clocks))}
	for i := range a.clocks {
		c := &a.clocks[i]
		p := clockPosn{nextEdge: c.Delay % c.Period, nextIsPosedge: true}
		s.posn[i] = p
		if p.nextEdge < s.nextTime {
			s.nextTime = p.nextEdge
		}
	}
	a.sched = s
}

func (a *Clocks) mustSchedule() *schedule {
	if a.sched == nil {
		panic("schedule not derived")
	}
	return a.sched
}

// Time returns the current simulation time.
//
func (a *Clocks) Time() Time {
	return a.mustSchedule().time
}

// NextEdgeTime returns the time of the next edge NextEdges will report,
// without advancing time. It returns MaxTime once no clock has any edge left.
//
func (a *Clocks) NextEdgeTime() Time {
	s := a.mustSchedule()
	next := MaxTime
	for i := range s.posn {
		// cursors are phase aligned on delay, which is always a rising edge.
		t := max(s.posn[i].nextEdge, a.clocks[i].Delay)
		if t < next {
			next = t
		}
	}
	return next
}

// NextEdges advances time to the next instant where at least one clock edge
// fires and returns the sets of clocks that fired a rising or falling edge.
//
// Once no clock has any edge left, time is set to MaxTime and both sets are
// empty.
//
func (a *Clocks) NextEdges() (pos, neg ClockSet) {
	s := a.mustSchedule()
	for {
		t := s.nextTime
		if t == MaxTime {
			s.time = MaxTime
			return 0, 0
		}
		next := MaxTime
		for i := range s.posn {
			p := &s.posn[i]
			pe, ne := p.edgeAt(&a.clocks[i], t)
			if pe {
				pos = pos.With(ClockIndex(i))
			}
			if ne {
				neg = neg.With(ClockIndex(i))
			}
			if p.nextEdge < next {
				next = p.nextEdge
			}
		}
		s.time = t
		s.nextTime = next
		if pos|neg != 0 {
			return pos, neg
		}
	}
}
