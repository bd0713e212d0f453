// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// An Option configures a Simulation.
//
type Option func(s *Simulation)

// WithLogger sets the logger used by the simulation. The default is the
// logrus standard logger.
//
func WithLogger(l *logrus.Logger) Option {
	return func(s *Simulation) { s.log = logrus.NewEntry(l) }
}

// WithWorkers sets the number of goroutines used to clock instances. If less
// or equal to 0, the value of GOMAXPROCS will be used. The default is 1: all
// instances are clocked by the goroutine calling FireNextEdges.
//
func WithWorkers(n int) Option {
	return func(s *Simulation) { s.workers = n }
}

// Simulation is a cycle based simulation of clocked components.
//
// A simulation goes through a build phase, where clocks are added, components
// instantiated and connected to clocks, followed by a call to Prepare. From
// there on, the simulation is controlled by Start, Pause, Resume and Stop,
// and advanced by FireNextEdges or Run.
//
// Callers must make sure to call Dispose once the simulation is no longer
// needed in order to release worker goroutines.
//
type Simulation struct {
	log     *logrus.Entry
	workers int

	// mu guards the clocks, the router and the build.
	mu       sync.Mutex
	clocks   *Clocks
	router   *EdgeRouter
	names    *names
	reg      *registry
	prepared atomic.Bool
	pool     *workerPool

	ctl   sync.Mutex
	state RunState
}

// New returns a new, empty, simulation.
//
func New(opts ...Option) *Simulation {
	s := &Simulation{
		log:     logrus.NewEntry(logrus.StandardLogger()),
		workers: 1,
		clocks:  NewClocks(),
		router:  NewEdgeRouter(),
		names:   newNames(),
		reg:     newRegistry(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Simulation) mustBePrepared(op string) {
	if !s.prepared.Load() {
		panic(op + " called before Prepare")
	}
}

func (s *Simulation) runInstance(h Handle) *instance {
	s.mustBePrepared("instance access")
	return s.reg.get(h)
}

// AddClock adds a clock to the simulation. See Clock for a description of
// the parameters.
//
func (s *Simulation) AddClock(name string, delay, period, negedgeOffset Time) (ClockIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prepared.Load() {
		return -1, errors.Wrapf(ErrPrepared, "add clock %q", name)
	}
	i, err := s.clocks.Add(name, delay, period, negedgeOffset)
	if err != nil {
		return -1, err
	}
	s.names.intern(name)
	s.log.WithFields(logrus.Fields{
		"clock":          name,
		"delay":          delay,
		"period":         period,
		"negedge_offset": negedgeOffset,
	}).Debug("clock added")
	return i, nil
}

// Clock returns the clock at index i.
//
func (s *Simulation) Clock(i ClockIndex) Clock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clocks.Clock(i)
}

// ClockByName returns the index of the named clock.
//
func (s *Simulation) ClockByName(name string) (ClockIndex, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clocks.Lookup(name)
}

// PushNamespace enters namespace ns: instance names passed to Instantiate are
// prefixed with ns and a dot until the matching PopNamespace.
//
func (s *Simulation) PushNamespace(ns string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names.push(ns)
}

// PopNamespace leaves the current namespace.
//
func (s *Simulation) PopNamespace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names.pop()
}

// FindName returns the handle of an interned clock or fully qualified
// instance name.
//
func (s *Simulation) FindName(name string) (NameHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names.find(name)
}

// Name returns the name for handle h.
//
func (s *Simulation) Name(h NameHandle) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names.String(h)
}

// Instantiate adds component c to the simulation under the given name,
// qualified by the current namespace, and calls its Configure method.
//
func (s *Simulation) Instantiate(name string, c Component) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	qn := s.names.qualify(name)
	if s.prepared.Load() {
		return -1, errors.Wrapf(ErrPrepared, "instantiate %q", qn)
	}
	_, known := s.names.find(qn)
	nh := s.names.intern(qn)
	h, ok := s.reg.insert(nh, c)
	if !ok {
		return -1, errors.Wrapf(ErrDuplicateName, "instance %q", qn)
	}
	if err := c.Configure(&Registrar{s}, h); err != nil {
		s.reg.remove(h)
		if !known {
			s.names.forget(nh)
		}
		return -1, errors.Wrapf(err, "configure %q", qn)
	}
	s.log.WithFields(logrus.Fields{"instance": qn, "handle": h}).Debugf("instantiated %T", c)
	return h, nil
}

// InstanceByName returns the handle of the instance with the given fully
// qualified name.
//
func (s *Simulation) InstanceByName(name string) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nh, ok := s.names.find(name)
	if !ok {
		return -1, false
	}
	h, ok := s.reg.byName[nh]
	return h, ok
}

// NumInstances returns the number of instances.
//
func (s *Simulation) NumInstances() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reg.insts)
}

// Instance returns a type erased view of instance h.
//
func (s *Simulation) Instance(h Handle) *Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Instance{s, h, s.reg.get(h)}
}

// ConnectClock connects clock clk to the given edge input of instance h. The
// input must have been registered by the component's Configure method.
//
func (s *Simulation) ConnectClock(clk ClockIndex, h Handle, input int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectClock(clk, h, input)
}

func (s *Simulation) connectClock(clk ClockIndex, h Handle, input int) error {
	if s.prepared.Load() {
		return errors.Wrap(ErrPrepared, "connect clock")
	}
	if clk < 0 || int(clk) >= s.clocks.Len() {
		panic(errors.Errorf("invalid clock index %d", clk))
	}
	i := s.reg.get(h)
	c := s.clocks.Clock(clk)
	name := s.names.String(i.name)
	es, ok := i.edges[input]
	if !ok {
		return errors.Wrapf(ErrNotEdgeInput, "connect %q to %q input %d", c.Name, name, input)
	}
	if es.posedge {
		s.router.EdgeUsedBy(clk, h, input, true)
	}
	if es.negedge {
		if c.NegedgeOffset == 0 {
			s.log.Warnf("clock %q has no falling edge but drives negedge input %d of %q", c.Name, input, name)
		}
		s.router.EdgeUsedBy(clk, h, input, false)
	}
	s.log.WithFields(logrus.Fields{"clock": c.Name, "instance": name, "input": input}).Debug("clock connected")
	return nil
}

// Connect connects clocks to instance h according to a connection string of
// input=clock pairs (see ParseConnections) where inputs are clock pin names
// of the component.
//
//	s.Connect(h, "clk=sys, wclk=io")
//
func (s *Simulation) Connect(h Handle, conns string) error {
	cs, err := ParseConnections(conns)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.reg.get(h)
	for _, cn := range cs {
		clk, ok := s.clocks.Lookup(cn.Clock)
		if !ok {
			return errors.Wrapf(ErrUnknownName, "clock %q", cn.Clock)
		}
		idx, ok := StateIndexOf(i.c, cn.Input)
		if !ok {
			return errors.Wrapf(ErrUnknownName, "input %q of %q", cn.Input, s.names.String(i.name))
		}
		si, _ := i.c.StateInfo(idx)
		if si.Kind != KindClock {
			return errors.Wrapf(ErrNotEdgeInput, "%s %q of %q", si.Kind, cn.Input, s.names.String(i.name))
		}
		if err = s.connectClock(clk, h, si.Input); err != nil {
			return err
		}
	}
	return nil
}

// Prepare ends the build phase and derives the clock schedule. It must be
// called exactly once.
//
func (s *Simulation) Prepare() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prepared.Load() {
		panic("Prepare called twice")
	}
	s.clocks.DeriveSchedule()
	if s.workers != 1 {
		s.pool = newWorkerPool(s.workers, s.reg.insts)
	}
	s.prepared.Store(true)
	f := logrus.Fields{"clocks": s.clocks.Len(), "instances": len(s.reg.insts)}
	if s.pool != nil {
		f["workers"] = s.pool.size()
	}
	s.log.WithFields(f).Info("simulation prepared")
}

// Dispose releases worker goroutines.
//
func (s *Simulation) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		s.pool.dispose()
		s.pool = nil
	}
}

// Time returns the current simulation time.
//
func (s *Simulation) Time() Time {
	s.mustBePrepared("Time")
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clocks.Time()
}

// NextEdges advances time to the next clock edges without clocking any
// instance and returns the clocks that fired.
//
func (s *Simulation) NextEdges() (pos, neg ClockSet) {
	s.mustBePrepared("NextEdges")
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clocks.NextEdges()
}

// InstanceEdges returns the instances driven by the given clock edges. See
// EdgeRouter.
//
func (s *Simulation) InstanceEdges(pos, neg ClockSet) []InstanceEdge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.InstanceEdges(pos, neg)
}

// RoutingDerivations returns how many distinct clock edge combinations have
// been routed so far.
//
func (s *Simulation) RoutingDerivations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router.Derivations()
}

// FireNextEdges advances time to the next clock edges and clocks every
// instance driven by them. It returns the clocks that fired.
//
// The order in which instances are clocked within a step is unspecified.
//
func (s *Simulation) FireNextEdges() (pos, neg ClockSet) {
	s.mustBePrepared("FireNextEdges")
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, neg = s.clocks.NextEdges()
	edges := s.router.InstanceEdges(pos, neg)
	if s.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		s.log.Tracef("[%d] posedge %#x negedge %#x: %d instances", s.clocks.Time(), uint64(pos), uint64(neg), len(edges))
	}
	if s.pool != nil && len(edges) > 1 {
		s.pool.fire(edges)
		return pos, neg
	}
	for _, e := range edges {
		s.reg.insts[e.Handle].clock(e.Mask)
	}
	return pos, neg
}

// Run fires clock edges as long as the simulation is running and the next
// edges are due before until. It returns the number of steps fired.
//
func (s *Simulation) Run(ctx context.Context, until Time) (int, error) {
	s.mustBePrepared("Run")
	n := 0
	for s.State() == Running {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		s.mu.Lock()
		next := s.clocks.NextEdgeTime()
		s.mu.Unlock()
		if next >= until || next == MaxTime {
			break
		}
		s.FireNextEdges()
		n++
	}
	return n, nil
}

// PropagateAll runs every declared combinational stage, stage by stage, on
// all instances in handle order.
//
func (s *Simulation) PropagateAll() {
	s.mustBePrepared("PropagateAll")
	stages := 0
	for _, i := range s.reg.insts {
		stages = max(stages, i.stages)
	}
	for st := 0; st < stages; st++ {
		for _, i := range s.reg.insts {
			if st < i.stages {
				i.with(func(c Component) { c.Propagate(st) })
			}
		}
	}
}

// ResetAll resets every instance.
//
func (s *Simulation) ResetAll() {
	s.mustBePrepared("ResetAll")
	for _, i := range s.reg.insts {
		i.with(func(c Component) { c.Reset(ResetForced) })
	}
	s.log.Info("all instances reset")
}
