// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

// RunState is the run state of a simulation.
//
//	Idle -> Running <-> Paused -> Stopped
//
type RunState int

// Run states.
//
const (
	Idle RunState = iota
	Running
	Paused
	Stopped
)

var runStateNames = [...]string{"idle", "running", "paused", "stopped"}

func (s RunState) String() string {
	if s < 0 || int(s) >= len(runStateNames) {
		return "RunState(?)"
	}
	return runStateNames[s]
}

// State returns the current run state.
//
func (s *Simulation) State() RunState {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	return s.state
}

func (s *Simulation) notify(ev ControlEvent) {
	for _, i := range s.reg.insts {
		i.with(func(c Component) {
			if ev == ControlStart {
				c.Reset(ResetStart)
			}
			if h, ok := c.(ControlHook); ok {
				h.Control(ev)
			}
		})
	}
}

// Start resets every instance and moves the simulation out of the Idle
// state, to Running if runImmediately is true, Paused otherwise.
//
func (s *Simulation) Start(runImmediately bool) error {
	s.mustBePrepared("Start")
	s.ctl.Lock()
	defer s.ctl.Unlock()
	if s.state != Idle {
		return &StateError{"start", s.state}
	}
	s.notify(ControlStart)
	s.state = Paused
	if runImmediately {
		s.state = Running
	}
	s.log.WithField("state", s.state).Info("simulation started")
	return nil
}

// Pause pauses a running simulation. Pausing a paused simulation is a no-op.
//
func (s *Simulation) Pause() error {
	s.mustBePrepared("Pause")
	s.ctl.Lock()
	defer s.ctl.Unlock()
	switch s.state {
	case Paused:
		return nil
	case Running:
		s.notify(ControlPause)
		s.state = Paused
		s.log.Info("simulation paused")
		return nil
	}
	return &StateError{"pause", s.state}
}

// Resume resumes a paused simulation. Resuming a running simulation is a
// no-op.
//
func (s *Simulation) Resume() error {
	s.mustBePrepared("Resume")
	s.ctl.Lock()
	defer s.ctl.Unlock()
	switch s.state {
	case Running:
		return nil
	case Paused:
		s.notify(ControlResume)
		s.state = Running
		s.log.Info("simulation resumed")
		return nil
	}
	return &StateError{"resume", s.state}
}

// Stop stops a running or paused simulation. A stopped simulation cannot be
// restarted.
//
func (s *Simulation) Stop() error {
	s.mustBePrepared("Stop")
	s.ctl.Lock()
	defer s.ctl.Unlock()
	switch s.state {
	case Running, Paused:
		s.notify(ControlStop)
		s.state = Stopped
		s.log.Info("simulation stopped")
		return nil
	}
	return &StateError{"stop", s.state}
}
