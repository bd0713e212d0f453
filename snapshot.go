// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

// Snapshot is a plain description of a simulation at a given time, suitable
// for serialization.
//
type Snapshot struct {
	Time      Time               `yaml:"time"`
	State     string             `yaml:"state"`
	Clocks    []Clock            `yaml:"clocks"`
	Instances []InstanceSnapshot `yaml:"instances"`
}

// InstanceSnapshot is the state of an instance in a Snapshot.
//
type InstanceSnapshot struct {
	Name   string          `yaml:"name"`
	Handle Handle          `yaml:"handle"`
	State  []StateSnapshot `yaml:"state,omitempty"`
}

// StateSnapshot is the value of a state element in a Snapshot. Value is
// empty for clock pins.
//
type StateSnapshot struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Value string `yaml:"value,omitempty"`
}

// Snapshot returns a snapshot of the simulation. Each instance is borrowed in
// turn while its state is collected.
//
func (s *Simulation) Snapshot() *Snapshot {
	s.mustBePrepared("Snapshot")
	snap := &Snapshot{State: s.State().String()}
	s.mu.Lock()
	snap.Time = s.clocks.Time()
	for i := 0; i < s.clocks.Len(); i++ {
		snap.Clocks = append(snap.Clocks, s.clocks.Clock(ClockIndex(i)))
	}
	s.mu.Unlock()

	for h, i := range s.reg.insts {
		is := InstanceSnapshot{Name: s.names.String(i.name), Handle: Handle(h)}
		i.mu.RLock()
		for idx := StateIndex(0); ; idx++ {
			si, ok := i.c.StateInfo(idx)
			if !ok {
				break
			}
			ss := StateSnapshot{Name: si.Name, Kind: si.Kind.String()}
			if v := i.c.StateRef(idx); v != nil {
				ss.Value = v.Get().String()
			}
			is.State = append(is.State, ss)
		}
		i.mu.RUnlock()
		snap.Instances = append(snap.Instances, is)
	}
	return snap
}
