// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sysdesc loads YAML system descriptions and builds simulations from
// them.
//
// A system description lists clocks and component instances:
//
//	timebase: 1GHz          # simulation ticks per second
//	until: 10000            # default run length, in ticks
//	clocks:
//	  - {name: sys, period: 10, negedge_offset: 5}
//	  - {name: io, freq: 25MHz, delay: 3}
//	instances:
//	  - name: ram
//	    type: memory
//	    namespace: soc
//	    config: {size: 1024, data_width: 16}
//	    connect: clk=sys
//
// Clocks are given either a period in ticks or a frequency, converted to a
// period against the timebase. Instance configurations are decoded by the
// factory registered for the instance type. Decoding is strict: unknown keys
// are errors.
//
package sysdesc

import (
	"bytes"
	"io"
	"math"
	"os"

	"github.com/db47h/rtlsim"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultTimebase is the timebase used when none is specified: one tick per
// nanosecond.
//
const DefaultTimebase = 1 * sim.GHz

// Desc is a system description.
//
type Desc struct {
	Timebase  Frequency      `yaml:"timebase"`
	Until     rtlsim.Time    `yaml:"until"`
	Clocks    []ClockDesc    `yaml:"clocks"`
	Instances []InstanceDesc `yaml:"instances"`
}

// ClockDesc describes a clock. Exactly one of Period or Freq must be set.
//
type ClockDesc struct {
	Name          string      `yaml:"name"`
	Period        rtlsim.Time `yaml:"period"`
	Freq          Frequency   `yaml:"freq"`
	Delay         rtlsim.Time `yaml:"delay"`
	NegedgeOffset rtlsim.Time `yaml:"negedge_offset"`
}

// InstanceDesc describes a component instance.
//
type InstanceDesc struct {
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"`
	Namespace string    `yaml:"namespace"`
	Config    yaml.Node `yaml:"config"`
	Connect   string    `yaml:"connect"`
}

// Load reads a system description from r.
//
func Load(r io.Reader) (*Desc, error) {
	var d Desc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parsing system description")
	}
	if d.Timebase == 0 {
		d.Timebase = Frequency(DefaultTimebase)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile reads a system description from the named file.
//
func LoadFile(name string) (*Desc, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "reading system description")
	}
	d, err := Load(bytes.NewReader(data))
	return d, errors.Wrap(err, name)
}

// Validate checks clock parameters and instance types. Clock parameter
// ranges are checked by the simulation itself.
//
func (d *Desc) Validate() error {
	for i := range d.Clocks {
		c := &d.Clocks[i]
		if c.Name == "" {
			return errors.Errorf("clock %d: missing name", i)
		}
		if (c.Period == 0) == (c.Freq == 0) {
			return errors.Errorf("clock %q: exactly one of period or freq must be set", c.Name)
		}
	}
	for i := range d.Instances {
		in := &d.Instances[i]
		if in.Name == "" {
			return errors.Errorf("instance %d: missing name", i)
		}
		if _, ok := factories[in.Type]; !ok {
			return errors.Errorf("instance %q: unknown type %q", in.Name, in.Type)
		}
	}
	return nil
}

// ClockPeriod returns the period of clock c in ticks.
//
func (d *Desc) ClockPeriod(c *ClockDesc) (rtlsim.Time, error) {
	if c.Period != 0 {
		return c.Period, nil
	}
	p := math.Round(float64(d.Timebase) / float64(c.Freq))
	if p < 1 {
		return 0, errors.Errorf("clock %q: frequency %v Hz above timebase %v Hz", c.Name, float64(c.Freq), float64(d.Timebase))
	}
	return rtlsim.Time(p), nil
}

// Seconds converts a simulation time to simulated seconds.
//
func (d *Desc) Seconds(t rtlsim.Time) sim.VTimeInSec {
	return sim.VTimeInSec(float64(t) / float64(d.Timebase))
}

// Build adds the described clocks and instances to s and connects them. It
// does not prepare the simulation.
//
func Build(s *rtlsim.Simulation, d *Desc, log logrus.FieldLogger) error {
	for i := range d.Clocks {
		c := &d.Clocks[i]
		p, err := d.ClockPeriod(c)
		if err != nil {
			return err
		}
		if c.Freq != 0 {
			if exact := float64(d.Timebase) / float64(c.Freq); exact != float64(p) {
				log.Warnf("clock %q: period rounded from %g to %d ticks", c.Name, exact, p)
			}
		}
		if _, err = s.AddClock(c.Name, c.Delay, p, c.NegedgeOffset); err != nil {
			return err
		}
	}
	for i := range d.Instances {
		in := &d.Instances[i]
		if err := buildInstance(s, in, log); err != nil {
			return err
		}
	}
	return nil
}

func buildInstance(s *rtlsim.Simulation, in *InstanceDesc, log logrus.FieldLogger) error {
	f, ok := factories[in.Type]
	if !ok {
		return errors.Errorf("instance %q: unknown type %q", in.Name, in.Type)
	}
	c, err := f(&in.Config)
	if err != nil {
		return errors.Wrapf(err, "instance %q", in.Name)
	}
	if in.Namespace != "" {
		s.PushNamespace(in.Namespace)
		defer s.PopNamespace()
	}
	h, err := s.Instantiate(in.Name, c)
	if err != nil {
		return err
	}
	if err = s.Connect(h, in.Connect); err != nil {
		return errors.Wrapf(err, "instance %q", in.Name)
	}
	log.WithFields(logrus.Fields{"instance": s.Instance(h).Name(), "type": in.Type}).Debug("instance built")
	return nil
}
