// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sysdesc

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"
)

var freqUnits = []struct {
	suffix string
	unit   sim.Freq
}{
	{"ghz", sim.GHz},
	{"mhz", sim.MHz},
	{"khz", sim.KHz},
	{"hz", sim.Hz},
}

// ParseFreq parses a frequency like "25MHz", "1.5 GHz" or "100". Unit
// suffixes are case insensitive; a bare number is in Hz.
//
func ParseFreq(s string) (sim.Freq, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	unit := sim.Hz
	for _, u := range freqUnits {
		if strings.HasSuffix(v, u.suffix) {
			v = strings.TrimSpace(strings.TrimSuffix(v, u.suffix))
			unit = u.unit
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Errorf("invalid frequency %q", s)
	}
	if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errors.Errorf("frequency %q must be positive", s)
	}
	return sim.Freq(f) * unit, nil
}

// Frequency is a sim.Freq decoded from a YAML scalar with ParseFreq.
//
type Frequency sim.Freq

// UnmarshalYAML implements yaml.Unmarshaler.
//
func (f *Frequency) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: frequency must be a scalar", n.Line)
	}
	v, err := ParseFreq(n.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", n.Line)
	}
	*f = Frequency(v)
	return nil
}

// Freq returns f as a sim.Freq.
//
func (f Frequency) Freq() sim.Freq { return sim.Freq(f) }
