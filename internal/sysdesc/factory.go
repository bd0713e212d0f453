// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sysdesc

import (
	"bytes"
	"io"
	"sort"

	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/hwlib"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Factory creates a component from its YAML configuration. cfg is the zero
// Node if the instance has no config key.
//
type Factory func(cfg *yaml.Node) (rtlsim.Component, error)

var factories = map[string]Factory{
	"memory":   decode(hwlib.NewMemory),
	"counter":  decode(hwlib.NewCounter),
	"register": decode(hwlib.NewRegister),
	"alu":      decode(hwlib.NewALU),
	"gpio":     decode(hwlib.NewGPIO),
	"mux":      decode(hwlib.NewMux),
	"dmux":     decode(hwlib.NewDMux),
}

// decode returns a Factory that strictly decodes the configuration into a T
// and passes it to newFn.
func decode[T any, C rtlsim.Component](newFn func(T) C) Factory {
	return func(n *yaml.Node) (rtlsim.Component, error) {
		var cfg T
		if n.Kind != 0 {
			// Node.Decode has no strict mode.
			data, err := yaml.Marshal(n)
			if err != nil {
				return nil, err
			}
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			if err = dec.Decode(&cfg); err != nil && err != io.EOF {
				return nil, errors.Wrap(err, "decoding config")
			}
		}
		return newFn(cfg), nil
	}
}

// Register registers a factory for the given component type name. It panics
// if the name is already registered.
//
func Register(typ string, f Factory) {
	if _, ok := factories[typ]; ok {
		panic(errors.Errorf("component type %q already registered", typ))
	}
	factories[typ] = f
}

// Types returns the registered component type names in sorted order.
//
func Types() []string {
	ts := make([]string, 0, len(factories))
	for t := range factories {
		ts = append(ts, t)
	}
	sort.Strings(ts)
	return ts
}
