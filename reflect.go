// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

var (
	clockPinType = reflect.TypeOf(ClockPin{})
	valueRefType = reflect.TypeOf((*ValueRef)(nil)).Elem()
)

// A StateTable maps the state elements of a component struct type to state
// indices. Components built on a StateTable get StateInfo and StateRef for
// free:
//
//	type Reg struct {
//		Clk rtlsim.ClockPin `rtl:"clock"`
//		In  struct {
//			D bv.Bv `rtl:"input"`
//		}
//		Out struct {
//			Q bv.Bv `rtl:"output"`
//		}
//	}
//
//	var regTable = rtlsim.NewStateTable((*Reg)(nil))
//
//	func (r *Reg) StateInfo(i rtlsim.StateIndex) (rtlsim.StateInfo, bool) { return regTable.Info(i) }
//	func (r *Reg) StateRef(i rtlsim.StateIndex) rtlsim.ValueRef            { return regTable.Ref(r, i) }
//
type StateTable struct {
	typ    reflect.Type
	info   []StateInfo
	paths  [][]int
	names  map[string]StateIndex
	clocks int
}

// NewStateTable builds the state table of the struct type of v, which can be
// a nil pointer.
//
// State elements are exported fields tagged `rtl:"kind"` or
// `rtl:"kind,name"`, where kind is one of clock, input, output or state. The
// default name is the field name in lower case. Clock fields must be of type
// ClockPin and are numbered as edge inputs in declaration order. Other fields
// must be of a type whose pointer implements ValueRef, like bv.Bit or bv.Bv.
// Untagged exported struct fields are walked recursively.
//
// NewStateTable panics on malformed tags or unsupported field types.
//
func NewStateTable(v interface{}) *StateTable {
	typ := reflect.TypeOf(v)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}
	t := &StateTable{typ: typ, names: make(map[string]StateIndex)}
	t.walk(typ, nil)
	return t
}

func (t *StateTable) walk(typ reflect.Type, path []int) {
	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		p := append(path[:len(path):len(path)], i)
		tag, ok := f.Tag.Lookup("rtl")
		if !ok {
			if f.PkgPath == "" && f.Type.Kind() == reflect.Struct && f.Type != clockPinType {
				t.walk(f.Type, p)
			}
			continue
		}
		if f.PkgPath != "" {
			panic(errors.Errorf("unexported field %q in %q", f.Name, t.typ.Name()))
		}
		tv := strings.Split(tag, ",")
		si := StateInfo{Name: strings.ToLower(f.Name)}
		if len(tv) > 1 && tv[1] != "" {
			si.Name = tv[1]
		}
		switch tv[0] {
		case "clock":
			if f.Type != clockPinType {
				panic(errors.Errorf("clock field %q in %q must be a ClockPin", f.Name, t.typ.Name()))
			}
			si.Kind = KindClock
			si.Input = t.clocks
			t.clocks++
		case "input":
			si.Kind = KindInput
		case "output":
			si.Kind = KindOutput
		case "state":
			si.Kind = KindState
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, t.typ.Name()))
		}
		if si.Kind != KindClock && !reflect.PtrTo(f.Type).Implements(valueRefType) {
			panic(errors.Errorf("unsupported type %q for field %q in %q", f.Type, f.Name, t.typ.Name()))
		}
		if _, dup := t.names[si.Name]; dup {
			panic(errors.Errorf("duplicate state name %q in %q", si.Name, t.typ.Name()))
		}
		t.names[si.Name] = StateIndex(len(t.info))
		t.info = append(t.info, si)
		t.paths = append(t.paths, p)
	}
}

// Len returns the number of state elements.
//
func (t *StateTable) Len() int { return len(t.info) }

// Clocks returns the number of clock inputs.
//
func (t *StateTable) Clocks() int { return t.clocks }

// Info returns the description of state element i.
//
func (t *StateTable) Info(i StateIndex) (StateInfo, bool) {
	if i < 0 || int(i) >= len(t.info) {
		return StateInfo{}, false
	}
	return t.info[i], true
}

// Lookup returns the index of the named state element.
//
func (t *StateTable) Lookup(name string) (StateIndex, bool) {
	i, ok := t.names[name]
	return i, ok
}

// Ref returns a reference to state element i of c, which must be a pointer
// to the table's struct type. It returns nil for clock pins and out of range
// indices.
//
func (t *StateTable) Ref(c interface{}, i StateIndex) ValueRef {
	if i < 0 || int(i) >= len(t.info) || t.info[i].Kind == KindClock {
		return nil
	}
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Ptr || v.Elem().Type() != t.typ {
		panic(errors.Errorf("state table for %q used with %T", t.typ.Name(), c))
	}
	return v.Elem().FieldByIndex(t.paths[i]).Addr().Interface().(ValueRef)
}
