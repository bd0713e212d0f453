// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bv

import "github.com/pkg/errors"

// Bit is a single bit value. Valid values are Zero and One.
//
type Bit uint8

// Bit values.
const (
	Zero Bit = 0
	One  Bit = 1
)

var (
	andTable = [2][2]Bit{{Zero, Zero}, {Zero, One}}
	orTable  = [2][2]Bit{{Zero, One}, {One, One}}
	xorTable = [2][2]Bit{{Zero, One}, {One, Zero}}
	notTable = [2]Bit{One, Zero}
)

// OfBool converts a bool to a Bit.
//
func OfBool(v bool) Bit {
	if v {
		return One
	}
	return Zero
}

// Bool returns true if b is One.
//
func (b Bit) Bool() bool { return b.must() == One }

// And returns b & o.
//
func (b Bit) And(o Bit) Bit { return andTable[b][o] }

// Or returns b | o.
//
func (b Bit) Or(o Bit) Bit { return orTable[b][o] }

// Xor returns b ^ o.
//
func (b Bit) Xor(o Bit) Bit { return xorTable[b][o] }

// Not returns !b.
//
func (b Bit) Not() Bit { return notTable[b] }

// Less reports whether b < o, with Zero < One.
//
func (b Bit) Less(o Bit) bool { return b.must() < o.must() }

// Cmp compares b and o and returns -1, 0 or +1.
//
func (b Bit) Cmp(o Bit) int {
	switch {
	case b.Less(o):
		return -1
	case o.Less(b):
		return 1
	}
	return 0
}

// Width returns 1.
//
func (Bit) Width() int { return 1 }

// Get returns b as a 1 bit vector.
//
func (b *Bit) Get() Bv { return OfUint64(1, uint64(b.must())) }

// Set sets b from a 1 bit vector.
//
func (b *Bit) Set(v Bv) {
	if v.Width() != 1 {
		panic(errors.Errorf("bv: cannot assign %d bits value to a Bit", v.Width()))
	}
	*b = v.Bit(0)
}

func (b Bit) String() string {
	if b.must() == One {
		return "1"
	}
	return "0"
}

func (b Bit) must() Bit {
	if b > One {
		panic(errors.Errorf("bv: invalid Bit value %d", uint8(b)))
	}
	return b
}
