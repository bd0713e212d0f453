// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package bv implements the fixed width values manipulated by simulated
components: single bits (Bit) and bit vectors (Bv).

Bit vectors are values, not references: every operation returns a new vector
and leaves its operands untouched. Operations on vectors of different widths,
out of range bit indices and invalid widths are programming errors and panic.

	a := bv.OfUint64(8, 0xf0)
	b := a.Add(bv.OfUint64(8, 0x20)) // 8'h10, wrapped around
	c := b.Range(7, 4)               // 4'h1
*/
package bv
