// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bv

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxWidth is the widest supported bit vector.
//
const MaxWidth = 256

const nwords = MaxWidth / 64

// Bv is a fixed width bit vector. The width is set at construction and never
// changes; arithmetic wraps around modulo 2^width.
//
// Bv values are comparable and can be used as map keys: bits beyond the
// width are always zero.
//
// The zero value is a zero-width vector which is only good as a placeholder
// to be overwritten by New or one of the Of functions.
//
type Bv struct {
	n uint16
	w [nwords]uint64
}

func checkWidth(n int) {
	if n < 1 || n > MaxWidth {
		panic(errors.Errorf("bv: invalid width %d", n))
	}
}

// New returns an all zero vector of width n.
//
func New(n int) Bv {
	checkWidth(n)
	return Bv{n: uint16(n)}
}

// Ones returns an all ones vector of width n.
//
func Ones(n int) Bv {
	return New(n).Not()
}

// OfUint64 returns a vector of width n set to v truncated to n bits.
//
func OfUint64(n int, v uint64) Bv {
	b := New(n)
	b.w[0] = v
	return b.masked()
}

// OfWords returns a vector of width n from the given little endian words.
// Excess words and bits are discarded.
//
func OfWords(n int, words ...uint64) Bv {
	b := New(n)
	copy(b.w[:b.nw()], words)
	return b.masked()
}

// Width returns the vector width in bits.
//
func (b Bv) Width() int { return int(b.n) }

func (b Bv) nw() int { return (int(b.n) + 63) / 64 }

func (b Bv) masked() Bv {
	nw := b.nw()
	if r := b.n % 64; r != 0 {
		b.w[nw-1] &= 1<<r - 1
	}
	for i := nw; i < nwords; i++ {
		b.w[i] = 0
	}
	return b
}

func (b Bv) mustMatch(o Bv, op string) {
	if b.n != o.n || b.n == 0 {
		panic(errors.Errorf("bv: %s: width mismatch %d != %d", op, b.n, o.n))
	}
}

func (b Bv) mustIndex(i int) {
	if i < 0 || i >= int(b.n) {
		panic(errors.Errorf("bv: bit index %d out of range for width %d", i, b.n))
	}
}

// Uint64 returns the low 64 bits of b.
//
func (b Bv) Uint64() uint64 { return b.w[0] }

// TryUint64 returns the value of b as an uint64. It returns false if the
// value does not fit in 64 bits.
//
func (b Bv) TryUint64() (uint64, bool) {
	for _, w := range b.w[1:] {
		if w != 0 {
			return 0, false
		}
	}
	return b.w[0], true
}

// Words returns a copy of the backing words, including unused ones.
//
func (b Bv) Words() []uint64 {
	w := make([]uint64, nwords)
	copy(w, b.w[:])
	return w
}

// IsZero returns true if all bits are zero.
//
func (b Bv) IsZero() bool { return b.w == [nwords]uint64{} }

// And returns b & o.
//
func (b Bv) And(o Bv) Bv {
	b.mustMatch(o, "and")
	for i := range b.w {
		b.w[i] &= o.w[i]
	}
	return b
}

// Or returns b | o.
//
func (b Bv) Or(o Bv) Bv {
	b.mustMatch(o, "or")
	for i := range b.w {
		b.w[i] |= o.w[i]
	}
	return b
}

// Xor returns b ^ o.
//
func (b Bv) Xor(o Bv) Bv {
	b.mustMatch(o, "xor")
	for i := range b.w {
		b.w[i] ^= o.w[i]
	}
	return b
}

// Not returns ^b.
//
func (b Bv) Not() Bv {
	checkWidth(int(b.n))
	for i := range b.w {
		b.w[i] = ^b.w[i]
	}
	return b.masked()
}

// Add returns b + o mod 2^width.
//
func (b Bv) Add(o Bv) Bv {
	b.mustMatch(o, "add")
	var c uint64
	for i, nw := 0, b.nw(); i < nw; i++ {
		b.w[i], c = bits.Add64(b.w[i], o.w[i], c)
	}
	return b.masked()
}

// Sub returns b - o mod 2^width.
//
func (b Bv) Sub(o Bv) Bv {
	b.mustMatch(o, "sub")
	var c uint64
	for i, nw := 0, b.nw(); i < nw; i++ {
		b.w[i], c = bits.Sub64(b.w[i], o.w[i], c)
	}
	return b.masked()
}

// Neg returns -b mod 2^width.
//
func (b Bv) Neg() Bv {
	return New(b.Width()).Sub(b)
}

// Shl returns b << k. Bits shifted out are lost.
//
func (b Bv) Shl(k uint) Bv {
	checkWidth(int(b.n))
	if k >= uint(b.n) {
		return New(int(b.n))
	}
	ws, bs := int(k/64), k%64
	var r Bv
	r.n = b.n
	for i := b.nw() - 1; i >= ws; i-- {
		v := b.w[i-ws] << bs
		if bs > 0 && i-ws-1 >= 0 {
			v |= b.w[i-ws-1] >> (64 - bs)
		}
		r.w[i] = v
	}
	return r.masked()
}

// Shr returns b >> k (logical shift).
//
func (b Bv) Shr(k uint) Bv {
	checkWidth(int(b.n))
	if k >= uint(b.n) {
		return New(int(b.n))
	}
	ws, bs := int(k/64), k%64
	var r Bv
	r.n = b.n
	for i := 0; i+ws < nwords; i++ {
		v := b.w[i+ws] >> bs
		if bs > 0 && i+ws+1 < nwords {
			v |= b.w[i+ws+1] << (64 - bs)
		}
		r.w[i] = v
	}
	return r.masked()
}

// Bit returns bit i.
//
func (b Bv) Bit(i int) Bit {
	b.mustIndex(i)
	return Bit(b.w[i/64] >> (uint(i) % 64) & 1)
}

// SetBit returns a copy of b with bit i set to v.
//
func (b Bv) SetBit(i int, v Bit) Bv {
	b.mustIndex(i)
	m := uint64(1) << (uint(i) % 64)
	if v.Bool() {
		b.w[i/64] |= m
	} else {
		b.w[i/64] &^= m
	}
	return b
}

// Resize returns b zero extended or truncated to n bits.
//
func (b Bv) Resize(n int) Bv {
	checkWidth(n)
	b.n = uint16(n)
	return b.masked()
}

// Range returns bits hi down to lo (inclusive) as a hi-lo+1 bits vector.
//
func (b Bv) Range(hi, lo int) Bv {
	b.mustIndex(hi)
	b.mustIndex(lo)
	if lo > hi {
		panic(errors.Errorf("bv: invalid range [%d:%d]", hi, lo))
	}
	return b.Shr(uint(lo)).Resize(hi - lo + 1)
}

// SetRange returns a copy of b with bits hi down to lo replaced by v. The
// width of v must be exactly hi-lo+1.
//
func (b Bv) SetRange(hi, lo int, v Bv) Bv {
	b.mustIndex(hi)
	b.mustIndex(lo)
	if lo > hi || v.Width() != hi-lo+1 {
		panic(errors.Errorf("bv: cannot assign %d bits value to range [%d:%d]", v.Width(), hi, lo))
	}
	n := b.Width()
	mask := Ones(v.Width()).Resize(n).Shl(uint(lo))
	return b.And(mask.Not()).Or(v.Resize(n).Shl(uint(lo)))
}

// Concat returns the concatenation {b, lo}: lo occupies the low bits of the
// result.
//
func (b Bv) Concat(lo Bv) Bv {
	n := b.Width() + lo.Width()
	return b.Resize(n).Shl(uint(lo.Width())).Or(lo.Resize(n))
}

// Cmp compares b and o and returns -1, 0 or +1. Narrower vectors sort first,
// vectors of the same width compare as unsigned integers.
//
func (b Bv) Cmp(o Bv) int {
	switch {
	case b.n < o.n:
		return -1
	case b.n > o.n:
		return 1
	}
	for i := nwords - 1; i >= 0; i-- {
		switch {
		case b.w[i] < o.w[i]:
			return -1
		case b.w[i] > o.w[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether b sorts before o.
//
func (b Bv) Less(o Bv) bool { return b.Cmp(o) < 0 }

// Equal reports whether b and o have the same width and value.
//
func (b Bv) Equal(o Bv) bool { return b == o }

// Get returns *b.
//
func (b *Bv) Get() Bv { return *b }

// Set assigns v to b. Both must have the same width.
//
func (b *Bv) Set(v Bv) {
	b.mustMatch(v, "set")
	*b = v
}

// SetUint64 sets b to v truncated to the width of b.
//
func (b *Bv) SetUint64(v uint64) {
	*b = OfUint64(b.Width(), v)
}

func (b Bv) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(int(b.n)))
	sb.WriteString("'h")
	i := b.nw() - 1
	for i > 0 && b.w[i] == 0 {
		i--
	}
	if i < 0 {
		sb.WriteByte('0')
		return sb.String()
	}
	sb.WriteString(strconv.FormatUint(b.w[i], 16))
	for i--; i >= 0; i-- {
		s := strconv.FormatUint(b.w[i], 16)
		sb.WriteString(strings.Repeat("0", 16-len(s)))
		sb.WriteString(s)
	}
	return sb.String()
}
