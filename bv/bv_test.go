// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bv_test

import (
	"math"
	"math/bits"
	"testing"
	"testing/quick"

	"github.com/db47h/rtlsim/bv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var widths = []int{1, 2, 3, 7, 8, 31, 32, 63, 64, 65, 128}

var samples = []uint64{
	0, 1, 2, 3, 5, 0x7f, 0x80, 0xff, 0x100, 0xdead, 0x7fffffff, 0x80000000,
	0xffffffff, 0x100000000, 0x123456789abcdef, math.MaxInt64, math.MaxUint64 - 1, math.MaxUint64,
}

func fits(n int, v uint64) bool {
	return n >= 64 || v < 1<<uint(n)
}

func lowMask(n int) uint64 {
	if n >= 64 {
		return math.MaxUint64
	}
	return 1<<uint(n) - 1
}

// checkMasked verifies that no bit at or above the vector width is set in the
// raw representation.
func checkMasked(t *testing.T, b bv.Bv) {
	t.Helper()
	n := b.Width()
	for i, w := range b.Words() {
		lo := i * 64
		var want uint64
		switch {
		case n >= lo+64:
			want = w
		case n > lo:
			want = w & (1<<uint(n-lo) - 1)
		}
		require.Equalf(t, want, w, "word %d of %s has bits set beyond width %d", i, b, n)
	}
}

func TestBv_roundTrip(t *testing.T) {
	for _, n := range widths {
		for _, v := range samples {
			if !fits(n, v) {
				continue
			}
			got, ok := bv.OfUint64(n, v).TryUint64()
			require.Truef(t, ok, "width %d value %#x", n, v)
			assert.Equalf(t, v, got, "width %d", n)
		}
	}
}

func TestBv_wrapAdd(t *testing.T) {
	for _, n := range widths {
		for _, v1 := range samples {
			for _, v2 := range samples {
				if !fits(n, v1) || !fits(n, v2) {
					continue
				}
				sum, carry := bits.Add64(v1, v2, 0)
				var want bv.Bv
				if n > 64 {
					want = bv.OfWords(n, sum, carry)
				} else {
					want = bv.OfUint64(n, sum&lowMask(n))
				}
				got := bv.OfUint64(n, v1).Add(bv.OfUint64(n, v2))
				require.Equalf(t, want, got, "width %d: %#x + %#x", n, v1, v2)
				checkMasked(t, got)
			}
		}
	}
}

func TestBv_sub(t *testing.T) {
	a := bv.OfUint64(8, 3)
	b := bv.OfUint64(8, 5)
	assert.Equal(t, bv.OfUint64(8, 0xfe), a.Sub(b))
	assert.Equal(t, bv.OfUint64(8, 0xfd), a.Neg())

	w := bv.OfWords(128, 0, 1)
	assert.Equal(t, bv.OfWords(128, math.MaxUint64, 0), w.Sub(bv.OfUint64(128, 1)))
	assert.Equal(t, bv.Ones(128), bv.New(128).Sub(bv.OfUint64(128, 1)))
}

func TestBv_masking(t *testing.T) {
	for _, n := range widths {
		all := bv.Ones(n)
		checkMasked(t, all)
		checkMasked(t, all.Add(all))
		checkMasked(t, bv.New(n).Sub(bv.OfUint64(n, 1)))
		checkMasked(t, all.Shl(1))
		checkMasked(t, all.Shr(1))
		checkMasked(t, all.Not())
		checkMasked(t, bv.New(n).Not())
		checkMasked(t, bv.OfUint64(n, math.MaxUint64))
		checkMasked(t, bv.OfWords(n, math.MaxUint64, math.MaxUint64, math.MaxUint64, math.MaxUint64, 7))
		checkMasked(t, all.Neg())
		var b bv.Bv = bv.New(n)
		b.SetUint64(math.MaxUint64)
		checkMasked(t, b)
	}
}

func TestBv_shifts(t *testing.T) {
	td := []struct {
		n     int
		v     bv.Bv
		k     uint
		left  bv.Bv
		right bv.Bv
	}{
		{8, bv.OfUint64(8, 0x81), 1, bv.OfUint64(8, 0x02), bv.OfUint64(8, 0x40)},
		{8, bv.OfUint64(8, 0x81), 8, bv.New(8), bv.New(8)},
		{8, bv.OfUint64(8, 0x81), 0, bv.OfUint64(8, 0x81), bv.OfUint64(8, 0x81)},
		{65, bv.OfUint64(65, 1), 64, bv.OfWords(65, 0, 1), bv.New(65)},
		{128, bv.OfWords(128, 0x8000000000000000, 1), 1, bv.OfWords(128, 0, 3), bv.OfWords(128, 0xc000000000000000, 0)},
		{128, bv.OfWords(128, 0xff, 0), 68, bv.OfWords(128, 0, 0xff0), bv.New(128)},
		{128, bv.OfWords(128, 0, 0xff0), 68, bv.New(128), bv.OfWords(128, 0xff, 0)},
	}
	for _, d := range td {
		assert.Equalf(t, d.left, d.v.Shl(d.k), "%s << %d", d.v, d.k)
		assert.Equalf(t, d.right, d.v.Shr(d.k), "%s >> %d", d.v, d.k)
	}
}

func TestBv_bitOps(t *testing.T) {
	f := func(a, b uint64) bool {
		x, y := bv.OfUint64(64, a), bv.OfUint64(64, b)
		return x.And(y).Uint64() == a&b &&
			x.Or(y).Uint64() == a|b &&
			x.Xor(y).Uint64() == a^b &&
			x.Not().Uint64() == ^a &&
			x.Add(y).Uint64() == a+b &&
			x.Sub(y).Uint64() == a-b
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestBv_bits(t *testing.T) {
	b := bv.New(100)
	b = b.SetBit(99, bv.One).SetBit(0, bv.One).SetBit(64, bv.One)
	assert.Equal(t, bv.One, b.Bit(99))
	assert.Equal(t, bv.One, b.Bit(64))
	assert.Equal(t, bv.Zero, b.Bit(63))
	_, ok := b.TryUint64()
	assert.False(t, ok)
	b = b.SetBit(99, bv.Zero).SetBit(64, bv.Zero)
	v, ok := b.TryUint64()
	assert.True(t, ok)
	assert.Equal(t, uint64(1), v)

	assert.Panics(t, func() { b.Bit(100) })
	assert.Panics(t, func() { b.SetBit(-1, bv.One) })
}

func TestBv_ranges(t *testing.T) {
	b := bv.OfUint64(16, 0xabcd)
	assert.Equal(t, bv.OfUint64(4, 0xc), b.Range(7, 4))
	assert.Equal(t, bv.OfUint64(16, 0xab5d), b.SetRange(7, 4, bv.OfUint64(4, 5)))
	assert.Equal(t, bv.OfUint64(1, 1), b.Range(0, 0))

	w := bv.OfWords(128, 0xf000000000000000, 0xf)
	assert.Equal(t, bv.OfUint64(8, 0xff), w.Range(67, 60))
	assert.Equal(t, bv.OfWords(128, 0x0000000000000000, 0x5), w.SetRange(67, 60, bv.OfUint64(8, 0x50)))

	// wider and narrower conversions
	assert.Equal(t, bv.OfUint64(32, 0xabcd), b.Resize(32))
	assert.Equal(t, bv.OfUint64(8, 0xcd), b.Resize(8))
	assert.Equal(t, bv.OfUint64(24, 0xabcd12), b.Concat(bv.OfUint64(8, 0x12)))

	assert.Panics(t, func() { b.SetRange(7, 4, bv.OfUint64(5, 0)) })
	assert.Panics(t, func() { b.Range(16, 0) })
	assert.Panics(t, func() { b.Range(3, 4) })
}

func TestBv_order(t *testing.T) {
	a, b := bv.OfUint64(8, 1), bv.OfUint64(8, 2)
	assert.True(t, a.Less(b))
	assert.Equal(t, 0, a.Cmp(a))
	assert.Equal(t, 1, b.Cmp(a))
	assert.True(t, bv.OfUint64(4, 15).Less(bv.OfUint64(8, 0)))
	assert.True(t, bv.OfWords(128, math.MaxUint64, 0).Less(bv.OfWords(128, 0, 1)))
	assert.True(t, bv.New(12).IsZero())
	assert.Equal(t, bv.New(12), bv.OfUint64(12, 0))

	// comparable values hash consistently
	m := map[bv.Bv]int{bv.OfUint64(31, 32): 1}
	m[bv.OfUint64(31, 0).Add(bv.OfUint64(31, 32))]++
	assert.Equal(t, 2, m[bv.OfUint64(31, 32)])
	assert.Len(t, m, 1)
}

func TestBv_widthMismatch(t *testing.T) {
	assert.Panics(t, func() { bv.OfUint64(8, 1).Add(bv.OfUint64(9, 1)) })
	assert.Panics(t, func() { bv.New(0) })
	assert.Panics(t, func() { bv.New(bv.MaxWidth + 1) })
	var b bv.Bv = bv.New(8)
	assert.Panics(t, func() { b.Set(bv.New(4)) })
}

func TestBv_String(t *testing.T) {
	assert.Equal(t, "8'h2a", bv.OfUint64(8, 42).String())
	assert.Equal(t, "128'h10000000000000002", bv.OfWords(128, 2, 1).String())
	assert.Equal(t, "65'h0", bv.New(65).String())
}

func TestBit(t *testing.T) {
	assert.True(t, bv.Zero.Less(bv.One))
	assert.False(t, bv.One.Less(bv.Zero))
	assert.Equal(t, bv.One, bv.OfBool(true))
	assert.False(t, bv.Zero.Bool())
	td := []struct {
		a, b          bv.Bit
		and, or, xor bv.Bit
	}{
		{bv.Zero, bv.Zero, bv.Zero, bv.Zero, bv.Zero},
		{bv.Zero, bv.One, bv.Zero, bv.One, bv.One},
		{bv.One, bv.Zero, bv.Zero, bv.One, bv.One},
		{bv.One, bv.One, bv.One, bv.One, bv.Zero},
	}
	for _, d := range td {
		assert.Equal(t, d.and, d.a.And(d.b))
		assert.Equal(t, d.or, d.a.Or(d.b))
		assert.Equal(t, d.xor, d.a.Xor(d.b))
	}
	assert.Equal(t, bv.One, bv.Zero.Not())

	var b bv.Bit
	b.Set(bv.OfUint64(1, 1))
	assert.Equal(t, bv.One, b)
	assert.Equal(t, bv.OfUint64(1, 1), b.Get())
	assert.Panics(t, func() { b.Set(bv.OfUint64(2, 1)) })
	assert.Panics(t, func() { bv.Bit(2).Not() })
}
