// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/bv"
	"github.com/db47h/rtlsim/hwlib"
	"github.com/db47h/rtlsim/hwtest"
)

var _ = Describe("Memory", func() {
	var b *hwtest.Bench[*hwlib.Memory]

	BeforeEach(func() {
		b = bench(hwlib.NewMemory(hwlib.MemoryConfig{Size: 32}))
	})

	It("should read back a written word", func() {
		b.Set("read_enable", 0)
		b.Set("write_enable", 1)
		b.Set("address", 3)
		b.Set("write_data", 724)
		b.Cycle(1)
		Expect(b.Bool("read_valid")).To(BeFalse())

		b.Set("read_enable", 1)
		b.Set("write_enable", 0)
		b.Cycle(1)
		Expect(b.Bool("read_valid")).To(BeTrue())
		Expect(b.Uint64("read_data")).To(Equal(uint64(724)))
	})

	It("should read before write", func() {
		b.Set("write_enable", 1)
		b.Set("address", 7)
		b.Set("write_data", 1)
		b.Cycle(1)
		b.Set("read_enable", 1)
		b.Set("write_data", 2)
		b.Cycle(1)
		Expect(b.Uint64("read_data")).To(Equal(uint64(1)))
		b.Cycle(1)
		Expect(b.Uint64("read_data")).To(Equal(uint64(2)))
	})

	It("should flag out of range reads", func() {
		b.Set("read_enable", 1)
		b.Set("address", 31)
		b.Cycle(1)
		Expect(b.Bool("read_valid")).To(BeTrue())
		b.Set("address", 32)
		b.Cycle(1)
		Expect(b.Bool("read_valid")).To(BeFalse())
	})

	It("should ignore out of range writes", func() {
		mb := bench(hwlib.NewMemory(hwlib.MemoryConfig{Size: 4, DataWidth: 8, AddrWidth: 4}))
		mb.Set("write_enable", 1)
		mb.Set("address", 9)
		mb.Set("write_data", 0xff)
		mb.Cycle(1)
		mb.With(func(m *hwlib.Memory) {
			for i := 0; i < m.Size(); i++ {
				Expect(m.Word(i).IsZero()).To(BeTrue())
			}
		})
	})

	DescribeTable("should reject bad configurations",
		func(cfg hwlib.MemoryConfig) {
			s := rtlsim.New(quiet())
			_, err := s.Instantiate("mem", hwlib.NewMemory(cfg))
			Expect(err).To(MatchError(hwlib.ErrConfig))
			Expect(s.NumInstances()).To(BeZero())
		},
		Entry("empty", hwlib.MemoryConfig{Size: 0}),
		Entry("data width", hwlib.MemoryConfig{Size: 1, DataWidth: bv.MaxWidth + 1}),
		Entry("address width", hwlib.MemoryConfig{Size: 17, AddrWidth: 4}),
		Entry("wide address", hwlib.MemoryConfig{Size: 1, AddrWidth: 65}),
	)
})

var _ = Describe("Counter", func() {
	It("should reset and count", func() {
		b := bench(hwlib.NewCounter(hwlib.CounterConfig{Width: 31, ResetValue: 32}))
		b.Set("reset_n", 0)
		b.Cycle(1)
		Expect(b.Uint64("count")).To(Equal(uint64(32)))

		b.Set("reset_n", 1)
		b.Set("decrement", 1)
		b.Cycle(10000)
		b.Set("increment", 1)
		b.Set("decrement", 0)
		b.Cycle(1000)
		Expect(b.Uint64("count")).To(Equal(uint64(32 - 9000 + 1<<31)))
		Expect(b.Get("count").Width()).To(Equal(31))
	})

	It("should hold when both directions are asserted", func() {
		b := bench(hwlib.NewCounter(hwlib.CounterConfig{Width: 4, ResetValue: 5}))
		b.Set("reset_n", 1)
		b.Set("increment", 1)
		b.Set("decrement", 1)
		b.Cycle(3)
		Expect(b.Uint64("count")).To(Equal(uint64(5)))
		b.Set("decrement", 0)
		b.Cycle(12)
		Expect(b.Uint64("count")).To(Equal(uint64(1)))
	})

	It("should reload its reset value on forced reset", func() {
		b := bench(hwlib.NewCounter(hwlib.CounterConfig{Width: 8, ResetValue: 9}))
		b.Set("reset_n", 1)
		b.Set("increment", 1)
		b.Cycle(4)
		Expect(b.Uint64("count")).To(Equal(uint64(13)))
		b.Sim.ResetAll()
		Expect(b.Uint64("count")).To(Equal(uint64(9)))
	})
})

var _ = Describe("Register", func() {
	It("should load on enable", func() {
		b := bench(hwlib.NewRegister(hwlib.RegisterConfig{Width: 16}))
		b.Set("d", 0xbeef)
		b.Cycle(1)
		Expect(b.Uint64("q")).To(BeZero())
		b.Set("en", 1)
		b.Cycle(1)
		Expect(b.Uint64("q")).To(Equal(uint64(0xbeef)))
	})

	It("should reject a negative width", func() {
		s := rtlsim.New(quiet())
		_, err := s.Instantiate("r", hwlib.NewRegister(hwlib.RegisterConfig{Width: -1}))
		Expect(err).To(MatchError(hwlib.ErrConfig))
	})
})

var _ = Describe("ALU", func() {
	DescribeTable("operations",
		func(op, a, b, y uint64, zero, carry bool) {
			u := bench(hwlib.NewALU(hwlib.ALUConfig{Width: 8}))
			u.Set("op", op)
			u.Set("a", a)
			u.Set("b", b)
			u.Propagate()
			Expect(u.Uint64("y")).To(Equal(y))
			Expect(u.Bool("zero")).To(Equal(zero))
			Expect(u.Bool("carry")).To(Equal(carry))
		},
		Entry("add", uint64(hwlib.OpAdd), uint64(100), uint64(27), uint64(127), false, false),
		Entry("add carry", uint64(hwlib.OpAdd), uint64(200), uint64(56), uint64(0), true, true),
		Entry("sub", uint64(hwlib.OpSub), uint64(5), uint64(3), uint64(2), false, false),
		Entry("sub borrow", uint64(hwlib.OpSub), uint64(3), uint64(5), uint64(0xfe), false, true),
		Entry("and", uint64(hwlib.OpAnd), uint64(0xf0), uint64(0x3c), uint64(0x30), false, false),
		Entry("or", uint64(hwlib.OpOr), uint64(0xf0), uint64(0x0c), uint64(0xfc), false, false),
		Entry("xor", uint64(hwlib.OpXor), uint64(0xff), uint64(0xff), uint64(0), true, false),
		Entry("shl", uint64(hwlib.OpShl), uint64(0x81), uint64(1), uint64(0x02), false, false),
		Entry("shl out", uint64(hwlib.OpShl), uint64(0x81), uint64(8), uint64(0), true, false),
		Entry("shr", uint64(hwlib.OpShr), uint64(0x81), uint64(7), uint64(1), false, false),
		Entry("slt", uint64(hwlib.OpSlt), uint64(0xff), uint64(1), uint64(1), false, false),
		Entry("slt positive", uint64(hwlib.OpSlt), uint64(2), uint64(1), uint64(0), true, false),
	)

	It("should not be clocked", func() {
		u := bench(hwlib.NewALU(hwlib.ALUConfig{}))
		u.Set("a", 1)
		u.Set("b", 2)
		u.Sim.FireNextEdges()
		Expect(u.Sim.InstanceEdges(1, 0)).To(BeEmpty())
		u.Propagate()
		Expect(u.Uint64("y")).To(Equal(uint64(3)))
		Expect(u.Get("y").Width()).To(Equal(32))
	})
})

var _ = Describe("Mux", func() {
	It("should select its inputs", func() {
		m := bench(hwlib.NewMux(hwlib.MuxConfig{Width: 16}))
		m.Set("a", 0x1234)
		m.Set("b", 0xabcd)
		m.Propagate()
		Expect(m.Uint64("out")).To(Equal(uint64(0x1234)))
		m.Set("sel", 1)
		m.Propagate()
		Expect(m.Uint64("out")).To(Equal(uint64(0xabcd)))
		Expect(m.Get("out").Width()).To(Equal(16))
	})

	It("should route its input to the selected output", func() {
		d := bench(hwlib.NewDMux(hwlib.MuxConfig{Width: 4}))
		d.Set("in", 9)
		d.Propagate()
		Expect(d.Uint64("a")).To(Equal(uint64(9)))
		Expect(d.Uint64("b")).To(BeZero())
		d.Set("sel", 1)
		d.Propagate()
		Expect(d.Uint64("a")).To(BeZero())
		Expect(d.Uint64("b")).To(Equal(uint64(9)))
	})
})

var _ = Describe("GPIO", func() {
	var b *hwtest.Bench[*hwlib.GPIO]

	BeforeEach(func() {
		b = bench(hwlib.NewGPIO(hwlib.GPIOConfig{Width: 8}))
	})

	write := func(addr, v uint64) {
		b.Set("address", addr)
		b.Set("write_data", v)
		b.Set("write_enable", 1)
		b.Cycle(1)
		b.Set("write_enable", 0)
	}
	read := func(addr uint64) uint64 {
		b.Set("address", addr)
		b.Set("read_enable", 1)
		b.Cycle(1)
		b.Set("read_enable", 0)
		return b.Uint64("read_data")
	}

	It("should drive its outputs", func() {
		write(hwlib.GPIOOut, 0x5a)
		write(hwlib.GPIOOe, 0x0f)
		Expect(b.Uint64("pins_out")).To(Equal(uint64(0x5a)))
		Expect(b.Uint64("pins_oe")).To(Equal(uint64(0x0f)))
		write(hwlib.GPIOToggle, 0xff)
		Expect(b.Uint64("pins_out")).To(Equal(uint64(0xa5)))
		Expect(read(hwlib.GPIOOut)).To(Equal(uint64(0xa5)))
		Expect(read(hwlib.GPIOOe)).To(Equal(uint64(0x0f)))
		Expect(read(hwlib.GPIOToggle)).To(BeZero())
	})

	It("should synchronize its inputs", func() {
		b.Set("pins_in", 0x3c)
		Expect(read(hwlib.GPIOIn)).To(BeZero())
		Expect(read(hwlib.GPIOIn)).To(BeZero())
		Expect(read(hwlib.GPIOIn)).To(Equal(uint64(0x3c)))
		Expect(b.Uint64("in")).To(Equal(uint64(0x3c)))
	})
})
