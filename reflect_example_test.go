// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim_test

import (
	"fmt"

	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/bv"
)

// accumulator adds its input to its output on every rising clock edge.
//
type accumulator struct {
	Clk rtlsim.ClockPin `rtl:"clock"`
	In  struct {
		D bv.Bv `rtl:"input"`
	}
	Out struct {
		Q bv.Bv `rtl:"output"`
	}
}

// no need to import reflect, just cast a nil pointer to accumulator
var accTable = rtlsim.NewStateTable((*accumulator)(nil))

func (a *accumulator) Configure(r *rtlsim.Registrar, h rtlsim.Handle) error {
	r.RegisterInputEdge(h, 0, true, false)
	return nil
}

func (a *accumulator) Reset(rtlsim.ResetReason) { a.Out.Q = bv.New(8) }
func (a *accumulator) Clock(m rtlsim.EdgeMask)  { a.Out.Q = a.Out.Q.Add(a.In.D) }
func (a *accumulator) Propagate(int)            {}

func (a *accumulator) StateInfo(i rtlsim.StateIndex) (rtlsim.StateInfo, bool) {
	return accTable.Info(i)
}

func (a *accumulator) StateRef(i rtlsim.StateIndex) rtlsim.ValueRef { return accTable.Ref(a, i) }

// NewStateTable example with a custom accumulator.
func ExampleNewStateTable() {
	s := rtlsim.New(rtlsim.WithLogger(quietLogger()))
	defer s.Dispose()
	if _, err := s.AddClock("sys", 0, 2, 1); err != nil {
		panic(err)
	}
	acc := &accumulator{}
	acc.In.D = bv.OfUint64(8, 100)
	h, err := s.Instantiate("acc", acc)
	if err != nil {
		panic(err)
	}
	if err = s.Connect(h, "clk=sys"); err != nil {
		panic(err)
	}
	s.Prepare()
	if err = s.Start(true); err != nil {
		panic(err)
	}
	inst := s.Instance(h)
	q, _ := inst.StateIndex("q")
	for i := 0; i < 4; i++ {
		s.FireNextEdges()
		v, _ := inst.TryStateData(q)
		fmt.Printf("t=%d q=%v\n", s.Time(), v)
	}

	// Output:
	// t=0 q=8'h64
	// t=1 q=8'h64
	// t=2 q=8'hc8
	// t=3 q=8'hc8
}
