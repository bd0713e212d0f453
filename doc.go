/*
Package rtlsim provides a cycle based simulator for clocked and combinational
RTL components operating on fixed width bit vectors.

A simulation is built from clocks and component instances. Clocks are periodic
signals with an optional initial delay and an optional falling edge. Components
implement the Component interface and register, in their Configure method,
which of their clock inputs react to rising or falling edges. Clock inputs are
then connected to clocks:

	s := rtlsim.New()
	defer s.Dispose()
	sys, _ := s.AddClock("sys", 0, 10, 5)
	h, _ := s.Instantiate("ram", hwlib.NewMemory(hwlib.MemoryConfig{Size: 1024}))
	_ = s.ConnectClock(sys, h, 0) // or s.Connect(h, "clk=sys")
	s.Prepare()
	_ = s.Start(true)
	for s.Time() < 1000 {
		s.FireNextEdges()
	}

Each call to FireNextEdges advances time to the next instant where some clock
has an edge, and clocks every instance driven by these edges. Instances can be
inspected or driven between steps through typed borrows (Inst, InstMut) or
through their named state elements (Instance).

Component state elements are most easily described with a StateTable built by
reflection from tagged struct fields. Package bv provides the value types.

*/
package rtlsim
