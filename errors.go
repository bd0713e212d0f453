// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import "github.com/pkg/errors"

// Configuration errors. They are always returned wrapped with some context;
// use errors.Is or errors.Cause to test for them.
//
var (
	ErrDuplicateName   = errors.New("duplicate name")
	ErrInvalidClock    = errors.New("invalid clock")
	ErrTooManyClocks   = errors.New("too many clocks")
	ErrScheduleDerived = errors.New("schedule already derived")
	ErrPrepared        = errors.New("simulation already prepared")
	ErrUnknownName     = errors.New("unknown name")
	ErrNotEdgeInput    = errors.New("not a registered edge input")
)

// A StateError is returned by the simulation control methods when the
// requested transition is not allowed from the current run state.
//
type StateError struct {
	Op    string
	State RunState
}

func (e *StateError) Error() string {
	return "cannot " + e.Op + " simulation in state " + e.State.String()
}
