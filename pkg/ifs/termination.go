package ifs

import "context"

// TerminationCondition gates the Solver loop: it is polled at the top of
// every iteration and at branch-and-bound's deepest loop. On a
// termination request, the loop exits cleanly after the current iteration;
// no partial Neighbour is ever applied mid-check.
type TerminationCondition interface {
	CanContinue(s *Solution) bool
}

// MaxIterations stops the Solver once the Assignment's iteration counter
// reaches Limit.
type MaxIterations struct {
	Limit int
}

func (m MaxIterations) CanContinue(s *Solution) bool {
	return s.Assignment.Iteration() < m.Limit
}

// ContextTermination defers to a context.Context's cancellation, letting
// a caller stop the Solver loop via ordinary deadline/cancel wiring
// instead of a bespoke flag.
type ContextTermination struct {
	Ctx context.Context
}

func (c ContextTermination) CanContinue(s *Solution) bool {
	return c.Ctx == nil || c.Ctx.Err() == nil
}

// CompositeTermination continues only while every member condition
// continues.
type CompositeTermination []TerminationCondition

func (c CompositeTermination) CanContinue(s *Solution) bool {
	for _, t := range c {
		if !t.CanContinue(s) {
			return false
		}
	}
	return true
}
