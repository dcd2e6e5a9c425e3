package ifs

import (
	"github.com/sirupsen/logrus"
)

// NeighbourSelection is the pluggable core of every search phase: given
// the current Solution, propose a Neighbour to apply, or nil to decline
// (the composite controller, pkg/ifs/search, treats a nil return as
// "advance to the next phase" or "idle tick").
type NeighbourSelection interface {
	SelectNeighbour(s *Solution) Neighbour
}

// Solver drives iterations of a NeighbourSelection against a Solution
// until its TerminationCondition refuses to continue.
type Solver struct {
	Solution  *Solution
	Selection NeighbourSelection
	Terminate TerminationCondition
	Progress  Progress
	Log       logrus.FieldLogger
	Metrics   *Metrics

	iteration int
}

// NewSolver builds a Solver over solution, driven by selection and gated
// by terminate. Progress, Log, and Metrics are optional ambient
// collaborators injected by the caller — those that don't supply them get
// safe no-op defaults.
func NewSolver(solution *Solution, selection NeighbourSelection, terminate TerminationCondition, opts ...SolverOption) *Solver {
	s := &Solver{
		Solution:  solution,
		Selection: selection,
		Terminate: terminate,
		Progress:  NoopProgress{},
		Log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.iteration = solution.Assignment.Iteration()
	return s
}

// SolverOption configures optional Solver collaborators.
type SolverOption func(*Solver)

func WithProgress(p Progress) SolverOption { return func(s *Solver) { s.Progress = p } }
func WithLogger(l logrus.FieldLogger) SolverOption {
	return func(s *Solver) { s.Log = l }
}
func WithMetrics(m *Metrics) SolverOption { return func(s *Solver) { s.Metrics = m } }

// Run drives the Solver loop until Terminate.CanContinue reports false.
// Each iteration calls Selection.SelectNeighbour; if it returns a
// Neighbour, the Neighbour is applied at the next iteration counter,
// listeners fire, and best-saving is attempted. If it returns nil, the
// loop still advances the iteration counter (an idle tick) so composite
// controllers can eventually exhaust every phase.
//
// Run returns the number of iterations actually executed.
func (s *Solver) Run() int {
	ran := 0
	for s.Terminate.CanContinue(s.Solution) {
		s.step()
		ran++
	}
	return ran
}

// Step executes exactly one iteration and reports whether the loop should
// keep going afterward, for callers that want to interleave their own
// control flow with the Solver (e.g. a UI event loop) instead of calling
// Run.
func (s *Solver) Step() bool {
	if !s.Terminate.CanContinue(s.Solution) {
		return false
	}
	s.step()
	return s.Terminate.CanContinue(s.Solution)
}

func (s *Solver) step() {
	neighbour := s.Selection.SelectNeighbour(s.Solution)
	a := s.Solution.Assignment
	s.iteration++
	if neighbour != nil {
		neighbour.Assign(a, s.iteration)
	}
	if a.iteration < s.iteration {
		// An idle tick, or a Neighbour whose Assign changed nothing, still
		// advances the Assignment's counter, which MaxIterations reads.
		a.iteration = s.iteration
	}
	s.iteration = a.iteration

	current := s.Solution.Value()
	s.Metrics.observeIteration(s.iteration, current)

	if neighbour != nil && s.Solution.TrySaveBest() {
		s.Metrics.observeBest(s.Solution.BestValue())
		s.Log.WithFields(logrus.Fields{
			"iteration": s.iteration,
			"value":     s.Solution.BestValue(),
		}).Debug("ifs: new best solution saved")
	}

	s.Solution.NotifyIterationDone()
}
