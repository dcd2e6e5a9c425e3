package search

import (
	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
	"github.com/sirupsen/logrus"
)

// Phase names the composite controller's state machine.
type Phase int

const (
	PhaseEntry Phase = iota - 1
	PhaseConstruction
	PhaseIFS
	PhaseHillClimbing
	PhaseImprovement // annealing or great deluge
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseEntry:
		return "entry"
	case PhaseConstruction:
		return "construction"
	case PhaseIFS:
		return "ifs"
	case PhaseHillClimbing:
		return "hill-climbing"
	case PhaseImprovement:
		return "improvement"
	default:
		return "terminal"
	}
}

// phaseState is the per-assignment context the composite controller keeps:
// an explicit small state machine on an integer phase counter, stored in
// the assignment context. It is looked up by assignment identity via
// ifs.ContextOf so one SimpleSearch instance can drive several concurrent
// Assignments safely under parallel restarts.
type phaseState struct {
	phase Phase
}

// HillClimberPhase is the subset of HillClimber/StepCountingHillClimber
// the composite controller needs to detect idle-limit-reached and to
// reset the idle counter when the assignment becomes incomplete mid-phase.
type HillClimberPhase interface {
	ifs.NeighbourSelection
	ResetIdle()
}

// SimpleSearch delegates to an ordered sequence of sub-selections
// (construction -> standard IFS -> hill climb -> annealing or deluge),
// advancing phase when the previous phase declines to propose a move or
// when the assignment is complete for construction. Phase transitions are
// a single-call advance: a phase whose condition is immediately satisfied
// falls through to the next phase within the same SelectNeighbour call,
// rather than returning nil between phases.
type SimpleSearch struct {
	Construction              ifs.NeighbourSelection // optional; nil skips the construction phase
	ConstructionUntilComplete bool
	IFS                       ifs.NeighbourSelection
	HillClimbing              HillClimberPhase
	Improvement               ifs.NeighbourSelection // simulated annealing or great deluge
	Variables                 []ifs.Variable

	Progress ifs.Progress
	Log      logrus.FieldLogger
	Metrics  *ifs.Metrics
}

var simpleSearchContextKey = struct{}{}

func (ss *SimpleSearch) state(s *ifs.Solution) *phaseState {
	return ifs.ContextOf(s.Assignment, simpleSearchContextKey, func() *phaseState {
		return &phaseState{phase: PhaseEntry}
	})
}

func (ss *SimpleSearch) logger() logrus.FieldLogger {
	if ss.Log != nil {
		return ss.Log
	}
	return logrus.StandardLogger()
}

func (ss *SimpleSearch) progress() ifs.Progress {
	if ss.Progress != nil {
		return ss.Progress
	}
	return ifs.NoopProgress{}
}

func (ss *SimpleSearch) advance(state *phaseState, next Phase) {
	state.phase = next
	ss.progress().SetPhase(next.String())
	ss.Metrics.ObservePhase(next.String())
	ss.logger().WithField("phase", next.String()).Info("ifs: phase transition")
}

// SelectNeighbour implements the composite controller's phase table.
func (ss *SimpleSearch) SelectNeighbour(s *ifs.Solution) ifs.Neighbour {
	state := ss.state(s)

	if state.phase == PhaseEntry {
		ss.advance(state, PhaseConstruction)
	}

	if state.phase == PhaseConstruction {
		if ss.Construction == nil {
			ss.advance(state, PhaseIFS)
		} else {
			n := ss.Construction.SelectNeighbour(s)
			complete := len(s.Assignment.UnassignedVariables(ss.Variables)) == 0
			if n != nil {
				return n
			}
			if ss.ConstructionUntilComplete && !complete {
				// Construction.UntilComplete: retry until all assigned
				// rather than handing off on the first nil.
				return nil
			}
			ss.advance(state, PhaseIFS)
		}
	}

	if state.phase == PhaseIFS {
		n := ss.IFS.SelectNeighbour(s)
		s.CheckFirstComplete(len(s.Assignment.UnassignedVariables(ss.Variables)) == 0)
		if n != nil {
			return n
		}
		if len(s.Assignment.UnassignedVariables(ss.Variables)) > 0 {
			// IFS declined but the assignment still isn't complete;
			// nothing more to try this call.
			return nil
		}
		ss.advance(state, PhaseHillClimbing)
	}

	if state.phase == PhaseHillClimbing {
		if ss.incomplete(s) {
			ss.revertToRefill(state)
			return ss.SelectNeighbour(s)
		}
		n := ss.HillClimbing.SelectNeighbour(s)
		if n != nil {
			return n
		}
		ss.advance(state, PhaseImprovement)
	}

	if state.phase == PhaseImprovement {
		if ss.incomplete(s) {
			ss.revertToRefill(state)
			return ss.SelectNeighbour(s)
		}
		return ss.Improvement.SelectNeighbour(s)
	}

	return nil
}

func (ss *SimpleSearch) incomplete(s *ifs.Solution) bool {
	return len(s.Assignment.UnassignedVariables(ss.Variables)) > 0
}

// revertToRefill handles the case where the assignment becomes incomplete
// during hill climbing or improvement: control reverts to whichever of IFS
// or construction is available to refill before resuming improvement, and
// the hill climber's idle counter is reset since the landscape it was
// counting idle iterations against no longer applies.
func (ss *SimpleSearch) revertToRefill(state *phaseState) {
	if ss.HillClimbing != nil {
		ss.HillClimbing.ResetIdle()
	}
	if ss.Construction != nil {
		ss.advance(state, PhaseConstruction)
		return
	}
	ss.advance(state, PhaseIFS)
}

// FinalPolish performs a final sweep of hill climbing to polish the
// best-known solution on termination. limit bounds how many consecutive
// nil returns are treated as "nothing left to polish".
func (ss *SimpleSearch) FinalPolish(s *ifs.Solution, limit int) {
	if ss.HillClimbing == nil {
		return
	}
	ss.HillClimbing.ResetIdle()
	iteration := s.Assignment.Iteration()
	misses := 0
	for misses < limit {
		n := ss.HillClimbing.SelectNeighbour(s)
		iteration++
		if n == nil {
			misses++
			continue
		}
		n.Assign(s.Assignment, iteration)
		iteration = s.Assignment.Iteration()
		s.TrySaveBest()
		misses = 0
	}
}
