package search

import (
	"math/rand"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
)

// Neighbourhood is one of the pools a HillClimber (or great deluge, or
// simulated annealing) samples from. It has ifs.NeighbourSelection's
// shape; one that also implements HillClimberAware is told by the hill
// climbers that it may skip expensive worsening-move bookkeeping.
type Neighbourhood interface {
	ifs.NeighbourSelection
}

// HillClimberAware is optionally implemented by a Neighbourhood that wants
// to know it is being driven by a climber so it can skip work only
// relevant to an acceptance-gated caller. NewHillClimber and
// NewStepCountingHillClimber call it; the annealer and the deluge do not.
type HillClimberAware interface {
	SetHillClimberMode(enabled bool)
}

// HillClimber generates a random neighbour from one of several registered
// Neighbourhoods (picked uniformly at random) and accepts it iff its
// Value() <= 0. Returns nil once idle iterations (since the last accepted
// improving move) reach MaxIdleIters, handing control to the next phase.
type HillClimber struct {
	Neighbourhoods []Neighbourhood
	MaxIdleIters   int
	RetryBudget    int // bounded retries per outer call when a neighbourhood returns nil; default 8.
	Rng            *rand.Rand

	idle int
}

// NewHillClimber returns a HillClimber over neighbourhoods, ending a phase
// after maxIdleIters idle iterations (default 10000).
func NewHillClimber(neighbourhoods []Neighbourhood, maxIdleIters int, rng *rand.Rand) *HillClimber {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	for _, n := range neighbourhoods {
		if aware, ok := n.(HillClimberAware); ok {
			aware.SetHillClimberMode(true)
		}
	}
	return &HillClimber{Neighbourhoods: neighbourhoods, MaxIdleIters: maxIdleIters, RetryBudget: 8, Rng: rng}
}

func (h *HillClimber) SelectNeighbour(s *ifs.Solution) ifs.Neighbour {
	if h.idle >= h.MaxIdleIters {
		return nil
	}
	if len(h.Neighbourhoods) == 0 {
		return nil
	}

	budget := h.RetryBudget
	if budget <= 0 {
		budget = 8
	}
	for i := 0; i < budget; i++ {
		n := h.Neighbourhoods[h.Rng.Intn(len(h.Neighbourhoods))]
		candidate := n.SelectNeighbour(s)
		if candidate == nil {
			continue
		}
		if candidate.Value() <= 0 {
			if candidate.Value() < 0 {
				h.idle = 0
			} else {
				// A non-worsening but non-improving move is accepted and
				// still counts as an idle iteration.
				h.idle++
			}
			return candidate
		}
	}

	h.idle++
	return &rejectedNeighbour{}
}

// rejectedNeighbour is returned by the climber on an idle tick that still
// wants the Solver's iteration counter to advance without mutating the
// Assignment. It reports a zero delta and touches nothing.
type rejectedNeighbour struct{}

func (rejectedNeighbour) Value() float64              { return 0 }
func (rejectedNeighbour) Assign(*ifs.Assignment, int) {}

// IdleIterations returns the number of iterations since the last accepted
// improving move.
func (h *HillClimber) IdleIterations() int { return h.idle }

// ResetIdle zeroes the idle counter. Used by the composite controller when
// the assignment becomes incomplete mid-phase and control reverts to
// construction/IFS.
func (h *HillClimber) ResetIdle() { h.idle = 0 }

// StepCountingHillClimber implements the step-counting variant: accepts a
// candidate iff its Value() <= bound. The bound starts at the
// current solution value and is refreshed to the current value every
// CountingLimit steps, regardless of improvement, letting small worsening
// moves escape plateaux while bounding drift.
type StepCountingHillClimber struct {
	Neighbourhoods []Neighbourhood
	MaxIdleIters   int
	CountingLimit  int
	RetryBudget    int
	Rng            *rand.Rand

	idle        int
	steps       int
	bound       float64
	initialized bool
}

// NewStepCountingHillClimber returns a StepCountingHillClimber over
// neighbourhoods, refreshing its bound every countingLimit steps.
func NewStepCountingHillClimber(neighbourhoods []Neighbourhood, maxIdleIters, countingLimit int, rng *rand.Rand) *StepCountingHillClimber {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	for _, n := range neighbourhoods {
		if aware, ok := n.(HillClimberAware); ok {
			aware.SetHillClimberMode(true)
		}
	}
	return &StepCountingHillClimber{Neighbourhoods: neighbourhoods, MaxIdleIters: maxIdleIters, CountingLimit: countingLimit, RetryBudget: 8, Rng: rng}
}

func (h *StepCountingHillClimber) SelectNeighbour(s *ifs.Solution) ifs.Neighbour {
	if !h.initialized {
		h.bound = s.Value()
		h.initialized = true
	}
	if h.idle >= h.MaxIdleIters {
		return nil
	}
	if len(h.Neighbourhoods) == 0 {
		return nil
	}

	budget := h.RetryBudget
	if budget <= 0 {
		budget = 8
	}

	var accepted ifs.Neighbour
	for i := 0; i < budget; i++ {
		n := h.Neighbourhoods[h.Rng.Intn(len(h.Neighbourhoods))]
		candidate := n.SelectNeighbour(s)
		if candidate == nil {
			continue
		}
		if candidate.Value() <= h.bound {
			accepted = candidate
			break
		}
	}

	h.steps++
	if h.steps >= h.CountingLimit {
		h.steps = 0
		h.bound = s.Value()
	}

	if accepted == nil {
		h.idle++
		return &rejectedNeighbour{}
	}
	if accepted.Value() <= 0 {
		h.idle = 0
	} else {
		h.idle++
	}
	return accepted
}

func (h *StepCountingHillClimber) IdleIterations() int { return h.idle }
func (h *StepCountingHillClimber) ResetIdle()          { h.idle = 0 }
