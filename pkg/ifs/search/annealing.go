package search

import (
	"math"
	"math/rand"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
)

// SimulatedAnnealing maintains a temperature T, generates a random
// neighbour from one of several Neighbourhoods, and accepts with
// probability 1 if its Value() <= 0, else with probability
// exp(-value()/T). Cools every TemperatureLength iterations, reheats after
// a long idle stretch, and restores the best-ever assignment if reheating
// doesn't help quickly enough.
//
// SelectNeighbour never returns nil during the active phase; the
// composite controller hands off based on wall-clock termination, not on a
// nil return.
type SimulatedAnnealing struct {
	Neighbourhoods []Neighbourhood
	Model          ifs.Model

	InitialTemperature    float64 // default 1.5
	CoolingRate           float64 // default 0.95, in (0,1)
	TemperatureLength     int     // default 2500
	ReheatLengthCoef      float64 // default 5
	ReheatRate            float64 // default 1.35, > 1
	RestoreBestLengthCoef float64 // default 5

	Rng *rand.Rand

	temperature          float64
	sinceTemperatureStep int
	sinceImprovement     int
	sinceReheat          int
	reheated             bool
	initialized          bool
}

// NewSimulatedAnnealing returns a SimulatedAnnealing with sensible defaults
// applied to any zero-valued field.
func NewSimulatedAnnealing(neighbourhoods []Neighbourhood, model ifs.Model, rng *rand.Rand) *SimulatedAnnealing {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	sa := &SimulatedAnnealing{
		Neighbourhoods:        neighbourhoods,
		Model:                 model,
		InitialTemperature:    1.5,
		CoolingRate:           0.95,
		TemperatureLength:     2500,
		ReheatLengthCoef:      5,
		ReheatRate:            1.35,
		RestoreBestLengthCoef: 5,
		Rng:                   rng,
	}
	return sa
}

func (sa *SimulatedAnnealing) SelectNeighbour(s *ifs.Solution) ifs.Neighbour {
	if !sa.initialized {
		sa.temperature = sa.InitialTemperature
		sa.initialized = true
	}
	if len(sa.Neighbourhoods) == 0 {
		return &rejectedNeighbour{}
	}

	n := sa.Neighbourhoods[sa.Rng.Intn(len(sa.Neighbourhoods))]
	candidate := n.SelectNeighbour(s)

	accepted := false
	if candidate != nil {
		accepted = sa.accept(candidate.Value())
	}

	sa.tick(s, accepted)

	if accepted {
		return candidate
	}
	return &rejectedNeighbour{}
}

// accept implements the Metropolis criterion: probability 1 if delta <= 0,
// else exp(-delta/T), sampled from a uniform draw in [0,1).
func (sa *SimulatedAnnealing) accept(delta float64) bool {
	if delta <= 0 {
		return true
	}
	if sa.temperature <= 0 {
		return false
	}
	p := math.Exp(-delta / sa.temperature)
	return sa.Rng.Float64() < p
}

func (sa *SimulatedAnnealing) tick(s *ifs.Solution, accepted bool) {
	if accepted && s.Value() < s.BestValue()+ifs.Epsilon {
		sa.sinceImprovement = 0
		// An improvement after a reheat cancels the pending restore.
		sa.reheated = false
		sa.sinceReheat = 0
	} else {
		sa.sinceImprovement++
	}

	sa.sinceTemperatureStep++
	if sa.sinceTemperatureStep >= sa.TemperatureLength {
		sa.sinceTemperatureStep = 0
		sa.temperature *= sa.CoolingRate
	}

	reheatThreshold := int(sa.ReheatLengthCoef * float64(sa.TemperatureLength))
	if !sa.reheated && reheatThreshold > 0 && sa.sinceImprovement >= reheatThreshold {
		sa.temperature *= sa.ReheatRate
		sa.reheated = true
		sa.sinceReheat = 0
		return
	}

	if sa.reheated {
		sa.sinceReheat++
		restoreThreshold := int(sa.RestoreBestLengthCoef * float64(sa.TemperatureLength))
		if restoreThreshold > 0 && sa.sinceReheat >= restoreThreshold {
			best := s.BestAssignment()
			if best != nil {
				s.Assignment.Restore(s.Assignment.Iteration()+1, best)
			}
			sa.reheated = false
			sa.sinceImprovement = 0
			sa.sinceReheat = 0
		}
	}
}

// Temperature returns the annealer's current temperature, exposed for
// logging/metrics and for tests verifying the cooling schedule.
func (sa *SimulatedAnnealing) Temperature() float64 { return sa.temperature }
