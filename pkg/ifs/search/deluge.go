package search

import (
	"math"
	"math/rand"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
)

// GreatDeluge maintains a bound B, accepts a neighbour iff its Value() <= 0
// or currentTotal + Value() <= B, and decays B by CoolRate every iteration.
// If B falls too far below bestValue, the bound is "rebounded" upward and
// an idle counter tracks how many times this has happened.
type GreatDeluge struct {
	Neighbourhoods []Neighbourhood

	CoolRate       float64 // default 0.99999995, in (0,1)
	UpperBoundRate float64 // default 1.05
	LowerBoundRate float64 // default 0.95
	Rng            *rand.Rand

	bound       float64
	idleCount   int
	initialized bool
	lastBest    float64
}

// NewGreatDeluge returns a GreatDeluge with sensible defaults applied to
// any zero-valued field.
func NewGreatDeluge(neighbourhoods []Neighbourhood, rng *rand.Rand) *GreatDeluge {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &GreatDeluge{
		Neighbourhoods: neighbourhoods,
		CoolRate:       0.99999995,
		UpperBoundRate: 1.05,
		LowerBoundRate: 0.95,
		Rng:            rng,
	}
}

func (gd *GreatDeluge) SelectNeighbour(s *ifs.Solution) ifs.Neighbour {
	if !gd.initialized {
		gd.bound = gd.UpperBoundRate * s.BestValue()
		gd.lastBest = s.BestValue()
		gd.initialized = true
	}
	if len(gd.Neighbourhoods) == 0 {
		return &rejectedNeighbour{}
	}

	// On each call pick a neighbourhood uniformly, request a neighbour,
	// and retry a bounded number of times if it returns nil.
	var candidate ifs.Neighbour
	for i := 0; i < len(gd.Neighbourhoods)*2 && candidate == nil; i++ {
		n := gd.Neighbourhoods[gd.Rng.Intn(len(gd.Neighbourhoods))]
		candidate = n.SelectNeighbour(s)
	}

	accepted := false
	if candidate != nil {
		currentTotal := s.Value()
		accepted = candidate.Value() <= 0 || currentTotal+candidate.Value() <= gd.bound
	}

	gd.tick(s)

	if accepted {
		return candidate
	}
	return &rejectedNeighbour{}
}

func (gd *GreatDeluge) tick(s *ifs.Solution) {
	gd.bound *= gd.CoolRate

	best := s.BestValue()
	if best < gd.lastBest-ifs.Epsilon {
		gd.idleCount = 0
		gd.lastBest = best
	}

	lowerThreshold := math.Pow(gd.LowerBoundRate, float64(1+gd.idleCount)) * best
	if gd.bound < lowerThreshold {
		gd.idleCount++
		rebound := math.Pow(gd.UpperBoundRate, float64(gd.idleCount)) * best
		floor := best + 2.0
		if rebound < floor {
			rebound = floor
		}
		gd.bound = rebound
	}
}

// Bound returns the deluge's current bound B, exposed for logging/metrics
// and for tests verifying the decay schedule.
func (gd *GreatDeluge) Bound() float64 { return gd.bound }

// IdleCount returns the number of times the bound has rebounded, exposed
// for logging/metrics and for tests verifying the rebound schedule.
func (gd *GreatDeluge) IdleCount() int { return gd.idleCount }
