// Package search implements the improvement heuristics driven off
// neighbourhood moves (hill climbing, simulated annealing, great deluge),
// the standard IFS neighbourhood selection, and the composite "simple
// search" controller that sequences them.
package search

import (
	"math/rand"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
)

// ValueSelector scores a candidate Value for a Variable that IFS is about
// to assign, as a weighted sum of placement criteria. Lower is better;
// ties are broken randomly by the caller.
type ValueSelector interface {
	Score(s *ifs.Solution, value ifs.Value) float64
}

// ValueSelectorFunc adapts a function to a ValueSelector.
type ValueSelectorFunc func(s *ifs.Solution, value ifs.Value) float64

func (f ValueSelectorFunc) Score(s *ifs.Solution, value ifs.Value) float64 { return f(s, value) }

// VariableSelector picks an unassigned, uncommitted Variable to work on
// next. The default policy (see HardnessVariableSelector) chooses randomly
// among variables with maximum "hardness"; callers may substitute any
// ordering policy that implements this interface.
type VariableSelector interface {
	Select(s *ifs.Solution, candidates []ifs.Variable, rng *rand.Rand) ifs.Variable
}

// RandomVariableSelector picks uniformly at random among candidates, the
// simplest possible VariableSelector and the fallback HardnessVariableSelector
// uses to break ties.
type RandomVariableSelector struct{}

func (RandomVariableSelector) Select(_ *ifs.Solution, candidates []ifs.Variable, rng *rand.Rand) ifs.Variable {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[rng.Intn(len(candidates))]
}

// HardnessVariableSelector implements the default selection policy: random
// choice among variables with maximum "hardness", where hardness is the
// largest number of conflicts any of the Variable's Values would
// introduce. Ties are broken randomly.
type HardnessVariableSelector struct {
	Model Model
}

// Model is the subset of ifs.Model the search package's default policies
// need; declared locally so callers needing only these methods aren't
// forced to satisfy the full ifs.Model interface when composing a custom
// selector.
type Model interface {
	ConflictValues(a *ifs.Assignment, value ifs.Value) []ifs.Value
}

func (h HardnessVariableSelector) Select(s *ifs.Solution, candidates []ifs.Variable, rng *rand.Rand) ifs.Variable {
	if len(candidates) == 0 {
		return nil
	}
	best := -1
	var hardest []ifs.Variable
	for _, v := range candidates {
		hardness := h.hardness(s, v)
		switch {
		case hardness > best:
			best = hardness
			hardest = []ifs.Variable{v}
		case hardness == best:
			hardest = append(hardest, v)
		}
	}
	return hardest[rng.Intn(len(hardest))]
}

func (h HardnessVariableSelector) hardness(s *ifs.Solution, v ifs.Variable) int {
	worst := 0
	for _, value := range v.Values() {
		n := len(h.Model.ConflictValues(s.Assignment, value))
		if n > worst {
			worst = n
		}
	}
	return worst
}

// StandardSelection implements classical IFS: pick an unassigned variable
// via VariableSelector, a candidate value via ValueSelector, resolve
// conflicts by unassigning, and return the resulting Neighbour. It returns
// nil if no variable is unassigned (falling through to the composite
// controller) or if no feasible value was found within MaxValueAttempts
// tries.
type StandardSelection struct {
	Model            ifs.Model
	Variables        []ifs.Variable
	VariableSelector VariableSelector
	ValueSelector    ValueSelector
	Rng              *rand.Rand
	MaxValueAttempts int // zero or less means a single attempt; NewStandardSelection sets 3.
}

// NewStandardSelection returns a StandardSelection with sensible defaults:
// HardnessVariableSelector and a uniform ValueSelector (every value scores
// 0, so selection among values is pure random tie-break) if the caller
// passes nil for either.
func NewStandardSelection(model ifs.Model, variables []ifs.Variable, vs ValueSelector, rng *rand.Rand) *StandardSelection {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if vs == nil {
		vs = ValueSelectorFunc(func(*ifs.Solution, ifs.Value) float64 { return 0 })
	}
	return &StandardSelection{
		Model:            model,
		Variables:        variables,
		VariableSelector: HardnessVariableSelector{Model: model},
		ValueSelector:    vs,
		Rng:              rng,
		MaxValueAttempts: 3,
	}
}

func (sel *StandardSelection) SelectNeighbour(s *ifs.Solution) ifs.Neighbour {
	unassigned := s.Assignment.UnassignedVariables(sel.Variables)
	if len(unassigned) == 0 {
		return nil
	}

	v := sel.VariableSelector.Select(s, unassigned, sel.Rng)
	if v == nil {
		return nil
	}

	values := v.Values()
	if len(values) == 0 {
		// Infeasible domain, never fatal; the variable stays unassigned
		// and the caller tries a different variable next iteration.
		s.RecordSkip(v.Identifier(), "empty domain")
		return nil
	}

	remaining := values
	attempts := sel.MaxValueAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts && len(remaining) > 0; i++ {
		best, bestScore, ok := sel.pickValue(s, remaining)
		if !ok {
			return nil
		}
		if sel.feasible(s, best) {
			// The weighted placement score stands in for Value()'s
			// objective delta here: IFS's own selection never gates on
			// it (the composite controller always applies what
			// construction/IFS return), it only feeds best-value
			// bookkeeping and logging.
			return ifs.NewSimpleNeighbour(sel.Model, s.Assignment, best, bestScore)
		}
		remaining = removeValue(remaining, best)
	}
	// No feasible value exists after a bounded number of attempts; return
	// nil for this iteration.
	s.RecordSkip(v.Identifier(), "no feasible value within attempt budget")
	return nil
}

// feasible reports whether assigning value would only displace
// non-committed conflicts: a committed Variable's Value can never be
// unassigned, so a conflict against one makes value infeasible for this
// attempt.
func (sel *StandardSelection) feasible(s *ifs.Solution, value ifs.Value) bool {
	for _, c := range sel.Model.ConflictValues(s.Assignment, value) {
		if c.Variable().Committed() {
			return false
		}
	}
	return true
}

func removeValue(values []ifs.Value, target ifs.Value) []ifs.Value {
	out := make([]ifs.Value, 0, len(values)-1)
	for _, v := range values {
		if !ifs.SameValue(v, target) {
			out = append(out, v)
		}
	}
	return out
}

// pickValue scores every candidate Value and returns the lowest-scoring
// one, breaking ties randomly. ok is false only if values is
// empty.
func (sel *StandardSelection) pickValue(s *ifs.Solution, values []ifs.Value) (ifs.Value, float64, bool) {
	if len(values) == 0 {
		return nil, 0, false
	}
	bestScore := sel.ValueSelector.Score(s, values[0])
	best := []ifs.Value{values[0]}
	for _, v := range values[1:] {
		score := sel.ValueSelector.Score(s, v)
		switch {
		case score < bestScore:
			bestScore = score
			best = []ifs.Value{v}
		case score == bestScore:
			best = append(best, v)
		}
	}
	return best[sel.Rng.Intn(len(best))], bestScore, true
}
