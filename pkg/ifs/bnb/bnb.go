// Package bnb implements branch-and-bound per-entity selection for student
// sectioning: given one entity and its ordered list of requests, search
// depth-first over value combinations for the whole bundle and return a
// single Neighbour that reassigns every request at once. Scores here
// follow the same minimize-is-better convention as the rest of the core
// (pkg/ifs); MinimizePenalty mode inverts the comparison on its primary
// objective (assigned-weight is maximized) but still reports a
// minimize-style delta on the returned Neighbour.
package bnb

import (
	"context"
	"sort"
	"time"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
)

// Request is one of an Entity's course or free-time requests: a Variable
// whose Values are the candidate sections/slots, plus the extra knobs
// branch-and-bound's pruning and value-ordering need.
type Request interface {
	ifs.Variable

	// SelectedValues returns the user's preferred subset of Values(),
	// tried after InitialValue() but before the full enumerated list.
	SelectedValues() []ifs.Value

	// Weight returns this request's score contribution (to minimize) if
	// v is chosen. Combines the entity's per-value weight, any
	// distance-conflict weight, and any time-overlap weight.
	Weight(v ifs.Value) float64

	// LowerBound is the minimum score this request can ever contribute,
	// across every candidate Value and (if AllowUnassigned) leaving it
	// unassigned. Used as the optimistic per-request estimate in the
	// default pruning bound.
	LowerBound() float64

	// PenaltyLowerBound is LowerBound's analogue for the secondary
	// penalty objective in MinimizePenalty mode.
	PenaltyLowerBound() float64

	// Penalty returns the soft-penalty contribution of choosing v,
	// accumulated as MinimizePenalty mode's secondary objective.
	Penalty(v ifs.Value) float64

	// AssignedWeight returns this request's contribution to
	// MinimizePenalty mode's primary objective when assigned any value
	// (course requests weigh 10x, free-time requests 1x).
	AssignedWeight() float64

	// IsAlternative reports whether this request may always be left
	// unassigned without spending an "alt slot" — the running alt-slots
	// counter gates whether non-alternative requests may fall back
	// to an alternative instead.
	IsAlternative() bool

	// AllowUnassigned reports whether a non-alternative request may be
	// left unassigned at all (alternatives can always be left
	// unassigned; this only matters for non-alternatives).
	AllowUnassigned() bool
}

// Entity owns an ordered bundle of Requests that must be scheduled
// jointly, e.g. a student and their course requests.
type Entity interface {
	Identifier() ifs.Identifier
	Requests() []Request
}

// LinkedConstraint checks a cross-request invariant over one entity's own
// tentative assignment stack (e.g. "lecture and lab must share the same
// linkage group", the linked-sections case). It never sees other
// entities' assignments; those are enforced through the Model's
// GlobalConstraints instead.
type LinkedConstraint interface {
	Violated(requestValues map[ifs.Identifier]ifs.Value) bool
}

// Result is one Select call's outcome.
type Result struct {
	Entity         Entity
	Best           []ifs.Value // parallel to Entity.Requests(); nil entry = left unassigned
	Score          float64     // default mode: total minimized score. MinimizePenalty mode: unused, see Assigned/Penalty.
	Assigned       float64     // MinimizePenalty mode's primary objective (maximized)
	Penalty        float64     // MinimizePenalty mode's secondary objective (minimized)
	TimeoutReached bool
	NodesExplored  int
}

// Search configures one branch-and-bound run.
type Search struct {
	Model           ifs.Model
	Linked          []LinkedConstraint
	Terminate       ifs.TerminationCondition // polled at the deepest loop, optional
	Timeout         time.Duration            // default 10s (Neighbour.BranchAndBoundTimeout)
	MinimizePenalty bool                     // Neighbour.BranchAndBoundMinimizePenalty
	MaxAlternatives int                      // cap on alt-slot substitutions; -1 = unlimited
}

// NewSearch returns a Search with the default timeout applied.
func NewSearch(model ifs.Model) *Search {
	return &Search{Model: model, Timeout: 10 * time.Second, MaxAlternatives: -1}
}

type node struct {
	requests []Request
	current  []ifs.Value
	best     []ifs.Value

	bestScore    float64
	bestAssigned float64
	bestPenalty  float64
	haveBest     bool

	deadline   time.Time
	nodes      int
	timeout    bool
	search     *Search
	assignment *ifs.Assignment
}

// Select runs branch-and-bound over entity's requests against the current
// Assignment a and returns a Neighbour that, when applied, reassigns every
// request in one shot. It returns (nil, result)
// only if even leaving everything unassigned is the best outcome found
// (result.Best is then all-nil and the Neighbour would be a no-op).
func (s *Search) Select(ctx context.Context, a *ifs.Assignment, entity Entity) (ifs.Neighbour, Result) {
	requests := entity.Requests()
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	n := &node{
		requests:   requests,
		current:    make([]ifs.Value, len(requests)),
		deadline:   time.Now().Add(timeout),
		search:     s,
		assignment: a,
	}

	n.solve(ctx, 0, 0, 0, 0, s.maxAlternatives())

	result := Result{
		Entity:         entity,
		Best:           n.best,
		Score:          n.bestScore,
		Assigned:       n.bestAssigned,
		Penalty:        n.bestPenalty,
		TimeoutReached: n.timeout,
		NodesExplored:  n.nodes,
	}

	anyAssigned := false
	for _, v := range n.best {
		if v != nil {
			anyAssigned = true
			break
		}
	}
	if !anyAssigned {
		return nil, result
	}
	neighbour := buildNeighbour(a, requests, n.best)
	return neighbour, result
}

func (s *Search) maxAlternatives() int {
	if s.MaxAlternatives < 0 {
		return 1 << 30
	}
	return s.MaxAlternatives
}

// solve performs the depth-first search over value combinations. score/assigned/penalty
// are the exact contributions of current[0:idx]; altSlotsLeft is the
// running alt-slots budget.
func (n *node) solve(ctx context.Context, idx int, score, assigned, penalty float64, altSlotsLeft int) {
	n.nodes++

	if n.timeout || time.Now().After(n.deadline) {
		n.timeout = true
		return
	}
	if ctx != nil && ctx.Err() != nil {
		n.timeout = true
		return
	}
	if n.search.Terminate != nil {
		// Solution is unused by TerminationCondition implementations
		// that only watch wall-clock/context state (e.g.
		// ifs.ContextTermination); passing nil here matches
		// branch-and-bound's "no active Solution" nature.
		if !n.search.Terminate.CanContinue(nil) {
			n.timeout = true
			return
		}
	}

	if n.search.MinimizePenalty {
		if n.prunedTwoObjective(idx, assigned, penalty, altSlotsLeft) {
			return
		}
	} else if n.pruned(idx, score) {
		return
	}

	if idx == len(n.requests) {
		n.considerLeaf(score, assigned, penalty)
		return
	}

	req := n.requests[idx]
	values := orderedValues(n.assignment, req)
	if req.IsAlternative() && altSlotsLeft <= 0 {
		// No alt slot left: this alternative can only be left unassigned.
		values = nil
	}
	for _, v := range values {
		if !n.feasible(v, n.current[:idx]) {
			continue
		}
		n.current[idx] = v
		nextAlt := altSlotsLeft
		if req.IsAlternative() {
			nextAlt--
		}
		n.solve(ctx, idx+1, score+req.Weight(v), assigned+req.AssignedWeight(), penalty+req.Penalty(v), nextAlt)
		if n.timeout {
			return
		}
	}

	// Leave-unassigned: always tried for alternatives, and for
	// non-alternatives only when AllowUnassigned reports true. This
	// guarantees termination even with an empty domain.
	if req.IsAlternative() || req.AllowUnassigned() {
		n.current[idx] = nil
		n.solve(ctx, idx+1, score+req.LowerBound(), assigned, penalty+req.PenaltyLowerBound(), altSlotsLeft)
	}
	n.current[idx] = nil
}

// pruned implements the default single-objective bound: assignments
// already made contribute their exact weight; remaining requests
// contribute their LowerBound, gated by the alt-slots budget for
// alternatives beyond it (an exhausted alternative can only ever
// contribute its LowerBound, same as a non-alternative, since it has no
// remaining slot to be skipped "for free").
func (n *node) pruned(idx int, score float64) bool {
	if !n.haveBest {
		return false
	}
	bound := score
	for _, req := range n.requests[idx:] {
		bound += req.LowerBound()
	}
	return bound >= n.bestScore
}

// prunedTwoObjective implements the lexicographic bound for MinimizePenalty
// mode: prune unless the optimistic remaining assigned-weight could
// still reach bestAssigned, or (tied) the optimistic remaining penalty
// could still beat bestPenalty.
func (n *node) prunedTwoObjective(idx int, assigned, penalty float64, altSlotsLeft int) bool {
	if !n.haveBest {
		return false
	}
	assignedUpperBound := assigned
	remainingAlt := altSlotsLeft
	for _, req := range n.requests[idx:] {
		if req.IsAlternative() {
			if remainingAlt <= 0 {
				continue
			}
			remainingAlt--
		}
		assignedUpperBound += req.AssignedWeight()
	}
	if assignedUpperBound < n.bestAssigned {
		return true
	}
	if assignedUpperBound > n.bestAssigned {
		return false
	}
	penaltyLowerBound := penalty
	for _, req := range n.requests[idx:] {
		penaltyLowerBound += req.PenaltyLowerBound()
	}
	return penaltyLowerBound >= n.bestPenalty
}

func (n *node) considerLeaf(score, assigned, penalty float64) {
	if n.search.MinimizePenalty {
		if n.haveBest && (assigned < n.bestAssigned || (assigned == n.bestAssigned && penalty >= n.bestPenalty)) {
			return
		}
	} else if n.haveBest && score >= n.bestScore {
		return
	}
	n.bestScore = score
	n.bestAssigned = assigned
	n.bestPenalty = penalty
	n.haveBest = true
	n.best = append([]ifs.Value(nil), n.current...)
}

// feasible implements the per-node feasibility check: reject if any GlobalConstraint
// reports InConflict, any LinkedConstraint over this entity's own stack is
// violated, or the candidate time-overlaps anything already chosen in the
// same stack.
func (n *node) feasible(candidate ifs.Value, stack []ifs.Value) bool {
	for _, gc := range n.search.Model.GlobalConstraints() {
		if gc.InConflict(n.assignment, candidate) {
			return false
		}
	}
	for _, prior := range stack {
		if prior == nil {
			continue
		}
		if overlapsTime(prior, candidate) {
			return false
		}
	}
	if len(n.search.Linked) > 0 {
		values := make(map[ifs.Identifier]ifs.Value, len(stack)+1)
		for _, prior := range stack {
			if prior != nil {
				values[prior.Variable().Identifier()] = prior
			}
		}
		values[candidate.Variable().Identifier()] = candidate
		for _, lc := range n.search.Linked {
			if lc.Violated(values) {
				return false
			}
		}
	}
	return true
}

// TimeOverlapper is optionally implemented by a Value that occupies a time
// slot, letting branch-and-bound reject combinations that double-book the
// entity: it time-overlaps any previously chosen candidate in the same
// search stack.
type TimeOverlapper interface {
	ifs.Value
	OverlapsTime(other ifs.Value) bool
}

func overlapsTime(a, b ifs.Value) bool {
	t, ok := a.(TimeOverlapper)
	if !ok {
		return false
	}
	return t.OverlapsTime(b)
}

// orderedValues implements the value-ordering policy: initial
// assignment first (whenever the request reports one),
// then selected/preferred values, then the full enumerated list sorted
// descending by weight... but since Weight is a cost to minimize here, the
// full list is sorted ascending (cheapest, i.e. best, first) so the search
// finds strong candidates early and prunes more of the tree.
func orderedValues(a *ifs.Assignment, req Request) []ifs.Value {
	seen := make(map[ifs.ValueIdentifier]bool)
	var out []ifs.Value

	add := func(v ifs.Value) {
		if v == nil || seen[v.Identifier()] {
			return
		}
		seen[v.Identifier()] = true
		out = append(out, v)
	}

	add(req.InitialValue())
	for _, v := range req.SelectedValues() {
		add(v)
	}

	rest := make([]ifs.Value, 0, len(req.Values()))
	for _, v := range req.Values() {
		if !seen[v.Identifier()] {
			rest = append(rest, v)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return req.Weight(rest[i]) < req.Weight(rest[j])
	})
	out = append(out, rest...)
	return out
}

// buildNeighbour implements the output contract: unassign every current
// value for the entity's requests, then assign each non-null best[i]. The
// reported Value() is the score delta relative to the pre-call assignment
// (new score minus prior score); bnb's scores are already minimize-cost,
// so a genuine improvement is negative, as ifs.Neighbour's lower-is-better
// contract expects.
func buildNeighbour(a *ifs.Assignment, requests []Request, best []ifs.Value) ifs.Neighbour {
	priorScore := 0.0
	var toUnassign []ifs.Variable
	for _, req := range requests {
		if cur := a.GetValue(req); cur != nil {
			toUnassign = append(toUnassign, req)
			priorScore += req.Weight(cur)
		} else {
			priorScore += req.LowerBound()
		}
	}

	newScore := 0.0
	var toAssign []ifs.Value
	for i, req := range requests {
		if best[i] != nil {
			toAssign = append(toAssign, best[i])
			newScore += req.Weight(best[i])
		} else {
			newScore += req.LowerBound()
		}
	}

	return &ifs.CompositeNeighbour{
		Delta:  newScore - priorScore,
		Unset:  toUnassign,
		Values: toAssign,
	}
}
