package ifs

// Neighbour is a pending change to an Assignment: a single (V,T) swap, or a
// multi-variable composite (e.g. a whole entity's bundle of requests, see
// bnb.Select). Value() reports the objective delta the change would cause
// (lower is better); Assign applies it.
type Neighbour interface {
	// Value returns the objective delta this Neighbour would cause if
	// applied, lower is better. It must be safe to call repeatedly
	// without side effects, and before Assign is ever called.
	Value() float64

	// Assign applies the change to a, tagging every mutation with
	// iteration. Implementations must first remove any conflicting
	// Values (per Model.ConflictValues) before assigning their own, so
	// that no hard constraint reports inConflict for any active (V,T)
	// pair once Assign returns.
	Assign(a *Assignment, iteration int)
}

// simpleNeighbour implements the single (V,T) swap: it unassigns every
// Value that conflicts with value, then assigns value.
type simpleNeighbour struct {
	model     Model
	value     Value
	conflicts []Value
	delta     float64
}

// NewSimpleNeighbour returns a Neighbour that assigns value after
// unassigning every Value in model.ConflictValues(a, value). delta is the
// precomputed objective delta (callers typically compute this once at
// selection time and reuse it here to avoid a second full evaluation).
func NewSimpleNeighbour(model Model, a *Assignment, value Value, delta float64) Neighbour {
	return &simpleNeighbour{model: model, value: value, conflicts: model.ConflictValues(a, value), delta: delta}
}

func (n *simpleNeighbour) Value() float64 { return n.delta }

func (n *simpleNeighbour) Assign(a *Assignment, iteration int) {
	for _, c := range n.conflicts {
		a.Unassign(iteration, c.Variable())
		iteration++
	}
	a.Assign(iteration, n.value)
}

// CompositeNeighbour bundles several single-variable swaps into one
// Neighbour, applied as a unit (used by bnb.Select for a whole entity's
// requests).
type CompositeNeighbour struct {
	Delta  float64
	Unset  []Variable // Variables to unassign first, in order.
	Values []Value    // Values to assign afterward, in order.
}

func (n *CompositeNeighbour) Value() float64 { return n.Delta }

func (n *CompositeNeighbour) Assign(a *Assignment, iteration int) {
	for _, v := range n.Unset {
		a.Unassign(iteration, v)
		iteration++
	}
	for _, v := range n.Values {
		a.Assign(iteration, v)
		iteration++
	}
}
