package ifs

// Model owns the Variables, Constraints, and total-value function for one
// problem instance. It is read-only during search: any structural change
// invalidates every AssignmentContext derived from it.
type Model interface {
	// Variables returns the ordered sequence of every Variable in the
	// Model.
	Variables() []Variable

	// Constraints returns every Constraint in the Model, hard and soft.
	Constraints() []Constraint

	// GlobalConstraints returns the subset of Constraints that are
	// GlobalConstraints.
	GlobalConstraints() []GlobalConstraint

	// ConflictValues returns the set of currently-assigned Values that
	// would conflict with assigning value, across every Constraint that
	// relates to value.Variable() plus every GlobalConstraint.
	ConflictValues(a *Assignment, value Value) []Value

	// GetTotalValue sums criterion weights over every assigned Value and
	// every triggered soft-constraint penalty in a.
	GetTotalValue(a *Assignment) float64

	// GetBestValue returns the best total value ever observed across
	// this Solver's lifetime (the "best saved").
	GetBestValue() float64

	// SetBestValue records a new best-ever total value.
	SetBestValue(v float64)
}

// BasicModel is a straightforward Model implementation sufficient for the
// core's own tests and for cmd/ifsdemo: a fixed Variable/Constraint set and
// a caller-supplied value function.
type BasicModel struct {
	variables []Variable
	hard      []Constraint
	global    []GlobalConstraint
	valueFunc func(a *Assignment) float64
	bestValue float64
	hasBest   bool
}

// NewBasicModel builds a BasicModel over vars and constraints. valueFunc
// computes the total (minimized) objective for a given Assignment; if nil,
// the total value is always 0 (useful for pure-feasibility problems).
func NewBasicModel(vars []Variable, constraints []Constraint, valueFunc func(a *Assignment) float64) *BasicModel {
	m := &BasicModel{variables: vars, valueFunc: valueFunc}
	for _, c := range constraints {
		m.hard = append(m.hard, c)
		if g, ok := c.(GlobalConstraint); ok {
			m.global = append(m.global, g)
		}
	}
	return m
}

func (m *BasicModel) Variables() []Variable                 { return m.variables }
func (m *BasicModel) Constraints() []Constraint             { return m.hard }
func (m *BasicModel) GlobalConstraints() []GlobalConstraint { return m.global }

func (m *BasicModel) ConflictValues(a *Assignment, value Value) []Value {
	var conflicts []Value
	seen := make(map[qualifiedID]bool)
	add := func(vs []Value) {
		for _, v := range vs {
			key := qualifiedID{Variable: v.Variable().Identifier(), Value: v.Identifier()}
			if !seen[key] {
				seen[key] = true
				conflicts = append(conflicts, v)
			}
		}
	}
	for _, c := range m.hard {
		if !c.IsHard() {
			continue
		}
		related := false
		for _, v := range c.Variables() {
			if v.Identifier() == value.Variable().Identifier() {
				related = true
				break
			}
		}
		if _, isGlobal := c.(GlobalConstraint); related || isGlobal {
			add(c.ConflictValues(a, value))
		}
	}
	return conflicts
}

func (m *BasicModel) GetTotalValue(a *Assignment) float64 {
	if m.valueFunc == nil {
		return 0
	}
	return m.valueFunc(a)
}

func (m *BasicModel) GetBestValue() float64 {
	if !m.hasBest {
		return 0
	}
	return m.bestValue
}

func (m *BasicModel) SetBestValue(v float64) {
	m.bestValue = v
	m.hasBest = true
}
