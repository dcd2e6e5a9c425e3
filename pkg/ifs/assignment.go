package ifs

import "sync"

// Assignment is the authoritative, per-solver variable -> value mapping at
// the current search state. Every mutation is tagged with a monotonically
// increasing iteration counter, used by listeners and for tie-breaks. An
// Assignment is exclusive to one Solver; it is never shared between
// concurrent restarts.
type Assignment struct {
	values    map[Identifier]Value
	iteration int

	mu       sync.Mutex
	contexts map[interface{}]interface{}
}

// NewAssignment returns an empty Assignment at iteration 0.
func NewAssignment() *Assignment {
	return &Assignment{values: make(map[Identifier]Value)}
}

// Iteration returns the current iteration counter.
func (a *Assignment) Iteration() int { return a.iteration }

// GetValue returns the Value currently assigned to v, or nil if v is
// unassigned.
func (a *Assignment) GetValue(v Variable) Value {
	if v == nil {
		return nil
	}
	return a.values[v.Identifier()]
}

// Assign records that value is now assigned to value.Variable(), tagging
// the mutation with iteration. iteration must be strictly greater than the
// Assignment's current iteration; callers that violate this get a panic
// rather than a silently corrupted history.
func (a *Assignment) Assign(iteration int, value Value) {
	if iteration <= a.iteration {
		panic("ifs: iteration counter must strictly increase on assign")
	}
	a.values[value.Variable().Identifier()] = value
	a.iteration = iteration
}

// Unassign removes whatever Value is assigned to v, tagging the mutation
// with iteration. It is a no-op (but still advances the iteration counter)
// if v was already unassigned.
func (a *Assignment) Unassign(iteration int, v Variable) {
	if iteration <= a.iteration {
		panic("ifs: iteration counter must strictly increase on unassign")
	}
	delete(a.values, v.Identifier())
	a.iteration = iteration
}

// NrAssignedVariables returns the number of currently-assigned Variables.
func (a *Assignment) NrAssignedVariables() int {
	return len(a.values)
}

// AssignedVariables returns the Variables among vars that are currently
// assigned.
func (a *Assignment) AssignedVariables(vars []Variable) []Variable {
	var out []Variable
	for _, v := range vars {
		if _, ok := a.values[v.Identifier()]; ok {
			out = append(out, v)
		}
	}
	return out
}

// UnassignedVariables returns the Variables among vars that are currently
// unassigned and not committed (committed Variables are excluded from
// search).
func (a *Assignment) UnassignedVariables(vars []Variable) []Variable {
	var out []Variable
	for _, v := range vars {
		if v.Committed() {
			continue
		}
		if _, ok := a.values[v.Identifier()]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// Snapshot returns a shallow copy of the current variable -> value map,
// suitable for Solution's best-saving.
func (a *Assignment) Snapshot() map[Identifier]Value {
	out := make(map[Identifier]Value, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// Restore replaces the current variable -> value map with snapshot,
// tagging the mutation with iteration. Used to restore the best-ever
// assignment, e.g. simulated annealing's periodic restore-to-best step.
func (a *Assignment) Restore(iteration int, snapshot map[Identifier]Value) {
	if iteration <= a.iteration {
		panic("ifs: iteration counter must strictly increase on restore")
	}
	a.values = make(map[Identifier]Value, len(snapshot))
	for k, v := range snapshot {
		a.values[k] = v
	}
	a.iteration = iteration
}

// context returns the per-assignment context previously stored under key,
// creating it via create if absent. This is the AssignmentContext
// mechanism: a side-table keyed by assignment identity so a single
// stateful component (e.g. a phase counter) can be reused safely across
// multiple concurrent Assignments in parallel-restart mode.
func (a *Assignment) context(key interface{}, create func() interface{}) interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.contexts == nil {
		a.contexts = make(map[interface{}]interface{})
	}
	if c, ok := a.contexts[key]; ok {
		return c
	}
	c := create()
	a.contexts[key] = c
	return c
}

// ContextOf is the typed, generic-friendly entry point components use to
// obtain their AssignmentContext: ContextOf(a, someComponent, newState).
// Each component passes itself (or a stable key unique to it) so that
// unrelated components never collide in the same Assignment's context
// table.
func ContextOf[T any](a *Assignment, key interface{}, create func() T) T {
	return a.context(key, func() interface{} { return create() }).(T)
}
