package ifs

import "fmt"

// Constraint relates a set of Variables. For a proposed (V, T) assignment
// it can enumerate the currently-assigned Values that would conflict, or
// answer the cheaper inConflict question directly.
type Constraint interface {
	// Name returns a short, human-readable name for this constraint,
	// used in logging and in Neighbour/skip diagnostics.
	Name() string

	// Variables returns every Variable this Constraint relates to.
	Variables() []Variable

	// ConflictValues returns the currently-assigned Values that would
	// conflict if value were assigned to value.Variable(), i.e. the
	// Values a caller must unassign before making the assignment.
	// Returns nil if assigning value introduces no conflict.
	ConflictValues(a *Assignment, value Value) []Value

	// InConflict is a cheaper yes/no form of ConflictValues, used where
	// the caller only needs to know feasibility, not which values block
	// it (e.g. branch-and-bound's per-node feasibility check).
	InConflict(a *Assignment, value Value) bool

	// IsHard reports whether this Constraint blocks assignments
	// (true) or merely contributes to the objective as a soft
	// criterion (false). Soft constraints still implement
	// ConflictValues/InConflict but are expected to always return
	// empty/false; their contribution is via Model.GetTotalValue.
	IsHard() bool
}

// GlobalConstraint is a Constraint that relates to every Variable in the
// Model and participates in every assignment check. Branch-and-bound
// feasibility checking treats GlobalConstraints specially: every node in
// the search tree is checked against every GlobalConstraint, regardless of
// which Variables the candidate Value's owning Variable would otherwise
// relate to.
type GlobalConstraint interface {
	Constraint
	// global is a marker method; it carries no behavior beyond
	// identifying implementations that opt into global participation.
	global()
}

// AppliedConstraint composes a single Constraint with the Value it was
// evaluated against, e.g. for logging why a neighbour was skipped.
type AppliedConstraint struct {
	Constraint Constraint
	Value      Value
}

func (a AppliedConstraint) String() string {
	if a.Value == nil {
		return a.Constraint.Name()
	}
	return fmt.Sprintf("%s (value %s=%s)", a.Constraint.Name(), a.Value.Variable().Identifier(), a.Value.Identifier())
}

// baseConstraint factors the Variables()/IsHard() bookkeeping shared by
// the built-in hard constraints below.
type baseConstraint struct {
	name      string
	variables []Variable
	hard      bool
}

func (b *baseConstraint) Name() string          { return b.name }
func (b *baseConstraint) Variables() []Variable { return b.variables }
func (b *baseConstraint) IsHard() bool          { return b.hard }

// allDifferent forbids any two of its Variables from sharing the same
// Value identifier, the classic pairwise-exclusion constraint.
type allDifferent struct {
	baseConstraint
}

// AllDifferent returns a hard Constraint over vars requiring that no two
// of them ever carry Values with the same ValueIdentifier.
func AllDifferent(vars ...Variable) Constraint {
	return &allDifferent{baseConstraint{name: "all-different", variables: vars, hard: true}}
}

func (c *allDifferent) ConflictValues(a *Assignment, value Value) []Value {
	var conflicts []Value
	for _, v := range c.variables {
		if v.Identifier() == value.Variable().Identifier() {
			continue
		}
		if cur := a.GetValue(v); cur != nil && cur.Identifier() == value.Identifier() {
			conflicts = append(conflicts, cur)
		}
	}
	return conflicts
}

func (c *allDifferent) InConflict(a *Assignment, value Value) bool {
	return len(c.ConflictValues(a, value)) > 0
}

// atMostOne forbids more than n of its Variables from being assigned a
// Value at all, regardless of which Value — a cardinality constraint over
// "assigned or not" rather than over any particular choice of Value.
type atMostOne struct {
	baseConstraint
	n int
}

// AtMostOne returns a hard Constraint forbidding more than n of vars from
// being simultaneously assigned.
func AtMostOne(n int, vars ...Variable) Constraint {
	return &atMostOne{baseConstraint{name: "at-most-n-assigned", variables: vars, hard: true}, n}
}

func (c *atMostOne) ConflictValues(a *Assignment, value Value) []Value {
	assigned := 0
	var assignedOthers []Value
	for _, v := range c.variables {
		if v.Identifier() == value.Variable().Identifier() {
			continue
		}
		if cur := a.GetValue(v); cur != nil {
			assigned++
			assignedOthers = append(assignedOthers, cur)
		}
	}
	if assigned < c.n {
		return nil
	}
	// Unassign the oldest-ordered excess to make room; callers unassign
	// whatever ConflictValues returns before proceeding.
	excess := assigned - c.n + 1
	if excess > len(assignedOthers) {
		excess = len(assignedOthers)
	}
	return assignedOthers[:excess]
}

func (c *atMostOne) InConflict(a *Assignment, value Value) bool {
	return len(c.ConflictValues(a, value)) > 0
}

// linked requires that whenever the subject Variable is assigned a Value
// whose identifier is in a shared linkage group, every other Variable in
// the group must (if assigned) carry a Value from the same linkage group —
// e.g. keeping linked course sections consistent with each other.
type linked struct {
	baseConstraint
	group func(Value) string
}

// Linked returns a hard Constraint requiring every assigned Variable in
// vars to share the same linkage group, as determined by group.
func Linked(group func(Value) string, vars ...Variable) Constraint {
	return &linked{baseConstraint{name: "linked-sections", variables: vars, hard: true}, group}
}

func (c *linked) ConflictValues(a *Assignment, value Value) []Value {
	wanted := c.group(value)
	var conflicts []Value
	for _, v := range c.variables {
		if v.Identifier() == value.Variable().Identifier() {
			continue
		}
		if cur := a.GetValue(v); cur != nil && c.group(cur) != wanted {
			conflicts = append(conflicts, cur)
		}
	}
	return conflicts
}

func (c *linked) InConflict(a *Assignment, value Value) bool {
	return len(c.ConflictValues(a, value)) > 0
}
