package ifs

// Value is an assignable value tied to exactly one Variable. Values are
// immutable; equality is structural, so implementations are expected to be
// comparable (or to implement Equals for non-comparable payloads).
type Value interface {
	// Identifier uniquely identifies this Value among the candidate
	// values of its owning Variable.
	Identifier() ValueIdentifier

	// Variable returns the Variable this Value belongs to.
	Variable() Variable

	// Equals reports whether other names the same Value. Implementations
	// that are plain comparable structs may simply compare Identifier()
	// and Variable().Identifier().
	Equals(other Value) bool
}

// SameValue reports whether a and b identify the same (Variable, Value)
// pair, treating nil as distinct from any non-nil Value.
func SameValue(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

// basicValue is a minimal, comparable Value implementation suitable for
// simple domains (e.g. the cmd/ifsdemo example and unit tests) where a
// Value carries no payload beyond its identity.
type basicValue struct {
	id ValueIdentifier
	v  Variable
}

// NewBasicValue returns a Value with no payload beyond its identity,
// owned by v.
func NewBasicValue(id ValueIdentifier, v Variable) Value {
	return basicValue{id: id, v: v}
}

func (b basicValue) Identifier() ValueIdentifier { return b.id }
func (b basicValue) Variable() Variable          { return b.v }
func (b basicValue) Equals(other Value) bool {
	o, ok := other.(basicValue)
	if !ok {
		return false
	}
	return b.id == o.id && b.v != nil && o.v != nil && b.v.Identifier() == o.v.Identifier()
}
