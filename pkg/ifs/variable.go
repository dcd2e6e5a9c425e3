package ifs

// Variable is the basic unit a Model assigns values to. A Variable's
// lifetime spans the whole solve; it never moves between models.
type Variable interface {
	// Identifier returns the Identifier that uniquely identifies this
	// Variable among all other Variables in a given Model.
	Identifier() Identifier

	// Values returns the ordered sequence of candidate Values for this
	// Variable. The order is used for value-selection tie-breaks and
	// must be stable across calls.
	Values() []Value

	// Index returns this Variable's position in the Model's stable
	// variable ordering. The search package's variable selectors break
	// ties randomly and do not read it.
	Index() int

	// Committed reports whether this Variable is fixed and excluded
	// from search. A committed Variable always carries an initial
	// assignment.
	Committed() bool

	// InitialValue returns the Value this Variable was initially
	// assigned, or nil if it had none.
	InitialValue() Value
}

// zeroVariable is an empty placeholder Variable: no identifier, no
// values, index -1.
type zeroVariable struct{}

var _ Variable = zeroVariable{}

func (zeroVariable) Identifier() Identifier { return "" }
func (zeroVariable) Values() []Value        { return nil }
func (zeroVariable) Index() int             { return -1 }
func (zeroVariable) Committed() bool        { return false }
func (zeroVariable) InitialValue() Value    { return nil }
