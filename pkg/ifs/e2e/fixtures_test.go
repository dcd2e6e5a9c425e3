package e2e

import "github.com/elektrokombinacija/ifs-core/pkg/ifs"

// scenarioVariable is a minimal ifs.Variable used to assemble the small
// models each scenario below drives end to end.
type scenarioVariable struct {
	id     ifs.Identifier
	index  int
	domain []ifs.ValueIdentifier
}

func newScenarioVariable(id string, index int, domain ...string) *scenarioVariable {
	ids := make([]ifs.ValueIdentifier, len(domain))
	for i, d := range domain {
		ids[i] = ifs.ValueIdentifier(d)
	}
	return &scenarioVariable{id: ifs.Identifier(id), index: index, domain: ids}
}

func (v *scenarioVariable) Identifier() ifs.Identifier { return v.id }
func (v *scenarioVariable) Index() int                 { return v.index }
func (v *scenarioVariable) Committed() bool            { return false }
func (v *scenarioVariable) InitialValue() ifs.Value    { return nil }
func (v *scenarioVariable) Values() []ifs.Value {
	out := make([]ifs.Value, len(v.domain))
	for i, id := range v.domain {
		out[i] = ifs.NewBasicValue(id, v)
	}
	return out
}

func valueOf(v ifs.Variable, id string) ifs.Value {
	for _, val := range v.Values() {
		if string(val.Identifier()) == id {
			return val
		}
	}
	return nil
}
