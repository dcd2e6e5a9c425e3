package bnb

import "github.com/elektrokombinacija/ifs-core/pkg/ifs"

// fakeRequest is a minimal Request for exercising branch-and-bound without
// any of student sectioning's real cost model.
type fakeRequest struct {
	id              ifs.Identifier
	index           int
	values          []ifs.Value
	weights         map[ifs.ValueIdentifier]float64
	penalties       map[ifs.ValueIdentifier]float64
	selected        []ifs.Value
	initial         ifs.Value
	lowerBound      float64
	penaltyLower    float64
	assignedWeight  float64
	isAlternative   bool
	allowUnassigned bool
}

func newFakeRequest(id string, index int, weights map[string]float64) *fakeRequest {
	values := make([]ifs.Value, 0, len(weights))
	w := make(map[ifs.ValueIdentifier]float64, len(weights))
	min := 0.0
	first := true
	for vid, weight := range weights {
		v := ifs.NewBasicValue(ifs.ValueIdentifier(vid), nil)
		values = append(values, v)
		w[ifs.ValueIdentifier(vid)] = weight
		if first || weight < min {
			min = weight
			first = false
		}
	}
	return &fakeRequest{
		id:             ifs.Identifier(id),
		index:          index,
		values:         values,
		weights:        w,
		penalties:      map[ifs.ValueIdentifier]float64{},
		lowerBound:     min,
		assignedWeight: 1,
	}
}

func (r *fakeRequest) Identifier() ifs.Identifier { return r.id }
func (r *fakeRequest) Index() int                 { return r.index }
func (r *fakeRequest) Committed() bool            { return false }
func (r *fakeRequest) InitialValue() ifs.Value    { return r.initial }
func (r *fakeRequest) Values() []ifs.Value        { return r.values }
func (r *fakeRequest) SelectedValues() []ifs.Value {
	return r.selected
}
func (r *fakeRequest) Weight(v ifs.Value) float64 { return r.weights[v.Identifier()] }
func (r *fakeRequest) LowerBound() float64 {
	if r.allowUnassigned || r.isAlternative {
		return 0
	}
	return r.lowerBound
}
func (r *fakeRequest) PenaltyLowerBound() float64  { return r.penaltyLower }
func (r *fakeRequest) Penalty(v ifs.Value) float64 { return r.penalties[v.Identifier()] }
func (r *fakeRequest) AssignedWeight() float64     { return r.assignedWeight }
func (r *fakeRequest) IsAlternative() bool         { return r.isAlternative }
func (r *fakeRequest) AllowUnassigned() bool       { return r.allowUnassigned }

type fakeEntity struct {
	id       ifs.Identifier
	requests []Request
}

func (e *fakeEntity) Identifier() ifs.Identifier { return e.id }
func (e *fakeEntity) Requests() []Request        { return e.requests }

func valueByID(vs []ifs.Value, id string) ifs.Value {
	for _, v := range vs {
		if string(v.Identifier()) == id {
			return v
		}
	}
	return nil
}
