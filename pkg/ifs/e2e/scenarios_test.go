package e2e

import (
	"math/rand"
	"time"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
	"github.com/elektrokombinacija/ifs-core/pkg/ifs/bnb"
	"github.com/elektrokombinacija/ifs-core/pkg/ifs/search"
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// buildSimpleSearch assembles the full composite controller over
// vars, with construction disabled, wired the way BuildSimpleSearch would
// from defaults.
func buildSimpleSearch(model ifs.Model, vars []ifs.Variable, seed int64, maxIdle int) *search.SimpleSearch {
	rng := rand.New(rand.NewSource(seed))
	ifsSelection := search.NewStandardSelection(model, vars, nil, rng)
	climber := search.NewHillClimber([]search.Neighbourhood{ifsSelection}, maxIdle, rng)
	annealer := search.NewSimulatedAnnealing([]search.Neighbourhood{ifsSelection}, model, rng)
	return &search.SimpleSearch{
		IFS:          ifsSelection,
		HillClimbing: climber,
		Improvement:  annealer,
		Variables:    vars,
	}
}

var _ = Describe("construction completes a tiny model", func() {
	It("completes 3 unconstrained variables within 3 iterations and reports the true total value", func() {
		vars := []ifs.Variable{
			newScenarioVariable("v1", 0, "a", "b"),
			newScenarioVariable("v2", 1, "a", "b"),
			newScenarioVariable("v3", 2, "a", "b"),
		}
		model := ifs.NewBasicModel(vars, nil, func(a *ifs.Assignment) float64 { return 0 })
		s := ifs.NewSolution(model, ifs.NewAssignment())

		ss := buildSimpleSearch(model, vars, 1, 100)
		solver := ifs.NewSolver(s, ss, ifs.MaxIterations{Limit: 3})
		ran := solver.Run()

		Expect(ran).To(BeNumerically("<=", 3))
		Expect(s.Assignment.UnassignedVariables(vars)).To(BeEmpty())
		Expect(s.BestValue()).To(Equal(0.0))
	})
})

var _ = Describe("IFS resolves a conflict", func() {
	It("reaches a conflict-free assignment from an infeasible start within 4 iterations", func() {
		v1 := newScenarioVariable("v1", 0, "x", "y")
		v2 := newScenarioVariable("v2", 1, "x", "y")
		constraint := ifs.AllDifferent(v1, v2)
		model := ifs.NewBasicModel([]ifs.Variable{v1, v2}, []ifs.Constraint{constraint}, func(a *ifs.Assignment) float64 { return 0 })

		a := ifs.NewAssignment()
		a.Assign(1, valueOf(v1, "x"))
		a.Assign(2, valueOf(v2, "x"))
		s := ifs.NewSolution(model, a)

		sel := search.NewStandardSelection(model, []ifs.Variable{v1, v2}, nil, rand.New(rand.NewSource(1)))
		solver := ifs.NewSolver(s, sel, ifs.MaxIterations{Limit: 4})
		solver.Run()

		Expect(constraint.InConflict(a, a.GetValue(v1))).To(BeFalse())
		Expect(constraint.InConflict(a, a.GetValue(v2))).To(BeFalse())
	})
})

var _ = Describe("hill climber plateaus", func() {
	It("returns nil after exactly MaxIdleIters applies on a flat landscape", func() {
		climber := search.NewHillClimber([]search.Neighbourhood{flatNeighbourhood{}}, 5, rand.New(rand.NewSource(1)))
		s := ifs.NewSolution(ifs.NewBasicModel(nil, nil, nil), ifs.NewAssignment())

		ticks := 0
		for {
			move := climber.SelectNeighbour(s)
			if move == nil {
				break
			}
			ticks++
			Expect(ticks).To(BeNumerically("<", 1000))
		}
		Expect(ticks).To(Equal(5))
	})
})

type flatNeighbourhood struct{}

func (flatNeighbourhood) SelectNeighbour(*ifs.Solution) ifs.Neighbour { return flatMove{} }

type flatMove struct{}

func (flatMove) Value() float64              { return 0 }
func (flatMove) Assign(*ifs.Assignment, int) {}

var _ = Describe("great deluge bound decay", func() {
	It("decays the bound geometrically while no move is applied", func() {
		model := ifs.NewBasicModel(nil, nil, func(a *ifs.Assignment) float64 { return 100 })
		s := ifs.NewSolution(model, ifs.NewAssignment())
		s.TrySaveBest()

		gd := search.NewGreatDeluge([]search.Neighbourhood{flatNeighbourhood{}}, rand.New(rand.NewSource(1)))
		gd.CoolRate = 0.5
		gd.UpperBoundRate = 1.05
		gd.LowerBoundRate = 0

		for i := 0; i < 3; i++ {
			gd.SelectNeighbour(s)
		}

		Expect(gd.Bound()).To(BeNumerically("~", 13.125, 1e-9))
	})
})

var _ = Describe("branch-and-bound timeout path", func() {
	It("returns a non-nil best-so-far with TimeoutReached set under a tight deadline", func() {
		weights := map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}
		requests := make([]bnb.Request, 20)
		for i := 0; i < 20; i++ {
			req := newScenarioRequest(string(rune('a'+i)), i, weights)
			// An uninformative lower bound, so pruning cannot collapse the
			// tree right after the first leaf.
			req.lowest = 0
			requests[i] = req
		}
		entity := &scenarioEntity{id: "student-1", requests: requests}

		bbs := bnb.NewSearch(ifs.NewBasicModel(nil, nil, nil))
		bbs.Timeout = 10 * time.Millisecond

		_, result := bbs.Select(nil, ifs.NewAssignment(), entity)
		Expect(result.TimeoutReached).To(BeTrue())
		Expect(result.Best).NotTo(BeNil())
	})
})

var _ = Describe("composite controller phase transition", func() {
	It("advances entry -> ifs on the first call, then ifs -> hill-climbing once every variable is assigned", func() {
		vars := make([]ifs.Variable, 5)
		for i := range vars {
			vars[i] = newScenarioVariable(string(rune('a'+i)), i, "x")
		}
		model := ifs.NewBasicModel(vars, nil, func(a *ifs.Assignment) float64 { return 0 })
		s := ifs.NewSolution(model, ifs.NewAssignment())

		ss := buildSimpleSearch(model, vars, 1, 100)
		phases := &phaseRecorder{}
		ss.Progress = phases
		solver := ifs.NewSolver(s, ss, ifs.MaxIterations{Limit: 10})
		solver.Run()

		Expect(s.Assignment.UnassignedVariables(vars)).To(BeEmpty())
		Expect(phases.names).To(Equal([]string{"construction", "ifs", "hill-climbing"}))
	})
})

// phaseRecorder is an ifs.Progress that records every phase name it is
// told about, in order.
type phaseRecorder struct{ names []string }

func (p *phaseRecorder) SetPhase(name string) { p.names = append(p.names, name) }
func (p *phaseRecorder) SetProgress(int, int) {}

var _ = Describe("determinism", func() {
	It("reproduces the same final assignment from the same seed", func() {
		vars := []ifs.Variable{
			newScenarioVariable("v1", 0, "a", "b", "c"),
			newScenarioVariable("v2", 1, "a", "b", "c"),
			newScenarioVariable("v3", 2, "a", "b", "c"),
		}
		model := ifs.NewBasicModel(vars, nil, func(a *ifs.Assignment) float64 { return 0 })

		run := func() map[string]string {
			s := ifs.NewSolution(model, ifs.NewAssignment())
			ss := buildSimpleSearch(model, vars, 7, 50)
			solver := ifs.NewSolver(s, ss, ifs.MaxIterations{Limit: 20})
			solver.Run()

			out := make(map[string]string)
			for _, v := range vars {
				if val := s.Assignment.GetValue(v); val != nil {
					out[string(v.Identifier())] = string(val.Identifier())
				}
			}
			return out
		}

		first := run()
		second := run()
		Expect(cmp.Diff(first, second)).To(BeEmpty())
	})
})

type scenarioRequest struct {
	id      ifs.Identifier
	index   int
	values  []ifs.Value
	weights map[ifs.ValueIdentifier]float64
	lowest  float64
}

func newScenarioRequest(id string, index int, weights map[string]float64) *scenarioRequest {
	values := make([]ifs.Value, 0, len(weights))
	w := make(map[ifs.ValueIdentifier]float64, len(weights))
	lowest := 0.0
	first := true
	for vid, weight := range weights {
		v := ifs.NewBasicValue(ifs.ValueIdentifier(vid), nil)
		values = append(values, v)
		w[ifs.ValueIdentifier(vid)] = weight
		if first || weight < lowest {
			lowest = weight
			first = false
		}
	}
	return &scenarioRequest{id: ifs.Identifier(id), index: index, values: values, weights: w, lowest: lowest}
}

func (r *scenarioRequest) Identifier() ifs.Identifier  { return r.id }
func (r *scenarioRequest) Index() int                  { return r.index }
func (r *scenarioRequest) Committed() bool             { return false }
func (r *scenarioRequest) InitialValue() ifs.Value     { return nil }
func (r *scenarioRequest) Values() []ifs.Value         { return r.values }
func (r *scenarioRequest) SelectedValues() []ifs.Value { return nil }
func (r *scenarioRequest) Weight(v ifs.Value) float64  { return r.weights[v.Identifier()] }
func (r *scenarioRequest) LowerBound() float64         { return r.lowest }
func (r *scenarioRequest) PenaltyLowerBound() float64  { return 0 }
func (r *scenarioRequest) Penalty(v ifs.Value) float64 { return 0 }
func (r *scenarioRequest) AssignedWeight() float64     { return 1 }
func (r *scenarioRequest) IsAlternative() bool         { return false }
func (r *scenarioRequest) AllowUnassigned() bool       { return false }

type scenarioEntity struct {
	id       ifs.Identifier
	requests []bnb.Request
}

func (e *scenarioEntity) Identifier() ifs.Identifier { return e.id }
func (e *scenarioEntity) Requests() []bnb.Request    { return e.requests }
