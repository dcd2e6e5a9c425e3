// Command ifsdemo runs a tiny end-to-end example over the core: three
// variables, two of which share a mutual-exclusion constraint, driven by the
// composite simple search until it completes or a small iteration budget
// is exhausted. It exists to exercise pkg/ifs and pkg/ifs/search end to
// end, not as a general-purpose CLI.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
	"github.com/elektrokombinacija/ifs-core/pkg/ifs/search"
	"github.com/sirupsen/logrus"
)

func main() {
	iterations := flag.Int("iterations", 200, "maximum solver iterations")
	verbose := flag.Bool("verbose", false, "log every phase transition and best-saved event")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	model, variables := buildModel()
	assignment := ifs.NewAssignment()
	solution := ifs.NewSolution(model, assignment)

	rng := rand.New(rand.NewSource(1))
	selection := &search.SimpleSearch{
		IFS:          search.NewStandardSelection(model, variables, nil, rng),
		HillClimbing: search.NewHillClimber([]search.Neighbourhood{search.NewStandardSelection(model, variables, nil, rng)}, 50, rng),
		Improvement:  search.NewSimulatedAnnealing([]search.Neighbourhood{search.NewStandardSelection(model, variables, nil, rng)}, model, rng),
		Variables:    variables,
		Log:          log,
	}

	solver := ifs.NewSolver(solution, selection, ifs.MaxIterations{Limit: *iterations}, ifs.WithLogger(log))
	ran := solver.Run()

	fmt.Printf("ran %d iterations\n", ran)
	fmt.Printf("best value: %.2f (iteration %d)\n", solution.BestValue(), solution.BestIteration())
	for _, v := range variables {
		val := assignment.GetValue(v)
		if val == nil {
			fmt.Printf("  %s = <unassigned>\n", v.Identifier())
			continue
		}
		fmt.Printf("  %s = %s\n", v.Identifier(), val.Identifier())
	}

	if solution.FirstCompleteIteration() < 0 {
		fmt.Fprintln(os.Stderr, "model never reached a complete assignment within the iteration budget")
		os.Exit(1)
	}
}

// buildModel sets up three variables over domain {a,b}, with variables 0
// and 1 bound by a mutual-exclusion constraint (they may never carry the
// same value).
func buildModel() (ifs.Model, []ifs.Variable) {
	variables := make([]ifs.Variable, 3)
	for i := range variables {
		variables[i] = demoVariable{id: ifs.Identifier(fmt.Sprintf("v%d", i)), index: i}
	}

	constraint := ifs.AllDifferent(variables[0], variables[1])

	valueFunc := func(a *ifs.Assignment) float64 {
		total := 0.0
		for _, v := range variables {
			if a.GetValue(v) == nil {
				total += 1
			}
		}
		return total
	}

	model := ifs.NewBasicModel(variables, []ifs.Constraint{constraint}, valueFunc)
	return model, variables
}

type demoVariable struct {
	id    ifs.Identifier
	index int
}

func (v demoVariable) Identifier() ifs.Identifier { return v.id }
func (v demoVariable) Index() int                 { return v.index }
func (v demoVariable) Committed() bool            { return false }
func (v demoVariable) InitialValue() ifs.Value    { return nil }

func (v demoVariable) Values() []ifs.Value {
	return []ifs.Value{
		ifs.NewBasicValue(ifs.ValueIdentifier("a"), v),
		ifs.NewBasicValue(ifs.ValueIdentifier("b"), v),
	}
}
