package search

import (
	"math/rand"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
	"github.com/sirupsen/logrus"
)

// BuildSimpleSearch assembles a SimpleSearch from DataProperties, the
// recognized configuration keys, and rng (owned by the caller so parallel
// restarts never share a generator). Every tunable is read once at build
// time rather than polled per iteration.
func BuildSimpleSearch(model ifs.Model, variables []ifs.Variable, registry *Registry, props *ifs.DataProperties, rng *rand.Rand, deps SimpleSearchDeps) (*SimpleSearch, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if registry == nil {
		registry = NewRegistry()
	}

	var construction ifs.NeighbourSelection
	if class := props.GetString(ifs.KeyConstructionClass, ""); class != "" {
		built, err := registry.Build(class, model, variables, props)
		if err != nil {
			return nil, err
		}
		construction = built
	}

	ifsSelection := NewStandardSelection(model, variables, nil, rng)

	climberNeighbourhoods := []Neighbourhood{ifsSelection}
	var hillClimbing HillClimberPhase
	maxIdle := props.GetInt(ifs.KeyHillClimberMaxIdleIters, 10000)
	if props.GetBool(ifs.KeySearchCountSteps, false) {
		hillClimbing = NewStepCountingHillClimber(climberNeighbourhoods, maxIdle, maxIdle/10+1, rng)
	} else {
		hillClimbing = NewHillClimber(climberNeighbourhoods, maxIdle, rng)
	}

	var improvement ifs.NeighbourSelection
	if props.GetBool(ifs.KeySearchGreatDeluge, false) {
		gd := NewGreatDeluge(climberNeighbourhoods, rng)
		gd.CoolRate = props.GetDouble(ifs.KeyGreatDelugeCoolRate, gd.CoolRate)
		gd.UpperBoundRate = props.GetDouble(ifs.KeyGreatDelugeUpperBoundRate, gd.UpperBoundRate)
		gd.LowerBoundRate = props.GetDouble(ifs.KeyGreatDelugeLowerBoundRate, gd.LowerBoundRate)
		improvement = gd
	} else {
		sa := NewSimulatedAnnealing(climberNeighbourhoods, model, rng)
		sa.InitialTemperature = props.GetDouble(ifs.KeySAInitialTemperature, sa.InitialTemperature)
		sa.CoolingRate = props.GetDouble(ifs.KeySACoolingRate, sa.CoolingRate)
		sa.TemperatureLength = props.GetInt(ifs.KeySATemperatureLength, sa.TemperatureLength)
		sa.ReheatLengthCoef = props.GetDouble(ifs.KeySAReheatLengthCoef, sa.ReheatLengthCoef)
		sa.ReheatRate = props.GetDouble(ifs.KeySAReheatRate, sa.ReheatRate)
		sa.RestoreBestLengthCoef = props.GetDouble(ifs.KeySARestoreBestLengthCoef, sa.RestoreBestLengthCoef)
		improvement = sa
	}

	return &SimpleSearch{
		Construction:              construction,
		ConstructionUntilComplete: props.GetBool(ifs.KeyConstructionUntilComplete, false),
		IFS:                       ifsSelection,
		HillClimbing:              hillClimbing,
		Improvement:               improvement,
		Variables:                 variables,
		Progress:                  deps.Progress,
		Log:                       deps.Log,
		Metrics:                   deps.Metrics,
	}, nil
}

// SimpleSearchDeps bundles the optional ambient collaborators BuildSimpleSearch
// wires into the resulting SimpleSearch.
type SimpleSearchDeps struct {
	Progress ifs.Progress
	Log      logrus.FieldLogger
	Metrics  *ifs.Metrics
}
