package search

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallelRestartsSeedsEachWorkerDistinctly(t *testing.T) {
	seen := make([]int64, 4)
	build := func(ctx context.Context, workerIndex int, rng *rand.Rand) (*ifs.Solver, *ifs.Solution, error) {
		seen[workerIndex] = rng.Int63()
		model := ifs.NewBasicModel(nil, nil, func(a *ifs.Assignment) float64 { return float64(workerIndex) })
		s := ifs.NewSolution(model, ifs.NewAssignment())
		solver := ifs.NewSolver(s, &stepSelectionSearch{}, ifs.MaxIterations{Limit: 1})
		return solver, s, nil
	}

	results, err := RunParallelRestarts(context.Background(), 4, 42, build)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range seen {
		for j := i + 1; j < len(seen); j++ {
			assert.NotEqual(t, r, seen[j], "distinct seeds should (overwhelmingly likely) produce distinct first draws")
		}
	}
}

func TestRunParallelRestartsPropagatesFactoryError(t *testing.T) {
	boom := errors.New("boom")
	build := func(ctx context.Context, workerIndex int, rng *rand.Rand) (*ifs.Solver, *ifs.Solution, error) {
		if workerIndex == 1 {
			return nil, nil, boom
		}
		model := ifs.NewBasicModel(nil, nil, func(a *ifs.Assignment) float64 { return 0 })
		s := ifs.NewSolution(model, ifs.NewAssignment())
		return ifs.NewSolver(s, &stepSelectionSearch{}, ifs.MaxIterations{Limit: 1}), s, nil
	}

	_, err := RunParallelRestarts(context.Background(), 3, 1, build)
	require.ErrorIs(t, err, boom)
}

func TestBestOfPicksLowestBestValue(t *testing.T) {
	mk := func(best float64) ifs.Model {
		return ifs.NewBasicModel(nil, nil, func(a *ifs.Assignment) float64 { return best })
	}
	solA := ifs.NewSolution(mk(10), ifs.NewAssignment())
	solA.TrySaveBest()
	solB := ifs.NewSolution(mk(2), ifs.NewAssignment())
	solB.TrySaveBest()

	best, ok := BestOf([]RestartResult{
		{WorkerIndex: 0, Solution: solA},
		{WorkerIndex: 1, Solution: solB},
	})
	require.True(t, ok)
	assert.Equal(t, 1, best.WorkerIndex)
}

func TestBestOfEmpty(t *testing.T) {
	_, ok := BestOf(nil)
	assert.False(t, ok)
}

// stepSelectionSearch always declines, used where RunParallelRestarts just
// needs a Solver that runs to completion without proposing moves.
type stepSelectionSearch struct{}

func (stepSelectionSearch) SelectNeighbour(*ifs.Solution) ifs.Neighbour { return nil }
