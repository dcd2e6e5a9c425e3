package search

import (
	"context"
	"math/rand"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
	"golang.org/x/sync/errgroup"
)

// RestartFactory builds one independent Solver attempt. It is called once
// per worker with a worker-private *rand.Rand — random number generators
// are owned per-worker, never shared across a global RNG in parallel mode
// — so every Solution, Assignment, and NeighbourSelection a factory builds
// must be fresh, never shared across calls.
type RestartFactory func(ctx context.Context, workerIndex int, rng *rand.Rand) (*ifs.Solver, *ifs.Solution, error)

// RestartResult is one worker's outcome, returned in worker order from
// RunParallelRestarts.
type RestartResult struct {
	WorkerIndex int
	Solution    *ifs.Solution
	Iterations  int
}

// RunParallelRestarts drives n independent Solver instances concurrently,
// each with its own Assignment and RNG, and returns every worker's final
// Solution. It cancels remaining workers and
// returns the first error if any factory or Solver.Run fails; Solver.Run
// itself never returns an error today, so in practice only factory errors
// (e.g. model construction) short-circuit the group.
//
// seed seeds a per-worker RNG deterministically as seed+workerIndex so a
// run is reproducible without workers colliding on the same sequence.
func RunParallelRestarts(ctx context.Context, n int, seed int64, build RestartFactory) ([]RestartResult, error) {
	group, gctx := errgroup.WithContext(ctx)
	results := make([]RestartResult, n)

	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(i)))
			solver, solution, err := build(gctx, i, rng)
			if err != nil {
				return err
			}
			ran := solver.Run()
			results[i] = RestartResult{WorkerIndex: i, Solution: solution, Iterations: ran}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BestOf returns the RestartResult with the lowest BestValue among results,
// or the zero value if results is empty.
func BestOf(results []RestartResult) (RestartResult, bool) {
	if len(results) == 0 {
		return RestartResult{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Solution.BestValue() < best.Solution.BestValue() {
			best = r
		}
	}
	return best, true
}
