package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/justcode-dev/justcode/model"
)

func TestIncrementStatAdditivity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("counter equals the sum of applied deltas", prop.ForAll(
		func(deltas []int64) bool {
			ctx := context.Background()
			s, err := Open(ctx, filepath.Join(t.TempDir(), "progress.db"))
			if err != nil {
				return false
			}
			defer s.Close()

			var want int64
			for _, d := range deltas {
				if err := s.IncrementStat(ctx, model.CounterRuns, d); err != nil {
					return false
				}
				want += d
			}
			stats, err := s.GetStats(ctx)
			if err != nil {
				return false
			}
			return stats.Runs == want
		},
		gen.SliceOf(gen.Int64Range(0, 1000)),
	))

	properties.TestingRun(t)
}
