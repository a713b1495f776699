package metrics

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"forex-journal/internal/models"
)

// Property: the loss streak depends on chronological order, not presentation
// order, so shuffling the input slice never changes the result.
func TestProperty_StreakPermutationInvariant(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("shuffled input yields the same streak", prop.ForAll(
		func(pnls []float64, seed int64) bool {
			trades := make([]models.Trade, len(pnls))
			for i, pnl := range pnls {
				trades[i] = models.Trade{
					ID:         fmt.Sprintf("t%d", i),
					Date:       fmt.Sprintf("2024-%02d-%02d", i/28+1, i%28+1),
					EntryTime:  "09:00",
					ProfitLoss: pnl,
				}
			}
			want := Compute(trades, nil).MaxConsecutiveLosses

			shuffled := make([]models.Trade, len(trades))
			copy(shuffled, trades)
			rng := rand.New(rand.NewSource(seed))
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			return Compute(shuffled, nil).MaxConsecutiveLosses == want
		},
		gen.SliceOf(gen.Float64Range(-100, 100)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// Property: wins, losses, and break-evens always partition the collection.
func TestProperty_OutcomePartition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("wins + losses + break-evens = total", prop.ForAll(
		func(pnls []float64) bool {
			trades := make([]models.Trade, len(pnls))
			for i, pnl := range pnls {
				trades[i] = models.Trade{ID: fmt.Sprintf("t%d", i), ProfitLoss: pnl}
			}
			m := Compute(trades, nil)
			if m.Wins+m.Losses+m.BreakEvens != m.TotalTrades {
				return false
			}
			return m.WinRate >= 0 && m.WinRate <= 100
		},
		gen.SliceOf(gen.Float64Range(-100, 100)),
	))

	properties.TestingRun(t)
}
