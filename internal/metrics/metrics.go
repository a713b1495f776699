// Package metrics derives aggregate performance statistics from a finalized
// trade collection. Compute is a pure function: no external calls, no
// mutation of its inputs.
package metrics

import (
	"math"
	"sort"
	"strconv"

	"forex-journal/internal/models"
)

// Compute aggregates a filtered trade collection and the violation records
// referencing it. The violation counts are restricted to violations whose
// trade is present in the collection, so period filters applied to trades
// carry over. An empty collection yields all-zero metrics.
func Compute(trades []models.Trade, violations []models.Violation) models.AggregateMetrics {
	var m models.AggregateMetrics
	m.TotalTrades = len(trades)

	for i := range trades {
		t := &trades[i]
		switch {
		case t.ProfitLoss > 0:
			m.Wins++
		case t.ProfitLoss < 0:
			m.Losses++
		default:
			m.BreakEvens++
		}
		m.TotalProfitLoss += t.ProfitLoss
		m.TotalPips += parseOrZero(t.Pips)
		m.TotalReward += parseOrZero(t.Reward)
	}

	// Denominator is all trades, break-evens included.
	if m.TotalTrades > 0 {
		m.WinRate = int(math.Round(float64(m.Wins) / float64(m.TotalTrades) * 100))
	}

	m.MaxConsecutiveLosses = maxConsecutiveLosses(trades)

	present := make(map[string]struct{}, len(trades))
	for i := range trades {
		present[trades[i].ID] = struct{}{}
	}
	violated := make(map[string]struct{})
	for i := range violations {
		if _, ok := present[violations[i].TradeID]; !ok {
			continue
		}
		m.ViolationCount++
		violated[violations[i].TradeID] = struct{}{}
	}
	m.ViolatedTrades = len(violated)

	return m
}

// maxConsecutiveLosses scans the collection in chronological (date,
// entry-time) order and returns the longest run of losing trades. The sort
// happens on a copy; computing the streak on the caller's ordering would be
// wrong whenever the store returns trades newest-first.
func maxConsecutiveLosses(trades []models.Trade) int {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].EntryTime < sorted[j].EntryTime
	})

	var run, max int
	for i := range sorted {
		if sorted[i].ProfitLoss < 0 {
			run++
			if run > max {
				max = run
			}
		} else {
			run = 0
		}
	}
	return max
}

func parseOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
