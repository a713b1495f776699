package models

// AggregateMetrics is derived from a trade collection; it is never persisted.
// WinRate uses all trades as the denominator, break-evens included, rounded
// to the nearest integer percentage.
type AggregateMetrics struct {
	TotalTrades          int
	Wins                 int
	Losses               int
	BreakEvens           int
	WinRate              int
	TotalProfitLoss      float64
	TotalPips            float64
	TotalReward          float64
	MaxConsecutiveLosses int
	ViolationCount       int
	ViolatedTrades       int
}
