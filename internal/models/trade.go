// Package models provides domain models for the trading journal.
package models

import "time"

// TradeAction represents the executed side of a trade.
type TradeAction string

const (
	ActionBuy  TradeAction = "Buy"
	ActionSell TradeAction = "Sell"
)

// Direction represents the trader's recorded directional bias.
type Direction string

const (
	DirectionBullish Direction = "Bullish"
	DirectionBearish Direction = "Bearish"
)

// CanonicalPairs is the fixed set of slash-delimited pair codes the journal
// records. Normalization maps shorthand codes onto this set; codes outside it
// pass through untouched.
var CanonicalPairs = []string{
	"EUR/USD",
	"GBP/USD",
	"USD/JPY",
	"GBP/JPY",
	"EUR/JPY",
	"AUD/USD",
	"NZD/USD",
	"USD/CAD",
	"USD/CHF",
	"XAU/USD",
}

// Trade is a single executed position in canonical form: ISO date, 24-hour
// times, slash-delimited pair code. Pips and Reward stay strings because the
// source data frequently leaves them blank or unparseable; an empty string
// means "not recorded".
type Trade struct {
	ID              string
	Date            string // YYYY-MM-DD
	Day             string // weekday name
	EntryTime       string // HH:MM, 24-hour, empty when unknown
	ExitTime        string
	Pair            string
	Action          TradeAction
	Direction       Direction
	Lots            float64
	StopPips        int
	TargetPips      int
	RiskRatio       float64
	OrderType       string
	MarketCondition string
	Confluences     string
	Mindset         string
	ProfitLoss      float64
	Pips            string // optional numeric, empty when absent
	Reward          string // optional numeric, empty when absent
	Link            string
	Comments        string
	CreatedAt       time.Time
}

// IsWin reports whether the trade closed in profit.
func (t *Trade) IsWin() bool { return t.ProfitLoss > 0 }

// IsLoss reports whether the trade closed at a loss.
func (t *Trade) IsLoss() bool { return t.ProfitLoss < 0 }

// AgainstTrend reports whether the action disagrees with the recorded bias
// (Buy into a Bearish read, or Sell into a Bullish one).
func (t *Trade) AgainstTrend() bool {
	return (t.Action == ActionBuy && t.Direction == DirectionBearish) ||
		(t.Action == ActionSell && t.Direction == DirectionBullish)
}
