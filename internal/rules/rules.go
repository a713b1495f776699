// Package rules evaluates candidate trades against a user's trading rules.
// The engine is read-only: it reports violations and leaves acknowledgment
// and persistence to the caller.
package rules

import (
	"strconv"

	"forex-journal/internal/models"
)

// Check is the projection of a trade the engine watches.
type Check struct {
	Pair      string
	Day       string
	Lots      float64
	Action    models.TradeAction
	Direction models.Direction
}

// CheckFor builds a Check from a trade record.
func CheckFor(t *models.Trade) Check {
	return Check{
		Pair:      t.Pair,
		Day:       t.Day,
		Lots:      t.Lots,
		Action:    t.Action,
		Direction: t.Direction,
	}
}

// AgainstTrend reports whether action and direction disagree
// (Buy+Bearish or Sell+Bullish).
func (c Check) AgainstTrend() bool {
	return (c.Action == models.ActionBuy && c.Direction == models.DirectionBearish) ||
		(c.Action == models.ActionSell && c.Direction == models.DirectionBullish)
}

// Report is the outcome of evaluating one candidate trade.
type Report struct {
	Valid      bool
	Violations []models.Violation
}

// Evaluate checks the candidate against every rule in the set. All rules are
// evaluated; a violation never short-circuits the rest. The returned
// violations carry the rule type, the offending value, and a copy of the
// allowed set at check time, but no trade reference or acknowledgment state.
func Evaluate(c Check, ruleSet []models.TradingRule) Report {
	var violations []models.Violation

	for _, rule := range ruleSet {
		switch rule.Type {
		case models.RulePair:
			if !member(rule.Allowed, c.Pair) {
				violations = append(violations, violation(rule, c.Pair))
			}
		case models.RuleDay:
			if !member(rule.Allowed, c.Day) {
				violations = append(violations, violation(rule, c.Day))
			}
		case models.RuleLot:
			// Lot sizes compare in their canonical string form.
			lot := strconv.FormatFloat(c.Lots, 'f', -1, 64)
			if !member(rule.Allowed, lot) {
				violations = append(violations, violation(rule, lot))
			}
		case models.RuleActionDirection:
			// The allowed set excluding "No" means trading against the
			// trend is disallowed.
			if c.AgainstTrend() && !member(rule.Allowed, "No") {
				violations = append(violations, violation(rule, string(c.Action)+" "+string(c.Direction)))
			}
		}
	}

	return Report{Valid: len(violations) == 0, Violations: violations}
}

func violation(rule models.TradingRule, value string) models.Violation {
	return models.Violation{
		RuleType: rule.Type,
		Value:    value,
		Allowed:  append([]string(nil), rule.Allowed...),
	}
}

func member(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
