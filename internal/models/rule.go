package models

import "time"

// RuleType identifies which trade attribute a trading rule constrains.
type RuleType string

const (
	RulePair            RuleType = "pair"
	RuleDay             RuleType = "day"
	RuleLot             RuleType = "lot"
	RuleActionDirection RuleType = "action_direction"
)

// RuleTypes lists every supported rule type.
var RuleTypes = []RuleType{RulePair, RuleDay, RuleLot, RuleActionDirection}

// ValidRuleType reports whether t names a supported rule type.
func ValidRuleType(t RuleType) bool {
	for _, rt := range RuleTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// TradingRule is a per-user constraint on one trade attribute. Allowed holds
// the permitted values; for action_direction it holds the yes/no policy on
// trading against the inferred trend.
type TradingRule struct {
	ID        string
	Type      RuleType
	Allowed   []string
	CreatedAt time.Time
}

// Violation records that a trade's attribute fell outside a rule's allowed
// set at creation time. Immutable once written, except for Acknowledged,
// which flips when the user proceeds past the warning.
type Violation struct {
	ID           string
	TradeID      string
	RuleType     RuleType
	Value        string
	Allowed      []string
	Acknowledged bool
	CreatedAt    time.Time
}
