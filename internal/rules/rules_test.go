package rules

import (
	"testing"

	"forex-journal/internal/models"
)

func ruleOf(t models.RuleType, allowed ...string) models.TradingRule {
	return models.TradingRule{Type: t, Allowed: allowed}
}

func TestEvaluatePairRule(t *testing.T) {
	ruleSet := []models.TradingRule{ruleOf(models.RulePair, "EUR/USD")}

	check := Check{Pair: "GBP/USD", Day: "Monday", Lots: 0.5, Action: models.ActionBuy, Direction: models.DirectionBullish}
	report := Evaluate(check, ruleSet)

	if report.Valid {
		t.Fatal("expected pair violation")
	}
	if len(report.Violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(report.Violations))
	}
	v := report.Violations[0]
	if v.RuleType != models.RulePair {
		t.Errorf("RuleType = %q, want pair", v.RuleType)
	}
	if v.Value != "GBP/USD" {
		t.Errorf("Value = %q, want GBP/USD", v.Value)
	}
	if len(v.Allowed) != 1 || v.Allowed[0] != "EUR/USD" {
		t.Errorf("Allowed = %v, want [EUR/USD]", v.Allowed)
	}
}

func TestEvaluateAllRulesChecked(t *testing.T) {
	// Every rule is evaluated; one violation never short-circuits the rest.
	ruleSet := []models.TradingRule{
		ruleOf(models.RulePair, "EUR/USD"),
		ruleOf(models.RuleDay, "Monday", "Tuesday"),
		ruleOf(models.RuleLot, "0.5", "1"),
		ruleOf(models.RuleActionDirection, "Yes"),
	}

	check := Check{
		Pair:      "GBP/USD",
		Day:       "Friday",
		Lots:      2,
		Action:    models.ActionBuy,
		Direction: models.DirectionBearish,
	}
	report := Evaluate(check, ruleSet)

	if len(report.Violations) != 4 {
		t.Fatalf("got %d violations, want 4", len(report.Violations))
	}
	seen := map[models.RuleType]string{}
	for _, v := range report.Violations {
		seen[v.RuleType] = v.Value
	}
	if seen[models.RuleDay] != "Friday" {
		t.Errorf("day violation value = %q, want Friday", seen[models.RuleDay])
	}
	if seen[models.RuleLot] != "2" {
		t.Errorf("lot violation value = %q, want 2", seen[models.RuleLot])
	}
	if seen[models.RuleActionDirection] != "Buy Bearish" {
		t.Errorf("action_direction value = %q, want \"Buy Bearish\"", seen[models.RuleActionDirection])
	}
}

func TestEvaluateCompliantTrade(t *testing.T) {
	ruleSet := []models.TradingRule{
		ruleOf(models.RulePair, "GBP/USD", "EUR/USD"),
		ruleOf(models.RuleDay, "Monday"),
		ruleOf(models.RuleLot, "0.5"),
		ruleOf(models.RuleActionDirection, "Yes"),
	}

	check := Check{
		Pair:      "GBP/USD",
		Day:       "Monday",
		Lots:      0.5,
		Action:    models.ActionBuy,
		Direction: models.DirectionBullish,
	}
	report := Evaluate(check, ruleSet)

	if !report.Valid {
		t.Fatalf("expected no violations, got %v", report.Violations)
	}
}

func TestEvaluateActionDirection(t *testing.T) {
	flag := []models.TradingRule{ruleOf(models.RuleActionDirection, "Yes")}

	withTrend := Check{Action: models.ActionSell, Direction: models.DirectionBearish}
	if r := Evaluate(withTrend, flag); !r.Valid {
		t.Error("sell in a bearish market should not violate")
	}

	against := Check{Action: models.ActionSell, Direction: models.DirectionBullish}
	if r := Evaluate(against, flag); r.Valid {
		t.Error("sell in a bullish market should violate")
	}

	// An allowed set containing "No" disables the check.
	disabled := []models.TradingRule{ruleOf(models.RuleActionDirection, "No")}
	if r := Evaluate(against, disabled); !r.Valid {
		t.Error("rule with \"No\" in allowed set should not fire")
	}
}

func TestEvaluateLotCanonicalForm(t *testing.T) {
	ruleSet := []models.TradingRule{ruleOf(models.RuleLot, "0.5")}

	if r := Evaluate(Check{Lots: 0.5}, ruleSet); !r.Valid {
		t.Errorf("0.5 lots should match, got %v", r.Violations)
	}
	if r := Evaluate(Check{Lots: 0.75}, ruleSet); r.Valid {
		t.Error("0.75 lots should violate")
	}
}

func TestEvaluateEmptyRuleSet(t *testing.T) {
	report := Evaluate(Check{Pair: "GBP/USD"}, nil)
	if !report.Valid || len(report.Violations) != 0 {
		t.Errorf("empty rule set should pass everything, got %v", report.Violations)
	}
}

func TestViolationAllowedIsCopy(t *testing.T) {
	rule := ruleOf(models.RulePair, "EUR/USD")
	report := Evaluate(Check{Pair: "GBP/USD"}, []models.TradingRule{rule})

	report.Violations[0].Allowed[0] = "mutated"
	if rule.Allowed[0] != "EUR/USD" {
		t.Error("violation must carry a copy of the allowed set")
	}
}
