package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"forex-journal/internal/models"
	"forex-journal/internal/normalize"
	"forex-journal/internal/rules"
)

func newRulesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage trading rules",
		Long: `Manage the trading rules every new trade is checked against.

Rule types: pair, day, lot, action_direction. Each rule holds a set of
allowed values; a trade whose value falls outside the set is a violation.
The action_direction rule is a flag: any allowed set not containing "No"
forbids trading against the trend.`,
	}

	cmd.AddCommand(newRulesAddCmd(app))
	cmd.AddCommand(newRulesListCmd(app))
	cmd.AddCommand(newRulesRemoveCmd(app))
	cmd.AddCommand(newRulesCheckCmd(app))

	return cmd
}

func newRulesAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <type> <allowed>...",
		Short: "Add or replace a trading rule",
		Long: `Add a trading rule, replacing any existing rule of the same type.

Examples:
  fxjournal rules add pair GBP/USD EUR/USD
  fxjournal rules add day Monday Tuesday Wednesday
  fxjournal rules add lot 0.5 1
  fxjournal rules add action_direction Yes`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			ruleType := models.RuleType(strings.ToLower(args[0]))
			if !models.ValidRuleType(ruleType) {
				return fmt.Errorf("unknown rule type %q (valid: %s)", args[0], ruleTypeNames())
			}

			allowed := args[1:]
			if ruleType == models.RulePair {
				for i, p := range allowed {
					allowed[i] = normalize.NormalizePair(p)
				}
			}

			rule := models.TradingRule{
				ID:      uuid.NewString(),
				Type:    ruleType,
				Allowed: allowed,
			}
			if err := app.Store.SaveRule(cmd.Context(), &rule); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(rule)
			}
			output.Success("✓ Rule %q set: %s", ruleType, strings.Join(allowed, ", "))
			return nil
		},
	}
}

func newRulesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trading rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			ruleSet, err := app.Store.GetRules(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(ruleSet)
			}
			if len(ruleSet) == 0 {
				output.Info("No rules configured.")
				return nil
			}

			table := NewTable(output, "TYPE", "ALLOWED")
			for _, r := range ruleSet {
				table.AddRow(string(r.Type), strings.Join(r.Allowed, ", "))
			}
			table.Render()
			return nil
		},
	}
}

func newRulesRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <type>",
		Short: "Remove a trading rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			ruleType := models.RuleType(strings.ToLower(args[0]))
			if !models.ValidRuleType(ruleType) {
				return fmt.Errorf("unknown rule type %q (valid: %s)", args[0], ruleTypeNames())
			}

			if err := app.Store.DeleteRule(cmd.Context(), ruleType); err != nil {
				return err
			}
			output.Success("✓ Rule %q removed", ruleType)
			return nil
		},
	}
}

func newRulesCheckCmd(app *App) *cobra.Command {
	var (
		pair, day, action, direction string
		lots                         float64
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a hypothetical trade against the rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			ruleSet, err := app.Store.GetRules(cmd.Context())
			if err != nil {
				return err
			}

			check := rules.Check{
				Pair:      normalize.NormalizePair(pair),
				Day:       day,
				Lots:      lots,
				Action:    normalize.NormalizeAction(action),
				Direction: normalize.NormalizeDirection(direction),
			}
			report := rules.Evaluate(check, ruleSet)

			if output.IsJSON() {
				return output.JSON(report)
			}
			if report.Valid {
				output.Success("✓ No rule violations")
				return nil
			}
			for _, v := range report.Violations {
				output.Warning("⚠ rule %q violated: %s (allowed: %s)", v.RuleType, v.Value, strings.Join(v.Allowed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "currency pair")
	cmd.Flags().StringVar(&day, "day", "", "day of week")
	cmd.Flags().Float64Var(&lots, "lots", 0, "lot size")
	cmd.Flags().StringVar(&action, "action", "buy", "buy or sell")
	cmd.Flags().StringVar(&direction, "direction", "bullish", "bullish or bearish")

	return cmd
}

func ruleTypeNames() string {
	names := make([]string, len(models.RuleTypes))
	for i, t := range models.RuleTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
