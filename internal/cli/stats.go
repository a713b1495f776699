package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"forex-journal/internal/metrics"
	"forex-journal/internal/store"
)

func newStatsCmd(app *App) *cobra.Command {
	var (
		period   string
		from, to string
		pair     string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate performance statistics",
		Long: `Aggregate the journal into performance statistics.

Select a window with --period (daily, weekly, monthly) or an explicit
--from/--to range; with neither, the whole journal is aggregated.
Violation counts cover only trades inside the selected window.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			start, end, err := resolveWindow(period, from, to)
			if err != nil {
				return err
			}

			filter := store.TradeFilter{
				Pair:      normalizeFilterPair(pair),
				StartDate: start,
				EndDate:   end,
			}
			trades, err := app.Store.GetTrades(cmd.Context(), filter)
			if err != nil {
				return err
			}
			violations, err := app.Store.GetViolations(cmd.Context(), store.ViolationFilter{})
			if err != nil {
				return err
			}

			m := metrics.Compute(trades, violations)

			if output.IsJSON() {
				return output.JSON(m)
			}

			symbol := app.Config.Journal.Currency
			title := "Performance"
			if start != "" || end != "" {
				title = fmt.Sprintf("Performance %s to %s", orAny(start), orAny(end))
			}

			content := []string{
				fmt.Sprintf("Trades:           %d (%d wins / %d losses / %d break-even)",
					m.TotalTrades, m.Wins, m.Losses, m.BreakEvens),
				fmt.Sprintf("Win Rate:         %d%%", m.WinRate),
				fmt.Sprintf("Total P&L:        %s", output.FormatPnL(m.TotalProfitLoss, symbol)),
				fmt.Sprintf("Total Pips:       %.1f", m.TotalPips),
				fmt.Sprintf("Total Reward:     %.2f", m.TotalReward),
				fmt.Sprintf("Max Loss Streak:  %d", m.MaxConsecutiveLosses),
				fmt.Sprintf("Violations:       %d across %d trade(s)", m.ViolationCount, m.ViolatedTrades),
			}
			output.Box(title, content)
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "relative window: daily, weekly, or monthly")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&pair, "pair", "", "restrict to one currency pair")

	return cmd
}

// resolveWindow turns a named period or explicit range into inclusive ISO
// date bounds. Named periods end today.
func resolveWindow(period, from, to string) (string, string, error) {
	if period != "" && (from != "" || to != "") {
		return "", "", fmt.Errorf("--period cannot be combined with --from/--to")
	}
	if period == "" {
		return from, to, nil
	}

	now := time.Now()
	end := now.Format("2006-01-02")
	var start time.Time
	switch period {
	case "daily":
		start = now
	case "weekly":
		start = now.AddDate(0, 0, -6)
	case "monthly":
		start = now.AddDate(0, -1, 0)
	default:
		return "", "", fmt.Errorf("unknown period %q (valid: daily, weekly, monthly)", period)
	}
	return start.Format("2006-01-02"), end, nil
}

func orAny(s string) string {
	if s == "" {
		return "..."
	}
	return s
}
