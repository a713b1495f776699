package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	jerrors "forex-journal/internal/errors"
	"forex-journal/internal/logging"
	"forex-journal/internal/models"
	"forex-journal/internal/normalize"
	"forex-journal/internal/rules"
	"forex-journal/internal/store"
)

func newTradeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Manage individual trade records",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeShowCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))

	return cmd
}

func newTradeAddCmd(app *App) *cobra.Command {
	var (
		date, day, entryTime, exitTime  string
		pair, action, direction         string
		lots                            float64
		stopPips, targetPips            int
		orderType, condition            string
		confluences, mindset            string
		pnl                             float64
		pips, reward, link, comment     string
		ack                             bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single trade",
		Long: `Add a single trade record.

Field values accept the same loose forms as bulk import: dates as
DD/MM/YYYY or ISO, times as 9.30am, pairs as shorthand like GU. The
trade is checked against your trading rules before it is saved. If any
rule is violated, the trade is rejected unless --ack is passed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			isoDate := normalize.NormalizeDate(normalize.TextCell(date))
			if isoDate == "" {
				return jerrors.NewParseError("date", date)
			}

			trade := models.Trade{
				ID:              uuid.NewString(),
				Date:            isoDate,
				Day:             normalize.NormalizeDay(normalize.TextCell(day), isoDate),
				EntryTime:       normalize.NormalizeTime(normalize.TextCell(entryTime)),
				ExitTime:        normalize.NormalizeTime(normalize.TextCell(exitTime)),
				Pair:            normalize.NormalizePair(pair),
				Action:          normalize.NormalizeAction(action),
				Direction:       normalize.NormalizeDirection(direction),
				Lots:            lots,
				StopPips:        stopPips,
				TargetPips:      targetPips,
				OrderType:       orderType,
				MarketCondition: condition,
				Confluences:     confluences,
				Mindset:         mindset,
				ProfitLoss:      pnl,
				Pips:            normalize.NormalizeNumeric(normalize.TextCell(pips)),
				Reward:          normalize.NormalizeNumeric(normalize.TextCell(reward)),
				Link:            link,
				Comments:        comment,
			}
			if trade.RiskRatio == 0 && stopPips > 0 {
				trade.RiskRatio = float64(targetPips) / float64(stopPips)
			}

			ruleSet, err := app.Store.GetRules(cmd.Context())
			if err != nil {
				return jerrors.Wrap(err, "fetching rule set")
			}

			report := rules.Evaluate(rules.CheckFor(&trade), ruleSet)
			if !report.Valid {
				for _, v := range report.Violations {
					output.Warning("⚠ rule %q violated: %s (allowed: %v)", v.RuleType, v.Value, v.Allowed)
					logging.LogViolation(app.Logger, trade.ID, string(v.RuleType), v.Value)
				}
				if !ack {
					output.Error("Trade not saved. Re-run with --ack to save it anyway.")
					return jerrors.ErrNotAcknowledged
				}
			}

			if err := app.Store.SaveTrade(cmd.Context(), &trade); err != nil {
				// Show the composed record so the entry isn't lost on a
				// persistence failure.
				printTradeDetail(output, &trade, app.Config.Journal.Currency)
				return err
			}

			// Violations are persisted only for acknowledged saves.
			for _, v := range report.Violations {
				v.ID = uuid.NewString()
				v.TradeID = trade.ID
				v.Acknowledged = true
				if err := app.Store.SaveViolation(cmd.Context(), &v); err != nil {
					app.Logger.Warn().Err(err).Str("trade_id", trade.ID).Msg("Failed to persist violation")
				}
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("✓ Trade saved: %s %s %s", trade.Date, trade.Pair, trade.Action)
			output.Dim("ID: %s", trade.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "trade date (DD/MM/YYYY or YYYY-MM-DD)")
	cmd.Flags().StringVar(&day, "day", "", "day of week (derived from date when omitted)")
	cmd.Flags().StringVar(&entryTime, "entry", "", "entry time (e.g. 9.30am)")
	cmd.Flags().StringVar(&exitTime, "exit", "", "exit time")
	cmd.Flags().StringVar(&pair, "pair", "", "currency pair (e.g. GU or GBP/USD)")
	cmd.Flags().StringVar(&action, "action", "buy", "buy or sell")
	cmd.Flags().StringVar(&direction, "direction", "bullish", "bullish or bearish")
	cmd.Flags().Float64Var(&lots, "lots", 0, "lot size")
	cmd.Flags().IntVar(&stopPips, "stop", 0, "stop loss in pips")
	cmd.Flags().IntVar(&targetPips, "target", 0, "take profit in pips")
	cmd.Flags().StringVar(&orderType, "order", "", "order type")
	cmd.Flags().StringVar(&condition, "condition", "", "market condition")
	cmd.Flags().StringVar(&confluences, "confluences", "", "comma-separated confluences")
	cmd.Flags().StringVar(&mindset, "mindset", "", "mindset note")
	cmd.Flags().Float64Var(&pnl, "pnl", 0, "realized profit or loss")
	cmd.Flags().StringVar(&pips, "pips", "", "pips gained or lost")
	cmd.Flags().StringVar(&reward, "reward", "", "realized reward multiple")
	cmd.Flags().StringVar(&link, "link", "", "chart link")
	cmd.Flags().StringVar(&comment, "comment", "", "free-form comment")
	cmd.Flags().BoolVar(&ack, "ack", false, "acknowledge rule violations and save anyway")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("pair")

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	var (
		pair, action, from, to string
		limit                  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trade records",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			filter := store.TradeFilter{
				Pair:      normalizeFilterPair(pair),
				StartDate: from,
				EndDate:   to,
				Limit:     limit,
			}
			if action != "" {
				filter.Action = string(normalize.NormalizeAction(action))
			}
			trades, err := app.Store.GetTrades(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Info("No trades found.")
				return nil
			}

			symbol := app.Config.Journal.Currency
			table := NewTable(output, "DATE", "DAY", "TIME", "PAIR", "ACTION", "LOTS", "P&L", "ID")
			for _, t := range trades {
				table.AddRow(
					t.Date,
					t.Day,
					t.EntryTime,
					t.Pair,
					string(t.Action),
					FormatLots(t.Lots),
					output.FormatPnL(t.ProfitLoss, symbol),
					output.DimText(TruncateString(t.ID, 8)),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d trade(s)", len(trades))
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "filter by currency pair")
	cmd.Flags().StringVar(&action, "action", "", "filter by action (buy/sell)")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows")

	return cmd
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show one trade record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			trade, err := app.Store.GetTradeByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTradeDetail(output, trade, app.Config.Journal.Currency)
			return nil
		},
	}
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			if err := app.Store.DeleteTrade(cmd.Context(), args[0]); err != nil {
				return err
			}
			output.Success("✓ Trade deleted")
			return nil
		},
	}
}

// normalizeFilterPair lets list filters use the same pair shorthand as
// imported rows.
func normalizeFilterPair(pair string) string {
	if pair == "" {
		return ""
	}
	return normalize.NormalizePair(pair)
}
