package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"forex-journal/internal/importer"
	"forex-journal/internal/logging"
	"forex-journal/internal/models"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import trades from pasted rows or a workbook",
		Long: `Import trade rows in bulk.

Rows are normalized into canonical trade records and shown as a preview.
Nothing is persisted until --apply is passed. Applied trades are checked
against your trading rules; violations are recorded as acknowledged.`,
	}

	cmd.AddCommand(newImportPasteCmd(app))
	cmd.AddCommand(newImportSheetCmd(app))

	return cmd
}

func newImportPasteCmd(app *App) *cobra.Command {
	var apply bool
	var selected int
	var file string

	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Import rows pasted on stdin or read from a text file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			input, err := readInput(file)
			if err != nil {
				return err
			}

			preview, err := importer.ParseText(input)
			if err != nil {
				return err
			}

			return runPreview(cmd, app, output, preview, apply, selected)
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "persist the previewed trades")
	cmd.Flags().IntVar(&selected, "select", -1, "show one candidate by index instead of the full preview")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read rows from a file instead of stdin")

	return cmd
}

func newImportSheetCmd(app *App) *cobra.Command {
	var apply bool
	var selected int
	var sheet string

	cmd := &cobra.Command{
		Use:   "sheet <workbook.xlsx>",
		Short: "Import rows from a workbook sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if sheet == "" {
				sheet = app.Config.Import.DefaultSheet
			}
			grid, err := importer.ReadWorkbook(args[0], sheet)
			if err != nil {
				return err
			}

			preview, err := importer.ParseSheetAt(grid, app.Config.Import.HeaderRows, app.Config.Import.LabelColumns)
			if err != nil {
				return err
			}

			return runPreview(cmd, app, output, preview, apply, selected)
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "persist the previewed trades")
	cmd.Flags().IntVar(&selected, "select", -1, "show one candidate by index instead of the full preview")
	cmd.Flags().StringVarP(&sheet, "sheet", "s", "", "sheet name (default: first sheet)")

	return cmd
}

func readInput(file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func runPreview(cmd *cobra.Command, app *App, output *Output, preview *importer.Preview, apply bool, selected int) error {
	if selected >= 0 {
		if err := preview.Select(selected); err != nil {
			return err
		}
		trade, _ := preview.Selected()
		printTradeDetail(output, &trade, app.Config.Journal.Currency)
		if !apply {
			return nil
		}
		preview.Candidates = []models.Trade{trade}
	}

	if !apply {
		printPreview(output, preview, app.Config.Journal.Currency)
		if !output.IsJSON() {
			output.Dim("Re-run with --apply to persist %d trade(s).", preview.Len())
		}
		return nil
	}

	if app.Store == nil {
		return fmt.Errorf("store unavailable, cannot apply import")
	}

	imp := importer.New(app.Store, app.Store, app.Logger)
	result, err := imp.Apply(cmd.Context(), preview)
	if err != nil {
		return err
	}

	logging.LogImport(app.Logger, preview.Len(), len(preview.Skipped), result.Persisted, result.Failed)

	if output.IsJSON() {
		return output.JSON(map[string]int{
			"persisted":  result.Persisted,
			"failed":     result.Failed,
			"skipped":    len(preview.Skipped),
			"violations": result.Violations,
		})
	}

	output.Success("✓ Imported %d trade(s)", result.Persisted)
	if result.Failed > 0 {
		output.Warning("%d trade(s) failed to persist", result.Failed)
	}
	if len(preview.Skipped) > 0 {
		output.Warning("%d row(s) skipped during parsing", len(preview.Skipped))
	}
	if result.Violations > 0 {
		output.Warning("%d rule violation(s) recorded (acknowledged)", result.Violations)
	}
	return nil
}

func printPreview(output *Output, preview *importer.Preview, symbol string) {
	if output.IsJSON() {
		output.JSON(map[string]interface{}{
			"candidates": preview.Candidates,
			"skipped":    preview.Skipped,
		})
		return
	}

	output.Bold("Import Preview (%d candidate(s), %d skipped)", preview.Len(), len(preview.Skipped))
	output.Println()

	table := NewTable(output, "#", "DATE", "DAY", "TIME", "PAIR", "ACTION", "LOTS", "P&L")
	for i, t := range preview.Candidates {
		table.AddRow(
			fmt.Sprintf("%d", i),
			t.Date,
			t.Day,
			t.EntryTime,
			t.Pair,
			string(t.Action),
			FormatLots(t.Lots),
			output.FormatPnL(t.ProfitLoss, symbol),
		)
	}
	table.Render()

	if len(preview.Skipped) > 0 {
		output.Println()
		output.Bold("Skipped Rows")
		for _, s := range preview.Skipped {
			output.Warning("  line %d: %s", s.Line, s.Reason)
			output.Dim("    %s", TruncateString(s.Raw, 80))
		}
	}
}

func printTradeDetail(output *Output, t *models.Trade, symbol string) {
	if output.IsJSON() {
		output.JSON(t)
		return
	}

	content := []string{
		fmt.Sprintf("Date:       %s (%s)", t.Date, t.Day),
		fmt.Sprintf("Pair:       %s", t.Pair),
		fmt.Sprintf("Action:     %s / %s", t.Action, t.Direction),
		fmt.Sprintf("Entry/Exit: %s - %s", t.EntryTime, t.ExitTime),
		fmt.Sprintf("Lots:       %s", FormatLots(t.Lots)),
		fmt.Sprintf("Stop/Target: %d / %d pips", t.StopPips, t.TargetPips),
		fmt.Sprintf("Risk:       %s", FormatRiskReward(t.RiskRatio)),
		fmt.Sprintf("P&L:        %s", output.FormatPnL(t.ProfitLoss, symbol)),
	}
	if t.Confluences != "" {
		content = append(content, fmt.Sprintf("Confluences: %s", t.Confluences))
	}
	if t.Comments != "" {
		content = append(content, fmt.Sprintf("Comments:   %s", TruncateString(t.Comments, 60)))
	}
	output.Box("Trade "+t.Pair+" "+t.Date, content)
}
