package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	jerrors "forex-journal/internal/errors"
	"forex-journal/internal/models"
	"forex-journal/internal/normalize"
)

const (
	rowOne   = "01/03/24\tFriday\t9.30am\tGU\tbuy\tbullish\t0.5\t30\t60\t2\tlimit\ttrending\t\t\t\t\t\tnews\tcalm\t-$50\t25\t\t\t"
	rowShort = "02/03/24\tSaturday\t10am"
	rowTwo   = "04/03/24\tMonday\t2.15pm\tEU\tsell\tbearish\t1\t20\t40\t2\tmarket\tranging\t\t\t\t\t\t\tfocused\t$120\t40\t\t\t"
)

func TestParseText(t *testing.T) {
	input := strings.Join([]string{rowOne, "", rowShort, rowTwo}, "\n")

	preview, err := ParseText(input)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if preview.Len() != 2 {
		t.Fatalf("got %d candidates, want 2", preview.Len())
	}
	if len(preview.Skipped) != 1 {
		t.Fatalf("got %d skipped, want 1", len(preview.Skipped))
	}
	if preview.Skipped[0].Line != 3 {
		t.Errorf("skipped line = %d, want 3", preview.Skipped[0].Line)
	}

	first := preview.Candidates[0]
	if first.Pair != "GBP/USD" || first.Date != "2024-03-01" || first.ProfitLoss != -50 {
		t.Errorf("first candidate = %+v", first)
	}
	second := preview.Candidates[1]
	if second.Pair != "EUR/USD" || second.Action != models.ActionSell {
		t.Errorf("second candidate = %+v", second)
	}
}

func TestParseTextCRLF(t *testing.T) {
	preview, err := ParseText(rowOne + "\r\n" + rowTwo + "\r\n")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if preview.Len() != 2 {
		t.Errorf("got %d candidates, want 2", preview.Len())
	}
}

func TestParseTextSpaceSeparated(t *testing.T) {
	// Hand-pasted rows without tabs split on runs of two or more spaces.
	line := "01/03/24  Friday  9.30am  GU  buy  bullish  0.5  30  60  2"
	preview, err := ParseText(line)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if preview.Candidates[0].Pair != "GBP/USD" {
		t.Errorf("Pair = %q, want GBP/USD", preview.Candidates[0].Pair)
	}
}

func TestParseTextNothingParsable(t *testing.T) {
	_, err := ParseText("garbage\nmore garbage\n")
	if !errors.Is(err, jerrors.ErrNoParsableRows) {
		t.Errorf("expected ErrNoParsableRows, got %v", err)
	}
}

func TestPreviewSelect(t *testing.T) {
	preview, err := ParseText(rowOne + "\n" + rowTwo)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	if err := preview.Select(1); err != nil {
		t.Fatalf("Select(1) failed: %v", err)
	}
	selected, ok := preview.Selected()
	if !ok || selected.Pair != "EUR/USD" {
		t.Errorf("Selected = %+v, ok=%v", selected, ok)
	}
	if err := preview.Select(5); err == nil {
		t.Error("Select out of range should fail")
	}
}

func TestParseSheetAt(t *testing.T) {
	label := normalize.TextCell("1")
	dataRow := func(date string) []normalize.Cell {
		cells := []normalize.Cell{label}
		cells = append(cells,
			normalize.TextCell(date), normalize.TextCell("Friday"), normalize.NumberCell(0.5),
			normalize.TextCell("GU"), normalize.TextCell("buy"), normalize.TextCell("bullish"),
			normalize.NumberCell(0.5), normalize.NumberCell(30), normalize.NumberCell(60),
			normalize.NumberCell(2),
		)
		return cells
	}

	headerRow := []normalize.Cell{normalize.TextCell("#"), normalize.TextCell("Date")}
	emptyRow := []normalize.Cell{label, normalize.TextCell("")}

	sheet := [][]normalize.Cell{
		{normalize.TextCell("Trading Journal")},
		headerRow,
		dataRow("01/03/24"),
		{},
		emptyRow,
		dataRow("04/03/24"),
	}

	preview, err := ParseSheet(sheet)
	if err != nil {
		t.Fatalf("ParseSheet failed: %v", err)
	}
	if preview.Len() != 2 {
		t.Fatalf("got %d candidates, want 2", preview.Len())
	}
	if preview.Candidates[0].EntryTime != "12:00" {
		t.Errorf("EntryTime = %q, want 12:00 (serial 0.5)", preview.Candidates[0].EntryTime)
	}
	if len(preview.Skipped) != 0 {
		t.Errorf("got %d skipped, want 0", len(preview.Skipped))
	}
}

// fakeStore counts persistence calls and can fail specific trades.
type fakeStore struct {
	trades     []models.Trade
	violations []models.Violation
	ruleSet    []models.TradingRule
	failDates  map[string]bool
}

func (f *fakeStore) SaveTrade(_ context.Context, trade *models.Trade) error {
	if f.failDates[trade.Date] {
		return errors.New("disk full")
	}
	f.trades = append(f.trades, *trade)
	return nil
}

func (f *fakeStore) SaveViolation(_ context.Context, v *models.Violation) error {
	f.violations = append(f.violations, *v)
	return nil
}

func (f *fakeStore) GetRules(_ context.Context) ([]models.TradingRule, error) {
	return f.ruleSet, nil
}

func TestApply(t *testing.T) {
	preview, err := ParseText(rowOne + "\n" + rowTwo)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	store := &fakeStore{
		ruleSet: []models.TradingRule{{Type: models.RulePair, Allowed: []string{"GBP/USD"}}},
	}
	imp := New(store, store, zerolog.Nop())

	result, err := imp.Apply(context.Background(), preview)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if result.Persisted != 2 || result.Failed != 0 {
		t.Errorf("Persisted/Failed = %d/%d, want 2/0", result.Persisted, result.Failed)
	}

	// Second trade is EUR/USD, outside the allowed set.
	if result.Violations != 1 || len(store.violations) != 1 {
		t.Fatalf("Violations = %d (stored %d), want 1", result.Violations, len(store.violations))
	}
	v := store.violations[0]
	if !v.Acknowledged {
		t.Error("bulk import must record violations as acknowledged")
	}
	if v.TradeID == "" || v.TradeID != store.trades[1].ID {
		t.Errorf("violation trade ID = %q, want %q", v.TradeID, store.trades[1].ID)
	}

	for _, trade := range store.trades {
		if trade.ID == "" {
			t.Error("persisted trade missing generated ID")
		}
	}
}

func TestApplyPartialFailure(t *testing.T) {
	preview, err := ParseText(rowOne + "\n" + rowTwo)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	store := &fakeStore{failDates: map[string]bool{"2024-03-01": true}}
	imp := New(store, store, zerolog.Nop())

	result, err := imp.Apply(context.Background(), preview)
	if err != nil {
		t.Fatalf("Apply should tolerate partial failure: %v", err)
	}
	if result.Persisted != 1 || result.Failed != 1 {
		t.Errorf("Persisted/Failed = %d/%d, want 1/1", result.Persisted, result.Failed)
	}
}

func TestApplyNothingPersisted(t *testing.T) {
	preview, err := ParseText(rowOne)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	store := &fakeStore{failDates: map[string]bool{"2024-03-01": true}}
	imp := New(store, store, zerolog.Nop())

	_, err = imp.Apply(context.Background(), preview)
	if !errors.Is(err, jerrors.ErrNothingPersisted) {
		t.Errorf("expected ErrNothingPersisted, got %v", err)
	}
}
