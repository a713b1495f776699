package normalize

import (
	"errors"
	"testing"
	"time"

	jerrors "forex-journal/internal/errors"
	"forex-journal/internal/models"
)

func textRow(fields ...string) []Cell {
	cells := make([]Cell, len(fields))
	for i, f := range fields {
		cells[i] = TextCell(f)
	}
	return cells
}

func TestNormalizeRow(t *testing.T) {
	row := textRow(
		"01/03/24", "monday", "9.30am", "GU", "buy", "bullish",
		"0.5", "30", "60", "", "limit", "trending",
		"MA", "", "pivot", "", "", "news",
		"calm", "-$50", "25", "2R", "https://example.com/chart", "late entry",
	)

	trade, err := NormalizeRow(row)
	if err != nil {
		t.Fatalf("NormalizeRow failed: %v", err)
	}

	if trade.Date != "2024-03-01" {
		t.Errorf("Date = %q, want 2024-03-01", trade.Date)
	}
	if trade.Day != "Monday" {
		t.Errorf("Day = %q, want Monday", trade.Day)
	}
	if trade.EntryTime != "09:30" {
		t.Errorf("EntryTime = %q, want 09:30", trade.EntryTime)
	}
	if trade.Pair != "GBP/USD" {
		t.Errorf("Pair = %q, want GBP/USD", trade.Pair)
	}
	if trade.Action != models.ActionBuy {
		t.Errorf("Action = %q, want Buy", trade.Action)
	}
	if trade.Direction != models.DirectionBullish {
		t.Errorf("Direction = %q, want Bullish", trade.Direction)
	}
	if trade.Lots != 0.5 {
		t.Errorf("Lots = %v, want 0.5", trade.Lots)
	}
	if trade.StopPips != 30 || trade.TargetPips != 60 {
		t.Errorf("Stop/Target = %d/%d, want 30/60", trade.StopPips, trade.TargetPips)
	}
	// Risk ratio cell is blank, so it derives from target/stop.
	if trade.RiskRatio != 2 {
		t.Errorf("RiskRatio = %v, want 2", trade.RiskRatio)
	}
	if trade.Confluences != "MA, pivot, news" {
		t.Errorf("Confluences = %q, want \"MA, pivot, news\"", trade.Confluences)
	}
	if trade.ProfitLoss != -50 {
		t.Errorf("ProfitLoss = %v, want -50", trade.ProfitLoss)
	}
	if trade.Pips != "25" {
		t.Errorf("Pips = %q, want 25", trade.Pips)
	}
	// "2R" is not a plain number, so reward stays empty.
	if trade.Reward != "" {
		t.Errorf("Reward = %q, want empty", trade.Reward)
	}
	if trade.Comments != "late entry" {
		t.Errorf("Comments = %q, want \"late entry\"", trade.Comments)
	}
}

func TestNormalizeRowTooShort(t *testing.T) {
	_, err := NormalizeRow(textRow("01/03/24", "monday", "9.30am", "GU", "buy"))
	if !errors.Is(err, jerrors.ErrRowTooShort) {
		t.Errorf("expected ErrRowTooShort, got %v", err)
	}
}

func TestNormalizeRowBadDate(t *testing.T) {
	row := textRow(
		"not a date", "monday", "9.30am", "GU", "buy", "bullish",
		"0.5", "30", "60", "2",
	)
	_, err := NormalizeRow(row)
	var parseErr *jerrors.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Field != "date" {
		t.Errorf("ParseError.Field = %q, want date", parseErr.Field)
	}
}

func TestNormalizeRowExtraColumnsDropped(t *testing.T) {
	fields := make([]string, 30)
	fields[0] = "2024-03-01"
	fields[23] = "comment"
	fields[24] = "junk"
	trade, err := NormalizeRow(textRow(fields...))
	if err != nil {
		t.Fatalf("NormalizeRow failed: %v", err)
	}
	if trade.Comments != "comment" {
		t.Errorf("Comments = %q, want comment", trade.Comments)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"iso passthrough", TextCell("2024-03-01"), "2024-03-01"},
		{"slash full year", TextCell("01/03/2024"), "2024-03-01"},
		{"slash short year", TextCell("5/11/24"), "2024-11-05"},
		{"whitespace", TextCell("  01/03/24  "), "2024-03-01"},
		{"serial number", NumberCell(25569), time.Unix(0, 0).Format("2006-01-02")},
		{"serial as text", TextCell("25569"), time.Unix(0, 0).Format("2006-01-02")},
		{"month out of range", TextCell("01/13/24"), ""},
		{"garbage", TextCell("soon"), ""},
		{"empty", TextCell(""), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.cell); got != tt.want {
				t.Errorf("NormalizeDate(%v) = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"24h colon", TextCell("14:05"), "14:05"},
		{"dot separator am", TextCell("9.30am"), "09:30"},
		{"pm", TextCell("2.15pm"), "14:15"},
		{"noon", TextCell("12:00pm"), "12:00"},
		{"midnight", TextCell("12:00am"), "00:00"},
		{"serial half day", NumberCell(0.5), "12:00"},
		{"serial with date part", NumberCell(45357.25), "06:00"},
		{"hour out of range", TextCell("25:00"), ""},
		{"garbage", TextCell("morning"), ""},
		{"empty", TextCell(""), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTime(tt.cell); got != tt.want {
				t.Errorf("NormalizeTime(%v) = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestNormalizePair(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"GU", "GBP/USD"},
		{"gu", "GBP/USD"},
		{"EU", "EUR/USD"},
		{"XU", "XAU/USD"},
		{"GBP/USD", "GBP/USD"},
		{"USD/TRY", "USD/TRY"},
		{" uj ", "USD/JPY"},
	}
	for _, tt := range tests {
		if got := NormalizePair(tt.in); got != tt.want {
			t.Errorf("NormalizePair(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeActionDirection(t *testing.T) {
	if NormalizeAction("Sell limit") != models.ActionSell {
		t.Error("expected sell text to map to Sell")
	}
	if NormalizeAction("short") != models.ActionSell {
		t.Error("expected short text to map to Sell")
	}
	if NormalizeAction("buy") != models.ActionBuy {
		t.Error("expected buy text to map to Buy")
	}
	if NormalizeAction("") != models.ActionBuy {
		t.Error("expected empty action to default to Buy")
	}
	if NormalizeDirection("bearish") != models.DirectionBearish {
		t.Error("expected bearish text to map to Bearish")
	}
	if NormalizeDirection("") != models.DirectionBullish {
		t.Error("expected empty direction to default to Bullish")
	}
}

func TestNormalizeDay(t *testing.T) {
	if got := NormalizeDay(TextCell("MONDAY"), "2024-03-01"); got != "Monday" {
		t.Errorf("NormalizeDay = %q, want Monday", got)
	}
	// 2024-03-01 is a Friday.
	if got := NormalizeDay(TextCell(""), "2024-03-01"); got != "Friday" {
		t.Errorf("NormalizeDay derived = %q, want Friday", got)
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"$120.50", 120.5, true},
		{"-$50", -50, true},
		{"$-50", -50, true},
		{"50", 50, true},
		{"0", 0, true},
		{"break even", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseMoney(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseMoney(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeNumeric(t *testing.T) {
	if got := NormalizeNumeric(TextCell("25")); got != "25" {
		t.Errorf("NormalizeNumeric(25) = %q", got)
	}
	if got := NormalizeNumeric(TextCell("2R")); got != "" {
		t.Errorf("NormalizeNumeric(2R) = %q, want empty", got)
	}
	if got := NormalizeNumeric(NumberCell(1.5)); got != "1.5" {
		t.Errorf("NormalizeNumeric(1.5) = %q", got)
	}
}
