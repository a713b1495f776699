// Package normalize converts one raw row of mixed-type spreadsheet cells into
// a canonical trade record: ISO date, 24-hour time, slash-delimited pair code.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	jerrors "forex-journal/internal/errors"
	"forex-journal/internal/models"
)

// Column positions of the fixed 24-column import contract, 0-indexed.
const (
	colDate = iota
	colDay
	colEntryTime
	colPair
	colAction
	colDirection
	colLots
	colStopPips
	colTargetPips
	colRiskRatio
	colOrderType
	colMarketCondition
	colMovingAverage
	colFibonacci
	colPivot
	colGap
	colBankingLevel
	colConfluences
	colMindset
	colProfitLoss
	colPips
	colReward
	colLink
	colComments
)

const (
	// ColumnCount is the width of the fixed import contract. Columns past it
	// are dropped before mapping so trailing junk never leaks into comments.
	ColumnCount = 24

	// MinColumns is the minimum number of cells for a row to be considered a
	// trade at all.
	MinColumns = 10
)

// excelEpochOffset is the day count between the workbook serial epoch
// (1899-12-30) and the Unix epoch.
const excelEpochOffset = 25569

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
	clockRe     = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})\s*([AaPp][Mm])?$`)
	numberRe    = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// pairShorthand maps the two-letter codes traders habitually type to the
// canonical slash-delimited pair codes. Unrecognized input passes through.
var pairShorthand = map[string]string{
	"EU": "EUR/USD",
	"GU": "GBP/USD",
	"UJ": "USD/JPY",
	"GJ": "GBP/JPY",
	"EJ": "EUR/JPY",
	"AU": "AUD/USD",
	"NU": "NZD/USD",
	"UC": "USD/CAD",
	"UF": "USD/CHF",
	"XU": "XAU/USD",
}

// NormalizeRow maps one raw row onto the 24-column contract and produces a
// canonical trade record. It fails only on a row too short to be a trade or
// an unparseable date; every other field degrades to a documented fallback.
func NormalizeRow(cells []Cell) (models.Trade, error) {
	if len(cells) < MinColumns {
		return models.Trade{}, jerrors.ErrRowTooShort
	}
	if len(cells) > ColumnCount {
		cells = cells[:ColumnCount]
	}
	row := make([]Cell, ColumnCount)
	copy(row, cells)

	date := NormalizeDate(row[colDate])
	if date == "" {
		return models.Trade{}, jerrors.NewParseError("date", row[colDate].String())
	}

	lots, _ := row[colLots].Float()
	stop := cellInt(row[colStopPips])
	target := cellInt(row[colTargetPips])
	risk, ok := row[colRiskRatio].Float()
	if !ok && stop > 0 {
		risk = float64(target) / float64(stop)
	}

	pl, _ := ParseMoney(row[colProfitLoss].String())

	return models.Trade{
		Date:            date,
		Day:             NormalizeDay(row[colDay], date),
		EntryTime:       NormalizeTime(row[colEntryTime]),
		Pair:            NormalizePair(row[colPair].String()),
		Action:          NormalizeAction(row[colAction].String()),
		Direction:       NormalizeDirection(row[colDirection].String()),
		Lots:            lots,
		StopPips:        stop,
		TargetPips:      target,
		RiskRatio:       risk,
		OrderType:       row[colOrderType].String(),
		MarketCondition: row[colMarketCondition].String(),
		Confluences:     joinConfluences(row),
		Mindset:         row[colMindset].String(),
		ProfitLoss:      pl,
		Pips:            NormalizeNumeric(row[colPips]),
		Reward:          NormalizeNumeric(row[colReward]),
		Link:            row[colLink].String(),
		Comments:        row[colComments].String(),
	}, nil
}

// NormalizeDate produces a YYYY-MM-DD date from an ISO string, a DD/MM/YYYY
// string (2-digit years assumed 2000s), or a workbook serial. Returns ""
// when nothing recognizable is found.
func NormalizeDate(c Cell) string {
	if c.IsNum {
		return serialDate(c.Number)
	}

	s := strings.TrimSpace(c.Text)
	if isoDateRe.MatchString(s) {
		return s
	}
	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return ""
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return serialDate(v)
	}
	return ""
}

// serialDate converts a workbook day-count serial to an ISO date. The serial
// is taken as seconds since the Unix epoch and formatted with the local
// calendar components.
func serialDate(v float64) string {
	secs := math.Round((v - excelEpochOffset) * 86400)
	return time.Unix(int64(secs), 0).Format("2006-01-02")
}

// DayOfWeek returns the weekday name a workbook serial date falls on.
func DayOfWeek(serial float64) string {
	secs := math.Round((serial - excelEpochOffset) * 86400)
	return time.Unix(int64(secs), 0).Weekday().String()
}

// NormalizeDay canonicalizes a weekday cell, deriving the weekday from the
// already-normalized date when the cell is blank.
func NormalizeDay(c Cell, isoDate string) string {
	if c.IsNum {
		return DayOfWeek(c.Number)
	}
	if s := strings.TrimSpace(c.Text); s != "" {
		return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	}
	t, err := time.ParseInLocation("2006-01-02", isoDate, time.Local)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

// NormalizeTime produces a 24-hour HH:MM time from a clock string (with
// optional am/pm and either : or . separators) or a workbook fraction-of-day
// serial. Unparseable input yields "", never an error.
func NormalizeTime(c Cell) string {
	if c.IsNum {
		return serialClock(c.Number)
	}

	s := strings.TrimSpace(c.Text)
	if s == "" {
		return ""
	}
	if m := clockRe.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		switch strings.ToLower(m[3]) {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		if hour > 23 || minute > 59 {
			return ""
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return serialClock(v)
	}
	return ""
}

// serialClock converts a fraction-of-day serial to HH:MM. Serials >= 1 carry
// a date part, which is discarded.
func serialClock(v float64) string {
	if v < 0 {
		return ""
	}
	if v >= 1 {
		v -= math.Floor(v)
	}
	total := int(math.Round(v * 1440))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// NormalizePair maps shorthand pair codes onto the canonical slash-delimited
// set; anything unrecognized passes through unchanged.
func NormalizePair(s string) string {
	trimmed := strings.TrimSpace(s)
	if full, ok := pairShorthand[strings.ToUpper(trimmed)]; ok {
		return full
	}
	return trimmed
}

// NormalizeAction maps any text mentioning sell or short to Sell; everything
// else is a Buy.
func NormalizeAction(s string) models.TradeAction {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "sell") || strings.Contains(lower, "short") {
		return models.ActionSell
	}
	return models.ActionBuy
}

// NormalizeDirection maps any text mentioning bear to Bearish; everything
// else is Bullish, mirroring the permissive action rule.
func NormalizeDirection(s string) models.Direction {
	if strings.Contains(strings.ToLower(s), "bear") {
		return models.DirectionBearish
	}
	return models.DirectionBullish
}

// ParseMoney extracts a signed amount from currency-formatted text. The
// magnitude comes from the first digit run; the sign from a minus character
// anywhere in the input, which accepts both -$50 and $-50 forms. The second
// return value is false when no digits are present.
func ParseMoney(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	if strings.Contains(s, "-") {
		v = -v
	}
	return v, true
}

// NormalizeNumeric copies a cell through only when it holds a plain number;
// anything else is stored empty.
func NormalizeNumeric(c Cell) string {
	if c.IsNum {
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	s := strings.TrimSpace(c.Text)
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return ""
	}
	return s
}

func cellInt(c Cell) int {
	f, ok := c.Float()
	if !ok {
		return 0
	}
	return int(math.Round(f))
}

func joinConfluences(row []Cell) string {
	var tags []string
	for _, col := range []int{colMovingAverage, colFibonacci, colPivot, colGap, colBankingLevel, colConfluences} {
		if s := row[col].String(); s != "" {
			tags = append(tags, s)
		}
	}
	return strings.Join(tags, ", ")
}
