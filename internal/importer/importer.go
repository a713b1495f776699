// Package importer splits multi-row input, normalizes each row independently,
// and exposes a preview/apply workflow. Applying is a best-effort batch, not
// a transaction: each candidate is persisted and rule-checked on its own, and
// a failing row never halts the rest.
package importer

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	jerrors "forex-journal/internal/errors"
	"forex-journal/internal/models"
	"forex-journal/internal/normalize"
	"forex-journal/internal/rules"
)

// Sheet layout defaults: workbook sheets carry two header rows and one
// leading row-label column before trade data.
const (
	DefaultHeaderRows   = 2
	DefaultLabelColumns = 1
)

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// SkippedRow retains a rejected input row for display.
type SkippedRow struct {
	Line   int
	Raw    string
	Reason string
}

// Preview holds the ordered candidate records parsed from a batch, the rows
// that were skipped, and a selection cursor for inspecting one candidate
// before commit.
type Preview struct {
	Candidates []models.Trade
	Skipped    []SkippedRow
	cursor     int
}

// Len returns the number of candidate records.
func (p *Preview) Len() int { return len(p.Candidates) }

// Single reports whether the preview holds exactly one candidate.
func (p *Preview) Single() bool { return len(p.Candidates) == 1 }

// Select moves the cursor to candidate i.
func (p *Preview) Select(i int) error {
	if i < 0 || i >= len(p.Candidates) {
		return jerrors.NewValidationError("selection", i, "out of range")
	}
	p.cursor = i
	return nil
}

// Selected returns the candidate under the cursor.
func (p *Preview) Selected() (models.Trade, bool) {
	if len(p.Candidates) == 0 {
		return models.Trade{}, false
	}
	return p.Candidates[p.cursor], true
}

// ParseText parses a block of newline-delimited rows. Cells split on tabs,
// falling back to runs of two or more spaces for hand-pasted input. Blank
// lines are ignored; rows that fail normalization are retained as skipped.
// Zero parsed rows is a failure reporting the skipped count.
func ParseText(input string) (*Preview, error) {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	p := &Preview{}

	for i, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		trade, err := normalize.NormalizeRow(splitCells(line))
		if err != nil {
			p.Skipped = append(p.Skipped, SkippedRow{Line: i + 1, Raw: line, Reason: err.Error()})
			continue
		}
		p.Candidates = append(p.Candidates, trade)
	}

	if len(p.Candidates) == 0 {
		return nil, jerrors.Wrapf(jerrors.ErrNoParsableRows, "%d row(s) skipped", len(p.Skipped))
	}
	return p, nil
}

func splitCells(line string) []normalize.Cell {
	var fields []string
	if strings.Contains(line, "\t") {
		fields = strings.Split(line, "\t")
	} else {
		fields = multiSpaceRe.Split(line, -1)
	}
	cells := make([]normalize.Cell, len(fields))
	for i, f := range fields {
		cells[i] = normalize.TextCell(f)
	}
	return cells
}

// ParseSheet parses a workbook sheet with the default header-row and
// label-column offsets.
func ParseSheet(sheet [][]normalize.Cell) (*Preview, error) {
	return ParseSheetAt(sheet, DefaultHeaderRows, DefaultLabelColumns)
}

// ParseSheetAt parses a workbook sheet, skipping headerRows leading rows and
// labelCols leading columns, and truncating each row to the 24-column
// contract.
func ParseSheetAt(sheet [][]normalize.Cell, headerRows, labelCols int) (*Preview, error) {
	p := &Preview{}

	for i, row := range sheet {
		if i < headerRows {
			continue
		}
		if len(row) <= labelCols {
			continue
		}
		data := row[labelCols:]
		if len(data) > normalize.ColumnCount {
			data = data[:normalize.ColumnCount]
		}
		if rowEmpty(data) {
			continue
		}
		trade, err := normalize.NormalizeRow(data)
		if err != nil {
			p.Skipped = append(p.Skipped, SkippedRow{Line: i + 1, Raw: rawRow(data), Reason: err.Error()})
			continue
		}
		p.Candidates = append(p.Candidates, trade)
	}

	if len(p.Candidates) == 0 {
		return nil, jerrors.Wrapf(jerrors.ErrNoParsableRows, "%d row(s) skipped", len(p.Skipped))
	}
	return p, nil
}

func rowEmpty(row []normalize.Cell) bool {
	for _, c := range row {
		if !c.Empty() {
			return false
		}
	}
	return true
}

func rawRow(row []normalize.Cell) string {
	fields := make([]string, len(row))
	for i, c := range row {
		fields[i] = c.String()
	}
	return strings.Join(fields, "\t")
}

// TradeWriter is the persistence collaborator the importer commits through.
type TradeWriter interface {
	SaveTrade(ctx context.Context, trade *models.Trade) error
	SaveViolation(ctx context.Context, v *models.Violation) error
}

// RuleSource supplies the importing user's rule set.
type RuleSource interface {
	GetRules(ctx context.Context) ([]models.TradingRule, error)
}

// Importer commits previewed batches against the persistence collaborators.
type Importer struct {
	store  TradeWriter
	rules  RuleSource
	logger zerolog.Logger
}

// New creates an Importer.
func New(store TradeWriter, ruleSource RuleSource, logger zerolog.Logger) *Importer {
	return &Importer{store: store, rules: ruleSource, logger: logger}
}

// Result reports the outcome of applying a batch.
type Result struct {
	Persisted  int
	Failed     int
	Violations int
}

// Apply commits the previewed candidates in order, one at a time. Each
// candidate is persisted and independently checked against the rule set;
// violations are recorded pre-acknowledged, since bulk import never surfaces
// an interactive warning. Per-row persistence failures are counted, not
// fatal; the batch succeeds if at least one row was persisted. There is no
// rollback of already-persisted rows.
func (imp *Importer) Apply(ctx context.Context, p *Preview) (Result, error) {
	ruleSet, err := imp.rules.GetRules(ctx)
	if err != nil {
		return Result{}, jerrors.Wrap(err, "fetching rule set")
	}

	var res Result
	for i := range p.Candidates {
		t := &p.Candidates[i]
		if t.ID == "" {
			t.ID = uuid.NewString()
		}

		if err := imp.store.SaveTrade(ctx, t); err != nil {
			res.Failed++
			imp.logger.Warn().Err(err).Str("trade_id", t.ID).Str("date", t.Date).
				Msg("Failed to persist imported trade")
			continue
		}
		res.Persisted++

		report := rules.Evaluate(rules.CheckFor(t), ruleSet)
		for _, v := range report.Violations {
			v.ID = uuid.NewString()
			v.TradeID = t.ID
			v.Acknowledged = true // bulk import auto-acknowledges
			if err := imp.store.SaveViolation(ctx, &v); err != nil {
				imp.logger.Warn().Err(err).Str("trade_id", t.ID).
					Str("rule_type", string(v.RuleType)).
					Msg("Failed to persist violation")
				continue
			}
			res.Violations++
		}
	}

	if res.Persisted == 0 {
		return res, jerrors.Wrapf(jerrors.ErrNothingPersisted, "%d row(s) failed", res.Failed)
	}
	return res, nil
}
