package normalize

import (
	"strconv"
	"strings"
)

// Cell is one raw spreadsheet cell: either text or a numeric origin-encoded
// value (a workbook serial for dates and times).
type Cell struct {
	Text   string
	Number float64
	IsNum  bool
}

// TextCell builds a text cell.
func TextCell(s string) Cell { return Cell{Text: s} }

// NumberCell builds a numeric cell.
func NumberCell(f float64) Cell { return Cell{Number: f, IsNum: true} }

// String returns the cell's textual content, trimmed. Numeric cells render
// with the shortest representation that round-trips.
func (c Cell) String() string {
	if c.IsNum {
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return strings.TrimSpace(c.Text)
}

// Float returns the cell's numeric value when it has one, either natively or
// because the text parses as a plain number.
func (c Cell) Float() (float64, bool) {
	if c.IsNum {
		return c.Number, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Empty reports whether the cell holds no content.
func (c Cell) Empty() bool {
	return !c.IsNum && strings.TrimSpace(c.Text) == ""
}
