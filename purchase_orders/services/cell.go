package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CellKind tags the value held by a Cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is one spreadsheet value as produced by the reader.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

func EmptyCell() Cell           { return Cell{Kind: CellEmpty} }
func TextCell(s string) Cell    { return Cell{Kind: CellText, Text: s} }
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Date: t} }
func (c Cell) IsEmpty() bool    { return c.Kind == CellEmpty }
func (c Cell) IsText() bool     { return c.Kind == CellText }
func (c Cell) IsNumber() bool   { return c.Kind == CellNumber }
func (c Cell) IsDate() bool     { return c.Kind == CellDate }
func (c Cell) Trimmed() string  { return strings.TrimSpace(c.String()) }
func (c Cell) IsBlank() bool    { return c.Trimmed() == "" }

// IsMissing reports a falsy cell or one holding only whitespace.
func (c Cell) IsMissing() bool { return !c.Truthy() || c.IsBlank() }

func (c Cell) StringOr(def string) string {
	if !c.Truthy() {
		return def
	}
	return c.String()
}

// Truthy reports whether the cell holds a usable value. Empty cells, empty
// strings, zero and NaN are all treated as absent.
func (c Cell) Truthy() bool {
	switch c.Kind {
	case CellText:
		return c.Text != ""
	case CellNumber:
		return c.Number != 0 && !math.IsNaN(c.Number)
	case CellDate:
		return !c.Date.IsZero()
	default:
		return false
	}
}

// String renders the cell the way a spreadsheet would display it.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format("2006-01-02")
	default:
		return ""
	}
}

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// Float reads the leading decimal number of the cell. Trailing text is ignored,
// so "120.5 SAR" yields 120.5. The second result is false when no number leads.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return 0, false
		}
		return c.Number, true
	case CellText:
		m := floatPrefix.FindString(strings.TrimSpace(c.Text))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FloatOr is Float with a default for unparseable or zero values.
func (c Cell) FloatOr(def float64) float64 {
	f, ok := c.Float()
	if !ok || f == 0 {
		return def
	}
	return f
}

// Int reads the leading integer of the cell, truncating numbers toward zero.
func (c Cell) Int() (int, bool) {
	switch c.Kind {
	case CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) || math.Abs(c.Number) >= 1e15 {
			return 0, false
		}
		return int(c.Number), true
	case CellText:
		m := intPrefix.FindString(strings.TrimSpace(c.Text))
		if m == "" {
			return 0, false
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// IntOr is Int with a default for unparseable or zero values.
func (c Cell) IntOr(def int) int {
	n, ok := c.Int()
	if !ok || n == 0 {
		return def
	}
	return n
}

// InferCell turns a raw CSV field into a typed cell: blank fields are empty and
// fields that are entirely numeric become numbers.
func InferCell(s string) Cell {
	if s == "" {
		return EmptyCell()
	}
	t := strings.TrimSpace(s)
	if t != "" && floatPrefix.FindString(t) == t {
		if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsInf(f, 0) {
			return NumberCell(f)
		}
	}
	return TextCell(s)
}
