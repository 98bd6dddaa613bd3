package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"purchase-orders-backend/config"
)

const dateLayout = "2006-01-02"

// Numeric ranges, exclusive upper bounds.
const (
	serialMin       = 1
	serialMax       = 2958466
	unixSecondsMin  = 946684800
	unixSecondsMax  = 4102444800
	unixMillisMin   = 946684800000
	unixMillisMax   = 4102444800000
	explicitYearMin = 1900
	explicitYearMax = 2100
)

var (
	dmyLong  = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)
	dmyShort = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{2})$`)
	ymd      = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)
)

// fallbackLayouts are tried after the explicit day-first and year-first patterns.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Mon Jan 02 2006",
	"Mon Jan 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2006-01",
	"2006",
}

// DateNormalizer turns heterogeneous spreadsheet cells into calendar dates.
type DateNormalizer struct {
	loc *time.Location
	now func() time.Time
}

// NewDateNormalizer builds a normalizer that resolves epoch timestamps and
// "today" in loc. A nil loc means UTC.
func NewDateNormalizer(loc *time.Location) *DateNormalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &DateNormalizer{loc: loc, now: time.Now}
}

// NewDateNormalizerFromEnv uses DB_TIMEZONE, falling back to UTC when it is unset or unknown.
func NewDateNormalizerFromEnv() *DateNormalizer {
	tz := config.GetEnvOrDefault("DB_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		config.Logger.Sugar().Warnf("unknown DB_TIMEZONE %q, using UTC: %v", tz, err)
		loc = time.UTC
	}
	return NewDateNormalizer(loc)
}

// WithClock replaces the clock used for Today.
func (n *DateNormalizer) WithClock(now func() time.Time) *DateNormalizer {
	cp := *n
	cp.now = now
	return &cp
}

func (n *DateNormalizer) Location() *time.Location { return n.loc }

// Today is midnight of the current day in the normalizer's location.
func (n *DateNormalizer) Today() time.Time {
	y, m, d := n.now().In(n.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, n.loc)
}

// Now is the normalizer's clock.
func (n *DateNormalizer) Now() time.Time { return n.now() }

// Parse reads a calendar date from c. It never panics; ok is false when the
// cell is missing or does not hold a recognisable date.
func (n *DateNormalizer) Parse(c Cell) (time.Time, bool) {
	if !c.Truthy() {
		return time.Time{}, false
	}
	switch c.Kind {
	case CellDate:
		return c.Date, true
	case CellNumber:
		return n.parseNumber(c.Number)
	case CellText:
		return n.parseString(c.Text)
	}
	return time.Time{}, false
}

// ParseString is Parse for a plain string.
func (n *DateNormalizer) ParseString(s string) (time.Time, bool) {
	return n.Parse(TextCell(s))
}

func (n *DateNormalizer) parseNumber(v float64) (time.Time, bool) {
	switch {
	case v >= serialMin && v < serialMax:
		epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, n.loc)
		whole := int(v)
		frac := time.Duration((v - float64(whole)) * float64(24*time.Hour))
		return epoch.AddDate(0, 0, whole).Add(frac), true
	case v > unixSecondsMin && v < unixSecondsMax:
		sec := int64(v)
		nsec := int64((v - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).In(n.loc), true
	case v > unixMillisMin && v < unixMillisMax:
		return time.UnixMilli(int64(v)).In(n.loc), true
	}
	return time.Time{}, false
}

func (n *DateNormalizer) parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := dmyLong.FindStringSubmatch(s); m != nil {
		day, month, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if year >= explicitYearMin && year <= explicitYearMax {
			if t, ok := n.calendarDate(year, month, day); ok {
				return t, true
			}
		}
	}

	if m := dmyShort.FindStringSubmatch(s); m != nil {
		day, month, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if year <= 30 {
			year += 2000
		} else {
			year += 1900
		}
		if t, ok := n.calendarDate(year, month, day); ok {
			return t, true
		}
	}

	if m := ymd.FindStringSubmatch(s); m != nil {
		year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if year >= explicitYearMin && year <= explicitYearMax {
			if t, ok := n.calendarDate(year, month, day); ok {
				return t, true
			}
		}
	}

	for _, layout := range fallbackLayouts {
		t, err := time.ParseInLocation(layout, s, n.loc)
		if err != nil {
			continue
		}
		if t.Year() > explicitYearMin && t.Year() < explicitYearMax {
			return t, true
		}
	}
	return time.Time{}, false
}

// calendarDate builds a date and rejects component combinations that the
// calendar normalises away, such as 31 February.
func (n *DateNormalizer) calendarDate(year, month, day int) (time.Time, bool) {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, n.loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// Format renders t as YYYY-MM-DD using t's own wall clock.
func (n *DateNormalizer) Format(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatCell parses and formats c, returning "" when c holds no date.
func (n *DateNormalizer) FormatCell(c Cell) string {
	t, ok := n.Parse(c)
	if !ok {
		return ""
	}
	return n.Format(t)
}

// DateOnly truncates t to midnight of its calendar day, keeping its location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DueDate adds days to the calendar day of start.
func DueDate(start time.Time, days int) time.Time {
	return DateOnly(start).AddDate(0, 0, days)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
