package services

import (
	"fmt"
	"testing"
	"time"
)

func TestParseSerialDates(t *testing.T) {
	n := testDates()
	cases := map[float64]string{
		1:       "1899-12-31",
		45000:   "2023-03-15",
		45306:   "2024-01-15",
		45306.5: "2024-01-15",
	}
	for serial, want := range cases {
		got, ok := n.Parse(NumberCell(serial))
		if !ok {
			t.Fatalf("serial %v rejected", serial)
		}
		if s := n.Format(got); s != want {
			t.Errorf("serial %v = %s, want %s", serial, s, want)
		}
	}
}

func TestParseEpochs(t *testing.T) {
	n := testDates()
	for _, v := range []float64{1705276800, 1705276800000} {
		got, ok := n.Parse(NumberCell(v))
		if !ok {
			t.Fatalf("%v rejected", v)
		}
		if s := n.Format(got); s != "2024-01-15" {
			t.Errorf("%v = %s, want 2024-01-15", v, s)
		}
	}
}

func TestParseRejectsOutOfRangeNumbers(t *testing.T) {
	n := testDates()
	for _, v := range []float64{0, -3, 2958466, 5000000, 9e15} {
		if got, ok := n.Parse(NumberCell(v)); ok {
			t.Errorf("%v parsed as %v", v, got)
		}
	}
}

func TestParseStrings(t *testing.T) {
	n := testDates()
	cases := map[string]string{
		"15/1/24":              "2024-01-15",
		"15-01-2024":           "2024-01-15",
		" 2024/1/15 ":          "2024-01-15",
		"1-1-31":               "1931-01-01",
		"31-12-30":             "2030-12-31",
		"2024-01-15T10:00:00Z": "2024-01-15",
		"Jan 15, 2024":         "2024-01-15",
	}
	for in, want := range cases {
		got, ok := n.ParseString(in)
		if !ok {
			t.Errorf("%q rejected", in)
			continue
		}
		if s := n.Format(got); s != want {
			t.Errorf("%q = %s, want %s", in, s, want)
		}
	}
}

func TestParseRejectsInvalidStrings(t *testing.T) {
	n := testDates()
	for _, in := range []string{"31-02-2024", "31/04/2024", "0-1-2024", "15-13-2024", "", "   ", "soon", "15-01-1800", "2101-01-01"} {
		if got, ok := n.ParseString(in); ok {
			t.Errorf("%q parsed as %v", in, got)
		}
	}
}

func TestParseRoundTripsAllPatterns(t *testing.T) {
	n := testDates()
	patterns := map[string]func(time.Time) string{
		"D-M-YYYY": func(d time.Time) string { return fmt.Sprintf("%d-%d-%d", d.Day(), d.Month(), d.Year()) },
		"D/M/YYYY": func(d time.Time) string { return fmt.Sprintf("%d/%d/%d", d.Day(), d.Month(), d.Year()) },
		"D-M-YY":   func(d time.Time) string { return fmt.Sprintf("%d-%d-%02d", d.Day(), d.Month(), d.Year()%100) },
		"YYYY-M-D": func(d time.Time) string { return fmt.Sprintf("%d-%d-%d", d.Year(), d.Month(), d.Day()) },
	}

	start := time.Date(1931, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2030, time.December, 31, 0, 0, 0, 0, time.UTC)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 37) {
		want := n.Format(d)
		for name, render := range patterns {
			in := render(d)
			got, ok := n.ParseString(in)
			if !ok {
				t.Fatalf("%s: %q rejected", name, in)
			}
			if s := n.Format(got); s != want {
				t.Fatalf("%s: %q = %s, want %s", name, in, s, want)
			}
		}
	}
}

func TestParseDateCellAndBlank(t *testing.T) {
	n := testDates()
	d := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	if got, ok := n.Parse(DateCell(d)); !ok || !got.Equal(d) {
		t.Errorf("date cell = %v, %v", got, ok)
	}
	if _, ok := n.Parse(EmptyCell()); ok {
		t.Error("empty cell parsed")
	}
	if s := n.FormatCell(TextCell("nope")); s != "" {
		t.Errorf("FormatCell = %q, want empty", s)
	}
}

func TestTodayUsesLocation(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*60*60)
	late := time.Date(2024, time.March, 1, 22, 0, 0, 0, time.UTC)
	n := NewDateNormalizer(riyadh).WithClock(func() time.Time { return late })
	if got := n.Format(n.Today()); got != "2024-03-02" {
		t.Errorf("Today = %s, want 2024-03-02", got)
	}
}

func TestDueDate(t *testing.T) {
	start := time.Date(2024, time.January, 15, 13, 45, 0, 0, time.UTC)
	if got := DueDate(start, 30).Format(dateLayout); got != "2024-02-14" {
		t.Errorf("DueDate = %s, want 2024-02-14", got)
	}
}
