package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseCivilDate(t *testing.T) {
	d, err := ParseCivilDate("2026-06-05")
	if err != nil {
		t.Fatalf("ParseCivilDate returned error: %v", err)
	}
	if d.Year != 2026 || d.Month != time.June || d.Day != 5 {
		t.Errorf("parsed = %+v, want 2026-06-05", d)
	}
	if got := d.String(); got != "2026-06-05" {
		t.Errorf("String() = %q, want 2026-06-05", got)
	}

	for _, bad := range []string{"", "2026-13-01", "2026-06-32", "05/06/2026", "2026-6-5"} {
		if _, err := ParseCivilDate(bad); err == nil {
			t.Errorf("ParseCivilDate(%q) succeeded, want error", bad)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.January, 31},
		{2026, time.April, 30},
		{2026, time.February, 28},
		{2028, time.February, 29},
		{2100, time.February, 28},
		{2000, time.February, 29},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestWithDayClamped(t *testing.T) {
	tests := []struct {
		date CivilDate
		day  int
		want int
	}{
		{CivilDate{2026, time.June, 10}, 31, 30},
		{CivilDate{2026, time.July, 10}, 31, 31},
		{CivilDate{2026, time.February, 10}, 31, 28},
		{CivilDate{2028, time.February, 10}, 30, 29},
		{CivilDate{2026, time.June, 10}, 15, 15},
		{CivilDate{2026, time.June, 10}, 0, 1},
	}
	for _, tt := range tests {
		got := tt.date.WithDayClamped(tt.day)
		if got.Day != tt.want {
			t.Errorf("%s.WithDayClamped(%d).Day = %d, want %d", tt.date, tt.day, got.Day, tt.want)
		}
		if got.Year != tt.date.Year || got.Month != tt.date.Month {
			t.Errorf("%s.WithDayClamped(%d) moved to %s, month must not change", tt.date, tt.day, got)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	d := CivilDate{Year: 2028, Month: time.February, Day: 14}
	if got := d.MonthStart(); got != (CivilDate{2028, time.February, 1}) {
		t.Errorf("MonthStart() = %s, want 2028-02-01", got)
	}
	if got := d.MonthEnd(); got != (CivilDate{2028, time.February, 29}) {
		t.Errorf("MonthEnd() = %s, want 2028-02-29", got)
	}
}

func TestCivilDateOrdering(t *testing.T) {
	earlier := CivilDate{2026, time.May, 31}
	later := CivilDate{2026, time.June, 1}
	if !earlier.Before(later) {
		t.Error("2026-05-31 must be before 2026-06-01")
	}
	if !later.After(earlier) {
		t.Error("2026-06-01 must be after 2026-05-31")
	}
	if earlier.Before(earlier) || earlier.After(earlier) {
		t.Error("a date is neither before nor after itself")
	}
}

func TestCivilDateJSON(t *testing.T) {
	d := CivilDate{2026, time.June, 5}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2026-06-05"` {
		t.Errorf("Marshal = %s, want \"2026-06-05\"", data)
	}

	var decoded CivilDate
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != d {
		t.Errorf("round trip = %+v, want %+v", decoded, d)
	}

	if err := json.Unmarshal([]byte(`null`), &decoded); err != nil {
		t.Fatalf("Unmarshal null: %v", err)
	}
	if !decoded.IsZero() {
		t.Errorf("null decoded to %+v, want zero", decoded)
	}
}

func TestCivilDateScan(t *testing.T) {
	want := CivilDate{2026, time.June, 5}

	var d CivilDate
	if err := d.Scan(time.Date(2026, time.June, 5, 23, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time): %v", err)
	}
	if d != want {
		t.Errorf("Scan(time.Time) = %+v, want %+v", d, want)
	}

	if err := d.Scan([]byte("2026-06-05")); err != nil {
		t.Fatalf("Scan([]byte): %v", err)
	}
	if d != want {
		t.Errorf("Scan([]byte) = %+v, want %+v", d, want)
	}

	if err := d.Scan("2026-06-05"); err != nil {
		t.Fatalf("Scan(string): %v", err)
	}
	if d != want {
		t.Errorf("Scan(string) = %+v, want %+v", d, want)
	}

	if err := d.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if !d.IsZero() {
		t.Errorf("Scan(nil) = %+v, want zero", d)
	}

	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) succeeded, want error")
	}
}
