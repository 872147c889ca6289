package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// CivilDate is a calendar day without a time zone, exchanged as YYYY-MM-DD.
// Ledger entries are bucketed by CivilDate, never by timestamp, so month
// queries are exact regardless of where the request was made from.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

const civilDateLayout = "2006-01-02"

// ParseCivilDate parses a YYYY-MM-DD string.
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse(civilDateLayout, s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return CivilDateOf(t), nil
}

// CivilDateOf extracts the calendar day from a time.Time in its own location.
func CivilDateOf(t time.Time) CivilDate {
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// Today returns the current calendar day in local time.
func Today() CivilDate {
	return CivilDateOf(time.Now())
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero value.
func (d CivilDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight of the day in the given location.
func (d CivilDate) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d is earlier than other.
func (d CivilDate) Before(other CivilDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is later than other.
func (d CivilDate) After(other CivilDate) bool {
	return other.Before(d)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WithDayClamped returns the date set to the given day of its month, clamped to
// the month's last valid day. A due day of 31 in a 30-day month lands on the 30th.
func (d CivilDate) WithDayClamped(day int) CivilDate {
	if day < 1 {
		day = 1
	}
	if max := DaysInMonth(d.Year, d.Month); day > max {
		day = max
	}
	return CivilDate{Year: d.Year, Month: d.Month, Day: day}
}

// MonthStart returns the first day of d's month.
func (d CivilDate) MonthStart() CivilDate {
	return CivilDate{Year: d.Year, Month: d.Month, Day: 1}
}

// MonthEnd returns the last day of d's month.
func (d CivilDate) MonthEnd() CivilDate {
	return CivilDate{Year: d.Year, Month: d.Month, Day: DaysInMonth(d.Year, d.Month)}
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d CivilDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *CivilDate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = CivilDate{}
		return nil
	}
	parsed, err := ParseCivilDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so the date maps to a SQL DATE column.
func (d CivilDate) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *CivilDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = CivilDate{}
		return nil
	case time.Time:
		*d = CivilDateOf(v)
		return nil
	case []byte:
		parsed, err := ParseCivilDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseCivilDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into CivilDate", src)
	}
}
