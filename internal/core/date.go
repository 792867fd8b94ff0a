package core

import (
	"fmt"
	"time"
)

// DisplayDateLayout is the canonical date format exchanged with clients and
// kept in storage (dd/MM/yyyy).
const DisplayDateLayout = "02/01/2006"

// Date is a calendar day without a time-of-day component.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDisplayDate interprets a dd/MM/yyyy string. The zero Date is returned
// with ok=false when the string does not parse; callers decide whether that is
// recoverable (the aggregation engine always recovers).
func ParseDisplayDate(s string) (Date, bool) {
	t, err := time.Parse(DisplayDateLayout, s)
	if err != nil {
		return Date{}, false
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}, true
}

// NewDate builds a Date from calendar components, normalizing out-of-range
// values the way time.Date does.
func NewDate(year, month, day int) Date {
	y, m, d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// IsZero reports whether d is the zero date, the sort key given to
// unparseable date strings.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns the midnight UTC instant of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Display formats the date in the canonical dd/MM/yyyy form.
func (d Date) Display() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// ISO formats the date as yyyy-MM-dd, the bucketing-internal key whose
// lexicographic order matches chronological order.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ISOWeek returns the ISO-8601 week-based year and week number.
func (d Date) ISOWeek() (year, week int) {
	return d.Time().ISOWeek()
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// WeekdayNamer renders a weekday for date headers. It is the single
// locale-dependent formatting boundary; the aggregation engine itself only
// works on parsed calendar components.
type WeekdayNamer func(time.Weekday) string

// EnglishWeekday is the default WeekdayNamer. time.Weekday's String form is
// already capitalized, matching the header convention.
func EnglishWeekday(d time.Weekday) string {
	return d.String()
}
