package slots

import (
	"fmt"
	"time"
)

const (
	// ApiFormat is how the CoWIN API writes and accepts dates.
	ApiFormat = "02-01-2006"
	// InputFormat is the date form users type into search boxes.
	InputFormat = "2006-01-02"
	// LabelFormat is used for calendar column headers.
	LabelFormat = "Jan 2, 2006"
)

// Date is a calendar day. It carries no time of day and no location, so two
// Dates are equal exactly when year, month and day are.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes overflowing components, e.g. NewDate(2024, 6, 31) is July 1st.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

func parseWith(layout, value string) (Date, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected %s", value, layout)
	}
	return DateOf(t), nil
}

// ParseApiDate parses DD-MM-YYYY.
func ParseApiDate(value string) (Date, error) {
	return parseWith(ApiFormat, value)
}

// ParseInputDate parses YYYY-MM-DD.
func ParseInputDate(value string) (Date, error) {
	return parseWith(InputFormat, value)
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns the date n days after d (before, for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	return d.time().Before(other.time())
}

// ApiString formats d for the API's date query parameter.
func (d Date) ApiString() string {
	return d.time().Format(ApiFormat)
}

// Label formats d as a column header, e.g. "Jun 10, 2024".
func (d Date) Label() string {
	return d.time().Format(LabelFormat)
}

func (d Date) String() string {
	return d.time().Format(InputFormat)
}
