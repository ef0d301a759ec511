// Package timex provides calendar-day arithmetic for the streak engine and
// a JSON-friendly duration type for configuration files.
//
// Timestamps throughout the system are UTC unix seconds paired with a
// timezone offset in (possibly fractional) hours. A Day is the calendar day
// a timestamp falls on once that offset is applied.
package timex

import "time"

const dayFormat = "2006-01-02"

// Day is an ISO calendar day ("2006-01-02").
type Day string

// DayFromTimestamp returns the calendar day that the UTC timestamp ts falls
// on in a timezone tzOffsetHours hours ahead of UTC.
func DayFromTimestamp(ts int64, tzOffsetHours float64) Day {
	shift := time.Duration(tzOffsetHours * float64(time.Hour))
	return Day(time.Unix(ts, 0).UTC().Add(shift).Format(dayFormat))
}

// Prev returns the previous calendar day.
func (d Day) Prev() Day { return d.add(-1) }

// Next returns the next calendar day.
func (d Day) Next() Day { return d.add(1) }

func (d Day) add(days int) Day {
	t, err := time.ParseInLocation(dayFormat, string(d), time.UTC)
	if err != nil {
		// Days are only ever produced by DayFromTimestamp, so a parse
		// failure means a programming error.
		panic(err)
	}
	return Day(t.AddDate(0, 0, days).Format(dayFormat))
}
