// Package civil implements the compact calendar date and time used by the sun
// event calculations, and its conversion to and from Unix epoch seconds.
//
// A DateTime carries its year as an offset from 2000, matching the packed
// 32-bit encoding of real time clocks (see Pack). No calendar validation is
// performed anywhere: an out of range field such as April 31 is carried
// through the Julian Day Number arithmetic and comes out as the equivalent
// Gregorian date.
package civil

import (
	"fmt"
	"time"
)

const (
	// BaseYear is the year a DateTime's Year field is relative to.
	BaseYear = 2000

	// unixJDN is the Julian Day Number of 1970-01-01.
	unixJDN = 2440588

	secondsPerDay = 86400

	dateFormat = "2006-01-02"
)

// Epoch is a count of seconds since 1970-01-01T00:00:00.
type Epoch int64

// DateTime is a calendar date and a wall clock time of day.
type DateTime struct {
	Year    int `json:"year"` // offset from BaseYear
	Month   int `json:"month"`
	Date    int `json:"date"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// New returns the DateTime for midnight on the given four digit year, month
// and day.
func New(year, month, day int) DateTime {
	return DateTime{Year: year - BaseYear, Month: month, Date: day}
}

// Epoch converts dt to seconds since the Unix epoch using the Gregorian Julian
// Day Number.
func (dt DateTime) Epoch() Epoch {
	a := (14 - dt.Month) / 12
	y := int64(dt.Year+BaseYear) + 4800 - int64(a) // years since 1 March 4801 BC
	m := int64(dt.Month + 12*a - 3)                // months since March

	jdn := int64(dt.Date)
	jdn += (153*m + 2) / 5
	jdn += 365 * y
	jdn += floorDiv(y, 4)
	jdn -= floorDiv(y, 100)
	jdn += floorDiv(y, 400)
	jdn -= 32045

	secs := (jdn - unixJDN) * secondsPerDay
	secs += int64(dt.Hours)*3600 + int64(dt.Minutes)*60 + int64(dt.Seconds)
	return Epoch(secs)
}

// FromEpoch converts seconds since the Unix epoch back into a DateTime.
func FromEpoch(e Epoch) DateTime {
	days := floorDiv(int64(e), secondsPerDay)
	tod := int64(e) - days*secondsPerDay

	var dt DateTime
	dt.Seconds = int(tod % 60)
	tod /= 60
	dt.Minutes = int(tod % 60)
	dt.Hours = int(tod / 60)

	jdn := days + unixJDN
	a := jdn + 32044
	b := floorDiv(4*a+3, 146097)
	c := a - floorDiv(146097*b, 4)
	d := floorDiv(4*c+3, 1461)
	e2 := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e2+2, 153)

	dt.Date = int(e2 - floorDiv(153*m+2, 5) + 1)
	dt.Month = int(m + 3 - 12*(m/10))
	dt.Year = int(100*b+d-4800+m/10) - BaseYear
	return dt
}

// Add returns dt moved by the given signed number of seconds. Month and year
// boundaries are handled by the epoch round trip.
func (dt DateTime) Add(seconds int64) DateTime {
	return FromEpoch(dt.Epoch() + Epoch(seconds))
}

// Sub returns the number of seconds between dt and u.
func (dt DateTime) Sub(u DateTime) int64 {
	return int64(dt.Epoch() - u.Epoch())
}

// FullYear returns the four digit year.
func (dt DateTime) FullYear() int {
	return dt.Year + BaseYear
}

// String formats dt as D.M.Y HH:MM with a two digit year, for example
// "1.2.21 07:49".
func (dt DateTime) String() string {
	return fmt.Sprintf("%d.%d.%d %02d:%02d", dt.Date, dt.Month, dt.Year, dt.Hours, dt.Minutes)
}

// Clock formats the time of day as HH:MM:SS.
func (dt DateTime) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", dt.Hours, dt.Minutes, dt.Seconds)
}

// Time returns dt as a time.Time in loc. Out of range fields are normalized
// by time.Date.
func (dt DateTime) Time(loc *time.Location) time.Time {
	return time.Date(dt.FullYear(), time.Month(dt.Month), dt.Date,
		dt.Hours, dt.Minutes, dt.Seconds, 0, loc)
}

// FromTime returns the wall clock fields of t, in t's own location.
func FromTime(t time.Time) DateTime {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	return DateTime{
		Year:    y - BaseYear,
		Month:   int(m),
		Date:    d,
		Hours:   h,
		Minutes: mi,
		Seconds: s,
	}
}

// ParseDate parses a date in the form 2006-01-02. The time of day is
// midnight.
func ParseDate(s string) (DateTime, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("date %q not in fmt %q: %w", s, dateFormat, err)
	}
	return FromTime(t), nil
}

// DateString formats the calendar date of dt as 2006-01-02.
func (dt DateTime) DateString() string {
	return fmt.Sprintf("%04d-%02d-%02d", dt.FullYear(), dt.Month, dt.Date)
}

// ISO formats dt as 2006-01-02T15:04:05 without a zone.
func (dt DateTime) ISO() string {
	return dt.DateString() + "T" + dt.Clock()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
