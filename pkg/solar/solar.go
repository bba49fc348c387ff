// Package solar computes the hour of sunrise and sunset for a day of the year
// and a location, using the approximation published in the Almanac for
// Computers (1990) and described at
// https://edwilliams.org/sunrise_sunset_algorithm.htm.
//
// Results are fractional hours relative to UTC plus the caller's offset. When
// the sun stays below or above the horizon all day a sentinel is returned
// instead; see NeverRises and NeverSets.
package solar

import (
	"math"
)

// Event selects the horizon crossing to compute.
type Event bool

const (
	Sunrise Event = true
	Sunset  Event = false
)

func (e Event) String() string {
	if e == Sunrise {
		return "Sunrise"
	}
	return "Sunset"
}

// Zenith is the angle in degrees between the sun and the point directly
// overhead at which the sun is considered to cross the horizon.
type Zenith float64

const (
	// Official accounts for the radius of the solar disc and atmospheric
	// refraction.
	Official     Zenith = 90.833
	Civil        Zenith = 96
	Nautical     Zenith = 102
	Astronomical Zenith = 108
)

const (
	// NeverRises is returned when the sun stays below the horizon all day.
	NeverRises = 100.0
	// NeverSets is returned when the sun stays above the horizon all day.
	NeverSets = -NeverRises

	dayHours = 24.0
	degrees  = 180 / math.Pi
	radians  = math.Pi / 180
)

// IsSentinel reports whether h is NeverRises or NeverSets.
func IsSentinel(h float64) bool {
	return h == NeverRises || h == NeverSets
}

// DayOfYear returns the ordinal day of the given date. The year is the offset
// from 2000, not a four digit year; the leap year term only looks at its
// remainder modulo four.
func DayOfYear(date, month, year int) int {
	n1 := 275 * month / 9
	n2 := (month + 9) / 12
	n3 := 1 + (year-4*(year/4)+2)/3
	return n1 - n2*n3 + date - 30
}

// EventHour returns the hour of sunrise or sunset on the given day of the year
// at lat, lon (degrees, east and north positive), shifted by utcOffset and dst
// hours. The result is not folded back into [0, 24) after the shift.
func EventHour(ev Event, dayOfYear int, lat, lon float64, utcOffset, dst int) float64 {
	return EventHourAt(Official, ev, dayOfYear, lat, lon, utcOffset, dst)
}

// EventHourAt is EventHour with an explicit zenith, for example to compute the
// start of nautical twilight.
func EventHourAt(zenith Zenith, ev Event, dayOfYear int, lat, lon float64, utcOffset, dst int) float64 {
	lngHour := lon / 15

	approx := 18.0
	if ev == Sunrise {
		approx = 6
	}
	t := float64(dayOfYear) + (approx-lngHour)/dayHours

	// Mean anomaly and true longitude of the sun.
	m := 0.9856*t - 3.289
	l := math.Mod(m+1.916*math.Sin(m*radians)+0.020*math.Sin(2*m*radians)+282.634, 360)

	// Right ascension, moved into the same quadrant as l before the
	// conversion to hours.
	ra := math.Mod(degrees*math.Atan(0.91764*math.Tan(l*radians)), 360)
	lQuadrant := math.Floor(l/90) * 90
	raQuadrant := math.Floor(ra/90) * 90
	ra = (ra + lQuadrant - raQuadrant) / 15

	sinDec := 0.39782 * math.Sin(l*radians)
	cosDec := math.Cos(math.Asin(sinDec))

	cosH := (math.Cos(float64(zenith)*radians) - sinDec*math.Sin(lat*radians)) /
		(cosDec * math.Cos(lat*radians))
	if cosH > 1 {
		return NeverRises
	}
	if cosH < -1 {
		return NeverSets
	}

	h := degrees * math.Acos(cosH)
	if ev == Sunrise {
		h = 360 - h
	}
	h /= 15

	local := h + ra - 0.06571*t - 6.622
	return math.Mod(local-lngHour, dayHours) + float64(utcOffset+dst)
}
