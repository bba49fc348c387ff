// Package timetricks holds small clock manipulations shared by the sun event
// calculations and the HTTP handlers.
package timetricks

import (
	"fmt"
	"math"

	"github.com/spencer-p/sundial/pkg/civil"
)

const dayHours = 24.0

// Fold brings an hour of day produced by the solar calculation, which may be
// negative or past midnight once an offset is applied, into [0, 24).
func Fold(h float64) float64 {
	return math.Mod(math.Mod(h, dayHours)+dayHours, dayHours)
}

// SplitHours converts a fractional hour into whole hours and minutes. The
// minute is rounded to the nearest integer and a minute that rounds up to 60
// carries into the hour. An hour just short of midnight comes out as 24:00,
// which belongs to the following day.
func SplitHours(h float64) (hour, minute int) {
	whole, frac := math.Modf(Fold(h))
	total := int(whole)*60 + int(math.Round(frac*60))
	return total / 60, total % 60
}

// SetClock returns t on the same calendar date with the given hour and
// minute and the seconds cleared.
func SetClock(t civil.DateTime, hour, minute int) civil.DateTime {
	t.Hours = hour
	t.Minutes = minute
	t.Seconds = 0
	return t
}

// TrimClock returns midnight on the date of t.
func TrimClock(t civil.DateTime) civil.DateTime {
	return SetClock(t, 0, 0)
}

// SameDay reports whether t and t2 fall on the same calendar date.
func SameDay(t, t2 civil.DateTime) bool {
	return UniqueDay(t) == UniqueDay(t2)
}

// UniqueDay returns a string representation of t that is unique by the day.
// For instance, two seperate times on the same calendar day return identical
// strings.
func UniqueDay(t civil.DateTime) string {
	return t.DateString()
}

// Tomorrow returns midnight of the day after t.
func Tomorrow(t civil.DateTime) civil.DateTime {
	return TrimClock(t).Add(24 * 60 * 60)
}

// HMS formats a duration in seconds as HH:MM:SS. A full day is 24:00:00.
func HMS(seconds int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
