// Package sunset turns solar hour angles into the concrete start and end of
// day and night for a date and place.
package sunset

import (
	"fmt"
	"sort"

	"github.com/spencer-p/sundial/pkg/civil"
	"github.com/spencer-p/sundial/pkg/solar"
	"github.com/spencer-p/sundial/pkg/timetricks"
)

const secondsPerDay = 24 * 60 * 60

// Compute returns the day and night boundaries for date at place. Only the
// calendar date of date is used.
//
// On days without a sunrise or sunset the boundaries are anchored at
// midnight: a polar day runs from 00:00 to 00:00 the next day and a polar
// night likewise.
func Compute(date civil.DateTime, place Place) (Events, error) {
	doy := solar.DayOfYear(date.Date, date.Month, date.Year)
	if doy <= 0 || doy >= 366 {
		return Events{}, fmt.Errorf("%s is day %d: %w", date.DateString(), doy, ErrInvalidDayOfYear)
	}

	rise := solar.EventHour(solar.Sunrise, doy, place.Lat, place.Long, place.UTCOffset, place.DST)
	set := solar.EventHour(solar.Sunset, doy, place.Lat, place.Long, place.UTCOffset, place.DST)

	var ev Events
	switch {
	case !solar.IsSentinel(rise) && !solar.IsSentinel(set):
		ev.Condition = Normal
		ev.DayStart = atHour(date, rise)
		ev.NightStart = atHour(date, set)

		riseEpoch, setEpoch := ev.DayStart.Epoch(), ev.NightStart.Epoch()
		if setEpoch >= riseEpoch {
			ev.DayLength = int64(setEpoch - riseEpoch)
			ev.NightLength = secondsPerDay - ev.DayLength
		} else {
			// Sunset falls before sunrise on the local clock.
			ev.NightLength = int64(riseEpoch - setEpoch)
			ev.DayLength = secondsPerDay - ev.NightLength
		}

	case rise == solar.NeverRises && set == solar.NeverRises:
		ev.Condition = PolarNight
		ev.DayStart = timetricks.TrimClock(date)
		ev.NightStart = ev.DayStart
		ev.DayLength, ev.NightLength = 0, secondsPerDay

	case rise == solar.NeverSets && set == solar.NeverSets:
		ev.Condition = PolarDay
		ev.DayStart = timetricks.TrimClock(date)
		ev.NightStart = ev.DayStart
		ev.DayLength, ev.NightLength = secondsPerDay, 0

	default:
		return Events{}, fmt.Errorf("%s at %s (rise %v, set %v): %w",
			date.DateString(), place, rise, set, ErrAmbiguousPolar)
	}

	ev.DayEnd = ev.DayStart.Add(ev.DayLength)
	ev.NightEnd = ev.NightStart.Add(ev.NightLength)

	// The night ends with the sunrise of the date it rolled onto, not with a
	// copy of today's sunrise.
	next := solar.DayOfYear(ev.NightEnd.Date, ev.NightEnd.Month, ev.NightEnd.Year)
	if nextRise := solar.EventHour(solar.Sunrise, next, place.Lat, place.Long, place.UTCOffset, place.DST); !solar.IsSentinel(nextRise) {
		ev.NightEnd = atHour(ev.NightEnd, nextRise)
	}

	return ev, nil
}

// atHour places a fractional hour from the solar calculation on the date of
// t. An hour that rounds up to 24:00 lands on midnight of the next date.
func atHour(t civil.DateTime, h float64) civil.DateTime {
	hour, minute := timetricks.SplitHours(h)
	return timetricks.TrimClock(t).Add(int64(hour)*3600 + int64(minute)*60)
}

// Days computes Events for n consecutive days starting on the date of start.
// Days that fail carry their error instead of stopping the table.
func Days(start civil.DateTime, n int, place Place) []Day {
	days := make([]Day, 0, n)
	date := timetricks.TrimClock(start)
	for i := 0; i < n; i++ {
		ev, err := Compute(date, place)
		days = append(days, Day{Date: date, Events: ev, Err: err})
		date = timetricks.Tomorrow(date)
	}
	return days
}

// GetSunEvents returns a list of ordered sun events for n days from the date
// of start in the given place. The first result will always be a sunrise.
// Days without a sunrise or sunset contribute nothing.
func GetSunEvents(start civil.DateTime, n int, place Place) SunEventList {
	var ret SunEventList
	for _, day := range Days(start, n, place) {
		if day.Err != nil || day.Events.Condition != Normal {
			continue
		}
		ret = append(ret,
			SunEvent{day.Events.DayStart, solar.Sunrise},
			SunEvent{day.Events.NightStart, solar.Sunset})
	}

	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Time.Epoch() < ret[j].Time.Epoch()
	})
	for len(ret) > 0 && ret[0].Event != solar.Sunrise {
		ret = ret[1:]
	}
	return ret
}
