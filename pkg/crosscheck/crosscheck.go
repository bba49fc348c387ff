// Package crosscheck compares computed sun events against the independent
// sunrise equation implemented by github.com/keep94/sunrise.
package crosscheck

import (
	"errors"
	"fmt"

	"github.com/keep94/sunrise"

	"github.com/spencer-p/sundial/pkg/civil"
	"github.com/spencer-p/sundial/pkg/sunset"
	"github.com/spencer-p/sundial/pkg/timetricks"
)

// ErrNoReference is returned for days without both a sunrise and a sunset.
var ErrNoReference = errors.New("no sunrise and sunset to compare")

// Drift holds the reference times and the differences, in minutes, between
// the computed and the reference events. Positive means the computed event is
// later.
type Drift struct {
	Date      civil.DateTime `json:"date"`
	Sunrise   civil.DateTime `json:"ref_sunrise"`
	Sunset    civil.DateTime `json:"ref_sunset"`
	RiseDrift float64        `json:"rise_drift_minutes"`
	SetDrift  float64        `json:"set_drift_minutes"`
}

// Reference returns the reference sunrise and sunset on the date of date, in
// the place's local clock.
func Reference(date civil.DateTime, place sunset.Place) (rise, set civil.DateTime) {
	loc := place.Zone()
	noon := timetricks.SetClock(date, 12, 0).Time(loc)

	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, noon)

	// Around picks the nearest events, which may belong to a neighbouring
	// day far from the prime meridian.
	for i := 0; i < 2; i++ {
		got := civil.FromTime(s.Sunrise().In(loc))
		if timetricks.SameDay(got, date) {
			break
		}
		if got.Epoch() < date.Epoch() {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}
	return civil.FromTime(s.Sunrise().In(loc)), civil.FromTime(s.Sunset().In(loc))
}

// Compare computes the events for date at place and measures them against the
// reference.
func Compare(date civil.DateTime, place sunset.Place) (Drift, error) {
	ev, err := sunset.Compute(date, place)
	if err != nil {
		return Drift{}, err
	}
	if ev.Condition != sunset.Normal {
		return Drift{}, fmt.Errorf("%s at %s is a %s: %w", date.DateString(), place, ev.Condition, ErrNoReference)
	}

	rise, set := Reference(date, place)
	return Drift{
		Date:      timetricks.TrimClock(date),
		Sunrise:   rise,
		Sunset:    set,
		RiseDrift: minutes(ev.DayStart, rise),
		SetDrift:  minutes(ev.NightStart, set),
	}, nil
}

func minutes(got, ref civil.DateTime) float64 {
	return float64(got.Sub(ref)) / 60
}
