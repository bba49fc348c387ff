package handlers

import (
	"github.com/spencer-p/sundial/pkg/civil"
	"github.com/spencer-p/sundial/pkg/crosscheck"
	"github.com/spencer-p/sundial/pkg/sunset"
	"github.com/spencer-p/sundial/pkg/timetricks"
)

// eventsView is the JSON form of sunset.Events with readable times.
type eventsView struct {
	Date        string       `json:"date"`
	Place       sunset.Place `json:"place"`
	Condition   string       `json:"condition"`
	DayStart    string       `json:"day_start"`
	DayEnd      string       `json:"day_end"`
	NightStart  string       `json:"night_start"`
	NightEnd    string       `json:"night_end"`
	DayLength   string       `json:"day_length"`
	NightLength string       `json:"night_length"`
}

func newEventsView(date civil.DateTime, place sunset.Place, ev sunset.Events) eventsView {
	return eventsView{
		Date:        date.DateString(),
		Place:       place,
		Condition:   ev.Condition.String(),
		DayStart:    ev.DayStart.ISO(),
		DayEnd:      ev.DayEnd.ISO(),
		NightStart:  ev.NightStart.ISO(),
		NightEnd:    ev.NightEnd.ISO(),
		DayLength:   timetricks.HMS(ev.DayLength),
		NightLength: timetricks.HMS(ev.NightLength),
	}
}

// dayView is one row of the days table. Error replaces the events on days
// that could not be computed.
type dayView struct {
	eventsView
	Error string `json:"error,omitempty"`
}

func newDayView(day sunset.Day, place sunset.Place) dayView {
	if day.Err != nil {
		return dayView{
			eventsView: eventsView{Date: day.Date.DateString(), Place: place},
			Error:      day.Err.Error(),
		}
	}
	return dayView{eventsView: newEventsView(day.Date, place, day.Events)}
}

type driftView struct {
	Date           string       `json:"date"`
	Place          sunset.Place `json:"place"`
	RefSunrise     string       `json:"ref_sunrise"`
	RefSunset      string       `json:"ref_sunset"`
	SunriseMinutes float64      `json:"sunrise_drift_minutes"`
	SunsetMinutes  float64      `json:"sunset_drift_minutes"`
}

func newDriftView(d crosscheck.Drift, place sunset.Place) driftView {
	return driftView{
		Date:           d.Date.DateString(),
		Place:          place,
		RefSunrise:     d.Sunrise.ISO(),
		RefSunset:      d.Sunset.ISO(),
		SunriseMinutes: d.RiseDrift,
		SunsetMinutes:  d.SetDrift,
	}
}
