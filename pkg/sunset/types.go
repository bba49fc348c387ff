package sunset

import (
	"errors"
	"fmt"
	"time"

	"github.com/spencer-p/sundial/pkg/civil"
	"github.com/spencer-p/sundial/pkg/solar"
)

var (
	// ErrInvalidDayOfYear is returned when a date does not map to a day of
	// the year in [1, 365].
	ErrInvalidDayOfYear = errors.New("date outside the computable days of the year")

	// ErrAmbiguousPolar is returned when sunrise and sunset disagree about
	// whether the sun crosses the horizon at all. It is expected close to
	// the poles around the equinoxes.
	ErrAmbiguousPolar = errors.New("sunrise and sunset disagree on polar day or night")

	// ErrNotComputed is returned by Tracker accessors before the first
	// successful computation.
	ErrNotComputed = errors.New("sun events not computed yet")
)

// Place is a lat/long coordinate on the Earth matched with its fixed UTC
// offset and daylight saving shift, both in hours.
type Place struct {
	Name      string  `json:"name,omitempty"`
	Lat       float64 `json:"lat"`
	Long      float64 `json:"long"`
	UTCOffset int     `json:"utc_offset"`
	DST       int     `json:"dst"`
}

var (
	Penza = Place{
		"Penza",
		53.183968, 43.981667,
		3, 0,
	}
	SantaCruz = Place{
		"Santa Cruz",
		36.9741, -122.0308,
		-8, 1,
	}
)

// Zone returns the fixed time zone of the place's local clock.
func (p Place) Zone() *time.Location {
	return time.FixedZone(p.Name, (p.UTCOffset+p.DST)*60*60)
}

func (p Place) String() string {
	name := p.Name
	if name == "" {
		name = "place"
	}
	return fmt.Sprintf("%s (%.4f, %.4f UTC%+d%+d)", name, p.Lat, p.Long, p.UTCOffset, p.DST)
}

// Condition describes whether the sun rises and sets on a day.
type Condition int

const (
	Normal Condition = iota
	PolarDay
	PolarNight
)

func (c Condition) String() string {
	switch c {
	case Normal:
		return "normal"
	case PolarDay:
		return "polar day"
	case PolarNight:
		return "polar night"
	default:
		return "invalid"
	}
}

// Events are the boundaries of one day and the following night. DayStart and
// NightStart are on the requested date unless they round up to midnight;
// DayEnd and NightEnd may roll onto a later date.
type Events struct {
	DayStart   civil.DateTime `json:"day_start"`
	DayEnd     civil.DateTime `json:"day_end"`
	NightStart civil.DateTime `json:"night_start"`
	NightEnd   civil.DateTime `json:"night_end"`

	// Lengths in seconds, always summing to one day.
	DayLength   int64 `json:"day_length"`
	NightLength int64 `json:"night_length"`

	Condition Condition `json:"condition"`
}

// SunEventList is a time series of SunEvent.
type SunEventList []SunEvent

// SunEvent is a sunrise or sunset event.
type SunEvent struct {
	Time  civil.DateTime
	Event solar.Event
}

func (s *SunEvent) String() string {
	return fmt.Sprintf("%s %s", s.Time, s.Event)
}

// Day is one row of a daily table. Err is set when the day could not be
// computed.
type Day struct {
	Date   civil.DateTime
	Events Events
	Err    error
}
