package sunset

import (
	"sync"

	"github.com/spencer-p/sundial/pkg/civil"
)

// Tracker remembers the last successful computation for callers that read the
// four boundaries one at a time. Concurrent Compute calls are serialized and
// the last writer wins; a failed computation leaves the previous result in
// place.
type Tracker struct {
	mu   sync.RWMutex
	last *Events
}

// Compute runs Compute and stores the result.
func (t *Tracker) Compute(date civil.DateTime, place Place) error {
	ev, err := Compute(date, place)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = &ev
	return nil
}

// Last returns the last successfully computed Events.
func (t *Tracker) Last() (Events, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.last == nil {
		return Events{}, ErrNotComputed
	}
	return *t.last, nil
}

func (t *Tracker) field(f func(Events) civil.DateTime) (civil.DateTime, error) {
	ev, err := t.Last()
	if err != nil {
		return civil.DateTime{}, err
	}
	return f(ev), nil
}

// DayStart returns the last computed sunrise.
func (t *Tracker) DayStart() (civil.DateTime, error) {
	return t.field(func(ev Events) civil.DateTime { return ev.DayStart })
}

// DayEnd returns the end of the last computed day.
func (t *Tracker) DayEnd() (civil.DateTime, error) {
	return t.field(func(ev Events) civil.DateTime { return ev.DayEnd })
}

// NightStart returns the last computed sunset.
func (t *Tracker) NightStart() (civil.DateTime, error) {
	return t.field(func(ev Events) civil.DateTime { return ev.NightStart })
}

// NightEnd returns the end of the last computed night.
func (t *Tracker) NightEnd() (civil.DateTime, error) {
	return t.field(func(ev Events) civil.DateTime { return ev.NightEnd })
}
