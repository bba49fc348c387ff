package visualize

import (
	"fmt"
	"io"

	"github.com/spencer-p/sundial/pkg/sunset"
	"github.com/spencer-p/sundial/pkg/timetricks"
)

// WriteEvents prints the four boundaries in D.M.Y HH:MM form followed by the
// day and night lengths.
func WriteEvents(w io.Writer, ev sunset.Events) error {
	_, err := fmt.Fprintf(w,
		"Day start\t %s\nDay end  \t %s\nNight start\t %s\nNight end\t %s\nDay length\t %s\nNight length\t %s\n",
		ev.DayStart,
		ev.DayEnd,
		ev.NightStart,
		ev.NightEnd,
		timetricks.HMS(ev.DayLength),
		timetricks.HMS(ev.NightLength))
	return err
}

// WriteDay prints one row of a daily table.
func WriteDay(w io.Writer, day sunset.Day) error {
	if day.Err != nil {
		_, err := fmt.Fprintf(w, "%s\t%v\n", day.Date.DateString(), day.Err)
		return err
	}
	ev := day.Events
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		day.Date.DateString(),
		ev.DayStart.Clock()[:5],
		ev.NightStart.Clock()[:5],
		timetricks.HMS(ev.DayLength),
		ev.Condition)
	return err
}
