// Package visualize draws sun events as SVG.
package visualize

import (
	"fmt"
	"io"

	"github.com/spencer-p/sundial/pkg/sunset"
)

const (
	width     = 1200
	rowHeight = 20
	labelPad  = 4

	secondsPerDay = 24 * 60 * 60
)

// Daylight is a chart with one row per day, shaded for night and lit
// between sunrise and the end of the day.
type Daylight struct {
	days []sunset.Day
}

func NewDaylight(days []sunset.Day) *Daylight {
	return &Daylight{days: days}
}

// Encode writes the chart as an SVG document.
func (img *Daylight) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil && err == nil {
			err = nexterr
		}
	}

	height := rowHeight * len(img.days)
	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height))

	for i, day := range img.days {
		y := i * rowHeight
		if day.Err != nil {
			io(fmt.Fprintf(w, `<rect class="error" fill="lightgray" x="0" y="%d" width="%d" height="%d"/>`,
				y, width, rowHeight))
			io(fmt.Fprintf(w, `<text class="label" x="%d" y="%d" font-size="12">%s</text>`,
				labelPad, y+rowHeight-labelPad, day.Date.DateString()))
			continue
		}

		io(fmt.Fprintf(w, `<rect class="night" fill="midnightblue" x="0" y="%d" width="%d" height="%d"/>`,
			y, width, rowHeight))

		for _, span := range daySpans(day.Events) {
			io(fmt.Fprintf(w, `<rect class="daytime" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
				span[0], y, span[1]-span[0], rowHeight))
		}

		io(fmt.Fprintf(w, `<text class="label" fill="gray" x="%d" y="%d" font-size="12">%s %s-%s</text>`,
			labelPad, y+rowHeight-labelPad,
			day.Date.DateString(),
			day.Events.DayStart.Clock()[:5],
			day.Events.NightStart.Clock()[:5]))
	}

	io(fmt.Fprintf(w, `</svg>`))
	return n, err
}

// daySpans returns the lit x ranges of a row. A day that runs past midnight
// wraps around to the start of the row.
func daySpans(ev sunset.Events) [][2]int {
	if ev.DayLength <= 0 {
		return nil
	}
	if ev.DayLength >= secondsPerDay {
		return [][2]int{{0, width}}
	}

	start := secondsToX(int64(ev.DayStart.Hours*3600 + ev.DayStart.Minutes*60))
	end := start + secondsToX(ev.DayLength)
	if end <= width {
		return [][2]int{{start, end}}
	}
	return [][2]int{{start, width}, {0, end - width}}
}

func secondsToX(s int64) int {
	return int(s * width / secondsPerDay)
}
