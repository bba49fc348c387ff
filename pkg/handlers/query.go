package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spencer-p/sundial/pkg/civil"
	"github.com/spencer-p/sundial/pkg/sunset"
)

// badRequestError marks errors caused by the client's parameters.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{fmt.Sprintf(format, args...)}
}

// query holds the parsed parameters shared by the API routes.
type query struct {
	date  civil.DateTime
	place sunset.Place
	days  int
	json  bool
}

// key identifies the rendered response for the query.
func (q query) key() string {
	return fmt.Sprintf("%s %q %.6f %.6f %d %d n=%d json=%t",
		q.date.DateString(),
		q.place.Name,
		q.place.Lat, q.place.Long, q.place.UTCOffset, q.place.DST,
		q.days, q.json)
}

// parseQuery reads date, lat, lon, utc, dst, n and o from the request. The
// place falls back to the session and then to the default place; the date
// falls back to today in the place's zone.
func (s *Server) parseQuery(r *http.Request) (query, error) {
	var err error
	q := query{
		place: s.placeFor(r),
		json:  r.FormValue("o") == "json",
	}

	lat, lon := r.FormValue("lat"), r.FormValue("lon")
	if lat != "" || lon != "" {
		if lat == "" || lon == "" {
			return q, badRequest("lat and lon must be given together")
		}
		q.place = sunset.Place{Name: r.FormValue("name")}
		if q.place.Lat, err = floatParam("lat", lat, 90); err != nil {
			return q, err
		}
		if q.place.Long, err = floatParam("lon", lon, 180); err != nil {
			return q, err
		}
	}
	if q.place.UTCOffset, err = intParam(r, "utc", q.place.UTCOffset); err != nil {
		return q, err
	}
	if q.place.UTCOffset < -12 || q.place.UTCOffset > 14 {
		return q, badRequest("utc offset %d out of range", q.place.UTCOffset)
	}
	if q.place.DST, err = intParam(r, "dst", q.place.DST); err != nil {
		return q, err
	}
	if q.place.DST != 0 && q.place.DST != 1 {
		return q, badRequest("dst must be 0 or 1")
	}

	if date := r.FormValue("date"); date != "" {
		if q.date, err = civil.ParseDate(date); err != nil {
			return q, badRequest("%v", err)
		}
	} else {
		q.date = civil.FromTime(time.Now().In(q.place.Zone()))
		q.date.Hours, q.date.Minutes, q.date.Seconds = 0, 0, 0
	}
	if q.date.FullYear() < civil.BaseYear || q.date.FullYear() > civil.BaseYear+63 {
		return q, badRequest("year %d outside %d-%d", q.date.FullYear(), civil.BaseYear, civil.BaseYear+63)
	}

	if q.days, err = intParam(r, "n", defaultDays); err != nil {
		return q, err
	}
	if q.days < 1 || q.days > maxDays {
		return q, badRequest("n must be between 1 and %d", maxDays)
	}
	return q, nil
}

func floatParam(name, v string, limit float64) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, badRequest("%s %q is not a number", name, v)
	}
	if f < -limit || f > limit {
		return 0, badRequest("%s %v out of range", name, f)
	}
	return f, nil
}
