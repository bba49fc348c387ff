// Command sunrs prints the day and night boundaries for one date and place.
//
// The date and place come from the environment:
//
//	SUNRS_DATE=2021-02-01 SUNRS_LAT=53.183968 SUNRS_LON=43.981667 SUNRS_UTC=3 SUNRS_DST=0 sunrs
package main

import (
	"log"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/spencer-p/sundial/pkg/civil"
	"github.com/spencer-p/sundial/pkg/sunset"
	"github.com/spencer-p/sundial/pkg/visualize"
)

type Config struct {
	Date string  `default:"2021-02-01"`
	Lat  float64 `default:"53.183968"`
	Lon  float64 `default:"43.981667"`
	UTC  int     `default:"3"`
	DST  int     `default:"0"`
}

func main() {
	var env Config
	if err := envconfig.Process("sunrs", &env); err != nil {
		log.Fatal(err.Error())
	}

	date, err := civil.ParseDate(env.Date)
	if err != nil {
		log.Fatal(err.Error())
	}
	place := sunset.Place{
		Lat:       env.Lat,
		Long:      env.Lon,
		UTCOffset: env.UTC,
		DST:       env.DST,
	}

	ev, err := sunset.Compute(date, place)
	if err != nil {
		log.Fatalf("failed to compute sun events for %s: %v", date.DateString(), err)
	}
	if err := visualize.WriteEvents(os.Stdout, ev); err != nil {
		log.Fatal(err.Error())
	}
}
