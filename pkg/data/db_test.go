package data

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spencer-p/sundial/pkg/civil"
	"github.com/spencer-p/sundial/pkg/sunset"
)

func TestRecordKeepsEvents(t *testing.T) {
	date := civil.New(2021, 2, 1)
	ev, err := sunset.Compute(date, sunset.Penza)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}

	r := NewRecord(date, sunset.Penza, ev)
	if diff := cmp.Diff(ev, r.Events()); diff != "" {
		t.Errorf("events (-want,+got):\n%s", diff)
	}
	if diff := cmp.Diff(sunset.Penza, r.Location()); diff != "" {
		t.Errorf("place (-want,+got):\n%s", diff)
	}
	if diff := cmp.Diff(date, civil.Unpack(r.Date)); diff != "" {
		t.Errorf("date (-want,+got):\n%s", diff)
	}
}

func TestPostgresConfig(t *testing.T) {
	c := PostgresConfig{Port: "5432", User: "postgres", DBName: "sundial"}
	if c.Enabled() {
		t.Errorf("enabled without a host")
	}
	c.Host = "db.local"
	if !c.Enabled() {
		t.Errorf("disabled with a host")
	}
	if dsn := c.DSN(); !strings.Contains(dsn, "host=db.local") || !strings.Contains(dsn, "dbname=sundial") {
		t.Errorf("unexpected dsn %q", dsn)
	}
}
