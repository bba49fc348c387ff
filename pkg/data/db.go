// Package data stores computed sun events in Postgres through gorm. Date-times
// are stored in their packed 32-bit form.
package data

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/spencer-p/sundial/pkg/civil"
	"github.com/spencer-p/sundial/pkg/sunset"
)

// Record is one successful computation.
type Record struct {
	gorm.Model
	Place     string
	Lat, Long float64
	UTCOffset int
	DST       int

	Date       uint32
	DayStart   uint32
	DayEnd     uint32
	NightStart uint32
	NightEnd   uint32

	DayLength   int64
	NightLength int64
	Condition   int
}

// NewRecord captures ev, computed for date at place.
func NewRecord(date civil.DateTime, place sunset.Place, ev sunset.Events) Record {
	return Record{
		Place:       place.Name,
		Lat:         place.Lat,
		Long:        place.Long,
		UTCOffset:   place.UTCOffset,
		DST:         place.DST,
		Date:        date.Pack(),
		DayStart:    ev.DayStart.Pack(),
		DayEnd:      ev.DayEnd.Pack(),
		NightStart:  ev.NightStart.Pack(),
		NightEnd:    ev.NightEnd.Pack(),
		DayLength:   ev.DayLength,
		NightLength: ev.NightLength,
		Condition:   int(ev.Condition),
	}
}

// Events unpacks the stored events.
func (r Record) Events() sunset.Events {
	return sunset.Events{
		DayStart:    civil.Unpack(r.DayStart),
		DayEnd:      civil.Unpack(r.DayEnd),
		NightStart:  civil.Unpack(r.NightStart),
		NightEnd:    civil.Unpack(r.NightEnd),
		DayLength:   r.DayLength,
		NightLength: r.NightLength,
		Condition:   sunset.Condition(r.Condition),
	}
}

// Location returns the place the record was computed for.
func (r Record) Location() sunset.Place {
	return sunset.Place{
		Name:      r.Place,
		Lat:       r.Lat,
		Long:      r.Long,
		UTCOffset: r.UTCOffset,
		DST:       r.DST,
	}
}

// Store saves and lists Records.
type Store struct {
	db *gorm.DB
}

// PostgresConfig locates the database. It is filled from the environment by
// envconfig with the PG prefix.
type PostgresConfig struct {
	Host     string `envconfig:"PGHOST"`
	Port     string `envconfig:"PGPORT" default:"5432"`
	User     string `envconfig:"PGUSER" default:"postgres"`
	Password string `envconfig:"PGPASSWORD"`
	DBName   string `envconfig:"PGDATABASE" default:"sundial"`
}

// Enabled reports whether a database host was configured.
func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

// DSN returns the connection string for the postgres driver.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.Host,
		c.User,
		c.Password,
		c.DBName,
		c.Port)
}

// OpenPostgres connects to the configured database and migrates the schema.
func OpenPostgres(c PostgresConfig) (*Store, error) {
	db, err := gorm.Open(postgres.Open(c.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewStore(db)
}

// NewStore wraps an open gorm connection.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts r.
func (s *Store) Save(ctx context.Context, r *Record) error {
	if tx := s.db.WithContext(ctx).Create(r); tx.Error != nil {
		return fmt.Errorf("failed to save record: %w", tx.Error)
	}
	return nil
}

// Recent returns up to n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	var records []Record
	if tx := s.db.WithContext(ctx).Order("id desc").Limit(n).Find(&records); tx.Error != nil {
		return nil, fmt.Errorf("failed to list records: %w", tx.Error)
	}
	return records, nil
}
