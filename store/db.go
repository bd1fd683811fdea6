// Package store persists posture records, sessions and points
package store

import (
	"slices"
	"strings"
	"time"

	"github.com/ayoisaiah/upright/internal/apperr"
	"github.com/ayoisaiah/upright/internal/models"
)

// DB is the database storage interface. Implementations must be safe for
// concurrent use: the capture loop and the reminder loop append
// independently.
type DB interface {
	// Append stores a record and assigns its ID
	Append(rec *models.Record) error
	// Records returns the records matching the filter ordered by timestamp,
	// then ID
	Records(f Filter) ([]models.Record, error)
	// Latest returns up to n of the most recently appended records, newest
	// first
	Latest(n int) ([]models.Record, error)
	// AddPoints adds to the points total and returns the new total
	AddPoints(n int) (int, error)
	// Points returns the points total
	Points() (int, error)
	// SaveSession stores a closed context session
	SaveSession(sess *models.Session) error
	// Sessions returns the sessions that started within the time range
	Sessions(start, end time.Time) ([]models.Session, error)
	// LastSessionID returns the highest stored session ID, or zero
	LastSessionID() (int64, error)
	// Close ends the database connection
	Close() error
}

// Filter constrains the records returned by Records. Zero times leave the
// corresponding bound open and an empty context list matches every context.
type Filter struct {
	Start    time.Time
	End      time.Time
	Contexts []string
}

const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Drivers lists the supported storage drivers.
var Drivers = []string{DriverBolt, DriverSQLite}

var (
	errUnknownDriver = &apperr.Error{
		Message: "unknown storage driver %q (must be one of: %s)",
	}

	errAlreadyRunning = &apperr.Error{
		Message: "is upright already running? Only one instance can use the bolt store at a time",
	}
)

// Open connects to the store at path using the named driver.
func Open(driver, path string) (DB, error) {
	var (
		db  DB
		err error
	)

	switch driver {
	case DriverBolt, "":
		db, err = NewClient(path)
	case DriverSQLite:
		db, err = NewSQLiteClient(path)
	default:
		return nil, errUnknownDriver.Fmt(driver, strings.Join(Drivers, ", "))
	}

	if err != nil {
		return nil, err
	}

	return db, nil
}

// match reports whether a record passes the filter.
func (f *Filter) match(rec *models.Record) bool {
	if !f.Start.IsZero() && rec.Timestamp.Before(f.Start) {
		return false
	}

	if !f.End.IsZero() && rec.Timestamp.After(f.End) {
		return false
	}

	if len(f.Contexts) > 0 && !slices.Contains(f.Contexts, rec.Context) {
		return false
	}

	return true
}

