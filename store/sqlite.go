package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ayoisaiah/upright/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	good_posture INTEGER NOT NULL,
	forward_lean_flag INTEGER NOT NULL,
	uneven_shoulders_flag INTEGER NOT NULL,
	back_angle REAL,
	forward_lean REAL,
	shoulder_alignment REAL,
	session_status TEXT NOT NULL,
	context TEXT NOT NULL,
	label TEXT NOT NULL DEFAULT '',
	reminder TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS records_timestamp ON records (timestamp);
CREATE TABLE IF NOT EXISTS sessions (
	id INTEGER NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	context TEXT NOT NULL,
	samples INTEGER NOT NULL,
	strain_forward_lean REAL NOT NULL,
	strain_risk INTEGER NOT NULL,
	strain_samples INTEGER NOT NULL,
	PRIMARY KEY (start_time, id)
);
CREATE TABLE IF NOT EXISTS points (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	total INTEGER NOT NULL
);`

const recordColumns = `id, timestamp, good_posture, forward_lean_flag,
uneven_shoulders_flag, back_angle, forward_lean, shoulder_alignment,
session_status, context, label, reminder`

// SQLiteClient stores data in a SQLite database. Timestamps are stored as
// fixed-width UTC text so that they sort lexically.
type SQLiteClient struct {
	db  *sql.DB
	loc *time.Location
}

// NewSQLiteClient opens or creates the SQLite database at dbPath.
func NewSQLiteClient(dbPath string) (*SQLiteClient, error) {
	dsn := "file:" + dbPath +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// one writer at a time
	db.SetMaxOpenConns(1)

	_, err = db.Exec(sqliteSchema)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteClient{db: db, loc: time.Local}, nil
}

func formatTime(t time.Time) string {
	return string(timeKey(t))
}

func (c *SQLiteClient) parseTime(s string) (time.Time, error) {
	t, err := time.Parse(keyLayout, s)
	if err != nil {
		return time.Time{}, err
	}

	return t.In(c.loc), nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}

	v := n.Float64

	return &v
}

func (c *SQLiteClient) Append(rec *models.Record) error {
	res, err := c.db.Exec(
		`INSERT INTO records (timestamp, good_posture, forward_lean_flag,
		uneven_shoulders_flag, back_angle, forward_lean, shoulder_alignment,
		session_status, context, label, reminder)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formatTime(rec.Timestamp),
		rec.GoodPosture,
		rec.ForwardLeanFlag,
		rec.UnevenShouldersFlag,
		nullFloat(rec.BackAngle),
		nullFloat(rec.ForwardLean),
		nullFloat(rec.ShoulderAlignment),
		string(rec.SessionStatus),
		rec.Context,
		rec.Label,
		string(rec.Reminder),
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	rec.ID = uint64(id)

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (c *SQLiteClient) scanRecord(row rowScanner) (models.Record, error) {
	var (
		rec                    models.Record
		ts, status, reminder   string
		back, lean, shoulders  sql.NullFloat64
		good, leanFlag, uneven bool
		id                     int64
	)

	err := row.Scan(
		&id, &ts, &good, &leanFlag, &uneven,
		&back, &lean, &shoulders,
		&status, &rec.Context, &rec.Label, &reminder,
	)
	if err != nil {
		return rec, err
	}

	rec.Timestamp, err = c.parseTime(ts)
	if err != nil {
		return rec, err
	}

	rec.ID = uint64(id)
	rec.GoodPosture = good
	rec.ForwardLeanFlag = leanFlag
	rec.UnevenShouldersFlag = uneven
	rec.BackAngle = floatPtr(back)
	rec.ForwardLean = floatPtr(lean)
	rec.ShoulderAlignment = floatPtr(shoulders)
	rec.SessionStatus = models.Status(status)
	rec.Reminder = models.ReminderKind(reminder)

	return rec, nil
}

func (c *SQLiteClient) queryRecords(query string, args ...any) ([]models.Record, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var recs []models.Record

	for rows.Next() {
		rec, err := c.scanRecord(rows)
		if err != nil {
			return nil, err
		}

		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

func (c *SQLiteClient) Records(f Filter) ([]models.Record, error) {
	var (
		where []string
		args  []any
	)

	if !f.Start.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, formatTime(f.Start))
	}

	if !f.End.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, formatTime(f.End))
	}

	if len(f.Contexts) > 0 {
		placeholders := strings.TrimSuffix(
			strings.Repeat("?, ", len(f.Contexts)),
			", ",
		)

		where = append(where, "context IN ("+placeholders+")")

		for _, ctx := range f.Contexts {
			args = append(args, ctx)
		}
	}

	query := "SELECT " + recordColumns + " FROM records"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY timestamp, id"

	return c.queryRecords(query, args...)
}

func (c *SQLiteClient) Latest(n int) ([]models.Record, error) {
	if n <= 0 {
		return nil, nil
	}

	return c.queryRecords(
		"SELECT "+recordColumns+" FROM records ORDER BY id DESC LIMIT ?",
		n,
	)
}

func (c *SQLiteClient) AddPoints(n int) (int, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return 0, err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(
		`INSERT INTO points (id, total) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET total = total + excluded.total`,
		n,
	)
	if err != nil {
		return 0, err
	}

	var total int

	err = tx.QueryRow("SELECT total FROM points WHERE id = 1").Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, tx.Commit()
}

func (c *SQLiteClient) Points() (int, error) {
	var total int

	err := c.db.QueryRow("SELECT total FROM points WHERE id = 1").Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}

	return total, err
}

func (c *SQLiteClient) SaveSession(sess *models.Session) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO sessions (id, start_time, end_time, context,
		samples, strain_forward_lean, strain_risk, strain_samples)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		formatTime(sess.StartTime),
		formatTime(sess.EndTime),
		sess.Context,
		sess.Samples,
		sess.Strain.ForwardLean,
		sess.Strain.Risk,
		sess.Strain.Samples,
	)

	return err
}

// Sessions returns sessions that overlap the range.
func (c *SQLiteClient) Sessions(start, end time.Time) ([]models.Session, error) {
	query := `SELECT id, start_time, end_time, context, samples,
	strain_forward_lean, strain_risk, strain_samples
	FROM sessions WHERE end_time > ?`
	args := []any{formatTime(start)}

	if !end.IsZero() {
		query += " AND start_time <= ?"

		args = append(args, formatTime(end))
	}

	query += " ORDER BY start_time, id"

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var s []models.Session

	for rows.Next() {
		var (
			sess               models.Session
			startTime, endTime string
		)

		err = rows.Scan(
			&sess.ID, &startTime, &endTime, &sess.Context, &sess.Samples,
			&sess.Strain.ForwardLean, &sess.Strain.Risk, &sess.Strain.Samples,
		)
		if err != nil {
			return nil, err
		}

		sess.StartTime, err = c.parseTime(startTime)
		if err != nil {
			return nil, err
		}

		sess.EndTime, err = c.parseTime(endTime)
		if err != nil {
			return nil, err
		}

		s = append(s, sess)
	}

	return s, rows.Err()
}

func (c *SQLiteClient) LastSessionID() (int64, error) {
	var last sql.NullInt64

	err := c.db.QueryRow("SELECT MAX(id) FROM sessions").Scan(&last)
	if err != nil {
		return 0, err
	}

	return last.Int64, nil
}

func (c *SQLiteClient) Close() error {
	return c.db.Close()
}
