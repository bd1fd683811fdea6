package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/upright/internal/models"
)

const (
	recordBucket  = "records"
	sessionBucket = "sessions"
	metaBucket    = "meta"
)

const (
	pointsKey  = "points"
	versionKey = "version"
)

// keyLayout sorts lexically in time order when applied to UTC times.
const keyLayout = "2006-01-02T15:04:05.000000000Z"

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)

	return b
}

func timeKey(t time.Time) []byte {
	return []byte(t.UTC().Format(keyLayout))
}

func sessionKey(sess *models.Session) []byte {
	return fmt.Appendf(timeKey(sess.StartTime), "/%020d", sess.ID)
}

// Append stores the record under the next sequence number of the records
// bucket.
func (c *Client) Append(rec *models.Record) error {
	var id uint64

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(recordBucket))

		var err error

		id, err = b.NextSequence()
		if err != nil {
			return err
		}

		r := *rec
		r.ID = id

		value, err := json.Marshal(r)
		if err != nil {
			return err
		}

		return b.Put(itob(id), value)
	})
	if err != nil {
		return err
	}

	rec.ID = id

	return nil
}

// Records scans the records bucket and returns the matching records in
// timestamp order.
func (c *Client) Records(f Filter) ([]models.Record, error) {
	var recs []models.Record

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(recordBucket)).ForEach(func(_, v []byte) error {
			var rec models.Record

			err := json.Unmarshal(v, &rec)
			if err != nil {
				return err
			}

			if f.match(&rec) {
				recs = append(recs, rec)
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	models.SortRecords(recs)

	return recs, nil
}

// Latest walks the records bucket backwards from the last sequence number.
func (c *Client) Latest(n int) ([]models.Record, error) {
	if n <= 0 {
		return nil, nil
	}

	recs := make([]models.Record, 0, n)

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(recordBucket)).Cursor()

		for k, v := cur.Last(); k != nil && len(recs) < n; k, v = cur.Prev() {
			var rec models.Record

			err := json.Unmarshal(v, &rec)
			if err != nil {
				return err
			}

			recs = append(recs, rec)
		}

		return nil
	})

	return recs, err
}

func getPoints(b *bolt.Bucket) (int, error) {
	v := b.Get([]byte(pointsKey))
	if len(v) == 0 {
		return 0, nil
	}

	return strconv.Atoi(string(v))
}

func (c *Client) AddPoints(n int) (int, error) {
	var total int

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(metaBucket))

		current, err := getPoints(b)
		if err != nil {
			return err
		}

		total = current + n

		return b.Put([]byte(pointsKey), []byte(strconv.Itoa(total)))
	})

	return total, err
}

func (c *Client) Points() (int, error) {
	var total int

	err := c.View(func(tx *bolt.Tx) error {
		var err error

		total, err = getPoints(tx.Bucket([]byte(metaBucket)))

		return err
	})

	return total, err
}

// SaveSession stores the session keyed by its start time. The session is
// overwritten if it exists already.
func (c *Client) SaveSession(sess *models.Session) error {
	value, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put(sessionKey(sess), value)
	})
}

// Sessions returns sessions that started within the range. A session that
// started before the range but ended inside it is included as well.
func (c *Client) Sessions(start, end time.Time) ([]models.Session, error) {
	var s []models.Session

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionBucket)).Cursor()
		minKey := timeKey(start)

		var maxKey []byte
		if !end.IsZero() {
			maxKey = append(timeKey(end), '/', 0xff)
		}

		sk, sv := cur.Seek(minKey)

		// the session before the seek position may overlap the range
		pk, pv := cur.Prev()
		if pk != nil {
			var sess models.Session

			err := json.Unmarshal(pv, &sess)
			if err != nil {
				return err
			}

			if sess.EndTime.After(start) {
				sk, sv = pk, pv
			} else {
				sk, sv = cur.Next()
			}
		} else {
			sk, sv = cur.Seek(minKey)
		}

		for k, v := sk, sv; k != nil && (maxKey == nil || bytes.Compare(k, maxKey) <= 0); k, v = cur.Next() {
			var sess models.Session

			err := json.Unmarshal(v, &sess)
			if err != nil {
				return err
			}

			s = append(s, sess)
		}

		return nil
	})

	return s, err
}

func (c *Client) LastSessionID() (int64, error) {
	var last int64

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).ForEach(func(_, v []byte) error {
			var sess models.Session

			err := json.Unmarshal(v, &sess)
			if err != nil {
				return err
			}

			last = max(last, sess.ID)

			return nil
		})
	})

	return last, err
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	c := &Client{db}

	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{recordBucket, sessionBucket, metaBucket} {
			_, err = tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}

		return c.migrate(tx)
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}
