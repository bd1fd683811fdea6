package store

import (
	"encoding/binary"
	"encoding/json"
	"strconv"

	"go.etcd.io/bbolt"

	"github.com/ayoisaiah/upright/internal/models"
)

const schemaVersion = 2

func schemaVersionOf(tx *bbolt.Tx) int {
	v := tx.Bucket([]byte(metaBucket)).Get([]byte(versionKey))
	if len(v) == 0 {
		return 1
	}

	n, err := strconv.Atoi(string(v))
	if err != nil {
		return 1
	}

	return n
}

// migrateLabels fills in the label of posture records written before labels
// were persisted, deriving it from the stored flags.
func migrateLabels(tx *bbolt.Tx) error {
	bucket := tx.Bucket([]byte(recordBucket))

	cur := bucket.Cursor()

	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		var rec models.Record

		err := json.Unmarshal(v, &rec)
		if err != nil {
			return err
		}

		if rec.Label != "" || !rec.IsPosture() {
			continue
		}

		rec.Label = string(rec.PostureLabel())

		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		// overwriting the current key does not invalidate the cursor
		err = bucket.Put(k, b)
		if err != nil {
			return err
		}
	}

	return nil
}

// syncSequence moves the bucket sequence past the last stored key so that
// appended records never overwrite imported ones.
func syncSequence(tx *bbolt.Tx) error {
	bucket := tx.Bucket([]byte(recordBucket))

	k, _ := bucket.Cursor().Last()
	if len(k) != 8 {
		return nil
	}

	last := binary.BigEndian.Uint64(k)
	if bucket.Sequence() >= last {
		return nil
	}

	return bucket.SetSequence(last)
}

func (c *Client) migrate(tx *bbolt.Tx) error {
	if schemaVersionOf(tx) >= schemaVersion {
		return nil
	}

	err := migrateLabels(tx)
	if err != nil {
		return err
	}

	err = syncSequence(tx)
	if err != nil {
		return err
	}

	return tx.Bucket([]byte(metaBucket)).Put(
		[]byte(versionKey),
		[]byte(strconv.Itoa(schemaVersion)),
	)
}
