package store

import (
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
)

const (
	boltBucketAlarms    = "alarms"    // key: id -> Alarm JSON
	boltBucketOverrides = "overrides" // key: id -> Override JSON
)

// Bolt is a Backend on an embedded bbolt database.
type Bolt struct {
	db *bbolt.DB
}

// NewBolt opens (or creates) the database at path and ensures the record
// buckets exist.
func NewBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(boltBucketAlarms)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(boltBucketOverrides)); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) LoadAlarms() (map[string]*models.Alarm, error) {
	alarms := make(map[string]*models.Alarm)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketAlarms)).ForEach(func(k, v []byte) error {
			var a models.Alarm
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			alarms[string(k)] = &a
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return alarms, nil
}

func (b *Bolt) SaveAlarms(alarms map[string]*models.Alarm) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(boltBucketAlarms)); err != nil {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(boltBucketAlarms))
		if err != nil {
			return err
		}
		for id, a := range alarms {
			data, err := json.Marshal(a)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(id), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Bolt) LoadOverrides() (map[string]*models.Override, error) {
	overrides := make(map[string]*models.Override)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketOverrides)).ForEach(func(k, v []byte) error {
			var o models.Override
			if err := json.Unmarshal(v, &o); err != nil {
				return err
			}
			overrides[string(k)] = &o
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (b *Bolt) SaveOverrides(overrides map[string]*models.Override) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(boltBucketOverrides)); err != nil {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(boltBucketOverrides))
		if err != nil {
			return err
		}
		for id, o := range overrides {
			data, err := json.Marshal(o)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(id), data); err != nil {
				return err
			}
		}
		return nil
	})
}
