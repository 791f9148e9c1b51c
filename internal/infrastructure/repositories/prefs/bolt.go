// Package prefs implements interfaces.MetadataStore: small key/values such as
// the last successful coin list fetch.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

const keyLastListFetch = "last_list_fetch"

var metaBucket = []byte("meta")

// BoltStore persiste metadatos en un archivo bbolt
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create prefs dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open prefs %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init prefs bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// LastListFetch returns the zero time when the list was never fetched
func (s *BoltStore) LastListFetch(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get([]byte(keyLastListFetch))
		if v == nil {
			return nil
		}
		parsed, err := decodeMillis(string(v))
		if err != nil {
			return err
		}
		ts = parsed
		return nil
	})
	return ts, err
}

func (s *BoltStore) SetLastListFetch(ctx context.Context, ts time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put([]byte(keyLastListFetch), []byte(encodeMillis(ts)))
	})
}

func (s *BoltStore) Clear(ctx context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(metaBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func encodeMillis(ts time.Time) string {
	return strconv.FormatInt(ts.UnixMilli(), 10)
}

func decodeMillis(v string) (time.Time, error) {
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode %s: %w", keyLastListFetch, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}
