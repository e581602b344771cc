package store

import (
	"encoding/binary"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/talkincode/bannerstock/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store is an embedded document store backed by a single bbolt file.
// Each collection lives in its own bucket; values are JSON documents
// keyed by big-endian int64 ids so cursor order follows id order.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the store file and ensures every domain
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open store %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range domain.Buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init buckets")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx wraps a bolt transaction so ledger code can compose multiple
// writes into one atomic unit.
type Tx struct {
	btx *bolt.Tx
}

// Put stores v as a JSON document under key.
func (t *Tx) Put(bucket []byte, key int64, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode document")
	}
	return t.btx.Bucket(bucket).Put(itob(key), data)
}

// Get decodes the document under key into v, or returns ErrNotFound.
func (t *Tx) Get(bucket []byte, key int64, v interface{}) error {
	data := t.btx.Bucket(bucket).Get(itob(key))
	if data == nil {
		return domain.ErrNotFound
	}
	return Decode(data, v)
}

// Delete removes the document under key. Missing keys are a no-op.
func (t *Tx) Delete(bucket []byte, key int64) error {
	return t.btx.Bucket(bucket).Delete(itob(key))
}

// ForEach visits every document in the bucket in key order.
func (t *Tx) ForEach(bucket []byte, fn func(data []byte) error) error {
	return t.btx.Bucket(bucket).ForEach(func(_, v []byte) error {
		return fn(v)
	})
}

// Update runs fn in a read-write transaction; all writes commit
// together or not at all.
func (s *Store) Update(fn func(tx *Tx) error) error {
	return s.db.Update(func(btx *bolt.Tx) error {
		return fn(&Tx{btx: btx})
	})
}

// View runs fn in a read-only transaction over a consistent snapshot.
func (s *Store) View(fn func(tx *Tx) error) error {
	return s.db.View(func(btx *bolt.Tx) error {
		return fn(&Tx{btx: btx})
	})
}

// Single-operation conveniences.

func (s *Store) Put(bucket []byte, key int64, v interface{}) error {
	return s.Update(func(tx *Tx) error { return tx.Put(bucket, key, v) })
}

func (s *Store) Get(bucket []byte, key int64, v interface{}) error {
	return s.View(func(tx *Tx) error { return tx.Get(bucket, key, v) })
}

func (s *Store) Delete(bucket []byte, key int64) error {
	return s.Update(func(tx *Tx) error { return tx.Delete(bucket, key) })
}

func (s *Store) ForEach(bucket []byte, fn func(data []byte) error) error {
	return s.View(func(tx *Tx) error { return tx.ForEach(bucket, fn) })
}

// Backup streams a consistent snapshot of the whole database file.
func (s *Store) Backup(w io.Writer) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		n, err = tx.WriteTo(w)
		return err
	})
	return n, err
}

// Reset drops and recreates every domain bucket.
func (s *Store) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range domain.Buckets {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Decode unmarshals a raw document produced by the store codec.
func Decode(data []byte, v interface{}) error {
	return errors.Wrap(json.Unmarshal(data, v), "decode document")
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
