// Package storage keeps document buffers in a pebble database keyed by
// KSUID. Every stored value carries an xxhash64 checksum of its payload
// that is verified on read.
package storage

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/bdat/pkg/metrics"
)

var (
	// ErrNotFound is returned for ids with no stored blob.
	ErrNotFound = errors.New("bdat: blob not found")
	// ErrCorruption is returned when a stored checksum does not match.
	ErrCorruption = errors.New("bdat: blob checksum mismatch")
)

const checksumSize = 8

var blobPrefix = []byte("blob/")

type options struct {
	fs      vfs.FS
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a BlobStore.
type Option func(*options)

// WithFS opens the database on fs instead of the OS filesystem.
func WithFS(fs vfs.FS) Option {
	return func(o *options) { o.fs = fs }
}

// WithLogger routes store and pebble logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records every operation on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// BlobStore stores raw document buffers.
type BlobStore struct {
	db      *pebble.DB
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Open opens or creates a store at path.
func Open(path string, opts ...Option) (*BlobStore, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	pebbleOpts := &pebble.Options{
		Logger: o.logger.Named("pebble").Sugar(),
	}
	if o.fs != nil {
		pebbleOpts.FS = o.fs
	}

	db, err := pebble.Open(path, pebbleOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open blob store at %s", path)
	}
	o.logger.Debug("blob store opened", zap.String("path", path))
	return &BlobStore{db: db, logger: o.logger, metrics: o.metrics}, nil
}

// ParseID parses the string form of a blob id.
func ParseID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, errors.Wrapf(ErrNotFound, "invalid blob id %q", s)
	}
	return id, nil
}

func key(id ksuid.KSUID) []byte {
	k := make([]byte, 0, len(blobPrefix)+len(id))
	k = append(k, blobPrefix...)
	return append(k, id[:]...)
}

func (s *BlobStore) observe(op string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.RecordStoreOperation(op, err == nil, time.Since(start))
	}
}

// Put stores data under a new id.
func (s *BlobStore) Put(data []byte) (id ksuid.KSUID, err error) {
	defer func(start time.Time) { s.observe("put", start, err) }(time.Now())

	value := make([]byte, checksumSize+len(data))
	binary.BigEndian.PutUint64(value, xxhash.Sum64(data))
	copy(value[checksumSize:], data)

	id = ksuid.New()
	if err = s.db.Set(key(id), value, pebble.Sync); err != nil {
		return ksuid.Nil, errors.Wrap(err, "failed to store blob")
	}
	s.logger.Debug("blob stored", zap.Stringer("id", id), zap.Int("size", len(data)))
	return id, nil
}

// Get returns a copy of the blob stored under id.
func (s *BlobStore) Get(id ksuid.KSUID) (data []byte, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())

	value, closer, err := s.db.Get(key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "blob %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read blob %s", id)
	}
	defer closer.Close()

	if len(value) < checksumSize {
		return nil, errors.Wrapf(ErrCorruption, "blob %s: truncated value", id)
	}
	payload := value[checksumSize:]
	if binary.BigEndian.Uint64(value) != xxhash.Sum64(payload) {
		s.logger.Warn("blob checksum mismatch", zap.Stringer("id", id))
		return nil, errors.Wrapf(ErrCorruption, "blob %s", id)
	}

	data = make([]byte, len(payload))
	copy(data, payload)
	return data, nil
}

// Delete removes the blob stored under id. Deleting a missing id is not an
// error.
func (s *BlobStore) Delete(id ksuid.KSUID) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())

	if err = s.db.Delete(key(id), pebble.Sync); err != nil {
		return errors.Wrapf(err, "failed to delete blob %s", id)
	}
	return nil
}

// List returns every stored id in ascending order, which is also creation
// order at one-second resolution.
func (s *BlobStore) List() (ids []ksuid.KSUID, err error) {
	defer func(start time.Time) { s.observe("list", start, err) }(time.Now())

	upper := make([]byte, len(blobPrefix))
	copy(upper, blobPrefix)
	upper[len(upper)-1]++

	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: blobPrefix, UpperBound: upper})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list blobs")
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(blobPrefix):])
		if err != nil {
			return nil, errors.Wrapf(ErrCorruption, "bad key %x", iter.Key())
		}
		ids = append(ids, id)
	}
	return ids, iter.Error()
}

// Close closes the underlying database.
func (s *BlobStore) Close() error {
	return s.db.Close()
}
