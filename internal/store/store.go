package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	// Drivers for bucket URLs passed as the output location.
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// ErrNotExist is returned when a key has no stored object.
var ErrNotExist = errors.New("store: object does not exist")

// Store holds the dataset output root.
type Store struct {
	bucket   *blob.Bucket
	location string
}

// Open opens the output root at location.
//
// A location with a URL scheme is opened with blob.OpenBucket; anything else
// is treated as a local directory, created if missing.
func Open(ctx context.Context, location string) (*Store, error) {
	if strings.Contains(location, "://") {
		b, err := blob.OpenBucket(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("store: open bucket %s: %w", location, err)
		}
		return &Store{bucket: b, location: location}, nil
	}

	dir, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("store: resolve %s: %w", location, err)
	}
	b, err := fileblob.OpenBucket(dir, &fileblob.Options{
		CreateDir: true,
		NoTempDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open directory %s: %w", dir, err)
	}
	return &Store{bucket: b, location: dir}, nil
}

// New wraps an already open bucket. Close closes the bucket.
func New(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket, location: "bucket"}
}

// Location returns where the store lives, for display.
func (s *Store) Location() string {
	return s.location
}

// Close closes the underlying bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// Size returns the stored size of key, or ErrNotExist.
func (s *Store) Size(ctx context.Context, key string) (int64, error) {
	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		if isNotExist(err) {
			return 0, ErrNotExist
		}
		return 0, fmt.Errorf("store: stat %s: %w", key, err)
	}
	return attrs.Size, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil && !isNotExist(err) {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

// ReadAll returns the content of key.
func (s *Store) ReadAll(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if isNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return data, nil
}

// Checksum returns the hex SHA-256 of the object at key.
func (s *Store) Checksum(ctx context.Context, key string) (string, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if isNotExist(err) {
			return "", ErrNotExist
		}
		return "", fmt.Errorf("store: open %s: %w", key, err)
	}
	defer r.Close()

	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("store: hash %s: %w", key, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NewWriter opens key for writing, replacing any existing object once the
// writer is closed. bufSize sets the upload buffer size for drivers that
// use one; zero keeps the driver default.
//
// The writer must be finished with exactly one of Close or Abort.
func (s *Store) NewWriter(ctx context.Context, key string, bufSize int) (*Writer, error) {
	wctx, cancel := context.WithCancel(ctx)

	var opts *blob.WriterOptions
	if bufSize > 0 {
		opts = &blob.WriterOptions{BufferSize: bufSize}
	}

	w, err := s.bucket.NewWriter(wctx, key, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("store: create writer %s: %w", key, err)
	}
	return &Writer{key: key, w: w, cancel: cancel}, nil
}

// Writer streams one object into the store. It is not safe for concurrent
// use.
type Writer struct {
	key     string
	w       *blob.Writer
	cancel  context.CancelFunc
	written int64
	closed  bool
}

// Write writes p to the object.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errors.New("store: writer is closed")
	}
	n, err := w.w.Write(p)
	w.written += int64(n)
	return n, err
}

// Written returns the number of bytes written so far.
func (w *Writer) Written() int64 {
	return w.written
}

// Close commits the object.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer w.cancel()

	if err := w.w.Close(); err != nil {
		return fmt.Errorf("store: commit %s: %w", w.key, err)
	}
	return nil
}

// Abort discards the write. Nothing is committed. Safe to call after Close.
func (w *Writer) Abort() {
	if w.closed {
		return
	}
	w.closed = true

	// Cancelling before Close makes the driver drop the upload.
	w.cancel()
	w.w.Close()
}

func isNotExist(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}
