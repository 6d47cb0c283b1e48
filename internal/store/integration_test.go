//go:build integration

package store_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/ligustah/shipfetch/internal/store"
	"github.com/ligustah/shipfetch/internal/testutils"
)

func TestIntegrationS3Store(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	minio := testutils.StartMinio(t, ctx, "store-test")
	defer minio.Close(ctx)

	st, err := store.Open(ctx, minio.BucketURL)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	data := testutils.GenerateTestData(6 * 1024 * 1024)
	key := "videos/ship.mp4"

	if _, err := st.Size(ctx, key); !errors.Is(err, store.ErrNotExist) {
		t.Fatalf("expected ErrNotExist before write, got %v", err)
	}

	w, err := st.NewWriter(ctx, key, 5*1024*1024)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	size, err := st.Size(ctx, key)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != int64(len(data)) {
		t.Errorf("size = %d, want %d", size, len(data))
	}

	sum, err := st.Checksum(ctx, key)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	want := sha256.Sum256(data)
	if sum != hex.EncodeToString(want[:]) {
		t.Errorf("checksum mismatch")
	}

	// An aborted upload leaves nothing behind.
	aborted, err := st.NewWriter(ctx, "sounds/partial.wav", 0)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	aborted.Write(data[:1024])
	aborted.Abort()
	if _, err := st.Size(ctx, "sounds/partial.wav"); !errors.Is(err, store.ErrNotExist) {
		t.Errorf("expected aborted object to be absent, got %v", err)
	}

	if err := st.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Delete(ctx, key); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}
