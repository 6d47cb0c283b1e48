//go:build integration

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ligustah/shipfetch/internal/config"
	"github.com/ligustah/shipfetch/internal/store"
	"github.com/ligustah/shipfetch/internal/testutils"
)

func TestCLIIntegrationS3(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	server := testutils.StartAssetServer(t, map[string][]byte{
		"sounds/a.wav": testutils.GenerateTestData(3 * 1024 * 1024),
		"images/a.png": testutils.GenerateTestData(64 * 1024),
	})

	t.Log("Starting Minio container...")
	minio := testutils.StartMinio(t, ctx, "shipfetch-test")
	defer func() {
		if err := minio.Close(ctx); err != nil {
			t.Logf("failed to terminate minio container: %v", err)
		}
	}()

	jsonFile := writeFile(t, t.TempDir(), "vessels.json",
		`[{"id": 7, "category": "Passenger", "sound": "sounds/a.wav", "image": "images/a.png"}]`)

	args := []string{
		"--json-file", jsonFile,
		"--out-dir", minio.BucketURL,
		"--base-url", server.URL,
		"--chunk-size", "512KiB",
		"--checksum",
		"--quiet",
	}

	t.Run("download", func(t *testing.T) {
		var stderr bytes.Buffer
		if code := run(args, &stderr); code != ExitSuccess {
			t.Fatalf("run exited %d: %s", code, stderr.String())
		}
		if !strings.Contains(stderr.String(), "sha256") {
			t.Errorf("expected checksum lines, got:\n%s", stderr.String())
		}
	})

	t.Run("verify", func(t *testing.T) {
		st, err := store.Open(ctx, minio.BucketURL)
		if err != nil {
			t.Fatalf("open bucket: %v", err)
		}
		defer st.Close()

		for _, key := range []string{"sounds/a.wav", "images/a.png"} {
			got, err := st.ReadAll(ctx, key)
			if err != nil {
				t.Fatalf("read %s: %v", key, err)
			}
			if !bytes.Equal(got, server.File(key)) {
				t.Errorf("%s: content mismatch", key)
			}
		}

		index, err := st.ReadAll(ctx, config.DefaultIndexName)
		if err != nil {
			t.Fatalf("read index: %v", err)
		}
		if !strings.Contains(string(index), "7,Passenger,,,,,,sounds/a.wav,images/a.png,") {
			t.Errorf("unexpected index:\n%s", index)
		}
	})

	t.Run("rerun_skips", func(t *testing.T) {
		gets := server.TotalGets()
		if code := run(args, &bytes.Buffer{}); code != ExitSuccess {
			t.Fatalf("rerun exited %d", code)
		}
		if server.TotalGets() != gets {
			t.Errorf("rerun fetched %d files again", server.TotalGets()-gets)
		}
	})
}
