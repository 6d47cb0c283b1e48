package index

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"

	"github.com/ligustah/shipfetch/internal/manifest"
	"github.com/ligustah/shipfetch/internal/store"
)

func decode(t *testing.T, input string) []manifest.Record {
	t.Helper()
	records, err := manifest.Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return records
}

func TestBuild(t *testing.T) {
	records := decode(t, `[{"id":1,"sound":"a/s.wav"},{"id":2,"image":"b\\i.png"},{"id":3,"video":"//c/v.mp4"}]`)

	rows, err := Build(records)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	tests := []struct {
		id, wav, image, video string
	}{
		{"1", "a/s.wav", "", ""},
		{"2", "", "b/i.png", ""},
		{"3", "", "", "c/v.mp4"},
	}
	for i, tt := range tests {
		r := rows[i]
		if r.ID != tt.id || r.WavPath != tt.wav || r.ImagePath != tt.image || r.VideoPath != tt.video {
			t.Errorf("row %d = %+v, want id=%s wav=%q image=%q video=%q", i, r, tt.id, tt.wav, tt.image, tt.video)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	if _, err := Build(nil); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	rows := []Row{
		{ID: "1", Category: "Cargo", Subcategory: "Bulk, dry", Speed: "12.5", WavPath: "a/s.wav"},
		{ID: "2", Category: `say "hi"`, ImagePath: "b/i.png"},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, rows); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := "id,category,subcategory,speed,length,pressure,time,wav_path,image_path,video_path\n" +
		"1,Cargo,\"Bulk, dry\",12.5,,,,a/s.wav,,\n" +
		"2,\"say \"\"hi\"\"\",,,,,,,b/i.png,\n"
	if buf.String() != want {
		t.Errorf("Encode output:\n%s\nwant:\n%s", buf.String(), want)
	}
	if strings.Contains(buf.String(), "\r") {
		t.Error("expected Unix line endings")
	}
}

func TestWrite(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	st := store.New(bucket)
	defer st.Close()

	records := decode(t, `[{"id":1,"sound":"a/s.wav"},{"id":2,"image":"b\\i.png"}]`)

	n, err := Write(ctx, st, "hear_my_ship_index.csv", records)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}

	data, err := st.ReadAll(ctx, "hear_my_ship_index.csv")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines: %q", len(lines), data)
	}
	if lines[1] != "1,,,,,,,a/s.wav,," {
		t.Errorf("unexpected row 1: %q", lines[1])
	}
	if lines[2] != "2,,,,,,,,b/i.png," {
		t.Errorf("unexpected row 2: %q", lines[2])
	}

	// A second run overwrites rather than appends.
	if _, err := Write(ctx, st, "hear_my_ship_index.csv", records[:1]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, _ = st.ReadAll(ctx, "hear_my_ship_index.csv")
	if got := strings.Count(string(data), "\n"); got != 2 {
		t.Errorf("expected 2 lines after rewrite, got %d", got)
	}
}

func TestWriteEmptyLeavesNoFile(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "out")
	st, err := store.Open(ctx, root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, err := Write(ctx, st, "index.csv", nil); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "index.csv")); !os.IsNotExist(err) {
		t.Errorf("expected no index file, got %v", err)
	}
}
