// Package index builds the flat CSV index of manifest records.
//
// One row is produced per record, in manifest order, with asset paths
// normalized to forward-slash relative form. The index is rewritten in full
// on every run.
package index

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/ligustah/shipfetch/internal/manifest"
	"github.com/ligustah/shipfetch/internal/store"
)

// ErrNoRecords is returned when there is nothing to index.
var ErrNoRecords = errors.New("index: no records")

// Header is the CSV header row.
var Header = []string{
	"id", "category", "subcategory", "speed", "length", "pressure", "time",
	"wav_path", "image_path", "video_path",
}

// Row is the flattened projection of one manifest record.
type Row struct {
	ID          string
	Category    string
	Subcategory string
	Speed       string
	Length      string
	Pressure    string
	Time        string
	WavPath     string
	ImagePath   string
	VideoPath   string
}

// Fields returns the row values in Header order.
func (r Row) Fields() []string {
	return []string{
		r.ID, r.Category, r.Subcategory, r.Speed, r.Length, r.Pressure, r.Time,
		r.WavPath, r.ImagePath, r.VideoPath,
	}
}

// FromRecord projects a record into a row.
func FromRecord(rec manifest.Record) Row {
	return Row{
		ID:          rec.ID.String(),
		Category:    rec.Category.String(),
		Subcategory: rec.Subcategory.String(),
		Speed:       rec.Speed.String(),
		Length:      rec.Length.String(),
		Pressure:    rec.Pressure.String(),
		Time:        rec.Time.String(),
		WavPath:     manifest.NormalizePath(rec.Path(manifest.Sound)),
		ImagePath:   manifest.NormalizePath(rec.Path(manifest.Image)),
		VideoPath:   manifest.NormalizePath(rec.Path(manifest.Video)),
	}
}

// Build projects every record, preserving order.
func Build(records []manifest.Record) ([]Row, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, FromRecord(rec))
	}
	return rows, nil
}

// Encode writes the header and rows as CSV with "\n" line endings.
func Encode(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write builds the index for records and stores it at key, replacing any
// previous index. It returns the number of rows written.
func Write(ctx context.Context, st *store.Store, key string, records []manifest.Record) (int, error) {
	rows, err := Build(records)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, rows); err != nil {
		return 0, fmt.Errorf("index: encode: %w", err)
	}

	w, err := st.NewWriter(ctx, key, 0)
	if err != nil {
		return 0, fmt.Errorf("index: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		w.Abort()
		return 0, fmt.Errorf("index: write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("index: %w", err)
	}
	return len(rows), nil
}
