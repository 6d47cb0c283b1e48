// Package store keeps downloaded assets and the index under one output root.
//
// The root is a gocloud.dev/blob bucket. A plain directory path opens a
// fileblob bucket (no metadata sidecar files), so assets land at
// <dir>/<relative path> like ordinary files. A bucket URL (mem://, file://,
// s3://, gs://) opens the matching driver instead.
//
// # Usage
//
//	st, err := store.Open(ctx, "data/")
//	defer st.Close()
//
//	size, err := st.Size(ctx, "sounds/a.wav")
//	if errors.Is(err, store.ErrNotExist) {
//	    // not downloaded yet
//	}
//
//	w, err := st.NewWriter(ctx, "sounds/a.wav", 1<<20)
//	if _, err := io.Copy(w, body); err != nil {
//	    w.Abort()
//	    return err
//	}
//	return w.Close()
package store
