package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/phuslu/log"

	shiphttp "github.com/ligustah/shipfetch/internal/http"
	"github.com/ligustah/shipfetch/internal/manifest"
	"github.com/ligustah/shipfetch/internal/progress"
	"github.com/ligustah/shipfetch/internal/store"
)

// Unlimited disables the download cap.
const Unlimited = -1

// DefaultChunkSize is the streaming buffer size.
const DefaultChunkSize = 1024 * 1024

// ErrEmptyPath is returned by Fetch for a path that normalizes to nothing.
var ErrEmptyPath = errors.New("downloader: empty asset path")

// ErrOutsideRoot is returned by Fetch for a path that climbs above the
// output root.
var ErrOutsideRoot = errors.New("downloader: asset path leaves the output root")

// Fetcher probes and fetches remote files.
type Fetcher interface {
	Head(ctx context.Context, url string) (*shiphttp.FileInfo, error)
	Get(ctx context.Context, url string) (io.ReadCloser, error)
}

// Options configures the downloader.
type Options struct {
	// BaseURL is the server root that asset paths are relative to.
	BaseURL string

	// Kinds restricts which asset kinds are processed.
	// Default: all kinds
	Kinds []manifest.Kind

	// MaxDownloads stops the run after this many new downloads.
	// Use Unlimited for no cap; zero downloads nothing.
	MaxDownloads int

	// Checksum logs the SHA-256 of every newly downloaded file.
	Checksum bool

	// ChunkSize is the size of each streamed chunk.
	// Default: 1MiB
	ChunkSize int

	// ProgressOutput is where the progress bar is drawn.
	// Default: os.Stderr
	ProgressOutput io.Writer
}

// Result summarises a run.
type Result struct {
	Total      int  // assets eligible under the kind filter
	Processed  int  // assets visited
	Downloaded int  // new files stored
	Skipped    int  // already present with the remote size
	Failed     int  // probe, fetch or storage errors
	Stopped    bool // the cap ended the run early
}

// Downloader fetches manifest assets into a store, one at a time.
type Downloader struct {
	client Fetcher
	store  *store.Store
	log    *log.Logger
	opts   Options
	buf    []byte
}

// New creates a downloader. The client is used for every request of the run.
func New(client Fetcher, st *store.Store, logger *log.Logger, opts Options) *Downloader {
	if len(opts.Kinds) == 0 {
		opts.Kinds = manifest.AllKinds
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}

	return &Downloader{
		client: client,
		store:  st,
		log:    logger,
		opts:   opts,
	}
}

// Run visits every eligible asset of records in manifest order. Per-asset
// failures are logged and counted; Run only returns an error when ctx is
// cancelled.
func (d *Downloader) Run(ctx context.Context, records []manifest.Record) (Result, error) {
	assets := manifest.Assets(records, d.opts.Kinds)
	res := Result{Total: len(assets)}

	reporter := progress.NewReporter(progress.Options{
		Total:  res.Total,
		Output: d.opts.ProgressOutput,
	})
	defer func() {
		if res.Processed < res.Total {
			reporter.Stop()
		} else {
			reporter.Finish()
		}
	}()

	for _, a := range assets {
		if d.capReached(res.Downloaded) {
			d.log.Info().Int("max_downloads", d.opts.MaxDownloads).Msg("reached download cap, stopping")
			res.Stopped = true
			return res, nil
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		downloaded, err := d.Fetch(ctx, a.Path)
		res.Processed++
		switch {
		case err != nil && ctx.Err() != nil:
			reporter.Advance()
			return res, ctx.Err()
		case err != nil:
			res.Failed++
			d.log.Error().Str("path", a.Path).Str("kind", string(a.Kind)).Err(err).Msg("asset failed")
		case downloaded:
			res.Downloaded++
			reporter.Downloaded()
		default:
			res.Skipped++
		}
		reporter.Advance()
	}

	return res, nil
}

func (d *Downloader) capReached(downloaded int) bool {
	return d.opts.MaxDownloads >= 0 && downloaded >= d.opts.MaxDownloads
}

// Fetch brings one asset up to date and reports whether it was downloaded.
//
// The remote size is probed first. A stored file of the same size is left
// alone; one of a different size is deleted and fetched again.
func (d *Downloader) Fetch(ctx context.Context, rawPath string) (bool, error) {
	rel := manifest.NormalizePath(rawPath)
	if rel == "" {
		return false, ErrEmptyPath
	}
	key, err := StoreKey(rel)
	if err != nil {
		return false, err
	}
	src := AssetURL(d.opts.BaseURL, rel)

	info, err := d.client.Head(ctx, src)
	if err != nil {
		return false, fmt.Errorf("probe: %w", err)
	}

	size, err := d.store.Size(ctx, key)
	switch {
	case err == nil && size == info.Size:
		d.log.Debug().Str("path", key).Int64("size", size).Msg("already downloaded")
		return false, nil
	case err == nil:
		d.log.Warn().Str("path", key).
			Int64("local_size", size).
			Int64("remote_size", info.Size).
			Msg("size mismatch, re-downloading")
		if err := d.store.Delete(ctx, key); err != nil {
			return false, err
		}
	case !errors.Is(err, store.ErrNotExist):
		return false, err
	}

	n, err := d.fetch(ctx, src, key)
	if err != nil {
		return false, err
	}
	d.log.Debug().Str("path", key).Str("size", progress.FormatBytes(n)).Msg("downloaded")

	if d.opts.Checksum {
		sum, err := d.store.Checksum(ctx, key)
		if err != nil {
			d.log.Warn().Str("path", key).Err(err).Msg("checksum failed")
		} else {
			d.log.Info().Str("path", key).Str("sha256", sum).Msg("checksum")
		}
	}

	return true, nil
}

// fetch streams src into the store at key.
func (d *Downloader) fetch(ctx context.Context, src, key string) (int64, error) {
	body, err := d.client.Get(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	defer body.Close()

	w, err := d.store.NewWriter(ctx, key, d.opts.ChunkSize)
	if err != nil {
		return 0, err
	}

	if d.buf == nil {
		d.buf = make([]byte, d.opts.ChunkSize)
	}
	n, err := copyChunks(w, body, d.buf)
	if err != nil {
		w.Abort()
		return n, err
	}
	if err := w.Close(); err != nil {
		return n, err
	}
	return n, nil
}

// copyChunks copies src to dst one buffer at a time.
func copyChunks(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			nw, err := dst.Write(buf[:n])
			written += int64(nw)
			if err != nil {
				return written, fmt.Errorf("write: %w", err)
			}
			if nw != n {
				return written, fmt.Errorf("write: %w", io.ErrShortWrite)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("read: %w", readErr)
		}
	}
}

// StoreKey maps a normalized relative path to its key under the output
// root. Empty and "." segments collapse, as they would on a filesystem, and
// ".." is resolved; a path that ends up outside the root is rejected.
func StoreKey(rel string) (string, error) {
	key := path.Clean(rel)
	switch {
	case key == "." || key == "":
		return "", ErrEmptyPath
	case key == ".." || strings.HasPrefix(key, "../"):
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return key, nil
}

// AssetURL joins base and a normalized relative path, escaping each path
// segment.
func AssetURL(base, rel string) string {
	segments := strings.Split(rel, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}
