package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// Options configures the progress reporter.
type Options struct {
	// Total is the number of assets that will be visited.
	Total int

	// Output is where to draw the bar.
	// Default: os.Stderr
	Output io.Writer

	// Description prefixes the bar.
	// Default: "Downloading assets"
	Description string

	// Throttle is the minimum time between redraws.
	// Default: 100ms
	Throttle time.Duration
}

// Reporter shows per-asset progress and the running count of new downloads.
//
// It is not safe for concurrent use; the downloader drives it from a single
// goroutine.
type Reporter struct {
	opts       Options
	bar        *progressbar.ProgressBar
	processed  int
	downloaded int
	done       bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Description == "" {
		opts.Description = "Downloading assets"
	}
	if opts.Throttle == 0 {
		opts.Throttle = 100 * time.Millisecond
	}

	out := opts.Output
	bar := progressbar.NewOptions(
		opts.Total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionThrottle(opts.Throttle),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
	)

	return &Reporter{opts: opts, bar: bar}
}

// Advance marks one asset as visited, whatever its outcome.
func (r *Reporter) Advance() {
	r.processed++
	_ = r.bar.Add(1)
}

// Downloaded bumps the count of new downloads shown next to the bar.
func (r *Reporter) Downloaded() {
	r.downloaded++
	r.bar.Describe(fmt.Sprintf("%s (downloaded=%d)", r.opts.Description, r.downloaded))
}

// Finish fills the bar and closes it. Safe to call more than once.
func (r *Reporter) Finish() {
	if r.done || r.bar.IsFinished() {
		return
	}
	r.done = true
	_ = r.bar.Finish()
}

// Stop closes the bar at its current count, for runs that end early.
// Finish has no effect afterwards.
func (r *Reporter) Stop() {
	if r.done {
		return
	}
	r.done = true
	_ = r.bar.Exit()
}

// Total returns the number of assets the bar was sized for.
func (r *Reporter) Total() int {
	return r.opts.Total
}

// Processed returns the number of assets visited so far.
func (r *Reporter) Processed() int {
	return r.processed
}

// DownloadedCount returns the number of new downloads so far.
func (r *Reporter) DownloadedCount() int {
	return r.downloaded
}

// FormatBytes formats bytes as a human-readable IEC string (e.g. "1.0 MiB").
func FormatBytes(b int64) string {
	if b < 0 {
		return "unknown"
	}
	return humanize.IBytes(uint64(b))
}

// ParseBytes parses a human-readable byte string (e.g., "1MiB", "512KB").
// IEC suffixes are powers of 1024, SI suffixes powers of 1000.
func ParseBytes(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}
	return int64(n), nil
}
