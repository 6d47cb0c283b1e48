package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Common errors.
var (
	ErrNotFound     = errors.New("http: resource not found")
	ErrForbidden    = errors.New("http: access forbidden")
	ErrUnauthorized = errors.New("http: unauthorized")
	ErrServerError  = errors.New("http: server error")
)

// DefaultUserAgent identifies the downloader to the dataset server.
const DefaultUserAgent = "dataset-downloader/1.0"

// StatusError reports a non-success status without a dedicated sentinel.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http: unexpected status %s", e.Status)
}

// Options configures the HTTP client.
type Options struct {
	// UserAgent is sent with every request.
	// Default: dataset-downloader/1.0
	UserAgent string

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 4
	MaxIdleConnsPerHost int

	// ResponseHeaderTimeout bounds the wait for response headers.
	// Bodies are streamed without an overall deadline.
	// Default: 60s
	ResponseHeaderTimeout time.Duration
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:             DefaultUserAgent,
		MaxIdleConnsPerHost:   4,
		ResponseHeaderTimeout: 60 * time.Second,
	}
}

// FileInfo contains metadata about a remote file.
type FileInfo struct {
	// Size is the Content-Length, or -1 when the server omits it.
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Client is the process-wide HTTP session used for asset probes and fetches.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = 4
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConnsPerHost:   opts.MaxIdleConnsPerHost,
		MaxIdleConns:          opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
		ForceAttemptHTTP2:     true,
		DisableCompression:    true, // Content-Length must describe the stored bytes
	}

	return &Client{
		client: &http.Client{Transport: transport},
		opts:   opts,
	}
}

// Head performs a HEAD request to get file metadata. Redirects are followed.
func (c *Client) Head(ctx context.Context, url string) (*FileInfo, error) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	info := &FileInfo{
		Size:        resp.ContentLength,
		ETag:        cleanETag(resp.Header.Get("ETag")),
		ContentType: resp.Header.Get("Content-Type"),
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			info.LastModified = t
		}
	}
	return info, nil
}

// Get performs a GET request and returns the response body for streaming.
// The caller must close it.
func (c *Client) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	return resp, nil
}

// checkStatus returns an appropriate error for non-success status codes.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code >= 500:
		return fmt.Errorf("%w: %s", ErrServerError, resp.Status)
	default:
		return &StatusError{Code: code, Status: resp.Status}
	}
}

// cleanETag removes quotes from an ETag value.
func cleanETag(etag string) string {
	etag = strings.TrimPrefix(etag, "W/")
	etag = strings.Trim(etag, `"`)
	return etag
}
