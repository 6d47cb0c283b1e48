// Package http provides the HTTP session used to probe and fetch assets.
//
// This package handles:
//   - Connection reuse across sequential requests
//   - HEAD requests to get the remote size
//   - Streaming GET requests
//   - A fixed User-Agent header
//   - Mapping error statuses to sentinel errors
//
// Requests are attempted once; callers decide what to do with a failure.
//
// # Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	info, err := client.Head(ctx, url)
//	// info.Size is -1 if the server sent no Content-Length
//
//	body, err := client.Get(ctx, url)
//	defer body.Close()
package http
