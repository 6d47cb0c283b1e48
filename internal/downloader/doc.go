// Package downloader fetches the media files referenced by a manifest.
//
// Assets are visited one at a time, in manifest order and in the fixed kind
// order sound, image, video. For each asset the downloader:
//
//  1. probes the remote size with a HEAD request
//  2. compares it with the stored file, if any
//  3. skips the asset when the sizes match
//  4. otherwise deletes the stored file and streams the remote one in chunks
//
// Files are stored under the cleaned relative path, so "a//s.wav" and
// "a/./s.wav" both land at "a/s.wav". Size equality is the only
// completeness check. Enable Options.Checksum to
// log a SHA-256 of each new file; the hash is informational.
//
// # Usage
//
//	d := downloader.New(client, st, logger, downloader.Options{
//	    BaseURL:      "https://hearmyship.fer.hr/",
//	    Kinds:        []manifest.Kind{manifest.Sound},
//	    MaxDownloads: downloader.Unlimited,
//	})
//	res, err := d.Run(ctx, records)
//
// # Failures
//
// A failing asset is logged with its path and counted in Result.Failed; the
// run continues with the next asset. Run returns an error only when its
// context is cancelled.
package downloader
