package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ligustah/shipfetch/internal/config"
	"github.com/ligustah/shipfetch/internal/downloader"
	shiphttp "github.com/ligustah/shipfetch/internal/http"
	"github.com/ligustah/shipfetch/internal/index"
	"github.com/ligustah/shipfetch/internal/logging"
	"github.com/ligustah/shipfetch/internal/manifest"
	"github.com/ligustah/shipfetch/internal/progress"
	"github.com/ligustah/shipfetch/internal/store"
)

// fetch runs the index and download phases and returns the exit code.
func fetch(ctx context.Context, cfg config.Config, stderr io.Writer) int {
	logger := logging.New(cfg.LogLevel, stderr)

	records, err := manifest.Load(cfg.JSONFile)
	if err != nil {
		logger.Error().Str("file", cfg.JSONFile).Err(err).Msg("cannot read manifest")
		return ExitManifestError
	}
	logger.Debug().Str("file", cfg.JSONFile).Int("records", len(records)).Msg("manifest loaded")

	st, err := store.Open(ctx, cfg.OutDir)
	if err != nil {
		logger.Error().Err(err).Msg("cannot open output")
		return ExitStorageError
	}
	defer st.Close()

	rows, err := index.Write(ctx, st, cfg.IndexName, records)
	switch {
	case errors.Is(err, index.ErrNoRecords):
		logger.Error().Str("file", cfg.JSONFile).Msg("manifest has no records")
		return ExitEmptyManifest
	case err != nil:
		logger.Error().Err(err).Msg("cannot write index")
		return ExitStorageError
	}
	logger.Info().
		Str("location", st.Location()).
		Str("file", cfg.IndexName).
		Int("rows", rows).
		Msg("index written")

	client := shiphttp.NewClient(shiphttp.Options{
		UserAgent:             cfg.UserAgent,
		ResponseHeaderTimeout: cfg.HeaderTimeout,
	})

	maxDownloads := downloader.Unlimited
	if n, ok := cfg.Limit(); ok {
		maxDownloads = n
	}

	var progressOut io.Writer = stderr
	if cfg.Quiet {
		progressOut = io.Discard
	}

	d := downloader.New(client, st, logger, downloader.Options{
		BaseURL:        cfg.BaseURL,
		Kinds:          cfg.Assets,
		MaxDownloads:   maxDownloads,
		Checksum:       cfg.Checksum,
		ChunkSize:      int(cfg.ChunkSize),
		ProgressOutput: progressOut,
	})

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("assets", kindList(cfg.Assets)).
		Int("max_downloads", maxDownloads).
		Str("chunk_size", progress.FormatBytes(cfg.ChunkSize)).
		Msg("downloading assets")

	res, err := d.Run(ctx, records)
	if err != nil {
		logger.Warn().
			Int("processed", res.Processed).
			Int("downloaded", res.Downloaded).
			Err(err).
			Msg("interrupted, run again to resume")
		return ExitGeneralError
	}

	logger.Info().
		Int("total", res.Total).
		Int("downloaded", res.Downloaded).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Bool("stopped_at_cap", res.Stopped).
		Msg("done")
	return ExitSuccess
}

func kindList(kinds []manifest.Kind) string {
	return strings.Join(manifestKindNames(kinds), ",")
}
