// Command shipfetch mirrors the Hear My Ship vessel dataset.
//
// It reads the vessel manifest, writes a flat CSV index of every record and
// then downloads the referenced sound, image and video files into the
// output root, skipping files that are already complete.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ligustah/shipfetch/internal/config"
	"github.com/ligustah/shipfetch/internal/manifest"
	"github.com/ligustah/shipfetch/internal/progress"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidArgs   = 2
	ExitManifestError = 3
	ExitEmptyManifest = 4
	ExitStorageError  = 5
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := ExitSuccess
	cmd := newRootCommand(stderr, &code, fetch)
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}
	return code
}

// flagValues holds raw flag input before it is merged into a Config.
type flagValues struct {
	configFile   string
	jsonFile     string
	outDir       string
	indexName    string
	baseURL      string
	chunkSize    string
	logLevel     string
	maxDownloads int
	checksum     bool
	quiet        bool
	assets       []string
}

// runFunc executes a validated configuration and returns the exit code.
type runFunc func(ctx context.Context, cfg config.Config, stderr io.Writer) int

func newRootCommand(stderr io.Writer, code *int, exec runFunc) *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:   "shipfetch [flags]",
		Short: "Build the Hear My Ship index and download its media files",
		Long: `Reads the vessel manifest, writes a CSV index of every record to the
output root and downloads the referenced assets. Files whose size already
matches the server are skipped, so an interrupted run can simply be repeated.

The output root is a local directory or a bucket URL (s3://, gs://, mem://).`,
		Example: `  shipfetch --max-downloads 10
  shipfetch --assets sound image --checksum
  shipfetch --out-dir s3://my-bucket?region=eu-central-1 --assets video`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd.Flags(), fv, args)
			if err != nil {
				return err
			}
			*code = exec(cmd.Context(), cfg, stderr)
			return nil
		},
	}

	f := cmd.Flags()
	f.SortFlags = false
	f.StringVar(&fv.jsonFile, "json-file", config.DefaultJSONFile, "Path to the vessel manifest (JSON array)")
	f.StringVar(&fv.outDir, "out-dir", config.DefaultOutDir, "Output root: directory or bucket URL")
	f.IntVar(&fv.maxDownloads, "max-downloads", 0, "Stop after this many new downloads (default unlimited)")
	f.BoolVar(&fv.checksum, "checksum", false, "Log the SHA-256 of every downloaded file")
	f.StringSliceVar(&fv.assets, "assets", manifestKindNames(manifest.AllKinds), "Asset kinds to download: sound, image, video")
	f.StringVar(&fv.configFile, "config", "", "YAML configuration file")
	f.StringVar(&fv.baseURL, "base-url", config.DefaultBaseURL, "Dataset server root")
	f.StringVar(&fv.indexName, "index-name", config.DefaultIndexName, "File name of the CSV index inside the output root")
	f.StringVar(&fv.chunkSize, "chunk-size", progress.FormatBytes(config.DefaultChunkSize), "Streaming chunk size (e.g. 512KiB, 4MiB)")
	f.StringVar(&fv.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.BoolVar(&fv.quiet, "quiet", false, "Hide the progress bar")

	return cmd
}

// buildConfig layers defaults, the optional YAML file and explicitly set
// flags, in that order. Positional arguments continue the --assets list.
func buildConfig(flags *pflag.FlagSet, fv flagValues, args []string) (config.Config, error) {
	cfg := config.Default()
	if fv.configFile != "" {
		var err error
		cfg, err = config.LoadFromFile(fv.configFile)
		if err != nil {
			return config.Config{}, err
		}
	}

	var override config.Config
	if flags.Changed("json-file") {
		override.JSONFile = fv.jsonFile
	}
	if flags.Changed("out-dir") {
		override.OutDir = fv.outDir
	}
	if flags.Changed("index-name") {
		override.IndexName = fv.indexName
	}
	if flags.Changed("base-url") {
		override.BaseURL = fv.baseURL
	}
	if flags.Changed("log-level") {
		override.LogLevel = fv.logLevel
	}
	if flags.Changed("max-downloads") {
		n := fv.maxDownloads
		override.MaxDownloads = &n
	}
	if flags.Changed("chunk-size") {
		size, err := progress.ParseBytes(fv.chunkSize)
		if err != nil {
			return config.Config{}, fmt.Errorf("invalid --chunk-size %q: %w", fv.chunkSize, err)
		}
		if size == 0 {
			return config.Config{}, fmt.Errorf("invalid --chunk-size %q", fv.chunkSize)
		}
		override.ChunkSize = size
	}

	switch {
	case flags.Changed("assets"):
		names := append([]string(nil), fv.assets...)
		for _, a := range args {
			names = append(names, strings.Split(a, ",")...)
		}
		kinds, err := manifest.ParseKinds(names)
		if err != nil {
			return config.Config{}, fmt.Errorf("invalid --assets: %w", err)
		}
		override.Assets = kinds
	case len(args) > 0:
		return config.Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}

	cfg = cfg.Merge(override)

	// Booleans are applied directly so an explicit false can override the file.
	if flags.Changed("checksum") {
		cfg.Checksum = fv.checksum
	}
	if flags.Changed("quiet") {
		cfg.Quiet = fv.quiet
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func manifestKindNames(kinds []manifest.Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
