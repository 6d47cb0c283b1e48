// Package config defines configuration structures for the shipfetch CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - YAML configuration file (--config)
//
// Flags that were set explicitly win over the file, the file wins over
// [Default]. No environment variables are read.
//
// # Structure
//
//	type Config struct {
//	    JSONFile      string
//	    OutDir        string
//	    IndexName     string
//	    BaseURL       string
//	    UserAgent     string
//	    Assets        []manifest.Kind
//	    MaxDownloads  *int
//	    Checksum      bool
//	    ChunkSize     int64
//	    HeaderTimeout time.Duration
//	    LogLevel      string
//	    Quiet         bool
//	}
//
// # File Format
//
//	json_file: vessels_hear_my_ship.json
//	out_dir: data/
//	assets: [sound, image]
//	max_downloads: 100
//	checksum: true
//	chunk_size: 4MiB
//	header_timeout: 2m
package config
