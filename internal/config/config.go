package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ligustah/shipfetch/internal/manifest"
	"github.com/ligustah/shipfetch/internal/progress"
)

// Defaults for the Hear My Ship dataset.
const (
	DefaultBaseURL   = "https://hearmyship.fer.hr/"
	DefaultJSONFile  = "vessels_hear_my_ship.json"
	DefaultOutDir    = "data/"
	DefaultIndexName = "hear_my_ship_index.csv"
	DefaultUserAgent = "dataset-downloader/1.0"
	DefaultChunkSize = 1024 * 1024 // 1MiB
)

// Config defines configuration for the shipfetch CLI.
// It is built once at startup and not modified afterwards.
type Config struct {
	JSONFile      string          `yaml:"json_file"`
	OutDir        string          `yaml:"out_dir"`
	IndexName     string          `yaml:"index_name"`
	BaseURL       string          `yaml:"base_url"`
	UserAgent     string          `yaml:"user_agent"`
	Assets        []manifest.Kind `yaml:"assets"`
	MaxDownloads  *int            `yaml:"max_downloads"` // nil means unlimited
	Checksum      bool            `yaml:"checksum"`
	ChunkSize     int64           `yaml:"chunk_size"`
	HeaderTimeout time.Duration   `yaml:"header_timeout"`
	LogLevel      string          `yaml:"log_level"`
	Quiet         bool            `yaml:"quiet"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		JSONFile:      DefaultJSONFile,
		OutDir:        DefaultOutDir,
		IndexName:     DefaultIndexName,
		BaseURL:       DefaultBaseURL,
		UserAgent:     DefaultUserAgent,
		Assets:        append([]manifest.Kind(nil), manifest.AllKinds...),
		ChunkSize:     DefaultChunkSize,
		HeaderTimeout: 60 * time.Second,
		LogLevel:      "info",
	}
}

// yamlConfig is used for YAML unmarshaling with string sizes and durations.
type yamlConfig struct {
	JSONFile      string   `yaml:"json_file"`
	OutDir        string   `yaml:"out_dir"`
	IndexName     string   `yaml:"index_name"`
	BaseURL       string   `yaml:"base_url"`
	UserAgent     string   `yaml:"user_agent"`
	Assets        []string `yaml:"assets"`
	MaxDownloads  *int     `yaml:"max_downloads"`
	Checksum      bool     `yaml:"checksum"`
	ChunkSize     string   `yaml:"chunk_size"`
	HeaderTimeout string   `yaml:"header_timeout"`
	LogLevel      string   `yaml:"log_level"`
	Quiet         bool     `yaml:"quiet"`
}

// LoadFromFile loads configuration from a YAML file on top of Default.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.JSONFile != "" {
		cfg.JSONFile = yc.JSONFile
	}
	if yc.OutDir != "" {
		cfg.OutDir = yc.OutDir
	}
	if yc.IndexName != "" {
		cfg.IndexName = yc.IndexName
	}
	if yc.BaseURL != "" {
		cfg.BaseURL = yc.BaseURL
	}
	if yc.UserAgent != "" {
		cfg.UserAgent = yc.UserAgent
	}
	if len(yc.Assets) > 0 {
		kinds, err := manifest.ParseKinds(yc.Assets)
		if err != nil {
			return Config{}, fmt.Errorf("parse assets: %w", err)
		}
		cfg.Assets = kinds
	}
	cfg.MaxDownloads = yc.MaxDownloads
	cfg.Checksum = yc.Checksum
	if yc.ChunkSize != "" {
		size, err := progress.ParseBytes(yc.ChunkSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse chunk_size: %w", err)
		}
		cfg.ChunkSize = size
	}
	if yc.HeaderTimeout != "" {
		d, err := time.ParseDuration(yc.HeaderTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse header_timeout: %w", err)
		}
		cfg.HeaderTimeout = d
	}
	if yc.LogLevel != "" {
		cfg.LogLevel = yc.LogLevel
	}
	cfg.Quiet = yc.Quiet

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.JSONFile == "" {
		return errors.New("config: json_file is required")
	}
	if c.OutDir == "" {
		return errors.New("config: out_dir is required")
	}
	if c.IndexName == "" || strings.ContainsAny(c.IndexName, `/\`) {
		return errors.New("config: index_name must be a plain file name")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid base_url %q", c.BaseURL)
	}
	if len(c.Assets) == 0 {
		return errors.New("config: at least one asset kind is required")
	}
	for _, k := range c.Assets {
		if _, err := manifest.ParseKind(string(k)); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.MaxDownloads != nil && *c.MaxDownloads < 0 {
		return errors.New("config: max_downloads must not be negative")
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: chunk_size must be positive")
	}
	if c.HeaderTimeout < 0 {
		return errors.New("config: header_timeout must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Limit returns the download cap and whether one is set.
func (c *Config) Limit() (int, bool) {
	if c.MaxDownloads == nil {
		return 0, false
	}
	return *c.MaxDownloads, true
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.JSONFile != "" {
		c.JSONFile = override.JSONFile
	}
	if override.OutDir != "" {
		c.OutDir = override.OutDir
	}
	if override.IndexName != "" {
		c.IndexName = override.IndexName
	}
	if override.BaseURL != "" {
		c.BaseURL = override.BaseURL
	}
	if override.UserAgent != "" {
		c.UserAgent = override.UserAgent
	}
	if len(override.Assets) > 0 {
		c.Assets = append([]manifest.Kind(nil), override.Assets...)
	}
	if override.MaxDownloads != nil {
		n := *override.MaxDownloads
		c.MaxDownloads = &n
	}
	if override.Checksum {
		c.Checksum = override.Checksum
	}
	if override.ChunkSize != 0 {
		c.ChunkSize = override.ChunkSize
	}
	if override.HeaderTimeout != 0 {
		c.HeaderTimeout = override.HeaderTimeout
	}
	if override.LogLevel != "" {
		c.LogLevel = override.LogLevel
	}
	if override.Quiet {
		c.Quiet = override.Quiet
	}
	return c
}
