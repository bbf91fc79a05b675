// Package config loads the application configuration from TOML.
package config

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"submerge/internal/domain/merge"
	"submerge/internal/errors"
	"submerge/internal/language"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains the HTTP API settings.
type Server struct {
	Bind        string   `toml:"bind"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Storage contains the preset database location.
type Storage struct {
	Dir string `toml:"dir"`
}

// Analyzer selects the segment analyzer backend. The openrouter backend
// additionally reads its API key from the OPENROUTER_API_KEY environment
// variable; the key never lives in the config file.
type Analyzer struct {
	Backend      string   `toml:"backend"`
	Model        string   `toml:"model"`
	BaseURL      string   `toml:"base_url"`
	AllowedHosts []string `toml:"allowed_hosts"`
}

// Watch contains directory watch settings.
type Watch struct {
	Dir          string `toml:"dir"`
	OutputSuffix string `toml:"output_suffix"`
	DebounceMs   int    `toml:"debounce_ms"`
}

// Merge carries the default merge options applied when a request or command
// does not override them.
type Merge struct {
	EnableBasicMerge        bool   `toml:"enable_basic_merge"`
	MaxMergeCount           int    `toml:"max_merge_count"`
	CandidateChunkSize      int    `toml:"candidate_chunk_size"`
	MaxTextLength           int    `toml:"max_text_length"`
	MaxBasicGap             int    `toml:"max_basic_gap"`
	MinTextLength           int    `toml:"min_text_length"`
	EnableSpaceMerge        bool   `toml:"enable_space_merge"`
	EnableDuplicateMerge    bool   `toml:"enable_duplicate_merge"`
	MaxDuplicateGap         int    `toml:"max_duplicate_gap"`
	EnableEndStartMerge     bool   `toml:"enable_end_start_merge"`
	MaxEndStartGap          int    `toml:"max_end_start_gap"`
	EnableMinLengthMerge    bool   `toml:"enable_min_length_merge"`
	EnableMinDurationRemove bool   `toml:"enable_min_duration_remove"`
	MinDurationMs           int    `toml:"min_duration_ms"`
	EnableSegmentAnalyzer   bool   `toml:"enable_segment_analyzer"`
	SegmentAnalyzerLanguage string `toml:"segment_analyzer_language"`
}

// Options converts the section to the domain options record.
func (m Merge) Options() merge.Options {
	return merge.Options{
		EnableBasicMerge:        m.EnableBasicMerge,
		MaxMergeCount:           m.MaxMergeCount,
		CandidateChunkSize:      m.CandidateChunkSize,
		MaxTextLength:           m.MaxTextLength,
		MaxBasicGap:             m.MaxBasicGap,
		MinTextLength:           m.MinTextLength,
		EnableSpaceMerge:        m.EnableSpaceMerge,
		EnableDuplicateMerge:    m.EnableDuplicateMerge,
		MaxDuplicateGap:         m.MaxDuplicateGap,
		EnableEndStartMerge:     m.EnableEndStartMerge,
		MaxEndStartGap:          m.MaxEndStartGap,
		EnableMinLengthMerge:    m.EnableMinLengthMerge,
		EnableMinDurationRemove: m.EnableMinDurationRemove,
		MinDurationMs:           m.MinDurationMs,
		EnableSegmentAnalyzer:   m.EnableSegmentAnalyzer,
		SegmentAnalyzerLanguage: language.Parse(m.SegmentAnalyzerLanguage),
	}
}

// Config encapsulates all configuration for submerge.
type Config struct {
	Server   Server   `toml:"server"`
	Logging  Logging  `toml:"logging"`
	Storage  Storage  `toml:"storage"`
	Analyzer Analyzer `toml:"analyzer"`
	Watch    Watch    `toml:"watch"`
	Merge    Merge    `toml:"merge"`
}

// Default returns the built-in configuration.
func Default() Config {
	opts := merge.DefaultOptions()
	return Config{
		Server:   Server{Bind: "127.0.0.1:8080", CORSOrigins: []string{"*"}},
		Logging:  Logging{Format: "console", Level: "info"},
		Storage:  Storage{Dir: "~/.local/share/submerge"},
		Analyzer: Analyzer{Backend: "heuristic"},
		Watch:    Watch{OutputSuffix: ".merged", DebounceMs: 400},
		Merge: Merge{
			MaxMergeCount:           opts.MaxMergeCount,
			CandidateChunkSize:      opts.CandidateChunkSize,
			MaxTextLength:           opts.MaxTextLength,
			MaxBasicGap:             opts.MaxBasicGap,
			MinTextLength:           opts.MinTextLength,
			MaxDuplicateGap:         opts.MaxDuplicateGap,
			MaxEndStartGap:          opts.MaxEndStartGap,
			MinDurationMs:           opts.MinDurationMs,
			SegmentAnalyzerLanguage: string(opts.SegmentAnalyzerLanguage),
		},
	}
}

// DefaultConfigPath returns the expanded default config file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/submerge/config.toml")
}

// Load reads the configuration at path, or the default location when path
// is empty. A missing file yields the defaults. The bool reports whether a
// file was actually read.
func Load(path string) (Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return Config{}, "", false, err
	}
	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return Config{}, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return Config{}, "", false, errors.Wrap(err, errors.KindConfig, "parse config")
		}
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", false, err
	}
	return cfg, resolved, exists, nil
}

// WriteSample writes the annotated sample configuration to path, refusing
// to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Configf("config file already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func (c *Config) normalize() error {
	var err error
	if c.Storage.Dir != "" {
		if c.Storage.Dir, err = expandPath(c.Storage.Dir); err != nil {
			return err
		}
	}
	if c.Watch.Dir != "" {
		if c.Watch.Dir, err = expandPath(c.Watch.Dir); err != nil {
			return err
		}
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Analyzer.Backend = strings.ToLower(strings.TrimSpace(c.Analyzer.Backend))
	if c.Analyzer.Backend == "" {
		c.Analyzer.Backend = "heuristic"
	}
	c.Merge.SegmentAnalyzerLanguage = string(language.Parse(c.Merge.SegmentAnalyzerLanguage))
	return nil
}

// Validate checks cross-field constraints and the merge option bounds.
func (c Config) Validate() error {
	if c.Server.Bind == "" {
		return errors.Config("server.bind must not be empty")
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return errors.Configf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.Storage.Dir == "" {
		return errors.Config("storage.dir must not be empty")
	}
	if c.Analyzer.Backend != "heuristic" && c.Analyzer.Backend != "openrouter" {
		return errors.Configf("analyzer.backend must be heuristic or openrouter, got %q", c.Analyzer.Backend)
	}
	if c.Watch.DebounceMs < 0 {
		return errors.Configf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMs)
	}
	if c.Watch.OutputSuffix == "" {
		return errors.Config("watch.output_suffix must not be empty")
	}
	return c.Merge.Options().Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return "", false, err
		}
	} else {
		var err error
		if path, err = expandPath(path); err != nil {
			return "", false, err
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return path, !info.IsDir(), nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return filepath.Abs(path)
}
