// Package config provides configuration loading and management for gamegraph.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/gamegraph/batch"
	"github.com/c360studio/gamegraph/export"
	"github.com/c360studio/gamegraph/reconcile"
	"github.com/c360studio/gamegraph/vocabulary/boardgame"
	"github.com/c360studio/gamegraph/vocabulary/wikidata"
	ssconfig "github.com/c360studio/semstreams/config"
	"gopkg.in/yaml.v3"
)

// Config represents the complete gamegraph configuration
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset"`
	Output    OutputConfig    `yaml:"output"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Batch     BatchConfig     `yaml:"batch"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// DatasetConfig locates the board game CSV export
type DatasetConfig struct {
	// Path is a CSV file or a directory containing one
	Path string `yaml:"path"`
	// Pattern selects the CSV inside a directory (default: *.csv)
	Pattern string `yaml:"pattern"`
}

// OutputConfig configures where documents are written
type OutputConfig struct {
	// Dir is the root output directory
	Dir string `yaml:"dir"`
	// Graph is the file name of the serialized graph
	Graph string `yaml:"graph"`
	// Format is "turtle" or "ntriples"
	Format string `yaml:"format"`
	// AgentLinks is the batch directory of agent links, relative to Dir
	AgentLinks string `yaml:"agent_links"`
	// GameLinks is the batch directory of game links, relative to Dir
	GameLinks string `yaml:"game_links"`
}

// ReconcileConfig configures the SPARQL lookups
type ReconcileConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	// Occupations restricts agent matches (Wikidata occupation items)
	Occupations []string `yaml:"occupations"`
	// GameTypes restricts game label matches (Wikidata class items)
	GameTypes []string `yaml:"game_types"`
	// CacheSize is the number of memoized query answers (0 = no cache)
	CacheSize int `yaml:"cache_size"`
}

// BatchConfig configures the resumable link runs
type BatchConfig struct {
	Size               int           `yaml:"size"`
	StartFrom          int           `yaml:"start_from"`
	Delay              time.Duration `yaml:"delay"`
	CalibrationSamples int           `yaml:"calibration_samples"`
	AgentPattern       string        `yaml:"agent_pattern"`
	GamePattern        string        `yaml:"game_pattern"`
}

// MetricsConfig configures run metrics output
type MetricsConfig struct {
	// Textfile receives the metrics of each link run in the node exporter
	// textfile format (empty = disabled)
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path:    "data",
			Pattern: "*.csv",
		},
		Output: OutputConfig{
			Dir:        "output",
			Graph:      "boardgames_final.ttl",
			Format:     string(export.FormatTurtle),
			AgentLinks: filepath.Join("links_batches", "links_agents"),
			GameLinks:  filepath.Join("links_batches", "links_games_ids"),
		},
		Reconcile: ReconcileConfig{
			Endpoint:     wikidata.Endpoint,
			UserAgent:    reconcile.DefaultUserAgent,
			Timeout:      reconcile.DefaultTimeout,
			ProbeTimeout: reconcile.DefaultProbeTimeout,
			Occupations:  wikidata.DefaultOccupations(),
			GameTypes:    wikidata.DefaultGameTypes(),
			CacheSize:    reconcile.DefaultCacheSize,
		},
		Batch: BatchConfig{
			Size:               batch.DefaultSize,
			StartFrom:          0,
			Delay:              batch.DefaultDelay,
			CalibrationSamples: batch.DefaultCalibrationSamples,
			AgentPattern:       "links_%02d.ttl",
			GamePattern:        "links_games_%02d.ttl",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error
	if c.Output.Dir == "" {
		errs = append(errs, fmt.Errorf("output.dir is required"))
	}
	if c.Output.Graph == "" {
		errs = append(errs, fmt.Errorf("output.graph is required"))
	}
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}
	if u, err := url.Parse(c.Reconcile.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("reconcile.endpoint must be an absolute URL, got %q", c.Reconcile.Endpoint))
	}
	if c.Reconcile.Timeout < 0 {
		errs = append(errs, fmt.Errorf("reconcile.timeout must not be negative"))
	}
	if c.Reconcile.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("reconcile.cache_size must not be negative"))
	}
	if c.Batch.Size <= 0 {
		errs = append(errs, fmt.Errorf("batch.size must be positive"))
	}
	if c.Batch.StartFrom < 0 {
		errs = append(errs, fmt.Errorf("batch.start_from must not be negative"))
	}
	if c.Batch.Delay < 0 {
		errs = append(errs, fmt.Errorf("batch.delay must not be negative"))
	}
	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file after expanding
// environment references. Fields absent from the file stay zero; Loader
// layers files over DefaultConfig.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal([]byte(ssconfig.ExpandEnvWithDefaults(string(data))), config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Dataset
	if other.Dataset.Path != "" {
		c.Dataset.Path = other.Dataset.Path
	}
	if other.Dataset.Pattern != "" {
		c.Dataset.Pattern = other.Dataset.Pattern
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.Graph != "" {
		c.Output.Graph = other.Output.Graph
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.AgentLinks != "" {
		c.Output.AgentLinks = other.Output.AgentLinks
	}
	if other.Output.GameLinks != "" {
		c.Output.GameLinks = other.Output.GameLinks
	}

	// Reconcile
	if other.Reconcile.Endpoint != "" {
		c.Reconcile.Endpoint = other.Reconcile.Endpoint
	}
	if other.Reconcile.UserAgent != "" {
		c.Reconcile.UserAgent = other.Reconcile.UserAgent
	}
	if other.Reconcile.Timeout != 0 {
		c.Reconcile.Timeout = other.Reconcile.Timeout
	}
	if other.Reconcile.ProbeTimeout != 0 {
		c.Reconcile.ProbeTimeout = other.Reconcile.ProbeTimeout
	}
	if len(other.Reconcile.Occupations) > 0 {
		c.Reconcile.Occupations = other.Reconcile.Occupations
	}
	if len(other.Reconcile.GameTypes) > 0 {
		c.Reconcile.GameTypes = other.Reconcile.GameTypes
	}
	if other.Reconcile.CacheSize != 0 {
		c.Reconcile.CacheSize = other.Reconcile.CacheSize
	}

	// Batch
	if other.Batch.Size != 0 {
		c.Batch.Size = other.Batch.Size
	}
	if other.Batch.StartFrom != 0 {
		c.Batch.StartFrom = other.Batch.StartFrom
	}
	if other.Batch.Delay != 0 {
		c.Batch.Delay = other.Batch.Delay
	}
	if other.Batch.CalibrationSamples != 0 {
		c.Batch.CalibrationSamples = other.Batch.CalibrationSamples
	}
	if other.Batch.AgentPattern != "" {
		c.Batch.AgentPattern = other.Batch.AgentPattern
	}
	if other.Batch.GamePattern != "" {
		c.Batch.GamePattern = other.Batch.GamePattern
	}

	// Metrics
	if other.Metrics.Textfile != "" {
		c.Metrics.Textfile = other.Metrics.Textfile
	}
}

// GraphPath returns the path of the serialized graph
func (c *Config) GraphPath() string {
	return filepath.Join(c.Output.Dir, c.Output.Graph)
}

// GraphFormat returns the configured graph format
func (c *Config) GraphFormat() (export.Format, error) {
	return export.ParseFormat(c.Output.Format)
}

// AgentBatch returns the runner configuration of the agent link run
func (c *Config) AgentBatch() batch.Config {
	return c.batchConfig(c.Output.AgentLinks, c.Batch.AgentPattern, boardgame.AgentLinkPrefixes())
}

// GameBatch returns the runner configuration of the game link run
func (c *Config) GameBatch() batch.Config {
	return c.batchConfig(c.Output.GameLinks, c.Batch.GamePattern, boardgame.GameLinkPrefixes())
}

func (c *Config) batchConfig(dir, pattern string, prefixes []export.PrefixGroup) batch.Config {
	return batch.Config{
		Dir:                filepath.Join(c.Output.Dir, dir),
		FilePattern:        pattern,
		Prologue:           export.PrologueLines(prefixes...),
		Size:               c.Batch.Size,
		StartFrom:          c.Batch.StartFrom,
		Delay:              c.Batch.Delay,
		CalibrationSamples: c.Batch.CalibrationSamples,
	}
}
