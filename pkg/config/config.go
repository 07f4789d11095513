package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for junoscan.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Names never reported as unused
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// AnalysisConfig controls what a run reports.
type AnalysisConfig struct {
	// LogFilter keeps only log records about entities whose identifier
	// contains this substring.
	LogFilter string `koanf:"log_filter" toml:"log_filter"`
	// Types limits the unused report to these entity types. Empty means all.
	Types []string `koanf:"types" toml:"types"`
	// Cycles enables the reference cycle section.
	Cycles bool `koanf:"cycles" toml:"cycles"`
	// Dangling enables the undeclared reference section.
	Dangling bool `koanf:"dangling" toml:"dangling"`
}

// ExcludeConfig holds glob patterns, per entity type, for names that are
// never reported as unused. The "*" key applies to every type.
type ExcludeConfig struct {
	Names map[string][]string `koanf:"names" toml:"names"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, toon, yaml
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
	JSONLog bool   `koanf:"json_log" toml:"json_log"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Types:    []string{},
			Cycles:   true,
			Dangling: true,
		},
		Exclude: ExcludeConfig{
			Names: map[string][]string{},
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     ".junoscan/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"junoscan.toml",
		"junoscan.yaml",
		"junoscan.yml",
		"junoscan.json",
		".junoscan.toml",
		".junoscan.yaml",
		".junoscan.yml",
		".junoscan.json",
	}

	searchDirs := []string{".", ".junoscan"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				cfg, err := Load(p)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude reports whether name, of the given entity type, matches an
// exclusion pattern for that type or for every type.
func (c *Config) ShouldExclude(entityType, name string) bool {
	for _, key := range []string{entityType, "*"} {
		for _, pattern := range c.Exclude.Names[key] {
			if matched, _ := path.Match(pattern, name); matched {
				return true
			}
		}
	}
	return false
}

// ReportsType reports whether entityType is part of the unused report.
func (c *Config) ReportsType(entityType string) bool {
	if len(c.Analysis.Types) == 0 {
		return true
	}
	for _, t := range c.Analysis.Types {
		if strings.EqualFold(strings.TrimSpace(t), entityType) {
			return true
		}
	}
	return false
}
