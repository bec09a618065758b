package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/panbanda/jscheck/pkg/builtins"
)

// Config holds all configuration options for jscheck.
type Config struct {
	// Which checks run and on which files
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis" json:"analysis"`

	// Extra host-provided names
	Builtins BuiltinsConfig `koanf:"builtins" toml:"builtins" json:"builtins"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude" json:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache" json:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" json:"output"`
}

// AnalysisConfig controls which checks run. The brace check always runs
// because it gates the scope-based checks.
type AnalysisConfig struct {
	Unused      bool     `koanf:"unused" toml:"unused" json:"unused"`
	Undeclared  bool     `koanf:"undeclared" toml:"undeclared" json:"undeclared"`
	Control     bool     `koanf:"control" toml:"control" json:"control"`
	Extensions  []string `koanf:"extensions" toml:"extensions" json:"extensions"`
	MaxFileSize int64    `koanf:"max_file_size" toml:"max_file_size" json:"max_file_size"` // bytes, 0 = unlimited
}

// BuiltinsConfig adds names to the built-in tables. Defaults are always
// included.
type BuiltinsConfig struct {
	Objects   []string `koanf:"objects" toml:"objects" json:"objects"`
	Functions []string `koanf:"functions" toml:"functions" json:"functions"`
	Methods   []string `koanf:"methods" toml:"methods" json:"methods"`
}

// ExcludeConfig defines file exclusion patterns used when expanding
// directories.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns" json:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs" json:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore" json:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" json:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" json:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" json:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" json:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color" json:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Unused:      true,
			Undeclared:  true,
			Control:     true,
			Extensions:  []string{".js"},
			MaxFileSize: 1 << 20,
		},
		Builtins: BuiltinsConfig{
			Objects:   []string{},
			Functions: []string{},
			Methods:   []string{},
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.bundle.js",
			},
			Dirs: []string{
				"node_modules",
				".git",
				".jscheck",
				"dist",
				"build",
				"vendor",
				"coverage",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".jscheck/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, on top of the defaults. The raw
// document is checked against the config schema before it is decoded.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if err := Validate(k.Raw()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return cfg, nil
}

// LoadResult is a loaded configuration and the file it came from.
type LoadResult struct {
	Config *Config
	// Source is the config file path, empty when defaults were used.
	Source string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
	dirs []string
}

// WithPath loads exactly the given file instead of searching.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithSearchDirs overrides the directories searched for a config file.
func WithSearchDirs(dirs ...string) LoadOption {
	return func(o *loadOptions) {
		o.dirs = dirs
	}
}

// configNames are the file names searched for, in order.
var configNames = []string{
	"jscheck.toml",
	"jscheck.yaml",
	"jscheck.yml",
	"jscheck.json",
	".jscheck.toml",
	".jscheck.yaml",
	".jscheck.yml",
	".jscheck.json",
}

// LoadConfig loads the explicit file given by WithPath, or the first config
// file found in the search directories, or the defaults. An explicit path
// that does not exist is an error; a broken file found by searching is too.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := loadOptions{dirs: []string{".", ".jscheck"}}
	for _, opt := range opts {
		opt(&o)
	}

	if o.path != "" {
		cfg, err := Load(o.path)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Source: o.path}, nil
	}

	for _, dir := range o.dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				return nil, err
			}
			return &LoadResult{Config: cfg, Source: path}, nil
		}
	}

	return &LoadResult{Config: DefaultConfig()}, nil
}

// LoadOrDefault loads the config found by searching, falling back to the
// defaults when there is none or it cannot be loaded.
func LoadOrDefault() *Config {
	result, err := LoadConfig()
	if err != nil {
		return DefaultConfig()
	}
	return result.Config
}

// ShouldExclude checks if a path should be skipped when expanding
// directories.
func (c *Config) ShouldExclude(path string) bool {
	sep := string(filepath.Separator)
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, sep+dir+sep) || strings.HasPrefix(path, dir+sep) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// HasExtension reports whether path has one of the analyzed extensions.
func (c *Config) HasExtension(path string) bool {
	return slices.Contains(c.Analysis.Extensions, strings.ToLower(filepath.Ext(path)))
}

// BuiltinSet returns the built-in name tables extended by the configured
// names.
func (c *Config) BuiltinSet() *builtins.Set {
	return builtins.New(
		builtins.WithObjects(c.Builtins.Objects...),
		builtins.WithFunctions(c.Builtins.Functions...),
		builtins.WithMethods(c.Builtins.Methods...),
	)
}
