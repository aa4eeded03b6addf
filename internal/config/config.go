package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/tidyjson/internal/errors"
	"github.com/mcncl/tidyjson/internal/formatter"
	"github.com/mcncl/tidyjson/internal/logging"
	"github.com/mcncl/tidyjson/internal/serializer"
)

// Config represents the complete configuration for jtidy
type Config struct {
	// Format holds the formatting knobs by their snake_case names. Values
	// of the wrong type or out of range fall back to defaults.
	Format     map[string]any   `yaml:"format"`
	Serializer SerializerConfig `yaml:"serializer"`
	Output     OutputConfig     `yaml:"output"`
	Dev        DevConfig        `yaml:"dev"`
}

// SerializerConfig controls how deep objects are walked. Zero means the
// built-in default.
type SerializerConfig struct {
	MapDepth    int `yaml:"map_depth"`
	SeqDepth    int `yaml:"seq_depth"`
	ObjectDepth int `yaml:"object_depth"`
}

// OutputConfig controls where and how results are written
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Tidy  bool   `yaml:"tidy"`
	Color bool   `yaml:"color"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Format: make(map[string]any),
		Serializer: SerializerConfig{
			MapDepth:    serializer.DefaultMapDepth,
			SeqDepth:    serializer.DefaultSeqDepth,
			ObjectDepth: serializer.DefaultObjectDepth,
		},
		Output: OutputConfig{
			Dir:   ".",
			Tidy:  true,
			Color: false,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file", err)
	}
	if cfg.Format == nil {
		cfg.Format = make(map[string]any)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate puts settings that cannot be given a sensible meaning back to
// their defaults. Nothing is rejected; each fallback is logged at debug.
func (c *Config) Validate() error {
	depths := []struct {
		name string
		val  *int
		def  int
	}{
		{"map_depth", &c.Serializer.MapDepth, serializer.DefaultMapDepth},
		{"seq_depth", &c.Serializer.SeqDepth, serializer.DefaultSeqDepth},
		{"object_depth", &c.Serializer.ObjectDepth, serializer.DefaultObjectDepth},
	}
	for _, d := range depths {
		if *d.val < 0 {
			logging.Default().Debug("negative serializer depth, using default",
				"setting", "serializer."+d.name, "value", *d.val, "default", d.def)
			*d.val = d.def
		}
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jtidy.yml", ".jtidy.yaml", "jtidy.yml", "jtidy.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// FormatOptions resolves the format section into formatter options
func (c *Config) FormatOptions() formatter.Options {
	return formatter.OptionsFromMap(c.Format)
}

// SerializerOptions returns the serializer depth caps
func (c *Config) SerializerOptions() serializer.Options {
	return serializer.Options{
		MapDepth:    c.Serializer.MapDepth,
		SeqDepth:    c.Serializer.SeqDepth,
		ObjectDepth: c.Serializer.ObjectDepth,
	}
}

// MergeConfigs merges CLI overrides into a base config.
// Format keys present in override replace those in base, non-empty strings
// and non-zero depths take precedence, and true booleans are switched on.
func MergeConfigs(base, override *Config) *Config {
	merged := *base // Start with a copy of base

	merged.Format = make(map[string]any, len(base.Format)+len(override.Format))
	for k, v := range base.Format {
		merged.Format[k] = v
	}
	for k, v := range override.Format {
		merged.Format[k] = v
	}

	if override.Serializer.MapDepth != 0 {
		merged.Serializer.MapDepth = override.Serializer.MapDepth
	}
	if override.Serializer.SeqDepth != 0 {
		merged.Serializer.SeqDepth = override.Serializer.SeqDepth
	}
	if override.Serializer.ObjectDepth != 0 {
		merged.Serializer.ObjectDepth = override.Serializer.ObjectDepth
	}

	if override.Output.Dir != "" {
		merged.Output.Dir = override.Output.Dir
	}
	// A boolean flag can't say it was left unset, so only true overrides
	merged.Output.Color = merged.Output.Color || override.Output.Color
	merged.Dev.Debug = merged.Dev.Debug || override.Dev.Debug
	if override.Dev.LogFile != "" {
		merged.Dev.LogFile = override.Dev.LogFile
	}

	return &merged
}

// CLIOverrides carries the command line flags that can override the config
// file. Zero values mean the flag was not given.
type CLIOverrides struct {
	Indent         int
	SpaceBefore    int
	Space          int
	MaxNesting     int
	NoNestingLimit bool
	Sort           bool
	EscapeSlash    bool
	ASCIIOnly      bool
	AllowNaN       bool
	Color          bool
	Debug          bool
	LogFile        string
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI flags, then the config file, then defaults.
func LoadConfigWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	return MergeConfigs(cfg, cli.toConfig()), nil
}

func (o CLIOverrides) toConfig() *Config {
	format := make(map[string]any)
	setInt := func(key string, n int) {
		if n != 0 {
			format[key] = n
		}
	}
	setBool := func(key string, b bool) {
		if b {
			format[key] = true
		}
	}

	setInt("indent", o.Indent)
	setInt("space_before", o.SpaceBefore)
	setInt("space", o.Space)
	setInt("max_nesting", o.MaxNesting)
	if o.NoNestingLimit {
		format["max_nesting"] = 0
	}
	setBool("sort", o.Sort)
	setBool("escape_slash", o.EscapeSlash)
	setBool("ascii_only", o.ASCIIOnly)
	setBool("allow_nan", o.AllowNaN)

	return &Config{
		Format: format,
		Output: OutputConfig{Color: o.Color},
		Dev:    DevConfig{Debug: o.Debug, LogFile: o.LogFile},
	}
}
