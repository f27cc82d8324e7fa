package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default eligibility thresholds. Data below 60% tabular, deeper than 4
// levels, or under 0.8 field uniformity rarely saves tokens in TOON form.
const (
	DefaultMinTabularPercent  = 60.0
	DefaultMaxNestedDepth     = 4
	DefaultMinUniformityScore = 0.8
)

// Config represents the complete configuration for the TOON skill.
// Treat a Config shared across in-flight pipeline invocations as read-only:
// updates replace the whole object rather than mutate fields.
type Config struct {
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Encoding   EncodingConfig   `yaml:"encoding"`
	Dev        DevConfig        `yaml:"dev"`
}

// ThresholdsConfig controls the eligibility decision
type ThresholdsConfig struct {
	// MinTabularPercent is the minimum share of arrays (0-100) that must be
	// table-shaped for TOON encoding to be worthwhile.
	MinTabularPercent float64 `yaml:"min_tabular_percent"`
	// MaxNestedDepth is the deepest container nesting still eligible.
	MaxNestedDepth int `yaml:"max_nested_depth"`
	// MinUniformityScore is the minimum mean field-presence ratio (0-1)
	// across candidate tabular arrays.
	MinUniformityScore float64 `yaml:"min_uniformity_score"`
}

// EncodingConfig controls how eligible payloads are encoded
type EncodingConfig struct {
	// LengthMarkers emits explicit [N] array-length markers, which the
	// response sniffer also relies on.
	LengthMarkers bool `yaml:"length_markers"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose bool `yaml:"verbose"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Thresholds: ThresholdsConfig{
			MinTabularPercent:  DefaultMinTabularPercent,
			MaxNestedDepth:     DefaultMaxNestedDepth,
			MinUniformityScore: DefaultMinUniformityScore,
		},
		Encoding: EncodingConfig{
			LengthMarkers: true,
		},
		Dev: DevConfig{
			Debug:   false,
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file. Fields absent from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that threshold values are inside their documented ranges
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.MinTabularPercent < 0 || t.MinTabularPercent > 100 {
		return fmt.Errorf("min_tabular_percent must be between 0 and 100, got %v", t.MinTabularPercent)
	}
	if t.MaxNestedDepth < 0 {
		return fmt.Errorf("max_nested_depth must be non-negative, got %d", t.MaxNestedDepth)
	}
	if t.MinUniformityScore < 0 || t.MinUniformityScore > 1 {
		return fmt.Errorf("min_uniformity_score must be between 0 and 1, got %v", t.MinUniformityScore)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".toonskill.yml", ".toonskill.yaml", "toonskill.yml", "toonskill.yaml"}

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

// ThresholdOverrides carries optional CLI-level threshold overrides.
// Nil fields mean "not set on the command line".
type ThresholdOverrides struct {
	MinTabularPercent  *float64
	MaxNestedDepth     *int
	MinUniformityScore *float64
}

// LoadConfigWithCLI loads config with CLI argument precedence: defaults,
// then the config file when present, then explicit CLI overrides.
func LoadConfigWithCLI(configPath string, overrides ThresholdOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if overrides.MinTabularPercent != nil {
		cfg.Thresholds.MinTabularPercent = *overrides.MinTabularPercent
	}
	if overrides.MaxNestedDepth != nil {
		cfg.Thresholds.MaxNestedDepth = *overrides.MaxNestedDepth
	}
	if overrides.MinUniformityScore != nil {
		cfg.Thresholds.MinUniformityScore = *overrides.MinUniformityScore
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
