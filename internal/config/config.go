package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a config file holds values out of range.
var ErrInvalid = errors.New("config: invalid configuration")

// ProjectConfig holds project-level settings loaded from segagree.yml.
type ProjectConfig struct {
	// Reference names the coder whose segmentations fix one window size
	// for a whole corpus. Empty means per-document window sizes.
	Reference string `yaml:"reference,omitempty"`
	// WindowSize fixes the window size outright. Zero derives it.
	WindowSize int `yaml:"windowSize,omitempty" validate:"gte=0"`
	// Coders restricts computations to the listed coders.
	Coders []string `yaml:"coders,omitempty" validate:"dive,required"`
	// Interval is the confidence interval used for error margins.
	Interval float64 `yaml:"interval,omitempty"`
	// Expected selects the strict chance model: pi or kappa.
	Expected string `yaml:"expected,omitempty" validate:"omitempty,oneof=pi kappa"`
	// GoldMode selects exact or near gold derivation.
	GoldMode  string `yaml:"goldMode,omitempty" validate:"omitempty,oneof=exact near"`
	LogLevel  string `yaml:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFile   string `yaml:"logFile,omitempty"`
	Workers   int    `yaml:"workers,omitempty" validate:"gte=0"`
	OutputDir string `yaml:"outputDir,omitempty"`
}

var validate = validator.New()

// Load attempts to read segagree.yml or segagree.yaml from the given
// directory. Returns a config holding only defaults (not an error) if no
// config file exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"segagree.yml", "segagree.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg.applyDefaults()
		return &cfg, nil
	}
	cfg := &ProjectConfig{}
	cfg.applyDefaults()
	return cfg, nil
}

// Validate checks the configured values.
func (c *ProjectConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	// oneof does not apply to floats.
	switch c.Interval {
	case 0, 0.95, 0.5:
		return nil
	default:
		return fmt.Errorf("%w: interval must be 0.95 or 0.5, got %v", ErrInvalid, c.Interval)
	}
}

func (c *ProjectConfig) applyDefaults() {
	if c.Interval == 0 {
		c.Interval = 0.95
	}
	if c.Expected == "" {
		c.Expected = "pi"
	}
	if c.GoldMode == "" {
		c.GoldMode = "exact"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
