// Package config loads checker settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/annotation-checker/pkg/exclude"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".annotation-checker.yaml"

// Config mirrors the command line flags. Flags set explicitly override file values.
type Config struct {
	Strict            bool   `yaml:"strict"`
	ExcludeSelf       bool   `yaml:"exclude_self"`
	ExcludeFiles      string `yaml:"exclude_files"`
	ExcludeParameters string `yaml:"exclude_parameters"`
	ExcludeByName     string `yaml:"exclude_by_name"`
	ExclusionComment  string `yaml:"exclusion_comment"`
	LogLevel          string `yaml:"log_level"`
	KeepGoing         bool   `yaml:"keep_going"`
	IgnoreFile        string `yaml:"ignore_file"`

	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the settings used when neither a file nor flags say otherwise.
func Default() *Config {
	return &Config{
		ExclusionComment: exclude.DefaultCommentMarker,
		LogLevel:         "INFO",
		IgnoreFile:       ".annotationignore",
		Debounce:         250 * time.Millisecond,
	}
}

// Load reads path on top of Default. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.ExclusionComment == "" {
		cfg.ExclusionComment = exclude.DefaultCommentMarker
	}
	return cfg, nil
}

// Exclusion converts the settings into an exclusion config.
func (c *Config) Exclusion() exclude.Config {
	return exclude.Config{
		ParameterPattern:      c.ExcludeParameters,
		NamePattern:           c.ExcludeByName,
		ExcludeFirstParameter: c.ExcludeSelf,
		CommentMarker:         c.ExclusionComment,
	}
}
